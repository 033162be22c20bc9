package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/maloquacious/todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(items []store.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value)
	}
	return out
}

func TestCreateListRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	created, err := s.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, store.Item{ID: created.ID, Done: false, Value: "Buy milk"}, items[0])
}

func TestListEmpty(t *testing.T) {
	s := setupStore(t)
	items, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListSubstringFilter(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, v := range []string{"Buy milk", "Buy bread", "Walk dog"} {
		_, err := s.Create(ctx, v)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{name: "prefix", filter: "Buy", want: []string{"Buy milk", "Buy bread"}},
		{name: "empty matches all", filter: "", want: []string{"Buy milk", "Buy bread", "Walk dog"}},
		{name: "no match", filter: "zzz", want: []string{}},
		{name: "middle", filter: "al", want: []string{"Walk dog"}},
		{name: "case sensitive", filter: "buy", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values(items))
		})
	}
}

func TestListFilterIsLiteral(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, v := range []string{"100% done", "snake_case", "it's quoted", `"; DROP TABLE items; --`, "plain"} {
		_, err := s.Create(ctx, v)
		require.NoError(t, err)
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "%", want: []string{"100% done"}},
		{filter: "_", want: []string{"snake_case"}},
		{filter: "'", want: []string{"it's quoted"}},
		{filter: "DROP", want: []string{`"; DROP TABLE items; --`}},
	}

	for _, tt := range tests {
		items, err := s.List(ctx, tt.filter)
		require.NoError(t, err)
		assert.Equal(t, tt.want, values(items), "filter %q", tt.filter)
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5, "injection-looking text is stored as data")
}

func TestCreateDuplicatesAreDistinct(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	a, err := s.Create(ctx, "Dup")
	require.NoError(t, err)
	b, err := s.Create(ctx, "Dup")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	items, err := s.List(ctx, "Dup")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	created, err := s.Create(ctx, "A")
	require.NoError(t, err)

	ok, err := s.Update(ctx, created.ID, "B")
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "B", items[0].Value)

	none, err := s.List(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	first, err := s.Create(ctx, "Dup")
	require.NoError(t, err)
	second, err := s.Create(ctx, "Dup")
	require.NoError(t, err)

	ok, err := s.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)
}

func TestAbsentIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	kept, err := s.Create(ctx, "keep me")
	require.NoError(t, err)

	ok, err := s.Update(ctx, 999999, "changed")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SetDone(ctx, 999999, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []store.Item{kept}, items)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	first, err := s.Create(ctx, "one")
	require.NoError(t, err)
	_, err = s.Delete(ctx, first.ID)
	require.NoError(t, err)

	second, err := s.Create(ctx, "two")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestSetDoneHidesFromList(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	a, err := s.Create(ctx, "a")
	require.NoError(t, err)
	b, err := s.Create(ctx, "b")
	require.NoError(t, err)

	ok, err := s.SetDone(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []store.Item{b}, items)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)

	ok, err = s.SetDone(ctx, a.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	created, err := s.Create(ctx, "find me")
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConcurrentCallersAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	const writers, perWriter = 8, 10
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := s.Create(ctx, "task"); err != nil {
					t.Error(err)
					return
				}
				if _, err := s.List(ctx, "task"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	items, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, writers*perWriter)
}
