package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maloquacious/todo/internal/store"
)

const (
	insertItemSQL  = `INSERT INTO items (done, value) VALUES (?, ?)`
	selectItemSQL  = `SELECT id, done, value FROM items WHERE id = ?`
	listItemsSQL   = `SELECT id, done, value FROM items WHERE done = 0 AND (? = '' OR instr(value, ?) > 0) ORDER BY id`
	updateValueSQL = `UPDATE items SET value = ? WHERE id = ?`
	updateDoneSQL  = `UPDATE items SET done = ? WHERE id = ?`
	deleteItemSQL  = `DELETE FROM items WHERE id = ?`
)

// Create inserts an open item and returns it with its assigned id.
// The value is stored as given; callers normalize it first.
func (s *SQLiteStore) Create(ctx context.Context, value string) (store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return store.Item{}, store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, insertItemSQL, false, value)
	if err != nil {
		return store.Item{}, fmt.Errorf("failed to insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return store.Item{}, fmt.Errorf("failed to read item id: %w", err)
	}

	s.log.Debug("created item %d", id)
	return store.Item{ID: id, Value: value}, nil
}

// Get returns the item with the given id or store.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return store.Item{}, store.ErrNotOpen
	}

	var item store.Item
	err := s.db.QueryRowContext(ctx, selectItemSQL, id).Scan(&item.ID, &item.Done, &item.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Item{}, fmt.Errorf("item %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.Item{}, fmt.Errorf("failed to query item %d: %w", id, err)
	}
	return item, nil
}

// List returns the open items whose value contains filter, in insertion order.
// The match is a case-sensitive substring test; an empty filter matches all.
// The read runs in a read-only transaction so the rows come from one
// snapshot; mu keeps other store callers out while it is open.
func (s *SQLiteStore) List(ctx context.Context, filter string) ([]store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, listItemsSQL, filter, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []store.Item{}
	for rows.Next() {
		var item store.Item
		if err := rows.Scan(&item.ID, &item.Done, &item.Value); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return items, nil
}

// Update replaces the value of an item. It reports false if no row has id.
func (s *SQLiteStore) Update(ctx context.Context, id int64, value string) (bool, error) {
	return s.exec(ctx, "update item", updateValueSQL, value, id)
}

// SetDone marks an item done or open. It reports false if no row has id.
func (s *SQLiteStore) SetDone(ctx context.Context, id int64, done bool) (bool, error) {
	return s.exec(ctx, "set item done", updateDoneSQL, done, id)
}

// Delete removes an item. It reports false if no row has id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	return s.exec(ctx, "delete item", deleteItemSQL, id)
}

// exec runs a single-row statement and reports whether a row was affected.
func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false, store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		s.log.Debug("%s: no row matched", op)
	}
	return n > 0, nil
}

var (
	_ store.Store          = (*SQLiteStore)(nil)
	_ store.ItemRepository = (*SQLiteStore)(nil)
)
