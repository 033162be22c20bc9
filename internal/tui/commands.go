package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/maloquacious/todo/internal/store"
)

// itemsLoadedMsg carries a fresh snapshot for the filter it was read with.
type itemsLoadedMsg struct {
	filter string
	items  []store.Item
}

// mutatedMsg reports a finished create/update/delete/done call.
type mutatedMsg struct {
	op    string
	id    int64
	found bool
}

// errMsg reports a failed repository call.
type errMsg struct {
	op  string
	err error
}

const (
	opCreate = "add"
	opUpdate = "edit"
	opDelete = "delete"
	opDone   = "done"
	opList   = "list"
)

func fetchCmd(ctx context.Context, repo store.ItemRepository, filter string) tea.Cmd {
	return func() tea.Msg {
		items, err := repo.List(ctx, filter)
		if err != nil {
			return errMsg{op: opList, err: err}
		}
		return itemsLoadedMsg{filter: filter, items: items}
	}
}

func createCmd(ctx context.Context, repo store.ItemRepository, value string) tea.Cmd {
	return func() tea.Msg {
		item, err := repo.Create(ctx, value)
		if err != nil {
			return errMsg{op: opCreate, err: err}
		}
		return mutatedMsg{op: opCreate, id: item.ID, found: true}
	}
}

func updateCmd(ctx context.Context, repo store.ItemRepository, id int64, value string) tea.Cmd {
	return func() tea.Msg {
		ok, err := repo.Update(ctx, id, value)
		if err != nil {
			return errMsg{op: opUpdate, err: err}
		}
		return mutatedMsg{op: opUpdate, id: id, found: ok}
	}
}

func deleteCmd(ctx context.Context, repo store.ItemRepository, id int64) tea.Cmd {
	return func() tea.Msg {
		ok, err := repo.Delete(ctx, id)
		if err != nil {
			return errMsg{op: opDelete, err: err}
		}
		return mutatedMsg{op: opDelete, id: id, found: ok}
	}
}

func doneCmd(ctx context.Context, repo store.ItemRepository, id int64) tea.Cmd {
	return func() tea.Msg {
		ok, err := repo.SetDone(ctx, id, true)
		if err != nil {
			return errMsg{op: opDone, err: err}
		}
		return mutatedMsg{op: opDone, id: id, found: ok}
	}
}
