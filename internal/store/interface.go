package store

import (
	"context"
	"errors"
	"strings"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninitialized                     // File exists but no schema
	StateVersionMismatch                   // Schema exists but wrong version
	StateReady                             // Initialized and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateVersionMismatch:
		return "version-mismatch"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

var (
	ErrNotOpen    = errors.New("database not opened")
	ErrNotFound   = errors.New("item not found")
	ErrEmptyValue = errors.New("item value is empty")
)

// Item is a single task entry.
type Item struct {
	ID    int64  `json:"id" yaml:"id"`
	Done  bool   `json:"done" yaml:"done"`
	Value string `json:"value" yaml:"value"`
}

// Store defines the schema lifecycle of the datastore.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open(ctx context.Context) error

	// Close closes the datastore connection
	Close() error

	// EnsureSchema applies any missing migrations and stamps the target version
	EnsureSchema(ctx context.Context) error

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)

	// SchemaVersion returns the schema version stored in the database
	SchemaVersion(ctx context.Context) (int, error)
}

// ItemRepository is the data-access contract for task items.
// Update, SetDone and Delete report whether a row was affected;
// an absent id is not an error.
type ItemRepository interface {
	Create(ctx context.Context, value string) (Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, filter string) ([]Item, error)
	Update(ctx context.Context, id int64, value string) (bool, error)
	SetDone(ctx context.Context, id int64, done bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// NormalizeValue trims the task text and rejects blank input.
// Callers run it before Create and Update.
func NormalizeValue(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", ErrEmptyValue
	}
	return v, nil
}
