package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/maloquacious/todo/internal/logger"
	"github.com/maloquacious/todo/internal/store"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements store.Store and store.ItemRepository using modernc.org/sqlite.
// All calls are serialized on mu, so there is a single writer per store.
type SQLiteStore struct {
	mu     sync.Mutex
	dbPath string
	db     *sql.DB
	target int
	log    logger.Logger
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a new SQLiteStore. The database is not opened until Open.
func New(dbPath string, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		dbPath: dbPath,
		target: TargetVersion(),
		log:    logger.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// TargetVersion returns the schema version EnsureSchema migrates to.
func (s *SQLiteStore) TargetVersion() int {
	return s.target
}

// connPragmas are applied by the driver to every new connection.
// journal_mode is owned by the migrations.
var connPragmas = []string{
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// dsn builds the modernc connection string for path.
func dsn(path string) string {
	q := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		q = append(q, "_pragma="+p)
	}
	return path + "?" + strings.Join(q, "&")
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", dsn(s.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	s.db = db
	s.log.Debug("opened database %s", s.dbPath)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// EnsureSchema brings the database up to the target version.
// Steps above the stored version run in ascending order; the new version is
// committed in the same transaction as the statements, so a failed run
// leaves the stored version unchanged and can be repeated.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return store.ErrNotOpen
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current >= s.target {
		s.log.Debug("schema up to date at version %d", current)
		return nil
	}

	steps := pendingMigrations(current, s.target)

	for _, m := range steps {
		for _, pragma := range m.pragmas {
			if _, err := s.db.ExecContext(ctx, pragma); err != nil {
				return fmt.Errorf("migration %d (%s): pragma %q: %w", m.version, m.name, pragma, err)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range steps {
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
	}

	// PRAGMA cannot be parameterized.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", s.target)); err != nil {
		return fmt.Errorf("failed to stamp schema version %d: %w", s.target, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("migrated schema from version %d to %d", current, s.target)
	return nil
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.StoreState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return store.StateMissing, store.ErrNotOpen
	}

	version, err := s.schemaVersion(ctx)
	if err != nil {
		return store.StateUninitialized, err
	}

	switch {
	case version == 0:
		return store.StateUninitialized, nil
	case version != s.target:
		return store.StateVersionMismatch, nil
	}
	return store.StateReady, nil
}

// SchemaVersion returns the current schema version from the database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, store.ErrNotOpen
	}
	return s.schemaVersion(ctx)
}

// schemaVersion reads user_version; the caller holds mu.
func (s *SQLiteStore) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}
