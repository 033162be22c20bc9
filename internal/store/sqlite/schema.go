package sqlite

// migration moves the schema to version. Pragmas cannot run inside a
// transaction and are applied before the statements.
type migration struct {
	version    int
	name       string
	pragmas    []string
	statements []string
}

// migrations must stay sorted by version; every step is idempotent.
var migrations = []migration{
	{
		version: 1,
		name:    "create_items",
		pragmas: []string{
			"PRAGMA journal_mode=WAL",
		},
		statements: []string{
			`CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    done INTEGER NOT NULL DEFAULT 0,
    value TEXT NOT NULL
);`,
		},
	},
}

// TargetVersion is the schema version this build expects.
func TargetVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].version
}

// pendingMigrations returns the steps between current (exclusive) and target (inclusive).
func pendingMigrations(current, target int) []migration {
	var steps []migration
	for _, m := range migrations {
		if m.version > current && m.version <= target {
			steps = append(steps, m)
		}
	}
	return steps
}
