package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/maloquacious/semver"
	"github.com/maloquacious/todo/internal/config"
	"github.com/maloquacious/todo/internal/logger"
	"github.com/maloquacious/todo/internal/store"
	"github.com/maloquacious/todo/internal/store/sqlite"
	"github.com/spf13/cobra"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = ""
)

// app holds the global flag values and the state resolved before each command runs.
type app struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonOut   bool

	cfg config.Config
	log *logger.CharmLogger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "app",
		Short:        "A small task list backed by SQLite",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", config.DefaultConfigDir, "configuration directory")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: data_dir from config)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default: log_level from config)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in JSON format")

	rootCmd.AddCommand(
		newDBCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newDoneCmd(a),
		newTUICmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger; flags win over config.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = logger.New(cmd.ErrOrStderr(), logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	return nil
}

func (a *app) dbPath() string {
	return store.GetDBPath(a.cfg.DataDir, a.cfg.DBFile)
}

// openStore opens the datastore. With create set a missing file is created;
// otherwise a missing file is an error.
func (a *app) openStore(ctx context.Context, create bool) (*sqlite.SQLiteStore, error) {
	path := a.dbPath()
	exists, err := store.CheckExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if !create {
			return nil, fmt.Errorf("datastore not found at %s (run 'app db create')", path)
		}
		if err := store.EnsureDataDir(path); err != nil {
			return nil, err
		}
	}

	s := sqlite.New(path, sqlite.WithLogger(a.log))
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// openRepository opens the datastore and brings its schema up to date,
// which must happen before any item operation.
func (a *app) openRepository(ctx context.Context) (*sqlite.SQLiteStore, error) {
	s, err := a.openStore(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("initialize datastore: %w", err)
	}
	return s, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]any{
				"version":       version.String(),
				"schemaVersion": sqlite.TargetVersion(),
				"buildDate":     buildDate,
			}
			if a.jsonOut {
				return writeJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (schema %d)\n", version.String(), sqlite.TargetVersion())
			return nil
		},
	}
}
