package main

import (
	"fmt"

	"github.com/maloquacious/todo/internal/config"
	"github.com/maloquacious/todo/internal/store"
	"github.com/maloquacious/todo/internal/store/sqlite"
	"github.com/spf13/cobra"
)

func newDBCmd(a *app) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create and initialize the datastore",
		RunE:  a.runDBCreate,
	}
	dbUpgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Apply migrations to current schema version",
		RunE:  a.runDBUpgrade,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify schema integrity and version",
		RunE:  a.runDBVerify,
	}

	dbCmd.AddCommand(dbCreateCmd, dbUpgradeCmd, dbVerifyCmd)
	return dbCmd
}

// runDBCreate writes a default config.yaml if there is none, then creates
// the database file and applies the schema.
func (a *app) runDBCreate(cmd *cobra.Command, args []string) error {
	created, err := config.WriteIfMissing(a.configDir, a.cfg)
	if err != nil {
		return err
	}
	if created {
		a.log.Info("wrote %s", config.Path(a.configDir))
	}

	s, err := a.openStore(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("db create: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "datastore ready at %s (schema %d)\n", s.Path(), s.TargetVersion())
	return nil
}

func (a *app) runDBUpgrade(cmd *cobra.Command, args []string) error {
	s, err := a.openStore(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	before, err := s.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}
	if err := s.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("db upgrade: %w", err)
	}
	after, err := s.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}

	if before == after {
		fmt.Fprintf(cmd.OutOrStdout(), "schema already at version %d\n", after)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema upgraded from version %d to %d\n", before, after)
	return nil
}

type verifyReport struct {
	Path          string `json:"path"`
	State         string `json:"state"`
	SchemaVersion int    `json:"schemaVersion"`
	TargetVersion int    `json:"targetVersion"`
	Version       string `json:"version"`
}

// runDBVerify reports the datastore state. A missing file is reported, not an error;
// any state other than ready makes the command fail.
func (a *app) runDBVerify(cmd *cobra.Command, args []string) error {
	report := verifyReport{
		Path:          a.dbPath(),
		State:         store.StateMissing.String(),
		TargetVersion: sqlite.TargetVersion(),
		Version:       version.String(),
	}

	state := store.StateMissing
	exists, err := store.CheckExists(report.Path)
	if err != nil {
		return err
	}
	if exists {
		s, err := a.openStore(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()

		if state, err = s.CheckState(cmd.Context()); err != nil {
			return err
		}
		if report.SchemaVersion, err = s.SchemaVersion(cmd.Context()); err != nil {
			return err
		}
		report.State = state.String()
	}

	if a.jsonOut {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "path:    %s\nstate:   %s\nschema:  %d (target %d)\n",
			report.Path, report.State, report.SchemaVersion, report.TargetVersion)
	}

	if state != store.StateReady {
		return fmt.Errorf("datastore is %s", state)
	}
	return nil
}
