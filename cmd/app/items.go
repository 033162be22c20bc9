package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/maloquacious/todo/internal/store"
	"github.com/maloquacious/todo/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add a task",
		Example: `  app add "Buy milk"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := store.NormalizeValue(strings.Join(args, " "))
			if err != nil {
				return err
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			item, err := s.Create(cmd.Context(), value)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", item.ID)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:     "ls [filter]",
		Aliases: []string{"list"},
		Short:   "List open tasks, optionally those containing filter",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			switch {
			case a.jsonOut:
				return writeJSON(cmd, items)
			case asYAML:
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(items)
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", it.ID, it.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "output in YAML format")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := store.NormalizeValue(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.Update(cmd.Context(), id, value)
			return a.report(cmd, "updated", id, ok, err)
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.Delete(cmd.Context(), id)
			return a.report(cmd, "removed", id, ok, err)
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.SetDone(cmd.Context(), id, true)
			return a.report(cmd, "done", id, ok, err)
		},
	}
}

func newTUICmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = a.cfg.UserName
			}

			s, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(cmd.Context(), s, strings.TrimSpace(name))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name; skips the name prompt (default: user_name from config)")
	return cmd
}

// report prints the outcome of a single-row change. Zero affected rows
// is reported as store.ErrNotFound so the command exits non-zero.
func (a *app) report(cmd *cobra.Command, verb string, id int64, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item %d: %w", id, store.ErrNotFound)
	}
	if a.jsonOut {
		return writeJSON(cmd, map[string]any{"id": id, "status": verb})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", verb, id)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
