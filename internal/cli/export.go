package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/site-glue/internal/store"
	"github.com/spf13/cobra"
)

func newExportCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored values",
		Long:  "Export the stored preference and session values. Restrict to the current session with --session-only.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessionOnly, _ := cmd.Flags().GetBool("session-only")

			s, err := rt.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			scope := ""
			if sessionOnly {
				scope = store.SessionScope(rt.cfg.Session)
			}
			entries, err := s.ExportAll(cmd.Context(), scope)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if entries == nil {
				entries = []store.Entry{}
			}
			return rt.print(cmd, entries)
		},
	}

	cmd.Flags().Bool("session-only", false, "Only export the current session")

	return cmd
}

func newImportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import stored values from JSON",
		Long:  "Import stored values from JSON on stdin. Expects the format produced by export.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readPiped(cmd)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			var entries []store.Entry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("parse json: %w", err)
			}

			s, err := rt.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imported, err := s.Import(cmd.Context(), entries)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return rt.print(cmd, map[string]any{"ok": true, "imported": imported})
		},
	}
}
