package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(cmd.Context(), rt.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			return rt.print(cmd, stats)
		},
	}
}
