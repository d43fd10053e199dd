package cli

import (
	"fmt"

	"github.com/rcliao/site-glue/internal/model"
	"github.com/spf13/cobra"
)

func newPrefCommand(rt *runtime) *cobra.Command {
	prefCmd := &cobra.Command{
		Use:   "pref",
		Short: "Display preference",
	}

	prefCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the stored color mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, s, err := rt.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				return rt.print(cmd, map[string]model.ColorMode{model.ColorModeKey: a.ColorMode.Get()})
			},
		},
		&cobra.Command{
			Use:       "set <mode>",
			Short:     "Set the color mode: auto, light or dark",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"auto", "light", "dark"},
			RunE: func(cmd *cobra.Command, args []string) error {
				mode, err := model.ParseColorMode(args[0])
				if err != nil {
					return fmt.Errorf("pref set: %w", err)
				}

				a, s, err := rt.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				a.ColorMode.Set(mode)
				return rt.print(cmd, map[string]model.ColorMode{model.ColorModeKey: a.ColorMode.Get()})
			},
		},
	)

	return prefCmd
}
