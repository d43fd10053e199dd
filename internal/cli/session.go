package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rcliao/site-glue/internal/model"
	"github.com/spf13/cobra"
)

func newSessionCommand(rt *runtime) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Session-scoped signup forms",
	}

	sessionCmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Start a new session and print its id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := rt.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				id, err := s.NewSession(cmd.Context())
				if err != nil {
					return fmt.Errorf("new session: %w", err)
				}
				return rt.print(cmd, map[string]string{"session": id})
			},
		},
		&cobra.Command{
			Use:   "get <name>",
			Short: "Show a signup form (" + formNames() + ")",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, s, err := rt.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				c, ok := a.SignupCell(args[0])
				if !ok {
					return fmt.Errorf("session get: unknown form %q (use %s)", args[0], formNames())
				}
				return rt.print(cmd, c.Get())
			},
		},
		&cobra.Command{
			Use:   "set <name> [json]",
			Short: "Replace a signup form. JSON can be a positional arg or piped via stdin.",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var raw string
				if len(args) > 1 {
					raw = args[1]
				} else {
					b, err := readPiped(cmd)
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					raw = string(b)
				}
				if strings.TrimSpace(raw) == "" {
					return errors.New("session set: form JSON is required (positional arg or stdin)")
				}

				var form model.SignupForm
				if err := json.Unmarshal([]byte(raw), &form); err != nil {
					return fmt.Errorf("session set: form must be a JSON object: %w", err)
				}

				a, s, err := rt.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				c, ok := a.SignupCell(args[0])
				if !ok {
					return fmt.Errorf("session set: unknown form %q (use %s)", args[0], formNames())
				}
				c.Set(form)
				return rt.print(cmd, c.Get())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every value stored for the session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := rt.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				n, err := s.ClearSession(cmd.Context(), rt.cfg.Session)
				if err != nil {
					return fmt.Errorf("session clear: %w", err)
				}
				return rt.print(cmd, map[string]any{"session": rt.cfg.Session, "cleared": n})
			},
		},
	)

	return sessionCmd
}

func formNames() string {
	names := make([]string, 0, len(model.SessionKeys))
	for k := range model.SessionKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// readPiped reads the command's input unless it is an interactive terminal.
func readPiped(cmd *cobra.Command) ([]byte, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}
	return io.ReadAll(in)
}
