// Package cli implements the site-glue CLI commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rcliao/site-glue/internal/app"
	"github.com/rcliao/site-glue/internal/cms"
	"github.com/rcliao/site-glue/internal/config"
	"github.com/rcliao/site-glue/internal/store"
	"github.com/spf13/cobra"
)

// runtime carries what the persistent pre-run loads to the subcommands.
type runtime struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd creates the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rt := &runtime{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rootCmd := &cobra.Command{
		Use:   "site-glue",
		Short: "Content and preference access for the website",
		Long:  "Fetch pages, posts, chapters and JSON content from the CMS, and manage the stored display preference and signup forms.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(rt.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			rt.cfg = cfg
			rt.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "Config file (default: ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringP("endpoint", "e", "", "CMS GraphQL endpoint ($SITE_GLUE_ENDPOINT)")
	rootCmd.PersistentFlags().String("token", "", "CMS access token ($SITE_GLUE_TOKEN)")
	rootCmd.PersistentFlags().StringP("db", "d", "", "Database path (default: ~/.site-glue/site.db)")
	rootCmd.PersistentFlags().StringP("session", "s", "", "Session id for signup forms (default: "+config.DefaultSession+")")
	rootCmd.PersistentFlags().String("post-collection", "", "CMS collection holding blog posts")
	rootCmd.PersistentFlags().Duration("timeout", 0, "CMS request timeout")
	rootCmd.PersistentFlags().StringP("format", "f", "json", "Output format: json or yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newFetchCommand(rt),
		newPrefCommand(rt),
		newSessionCommand(rt),
		newExportCommand(rt),
		newImportCommand(rt),
		newStatsCommand(rt),
	)

	return rootCmd
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func (rt *runtime) openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(rt.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func (rt *runtime) newClient() (*cms.Client, error) {
	if rt.cfg.Endpoint == "" {
		return nil, errors.New("no endpoint configured (use --endpoint or $SITE_GLUE_ENDPOINT)")
	}
	return cms.New(rt.cfg.Endpoint,
		cms.WithToken(rt.cfg.Token),
		cms.WithTimeout(rt.cfg.Timeout),
		cms.WithPostCollection(rt.cfg.PostCollection),
		cms.WithLogger(rt.logger),
	), nil
}

// openApp builds the application context over the configured database and
// session. The caller closes the returned store.
func (rt *runtime) openApp(ctx context.Context) (*app.App, *store.SQLiteStore, error) {
	s, err := rt.openStore()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, app.Options{
		Durable:        s.Durable(),
		Session:        s.Session(rt.cfg.Session),
		Endpoint:       rt.cfg.Endpoint,
		Token:          rt.cfg.Token,
		PostCollection: rt.cfg.PostCollection,
		Timeout:        rt.cfg.Timeout,
		Logger:         rt.logger,
	})
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("load state: %w", err)
	}
	return a, s, nil
}
