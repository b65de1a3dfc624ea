package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartfarming/farm-client/internal/app"
	"github.com/smartfarming/farm-client/internal/infrastructure/config"
	"github.com/smartfarming/farm-client/pkg/logger"
)

// cli carries what every subcommand shares.
type cli struct {
	app      *app.App
	jsonOut  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "farmctl",
		Short: "Smart Farming terminal client",
		Long: `farmctl talks to the Smart Farming backend: weather, forum, government
schemes, soil tests, pest detection and the marketplace cart.

The session is kept between runs in the configured snapshot backend
(SNAPSHOT_BACKEND, default: a file in the user config directory).`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print results as JSON")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override LOG_LEVEL")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.cartCmd(),
		c.weatherCmd(),
		c.forumCmd(),
		c.schemesCmd(),
		c.soilCmd(),
		c.detectCmd(),
		c.dashboardCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	log := logger.Init(logger.Options{Level: level, Pretty: cfg.LogPretty, Output: os.Stderr})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	a.Start(ctx)
	c.app = a

	clog := logger.Component("farmctl")
	clog.Debug().
		Str("api", cfg.APIURL).
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Bool("logged_in", a.Session.State().LoggedIn()).
		Msg("client ready")
	return nil
}

// print writes v as JSON when --json is set, otherwise calls text.
func (c *cli) print(w io.Writer, v any, text func(io.Writer)) error {
	if c.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func (c *cli) requireLogin() error {
	if !c.app.Session.State().LoggedIn() {
		return fmt.Errorf("not logged in; run 'farmctl login' first")
	}
	return nil
}
