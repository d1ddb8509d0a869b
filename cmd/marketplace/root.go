package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"marketplace-client/internal/app"
	"marketplace-client/internal/config"
	"marketplace-client/internal/utils"
)

type cli struct {
	envFile string
	app     *app.App
}

// execute runs the command line in args and always releases the app,
// including when the command fails.
func execute(args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	return errors.Join(err, c.close())
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Command-line client for the marketplace API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.envFile)
			if err != nil {
				return err
			}
			logger := utils.SetupLogging(cfg.LogLevel, cfg.IsProduction())
			logger.Debug("Configuration loaded", "api", cfg.API.BaseURL, "session_backend", cfg.Session.Backend)

			c.app, err = app.New(cmd.Context(), cfg, app.Options{})
			return err
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env", ".env", "path of the .env file")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.openCmd(),
		c.productsCmd(),
		c.cartCmd(),
		c.ordersCmd(),
		c.adminCmd(),
		c.moderationCmd(),
		c.reportsCmd(),
		c.notificationsCmd(),
		c.serveCmd(),
	)
	return root
}

// close shuts the app down once per process
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.app.Close(ctx)
	c.app = nil
	return err
}

// print writes v as indented JSON, then any notices raised while producing it
func (c *cli) print(cmd *cobra.Command, v any) error {
	if v != nil {
		if err := writeJSON(cmd.OutOrStdout(), v); err != nil {
			return err
		}
	}
	c.flushNotices(cmd)
	return nil
}

// fail shows the notices raised by a failed action before returning err
func (c *cli) fail(cmd *cobra.Command, err error) error {
	c.flushNotices(cmd)
	return err
}

func (c *cli) flushNotices(cmd *cobra.Command) {
	for _, m := range c.app.Notices.Drain() {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", m.Level, m.Text)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
