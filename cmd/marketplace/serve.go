package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"marketplace-client/internal/shell"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shell HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.app.Config.Shell.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return shell.New(c.app, version).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to SHELL_ADDR)")
	return cmd
}
