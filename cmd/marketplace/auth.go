package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marketplace-client/internal/app"
	"marketplace-client/internal/session"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return errors.New("--user is required")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Contraseña: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			sess, err := c.app.Login(cmd.Context(), session.Credentials{Username: username, Password: password})
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, sess)
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.app.Session.IsAuthenticated() {
				return session.ErrNotAuthenticated
			}
			if refresh {
				if err := c.app.Refresh.RunNow(cmd.Context(), app.SessionJob); err != nil {
					return c.fail(cmd, err)
				}
			}
			return c.print(cmd, c.app.Session.Snapshot())
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the backend")
	return cmd
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open PATH",
		Short: "Run the navigation guard for a client location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Navigator.Navigate(args[0])
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]any{
				"requested":  res.Requested,
				"decision":   res.Decision.String(),
				"redirected": res.Redirected,
				"location":   res.Location,
			})
		},
	}
}
