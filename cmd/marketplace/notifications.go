package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) notificationsCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "List notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Notifications.Fetch(cmd.Context(), page); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Notifications.State())
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page index")

	byID := func(use, short string, fn func(cmd *cobra.Command, id int64) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return err
				}
				if err := fn(cmd, id); err != nil {
					return c.fail(cmd, err)
				}
				return c.print(cmd, c.app.Stores.Notifications.State())
			},
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "unread",
		Short: "Print the unread count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.app.Stores.Notifications.RefreshUnreadCount(cmd.Context())
			if err != nil {
				return c.fail(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	},
		byID("read", "Mark a notification as read", func(cmd *cobra.Command, id int64) error {
			return c.app.Stores.Notifications.MarkRead(cmd.Context(), id)
		}),
		byID("delete", "Delete a notification", func(cmd *cobra.Command, id int64) error {
			return c.app.Stores.Notifications.Delete(cmd.Context(), id)
		}),
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Stores.Notifications.MarkAllRead(cmd.Context()); err != nil {
					return c.fail(cmd, err)
				}
				return c.print(cmd, c.app.Stores.Notifications.State())
			},
		},
		&cobra.Command{
			Use:   "purge",
			Short: "Delete every read notification",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Stores.Notifications.DeleteRead(cmd.Context()); err != nil {
					return c.fail(cmd, err)
				}
				return c.print(cmd, c.app.Stores.Notifications.State())
			},
		},
	)
	return cmd
}
