package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-client/internal/models"
)

// errDecision reports a moderation action the store refused; its notices say why.
var errDecision = errors.New("moderation action failed")

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User administration",
	}

	var role string
	var page int
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := models.DefaultUserFilters()
			f.Role = role
			f.Page = page
			if err := c.app.Stores.Admin.SetFilter(cmd.Context(), f); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Admin.State())
		},
	}
	usersCmd.Flags().StringVar(&role, "role", "", "only users holding this role")
	usersCmd.Flags().IntVar(&page, "page", 0, "page index")

	cmd.AddCommand(usersCmd, &cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.app.Stores.Admin.FetchStats(cmd.Context())
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, stats)
		},
	}, &cobra.Command{
		Use:   "toggle USER_ID",
		Short: "Activate or deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			user, err := c.app.Stores.Admin.GetUser(cmd.Context(), id)
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.app.Stores.Admin.ToggleStatus(cmd.Context(), user); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Admin.State())
		},
	})
	return cmd
}

func (c *cli) moderationCmd() *cobra.Command {
	var status string
	var page int
	cmd := &cobra.Command{
		Use:   "moderation",
		Short: "List product moderation requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.Stores.Moderation
			if status != "" {
				st, ok := models.ParseModerationStatus(status)
				if !ok {
					return fmt.Errorf("unknown moderation status %q", status)
				}
				if err := s.SetStatusFilter(cmd.Context(), st); err != nil {
					return c.fail(cmd, err)
				}
				if page > 0 {
					if err := s.ChangePage(cmd.Context(), page); err != nil {
						return c.fail(cmd, err)
					}
				}
			} else if err := s.FetchRequests(cmd.Context(), page); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, s.State())
		},
	}
	cmd.Flags().StringVar(&status, "estado", "", "status filter (PENDIENTE, APROBADO, RECHAZADO, CAMBIOS_SOLICITADOS, TODOS)")
	cmd.Flags().IntVar(&page, "page", 0, "page index")

	decision := func(use, short string, act func(cmd *cobra.Command, id uuid.UUID, text string) bool) *cobra.Command {
		var text string
		sub := &cobra.Command{
			Use:   use + " REQUEST_ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return err
				}
				if !act(cmd, id, text) {
					return c.fail(cmd, errDecision)
				}
				return c.print(cmd, c.app.Stores.Moderation.State())
			},
		}
		sub.Flags().StringVarP(&text, "message", "m", "", "comment or rejection reason")
		return sub
	}

	cmd.AddCommand(
		decision("approve", "Approve a request", func(cmd *cobra.Command, id uuid.UUID, text string) bool {
			return c.app.Stores.Moderation.Approve(cmd.Context(), id, text)
		}),
		decision("reject", "Reject a request", func(cmd *cobra.Command, id uuid.UUID, text string) bool {
			return c.app.Stores.Moderation.Reject(cmd.Context(), id, text)
		}),
		decision("changes", "Ask the vendor for changes", func(cmd *cobra.Command, id uuid.UUID, text string) bool {
			return c.app.Stores.Moderation.RequestChanges(cmd.Context(), id, text)
		}),
		&cobra.Command{
			Use:   "reviews",
			Short: "List reviews awaiting moderation",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Stores.Moderation.FetchPendingReviews(cmd.Context(), page); err != nil {
					return c.fail(cmd, err)
				}
				return c.print(cmd, c.app.Stores.Moderation.State())
			},
		},
	)
	return cmd
}

func (c *cli) reportsCmd() *cobra.Command {
	var from, to string
	var limit int
	var export string
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Load the sales dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			s := c.app.Stores.Reports
			if err := s.LoadDashboard(cmd.Context(), r, limit); err != nil {
				return c.fail(cmd, err)
			}
			if export != "" {
				if err := s.Export(export); err != nil {
					return c.fail(cmd, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", export)
			}
			return c.print(cmd, s.State())
		},
	}
	now := time.Now()
	cmd.Flags().StringVar(&from, "desde", now.AddDate(0, -1, 0).Format(time.DateOnly), "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "hasta", now.Format(time.DateOnly), "range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limite", 10, "rows per ranking")
	cmd.Flags().StringVarP(&export, "export", "o", "", "write the dashboard to an .xlsx workbook")
	return cmd
}

func parseRange(from, to string) (models.DateRange, error) {
	start, err := time.ParseInLocation(time.DateOnly, from, time.Local)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("invalid --desde: %w", err)
	}
	end, err := time.ParseInLocation(time.DateOnly, to, time.Local)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("invalid --hasta: %w", err)
	}
	return models.DateRange{From: start, To: end}, nil
}
