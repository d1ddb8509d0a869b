package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-client/internal/models"
)

func (c *cli) ordersCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the buyer's orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Orders.Fetch(cmd.Context(), page); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page index")

	var place models.PlaceOrderRequest
	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "Turn the cart into an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := c.app.Stores.Orders.PlaceFromCart(cmd.Context(), place)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, order)
		},
	}
	placeCmd.Flags().StringVar(&place.ShippingAddress, "address", "", "shipping address")
	placeCmd.Flags().StringVar(&place.ContactPhone, "phone", "", "contact phone")
	placeCmd.Flags().StringVar(&place.PaymentMethod, "payment", "", "payment method")
	placeCmd.Flags().StringVar(&place.Notes, "notes", "", "notes for the vendor")

	var notes string
	statusCmd := &cobra.Command{
		Use:   "status ORDER_ID STATUS",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			status, ok := models.ParseOrderStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown order status %q", args[1])
			}
			if err := c.app.Stores.Orders.UpdateStatus(cmd.Context(), id, status, notes); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State().Current)
		},
	}
	statusCmd.Flags().StringVar(&notes, "notes", "", "notes attached to the change")

	vendorCmd := &cobra.Command{
		Use:   "vendor",
		Short: "List orders containing the vendor's products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Orders.FetchVendorOrders(cmd.Context(), page); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	}
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "List every order (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Orders.FetchAll(cmd.Context(), page); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	}
	for _, sub := range []*cobra.Command{vendorCmd, allCmd} {
		sub.Flags().IntVar(&page, "page", 0, "page index")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show ORDER_ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			order, err := c.app.Stores.Orders.FetchByID(cmd.Context(), id)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, order)
		},
	}, &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Stores.Orders.Cancel(cmd.Context(), id); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State().Current)
		},
	}, placeCmd, statusCmd, vendorCmd, allCmd, c.logisticsCmd())
	return cmd
}

func (c *cli) logisticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logistics",
		Short: "Show the logistics board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Orders.FetchLogistics(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "schedule ORDER_ID DATETIME",
		Short: "Set the estimated delivery date (2006-01-02T15:04)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			at, err := time.ParseInLocation("2006-01-02T15:04", args[1], time.Local)
			if err != nil {
				return err
			}
			if err := c.app.Stores.Orders.SetDeliveryDate(cmd.Context(), id, at); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	}, &cobra.Command{
		Use:   "deliver ORDER_ID",
		Short: "Mark an order as delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Stores.Orders.MarkDelivered(cmd.Context(), id); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Orders.State())
		},
	})
	return cmd
}
