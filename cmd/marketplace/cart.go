package main

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the shopping cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Cart.Fetch(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Cart.Cart())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add PRODUCT_ID [QUANTITY]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = strconv.Atoi(args[1]); err != nil {
					return err
				}
			}
			product, err := c.app.Services.Products.Get(cmd.Context(), id)
			if err != nil {
				return c.fail(cmd, err)
			}
			if err := c.app.Stores.Cart.AddItem(cmd.Context(), &product, qty); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Cart.Cart())
		},
	}, &cobra.Command{
		Use:   "set ITEM_ID QUANTITY",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			if err := c.app.Stores.Cart.Fetch(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			if err := c.app.Stores.Cart.UpdateQuantity(cmd.Context(), item, qty); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Cart.Cart())
		},
	}, &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Stores.Cart.RemoveItem(cmd.Context(), item); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Cart.Cart())
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Stores.Cart.Clear(cmd.Context()); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, c.app.Stores.Cart.Cart())
		},
	}, &cobra.Command{
		Use:   "verify",
		Short: "Check stock for every cart line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, err := c.app.Stores.Cart.VerifyStock(cmd.Context())
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, check)
		},
	})
	return cmd
}
