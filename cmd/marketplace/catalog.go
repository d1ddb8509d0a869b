package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"marketplace-client/internal/models"
)

func (c *cli) productsCmd() *cobra.Command {
	var (
		page             int
		category         int
		minPrice, maxPrc float64
		sort, query      string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.Stores.Products
			ctx := cmd.Context()
			var err error
			switch {
			case query != "":
				err = s.Search(ctx, query)
			case cmd.Flags().Changed("category") || cmd.Flags().Changed("min") || cmd.Flags().Changed("max") || sort != "":
				f := models.DefaultProductFilters()
				if cmd.Flags().Changed("category") {
					f.CategoryID = &category
				}
				if cmd.Flags().Changed("min") {
					f.MinPrice = &minPrice
				}
				if cmd.Flags().Changed("max") {
					f.MaxPrice = &maxPrc
				}
				if sort != "" {
					f.Sort = sort
				}
				err = s.SetFilters(ctx, f)
				if err == nil && page > 0 {
					err = s.GoToPage(ctx, page)
				}
			case page > 0:
				err = s.GoToPage(ctx, page)
			default:
				err = s.Fetch(ctx)
			}
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, s.State())
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page index")
	cmd.Flags().IntVar(&category, "category", 0, "category id")
	cmd.Flags().Float64Var(&minPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrc, "max", 0, "maximum price")
	cmd.Flags().StringVar(&sort, "sort", "", "ordering, e.g. precio_asc")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			p, err := c.app.Stores.Products.FetchByID(cmd.Context(), id)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, p)
		},
	}, &cobra.Command{
		Use:   "featured",
		Short: "List featured products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := c.app.Stores.Products.FetchFeatured(cmd.Context())
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, ps)
		},
	}, &cobra.Command{
		Use:   "categories",
		Short: "List active categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.app.Services.Categories.Active(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(cmd, cats)
		},
	}, c.mineCmd(), c.publishCmd(), &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of the vendor's products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Stores.Products.Delete(cmd.Context(), id); err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, nil)
		},
	})
	return cmd
}

func (c *cli) mineCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the vendor's own products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.Stores.Products.FetchMine(cmd.Context(), page)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, result)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page index")
	return cmd
}

func (c *cli) publishCmd() *cobra.Command {
	var req models.ProductRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a product for moderation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.Stores.Products.Create(cmd.Context(), req)
			if err != nil {
				return c.fail(cmd, err)
			}
			return c.print(cmd, p)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "product name")
	f.StringVar(&req.Description, "description", "", "description")
	f.Float64Var(&req.Price, "price", 0, "price")
	f.IntVar(&req.Stock, "stock", 0, "units in stock")
	f.StringVar(&req.Brand, "brand", "", "brand")
	f.StringVar(&req.Model, "model", "", "model")
	f.IntVar(&req.CategoryID, "category", 0, "category id")
	f.StringSliceVar(&req.Images, "image", nil, "image URL (repeatable)")
	return cmd
}
