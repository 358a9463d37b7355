package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/storefront"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	productQuery usecase.ProductQuery
	priceFilter  string

	reviewRating  int
	reviewComment string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		q := productQuery
		q.Price = usecase.PriceRange(priceFilter)
		products, err := sf.Products.List(ctx, q)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, p := range products {
			printProductLine(w, p)
		}
		categories, err := sf.Products.Categories(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d product(s); categories: %s\n", len(products), strings.Join(categories, ", "))
		return nil
	}),
}

var productCmd = &cobra.Command{
	Use:   "product <product-id>",
	Short: "Show a product, its reviews and similar products",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		d, err := sf.Products.Detail(ctx, args[0])
		if err != nil {
			return err
		}
		page := sf.ProductPage(d.Product)
		page.Mount(ctx)
		defer page.Unmount()

		w := cmd.OutOrStdout()
		p := d.Product
		fmt.Fprintf(w, "%s  [%s]\n", p.Name, p.ID)
		fmt.Fprintf(w, "  %s  %s  seller %s\n", money(p.Price), stockLabel(p), p.Seller)
		if p.Description != "" {
			fmt.Fprintf(w, "  %s\n", p.Description)
		}
		if snap := page.Snapshot(); snap.InCart {
			fmt.Fprintf(w, "  in your cart: x%d\n", snap.CartQuantity)
		}

		reviews, err := sf.Reviews.List(ctx, p.ID)
		if err != nil {
			return err
		}
		printReviews(w, reviews)

		if len(d.Similar) > 0 {
			fmt.Fprintln(w, "Similar:")
			for _, s := range d.Similar {
				printProductLine(w, s)
			}
		}
		return nil
	}),
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Read and write product reviews",
}

var reviewListCmd = &cobra.Command{
	Use:   "list <product-id>",
	Short: "List reviews",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Reviews.List(ctx, args[0])
		if err != nil {
			return err
		}
		printReviews(cmd.OutOrStdout(), out)
		return nil
	}),
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a review (login required)",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Reviews.Add(ctx, args[0], reviewRating, reviewComment)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Review added")
		printReviews(cmd.OutOrStdout(), out)
		return nil
	}),
}

var reviewHelpfulCmd = &cobra.Command{
	Use:   "helpful <product-id> <review-id>",
	Short: "Mark a review as helpful (login required)",
	Args:  cobra.ExactArgs(2),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Reviews.MarkHelpful(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printReviews(cmd.OutOrStdout(), out)
		return nil
	}),
}

func init() {
	productsCmd.Flags().StringVarP(&productQuery.Search, "search", "s", "", "name contains (case-insensitive)")
	productsCmd.Flags().StringVarP(&productQuery.Category, "category", "c", "", "category, or all")
	productsCmd.Flags().StringVar(&priceFilter, "price", "", "all, under500, 500-1000 or over1000")

	reviewAddCmd.Flags().IntVarP(&reviewRating, "rating", "r", 0, "1 to 5")
	reviewAddCmd.Flags().StringVarP(&reviewComment, "comment", "m", "", "review text")
	_ = reviewAddCmd.MarkFlagRequired("rating")

	reviewCmd.AddCommand(reviewListCmd, reviewAddCmd, reviewHelpfulCmd)
}

func stockLabel(p model.Product) string {
	if p.InStock {
		return "in stock"
	}
	return "out of stock"
}

func printProductLine(w io.Writer, p model.Product) {
	fmt.Fprintf(w, "  %-12s %-28s %-12s %10s  %s\n", p.ID, p.Name, p.Category, money(p.Price), stockLabel(p))
}

func printReviews(w io.Writer, out usecase.ReviewList) {
	if out.Summary.Count == 0 {
		fmt.Fprintln(w, "No reviews yet")
		return
	}
	fmt.Fprintf(w, "Reviews: %.1f/5 from %d\n", out.Summary.Average, out.Summary.Count)
	for _, r := range out.Reviews {
		fmt.Fprintf(w, "  [%s] %d/5 %s: %s (%d helpful)\n", r.ID, r.Rating, r.Name, r.Comment, r.Helpful)
	}
}
