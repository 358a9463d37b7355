package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/storefront"
	"storefront/internal/usecase"
	"storefront/internal/view"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	buyNowQty    int
	orderPayment string
	orderAddress string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		page := sf.CartPage()
		page.Mount(ctx)
		defer page.Unmount()
		printCart(cmd.OutOrStdout(), page.Snapshot())
		return nil
	}),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		p, err := sf.Products.ForCart(ctx, args[0])
		if err != nil {
			return err
		}
		page := sf.ProductPage(p)
		page.Mount(ctx)
		defer page.Unmount()

		msg, err := page.AddToCart(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s x%d)\n", msg, p.Name, page.Snapshot().CartQuantity)
		return nil
	}),
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number: %w", err)
		}
		return withCartPage(ctx, cmd, sf, func(page *view.CartPage) error {
			_, err := sf.Cart.SetQuantity(ctx, args[0], qty)
			return err
		})
	}),
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <product-id>",
	Short: "Increase a cart line by one",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		return withCartPage(ctx, cmd, sf, func(page *view.CartPage) error {
			return page.Increase(ctx, args[0])
		})
	}),
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <product-id>",
	Short: "Decrease a cart line by one (never below one)",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		return withCartPage(ctx, cmd, sf, func(page *view.CartPage) error {
			return page.Decrease(ctx, args[0])
		})
	}),
}

var cartRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a cart line",
	Args:    cobra.ExactArgs(1),
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		return withCartPage(ctx, cmd, sf, func(page *view.CartPage) error {
			return page.Remove(ctx, args[0])
		})
	}),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		return withCartPage(ctx, cmd, sf, func(page *view.CartPage) error {
			return page.Clear(ctx)
		})
	}),
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Go to checkout (asks for login first when needed)",
	Args:  cobra.NoArgs,
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		next, err := sf.Session.Resume(ctx)
		if err != nil {
			return err
		}
		// 保留中の意図があればそのまま（今すぐ購入ならカートが空でも進める）。
		// 無ければカートのチェックアウト。
		if next == "" {
			page := sf.CartPage()
			page.Mount(ctx)
			next, err = page.Checkout(ctx)
			page.Unmount()
			if err != nil {
				return err
			}
		}
		if next != usecase.DestCheckout {
			printNext(cmd.OutOrStdout(), next)
			return nil
		}
		return printCheckout(ctx, cmd.OutOrStdout(), sf)
	}),
}

var buyNowCmd = &cobra.Command{
	Use:   "buy-now <product-id>",
	Short: "Check out a single product without touching the cart",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		p, err := sf.Products.Find(ctx, args[0])
		if err != nil {
			return err
		}
		page := sf.ProductPage(p)
		next, err := page.BuyNow(ctx, buyNowQty)
		if err != nil {
			return err
		}
		if next != usecase.DestCheckout {
			printNext(cmd.OutOrStdout(), next)
			return nil
		}
		return printCheckout(ctx, cmd.OutOrStdout(), sf)
	}),
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place the order shown by `storefront checkout`",
	Args:  cobra.NoArgs,
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Checkout.PlaceOrder(ctx, usecase.PlaceOrderInput{
			PaymentMethod: paymentMethod(orderPayment),
			Address:       orderAddress,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	}),
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartIncCmd, cartDecCmd, cartRemoveCmd, cartClearCmd)

	buyNowCmd.Flags().IntVarP(&buyNowQty, "quantity", "q", 1, "quantity to buy")

	orderCmd.Flags().StringVar(&orderPayment, "payment", "cod", "cod or online")
	orderCmd.Flags().StringVar(&orderAddress, "address", "", "shipping address")
	_ = orderCmd.MarkFlagRequired("address")
}

// 操作してから描画し直したカートを出す
func withCartPage(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, fn func(page *view.CartPage) error) error {
	page := sf.CartPage()
	page.Mount(ctx)
	defer page.Unmount()

	if err := fn(page); err != nil {
		return err
	}
	printCart(cmd.OutOrStdout(), page.Snapshot())
	return nil
}

func paymentMethod(s string) model.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cod", "cash", "cash on delivery":
		return model.PaymentCashOnDelivery
	case "online", "online payment":
		return model.PaymentOnline
	}
	return model.PaymentMethod(s)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func printLines(w io.Writer, items []model.LineItem) {
	for _, it := range items {
		fmt.Fprintf(w, "  %-12s %-28s x%-3d %10s\n", it.ProductID, it.Name, it.Quantity, money(it.Subtotal()))
	}
}

func printCart(w io.Writer, snap view.CartPageSnapshot) {
	if snap.Empty {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	printLines(w, snap.Items)
	fmt.Fprintf(w, "  %d item(s), total %s\n", snap.Count, money(snap.Total))
}

func printCheckout(ctx context.Context, w io.Writer, sf *storefront.Storefront) error {
	sum, err := sf.Checkout.Summary(ctx)
	if err != nil {
		return err
	}
	if len(sum.Items) == 0 {
		printNext(w, usecase.DestCart)
		return nil
	}
	fmt.Fprintf(w, "Checkout (%s)\n", sum.Source)
	printLines(w, sum.Items)
	fmt.Fprintf(w, "  %d item(s), total %s\n", sum.Count, money(sum.Total))
	fmt.Fprintln(w, "-> place it with `storefront order --address <address> [--payment cod|online]`")
	return nil
}
