package main

import (
	"context"
	"fmt"
	"io"

	"storefront/internal/storefront"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	registerIn usecase.RegisterInput
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in (resumes a pending checkout)",
	Args:  cobra.NoArgs,
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Auth.Login(ctx, usecase.LoginInput{Email: loginEmail, Password: loginPassword})
		if err != nil {
			return err
		}
		return afterAuth(ctx, cmd.OutOrStdout(), sf, out)
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (an OTP is mailed to you)",
	Args:  cobra.NoArgs,
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Auth.Register(ctx, registerIn)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		printNext(cmd.OutOrStdout(), out.Next)
		return nil
	}),
}

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp <code>",
	Short: "Confirm the code from the registration mail",
	Args:  cobra.ExactArgs(1),
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Auth.VerifyOTP(ctx, args[0])
		if err != nil {
			return err
		}
		return afterAuth(ctx, cmd.OutOrStdout(), sf, out)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and empty the cart",
	Args:  cobra.NoArgs,
	RunE: runLocal(false, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		out, err := sf.Auth.Logout(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user and cart size",
	Args:  cobra.NoArgs,
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		badge := sf.NavBadge()
		badge.Mount(ctx)
		defer badge.Unmount()

		snap := badge.Snapshot()
		w := cmd.OutOrStdout()
		if !snap.LoggedIn {
			fmt.Fprintf(w, "not logged in (profile %s), cart: %d\n", cfg.StoreNamespace, snap.Count)
			return nil
		}
		user, err := sf.Auth.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s <%s> (profile %s), cart: %d\n", user.Name, user.Email, cfg.StoreNamespace, snap.Count)
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	f := registerCmd.Flags()
	f.StringVar(&registerIn.Name, "name", "", "full name")
	f.StringVar(&registerIn.Email, "email", "", "email")
	f.StringVar(&registerIn.Password, "password", "", "password (8+ chars, upper, lower, digit, symbol)")
	f.StringVar(&registerIn.DOB, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&registerIn.Phone, "phone", "", "phone number")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
}

// ログイン直後。保留中のチェックアウトがあればそのまま表示する。
func afterAuth(ctx context.Context, w io.Writer, sf *storefront.Storefront, out usecase.AuthResult) error {
	if out.User != nil {
		fmt.Fprintf(w, "%s Welcome, %s\n", out.Message, out.User.Name)
	} else {
		fmt.Fprintln(w, out.Message)
	}
	if out.Next == usecase.DestCheckout {
		return printCheckout(ctx, w, sf)
	}
	printNext(w, out.Next)
	return nil
}
