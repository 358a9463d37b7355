package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// グローバルフラグ
	envFile string
	profile string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Shop from the terminal or serve the storefront BFF",
	Long: `storefront keeps a cart, a login session and a pending checkout in a local
profile (SQLite by default) and talks to the shop API for products, reviews
and orders.

Every command of one profile sees the same cart; "storefront watch" follows
changes made from other terminals. "storefront serve" runs the same logic
behind an HTTP API, one profile per browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if profile != "" {
			c.StoreNamespace = profile
		}

		level := c.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(c.GoEnv, level)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load (missing file is ignored)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "local profile name (overrides STORE_NAMESPACE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		serveCmd,
		watchCmd,
		cartCmd,
		checkoutCmd,
		buyNowCmd,
		orderCmd,
		loginCmd,
		registerCmd,
		verifyOTPCmd,
		logoutCmd,
		whoamiCmd,
		productsCmd,
		productCmd,
		reviewCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
