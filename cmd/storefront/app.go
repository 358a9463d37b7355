package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/infra/db"
	infra "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/storefront"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// STORE_DRIVERに応じてKVを開く
func openStore(cfg config.Config, logger *zap.Logger) (repo.KVNamespacer, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return infra.NewKVSQLiteRepository(sqlDB), sqlDB.Close, nil

	case config.DriverPostgres:
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("get sql db: %w", err)
		}
		return infra.NewKVGormRepository(gormDB), sqlDB.Close, nil

	case config.DriverMemory:
		logger.Warn("memory store: nothing survives this process")
		return infra.NewKVMemoryRepository(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func newDeps(cfg config.Config, logger *zap.Logger) storefront.Deps {
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	clock := usecase.SystemClock{}
	return storefront.Deps{
		Remote:    client,
		Products:  usecase.NewProductUsecase(client, clock, cfg.CatalogCacheTTL),
		Clock:     clock,
		IntentTTL: cfg.CheckoutIntentTTL,
		Logger:    logger,
	}
}

// runLocal はプロフィールのStorefrontを開いてfnを呼ぶ。
// resume=trueなら最初に保留中のチェックアウトを確認する（画面表示と同じ扱い）。
func runLocal(resume bool, fn func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		kv, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Warn("close store", zap.Error(err))
			}
		}()

		ctx := cmd.Context()
		sf := storefront.New(cfg.StoreNamespace, kv.Namespace(cfg.StoreNamespace), newDeps(cfg, logger))

		if resume {
			next, err := sf.Session.Resume(ctx)
			if err != nil {
				return report(cmd, err)
			}
			printNext(cmd.OutOrStdout(), next)
		}

		return report(cmd, fn(ctx, cmd, sf, args))
	}
}

// 遷移先をCLIの次の一手に直す
func printNext(w io.Writer, next string) {
	switch next {
	case usecase.DestCheckout:
		fmt.Fprintln(w, "-> pending checkout: run `storefront checkout`")
	case usecase.DestLogin:
		fmt.Fprintln(w, "-> login required: run `storefront login --email <email> --password <password>`")
	case usecase.DestRegister:
		fmt.Fprintln(w, "-> no account yet: run `storefront register`")
	case usecase.DestVerifyOTP:
		fmt.Fprintln(w, "-> check your mail: run `storefront verify-otp <code>`")
	case usecase.DestCart:
		fmt.Fprintln(w, "-> your cart is empty: run `storefront products`")
	}
}

// HTTPErrorならメッセージと次の一手を出す
func report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var he *usecase.HTTPError
	if errors.As(err, &he) {
		logger.Debug("command failed", zap.Int("status", he.Status), zap.Error(he.Err))
		printNext(cmd.ErrOrStderr(), he.Next)
		return errors.New(he.Message)
	}
	return err
}
