package main

import (
	"context"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/storefront"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (one cart and session per browser cookie)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	kv, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	hub := storefront.NewHub(kv, newDeps(cfg, logger))
	srv := server.New(server.Options{
		Addr: cfg.Addr(),
		Session: middleware.ClientSessionConfig{
			Secret: []byte(cfg.SessionSecret),
			TTL:    cfg.ClientCookieTTL,
			Secure: cfg.CookieSecure,
		},
	}, hub, logger)

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	// 使われていないクライアントをメモリから外す
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ClientIdleTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := hub.Sweep(cfg.ClientIdleTTL); n > 0 {
					logger.Debug("evicted idle clients", zap.Int("count", n), zap.Int("remaining", hub.Len()))
				}
			}
		}
	})

	return g.Wait()
}
