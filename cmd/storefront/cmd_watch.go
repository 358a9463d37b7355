package main

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/storefront"
	"storefront/internal/view"
	"storefront/internal/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow cart and login changes made from other terminals",
	Args:  cobra.NoArgs,
	RunE: runLocal(true, func(ctx context.Context, cmd *cobra.Command, sf *storefront.Storefront, args []string) error {
		if cfg.StoreDriver != config.DriverSQLite {
			return fmt.Errorf("watch needs STORE_DRIVER=%s", config.DriverSQLite)
		}

		w, err := watch.New(cfg.StorePath, sf.Bus, watch.DefaultDebounce, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		badge := sf.NavBadge()
		var last *view.NavBadgeSnapshot
		badge.OnRender = func(snap view.NavBadgeSnapshot) {
			// cartとsessionの両方で呼ばれるので変化した時だけ
			if last != nil && *last == snap {
				return
			}
			last = &snap

			user := "guest"
			if snap.LoggedIn {
				user = snap.UserName
			}
			fmt.Fprintf(out, "%s  %s  cart: %d\n", time.Now().Format(time.TimeOnly), user, snap.Count)
		}
		badge.Mount(ctx)
		defer badge.Unmount()

		// Ctrl-Cまで
		return w.Run(ctx)
	}),
}
