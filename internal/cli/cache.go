package cli

import (
	"context"
	"time"

	"marks-cli/internal/store"

	"github.com/spf13/cobra"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline bookmark cache",
	}
	cmd.AddCommand(newCacheSyncCmd(app))
	cmd.AddCommand(newCacheStatusCmd(app))
	return cmd
}

func newCacheSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the offline cache from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			_, client, err := fetchSession(ctx, cfg)
			if err != nil {
				return err
			}
			cache, err := openCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := store.Sync(ctx, cache, client, consoleLogger(cmd.ErrOrStderr())); err != nil {
				return err
			}
			n, err := cache.Count(ctx)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"synced":    true,
				"bookmarks": n,
			})
		},
	}
}

func newCacheStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show offline cache size and last sync time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			cache, err := openCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			n, err := cache.Count(ctx)
			if err != nil {
				return err
			}
			syncedAt, err := cache.SyncedAt(ctx)
			if err != nil {
				return err
			}
			out := map[string]any{
				"bookmarks": n,
				"syncedAt":  nil,
			}
			if !syncedAt.IsZero() {
				out["syncedAt"] = syncedAt.UTC().Format(time.RFC3339)
			}
			return writeOut(cmd, app, out)
		},
	}
}
