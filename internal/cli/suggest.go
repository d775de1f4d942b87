package cli

import (
	"context"
	"time"

	"marks-cli/internal/suggest"

	"github.com/spf13/cobra"
)

func newSuggestCmd(app *App) *cobra.Command {
	var limit int
	var offline bool

	cmd := &cobra.Command{
		Use:   "suggest <term>",
		Short: "Query bookmark suggestions for a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.SuggestLimit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			var results []suggest.Result
			if offline {
				cache, err := openCache(ctx, cfg)
				if err != nil {
					return err
				}
				defer cache.Close()
				results, err = cache.Suggest(ctx, args[0], limit)
				if err != nil {
					return err
				}
			} else {
				_, client, err := fetchSession(ctx, cfg)
				if err != nil {
					return err
				}
				results, err = client.Suggest(ctx, args[0], limit)
				if err != nil {
					return err
				}
			}

			return writeOut(cmd, app, map[string]any{
				"query":       args[0],
				"suggestions": results,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of suggestions (default from config)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Query the local cache instead of the server")
	return cmd
}
