package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newClickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "click <bookmark-id>",
		Short: "Record a visit to a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bookmark id %q", args[0])
			}
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			_, client, err := fetchSession(ctx, cfg)
			if err != nil {
				return err
			}
			count, err := client.Click(ctx, id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"id":         id,
				"clickCount": count,
			})
		},
	}
}
