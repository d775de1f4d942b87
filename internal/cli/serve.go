package cli

import (
	"marks-cli/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var scfg server.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local bookmark server from a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scfg.Version = Version
			srv, err := server.New(scfg, consoleLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&scfg.Addr, "addr", ":8765", "Listen address")
	cmd.Flags().StringVar(&scfg.SeedPath, "seed", "seed.yaml", "YAML file with categories and bookmarks")
	cmd.Flags().StringVar(&scfg.Theme, "theme", "light", "Theme advertised in the bootstrap payload (light|dark)")
	cmd.Flags().StringVar(&scfg.Language, "language", "en", "Language advertised in the bootstrap payload")
	return cmd
}
