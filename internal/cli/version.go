package cli

import "github.com/spf13/cobra"

// Version is stamped at build time via -ldflags.
var Version = "0.1.0-dev"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]string{"version": Version})
		},
	}
}
