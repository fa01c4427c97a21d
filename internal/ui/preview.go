package ui

import (
	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/tui"
)

func (a *App) previewCmd() *cobra.Command {
	var (
		flags     routeFlags
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "preview <route-file>",
		Short: "Browse the normalized route in the terminal",
		Long: `Open an interactive preview with a summary tab and one table per
scheduled weekday.

Keys: left/right switch tabs, v toggles order/chronological view,
y copies the current tab as TSV, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRoute(args[0], &flags)
			if err != nil {
				return err
			}
			a.record(cmd.Context(), r)
			return tui.Run(r.week, r.sector, r.source, themeName)
		},
	}

	a.addRouteFlags(cmd, &flags)
	cmd.Flags().StringVar(&themeName, "theme", a.config.UI.Theme, "Color theme")
	return cmd
}
