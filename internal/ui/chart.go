package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/chart"
)

func (a *App) chartCmd() *cobra.Command {
	var (
		flags routeFlags
		out   string
		title string
	)

	cmd := &cobra.Command{
		Use:   "chart <route-file>",
		Short: "Export an HTML chart of the normalized route",
		Long: `Render points and gaps per weekday and the reconciled timeline of every
scheduled day into a standalone HTML page.`,
		Example: `  horarios chart PR18.xlsx
  horarios chart PR18.xlsx --out pr18.html --title "PR18 noturno"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRoute(args[0], &flags)
			if err != nil {
				return err
			}
			if out == "" {
				out = siblingPath(args[0], "_grafico.html")
			}
			if title == "" {
				title = r.source
			}

			err = writeFile(out, func(f io.Writer) error {
				return chart.Render(f, r.week, title)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Gráfico salvo em %s\n", out)
			a.record(cmd.Context(), r)
			return nil
		},
	}

	a.addRouteFlags(cmd, &flags)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output HTML file (default: <route>_grafico.html)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title (default: file name)")
	return cmd
}
