package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/sheet"
)

func (a *App) normalizeCmd() *cobra.Command {
	var (
		flags    routeFlags
		out      string
		asJSON   bool
		dryRun   bool
		timeline bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <route-file>",
		Short: "Normalize a route file and export the per-day agenda",
		Long: `Read a route spreadsheet (.xlsx or .csv), reconcile every weekday across
midnight, flag gaps and write the agenda workbook.

The workbook has the agenda_por_dia sheet, a resumo_por_dia summary, one
sheet per scheduled weekday with observations and the sector panel.`,
		Example: `  horarios normalize PR18.xlsx
  horarios normalize PR18.xlsx --out agenda.xlsx --gap 15 --inclusive
  horarios normalize rota.csv --json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			r, err := a.loadRoute(args[0], &flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := sheet.WriteJSON(w, r.source, r.week, &r.sector); err != nil {
					return err
				}
			} else {
				PrintReport(w, r.source, r.week, r.sector, PrintOpts{Timeline: timeline})
			}

			if !dryRun {
				if out == "" {
					out = siblingPath(args[0], "_agenda.xlsx")
				}
				err = writeFile(out, func(f io.Writer) error {
					return sheet.WriteAgenda(f, r.week, &r.sector)
				})
				if err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintf(w, "  Agenda salva em %s\n", out)
				}
			}

			a.record(cmd.Context(), r)
			return nil
		},
	}

	a.addRouteFlags(cmd, &flags)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook (default: <route>_agenda.xlsx)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON instead of text")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not write the workbook")
	cmd.Flags().BoolVarP(&timeline, "timeline", "t", false, "Print every entry of each scheduled day")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// writeFile writes path through write. A failed write removes the partial file.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(f)
}
