package ui

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/dateutil"
	"github.com/gssantosss/horariosautomaticosloga/internal/history"
)

func (a *App) historyCmd() *cobra.Command {
	var (
		limit  int
		sector string
		since  string
		until  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded normalization runs",
		Long: `List the runs recorded by normalize, preview, chart and serve, most
recent first. History is an audit log and never feeds back into a run.`,
		Example: `  horarios history
  horarios history --sector PR18
  horarios history --since semana
  horarios history --since 2025-03-01 --until ontem
  horarios history show 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dr, err := dateutil.NewDateRange(since, until, a.now())
			if err != nil {
				return err
			}
			repo, err := a.history()
			if err != nil {
				return err
			}

			var runs []*history.Run
			switch {
			case sector != "":
				runs, err = repo.ListRunsBySector(cmd.Context(), sector)
			case !dr.IsOpen():
				runs, err = repo.ListRuns(cmd.Context(), 0)
			default:
				runs, err = repo.ListRuns(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			runs = filterRuns(runs, dr, limit)

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			PrintRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 = all)")
	cmd.Flags().StringVar(&sector, "sector", "", "Only runs for this sector")
	cmd.Flags().StringVar(&since, "since", "", "Only runs on or after this day (YYYY-MM-DD, SEG..DOM, hoje, ontem, semana, <n>d)")
	cmd.Flags().StringVar(&until, "until", "", "Only runs on or before this day")

	cmd.AddCommand(a.historyShowCmd())
	cmd.AddCommand(a.historyDeleteCmd())
	return cmd
}

func (a *App) historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.history()
			if err != nil {
				return err
			}
			run, err := repo.GetRun(cmd.Context(), id)
			if err != nil {
				return err
			}
			PrintRun(cmd.OutOrStdout(), run, PrintOpts{})
			return nil
		},
	}
}

func (a *App) historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.history()
			if err != nil {
				return err
			}
			if err := repo.DeleteRun(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run #%d deleted.\n", id)
			return nil
		},
	}
}

// filterRuns keeps the runs created within dr, at most limit of them.
func filterRuns(runs []*history.Run, dr *dateutil.DateRange, limit int) []*history.Run {
	out := runs[:0]
	for _, r := range runs {
		if dr.Contains(r.CreatedAt) {
			out = append(out, r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}
