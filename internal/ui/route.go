package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
	"github.com/gssantosss/horariosautomaticosloga/internal/sheet"
)

// routeFlags are the normalization flags shared by every command that
// reads a route file. Defaults come from the config.
type routeFlags struct {
	sheet     string
	gap       int
	inclusive bool
	evening   int
	morning   int
	crossing  string
	count     string
	parallel  bool
}

func (a *App) addRouteFlags(cmd *cobra.Command, f *routeFlags) {
	n := a.config.Normalize
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read (default: first sheet with HORARIO/ORDEM columns)")
	cmd.Flags().IntVar(&f.gap, "gap", n.GapThresholdMinutes, "Gap threshold in minutes")
	cmd.Flags().BoolVar(&f.inclusive, "inclusive", n.GapInclusive, "Flag gaps equal to the threshold too")
	cmd.Flags().IntVar(&f.evening, "evening", n.EveningHour, "Hour from which a time counts as evening")
	cmd.Flags().IntVar(&f.morning, "morning", n.MorningHour, "Hour before which a time counts as early morning")
	cmd.Flags().StringVar(&f.crossing, "crossing", n.CrossingPolicy, "Midnight crossing policy: heuristic, shift, either, both")
	cmd.Flags().StringVar(&f.count, "count", a.config.Summary.CountMode, "Sector point count: orders or agenda")
	cmd.Flags().BoolVar(&f.parallel, "parallel", n.Parallel, "Normalize weekdays concurrently")
}

// options merges the flags over the config's normalization options.
func (a *App) options(f *routeFlags) (schedule.Options, schedule.CountMode, error) {
	opts := a.config.Options(a.log())
	if f.gap < 0 {
		return opts, "", fmt.Errorf("--gap must not be negative, got %d", f.gap)
	}
	if f.evening < 0 || f.evening > 23 || f.morning < 0 || f.morning > 23 {
		return opts, "", errors.New("--evening and --morning must be between 0 and 23")
	}
	if f.morning >= f.evening {
		return opts, "", fmt.Errorf("--morning (%d) must be before --evening (%d)", f.morning, f.evening)
	}
	policy, err := schedule.ParseCrossingPolicy(f.crossing)
	if err != nil {
		return opts, "", err
	}
	mode, err := schedule.ParseCountMode(f.count)
	if err != nil {
		return opts, "", err
	}

	opts.GapThreshold = f.gap
	opts.GapInclusive = f.inclusive
	opts.EveningHour = f.evening
	opts.MorningHour = f.morning
	opts.Policy = policy
	opts.Parallel = f.parallel
	return opts, mode, nil
}

// route is one loaded and normalized route file.
type route struct {
	source string // base file name
	digest string
	week   *schedule.Week
	sector schedule.SectorSummary
	opts   schedule.Options
}

// loadRoute reads and normalizes the route file at path.
func (a *App) loadRoute(path string, f *routeFlags) (*route, error) {
	opts, mode, err := a.options(f)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sheet.ErrSourceLoad, err)
	}
	source := filepath.Base(path)
	tbl, err := sheet.Read(bytes.NewReader(data), source, sheet.LoadOptions{Sheet: f.sheet})
	if err != nil {
		return nil, err
	}

	week := schedule.NormalizeWeek(tbl, opts)
	sector := schedule.SummarizeSector(tbl, week.Agenda, source, mode)
	a.log().Debug("route normalized",
		"source", source,
		"agenda_rows", week.Agenda.Len(),
		"frequency", week.Frequency(),
		"gaps", week.TotalGaps(),
		"partials", len(week.Partials))

	return &route{
		source: source,
		digest: history.Digest(data),
		week:   week,
		sector: sector,
		opts:   opts,
	}, nil
}

// record appends r to the run history when enabled. History failures are
// logged, never returned.
func (a *App) record(ctx context.Context, r *route) {
	if !a.config.Storage.History {
		return
	}
	repo, err := a.history()
	if err != nil {
		a.log().Warn("run history unavailable", "error", err)
		return
	}
	run, err := history.FromWeek(r.source, r.digest, r.week, r.sector, r.opts, a.now())
	if err != nil {
		a.log().Warn("building run record", "source", r.source, "error", err)
		return
	}
	if err := repo.CreateRun(ctx, run); err != nil {
		a.log().Warn("recording run", "source", r.source, "error", err)
		return
	}
	a.log().Debug("run recorded", "id", run.ID, "source", r.source)
}

// siblingPath returns path with its extension replaced by suffix.
func siblingPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
