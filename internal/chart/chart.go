// Package chart renders a normalized week as an HTML page of charts.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Series names.
const (
	PointsSeries = "Pontos"
	GapsSeries   = "Gaps"
)

// Render writes an HTML page with the per-weekday counts and the
// reconciled timeline of every scheduled weekday.
func Render(w io.Writer, week *schedule.Week, title string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(countsChart(week, title), timelineChart(week))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// countsChart is a bar chart of entries and gaps per weekday.
func countsChart(week *schedule.Week, title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Frequência: " + frequencyLabel(week),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	days := make([]string, 0, schedule.DaysPerWeek)
	points := make([]opts.BarData, 0, schedule.DaysPerWeek)
	gaps := make([]opts.BarData, 0, schedule.DaysPerWeek)
	for _, s := range week.Days {
		days = append(days, s.Weekday.Code())
		points = append(points, opts.BarData{Value: s.EntryCount})
		gaps = append(gaps, opts.BarData{Value: len(s.Gaps)})
	}

	bar.SetXAxis(days).
		AddSeries(PointsSeries, points).
		AddSeries(GapsSeries, gaps)
	return bar
}

// timelineChart plots adjusted visit times, in hours, against the
// chronological position. Times past midnight continue above 24.
func timelineChart(week *schedule.Week) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Linha do tempo"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Posição"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hora", Scale: opts.Bool(true)}),
	)

	longest := 0
	for _, tl := range week.Timelines {
		longest = max(longest, tl.Len())
	}
	positions := make([]string, longest)
	for i := range positions {
		positions[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(positions)

	for _, tl := range week.Timelines {
		if tl.Len() == 0 {
			continue
		}
		data := make([]opts.LineData, 0, tl.Len())
		for _, e := range tl.Chronological {
			data = append(data, opts.LineData{
				Name:  e.RowID,
				Value: hours(e.AdjustedMinutes),
			})
		}
		line.AddSeries(tl.Weekday.Code(), data)
	}
	return line
}

func hours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

func frequencyLabel(week *schedule.Week) string {
	if f := week.Frequency(); f != "" {
		return f
	}
	return schedule.DisplayNone
}
