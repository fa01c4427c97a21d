package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gssantosss/horariosautomaticosloga/internal/history"
	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// PrintOpts configures report printing.
type PrintOpts struct {
	Width    int  // Divider width (0 = terminal width)
	Timeline bool // Print every entry of each scheduled day
}

func (o PrintOpts) divider() string {
	width := o.Width
	if width <= 0 {
		width = min(termWidth(), 80)
	}
	return strings.Repeat("─", width)
}

// PrintReport prints the sector panel, the per-weekday summary and,
// optionally, each day's reconciled timeline.
func PrintReport(w io.Writer, source string, week *schedule.Week, sector schedule.SectorSummary, opts PrintOpts) {
	div := opts.divider()

	fmt.Fprintf(w, "\n  %s\n", formatHeader("ROTA: "+source))
	fmt.Fprintln(w, div)
	printSector(w, sector)
	fmt.Fprintln(w, div)
	printDaySummaries(w, week)
	fmt.Fprintln(w, div)

	if opts.Timeline {
		for _, d := range schedule.Weekdays() {
			if week.Days[d].HasEntries() {
				printTimeline(w, week.Timelines[d], week.Days[d])
			}
		}
		if len(week.Partials) > 0 {
			printPartials(w, week.Partials)
		}
		fmt.Fprintln(w, div)
	}

	fmt.Fprintf(w, "  Agenda: %d linhas  Gaps: %d  Parciais: %d\n",
		week.Agenda.Len(), week.TotalGaps(), len(week.Partials))
}

func printSector(w io.Writer, s schedule.SectorSummary) {
	fields := [][2]string{
		{"Pontos", strconv.Itoa(s.Points)},
		{"Setor", s.Sector},
		{"Subprefeitura", s.Subprefecture},
		{"Frequência", s.Frequency},
		{"Turno", s.Shift},
		{"Tipo de coleta", s.CollectionType},
	}
	for _, kv := range fields {
		v := kv[1]
		if v == "" {
			v = schedule.DisplayNone
		}
		fmt.Fprintf(w, "  %-16s%s\n", kv[0], v)
	}
}

func printDaySummaries(w io.Writer, week *schedule.Week) {
	fmt.Fprintf(w, "  %s\n", formatHeader(fmt.Sprintf("%-5s%-8s%-6s%-7s%-7s%-9s%-8s%-6s%s",
		"DIA", "PONTOS", "PARC", "MENOR", "MAIOR", "JORNADA", "VIRADA", "GAPS", "ORDEM")))
	for _, s := range week.Days {
		if !s.HasEntries() {
			line := fmt.Sprintf("%-5s%-8d%-6d", s.Weekday.Code(), 0, s.PartialCount)
			fmt.Fprintf(w, "  %s\n", formatMuted(strings.TrimRight(line, " ")))
			continue
		}

		crossing := fmt.Sprintf("%-8s", yesNo(s.Crosses))
		if s.Crosses {
			crossing = formatCrossing(crossing)
		}
		gaps := fmt.Sprintf("%-6d", len(s.Gaps))
		if len(s.Gaps) > 0 {
			gaps = formatGap(gaps)
		}
		order := yesNo(*s.OrderNonDecreasing)
		if *s.OrderNonDecreasing {
			order = formatOK(order)
		} else {
			order = formatGap(order)
		}

		fmt.Fprintf(w, "  %-5s%-8d%-6d%-7s%-7s%-9s%s%s%s\n",
			s.Weekday.Code(), s.EntryCount, s.PartialCount,
			s.MinTime, s.MaxTime, schedule.FormatSpan(s.SpanMinutes),
			crossing, gaps, order)
	}
}

func printTimeline(w io.Writer, tl schedule.Timeline, s schedule.DaySummary) {
	header := tl.Weekday.Code()
	if s.Crosses {
		header += " " + formatCrossing("(vira a meia-noite)")
	}
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))

	obs := schedule.Observations(tl, s)
	for i, e := range tl.Chronological {
		label := obs[i]
		if strings.Contains(label, schedule.LabelGap) {
			label = formatGap(label)
		}
		fmt.Fprintf(w, "  %4d  %-10s ordem %-5d %s  %s  %s\n",
			e.Position, e.RowID, e.Order, e.Time, formatMuted(schedule.FormatSpan(e.AdjustedMinutes)), label)
	}
	for _, g := range s.Gaps {
		fmt.Fprintf(w, "        %s %s → %s (ordem %d → %d)\n",
			formatGap(fmt.Sprintf("gap %d min", g.Minutes)), g.Before.Time, g.After.Time, g.Before.Order, g.After.Order)
	}
}

func printPartials(w io.Writer, partials []schedule.Partial) {
	fmt.Fprintf(w, "\n  %s\n", formatHeader("PARCIAIS"))
	for _, p := range partials {
		var detail string
		switch {
		case p.HasOrder:
			detail = fmt.Sprintf("ordem %d sem horário", p.Order)
		case p.HasTime:
			detail = fmt.Sprintf("horário %s sem ordem", p.Time)
		}
		fmt.Fprintf(w, "  %s  %-10s %s\n", p.Weekday.Code(), p.RowID, formatMuted(detail))
	}
}

// PrintRuns prints run history, most recent first.
func PrintRuns(w io.Writer, runs []*history.Run) {
	fmt.Fprintf(w, "  %s\n", formatHeader(fmt.Sprintf("%-6s%-18s%-24s%-8s%-8s%-22s%-6s%s",
		"ID", "QUANDO", "ARQUIVO", "SETOR", "PONTOS", "FREQUENCIA", "GAPS", "PARC")))
	for _, r := range runs {
		fmt.Fprintf(w, "  %-6d%-18s%-24s%-8s%-8d%-22s%-6d%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(r.Source, 23),
			orNone(r.Sector), r.Points, orNone(r.Frequency), r.TotalGaps, r.Partials)
	}
}

// PrintRun prints one stored run with its per-weekday summary.
func PrintRun(w io.Writer, r *history.Run, opts PrintOpts) {
	div := opts.divider()
	fmt.Fprintf(w, "\n  %s\n", formatHeader(fmt.Sprintf("EXECUÇÃO #%d: %s", r.ID, r.Source)))
	fmt.Fprintln(w, div)
	fmt.Fprintf(w, "  %-16s%s\n", "Quando", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  %-16s%s\n", "Setor", orNone(r.Sector))
	fmt.Fprintf(w, "  %-16s%d\n", "Pontos", r.Points)
	fmt.Fprintf(w, "  %-16s%s\n", "Frequência", orNone(r.Frequency))
	fmt.Fprintf(w, "  %-16s%s, gap > %d min\n", "Parâmetros", r.Policy, r.GapThreshold)
	fmt.Fprintf(w, "  %-16s%s\n", "Digest", formatMuted(truncate(r.Digest, 16)))
	fmt.Fprintln(w, div)
	fmt.Fprintf(w, "  %s\n", formatHeader(fmt.Sprintf("%-5s%-8s%-6s%-7s%-7s%-9s%-8s%s",
		"DIA", "PONTOS", "PARC", "MENOR", "MAIOR", "JORNADA", "VIRADA", "GAPS")))
	for _, d := range r.Days {
		if d.Entries == 0 {
			line := fmt.Sprintf("%-5s%-8d%-6d", d.Weekday.Code(), 0, d.Partials)
			fmt.Fprintf(w, "  %s\n", formatMuted(strings.TrimRight(line, " ")))
			continue
		}
		fmt.Fprintf(w, "  %-5s%-8d%-6d%-7s%-7s%-9s%-8s%d\n",
			d.Weekday.Code(), d.Entries, d.Partials, d.MinTime, d.MaxTime,
			schedule.FormatSpan(d.SpanMinutes), yesNo(d.Crosses), d.Gaps)
	}
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}

func orNone(s string) string {
	if s == "" {
		return schedule.DisplayNone
	}
	return s
}

// truncate cuts s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
