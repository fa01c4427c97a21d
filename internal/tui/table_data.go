package tui

import (
	"strconv"
	"strings"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// dayView selects which of a timeline's two orders a day tab shows.
type dayView int

const (
	viewChronological dayView = iota
	viewByOrder
)

func (v dayView) String() string {
	if v == viewByOrder {
		return "por ordem"
	}
	return "cronológica"
}

func (v dayView) toggle() dayView {
	if v == viewByOrder {
		return viewChronological
	}
	return viewByOrder
}

var (
	dayColumns     = []string{"POS", "ID", "ORDEM", "HORARIO", "AJUSTADO", "OBS"}
	summaryColumns = []string{"DIA", "PONTOS", "PARCIAIS", "MENOR", "MAIOR", "JORNADA", "VIRADA", "GAPS", "ORDEM OK"}
)

// dayRows returns one row per entry of tl in the requested order. The
// observation follows its entry, so both views carry the same labels.
func dayRows(tl schedule.Timeline, s schedule.DaySummary, v dayView) [][]string {
	obs := schedule.Observations(tl, s)
	entries := tl.Chronological
	if v == viewByOrder {
		entries = tl.ByOrder
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		label := ""
		if e.Position >= 1 && e.Position <= len(obs) {
			label = obs[e.Position-1]
		}
		rows[i] = []string{
			strconv.Itoa(e.Position),
			e.RowID,
			strconv.Itoa(e.Order),
			e.Time.String(),
			schedule.FormatSpan(e.AdjustedMinutes),
			label,
		}
	}
	return rows
}

// summaryRows returns one row per weekday, scheduled or not.
func summaryRows(w *schedule.Week) [][]string {
	rows := make([][]string, 0, schedule.DaysPerWeek)
	for _, s := range w.Days {
		row := []string{s.Weekday.Code(), strconv.Itoa(s.EntryCount), strconv.Itoa(s.PartialCount)}
		if !s.HasEntries() {
			row = append(row, "", "", "", "", "", "")
			rows = append(rows, row)
			continue
		}
		row = append(row,
			s.MinTime.String(),
			s.MaxTime.String(),
			schedule.FormatSpan(s.SpanMinutes),
			yesNo(s.Crosses),
			strconv.Itoa(len(s.Gaps)),
			yesNo(*s.OrderNonDecreasing),
		)
		rows = append(rows, row)
	}
	return rows
}

// sectorCards returns the sector panel as label/value pairs.
func sectorCards(sector schedule.SectorSummary) [][2]string {
	return [][2]string{
		{"Pontos", strconv.Itoa(sector.Points)},
		{"Setor", sector.Sector},
		{"Subprefeitura", sector.Subprefecture},
		{"Frequência", sector.Frequency},
		{"Turno", sector.Shift},
		{"Tipo de coleta", sector.CollectionType},
	}
}

// tsv joins a header and rows with tabs and newlines for pasting into a
// spreadsheet.
func tsv(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(r, "\t"))
	}
	b.WriteByte('\n')
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}
