package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Output sheet names.
const (
	AgendaSheet  = "agenda_por_dia"
	SummarySheet = "resumo_por_dia"
	SectorSheet  = "setor"
)

const (
	clockFormat = "hh:mm"
	spanFormat  = "[hh]:mm"
)

// Workbook builds the export workbook for w. sector may be nil.
// The caller must Close the returned file.
func Workbook(w *schedule.Week, sector *schedule.SectorSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", AgendaSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	b := &builder{f: f}
	if b.clock, b.err = f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(clockFormat)}); b.err != nil {
		_ = f.Close()
		return nil, b.err
	}
	if b.span, b.err = f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(spanFormat)}); b.err != nil {
		_ = f.Close()
		return nil, b.err
	}

	b.agenda(w.Agenda)
	b.summary(w)
	for _, d := range schedule.Weekdays() {
		if w.Days[d].HasEntries() {
			b.day(w.Timelines[d], w.Days[d])
		}
	}
	if sector != nil {
		b.sector(*sector)
	}
	if b.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("building workbook: %w", b.err)
	}
	return f, nil
}

// WriteAgenda writes the export workbook for w to out.
func WriteAgenda(out io.Writer, w *schedule.Week, sector *schedule.SectorSummary) error {
	f, err := Workbook(w, sector)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// builder accumulates the first error so sheet code reads straight through.
type builder struct {
	f     *excelize.File
	clock int
	span  int
	err   error
}

func (b *builder) newSheet(name string) {
	if b.err != nil {
		return
	}
	_, b.err = b.f.NewSheet(name)
}

func (b *builder) row(sheet string, n int, values ...any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &values)
}

func (b *builder) style(sheet string, col, row, style int) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetCellStyle(sheet, cell, cell, style)
}

func (b *builder) agenda(a schedule.Agenda) {
	header := make([]any, 0, len(a.ContextColumns)+4)
	for _, c := range a.ContextColumns {
		header = append(header, c)
	}
	header = append(header, "DIA_SEMANA", "ORDEM", "HORARIO", "FORMA_COLETA")
	b.row(AgendaSheet, 1, header...)

	timeCol := len(a.ContextColumns) + 3
	for i, r := range a.Rows {
		values := make([]any, 0, len(header))
		for _, c := range r.Context {
			values = append(values, c)
		}
		values = append(values, r.Weekday.Code(), r.Order, dayFraction(r.Time.Minutes()), r.CollectionForm)
		b.row(AgendaSheet, i+2, values...)
		b.style(AgendaSheet, timeCol, i+2, b.clock)
	}
}

func (b *builder) summary(w *schedule.Week) {
	b.newSheet(SummarySheet)
	b.row(SummarySheet, 1, "DIA_SEMANA", "PONTOS", "PARCIAIS", "MENOR_HORARIO", "MAIOR_HORARIO", "JORNADA", "VIRADA", "GAPS", "ORDEM_CRESCENTE")
	for i, s := range w.Days {
		n := i + 2
		if !s.HasEntries() {
			b.row(SummarySheet, n, s.Weekday.Code(), 0, s.PartialCount)
			continue
		}
		b.row(SummarySheet, n,
			s.Weekday.Code(),
			s.EntryCount,
			s.PartialCount,
			dayFraction(s.MinTime.Minutes()),
			dayFraction(s.MaxTime.Minutes()),
			dayFraction(s.SpanMinutes),
			yesNo(s.Crosses),
			len(s.Gaps),
			yesNo(*s.OrderNonDecreasing),
		)
		b.style(SummarySheet, 4, n, b.clock)
		b.style(SummarySheet, 5, n, b.clock)
		b.style(SummarySheet, 6, n, b.span)
	}
}

func (b *builder) day(tl schedule.Timeline, s schedule.DaySummary) {
	name := tl.Weekday.Code()
	b.newSheet(name)
	b.row(name, 1, "POSICAO", "ID", "ORDEM", "HORARIO", "OBS")
	obs := schedule.Observations(tl, s)
	for i, e := range tl.Chronological {
		n := i + 2
		b.row(name, n, e.Position, e.RowID, e.Order, dayFraction(e.Time.Minutes()), obs[i])
		b.style(name, 4, n, b.clock)
	}
}

func (b *builder) sector(s schedule.SectorSummary) {
	b.newSheet(SectorSheet)
	for i, kv := range sectorFields(s) {
		b.row(SectorSheet, i+1, kv[0], kv[1])
	}
}

func sectorFields(s schedule.SectorSummary) [][2]any {
	return [][2]any{
		{"PONTOS", s.Points},
		{"SETOR", s.Sector},
		{"SUBPREFEITURA", s.Subprefecture},
		{"FREQUENCIA", s.Frequency},
		{"TURNO", s.Shift},
		{"TIPOCOLETA", s.CollectionType},
	}
}

// dayFraction converts minutes to the spreadsheet's fraction-of-a-day
// representation.
func dayFraction(minutes int) float64 {
	return float64(minutes) / schedule.MinutesPerDay
}

func yesNo(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}

func strPtr(s string) *string { return &s }
