package sheet

import (
	"encoding/json"
	"io"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// Report is the JSON form of a normalized week.
type Report struct {
	Source    string          `json:"source,omitempty"`
	Sector    *SectorReport   `json:"sector,omitempty"`
	Frequency string          `json:"frequency"`
	TotalGaps int             `json:"total_gaps"`
	Days      []DayReport     `json:"days"`
	Agenda    []AgendaEntry   `json:"agenda"`
	Partials  []PartialRecord `json:"partials"`
}

// SectorReport is the sector panel.
type SectorReport struct {
	Points         int    `json:"points"`
	Sector         string `json:"sector"`
	Subprefecture  string `json:"subprefecture"`
	Frequency      string `json:"frequency"`
	Shift          string `json:"shift"`
	CollectionType string `json:"collection_type"`
}

// DayReport is one weekday summary with its chronological timeline.
type DayReport struct {
	Weekday            string          `json:"weekday"`
	Entries            int             `json:"entries"`
	Partials           int             `json:"partials"`
	MinTime            string          `json:"min_time,omitempty"`
	MaxTime            string          `json:"max_time,omitempty"`
	Span               string          `json:"span,omitempty"`
	Crosses            bool            `json:"crosses_midnight"`
	OrderNonDecreasing *bool           `json:"order_non_decreasing"`
	Gaps               []GapEntry      `json:"gaps"`
	Timeline           []TimelineEntry `json:"timeline"`
}

// GapEntry is a flagged gap between two visits.
type GapEntry struct {
	FromOrder int    `json:"from_order"`
	ToOrder   int    `json:"to_order"`
	From      string `json:"from"`
	To        string `json:"to"`
	Minutes   int    `json:"minutes"`
}

// TimelineEntry is one visit in chronological order.
type TimelineEntry struct {
	Position        int    `json:"position"`
	RowID           string `json:"row_id"`
	Order           int    `json:"order"`
	Time            string `json:"time"`
	AdjustedMinutes int    `json:"adjusted_minutes"`
	Observation     string `json:"observation,omitempty"`
}

// AgendaEntry is one long-form agenda row.
type AgendaEntry struct {
	RowID          string            `json:"row_id"`
	Context        map[string]string `json:"context,omitempty"`
	Weekday        string            `json:"weekday"`
	Order          int               `json:"order"`
	Time           string            `json:"time"`
	CollectionForm string            `json:"collection_form,omitempty"`
}

// PartialRecord is a row with only one of time or order for a weekday.
type PartialRecord struct {
	RowID   string `json:"row_id"`
	Weekday string `json:"weekday"`
	Order   *int   `json:"order,omitempty"`
	Time    string `json:"time,omitempty"`
}

// NewReport converts w into its JSON form. sector may be nil.
func NewReport(source string, w *schedule.Week, sector *schedule.SectorSummary) Report {
	r := Report{
		Source:    source,
		Frequency: w.Frequency(),
		TotalGaps: w.TotalGaps(),
		Days:      make([]DayReport, 0, schedule.DaysPerWeek),
		Agenda:    make([]AgendaEntry, 0, w.Agenda.Len()),
		Partials:  make([]PartialRecord, 0, len(w.Partials)),
	}
	if sector != nil {
		r.Sector = &SectorReport{
			Points:         sector.Points,
			Sector:         sector.Sector,
			Subprefecture:  sector.Subprefecture,
			Frequency:      sector.Frequency,
			Shift:          sector.Shift,
			CollectionType: sector.CollectionType,
		}
	}

	for _, d := range schedule.Weekdays() {
		r.Days = append(r.Days, dayReport(w.Timelines[d], w.Days[d]))
	}

	for _, a := range w.Agenda.Rows {
		e := AgendaEntry{
			RowID:          a.RowID,
			Weekday:        a.Weekday.Code(),
			Order:          a.Order,
			Time:           a.Time.String(),
			CollectionForm: a.CollectionForm,
		}
		for i, col := range w.Agenda.ContextColumns {
			if a.Context[i] == "" {
				continue
			}
			if e.Context == nil {
				e.Context = make(map[string]string, len(w.Agenda.ContextColumns))
			}
			e.Context[col] = a.Context[i]
		}
		r.Agenda = append(r.Agenda, e)
	}

	for _, p := range w.Partials {
		rec := PartialRecord{RowID: p.RowID, Weekday: p.Weekday.Code()}
		if p.HasOrder {
			order := p.Order
			rec.Order = &order
		}
		if p.HasTime {
			rec.Time = p.Time.String()
		}
		r.Partials = append(r.Partials, rec)
	}
	return r
}

func dayReport(tl schedule.Timeline, s schedule.DaySummary) DayReport {
	d := DayReport{
		Weekday:            s.Weekday.Code(),
		Entries:            s.EntryCount,
		Partials:           s.PartialCount,
		Crosses:            s.Crosses,
		OrderNonDecreasing: s.OrderNonDecreasing,
		Gaps:               make([]GapEntry, 0, len(s.Gaps)),
		Timeline:           make([]TimelineEntry, 0, tl.Len()),
	}
	if !s.HasEntries() {
		return d
	}
	d.MinTime = s.MinTime.String()
	d.MaxTime = s.MaxTime.String()
	d.Span = schedule.FormatSpan(s.SpanMinutes)

	for _, g := range s.Gaps {
		d.Gaps = append(d.Gaps, GapEntry{
			FromOrder: g.Before.Order,
			ToOrder:   g.After.Order,
			From:      g.Before.Time.String(),
			To:        g.After.Time.String(),
			Minutes:   g.Minutes,
		})
	}

	obs := schedule.Observations(tl, s)
	for i, e := range tl.Chronological {
		d.Timeline = append(d.Timeline, TimelineEntry{
			Position:        e.Position,
			RowID:           e.RowID,
			Order:           e.Order,
			Time:            e.Time.String(),
			AdjustedMinutes: e.AdjustedMinutes,
			Observation:     obs[i],
		})
	}
	return d
}

// WriteJSON writes the indented JSON report for w.
func WriteJSON(out io.Writer, source string, w *schedule.Week, sector *schedule.SectorSummary) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(source, w, sector))
}
