package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// Context columns read by the sector panel.
const (
	SectorColumn         = "SETOR"
	SubprefectureColumn  = "SUBPREFEITURA"
	FrequencyColumn      = "FREQUENCIA"
	CollectionTypeColumn = "TIPOCOLETA"
)

// Display values for collapsed columns.
const (
	DisplayNone     = "—"
	DisplayMultiple = "múltiplos"
)

// CollapseKind tells whether a column has one well-defined value.
type CollapseKind int

const (
	CollapseNone CollapseKind = iota
	CollapseSingle
	CollapseMultiple
)

// Collapsed is the result of reducing a context column to one display value.
type Collapsed struct {
	Kind  CollapseKind
	Value string // set only for CollapseSingle
}

// String returns the value, "múltiplos", or "—".
func (c Collapsed) String() string {
	switch c.Kind {
	case CollapseSingle:
		return c.Value
	case CollapseMultiple:
		return DisplayMultiple
	default:
		return DisplayNone
	}
}

// Collapse reduces a column to its single non-blank trimmed value.
// Missing columns and columns with only blanks collapse to none.
func Collapse(t *Table, column string) Collapsed {
	if t == nil || !t.HasColumn(column) {
		return Collapsed{}
	}
	var value string
	found := false
	for _, r := range t.Rows() {
		v := r.Field(column)
		if v == "" {
			continue
		}
		if !found {
			value, found = v, true
			continue
		}
		if v != value {
			return Collapsed{Kind: CollapseMultiple}
		}
	}
	if !found {
		return Collapsed{}
	}
	return Collapsed{Kind: CollapseSingle, Value: value}
}

// CountMode selects how points are counted.
type CountMode string

const (
	// CountOrders counts rows with any numeric weekday order.
	CountOrders CountMode = "orders"
	// CountAgenda counts distinct rows present in the agenda.
	CountAgenda CountMode = "agenda"
)

// ParseCountMode parses a count mode name, case-insensitive.
func ParseCountMode(s string) (CountMode, error) {
	switch m := CountMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CountOrders, CountAgenda:
		return m, nil
	default:
		return "", fmt.Errorf("unknown count mode %q", s)
	}
}

// SectorSummary holds the headline metrics of a route table.
type SectorSummary struct {
	Points         int
	Sector         string
	Subprefecture  string
	Frequency      string
	Shift          string
	CollectionType string
}

var sectorToken = regexp.MustCompile(`\b([A-Z]{2}\d{1,3})\b`)

// SummarizeSector derives the sector panel from the raw table and agenda.
func SummarizeSector(t *Table, a Agenda, filenameHint string, mode CountMode) SectorSummary {
	s := SectorSummary{
		Sector:         SectorName(t, filenameHint),
		Subprefecture:  Collapse(t, SubprefectureColumn).String(),
		Shift:          Collapse(t, ShiftColumn).String(),
		CollectionType: Collapse(t, CollectionTypeColumn).String(),
	}

	if mode == CountAgenda {
		s.Points = countAgendaRows(a)
	} else {
		s.Points = countOrderedRows(t)
	}

	s.Frequency = JoinWeekdays(a.Weekdays())
	if s.Frequency == "" {
		s.Frequency = Collapse(t, FrequencyColumn).String()
	}
	return s
}

// SectorName returns the single SETOR value, else a token like "PR18"
// found in the file name, else the collapse display value.
func SectorName(t *Table, filenameHint string) string {
	c := Collapse(t, SectorColumn)
	if c.Kind == CollapseSingle {
		return c.Value
	}
	if filenameHint != "" {
		if m := sectorToken.FindStringSubmatch(strings.ToUpper(filenameHint)); m != nil {
			return m[1]
		}
	}
	return c.String()
}

func countOrderedRows(t *Table) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, r := range t.Rows() {
		for _, d := range Weekdays() {
			if _, ok := r.Order(d).numeric(); ok {
				n++
				break
			}
		}
	}
	return n
}

func countAgendaRows(a Agenda) int {
	seen := make(map[int]bool, len(a.Rows))
	for _, r := range a.Rows {
		seen[r.RowIndex] = true
	}
	return len(seen)
}
