package schedule

import (
	"time"
)

// newTestTable builds a table from a header and positional cells.
// Cells may be nil, string, int, float64, or time.Time.
func newTestTable(columns []string, cells ...[]any) *Table {
	rows := make([]Row, 0, len(cells))
	for i, rc := range cells {
		m := make(map[string]Value, len(columns))
		for j, c := range columns {
			if j >= len(rc) {
				break
			}
			m[c] = toValue(rc[j])
		}
		rows = append(rows, NewRow(i, m))
	}
	return NewTable(columns, rows)
}

func toValue(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case string:
		return Text(v)
	case int:
		return Number(float64(v))
	case float64:
		return Number(v)
	case time.Time:
		return Time(v)
	default:
		return Null()
	}
}

func entries(pairs ...any) []DayEntry {
	var out []DayEntry
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, DayEntry{
			RowIndex: len(out),
			Order:    pairs[i].(int),
			Time:     TimeOfDay(TimeToMinutes(pairs[i+1].(string))),
		})
	}
	return out
}

func adjusted(tl []TimelineEntry) []int {
	out := make([]int, len(tl))
	for i, e := range tl {
		out[i] = e.AdjustedMinutes
	}
	return out
}

func orders(tl []TimelineEntry) []int {
	out := make([]int, len(tl))
	for i, e := range tl {
		out[i] = e.Order
	}
	return out
}
