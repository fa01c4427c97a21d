package schedule

import (
	"strconv"
	"strings"
)

// IDColumn is the row identity column.
const IDColumn = "ID"

// Row is one input row: a point on the route. Rows are never mutated
// after the table is built.
type Row struct {
	Index int // 0-based position in the source table
	cells map[string]Value
}

// NewRow builds a row from cells keyed by column name.
// Column names are normalized to trimmed upper case.
func NewRow(index int, cells map[string]Value) Row {
	norm := make(map[string]Value, len(cells))
	for k, v := range cells {
		norm[NormalizeColumn(k)] = v
	}
	return Row{Index: index, cells: norm}
}

// Cell returns the raw value of a column, Null if absent.
func (r Row) Cell(column string) Value {
	return r.cells[NormalizeColumn(column)]
}

// Field returns a context column as trimmed display text.
func (r Row) Field(column string) string {
	return r.Cell(column).String()
}

// ID returns the row identity: the ID column when filled, else the
// 1-based position.
func (r Row) ID() string {
	if id := r.Field(IDColumn); id != "" {
		return id
	}
	return strconv.Itoa(r.Index + 1)
}

// Time returns the raw time cell for a weekday.
func (r Row) Time(d Weekday) Value { return r.Cell(d.TimeColumn()) }

// Order returns the raw order cell for a weekday.
func (r Row) Order(d Weekday) Value { return r.Cell(d.OrderColumn()) }

// Table is an immutable input table with its discovered column names.
type Table struct {
	columns []string
	index   map[string]bool
	rows    []Row
}

// NewTable builds a table. Row indexes are reassigned to match slice order.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]bool, len(columns)),
		rows:    make([]Row, len(rows)),
	}
	for _, c := range columns {
		c = NormalizeColumn(c)
		if c == "" || t.index[c] {
			continue
		}
		t.index[c] = true
		t.columns = append(t.columns, c)
	}
	for i, r := range rows {
		r.Index = i
		t.rows[i] = r
	}
	return t
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the column was present in the source header.
func (t *Table) HasColumn(column string) bool {
	return t.index[NormalizeColumn(column)]
}

// HasDay reports whether either column of the weekday pair exists.
func (t *Table) HasDay(d Weekday) bool {
	return t.HasColumn(d.TimeColumn()) || t.HasColumn(d.OrderColumn())
}

// Rows returns the rows. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// NormalizeColumn trims and upper-cases a column name.
func NormalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// compareRowIDs orders identities numerically when both are integers,
// lexically otherwise. Equal numbers with different text ("007", "7")
// fall back to lexical order.
func compareRowIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return strings.Compare(a, b)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
