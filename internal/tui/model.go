// Package tui provides the terminal preview of a normalized route week.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
	"github.com/gssantosss/horariosautomaticosloga/internal/tui/theme"
)

// SummaryTab is the label of the first tab.
const SummaryTab = "Resumo"

const (
	headerHeight = 4 // tab row with borders plus the info line
	footerHeight = 2
)

// tab is either the week summary or one scheduled weekday.
type tab struct {
	label   string
	day     schedule.Weekday
	summary bool
}

// Model is the Bubble Tea model for the preview.
type Model struct {
	week   *schedule.Week
	sector schedule.SectorSummary
	title  string
	styles *Styles

	tabs      []tab
	activeTab int
	view      dayView

	summary viewport.Model
	tables  []table.Model // aligned with tabs; the summary entry is unused

	width     int
	height    int
	statusMsg string

	copyFn func(string) error
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme.
func WithTheme(t *theme.Theme) Option {
	return func(m *Model) {
		m.styles = NewStyles(t)
	}
}

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) {
		m.copyFn = fn
	}
}

// NewModel builds a preview of w. The tabs are the summary followed by
// every weekday that has at least one entry.
func NewModel(w *schedule.Week, sector schedule.SectorSummary, title string, opts ...Option) *Model {
	m := &Model{
		week:    w,
		sector:  sector,
		title:   title,
		summary: viewport.New(0, 0),
		copyFn:  clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.styles == nil {
		m.styles = NewStyles(nil)
	}

	m.tabs = []tab{{label: SummaryTab, summary: true}}
	for _, d := range schedule.Weekdays() {
		if w.Days[d].HasEntries() {
			m.tabs = append(m.tabs, tab{label: d.Code(), day: d})
		}
	}
	m.buildTables()
	m.renderSummary()
	return m
}

// Run starts the preview in the alternate screen and blocks until the user quits.
func Run(w *schedule.Week, sector schedule.SectorSummary, title, themeName string) error {
	t, err := theme.Load(themeName)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewModel(w, sector, title, WithTheme(t)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) buildTables() {
	columns := make([]table.Column, len(dayColumns))
	for i, title := range dayColumns {
		columns[i] = table.Column{Title: title, Width: dayColumnWidth(title)}
	}

	m.tables = make([]table.Model, len(m.tabs))
	for i, tb := range m.tabs {
		if tb.summary {
			continue
		}
		data := dayRows(m.week.Timelines[tb.day], m.week.Days[tb.day], m.view)
		rows := make([]table.Row, len(data))
		for j, r := range data {
			rows[j] = table.Row(r)
		}
		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithHeight(max(1, m.bodyHeight())),
		)
		t.SetStyles(m.styles.Table)
		if m.width > 0 {
			t.SetWidth(m.width)
		}
		if i == m.activeTab {
			t.Focus()
		}
		m.tables[i] = t
	}
}

func dayColumnWidth(title string) int {
	switch title {
	case "POS", "ORDEM":
		return 6
	case "ID":
		return 10
	case "HORARIO", "AJUSTADO":
		return 9
	default:
		return 28
	}
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-headerHeight-footerHeight)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	m.summary.Width = m.width
	m.summary.Height = h
	for i := range m.tables {
		if m.tabs[i].summary {
			continue
		}
		m.tables[i].SetWidth(m.width)
		m.tables[i].SetHeight(h)
	}
	m.renderSummary()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	if !m.tabs[m.activeTab].summary {
		m.tables[m.activeTab].Blur()
	}
	m.activeTab = next
	if !m.tabs[m.activeTab].summary {
		m.tables[m.activeTab].Focus()
	}
}

// toggleView flips every day table between chronological and order view,
// keeping the cursor on the same row index.
func (m *Model) toggleView() {
	cursors := make([]int, len(m.tables))
	for i := range m.tables {
		if !m.tabs[i].summary {
			cursors[i] = m.tables[i].Cursor()
		}
	}
	m.view = m.view.toggle()
	m.buildTables()
	for i := range m.tables {
		if !m.tabs[i].summary {
			m.tables[i].SetCursor(cursors[i])
		}
	}
}

// copyText returns the active tab as TSV.
func (m *Model) copyText() string {
	tb := m.tabs[m.activeTab]
	if tb.summary {
		return tsv(summaryColumns, summaryRows(m.week))
	}
	return tsv(dayColumns, dayRows(m.week.Timelines[tb.day], m.week.Days[tb.day], m.view))
}
