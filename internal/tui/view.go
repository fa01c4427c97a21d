package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

const summaryColWidth = 10

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, m.bodyHeight())
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tb := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.ActiveTab.Render(tb.label))
		} else {
			parts = append(parts, m.styles.InactiveTab.Render(tb.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderInfo()
}

// renderInfo describes the active tab in one line.
func (m *Model) renderInfo() string {
	tb := m.tabs[m.activeTab]
	if tb.summary {
		info := fmt.Sprintf("%s  frequência=%s  gaps=%d  parciais=%d",
			m.title, displayOrNone(m.week.Frequency()), m.week.TotalGaps(), len(m.week.Partials))
		return m.styles.Header.Render(truncateLine(info, m.width))
	}

	s := m.week.Days[tb.day]
	parts := []string{
		m.styles.Header.Render(fmt.Sprintf("%s  %d pontos  jornada %s  visão %s",
			tb.day, s.EntryCount, schedule.FormatSpan(s.SpanMinutes), m.view)),
	}
	if s.Crosses {
		parts = append(parts, m.styles.Crossing.Render("VIRADA"))
	}
	if n := len(s.Gaps); n > 0 {
		parts = append(parts, m.styles.Gap.Render(fmt.Sprintf("%d %s", n, schedule.LabelGap)))
	}
	if s.OrderNonDecreasing != nil && !*s.OrderNonDecreasing {
		parts = append(parts, m.styles.Warning.Render("ordem fora do horário"))
	}
	if s.PartialCount > 0 {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("%d parciais", s.PartialCount)))
	}
	return truncateLine(strings.Join(parts, "  "), m.width)
}

func (m *Model) renderBody() string {
	if m.tabs[m.activeTab].summary {
		return m.summary.View()
	}
	if len(m.tabs) == 1 {
		return m.styles.Header.Render("Nenhum dia com horários.")
	}
	return m.tables[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	help := m.styles.Header.Render("Abas: ←/→  Rolar: ↑/↓ g/G  Visão: v  Copiar: y  Sair: q")
	if m.statusMsg == "" {
		return help
	}
	return help + "\n" + m.styles.Status.Render(m.statusMsg)
}

// renderSummary refreshes the summary viewport with the sector cards and
// the per-weekday table.
func (m *Model) renderSummary() {
	m.summary.SetContent(m.renderCards() + "\n\n" + m.renderWeekTable())
}

func (m *Model) renderCards() string {
	pairs := sectorCards(m.sector)
	cards := make([]string, len(pairs))
	for i, kv := range pairs {
		content := m.styles.CardTitle.Render(kv[0]) + "\n" + m.styles.CardValue.Render(displayOrNone(kv[1]))
		cards[i] = m.styles.Card.Render(content)
	}
	if m.width > 0 && m.width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func (m *Model) renderWeekTable() string {
	lines := make([]string, 0, schedule.DaysPerWeek+1)
	lines = append(lines, m.styles.Header.Render(padCells(summaryColumns)))
	for i, row := range summaryRows(m.week) {
		line := padCells(row)
		s := m.week.Days[i]
		switch {
		case !s.HasEntries():
			line = m.styles.Header.Render(line)
		case s.Crosses:
			line = m.styles.Crossing.Render(line)
		case len(s.Gaps) > 0:
			line = m.styles.Gap.Render(line)
		default:
			line = m.styles.OK.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func padCells(cells []string) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(padLine(c, summaryColWidth-1))
		b.WriteByte(' ')
	}
	return strings.TrimRight(b.String(), " ")
}

func displayOrNone(s string) string {
	if s == "" {
		return schedule.DisplayNone
	}
	return s
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(truncateLine(line, width), width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// truncateLine cuts s to width cells, keeping escape sequences intact.
func truncateLine(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
