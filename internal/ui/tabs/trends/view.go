package trends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veskel/cityscan/internal/era"
	"github.com/veskel/cityscan/internal/report"
	"github.com/veskel/cityscan/internal/ui/components"
	"github.com/veskel/cityscan/internal/ui/styles"
)

// runTableLimit caps the run table so charts stay on screen.
const runTableLimit = 10

// View renders the trends tab.
func (m *Model) View() string {
	runs := m.state.GetRuns()
	if len(runs) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTotalsChart(),
		m.renderFragmentsChart(),
		m.renderRunTable(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Trends"),
		"",
		styles.HelpStyle.Render("No runs recorded yet."),
		styles.HelpStyle.Render("Trends appear once a few snapshots have been analyzed."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	runs := m.state.GetRuns()
	title := styles.TitleStyle.Render("Trends")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d recorded runs, newest first", len(runs)))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTotalsChart() string {
	cardWidth := max(m.width-6, 40)
	totals, _ := m.state.GetTrends()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("City Size"), "")

	if len(totals) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough runs for a chart"))
	} else {
		chart := components.RenderLineChart(totals, max(cardWidth-12, 30), 8,
			"Total entities per run")
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderFragmentsChart() string {
	cardWidth := max(m.width-6, 40)
	_, fragments := m.state.GetTrends()

	oneUp := make([]float64, 0, len(fragments))
	renovation := make([]float64, 0, len(fragments))
	for _, run := range reversed(m.state.GetRuns()) {
		oneUp = append(oneUp, run.ExpectedOneUp)
		renovation = append(renovation, run.ExpectedRenovation)
	}

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Expected Fragments"), "")

	if len(oneUp) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough runs for a chart"))
	} else {
		chart := components.RenderDualLineChart(oneUp, renovation, max(cardWidth-12, 30), 8,
			"Expected fragments per cycle")
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		legend := components.RenderLegend([]components.LegendItem{
			{Label: "One Up Kit", Color: styles.Primary},
			{Label: "Renovation Kit", Color: styles.Secondary},
		})
		rows = append(rows, "  "+legend)
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRunTable() string {
	cardWidth := max(m.width-6, 40)
	runs := m.state.GetRuns()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent Runs"), "")

	header := fmt.Sprintf("  %-16s %-5s %6s %6s %6s %9s %9s",
		"When", "Era", "Total", "Class", "Kits", "One Up", "Renov")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	limit := min(len(runs), runTableLimit)
	for _, run := range runs[:limit] {
		rows = append(rows, fmt.Sprintf("  %-16s %-5s %6d %6d %6d %9s %9s",
			run.CreatedAt.Format("Jan 2 15:04"),
			era.Code(run.Era),
			run.Total,
			run.Classified,
			run.KitBuildings,
			report.FormatNumber(run.ExpectedOneUp),
			report.FormatNumber(run.ExpectedRenovation),
		))
	}

	if len(runs) > limit {
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("  ... %d older runs", len(runs)-limit)))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// reversed returns runs oldest-first for chronological charting.
func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
