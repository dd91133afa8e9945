package overview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veskel/cityscan/internal/census"
	"github.com/veskel/cityscan/internal/era"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/ui/components"
	"github.com/veskel/cityscan/internal/ui/styles"
)

// topCategoryCount caps the category bar chart to the busiest categories.
const topCategoryCount = 12

// View renders the overview tab.
func (m *Model) View() string {
	analysis := m.state.GetAnalysis()
	if analysis == nil || analysis.Census == nil {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTotalsCard(),
		m.renderCategoriesCard(),
		m.renderErasCard(),
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
		styles.TitleStyle.Render("City Overview"),
		"",
		styles.HelpStyle.Render("No snapshot analyzed yet."),
		styles.HelpStyle.Render("Drop a city_*.json export into the input directory, or press r to rescan."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	analysis := m.state.GetAnalysis()

	title := styles.TitleStyle.Render("City Overview")

	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"Snapshot: %s  |  Era inspected: %s",
		analysis.SourceFile,
		analysis.Era,
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTotalsCard() string {
	summary := m.state.GetAnalysis().Census
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Entities"), "")

	rows = append(rows, fmt.Sprintf("  Total        %s",
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d", summary.Total))))
	rows = append(rows, fmt.Sprintf("  Classified   %s",
		styles.SuccessTextStyle.Render(fmt.Sprintf("%d", summary.Classified))))
	rows = append(rows, fmt.Sprintf("  Unclassified %s",
		styles.WarningTextStyle.Render(fmt.Sprintf("%d", summary.Unclassified))))
	if summary.Skipped > 0 {
		rows = append(rows, fmt.Sprintf("  Skipped      %s",
			styles.ErrorTextStyle.Render(fmt.Sprintf("%d", summary.Skipped))))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCategoriesCard() string {
	summary := m.state.GetAnalysis().Census
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Categories"), "")

	categories := summary.SortedCategories()
	if len(categories) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No classified entities"))
	} else {
		// Busiest categories first for the bar chart.
		top := make([]models.CategoryCount, len(categories))
		copy(top, categories)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
		if len(top) > topCategoryCount {
			top = top[:topCategoryCount]
		}

		values := make([]float64, len(top))
		labels := make([]string, len(top))
		for i, c := range top {
			values[i] = float64(c.Count)
			labels[i] = c.Category
		}

		chart := components.RenderBarChart(values, labels, max(cardWidth-8, 30))
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		if len(categories) > len(top) {
			rows = append(rows, "",
				styles.HelpStyle.Render(fmt.Sprintf("  ... and %d more categories", len(categories)-len(top))))
		}
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderErasCard() string {
	summary := m.state.GetAnalysis().Census
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Eras"), "")

	breakdown := census.EraBreakdown(summary)
	if len(breakdown) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No era data"))
	} else {
		for _, e := range breakdown {
			code := styles.EraCodeStyle.Render(fmt.Sprintf("%-5s", era.Code(e.Era)))
			rows = append(rows, fmt.Sprintf("  %s %-28s %d", code, e.Era, e.Count))
		}
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
