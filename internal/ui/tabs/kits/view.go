package kits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/report"
	"github.com/veskel/cityscan/internal/ui/styles"
)

// listHeight caps how many ranked buildings are visible at once.
const listHeight = 12

// View renders the kits tab.
func (m *Model) View() string {
	analysis := m.state.GetAnalysis()
	if analysis == nil {
		return m.renderEmpty("No snapshot analyzed yet.")
	}

	buildings := m.selectedBuildings()

	sections := []string{
		m.renderHeader(),
	}

	if len(buildings) == 0 {
		sections = append(sections, styles.HelpStyle.Render(
			fmt.Sprintf("No %s producers found in era %s.", m.state.GetSelectedKit().Label(), analysis.Era)))
	} else {
		sections = append(sections,
			m.renderList(buildings),
			m.renderDetail(buildings),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty(message string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Kit Producers"),
		"",
		styles.HelpStyle.Render(message),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	selected := m.state.GetSelectedKit()

	var tabs []string
	for _, kit := range models.KitTypes() {
		label := kit.Label()
		if kit == selected {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}

	title := styles.TitleStyle.Render("Kit Producers")
	kitBar := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
	hint := styles.HelpStyle.Render("←/→ to switch kit type")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Center, kitBar, "  ", hint),
		"",
	)
}

func (m *Model) renderList(buildings []models.KitBuilding) string {
	cardWidth := max(m.width-6, 50)
	selected := m.state.GetSelectedBuilding()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(
		fmt.Sprintf("Ranked by efficiency (%d buildings)", len(buildings))))
	rows = append(rows, "")

	start, end := visibleWindow(len(buildings), selected, listHeight)
	for i := start; i < end; i++ {
		b := buildings[i]

		effStyle := styles.GetEfficiencyStyle(b.Efficiency)
		eff := "n/a"
		if b.Area() > 0 {
			eff = fmt.Sprintf("%.3f", b.Efficiency)
		}

		line := fmt.Sprintf("%3d. %-32s %8s  %9s frag/tile  %s/cycle",
			i+1,
			truncateName(b.Name, 32),
			b.SizeLabel(),
			effStyle.Render(eff),
			report.FormatNumber(b.Expected),
		)

		if i == selected {
			rows = append(rows, styles.TableSelectedStyle.Render("▶ "+line))
		} else {
			rows = append(rows, "  "+line)
		}
	}

	if end < len(buildings) {
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("  ... %d more below", len(buildings)-end)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDetail(buildings []models.KitBuilding) string {
	cardWidth := max(m.width-6, 50)

	idx := m.state.GetSelectedBuilding()
	if idx < 0 || idx >= len(buildings) {
		idx = 0
	}
	b := buildings[idx]

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(b.Name))
	rows = append(rows, "")

	street := "n/a"
	if b.Street != nil {
		street = fmt.Sprintf("%d", *b.Street)
	}
	rows = append(rows, fmt.Sprintf("  Size: %s    Street requirement: %s    Expected fragments/cycle: %s",
		b.SizeLabel(), street, report.FormatNumber(b.Expected)))
	rows = append(rows, "")

	for _, record := range b.Records {
		rows = append(rows, "  - "+report.RecordLine(record))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// visibleWindow returns the half-open range of list entries to render so that
// the selection stays in view.
func visibleWindow(total, selected, height int) (start, end int) {
	if total <= height {
		return 0, total
	}

	start = selected - height/2
	if start < 0 {
		start = 0
	}
	end = start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	if limit <= 3 {
		return name[:limit]
	}
	return strings.TrimSpace(name[:limit-3]) + "..."
}
