package info

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/veskel/cityscan/internal/ui/styles"
	"github.com/veskel/cityscan/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Info"),
		"",
		m.renderVersionCard(),
		m.renderConfigCard(),
		m.renderLastRunCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderVersionCard() string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("Build"),
		"",
		"  " + version.Info(),
		"",
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderConfigCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"), "")

	if m.services == nil {
		rows = append(rows, styles.HelpStyle.Render("  Services not initialized"))
	} else {
		cfg := m.services.Config()
		rows = append(rows,
			fmt.Sprintf("  Input directory   %s", cfg.InputDir),
			fmt.Sprintf("  Output directory  %s", cfg.OutputDir),
			fmt.Sprintf("  Database          %s", cfg.DatabasePath),
			fmt.Sprintf("  Watch debounce    %s", cfg.WatchDebounce),
		)
	}
	if m.commands != nil {
		rows = append(rows, fmt.Sprintf("  Era inspected     %s", m.commands.Era()))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderLastRunCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Last Run"), "")

	analysis := m.state.GetAnalysis()
	if analysis == nil {
		rows = append(rows, styles.HelpStyle.Render("  No snapshot analyzed yet"))
	} else {
		rows = append(rows,
			fmt.Sprintf("  Snapshot   %s", analysis.SourceFile),
			fmt.Sprintf("  Analyzed   %s", analysis.GeneratedAt.Format("2006-01-02 15:04:05")),
		)
		if len(analysis.OutputFiles) > 0 {
			rows = append(rows, "", "  Output files:")
			for _, f := range analysis.OutputFiles {
				rows = append(rows, "    "+f)
			}
		}
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
