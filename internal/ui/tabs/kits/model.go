// Package kits provides the kit producer tab with ranked building lists.
package kits

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veskel/cityscan/internal/app"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/services"
)

// keyMap defines the key bindings specific to the kits tab.
type keyMap struct {
	SwitchKit key.Binding
	Up        key.Binding
	Down      key.Binding
	Refresh   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchKit: key.NewBinding(
			key.WithKeys("left", "right", "h", "l"),
			key.WithHelp("←/→", "switch kit type"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous building"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next building"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
	}
}

// Model represents the kits tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	commands *app.Commands
	width    int
	height   int
	keys     keyMap
}

// New creates a new kits model.
func New(state *app.State, svc *services.Manager, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		services: svc,
		commands: commands,
		keys:     defaultKeyMap(),
	}
}

// Init initializes the kits tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the kits tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchKit):
		m.toggleKit()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Refresh):
		if m.commands == nil {
			return m, nil
		}
		return m, tea.Batch(
			func() tea.Msg { return app.StartLoadingMsg{Resource: "analysis"} },
			m.commands.RunAnalysis(),
		)
	}
	return m, nil
}

func (m *Model) toggleKit() {
	if m.state.GetSelectedKit() == models.OneUpKit {
		m.state.SetSelectedKit(models.RenovationKit)
	} else {
		m.state.SetSelectedKit(models.OneUpKit)
	}
}

func (m *Model) moveSelection(delta int) {
	buildings := m.selectedBuildings()
	if len(buildings) == 0 {
		return
	}

	idx := m.state.GetSelectedBuilding() + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(buildings) {
		idx = len(buildings) - 1
	}
	m.state.SetSelectedBuilding(idx)
}

// selectedBuildings returns the ranked list for the selected kit type.
func (m *Model) selectedBuildings() []models.KitBuilding {
	analysis := m.state.GetAnalysis()
	if analysis == nil {
		return nil
	}
	return analysis.Kits[m.state.GetSelectedKit()]
}

// SetSize sets the available size for the kits tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.SwitchKit, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.SwitchKit},
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh},
	}
}
