// Package trends provides the run history tab with trend charts.
package trends

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veskel/cityscan/internal/app"
	"github.com/veskel/cityscan/internal/services"
)

// keyMap defines the key bindings specific to the trends tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the trends tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	commands *app.Commands
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new trends model.
func New(state *app.State, svc *services.Manager, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		services: svc,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the trends tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trends tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		if m.commands == nil {
			return m, nil
		}
		return m, tea.Batch(
			func() tea.Msg { return app.StartLoadingMsg{Resource: "history"} },
			m.commands.LoadHistory(),
		)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// SetSize sets the available size for the trends tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
