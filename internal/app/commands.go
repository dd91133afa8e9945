package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veskel/cityscan/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// historyLimit caps how many runs are pulled for the history and trend
// views.
const historyLimit = 50

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// runAnalysisCmd processes the newest snapshot for the given era.
func runAnalysisCmd(mgr *services.Manager, eraName string) tea.Cmd {
	return func() tea.Msg {
		analysis, err := mgr.Process(eraName)
		return AnalysisLoadedMsg{Analysis: analysis, Error: err}
	}
}

// loadHistoryCmd loads the run history and its trend series.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		runs, err := mgr.History(historyLimit)
		if err != nil {
			return HistoryLoadedMsg{Error: err}
		}

		totals, err := mgr.Database().GetTotalsTrend(historyLimit)
		if err != nil {
			return HistoryLoadedMsg{Runs: runs, Error: err}
		}
		fragments, err := mgr.Database().GetFragmentsTrend(historyLimit)
		if err != nil {
			return HistoryLoadedMsg{Runs: runs, Totals: totals, Error: err}
		}

		return HistoryLoadedMsg{Runs: runs, Totals: totals, Fragments: fragments}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
	era     string
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager, era string) *Commands {
	return &Commands{manager: mgr, era: era}
}

// Era returns the era being inspected.
func (c *Commands) Era() string {
	return c.era
}

// RunAnalysis returns a command that processes the newest snapshot.
func (c *Commands) RunAnalysis() tea.Cmd {
	return runAnalysisCmd(c.manager, c.era)
}

// LoadHistory returns a command that loads the run history.
func (c *Commands) LoadHistory() tea.Cmd {
	return loadHistoryCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
