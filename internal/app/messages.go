package app

import (
	"time"

	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// AnalysisLoadedMsg contains the result of an analysis run.
type AnalysisLoadedMsg struct {
	Analysis *models.Analysis
	Error    error
}

// HistoryLoadedMsg contains the run history and its trend series.
type HistoryLoadedMsg struct {
	Runs      []models.RunRecord
	Totals    []float64
	Fragments []float64
	Error     error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "analysis", "history"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
