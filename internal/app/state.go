// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/veskel/cityscan/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Analysis bool
	History  bool
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	analysis         *models.Analysis
	runs             []models.RunRecord
	totalsTrend      []float64
	fragmentsTrend   []float64
	selectedKit      models.KitType
	selectedBuilding int

	Loading LoadingState

	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		selectedKit:   models.OneUpKit,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "analysis":
		s.Loading.Analysis = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Analysis || s.Loading.History
}

// SetAnalysis stores the latest analysis result.
func (s *State) SetAnalysis(analysis *models.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = analysis
	s.lastUpdated = time.Now()
}

// GetAnalysis returns the latest analysis, or nil before the first run.
func (s *State) GetAnalysis() *models.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetHistory stores the run history and its trend series.
func (s *State) SetHistory(runs []models.RunRecord, totals, fragments []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = runs
	s.totalsTrend = totals
	s.fragmentsTrend = fragments
	s.lastUpdated = time.Now()
}

// GetRuns returns a copy of the run history, newest first.
func (s *State) GetRuns() []models.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]models.RunRecord, len(s.runs))
	copy(runs, s.runs)
	return runs
}

// GetTrends returns the totals and fragments trend series in chronological
// order.
func (s *State) GetTrends() (totals, fragments []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalsTrend, s.fragmentsTrend
}

// GetSelectedKit returns the kit type selected in the kits tab.
func (s *State) GetSelectedKit() models.KitType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedKit
}

// SetSelectedKit updates the kit type selected in the kits tab.
func (s *State) SetSelectedKit(kit models.KitType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedKit = kit
	s.selectedBuilding = 0
}

// GetSelectedBuilding returns the selected building index in the kits tab.
func (s *State) GetSelectedBuilding() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedBuilding
}

// SetSelectedBuilding updates the selected building index.
func (s *State) SetSelectedBuilding(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBuilding = idx
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
