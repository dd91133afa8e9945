package app

import (
	"testing"
	"time"

	"github.com/veskel/cityscan/internal/models"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	if !s.Loading.Initial {
		t.Error("Expected initial loading to be true")
	}
	if s.GetSelectedKit() != models.OneUpKit {
		t.Errorf("Expected default kit %v, got %v", models.OneUpKit, s.GetSelectedKit())
	}
	if s.GetAnalysis() != nil {
		t.Error("Expected nil analysis before first run")
	}
}

func TestSetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("Expected no loading after clearing initial")
	}

	s.SetLoading("analysis", true)
	if !s.AnyLoading() {
		t.Error("Expected loading after setting analysis")
	}

	s.SetLoading("history", true)
	s.SetLoading("analysis", false)
	if !s.AnyLoading() {
		t.Error("Expected loading while history is still pending")
	}
}

func TestSetAnalysisUpdatesTimestamp(t *testing.T) {
	s := NewState()

	if s.TimeSinceUpdate() != 0 {
		t.Error("Expected zero duration before any update")
	}

	s.SetAnalysis(&models.Analysis{Era: "IronAge"})

	if s.GetAnalysis() == nil {
		t.Fatal("Expected analysis to be stored")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("Expected lastUpdated to be set")
	}
}

func TestSetHistory(t *testing.T) {
	s := NewState()

	runs := []models.RunRecord{{ID: 2}, {ID: 1}}
	s.SetHistory(runs, []float64{10, 20}, []float64{1.5, 2.5})

	got := s.GetRuns()
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("Unexpected runs: %+v", got)
	}

	totals, fragments := s.GetTrends()
	if len(totals) != 2 || totals[1] != 20 {
		t.Errorf("Unexpected totals trend: %v", totals)
	}
	if len(fragments) != 2 || fragments[0] != 1.5 {
		t.Errorf("Unexpected fragments trend: %v", fragments)
	}
}

func TestGetRunsReturnsCopy(t *testing.T) {
	s := NewState()
	s.SetHistory([]models.RunRecord{{ID: 1}}, nil, nil)

	runs := s.GetRuns()
	runs[0].ID = 99

	if s.GetRuns()[0].ID != 1 {
		t.Error("Mutating the returned slice should not affect state")
	}
}

func TestSetSelectedKitResetsBuilding(t *testing.T) {
	s := NewState()
	s.SetSelectedBuilding(3)

	s.SetSelectedKit(models.RenovationKit)

	if s.GetSelectedKit() != models.RenovationKit {
		t.Errorf("Expected RenovationKit, got %v", s.GetSelectedKit())
	}
	if s.GetSelectedBuilding() != 0 {
		t.Errorf("Expected building selection reset, got %d", s.GetSelectedBuilding())
	}
}

func TestAddAndRemoveNotification(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "done", time.Minute)
	if id == "" {
		t.Fatal("Expected a notification ID")
	}

	if len(s.GetNotifications()) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(s.GetNotifications()))
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Expected notification to be removed")
	}
}

func TestNotificationExpiry(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-2 * time.Second), Duration: time.Second}
	if !n.IsExpired() {
		t.Error("Expected notification to be expired")
	}

	persistent := Notification{CreatedAt: time.Now().Add(-time.Hour), Duration: 0}
	if persistent.IsExpired() {
		t.Error("Zero-duration notifications should never expire")
	}
}

func TestClearExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "old", time.Nanosecond)
	s.AddNotification(NotificationInfo, "fresh", time.Hour)

	time.Sleep(5 * time.Millisecond)
	s.ClearExpiredNotifications()

	got := s.GetNotifications()
	if len(got) != 1 || got[0].Message != "fresh" {
		t.Errorf("Expected only the fresh notification, got %+v", got)
	}
}

func TestNotificationCap(t *testing.T) {
	s := NewState()
	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "msg", time.Hour)
	}

	if len(s.GetNotifications()) != 10 {
		t.Errorf("Expected cap of 10 notifications, got %d", len(s.GetNotifications()))
	}
}

func TestLoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Scanning...")
	s.SetLoadingNotification("Still scanning...")

	got := s.GetNotifications()
	if len(got) != 1 {
		t.Fatalf("Expected a single loading notification, got %d", len(got))
	}
	if got[0].ID != LoadingNotificationID || got[0].Message != "Still scanning..." {
		t.Errorf("Unexpected loading notification: %+v", got[0])
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Expected loading notification to be cleared")
	}
}
