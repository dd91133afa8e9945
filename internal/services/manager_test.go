package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veskel/cityscan/internal/config"
	"github.com/veskel/cityscan/internal/models"
)

const sampleCity = `{
	"CityEntities": {
		"1": {"id": "B_Barracks", "name": "Barracks", "type": "military",
			"components": {"IronAge": {}}},
		"2": {"id": "B_Shrine", "name": "Shrine", "type": "culture",
			"components": {
				"AllAge": {"placement": {"size": {"x": 2, "y": 2}}},
				"IronAge": {
					"production": {"options": [{
						"name": "collect", "time": 28800,
						"products": [{
							"reward": {"id": "frag", "name": "One Up Fragment",
								"subType": "fragment", "amount": 5,
								"assembledReward": {"subType": "one_up_kit"}}
						}]
					}]}
				}
			}}
	}
}`

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	tmp := t.TempDir()

	cfg := &config.Config{
		InputDir:      filepath.Join(tmp, "input"),
		OutputDir:     filepath.Join(tmp, "output"),
		DatabasePath:  filepath.Join(tmp, "cityscan.db"),
		DefaultEra:    "IronAge",
		WatchDebounce: 50 * time.Millisecond,
	}
	for _, dir := range []string{cfg.InputDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func writeSnapshot(t *testing.T, m *Manager, name, content string) string {
	t.Helper()
	path := filepath.Join(m.Config().InputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}
	return path
}

func TestAnalyze(t *testing.T) {
	m := newTestManager(t)
	writeSnapshot(t, m, "city_1.json", sampleCity)

	analysis, err := m.Analyze("IronAge")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Census.Classified != 2 {
		t.Errorf("Expected 2 classified entities, got %d", analysis.Census.Classified)
	}
	if len(analysis.Kits[models.OneUpKit]) != 1 {
		t.Errorf("Expected 1 one-up producer, got %d", len(analysis.Kits[models.OneUpKit]))
	}
	if len(analysis.OutputFiles) != 0 {
		t.Error("Analyze must not write output files")
	}
}

func TestAnalyzeNoInput(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Analyze("IronAge"); err == nil {
		t.Error("Expected error when the input directory is empty")
	}
}

func TestProcess(t *testing.T) {
	m := newTestManager(t)
	writeSnapshot(t, m, "city_1.json", sampleCity)

	analysis, err := m.Process("IronAge")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// census summary + two kit reports + workbook
	if len(analysis.OutputFiles) != 4 {
		t.Fatalf("Expected 4 output files, got %d: %v", len(analysis.OutputFiles), analysis.OutputFiles)
	}
	for _, path := range analysis.OutputFiles {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Output file %s missing: %v", path, err)
		}
	}

	runs, err := m.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Era != "IronAge" || runs[0].Classified != 2 || runs[0].KitBuildings != 1 {
		t.Errorf("Unexpected run record: %+v", runs[0])
	}

	if m.LatestAnalysis() == nil {
		t.Error("LatestAnalysis should be set after Process")
	}
}

func TestProcessBroadcastsToSubscribers(t *testing.T) {
	m := newTestManager(t)
	writeSnapshot(t, m, "city_1.json", sampleCity)

	ch, _ := m.Subscribe()
	defer m.Unsubscribe(ch)

	if _, err := m.Process("IronAge"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	select {
	case event := <-ch:
		updated, ok := event.(AnalysisUpdatedEvent)
		if !ok {
			t.Fatalf("Expected AnalysisUpdatedEvent, got %T", event)
		}
		if updated.Analysis.Census.Classified != 2 {
			t.Errorf("Unexpected analysis in event: %+v", updated.Analysis.Census)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for analysis event")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	m := newTestManager(t)

	ch, _ := m.Subscribe()
	m.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("Unsubscribe should close the channel")
	}
}
