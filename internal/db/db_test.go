package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veskel/cityscan/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"runs", "run_categories"} {
		var name string
		err := db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func sampleRun(era string, classified int, oneUp float64) *models.RunRecord {
	return &models.RunRecord{
		SourceFile:         "city_test.json",
		Era:                era,
		Total:              classified + 2,
		Classified:         classified,
		Unclassified:       1,
		Skipped:            1,
		KitBuildings:       3,
		ExpectedOneUp:      oneUp,
		ExpectedRenovation: 2.5,
	}
}

func TestInsertRunAndGetRecent(t *testing.T) {
	db := newTestDB(t)

	run := sampleRun("VirtualFuture", 40, 7.5)
	categories := []models.CategoryCount{
		{Category: "military", Count: 12},
		{Category: "residential", Count: 28},
	}

	if err := db.InsertRun(run, categories); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if run.ID == 0 {
		t.Error("InsertRun did not set the run id")
	}

	runs, err := db.GetRecentRuns(10)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Era != "VirtualFuture" || got.Classified != 40 || got.ExpectedOneUp != 7.5 {
		t.Errorf("Unexpected run record: %+v", got)
	}

	counts, err := db.GetRunCategories(run.ID)
	if err != nil {
		t.Fatalf("GetRunCategories failed: %v", err)
	}
	if len(counts) != 2 || counts[0].Category != "military" || counts[1].Count != 28 {
		t.Errorf("Unexpected category counts: %+v", counts)
	}
}

func TestGetRecentRunsOrder(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := sampleRun("IronAge", 10+i, float64(i))
		run.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := db.InsertRun(run, nil); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}

	runs, err := db.GetRecentRuns(2)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Classified != 12 || runs[1].Classified != 11 {
		t.Errorf("Runs not ordered newest first: %+v", runs)
	}
}

func TestTrends(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		run := sampleRun("IronAge", 10*i, float64(i))
		run.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := db.InsertRun(run, nil); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}

	totals, err := db.GetTotalsTrend(3)
	if err != nil {
		t.Fatalf("GetTotalsTrend failed: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(totals))
	}
	// Chronological order over the last 3 runs
	if totals[0] != 10 || totals[1] != 20 || totals[2] != 30 {
		t.Errorf("Unexpected totals trend: %v", totals)
	}

	fragments, err := db.GetFragmentsTrend(10)
	if err != nil {
		t.Fatalf("GetFragmentsTrend failed: %v", err)
	}
	if len(fragments) != 4 {
		t.Fatalf("Expected 4 values, got %d", len(fragments))
	}
	if fragments[3] != 3+2.5 {
		t.Errorf("Unexpected fragments trend: %v", fragments)
	}
}
