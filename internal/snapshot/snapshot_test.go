package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "city_20250101.json", "{}")
	newest := writeFile(t, dir, "city_20250601.json", "{}")
	writeFile(t, dir, "notes.txt", "ignored")

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, base, base); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	if err := os.Chtimes(newest, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != newest {
		t.Errorf("Expected %s, got %s", newest, got)
	}
}

func TestLatestMissingDir(t *testing.T) {
	if _, err := Latest(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestLatestNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "town_1.json", "{}")

	if _, err := Latest(dir); err == nil {
		t.Error("Expected error when no city_*.json files exist")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city_1.json", `{
		"CityEntities": {
			"1": {"id": "B_Barracks", "name": "Barracks", "type": "military",
				"components": {"IronAge": {}}},
			"2": {"id": "B_House", "type": "residential", "width": 2, "length": 2}
		}
	}`)

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(snap.Entities))
	}
	if snap.Skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", snap.Skipped)
	}

	house := snap.Entities["2"]
	if house == nil {
		t.Fatal("Missing entity 2")
	}
	x, y, ok := house.Size()
	if !ok || x != 2 || y != 2 {
		t.Errorf("Expected size 2x2, got %dx%d (ok=%v)", x, y, ok)
	}
}

func TestLoadSkipsMalformedEntities(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city_1.json", `{
		"CityEntities": {
			"good": {"id": "B_Tavern", "type": "culture"},
			"bad": "not an object"
		}
	}`)

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Entities) != 1 {
		t.Errorf("Expected 1 entity, got %d", len(snap.Entities))
	}
	if snap.Skipped != 1 {
		t.Errorf("Expected 1 skipped record, got %d", snap.Skipped)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city_1.json", "{not json")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadMissingCityEntities(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city_1.json", `{"OtherData": {}}`)

	if _, err := Load(path); err == nil {
		t.Error("Expected error when CityEntities is absent")
	}
}

func TestLoadEntityKeyFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "city_1.json", `{
		"CityEntities": {"instance_7": {"type": "decoration"}}
	}`)

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Entities["instance_7"].ID != "instance_7" {
		t.Errorf("Expected map key as id fallback, got %q", snap.Entities["instance_7"].ID)
	}
}

func TestWatcherEmitsOnSnapshotWrite(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	path := writeFile(t, dir, "city_new.json", `{"CityEntities": {}}`)

	select {
	case event := <-w.Events():
		if event.Type != EventSnapshotWritten {
			t.Fatalf("Expected snapshot event, got %v (err=%v)", event.Type, event.Err)
		}
		if event.Path != path {
			t.Errorf("Expected path %s, got %s", path, event.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for watcher event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "report.txt", "ignored")

	select {
	case event := <-w.Events():
		t.Fatalf("Unexpected event for non-snapshot file: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}
