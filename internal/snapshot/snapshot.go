// Package snapshot locates and parses exported city snapshot files.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veskel/cityscan/internal/logger"
	"github.com/veskel/cityscan/internal/models"
)

// Pattern matches exported city snapshot file names.
const Pattern = "city_*.json"

// Snapshot is a parsed city export.
type Snapshot struct {
	SourceFile string
	Entities   map[string]*models.Entity
	Skipped    int // entity records dropped because they failed to decode
}

// Latest returns the path of the newest snapshot in dir by modification
// time. A missing directory or an empty match set is an error; both abort
// the run.
func Latest(dir string) (string, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("input directory not found: %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, Pattern))
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no city JSON files found in %s", dir)
	}

	newest := ""
	var newestMod int64
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = path
			newestMod = info.ModTime().UnixNano()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no readable city JSON files in %s", dir)
	}
	return newest, nil
}

// Load parses the snapshot at path. Invalid JSON or a missing CityEntities
// collection is fatal for the run; individual entities that fail to decode
// are skipped and counted instead.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc struct {
		CityEntities map[string]json.RawMessage `json:"CityEntities"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	if doc.CityEntities == nil {
		return nil, fmt.Errorf("CityEntities not found in %s", filepath.Base(path))
	}

	snap := &Snapshot{
		SourceFile: path,
		Entities:   make(map[string]*models.Entity, len(doc.CityEntities)),
	}

	for key, raw := range doc.CityEntities {
		var entity models.Entity
		if err := json.Unmarshal(raw, &entity); err != nil {
			logger.Debug("skipping malformed entity", "key", key, "error", err)
			snap.Skipped++
			continue
		}
		if entity.ID == "" {
			entity.ID = key
		}
		snap.Entities[key] = &entity
	}

	return snap, nil
}
