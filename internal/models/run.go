package models

import "time"

// RunRecord is one processed snapshot persisted to the run history store.
type RunRecord struct {
	ID           int64
	CreatedAt    time.Time
	SourceFile   string
	Era          string
	Total        int
	Classified   int
	Unclassified int
	Skipped      int

	KitBuildings       int
	ExpectedOneUp      float64
	ExpectedRenovation float64
}
