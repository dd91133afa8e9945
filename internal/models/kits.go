package models

import (
	"fmt"
	"time"
)

// KitType identifies a tracked kit reward subtype.
type KitType string

// Kit subtypes tracked by the producer reports.
const (
	OneUpKit      KitType = "one_up_kit"
	RenovationKit KitType = "renovation_kit"
)

// KitTypes returns the tracked kit types in report order.
func KitTypes() []KitType {
	return []KitType{OneUpKit, RenovationKit}
}

// Label returns the human-readable kit name.
func (k KitType) Label() string {
	switch k {
	case OneUpKit:
		return "One Up Kit"
	case RenovationKit:
		return "Renovation Kit"
	default:
		return string(k)
	}
}

// FragmentsPerKit is how many fragments assemble into one full kit.
const FragmentsPerKit = 30

// RewardHit is one kit-yielding reward found while walking a building's
// production options.
type RewardHit struct {
	Kit                KitType
	Name               string
	Amount             float64
	Unit               string // "fragments", "kits", or the carrying subtype
	RewardID           string
	OptionName         string
	OptionTime         int // seconds, 0 when unknown
	DropChance         *float64
	RequiresMotivation bool
}

// Fragments converts the reward amount to fragments.
func (h RewardHit) Fragments() float64 {
	if h.Unit == "kits" {
		return h.Amount * FragmentsPerKit
	}
	return h.Amount
}

// ProductionRecord is one reward line of a kit building report.
type ProductionRecord struct {
	Fragments          float64
	SourceAmount       float64
	SourceUnit         string
	TimeSeconds        int
	Probability        *float64
	RequiresMotivation bool
}

// KitBuilding is a building's aggregated kit output for one kit type.
type KitBuilding struct {
	ID         string
	Name       string
	SizeX      int
	SizeY      int
	HasSize    bool
	Street     *int
	Expected   float64 // expected fragments per cycle across all records
	Efficiency float64 // expected fragments per tile, 0 when size unknown
	Records    []ProductionRecord
}

// Area returns the footprint in tiles, or 0 when the size is unknown.
func (b *KitBuilding) Area() int {
	if !b.HasSize {
		return 0
	}
	return b.SizeX * b.SizeY
}

// SizeLabel renders the footprint as "4x3", or "unknown".
func (b *KitBuilding) SizeLabel() string {
	if !b.HasSize {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", b.SizeX, b.SizeY)
}

// KitReports holds the ranked building lists per kit type.
type KitReports map[KitType][]KitBuilding

// Empty reports whether no building produced any tracked kit.
func (r KitReports) Empty() bool {
	for _, buildings := range r {
		if len(buildings) > 0 {
			return false
		}
	}
	return true
}

// TotalBuildings counts distinct report entries across kit types.
func (r KitReports) TotalBuildings() int {
	n := 0
	for _, buildings := range r {
		n += len(buildings)
	}
	return n
}

// ExpectedFragments sums expected fragments per cycle for one kit type.
func (r KitReports) ExpectedFragments(kit KitType) float64 {
	total := 0.0
	for _, b := range r[kit] {
		total += b.Expected
	}
	return total
}

// Analysis is the result of one full run: census plus kit reports for the
// inspected era.
type Analysis struct {
	SourceFile  string
	Era         string
	GeneratedAt time.Time
	Census      *CensusSummary
	Kits        KitReports
	OutputFiles []string
}
