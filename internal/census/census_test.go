package census

import (
	"testing"

	"github.com/veskel/cityscan/internal/era"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/snapshot"
)

func entity(id, typ string, count int, eras ...string) *models.Entity {
	components := make(map[string]*models.Component, len(eras))
	for _, e := range eras {
		components[e] = &models.Component{}
	}
	return &models.Entity{ID: id, Type: typ, Count: count, Components: components}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		entity   *models.Entity
		category string
		era      string
	}{
		{
			name:     "single era",
			entity:   entity("B_Barracks", "military", 1, "IronAge"),
			category: "military",
			era:      "IronAge",
		},
		{
			name:     "highest known era wins",
			entity:   entity("B_Spear", "military", 1, "BronzeAge", "VirtualFuture", "IronAge"),
			category: "military",
			era:      "VirtualFuture",
		},
		{
			name:     "all-age component does not rank",
			entity:   entity("B_House", "residential", 1, models.AllAgeKey, "ColonialAge"),
			category: "residential",
			era:      "ColonialAge",
		},
		{
			name:     "unknown era only",
			entity:   entity("B_Odd", "military", 1, "Atlantis"),
			category: models.UnclassifiedBucket,
			era:      models.UnclassifiedBucket,
		},
		{
			name:     "missing type",
			entity:   entity("B_Blank", "", 1, "IronAge"),
			category: models.UnclassifiedBucket,
			era:      models.UnclassifiedBucket,
		},
		{
			name:     "no components",
			entity:   entity("B_Empty", "decoration", 1),
			category: models.UnclassifiedBucket,
			era:      models.UnclassifiedBucket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.entity)
			if c.Category != tt.category {
				t.Errorf("Expected category %q, got %q", tt.category, c.Category)
			}
			if c.Era != tt.era {
				t.Errorf("Expected era %q, got %q", tt.era, c.Era)
			}
		})
	}
}

func TestClassifyUnknownEraIgnoredWhenKnownPresent(t *testing.T) {
	c := Classify(entity("B_Mixed", "goods", 1, "Atlantis", "IronAge"))
	if c.Era != "IronAge" {
		t.Errorf("Expected IronAge, got %q", c.Era)
	}
	if c.Rank != era.Rank("IronAge") {
		t.Errorf("Expected rank %d, got %d", era.Rank("IronAge"), c.Rank)
	}
}

func TestClassifyCarriesCount(t *testing.T) {
	c := Classify(entity("B_Barracks", "military", 3, "IronAge"))
	if c.Count != 3 {
		t.Errorf("Expected count 3, got %d", c.Count)
	}
}

func TestAggregate(t *testing.T) {
	snap := &snapshot.Snapshot{
		SourceFile: "city_test.json",
		Entities: map[string]*models.Entity{
			"1": entity("B_Barracks1", "barracks", 2, "IronAge"),
			"2": entity("B_Barracks2", "barracks", 1, "VirtualFuture"),
			"3": entity("B_Odd", "military", 1, "Atlantis"),
		},
		Skipped: 1,
	}

	summary := Aggregate(snap)

	if summary.Total != 4 {
		t.Errorf("Expected total 4, got %d", summary.Total)
	}
	if summary.Classified != 3 {
		t.Errorf("Expected 3 classified, got %d", summary.Classified)
	}
	if summary.Unclassified != 1 {
		t.Errorf("Expected 1 unclassified, got %d", summary.Unclassified)
	}
	if summary.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", summary.Skipped)
	}

	if summary.Categories["barracks"] != 3 {
		t.Errorf("Expected barracks count 3, got %d", summary.Categories["barracks"])
	}
	if _, ok := summary.Categories[models.UnclassifiedBucket]; ok {
		t.Error("Unclassified bucket must not appear in category counts")
	}

	if summary.Eras["IronAge"] != 2 || summary.Eras["VirtualFuture"] != 1 {
		t.Errorf("Unexpected era counts: %v", summary.Eras)
	}
	if _, ok := summary.Eras["Atlantis"]; ok {
		t.Error("Unknown era must not appear in era counts")
	}
}

func TestAggregateCategorySumMatchesClassified(t *testing.T) {
	snap := &snapshot.Snapshot{
		Entities: map[string]*models.Entity{
			"1": entity("a", "military", 2, "IronAge"),
			"2": entity("b", "residential", 5, "ColonialAge"),
			"3": entity("c", "goods", 1, "ModernEra"),
			"4": entity("d", "mystery", 4, "Atlantis"),
		},
	}

	summary := Aggregate(snap)

	sum := 0
	for _, n := range summary.Categories {
		sum += n
	}
	if sum != summary.Classified {
		t.Errorf("Category counts sum to %d, classified is %d", sum, summary.Classified)
	}

	sum = 0
	for _, n := range summary.Eras {
		sum += n
	}
	if sum != summary.Classified {
		t.Errorf("Era counts sum to %d, classified is %d", sum, summary.Classified)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	snap := &snapshot.Snapshot{
		Entities: map[string]*models.Entity{
			"1": entity("a", "military", 1, "IronAge"),
			"2": entity("b", "residential", 2, "ColonialAge"),
		},
	}

	first := Aggregate(snap)
	second := Aggregate(snap)

	if first.Classified != second.Classified || first.Unclassified != second.Unclassified {
		t.Error("Aggregation is not stable across runs")
	}
	for c, n := range first.Categories {
		if second.Categories[c] != n {
			t.Errorf("Category %q differs across runs: %d vs %d", c, n, second.Categories[c])
		}
	}
}

func TestEraBreakdownOrderedByRank(t *testing.T) {
	summary := &models.CensusSummary{
		Eras: map[string]int{
			"VirtualFuture": 1,
			"StoneAge":      2,
			"ModernEra":     3,
		},
	}

	breakdown := EraBreakdown(summary)

	if len(breakdown) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(breakdown))
	}
	want := []string{"StoneAge", "ModernEra", "VirtualFuture"}
	for i, name := range want {
		if breakdown[i].Era != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, breakdown[i].Era)
		}
	}
}
