// Package census classifies snapshot entities by category and era and
// aggregates the results into per-snapshot counts.
package census

import (
	"sort"

	"github.com/veskel/cityscan/internal/era"
	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/snapshot"
)

// Classify determines the category and era of a single entity. The category is
// the entity type; the era is the highest-ranked known era among the entity's
// component keys. Entities with no type or no known era land in the
// unclassified bucket.
func Classify(entity *models.Entity) models.Classification {
	c := models.Classification{
		Category: entity.Type,
		Era:      models.UnclassifiedBucket,
		Rank:     era.UnknownRank,
		Count:    entity.Count,
	}

	for name := range entity.Components {
		if name == era.AllAge {
			continue
		}
		if rank := era.Rank(name); rank > c.Rank {
			c.Era = name
			c.Rank = rank
		}
	}

	if c.Category == "" || c.Rank == era.UnknownRank {
		c.Category = models.UnclassifiedBucket
		c.Era = models.UnclassifiedBucket
		c.Rank = era.UnknownRank
	}
	return c
}

// Classified reports whether the classification left the unclassified bucket.
func Classified(c models.Classification) bool {
	return c.Category != models.UnclassifiedBucket
}

// Aggregate builds the census summary for a parsed snapshot. Unclassified
// entities are counted in the total but excluded from the category and era
// breakdowns, so the breakdowns always sum to the classified count.
func Aggregate(snap *snapshot.Snapshot) *models.CensusSummary {
	summary := &models.CensusSummary{
		SourceFile: snap.SourceFile,
		Total:      len(snap.Entities) + snap.Skipped,
		Skipped:    snap.Skipped,
		Categories: make(map[string]int),
		Eras:       make(map[string]int),
	}

	for _, entity := range snap.Entities {
		c := Classify(entity)
		if !Classified(c) {
			summary.Unclassified += c.Count
			continue
		}
		summary.Classified += c.Count
		summary.Categories[c.Category] += c.Count
		summary.Eras[c.Era] += c.Count
	}

	return summary
}

// EraBreakdown returns the summary's era counts ordered by progression rank.
func EraBreakdown(summary *models.CensusSummary) []models.EraCount {
	out := make([]models.EraCount, 0, len(summary.Eras))
	for name, count := range summary.Eras {
		out = append(out, models.EraCount{Era: name, Rank: era.Rank(name), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
