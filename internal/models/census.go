package models

import "sort"

// UnclassifiedBucket collects entities whose era or category has no lookup
// entry. They are counted but excluded from era-ranked output.
const UnclassifiedBucket = "unclassified"

// Classification is the result of classifying a single entity.
type Classification struct {
	Category string
	Era      string
	Rank     int
	Count    int
}

// CensusSummary aggregates classified entities for one snapshot.
type CensusSummary struct {
	SourceFile   string
	Total        int // entity records seen, including skipped ones
	Classified   int
	Unclassified int
	Skipped      int // malformed records dropped during decode or classify

	Categories map[string]int
	Eras       map[string]int
}

// CategoryCount is a category with its aggregated count, used for sorted
// report output and run history rows.
type CategoryCount struct {
	Category string
	Count    int
}

// SortedCategories returns category counts ordered by category name.
func (s *CensusSummary) SortedCategories() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.Categories))
	for c, n := range s.Categories {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// EraCount is an era with its aggregated count and rank.
type EraCount struct {
	Era   string
	Rank  int
	Count int
}
