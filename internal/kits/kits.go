// Package kits walks building production options to find One Up Kit and
// Renovation Kit output, and ranks the producers by fragments per tile.
package kits

import (
	"sort"

	"github.com/veskel/cityscan/internal/models"
	"github.com/veskel/cityscan/internal/snapshot"
)

// targetKit maps a reward subtype to the kit it represents.
func targetKit(subType string) (models.KitType, bool) {
	switch models.KitType(subType) {
	case models.OneUpKit:
		return models.OneUpKit, true
	case models.RenovationKit:
		return models.RenovationKit, true
	default:
		return "", false
	}
}

// Analyze walks every entity's production options for the given era and
// returns the ranked kit producer lists. Entities without a component for
// that era are ignored.
func Analyze(snap *snapshot.Snapshot, eraName string) models.KitReports {
	grouped := make(map[models.KitType]map[string]*models.KitBuilding)
	for _, kit := range models.KitTypes() {
		grouped[kit] = make(map[string]*models.KitBuilding)
	}

	for _, entity := range snap.Entities {
		eraComponent := entity.Components[eraName]
		if eraComponent == nil {
			continue
		}

		for _, hit := range collectHits(entity, eraComponent) {
			building, ok := grouped[hit.Kit][entity.ID]
			if !ok {
				building = &models.KitBuilding{
					ID:     entity.ID,
					Name:   entity.DisplayName(),
					Street: entity.StreetRequirement(eraComponent),
				}
				building.SizeX, building.SizeY, building.HasSize = entity.Size()
				grouped[hit.Kit][entity.ID] = building
			}

			fragments := hit.Fragments()
			expected := fragments
			if hit.DropChance != nil {
				expected = fragments * *hit.DropChance
			}
			building.Expected += expected
			building.Records = append(building.Records, models.ProductionRecord{
				Fragments:          fragments,
				SourceAmount:       hit.Amount,
				SourceUnit:         hit.Unit,
				TimeSeconds:        hit.OptionTime,
				Probability:        hit.DropChance,
				RequiresMotivation: hit.RequiresMotivation,
			})
		}
	}

	reports := make(models.KitReports, len(grouped))
	for kit, byID := range grouped {
		buildings := make([]models.KitBuilding, 0, len(byID))
		for _, b := range byID {
			if area := b.Area(); area > 0 {
				b.Efficiency = b.Expected / float64(area)
			}
			buildings = append(buildings, *b)
		}
		sort.Slice(buildings, func(i, j int) bool {
			if buildings[i].Efficiency != buildings[j].Efficiency {
				return buildings[i].Efficiency > buildings[j].Efficiency
			}
			return buildings[i].Name < buildings[j].Name
		})
		reports[kit] = buildings
	}
	return reports
}

// collectHits walks the production options of the era component, resolving
// reward ids through its lookup table.
func collectHits(entity *models.Entity, component *models.Component) []models.RewardHit {
	if component.Production == nil {
		return nil
	}

	var hits []models.RewardHit
	for _, option := range component.Production.Options {
		walker := optionWalker{option: option, lookup: component.Lookup}
		for _, product := range option.Products {
			walker.walk(product, nil, option.OnlyWhenMotivated)
		}
		hits = append(hits, walker.hits...)
	}
	return hits
}

// optionWalker carries the per-option state through the product tree.
type optionWalker struct {
	option models.ProductionOption
	lookup *models.RewardLookup
	hits   []models.RewardHit
}

// walk descends one product node. A node's own drop chance overrides the
// inherited one; motivation requirements propagate downward.
func (w *optionWalker) walk(p models.Product, drop *float64, motivated bool) {
	motivated = motivated || p.OnlyWhenMotivated
	if p.Drop != nil {
		drop = p.Drop
	}

	if p.Reward != nil {
		w.evaluate(p.Reward, drop, motivated)
	}
	if p.Inner != nil {
		w.walk(*p.Inner, drop, motivated)
	}
	for _, child := range p.Products {
		w.walk(child, drop, motivated)
	}
	for _, child := range p.Possible {
		w.walk(child, drop, motivated)
	}
}

// evaluate records a hit when the resolved reward is a tracked kit, a
// fragment that assembles into one, or any other reward carrying an
// assembled kit.
func (w *optionWalker) evaluate(reward *models.Reward, drop *float64, motivated bool) {
	resolved := w.lookup.Resolve(reward.ID, reward)

	kit, unit, name := classifyReward(resolved)
	if unit == "" {
		return
	}

	w.hits = append(w.hits, models.RewardHit{
		Kit:                kit,
		Name:               name,
		Amount:             resolved.Amount.Float(),
		Unit:               unit,
		RewardID:           resolved.ID,
		OptionName:         w.option.Name,
		OptionTime:         w.option.Time,
		DropChance:         drop,
		RequiresMotivation: motivated,
	})
}

// classifyReward returns the kit, the amount unit, and a display name for a
// reward, or an empty unit when the reward has nothing to do with kits.
func classifyReward(r *models.Reward) (models.KitType, string, string) {
	if r.SubType == "fragment" && r.Assembled != nil {
		if kit, ok := targetKit(r.Assembled.SubType); ok {
			name := r.Name
			if name == "" {
				name = "Fragments of " + kit.Label()
			}
			return kit, "fragments", name
		}
	}

	if kit, ok := targetKit(r.SubType); ok {
		name := r.Name
		if name == "" {
			name = kit.Label()
		}
		return kit, "kits", name
	}

	if r.Assembled != nil {
		if kit, ok := targetKit(r.Assembled.SubType); ok {
			unit := r.SubType
			if unit == "" {
				unit = "items"
			}
			name := r.Name
			if name == "" {
				name = kit.Label()
			}
			return kit, unit, name
		}
	}

	return "", "", ""
}
