// Package models defines data structures and domain types for city
// snapshots and the reports derived from them.
package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Entity is one building or unit record from a city snapshot. Components are
// keyed by era name; the pseudo-era "AllAge" carries era-independent data
// such as placement.
type Entity struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Type         string                `json:"type"`
	Width        int                   `json:"width"`
	Length       int                   `json:"length"`
	Count        int                   `json:"count"`
	Requirements *Requirements         `json:"requirements"`
	Components   map[string]*Component `json:"components"`
}

// UnmarshalJSON applies the default multiplicity of 1 when the export omits
// the count field.
func (e *Entity) UnmarshalJSON(data []byte) error {
	type alias Entity
	aux := alias{Count: 1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Count < 1 {
		aux.Count = 1
	}
	*e = Entity(aux)
	return nil
}

// DisplayName returns the entity name, falling back to its id.
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Size returns the building footprint, preferring the AllAge placement
// component over the legacy top-level width/length fields.
func (e *Entity) Size() (x, y int, ok bool) {
	if allAge := e.Components[AllAgeKey]; allAge != nil &&
		allAge.Placement != nil && allAge.Placement.Size != nil {
		s := allAge.Placement.Size
		if s.X > 0 && s.Y > 0 {
			return s.X, s.Y, true
		}
	}
	if e.Width > 0 && e.Length > 0 {
		return e.Width, e.Length, true
	}
	return 0, 0, false
}

// StreetRequirement returns the required street connection level, checked in
// the same order the game client resolves it: AllAge component, then the era
// component, then the legacy requirements block.
func (e *Entity) StreetRequirement(eraComponent *Component) *int {
	if allAge := e.Components[AllAgeKey]; allAge != nil && allAge.Street != nil && allAge.Street.Valid {
		level := allAge.Street.Level
		return &level
	}
	if eraComponent != nil && eraComponent.Street != nil && eraComponent.Street.Valid {
		level := eraComponent.Street.Level
		return &level
	}
	if e.Requirements != nil && e.Requirements.StreetConnectionLevel != nil {
		return e.Requirements.StreetConnectionLevel
	}
	return nil
}

// AllAgeKey is the components map key for era-independent data.
const AllAgeKey = "AllAge"

// Requirements is the legacy top-level requirements block.
type Requirements struct {
	StreetConnectionLevel *int `json:"street_connection_level"`
}

// Component is one era-specific (or AllAge) slice of an entity.
type Component struct {
	Placement  *Placement         `json:"placement"`
	Street     *StreetRequirement `json:"streetConnectionRequirement"`
	Lookup     *RewardLookup      `json:"lookup"`
	Production *Production        `json:"production"`
}

// Placement holds the building footprint.
type Placement struct {
	Size *Size `json:"size"`
}

// Size is a footprint in tiles.
type Size struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StreetRequirement decodes both encodings seen in exports: a bare integer
// or an object with requiredLevel / street_connection_level.
type StreetRequirement struct {
	Level int
	Valid bool
}

// UnmarshalJSON never fails; unrecognized shapes leave the requirement
// unset so a single odd record cannot sink the whole entity.
func (s *StreetRequirement) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		s.Level = n
		s.Valid = true
		return nil
	}
	var obj struct {
		RequiredLevel *int `json:"requiredLevel"`
		Legacy        *int `json:"street_connection_level"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	switch {
	case obj.RequiredLevel != nil:
		s.Level = *obj.RequiredLevel
		s.Valid = true
	case obj.Legacy != nil:
		s.Level = *obj.Legacy
		s.Valid = true
	}
	return nil
}

// RewardLookup maps reward ids to their full definitions. Exports store it
// either as an object keyed by id or as a flat list.
type RewardLookup struct {
	Rewards map[string]*Reward
}

// UnmarshalJSON accepts both lookup encodings.
func (l *RewardLookup) UnmarshalJSON(data []byte) error {
	var aux struct {
		Rewards json.RawMessage `json:"rewards"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	if len(aux.Rewards) == 0 {
		return nil
	}

	var asMap map[string]*Reward
	if err := json.Unmarshal(aux.Rewards, &asMap); err == nil {
		l.Rewards = asMap
		return nil
	}

	var asList []*Reward
	if err := json.Unmarshal(aux.Rewards, &asList); err == nil {
		l.Rewards = make(map[string]*Reward, len(asList))
		for _, r := range asList {
			if r != nil && r.ID != "" {
				l.Rewards[r.ID] = r
			}
		}
	}
	return nil
}

// Resolve returns the lookup entry for id, or the inline fallback when the
// lookup has no entry.
func (l *RewardLookup) Resolve(id string, fallback *Reward) *Reward {
	if l == nil || l.Rewards == nil {
		return fallback
	}
	if r, ok := l.Rewards[id]; ok && r != nil {
		return r
	}
	return fallback
}

// Production is a component's production block.
type Production struct {
	Options []ProductionOption `json:"options"`
}

// ProductionOption is one selectable production cycle.
type ProductionOption struct {
	Name              string    `json:"name"`
	Time              int       `json:"time"` // seconds
	OnlyWhenMotivated bool      `json:"onlyWhenMotivated"`
	Products          []Product `json:"products"`
}

// Product is a node of the production output tree. Plain products carry a
// reward directly; "random" products nest weighted sub-products and "chest"
// products list possible rewards with drop chances.
type Product struct {
	Type              string
	OnlyWhenMotivated bool
	Reward            *Reward
	Inner             *Product
	Products          []Product
	Possible          []Product
	Drop              *float64 // normalized to [0,1]
}

// UnmarshalJSON flattens the export's aliased keys: both snake_case and
// camelCase possible-rewards lists, and any of the four drop-chance keys.
func (p *Product) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type               string    `json:"type"`
		OnlyWhenMotivated  bool      `json:"onlyWhenMotivated"`
		Reward             *Reward   `json:"reward"`
		Inner              *Product  `json:"product"`
		Products           []Product `json:"products"`
		PossibleRewards    []Product `json:"possible_rewards"`
		PossibleRewardsAlt []Product `json:"possibleRewards"`
		DropChance         *Number   `json:"dropChance"`
		DropChanceSnake    *Number   `json:"drop_chance"`
		Chance             *Number   `json:"chance"`
		Probability        *Number   `json:"probability"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Type = aux.Type
	p.OnlyWhenMotivated = aux.OnlyWhenMotivated
	p.Reward = aux.Reward
	p.Inner = aux.Inner
	p.Products = aux.Products
	p.Possible = aux.PossibleRewards
	if p.Possible == nil {
		p.Possible = aux.PossibleRewardsAlt
	}

	for _, n := range []*Number{aux.DropChance, aux.DropChanceSnake, aux.Chance, aux.Probability} {
		if drop := n.Normalized(); drop != nil {
			p.Drop = drop
			break
		}
	}
	return nil
}

// Reward is a production reward definition. Fragments reference the kit they
// assemble into via assembledReward.
type Reward struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SubType   string  `json:"subType"`
	Amount    Number  `json:"amount"`
	Assembled *Reward `json:"assembledReward"`
}

// Number decodes a JSON number or a numeric string. Unparseable values decode
// to NaN rather than failing the surrounding record.
type Number float64

// UnmarshalJSON implements tolerant numeric decoding.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Number(f)
			return nil
		}
	}
	*n = Number(math.NaN())
	return nil
}

// Float returns the value, or 0 for values that failed to parse.
func (n Number) Float() float64 {
	f := float64(n)
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Normalized interprets the value as a probability: values above 1 are
// treated as percentages. Returns nil for absent or unparseable values.
func (n *Number) Normalized() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	if math.IsNaN(f) {
		return nil
	}
	if f > 1 {
		f /= 100
	}
	return &f
}
