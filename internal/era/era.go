// Package era holds the static era lookup table used to rank buildings and
// units by progression tier. The table is extended by hand when a new era
// ships; anything not listed here is treated as unknown and ends up in the
// unclassified bucket.
package era

// UnknownRank is returned for era names that have no table entry.
const UnknownRank = -1

// AllAge is the pseudo-era used for era-independent components. It carries no
// rank and never participates in era breakdowns.
const AllAge = "AllAge"

// Era is one entry of the lookup table.
type Era struct {
	Name string
	Code string
	Rank int
}

// table is ordered by progression. Rank is the index, so inserting a new era
// in the middle renumbers everything after it, which is fine: ranks are only
// compared, never persisted.
var table = []Era{
	{Name: "StoneAge", Code: "SA"},
	{Name: "BronzeAge", Code: "BA"},
	{Name: "IronAge", Code: "IA"},
	{Name: "EarlyMiddleAge", Code: "EMA"},
	{Name: "HighMiddleAge", Code: "HMA"},
	{Name: "LateMiddleAge", Code: "LMA"},
	{Name: "ColonialAge", Code: "CA"},
	{Name: "IndustrialAge", Code: "InA"},
	{Name: "ProgressiveEra", Code: "PE"},
	{Name: "ModernEra", Code: "ME"},
	{Name: "PostModernEra", Code: "PME"},
	{Name: "ContemporaryEra", Code: "CE"},
	{Name: "TomorrowEra", Code: "TE"},
	{Name: "FutureEra", Code: "FE"},
	{Name: "ArcticFuture", Code: "AF"},
	{Name: "OceanicFuture", Code: "OF"},
	{Name: "VirtualFuture", Code: "VF"},
	{Name: "SpaceAgeMars", Code: "SAM"},
	{Name: "SpaceAgeAsteroidBelt", Code: "SAAB"},
	{Name: "SpaceAgeVenus", Code: "SAV"},
	{Name: "SpaceAgeJupiterMoon", Code: "SAJM"},
	{Name: "SpaceAgeTitan", Code: "SAT"},
	{Name: "SpaceAgeSpaceHub", Code: "SASH"},
}

var byName = func() map[string]Era {
	m := make(map[string]Era, len(table))
	for i, e := range table {
		e.Rank = i
		m[e.Name] = e
	}
	return m
}()

// Known reports whether name has a table entry.
func Known(name string) bool {
	_, ok := byName[name]
	return ok
}

// Rank returns the progression rank for name, or UnknownRank if the era is
// not in the table.
func Rank(name string) int {
	e, ok := byName[name]
	if !ok {
		return UnknownRank
	}
	return e.Rank
}

// Code returns the short display code for name, or the name itself if
// unknown.
func Code(name string) string {
	e, ok := byName[name]
	if !ok {
		return name
	}
	return e.Code
}

// All returns the table in progression order.
func All() []Era {
	out := make([]Era, len(table))
	for i, e := range table {
		e.Rank = i
		out[i] = e
	}
	return out
}
