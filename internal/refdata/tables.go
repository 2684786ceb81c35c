package refdata

import (
	"strings"
	"time"
)

// entry is one ordered lookup row. Slices (not maps) because first match
// in insertion order wins and downstream insight text depends on that.
type entry struct {
	key   string
	value float64
}

// SeasonalEntry is one material's demand factor inside a month table.
type SeasonalEntry struct {
	Material string
	Factor   float64
}

// Tables holds the static reference data every analyzer is parameterized
// on: per-material base prices, per-location demand multipliers and the
// month-by-month seasonal factors. Keys are lowercase and matched by
// case-insensitive substring against free-text material/location input.
type Tables struct {
	basePrices       []entry
	defaultBasePrice float64

	locations       []entry
	defaultLocation float64

	seasonal map[time.Month][]SeasonalEntry

	watchList []string
}

// Default returns the production reference tables for the Indian textile
// surplus market. Tests may build their own Tables with controlled data.
func Default() *Tables {
	return &Tables{
		basePrices: []entry{
			{"cotton", 350},
			{"silk", 2500},
			{"denim", 450},
			{"wool", 800},
			{"linen", 600},
			{"polyester", 200},
			{"jute", 120},
			{"rayon", 280},
			{"georgette", 400},
			{"leather", 1200},
		},
		defaultBasePrice: 300,

		locations: []entry{
			{"surat", 1.20},
			{"tirupur", 1.18},
			{"mumbai", 1.15},
			{"ahmedabad", 1.12},
			{"delhi", 1.10},
			{"bangalore", 1.08},
			{"jaipur", 1.05},
			{"chennai", 1.05},
			{"kolkata", 1.02},
			{"ludhiana", 0.98},
		},
		defaultLocation: 1.0,

		seasonal: map[time.Month][]SeasonalEntry{
			time.January:  {{"wool", 1.30}, {"silk", 1.15}, {"cotton", 0.90}, {"linen", 0.85}},
			time.February: {{"silk", 1.25}, {"wool", 1.20}, {"georgette", 1.15}, {"cotton", 0.95}},
			time.March:    {{"cotton", 1.10}, {"linen", 1.05}, {"wool", 0.85}},
			time.April:    {{"cotton", 1.15}, {"linen", 1.20}, {"denim", 0.95}, {"wool", 0.75}},
			time.May:      {{"cotton", 1.20}, {"linen", 1.25}, {"rayon", 1.10}, {"wool", 0.70}},
			time.June:     {{"cotton", 1.25}, {"linen", 1.15}, {"rayon", 1.10}, {"wool", 0.75}},
			time.July:     {{"cotton", 1.15}, {"denim", 1.05}, {"rayon", 1.05}, {"wool", 0.80}},
			time.August:   {{"cotton", 1.10}, {"silk", 1.10}, {"denim", 1.10}, {"wool", 0.90}},
			time.September: {{"silk", 1.20}, {"denim", 1.15}, {"cotton", 1.05}, {"wool", 1.05}},
			time.October:  {{"silk", 1.30}, {"georgette", 1.20}, {"wool", 1.15}, {"denim", 1.10}, {"cotton", 1.00}},
			time.November: {{"silk", 1.25}, {"wool", 1.25}, {"georgette", 1.15}, {"cotton", 0.95}},
			time.December: {{"wool", 1.35}, {"silk", 1.20}, {"georgette", 1.10}, {"linen", 0.80}},
		},

		watchList: []string{"cotton", "silk", "denim", "wool", "linen", "polyester", "jute"},
	}
}

// lookup returns the first table entry whose key is contained in the
// lowercased input.
func lookup(table []entry, input string) (float64, bool) {
	in := strings.ToLower(input)
	for _, e := range table {
		if strings.Contains(in, e.key) {
			return e.value, true
		}
	}
	return 0, false
}

// BasePrice resolves the base price per unit for a material, falling back
// to the default entry for unknown materials.
func (t *Tables) BasePrice(material string) float64 {
	if v, ok := lookup(t.basePrices, material); ok {
		return v
	}
	return t.defaultBasePrice
}

// LocationMultiplier resolves the demand multiplier for a location. The
// second return reports whether a table entry matched (false means the
// default was used).
func (t *Tables) LocationMultiplier(location string) (float64, bool) {
	if v, ok := lookup(t.locations, location); ok {
		return v, true
	}
	return t.defaultLocation, false
}

// SeasonalFactor resolves the demand factor for a material in a given
// month. Materials absent from the month's table carry a neutral 1.0.
func (t *Tables) SeasonalFactor(month time.Month, material string) float64 {
	if f, ok := t.LookupSeasonal(month, material); ok {
		return f
	}
	return 1.0
}

// LookupSeasonal reports whether the material has an explicit entry in the
// month's table, first substring match wins. Callers that need to tell an
// explicit 1.0 apart from the implicit default use this directly.
func (t *Tables) LookupSeasonal(month time.Month, material string) (float64, bool) {
	in := strings.ToLower(material)
	for _, e := range t.seasonal[month] {
		if strings.Contains(in, e.Material) {
			return e.Factor, true
		}
	}
	return 0, false
}

// MonthEntries returns the ordered seasonal entries for a month.
func (t *Tables) MonthEntries(month time.Month) []SeasonalEntry {
	return t.seasonal[month]
}

// PeakMonth scans all twelve months and returns the one with the highest
// seasonal factor for the material. Ties go to the earliest month.
func (t *Tables) PeakMonth(material string) time.Month {
	best := time.January
	bestFactor := 0.0
	for m := time.January; m <= time.December; m++ {
		f := t.SeasonalFactor(m, material)
		if f > bestFactor {
			bestFactor = f
			best = m
		}
	}
	return best
}

// WatchList returns the fixed set of materials tracked by the market
// aggregator and trend reporter.
func (t *Tables) WatchList() []string {
	return t.watchList
}
