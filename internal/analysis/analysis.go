package analysis

import (
	"math"
	"strings"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
	"github.com/texloop/fabricpulse/internal/refdata"
)

// Engine computes price and demand predictions against a set of reference
// tables. All methods are pure functions of their inputs plus a single
// clock read per call; the engine holds no mutable state.
type Engine struct {
	tables *refdata.Tables
	now    func() time.Time
}

// NewEngine creates an engine backed by the given tables. A nil tables
// argument falls back to the production defaults.
func NewEngine(tables *refdata.Tables) *Engine {
	if tables == nil {
		tables = refdata.Default()
	}
	return &Engine{tables: tables, now: time.Now}
}

// NewEngineWithClock creates an engine with an injected clock so seasonal
// and freshness logic is deterministic in tests.
func NewEngineWithClock(tables *refdata.Tables, now func() time.Time) *Engine {
	e := NewEngine(tables)
	if now != nil {
		e.now = now
	}
	return e
}

// materialsOverlap reports whether two free-text material strings refer to
// the same fabric: case-insensitive containment in either direction.
func materialsOverlap(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// matchingListings filters the snapshot to listings whose material
// overlaps the given one.
func matchingListings(listings []model.Listing, material string) []model.Listing {
	var out []model.Listing
	for _, l := range listings {
		if materialsOverlap(l.Material, material) {
			out = append(out, l)
		}
	}
	return out
}

// meanPricePerUnit averages PricePerUnit over the listings, 0 if empty.
func meanPricePerUnit(listings []model.Listing) float64 {
	if len(listings) == 0 {
		return 0
	}
	var total float64
	for _, l := range listings {
		total += l.PricePerUnit
	}
	return total / float64(len(listings))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
