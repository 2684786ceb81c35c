package insights

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
	"github.com/texloop/fabricpulse/internal/refdata"
)

// Recommendation is one rule-based suggestion in a market insights report.
type Recommendation struct {
	Type    string `json:"type"` // "action", "opportunity", "info", "warning"
	Message string `json:"message"`
}

// MarketInsights is the portfolio-level view over the full snapshot.
type MarketInsights struct {
	MarketHealthScore int              `json:"marketHealthScore"` // 0-100
	DemandTrend       string           `json:"demandTrend"`       // "increasing", "stable", "decreasing"
	PriceChange       int              `json:"priceChange"`       // signed percent
	TopMaterial       string           `json:"topMaterial"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// Aggregator computes market-wide statistics over a listing snapshot.
type Aggregator struct {
	tables *refdata.Tables
	now    func() time.Time
}

// NewAggregator creates an aggregator backed by the given tables, falling
// back to the production defaults when nil.
func NewAggregator(tables *refdata.Tables) *Aggregator {
	if tables == nil {
		tables = refdata.Default()
	}
	return &Aggregator{tables: tables, now: time.Now}
}

// NewAggregatorWithClock creates an aggregator with an injected clock.
func NewAggregatorWithClock(tables *refdata.Tables, now func() time.Time) *Aggregator {
	a := NewAggregator(tables)
	if now != nil {
		a.now = now
	}
	return a
}

// MarketInsights aggregates the snapshot into a health score, demand
// trend, expected seasonal price movement, top material and a set of
// independently evaluated recommendations.
func (a *Aggregator) MarketInsights(listings []model.Listing) MarketInsights {
	now := a.now()
	month := now.Month()

	total := len(listings)
	distinct := map[string]bool{}
	sold := 0
	available := 0
	recent14 := 0
	cutoff := now.AddDate(0, 0, -14)

	for _, l := range listings {
		distinct[strings.ToLower(l.Material)] = true
		switch l.Status {
		case model.StatusSold:
			sold++
		case model.StatusAvailable:
			available++
		}
		if !l.DateListed.Before(cutoff) {
			recent14++
		}
	}

	health := math.Min(float64(total*5), 40) + float64(len(distinct)*5) + float64(sold*3) + 20
	if health > 100 {
		health = 100
	}

	trend := "stable"
	switch {
	case recent14 > 3:
		trend = "increasing"
	case recent14 == 0 && total > 5:
		trend = "decreasing"
	}

	return MarketInsights{
		MarketHealthScore: int(health),
		DemandTrend:       trend,
		PriceChange:       a.seasonalPriceChange(month),
		TopMaterial:       topMaterial(listings),
		Recommendations:   a.recommendations(month, total, available, sold, len(distinct)),
	}
}

// seasonalPriceChange averages the current month's seasonal factors over
// the watch list, but only materials with an explicit entry contribute to
// the sum while the denominator stays at the full watch-list size. That
// asymmetry is carried over from the pricing model this mirrors.
func (a *Aggregator) seasonalPriceChange(month time.Month) int {
	watch := a.tables.WatchList()
	var sum float64
	for _, material := range watch {
		if f, ok := a.tables.LookupSeasonal(month, material); ok {
			sum += f
		}
	}
	avg := sum / float64(len(watch))
	return int(math.Round((avg - 1) * 100))
}

// topMaterial returns the most frequent first word of the snapshot's
// material strings, defaulting to Cotton for an empty snapshot. Earliest
// first appearance wins ties.
func topMaterial(listings []model.Listing) string {
	counts := map[string]int{}
	var order []string
	for _, l := range listings {
		fields := strings.Fields(strings.ToLower(l.Material))
		if len(fields) == 0 {
			continue
		}
		word := fields[0]
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	best := ""
	bestCount := 0
	for _, word := range order {
		if counts[word] > bestCount {
			best = word
			bestCount = counts[word]
		}
	}

	if best == "" {
		return "Cotton"
	}
	return capitalize(best)
}

func (a *Aggregator) recommendations(month time.Month, total, available, sold, distinct int) []Recommendation {
	var recs []Recommendation

	if available < 5 {
		recs = append(recs, Recommendation{
			Type:    "action",
			Message: "Inventory is running low, list more materials to keep buyers engaged.",
		})
	}

	var hot []string
	for _, e := range a.tables.MonthEntries(month) {
		if e.Factor > 1.15 {
			hot = append(hot, capitalize(e.Material))
		}
		if len(hot) == 2 {
			break
		}
	}
	if len(hot) > 0 {
		recs = append(recs, Recommendation{
			Type:    "opportunity",
			Message: fmt.Sprintf("Seasonal demand is peaking for %s, a good window to list them.", strings.Join(hot, " and ")),
		})
	}

	if sold > 0 {
		recs = append(recs, Recommendation{
			Type:    "info",
			Message: fmt.Sprintf("%d listings sold recently, the market is moving.", sold),
		})
	}

	if total > 10 && distinct*5 < 15 {
		recs = append(recs, Recommendation{
			Type:    "warning",
			Message: "Listings are concentrated in very few materials, diversifying would reach more buyers.",
		})
	}

	return recs
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
