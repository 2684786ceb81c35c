package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
)

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestMarketInsights_EmptySnapshot(t *testing.T) {
	// March has no seasonal factor above 1.15, so only the low-inventory
	// action can fire.
	a := NewAggregatorWithClock(nil, fixedClock(time.March))

	ins := a.MarketInsights(nil)

	if ins.MarketHealthScore != 20 {
		t.Errorf("health = %d, want baseline 20", ins.MarketHealthScore)
	}
	if ins.DemandTrend != "stable" {
		t.Errorf("trend = %s, want stable", ins.DemandTrend)
	}
	if ins.TopMaterial != "Cotton" {
		t.Errorf("top material = %s, want Cotton default", ins.TopMaterial)
	}
	if len(ins.Recommendations) != 1 || ins.Recommendations[0].Type != "action" {
		t.Errorf("recommendations = %+v, want a single action", ins.Recommendations)
	}
}

func TestMarketInsights_HealthScore(t *testing.T) {
	now := fixedClock(time.March)
	a := NewAggregatorWithClock(nil, now)
	old := now().AddDate(0, 0, -20)

	listings := []model.Listing{
		{Material: "Cotton", Status: model.StatusAvailable, DateListed: old},
		{Material: "Cotton", Status: model.StatusAvailable, DateListed: old},
		{Material: "Silk", Status: model.StatusSold, DateListed: old},
	}

	ins := a.MarketInsights(listings)

	// min(3*5, 40) + 2 distinct * 5 + 1 sold * 3 + 20 = 48
	if ins.MarketHealthScore != 48 {
		t.Errorf("health = %d, want 48", ins.MarketHealthScore)
	}
}

func TestMarketInsights_HealthScoreCaps(t *testing.T) {
	now := fixedClock(time.March)
	a := NewAggregatorWithClock(nil, now)

	materials := []string{"Cotton", "Silk", "Denim", "Wool", "Linen", "Jute", "Rayon", "Leather"}
	var listings []model.Listing
	for i := 0; i < 40; i++ {
		listings = append(listings, model.Listing{
			Material:   materials[i%len(materials)],
			Status:     model.StatusSold,
			DateListed: now().AddDate(0, 0, -1),
		})
	}

	ins := a.MarketInsights(listings)
	if ins.MarketHealthScore != 100 {
		t.Errorf("health = %d, want capped 100", ins.MarketHealthScore)
	}
}

func TestMarketInsights_DemandTrend(t *testing.T) {
	now := fixedClock(time.March)
	a := NewAggregatorWithClock(nil, now)

	fresh := now().AddDate(0, 0, -3)
	stale := now().AddDate(0, 0, -60)

	makeListings := func(n int, listed time.Time) []model.Listing {
		var out []model.Listing
		for i := 0; i < n; i++ {
			out = append(out, model.Listing{Material: "Cotton", Status: model.StatusAvailable, DateListed: listed})
		}
		return out
	}

	if ins := a.MarketInsights(makeListings(4, fresh)); ins.DemandTrend != "increasing" {
		t.Errorf("4 fresh listings: trend = %s, want increasing", ins.DemandTrend)
	}
	if ins := a.MarketInsights(makeListings(6, stale)); ins.DemandTrend != "decreasing" {
		t.Errorf("6 stale listings: trend = %s, want decreasing", ins.DemandTrend)
	}
	// Few listings and none recent is still stable, not decreasing.
	if ins := a.MarketInsights(makeListings(3, stale)); ins.DemandTrend != "stable" {
		t.Errorf("3 stale listings: trend = %s, want stable", ins.DemandTrend)
	}
}

func TestMarketInsights_PriceChange(t *testing.T) {
	// The watch-list average keeps a constant denominator of 7 even when
	// only some materials have entries for the month.
	tests := []struct {
		month    time.Month
		expected int
	}{
		// June: cotton 1.25 + linen 1.15 + wool 0.75 = 3.15; 3.15/7 -> -55
		{time.June, -55},
		// March: cotton 1.10 + linen 1.05 + wool 0.85 = 3.00; 3.00/7 -> -57
		{time.March, -57},
	}

	for _, test := range tests {
		a := NewAggregatorWithClock(nil, fixedClock(test.month))
		if ins := a.MarketInsights(nil); ins.PriceChange != test.expected {
			t.Errorf("%s: price change = %d, want %d", test.month, ins.PriceChange, test.expected)
		}
	}
}

func TestMarketInsights_TopMaterial(t *testing.T) {
	a := NewAggregatorWithClock(nil, fixedClock(time.March))

	listings := []model.Listing{
		{Material: "Cotton Canvas"},
		{Material: "cotton twill"},
		{Material: "Silk"},
	}

	if ins := a.MarketInsights(listings); ins.TopMaterial != "Cotton" {
		t.Errorf("top material = %s, want Cotton", ins.TopMaterial)
	}

	// Ties resolve to the earliest first appearance.
	tied := []model.Listing{
		{Material: "Silk Brocade"},
		{Material: "Cotton"},
	}
	if ins := a.MarketInsights(tied); ins.TopMaterial != "Silk" {
		t.Errorf("top material = %s, want Silk on tie", ins.TopMaterial)
	}
}

func TestMarketInsights_OpportunityRecommendation(t *testing.T) {
	// October carries silk 1.30 and georgette 1.20, both above the 1.15
	// bar; only the first two qualifying materials are named.
	a := NewAggregatorWithClock(nil, fixedClock(time.October))

	ins := a.MarketInsights(nil)

	var opportunity *Recommendation
	for i := range ins.Recommendations {
		if ins.Recommendations[i].Type == "opportunity" {
			opportunity = &ins.Recommendations[i]
		}
	}
	if opportunity == nil {
		t.Fatal("expected an opportunity recommendation in October")
	}
	if !strings.Contains(opportunity.Message, "Silk and Georgette") {
		t.Errorf("opportunity message = %q, want it to name Silk and Georgette", opportunity.Message)
	}
}

func TestMarketInsights_InfoAndWarning(t *testing.T) {
	now := fixedClock(time.March)
	a := NewAggregatorWithClock(nil, now)
	old := now().AddDate(0, 0, -20)

	// Eleven listings across two materials: concentrated and partly sold.
	var listings []model.Listing
	for i := 0; i < 11; i++ {
		material := "Cotton"
		if i%4 == 0 {
			material = "Silk"
		}
		status := model.StatusAvailable
		if i < 2 {
			status = model.StatusSold
		}
		listings = append(listings, model.Listing{Material: material, Status: status, DateListed: old})
	}

	ins := a.MarketInsights(listings)

	types := map[string]bool{}
	for _, rec := range ins.Recommendations {
		types[rec.Type] = true
	}
	if !types["info"] {
		t.Error("expected an info recommendation when listings have sold")
	}
	if !types["warning"] {
		t.Error("expected a warning for a concentrated market")
	}
	if types["action"] {
		t.Error("action must not fire with 9 available listings")
	}
}
