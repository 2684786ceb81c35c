package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
)

func juneClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestPredictPrice_CottonSuratScenario(t *testing.T) {
	// Cotton 300m in Surat against an empty snapshot in June:
	// 350 * 1.20 * 1.25 * 0.92 * 1.0 = 483
	e := NewEngineWithClock(nil, juneClock())

	rec := e.PredictPrice("Cotton", 300, "m", "Surat", nil)

	if rec.SuggestedPrice != 483 {
		t.Errorf("suggested price = %v, want 483", rec.SuggestedPrice)
	}
	if rec.MinPrice != 410 {
		t.Errorf("min price = %v, want 410", rec.MinPrice)
	}
	if rec.MaxPrice != 556 {
		t.Errorf("max price = %v, want 556", rec.MaxPrice)
	}
	// 0.6 base + 0.05 for a non-default location match
	if abs(rec.Confidence-0.65) > 1e-9 {
		t.Errorf("confidence = %v, want 0.65", rec.Confidence)
	}
	if len(rec.Factors) != 5 {
		t.Fatalf("expected 5 factors, got %d", len(rec.Factors))
	}

	expected := []struct {
		name   string
		impact string
		value  float64
	}{
		{"Material Base", "primary", 350},
		{"Location Demand", "positive", 20},
		{"Seasonal Demand", "positive", 25},
		{"Quantity Factor", "discount", -8},
		{"Market Competition", "low", 0},
	}
	for i, want := range expected {
		got := rec.Factors[i]
		if got.Name != want.name || got.Impact != want.impact || got.Value != want.value {
			t.Errorf("factor %d = {%s %s %v}, want {%s %s %v}",
				i, got.Name, got.Impact, got.Value, want.name, want.impact, want.value)
		}
	}
}

func TestPredictPrice_UnknownMaterialAndLocation(t *testing.T) {
	// Unknown inputs must fall through to the default table entries
	// without an error path.
	e := NewEngineWithClock(nil, fixedClock(time.March))

	rec := e.PredictPrice("Vantablack Weave", 100, "m", "Atlantis", nil)

	if rec.Factors[0].Value != 300 {
		t.Errorf("default base price = %v, want 300", rec.Factors[0].Value)
	}
	if rec.Factors[1].Value != 0 || rec.Factors[1].Impact != "neutral" {
		t.Errorf("default location factor = {%v %s}, want {0 neutral}",
			rec.Factors[1].Value, rec.Factors[1].Impact)
	}
	if abs(rec.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence = %v, want 0.6 with no comparables and default location", rec.Confidence)
	}
}

func TestPredictPrice_RangeBracketsSuggested(t *testing.T) {
	e := NewEngineWithClock(nil, juneClock())

	for _, quantity := range []float64{5, 50, 250, 800} {
		rec := e.PredictPrice("Silk", quantity, "m", "Mumbai", nil)
		if rec.MinPrice > rec.SuggestedPrice || rec.SuggestedPrice > rec.MaxPrice {
			t.Errorf("quantity %v: range %v..%v does not bracket %v",
				quantity, rec.MinPrice, rec.MaxPrice, rec.SuggestedPrice)
		}
	}
}

func TestPredictPrice_QuantityTiers(t *testing.T) {
	e := NewEngineWithClock(nil, fixedClock(time.October))

	tests := []struct {
		quantity float64
		impact   string
		value    float64
	}{
		{600, "discount", -15},
		{300, "discount", -8},
		{100, "neutral", 0},
		{10, "premium", 10},
	}

	for _, test := range tests {
		rec := e.PredictPrice("Cotton", test.quantity, "m", "Delhi", nil)
		got := rec.Factors[3]
		if got.Impact != test.impact || got.Value != test.value {
			t.Errorf("quantity %v: factor = {%s %v}, want {%s %v}",
				test.quantity, got.Impact, got.Value, test.impact, test.value)
		}
	}
}

func TestPredictPrice_MarketCompetition(t *testing.T) {
	// October cotton has a neutral 1.00 seasonal factor, which isolates
	// the market multiplier.
	e := NewEngineWithClock(nil, fixedClock(time.October))

	var listings []model.Listing
	for i := 0; i < 6; i++ {
		listings = append(listings, model.Listing{
			ID:           string(rune('a' + i)),
			Material:     "Cotton",
			PricePerUnit: 350,
			Status:       model.StatusAvailable,
		})
	}

	rec := e.PredictPrice("Cotton", 100, "m", "Nowhere", listings)

	comp := rec.Factors[4]
	if comp.Impact != "high" || comp.Value != 6 {
		t.Errorf("competition factor = {%s %v}, want {high 6}", comp.Impact, comp.Value)
	}
	// Mean price equals base price, so the market multiplier is exactly
	// 0.7 + 0.3*1.0 = 1.0 and the suggestion stays at the base price.
	if rec.SuggestedPrice != 350 {
		t.Errorf("suggested price = %v, want 350", rec.SuggestedPrice)
	}
	// 0.6 + 0.2 for more than five comparables, default location
	if abs(rec.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want 0.8", rec.Confidence)
	}
}

func TestPredictPrice_ConfidenceCap(t *testing.T) {
	e := NewEngineWithClock(nil, fixedClock(time.October))

	var listings []model.Listing
	for i := 0; i < 12; i++ {
		listings = append(listings, model.Listing{
			Material:     "Cotton",
			PricePerUnit: 340,
		})
	}

	rec := e.PredictPrice("Cotton", 100, "m", "Surat", listings)

	// 0.6 + 0.2 + 0.1 + 0.05 = 0.95, exactly at the cap
	if abs(rec.Confidence-0.95) > 1e-9 {
		t.Errorf("confidence = %v, want capped 0.95", rec.Confidence)
	}
}

func TestPredictPrice_InsightPriority(t *testing.T) {
	var comparables []model.Listing
	for i := 0; i < 4; i++ {
		comparables = append(comparables, model.Listing{Material: "Cotton", PricePerUnit: 350})
	}

	tests := []struct {
		name     string
		month    time.Month
		material string
		listings []model.Listing
		want     string
	}{
		{"seasonal boost wins", time.June, "Cotton", comparables, "upper end"},
		{"seasonal drop", time.January, "Cotton", nil, "off-season"},
		{"competition", time.October, "Cotton", comparables, "comparable"},
		{"sparse fallback", time.October, "Cotton", nil, "Limited market data"},
	}

	for _, test := range tests {
		e := NewEngineWithClock(nil, fixedClock(test.month))
		rec := e.PredictPrice(test.material, 100, "m", "Delhi", test.listings)
		if !strings.Contains(rec.Insight, test.want) {
			t.Errorf("%s: insight %q does not contain %q", test.name, rec.Insight, test.want)
		}
	}
}

func TestPredictPrice_Idempotent(t *testing.T) {
	e := NewEngineWithClock(nil, juneClock())
	listings := []model.Listing{
		{Material: "Cotton", PricePerUnit: 320},
		{Material: "Cotton Blend", PricePerUnit: 410},
	}

	first := e.PredictPrice("Cotton", 300, "m", "Surat", listings)
	second := e.PredictPrice("Cotton", 300, "m", "Surat", listings)

	if first.SuggestedPrice != second.SuggestedPrice || first.Confidence != second.Confidence {
		t.Errorf("repeated calls diverged: %+v vs %+v", first, second)
	}
	for i := range first.Factors {
		if first.Factors[i] != second.Factors[i] {
			t.Errorf("factor %d diverged between calls", i)
		}
	}
}

// Helper function for floating point comparison
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
