package analysis

import (
	"fmt"
	"math"

	"github.com/texloop/fabricpulse/internal/model"
)

// PriceFactor is one named contribution to a price recommendation.
type PriceFactor struct {
	Name   string  `json:"name"`
	Impact string  `json:"impact"`
	Value  float64 `json:"value"`
}

// PriceRecommendation is the output of PredictPrice. MinPrice and MaxPrice
// bracket the suggested price at 0.85x and 1.15x.
type PriceRecommendation struct {
	SuggestedPrice float64       `json:"suggestedPrice"`
	MinPrice       float64       `json:"minPrice"`
	MaxPrice       float64       `json:"maxPrice"`
	Confidence     float64       `json:"confidence"`
	Factors        []PriceFactor `json:"factors"`
	Insight        string        `json:"insight"`
}

// PredictPrice computes a suggested price per unit for a candidate listing
// against the reference tables and the current market snapshot. Unknown
// materials and locations fall through to the default table entries, so
// there is no error path.
func (e *Engine) PredictPrice(material string, quantity float64, unit, location string, listings []model.Listing) PriceRecommendation {
	month := e.now().Month()

	basePrice := e.tables.BasePrice(material)
	factors := []PriceFactor{
		{Name: "Material Base", Impact: "primary", Value: basePrice},
	}

	locationMult, locationMatched := e.tables.LocationMultiplier(location)
	locationImpact := "neutral"
	if locationMult > 1.1 {
		locationImpact = "positive"
	}
	factors = append(factors, PriceFactor{
		Name:   "Location Demand",
		Impact: locationImpact,
		Value:  math.Round((locationMult - 1) * 100),
	})

	seasonalMult := e.tables.SeasonalFactor(month, material)
	seasonalImpact := "neutral"
	switch {
	case seasonalMult > 1.1:
		seasonalImpact = "positive"
	case seasonalMult < 0.95:
		seasonalImpact = "negative"
	}
	factors = append(factors, PriceFactor{
		Name:   "Seasonal Demand",
		Impact: seasonalImpact,
		Value:  math.Round((seasonalMult - 1) * 100),
	})

	quantityMult := 1.0
	quantityImpact := "neutral"
	switch {
	case quantity > 500:
		quantityMult = 0.85
		quantityImpact = "discount"
	case quantity > 200:
		quantityMult = 0.92
		quantityImpact = "discount"
	case quantity < 20:
		quantityMult = 1.1
		quantityImpact = "premium"
	}
	factors = append(factors, PriceFactor{
		Name:   "Quantity Factor",
		Impact: quantityImpact,
		Value:  math.Round((quantityMult - 1) * 100),
	})

	comparables := matchingListings(listings, material)
	marketMult := 1.0
	if len(comparables) > 0 {
		meanPrice := meanPricePerUnit(comparables)
		marketMult = clamp(0.7+0.3*(meanPrice/basePrice), 0.8, 1.2)
	}
	competitionImpact := "low"
	switch {
	case len(comparables) > 5:
		competitionImpact = "high"
	case len(comparables) > 2:
		competitionImpact = "medium"
	}
	factors = append(factors, PriceFactor{
		Name:   "Market Competition",
		Impact: competitionImpact,
		Value:  float64(len(comparables)),
	})

	suggested := math.Round(basePrice * locationMult * seasonalMult * quantityMult * marketMult)

	confidence := 0.6
	if len(comparables) > 5 {
		confidence += 0.2
	}
	if len(comparables) > 10 {
		confidence += 0.1
	}
	if locationMatched {
		confidence += 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return PriceRecommendation{
		SuggestedPrice: suggested,
		MinPrice:       math.Floor(suggested * 0.85),
		MaxPrice:       math.Ceil(suggested * 1.15),
		Confidence:     confidence,
		Factors:        factors,
		Insight:        priceInsight(material, seasonalMult, len(comparables)),
	}
}

// priceInsight picks the highest-priority insight template: seasonal boost,
// seasonal drop, established competition, then the sparse-data fallback.
func priceInsight(material string, seasonalMult float64, comparables int) string {
	switch {
	case seasonalMult > 1.1:
		return fmt.Sprintf("Seasonal demand for %s is high this month, consider pricing toward the upper end of the range.", material)
	case seasonalMult < 0.95:
		return fmt.Sprintf("This is an off-season month for %s, competitive pricing will help it move faster.", material)
	case comparables > 3:
		return fmt.Sprintf("There are %d comparable %s listings on the market, so the suggested price tracks current competition closely.", comparables, material)
	default:
		return fmt.Sprintf("Limited market data for %s right now, the suggestion leans on reference rates.", material)
	}
}
