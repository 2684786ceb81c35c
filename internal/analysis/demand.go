package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
)

// DemandPrediction is the output of PredictDemand.
type DemandPrediction struct {
	DemandScore      int    `json:"demandScore"` // 0-100
	Trend            string `json:"trend"`       // "rising", "stable", "declining"
	BestTimeToSell   string `json:"bestTimeToSell"`
	CompetitionLevel string `json:"competitionLevel"` // "low", "medium", "high"
	Insight          string `json:"insight"`
}

// PredictDemand scores expected demand for a material/location pair on a
// 0-100 scale, combining the seasonal factor, the location multiplier and
// the 30-day sell-through rate observed in the snapshot.
func (e *Engine) PredictDemand(material, location string, listings []model.Listing) DemandPrediction {
	now := e.now()
	month := now.Month()

	score := 50.0

	seasonalMult := e.tables.SeasonalFactor(month, material)
	score += (seasonalMult - 1) * 100

	locationMult, _ := e.tables.LocationMultiplier(location)
	score += (locationMult - 1) * 50

	cutoff := now.AddDate(0, 0, -30)
	var recent, recentSold int
	for _, l := range matchingListings(listings, material) {
		if l.DateListed.Before(cutoff) {
			continue
		}
		recent++
		if l.Status == model.StatusSold {
			recentSold++
		}
	}
	if recent > 0 {
		sellThroughRate := float64(recentSold) / float64(recent)
		score += sellThroughRate * 30
	}

	demandScore := int(math.Round(clamp(score, 0, 100)))

	trend := e.demandTrend(month, material)
	best := "Now!"
	if peak := e.tables.PeakMonth(material); peak != month {
		best = peak.String()
	}

	available := 0
	for _, l := range listings {
		if l.Status == model.StatusAvailable && materialsOverlap(l.Material, material) {
			available++
		}
	}
	competition := "low"
	switch {
	case available > 10:
		competition = "high"
	case available > 5:
		competition = "medium"
	}

	return DemandPrediction{
		DemandScore:      demandScore,
		Trend:            trend,
		BestTimeToSell:   best,
		CompetitionLevel: competition,
		Insight:          demandInsight(material, demandScore, trend),
	}
}

// demandTrend compares the current month's seasonal factor against next
// month's (December wraps to January) with a 5% dead band.
func (e *Engine) demandTrend(month time.Month, material string) string {
	current := e.tables.SeasonalFactor(month, material)
	next := e.tables.SeasonalFactor(month%12+1, material)

	switch {
	case next > current*1.05:
		return "rising"
	case next < current*0.95:
		return "declining"
	default:
		return "stable"
	}
}

func demandInsight(material string, score int, trend string) string {
	var insight string
	switch {
	case score >= 70:
		insight = fmt.Sprintf("Demand for %s is strong right now, listings in this category are moving quickly.", material)
	case score >= 50:
		insight = fmt.Sprintf("Demand for %s is steady, expect normal selling times.", material)
	default:
		insight = fmt.Sprintf("Demand for %s is soft at the moment, listings may take longer to sell.", material)
	}
	if trend == "rising" {
		insight += " Demand is trending up going into next month."
	}
	return insight
}
