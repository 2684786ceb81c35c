package insights

import (
	"math"
	"sort"
	"strings"

	"github.com/texloop/fabricpulse/internal/model"
)

// MaterialTrend summarizes demand and pricing for one watch-list material.
type MaterialTrend struct {
	Material    string  `json:"material"`
	DemandScore int     `json:"demandScore"` // 0-100
	AvgPrice    float64 `json:"avgPrice"`
	Trend       string  `json:"trend"` // "rising", "falling", "stable"
}

// MaterialTrends reports one entry per watch-list material, sorted by
// demand score descending. Average price falls back to the reference base
// price when the snapshot has no matching listings.
func (a *Aggregator) MaterialTrends(listings []model.Listing) []MaterialTrend {
	month := a.now().Month()

	trends := make([]MaterialTrend, 0, len(a.tables.WatchList()))
	for _, material := range a.tables.WatchList() {
		factor := a.tables.SeasonalFactor(month, material)

		var matching []model.Listing
		sold := 0
		for _, l := range listings {
			if !materialOverlap(l.Material, material) {
				continue
			}
			matching = append(matching, l)
			if l.Status == model.StatusSold {
				sold++
			}
		}

		avgPrice := a.tables.BasePrice(material)
		if len(matching) > 0 {
			var total float64
			for _, l := range matching {
				total += l.PricePerUnit
			}
			avgPrice = total / float64(len(matching))
		}

		score := math.Round(factor*50 + float64(sold*5))
		if score > 100 {
			score = 100
		}

		trend := "stable"
		switch {
		case factor > 1.15:
			trend = "rising"
		case factor < 0.95:
			trend = "falling"
		}

		trends = append(trends, MaterialTrend{
			Material:    capitalize(material),
			DemandScore: int(score),
			AvgPrice:    avgPrice,
			Trend:       trend,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].DemandScore > trends[j].DemandScore
	})

	return trends
}

func materialOverlap(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
