package recommend

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
	"github.com/texloop/fabricpulse/internal/refdata"
)

// Recommendation pairs a listing with its match score and up to three
// human-readable reasons, in the order the scoring rules fired.
type Recommendation struct {
	Listing    model.Listing `json:"listing"`
	MatchScore int           `json:"matchScore"` // 0-100
	Reasons    []string      `json:"reasons"`
}

// Ranker scores available listings against a buyer's expressed interests.
// The jitter source adds up to 10 points of random noise per candidate so
// otherwise-tied listings rotate between calls; it is exploration, not a
// bug, and is injectable so tests can run deterministically.
type Ranker struct {
	tables *refdata.Tables
	now    func() time.Time
	jitter func() float64
}

// NewRanker creates a production ranker with a time-seeded jitter source.
func NewRanker(tables *refdata.Tables) *Ranker {
	if tables == nil {
		tables = refdata.Default()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Ranker{
		tables: tables,
		now:    time.Now,
		jitter: func() float64 { return rng.Float64() * 10 },
	}
}

// NewDeterministicRanker creates a ranker with an injected clock and
// jitter source for tests.
func NewDeterministicRanker(tables *refdata.Tables, now func() time.Time, jitter func() float64) *Ranker {
	r := NewRanker(tables)
	if now != nil {
		r.now = now
	}
	if jitter != nil {
		r.jitter = jitter
	}
	return r
}

// Recommend ranks the snapshot's available listings for the user, highest
// match first, truncated to limit (limit <= 0 means no truncation). The
// liked set is resolved from interestedIDs against the full snapshot.
func (r *Ranker) Recommend(user model.UserProfile, interestedIDs []string, listings []model.Listing, limit int) []Recommendation {
	now := r.now()
	month := now.Month()

	interested := make(map[string]bool, len(interestedIDs))
	for _, id := range interestedIDs {
		interested[id] = true
	}

	var liked []model.Listing
	for _, l := range listings {
		if interested[l.ID] {
			liked = append(liked, l)
		}
	}

	var likedMeanPrice float64
	if len(liked) > 0 {
		var total float64
		for _, l := range liked {
			total += l.PricePerUnit
		}
		likedMeanPrice = total / float64(len(liked))
	}

	var recs []Recommendation
	for _, cand := range listings {
		if cand.Status != model.StatusAvailable {
			continue
		}

		score := 0.0
		var reasons []string

		if anyMaterialOverlap(liked, cand.Material) {
			score += 30
			reasons = append(reasons, "Similar to fabrics you liked")
		}
		if anyLocationOverlap(liked, cand.Location) {
			score += 15
			reasons = append(reasons, "From a location you prefer")
		}
		if likedMeanPrice > 0 && math.Abs(cand.PricePerUnit-likedMeanPrice)/likedMeanPrice < 0.3 {
			score += 20
			reasons = append(reasons, "Within your typical price range")
		}

		if user.Type == model.TypeDesigner && cand.Quantity < 50 {
			score += 15
			reasons = append(reasons, "Suitable quantity for design projects")
		}
		if user.Type == model.TypeRecycler && cand.Quantity > 100 {
			score += 15
			reasons = append(reasons, "Good quantity for recycling")
		}

		age := now.Sub(cand.DateListed)
		if age < 3*24*time.Hour {
			score += 20
			reasons = append(reasons, "New listing")
		} else if age < 7*24*time.Hour {
			score += 10
			reasons = append(reasons, "Recently listed")
		}

		if r.tables.SeasonalFactor(month, cand.Material) > 1.1 {
			score += 15
			reasons = append(reasons, "In-season fabric")
		}

		if cand.PricePerUnit < r.tables.BasePrice(cand.Material)*0.9 {
			score += 20
			reasons = append(reasons, "Great value")
		}

		score += r.jitter()

		if len(reasons) > 3 {
			reasons = reasons[:3]
		}

		recs = append(recs, Recommendation{
			Listing:    cand,
			MatchScore: int(math.Round(math.Max(0, math.Min(100, score)))),
			Reasons:    reasons,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	return recs
}

func overlap(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func anyMaterialOverlap(liked []model.Listing, material string) bool {
	for _, l := range liked {
		if overlap(l.Material, material) {
			return true
		}
	}
	return false
}

func anyLocationOverlap(liked []model.Listing, location string) bool {
	for _, l := range liked {
		if overlap(l.Location, location) {
			return true
		}
	}
	return false
}
