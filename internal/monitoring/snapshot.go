package monitoring

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
)

// Snapshot represents a point-in-time capture of the marketplace
type Snapshot struct {
	Timestamp time.Time                  `json:"timestamp"`
	Source    string                     `json:"source"`
	Listings  map[string]SnapshotListing `json:"listings"`
}

// SnapshotListing is the per-listing data kept in a snapshot
type SnapshotListing struct {
	Material     string  `json:"material"`
	Location     string  `json:"location"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Status       string  `json:"status"`
}

// CreateSnapshot captures the listings keyed by ID
func CreateSnapshot(source string, listings []model.Listing) *Snapshot {
	snapshot := &Snapshot{
		Timestamp: time.Now(),
		Source:    source,
		Listings:  make(map[string]SnapshotListing, len(listings)),
	}

	for _, l := range listings {
		snapshot.Listings[l.ID] = SnapshotListing{
			Material:     l.Material,
			Location:     l.Location,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			Status:       string(l.Status),
		}
	}

	return snapshot
}

// LoadSnapshot loads a snapshot from a JSON file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to a JSON file
func SaveSnapshot(path string, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// MaterialDelta is an average-price movement for one material between
// two snapshots
type MaterialDelta struct {
	Material    string
	OldAvgPrice float64
	NewAvgPrice float64
	DeltaPct    float64
	OldCount    int
	NewCount    int
	OldSnapshot time.Time
	NewSnapshot time.Time
}

// CompareSnapshots groups both snapshots by leading material word and
// returns the materials whose average price moved by at least
// thresholdPct, largest movements first
func CompareSnapshots(old, current *Snapshot, thresholdPct float64) []MaterialDelta {
	oldStats := materialStats(old)
	newStats := materialStats(current)

	var deltas []MaterialDelta
	for material, n := range newStats {
		o, exists := oldStats[material]
		if !exists || o.avg <= 0 || n.avg <= 0 {
			continue
		}

		deltaPct := (n.avg - o.avg) / o.avg * 100
		if abs(deltaPct) < thresholdPct {
			continue
		}

		deltas = append(deltas, MaterialDelta{
			Material:    material,
			OldAvgPrice: o.avg,
			NewAvgPrice: n.avg,
			DeltaPct:    deltaPct,
			OldCount:    o.count,
			NewCount:    n.count,
			OldSnapshot: old.Timestamp,
			NewSnapshot: current.Timestamp,
		})
	}

	sort.Slice(deltas, func(i, j int) bool {
		if abs(deltas[i].DeltaPct) != abs(deltas[j].DeltaPct) {
			return abs(deltas[i].DeltaPct) > abs(deltas[j].DeltaPct)
		}
		return deltas[i].Material < deltas[j].Material
	})

	return deltas
}

type priceStats struct {
	avg   float64
	count int
}

func materialStats(snapshot *Snapshot) map[string]priceStats {
	totals := map[string]float64{}
	counts := map[string]int{}

	for _, l := range snapshot.Listings {
		fields := strings.Fields(strings.ToLower(l.Material))
		if len(fields) == 0 {
			continue
		}
		word := fields[0]
		totals[word] += l.PricePerUnit
		counts[word]++
	}

	stats := make(map[string]priceStats, len(totals))
	for word, total := range totals {
		stats[word] = priceStats{avg: total / float64(counts[word]), count: counts[word]}
	}
	return stats
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
