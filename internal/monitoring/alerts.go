package monitoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
	"github.com/texloop/fabricpulse/internal/refdata"
)

// AlertType represents different kinds of seller alerts
type AlertType string

const (
	AlertOverpriced   AlertType = "OVERPRICED"
	AlertSeasonalPeak AlertType = "SEASONAL_PEAK"
	AlertNoListings   AlertType = "NO_LISTINGS"
	AlertBundleTip    AlertType = "BUNDLE_TIP"
	AlertMarketShift  AlertType = "MARKET_SHIFT"
)

// Alert is one actionable notice for a seller
type Alert struct {
	Type      AlertType `json:"type"`
	Severity  string    `json:"severity"` // "HIGH", "MEDIUM", "LOW"
	ListingID string    `json:"listingId,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertConfig contains alert generation parameters
type AlertConfig struct {
	OverpricedRatio   float64 // price over comparable mean that triggers a warning
	SeasonalPeakBar   float64 // seasonal factor above which a peak alert fires
	BundleMinListings int     // available listings above which a bundling tip fires
}

// DefaultAlertConfig returns the production thresholds
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		OverpricedRatio:   1.3,
		SeasonalPeakBar:   1.2,
		BundleMinListings: 5,
	}
}

// AlertEngine evaluates a seller's inventory against the full snapshot
type AlertEngine struct {
	config AlertConfig
	tables *refdata.Tables
	now    func() time.Time
}

// NewAlertEngine creates an alert engine with the given config, falling
// back to the default reference tables when nil
func NewAlertEngine(config AlertConfig, tables *refdata.Tables) *AlertEngine {
	if tables == nil {
		tables = refdata.Default()
	}
	return &AlertEngine{config: config, tables: tables, now: time.Now}
}

// NewAlertEngineWithClock creates an alert engine with an injected clock
func NewAlertEngineWithClock(config AlertConfig, tables *refdata.Tables, now func() time.Time) *AlertEngine {
	ae := NewAlertEngine(config, tables)
	if now != nil {
		ae.now = now
	}
	return ae
}

// SellerAlerts generates alerts for one seller's listings against the
// full market snapshot, sorted by severity
func (ae *AlertEngine) SellerAlerts(sellerListings, allListings []model.Listing) []Alert {
	now := ae.now()

	if len(sellerListings) == 0 {
		return []Alert{{
			Type:      AlertNoListings,
			Severity:  "LOW",
			Message:   "You have no active listings. Listing surplus stock keeps your profile visible to buyers.",
			Timestamp: now,
		}}
	}

	var alerts []Alert
	available := 0

	for _, listing := range sellerListings {
		if listing.Status != model.StatusAvailable {
			continue
		}
		available++

		if mean := ae.comparableMean(listing, allListings); mean > 0 && listing.PricePerUnit > ae.config.OverpricedRatio*mean {
			pct := int(math.Round((listing.PricePerUnit/mean - 1) * 100))
			alerts = append(alerts, Alert{
				Type:      AlertOverpriced,
				Severity:  overpricedSeverity(pct),
				ListingID: listing.ID,
				Message:   fmt.Sprintf("%s is priced %d%% above comparable listings, consider lowering the price to sell faster.", listing.Material, pct),
				Timestamp: now,
			})
		}

		if factor := ae.tables.SeasonalFactor(now.Month(), listing.Material); factor > ae.config.SeasonalPeakBar {
			alerts = append(alerts, Alert{
				Type:      AlertSeasonalPeak,
				Severity:  "MEDIUM",
				ListingID: listing.ID,
				Message:   fmt.Sprintf("Demand for %s peaks this month, a good time to promote this listing.", listing.Material),
				Timestamp: now,
			})
		}
	}

	if available > ae.config.BundleMinListings {
		alerts = append(alerts, Alert{
			Type:      AlertBundleTip,
			Severity:  "LOW",
			Message:   fmt.Sprintf("You have %d active listings. Bundling similar materials can attract bulk buyers.", available),
			Timestamp: now,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) > severityRank(alerts[j].Severity)
	})

	return alerts
}

// MarketShiftAlerts converts snapshot comparison deltas into alerts,
// HIGH severity for average price moves of 25% or more
func (ae *AlertEngine) MarketShiftAlerts(deltas []MaterialDelta) []Alert {
	now := ae.now()

	var alerts []Alert
	for _, d := range deltas {
		severity := "MEDIUM"
		if d.DeltaPct >= 25 || d.DeltaPct <= -25 {
			severity = "HIGH"
		}

		direction := "rose"
		if d.DeltaPct < 0 {
			direction = "fell"
		}

		alerts = append(alerts, Alert{
			Type:      AlertMarketShift,
			Severity:  severity,
			Message:   fmt.Sprintf("Average %s prices %s %.1f%% since the last snapshot.", d.Material, direction, math.Abs(d.DeltaPct)),
			Timestamp: now,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) > severityRank(alerts[j].Severity)
	})

	return alerts
}

// comparableMean returns the mean price per unit over snapshot listings
// sharing the listing's leading material word, excluding the listing
// itself. Zero means no comparables.
func (ae *AlertEngine) comparableMean(listing model.Listing, allListings []model.Listing) float64 {
	fields := strings.Fields(strings.ToLower(listing.Material))
	if len(fields) == 0 {
		return 0
	}
	word := fields[0]

	var total float64
	count := 0
	for _, other := range allListings {
		if other.ID == listing.ID {
			continue
		}
		if !strings.Contains(strings.ToLower(other.Material), word) {
			continue
		}
		total += other.PricePerUnit
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func overpricedSeverity(pct int) string {
	if pct >= 50 {
		return "HIGH"
	}
	return "MEDIUM"
}

func severityRank(severity string) int {
	switch severity {
	case "HIGH":
		return 3
	case "MEDIUM":
		return 2
	case "LOW":
		return 1
	default:
		return 0
	}
}

// FormatAlert creates a human-readable representation of an alert
func FormatAlert(alert Alert) string {
	output := fmt.Sprintf("[%s] %s\n", alert.Severity, string(alert.Type))
	if alert.ListingID != "" {
		output += fmt.Sprintf("Listing: %s\n", alert.ListingID)
	}
	output += fmt.Sprintf("Message: %s\n", alert.Message)
	return output
}
