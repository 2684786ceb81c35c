package analysis

import (
	"math"
	"strings"

	"github.com/texloop/fabricpulse/internal/model"
)

// PriceCaps defines maximum plausible prices per unit by material family.
// Anything above its cap is treated as data entry garbage.
var PriceCaps = map[string]float64{
	"silk":    20000.00,
	"leather": 10000.00,
	"wool":    5000.00,
	"default": 3000.00,
}

// SanitizeConfig holds configuration for snapshot sanitization. The core
// analyzers deliberately accept whatever they are handed (every lookup has
// a default and every aggregate clamps), so sanitization runs at the
// ingestion boundary instead.
type SanitizeConfig struct {
	MinPricePerUnit float64            // listings below this are dropped
	CustomCaps      map[string]float64 // override default price caps
}

// DefaultSanitizeConfig returns default sanitization settings.
func DefaultSanitizeConfig() *SanitizeConfig {
	return &SanitizeConfig{
		MinPricePerUnit: 1.0,
		CustomCaps:      nil,
	}
}

// SanitizeListings drops listings with unusable numeric fields: NaN or
// infinite prices, non-positive quantities, and prices past the material's
// plausibility cap.
func SanitizeListings(listings []model.Listing, config *SanitizeConfig) []model.Listing {
	if config == nil {
		config = DefaultSanitizeConfig()
	}

	sanitized := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if !validPrice(l.PricePerUnit, l.Material, config) {
			continue
		}
		if math.IsNaN(l.Quantity) || l.Quantity <= 0 {
			continue
		}
		sanitized = append(sanitized, l)
	}
	return sanitized
}

func validPrice(price float64, material string, config *SanitizeConfig) bool {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return false
	}
	if price < config.MinPricePerUnit {
		return false
	}
	return price <= capForMaterial(material, config)
}

func capForMaterial(material string, config *SanitizeConfig) float64 {
	m := strings.ToLower(material)

	if config.CustomCaps != nil {
		for key, cap := range config.CustomCaps {
			if strings.Contains(m, key) {
				return cap
			}
		}
	}

	switch {
	case strings.Contains(m, "silk"):
		return PriceCaps["silk"]
	case strings.Contains(m, "leather"):
		return PriceCaps["leather"]
	case strings.Contains(m, "wool"):
		return PriceCaps["wool"]
	default:
		return PriceCaps["default"]
	}
}
