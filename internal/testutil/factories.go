package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/texloop/fabricpulse/internal/model"
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand    *rand.Rand
	counter int
}

// NewTestDataFactory creates a new test data factory with a seeded
// random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateMaterial picks a random material name
func (f *TestDataFactory) GenerateMaterial() string {
	materials := []string{"Cotton", "Silk", "Denim", "Wool", "Linen", "Polyester", "Jute", "Rayon"}
	return materials[f.rand.Intn(len(materials))]
}

// GenerateLocation picks a random hub city
func (f *TestDataFactory) GenerateLocation() string {
	locations := []string{"Surat", "Tirupur", "Mumbai", "Ahmedabad", "Delhi", "Bangalore", "Jaipur", "Kolkata"}
	return locations[f.rand.Intn(len(locations))]
}

// GeneratePrice generates a random price per unit
func (f *TestDataFactory) GeneratePrice() float64 {
	return float64(f.rand.Intn(2450)+50) + f.rand.Float64()
}

// GenerateQuantity generates a random quantity
func (f *TestDataFactory) GenerateQuantity() float64 {
	return float64(f.rand.Intn(500) + 5)
}

// GenerateDate generates a random listing date within the last year
func (f *TestDataFactory) GenerateDate() time.Time {
	days := f.rand.Intn(365)
	return time.Now().AddDate(0, 0, -days)
}

// GenerateSellerName picks a random seller name
func (f *TestDataFactory) GenerateSellerName() string {
	sellers := []string{"Test Mills", "Test Weaves", "Test Exports", "Test Textiles", "Test Fabrics"}
	return sellers[f.rand.Intn(len(sellers))]
}

// GenerateListing assembles a fully populated random listing
func (f *TestDataFactory) GenerateListing() model.Listing {
	f.counter++
	return model.Listing{
		ID:           fmt.Sprintf("test-listing-%d", f.counter),
		Material:     f.GenerateMaterial(),
		Location:     f.GenerateLocation(),
		Quantity:     f.GenerateQuantity(),
		Unit:         "kg",
		PricePerUnit: f.GeneratePrice(),
		Status:       model.StatusAvailable,
		DateListed:   f.GenerateDate(),
		SellerName:   f.GenerateSellerName(),
	}
}

// GenerateListings assembles n random listings
func (f *TestDataFactory) GenerateListings(n int) []model.Listing {
	listings := make([]model.Listing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, f.GenerateListing())
	}
	return listings
}
