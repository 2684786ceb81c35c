package model

import "time"

// ListingStatus tracks where a listing is in its lifecycle. Transitions
// (Available -> Reserved/Sold) are enforced by the marketplace app, not here.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "Available"
	StatusReserved  ListingStatus = "Reserved"
	StatusSold      ListingStatus = "Sold"
)

// Minimal listing representation we need for pricing/analysis.
// Material and Location are free text and matched by case-insensitive
// substring against the reference tables.
type Listing struct {
	ID           string        `json:"id"`
	Material     string        `json:"material"`
	Location     string        `json:"location"`
	Quantity     float64       `json:"quantity"`
	Unit         string        `json:"unit"` // "m" or "kg"
	PricePerUnit float64       `json:"pricePerUnit"`
	Status       ListingStatus `json:"status"`
	DateListed   time.Time     `json:"dateListed"`
	SellerName   string        `json:"sellerName"`
}

// UserType classifies marketplace accounts.
type UserType string

const (
	TypeBuyer    UserType = "Buyer"
	TypeSupplier UserType = "Supplier"
	TypeRecycler UserType = "Recycler"
	TypeDesigner UserType = "Designer"
	TypeSeller   UserType = "Seller"
)

type UserProfile struct {
	CompanyName string   `json:"companyName"`
	Type        UserType `json:"type"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Email       string   `json:"email,omitempty"`
}
