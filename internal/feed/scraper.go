package feed

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/texloop/fabricpulse/internal/cache"
	"github.com/texloop/fabricpulse/internal/model"
)

const (
	scrapeCacheSize = 100
	scrapeCacheTTL  = time.Hour
)

var priceRe = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// Scraper extracts listings from marketplace HTML pages, used for
// partner sites that expose no JSON feed
type Scraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	pageCache *cache.MemoryCache
	userAgent string
}

// NewScraper creates a scraper with a conservative one request per
// second limit
func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		pageCache: cache.NewMemoryCache(scrapeCacheSize, scrapeCacheTTL),
		userAgent: defaultUserAgent,
	}
}

// ScrapeListings fetches a listings page and parses every listing card.
// Pages are cached in memory for an hour.
func (s *Scraper) ScrapeListings(ctx context.Context, pageURL string) ([]model.Listing, error) {
	if cached, ok := s.pageCache.Get(pageURL); ok {
		return cached.([]model.Listing), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing listings page: %w", err)
	}

	var listings []model.Listing
	doc.Find(".listing-card").Each(func(i int, sel *goquery.Selection) {
		if listing := parseListingCard(sel); listing != nil {
			listings = append(listings, *listing)
		}
	})

	s.pageCache.Set(pageURL, listings, 0)
	return listings, nil
}

// parseListingCard converts one listing tile into a Listing. Cards
// missing an ID, material or price are skipped.
func parseListingCard(sel *goquery.Selection) *model.Listing {
	id, _ := sel.Attr("data-listing-id")
	material := strings.TrimSpace(sel.Find(".listing-material").Text())
	price := parsePrice(sel.Find(".listing-price").Text())

	if id == "" || material == "" || price <= 0 {
		return nil
	}

	quantity, unit := parseQuantity(sel.Find(".listing-quantity").Text())

	listing := &model.Listing{
		ID:           id,
		Material:     material,
		Location:     strings.TrimSpace(sel.Find(".listing-location").Text()),
		Quantity:     quantity,
		Unit:         unit,
		PricePerUnit: price,
		SellerName:   strings.TrimSpace(sel.Find(".listing-seller").Text()),
		Status:       parseStatus(sel.Find(".listing-status").Text()),
	}

	if raw, ok := sel.Attr("data-listed"); ok {
		if listed, err := parseListedDate(raw); err == nil {
			listing.DateListed = listed
		}
	}

	return listing
}

func parsePrice(text string) float64 {
	match := priceRe.FindString(text)
	if match == "" {
		return 0
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return price
}

// parseQuantity splits strings like "120 kg" or "40 meters" into a value
// and unit, defaulting the unit to kg
func parseQuantity(text string) (float64, string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, "kg"
	}

	quantity, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0, "kg"
	}

	unit := "kg"
	if len(fields) > 1 {
		unit = strings.ToLower(fields[1])
	}
	return quantity, unit
}

func parseStatus(text string) model.ListingStatus {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "reserved":
		return model.StatusReserved
	case "sold":
		return model.StatusSold
	default:
		return model.StatusAvailable
	}
}

func parseListedDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
