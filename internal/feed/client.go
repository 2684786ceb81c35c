package feed

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/texloop/fabricpulse/internal/analysis"
	"github.com/texloop/fabricpulse/internal/cache"
	"github.com/texloop/fabricpulse/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds feed client settings
type Config struct {
	BaseURL         string
	RequestTimeout  time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	RatePerSec      float64
	UserAgent       string
	CacheEnabled    bool
	CachePath       string
	CacheTTLMinutes int
}

// DefaultConfig returns the production feed settings. BaseURL must still
// be provided by the caller.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:  30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      time.Second,
		RatePerSec:      2,
		UserAgent:       defaultUserAgent,
		CacheEnabled:    true,
		CachePath:       "/tmp/fabricpulse_feed.json",
		CacheTTLMinutes: 15,
	}
}

// Client fetches listing snapshots from the marketplace feed endpoint
type Client struct {
	config   Config
	client   *http.Client
	cache    *cache.Cache
	limiter  *rate.Limiter
	sanitize *analysis.SanitizeConfig
}

// NewClient creates a feed client
func NewClient(config Config) *Client {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.RatePerSec == 0 {
		config.RatePerSec = 2
	}

	var c *cache.Cache
	if config.CacheEnabled {
		var err error
		c, err = cache.New(config.CachePath)
		if err != nil {
			// Continue without cache
			c = nil
		}
	}

	return &Client{
		config:   config,
		client:   &http.Client{Timeout: config.RequestTimeout},
		cache:    c,
		limiter:  rate.NewLimiter(rate.Limit(config.RatePerSec), 1),
		sanitize: analysis.DefaultSanitizeConfig(),
	}
}

func (c *Client) Available() bool {
	return c.config.BaseURL != ""
}

// FetchListings retrieves the current listing snapshot, sanitized at the
// ingestion boundary. Results are cached when a cache is configured.
func (c *Client) FetchListings(ctx context.Context) ([]model.Listing, error) {
	if !c.Available() {
		return nil, fmt.Errorf("feed not configured")
	}

	key := cache.ListingsKey("feed")
	if c.cache != nil {
		var listings []model.Listing
		if found, _ := c.cache.Get(key, &listings); found {
			return listings, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	listings, err := c.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	listings = analysis.SanitizeListings(listings, c.sanitize)

	if c.cache != nil {
		_ = c.cache.Put(key, listings, time.Duration(c.config.CacheTTLMinutes)*time.Minute)
	}

	return listings, nil
}

func (c *Client) fetchWithRetry(ctx context.Context) ([]model.Listing, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt*attempt) * c.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		listings, err := c.fetch(ctx)
		if err == nil {
			return listings, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) fetch(ctx context.Context) ([]model.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/listings", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("creating reader: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var listings []model.Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("parsing listings: %w", err)
	}

	return listings, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
}

// decodeBody wraps the response body in the decompressor named by the
// Content-Encoding header. Manual Accept-Encoding disables the transport's
// automatic gzip handling, so both paths are handled here.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
