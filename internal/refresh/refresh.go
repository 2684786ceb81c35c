package refresh

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/texloop/fabricpulse/internal/cache"
	"github.com/texloop/fabricpulse/internal/insights"
	"github.com/texloop/fabricpulse/internal/model"
	"github.com/texloop/fabricpulse/internal/monitoring"
	"github.com/texloop/fabricpulse/internal/refdata"
)

// ListingSource provides the current marketplace snapshot
type ListingSource interface {
	Available() bool
	FetchListings(ctx context.Context) ([]model.Listing, error)
}

// Service recomputes market insights and trends from the feed and stores
// them in the shared cache, optionally archiving a snapshot per run
type Service struct {
	source      ListingSource
	cache       *cache.Cache
	aggregator  *insights.Aggregator
	snapshotDir string
	cacheTTL    time.Duration
}

// NewService creates a refresh service. snapshotDir may be empty to
// disable snapshot archiving.
func NewService(source ListingSource, c *cache.Cache, tables *refdata.Tables, snapshotDir string, cacheTTL time.Duration) *Service {
	return &Service{
		source:      source,
		cache:       c,
		aggregator:  insights.NewAggregator(tables),
		snapshotDir: snapshotDir,
		cacheTTL:    cacheTTL,
	}
}

// Refresh fetches the current snapshot and recomputes the cached
// insights and trends
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	log.Println("Starting market data refresh")

	if !s.source.Available() {
		return fmt.Errorf("listing source not available")
	}

	listings, err := s.source.FetchListings(ctx)
	if err != nil {
		return fmt.Errorf("fetching listings: %w", err)
	}

	marketInsights := s.aggregator.MarketInsights(listings)
	trends := s.aggregator.MaterialTrends(listings)

	if err := s.cache.Put(cache.InsightsKey(), marketInsights, s.cacheTTL); err != nil {
		return fmt.Errorf("caching insights: %w", err)
	}
	if err := s.cache.Put(cache.TrendsKey(), trends, s.cacheTTL); err != nil {
		return fmt.Errorf("caching trends: %w", err)
	}

	if s.snapshotDir != "" {
		if err := s.archiveSnapshot(listings); err != nil {
			log.Printf("Warning: snapshot archiving failed: %v", err)
		}
	}

	log.Printf("Market data refresh completed in %v (%d listings)", time.Since(start), len(listings))
	return nil
}

// CachedInsights returns the last computed market insights, if any
func (s *Service) CachedInsights() (insights.MarketInsights, bool) {
	var ins insights.MarketInsights
	found, err := s.cache.Get(cache.InsightsKey(), &ins)
	return ins, found && err == nil
}

// CachedTrends returns the last computed material trends, if any
func (s *Service) CachedTrends() ([]insights.MaterialTrend, bool) {
	var trends []insights.MaterialTrend
	found, err := s.cache.Get(cache.TrendsKey(), &trends)
	return trends, found && err == nil
}

func (s *Service) archiveSnapshot(listings []model.Listing) error {
	if err := os.MkdirAll(s.snapshotDir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	snapshot := monitoring.CreateSnapshot("feed", listings)
	path := filepath.Join(s.snapshotDir, fmt.Sprintf("snapshot-%s.json", snapshot.Timestamp.Format("20060102-150405")))
	return monitoring.SaveSnapshot(path, snapshot)
}

// Scheduler runs the refresh service on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	timeout time.Duration
}

// NewScheduler creates a scheduler around the given service
func NewScheduler(service *Service) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		timeout: 5 * time.Minute,
	}
}

// Start registers the refresh job with the given cron spec (standard
// five-field specs and @every durations) and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.service.Refresh(ctx); err != nil {
			log.Printf("Scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
