package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables.
type Config struct {
	FeedBaseURL     string
	FeedRatePerSec  float64
	FeedMaxRetries  int
	RequestTimeout  time.Duration
	CacheEnabled    bool
	CachePath       string
	CacheTTLMinutes int
	SnapshotDir     string
	RefreshSchedule string
	ReportDir       string
}

// Load reads the .env file and returns a populated Config struct,
// falling back to system environment variables and defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		FeedBaseURL:     getEnv("FEED_BASE_URL", ""),
		FeedRatePerSec:  getEnvFloat("FEED_RATE_PER_SEC", 2),
		FeedMaxRetries:  getEnvInt("FEED_MAX_RETRIES", 3),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		CacheEnabled:    getEnvBool("CACHE_ENABLED", true),
		CachePath:       getEnv("CACHE_PATH", "./data/cache.json"),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 15),
		SnapshotDir:     getEnv("SNAPSHOT_DIR", "./data/snapshots"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 15m"),
		ReportDir:       getEnv("REPORT_DIR", "./output"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
