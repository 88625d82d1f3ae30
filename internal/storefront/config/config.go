package config

import (
	"os"
	"strconv"
	"time"
)

// ServiceConfig holds configuration for a collaborator service
type ServiceConfig struct {
	Name        string
	BaseURL     string
	Timeout     time.Duration
	HealthCheck string
}

// Config holds the storefront BFF configuration
type Config struct {
	Port        string
	Environment string
	JWTSecret   string

	Catalog   ServiceConfig
	Reviews   ServiceConfig
	Favorites ServiceConfig

	// AuxFetchTimeout bounds the reviews and favorite branches of a product view
	AuxFetchTimeout time.Duration
	// ReviewSampleSize is how many reviews a product view carries
	ReviewSampleSize int
	CatalogCacheTTL  time.Duration

	RedisAddr     string
	RedisPassword string

	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Port:        getEnv("HTTP_PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		Catalog: ServiceConfig{
			Name:        "catalog",
			BaseURL:     getEnv("CATALOG_URL", "http://localhost:8081"),
			Timeout:     getDuration("CATALOG_TIMEOUT", 3*time.Second),
			HealthCheck: "/health",
		},
		Reviews: ServiceConfig{
			Name:        "reviews",
			BaseURL:     getEnv("REVIEWS_URL", "http://localhost:8084"),
			Timeout:     getDuration("REVIEWS_TIMEOUT", 3*time.Second),
			HealthCheck: "/health",
		},
		Favorites: ServiceConfig{
			Name:        "favorites",
			BaseURL:     getEnv("FAVORITES_URL", "http://localhost:8085"),
			Timeout:     getDuration("FAVORITES_TIMEOUT", 3*time.Second),
			HealthCheck: "/health",
		},
		AuxFetchTimeout:    getDuration("AUX_FETCH_TIMEOUT", 800*time.Millisecond),
		ReviewSampleSize:   getInt("REVIEW_SAMPLE_SIZE", 3),
		CatalogCacheTTL:    getDuration("CATALOG_CACHE_TTL", time.Minute),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		BreakerMaxFailures: getInt("BREAKER_MAX_FAILURES", 5),
		BreakerOpenTimeout: getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
	}
}

// Services lists the collaborators probed by readiness checks
func (c *Config) Services() []ServiceConfig {
	return []ServiceConfig{c.Catalog, c.Reviews, c.Favorites}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
