package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Service     ServiceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	ListingsAPI ListingsAPIConfig
	Geolocation GeolocationConfig
	Engine      EngineConfig
}

// ServiceConfig holds service identity configuration
type ServiceConfig struct {
	Name        string
	Environment string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ListingsAPIConfig holds the hosted directory store configuration
type ListingsAPIConfig struct {
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider string
	BaseURL  string
}

// EngineConfig holds the search engine tuning knobs. The caps and thresholds
// are operational tuning, not structural invariants, so they are configurable
// rather than hard-coded.
type EngineConfig struct {
	DefaultRadiusMiles     float64
	RecenterThresholdMiles float64
	MapRenderCap           int
	CountyOnlyRenderCap    int
	ListPageSize           int
	BoundsFitPaddingMiles  float64
	BoundsFitMaxZoom       float64
	GeolocationTimeout     time.Duration
	PositionCacheMaxAge    time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "geodirectory"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "geodirectory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		ListingsAPI: ListingsAPIConfig{
			BaseURL:           getEnv("LISTINGS_API_URL", "http://localhost:8090"),
			PageSize:          getEnvAsInt("LISTINGS_API_PAGE_SIZE", 1000),
			RequestsPerSecond: getEnvAsFloat("LISTINGS_API_RPS", 5),
		},
		Geolocation: GeolocationConfig{
			Provider: getEnv("GEOLOCATION_PROVIDER", "mock"),
			BaseURL:  getEnv("GEOLOCATION_API_URL", "http://ip-api.com/json"),
		},
		Engine: EngineConfig{
			DefaultRadiusMiles:     getEnvAsFloat("ENGINE_DEFAULT_RADIUS_MILES", 25),
			RecenterThresholdMiles: getEnvAsFloat("ENGINE_RECENTER_THRESHOLD_MILES", 5),
			MapRenderCap:           getEnvAsInt("ENGINE_MAP_RENDER_CAP", 500),
			CountyOnlyRenderCap:    getEnvAsInt("ENGINE_COUNTY_ONLY_RENDER_CAP", 1500),
			ListPageSize:           getEnvAsInt("ENGINE_LIST_PAGE_SIZE", 50),
			BoundsFitPaddingMiles:  getEnvAsFloat("ENGINE_BOUNDS_FIT_PADDING_MILES", 5),
			BoundsFitMaxZoom:       getEnvAsFloat("ENGINE_BOUNDS_FIT_MAX_ZOOM", 12),
			GeolocationTimeout:     getEnvAsDuration("ENGINE_GEOLOCATION_TIMEOUT", 10*time.Second),
			PositionCacheMaxAge:    getEnvAsDuration("ENGINE_POSITION_CACHE_MAX_AGE", 5*time.Minute),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
