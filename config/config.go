package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults for the freshness contract. Both are exposed as configuration because they
// govern the whole tiering behavior: persisted data older than the staleness window is
// re-aggregated, and cached data lives for the cache TTL.
const (
	DefaultStalenessWindow = 30 * time.Minute
	DefaultCacheTTL        = 30 * time.Minute
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	BestRentalsURL     string
	SouthRentalsURL    string
	NorthernRentalsURL string

	StalenessWindowMinutes string
	CacheTTLMinutes        string
	LogLevel               string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		BestRentalsURL:         getEnv("BEST_RENTALS_URL", ""),
		SouthRentalsURL:        getEnv("SOUTH_RENTALS_URL", ""),
		NorthernRentalsURL:     getEnv("NORTHERN_RENTALS_URL", ""),
		StalenessWindowMinutes: getEnv("STALENESS_WINDOW_MINUTES", "30"),
		CacheTTLMinutes:        getEnv("CACHE_TTL_MINUTES", "30"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

// GetStalenessWindow returns how long persisted offers stay servable without
// re-aggregating.
func (c *Config) GetStalenessWindow() time.Duration {
	return minutesOrDefault(c.StalenessWindowMinutes, "STALENESS_WINDOW_MINUTES", DefaultStalenessWindow)
}

// GetCacheTTL returns how long the aggregated offer set stays in the fast cache.
func (c *Config) GetCacheTTL() time.Duration {
	return minutesOrDefault(c.CacheTTLMinutes, "CACHE_TTL_MINUTES", DefaultCacheTTL)
}

func minutesOrDefault(value, name string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}

	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		logrus.Warnf("Invalid %s value: %s, using default %v", name, value, fallback)
		return fallback
	}

	return time.Duration(minutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
