package shared

import (
	"time"

	"github.com/sirupsen/logrus"
)

// UnifiedConfiguration holds the infrastructure defaults shared by the whole backend.
// Request-level knobs (supplier URLs, staleness window, cache TTL) live in the config
// package; this covers the connection pools and timeouts beneath them.
type UnifiedConfiguration struct {
	Supplier SupplierConfig `json:"supplier"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Logging  LoggingConfig  `json:"logging"`
}

// SupplierConfig holds the HTTP policy for upstream supplier calls.
type SupplierConfig struct {
	HTTPRequestTimeout time.Duration `json:"http_timeout"`
	RequestRateLimit   time.Duration `json:"rate_limit"`
}

// DatabaseConfig holds database connection pool configuration.
type DatabaseConfig struct {
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout"`
}

// CacheConfig holds in-memory cache sizing.
type CacheConfig struct {
	MaxSize int `json:"max_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `json:"level"`
	ServiceName string `json:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready defaults.
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Supplier: SupplierConfig{
			HTTPRequestTimeout: 30 * time.Second,
			RequestRateLimit:   500 * time.Millisecond,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Cache: CacheConfig{
			MaxSize: 1000,
		},
		Logging: LoggingConfig{
			Level:       "info",
			ServiceName: "offer-backend",
		},
	}
}

// ConfigureLogging applies the logging configuration to the global logrus logger.
func (c *UnifiedConfiguration) ConfigureLogging(level string) {
	if level == "" {
		level = c.Logging.Level
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	logrus.WithFields(logrus.Fields{
		"service": c.Logging.ServiceName,
		"level":   parsed.String(),
	}).Info("Logging configured")
}
