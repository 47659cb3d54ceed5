package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the insights server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Insights InsightsConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// InsightsConfig tunes the pipeline without touching code. The threshold
// fields override the scoring defaults only when set (negative means
// unset); the canonical values live in the scoring package.
type InsightsConfig struct {
	CacheTTL        time.Duration
	RateLimitPerMin int

	AttritionThreshold float64
	SuccessThreshold   float64
	MatchThreshold     float64
	GapThreshold       int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("INSIGHTS_PORT", 8080),
			Env:  envString("INSIGHTS_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Insights: InsightsConfig{
			CacheTTL:        envDuration("INSIGHTS_CACHE_TTL", 60*time.Second),
			RateLimitPerMin: envInt("INSIGHTS_RATE_LIMIT_PER_MIN", 60),

			AttritionThreshold: envFloat("INSIGHTS_ATTRITION_THRESHOLD", -1),
			SuccessThreshold:   envFloat("INSIGHTS_SUCCESS_THRESHOLD", -1),
			MatchThreshold:     envFloat("INSIGHTS_MATCH_THRESHOLD", -1),
			GapThreshold:       envInt("INSIGHTS_GAP_THRESHOLD", -1),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("INSIGHTS_PORT must be a valid TCP port, got %d", c.Server.Port)
	}

	for name, v := range map[string]float64{
		"INSIGHTS_ATTRITION_THRESHOLD": c.Insights.AttritionThreshold,
		"INSIGHTS_SUCCESS_THRESHOLD":   c.Insights.SuccessThreshold,
		"INSIGHTS_MATCH_THRESHOLD":     c.Insights.MatchThreshold,
	} {
		if v >= 0 && v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
