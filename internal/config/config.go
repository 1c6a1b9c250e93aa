package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string
	DataDir      string

	// Presentation
	CurrencySymbol string

	// Logging
	LogLevel string

	// Rate limiting for write endpoints
	RateLimitRPS   float64
	RateLimitBurst int

	// HTTP summary cache
	SummaryCacheTTL time.Duration

	// Category seed used when nothing is stored yet
	SeedCategories []string
}

// fileConfig mirrors Config for the optional TOML file. Durations are
// strings so "5m" works as in the environment.
type fileConfig struct {
	Port            string   `toml:"port"`
	DataBackend     string   `toml:"data_backend"`
	SQLiteDBPath    string   `toml:"sqlite_db_path"`
	DataDir         string   `toml:"data_dir"`
	CurrencySymbol  string   `toml:"currency_symbol"`
	LogLevel        string   `toml:"log_level"`
	RateLimitRPS    float64  `toml:"rate_limit_rps"`
	RateLimitBurst  int      `toml:"rate_limit_burst"`
	SummaryCacheTTL string   `toml:"summary_cache_ttl"`
	SeedCategories  []string `toml:"seed_categories"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Port:            "8081",
		DataBackend:     "sqlite",
		SQLiteDBPath:    "./data/budget.db",
		DataDir:         "data",
		CurrencySymbol:  "Rs",
		LogLevel:        "info",
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		SummaryCacheTTL: 5 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// BUDGET_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("BUDGET_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DataBackend = getEnv("DATA_BACKEND", cfg.DataBackend)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.CurrencySymbol = getEnv("CURRENCY_SYMBOL", cfg.CurrencySymbol)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.SummaryCacheTTL = getEnvDuration("SUMMARY_CACHE_TTL", cfg.SummaryCacheTTL)
	if v := os.Getenv("BUDGET_SEED_CATEGORIES"); v != "" {
		cfg.SeedCategories = splitList(v)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.DataBackend, fc.DataBackend)
	setString(&c.SQLiteDBPath, fc.SQLiteDBPath)
	setString(&c.DataDir, fc.DataDir)
	setString(&c.CurrencySymbol, fc.CurrencySymbol)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.RateLimitRPS != 0 {
		c.RateLimitRPS = fc.RateLimitRPS
	}
	if fc.RateLimitBurst != 0 {
		c.RateLimitBurst = fc.RateLimitBurst
	}
	if fc.SummaryCacheTTL != "" {
		d, err := time.ParseDuration(fc.SummaryCacheTTL)
		if err != nil {
			return fmt.Errorf("parse config file %s: summary_cache_ttl: %w", path, err)
		}
		c.SummaryCacheTTL = d
	}
	if len(fc.SeedCategories) > 0 {
		c.SeedCategories = fc.SeedCategories
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if c.SQLiteDBPath == ":memory:" {
			errors = append(errors, "SQLite database path must be a file; use DATA_BACKEND=memory for an in-memory store")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be greater than 0", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
	}

	if c.SummaryCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must not be negative", c.SummaryCacheTTL))
	} else if c.SummaryCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must be at most 24 hours", c.SummaryCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
