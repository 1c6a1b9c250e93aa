package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		DataBackend:     "sqlite",
		SQLiteDBPath:    "./test.db",
		DataDir:         "data",
		CurrencySymbol:  "Rs",
		LogLevel:        "info",
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		SummaryCacheTTL: time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) { c.DataBackend = "memory"; c.SQLiteDBPath = "" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [memory sqlite]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "sqlite backend in-memory path",
			mutate:      func(c *Config) { c.SQLiteDBPath = ":memory:" },
			wantErr:     true,
			errorString: "SQLite database path must be a file",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitRPS = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be greater than 0",
		},
		{
			name:        "invalid rate limit burst",
			mutate:      func(c *Config) { c.RateLimitBurst = 0 },
			wantErr:     true,
			errorString: "invalid rate limit burst 0: must be at least 1",
		},
		{
			name:        "invalid summary cache TTL - too long",
			mutate:      func(c *Config) { c.SummaryCacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid summary cache TTL 25h0m0s: must be at most 24 hours",
		},
		{
			name: "errors are collected",
			mutate: func(c *Config) {
				c.Port = "abc"
				c.RateLimitBurst = 0
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number\n- invalid rate limit burst 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(dir, "budget.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory %s to be created: %v", dir, err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BUDGET_CONFIG", "PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "DATA_DIR",
		"CURRENCY_SYMBOL", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"SUMMARY_CACHE_TTL", "BUDGET_SEED_CATEGORIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/budget.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/budget.db", cfg.SQLiteDBPath)
		}
		if cfg.CurrencySymbol != "Rs" {
			t.Errorf("Load() CurrencySymbol = %v, want Rs", cfg.CurrencySymbol)
		}
		if cfg.SummaryCacheTTL != 5*time.Minute {
			t.Errorf("Load() SummaryCacheTTL = %v, want 5m", cfg.SummaryCacheTTL)
		}
		if cfg.SeedCategories != nil {
			t.Errorf("Load() SeedCategories = %v, want nil", cfg.SeedCategories)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("CURRENCY_SYMBOL", "$")
		t.Setenv("RATE_LIMIT_RPS", "2.5")
		t.Setenv("RATE_LIMIT_BURST", "3")
		t.Setenv("SUMMARY_CACHE_TTL", "30s")
		t.Setenv("BUDGET_SEED_CATEGORIES", " Food, Rent ,,Other")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "9090" || cfg.DataBackend != "memory" || cfg.CurrencySymbol != "$" {
			t.Errorf("Load() unexpected config %+v", cfg)
		}
		if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 3 {
			t.Errorf("Load() rate limit = %v/%v, want 2.5/3", cfg.RateLimitRPS, cfg.RateLimitBurst)
		}
		if cfg.SummaryCacheTTL != 30*time.Second {
			t.Errorf("Load() SummaryCacheTTL = %v, want 30s", cfg.SummaryCacheTTL)
		}
		want := []string{"Food", "Rent", "Other"}
		if strings.Join(cfg.SeedCategories, "|") != strings.Join(want, "|") {
			t.Errorf("Load() SeedCategories = %v, want %v", cfg.SeedCategories, want)
		}
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RATE_LIMIT_BURST", "many")
		t.Setenv("SUMMARY_CACHE_TTL", "soon")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.RateLimitBurst != 10 || cfg.SummaryCacheTTL != 5*time.Minute {
			t.Errorf("Load() did not fall back: %+v", cfg)
		}
	})

	t.Run("toml file below environment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "budget.toml")
		content := `port = "7000"
data_backend = "memory"
currency_symbol = "EUR"
summary_cache_ttl = "1m"
seed_categories = ["Groceries", "Other"]
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv("BUDGET_CONFIG", path)
		t.Setenv("CURRENCY_SYMBOL", "CHF")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "7000" || cfg.DataBackend != "memory" {
			t.Errorf("Load() file values not applied: %+v", cfg)
		}
		if cfg.CurrencySymbol != "CHF" {
			t.Errorf("Load() CurrencySymbol = %v, want env override CHF", cfg.CurrencySymbol)
		}
		if cfg.SummaryCacheTTL != time.Minute {
			t.Errorf("Load() SummaryCacheTTL = %v, want 1m", cfg.SummaryCacheTTL)
		}
		if len(cfg.SeedCategories) != 2 || cfg.SeedCategories[0] != "Groceries" {
			t.Errorf("Load() SeedCategories = %v", cfg.SeedCategories)
		}
	})

	t.Run("bad toml file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "budget.toml")
		if err := os.WriteFile(path, []byte("port = [unterminated"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv("BUDGET_CONFIG", path)

		if _, err := Load(); err == nil {
			t.Fatalf("Load() expected parse error")
		}
	})

	t.Run("missing toml file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BUDGET_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
		if _, err := Load(); err == nil {
			t.Fatalf("Load() expected read error")
		}
	})
}
