package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATASET_SOURCE", "DATASET_PATH", "DATASET_URL", "DATASET_FETCH_TIMEOUT",
	"RELOAD_SCHEDULE", "DEFAULT_PRESET",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_POOL_MIN", "DB_POOL_MAX", "DB_TABLE",
	"CORS_ORIGINS", "PAGE_SIZE", "MAX_CHART_ITEMS",
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Dataset: DatasetConfig{
			Source:       SourceFile,
			Path:         "data.csv",
			Table:        "vehicles",
			FetchTimeout: time.Minute,
		},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "evpulse",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS:      CORSConfig{Origins: []string{"http://localhost:3000"}},
		Dashboard: DashboardConfig{PageSize: 20, MaxChartItems: 10},
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Dataset.Source != SourceFile {
		t.Errorf("Expected file source, got %s", cfg.Dataset.Source)
	}
	if cfg.Dataset.FetchTimeout != 2*time.Minute {
		t.Errorf("Expected fetch timeout 2m, got %s", cfg.Dataset.FetchTimeout)
	}
	if cfg.Dataset.ReloadSchedule != "" {
		t.Errorf("Expected reload schedule to be disabled, got %q", cfg.Dataset.ReloadSchedule)
	}
	if cfg.Dashboard.PageSize != 20 {
		t.Errorf("Expected page size 20, got %d", cfg.Dashboard.PageSize)
	}
	if cfg.Dashboard.MaxChartItems != 10 {
		t.Errorf("Expected max chart items 10, got %d", cfg.Dashboard.MaxChartItems)
	}
	if cfg.UsesDatabase() {
		t.Error("Expected the default source not to use the database")
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_FileSourceNeedsNoPassword(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATASET_PATH", "/srv/vehicles.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Password != "" {
		t.Errorf("Expected empty password, got %q", cfg.Database.Password)
	}
	if cfg.Dataset.Path != "/srv/vehicles.csv" {
		t.Errorf("Expected dataset path from env, got %s", cfg.Dataset.Path)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("DATASET_SOURCE", "postgres")
	t.Setenv("DATASET_FETCH_TIMEOUT", "30s")
	t.Setenv("RELOAD_SCHEDULE", "0 3 * * *")
	t.Setenv("DEFAULT_PRESET", "presets/default.yaml")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("DB_TABLE", "public.registrations")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("MAX_CHART_ITEMS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.Server.LogLevel)
	}
	if !cfg.UsesDatabase() {
		t.Error("Expected postgres source")
	}
	if cfg.Dataset.Table != "public.registrations" {
		t.Errorf("Expected table public.registrations, got %s", cfg.Dataset.Table)
	}
	if cfg.Dataset.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %s", cfg.Dataset.FetchTimeout)
	}
	if cfg.Dataset.ReloadSchedule != "0 3 * * *" {
		t.Errorf("Expected reload schedule from env, got %q", cfg.Dataset.ReloadSchedule)
	}
	if cfg.Dataset.DefaultPreset != "presets/default.yaml" {
		t.Errorf("Expected default preset from env, got %q", cfg.Dataset.DefaultPreset)
	}
	if cfg.Database.PoolMin != 5 || cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool 5-20, got %d-%d", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if cfg.Dashboard.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Dashboard.PageSize)
	}
	if cfg.Dashboard.MaxChartItems != 8 {
		t.Errorf("Expected max chart items 8, got %d", cfg.Dashboard.MaxChartItems)
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_PostgresWithoutPassword(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATASET_SOURCE", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Expected error when DB_PASSWORD is missing for a postgres source")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid file source", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, true},
		{"unknown source", func(c *Config) { c.Dataset.Source = "s3" }, true},
		{"file source without path", func(c *Config) { c.Dataset.Path = "" }, true},
		{"url source", func(c *Config) {
			c.Dataset.Source = SourceURL
			c.Dataset.URL = "https://data.example.gov/ev.csv"
		}, false},
		{"url source with bad scheme", func(c *Config) {
			c.Dataset.Source = SourceURL
			c.Dataset.URL = "ftp://data.example.gov/ev.csv"
		}, true},
		{"postgres source", func(c *Config) { c.Dataset.Source = SourcePostgres }, false},
		{"postgres source with bad table", func(c *Config) {
			c.Dataset.Source = SourcePostgres
			c.Dataset.Table = "vehicles; drop table x"
		}, true},
		{"postgres source with pool min over max", func(c *Config) {
			c.Dataset.Source = SourcePostgres
			c.Database.PoolMin = 15
		}, true},
		{"file source ignores database settings", func(c *Config) { c.Database = DatabaseConfig{} }, false},
		{"negative fetch timeout", func(c *Config) { c.Dataset.FetchTimeout = -time.Second }, true},
		{"valid reload schedule", func(c *Config) { c.Dataset.ReloadSchedule = "@every 6h" }, false},
		{"invalid reload schedule", func(c *Config) { c.Dataset.ReloadSchedule = "every day" }, true},
		{"zero page size", func(c *Config) { c.Dashboard.PageSize = 0 }, true},
		{"page size over max", func(c *Config) { c.Dashboard.PageSize = MaxPageSize + 1 }, true},
		{"zero chart items", func(c *Config) { c.Dashboard.MaxChartItems = 0 }, true},
		{"missing CORS origins", func(c *Config) { c.CORS.Origins = []string{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseValidate_PoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{"negative pool min", -1, 10, true},
		{"zero pool max", 0, 0, true},
		{"pool min greater than max", 15, 10, true},
		{"valid pool sizes", 2, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := validConfig().Database
			db.PoolMin = tt.poolMin
			db.PoolMax = tt.poolMax

			err := db.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{"single origin", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"multiple origins", "http://localhost:3000,http://localhost:5173", []string{"http://localhost:3000", "http://localhost:5173"}},
		{"origins with spaces", " http://localhost:3000 , http://localhost:5173 ", []string{"http://localhost:3000", "http://localhost:5173"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}
