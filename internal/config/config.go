package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Dataset source kinds.
const (
	SourceFile     = "file"
	SourceURL      = "url"
	SourcePostgres = "postgres"
)

// MaxPageSize bounds PAGE_SIZE and the pageSize query parameter.
const MaxPageSize = 500

var (
	tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	logLevels        = map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Dashboard DashboardConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatasetConfig describes where the registration data comes from and when
// it is refreshed.
type DatasetConfig struct {
	Source         string
	Path           string
	URL            string
	Table          string
	FetchTimeout   time.Duration
	ReloadSchedule string
	DefaultPreset  string
}

// DatabaseConfig holds PostgreSQL connection configuration. It is only
// required when the dataset source is postgres.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// DashboardConfig holds presentation limits.
type DashboardConfig struct {
	PageSize      int
	MaxChartItems int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DATASET_SOURCE", SourceFile)
	v.SetDefault("DATASET_PATH", "data/Electric_Vehicle_Population_Data.csv")
	v.SetDefault("DATASET_FETCH_TIMEOUT", "2m")
	v.SetDefault("RELOAD_SCHEDULE", "")
	v.SetDefault("DEFAULT_PRESET", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "evpulse")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_TABLE", "vehicles")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("MAX_CHART_ITEMS", 10)

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Dataset: DatasetConfig{
			Source:         strings.ToLower(v.GetString("DATASET_SOURCE")),
			Path:           v.GetString("DATASET_PATH"),
			URL:            v.GetString("DATASET_URL"),
			Table:          v.GetString("DB_TABLE"),
			FetchTimeout:   v.GetDuration("DATASET_FETCH_TIMEOUT"),
			ReloadSchedule: strings.TrimSpace(v.GetString("RELOAD_SCHEDULE")),
			DefaultPreset:  v.GetString("DEFAULT_PRESET"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Dashboard: DashboardConfig{
			PageSize:      v.GetInt("PAGE_SIZE"),
			MaxChartItems: v.GetInt("MAX_CHART_ITEMS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if !logLevels[c.Server.LogLevel] {
		return fmt.Errorf("LOG_LEVEL %q is not one of trace, debug, info, warn, error", c.Server.LogLevel)
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	if c.Dashboard.PageSize < 1 || c.Dashboard.PageSize > MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d", MaxPageSize)
	}
	if c.Dashboard.MaxChartItems < 1 {
		return fmt.Errorf("MAX_CHART_ITEMS must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (c *Config) validateDataset() error {
	switch c.Dataset.Source {
	case SourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("DATASET_PATH is required when DATASET_SOURCE is file")
		}
	case SourceURL:
		u, err := url.Parse(c.Dataset.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("DATASET_URL must be an http(s) URL when DATASET_SOURCE is url")
		}
	case SourcePostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
		if !tableNamePattern.MatchString(c.Dataset.Table) {
			return fmt.Errorf("DB_TABLE %q is not a valid table name", c.Dataset.Table)
		}
	default:
		return fmt.Errorf("DATASET_SOURCE must be one of file, url, postgres")
	}

	if c.Dataset.FetchTimeout < 0 {
		return fmt.Errorf("DATASET_FETCH_TIMEOUT must be non-negative")
	}
	if c.Dataset.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.Dataset.ReloadSchedule); err != nil {
			return fmt.Errorf("RELOAD_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}

// Validate checks the connection settings.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// UsesDatabase reports whether the dataset is read from PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.Dataset.Source == SourcePostgres
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
