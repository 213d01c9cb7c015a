// Package config loads application configuration and wires the logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlas-travel/places-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig                 `yaml:"store" mapstructure:"store"`
	Source     SourceConfig                `yaml:"source" mapstructure:"source"`
	Foursquare FoursquareConfig            `yaml:"foursquare" mapstructure:"foursquare"`
	Here       HereConfig                  `yaml:"here" mapstructure:"here"`
	Reviews    ReviewsConfig               `yaml:"reviews" mapstructure:"reviews"`
	Anthropic  AnthropicConfig             `yaml:"anthropic" mapstructure:"anthropic"`
	Quota      map[string]model.QuotaLimit `yaml:"quota" mapstructure:"quota"`
	Run        RunConfig                   `yaml:"run" mapstructure:"run"`
	Geo        GeoConfig                   `yaml:"geo" mapstructure:"geo"`
	Priors     PriorsConfig                `yaml:"priors" mapstructure:"priors"`
	Export     ExportConfig                `yaml:"export" mapstructure:"export"`
	Server     ServerConfig                `yaml:"server" mapstructure:"server"`
	Log        LogConfig                   `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SourceConfig selects the third-party place-data source.
type SourceConfig struct {
	Kind string `yaml:"kind" mapstructure:"kind"`
}

// FoursquareConfig holds Foursquare API credentials.
type FoursquareConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Version      string `yaml:"version" mapstructure:"version"`
}

// HereConfig holds HERE API credentials.
type HereConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ReviewsConfig configures the review-site fetcher.
type ReviewsConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	Limit          int     `yaml:"limit" mapstructure:"limit"`
	MapLimit       int     `yaml:"map_limit" mapstructure:"map_limit"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// AnthropicConfig configures the entity-extractor backend.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// RunConfig holds the trip profile driving a reconciliation run.
type RunConfig struct {
	Place    string `yaml:"place" mapstructure:"place"`
	Country  string `yaml:"country" mapstructure:"country"`
	Keywords string `yaml:"keywords" mapstructure:"keywords"` // path or http(s)/ftp URL
}

// BoundsConfig is a lon/lat bounding box for one country.
type BoundsConfig struct {
	MinLon float64 `yaml:"min_lon" mapstructure:"min_lon"`
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLon float64 `yaml:"max_lon" mapstructure:"max_lon"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
}

// GeoConfig configures country containment checks.
type GeoConfig struct {
	Bounds    map[string]BoundsConfig `yaml:"bounds" mapstructure:"bounds"`
	Shapefile string                  `yaml:"shapefile" mapstructure:"shapefile"`
}

// PriorsConfig configures the duration-prior registry.
type PriorsConfig struct {
	Format    string `yaml:"format" mapstructure:"format"` // yaml, xlsx, notion
	Path      string `yaml:"path" mapstructure:"path"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	NotionKey string `yaml:"notion_key" mapstructure:"notion_key"`
	NotionDB  string `yaml:"notion_db" mapstructure:"notion_db"`
}

// ExportConfig configures CSV export.
type ExportConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PLACES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "places.db")
	v.SetDefault("source.kind", "foursquare")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("foursquare.base_url", "https://api.foursquare.com/v2")
	v.SetDefault("foursquare.version", "20200819")
	v.SetDefault("here.base_url", "https://discover.search.hereapi.com/v1")
	v.SetDefault("reviews.limit", 500)
	v.SetDefault("reviews.map_limit", 200)
	v.SetDefault("reviews.requests_per_sec", 1.0)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("run.place", "singapore")
	v.SetDefault("run.country", "singapore")
	v.SetDefault("export.dir", "output_data")
	v.SetDefault("export.batch_size", 10)
	v.SetDefault("priors.format", "yaml")
	v.SetDefault("priors.sheet", "durations")
	// Published daily budgets, shaved a few percent for leeway.
	v.SetDefault("quota.foursquare.daily_limit", 99000)
	v.SetDefault("quota.foursquare.refresh_days", 1)
	v.SetDefault("quota.foursquare_detail.daily_limit", 495)
	v.SetDefault("quota.foursquare_detail.refresh_days", 1)
	v.SetDefault("quota.here.daily_limit", 245000)
	v.SetDefault("quota.here.refresh_days", 30)
	v.SetDefault("geo.bounds.singapore.min_lon", 103.58)
	v.SetDefault("geo.bounds.singapore.min_lat", 1.18)
	v.SetDefault("geo.bounds.singapore.max_lon", 104.15)
	v.SetDefault("geo.bounds.singapore.max_lat", 1.48)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
