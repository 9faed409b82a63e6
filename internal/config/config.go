// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all CLI configuration knobs loaded via Viper.
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SiteConfig identifies the target catalogue.
type SiteConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// ScrapeConfig governs pagination behavior.
type ScrapeConfig struct {
	Pages        int `mapstructure:"pages"`
	DelaySeconds int `mapstructure:"delay_seconds"`
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// OutputConfig sets the CSV target and the console preview size.
type OutputConfig struct {
	Path        string `mapstructure:"path"`
	PreviewRows int    `mapstructure:"preview_rows"`
}

// DatabaseConfig enables the optional Postgres mirror when DSN is set.
type DatabaseConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// ArchiveConfig enables raw page archiving when Dir is set.
type ArchiveConfig struct {
	Dir string `mapstructure:"dir"`
}

// MetricsConfig exposes /metrics during the run when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config on top of v from defaults, an optional config file,
// environment variables with the BOOKSCRAPE prefix, and any flag bindings
// already registered on v.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetEnvPrefix("BOOKSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://books.toscrape.com/")
	v.SetDefault("site.user_agent", "bookscrape/1.0")
	v.SetDefault("scrape.pages", 2)
	v.SetDefault("scrape.delay_seconds", 1)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("output.path", "data/products.csv")
	v.SetDefault("output.preview_rows", 5)
	v.SetDefault("database.table", "products")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scrape.Pages < 1 {
		return fmt.Errorf("scrape.pages must be >= 1")
	}
	if c.Scrape.DelaySeconds < 0 {
		return fmt.Errorf("scrape.delay_seconds must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Output.PreviewRows < 0 {
		return fmt.Errorf("output.preview_rows must be >= 0")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL")
	}
	return nil
}

// Timeout converts the HTTP timeout setting into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Delay converts the inter-page delay setting into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Scrape.DelaySeconds) * time.Second
}
