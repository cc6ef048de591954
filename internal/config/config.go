// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all knobs for one scrape run.
type Config struct {
	Sitemap   SitemapConfig   `mapstructure:"sitemap"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Translate TranslateConfig `mapstructure:"translate"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SitemapConfig names the sitemap document and the URL exclusion list.
type SitemapConfig struct {
	URL        string   `mapstructure:"url"`
	Exclusions []string `mapstructure:"exclusions"`
}

// HTTPConfig configures outgoing requests.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	DelayMs        int    `mapstructure:"delay_ms"`
}

// ExtractConfig selects the content blocks text is pulled from.
type ExtractConfig struct {
	BlockSelector string `mapstructure:"block_selector"`
}

// TranslateConfig holds language codes and the Gemini model name.
type TranslateConfig struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
	Model  string `mapstructure:"model"`
}

// StoreConfig selects and configures the profile table backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	CSVPath string `mapstructure:"csv_path"`
	DSN     string `mapstructure:"dsn"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WINEMAKER")
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
	v.SetDefault("sitemap.url", "https://www.terrovin.be/sitemap.xml")
	v.SetDefault("sitemap.exclusions", []string{
		"https://www.terrovin.be/bestellen",
		"https://www.terrovin.be/prijslijst",
		"https://www.terrovin.be/contact",
		"https://www.terrovin.be/events",
		"https://www.terrovin.be/intro",
	})
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:106.0) Gecko/20100101 Firefox/106.0")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.delay_ms", 0)
	v.SetDefault("extract.block_selector", "div.sqs-block-content")
	v.SetDefault("translate.source", "nl")
	v.SetDefault("translate.target", "en")
	v.SetDefault("translate.model", "gemini-2.5-flash")
	v.SetDefault("store.backend", "csv")
	v.SetDefault("store.csv_path", "winemaker_profiles.csv")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Sitemap.URL == "" {
		return fmt.Errorf("sitemap.url must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.DelayMs < 0 {
		return fmt.Errorf("http.delay_ms must be >= 0")
	}
	if c.Extract.BlockSelector == "" {
		return fmt.Errorf("extract.block_selector must be set")
	}
	if c.Translate.Source == "" || c.Translate.Target == "" {
		return fmt.Errorf("translate.source and translate.target must be set")
	}
	switch c.Store.Backend {
	case "csv":
		if c.Store.CSVPath == "" {
			return fmt.Errorf("store.csv_path must be set for the csv backend")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("store.backend must be csv or postgres, got %q", c.Store.Backend)
	}
	return nil
}

// Timeout converts the HTTP timeout config into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Delay converts the inter-request delay config into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.HTTP.DelayMs) * time.Millisecond
}
