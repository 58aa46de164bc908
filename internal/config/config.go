package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

const envPrefix = "NEWSDIGEST"

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Summarizer SummarizerConfig `yaml:"summarizer" mapstructure:"summarizer"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Publishers PublishersConfig `yaml:"publishers" mapstructure:"publishers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// HTTPConfig configures article fetching.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// ScrapeConfig configures batching and the per-URL bound.
type ScrapeConfig struct {
	BatchSize  int           `yaml:"batch_size" mapstructure:"batch_size"`
	URLTimeout time.Duration `yaml:"url_timeout" mapstructure:"url_timeout"`
}

// SummarizerConfig holds Anthropic settings.
type SummarizerConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens" mapstructure:"max_tokens"`
	Language    string        `yaml:"language" mapstructure:"language"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig points at the optional summary cache file. Empty disables it.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PublishersConfig points at the publishers YAML/JSON file. Empty disables publishing.
type PublishersConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from an optional file, a .env file and the environment.
// With an empty path, "newsdigest.yaml" in the working directory is used if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("newsdigest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if cfg.Summarizer.APIKey == "" {
		cfg.Summarizer.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("http.timeout", "15s")
	v.SetDefault("http.user_agent", "")

	v.SetDefault("scrape.batch_size", 5)
	v.SetDefault("scrape.url_timeout", "30s")

	v.SetDefault("summarizer.enabled", false)
	v.SetDefault("summarizer.api_key", "")
	v.SetDefault("summarizer.base_url", "")
	v.SetDefault("summarizer.model", "claude-haiku-4-5-20251001")
	v.SetDefault("summarizer.temperature", 0.2)
	v.SetDefault("summarizer.max_tokens", 512)
	v.SetDefault("summarizer.language", "Korean")
	v.SetDefault("summarizer.timeout", "20s")

	v.SetDefault("cache.path", "")
	v.SetDefault("publishers.file", "")
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return eris.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.Timeout <= 0 {
		return eris.New("config: http.timeout must be positive")
	}
	if c.Scrape.BatchSize <= 0 {
		return eris.Errorf("config: scrape.batch_size must be positive, got %d", c.Scrape.BatchSize)
	}
	if c.Scrape.URLTimeout <= 0 {
		return eris.New("config: scrape.url_timeout must be positive")
	}
	if c.Summarizer.Temperature < 0 || c.Summarizer.Temperature > 1 {
		return eris.Errorf("config: summarizer.temperature must be within [0, 1], got %g", c.Summarizer.Temperature)
	}
	if c.Summarizer.Enabled && strings.TrimSpace(c.Summarizer.APIKey) == "" {
		return eris.New("config: summarizer.enabled requires summarizer.api_key (or ANTHROPIC_API_KEY)")
	}
	return nil
}
