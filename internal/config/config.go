package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"radarbr/internal/apperr"
)

const (
	defaultTimezone = "America/Sao_Paulo"
	defaultRegion   = "BR"

	configPathEnv    = "RADARBR_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	openAIKeyEnv     = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	regionEnv        = "RADARBR_REGION"
	textStrategyEnv  = "RADARBR_TEXT_STRATEGY"
	sitemapPingEnv   = "RADARBR_SITEMAP_URL"
	mediaDirEnv      = "RADARBR_MEDIA_DIR"
	logLevelEnv      = "RADARBR_LOG_LEVEL"
	maxParallelEnv   = "RADARBR_MAX_PARALLEL"
	requestedCntEnv  = "RADARBR_COUNT"
	recentWindowEnv  = "RADARBR_RECENT_WINDOW_HOURS"
	openverseURLEnv  = "RADARBR_OPENVERSE_URL"
	wikimediaURLEnv  = "RADARBR_WIKIMEDIA_URL"
	trendsBaseURLEnv = "RADARBR_TRENDS_BASE_URL"
	newsRSSBaseEnv   = "RADARBR_NEWS_RSS_BASE_URL"
)

// Config holds all settings the pipeline needs. Environment is resolved
// exactly once inside Load; nothing else reads os.Getenv afterwards.
type Config struct {
	Region       string          `yaml:"region"`
	Count        int             `yaml:"count"`
	MaxParallel  int             `yaml:"maxParallel"`
	RecentWindow time.Duration   `yaml:"recentWindow"`
	Scheduler    SchedulerConfig `yaml:"scheduler"`
	Trends       TrendsConfig    `yaml:"trends"`
	Images       ImagesConfig    `yaml:"images"`
	Synthesis    SynthesisConfig `yaml:"synthesis"`
	Database     DatabaseConfig  `yaml:"database"`
	Sitemap      SitemapConfig   `yaml:"sitemap"`
	Logging      LoggingConfig   `yaml:"logging"`
}

// SchedulerConfig defines when automatic runs trigger.
type SchedulerConfig struct {
	FixedHours       []int          `yaml:"fixedHours"`
	FallbackInterval time.Duration  `yaml:"fallbackInterval"`
	Timezone         string         `yaml:"timezone"`
	location         *time.Location `yaml:"-"`
}

// Location resolves the configured timezone; bound once during Load. A
// config built without Load still honors the Timezone field.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	tz := s.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TrendsConfig groups the upstream trend endpoints.
type TrendsConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	NewsRSSBase string        `yaml:"newsRssBaseUrl"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ImagesConfig controls the image resolver chain.
type ImagesConfig struct {
	StrategyOrder []string      `yaml:"strategyOrder"`
	WikimediaURL  string        `yaml:"wikimediaUrl"`
	OpenverseURL  string        `yaml:"openverseUrl"`
	FetchTimeout  time.Duration `yaml:"fetchTimeout"`
	AITimeout     time.Duration `yaml:"aiTimeout"`
	MediaDir      string        `yaml:"mediaDir"`
}

// SynthesisConfig controls the article synthesizer.
type SynthesisConfig struct {
	TextStrategy    string `yaml:"textStrategy"` // template | generative
	MinWordCount    int    `yaml:"minWordCount"`
	TargetWordCount int    `yaml:"targetWordCount"`
	OpenAIKey       string `yaml:"openAiKey"`
	OpenAIModel     string `yaml:"openAiModel"`
}

// DatabaseConfig describes the Postgres content store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SitemapConfig is the best-effort ping after successful inserts.
type SitemapConfig struct {
	URL string `yaml:"url"`
}

// LoggingConfig sets the console handler level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the optional YAML file, applies environment overrides once,
// binds the timezone and validates. A missing required key is a
// ConfigurationError.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, apperr.Wrap(apperr.ConfigurationError, "read config file", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, apperr.Wrap(apperr.ConfigurationError, "parse config file", err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Synthesis.OpenAIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Synthesis.OpenAIModel = v
	}
	if v := os.Getenv(regionEnv); v != "" {
		c.Region = strings.ToUpper(v)
	}
	if v := os.Getenv(textStrategyEnv); v != "" {
		c.Synthesis.TextStrategy = v
	}
	if v := os.Getenv(sitemapPingEnv); v != "" {
		c.Sitemap.URL = v
	}
	if v := os.Getenv(mediaDirEnv); v != "" {
		c.Images.MediaDir = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(openverseURLEnv); v != "" {
		c.Images.OpenverseURL = v
	}
	if v := os.Getenv(wikimediaURLEnv); v != "" {
		c.Images.WikimediaURL = v
	}
	if v := os.Getenv(trendsBaseURLEnv); v != "" {
		c.Trends.BaseURL = v
	}
	if v := os.Getenv(newsRSSBaseEnv); v != "" {
		c.Trends.NewsRSSBase = v
	}
	if n, ok := envInt(maxParallelEnv); ok && n > 0 {
		c.MaxParallel = n
	}
	if n, ok := envInt(requestedCntEnv); ok && n >= 0 {
		c.Count = n
	}
	if n, ok := envInt(recentWindowEnv); ok && n > 0 {
		c.RecentWindow = time.Duration(n) * time.Hour
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Config) bindTimezone() error {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return apperr.Wrap(apperr.ConfigurationError, fmt.Sprintf("unknown timezone %s", tz), err)
	}
	c.Scheduler.location = loc
	return nil
}

func (c *Config) validate() error {
	if c.Region == "" {
		return apperr.New(apperr.ConfigurationError, "region is required")
	}
	if c.MaxParallel <= 0 {
		return apperr.New(apperr.ConfigurationError, "maxParallel must be positive")
	}
	switch c.Synthesis.TextStrategy {
	case "template", "generative":
	default:
		return apperr.New(apperr.ConfigurationError,
			fmt.Sprintf("textStrategy must be 'template' or 'generative', got %q", c.Synthesis.TextStrategy))
	}
	if c.Synthesis.TextStrategy == "generative" && c.Synthesis.OpenAIKey == "" {
		return apperr.New(apperr.ConfigurationError, "generative strategy requires OPENAI_API_KEY")
	}
	if c.Synthesis.MinWordCount <= 0 || c.Synthesis.TargetWordCount < c.Synthesis.MinWordCount {
		return apperr.New(apperr.ConfigurationError, "word count bounds are inconsistent")
	}
	for _, h := range c.Scheduler.FixedHours {
		if h < 0 || h > 23 {
			return apperr.New(apperr.ConfigurationError, fmt.Sprintf("fixed hour %d out of range", h))
		}
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Region != "" {
		base.Region = override.Region
	}
	if override.Count > 0 {
		base.Count = override.Count
	}
	if override.MaxParallel > 0 {
		base.MaxParallel = override.MaxParallel
	}
	if override.RecentWindow > 0 {
		base.RecentWindow = override.RecentWindow
	}

	if len(override.Scheduler.FixedHours) > 0 {
		base.Scheduler.FixedHours = override.Scheduler.FixedHours
	}
	if override.Scheduler.FallbackInterval > 0 {
		base.Scheduler.FallbackInterval = override.Scheduler.FallbackInterval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Trends.BaseURL != "" {
		base.Trends.BaseURL = override.Trends.BaseURL
	}
	if override.Trends.NewsRSSBase != "" {
		base.Trends.NewsRSSBase = override.Trends.NewsRSSBase
	}
	if override.Trends.Timeout > 0 {
		base.Trends.Timeout = override.Trends.Timeout
	}

	if len(override.Images.StrategyOrder) > 0 {
		base.Images.StrategyOrder = override.Images.StrategyOrder
	}
	if override.Images.WikimediaURL != "" {
		base.Images.WikimediaURL = override.Images.WikimediaURL
	}
	if override.Images.OpenverseURL != "" {
		base.Images.OpenverseURL = override.Images.OpenverseURL
	}
	if override.Images.FetchTimeout > 0 {
		base.Images.FetchTimeout = override.Images.FetchTimeout
	}
	if override.Images.AITimeout > 0 {
		base.Images.AITimeout = override.Images.AITimeout
	}
	if override.Images.MediaDir != "" {
		base.Images.MediaDir = override.Images.MediaDir
	}

	if override.Synthesis.TextStrategy != "" {
		base.Synthesis.TextStrategy = override.Synthesis.TextStrategy
	}
	if override.Synthesis.MinWordCount > 0 {
		base.Synthesis.MinWordCount = override.Synthesis.MinWordCount
	}
	if override.Synthesis.TargetWordCount > 0 {
		base.Synthesis.TargetWordCount = override.Synthesis.TargetWordCount
	}
	if override.Synthesis.OpenAIKey != "" {
		base.Synthesis.OpenAIKey = override.Synthesis.OpenAIKey
	}
	if override.Synthesis.OpenAIModel != "" {
		base.Synthesis.OpenAIModel = override.Synthesis.OpenAIModel
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Sitemap.URL != "" {
		base.Sitemap.URL = override.Sitemap.URL
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Region:       defaultRegion,
		Count:        5,
		MaxParallel:  4,
		RecentWindow: 6 * time.Hour,
		Scheduler: SchedulerConfig{
			FixedHours:       []int{8, 12, 15, 18, 20},
			FallbackInterval: 2 * time.Hour,
			Timezone:         defaultTimezone,
		},
		Trends: TrendsConfig{
			BaseURL:     "https://trends.google.com",
			NewsRSSBase: "https://news.google.com",
			Timeout:     10 * time.Second,
		},
		Images: ImagesConfig{
			StrategyOrder: nil, // resolver default order
			WikimediaURL:  "https://commons.wikimedia.org/w/api.php",
			OpenverseURL:  "https://api.openverse.org/v1/images",
			FetchTimeout:  15 * time.Second,
			AITimeout:     30 * time.Second,
			MediaDir:      "media",
		},
		Synthesis: SynthesisConfig{
			TextStrategy:    "template",
			MinWordCount:    280,
			TargetWordCount: 850,
			OpenAIModel:     "gpt-4o-mini",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
