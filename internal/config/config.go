package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the config file
const EnvPrefix = "TRUSTSCORE"

// Isolation strategies for the injected UI
const (
	IsolationDirect = "direct"
	IsolationShadow = "shadow"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Scraper    ScraperConfig    `yaml:"scraper"`
	IO         IOConfig         `yaml:"io"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Scorer     ScorerConfig     `yaml:"scorer"`
	UI         UIConfig         `yaml:"ui"`
	Proxies    ProxyConfig      `yaml:"proxies"`
	Browser    BrowserConfig    `yaml:"browser"`
	Log        LogConfig        `yaml:"log"`
}

// ScraperConfig holds the page fetching configuration
type ScraperConfig struct {
	Workers       int           `yaml:"workers"`
	RateLimit     time.Duration `yaml:"rate_limit"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgents    []string      `yaml:"user_agents,omitempty"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// IOConfig holds the input/output configuration
type IOConfig struct {
	InputFile    string `yaml:"input_file"`
	OutputFile   string `yaml:"output_file"`
	OutputFormat string `yaml:"output_format"`
	// RenderDir receives one annotated HTML file per page when set.
	RenderDir string `yaml:"render_dir"`
}

// ExtractionConfig holds the selectors read from product pages.
// They are a contract against the host page's markup.
type ExtractionConfig struct {
	Title          string   `yaml:"title"`
	FeatureBullets string   `yaml:"feature_bullets"`
	FeatureBlock   string   `yaml:"feature_block"`
	LandingImage   string   `yaml:"landing_image"`
	ImageWrapper   string   `yaml:"image_wrapper"`
	Reviews        []string `yaml:"reviews"`
	MaxReviews     int      `yaml:"max_reviews"`
}

// ScorerConfig holds the trust scorer endpoint configuration
type ScorerConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Timeout of zero leaves the transport defaults in charge.
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// UIConfig holds the injected badge configuration
type UIConfig struct {
	Isolation    string        `yaml:"isolation"`
	ErrorDismiss time.Duration `yaml:"error_dismiss"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the browser configuration for JavaScript rendering
type BrowserConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Headless      bool          `yaml:"headless"`
	UserAgent     string        `yaml:"user_agent"`
	WaitTime      time.Duration `yaml:"wait_time"`
	Screenshot    bool          `yaml:"screenshot"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads the configuration from a YAML file on top of the defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}

	// Set default user agents if none provided
	if len(config.Scraper.UserAgents) == 0 {
		config.Scraper.UserAgents = DefaultUserAgents
	}

	return config, nil
}

// ApplyEnv overrides selected settings from TRUSTSCORE_* environment variables
func (c *AppConfig) ApplyEnv(v *viper.Viper) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("scorer.endpoint"); s != "" {
		c.Scorer.Endpoint = s
	}
	if d := v.GetDuration("scorer.timeout"); d > 0 {
		c.Scorer.Timeout = d
	}
	if s := v.GetString("ui.isolation"); s != "" {
		c.UI.Isolation = s
	}
	if s := v.GetString("log.level"); s != "" {
		c.Log.Level = s
	}
	if s := v.GetString("io.render_dir"); s != "" {
		c.IO.RenderDir = s
	}
	if n := v.GetInt("scraper.workers"); n > 0 {
		c.Scraper.Workers = n
	}
}

// Validate corrects invalid values to defaults and logs a warning for each
func (c *AppConfig) Validate() {
	if c.Scraper.Workers < 1 {
		log.Warn().Int("workers", c.Scraper.Workers).Msg("Invalid worker count, using 1")
		c.Scraper.Workers = 1
	}
	if c.Scraper.MaxRetries < 0 {
		log.Warn().Int("max_retries", c.Scraper.MaxRetries).Msg("Negative retries, using 0")
		c.Scraper.MaxRetries = 0
	}
	if c.Scraper.Timeout <= 0 {
		log.Warn().Dur("timeout", c.Scraper.Timeout).Msg("Invalid page timeout, using 30s")
		c.Scraper.Timeout = 30 * time.Second
	}

	switch c.UI.Isolation {
	case IsolationDirect, IsolationShadow:
	default:
		log.Warn().Str("isolation", c.UI.Isolation).Msg("Unknown isolation strategy, using shadow")
		c.UI.Isolation = IsolationShadow
	}
	if c.UI.ErrorDismiss <= 0 {
		c.UI.ErrorDismiss = DefaultErrorDismiss
	}

	if c.Scorer.Endpoint == "" {
		c.Scorer.Endpoint = DefaultScorerEndpoint
	}
	if c.Scorer.Timeout < 0 {
		c.Scorer.Timeout = 0
	}

	if c.Extraction.MaxReviews <= 0 {
		c.Extraction.MaxReviews = DefaultMaxReviews
	}
	if len(c.Extraction.Reviews) == 0 {
		c.Extraction.Reviews = DefaultReviewSelectors
	}

	switch c.IO.OutputFormat {
	case "json", "csv":
	default:
		log.Warn().Str("format", c.IO.OutputFormat).Msg("Unknown output format, using json")
		c.IO.OutputFormat = "json"
	}
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		Scraper: ScraperConfig{
			Workers:    3,
			RateLimit:  time.Second,
			MaxRetries: 3,
			RetryDelay: 2 * time.Second,
			Timeout:    30 * time.Second,
			UserAgents: DefaultUserAgents,
		},
		IO: IOConfig{
			OutputFile:   "results.json",
			OutputFormat: "json",
		},
		Extraction: DefaultExtraction(),
		Scorer: ScorerConfig{
			Endpoint: DefaultScorerEndpoint,
		},
		UI: UIConfig{
			Isolation:    IsolationShadow,
			ErrorDismiss: DefaultErrorDismiss,
		},
		Proxies: ProxyConfig{
			Rotate: true,
			List:   []string{},
		},
		Browser: BrowserConfig{
			Headless:      true,
			UserAgent:     DefaultUserAgents[0],
			WaitTime:      5 * time.Second,
			ScreenshotDir: "screenshots",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultExtraction returns the selectors for the supported product page layout
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		Title:          "#productTitle",
		FeatureBullets: "#feature-bullets li",
		FeatureBlock:   "#feature-bullets",
		LandingImage:   "#landingImage",
		ImageWrapper:   "#imgTagWrapperId",
		Reviews:        DefaultReviewSelectors,
		MaxReviews:     DefaultMaxReviews,
	}
}
