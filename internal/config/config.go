package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the archive bot.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	AI      AIConfig      `mapstructure:"ai"      yaml:"ai"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Paths   PathsConfig   `mapstructure:"paths"   yaml:"paths"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	Stealth           bool          `mapstructure:"stealth"            yaml:"stealth"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	SelectorTimeout   time.Duration `mapstructure:"selector_timeout"   yaml:"selector_timeout"`
	// StepWait is the fixed pause between scroll/click steps while the
	// page loads more content.
	StepWait time.Duration `mapstructure:"step_wait" yaml:"step_wait"`
}

// FetcherConfig controls the plain-HTTP detail-page fetcher.
type FetcherConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// AIConfig controls the structured-extraction model.
type AIConfig struct {
	Provider    string  `mapstructure:"provider"    yaml:"provider"` // openai, ollama, custom
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// StorageConfig selects the record sink.
type StorageConfig struct {
	Type          string `mapstructure:"type"           yaml:"type"` // csv, mongodb
	OutputDir     string `mapstructure:"output_dir"     yaml:"output_dir"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// PathsConfig places the per-job on-disk state.
type PathsConfig struct {
	CacheDir     string `mapstructure:"cache_dir"     yaml:"cache_dir"`
	LogDir       string `mapstructure:"log_dir"       yaml:"log_dir"`
	ProgressFile string `mapstructure:"progress_file" yaml:"progress_file"`
}

// LoggingConfig controls process-level logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:          true,
			Stealth:           false,
			NavigationTimeout: 100 * time.Second,
			SelectorTimeout:   100 * time.Second,
			StepWait:          3 * time.Second,
		},
		Fetcher: FetcherConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		AI: AIConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			MaxTokens:   4096,
			Temperature: 0,
		},
		Storage: StorageConfig{
			Type:          "csv",
			OutputDir:     "./Output",
			MongoDatabase: "archivebot",
		},
		Paths: PathsConfig{
			CacheDir:     "./Cache",
			LogDir:       "./Logs",
			ProgressFile: "./progress.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
