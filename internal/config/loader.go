package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix("ARCHIVEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("archivebot")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".archivebot"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// Missing config file is fine when none was named explicitly.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadJob reads one job's parameters from a YAML file. Keyword lists may be
// given either as YAML sequences or as a single ";"-separated string.
func LoadJob(path string) (*types.JobParameters, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	params := &types.JobParameters{}
	if err := v.Unmarshal(params); err != nil {
		return nil, fmt.Errorf("unmarshal job file: %w", err)
	}
	params.PrimaryKeywords = SplitKeywords(params.PrimaryKeywords)
	params.SecondaryKeywords = SplitKeywords(params.SecondaryKeywords)
	return params, nil
}

// SplitKeywords expands ";"-separated entries and drops blanks, matching
// the input convention of the form UI the bot was originally driven by.
func SplitKeywords(in []string) []string {
	var out []string
	for _, item := range in {
		for _, kw := range strings.Split(item, ";") {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				out = append(out, kw)
			}
		}
	}
	return out
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.navigation_timeout", cfg.Browser.NavigationTimeout)
	v.SetDefault("browser.selector_timeout", cfg.Browser.SelectorTimeout)
	v.SetDefault("browser.step_wait", cfg.Browser.StepWait)

	v.SetDefault("fetcher.timeout", cfg.Fetcher.Timeout)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)

	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.endpoint", cfg.AI.Endpoint)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.max_tokens", cfg.AI.MaxTokens)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_dir", cfg.Storage.OutputDir)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)

	v.SetDefault("paths.cache_dir", cfg.Paths.CacheDir)
	v.SetDefault("paths.log_dir", cfg.Paths.LogDir)
	v.SetDefault("paths.progress_file", cfg.Paths.ProgressFile)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
