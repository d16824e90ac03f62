// Package config loads wordgap configuration from a YAML file with WG_*
// environment overrides, providing typed defaults for every subsystem.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Generate  GenerateConfig  `yaml:"generate"`
	Reference ReferenceConfig `yaml:"reference"`
	Trials    TrialsConfig    `yaml:"trials"`
	Test      TestConfig      `yaml:"test"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ScrapeConfig points at the forum and bounds the scraper.
type ScrapeConfig struct {
	ForumURL  string        `yaml:"forumUrl"`
	GameTitle string        `yaml:"gameTitle"`
	Parallel  int           `yaml:"parallel"`
	Timeout   time.Duration `yaml:"timeout"`
}

// GenerateConfig selects the Gemini model. The API key itself stays out of
// config files; APIKeyEnv names the environment variable that holds it.
type GenerateConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"apiKeyEnv"`
}

// ReferenceConfig locates the ranked word-frequency dataset.
type ReferenceConfig struct {
	Path string `yaml:"path"`
}

// TrialsConfig shapes the exclusion-threshold sweep.
type TrialsConfig struct {
	TopWords    int `yaml:"topWords"`
	ExcludeBase int `yaml:"excludeBase"`
	Interval    int `yaml:"interval"`
	Count       int `yaml:"count"`
}

// TestConfig controls the resampling engine. Seed 0 means seed from
// entropy at startup.
type TestConfig struct {
	Resamples int   `yaml:"resamples"`
	Seed      int64 `yaml:"seed"`
	Workers   int   `yaml:"workers"`
}

// StorageConfig locates the SQLite database and the JSON results export.
type StorageConfig struct {
	DBPath      string `yaml:"dbPath"`
	ResultsPath string `yaml:"resultsPath"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file (optional) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			ForumURL:  "https://steamcommunity.com/app/1055540/discussions/0/",
			GameTitle: "A Short Hike",
			Parallel:  4,
			Timeout:   30 * time.Second,
		},
		Generate: GenerateConfig{
			Model:     "gemini-2.0-flash",
			APIKeyEnv: "GOOGLE_API_KEY",
		},
		Reference: ReferenceConfig{
			Path: "unigram_freq.csv",
		},
		Trials: TrialsConfig{
			TopWords:    10,
			ExcludeBase: 0,
			Interval:    500,
			Count:       3,
		},
		Test: TestConfig{
			Resamples: 10000,
			Seed:      0,
			Workers:   4,
		},
		Storage: StorageConfig{
			DBPath:      "wordgap.db",
			ResultsPath: "results.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides reads WG_* environment variables and overrides the
// corresponding fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WG_FORUM_URL"); v != "" {
		cfg.Scrape.ForumURL = v
	}
	if v := os.Getenv("WG_GAME_TITLE"); v != "" {
		cfg.Scrape.GameTitle = v
	}
	if v := os.Getenv("WG_MODEL"); v != "" {
		cfg.Generate.Model = v
	}
	if v := os.Getenv("WG_REFERENCE_PATH"); v != "" {
		cfg.Reference.Path = v
	}
	if v := os.Getenv("WG_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WG_RESULTS_PATH"); v != "" {
		cfg.Storage.ResultsPath = v
	}
	if v := os.Getenv("WG_RESAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Test.Resamples = n
		}
	}
	if v := os.Getenv("WG_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Test.Seed = n
		}
	}
	if v := os.Getenv("WG_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Test.Workers = n
		}
	}
	if v := os.Getenv("WG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
