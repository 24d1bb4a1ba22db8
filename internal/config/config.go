// Package config loads the application configuration from a YAML file,
// with environment variables expanded so the TMDB credential can live
// outside the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	MoviesDir string        `yaml:"movies_dir"`
	TMDB      TMDBConfig    `yaml:"tmdb"`
	Cache     CacheConfig   `yaml:"cache"`
	Options   OptionsConfig `yaml:"options"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey         string `yaml:"api_key"`
	Language       string `yaml:"language"`
	RateLimitDelay int    `yaml:"rate_limit_delay"` // milliseconds between calls
}

// CacheConfig holds TMDB response cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	TTLDays int    `yaml:"ttl_days"`
}

// OptionsConfig holds behavioral options.
type OptionsConfig struct {
	// PreserveLocalEdits controls whether a metadata refresh keeps the
	// user's notes body. Status, rating, and watch date are always kept.
	PreserveLocalEdits *bool `yaml:"preserve_local_edits"`
	// ActorCount is how many cast members to record per movie.
	ActorCount int `yaml:"actor_count"`
	// WatchDebounceSeconds is the delay before revalidating an externally
	// edited document in watch mode.
	WatchDebounceSeconds int `yaml:"watch_debounce_seconds"`
}

// Default returns the configuration used when no file exists: a ./movies
// directory next to the binary and the TMDB key from the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. A missing file is not an
// error; defaults apply. Environment variables referenced in the YAML
// (e.g. api_key: ${TMDB_API_KEY}) are expanded before parsing.
func Load(path string) (*Config, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MoviesDir == "" {
		c.MoviesDir = "./movies"
	}
	if c.TMDB.APIKey == "" {
		c.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = "en-US"
	}
	if c.TMDB.RateLimitDelay <= 0 {
		c.TMDB.RateLimitDelay = 250
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(c.MoviesDir, ".cache", "tmdb.db")
	}
	if c.Cache.TTLDays <= 0 {
		c.Cache.TTLDays = 30
	}
	if c.Options.PreserveLocalEdits == nil {
		preserve := true
		c.Options.PreserveLocalEdits = &preserve
	}
	if c.Options.ActorCount <= 0 {
		c.Options.ActorCount = 5
	}
	if c.Options.WatchDebounceSeconds <= 0 {
		c.Options.WatchDebounceSeconds = 2
	}
}

// RequireAPIKey fails when no TMDB credential is configured; commands that
// talk to the metadata service call this up front.
func (c *Config) RequireAPIKey() error {
	if c.TMDB.APIKey == "" || c.TMDB.APIKey == "your_api_key_here" {
		return fmt.Errorf("TMDB API key is required: set TMDB_API_KEY or tmdb.api_key in the config (get one from https://www.themoviedb.org/settings/api)")
	}
	return nil
}
