// Package config handles loading and managing dorifit configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for dorifit.
type Config struct {
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Storage   StorageConfig   `yaml:"storage"`
	Song      SongConfig      `yaml:"song"`
}

// OptimizerConfig controls how teams are searched.
type OptimizerConfig struct {
	Accuracy  float64 `yaml:"accuracy"` // perfect rate in [0, 1]
	Workers   int     `yaml:"workers"`
	EventType string  `yaml:"event_type"`
	Server    int     `yaml:"server"` // overrides the profile's server when >= 0
	Fever     bool    `yaml:"fever"`
}

// StorageConfig selects where master data and results live.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // local, s3 or gcs
	Dir      string `yaml:"dir"`     // local backend root, defaults to CacheDir()
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // S3-compatible endpoint, e.g. MinIO
}

// SongConfig is the chart used for skill-sensitive events when none is given.
type SongConfig struct {
	ID         int    `yaml:"id"`
	Difficulty string `yaml:"difficulty"`
	Level      int    `yaml:"level"` // overrides the chart's level when > 0
}

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			Accuracy:  0.95,
			Workers:   1,
			EventType: "story",
			Server:    -1,
			Fever:     true,
		},
		Storage: StorageConfig{
			Backend: BackendLocal,
		},
		Song: SongConfig{
			Difficulty: "expert",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and backend settings.
func (c *Config) Validate() error {
	if c.Optimizer.Accuracy < 0 || c.Optimizer.Accuracy > 1 {
		return fmt.Errorf("optimizer.accuracy must be within [0, 1], got %v", c.Optimizer.Accuracy)
	}
	if c.Optimizer.Workers < 0 {
		return fmt.Errorf("optimizer.workers must not be negative, got %d", c.Optimizer.Workers)
	}
	if c.Song.Level < 0 {
		return fmt.Errorf("song.level must not be negative, got %d", c.Song.Level)
	}
	switch c.Storage.Backend {
	case "", BackendLocal:
	case BackendS3, BackendGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// FindConfigFile looks for .dorifit/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".dorifit", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns ~/.cache/dorifit, the default local storage root.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "dorifit")
}

// StorageDir returns the local storage root for the config.
func (c *Config) StorageDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return CacheDir()
}

// ProfileSlug creates a filesystem- and URL-safe identifier from a profile
// name: lowercase letters and digits, everything else collapsed to '-'.
func ProfileSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "default"
	}
	return slug
}
