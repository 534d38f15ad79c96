// Package config loads codescope configuration from .codescope/config.yml
// with CODESCOPE_* environment overrides.
package config

import "fmt"

// Config is the complete codescope configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Watcher WatcherConfig `yaml:"watcher" mapstructure:"watcher"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// CacheConfig bounds the in-memory file symbol cache. Nothing persists: the
// cache lives and dies with the process.
type CacheConfig struct {
	Capacity      int `yaml:"capacity" mapstructure:"capacity"`                 // max cached file entries
	MaxFileSizeKB int `yaml:"max_file_size_kb" mapstructure:"max_file_size_kb"` // skip larger files, 0 = unlimited
}

// WatcherConfig controls the optional cache-invalidating file watcher.
type WatcherConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	DebounceMS int  `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.py",
				"**/*.pyi",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.rb",
				"**/*.java",
				"**/*.rs",
				"**/*.c",
				"**/*.h",
				"**/*.php",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				".venv/**",
				"*.min.js",
			},
		},
		Cache: CacheConfig{
			Capacity:      16_384,
			MaxFileSizeKB: 1024,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMS: 500,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.Paths.Include) == 0 {
		return fmt.Errorf("paths.include must list at least one pattern")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	if c.Cache.MaxFileSizeKB < 0 {
		return fmt.Errorf("cache.max_file_size_kb must not be negative")
	}
	if c.Watcher.DebounceMS < 0 {
		return fmt.Errorf("watcher.debounce_ms must not be negative")
	}
	return nil
}
