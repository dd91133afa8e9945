// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	InputDir      string
	OutputDir     string
	DatabasePath  string
	DefaultEra    string
	WatchDebounce time.Duration
}

// Default values
const (
	defaultEra           = "VirtualFuture"
	defaultWatchDebounce = 500 * time.Millisecond
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		InputDir:      getEnvString("CITYSCAN_INPUT_DIR", defaultInputDir()),
		OutputDir:     getEnvString("CITYSCAN_OUTPUT_DIR", defaultOutputDir()),
		DatabasePath:  getEnvString("DATABASE_PATH", defaultDatabasePath()),
		DefaultEra:    getEnvString("CITYSCAN_DEFAULT_ERA", defaultEra),
		WatchDebounce: getEnvDuration("WATCH_DEBOUNCE", defaultWatchDebounce),
	}

	// Output and database directories are created eagerly; the input
	// directory is not, since its absence is a user-facing error.
	if err := ensureDir(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "cityscan", ".env"),
			filepath.Join(home, ".cityscan", ".env"),
		)
	}

	return paths
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "CityAnalysis"
	}
	return filepath.Join(home, "Documents", "FOE", "CityAnalysis")
}

func defaultInputDir() string {
	return filepath.Join(baseDir(), "input")
}

func defaultOutputDir() string {
	return filepath.Join(baseDir(), "output")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cityscan.db"
	}
	return filepath.Join(home, ".config", "cityscan", "cityscan.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the
// default. Accepts values like "500ms", "2s".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
