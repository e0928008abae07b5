package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings giftlist reads at startup.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	StrictDelete    bool
	LogFile         string
	LogLevel        string
	RatePerSecond   float64
}

const (
	defaultConfigPath     = "~/.config/giftlist/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8000"
	defaultTimeoutSeconds = 10
	defaultLogFile        = "~/.local/state/giftlist/giftlist.log"
	defaultLogLevel       = "info"
	defaultRatePerSecond  = 10
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "GIFTLIST_API_URL"
	EnvLogLevel = "GIFTLIST_LOG_LEVEL"
	EnvLogFile  = "GIFTLIST_LOG_FILE"
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		StrictDelete:   true,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		RatePerSecond:  defaultRatePerSecond,
	}
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load parses the config file at path, falling back to defaults when it is
// missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		applyEnv(&cfg, os.LookupEnv)
		return cfg, nil
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL                string   `toml:"api_url"`
		RequestTimeoutSeconds *int     `toml:"request_timeout_seconds"`
		RefreshSeconds        int      `toml:"refresh_seconds"`
		StrictDelete          *bool    `toml:"strict_delete"`
		LogFile               string   `toml:"log_file"`
		LogLevel              string   `toml:"log_level"`
		RatePerSecond         *float64 `toml:"rate_per_second"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.RequestTimeoutSeconds != nil {
		if *raw.RequestTimeoutSeconds < 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout_seconds must not be negative")
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.RefreshSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: refresh_seconds must not be negative")
	}
	cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second
	if raw.StrictDelete != nil {
		cfg.StrictDelete = *raw.StrictDelete
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if raw.RatePerSecond != nil {
		cfg.RatePerSecond = *raw.RatePerSecond
	}

	applyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && strings.TrimSpace(v) != "" {
		cfg.APIURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogFile); ok && strings.TrimSpace(v) != "" {
		cfg.LogFile = mustExpand(v)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
