package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Preference PreferenceConfig `toml:"preference_service"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PreferenceConfig holds settings for the preference service process.
type PreferenceConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	NATSURL string `toml:"nats_url"`
}

// DashboardConfig holds settings for the dashboard process.
type DashboardConfig struct {
	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	DatasetPath           string `toml:"dataset_path"`
	DatabasePath          string `toml:"database_path"`
	PreferenceServiceURL  string `toml:"preference_service_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	AutoOpenBrowser       bool   `toml:"auto_open_browser"`
}

// Addr returns the listen address of the preference service.
func (c PreferenceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address of the dashboard.
func (c DashboardConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequestTimeout returns the outbound request timeout. Zero means no timeout.
func (c DashboardConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

const defaultConfigContent = `[log]
level = "info"                    # debug, info, warn, error
format = "text"                   # "text" or "json"

[preference_service]
host = "localhost"
port = 8000
nats_url = ""                     # Optional: publish favorite events to NATS

[dashboard]
host = "localhost"
port = 8501
dataset_path = "Australian_Vehicle_Prices.csv"
database_path = "./data/liked_brands.db"
preference_service_url = "http://localhost:8000"
request_timeout_seconds = 30      # 0 disables the timeout
auto_open_browser = false
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicit values are checked before defaults so that "port = 0" is an
	// error rather than silently becoming the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("preference_service", "port") {
		if err := checkPort("preference_service.port", cfg.Preference.Port); err != nil {
			return err
		}
	}
	if md.IsDefined("dashboard", "port") {
		if err := checkPort("dashboard.port", cfg.Dashboard.Port); err != nil {
			return err
		}
	}
	if md.IsDefined("dashboard", "request_timeout_seconds") && cfg.Dashboard.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid dashboard.request_timeout_seconds %d: must be >= 0", cfg.Dashboard.RequestTimeoutSeconds)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Preference.Host == "" {
		cfg.Preference.Host = "localhost"
	}
	if cfg.Preference.Port == 0 {
		cfg.Preference.Port = 8000
	}
	if cfg.Dashboard.Host == "" {
		cfg.Dashboard.Host = "localhost"
	}
	if cfg.Dashboard.Port == 0 {
		cfg.Dashboard.Port = 8501
	}
	if cfg.Dashboard.DatasetPath == "" {
		cfg.Dashboard.DatasetPath = "Australian_Vehicle_Prices.csv"
	}
	if cfg.Dashboard.DatabasePath == "" {
		cfg.Dashboard.DatabasePath = "./data/liked_brands.db"
	}
	if cfg.Dashboard.PreferenceServiceURL == "" {
		cfg.Dashboard.PreferenceServiceURL = "http://localhost:8000"
	}
	// An explicit 0 disables the timeout, so only fill in when omitted.
	if !md.IsDefined("dashboard", "request_timeout_seconds") {
		cfg.Dashboard.RequestTimeoutSeconds = 30
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VEHIDASH_PREFS_URL"); v != "" {
		cfg.Dashboard.PreferenceServiceURL = v
	}
	if v := os.Getenv("VEHIDASH_DATASET"); v != "" {
		cfg.Dashboard.DatasetPath = v
	}
	if v := os.Getenv("VEHIDASH_DATABASE"); v != "" {
		cfg.Dashboard.DatabasePath = v
	}
	if v := os.Getenv("VEHIDASH_NATS_URL"); v != "" {
		cfg.Preference.NATSURL = v
	}
	if v := os.Getenv("VEHIDASH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("invalid log.format %q: must be \"text\" or \"json\"", cfg.Log.Format)
	}

	if err := checkPort("preference_service.port", cfg.Preference.Port); err != nil {
		return err
	}
	if err := checkPort("dashboard.port", cfg.Dashboard.Port); err != nil {
		return err
	}

	if !strings.HasPrefix(cfg.Dashboard.PreferenceServiceURL, "http://") &&
		!strings.HasPrefix(cfg.Dashboard.PreferenceServiceURL, "https://") {
		return fmt.Errorf("invalid dashboard.preference_service_url %q: must start with http:// or https://", cfg.Dashboard.PreferenceServiceURL)
	}

	return nil
}

func checkPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", name, port)
	}
	return nil
}
