package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for vax-admin.
type Config struct {
	// Web UI
	WebPort string `yaml:"webPort"`

	// Pages
	HomePage    string `yaml:"homePage"`
	DetailsPage string `yaml:"detailsPage"`
	Locale      string `yaml:"locale"`

	// Widgets
	ToastTimeout time.Duration `yaml:"toastTimeout"`

	// Bridge sessions
	PingInterval time.Duration `yaml:"pingInterval"`
	MaxActivity  int           `yaml:"maxActivity"`

	// Logging
	LogLevel string `yaml:"logLevel"` // DEBUG, INFO, WARN, ERROR

	// Tracing is off while empty.
	OTLPEndpoint string `yaml:"otlpEndpoint"`

	// ConfigPath is the YAML file the values were read from, if any.
	ConfigPath string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WebPort:      "8080",
		HomePage:     "index.html",
		DetailsPage:  "invoice-details.html",
		Locale:       "vi",
		ToastTimeout: 3 * time.Second,
		PingInterval: 30 * time.Second,
		MaxActivity:  200,
		LogLevel:     "INFO",
	}
}

// Load builds the configuration. Defaults are overlaid with the YAML file at
// path (skipped when path is empty), then with environment variables. A .env
// file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.ConfigPath = path
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.WebPort = getEnv("WEB_PORT", c.WebPort)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HomePage = getEnv("HOME_PAGE", c.HomePage)
	c.DetailsPage = getEnv("DETAILS_PAGE", c.DetailsPage)
	c.Locale = getEnv("LOCALE", c.Locale)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)

	if v := os.Getenv("TOAST_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TOAST_TIMEOUT_MS %q: %w", v, err)
		}
		c.ToastTimeout = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("WS_PING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WS_PING_INTERVAL %q: %w", v, err)
		}
		c.PingInterval = d
	}
	if v := os.Getenv("ACTIVITY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITY_LIMIT %q: %w", v, err)
		}
		c.MaxActivity = n
	}
	return nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.WebPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("WEB_PORT must be a port number, got %q", c.WebPort)
	}
	if c.ToastTimeout <= 0 {
		return fmt.Errorf("toast timeout must be positive, got %s", c.ToastTimeout)
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("ping interval must be positive, got %s", c.PingInterval)
	}
	if c.MaxActivity < 1 {
		return fmt.Errorf("activity limit must be at least 1, got %d", c.MaxActivity)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
