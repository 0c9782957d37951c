// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultBaseURL is the backend address used when the config omits one.
	DefaultBaseURL = "http://localhost:5000"
	// DefaultModel is the model identifier submitted when the form leaves the selector empty.
	DefaultModel = "logistic_regression"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 30 * time.Second
	// defaultRefreshInterval is how often the dashboard polls for statistics.
	defaultRefreshInterval = 30 * time.Second
	// defaultPredictionRefreshDelay gives the backend time to persist a prediction before the next read.
	defaultPredictionRefreshDelay = 300 * time.Millisecond
)

// Config represents the top-level application configuration.
type Config struct {
	BaseURL                string   `json:"baseURL" mapstructure:"baseURL"`
	RefreshIntervalSeconds int      `json:"refreshInterval,omitempty" mapstructure:"refreshInterval"`
	PredictionDelayMillis  int      `json:"predictionRefreshDelay,omitempty" mapstructure:"predictionRefreshDelay"`
	TimeoutSeconds         int      `json:"timeout,omitempty" mapstructure:"timeout"`
	DefaultModel           string   `json:"defaultModel,omitempty" mapstructure:"defaultModel"`
	Models                 []string `json:"models,omitempty" mapstructure:"models"`
	LogFile                string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug                  bool     `json:"debug" mapstructure:"debug"`
	ConfigPath             string   `json:"-" mapstructure:"-"`
}

// Backend returns the backend base URL without a trailing slash.
func (c Config) Backend() string {
	if u := strings.TrimSpace(c.BaseURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return DefaultBaseURL
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the polling period of the dashboard.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalSeconds <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// PredictionRefreshDelay returns how long to wait after a prediction before reloading statistics.
func (c Config) PredictionRefreshDelay() time.Duration {
	if c.PredictionDelayMillis <= 0 {
		return defaultPredictionRefreshDelay
	}
	return time.Duration(c.PredictionDelayMillis) * time.Millisecond
}

// ModelOrDefault returns the configured default model identifier.
func (c Config) ModelOrDefault() string {
	if m := strings.TrimSpace(c.DefaultModel); m != "" {
		return m
	}
	return DefaultModel
}

// ModelChoices returns the models offered by the prediction form. The default model is always first.
func (c Config) ModelChoices() []string {
	def := c.ModelOrDefault()
	out := []string{def}
	for _, m := range c.Models {
		m = strings.TrimSpace(m)
		if m == "" || m == def {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 1 && def == DefaultModel {
		out = append(out, "naive_bayes")
	}
	return out
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "predictdash.log"
}

// Validate reports configuration values that cannot work at all.
func (c Config) Validate() error {
	u, err := url.Parse(c.Backend())
	if err != nil {
		return fmt.Errorf("invalid baseURL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid baseURL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid baseURL %q: missing host", c.BaseURL)
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if config.RefreshIntervalSeconds <= 0 {
		config.RefreshIntervalSeconds = int(defaultRefreshInterval.Seconds())
	}

	return config, nil
}
