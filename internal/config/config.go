package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultServerURL    = "http://localhost:8000"
	DefaultPreferMarker = "llama"
	DefaultExportDir    = "."
)

// Config holds the application configuration
type Config struct {
	ServerURL    string `json:"server_url,omitempty"`
	PreferMarker string `json:"prefer_marker,omitempty"`
	ExportDir    string `json:"export_dir,omitempty"`
	// GenerateTimeout is in seconds; zero waits for the backend indefinitely
	GenerateTimeout int       `json:"generate_timeout,omitempty"`
	LastUpdateCheck time.Time `json:"last_update_check,omitempty"`
	LatestVersion   string    `json:"latest_version,omitempty"`
}

// ShouldCheckForUpdate returns true if more than 24 hours since last check
func (c *Config) ShouldCheckForUpdate() bool {
	return time.Since(c.LastUpdateCheck) > 24*time.Hour
}

// GenerateTimeoutDuration converts GenerateTimeout to a duration
func (c *Config) GenerateTimeoutDuration() time.Duration {
	if c.GenerateTimeout <= 0 {
		return 0
	}
	return time.Duration(c.GenerateTimeout) * time.Second
}

// ApplyDefaults fills unset fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.PreferMarker == "" {
		c.PreferMarker = DefaultPreferMarker
	}
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
}

// ApplyEnv overrides fields from TESTGEN_* environment variables
func (c *Config) ApplyEnv() {
	if v := GetEnv("server_url"); v != "" {
		c.ServerURL = v
	}
	if v := GetEnv("prefer_marker"); v != "" {
		c.PreferMarker = v
	}
	if v := GetEnv("export_dir"); v != "" {
		c.ExportDir = v
	}
	if v := GetEnv("generate_timeout"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.GenerateTimeout = secs
		}
	}
}

// configDir returns the platform-specific config directory
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".testgen")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

// Path returns the full path to the config file
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load loads the configuration from disk
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil // No config yet
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Resolve loads the file, then applies environment overrides and defaults
func Resolve() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetEnvVarName returns the environment variable name for a config key
func GetEnvVarName(key string) string {
	return "TESTGEN_" + strings.ToUpper(key)
}

// GetEnv retrieves an environment variable with TestGen prefix
func GetEnv(key string) string {
	return os.Getenv(GetEnvVarName(key))
}
