// Package config loads and persists the user's YAML configuration from
// ~/.subfont/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main YAML configuration structure
type Config struct {
	Fonts   FontsSection   `yaml:"Fonts"`
	Logging LoggingSection `yaml:"Logging"`
}

// FontsSection controls where fonts are discovered and cached
type FontsSection struct {
	// Directory overrides the font scan directory. Empty means the
	// executable's own directory.
	Directory string `yaml:"Directory"`
	// CachePath overrides the font cache location. Empty means
	// fc-subs.db inside the font directory.
	CachePath string `yaml:"CachePath"`
	// Recursive controls whether the font scan descends into
	// subdirectories. Defaults to true when unset.
	Recursive *bool `yaml:"Recursive"`
}

// LoggingSection represents logging configuration
type LoggingSection struct {
	LogPath  string `yaml:"LogPath"`
	MaxSize  string `yaml:"MaxSize"`
	MaxFiles int    `yaml:"MaxFiles"`
}

// ScanRecursive reports the effective recursion setting.
func (c *Config) ScanRecursive() bool {
	if c == nil || c.Fonts.Recursive == nil {
		return true
	}
	return *c.Fonts.Recursive
}

// GetConfigDir returns the configuration directory, creating it if needed
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".subfont")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// GetConfigPath returns the path to the YAML config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// DefaultConfig returns a new default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingSection{
			LogPath:  "$home/.subfont/logs/subfont.log",
			MaxSize:  "10MB",
			MaxFiles: 5,
		},
	}
}

// Load reads the config file, writing the defaults on first run
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := Save(config); err != nil {
			return config, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// Save writes the config file
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ParseMaxSize converts a size string like "10MB" to megabytes
func ParseMaxSize(size string) (int, error) {
	s := strings.TrimSpace(strings.ToUpper(size))
	s = strings.TrimSuffix(s, "MB")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid size %q: must be positive", size)
	}
	return n, nil
}

// ExpandLogPath expands the $home placeholder in a configured log path
func ExpandLogPath(path string) (string, error) {
	if !strings.Contains(path, "$home") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return strings.ReplaceAll(path, "$home", homeDir), nil
}
