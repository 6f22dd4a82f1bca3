package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Editor   EditorConfig   `toml:"editor"`
	Database DatabaseConfig `toml:"database"`
	Signin   SigninConfig   `toml:"signin"`
}

// APIConfig contains the mixtape service connection settings.
type APIConfig struct {
	BaseURL     string  `toml:"base_url"`
	SiteURL     string  `toml:"site_url"`
	AccessToken string  `toml:"access_token"`
	RateLimit   float64 `toml:"rate_limit"`
}

// EditorConfig contains editor behavior settings.
type EditorConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// DatabaseConfig contains draft cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SigninConfig contains settings for the local sign-in callback server.
type SigninConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
