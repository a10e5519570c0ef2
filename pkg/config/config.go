package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitescrape-go/pkg/backend"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Backend base URL, stored without trailing slashes
	Backend string `toml:"backend"`

	// CLI
	CLI struct {
		RequestTimeout int    `toml:"request_timeout"` // seconds, 0 = no timeout
		DownloadDir    string `toml:"download_dir"`
		PreviewRows    int    `toml:"preview_rows"`
	} `toml:"cli"`

	// Log
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`

	// DevBackend configures the local stub backend
	DevBackend struct {
		Host    string   `toml:"host"`
		Port    int      `toml:"port"`
		Plugins []string `toml:"plugins"`

		// Scrape requests per second, 0 = unlimited
		RateLimit float64 `toml:"rate_limit"`
		RateBurst int     `toml:"rate_burst"`
	} `toml:"dev_backend"`
}

// DefaultConfig returns a config with default values
// The backend default matches the port the scrape backend listens on.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Backend = backend.DefaultBaseURL
	cfg.CLI.RequestTimeout = 0
	cfg.CLI.DownloadDir = "downloads"
	cfg.CLI.PreviewRows = 100
	cfg.Log.File = filepath.Join("tmp", "sitescrape.log")
	cfg.Log.Level = "info"
	cfg.DevBackend.Host = "127.0.0.1"
	cfg.DevBackend.Port = 10000
	cfg.DevBackend.Plugins = []string{"google_maps", "indiamart", "my_site"}
	cfg.DevBackend.RateLimit = 0
	cfg.DevBackend.RateBurst = 3
	return cfg
}

// RequestTimeout returns the configured per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.CLI.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.CLI.RequestTimeout) * time.Second
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "sitescrape")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from ~/.config/sitescrape/config.toml
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFile(configPath)
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return saveFile(configPath, cfg)
}

// loadFile reads a config file, returning defaults when it does not exist.
// Nothing is written here: only an explicit save persists a value.
func loadFile(configPath string) (*Config, error) {
	configPath, err := expandHome(configPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults for any missing values
	defaultCfg := DefaultConfig()
	cfg.Backend = backend.NormalizeBaseURL(cfg.Backend)
	if cfg.Backend == "" {
		cfg.Backend = defaultCfg.Backend
	}
	if cfg.CLI.DownloadDir == "" {
		cfg.CLI.DownloadDir = defaultCfg.CLI.DownloadDir
	}
	if cfg.CLI.PreviewRows <= 0 {
		cfg.CLI.PreviewRows = defaultCfg.CLI.PreviewRows
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultCfg.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
	if cfg.DevBackend.Host == "" {
		cfg.DevBackend.Host = defaultCfg.DevBackend.Host
	}
	if cfg.DevBackend.Port == 0 {
		cfg.DevBackend.Port = defaultCfg.DevBackend.Port
	}
	if len(cfg.DevBackend.Plugins) == 0 {
		cfg.DevBackend.Plugins = defaultCfg.DevBackend.Plugins
	}
	if cfg.DevBackend.RateBurst <= 0 {
		cfg.DevBackend.RateBurst = defaultCfg.DevBackend.RateBurst
	}

	return &cfg, nil
}

func saveFile(configPath string, cfg *Config) error {
	configPath, err := expandHome(configPath)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write through a temp file so a crash never leaves a truncated config
	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome expands a leading ~ in path
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(path, "~", homeDir, 1), nil
}
