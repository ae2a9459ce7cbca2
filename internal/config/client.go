package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRelayURL is where a locally started relay listens
	DefaultRelayURL = "http://localhost:3000"
	// DefaultCooldown is the minimum interval between analyses
	DefaultCooldown = 6 * time.Second
	// DefaultComposeURL opens the compose dialog on x.com
	DefaultComposeURL = "https://x.com/compose/post"

	appDirName = "virality"
)

// BrowserConfig controls the chromedp compose-surface locator
type BrowserConfig struct {
	Headless    bool          `yaml:"headless"`
	PageURL     string        `yaml:"page_url"`
	ProfileURL  string        `yaml:"profile_url"`
	UserDataDir string        `yaml:"user_data_dir"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

// ClientConfig is the host CLI's configuration
type ClientConfig struct {
	RelayURL     string        `yaml:"relay_url"`
	DataDir      string        `yaml:"data_dir"`
	SyncRedisURL string        `yaml:"sync_redis_url"`
	Cooldown     time.Duration `yaml:"cooldown"`
	Browser      BrowserConfig `yaml:"browser"`
}

// DefaultClientConfigPath returns $XDG_CONFIG_HOME/virality/config.yaml (or the platform equivalent)
func DefaultClientConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, "config.yaml"), nil
}

// DefaultClientConfig returns the configuration used when no file exists
func DefaultClientConfig() *ClientConfig {
	dataDir := ""
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, appDirName)
	}
	return &ClientConfig{
		RelayURL: DefaultRelayURL,
		DataDir:  dataDir,
		Cooldown: DefaultCooldown,
		Browser: BrowserConfig{
			Headless:    false,
			PageURL:     DefaultComposeURL,
			WaitTimeout: 30 * time.Second,
		},
	}
}

// LoadClient reads the YAML file at path (the default path when empty), then applies
// VIRALITY_RELAY_URL, VIRALITY_DATA_DIR and VIRALITY_SYNC_REDIS_URL. A missing file is not an error.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path == "" {
		p, err := DefaultClientConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.RelayURL = getEnv("VIRALITY_RELAY_URL", cfg.RelayURL)
	cfg.DataDir = getEnv("VIRALITY_DATA_DIR", cfg.DataDir)
	cfg.SyncRedisURL = getEnv("VIRALITY_SYNC_REDIS_URL", cfg.SyncRedisURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the relay URL and fills zero durations with defaults
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.RelayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("relay_url must be an http(s) URL, got %q", c.RelayURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.Browser.PageURL == "" {
		c.Browser.PageURL = DefaultComposeURL
	}
	if c.Browser.WaitTimeout <= 0 {
		c.Browser.WaitTimeout = 30 * time.Second
	}
	return nil
}

// WriteClient writes cfg as YAML to path, creating its directory
func WriteClient(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
