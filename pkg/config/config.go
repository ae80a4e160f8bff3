// Package config loads the catalog TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/catalog/pkg/paginate"
)

//go:embed config.toml.sample
var configTemplate string

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	DatabasePath   string    `toml:"database_path"`
	AttachmentsDir string    `toml:"attachments_dir"`
	Web            WebConfig `toml:"web"`
	API            APIConfig `toml:"api"`
	Log            LogConfig `toml:"log"`
}

type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// BaseURL fixes scheme and host of pagination links, e.g. when the
	// server runs behind a proxy. Empty means links follow the request.
	BaseURL string `toml:"base_url"`
}

type APIConfig struct {
	// Tokens accepted by the JSON API. Empty leaves the API open.
	Tokens         []string `toml:"tokens"`
	DefaultPerPage int      `toml:"default_per_page"`
	MaxPerPage     int      `toml:"max_per_page"`
	// RateLimit is requests per second per client. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

type LogConfig struct {
	Debug      bool   `toml:"debug"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Limits returns the page size limits of the API.
func (a APIConfig) Limits() paginate.Limits {
	return paginate.Limits{Default: a.DefaultPerPage, Max: a.MaxPerPage}
}

func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

func GetDefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads configPath. A missing file yields the defaults. Unset
// fields are filled with defaults and the result is validated.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() error {
	if c.DatabasePath == "" || c.AttachmentsDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return fmt.Errorf("getting default storage directory: %w", err)
		}
		if c.DatabasePath == "" {
			c.DatabasePath = filepath.Join(storageDir, "catalog.db")
		}
		if c.AttachmentsDir == "" {
			c.AttachmentsDir = filepath.Join(storageDir, "attachments")
		}
	}

	if c.Web.Host == "" {
		c.Web.Host = "localhost"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.API.DefaultPerPage == 0 {
		c.API.DefaultPerPage = paginate.DefaultPerPage
	}
	if c.API.MaxPerPage == 0 {
		c.API.MaxPerPage = paginate.MaxPerPage
	}
	return nil
}

// Validate reports settings that can't be served.
func (c *Config) Validate() error {
	var problems []string
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		problems = append(problems, fmt.Sprintf("web.port %d out of range", c.Web.Port))
	}
	if c.API.DefaultPerPage < 1 {
		problems = append(problems, "api.default_per_page must be positive")
	}
	if c.API.MaxPerPage < c.API.DefaultPerPage {
		problems = append(problems, "api.max_per_page must not be below api.default_per_page")
	}
	if c.API.RateLimit < 0 || c.API.RateBurst < 0 {
		problems = append(problems, "api.rate_limit and api.rate_burst must not be negative")
	}
	if c.API.RateLimit > 0 && c.API.RateBurst == 0 {
		problems = append(problems, "api.rate_burst must be set when api.rate_limit is")
	}
	if c.Web.BaseURL != "" && !strings.HasPrefix(c.Web.BaseURL, "http://") && !strings.HasPrefix(c.Web.BaseURL, "https://") {
		problems = append(problems, "web.base_url must start with http:// or https://")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration with this
// config's storage paths filled in.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(c.generateConfigTemplate()), 0644)
}

func (c *Config) generateConfigTemplate() string {
	r := strings.NewReplacer(
		"/home/user/.local/share/catalog/catalog.db", c.DatabasePath,
		"/home/user/.local/share/catalog/attachments", c.AttachmentsDir,
	)
	return r.Replace(configTemplate)
}

// GetDefaultStorageDir returns $XDG_DATA_HOME/catalog, creating it.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "catalog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/catalog, creating it.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "catalog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
