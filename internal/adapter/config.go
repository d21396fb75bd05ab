package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const (
	appName = "brickwork"

	defaultBaseURL = "https://rebrickable.com/api/v3/lego"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	Key     string        `mapstructure:"key"`      // Rebrickable API key
	BaseURL string        `mapstructure:"base_url"` // API root, no trailing slash
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // Empty = memory only (lists are lost on exit)
}

// UIConfig holds presentation configuration
type UIConfig struct {
	FallbackTheme string   `mapstructure:"fallback_theme"` // Label for unresolved themes
	NewArrivals   int      `mapstructure:"new_arrivals"`   // Sets shown on the home view
	Browser       string   `mapstructure:"browser"`        // Link opener, empty for system default
	BrowserArgs   []string `mapstructure:"browser_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		UI: UIConfig{
			FallbackTheme: "Other",
			NewArrivals:   8,
			BrowserArgs:   []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// newViper builds a viper instance seeded with defaults and env overrides
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("ui.fallback_theme", cfg.UI.FallbackTheme)
	v.SetDefault("ui.new_arrivals", cfg.UI.NewArrivals)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("ui.browser_args", cfg.UI.BrowserArgs)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides (BRICKWORK_API_KEY, ...)
	v.SetEnvPrefix("BRICKWORK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration from an explicit file, or the default
// search path when file is empty
func LoadConfigFrom(file string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to the default config file
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(filepath.Join(defaultConfigPath(), "config.yaml"), cfg)
}

// SaveConfigTo writes cfg to file, creating its directory
func SaveConfigTo(file string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("api.key", cfg.API.Key)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("ui.fallback_theme", cfg.UI.FallbackTheme)
	v.Set("ui.new_arrivals", cfg.UI.NewArrivals)
	v.Set("ui.browser", cfg.UI.Browser)
	v.Set("ui.browser_args", cfg.UI.BrowserArgs)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveAPIKey loads the current config, sets the API key and writes it back
func SaveAPIKey(key string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.API.Key = key
	return SaveConfig(cfg)
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return c.API.Key != ""
}
