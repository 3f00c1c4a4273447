package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the location of the Tasko API.
type ServerConfig struct {
	// BaseURL is the root URL of the Tasko site (e.g., https://tasko.example.com).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `mapstructure:"theme" yaml:"theme"`

	// Sort is the initial sort key: "date", "priority" or "title".
	Sort string `mapstructure:"sort" yaml:"sort"`

	// ListMode starts the board in list rather than grid layout.
	ListMode bool `mapstructure:"list_mode" yaml:"list_mode"`

	ToastMillis    int `mapstructure:"toast_ms" yaml:"toast_ms"`
	DebounceMillis int `mapstructure:"search_debounce_ms" yaml:"search_debounce_ms"`

	// DueScanSec is how often the due-date watcher runs.
	DueScanSec int `mapstructure:"due_scan_sec" yaml:"due_scan_sec"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigDir returns ~/.config/tasko.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tasko")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tasko/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Display: DisplayConfig{
			Theme:          "auto",
			Sort:           "date",
			ToastMillis:    4000,
			DebounceMillis: 300,
			DueScanSec:     60,
		},
		Log: LogConfig{
			Path:  filepath.Join(DefaultConfigDir(), "tasko.log"),
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// TASKO_* environment variables override file values (e.g.
// TASKO_SERVER_BASE_URL). If the file does not exist, defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tasko")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", def.Server.BaseURL)
	v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.sort", def.Display.Sort)
	v.SetDefault("display.list_mode", def.Display.ListMode)
	v.SetDefault("display.toast_ms", def.Display.ToastMillis)
	v.SetDefault("display.search_debounce_ms", def.Display.DebounceMillis)
	v.SetDefault("display.due_scan_sec", def.Display.DueScanSec)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		_, missing := err.(*os.PathError)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			missing = true
		}
		if !missing {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Server.TimeoutSec <= 0 {
		cfg.Server.TimeoutSec = def.Server.TimeoutSec
	}
	if cfg.Display.ToastMillis <= 0 {
		cfg.Display.ToastMillis = def.Display.ToastMillis
	}
	if cfg.Display.DebounceMillis < 0 {
		cfg.Display.DebounceMillis = def.Display.DebounceMillis
	}
	if cfg.Display.DueScanSec <= 0 {
		cfg.Display.DueScanSec = def.Display.DueScanSec
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
