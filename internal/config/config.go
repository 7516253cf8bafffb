package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. TASKTABLE_API_BASEURL
const EnvPrefix = "TASKTABLE"

// configNames are the project config files, in lookup order
var configNames = []string{".tasktable.json", ".tasktable.yaml", ".tasktable.yml"}

// Config represents the full tasktable configuration
type Config struct {
	API     APIConfig     `json:"api" yaml:"api" mapstructure:"api"`
	Project ProjectConfig `json:"project" yaml:"project" mapstructure:"project"`
	Table   TableConfig   `json:"table" yaml:"table" mapstructure:"table"`
	Health  HealthConfig  `json:"health" yaml:"health" mapstructure:"health"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// APIConfig contains the task backend settings
type APIConfig struct {
	BaseURL   string `json:"baseURL" yaml:"baseURL" mapstructure:"baseURL"`
	TimeoutMs int    `json:"timeoutMs" yaml:"timeoutMs" mapstructure:"timeoutMs"`
}

// ProjectConfig selects the project whose tasks are shown
type ProjectConfig struct {
	ID string `json:"id" yaml:"id" mapstructure:"id"`
}

// TableConfig contains table presentation settings
type TableConfig struct {
	DefaultSort      string `json:"defaultSort" yaml:"defaultSort" mapstructure:"defaultSort"`
	DefaultDirection string `json:"defaultDirection" yaml:"defaultDirection" mapstructure:"defaultDirection"`
}

// HealthConfig contains backend health polling settings
type HealthConfig struct {
	IntervalSec int `json:"intervalSec" yaml:"intervalSec" mapstructure:"intervalSec"`
}

// ServerConfig contains settings for the local backend
type ServerConfig struct {
	Addr   string `json:"addr" yaml:"addr" mapstructure:"addr"`
	DBPath string `json:"dbPath" yaml:"dbPath" mapstructure:"dbPath"`
}

// LogConfig contains logging settings
type LogConfig struct {
	File  string `json:"file" yaml:"file" mapstructure:"file"`
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8420",
			TimeoutMs: 10000,
		},
		Project: ProjectConfig{
			ID: "default",
		},
		Table: TableConfig{
			DefaultSort:      "",
			DefaultDirection: string(domain.SortAsc),
		},
		Health: HealthConfig{
			IntervalSec: 30,
		},
		Server: ServerConfig{
			Addr:   "localhost:8420",
			DBPath: filepath.Join(homeDir, ".tasktable", "tasks.db"),
		},
		Log: LogConfig{
			File:  "",
			Level: "warn",
		},
	}
}

// LoadConfig loads configuration for a project directory with priority:
// 1. TASKTABLE_* environment variables
// 2. .tasktable.json / .tasktable.yaml in the project directory (with version migration support)
// 3. Defaults
//
// CLI flags are applied on top by the caller.
func LoadConfig(projectPath string) (*Config, error) {
	v := newViper()

	if path := findConfigFile(projectPath); path != "" {
		fv := viper.New()
		fv.SetConfigFile(path)
		if err := fv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}

		settings, err := MigrateSettings(fv.AllSettings())
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", filepath.Base(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	MergeWithDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newViper returns a viper instance seeded with the defaults and bound to the environment
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so that AutomaticEnv covers it during Unmarshal
	d := DefaultConfig()
	v.SetDefault("api.baseURL", d.API.BaseURL)
	v.SetDefault("api.timeoutMs", d.API.TimeoutMs)
	v.SetDefault("project.id", d.Project.ID)
	v.SetDefault("table.defaultSort", d.Table.DefaultSort)
	v.SetDefault("table.defaultDirection", d.Table.DefaultDirection)
	v.SetDefault("health.intervalSec", d.Health.IntervalSec)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.dbPath", d.Server.DBPath)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	return v
}

// findConfigFile returns the first project config file that exists, or ""
func findConfigFile(projectPath string) string {
	for _, name := range configNames {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = defaults.API.TimeoutMs
	}

	if cfg.Project.ID == "" {
		cfg.Project.ID = defaults.Project.ID
	}

	if cfg.Table.DefaultDirection == "" {
		cfg.Table.DefaultDirection = defaults.Table.DefaultDirection
	}

	if cfg.Health.IntervalSec == 0 {
		cfg.Health.IntervalSec = defaults.Health.IntervalSec
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = defaults.Server.DBPath
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return cfg
}

// Validate checks values that cannot be defaulted away
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.baseURL %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.TimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("api.timeoutMs must not be negative"))
	}
	if c.Health.IntervalSec < 0 {
		errs = append(errs, fmt.Errorf("health.intervalSec must not be negative"))
	}
	if !domain.SortField(c.Table.DefaultSort).Valid() {
		errs = append(errs, fmt.Errorf("table.defaultSort %q is not a sortable column", c.Table.DefaultSort))
	}
	switch domain.SortOrder(c.Table.DefaultDirection) {
	case domain.SortAsc, domain.SortDesc:
	default:
		errs = append(errs, fmt.Errorf("table.defaultDirection %q must be asc or desc", c.Table.DefaultDirection))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Timeout is the per-request deadline for backend calls
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// HealthInterval is the delay between backend health checks; zero disables polling
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Health.IntervalSec) * time.Second
}

// InitialSort is the sort applied when the table opens
func (c *Config) InitialSort() domain.Sort {
	field := domain.SortField(c.Table.DefaultSort)
	if field == domain.SortNone || !field.Valid() {
		return domain.Sort{}
	}
	order := domain.SortOrder(c.Table.DefaultDirection)
	if order != domain.SortDesc {
		order = domain.SortAsc
	}
	return domain.Sort{Field: field, Order: order}
}

// ParseLevel maps a config level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log.level %q is not one of debug, info, warn, error", level)
	}
	return l, nil
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}
