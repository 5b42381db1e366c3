package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/loadline/pkg/storage"
)

// Storage backends.
const (
	BackendFilesystem = "filesystem"
	BackendSQLite     = "sqlite"
)

// Environment overrides.
const (
	EnvStorageBackend = "LOADLINE_STORAGE_BACKEND"
	EnvSQLitePath     = "LOADLINE_SQLITE_PATH"
	EnvLogLevel       = "LOADLINE_LOG_LEVEL"
	EnvServerAddr     = "LOADLINE_SERVER_ADDR"
)

// Duration is a time.Duration written as "30s" in YAML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	d.Duration = parsed
	return nil
}

type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

type ForecastConfig struct {
	DefaultMonths int      `yaml:"default_months"`
	Workers       int      `yaml:"workers"`
	FetchTimeout  Duration `yaml:"fetch_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the workspace configuration stored in .loadline/config.yaml.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Forecast ForecastConfig `yaml:"forecast"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage:  StorageConfig{Backend: BackendFilesystem},
		Forecast: ForecastConfig{DefaultMonths: 6, FetchTimeout: Duration{30 * time.Second}},
		Log:      LogConfig{Level: "info", Format: "console"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFilesystem, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendFilesystem, BackendSQLite)
	}
	if c.Forecast.DefaultMonths <= 0 {
		return fmt.Errorf("forecast.default_months must be positive, got %d", c.Forecast.DefaultMonths)
	}
	if c.Forecast.Workers < 0 {
		return fmt.Errorf("forecast.workers must not be negative, got %d", c.Forecast.Workers)
	}
	if c.Forecast.FetchTimeout.Duration < 0 {
		return fmt.Errorf("forecast.fetch_timeout must not be negative")
	}
	return nil
}

// SQLitePath returns the database path, relative paths resolved against root.
func (c *Config) SQLitePath(root string) string {
	path := c.Storage.SQLitePath
	if path == "" {
		return filepath.Join(root, storage.WorkspaceDir, storage.DatabaseFile)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// LoadConfig reads .loadline/config.yaml under root, fills unset values from
// Default and applies environment overrides. A missing file is not an error.
func LoadConfig(root string) (*Config, error) {
	cfg := Default()

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)
	fillDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the configuration to .loadline/config.yaml.
func SaveConfig(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSQLitePath)); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
}

// fillDefaults restores values a partial file left empty.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Forecast.DefaultMonths == 0 {
		cfg.Forecast.DefaultMonths = def.Forecast.DefaultMonths
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
}
