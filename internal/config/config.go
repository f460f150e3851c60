// Package config handles the XDG configuration directory, the optional
// config.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tasklist/internal/store"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultSQLiteFile is the database filename used by the sqlite backend.
	DefaultSQLiteFile = "tasks.db"

	// DefaultGoogleList is the title of the Google Tasks list holding the blob.
	DefaultGoogleList = "tasklist-store"
)

// Backend names.
const (
	BackendSQLite      = "sqlite"
	BackendMySQL       = "mysql"
	BackendPostgres    = "postgres"
	BackendGoogleTasks = "googletasks"
)

// Theme names.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Environment overrides.
const (
	EnvBackend     = "TASKLIST_BACKEND"
	EnvMySQLDSN    = "TASKLIST_MYSQL_DSN"
	EnvPostgresDSN = "TASKLIST_POSTGRES_DSN"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Backend selects the durable store.
	Backend string `yaml:"backend"`

	// Key is the store key the task list is saved under.
	Key string `yaml:"key"`

	// SQLitePath is the database file; relative paths resolve against Dir.
	SQLitePath string `yaml:"sqlite_path"`

	MySQLDSN    string `yaml:"mysql_dsn"`
	PostgresDSN string `yaml:"postgres_dsn"`

	// GoogleList is the title of the Google Tasks list used for storage.
	GoogleList string `yaml:"google_list"`

	// Theme is the initial color scheme of the terminal UI.
	Theme string `yaml:"theme"`
}

// New creates a Config with defaults for the given config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:        dir,
		Backend:    BackendSQLite,
		Key:        store.DefaultKey,
		SQLitePath: DefaultSQLiteFile,
		GoogleList: DefaultGoogleList,
		Theme:      ThemeAuto,
	}, nil
}

// Load creates a Config for configDir, then applies config.yaml (if present),
// environment overrides and a non-empty backend flag, and validates the result.
func Load(configDir, backend string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.FilePath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg.applyEnv()
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvMySQLDSN); v != "" {
		c.MySQLDSN = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.PostgresDSN = v
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendSQLite, BackendGoogleTasks:
	case BackendMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("mysql backend requires mysql_dsn or %s", EnvMySQLDSN)
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires postgres_dsn or %s", EnvPostgresDSN)
		}
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}

	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("key must not be empty")
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	switch c.Theme {
	case "":
		c.Theme = ThemeAuto
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme: %s", c.Theme)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DatabasePath returns the SQLite database path.
func (c *Config) DatabasePath() string {
	if c.SQLitePath == "" {
		return filepath.Join(c.Dir, DefaultSQLiteFile)
	}
	if filepath.IsAbs(c.SQLitePath) {
		return c.SQLitePath
	}
	return filepath.Join(c.Dir, c.SQLitePath)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
