// Package config loads the server configuration.
//
// Values are resolved in three layers, later layers winning: built-in defaults,
// an optional YAML file, then environment variables (a local .env file is read
// into the environment first when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"shift_scheduler_backend/pkg/utils"
)

// Environment names the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the full server configuration.
type Config struct {
	Environment Environment    `yaml:"environment"`
	Port        string         `yaml:"port"`
	LogLevel    string         `yaml:"log_level"`
	Database    DatabaseConfig `yaml:"database"`
	Session     SessionConfig  `yaml:"session"`
	CORS        CORSConfig     `yaml:"cors"`
	Notify      NotifyConfig   `yaml:"notify"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite3".
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the SQLite database file.
	Path        string `yaml:"path"`
	ApplySchema bool   `yaml:"apply_schema"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type NotifyConfig struct {
	TelegramToken string `yaml:"telegram_token"`
	Workers       int    `yaml:"workers"`
	QueueSize     int    `yaml:"queue_size"`
}

// ErrUnknownDriver is returned by Validate for unsupported database drivers.
var ErrUnknownDriver = errors.New("unknown database driver")

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Environment: Development,
		Port:        "8080",
		LogLevel:    "info",
		Database: DatabaseConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        "5432",
			User:        "shift_scheduler",
			Password:    "shift_scheduler",
			Name:        "shift_scheduler",
			SSLMode:     "disable",
			Path:        "shift-scheduler.db",
			ApplySchema: true,
		},
		Session: SessionConfig{
			TTL: 4 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Notify: NotifyConfig{
			Workers:   2,
			QueueSize: 64,
		},
	}
}

// Load builds the configuration. path may be empty, in which case SHIFTS_CONFIG
// is consulted; a missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("SHIFTS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Environment = Environment(utils.Getenv("APP_ENV", string(c.Environment)))
	c.Port = utils.Getenv("PORT", c.Port)
	c.LogLevel = utils.Getenv("LOG_LEVEL", c.LogLevel)

	c.Database.Driver = utils.Getenv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = utils.Getenv("DB_HOST", c.Database.Host)
	c.Database.Port = utils.Getenv("DB_PORT", c.Database.Port)
	c.Database.User = utils.Getenv("DB_USER", c.Database.User)
	c.Database.Password = utils.Getenv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = utils.Getenv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = utils.Getenv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Path = utils.Getenv("DB_PATH", c.Database.Path)
	c.Database.ApplySchema = utils.GetenvBool("DB_APPLY_SCHEMA", c.Database.ApplySchema)

	c.Session.Secret = utils.Getenv("SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = utils.GetenvDuration("SESSION_TTL", c.Session.TTL)
	c.Session.CookieSecure = utils.GetenvBool("SESSION_COOKIE_SECURE", c.Session.CookieSecure || c.Environment == Production)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = strings.Split(origins, ",")
	}

	c.Notify.TelegramToken = utils.Getenv("TELEGRAM_TOKEN", c.Notify.TelegramToken)
	c.Notify.Workers = utils.GetenvInt("NOTIFY_WORKERS", c.Notify.Workers)
	c.Notify.QueueSize = utils.GetenvInt("NOTIFY_QUEUE_SIZE", c.Notify.QueueSize)
}

// Validate checks the configuration for values the server cannot run with.
// Outside production an empty session secret is replaced with a fixed
// development secret.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.Session.Secret == "" {
		if c.Environment == Production {
			return errors.New("SESSION_SECRET is required in production")
		}
		c.Session.Secret = "development-only-session-secret"
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool { return c.Environment == Production }

// PostgresDSN renders the lib/pq connection string.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
