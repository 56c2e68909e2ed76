package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/digimark/internal/storage"
)

// Auth modes.
const (
	AuthModeSession = "session"
	AuthModeJWT     = "jwt"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Store   StoreConfig       `yaml:"store"`
	Auth    AuthConfig        `yaml:"auth"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects the persistence driver.
//
// Path is the data directory for "file" and the database file for "sqlite";
// DSN is the connection string for "postgres". Watch enables detection of
// changes made by other processes (file driver only).
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	needsPath := c.Driver == storage.DriverFile || c.Driver == storage.DriverSQLite
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(storage.DriverMemory, storage.DriverFile, storage.DriverSQLite, storage.DriverPostgres)),
		validation.Field(&c.Path, validation.When(needsPath, validation.Required)),
		validation.Field(&c.DSN, validation.When(c.Driver == storage.DriverPostgres, validation.Required)),
	)
}

// Options converts the configuration to storage options.
func (c *StoreConfig) Options() storage.Options {
	return storage.Options{Driver: c.Driver, Path: c.Path, DSN: c.DSN}
}

// AuthConfig holds authentication configuration.
//
// Mode controls how the acting user is resolved:
//   - "session" (default): the stored current-user pointer, shared by all clients.
//   - "jwt": login returns an HS256 token; Secret must be non-empty.
type AuthConfig struct {
	Mode   string        `yaml:"mode"`
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeSession
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeSession, AuthModeJWT)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeJWT && c.Secret == "" {
		return fmt.Errorf("auth: mode is %q but secret is empty", AuthModeJWT)
	}
	return nil
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the metrics configuration.
func (c *MetricsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Driver: storage.DriverFile,
			Path:   "./data",
			Watch:  true,
		},
		Auth: AuthConfig{
			Mode: AuthModeSession,
			TTL:  24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
