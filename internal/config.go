package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type Config struct {
	Environment   string              `mapstructure:"environment" env:"APP_ENV" envDefault:"development"`
	Server        ServerConfig        `mapstructure:"http_server" envPrefix:"HTTP_"`
	Storage       StorageConfig       `mapstructure:"storage" envPrefix:"STORAGE_"`
	Roster        RosterConfig        `mapstructure:"roster" envPrefix:"ROSTER_"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url" env:"BASE_URL"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS" envDefault:"*"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT" envDefault:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT" envDefault:"15s"`
	OpenAPIPath       string        `mapstructure:"openapi_path" env:"OPENAPI_PATH" envDefault:"./api/openapi.yml"`
}

type StorageConfig struct {
	Driver          string        `mapstructure:"driver" env:"DRIVER" envDefault:"sqlite" validate:"required,oneof=postgres sqlite redis memory"`
	Source          string        `mapstructure:"source" env:"SOURCE" envDefault:"roster.db" validate:"required_unless=Driver memory"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS" envDefault:"10" validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS" envDefault:"5" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	Timeout         time.Duration `mapstructure:"timeout" env:"TIMEOUT" envDefault:"5s"`
	KeyPrefix       string        `mapstructure:"key_prefix" env:"KEY_PREFIX" envDefault:"roster:"`
	RedisPassword   string        `mapstructure:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"redis_db" env:"REDIS_DB" envDefault:"0" validate:"min=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate" env:"AUTO_MIGRATE" envDefault:"true"`
}

type RosterConfig struct {
	Timezone            string   `mapstructure:"timezone" env:"TIMEZONE" envDefault:"Europe/Belgrade"`
	DefaultShifts       []string `mapstructure:"default_shifts" env:"DEFAULT_SHIFTS" envSeparator:"|"`
	PositionDepartments []string `mapstructure:"position_departments" env:"POSITION_DEPARTMENTS" envSeparator:","`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics" envPrefix:"METRICS_"`
	Logging LoggingConfig `mapstructure:"logging" envPrefix:"LOG_"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"ENABLED" envDefault:"true"`
	Path    string `mapstructure:"path" env:"PATH" envDefault:"/metrics" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" env:"FORMAT" envDefault:"text" validate:"required,oneof=json text"`
}

// LoadConfigFromEnv builds the configuration from the process environment,
// reading .env files first when they exist.
func LoadConfigFromEnv() (*Config, error) {
	var files []string
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		errs = append(errs, err.Error())
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Roster.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("roster config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *StorageConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *RosterConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	for _, s := range c.DefaultShifts {
		if strings.TrimSpace(s) == "" {
			return errors.New("default_shifts cannot contain blank labels")
		}
	}
	return nil
}

func (c *RosterConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *RosterConfig) Layout() (roster.Layout, error) {
	return roster.NewLayout(c.PositionDepartments)
}

// Shifts returns the configured default shift labels, falling back to the built-in list.
func (c *RosterConfig) Shifts() []string {
	if len(c.DefaultShifts) == 0 {
		return roster.DefaultShifts
	}
	return c.DefaultShifts
}
