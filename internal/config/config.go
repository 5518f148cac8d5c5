package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yigit/nnpgpt/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL       string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		StoragePath     string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Enabled         bool   `yaml:"enabled" env:"DB_ENABLED"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Catalog struct {
		Source string `yaml:"source" env:"CATALOG_SOURCE"`
		Path   string `yaml:"path" env:"CATALOG_PATH"`
	} `yaml:"catalog"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
	} `yaml:"redis"`

	Session struct {
		OverlayDuration string `yaml:"overlay_duration" env:"SESSION_OVERLAY_DURATION"`
		IdleTTL         string `yaml:"idle_ttl" env:"SESSION_IDLE_TTL"`
		SweepInterval   string `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL"`
		CacheTTL        string `yaml:"cache_ttl" env:"SESSION_CACHE_TTL"`
		MaxNodes        int    `yaml:"max_nodes" env:"SESSION_MAX_NODES"`
	} `yaml:"session"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Auth holds bcrypt hashes of the passcodes guarding staff roles.
	// An empty hash leaves the role open.
	Auth struct {
		LecturerPasscodeHash string `yaml:"lecturer_passcode_hash" env:"AUTH_LECTURER_PASSCODE_HASH"`
		AdminPasscodeHash    string `yaml:"admin_passcode_hash" env:"AUTH_ADMIN_PASSCODE_HASH"`
	} `yaml:"auth"`

	Theme struct {
		Path    string `yaml:"path" env:"THEME_DB_PATH"`
		Default string `yaml:"default" env:"THEME_DEFAULT"`
	} `yaml:"theme"`

	RateLimit struct {
		LoginPerSecond float64 `yaml:"login_per_second" env:"RATE_LIMIT_LOGIN_PER_SECOND"`
		LoginBurst     int     `yaml:"login_burst" env:"RATE_LIMIT_LOGIN_BURST"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "storage/documents"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Enabled = false
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "nnpgpt"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Catalog.Source = CatalogSourceFile
	config.Catalog.Path = "configs/catalog.yaml"

	config.Redis.Addr = "localhost:6379"
	config.Redis.Prefix = "nnpgpt"

	config.Session.OverlayDuration = "400ms"
	config.Session.IdleTTL = "30m"
	config.Session.SweepInterval = "1m"
	config.Session.CacheTTL = "15m"
	config.Session.MaxNodes = 1000

	config.JWT.AccessTokenExpiration = "8h"
	config.JWT.Issuer = "nnpgpt"

	config.Theme.Path = "storage/theme.db"
	config.Theme.Default = "light"

	config.RateLimit.LoginPerSecond = 5
	config.RateLimit.LoginBurst = 10

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config, os.LookupEnv)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"session overlay duration":    config.Session.OverlayDuration,
		"session idle TTL":            config.Session.IdleTTL,
		"session sweep interval":      config.Session.SweepInterval,
		"session cache TTL":           config.Session.CacheTTL,
		"server shutdown timeout":     config.Server.ShutdownTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.Catalog.Source {
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for the file catalog")
		}
	case CatalogSourcePostgres:
		if !config.Database.Enabled {
			return fmt.Errorf("postgres catalog requires database.enabled")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}

	if config.Database.Enabled {
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if config.Session.MaxNodes <= 0 {
		return fmt.Errorf("session max nodes must be positive")
	}

	switch strings.ToLower(config.Theme.Default) {
	case "light", "dark":
	default:
		return fmt.Errorf("theme default must be light or dark, got %q", config.Theme.Default)
	}

	if config.RateLimit.LoginPerSecond <= 0 || config.RateLimit.LoginBurst <= 0 {
		return fmt.Errorf("login rate limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL is the externally visible origin used to build document URLs
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

func (c *Config) OverlayDuration() time.Duration {
	return helpers.ParseDuration(c.Session.OverlayDuration, 400*time.Millisecond)
}

func (c *Config) SessionIdleTTL() time.Duration {
	return helpers.ParseDuration(c.Session.IdleTTL, 30*time.Minute)
}

func (c *Config) SweepInterval() time.Duration {
	return helpers.ParseDuration(c.Session.SweepInterval, time.Minute)
}

func (c *Config) CacheTTL() time.Duration {
	return helpers.ParseDuration(c.Session.CacheTTL, 15*time.Minute)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return helpers.ParseDuration(c.JWT.AccessTokenExpiration, 8*time.Hour)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}
