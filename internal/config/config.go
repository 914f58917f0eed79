// Package config loads runtime configuration from the environment. A .env
// file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
)

// Environments select a connection profile.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// DefaultBatchSize is the number of rows per INSERT statement.
const DefaultBatchSize = 500

// Config is the complete application configuration
type Config struct {
	Env      string
	Database DatabaseConfig
	Logging  LoggingConfig
	Server   ServerConfig
	Load     LoaderConfig
}

// DatabaseConfig holds the store connection settings
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoaderConfig holds bulk load settings
type LoaderConfig struct {
	SourcePath string
	BatchSize  int
}

// profile is the per-environment database default.
type profile struct {
	driver   string
	host     string
	port     int
	user     string
	database string
	sslMode  string
}

var profiles = map[string]profile{
	EnvDevelopment: {driver: database.DriverSQLite, database: "data/bridges.db"},
	EnvTest:        {driver: database.DriverSQLite, database: ":memory:"},
	EnvProduction: {
		driver:   database.DriverPostgres,
		host:     "localhost",
		port:     5432,
		user:     "postgres",
		database: "bridges",
		sslMode:  "require",
	},
}

var defaultPorts = map[string]int{
	database.DriverPostgres: 5432,
	database.DriverMySQL:    3306,
}

// LoadConfig reads .env, then builds the configuration for BRIDGE_ENV
// (development when unset).
func LoadConfig() (*Config, error) {
	return LoadConfigFor("")
}

// LoadConfigFor is LoadConfig with an explicit environment. An empty env
// falls back to BRIDGE_ENV.
func LoadConfigFor(env string) (*Config, error) {
	_ = godotenv.Load()
	if env == "" {
		env = getEnv("BRIDGE_ENV", EnvDevelopment)
	}
	return ForEnv(env)
}

// ForEnv builds the configuration for env. Environment variables override
// the profile defaults.
func ForEnv(env string) (*Config, error) {
	p, ok := profiles[env]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q (want development, test or production)", env)
	}

	driver := getEnv("DB_DRIVER", p.driver)
	port := p.port
	if driver != p.driver {
		port = defaultPorts[driver]
	}

	cfg := &Config{
		Env: env,
		Database: DatabaseConfig{
			Driver:          driver,
			Host:            getEnv("DB_HOST", p.host),
			Port:            getEnvInt("DB_PORT", port),
			User:            getEnv("DB_USER", p.user),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", p.database),
			SSLMode:         getEnv("DB_SSLMODE", p.sslMode),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Load: LoaderConfig{
			SourcePath: getEnv("SOURCE_PATH", "source-data/BridgesExport_AllYear.csv"),
			BatchSize:  getEnvInt("LOAD_BATCH_SIZE", DefaultBatchSize),
		},
	}

	return cfg, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if _, ok := profiles[c.Env]; !ok {
		return fmt.Errorf("unknown environment %q", c.Env)
	}

	switch c.Database.Driver {
	case database.DriverSQLite:
		if c.Database.Database == "" {
			return fmt.Errorf("DB_NAME must name a sqlite file or :memory:")
		}
	case database.DriverPostgres, database.DriverMySQL:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for %s", c.Database.Driver)
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid DB_PORT %d", c.Database.Port)
		}
		if c.Database.Database == "" {
			return fmt.Errorf("DB_NAME is required for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("LOAD_BATCH_SIZE must be positive, got %d", c.Load.BatchSize)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Logging.Level)
	}

	return nil
}

// DatabaseOptions converts the database section for pkg/database.
func (c *Config) DatabaseOptions() *database.Config {
	return &database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SSLMode:         c.Database.SSLMode,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
	}
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.LogLevel {
	return logging.ParseLevel(c.Logging.Level)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
