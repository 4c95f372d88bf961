package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. GOLDEN_DATABASE_HOST.
const EnvPrefix = "GOLDEN"

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all configuration for the ordering and chef services
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Storage  StorageConfig  `yaml:"storage"`
	HTTP     HTTPConfig     `yaml:"http"`
	Media    MediaConfig    `yaml:"media"`
	Telegram TelegramConfig `yaml:"telegram"`
	LogLevel string         `yaml:"log_level" split_words:"true"`
}

// DatabaseConfig holds database connection configuration. A zero Port
// means the default port of the configured storage driver.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// StorageConfig selects the menu persistence backend
type StorageConfig struct {
	Driver          string `yaml:"driver"`
	SeedDefaultMenu bool   `yaml:"seed_default_menu" split_words:"true"`
	// CatalogReloadInterval polls a shared SQL store when no menu update
	// events arrive over RabbitMQ; zero disables polling.
	CatalogReloadInterval time.Duration `yaml:"catalog_reload_interval" split_words:"true"`
}

type HTTPConfig struct {
	OrderingPort int           `yaml:"ordering_port" split_words:"true"`
	ChefPort     int           `yaml:"chef_port" split_words:"true"`
	SessionTTL   time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`
}

type MediaConfig struct {
	Directory string `yaml:"directory"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id" envconfig:"CHAT_ID"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "restaurant_user",
			Database: "golden_palette",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			User: "guest",
		},
		Storage: StorageConfig{
			Driver:                DriverMemory,
			SeedDefaultMenu:       true,
			CatalogReloadInterval: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			OrderingPort: 3000,
			ChefPort:     3001,
			SessionTTL:   30 * time.Minute,
		},
		Media: MediaConfig{
			Directory: "assets",
		},
		LogLevel: "debug",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// filename, a .env file and GOLDEN_* environment variables, in that order.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		content, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(content, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config file %s", filename)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, "failed to open config file")
		}
	}

	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	if c.Database.Port < 0 {
		return fmt.Errorf("database.port must not be negative")
	}
	if c.Storage.CatalogReloadInterval < 0 {
		return fmt.Errorf("storage.catalog_reload_interval must not be negative")
	}
	if c.HTTP.SessionTTL < 0 {
		return fmt.Errorf("http.session_ttl must not be negative")
	}
	return nil
}

// Default database ports per storage driver
const (
	DefaultPostgresPort = 5432
	DefaultMySQLPort    = 3306
)

func (c *Config) databasePort(fallback int) int {
	if c.Database.Port > 0 {
		return c.Database.Port
	}
	return fallback
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.databasePort(DefaultPostgresPort), c.Database.Database)
}

// MySQLDSN returns a go-sql-driver/mysql data source name
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		c.Database.User, c.Database.Password, c.Database.Host, c.databasePort(DefaultMySQLPort), c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
