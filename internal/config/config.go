package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration.
type Config struct {
	AppPort     string
	BodyLimitMB int

	Database Database
	Images   Images
	RabbitMQ RabbitMQ
	Log      Log

	SeedCategories bool
}

// Database holds the persistent store settings.
type Database struct {
	Driver string
	DSN    string
}

// Images holds the settings of the product image directory.
type Images struct {
	Dir       string
	URLPrefix string
	MaxSizeMB int
}

// RabbitMQ holds the broker settings. An empty URL disables event publication.
type RabbitMQ struct {
	URL      string
	Exchange string
}

// Log holds the logger settings.
type Log struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BODY_LIMIT_MB", 8)
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "liberty.db")
	v.SetDefault("IMAGE_DIR", "wwwroot/assets/images")
	v.SetDefault("IMAGE_URL_PREFIX", "/assets/images")
	v.SetDefault("IMAGE_MAX_SIZE_MB", 2)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "product")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", LogFormatText)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SEED_CATEGORIES", true)
}

// Load reads the configuration from v, falling back to defaults for unset keys.
// Environment variables override defaults.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:     v.GetString("APP_PORT"),
		BodyLimitMB: v.GetInt("BODY_LIMIT_MB"),
		Database: Database{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Images: Images{
			Dir:       v.GetString("IMAGE_DIR"),
			URLPrefix: v.GetString("IMAGE_URL_PREFIX"),
			MaxSizeMB: v.GetInt("IMAGE_MAX_SIZE_MB"),
		},
		RabbitMQ: RabbitMQ{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
		SeedCategories: v.GetBool("SEED_CATEGORIES"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}
	if c.Images.Dir == "" {
		return fmt.Errorf("IMAGE_DIR must not be empty")
	}
	if c.Images.MaxSizeMB <= 0 {
		return fmt.Errorf("IMAGE_MAX_SIZE_MB must be positive, got %d", c.Images.MaxSizeMB)
	}
	// Oversized images have to reach the service to be reported as a field error.
	if c.BodyLimitMB <= c.Images.MaxSizeMB {
		return fmt.Errorf("BODY_LIMIT_MB (%d) must exceed IMAGE_MAX_SIZE_MB (%d)", c.BodyLimitMB, c.Images.MaxSizeMB)
	}
	return nil
}
