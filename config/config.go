package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName    string          `yaml:"service_name" validate:"required"`
	LogLevel       string          `yaml:"loglevel" validate:"required"`
	Host           string          `yaml:"host" validate:"required"`
	Port           string          `yaml:"port" validate:"required"`
	PrivateKeyPath string          `yaml:"private_key_path" validate:"required"`
	Database       Database        `yaml:"database" validate:"required"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Session        SessionConfig   `yaml:"session"`
	Client         ClientConfig    `yaml:"client"`
}

type Database struct {
	Type string `yaml:"type" validate:"required,oneof=mongo postgres"`
	// For MongoDB, validated only when selected
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"-"`
	// For PostgreSQL, validated only when selected
	Postgres PostgresConfig `yaml:"postgres_config" validate:"-"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn" validate:"required"`
	DatabaseName     string             `yaml:"database_name" validate:"required"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections" validate:"required"`
	ValidFields      []string           `yaml:"valid_fields" validate:"required"`
}

type PostgresConfig struct {
	DSN         string                `yaml:"dsn" validate:"required"`
	Options     PostgresServerOptions `yaml:"postgres_server_options"`
	ValidTables []string              `yaml:"valid_tables" validate:"required"`
	ValidFields []string              `yaml:"valid_fields" validate:"required"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RateLimitConfig bounds the identifier check and login routes.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// SessionConfig sets the lifetime of the cookies issued by the service.
type SessionConfig struct {
	CheckedIDTTL time.Duration `yaml:"checked_id_ttl"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// ClientConfig is read by signupctl to reach a running service.
type ClientConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration and the settings of the selected database.
func (c *ServiceConfig) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var dbConfig interface{}
	switch c.Database.Type {
	case DatabaseMongo:
		dbConfig = c.Database.MongoDB
	case DatabasePostgres:
		dbConfig = c.Database.Postgres
	}
	if err := validate.Struct(dbConfig); err != nil {
		return fmt.Errorf("%s database validation error: %w", c.Database.Type, err)
	}

	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
