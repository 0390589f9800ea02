// Package config loads process settings: an optional YAML file, then a .env
// file, then environment variables, each overriding the previous.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nexuscrm/builder/internal/infrastructure/database"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	"gopkg.in/yaml.v3"
)

// Storage drivers accepted by SCHEMA_STORAGE
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageMySQL  = "mysql"
	StorageRedis  = "redis"
)

// MySQLConfig holds the connection parts of the MySQL/TiDB repository
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig holds the Redis repository settings
type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}

// Config is the resolved configuration of the server and CLI
type Config struct {
	Port     string      `yaml:"port"`
	Env      string      `yaml:"env"`
	LogLevel string      `yaml:"logLevel"`
	Storage  string      `yaml:"storage"`
	DataDir  string      `yaml:"dataDir"`
	AutoSave bool        `yaml:"autoSave"`
	MySQL    MySQLConfig `yaml:"mysql"`
	Redis    RedisConfig `yaml:"redis"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:     "3001",
		Env:      "development",
		LogLevel: "info",
		Storage:  StorageFile,
		DataDir:  "./data",
		AutoSave: true,
		MySQL:    MySQLConfig{Port: "3306"},
		Redis:    RedisConfig{Prefix: persistence.DefaultRedisPrefix},
	}
}

// Load resolves the configuration. path names an optional YAML file; an empty
// path skips it. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("APP_ENV", &c.Env)
	str("LOG_LEVEL", &c.LogLevel)
	str("SCHEMA_STORAGE", &c.Storage)
	str("SCHEMA_DATA_DIR", &c.DataDir)
	str("MYSQL_HOST", &c.MySQL.Host)
	str("MYSQL_PORT", &c.MySQL.Port)
	str("MYSQL_USER", &c.MySQL.User)
	str("MYSQL_PASSWORD", &c.MySQL.Password)
	str("MYSQL_DATABASE", &c.MySQL.Database)
	str("REDIS_URL", &c.Redis.URL)
	str("REDIS_PREFIX", &c.Redis.Prefix)

	if v, ok := lookup("SCHEMA_AUTOSAVE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEMA_AUTOSAVE %q: %w", v, err)
		}
		c.AutoSave = b
	}
	c.Storage = strings.ToLower(c.Storage)
	return nil
}

// Validate rejects unknown storage drivers and incomplete connection settings
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("SCHEMA_DATA_DIR is required for file storage"))
		}
	case StorageMySQL:
		if c.MySQL.Host == "" {
			errs = append(errs, errors.New("MYSQL_HOST is required for mysql storage"))
		}
		if c.MySQL.User == "" {
			errs = append(errs, errors.New("MYSQL_USER is required for mysql storage"))
		}
		if c.MySQL.Database == "" {
			errs = append(errs, errors.New("MYSQL_DATABASE is required for mysql storage"))
		}
	case StorageRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown schema storage %q", c.Storage))
	}
	return errors.Join(errs...)
}

// DatabaseSettings maps the MySQL section onto connection settings
func (c Config) DatabaseSettings() database.Settings {
	return database.Settings{
		Host:     c.MySQL.Host,
		Port:     c.MySQL.Port,
		User:     c.MySQL.User,
		Password: c.MySQL.Password,
		Database: c.MySQL.Database,
	}
}

// Addr is the listen address of the HTTP server
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
