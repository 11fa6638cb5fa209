package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"contactbook/internal/platform/logger"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// SQL drivers accepted by the sql backend; each is registered by a blank import in main.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full process configuration.
type Config struct {
	Server Server         `yaml:"server"`
	Store  StoreConfig    `yaml:"store"`
	Redis  RedisConfig    `yaml:"redis"`
	Kafka  KafkaConfig    `yaml:"kafka"`
	Log    logger.Options `yaml:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects where the directory snapshot lives.
type StoreConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	SQLDriver string `yaml:"sql_driver"`
	SQLDSN    string `yaml:"sql_dsn"`
}

// RedisConfig configures the go-redis client used by the redis backend.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	Key          string        `yaml:"key"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig enables audit publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	ClientID   string   `yaml:"client_id"`
	Partitions int32    `yaml:"partitions"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:   BackendFile,
			Path:      "addressbook.json",
			SQLDriver: DriverSQLite,
		},
		Redis: RedisConfig{
			Key:          "contactbook:directory",
			PoolSize:     10,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:      "contactbook.audit",
			ClientID:   "contactbook",
			Partitions: 1,
		},
		Log: logger.Options{Level: "info", Format: "text"},
	}
}

// FromEnv builds a Config from defaults and CONTACTBOOK_* environment variables.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path behaves like FromEnv.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "CONTACTBOOK_ADDR")
	setString(&cfg.Store.Backend, "CONTACTBOOK_STORE")
	setString(&cfg.Store.Path, "CONTACTBOOK_FILE")
	setString(&cfg.Store.SQLDriver, "CONTACTBOOK_SQL_DRIVER")
	setString(&cfg.Store.SQLDSN, "CONTACTBOOK_SQL_DSN")
	setString(&cfg.Redis.URL, "CONTACTBOOK_REDIS_URL")
	setString(&cfg.Redis.Key, "CONTACTBOOK_REDIS_KEY")
	setString(&cfg.Kafka.Topic, "CONTACTBOOK_KAFKA_TOPIC")
	setString(&cfg.Log.Level, "CONTACTBOOK_LOG_LEVEL")
	setString(&cfg.Log.Format, "CONTACTBOOK_LOG_FORMAT")
	setString(&cfg.Log.File, "CONTACTBOOK_LOG_FILE")
	if brokers := os.Getenv("CONTACTBOOK_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first setting that makes the selected backend unusable.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return errors.New("store path is required for the file backend")
		}
	case BackendSQL:
		switch c.Store.SQLDriver {
		case DriverPgx, DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("unsupported sql driver %q", c.Store.SQLDriver)
		}
		if c.Store.SQLDSN == "" {
			return errors.New("sql dsn is required for the sql backend")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis url is required for the redis backend")
		}
		if c.Redis.Key == "" {
			return errors.New("redis key is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka topic is required when brokers are set")
	}
	return nil
}
