package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, BackendFile, cfg.Store.Backend)
		assert.Equal(t, "addressbook.json", cfg.Store.Path)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Empty(t, cfg.Kafka.Brokers)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CONTACTBOOK_STORE", BackendRedis)
		t.Setenv("CONTACTBOOK_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("CONTACTBOOK_KAFKA_BROKERS", "a:9092, b:9092,")
		t.Setenv("CONTACTBOOK_LOG_FORMAT", "json")

		cfg := FromEnv()
		assert.Equal(t, BackendRedis, cfg.Store.Backend)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, "json", cfg.Log.Format)
		require.NoError(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("yaml overlays defaults and env wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "contactbook.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: sql
  sql_driver: pgx
  sql_dsn: postgres://localhost/contacts
redis:
  read_timeout: 750ms
server:
  addr: ":9090"
`), 0o600))
		t.Setenv("CONTACTBOOK_ADDR", ":7070")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, BackendSQL, cfg.Store.Backend)
		assert.Equal(t, DriverPgx, cfg.Store.SQLDriver)
		assert.Equal(t, 750*time.Millisecond, cfg.Redis.ReadTimeout)
		assert.Equal(t, 3*time.Second, cfg.Redis.WriteTimeout)
		assert.Equal(t, ":7070", cfg.Server.Addr)
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "tape" }, "unsupported store backend"},
		{"file without path", func(c *Config) { c.Store.Path = "" }, "store path is required"},
		{"sql unknown driver", func(c *Config) {
			c.Store.Backend = BackendSQL
			c.Store.SQLDriver = "oracle"
			c.Store.SQLDSN = "x"
		}, "unsupported sql driver"},
		{"sql without dsn", func(c *Config) { c.Store.Backend = BackendSQL }, "sql dsn is required"},
		{"redis without url", func(c *Config) { c.Store.Backend = BackendRedis }, "redis url is required"},
		{"kafka without topic", func(c *Config) {
			c.Kafka.Brokers = []string{"a:9092"}
			c.Kafka.Topic = ""
		}, "kafka topic is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("memory needs nothing", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Backend = BackendMemory
		cfg.Store.Path = ""
		assert.NoError(t, cfg.Validate())
	})
}
