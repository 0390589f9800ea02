package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "nexus:schema", cfg.Redis.Prefix)
	assert.Equal(t, "0.0.0.0:3001", cfg.Addr())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"PORT":            "8080",
		"SCHEMA_STORAGE":  "MySQL",
		"SCHEMA_AUTOSAVE": "false",
		"MYSQL_HOST":      "db.internal",
		"MYSQL_USER":      "crm",
		"MYSQL_DATABASE":  "schema",
		"LOG_LEVEL":       "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMySQL, cfg.Storage)
	assert.False(t, cfg.AutoSave)
	assert.Equal(t, "info", cfg.LogLevel, "empty values do not override")
	require.NoError(t, cfg.Validate())

	db := cfg.DatabaseSettings()
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "3306", db.Port)
	assert.Equal(t, "schema", db.Database)

	err = cfg.applyEnv(envMap(map[string]string{"SCHEMA_AUTOSAVE": "sometimes"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"memory", func(c *Config) { c.Storage = StorageMemory }, true},
		{"file without dir", func(c *Config) { c.DataDir = "" }, false},
		{"mysql without host", func(c *Config) { c.Storage = StorageMySQL; c.MySQL.User = "u"; c.MySQL.Database = "d" }, false},
		{"redis without url", func(c *Config) { c.Storage = StorageRedis }, false},
		{"redis", func(c *Config) { c.Storage = StorageRedis; c.Redis.URL = "redis://localhost:6379/0" }, true},
		{"unknown driver", func(c *Config) { c.Storage = "postgres" }, false},
		{"bad port", func(c *Config) { c.Port = "http" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "4000"
storage: redis
redis:
  url: redis://cache:6379/1
  prefix: org42
`), 0o644))

	t.Setenv("PORT", "")
	t.Setenv("SCHEMA_STORAGE", "")
	t.Setenv("SCHEMA_AUTOSAVE", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_PREFIX", "tenant-a")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "tenant-a", cfg.Redis.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
