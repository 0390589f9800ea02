package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDSN_Local(t *testing.T) {
	s := Settings{Host: "localhost", User: "root", Password: "secret", Database: "crm"}

	cfg, err := mysql.ParseDSN(s.DSN())
	require.NoError(t, err)
	assert.Equal(t, "localhost:3306", cfg.Addr)
	assert.Equal(t, "crm", cfg.DBName)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.True(t, cfg.ParseTime)
	assert.Empty(t, cfg.TLSConfig)
}

func TestSettingsDSN_RemoteRequestsTLS(t *testing.T) {
	s := Settings{Host: "db.example.com", Port: "4000", User: "u", Password: "p", Database: "crm"}

	dsn := s.DSN()
	assert.Contains(t, dsn, "tcp(db.example.com:4000)")
	assert.Contains(t, dsn, "tls=schema")
}

func TestSettingsIsLocal(t *testing.T) {
	assert.True(t, Settings{}.IsLocal())
	assert.True(t, Settings{Host: "127.0.0.1"}.IsLocal())
	assert.False(t, Settings{Host: "10.0.0.5"}.IsLocal())
}
