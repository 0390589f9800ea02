package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Settings holds connection parameters for the schema database
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

var tlsOnce sync.Once

// IsLocal reports whether the host is a loopback address; remote hosts get TLS
func (s Settings) IsLocal() bool {
	return s.Host == "" || s.Host == "127.0.0.1" || s.Host == "localhost"
}

// DSN builds the driver connection string
func (s Settings) DSN() string {
	port := s.Port
	if port == "" {
		port = "3306"
	}
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, port)
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if !s.IsLocal() {
		cfg.TLSConfig = "schema"
	}
	return cfg.FormatDSN()
}

// Open connects to MySQL (or TiDB), configures the pool and pings the server.
// The caller owns the returned *sql.DB.
func Open(ctx context.Context, s Settings) (*sql.DB, error) {
	if !s.IsLocal() {
		var tlsErr error
		tlsOnce.Do(func() {
			tlsErr = mysql.RegisterTLSConfig("schema", &tls.Config{
				MinVersion: tls.VersionTLS12,
				ServerName: s.Host,
			})
		})
		if tlsErr != nil {
			return nil, fmt.Errorf("failed to register TLS config: %w", tlsErr)
		}
	}

	db, err := sql.Open("mysql", s.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	Configure(db)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Configure applies pool settings. MaxIdleConns matches MaxOpenConns so that
// connections are kept alive instead of being reopened under load.
func Configure(db *sql.DB) {
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(100)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)
}
