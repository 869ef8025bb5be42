package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-sql-driver/mysql"
)

// ConnConfig describes the MySQL connection pool.
type ConnConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	PingMaxWait  time.Duration
}

// DSN formats the driver data source name. Times are parsed into time.Time.
func (c ConnConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%s", c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

// Connect opens the pool and pings it with capped exponential backoff until
// PingMaxWait elapses.
func Connect(c ConnConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		log.Errorf("Failed to connect to the database: %v", err)
		return nil, err
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnLifetime)
	}

	deadline := time.Now().Add(c.PingMaxWait)
	waitInterval := time.Second
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := db.PingContext(ctx)
		cancel()
		if pingErr == nil {
			break
		}
		if time.Now().After(deadline) {
			db.Close()
			return nil, fmt.Errorf("database ping timeout after %v: %w", c.PingMaxWait, pingErr)
		}
		log.Warnf("Database connection failed, retrying in %v: %v", waitInterval, pingErr)
		time.Sleep(waitInterval)
		waitInterval *= 2
		if waitInterval > 30*time.Second {
			waitInterval = 30 * time.Second
		}
	}

	log.Infof("Established db connection pool: open=%d idle=%d max_lifetime=%v", c.MaxOpenConns, c.MaxIdleConns, c.ConnLifetime)
	return db, nil
}

const createScansTable = `CREATE TABLE IF NOT EXISTS disease_scans (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_id VARCHAR(255) NOT NULL DEFAULT '',
	image MEDIUMBLOB,
	filename VARCHAR(255) NOT NULL DEFAULT '',
	mime_type VARCHAR(64) NOT NULL DEFAULT '',
	disease_class VARCHAR(128) NOT NULL,
	confidence DOUBLE NOT NULL DEFAULT 0,
	is_confident BOOLEAN NOT NULL DEFAULT FALSE,
	report JSON NOT NULL,
	source VARCHAR(16) NOT NULL,
	language VARCHAR(8) NOT NULL DEFAULT 'en',
	threshold DOUBLE NOT NULL,
	processing_time_ms BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL,
	error_message TEXT,
	model_version VARCHAR(128) NOT NULL DEFAULT '',
	created_at DATETIME(3) NOT NULL,
	INDEX idx_disease_scans_user_created (user_id, created_at),
	INDEX idx_disease_scans_class (disease_class)
)`

// InitSchema creates the tables used by the service.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createScansTable); err != nil {
		return fmt.Errorf("failed to create disease_scans table: %w", err)
	}
	log.Info("Database schema ready")
	return nil
}
