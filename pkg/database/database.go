package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
)

type dbConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
	pingTimeout     time.Duration
	retryAttempts   int
	retryDelay      time.Duration
}

type Option func(*dbConfig)

func WithConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(config *dbConfig) {
		config.maxOpenConns = maxOpen
		config.maxIdleConns = maxIdle
		config.connMaxLifetime = maxLifetime
	}
}

func WithConnectionIdleTime(idleTime time.Duration) Option {
	return func(config *dbConfig) {
		config.connMaxIdleTime = idleTime
	}
}

func WithPingTimeout(timeout time.Duration) Option {
	return func(config *dbConfig) {
		config.pingTimeout = timeout
	}
}

func WithRetry(attempts int, delay time.Duration) Option {
	return func(config *dbConfig) {
		config.retryAttempts = attempts
		config.retryDelay = delay
	}
}

var _ contracts.Database = (*sqlDatabase)(nil)

type sqlDatabase struct {
	db     *sql.DB
	driver string
	dsn    string
	config dbConfig
}

func NewDatabase(driver, dsn string, options ...Option) contracts.Database {
	config := dbConfig{
		maxOpenConns:    25,
		maxIdleConns:    5,
		connMaxLifetime: time.Hour,
		connMaxIdleTime: time.Minute * 5,
		pingTimeout:     time.Second * 5,
		retryAttempts:   3,
		retryDelay:      time.Second,
	}

	for _, option := range options {
		option(&config)
	}

	return &sqlDatabase{
		driver: driver,
		dsn:    dsn,
		config: config,
	}
}

func (d *sqlDatabase) Connect() error {
	if d.db != nil {
		return nil
	}

	var db *sql.DB
	var err error

	for attempt := 0; attempt <= d.config.retryAttempts; attempt++ {
		db, err = sql.Open(d.driver, d.dsn)
		if err == nil {
			db.SetMaxOpenConns(d.config.maxOpenConns)
			db.SetMaxIdleConns(d.config.maxIdleConns)
			db.SetConnMaxLifetime(d.config.connMaxLifetime)
			db.SetConnMaxIdleTime(d.config.connMaxIdleTime)

			ctx, cancel := context.WithTimeout(context.Background(), d.config.pingTimeout)
			err = db.PingContext(ctx)
			cancel()

			if err == nil {
				d.db = db
				return nil
			}
			_ = db.Close()
		}

		if attempt < d.config.retryAttempts {
			time.Sleep(d.config.retryDelay)
		}
	}

	return ErrFailedToOpenDatabase.WithCause(err)
}

func (d *sqlDatabase) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

func (d *sqlDatabase) Ping(ctx context.Context) error {
	if d.db == nil {
		return ErrDatabaseNotConnected
	}
	return d.db.PingContext(ctx)
}

// DB exposes the underlying pool for components that run their own queries.
func (d *sqlDatabase) DB() *sql.DB {
	return d.db
}
