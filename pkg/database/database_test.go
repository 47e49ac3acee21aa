package database

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func TestNewDatabase(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		options []Option
	}{
		{
			name:   "basic database creation",
			driver: "sqlite3",
			dsn:    ":memory:",
		},
		{
			name:   "database with connection pool options",
			driver: "sqlite3",
			dsn:    ":memory:",
			options: []Option{
				WithConnectionPool(10, 5, time.Hour),
				WithPingTimeout(time.Second * 10),
			},
		},
		{
			name:   "database with retry options",
			driver: "sqlite3",
			dsn:    ":memory:",
			options: []Option{
				WithRetry(5, time.Millisecond*100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase(tt.driver, tt.dsn, tt.options...)
			if db == nil {
				t.Fatal("NewDatabase returned nil")
			}

			sqlDB := db.(*sqlDatabase)
			if sqlDB.driver != tt.driver {
				t.Errorf("expected driver %s, got %s", tt.driver, sqlDB.driver)
			}
			if sqlDB.dsn != tt.dsn {
				t.Errorf("expected dsn %s, got %s", tt.dsn, sqlDB.dsn)
			}
		})
	}
}

func TestDatabaseConnect(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		dsn         string
		expectError bool
	}{
		{
			name:   "successful connection",
			driver: "sqlite3",
			dsn:    ":memory:",
		},
		{
			name:        "invalid driver",
			driver:      "invalid",
			dsn:         ":memory:",
			expectError: true,
		},
		{
			name:        "invalid dsn",
			driver:      "sqlite3",
			dsn:         "/invalid/path/db.sqlite",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase(tt.driver, tt.dsn, WithRetry(0, 0))
			err := db.Connect()

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, ErrFailedToOpenDatabase) {
					t.Errorf("expected ErrFailedToOpenDatabase, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := db.Connect(); err != nil {
				t.Errorf("second connect failed: %v", err)
			}

			if err := db.Ping(context.Background()); err != nil {
				t.Errorf("ping failed: %v", err)
			}

			if db.DB() == nil {
				t.Error("DB should expose the pool after connect")
			}

			if err := db.Close(); err != nil {
				t.Errorf("failed to close database: %v", err)
			}
		})
	}
}

func TestDatabaseConnectRetries(t *testing.T) {
	db := NewDatabase("sqlite3", "/invalid/path/db.sqlite", WithRetry(2, time.Millisecond))

	start := time.Now()
	err := db.Connect()
	if !errors.Is(err, ErrFailedToOpenDatabase) {
		t.Fatalf("expected ErrFailedToOpenDatabase, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Errorf("expected at least two retry delays, elapsed %v", elapsed)
	}
}

func TestDatabaseOperationsWithoutConnection(t *testing.T) {
	db := NewDatabase("sqlite3", ":memory:")

	err := db.Ping(context.Background())
	if !errors.Is(err, ErrDatabaseNotConnected) {
		t.Errorf("expected ErrDatabaseNotConnected, got %v", err)
	}

	if db.DB() != nil {
		t.Error("DB should be nil before connect")
	}

	if err := db.Close(); err != nil {
		t.Errorf("close without connect should be a no-op, got %v", err)
	}
}

func TestDatabaseCloseResetsConnection(t *testing.T) {
	db := NewDatabase("sqlite3", ":memory:")
	if err := db.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if db.DB() != nil {
		t.Error("DB should be nil after close")
	}
	if err := db.Ping(context.Background()); !errors.Is(err, ErrDatabaseNotConnected) {
		t.Errorf("expected ErrDatabaseNotConnected after close, got %v", err)
	}
}

func TestDatabaseQueriesAfterConnect(t *testing.T) {
	db := NewDatabase("sqlite3", ":memory:", WithConnectionPool(1, 1, time.Minute))
	if err := db.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	pool := db.DB()
	if _, err := pool.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	if _, err := pool.Exec("INSERT INTO items (name) VALUES (?)", "first"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var name string
	if err := pool.QueryRow("SELECT name FROM items WHERE id = 1").Scan(&name); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if name != "first" {
		t.Errorf("expected name first, got %s", name)
	}
}

func TestDatabaseOptions(t *testing.T) {
	tests := []struct {
		name     string
		option   Option
		validate func(*dbConfig) bool
	}{
		{
			name:   "connection pool option",
			option: WithConnectionPool(20, 10, time.Hour*2),
			validate: func(config *dbConfig) bool {
				return config.maxOpenConns == 20 && config.maxIdleConns == 10 && config.connMaxLifetime == time.Hour*2
			},
		},
		{
			name:   "connection idle time option",
			option: WithConnectionIdleTime(time.Minute * 10),
			validate: func(config *dbConfig) bool {
				return config.connMaxIdleTime == time.Minute*10
			},
		},
		{
			name:   "ping timeout option",
			option: WithPingTimeout(time.Second * 30),
			validate: func(config *dbConfig) bool {
				return config.pingTimeout == time.Second*30
			},
		},
		{
			name:   "retry option",
			option: WithRetry(10, time.Second*2),
			validate: func(config *dbConfig) bool {
				return config.retryAttempts == 10 && config.retryDelay == time.Second*2
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &dbConfig{}
			tt.option(config)

			if !tt.validate(config) {
				t.Error("option validation failed")
			}
		})
	}
}
