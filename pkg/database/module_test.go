package database

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shuldan/chassis/pkg/config"
	"github.com/shuldan/chassis/pkg/container"
	"github.com/shuldan/chassis/pkg/contracts"
)

func twoConnectionConfig(extra map[string]interface{}) contracts.Config {
	replica := map[string]interface{}{
		"driver": "sqlite3",
		"dsn":    ":memory:",
		"lazy":   true,
	}
	for k, v := range extra {
		replica[k] = v
	}
	return config.NewMapConfig(map[string]interface{}{
		"database": map[string]interface{}{
			"default": "primary",
			"connections": map[string]interface{}{
				"primary": map[string]interface{}{
					"driver": "sqlite3",
					"dsn":    ":memory:",
					"pool": map[string]interface{}{
						"max_open_connections": 10,
						"max_idle_connections": 5,
						"conn_max_lifetime":    "1h",
						"conn_max_idle_time":   "5m",
					},
				},
				"replica": replica,
			},
		},
	})
}

func TestModule_Name(t *testing.T) {
	m := NewModule(config.NewMapConfig(nil))
	if m.Name() != contracts.DatabaseModuleName {
		t.Errorf("expected module name %s, got %s", contracts.DatabaseModuleName, m.Name())
	}
}

func TestModule_RegisterAndResolve(t *testing.T) {
	cfg := twoConnectionConfig(nil)
	c := container.New(container.WithConfig(cfg))

	if err := NewModule(cfg).Register(c); err != nil {
		t.Fatalf("failed to register module: %v", err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	defer func() { _ = c.Stop(context.Background()) }()

	primary, err := c.Resolve(ctx, contracts.DatabaseTypeTag)
	if err != nil {
		t.Fatalf("failed to resolve primary connection: %v", err)
	}
	db, ok := primary.(contracts.Database)
	if !ok {
		t.Fatalf("expected contracts.Database, got %T", primary)
	}
	if err := db.Ping(ctx); err != nil {
		t.Errorf("primary should be connected after start: %v", err)
	}

	byID, err := c.ResolveID(ctx, "database.primary")
	if err != nil {
		t.Fatalf("failed to resolve by id: %v", err)
	}
	if byID != primary {
		t.Error("resolve by id should return the same singleton")
	}

	replica, err := c.Resolve(ctx, contracts.DatabaseTypeTag, container.WithQualifier("replica"))
	if err != nil {
		t.Fatalf("failed to resolve replica by qualifier: %v", err)
	}
	if replica == primary {
		t.Error("replica and primary should be distinct connections")
	}
	if err := replica.(contracts.Database).Ping(ctx); err != nil {
		t.Errorf("replica should connect on first resolution: %v", err)
	}
}

func TestModule_StopClosesConnections(t *testing.T) {
	cfg := twoConnectionConfig(nil)
	c := container.New(container.WithConfig(cfg))

	if err := NewModule(cfg).Register(c); err != nil {
		t.Fatalf("failed to register module: %v", err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start container: %v", err)
	}

	primary, err := c.Resolve(ctx, contracts.DatabaseTypeTag)
	if err != nil {
		t.Fatalf("failed to resolve primary connection: %v", err)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("failed to stop container: %v", err)
	}

	err = primary.(contracts.Database).Ping(ctx)
	if !errors.Is(err, ErrDatabaseNotConnected) {
		t.Errorf("expected connection closed after stop, got %v", err)
	}
}

func TestModule_DisabledConnection(t *testing.T) {
	cfg := twoConnectionConfig(map[string]interface{}{"enabled": false})
	c := container.New(container.WithConfig(cfg))

	if err := NewModule(cfg).Register(c); err != nil {
		t.Fatalf("failed to register module: %v", err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	defer func() { _ = c.Stop(context.Background()) }()

	ids := c.FindByType(contracts.DatabaseTypeTag)
	if len(ids) != 1 || ids[0] != "database.primary" {
		t.Errorf("expected only the primary connection to be active, got %v", ids)
	}

	_, err := c.Resolve(ctx, contracts.DatabaseTypeTag, container.WithQualifier("replica"))
	if !errors.Is(err, container.ErrNotFound) {
		t.Errorf("expected ErrNotFound for disabled connection, got %v", err)
	}
}

func TestModule_RegisterMissingConfig(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{
			name:   "no database section",
			values: map[string]interface{}{},
		},
		{
			name: "no connections section",
			values: map[string]interface{}{
				"database": map[string]interface{}{"default": "primary"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewMapConfig(tt.values)
			err := NewModule(cfg).Register(container.New(container.WithConfig(cfg)))
			if !errors.Is(err, ErrConnectionsNotFound) {
				t.Errorf("expected ErrConnectionsNotFound, got %v", err)
			}
		})
	}
}

func TestModule_BuildDefinition(t *testing.T) {
	m := &Module{}

	tests := []struct {
		name        string
		config      map[string]interface{}
		expectError bool
		errorType   error
	}{
		{
			name: "valid sqlite connection",
			config: map[string]interface{}{
				"driver": "sqlite",
				"dsn":    ":memory:",
			},
		},
		{
			name: "missing driver",
			config: map[string]interface{}{
				"dsn": ":memory:",
			},
			expectError: true,
			errorType:   ErrDriverNotSpecified,
		},
		{
			name: "missing dsn",
			config: map[string]interface{}{
				"driver": "sqlite",
			},
			expectError: true,
			errorType:   ErrDSNNotSpecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := m.buildDefinition("test", "test", tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if def.ID != "database.test" {
				t.Errorf("expected id database.test, got %s", def.ID)
			}
			if def.Type != contracts.DatabaseTypeTag {
				t.Errorf("expected type tag %s, got %s", contracts.DatabaseTypeTag, def.Type)
			}
			if !def.Primary {
				t.Error("the default connection should be primary")
			}
			if len(def.Qualifiers) != 1 || def.Qualifiers[0] != "test" {
				t.Errorf("expected qualifier [test], got %v", def.Qualifiers)
			}
			if def.Lazy {
				t.Error("connections should be eager unless configured lazy")
			}
			if def.Construct == nil || def.InitHook == nil || def.DestroyHook == nil {
				t.Error("definition should carry construct, init and destroy hooks")
			}
		})
	}
}

func TestModule_BuildDefinitionLazyFlag(t *testing.T) {
	m := &Module{}
	def, err := m.buildDefinition("replica", "primary", map[string]interface{}{
		"driver": "sqlite3",
		"dsn":    ":memory:",
		"lazy":   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !def.Lazy {
		t.Error("lazy flag should carry over to the definition")
	}
	if def.Primary {
		t.Error("non-default connection should not be primary")
	}
}

func TestModule_GetSQLDriver(t *testing.T) {
	m := &Module{}

	tests := []struct {
		input    string
		expected string
	}{
		{"mysql", "mysql"},
		{"MySQL", "mysql"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"PostgreSQL", "postgres"},
		{"sqlite", "sqlite3"},
		{"sqlite3", "sqlite3"},
		{"SQLite", "sqlite3"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := m.getSQLDriver(tt.input)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestModule_GetIntValue(t *testing.T) {
	m := &Module{}
	tests := []struct {
		name         string
		config       map[string]interface{}
		key          string
		defaultValue int
		expected     int
	}{
		{
			name:         "int value",
			config:       map[string]interface{}{"max": 100},
			key:          "max",
			defaultValue: 10,
			expected:     100,
		},
		{
			name:         "int64 value",
			config:       map[string]interface{}{"max": int64(200)},
			key:          "max",
			defaultValue: 10,
			expected:     200,
		},
		{
			name:         "float64 value",
			config:       map[string]interface{}{"max": float64(300)},
			key:          "max",
			defaultValue: 10,
			expected:     300,
		},
		{
			name:         "string value",
			config:       map[string]interface{}{"max": "400"},
			key:          "max",
			defaultValue: 10,
			expected:     400,
		},
		{
			name:         "missing key",
			config:       map[string]interface{}{},
			key:          "max",
			defaultValue: 10,
			expected:     10,
		},
		{
			name:         "invalid string",
			config:       map[string]interface{}{"max": "invalid"},
			key:          "max",
			defaultValue: 10,
			expected:     10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.getIntValue(tt.config, tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestModule_GetDurationValue(t *testing.T) {
	m := &Module{}
	tests := []struct {
		name         string
		config       map[string]interface{}
		key          string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{
			name:         "string duration",
			config:       map[string]interface{}{"timeout": "5m"},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     5 * time.Minute,
		},
		{
			name:         "int seconds",
			config:       map[string]interface{}{"timeout": 60},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     60 * time.Second,
		},
		{
			name:         "int64 seconds",
			config:       map[string]interface{}{"timeout": int64(120)},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     120 * time.Second,
		},
		{
			name:         "float64 seconds",
			config:       map[string]interface{}{"timeout": float64(180)},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     180 * time.Second,
		},
		{
			name:         "missing key",
			config:       map[string]interface{}{},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     time.Hour,
		},
		{
			name:         "invalid string",
			config:       map[string]interface{}{"timeout": "invalid"},
			key:          "timeout",
			defaultValue: time.Hour,
			expected:     time.Hour,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.getDurationValue(tt.config, tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
