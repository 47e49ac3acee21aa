package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
)

type Module struct {
	cfg contracts.Config
}

func NewModule(cfg contracts.Config) contracts.AppModule {
	return &Module{cfg: cfg}
}

func (m *Module) Name() string {
	return contracts.DatabaseModuleName
}

// Register declares one definition per configured connection. The default
// connection is marked primary, every connection is addressable through its
// name as qualifier, and a connection stays inactive when its enabled flag
// is set to false.
func (m *Module) Register(c contracts.Container) error {
	dbConfig, ok := m.cfg.GetSub("database")
	if !ok {
		return ErrConnectionsNotFound
	}

	defaultConnectionName := dbConfig.GetString("default", "primary")
	connectionsConfig, ok := dbConfig.GetSub("connections")
	if !ok {
		return ErrConnectionsNotFound
	}

	for name, connData := range connectionsConfig.All() {
		connMap, ok := connData.(map[string]interface{})
		if !ok {
			continue
		}
		def, err := m.buildDefinition(name, defaultConnectionName, connMap)
		if err != nil {
			return err
		}
		if err := c.Register(def); err != nil {
			return err
		}
	}

	return nil
}

func (m *Module) Start(contracts.AppContext) error {
	return nil
}

// Stop is a no-op. Connections close through their destroy hooks when the
// container tears down.
func (m *Module) Stop(contracts.AppContext) error {
	return nil
}

func (m *Module) buildDefinition(name, defaultName string, config map[string]interface{}) (contracts.Definition, error) {
	driver, ok := config["driver"].(string)
	if !ok {
		return contracts.Definition{}, ErrDriverNotSpecified.WithDetail("name", name)
	}

	dsn, ok := config["dsn"].(string)
	if !ok {
		return contracts.Definition{}, ErrDSNNotSpecified.WithDetail("name", name)
	}

	sqlDriver := m.getSQLDriver(driver)
	options := m.getConnectionOptions(config)
	lazy, _ := config["lazy"].(bool)
	enabledKey := "database.connections." + name + ".enabled"

	return contracts.Definition{
		ID:         contracts.DatabaseModuleName + "." + name,
		Type:       contracts.DatabaseTypeTag,
		Scope:      contracts.ScopeSingleton,
		Lazy:       lazy,
		Primary:    name == defaultName,
		Qualifiers: []string{name},
		Construct: func(contracts.DependencyBag) (interface{}, error) {
			return NewDatabase(sqlDriver, dsn, options...), nil
		},
		InitHook: func(_ context.Context, instance interface{}) error {
			return instance.(contracts.Database).Connect()
		},
		DestroyHook: func(_ context.Context, instance interface{}) error {
			return instance.(contracts.Database).Close()
		},
		Condition: func(cfg contracts.Config) bool {
			return cfg.GetBool(enabledKey, true)
		},
	}, nil
}

func (m *Module) getSQLDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "mysql":
		return "mysql"
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return driver
	}
}

func (m *Module) getConnectionOptions(config map[string]interface{}) []Option {
	var options []Option

	if poolConfig, ok := config["pool"].(map[string]interface{}); ok {
		maxOpen := m.getIntValue(poolConfig, "max_open_connections", 25)
		maxIdle := m.getIntValue(poolConfig, "max_idle_connections", 5)
		connMaxLifetime := m.getDurationValue(poolConfig, "conn_max_lifetime", time.Hour)
		connMaxIdleTime := m.getDurationValue(poolConfig, "conn_max_idle_time", 5*time.Minute)

		options = append(options,
			WithConnectionPool(maxOpen, maxIdle, connMaxLifetime),
			WithConnectionIdleTime(connMaxIdleTime),
		)
	}

	options = append(options, WithPingTimeout(m.getDurationValue(config, "ping_timeout", 5*time.Second)))
	options = append(options, WithRetry(m.getIntValue(config, "retry_attempts", 3), m.getDurationValue(config, "retry_delay", time.Second)))

	return options
}

func (m *Module) getIntValue(config map[string]interface{}, key string, defaultValue int) int {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case string:
			var result int
			if _, err := fmt.Sscanf(v, "%d", &result); err == nil {
				return result
			}
		}
	}
	return defaultValue
}

func (m *Module) getDurationValue(config map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case string:
			if duration, err := time.ParseDuration(v); err == nil {
				return duration
			}
		case int:
			return time.Duration(v) * time.Second
		case int64:
			return time.Duration(v) * time.Second
		case float64:
			return time.Duration(v) * time.Second
		}
	}
	return defaultValue
}
