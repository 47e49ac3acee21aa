package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/shuldan/chassis/pkg/contracts"
)

type Module struct {
	cfg contracts.Config
}

func NewModule(cfg contracts.Config) contracts.AppModule {
	return &Module{cfg: cfg}
}

func (m *Module) Name() string {
	return contracts.CacheModuleName
}

// Register declares one definition per configured store. The default store
// is marked primary and every store is addressable through its name as
// qualifier. Stores ping their backend in the init hook, so a dead redis
// fails the container start instead of the first lookup.
func (m *Module) Register(c contracts.Container) error {
	cacheConfig, ok := m.cfg.GetSub("cache")
	if !ok {
		return ErrStoresNotFound
	}

	defaultStoreName := cacheConfig.GetString("default", "main")
	storesConfig, ok := cacheConfig.GetSub("stores")
	if !ok {
		return ErrStoresNotFound
	}

	for name, storeData := range storesConfig.All() {
		storeMap, ok := storeData.(map[string]interface{})
		if !ok {
			continue
		}
		def, err := m.buildDefinition(name, defaultStoreName, storeMap)
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

// Stop is a no-op. Stores close through their destroy hooks when the
// container tears down.
func (m *Module) Stop(contracts.AppContext) error {
	return nil
}

func (m *Module) buildDefinition(name, defaultName string, config map[string]interface{}) (contracts.Definition, error) {
	construct, err := m.buildConstruct(name, config)
	if err != nil {
		return contracts.Definition{}, err
	}

	lazy, _ := config["lazy"].(bool)
	enabledKey := "cache.stores." + name + ".enabled"

	return contracts.Definition{
		ID:         contracts.CacheModuleName + "." + name,
		Type:       contracts.CacheTypeTag,
		Scope:      contracts.ScopeSingleton,
		Lazy:       lazy,
		Primary:    name == defaultName,
		Qualifiers: []string{name},
		Construct:  construct,
		InitHook: func(ctx context.Context, instance interface{}) error {
			return instance.(contracts.Store).Ping(ctx)
		},
		DestroyHook: func(_ context.Context, instance interface{}) error {
			return instance.(contracts.Store).Close()
		},
		Condition: func(cfg contracts.Config) bool {
			return cfg.GetBool(enabledKey, true)
		},
	}, nil
}

func (m *Module) buildConstruct(name string, config map[string]interface{}) (contracts.ConstructFunc, error) {
	driver, _ := config["driver"].(string)
	if driver == "" {
		driver = "memory"
	}

	switch driver {
	case "memory":
		return func(contracts.DependencyBag) (interface{}, error) {
			return NewMemoryStore(), nil
		}, nil
	case "redis":
		addr, _ := config["addr"].(string)
		if addr == "" {
			return nil, ErrAddrNotSpecified.WithDetail("name", name)
		}
		username, _ := config["username"].(string)
		password, _ := config["password"].(string)
		db := m.getIntValue(config, "db", 0)
		prefix, _ := config["key_prefix"].(string)

		return func(contracts.DependencyBag) (interface{}, error) {
			client := redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs:    []string{addr},
				Username: username,
				Password: password,
				DB:       db,
			})
			var opts []RedisOption
			if prefix != "" {
				opts = append(opts, WithKeyPrefix(prefix))
			}
			return NewRedisStore(client, opts...), nil
		}, nil
	default:
		return nil, ErrUnknownDriver.
			WithDetail("driver", driver).
			WithDetail("name", name)
	}
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
		}
	}
	return defaultValue
}
