package container

import (
	"fmt"

	"github.com/shuldan/chassis/pkg/contracts"
)

// evaluateConditions runs every condition exactly once against the
// configuration snapshot and returns the set of active definition ids.
// The result is fixed for the container's lifetime; definitions whose
// condition returned false never take part in resolution. Predicates are
// caller code, so a panic inside one aborts the start instead of crashing.
func evaluateConditions(defs []*contracts.Definition, cfg contracts.Config) (map[string]bool, error) {
	active := make(map[string]bool, len(defs))
	for _, def := range defs {
		ok, err := evaluateCondition(def, cfg)
		if err != nil {
			return nil, err
		}
		if ok {
			active[def.ID] = true
		}
	}
	return active, nil
}

func evaluateCondition(def *contracts.Definition, cfg contracts.Config) (active bool, err error) {
	if def.Condition == nil {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = ErrConditionPanic.
				WithDetail("id", def.ID).
				WithDetail("value", fmt.Sprint(r))
		}
	}()
	return def.Condition(cfg), nil
}

// ConditionEnabled activates a definition when the boolean key is true.
func ConditionEnabled(key string) contracts.ConditionFunc {
	return func(cfg contracts.Config) bool {
		return cfg.GetBool(key)
	}
}

// ConditionKeySet activates a definition when the key is present at all.
func ConditionKeySet(key string) contracts.ConditionFunc {
	return func(cfg contracts.Config) bool {
		return cfg.Has(key)
	}
}

// ConditionEquals activates a definition when the key holds the given value.
func ConditionEquals(key, want string) contracts.ConditionFunc {
	return func(cfg contracts.Config) bool {
		return cfg.GetString(key) == want
	}
}
