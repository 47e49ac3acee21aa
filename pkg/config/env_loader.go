package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfigLoader struct {
	prefix string
}

func (l *EnvConfigLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		setNested(config, normalizeKey(parts[0], l.prefix), parseTypedValue(parts[1]))
	}

	return config, nil
}

// normalizeKey turns PREFIX_DB__HOST into db.host.
func normalizeKey(key, prefix string) string {
	key = strings.ToLower(strings.TrimPrefix(key, prefix))
	return strings.ReplaceAll(key, "__", ".")
}

func parseTypedValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func setNested(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")
	last := len(keys) - 1

	current := m
	for i, k := range keys {
		if i == last {
			current[k] = value
		} else {
			if _, ok := current[k]; !ok {
				current[k] = make(map[string]any)
			}
			if next, ok := current[k].(map[string]any); ok {
				current = next
			} else {
				current[k] = make(map[string]any)
				current = current[k].(map[string]any)
			}
		}
	}
}
