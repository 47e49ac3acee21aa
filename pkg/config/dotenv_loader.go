package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// DotenvConfigLoader reads key=value pairs from .env style files without
// touching the process environment. Keys follow the same prefix and
// double-underscore nesting rules as EnvConfigLoader.
type DotenvConfigLoader struct {
	prefix string
	paths  []string
}

func (l *DotenvConfigLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	loaded := false

	for _, path := range l.paths {
		if !fileExists(path) {
			continue
		}

		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, ErrParseDotenv.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}

		for key, value := range vars {
			if l.prefix != "" && !strings.HasPrefix(key, l.prefix) {
				continue
			}
			setNested(config, normalizeKey(key, l.prefix), parseTypedValue(value))
		}
		loaded = true
	}

	if !loaded {
		return nil, ErrNoConfigSource
	}

	return config, nil
}
