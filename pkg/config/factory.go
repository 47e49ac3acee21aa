package config

import "github.com/shuldan/chassis/pkg/contracts"

var _ Loader = (*EnvConfigLoader)(nil)
var _ Loader = (*DotenvConfigLoader)(nil)
var _ Loader = (*YamlConfigLoader)(nil)
var _ Loader = (*JSONConfigLoader)(nil)
var _ Loader = (*ChainLoader)(nil)

func NewEnvConfigLoader(prefix string) Loader {
	return &EnvConfigLoader{prefix: prefix}
}

func NewDotenvConfigLoader(prefix string, paths ...string) Loader {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return &DotenvConfigLoader{prefix: prefix, paths: paths}
}

func NewYamlConfigLoader(paths ...string) *YamlConfigLoader {
	return &YamlConfigLoader{paths: paths}
}

func NewJSONConfigLoader(paths ...string) *JSONConfigLoader {
	return &JSONConfigLoader{paths: paths}
}

func NewChainLoader(loaders ...Loader) Loader {
	return &ChainLoader{loaders: loaders}
}

func NewMapConfig(values map[string]any) contracts.Config {
	return &MapConfig{values: values}
}

// New loads configuration the standard way: yaml and json files first,
// then .env files, then process environment, later sources overriding
// earlier ones, with {{ }} templates expanded in the merged result.
func New(envPrefix string, paths ...string) (contracts.Config, error) {
	chain := NewChainLoader(
		NewYamlConfigLoader(paths...),
		NewJSONConfigLoader(paths...),
		NewDotenvConfigLoader(envPrefix),
		NewEnvConfigLoader(envPrefix),
	)

	values, err := newTemplatedLoader(chain).Load()
	if err != nil {
		return nil, err
	}
	return NewMapConfig(values), nil
}
