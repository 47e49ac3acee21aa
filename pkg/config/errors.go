package config

import "github.com/shuldan/chassis/pkg/errors"

var newConfigCode = errors.WithPrefix("CONFIG")

var (
	ErrNoConfigSource = newConfigCode().New("no valid configuration source found")
	ErrParseYAML      = newConfigCode().New("failed to parse YAML file {{.path}}: {{.reason}}")
	ErrParseJSON      = newConfigCode().New("failed to parse JSON file {{.path}}: {{.reason}}")
	ErrParseDotenv    = newConfigCode().New("failed to parse dotenv file {{.path}}: {{.reason}}")
	ErrMergeFailed    = newConfigCode().New("failed to merge configuration layers")
)
