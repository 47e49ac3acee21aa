package container

import "github.com/shuldan/chassis/pkg/contracts"

type Option func(*container)

// WithConfig sets the snapshot that condition predicates and config-aware
// instances see. Without it, an empty configuration is used.
func WithConfig(cfg contracts.Config) Option {
	return func(c *container) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

func WithLogger(log contracts.Logger) Option {
	return func(c *container) {
		if log != nil {
			c.log = log
		}
	}
}

func WithQualifier(qualifier string) contracts.ResolveOption {
	return func(q *contracts.ResolveQuery) {
		q.Qualifier = qualifier
	}
}

// WithName supplies the injection-name tie-break used when type and
// qualifier alone leave several candidates.
func WithName(name string) contracts.ResolveOption {
	return func(q *contracts.ResolveQuery) {
		q.Name = name
	}
}
