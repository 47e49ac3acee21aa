package logger

import (
	"github.com/shuldan/chassis/pkg/contracts"
)

type module struct {
	opts []Option
}

func (m *module) Name() string {
	return contracts.LoggerModuleName
}

func (m *module) Register(c contracts.Container) error {
	return c.Register(contracts.Definition{
		ID:    contracts.LoggerModuleName,
		Type:  contracts.LoggerTypeTag,
		Scope: contracts.ScopeSingleton,
		Requires: []contracts.Requirement{
			{Name: "config", Type: contracts.ConfigTypeTag, Optional: true},
		},
		Construct: func(deps contracts.DependencyBag) (any, error) {
			opts := m.opts
			if v, err := deps.Instance("config"); err == nil && v != nil {
				if cfg, ok := v.(contracts.Config); ok {
					// Explicit options win over configuration keys.
					opts = append(configuredOptions(cfg), m.opts...)
				}
			}
			return NewLogger(opts...)
		},
	})
}

func (m *module) Start(_ contracts.AppContext) error {
	return nil
}

func (m *module) Stop(_ contracts.AppContext) error {
	return nil
}

func configuredOptions(cfg contracts.Config) []Option {
	var opts []Option
	if s := cfg.GetString("logger.level"); s != "" {
		opts = append(opts, WithLevelString(s))
	}
	if cfg.GetBool("logger.json") {
		opts = append(opts, WithJSON())
	}
	if cfg.GetBool("logger.source") {
		opts = append(opts, WithSource())
	}
	if cfg.GetBool("logger.color") {
		opts = append(opts, WithColor())
	}
	return opts
}
