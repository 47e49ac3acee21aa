package config

import (
	"github.com/shuldan/chassis/pkg/contracts"
)

type module struct {
	cfg contracts.Config
}

// NewModule exposes an already loaded configuration snapshot as a container
// definition, so components can declare it as a plain dependency.
func NewModule(cfg contracts.Config) contracts.AppModule {
	return &module{cfg: cfg}
}

func (m *module) Name() string {
	return contracts.ConfigModuleName
}

func (m *module) Register(c contracts.Container) error {
	return c.Register(contracts.Definition{
		ID:    contracts.ConfigModuleName,
		Type:  contracts.ConfigTypeTag,
		Scope: contracts.ScopeSingleton,
		Construct: func(contracts.DependencyBag) (any, error) {
			return m.cfg, nil
		},
	})
}

func (m *module) Start(_ contracts.AppContext) error {
	return nil
}

func (m *module) Stop(_ contracts.AppContext) error {
	return nil
}
