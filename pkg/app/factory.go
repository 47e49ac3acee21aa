package app

import (
	"time"

	"github.com/shuldan/chassis/pkg/config"
	"github.com/shuldan/chassis/pkg/container"
	"github.com/shuldan/chassis/pkg/contracts"
)

func NewRegistry() contracts.AppRegistry {
	return &registry{
		modules: make([]contracts.AppModule, 0),
	}
}

func New(info AppInfo, cfg contracts.Config, c contracts.Container, registry contracts.AppRegistry, opts ...func(*app)) contracts.App {
	if cfg == nil {
		cfg = config.NewMapConfig(nil)
	}
	if c == nil {
		c = container.New(container.WithConfig(cfg))
	}
	if registry == nil {
		registry = NewRegistry()
	}

	a := &app{
		container:       c,
		registry:        registry,
		cfg:             cfg,
		log:             noopLogger{},
		info:            info,
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}
