package bootstrap

import (
	"os"
	"time"

	"github.com/shuldan/chassis/pkg/app"
	"github.com/shuldan/chassis/pkg/cache"
	"github.com/shuldan/chassis/pkg/config"
	"github.com/shuldan/chassis/pkg/container"
	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/database"
	"github.com/shuldan/chassis/pkg/logger"
)

type Bootstrap struct {
	appName         string
	appVersion      string
	appEnvironment  string
	envPrefix       string
	configPaths     []string
	withLogger      bool
	withDatabase    bool
	withCache       bool
	modules         []contracts.AppModule
	interceptors    []contracts.Interceptor
	gracefulTimeout time.Duration
}

func New(appName string, appVersion string, envPrefix string, configPaths ...string) *Bootstrap {
	appEnvironment := os.Getenv("APP_ENVIRONMENT")
	if appEnvironment == "" {
		appEnvironment = "development"
	}

	return &Bootstrap{
		appName:         appName,
		appVersion:      appVersion,
		appEnvironment:  appEnvironment,
		envPrefix:       envPrefix,
		configPaths:     configPaths,
		gracefulTimeout: 30 * time.Second,
	}
}

func (b *Bootstrap) WithGracefulTimeout(timeout time.Duration) *Bootstrap {
	b.gracefulTimeout = timeout
	return b
}

func (b *Bootstrap) WithLogger() *Bootstrap {
	b.withLogger = true
	return b
}

func (b *Bootstrap) WithDatabase() *Bootstrap {
	b.withDatabase = true
	return b
}

func (b *Bootstrap) WithCache() *Bootstrap {
	b.withCache = true
	return b
}

func (b *Bootstrap) WithModule(m contracts.AppModule) *Bootstrap {
	b.modules = append(b.modules, m)
	return b
}

// WithInterceptor installs a container interceptor around every instance's
// init hook.
func (b *Bootstrap) WithInterceptor(i contracts.Interceptor) *Bootstrap {
	b.interceptors = append(b.interceptors, i)
	return b
}

// CreateApp loads the configuration, builds the container and assembles the
// application with the selected modules. Modules register their definitions
// when the application runs, not here.
func (b *Bootstrap) CreateApp() (contracts.App, error) {
	cfg, err := config.New(b.envPrefix, b.configPaths...)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := container.New(
		container.WithConfig(cfg),
		container.WithLogger(log),
	)
	for _, i := range b.interceptors {
		if err := c.Intercept(i); err != nil {
			return nil, err
		}
	}

	a := app.New(
		app.AppInfo{
			AppName:     b.appName,
			Version:     b.appVersion,
			Environment: b.appEnvironment,
		},
		cfg,
		c,
		app.NewRegistry(),
		app.WithGracefulTimeout(b.gracefulTimeout),
		app.WithLogger(log),
	)

	modules := []contracts.AppModule{config.NewModule(cfg)}
	if b.withLogger {
		modules = append(modules, logger.NewModule())
	}
	if b.withDatabase {
		modules = append(modules, database.NewModule(cfg))
	}
	if b.withCache {
		modules = append(modules, cache.NewModule(cfg))
	}
	modules = append(modules, b.modules...)

	for _, module := range modules {
		if err := a.Register(module); err != nil {
			return nil, err
		}
	}

	return a, nil
}
