package app

import (
	"context"
	"sync"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
)

type AppInfo struct {
	AppName     string
	Version     string
	Environment string
}

type appContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container contracts.Container
	cfg       contracts.Config
	log       contracts.Logger
	registry  contracts.AppRegistry
	info      AppInfo
	startTime time.Time
	stopTime  time.Time
	mu        sync.RWMutex
	isRunning bool
}

func newAppContext(info AppInfo, c contracts.Container, cfg contracts.Config, log contracts.Logger, registry contracts.AppRegistry) *appContext {
	ctx, cancel := context.WithCancel(context.Background())
	return &appContext{
		ctx:       ctx,
		cancel:    cancel,
		container: c,
		cfg:       cfg,
		log:       log,
		registry:  registry,
		info:      info,
		startTime: time.Now(),
		isRunning: true,
	}
}

func (c *appContext) Ctx() context.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctx
}

func (c *appContext) Container() contracts.Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.container
}

func (c *appContext) Config() contracts.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *appContext) Logger() contracts.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log
}

// setLogger swaps in the container-built logger once the container is ready.
func (c *appContext) setLogger(log contracts.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if log != nil {
		c.log = log
	}
}

func (c *appContext) AppName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info.AppName
}

func (c *appContext) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info.Version
}

func (c *appContext) Environment() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info.Environment
}

func (c *appContext) StartTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startTime
}

func (c *appContext) StopTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopTime
}

func (c *appContext) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isRunning
}

func (c *appContext) AppRegistry() contracts.AppRegistry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

func (c *appContext) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		c.cancel()
		c.stopTime = time.Now()
		c.isRunning = false
	}
}

// noopLogger backs AppContext.Logger before any real logger is wired in.
type noopLogger struct{}

func (noopLogger) Trace(string, ...any)           {}
func (noopLogger) Debug(string, ...any)           {}
func (noopLogger) Info(string, ...any)            {}
func (noopLogger) Warn(string, ...any)            {}
func (noopLogger) Error(string, ...any)           {}
func (noopLogger) Critical(string, ...any)        {}
func (n noopLogger) With(...any) contracts.Logger { return n }
