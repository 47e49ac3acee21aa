package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

type app struct {
	container       contracts.Container
	registry        contracts.AppRegistry
	cfg             contracts.Config
	log             contracts.Logger
	info            AppInfo
	appCtx          *appContext
	appCtxMu        sync.RWMutex
	isRunning       int32
	shutdownTimeout time.Duration
}

func WithGracefulTimeout(timeout time.Duration) func(*app) {
	return func(a *app) {
		a.shutdownTimeout = timeout
	}
}

// WithLogger sets the logger used before and during container start. Once
// the container is ready, a logger definition registered under the logger
// module name takes over.
func WithLogger(log contracts.Logger) func(*app) {
	return func(a *app) {
		if log != nil {
			a.log = log
		}
	}
}

func (a *app) Register(module contracts.AppModule) error {
	return a.registry.Register(module)
}

func (a *app) getAppCtx() *appContext {
	a.appCtxMu.RLock()
	defer a.appCtxMu.RUnlock()
	return a.appCtx
}

func (a *app) setAppCtx(ctx *appContext) {
	a.appCtxMu.Lock()
	defer a.appCtxMu.Unlock()
	a.appCtx = ctx
}

// Run drives the whole application lifetime: modules contribute their
// definitions, the container starts, module start hooks run, then Run blocks
// until a signal or Stop. Shutdown stops modules in reverse order and tears
// the container down last.
func (a *app) Run() error {
	if !atomic.CompareAndSwapInt32(&a.isRunning, 0, 1) {
		return ErrAppRun.WithDetail("reason", "application is already running")
	}

	ctx := newAppContext(a.info, a.container, a.cfg, a.log, a.registry)
	a.setAppCtx(ctx)

	for _, module := range a.registry.All() {
		if err := module.Register(a.container); err != nil {
			ctx.Stop()
			return ErrModuleRegister.
				WithDetail("module", module.Name()).
				WithCause(err)
		}
	}

	if err := a.container.Start(ctx.Ctx()); err != nil {
		ctx.Stop()
		return ErrContainerStart.WithCause(err)
	}

	a.adoptContainerLogger(ctx)

	started := 0
	for _, module := range a.registry.All() {
		if err := module.Start(ctx); err != nil {
			ctx.Stop()
			a.shutdownStarted(ctx, started)
			_ = a.container.Stop(context.Background())
			return ErrModuleStart.
				WithDetail("module", module.Name()).
				WithCause(err)
		}
		started++
	}

	go setupSignalHandler(ctx)

	<-ctx.Ctx().Done()

	return a.shutdown(ctx)
}

// adoptContainerLogger swaps the bootstrap logger for the one built inside
// the container, when a logger module registered one.
func (a *app) adoptContainerLogger(ctx *appContext) {
	v, err := a.container.ResolveID(ctx.Ctx(), contracts.LoggerModuleName)
	if err != nil {
		return
	}
	if log, ok := v.(contracts.Logger); ok {
		ctx.setLogger(log)
	}
}

func (a *app) shutdown(ctx *appContext) error {
	if a.shutdownTimeout <= 0 {
		return errors.Join(
			a.registry.Shutdown(ctx),
			a.container.Stop(context.Background()),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- errors.Join(
			a.registry.Shutdown(ctx),
			a.container.Stop(shutdownCtx),
		)
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
		return ErrAppStop.WithDetail("reason",
			"graceful shutdown timed out after "+a.shutdownTimeout.String())
	}
}

func (a *app) shutdownStarted(appCtx contracts.AppContext, startedModulesCount int) {
	modules := a.registry.All()
	for i := startedModulesCount - 1; i >= 0; i-- {
		_ = modules[i].Stop(appCtx)
	}
}

func setupSignalHandler(ctx contracts.AppContext) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		ctx.Stop()
	case <-ctx.Ctx().Done():
		return
	}
}
