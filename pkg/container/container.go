package container

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

var _ contracts.Container = (*container)(nil)

type unitCtxKey struct{}

type container struct {
	cfg        contracts.Config
	log        contracts.Logger
	registry   *registry
	resolver   *resolver
	active     map[string]bool
	singletons *singletonStore
	units      *unitStore
	flights    *flightGroup
	waiters    *waitBoard
	lifecycle  *executor

	icMu         sync.Mutex
	interceptors []contracts.Interceptor

	state atomic.Int32
}

func New(opts ...Option) contracts.Container {
	c := &container{
		cfg:        emptyConfig{},
		log:        noopLogger{},
		registry:   newRegistry(),
		singletons: newSingletonStore(),
		units:      newUnitStore(),
		flights:    newFlightGroup(),
		waiters:    newWaitBoard(),
	}
	c.lifecycle = &executor{c: c}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *container) Register(def contracts.Definition) error {
	if err := c.registry.register(def); err != nil {
		return err
	}

	scope := def.Scope
	if scope == "" {
		scope = contracts.ScopeSingleton
	}
	c.log.Debug("definition registered",
		"id", def.ID, "type", def.Type, "scope", string(scope), "lazy", def.Lazy)
	if def.DestroyHook != nil && scope != contracts.ScopeSingleton {
		c.log.Trace("destroy hook never runs for this scope", "id", def.ID, "scope", string(scope))
	}
	return nil
}

func (c *container) Intercept(i contracts.Interceptor) error {
	if i == nil {
		return ErrInvalidDefinition.
			WithDetail("id", "interceptor").
			WithDetail("reason", "nil interceptor")
	}

	c.icMu.Lock()
	defer c.icMu.Unlock()

	if c.State() != contracts.StateNew {
		return ErrFrozenRegistry.WithDetail("id", i.Name())
	}
	c.interceptors = append(c.interceptors, i)
	return nil
}

// Start freezes the registry, evaluates conditions against the configuration
// snapshot, rejects dependency cycles carrying an eager edge and eagerly
// builds every active non-lazy singleton in registration order. The first
// build error aborts the whole start: partially built instances are torn
// down best effort and the container ends up in the terminal build-failed
// state.
func (c *container) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(contracts.StateNew), int32(contracts.StateStarting)) {
		switch c.State() {
		case contracts.StateStarting, contracts.StateReady:
			return ErrAlreadyStarted
		default:
			return ErrContainerClosed
		}
	}

	c.registry.freeze()

	c.icMu.Lock()
	c.lifecycle.interceptors = append([]contracts.Interceptor(nil), c.interceptors...)
	c.icMu.Unlock()

	defs := c.registry.all()
	active, err := evaluateConditions(defs, c.cfg)
	if err != nil {
		c.state.Store(int32(contracts.StateBuildFailed))
		c.log.Error("container build failed", "error", err.Error())
		return err
	}
	c.active = active
	c.resolver = newResolver(c.registry, c.active)

	excluded := 0
	for _, def := range defs {
		if !c.active[def.ID] {
			excluded++
			c.log.Debug("definition excluded by condition", "id", def.ID)
		}
	}

	if err := rejectEagerCycles(defs, c.active, c.resolver); err != nil {
		c.state.Store(int32(contracts.StateBuildFailed))
		c.log.Error("container build failed", "error", err.Error())
		return err
	}

	s := c.newSession()
	built := 0
	for _, def := range defs {
		if !c.active[def.ID] || def.Scope != contracts.ScopeSingleton || def.Lazy {
			continue
		}
		if _, err := s.instance(ctx, def.ID); err != nil {
			c.state.Store(int32(contracts.StateBuildFailed))
			c.log.Error("container build failed", "id", def.ID, "error", err.Error())
			c.teardownPartial(ctx)
			return err
		}
		built++
	}

	c.state.Store(int32(contracts.StateReady))
	c.log.Info("container started",
		"definitions", len(defs), "eager", built, "excluded", excluded)
	return nil
}

func (c *container) Resolve(ctx context.Context, typ string, opts ...contracts.ResolveOption) (any, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}

	q := contracts.ResolveQuery{}
	for _, opt := range opts {
		opt(&q)
	}

	id, err := c.resolver.resolveCandidate(request{
		Type:      typ,
		Qualifier: q.Qualifier,
		Name:      q.Name,
	})
	if err != nil {
		return nil, err
	}
	return c.newSession().instance(ctx, id)
}

func (c *container) ResolveID(ctx context.Context, id string) (any, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}
	return c.newSession().instance(ctx, id)
}

// FindByType lists the definition ids declaring the type tag, in
// registration order. Once started, condition-excluded definitions are
// absent from the result.
func (c *container) FindByType(typ string) []string {
	ids := c.registry.findByType(typ)

	switch c.State() {
	case contracts.StateNew, contracts.StateStarting:
		return ids
	}

	var active []string
	for _, id := range ids {
		if c.isActive(id) {
			active = append(active, id)
		}
	}
	return active
}

func (c *container) EnterUnitOfWork(ctx context.Context) (context.Context, error) {
	if err := c.ensureReady(); err != nil {
		return ctx, err
	}

	unitID := uuid.NewString()
	c.units.enter(unitID)
	c.log.Debug("unit of work started", "unit", unitID)
	return context.WithValue(ctx, unitCtxKey{}, unitID), nil
}

func (c *container) ExitUnitOfWork(ctx context.Context) error {
	unitID, ok := UnitID(ctx)
	if !ok {
		return ErrScopeMismatch.WithDetail("reason", "no active unit of work in context")
	}
	if !c.units.exit(unitID) {
		return ErrScopeMismatch.
			WithDetail("reason", "unit of work already ended").
			WithDetail("unit", unitID)
	}
	c.waiters.drop(unitKey(unitID, ""))
	c.log.Debug("unit of work ended", "unit", unitID)
	return nil
}

// Stop rejects new resolutions, waits for in-flight lazy constructions,
// then runs destroy hooks strictly in reverse construction order. Hook
// failures are collected; teardown always runs to completion.
func (c *container) Stop(ctx context.Context) error {
	for {
		switch state := c.State(); state {
		case contracts.StateNew:
			if c.state.CompareAndSwap(int32(contracts.StateNew), int32(contracts.StateClosed)) {
				return nil
			}
		case contracts.StateReady, contracts.StateBuildFailed:
			if c.state.CompareAndSwap(int32(state), int32(contracts.StateStopping)) {
				c.flights.closeAndWait()
				err := c.teardown(ctx)
				c.state.Store(int32(contracts.StateClosed))
				c.log.Info("container stopped")
				return err
			}
		case contracts.StateStarting:
			return ErrNotStarted.WithDetail("state", state.String())
		case contracts.StateStopping:
			return ErrContainerClosed
		case contracts.StateClosed:
			return nil
		}
	}
}

func (c *container) State() contracts.ContainerState {
	return contracts.ContainerState(c.state.Load())
}

func (c *container) ensureReady() error {
	switch state := c.State(); state {
	case contracts.StateReady:
		return nil
	case contracts.StateNew, contracts.StateStarting:
		return ErrNotStarted.WithDetail("state", state.String())
	default:
		return ErrContainerClosed
	}
}

func (c *container) isActive(id string) bool {
	return c.active[id]
}

func (c *container) teardown(ctx context.Context) error {
	var errs []error
	for _, si := range c.singletons.drain() {
		def, err := c.registry.lookup(si.id)
		if err != nil {
			continue
		}
		if err := c.lifecycle.destroy(ctx, def, si.inst); err != nil {
			c.log.Error("destroy hook failed", "id", si.id, "error", err.Error())
			errs = append(errs, err)
		}
	}
	c.units.clear()
	c.waiters.reset()
	return errors.Join(errs...)
}

func (c *container) teardownPartial(ctx context.Context) {
	if err := c.teardown(ctx); err != nil {
		c.log.Error("teardown after failed build", "error", err.Error())
	}
}

// UnitID extracts the unit-of-work id carried by a context returned from
// EnterUnitOfWork.
func UnitID(ctx context.Context) (string, bool) {
	unitID, ok := ctx.Value(unitCtxKey{}).(string)
	return unitID, ok && unitID != ""
}
