package container

import (
	"context"
	"fmt"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
)

// executor drives a constructed instance through its lifecycle phases. The
// order is fixed: constructing, dependencies bound, aware callbacks, the
// registered interceptors around the definition's own init hook, ready.
type executor struct {
	c            *container
	interceptors []contracts.Interceptor
}

func (e *executor) build(ctx context.Context, s *buildSession, def *contracts.Definition, bag *dependencyBag, deferred []*deferredEdge) (any, error) {
	e.c.log.Trace("constructing instance", "id", def.ID, "scope", string(def.Scope))

	inst, err := e.constructWithRetry(ctx, def, bag)
	if err != nil {
		return nil, e.hookError(def.ID, contracts.PhaseConstructing, err)
	}

	if err := e.bindDeferred(ctx, s, deferred); err != nil {
		return nil, err
	}

	e.notifyAware(inst)

	for _, ic := range e.interceptors {
		if err := ic.BeforeInit(ctx, def.ID, inst); err != nil {
			return nil, e.interceptorError(def.ID, contracts.PhaseBeforeInit, ic, err)
		}
	}

	if def.InitHook != nil {
		if err := def.InitHook(ctx, inst); err != nil {
			return nil, e.hookError(def.ID, contracts.PhaseInit, err)
		}
	}

	for _, ic := range e.interceptors {
		if err := ic.AfterInit(ctx, def.ID, inst); err != nil {
			return nil, e.interceptorError(def.ID, contracts.PhaseAfterInit, ic, err)
		}
	}

	s.ready(ctx, def, inst)
	e.c.log.Trace("instance ready", "id", def.ID)
	return inst, nil
}

func (e *executor) constructWithRetry(ctx context.Context, def *contracts.Definition, bag *dependencyBag) (any, error) {
	attempts := 1
	var backoff contracts.BackoffStrategy = NoBackoff{}
	if def.Retry != nil {
		attempts = def.Retry.Attempts
		if def.Retry.Backoff != nil {
			backoff = def.Retry.Backoff
		}
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoff.Delay(attempt - 1)
			e.c.log.Warn("retrying construction",
				"id", def.ID, "attempt", attempt+1, "of", attempts, "delay", delay.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		inst, err := def.Construct(bag)
		if err == nil {
			if inst == nil {
				return nil, fmt.Errorf("construct returned a nil instance")
			}
			return inst, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// bindDeferred applies setter-style assignments after construction. Targets
// that are mid-construction in this session stay pending and are resolved
// when they reach ready; everything else is built, or fetched, now.
func (e *executor) bindDeferred(ctx context.Context, s *buildSession, deferred []*deferredEdge) error {
	for _, edge := range deferred {
		if s.visiting[edge.targetID] {
			s.pend(ctx, edge)
			continue
		}
		target, err := s.instance(ctx, edge.targetID)
		if err != nil {
			return err
		}
		edge.ref.resolve(target)
		e.c.log.Trace("bound deferred dependency", "name", edge.name, "target", edge.targetID)
	}
	return nil
}

func (e *executor) notifyAware(inst any) {
	if aware, ok := inst.(contracts.ContainerAware); ok {
		aware.SetContainer(e.c)
	}
	if aware, ok := inst.(contracts.ConfigAware); ok {
		aware.SetConfig(e.c.cfg)
	}
}

func (e *executor) destroy(ctx context.Context, def *contracts.Definition, inst any) error {
	if def.DestroyHook == nil {
		return nil
	}
	e.c.log.Trace("destroying instance", "id", def.ID)
	if err := def.DestroyHook(ctx, inst); err != nil {
		return e.hookError(def.ID, contracts.PhasePreDestroy, err)
	}
	return nil
}

func (e *executor) hookError(id string, phase contracts.Phase, cause error) error {
	return ErrLifecycleHook.
		WithDetail("id", id).
		WithDetail("phase", phase.String()).
		WithCause(cause)
}

func (e *executor) interceptorError(id string, phase contracts.Phase, ic contracts.Interceptor, cause error) error {
	return ErrLifecycleHook.
		WithDetail("id", id).
		WithDetail("phase", phase.String()).
		WithDetail("interceptor", ic.Name()).
		WithCause(cause)
}
