package container

import (
	"context"
	"strings"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

// buildSession is one traversal of the dependency graph: the eager pass of
// Start, or a single Resolve call. A session runs on one goroutine, so the
// visitation state needs no locking. Cross-session races on the same
// definition are settled by the container's flight group.
type buildSession struct {
	c        *container
	visiting map[string]bool
	path     []string
	pending  map[string][]*earlyReference
}

// deferredEdge is a requirement whose value is bound after construction.
type deferredEdge struct {
	name     string
	targetID string
	scope    contracts.Scope
	ref      *earlyReference
}

func (c *container) newSession() *buildSession {
	return &buildSession{
		c:        c,
		visiting: make(map[string]bool),
		pending:  make(map[string][]*earlyReference),
	}
}

// instance returns a ready instance for the definition id, constructing one
// if its scope store has none. Re-entering a definition that is still under
// construction in this session is an eager cycle and fails.
func (s *buildSession) instance(ctx context.Context, id string) (any, error) {
	def, err := s.c.registry.lookup(id)
	if err != nil {
		return nil, err
	}
	if !s.c.isActive(id) {
		// Condition-excluded definitions are invisible to resolution.
		return nil, ErrNotFound.WithDetail("request", "id "+id)
	}

	if def.Scope == contracts.ScopeSingleton {
		if inst, ok := s.c.singletons.get(id); ok {
			return inst, nil
		}
	}

	if s.visiting[id] {
		return nil, s.cycleError(id)
	}

	switch def.Scope {
	case contracts.ScopePrototype:
		return s.construct(ctx, def)

	case contracts.ScopeUnit:
		unitID, ok := UnitID(ctx)
		if !ok || !s.c.units.activeUnit(unitID) {
			return nil, ErrScopeMismatch.
				WithDetail("id", id).
				WithDetail("scope", string(def.Scope)).
				WithDetail("reason", "no active unit of work in context")
		}
		if inst, ok := s.c.units.get(unitID, id); ok {
			return inst, nil
		}
		return s.c.flights.do(unitKey(unitID, id), func() (any, error) {
			if inst, ok := s.c.units.get(unitID, id); ok {
				return inst, nil
			}
			inst, err := s.construct(ctx, def)
			if err != nil {
				return nil, err
			}
			if !s.c.units.put(unitID, id, inst) {
				return nil, ErrScopeMismatch.
					WithDetail("id", id).
					WithDetail("scope", string(def.Scope)).
					WithDetail("reason", "unit of work ended during construction")
			}
			return inst, nil
		})

	default:
		return s.c.flights.do(singletonKey(id), func() (any, error) {
			if inst, ok := s.c.singletons.get(id); ok {
				return inst, nil
			}
			inst, err := s.construct(ctx, def)
			if err != nil {
				return nil, err
			}
			s.c.singletons.put(id, inst)
			return inst, nil
		})
	}
}

// construct resolves the definition's edges depth first and hands the
// assembled dependency bag to the lifecycle executor.
func (s *buildSession) construct(ctx context.Context, def *contracts.Definition) (any, error) {
	s.visiting[def.ID] = true
	s.path = append(s.path, def.ID)
	defer func() {
		delete(s.visiting, def.ID)
		s.path = s.path[:len(s.path)-1]
	}()

	for _, depID := range def.DependsOn {
		if err := s.dependsOn(ctx, def, depID); err != nil {
			return nil, err
		}
	}

	bag := newDependencyBag(ctx)
	var deferred []*deferredEdge

	for _, req := range def.Requires {
		if req.Deferred {
			edge, err := s.deferredRef(ctx, def, req, bag)
			if err != nil {
				return nil, err
			}
			if edge != nil {
				deferred = append(deferred, edge)
			}
			continue
		}
		if err := s.eagerValue(ctx, def, req, bag); err != nil {
			return nil, err
		}
	}

	return s.c.lifecycle.build(ctx, s, def, bag, deferred)
}

// dependsOn applies an explicit ordering hint as an extra eager edge.
func (s *buildSession) dependsOn(ctx context.Context, def *contracts.Definition, depID string) error {
	target, err := s.c.registry.lookup(depID)
	if err != nil {
		return ErrUnsatisfiedDependency.
			WithDetail("id", def.ID).
			WithDetail("request", "depends-on "+depID).
			WithDetail("reason", "not registered").
			WithCause(err)
	}
	if !s.c.isActive(depID) {
		return ErrUnsatisfiedDependency.
			WithDetail("id", def.ID).
			WithDetail("request", "depends-on "+depID).
			WithDetail("reason", "excluded by condition")
	}
	if err := s.checkScopeEdge(def, target); err != nil {
		return err
	}

	_, err = s.instance(ctx, depID)
	return err
}

func (s *buildSession) eagerValue(ctx context.Context, def *contracts.Definition, req contracts.Requirement, bag *dependencyBag) error {
	targetID, err := s.c.resolver.resolveCandidate(requestFor(req))
	if err != nil {
		return s.unsatisfied(def, req, err)
	}
	if targetID == "" {
		bag.values[req.Name] = bagValue{}
		return nil
	}

	target, err := s.c.registry.lookup(targetID)
	if err != nil {
		return err
	}
	if err := s.checkScopeEdge(def, target); err != nil {
		return err
	}

	inst, err := s.instance(ctx, targetID)
	if err != nil {
		// Construction failures of the target surface as they are; only
		// resolution failures are wrapped as unsatisfied requirements.
		return err
	}
	bag.values[req.Name] = bagValue{id: targetID, inst: inst}
	return nil
}

// deferredRef resolves the candidate now but defers the value. Targets that
// are already ready bind immediately; anything else is bound during the
// dependent's dependencies-bound phase or, for cycle participants, once the
// target itself becomes ready.
func (s *buildSession) deferredRef(ctx context.Context, def *contracts.Definition, req contracts.Requirement, bag *dependencyBag) (*deferredEdge, error) {
	targetID, err := s.c.resolver.resolveCandidate(requestFor(req))
	if err != nil {
		return nil, s.unsatisfied(def, req, err)
	}
	if targetID == "" {
		bag.refs[req.Name] = newResolvedReference("", nil)
		return nil, nil
	}

	target, err := s.c.registry.lookup(targetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkScopeEdge(def, target); err != nil {
		return nil, err
	}

	if inst, ok := s.readyInstance(ctx, target); ok {
		bag.refs[req.Name] = newResolvedReference(targetID, inst)
		return nil, nil
	}

	ref := newReference(targetID)
	bag.refs[req.Name] = ref
	return &deferredEdge{name: req.Name, targetID: targetID, scope: target.Scope, ref: ref}, nil
}

func (s *buildSession) readyInstance(ctx context.Context, def *contracts.Definition) (any, bool) {
	switch def.Scope {
	case contracts.ScopeSingleton:
		return s.c.singletons.get(def.ID)
	case contracts.ScopeUnit:
		if unitID, ok := UnitID(ctx); ok {
			return s.c.units.get(unitID, def.ID)
		}
	}
	return nil, false
}

// checkScopeEdge rejects edges that would leak a unit-of-work instance into
// a container-wide one.
func (s *buildSession) checkScopeEdge(def, target *contracts.Definition) error {
	if def.Scope == contracts.ScopeSingleton && target.Scope == contracts.ScopeUnit {
		return ErrUnsatisfiedDependency.
			WithDetail("id", def.ID).
			WithDetail("request", "id "+target.ID).
			WithDetail("reason", "unit-of-work scoped dependency of a singleton").
			WithCause(ErrScopeMismatch.
				WithDetail("id", target.ID).
				WithDetail("scope", string(target.Scope)).
				WithDetail("reason", "outlives any unit of work"))
	}
	return nil
}

func (s *buildSession) unsatisfied(def *contracts.Definition, req contracts.Requirement, cause error) error {
	reason := "no candidate"
	if errors.Is(cause, ErrAmbiguousDefinition) {
		reason = "ambiguous candidates"
	} else if excluded := s.excludedOfType(req.Type); len(excluded) > 0 {
		reason = "candidates excluded by condition: " + strings.Join(excluded, ", ")
	}
	return ErrUnsatisfiedDependency.
		WithDetail("id", def.ID).
		WithDetail("request", requestFor(req).String()).
		WithDetail("reason", reason).
		WithCause(cause)
}

func (s *buildSession) excludedOfType(typ string) []string {
	var excluded []string
	for _, id := range s.c.registry.findByType(typ) {
		if !s.c.isActive(id) {
			excluded = append(excluded, id)
		}
	}
	return excluded
}

func (s *buildSession) cycleError(id string) error {
	start := 0
	for i, p := range s.path {
		if p == id {
			start = i
			break
		}
	}
	cycle := append(append([]string(nil), s.path[start:]...), id)
	return ErrCircularDependency.WithDetail("path", strings.Join(cycle, " -> "))
}

// pend parks a reference that closes a deferred cycle edge until its
// mid-construction target completes. Container-wide targets park on the
// shared board, where the reference outlives a failed attempt; prototypes
// exist only inside this session and stay on its local map.
func (s *buildSession) pend(ctx context.Context, edge *deferredEdge) {
	switch edge.scope {
	case contracts.ScopePrototype:
		s.pending[edge.targetID] = append(s.pending[edge.targetID], edge.ref)
	case contracts.ScopeUnit:
		if unitID, ok := UnitID(ctx); ok {
			s.c.waiters.park(unitKey(unitID, edge.targetID), edge.ref)
			return
		}
		s.pending[edge.targetID] = append(s.pending[edge.targetID], edge.ref)
	default:
		s.c.waiters.park(singletonKey(edge.targetID), edge.ref)
	}
}

// ready resolves the references waiting on a definition once its instance
// completed the lifecycle.
func (s *buildSession) ready(ctx context.Context, def *contracts.Definition, inst any) {
	for _, ref := range s.pending[def.ID] {
		ref.resolve(inst)
	}
	delete(s.pending, def.ID)

	switch def.Scope {
	case contracts.ScopeSingleton:
		s.c.waiters.settle(singletonKey(def.ID), inst)
	case contracts.ScopeUnit:
		if unitID, ok := UnitID(ctx); ok {
			s.c.waiters.settle(unitKey(unitID, def.ID), inst)
		}
	}
}

func requestFor(req contracts.Requirement) request {
	return request{
		Type:      req.Type,
		Qualifier: req.Qualifier,
		Name:      req.Name,
		Optional:  req.Optional,
	}
}
