package container

import (
	"sync"
)

// singletonStore owns the container-wide instances. The order slice records
// completion order so teardown can run strictly in reverse.
type singletonStore struct {
	mu    sync.RWMutex
	items map[string]any
	order []string
}

func newSingletonStore() *singletonStore {
	return &singletonStore{items: make(map[string]any)}
}

func (s *singletonStore) get(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.items[id]
	return inst, ok
}

func (s *singletonStore) put(id string, inst any) {
	s.mu.Lock()
	if _, exists := s.items[id]; !exists {
		s.items[id] = inst
		s.order = append(s.order, id)
	}
	s.mu.Unlock()
}

// drain clears the store and returns (id, instance) pairs in reverse
// completion order, ready for teardown.
func (s *singletonStore) drain() []storedInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := make([]storedInstance, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		drained = append(drained, storedInstance{id: id, inst: s.items[id]})
	}
	s.items = make(map[string]any)
	s.order = nil
	return drained
}

type storedInstance struct {
	id   string
	inst any
}

// unitStore owns per-unit-of-work instances, keyed by unit id then
// definition id. Units are discarded wholesale on exit; their instances
// never see destroy hooks.
type unitStore struct {
	mu    sync.RWMutex
	units map[string]map[string]any
}

func newUnitStore() *unitStore {
	return &unitStore{units: make(map[string]map[string]any)}
}

func (u *unitStore) enter(unitID string) {
	u.mu.Lock()
	u.units[unitID] = make(map[string]any)
	u.mu.Unlock()
}

func (u *unitStore) exit(unitID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.units[unitID]; !ok {
		return false
	}
	delete(u.units, unitID)
	return true
}

func (u *unitStore) activeUnit(unitID string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.units[unitID]
	return ok
}

func (u *unitStore) get(unitID, defID string) (any, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	unit, ok := u.units[unitID]
	if !ok {
		return nil, false
	}
	inst, ok := unit[defID]
	return inst, ok
}

func (u *unitStore) put(unitID, defID string, inst any) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	unit, ok := u.units[unitID]
	if !ok {
		return false
	}
	unit[defID] = inst
	return true
}

func (u *unitStore) clear() {
	u.mu.Lock()
	u.units = make(map[string]map[string]any)
	u.mu.Unlock()
}

// Scope keys name one live instance slot. Flights and parked references
// share the keyspace.
func singletonKey(id string) string {
	return "s:" + id
}

func unitKey(unitID, id string) string {
	return "u:" + unitID + ":" + id
}

// flightGroup gives each construction key at most one in-flight build.
// Concurrent callers for the same key block on the first flight and share
// its outcome. Failed flights are forgotten, so a later call may retry;
// successful ones land in a scope store before the flight ends, keeping
// construction at-most-once.
type flightGroup struct {
	mu      sync.Mutex
	closed  bool
	flights map[string]*flight
	wg      sync.WaitGroup
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

func newFlightGroup() *flightGroup {
	return &flightGroup{flights: make(map[string]*flight)}
}

func (g *flightGroup) do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, ErrContainerClosed
	}
	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err
	}

	f := &flight{done: make(chan struct{})}
	g.flights[key] = f
	g.wg.Add(1)
	g.mu.Unlock()

	f.val, f.err = fn()

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	close(f.done)
	g.wg.Done()

	return f.val, f.err
}

// closeAndWait rejects new flights and blocks until in-flight builds finish.
func (g *flightGroup) closeAndWait() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}
