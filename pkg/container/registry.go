package container

import (
	"sync"

	"github.com/shuldan/chassis/pkg/contracts"
)

// registry stores immutable definitions keyed by id, keeping insertion order
// so type lookups and eager construction stay deterministic.
type registry struct {
	mu     sync.RWMutex
	frozen bool
	defs   map[string]*contracts.Definition
	order  []string
	byType map[string][]string
}

func newRegistry() *registry {
	return &registry{
		defs:   make(map[string]*contracts.Definition),
		byType: make(map[string][]string),
	}
}

func (r *registry) register(def contracts.Definition) error {
	if err := validateDefinition(&def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozenRegistry.WithDetail("id", def.ID)
	}
	if _, exists := r.defs[def.ID]; exists {
		return ErrDuplicateID.WithDetail("id", def.ID)
	}

	copied := def
	copied.Qualifiers = append([]string(nil), def.Qualifiers...)
	copied.DependsOn = append([]string(nil), def.DependsOn...)
	copied.Requires = append([]contracts.Requirement(nil), def.Requires...)

	r.defs[copied.ID] = &copied
	r.order = append(r.order, copied.ID)
	r.byType[copied.Type] = append(r.byType[copied.Type], copied.ID)
	return nil
}

func (r *registry) freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

func (r *registry) lookup(id string) (*contracts.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	if !ok {
		return nil, ErrNotFound.WithDetail("request", "id "+id)
	}
	return def, nil
}

func (r *registry) findByType(typ string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.byType[typ]...)
}

// all returns the definitions in registration order.
func (r *registry) all() []*contracts.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*contracts.Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.defs[id])
	}
	return defs
}

func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
