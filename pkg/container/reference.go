package container

import (
	"strings"
	"sync"

	"github.com/shuldan/chassis/pkg/contracts"
)

var _ contracts.Reference = (*earlyReference)(nil)

// earlyReference stands in for an instance that is still under construction.
// It resolves once the target reaches the ready phase; any Get before that
// fails instead of handing out a half-built instance.
type earlyReference struct {
	id   string
	mu   sync.RWMutex
	inst any
	done bool
}

func newReference(id string) *earlyReference {
	return &earlyReference{id: id}
}

func newResolvedReference(id string, inst any) *earlyReference {
	return &earlyReference{id: id, inst: inst, done: true}
}

func (r *earlyReference) ID() string {
	return r.id
}

func (r *earlyReference) Resolved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

func (r *earlyReference) Get() (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.done {
		return nil, ErrReferenceNotReady.WithDetail("id", r.id)
	}
	return r.inst, nil
}

func (r *earlyReference) resolve(inst any) {
	r.mu.Lock()
	if !r.done {
		r.inst = inst
		r.done = true
	}
	r.mu.Unlock()
}

// waitBoard parks early references whose target is mid-construction and
// settles them when that target completes its lifecycle. Entries are keyed
// by scope key and outlive the session that parked them, so a reference
// held by a stored instance still resolves when a failed target is rebuilt
// by a later attempt.
type waitBoard struct {
	mu      sync.Mutex
	waiting map[string][]*earlyReference
}

func newWaitBoard() *waitBoard {
	return &waitBoard{waiting: make(map[string][]*earlyReference)}
}

func (w *waitBoard) park(key string, ref *earlyReference) {
	w.mu.Lock()
	w.waiting[key] = append(w.waiting[key], ref)
	w.mu.Unlock()
}

func (w *waitBoard) settle(key string, inst any) {
	w.mu.Lock()
	parked := w.waiting[key]
	delete(w.waiting, key)
	w.mu.Unlock()

	for _, ref := range parked {
		ref.resolve(inst)
	}
}

// drop discards every entry whose key carries the prefix. Used when a unit
// of work ends with references still parked on its instances.
func (w *waitBoard) drop(prefix string) {
	w.mu.Lock()
	for key := range w.waiting {
		if strings.HasPrefix(key, prefix) {
			delete(w.waiting, key)
		}
	}
	w.mu.Unlock()
}

func (w *waitBoard) reset() {
	w.mu.Lock()
	w.waiting = make(map[string][]*earlyReference)
	w.mu.Unlock()
}
