package container

import (
	"context"

	"github.com/shuldan/chassis/pkg/contracts"
)

var _ contracts.DependencyBag = (*dependencyBag)(nil)

type bagValue struct {
	id   string
	inst any
}

// dependencyBag carries the resolved dependencies of one construction call,
// keyed by requirement name. Eager requirements are present as instances,
// deferred ones as references that resolve once their target is ready.
type dependencyBag struct {
	ctx    context.Context
	values map[string]bagValue
	refs   map[string]*earlyReference
}

func newDependencyBag(ctx context.Context) *dependencyBag {
	return &dependencyBag{
		ctx:    ctx,
		values: make(map[string]bagValue),
		refs:   make(map[string]*earlyReference),
	}
}

func (b *dependencyBag) Instance(name string) (any, error) {
	if v, ok := b.values[name]; ok {
		return v.inst, nil
	}
	if r, ok := b.refs[name]; ok {
		return r.Get()
	}
	return nil, ErrNotFound.WithDetail("request", "dependency "+name)
}

func (b *dependencyBag) Ref(name string) (contracts.Reference, error) {
	if r, ok := b.refs[name]; ok {
		return r, nil
	}
	if v, ok := b.values[name]; ok {
		return newResolvedReference(v.id, v.inst), nil
	}
	return nil, ErrNotFound.WithDetail("request", "dependency "+name)
}

func (b *dependencyBag) Context() context.Context {
	return b.ctx
}
