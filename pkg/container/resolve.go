package container

import (
	"context"
	"fmt"

	"github.com/shuldan/chassis/pkg/contracts"
)

// Resolve is the typed counterpart of Container.Resolve. It fails with a
// type mismatch error when the resolved instance is not a T.
func Resolve[T any](ctx context.Context, c contracts.Container, typ string, opts ...contracts.ResolveOption) (T, error) {
	var zero T

	v, err := c.Resolve(ctx, typ, opts...)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, ErrTypeMismatch.
			WithDetail("id", typ).
			WithDetail("actual", fmt.Sprintf("%T", v))
	}
	return t, nil
}

// ResolveID is the typed counterpart of Container.ResolveID.
func ResolveID[T any](ctx context.Context, c contracts.Container, id string) (T, error) {
	var zero T

	v, err := c.ResolveID(ctx, id)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, ErrTypeMismatch.
			WithDetail("id", id).
			WithDetail("actual", fmt.Sprintf("%T", v))
	}
	return t, nil
}
