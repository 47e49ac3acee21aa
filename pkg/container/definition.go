package container

import (
	"fmt"

	"github.com/shuldan/chassis/pkg/contracts"
)

type DefinitionOption func(*contracts.Definition)

// NewDefinition assembles a definition from the construct function and
// options. The zero scope means singleton; validation happens on Register.
func NewDefinition(id, typ string, construct contracts.ConstructFunc, opts ...DefinitionOption) contracts.Definition {
	def := contracts.Definition{ID: id, Type: typ, Construct: construct}
	for _, opt := range opts {
		opt(&def)
	}
	return def
}

func WithScope(scope contracts.Scope) DefinitionOption {
	return func(d *contracts.Definition) {
		d.Scope = scope
	}
}

func WithLazy() DefinitionOption {
	return func(d *contracts.Definition) {
		d.Lazy = true
	}
}

// WithPrimary marks the definition as the preferred candidate among
// several sharing a type tag.
func WithPrimary() DefinitionOption {
	return func(d *contracts.Definition) {
		d.Primary = true
	}
}

func WithQualifiers(qualifiers ...string) DefinitionOption {
	return func(d *contracts.Definition) {
		d.Qualifiers = append(d.Qualifiers, qualifiers...)
	}
}

// WithDependsOn adds eager ordering edges to definitions the component
// needs started but does not consume through the bag.
func WithDependsOn(ids ...string) DefinitionOption {
	return func(d *contracts.Definition) {
		d.DependsOn = append(d.DependsOn, ids...)
	}
}

func WithRequirements(reqs ...contracts.Requirement) DefinitionOption {
	return func(d *contracts.Definition) {
		d.Requires = append(d.Requires, reqs...)
	}
}

func WithCondition(cond contracts.ConditionFunc) DefinitionOption {
	return func(d *contracts.Definition) {
		d.Condition = cond
	}
}

func WithInitHook(hook contracts.HookFunc) DefinitionOption {
	return func(d *contracts.Definition) {
		d.InitHook = hook
	}
}

func WithDestroyHook(hook contracts.HookFunc) DefinitionOption {
	return func(d *contracts.Definition) {
		d.DestroyHook = hook
	}
}

// WithRetry wraps the construct call in a retry loop. The backoff strategy
// decides the pause between attempts; nil means no pause.
func WithRetry(attempts int, backoff contracts.BackoffStrategy) DefinitionOption {
	return func(d *contracts.Definition) {
		d.Retry = &contracts.RetryPolicy{Attempts: attempts, Backoff: backoff}
	}
}

// validateDefinition normalizes the scope default and rejects definitions
// that could never be built. The registry calls it before accepting a copy.
func validateDefinition(def *contracts.Definition) error {
	if def.ID == "" {
		return invalidDefinition(def.ID, "empty id")
	}
	if def.Type == "" {
		return invalidDefinition(def.ID, "empty type tag")
	}
	if def.Construct == nil {
		return invalidDefinition(def.ID, "missing construct function")
	}

	switch def.Scope {
	case "":
		def.Scope = contracts.ScopeSingleton
	case contracts.ScopeSingleton, contracts.ScopePrototype, contracts.ScopeUnit:
	default:
		return invalidDefinition(def.ID, fmt.Sprintf("unknown scope %q", def.Scope))
	}

	seen := make(map[string]struct{}, len(def.Requires))
	for _, req := range def.Requires {
		if req.Name == "" {
			return invalidDefinition(def.ID, "requirement with empty name")
		}
		if req.Type == "" {
			return invalidDefinition(def.ID, fmt.Sprintf("requirement %q has empty type", req.Name))
		}
		if _, dup := seen[req.Name]; dup {
			return invalidDefinition(def.ID, fmt.Sprintf("duplicate requirement name %q", req.Name))
		}
		seen[req.Name] = struct{}{}
	}

	for _, dep := range def.DependsOn {
		if dep == "" {
			return invalidDefinition(def.ID, "empty depends-on id")
		}
		if dep == def.ID {
			return invalidDefinition(def.ID, "definition depends on itself")
		}
	}

	if def.Retry != nil && def.Retry.Attempts < 1 {
		return invalidDefinition(def.ID, "retry attempts must be at least 1")
	}

	return nil
}

func invalidDefinition(id, reason string) error {
	return ErrInvalidDefinition.
		WithDetail("id", id).
		WithDetail("reason", reason)
}
