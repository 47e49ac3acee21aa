package contracts

import (
	"context"
	"time"
)

type Scope string

const (
	// ScopeSingleton shares one instance for the container lifetime.
	ScopeSingleton Scope = "singleton"
	// ScopePrototype builds a fresh instance on every resolution.
	ScopePrototype Scope = "prototype"
	// ScopeUnit shares one instance inside a unit of work.
	ScopeUnit Scope = "unit-of-work"
)

type Phase int

const (
	PhaseDefined Phase = iota
	PhaseConstructing
	PhaseDependenciesBound
	PhaseAwareNotified
	PhaseBeforeInit
	PhaseInit
	PhaseAfterInit
	PhaseReady
	PhasePreDestroy
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseDefined:
		return "defined"
	case PhaseConstructing:
		return "constructing"
	case PhaseDependenciesBound:
		return "dependencies-bound"
	case PhaseAwareNotified:
		return "aware-notified"
	case PhaseBeforeInit:
		return "before-init"
	case PhaseInit:
		return "init"
	case PhaseAfterInit:
		return "after-init"
	case PhaseReady:
		return "ready"
	case PhasePreDestroy:
		return "pre-destroy"
	case PhaseDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Requirement names one dependency of a definition. Name keys the value in
// the DependencyBag handed to the construct function and doubles as the
// injection-name tie-breaker during candidate resolution.
type Requirement struct {
	Name      string
	Type      string
	Qualifier string
	Deferred  bool
	Optional  bool
}

type ConstructFunc func(deps DependencyBag) (interface{}, error)

type HookFunc func(ctx context.Context, instance interface{}) error

type ConditionFunc func(cfg Config) bool

type BackoffStrategy interface {
	Delay(attempt int) time.Duration
}

type RetryPolicy struct {
	Attempts int
	Backoff  BackoffStrategy
}

// Definition is the declarative description of one component: how to build
// it, what it needs, and how the container manages its lifetime. Definitions
// are copied on registration and immutable afterwards.
type Definition struct {
	ID          string
	Type        string
	Scope       Scope
	Lazy        bool
	Primary     bool
	Qualifiers  []string
	DependsOn   []string
	Requires    []Requirement
	Construct   ConstructFunc
	InitHook    HookFunc
	DestroyHook HookFunc
	Condition   ConditionFunc
	Retry       *RetryPolicy
}

// Reference is an early handle to an instance that may still be under
// construction. Get only succeeds once the target reached the ready phase.
type Reference interface {
	ID() string
	Resolved() bool
	Get() (interface{}, error)
}

type DependencyBag interface {
	Instance(name string) (interface{}, error)
	Ref(name string) (Reference, error)
	Context() context.Context
}

// Interceptor observes every instance around its init hook. A non-nil error
// aborts the instance and, during startup, the build.
type Interceptor interface {
	Name() string
	BeforeInit(ctx context.Context, id string, instance interface{}) error
	AfterInit(ctx context.Context, id string, instance interface{}) error
}

// ContainerAware instances receive the owning container before init hooks run.
type ContainerAware interface {
	SetContainer(c Container)
}

// ConfigAware instances receive the configuration snapshot before init hooks run.
type ConfigAware interface {
	SetConfig(cfg Config)
}

type ResolveQuery struct {
	Qualifier string
	Name      string
}

type ResolveOption func(*ResolveQuery)

type ContainerState int32

const (
	StateNew ContainerState = iota
	StateStarting
	StateReady
	StateStopping
	StateClosed
	StateBuildFailed
)

func (s ContainerState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	case StateBuildFailed:
		return "build-failed"
	}
	return "unknown"
}

type Container interface {
	Register(def Definition) error
	Intercept(i Interceptor) error
	Start(ctx context.Context) error
	Resolve(ctx context.Context, typ string, opts ...ResolveOption) (interface{}, error)
	ResolveID(ctx context.Context, id string) (interface{}, error)
	FindByType(typ string) []string
	EnterUnitOfWork(ctx context.Context) (context.Context, error)
	ExitUnitOfWork(ctx context.Context) error
	Stop(ctx context.Context) error
	State() ContainerState
}
