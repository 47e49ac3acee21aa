package container

import "github.com/shuldan/chassis/pkg/errors"

var newContainerCode = errors.WithPrefix("CONTAINER")

var (
	ErrDuplicateID           = newContainerCode().New("definition {{.id}} is already registered")
	ErrInvalidDefinition     = newContainerCode().New("invalid definition {{.id}}: {{.reason}}")
	ErrFrozenRegistry        = newContainerCode().New("registry is frozen, {{.id}} cannot be registered after start")
	ErrNotFound              = newContainerCode().New("no definition found for {{.request}}")
	ErrAmbiguousDefinition   = newContainerCode().New("multiple definitions match {{.request}}: {{.candidates}}")
	ErrCircularDependency    = newContainerCode().New("circular dependency: {{.path}}")
	ErrUnsatisfiedDependency = newContainerCode().New("definition {{.id}} requires {{.request}}: {{.reason}}")
	ErrLifecycleHook         = newContainerCode().New("lifecycle hook failed for {{.id}} in phase {{.phase}}")
	ErrScopeMismatch         = newContainerCode().New("scope mismatch: {{.reason}}")
	ErrAlreadyStarted        = newContainerCode().New("container has already been started")
	ErrNotStarted            = newContainerCode().New("container is not ready, current state {{.state}}")
	ErrContainerClosed       = newContainerCode().New("container is closed")
	ErrReferenceNotReady     = newContainerCode().New("reference {{.id}} is not ready yet")
	ErrTypeMismatch          = newContainerCode().New("instance of {{.id}} is {{.actual}}, not the requested type")
	ErrConditionPanic        = newContainerCode().New("condition for {{.id}} panicked: {{.value}}")
)
