package container

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

func TestConstructFailure_WrapsConstructingPhase(t *testing.T) {
	cause := fmt.Errorf("refused")
	def := contracts.Definition{
		ID:   "svc",
		Type: "test.Svc",
		Construct: func(contracts.DependencyBag) (any, error) {
			return nil, cause
		},
	}

	c := New()
	if err := c.Register(def); err != nil {
		t.Fatal(err)
	}

	err := c.Start(context.Background())
	if !errors.Is(err, ErrLifecycleHook) {
		t.Fatalf("expected ErrLifecycleHook, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected the construct error in the chain, got %v", err)
	}
	phase, _ := errors.GetDetail(err, "phase")
	if phase != contracts.PhaseConstructing.String() {
		t.Errorf("expected constructing phase detail, got %v", phase)
	}
	id, _ := errors.GetDetail(err, "id")
	if id != "svc" {
		t.Errorf("expected id detail svc, got %v", id)
	}
}

func TestConstructReturningNil_Fails(t *testing.T) {
	def := contracts.Definition{
		ID:   "svc",
		Type: "test.Svc",
		Construct: func(contracts.DependencyBag) (any, error) {
			return nil, nil
		},
	}

	c := New()
	if err := c.Register(def); err != nil {
		t.Fatal(err)
	}

	err := c.Start(context.Background())
	if !errors.Is(err, ErrLifecycleHook) {
		t.Fatalf("expected ErrLifecycleHook for nil instance, got %v", err)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	var attempts int32
	def := contracts.Definition{
		ID:   "svc",
		Type: "test.Svc",
		Retry: &contracts.RetryPolicy{
			Attempts: 5,
			Backoff:  FixedBackoff{Duration: 50 * time.Millisecond},
		},
		Construct: func(contracts.DependencyBag) (any, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, fmt.Errorf("down")
		},
	}

	c := New()
	if err := c.Register(def); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Start(ctx)
	if err == nil {
		t.Fatal("expected start to fail")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation in the chain, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("cancellation must cut retries short, got %d attempts", got)
	}
}

func TestRetry_DefaultsToSingleAttempt(t *testing.T) {
	var attempts int32
	def := contracts.Definition{
		ID:   "svc",
		Type: "test.Svc",
		Construct: func(contracts.DependencyBag) (any, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, fmt.Errorf("down")
		},
	}

	c := New()
	if err := c.Register(def); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail")
	}

	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected a single attempt without a retry policy, got %d", got)
	}
}

func TestInterceptor_AfterInitFailure(t *testing.T) {
	var calls []string
	c := New()
	if err := c.Intercept(&recordingInterceptor{
		name:     "audit",
		calls:    &calls,
		afterErr: fmt.Errorf("rejected"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(widgetDef("svc", "test.Svc")); err != nil {
		t.Fatal(err)
	}

	err := c.Start(context.Background())
	if !errors.Is(err, ErrLifecycleHook) {
		t.Fatalf("expected ErrLifecycleHook, got %v", err)
	}
	phase, _ := errors.GetDetail(err, "phase")
	if phase != contracts.PhaseAfterInit.String() {
		t.Errorf("expected after-init phase detail, got %v", phase)
	}
	name, _ := errors.GetDetail(err, "interceptor")
	if name != "audit" {
		t.Errorf("expected interceptor name detail, got %v", name)
	}
}

func TestInterceptors_RunInRegistrationOrder(t *testing.T) {
	var calls []string
	c := New()
	for _, name := range []string{"first", "second"} {
		if err := c.Intercept(&namedInterceptor{name: name, calls: &calls}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Register(widgetDef("svc", "test.Svc")); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = c.Stop(context.Background()) }()

	want := []string{"first:before", "second:before", "first:after", "second:after"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

type namedInterceptor struct {
	name  string
	calls *[]string
}

func (n *namedInterceptor) Name() string { return n.name }

func (n *namedInterceptor) BeforeInit(_ context.Context, _ string, _ any) error {
	*n.calls = append(*n.calls, n.name+":before")
	return nil
}

func (n *namedInterceptor) AfterInit(_ context.Context, _ string, _ any) error {
	*n.calls = append(*n.calls, n.name+":after")
	return nil
}

func TestDestroy_NilHookIsNoop(t *testing.T) {
	c := startedContainer(t, widgetDef("svc", "test.Svc"))
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("stop with hookless definitions: %v", err)
	}
}

func TestDestroyError_CarriesPreDestroyPhase(t *testing.T) {
	def := widgetDef("svc", "test.Svc")
	def.DestroyHook = func(context.Context, any) error {
		return fmt.Errorf("flush failed")
	}

	c := startedContainer(t, def)
	err := c.Stop(context.Background())
	if !errors.Is(err, ErrLifecycleHook) {
		t.Fatalf("expected ErrLifecycleHook, got %v", err)
	}
	phase, _ := errors.GetDetail(err, "phase")
	if phase != contracts.PhasePreDestroy.String() {
		t.Errorf("expected pre-destroy phase detail, got %v", phase)
	}
}
