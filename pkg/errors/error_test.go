package errors

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCode_New(t *testing.T) {
	code := Code("TEST_001")
	err := code.New("something went wrong")

	if err.Code != code {
		t.Errorf("expected code %s, got %s", code, err.Code)
	}
	if err.Message != "something went wrong" {
		t.Errorf("expected message 'something went wrong', got %s", err.Message)
	}
	if err.Details == nil {
		t.Error("expected Details to be initialized")
	}
	if err.Stack == "" {
		t.Error("expected Stack to be filled")
	}
	if err.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestWithPrefix(t *testing.T) {
	gen := WithPrefix("API")
	c1 := gen()
	c2 := gen()
	c3 := gen()

	if c1 != "API_0001" {
		t.Errorf("expected API_0001, got %s", c1)
	}
	if c2 != "API_0002" {
		t.Errorf("expected API_0002, got %s", c2)
	}
	if c3 != "API_0003" {
		t.Errorf("expected API_0003, got %s", c3)
	}
}

func TestError_Error_Simple(t *testing.T) {
	err := Code("TEST_001").New("simple error")

	expected := "TEST_001: simple error"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}
}

func TestError_Error_WithTemplate(t *testing.T) {
	err := Code("TEST_001").New("hello {{.name}}").
		WithDetail("name", "world")

	expected := "TEST_001: hello world"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}
}

func TestError_Error_InvalidTemplate(t *testing.T) {
	err := Code("TEST_001").New("hello {{.name")

	expected := "TEST_001: hello {{.name"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}
}

func TestError_Error_WithCause(t *testing.T) {
	cause := errors.New("cause error")
	err := Code("TEST_001").New("wrapped error").WithCause(cause)

	expected := "TEST_001: wrapped error (caused by: cause error)"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}
}

func TestError_Error_ComplexTemplate(t *testing.T) {
	err := Code("TEST_001").New("definition {{.id}} (type {{.type}}) failed: {{.reason}}").
		WithDetail("id", "db.primary").
		WithDetail("type", "database.Conn").
		WithDetail("reason", "dial refused")

	expected := "TEST_001: definition db.primary (type database.Conn) failed: dial refused"
	if err.Error() != expected {
		t.Errorf("expected %s, got %s", expected, err.Error())
	}
}

func TestError_WithDetail_DoesNotMutateSentinel(t *testing.T) {
	sentinel := Code("TEST_001").New("base {{.id}}")

	detailed := sentinel.WithDetail("id", "abc")

	if len(sentinel.Details) != 0 {
		t.Errorf("sentinel details mutated: %v", sentinel.Details)
	}
	if detailed.Details["id"] != "abc" {
		t.Errorf("expected copy to carry detail, got %v", detailed.Details)
	}
	if detailed == sentinel {
		t.Error("WithDetail must return a copy")
	}
}

func TestError_WithCause_DoesNotMutateSentinel(t *testing.T) {
	sentinel := Code("TEST_001").New("base")
	cause := errors.New("boom")

	detailed := sentinel.WithCause(cause)

	if sentinel.Cause != nil {
		t.Errorf("sentinel cause mutated: %v", sentinel.Cause)
	}
	if !errors.Is(detailed, cause) {
		t.Error("expected copy to wrap the cause")
	}
}

func TestError_Is_MatchesSentinelAfterDetail(t *testing.T) {
	sentinel := Code("TEST_001").New("base")
	detailed := sentinel.WithDetail("k", "v").WithCause(errors.New("boom"))

	if !errors.Is(detailed, sentinel) {
		t.Error("detailed copy should still match the sentinel via errors.Is")
	}

	other := Code("TEST_002").New("other")
	if errors.Is(detailed, other) {
		t.Error("different codes must not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause error")
	err := Code("TEST_001").New("wrapped").WithCause(cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Errorf("expected cause error, got %v", err.Unwrap())
	}
}

func TestError_Unwrap_Nil(t *testing.T) {
	err := Code("TEST_001").New("test without cause")

	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrapped error, got %v", err.Unwrap())
	}
}

func TestError_Stack(t *testing.T) {
	err := Code("TEST_001").New("stack test")

	if err.Stack == "" {
		t.Error("expected Stack to be filled")
	}
	if !strings.Contains(err.Stack, "TestError_Stack") {
		t.Error("expected stack to contain TestError_Stack")
	}
}

func TestError_Error_TemplateWithMissingKey(t *testing.T) {
	err := Code("TEST_001").New("Hello {{.name}}, welcome to {{.place}}").
		WithDetail("name", "John")

	result := err.Error()
	if !strings.HasPrefix(result, "TEST_001:") {
		t.Errorf("expected error to start with TEST_001:, got %s", result)
	}
}

func TestError_Timestamp(t *testing.T) {
	before := time.Now()
	err := Code("TEST_001").New("test")
	after := time.Now()

	if err.Timestamp.Before(before) || err.Timestamp.After(after) {
		t.Error("Timestamp should be set during error creation")
	}
}
