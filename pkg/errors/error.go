package errors

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"text/template"
	"time"
)

type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		Code:      c,
		Message:   msg,
		Details:   make(map[string]interface{}),
		Stack:     getStack(),
		Timestamp: time.Now(),
	}
}

func WithPrefix(prefix string) func() Code {
	counter := int64(0)
	return func() Code {
		counter++
		return Code(fmt.Sprintf("%s_%04d", prefix, counter))
	}
}

type Error struct {
	Code      Code                   `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Stack     string                 `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *Error) Error() string {
	t, err := template.New("error").Parse(e.Message)
	if err != nil {
		return e.formatSimpleMessage()
	}

	var output bytes.Buffer
	if err = t.Execute(&output, e.Details); err != nil {
		return e.formatSimpleMessage()
	}

	msg := output.String()
	if msg == "" {
		return ""
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) formatSimpleMessage() string {
	if e.Message == "" {
		return ""
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", e.Code, e.Message, e.Cause.Error())
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithCause returns a copy carrying the cause. The receiver is left
// untouched so package-level sentinel errors stay safe under concurrent use.
func (e *Error) WithCause(err error) *Error {
	c := e.clone()
	c.Cause = err
	return c
}

// WithDetail returns a copy with the detail attached; see WithCause.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	c := e.clone()
	c.Details[key] = value
	return c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, ErrX) keeps
// working on the detailed copies WithDetail and WithCause hand out.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) clone() *Error {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	return &Error{
		Code:      e.Code,
		Message:   e.Message,
		Details:   details,
		Cause:     e.Cause,
		Stack:     getStack(),
		Timestamp: time.Now(),
	}
}

func getStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
