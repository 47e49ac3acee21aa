package errors

import (
	"errors"
)

func Is(err, target error) bool {
	if err == nil && target == nil {
		return false
	}
	return errors.Is(err, target)
}

func As[T error](err error, target *T) bool {
	if err == nil {
		return false
	}
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

func GetErrorCode(err error) Code {
	var e *Error
	if As(err, &e) {
		return e.Code
	}
	return ""
}

// GetDetail digs the named detail out of err if it is (or wraps) an *Error.
func GetDetail(err error, key string) (interface{}, bool) {
	var e *Error
	if !As(err, &e) {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}
