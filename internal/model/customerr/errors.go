package customerr

import (
	"fmt"

	"github.com/pkg/errors"
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// ConflictError reports a write rejected by a database constraint.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return "constraint violation: " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

type LimitError struct {
	Err string
}

func (e *LimitError) Error() string {
	return e.Err
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
