package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the referenced entity does not exist or is not
// owned by the caller. Ownership misses are deliberately indistinguishable
// from missing rows.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// InvalidStateError indicates a lifecycle transition that is illegal from
// the entity's current status.
type InvalidStateError struct {
	Entity string
	Action string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s can only be %s from draft status (current: %s)", e.Entity, e.Action, e.Status)
}

// AlreadyActiveError guards sequence activation.
type AlreadyActiveError struct{}

func (e *AlreadyActiveError) Error() string {
	return "sequence is already active"
}

// NotActiveError guards sequence pausing.
type NotActiveError struct{}

func (e *NotActiveError) Error() string {
	return "only active sequences can be paused"
}

// ValidationError indicates malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ComputationError indicates aggregation input that violates an invariant,
// such as a negative recipient count. Not expected in normal operation.
type ComputationError struct {
	Message string
}

func (e *ComputationError) Error() string {
	return e.Message
}

func Computation(format string, args ...interface{}) error {
	return &ComputationError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsClientError reports whether err should map to a 400-class response
// rather than an internal failure.
func IsClientError(err error) bool {
	var invalidState *InvalidStateError
	var alreadyActive *AlreadyActiveError
	var notActive *NotActiveError
	var validation *ValidationError
	return errors.As(err, &invalidState) ||
		errors.As(err, &alreadyActive) ||
		errors.As(err, &notActive) ||
		errors.As(err, &validation)
}
