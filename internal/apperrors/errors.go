package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that a requested entity does not exist (or is soft
// deleted). Maps to HTTP 404.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// NewNotFound builds a NotFoundError for the given entity and lookup key.
func NewNotFound(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// ValidationError carries one message per failing field. Maps to HTTP 400.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return fmt.Sprintf("validation failed: %d errors", len(e.Messages))
}

// NewValidation builds a ValidationError from field messages.
func NewValidation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// InvalidStateError indicates an illegal state transition, such as publishing
// a page that is not a draft or cancelling a running job. Maps to HTTP 400.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NewInvalidState builds an InvalidStateError with the given message.
func NewInvalidState(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}
