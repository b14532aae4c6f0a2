package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound and related sentinels classify every failure the model reports.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrIndexBoundary = errors.New("index at boundary")
)

// Field names carried by ValidationError.
const (
	FieldListName    = "name"
	FieldListOwner   = "owner"
	FieldListID      = "id"
	FieldDescription = "description"
	FieldAssignedTo  = "assigned_to"
	FieldDueDate     = "due_date"
)

// NotFoundError reports a list or item lookup that matched nothing.
type NotFoundError struct {
	Kind string
	Key  string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError blocks a mutation whose input is unacceptable.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// IndexBoundaryError reports a reorder past either end of an item sequence.
type IndexBoundaryError struct {
	Index     int
	Len       int
	Direction MoveDirection
}

// Error implements error.
func (e *IndexBoundaryError) Error() string {
	return fmt.Sprintf("cannot move item %d %s in a list of %d", e.Index, e.Direction, e.Len)
}

// Unwrap returns ErrIndexBoundary.
func (e *IndexBoundaryError) Unwrap() error { return ErrIndexBoundary }

// NewNotFoundError constructs a NotFoundError.
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func itemNotFound(i int) error {
	return NewNotFoundError("item", fmt.Sprintf("#%d", i))
}
