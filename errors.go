package relq

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a targeted row does not exist.
	ErrNotFound = errors.New("relq: entity not found")

	// ErrNotSingular is returned when a query that expects exactly one result
	// returns multiple results.
	ErrNotSingular = errors.New("relq: entity not singular")

	// ErrTxStarted is returned when attempting to start a new transaction
	// within an existing transaction.
	ErrTxStarted = errors.New("relq: cannot start a transaction within a transaction")
)

// NotFoundError is returned when a read, update, upsert or delete
// matched no row.
type NotFoundError struct {
	label string
	cond  string // Optional: rendered condition of the lookup.
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.cond != "" {
		return fmt.Sprintf("relq: %s not found for condition %s", e.label, e.cond)
	}
	return fmt.Sprintf("relq: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// Condition returns the condition that matched nothing, if known.
func (e *NotFoundError) Condition() string {
	return e.cond
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundForCondition returns a NotFoundError that records the
// condition which matched no row.
func NewNotFoundForCondition(label, cond string) *NotFoundError {
	return &NotFoundError{label: label, cond: cond}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents an error when a query expects a singular result
// but receives multiple results.
type NotSingularError struct {
	label string
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	return fmt.Sprintf("relq: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// NewNotSingularError returns a new NotSingularError for the given entity type.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// NotLoadedError is returned by generated relation accessors when the
// relation slot was not fetched.
type NotLoadedError struct {
	relation string
}

// Error returns the error string.
func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("relq: relation %q was not loaded", e.relation)
}

// NewNotLoadedError returns a new NotLoadedError for the given relation name.
func NewNotLoadedError(relation string) *NotLoadedError {
	return &NotLoadedError{relation: relation}
}

// IsNotLoaded returns true if the error is a NotLoadedError.
func IsNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	var e *NotLoadedError
	return errors.As(err, &e)
}

// RelationNotFoundError is returned when a requested relation is not
// declared on the entity.
type RelationNotFoundError struct {
	Entity   string
	Relation string
}

// Error returns the error string.
func (e *RelationNotFoundError) Error() string {
	return fmt.Sprintf("relq: relation %q not found on %s", e.Relation, e.Entity)
}

// NewRelationNotFoundError returns a new RelationNotFoundError.
func NewRelationNotFoundError(entity, relation string) *RelationNotFoundError {
	return &RelationNotFoundError{Entity: entity, Relation: relation}
}

// IsRelationNotFound returns true if the error is a RelationNotFoundError.
func IsRelationNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationNotFoundError
	return errors.As(err, &e)
}

// FetcherMissingError is returned when the registry has no fetcher for
// an entity. It points at a gap in the generated registry, not at bad input.
type FetcherMissingError struct {
	Entity string
}

// Error returns the error string.
func (e *FetcherMissingError) Error() string {
	return fmt.Sprintf("relq: fetcher missing for entity %s", e.Entity)
}

// NewFetcherMissingError returns a new FetcherMissingError.
func NewFetcherMissingError(entity string) *FetcherMissingError {
	return &FetcherMissingError{Entity: entity}
}

// IsFetcherMissing returns true if the error is a FetcherMissingError.
func IsFetcherMissing(err error) bool {
	if err == nil {
		return false
	}
	var e *FetcherMissingError
	return errors.As(err, &e)
}

// LookupError is returned when a deferred foreign-key lookup could not be
// resolved.
type LookupError struct {
	Target string // Entity the unique key was resolved against.
	Field  string // Draft field the key was destined for.
	Err    error  // Underlying error.
}

// Error returns the error string.
func (e *LookupError) Error() string {
	return fmt.Sprintf("relq: resolving %s for field %q: %v", e.Target, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError returns a new LookupError.
func NewLookupError(target, field string, err error) *LookupError {
	return &LookupError{Target: target, Field: field, Err: err}
}

// IsLookupError returns true if the error is a LookupError.
func IsLookupError(err error) bool {
	if err == nil {
		return false
	}
	var e *LookupError
	return errors.As(err, &e)
}

// TypeMismatchError reports a resolved key whose type does not match the
// type the generated code declared for it.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("relq: type mismatch for %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// NewTypeMismatchError returns a new TypeMismatchError.
func NewTypeMismatchError(field string, expected, actual any) *TypeMismatchError {
	return &TypeMismatchError{
		Field:    field,
		Expected: fmt.Sprintf("%T", expected),
		Actual:   fmt.Sprintf("%T", actual),
	}
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e)
}

// ValidationError represents an invalid query or field argument.
type ValidationError struct {
	Name string // Field or argument name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("relq: validator failed for %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given name.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Error returned by Rollback.
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("relq: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}
