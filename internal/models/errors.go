package models

import "fmt"

// ValidationError rejects a mutation before it touches the store: a
// required field is missing, an amount is negative, or an enum value is
// unknown. The field name is kept for the caller to surface.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError means the referenced entity does not exist (already
// deleted, or wrong parent).
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AuthorizationError means the caller does not own the wedding a
// mutation targets. The ownership check itself lives in the identity
// collaborator; this error only carries its verdict.
type AuthorizationError struct {
	Caller    string
	WeddingID int64
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("caller %q does not own wedding %d", e.Caller, e.WeddingID)
}

// PersistenceError wraps a failure from the underlying store. No retry
// happens at this level.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
