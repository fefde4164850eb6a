package users

import (
	"fmt"
)

// Error types for user operations. These stay beneath the mutation action
// boundary: actions collapse them to plain strings before returning.

// ValidationError represents a failed schema validation over a payload
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if first := e.Fields.First(); first != "" {
		return first
	}
	return "validation failed"
}

// Store error types
const (
	StoreErrorTypeNotFound      = "not_found"
	StoreErrorTypeAlreadyExists = "already_exists"
	StoreErrorTypeQueryFailed   = "query_failed"
)

// StoreError represents errors related to storage operations
type StoreError struct {
	Type      string
	Operation string
	UserID    string
	Message   string
	Cause     error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error [%s] during %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("store error [%s] during %s: %s", e.Type, e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewUserNotFoundError creates an error for when a user is not found
func NewUserNotFoundError(operation, userID string) *StoreError {
	return &StoreError{
		Type:      StoreErrorTypeNotFound,
		Operation: operation,
		UserID:    userID,
		Message:   fmt.Sprintf("user not found: %s", userID),
	}
}

// NewUserAlreadyExistsError creates an error for duplicate user creation
func NewUserAlreadyExistsError(operation, email string) *StoreError {
	return &StoreError{
		Type:      StoreErrorTypeAlreadyExists,
		Operation: operation,
		Message:   fmt.Sprintf("user already exists with email: %s", email),
	}
}

// NewStoreQueryError creates an error for storage query failures
func NewStoreQueryError(operation string, cause error) *StoreError {
	return &StoreError{
		Type:      StoreErrorTypeQueryFailed,
		Operation: operation,
		Message:   "storage query failed",
		Cause:     cause,
	}
}
