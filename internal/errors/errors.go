// Package errors provides structured error handling for the admin services.
// It defines the service error taxonomy (validation, conflict, not found),
// sentinel errors, and utility functions for consistent error handling
// across modules.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies service errors
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed or missing required input,
	// caught before any mutation
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a uniqueness violation
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeNotFound indicates the operation targets a nonexistent entity
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInternal indicates internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// Sentinel errors for common scenarios
var (
	// ErrMissingRequiredFields indicates a create request without its required fields
	ErrMissingRequiredFields = errors.New("missing required fields")

	// ErrInvalidEmail indicates an email that fails format validation
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrDuplicateEmail indicates an email already present in the store
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrMovieNotFound indicates a catalog ID that doesn't exist
	ErrMovieNotFound = errors.New("movie not found")

	// ErrUserNotFound indicates a managed-user ID that doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound indicates an email with no roster entry
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists indicates a register attempt for a roster email
	ErrAccountExists = errors.New("account already exists")

	// ErrNotAuthenticated indicates no active session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUploadNotFound indicates an upload ID missing from the working set
	ErrUploadNotFound = errors.New("upload not found")

	// ErrUploadsInProgress indicates a submit while files are still uploading
	ErrUploadsInProgress = errors.New("uploads still in progress")

	// ErrNoCompletedUploads indicates a submit with nothing to publish
	ErrNoCompletedUploads = errors.New("no completed uploads")

	// ErrDatabaseOperation indicates a store operation failed
	ErrDatabaseOperation = errors.New("database operation failed")
)

// ServiceError provides structured error information with context
type ServiceError struct {
	Type     ErrorType // Error classification
	Op       string    // Operation that failed (e.g., "add_movie", "login")
	Entity   string    // Entity kind if applicable (e.g., "movie", "user")
	EntityID string    // Entity ID if applicable
	Err      error     // Underlying error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Entity != "" && e.EntityID != "" {
		return fmt.Sprintf("%s error in %s [%s=%s]: %v", e.Type, e.Op, e.Entity, e.EntityID, e.Err)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s error in %s [%s]: %v", e.Type, e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for sentinel errors
func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// New creates a new ServiceError
func New(errType ErrorType, op string, err error) *ServiceError {
	return &ServiceError{
		Type: errType,
		Op:   op,
		Err:  err,
	}
}

// WithEntity adds entity context to the error
func (e *ServiceError) WithEntity(entity, id string) *ServiceError {
	e.Entity = entity
	e.EntityID = id
	return e
}

// Error creation helpers

// ValidationError creates a validation error
func ValidationError(op string, err error) *ServiceError {
	return New(ErrorTypeValidation, op, err)
}

// ConflictError creates a conflict error
func ConflictError(op string, err error) *ServiceError {
	return New(ErrorTypeConflict, op, err)
}

// NotFoundError creates a not-found error
func NotFoundError(op string, err error) *ServiceError {
	return New(ErrorTypeNotFound, op, err)
}

// InternalError creates an internal system error
func InternalError(op string, err error) *ServiceError {
	return New(ErrorTypeInternal, op, err)
}

// GetType extracts the error type from an error
func GetType(err error) ErrorType {
	var sErr *ServiceError
	if errors.As(err, &sErr) {
		return sErr.Type
	}
	return ErrorTypeInternal
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return GetType(err) == ErrorTypeValidation
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return GetType(err) == ErrorTypeConflict
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return GetType(err) == ErrorTypeNotFound
}
