package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel domain errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("action not allowed")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("record already exists")
	ErrExternalService  = errors.New("external service failure")
	ErrPropertyOccupied = errors.New("property is not available for rent")
	ErrRentalInactive   = errors.New("rental is not active")
)

// Error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeValidation       = "VALIDATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodePropertyOccupied = "PROPERTY_OCCUPIED"
	CodeRentalInactive   = "RENTAL_INACTIVE"
	CodeDatabaseError    = "DATABASE_ERROR"
)

// DomainError carries a stable code alongside the wrapped cause
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New creates a DomainError with the given code and message
func New(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Wrap helpers for the common cases

func WrapNotFound(entity string, id interface{}) *DomainError {
	return New(CodeNotFound, fmt.Sprintf("%s %v not found", entity, id), ErrNotFound)
}

func WrapForbidden(action, entity string) *DomainError {
	return New(CodeForbidden, fmt.Sprintf("not allowed to %s this %s", action, entity), ErrForbidden)
}

func WrapValidation(message string) *DomainError {
	return New(CodeValidation, message, ErrValidation)
}

func WrapConflict(message string) *DomainError {
	return New(CodeConflict, message, ErrConflict)
}

func WrapExternalService(service string, err error) *DomainError {
	return New(CodeExternalService, fmt.Sprintf("%s request failed", service), errors.Join(ErrExternalService, err))
}

func WrapDatabaseError(err error) *DomainError {
	return New(CodeDatabaseError, "database operation failed", err)
}

// Classification helpers used by the HTTP layer

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrPropertyOccupied) || errors.Is(err, ErrRentalInactive)
}
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
func IsExternal(err error) bool { return errors.Is(err, ErrExternalService) }
