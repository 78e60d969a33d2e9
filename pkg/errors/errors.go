package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies a DomainError for programmatic handling
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryIO         ErrorCategory = "io"
	CategoryProcess    ErrorCategory = "process"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryPermission ErrorCategory = "permission"
	CategoryTimeout    ErrorCategory = "timeout"
	CategoryInternal   ErrorCategory = "internal"
)

// DomainError is the error type used across the supervisor. It carries a
// category, a message, the underlying cause and optional key/value context.
type DomainError struct {
	Category ErrorCategory
	Message  string
	Cause    error
	context  []contextEntry
}

type contextEntry struct {
	key   string
	value interface{}
}

func newDomainError(category ErrorCategory, message string, cause error) *DomainError {
	return &DomainError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func NewValidationError(message string, cause error) *DomainError {
	return newDomainError(CategoryValidation, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return newDomainError(CategoryIO, message, cause)
}

func NewProcessError(message string, cause error) *DomainError {
	return newDomainError(CategoryProcess, message, cause)
}

func NewNotFoundError(message string, cause error) *DomainError {
	return newDomainError(CategoryNotFound, message, cause)
}

func NewPermissionError(message string, cause error) *DomainError {
	return newDomainError(CategoryPermission, message, cause)
}

func NewTimeoutError(message string, cause error) *DomainError {
	return newDomainError(CategoryTimeout, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return newDomainError(CategoryInternal, message, cause)
}

// WithContext attaches a key/value pair to the error and returns the same
// error to allow chaining. Context is rendered in insertion order.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	e.context = append(e.context, contextEntry{key: key, value: value})
	return e
}

func (e *DomainError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	if len(e.context) > 0 {
		pairs := make([]string, 0, len(e.context))
		for _, entry := range e.context {
			pairs = append(pairs, fmt.Sprintf("%s: %v", entry.key, entry.value))
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(pairs, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func isCategory(err error, category ErrorCategory) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Category == category
	}
	return false
}

func IsValidationError(err error) bool { return isCategory(err, CategoryValidation) }
func IsIOError(err error) bool         { return isCategory(err, CategoryIO) }
func IsProcessError(err error) bool    { return isCategory(err, CategoryProcess) }
func IsNotFoundError(err error) bool   { return isCategory(err, CategoryNotFound) }
func IsPermissionError(err error) bool { return isCategory(err, CategoryPermission) }
func IsTimeoutError(err error) bool    { return isCategory(err, CategoryTimeout) }
func IsInternalError(err error) bool   { return isCategory(err, CategoryInternal) }
