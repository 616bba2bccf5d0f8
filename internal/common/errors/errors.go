// Package errors provides standardized error handling for the match and
// notification pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Intake / validation
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidRequester ErrorCode = "INVALID_REQUESTER_ADDRESS"

	// Provider store
	ErrCodeProviderQueryFailed  ErrorCode = "PROVIDER_QUERY_FAILED"
	ErrCodeProviderUpsertFailed ErrorCode = "PROVIDER_UPSERT_FAILED"

	// Import / export
	ErrCodeImportParseFailed ErrorCode = "IMPORT_PARSE_FAILED"
	ErrCodeImportNoValidRows ErrorCode = "IMPORT_NO_VALID_ROWS"

	// Dispatch
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable validation error. These
// short-circuit the pipeline before any scoring or dispatch work.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCategoryError creates a non-retryable validation error for an
// unknown request category.
func NewInvalidCategoryError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCategory,
		Message:   "Unknown request category",
		Details:   fmt.Sprintf("category: %q", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequesterError creates a non-retryable validation error for a
// malformed requester contact address.
func NewInvalidRequesterError(address string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequester,
		Message:   "Malformed requester address",
		Details:   fmt.Sprintf("address: %q", address),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderQueryFailedError creates a retryable store error.
func NewProviderQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderQueryFailed,
		Message:   "Failed to load provider snapshot",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUpsertFailedError creates a retryable store error.
func NewProviderUpsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUpsertFailed,
		Message:   "Failed to save provider",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewImportParseFailedError creates a non-retryable import error.
func NewImportParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeImportParseFailed,
		Message:   "Failed to parse provider import payload",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewImportNoValidRowsError signals that the payload parsed but produced
// no importable providers.
func NewImportNoValidRowsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeImportNoValidRows,
		Message:   "No valid provider rows in import payload",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification helpers
// ==========================

// AsStandard extracts a StandardError from err's chain, or nil.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsRetryable reports whether the error chain carries a retryable
// StandardError. Unknown errors are treated as retryable.
func IsRetryable(err error) bool {
	if se := AsStandard(err); se != nil {
		return se.Retryable
	}
	return true
}

// IsValidation reports whether err is one of the intake validation codes.
func IsValidation(err error) bool {
	se := AsStandard(err)
	if se == nil {
		return false
	}
	switch se.Code {
	case ErrCodeInvalidRequest, ErrCodeInvalidCategory, ErrCodeInvalidRequester:
		return true
	}
	return false
}
