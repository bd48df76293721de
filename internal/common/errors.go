// Package common defines shared constants and sentinel errors used across
// the layers of HourKeep. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorValidation    = errors.New("validation error")
	ErrEmptyMessage    = errors.New("approval message is required")
	ErrUnknownCategory = errors.New("unknown billing category")

	// Workflow errors. A time entry only ever leaves the pending state once.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEntryNotPending   = errors.New("entry is not pending")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
