// Package errors provides error handling for contentful-typegen.
//
// It re-exports github.com/cockroachdb/errors so every package wraps errors
// the same way and hints survive to the CLI:
//
//	if err := client.GetContentTypes(ctx, space, env); err != nil {
//	    return errors.Wrapf(err, "fetch content types for space %s", space)
//	}
//
//	return errors.WithHint(err, "set CF_MANAGER_TOKEN or pass --token")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors. Wrap them to add context; check with errors.Is.
var (
	// ErrNotFound indicates a space, environment, snapshot or file does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates missing or malformed input (flags, config, schema files)
	ErrInvalidRequest = New("invalid request")

	// ErrUnauthorized indicates the management token was rejected
	ErrUnauthorized = New("unauthorized")

	// ErrRateLimited indicates the API kept answering 429 after all retries
	ErrRateLimited = New("rate limited")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")

	// ErrOutOfDate indicates a generated file differs from a fresh render
	ErrOutOfDate = New("generated file is out of date")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// Mark makes err match reference under Is while keeping err's own message and chain.
var Mark = crdb.Mark
