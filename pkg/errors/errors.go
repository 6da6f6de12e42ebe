package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors are fatal and reported before any operation runs
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Operation invoked on a package the ledger does not know about
	ErrPrecondition ErrorCode = "PRECONDITION"

	// Link creation, removal or resolution failures
	ErrFilesystem ErrorCode = "FILESYSTEM"

	// Materialization (copy/extract) failures
	ErrInstall ErrorCode = "INSTALL"

	// Ledger and lock file persistence
	ErrLedger   ErrorCode = "LEDGER"
	ErrLockfile ErrorCode = "LOCKFILE"
)

// Detail keys shared by all packages so callers can pull them out uniformly.
const (
	DetailPackage = "package"
	DetailPath    = "path"
	DetailVersion = "version"
)

// SharedPkgError represents a structured error with code and details
type SharedPkgError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SharedPkgError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SharedPkgError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SharedPkgError) Is(target error) bool {
	var targetErr *SharedPkgError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SharedPkgError with the given code and message
func New(code ErrorCode, message string) *SharedPkgError {
	return &SharedPkgError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SharedPkgError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SharedPkgError {
	return &SharedPkgError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SharedPkgError
func Wrap(err error, code ErrorCode, message string) *SharedPkgError {
	if err == nil {
		return nil
	}
	return &SharedPkgError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SharedPkgError {
	if err == nil {
		return nil
	}
	return &SharedPkgError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SharedPkgError) WithDetail(key string, value interface{}) *SharedPkgError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *SharedPkgError) WithDetails(details map[string]interface{}) *SharedPkgError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// NotInstalled is the precondition failure raised when an update or
// uninstall targets a package missing from the ledger.
func NotInstalled(prettyName string) *SharedPkgError {
	return Newf(ErrPrecondition, "Package is not installed : %s", prettyName).
		WithDetail(DetailPackage, prettyName)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var spErr *SharedPkgError
	if errors.As(err, &spErr) {
		return spErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SharedPkgError
func GetErrorCode(err error) ErrorCode {
	var spErr *SharedPkgError
	if errors.As(err, &spErr) {
		return spErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SharedPkgError
func GetErrorDetails(err error) map[string]interface{} {
	var spErr *SharedPkgError
	if errors.As(err, &spErr) {
		return spErr.Details
	}
	return nil
}
