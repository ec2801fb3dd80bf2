// Package errs defines the coded errors shared by the discovery walker,
// manifest adapters, and synchronization engine. Codes are stable strings so
// callers and tests can match on the failure class instead of message text.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a failure class.
type Code string

const (
	// Version model
	ErrInvalidVersionFormat Code = "INVALID_VERSION_FORMAT"

	// Discovery and policy
	ErrMissingRootVersion      Code = "MISSING_ROOT_VERSION"
	ErrMultipleRootVersions    Code = "MULTIPLE_ROOT_VERSIONS"
	ErrNestedVersionRecord     Code = "NESTED_VERSION_RECORD"
	ErrSymlinkManifestRejected Code = "SYMLINK_MANIFEST_REJECTED"

	// Manifest adapters
	ErrUnreadableManifest  Code = "UNREADABLE_MANIFEST"
	ErrMissingVersionField Code = "MISSING_VERSION_FIELD"
	ErrMalformedManifest   Code = "MALFORMED_MANIFEST"

	// Commit phase
	ErrConcurrentModificationDetected Code = "CONCURRENT_MODIFICATION_DETECTED"
	ErrPartialWriteRecovered          Code = "PARTIAL_WRITE_RECOVERED"
	ErrPartialWriteUnrecoverable      Code = "PARTIAL_WRITE_UNRECOVERABLE"

	// Cross-file state
	ErrVersionMismatch Code = "VERSION_MISMATCH"

	// Everything else
	ErrConfigInvalid Code = "CONFIG_INVALID"
	ErrUnknown       Code = "UNKNOWN"
)

// Error is a coded error. Path names the file the failure is about when there
// is exactly one; Paths carries the full list for multi-file failures such as
// an unrecoverable partial write.
type Error struct {
	Code    Code
	Message string
	Path    string
	Paths   []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two coded errors by code, so errors.Is(err, errs.New(code, ""))
// works regardless of message or path.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithPath records the file the error is about.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithPaths records every file involved in the failure.
func (e *Error) WithPaths(paths []string) *Error {
	e.Paths = paths
	return e
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or ErrUnknown when err has none.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrUnknown
}

// PathOf extracts the subject path from err, or "" when err has none.
func PathOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Path
	}
	return ""
}
