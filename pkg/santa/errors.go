package santa

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a Error for retry logic, security handling, and
// CLI exit-code mapping.
type ErrorKind string

const (
	// KindConfig indicates a configuration layer failed to load or merge.
	KindConfig ErrorKind = "config"
	// KindParse indicates a CCL document could not be lexed or built.
	KindParse ErrorKind = "parse"
	// KindPackageSource indicates a referenced source is missing or
	// malformed.
	KindPackageSource ErrorKind = "package_source"
	// KindCommandFailed indicates a subprocess exited non-zero.
	KindCommandFailed ErrorKind = "command_failed"
	// KindTimeout indicates a subprocess or remote operation exceeded its
	// deadline.
	KindTimeout ErrorKind = "timeout"
	// KindSecurity indicates a sanitization or policy rule rejected an
	// input. Never retryable; always surfaced at the top level.
	KindSecurity ErrorKind = "security"
	// KindCache indicates a cache-store operation failed.
	KindCache ErrorKind = "cache"
	// KindIO indicates a filesystem or network I/O failure.
	KindIO ErrorKind = "io"
	// KindValidation indicates a resolved config failed struct
	// validation.
	KindValidation ErrorKind = "validation"
	// KindCancelled indicates the caller's context was cancelled.
	KindCancelled ErrorKind = "cancelled"
)

// Error is the taxonomy-classified error type returned throughout this
// package. It wraps an optional underlying cause and carries enough
// context (source, operation) to produce a single human-readable line.
type Error struct {
	Kind      ErrorKind
	Message   string
	Source    string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Source != "" && e.Operation != "":
		return fmt.Sprintf("[%s] %s (source=%s, operation=%s): %s", e.Kind, e.Message, e.Source, e.Operation, e.unwrapMessage())
	case e.Source != "":
		return fmt.Sprintf("[%s] %s (source=%s): %s", e.Kind, e.Message, e.Source, e.unwrapMessage())
	default:
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.unwrapMessage())
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is matches by kind, so callers can write errors.Is(err, &Error{Kind: KindSecurity}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithSource attaches the source name this error concerns.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithOperation attaches the operation (install/uninstall/check) this error
// concerns.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NewConfigError(message string, cause error) *Error       { return newError(KindConfig, message, cause) }
func NewParseError(message string, cause error) *Error        { return newError(KindParse, message, cause) }
func NewPackageSourceError(message string, cause error) *Error {
	return newError(KindPackageSource, message, cause)
}
func NewCommandFailedError(message string, cause error) *Error {
	return newError(KindCommandFailed, message, cause)
}
func NewTimeoutError(message string, cause error) *Error     { return newError(KindTimeout, message, cause) }
func NewSecurityError(message string, cause error) *Error    { return newError(KindSecurity, message, cause) }
func NewCacheError(message string, cause error) *Error       { return newError(KindCache, message, cause) }
func NewIOError(message string, cause error) *Error          { return newError(KindIO, message, cause) }
func NewValidationError(message string, cause error) *Error  { return newError(KindValidation, message, cause) }
func NewCancelledError(message string, cause error) *Error   { return newError(KindCancelled, message, cause) }

// IsSecurityError reports whether err is, or wraps, a KindSecurity Error.
func IsSecurityError(err error) bool {
	return category(err) == KindSecurity
}

// IsRetryable reports whether err is worth retrying: true for Timeout and
// Io, false for everything else (in particular, always false for
// Security).
func IsRetryable(err error) bool {
	switch category(err) {
	case KindTimeout, KindIO:
		return true
	default:
		return false
	}
}

// Category returns err's ErrorKind, or "" if err does not wrap an Error.
func Category(err error) ErrorKind {
	return category(err)
}

func category(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
