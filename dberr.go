package mindb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the four error categories the storage core and its
// executor can raise. Every error that escapes a package-level function
// carries one of these.
type Kind int

const (
	// KindParse marks a malformed literal or SQL statement.
	KindParse Kind = iota
	// KindExecution marks a schema mismatch, unknown table/column, or
	// arity/type mismatch caught by the executor.
	KindExecution
	// KindIntegrity marks a storage invariant violation or misuse (slot
	// out of bounds, dead-slot write, re-init of an existing table,
	// capacity exceeded on a single tuple).
	KindIntegrity
	// KindIO marks an underlying file operation failure.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindExecution:
		return "execution error"
	case KindIntegrity:
		return "integrity error"
	case KindIO:
		return "io error"
	default:
		return "error"
	}
}

// Error is the single error type the core returns. It carries a Kind so
// callers can branch on category without string matching, and wraps the
// underlying cause (if any) with github.com/pkg/errors so Cause()/stack
// context survive across package boundaries.
type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds a *Error of the given kind with a formatted message.
func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// wrapErr builds a *Error of the given kind, wrapping cause with
// github.com/pkg/errors so the original failure's context is preserved.
func wrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), Err: errors.Wrap(cause, kind.String())}
}

func parseErr(format string, args ...interface{}) *Error {
	return newErr(KindParse, format, args...)
}

func execErr(format string, args ...interface{}) *Error {
	return newErr(KindExecution, format, args...)
}

func integrityErr(format string, args ...interface{}) *Error {
	return newErr(KindIntegrity, format, args...)
}

func ioErr(cause error, format string, args ...interface{}) *Error {
	return wrapErr(KindIO, cause, format, args...)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if ok := errors.As(err, &e); ok {
		return e.Kind == kind
	}
	return false
}
