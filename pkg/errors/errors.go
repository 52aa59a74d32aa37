// Package errors provides structured error kinds used across the portal.
// Preferred over raw fmt.Errorf strings so callers can classify failures
// with errors.As and handlers can decide what degrades gracefully
// (advisory features) versus what surfaces to the admin.
package errors

import (
	"errors"
	"fmt"
)

// Kind labels a class of failure.
type Kind string

const (
	KindValidation Kind = "validation" // bad input from a caller or config
	KindDB         Kind = "db"         // database access failures
	KindExternal   Kind = "external"   // third-party API/SDK failures
	KindBiz        Kind = "biz"        // domain rule violations
)

// Error carries the failure class plus minimal context.
// Op is package.Function; Msg is human friendly and free of PII.
type Error struct {
	Kind   Kind
	Op     string
	Msg    string
	System string // external system name, e.g. "google", "openai"
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	prefix := string(e.Kind)
	if e.Kind == KindExternal && e.System != "" {
		prefix = e.System
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(op, msg string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg, Err: err}
}

func NewDB(op, msg string, err error) error {
	return &Error{Kind: KindDB, Op: op, Msg: msg, Err: err}
}

func NewExternal(op, system, msg string, err error) error {
	return &Error{Kind: KindExternal, Op: op, System: system, Msg: msg, Err: err}
}

func NewBiz(op, msg string, err error) error {
	return &Error{Kind: KindBiz, Op: op, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or "" when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or anything it wraps) is of the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
