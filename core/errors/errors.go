// Package errors classifies ledger rejections. Every rejection carries a Kind
// so hosts can tell bad input apart from a wrong caller or an operation that
// is not valid in the current ledger state.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind groups rejections by how a caller should react to them.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	default:
		return "internal"
	}
}

// Error is a classified ledger rejection. Values are compared by identity, so
// package-level sentinels work with errors.Is.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

// New constructs a classified sentinel.
func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Wrap annotates the sentinel with call-specific detail while keeping it
// matchable through errors.Is.
func Wrap(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// KindOf reports the classification of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var classified *Error
	if stderrors.As(err, &classified) && classified != nil {
		return classified.Kind
	}
	return KindInternal
}

// CodeOf returns the stable rejection code, or "internal" for unclassified errors.
func CodeOf(err error) string {
	var classified *Error
	if stderrors.As(err, &classified) && classified != nil {
		return classified.Code
	}
	return "internal"
}

// IsValidation reports whether err is a bad-input rejection.
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// IsAuthorization reports whether err rejected the caller.
func IsAuthorization(err error) bool { return err != nil && KindOf(err) == KindAuthorization }

// IsState reports whether err rejected the operation for the current ledger state.
func IsState(err error) bool { return err != nil && KindOf(err) == KindState }
