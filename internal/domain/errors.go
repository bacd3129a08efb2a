// internal/domain/errors.go
package domain

import "errors"

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindValidation marks malformed caller input. No provider call was made.
	KindValidation
	// KindAuth marks a failed credential exchange with the mobile-money provider.
	KindAuth
	// KindProvider marks a rejection from the remote processor or provider.
	KindProvider
	// KindMalformedCallback marks a callback payload missing expected fields.
	KindMalformedCallback
	// KindLedger marks a failed credit that was not a duplicate.
	KindLedger
)

// Error carries an error kind so the HTTP layer can choose a status code
// without inspecting message text. Code preserves the provider's own error
// or result code when one exists.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if absent.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
