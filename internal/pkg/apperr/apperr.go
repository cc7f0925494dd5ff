// Package apperr defines the error kinds surfaced to users as blocking notices.
package apperr

import "errors"

// Kind classifies an error by how it is recovered.
type Kind string

const (
	// KindValidation covers bad input files or empty selections.
	KindValidation Kind = "validation"
	// KindPrecondition covers workflow steps attempted without the required state.
	KindPrecondition Kind = "precondition"
	// KindExport covers document generation failures.
	KindExport Kind = "export"
	// KindClipboard covers share-link copy failures. Never fatal.
	KindClipboard Kind = "clipboard"
	// KindUnhandled covers panics and unexpected failures of a single operation.
	KindUnhandled Kind = "unhandled"
)

// Error is a user-facing error. Message is the notice shown to the user.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

// New creates a sentinel user-facing error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// As extracts the user-facing error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnhandled when err carries none.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnhandled
}

// Unhandled is returned when an operation panicked.
var Unhandled = New(KindUnhandled, "INTERNAL_ERROR", "Une erreur inattendue est survenue.")
