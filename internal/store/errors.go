package store

import "fmt"

// Error is a persistence failure that services translate into domain errors.
type Error struct {
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind, so ErrNotFound.WithMessage(...) still satisfies
// errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WithMessage returns a copy with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	// ErrNotFound means no row matched the id and owner.
	ErrNotFound = &Error{Kind: "not_found", Message: "resource not found"}
	// ErrAlreadyExists means a uniqueness constraint rejected the write.
	ErrAlreadyExists = &Error{Kind: "already_exists", Message: "resource already exists"}
	// ErrInvalidReference means a referenced row does not exist for the owner.
	ErrInvalidReference = &Error{Kind: "invalid_reference", Message: "referenced resource not found"}
)
