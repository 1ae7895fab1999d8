package core

import "github.com/pkg/errors"

// Kind classifies the failures returned by the services.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// Error is a classified service failure.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
}

func (err *Error) Error() string {
	return err.Msg
}

// Is matches another *Error of the same Kind and message, so that sentinels
// survive being rebuilt with extra Fields.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == err.Kind && t.Msg == err.Msg
}

// WithFields returns a copy of err carrying the given field errors.
func (err *Error) WithFields(flds ...FieldError) *Error {
	return &Error{Kind: err.Kind, Msg: err.Msg, Fields: flds}
}

func newError(kind Kind, msg string, flds []FieldError) *Error {
	return &Error{Kind: kind, Msg: msg, Fields: flds}
}

func NewValidationError(msg string, flds ...FieldError) *Error {
	return newError(KindValidation, msg, flds)
}

func NewConflictError(msg string, flds ...FieldError) *Error {
	return newError(KindConflict, msg, flds)
}

func NewNotFoundError(msg string) *Error {
	return newError(KindNotFound, msg, nil)
}

func NewUnauthorizedError(msg string) *Error {
	return newError(KindUnauthorized, msg, nil)
}

func NewForbiddenError(msg string) *Error {
	return newError(KindForbidden, msg, nil)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindInternal
}
