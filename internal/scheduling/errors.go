package scheduling

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrNotEligible  = errors.New("not eligible")
	ErrLeaveOverlap = errors.New("leave overlaps an existing request")
	ErrConflict     = errors.New("conflicting state")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a human-readable message that is safe to hand back to the
// assistant, alongside one of the kind sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf returns an ErrValidation error with a formatted message
func Validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// NotFoundf returns an ErrNotFound error with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Forbiddenf returns an ErrForbidden error with a formatted message
func Forbiddenf(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

// UserMessage extracts the user-facing message from err.
// ok is false when err is not a domain error and should not be shown verbatim.
func UserMessage(err error) (msg string, ok bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message, true
	}
	return "", false
}
