package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAmbiguous    = errors.New("ambiguous result")
	ErrRemote       = errors.New("remote service error")
)

type AppError struct {
	Err     error  // sentinel from the list above
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized returns an AppError for failed authentication. The message is
// shown to the user, so callers must keep it generic — never say which of
// email/password was wrong.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Ambiguous reports that an id matched more than one row. The data service
// should make this impossible; if it happens the remote table is corrupt and
// the operator needs to see it, so it is a distinct kind rather than a 404.
func Ambiguous(resource, id string) *AppError {
	return &AppError{
		Err:     ErrAmbiguous,
		Message: fmt.Sprintf("%s id %s matched more than one record", resource, id),
	}
}

// Remote wraps a failure from one of the hosted services (data, auth, media).
func Remote(service string, err error) *AppError {
	return &AppError{
		Err:     ErrRemote,
		Message: fmt.Sprintf("%s service failure: %v", service, err),
	}
}
