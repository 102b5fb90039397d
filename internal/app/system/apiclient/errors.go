// internal/app/system/apiclient/errors.go
package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Every error handed to a page is wrapped so that
// errors.Is can tell a failed load from a failed mutation or a form
// that never left the browser.
var (
	ErrFetch      = errors.New("fetch failure")
	ErrMutation   = errors.New("mutation failure")
	ErrValidation = errors.New("validation failure")
)

// RequestError describes a failed call to the club API. Message is
// always suitable for showing to staff.
type RequestError struct {
	Op      string // e.g. "members.list"
	Status  int    // HTTP status; 0 when the server was never reached
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message returns the human-readable text carried by err. RequestError
// and ValidationError yield their message; anything else its Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// IsUnauthorized reports whether the API rejected the session token.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// ValidationError is raised by form checks before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// AsFetch marks err as a failed load.
func AsFetch(err error) error {
	if err == nil || errors.Is(err, ErrFetch) {
		return err
	}
	return &classified{class: ErrFetch, err: err}
}

// AsMutation marks err as a failed create, update or delete.
func AsMutation(err error) error {
	if err == nil || errors.Is(err, ErrMutation) {
		return err
	}
	return &classified{class: ErrMutation, err: err}
}

type classified struct {
	class error
	err   error
}

func (c *classified) Error() string { return c.err.Error() }

func (c *classified) Unwrap() []error { return []error{c.class, c.err} }
