package newsdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EUPSTREAM = "upstream"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("newsdoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	var u *UpstreamError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	} else if errors.As(err, &u) {
		return EUPSTREAM
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	var u *UpstreamError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	} else if errors.As(err, &u) {
		return u.Error()
	}
	return "Internal error."
}

// ErrNoContent is returned by a ContentSelector when a document has no
// region that looks like article content. It is an absence, not a failure.
var ErrNoContent = Errorf(ENOTFOUND, "no main content found")

// UpstreamError reports a failed call to the external search provider.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream search failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream search failed: %v", e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UpstreamStatus returns the upstream HTTP status carried by err,
// or zero if err is not an UpstreamError or no response was received.
func UpstreamStatus(err error) int {
	var u *UpstreamError
	if errors.As(err, &u) {
		return u.StatusCode
	}
	return 0
}
