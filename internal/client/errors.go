package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// APIError is a failed API call, carrying the envelope's message and status
// code plus any field-level validation errors nested at data.errors.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// FieldError returns the first message recorded for the given field, or the
// empty string. Forms map these to inline errors; everything else shows the
// top-level message.
func (e *APIError) FieldError(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Detail returns the first "detail" error message, which the backend uses
// for non-field failures such as bad credentials.
func (e *APIError) Detail() string {
	return e.FieldError("detail")
}

// IsValidation reports whether err is a field-validation failure (400 with
// a field error map).
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusBadRequest &&
		len(apiErr.Fields) > 0
}

// IsUnauthorized reports whether err is an authorization failure. By the
// time callers see this, the stored token has already been purged.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorData is the shape of the envelope's data field on failures.
type errorData struct {
	Errors map[string][]string `json:"errors"`
}

// newAPIError builds an APIError from a decoded envelope and the HTTP
// status. The envelope's own status_code wins when present.
func newAPIError(httpStatus int, env *envelope) *APIError {
	e := &APIError{
		StatusCode: httpStatus,
		Message:    env.Message,
	}
	if env.StatusCode != 0 {
		e.StatusCode = env.StatusCode
	}
	if len(env.Data) > 0 {
		var d errorData
		if err := json.Unmarshal(env.Data, &d); err == nil && len(d.Errors) > 0 {
			e.Fields = d.Errors
		}
	}
	return e
}
