package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Sentinel kinds. Every *Error unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("operation not allowed")
	ErrUnauthorized = errors.New("authentication required")
)

// Error is the structured error surfaced to API callers. Fields carries
// field-keyed messages such as {"tags": "not unique"}.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
	kind       error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match the sentinel kind.
func (e *Error) Unwrap() error {
	return e.kind
}

// Body is the JSON payload written for this error.
func (e *Error) Body() map[string]any {
	body := map[string]any{"error": e.Message}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	return body
}

func newError(kind error, status int, message string, fields map[string]string) *Error {
	if message == "" {
		message = kind.Error()
	}
	return &Error{StatusCode: status, Message: message, Fields: fields, kind: kind}
}

func single(field, message string) map[string]string {
	if field == "" {
		return nil
	}
	return map[string]string{field: message}
}

func Validation(field, message string) *Error {
	return newError(ErrValidation, http.StatusBadRequest, ErrValidation.Error(), single(field, message))
}

// ValidationFields builds a validation error from several field messages.
func ValidationFields(fields map[string]string) *Error {
	return newError(ErrValidation, http.StatusBadRequest, ErrValidation.Error(), fields)
}

func Conflict(field, message string) *Error {
	return newError(ErrConflict, http.StatusConflict, message, single(field, message))
}

func NotFound(message string) *Error {
	return newError(ErrNotFound, http.StatusNotFound, message, nil)
}

func Forbidden(message string) *Error {
	return newError(ErrForbidden, http.StatusForbidden, message, nil)
}

func Unauthorized(message string) *Error {
	return newError(ErrUnauthorized, http.StatusUnauthorized, message, nil)
}

func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// FromDB maps store errors onto the taxonomy. Unknown errors are wrapped
// and left for the caller to treat as internal.
func FromDB(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("", entity+" already exists")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// StatusOf returns the HTTP status for err, 500 for anything unstructured.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
