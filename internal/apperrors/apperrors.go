// Package apperrors defines the closed set of error kinds used across the
// repository and resolver layers. Every business failure is an *Error carrying
// a kind and an optional list of field-tagged payloads; the router layer is the
// single place where kinds are translated into the transport envelope.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind identifies a member of the error taxonomy.
type Kind int

const (
	// KindNotFound means a lookup matched nothing.
	KindNotFound Kind = iota

	// KindInvalidUserInput means caller-supplied data failed business validation.
	KindInvalidUserInput

	// KindInvalidIDFormat means an identifier string is malformed.
	KindInvalidIDFormat

	// KindInvalidFunctionInput means an internal misuse: a parameter the
	// calling layer must always supply was missing.
	KindInvalidFunctionInput

	// KindUnauthorized means identity was required but absent.
	KindUnauthorized
)

// FieldError is a single validation failure, optionally tagged with the
// offending input field so clients can attach it to a form control.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error is the only error type produced by the repositories and the
// authorization guard.
type Error struct {
	Kind   Kind
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.message()
	}
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Message
	}
	return e.message() + ": " + strings.Join(parts, "; ")
}

func (e *Error) message() string {
	switch e.Kind {
	case KindNotFound:
		return "Not found"
	case KindInvalidUserInput:
		return "Invalid user input"
	case KindInvalidIDFormat:
		return "Invalid id format"
	case KindInvalidFunctionInput:
		return "Invalid function input"
	case KindUnauthorized:
		return "Unauthorized user"
	}
	return fmt.Sprintf("unknown error kind %d", e.Kind)
}

// StatusCode maps the kind to its HTTP-equivalent status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidUserInput, KindInvalidIDFormat:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Serialize returns the error payload list for the transport envelope.
func (e *Error) Serialize() []FieldError {
	switch e.Kind {
	case KindInvalidIDFormat:
		return []FieldError{{Message: e.message(), Field: "id"}}
	case KindInvalidUserInput:
		return e.Fields
	}
	return []FieldError{{Message: e.message()}}
}

// Extensions exposes the kind and field payloads through the GraphQL error
// extensions object.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.Code(),
	}
	if len(e.Fields) > 0 {
		fields := make([]map[string]interface{}, len(e.Fields))
		for i, fe := range e.Fields {
			f := map[string]interface{}{"message": fe.Message}
			if fe.Field != "" {
				f["field"] = fe.Field
			}
			fields[i] = f
		}
		ext["errors"] = fields
	}
	return ext
}

// Code returns the wire name of the kind.
func (e *Error) Code() string {
	switch e.Kind {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidUserInput:
		return "INVALID_USER_INPUT"
	case KindInvalidIDFormat:
		return "INVALID_ID_FORMAT"
	case KindInvalidFunctionInput:
		return "INVALID_FUNCTION_INPUT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	}
	return "UNKNOWN"
}

// NotFound reports a failed lookup.
func NotFound() *Error {
	return &Error{Kind: KindNotFound}
}

// InvalidUserInput reports business-validation failures, one per field error.
func InvalidUserInput(fields ...FieldError) *Error {
	return &Error{Kind: KindInvalidUserInput, Fields: fields}
}

// InvalidIDFormat reports a malformed identifier.
func InvalidIDFormat() *Error {
	return &Error{Kind: KindInvalidIDFormat}
}

// InvalidFunctionInput reports an internal misuse of a repository function.
func InvalidFunctionInput() *Error {
	return &Error{Kind: KindInvalidFunctionInput}
}

// Unauthorized reports a missing identity.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
