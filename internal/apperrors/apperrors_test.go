package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, NotFound(), "Not found")
	assert.EqualError(t, InvalidIDFormat(), "Invalid id format")
	assert.EqualError(t, InvalidFunctionInput(), "Invalid function input")
	assert.EqualError(t, Unauthorized(), "Unauthorized user")
	assert.EqualError(
		t,
		InvalidUserInput(
			FieldError{Message: "email already in use", Field: "email"},
			FieldError{Message: "passwords do not match"},
		),
		"Invalid user input: email already in use; passwords do not match",
	)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound().StatusCode())
	assert.Equal(t, http.StatusBadRequest, InvalidUserInput().StatusCode())
	assert.Equal(t, http.StatusBadRequest, InvalidIDFormat().StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized().StatusCode())
}

func TestSerialize(t *testing.T) {
	assert.Equal(
		t,
		[]FieldError{{Message: "Invalid id format", Field: "id"}},
		InvalidIDFormat().Serialize(),
	)

	fields := []FieldError{
		{Message: "name cannot be empty", Field: "name"},
		{Message: "url cannot be empty", Field: "url"},
	}
	assert.Equal(t, fields, InvalidUserInput(fields...).Serialize())

	assert.Equal(t, []FieldError{{Message: "Not found"}}, NotFound().Serialize())
}

func TestExtensions(t *testing.T) {
	ext := InvalidUserInput(
		FieldError{Message: "email already in use", Field: "email"},
		FieldError{Message: "passwords do not match"},
	).Extensions()

	assert.Equal(t, "INVALID_USER_INPUT", ext["code"])
	assert.Equal(t, []map[string]interface{}{
		{"message": "email already in use", "field": "email"},
		{"message": "passwords do not match"},
	}, ext["errors"])

	assert.Equal(t, map[string]interface{}{"code": "UNAUTHORIZED"}, Unauthorized().Extensions())
}

func TestIsKindUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("query tag: %w", NotFound())

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindUnauthorized))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}
