package cerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	err := NewError(NotFound, "task not found", nil)
	wrapped := fmt.Errorf("loading task: %w", err)

	assert.True(t, IsCode(wrapped, NotFound))
	assert.False(t, IsCode(wrapped, PermissionDenied))
	assert.False(t, IsCode(errors.New("plain"), NotFound))
	assert.False(t, IsCode(nil, NotFound))
}

func TestHTTPCodeMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated.HTTPCode())
	assert.Equal(t, http.StatusForbidden, PermissionDenied.HTTPCode())
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPCode())
	assert.Equal(t, http.StatusConflict, AlreadyExists.HTTPCode())
	assert.Equal(t, http.StatusInternalServerError, Internal.HTTPCode())
}

func TestValidationErrorCollectsViolations(t *testing.T) {
	err := NewValidationError("invalid task")
	err.AddViolation("title", "must not be empty").
		AddViolation("priority", "must be one of LOW, MEDIUM, HIGH, URGENT")

	require.Len(t, err.Details, 2)
	assert.Equal(t, "title", err.Details[0].Field)
	assert.True(t, IsCode(err, InvalidArgument))
}

func TestErrorStringIncludesUnderlying(t *testing.T) {
	bare := NewError(NotFound, "task not found", nil)
	assert.Equal(t, "[not_found] task not found", bare.Error())

	underlying := errors.New("open failed")
	wrapped := NewError(Internal, "server error", underlying)
	assert.Contains(t, wrapped.Error(), "open failed")
	assert.ErrorIs(t, wrapped, underlying)
}

func TestInternalErrorsCaptureStack(t *testing.T) {
	assert.NotEmpty(t, NewError(Internal, "server error", nil).Stack)
	assert.Empty(t, NewError(NotFound, "task not found", nil).Stack)
}
