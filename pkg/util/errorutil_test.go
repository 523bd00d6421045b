package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("save staff 12: %w", NewStorageError("set", errors.New("connection refused")))

	assert.True(t, errors.Is(err, ErrStorage))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "connection refused")

	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "STORAGE_ERROR", de.Code)
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	err := NewValidationError("required fields missing", map[string]any{"name": "required"})

	require.True(t, errors.Is(err, ErrValidation))
	de := ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "required", de.Details["name"])
}

func TestInvalidIdentifier(t *testing.T) {
	err := NewInvalidIdentifier("12a")
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
	assert.Equal(t, http.StatusBadRequest, ToDomainError(err).HTTPStatus)
}

func TestToDomainErrorFallsBackToInternal(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}
