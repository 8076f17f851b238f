package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("already there", map[string]any{"id": "x"})

	mapped := ToDomainError(original)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, "already there", mapped.Message)

	wrapped := fmt.Errorf("service layer: %w", original)
	assert.Equal(t, http.StatusConflict, ToDomainError(wrapped).HTTPStatus, "wrapping preserves the mapping")
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	assert.Equal(t, "NOT_FOUND", mapped.Code)

	wrapped := fmt.Errorf("lookup: %w", pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, ToDomainError(wrapped).HTTPStatus)
}

func TestToDomainErrorUnknownHidesDetail(t *testing.T) {
	mapped := ToDomainError(errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "internal server error", mapped.Message, "internal detail must not leak")
	assert.ErrorContains(t, mapped.Err, "connection reset")
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestConstructorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewUnauthorized("who"), http.StatusUnauthorized},
		{NewForbidden("no"), http.StatusForbidden},
		{NewNotFound("ticket", nil), http.StatusNotFound},
		{NewConflict("dup", nil), http.StatusConflict},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		var domainErr *DomainError
		require.ErrorAs(t, tt.err, &domainErr)
		assert.Equal(t, tt.status, domainErr.HTTPStatus)
	}
}

func TestNotFoundMessage(t *testing.T) {
	var domainErr *DomainError
	require.ErrorAs(t, NewNotFound("ticket", nil), &domainErr)
	assert.Equal(t, "ticket not found", domainErr.Message)
}
