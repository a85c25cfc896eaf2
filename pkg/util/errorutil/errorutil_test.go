package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
	}{
		{"validation", NewValidationError("bad", nil), KindValidation, http.StatusBadRequest},
		{"not found", NewNotFound("ticket", nil), KindNotFound, http.StatusNotFound},
		{"forbidden", NewForbidden("no"), KindAuthorization, http.StatusForbidden},
		{"unauthorized", NewUnauthorized("who"), KindAuthentication, http.StatusUnauthorized},
		{"reference", NewReference("admin missing", nil), KindReference, http.StatusUnprocessableEntity},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewNotFound("ticket", nil)), KindNotFound, http.StatusNotFound},
		{"context canceled", context.Canceled, KindCancelled, http.StatusRequestTimeout},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindCancelled, http.StatusRequestTimeout},
		{"fiber 404", fiber.ErrNotFound, KindNotFound, http.StatusNotFound},
		{"fiber 405", fiber.ErrMethodNotAllowed, KindValidation, http.StatusMethodNotAllowed},
		{"plain error", errors.New("boom"), KindPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
}

func TestToDomainError_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestNewPersistence_HidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New(`pq: relation "tickets" does not exist`)
	de := ToDomainError(NewPersistence(cause))

	assert.Equal(t, "storage failure", de.Message)
	assert.NotContains(t, de.Message, "tickets")
	assert.ErrorIs(t, de, cause)
}

func TestIsKind(t *testing.T) {
	t.Parallel()

	assert.True(t, IsKind(NewForbidden("x"), KindAuthorization))
	assert.False(t, IsKind(NewForbidden("x"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}
