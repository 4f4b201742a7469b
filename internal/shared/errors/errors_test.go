package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("gone"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("busy"), ErrorTypeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"internal", NewInternalError("oops"), ErrorTypeInternal, http.StatusInternalServerError},
		{"too many", NewTooManyRequestsError("slow down"), ErrorTypeTooManyRequests, http.StatusTooManyRequests},
		{"unavailable", NewUnavailableError("later"), ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{"custom", New("order_creation_failed", http.StatusBadGateway, "Failed to create order"), "order_creation_failed", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := NewConflictError("attempt in progress", "state=verifying")
	assert.Equal(t, "conflict: attempt in progress (state=verifying)", err.Error())

	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.Same(t, err, GetAppError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
