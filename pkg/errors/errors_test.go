package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHttpStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", NewInvalidTransition("paid", "cancel", "client"), http.StatusConflict},
		{"concurrent modification", ErrConcurrentModification, http.StatusConflict},
		{"wrapped concurrent modification", fmt.Errorf("transition: %w", ErrConcurrentModification), http.StatusConflict},
		{"validation failure", NewValidationError("a quote amount is required"), http.StatusUnprocessableEntity},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"missing auth header", ErrEmptyAuthHeader, http.StatusUnauthorized},
		{"expired token", ErrTokenExpired, http.StatusUnauthorized},
		{"missing actor", ErrActorNotFoundInContext, http.StatusUnauthorized},
		{"explicit http error", NewHttpError(http.StatusBadGateway, "upstream down", nil), http.StatusBadGateway},
		{"anything else", fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HttpStatusFor(tt.err))
		})
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := NewInvalidTransition("quote_sent", "schedule", "company")
	assert.Equal(t, `intent "schedule" is not allowed from status "quote_sent" for role "company"`, err.Error())
}

func TestHttpErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := NewHttpError(http.StatusInternalServerError, "storage failure", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "socket closed")
}
