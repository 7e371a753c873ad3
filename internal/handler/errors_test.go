package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/sumanshinde/cloth-pos/internal/cart"
	"github.com/sumanshinde/cloth-pos/internal/repository"
	"github.com/sumanshinde/cloth-pos/internal/returns"
	"github.com/sumanshinde/cloth-pos/internal/search"
	"github.com/sumanshinde/cloth-pos/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired session", service.ErrSessionNotFound, http.StatusUnauthorized},
		{"bad login", fmt.Errorf("%w: nope", service.ErrInvalidCredentials), http.StatusUnauthorized},
		{"no draft", service.ErrNoDraft, http.StatusNotFound},
		{"unknown code", service.ErrProductNotFound, http.StatusNotFound},
		{"frozen draft", returns.ErrNotEditable, http.StatusConflict},
		{"barcode clash", fmt.Errorf("%w: ABHA1", service.ErrDuplicateBarcode), http.StatusConflict},
		{"empty cart", cart.ErrEmptyCart, http.StatusUnprocessableEntity},
		{"no variants", search.ErrNoVariants, http.StatusUnprocessableEntity},
		{"over returnable", returns.ErrExceedsSoldQuantity, http.StatusUnprocessableEntity},
		{"bad quantity", cart.ErrInvalidQuantity, http.StatusBadRequest},
		{"bad period", service.ErrInvalidPeriod, http.StatusBadRequest},
		{"backend 400", &repository.APIError{StatusCode: 400, Message: "bad"}, http.StatusBadRequest},
		{"backend 404", fmt.Errorf("wrapped: %w", &repository.APIError{StatusCode: 404}), http.StatusNotFound},
		{"backend token revoked", &repository.APIError{StatusCode: 403}, http.StatusUnauthorized},
		{"backend 503", &repository.APIError{StatusCode: 503}, http.StatusBadGateway},
		{"backend unreachable", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
