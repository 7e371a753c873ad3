package handler

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/cart"
	"github.com/sumanshinde/cloth-pos/internal/repository"
	"github.com/sumanshinde/cloth-pos/internal/returns"
	"github.com/sumanshinde/cloth-pos/internal/search"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

var (
	unauthorizedErrs = []error{service.ErrSessionNotFound, service.ErrInvalidCredentials}

	notFoundErrs = []error{
		service.ErrNoDraft, service.ErrProductNotFound, service.ErrInvalidVariant,
		cart.ErrLineNotFound, returns.ErrUnknownSaleItem,
	}

	conflictErrs = []error{returns.ErrNotEditable, service.ErrDuplicateBarcode, service.ErrDuplicateSize}

	unprocessableErrs = []error{
		cart.ErrEmptyCart, search.ErrNoVariants,
		returns.ErrNoItemsSelected, returns.ErrExceedsSoldQuantity,
	}

	badRequestErrs = []error{
		cart.ErrInvalidQuantity, cart.ErrInvalidPaymentMode,
		returns.ErrInvalidQuantity, returns.ErrInvalidReason,
		service.ErrInvalidPeriod, service.ErrInvalidVariantData,
		service.ErrInvalidProduct, service.ErrInvalidCategory,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps domain and backend errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case isAny(err, unauthorizedErrs):
		return http.StatusUnauthorized
	case isAny(err, notFoundErrs):
		return http.StatusNotFound
	case isAny(err, conflictErrs):
		return http.StatusConflict
	case isAny(err, unprocessableErrs):
		return http.StatusUnprocessableEntity
	case isAny(err, badRequestErrs):
		return http.StatusBadRequest
	}

	var apiErr *repository.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			// the cashier's backend token is no longer accepted; the till session must log in again
			return http.StatusUnauthorized
		}
		return apiErr.StatusCode
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	response.Fail(c, status, err.Error())
}
