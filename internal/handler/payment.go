package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/repository"
	"github.com/cinearc/cinearc-api/internal/service"
)

// PaymentHandler drives the checkout workflow for the authenticated
// customer: start a hosted payment session, then land on success or
// cancel.
type PaymentHandler struct {
	Checkout *service.CheckoutService
}

func NewPaymentHandler(s *service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{Checkout: s}
}

// CreateCheckout opens a payment session covering every unpaid basket
// of the caller.  With nothing to pay the call succeeds but reports so
// instead of contacting the payment provider.
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	// provider round-trip included, so a longer budget than plain queries
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	sessionID, err := h.Checkout.InitiateCheckout(ctx, userID)
	if err != nil {
		if err == repository.ErrNothingToPay {
			return c.JSON(http.StatusOK, echo.Map{"message": "nothing to pay"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "checkout failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"checkout_session_id": sessionID})
}

// Success is the landing endpoint after a completed payment.  It flips
// the caller's unpaid baskets to paid; hitting it again is harmless.
func (h *PaymentHandler) Success(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Checkout.ConfirmPayment(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm payment failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment confirmed", "baskets_paid": n})
}

// Cancel is the landing endpoint after an abandoned payment.  Baskets
// are left untouched so the customer can try again.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	h.Checkout.CancelPayment(userID)
	return c.JSON(http.StatusOK, echo.Map{"message": "payment cancelled"})
}
