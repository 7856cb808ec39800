package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/model"
	"github.com/cinearc/cinearc-api/internal/repository"
)

// BasketHandler manages the authenticated customer's ticket baskets.
type BasketHandler struct {
	Baskets  *repository.BasketRepo
	Sessions *repository.SessionRepo
}

func NewBasketHandler(b *repository.BasketRepo, s *repository.SessionRepo) *BasketHandler {
	return &BasketHandler{Baskets: b, Sessions: s}
}

type basketAddReq struct {
	SessionID uint64 `json:"session_id"`
	Quantity  uint32 `json:"quantity"`
}

type basketResp struct {
	ID        uint64 `json:"id"`
	SessionID uint64 `json:"session_id"`
	Quantity  uint32 `json:"quantity"`
	Paid      bool   `json:"paid"`
}

func toBasketResp(b *model.Basket) basketResp {
	return basketResp{ID: b.ID, SessionID: b.SessionID, Quantity: b.Quantity, Paid: b.Paid}
}

// Add puts tickets for a session into the caller's basket.  Repeating
// the call for the same session grows the existing basket rather than
// creating a second one.
func (h *BasketHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req basketAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Sessions.Exists(ctx, req.SessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}

	b, err := h.Baskets.AddOrIncrement(ctx, userID, req.SessionID, req.Quantity)
	if err != nil {
		switch err {
		case repository.ErrInvalidQuantity:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
		case repository.ErrSessionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case repository.ErrAlreadyPaid:
			return c.JSON(http.StatusConflict, echo.Map{"error": "basket already paid"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to basket failed"})
		}
	}
	return c.JSON(http.StatusCreated, toBasketResp(b))
}

// Increase adds one ticket to an existing basket of the caller.
func (h *BasketHandler) Increase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	basketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Baskets.IncrementByID(ctx, basketID, userID)
	if err != nil {
		switch err {
		case repository.ErrBasketNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "basket not found"})
		case repository.ErrAlreadyPaid:
			return c.JSON(http.StatusConflict, echo.Map{"error": "basket already paid"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "increase failed"})
		}
	}
	return c.JSON(http.StatusOK, toBasketResp(b))
}

// List returns the caller's baskets with session details.
func (h *BasketHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Baskets.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, details)
}
