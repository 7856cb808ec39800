package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/model"
	"github.com/cinearc/cinearc-api/internal/repository"
)

// SessionHandler manages screening sessions.  Listing and lookup are
// public so customers can browse the schedule; create and delete are
// admin only.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Movies   *repository.MovieRepo
	Rooms    *repository.RoomRepo
}

func NewSessionHandler(s *repository.SessionRepo, m *repository.MovieRepo, r *repository.RoomRepo) *SessionHandler {
	return &SessionHandler{Sessions: s, Movies: m, Rooms: r}
}

type sessionCreateReq struct {
	MovieID  uint64    `json:"movie_id"`
	RoomID   uint64    `json:"room_id"`
	StartsAt time.Time `json:"starts_at"`
}

// List returns the schedule, optionally filtered by ?movie_id=.
func (h *SessionHandler) List(c echo.Context) error {
	var movieID uint64
	if raw := c.QueryParam("movie_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
		}
		movieID = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.List(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sessions)
}

// GetByID returns one session with movie and room details.
func (h *SessionHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Create schedules a screening.  Admin only.  The movie and room are
// checked up front so the caller gets a specific error rather than a
// bare foreign key failure.
func (h *SessionHandler) Create(c echo.Context) error {
	var req sessionCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.RoomID == 0 || req.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, room_id and starts_at required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	s := &model.Session{MovieID: req.MovieID, RoomID: req.RoomID, StartsAt: req.StartsAt}
	if err := h.Sessions.Create(ctx, s); err != nil {
		if err == repository.ErrSessionNotFound {
			// referenced row vanished between the checks and the insert
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie or room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}

	d, err := h.Sessions.GetByID(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, d)
}

// Delete removes a session and any baskets referencing it.  Admin only.
func (h *SessionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete session failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
