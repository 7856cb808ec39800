package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/model"
	"github.com/cinearc/cinearc-api/internal/repository"
)

// MovieHandler serves the read-only movie catalog.  Movies enter the
// system through the catalog sync, never through this handler.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(m *repository.MovieRepo) *MovieHandler {
	return &MovieHandler{Movies: m}
}

type movieResp struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Synopsis    string  `json:"synopsis"`
	DurationMin uint32  `json:"duration_min"`
	Genre       string  `json:"genre"`
	ReleaseDate *string `json:"release_date"`
	PosterURL   string  `json:"poster_url"`
	Rating      int     `json:"rating"`
}

func toMovieResp(m *model.Movie) movieResp {
	resp := movieResp{
		ID:          m.ID,
		Title:       m.Title,
		Synopsis:    m.Synopsis,
		DurationMin: m.DurationMin,
		Genre:       m.Genre,
		PosterURL:   m.PosterURL,
		Rating:      m.Rating,
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format("2006-01-02")
		resp.ReleaseDate = &d
	}
	return resp
}

// List returns all movies currently in the catalog.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]movieResp, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResp(&movies[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID returns a single movie.
func (h *MovieHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}
