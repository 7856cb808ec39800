package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/catalog"
)

// CatalogHandler exposes a manual trigger of the catalog sync.  The same
// sync also runs on the weekly schedule; this endpoint exists so an
// administrator can refresh the catalog on demand.
type CatalogHandler struct {
	Syncer *catalog.Syncer
}

func NewCatalogHandler(s *catalog.Syncer) *CatalogHandler {
	return &CatalogHandler{Syncer: s}
}

// RunSync runs one catalog sync synchronously and reports its summary.
func (h *CatalogHandler) RunSync(c echo.Context) error {
	// provider pagination plus per-movie detail lookups take a while
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	sum, err := h.Syncer.Run(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "catalog sync failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"fetched":  sum.Fetched,
		"inserted": sum.Inserted,
		"skipped":  sum.Skipped,
		"message":  sum.String(),
	})
}
