package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinearc/cinearc-api/internal/handler"
	"github.com/cinearc/cinearc-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitors probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the authenticated
// /v1/me endpoint is registered here too since it belongs to the same
// handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body and needs no JWT; a
	// valid refresh token is proof enough to end its own session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// movie catalog, the rooms and the screening schedule.  No JWT or role
// middleware applies; guests browse freely.  The optional mws (the
// Redis response cache, typically) wrap every route in this group.
func RegisterPublic(e *echo.Echo, m *handler.MovieHandler, r *handler.RoomHandler, s *handler.SessionHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)
	// Browse the movie catalog
	g.GET("/movies", m.List)
	g.GET("/movies/:id", m.GetByID)
	// Browse rooms
	g.GET("/rooms", r.List)
	g.GET("/rooms/:id", r.GetByID)
	// Browse the schedule; ?movie_id= filters to one movie
	g.GET("/sessions", s.List)
	g.GET("/sessions/:id", s.GetByID)
}

// RegisterCustomer registers the authenticated customer routes: basket
// management and the checkout flow.  Admins pass too; an administrator
// buying tickets is still a customer.
func RegisterCustomer(e *echo.Echo, b *handler.BasketHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	g.POST("/basket", b.Add)
	g.POST("/basket/:id/increase", b.Increase)
	g.GET("/basket", b.List)

	g.POST("/checkout", p.CreateCheckout)
	g.GET("/payments/success", p.Success)
	g.GET("/payments/cancel", p.Cancel)
}

// RegisterAdmin registers the administrative routes: room and session
// management plus the manual catalog sync trigger.
func RegisterAdmin(e *echo.Echo, r *handler.RoomHandler, s *handler.SessionHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/rooms", r.Create)
	g.PUT("/rooms/:id", r.Update)
	g.DELETE("/rooms/:id", r.Delete)

	g.POST("/sessions", s.Create)
	g.DELETE("/sessions/:id", s.Delete)

	g.POST("/catalog/sync", cat.RunSync)
}
