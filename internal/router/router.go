// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing-api/internal/auth"
	"github.com/iliyamo/cinema-ticketing-api/internal/handler"
	"github.com/iliyamo/cinema-ticketing-api/internal/middleware"
)

// RegisterRoutes registers routes that need no dependencies: the health
// probe used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts registration and login under /api/auth. Both are
// unauthenticated by nature; rateLimit guards them against credential
// stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	if rateLimit != nil {
		g.Use(rateLimit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterMovies mounts the catalog. Reads are public and cached;
// creation requires a valid bearer token.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, trust auth.TrustConfig, cache echo.MiddlewareFunc) {
	g := e.Group("/api/movies")
	if cache != nil {
		g.GET("", m.GetMovies, cache)
		g.GET("/:id", m.GetMovie, cache)
	} else {
		g.GET("", m.GetMovies)
		g.GET("/:id", m.GetMovie)
	}
	g.POST("", m.CreateMovie, middleware.BearerAuth(trust))
}
