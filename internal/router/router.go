package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/wastezero/volunteer-hub/internal/config"
	"github.com/wastezero/volunteer-hub/internal/handler"
	"github.com/wastezero/volunteer-hub/internal/middleware"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probes hit this endpoint to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Unauthenticated
// operations live under /v1/auth; the rate limiter sits in front of them so
// credential stuffing burns through a small token bucket instead of the
// database.  The limiter is fail-open: with Redis down requests pass through.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and a
	// new pair is issued.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterUsers registers the profile endpoints under /v1/users.  Both roles
// may read and edit their own profile.
func RegisterUsers(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleVolunteer, repository.RoleNGO),
	)
	g.GET("/me", p.Me)
	g.PUT("/me", p.UpdateMe)
	g.PUT("/me/password", p.ChangePassword)
}
