package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/wastezero/volunteer-hub/internal/config"
	"github.com/wastezero/volunteer-hub/internal/handler"
	"github.com/wastezero/volunteer-hub/internal/middleware"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// RegisterOpportunities registers the opportunity endpoints.  Browsing is
// open to any authenticated user; create, update and delete require the NGO
// role, and ownership is checked in the handler.  The unauthenticated
// /v1/opportunities/open listing goes through the Redis response cache so
// public browsing does not hammer MySQL.
func RegisterOpportunities(e *echo.Echo, h *handler.OpportunityHandler, jwtSecret string, rdb *redis.Client) {
	// Public browse endpoint, cached.
	e.GET("/v1/opportunities/open", h.ListOpen, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	g := e.Group(
		"/v1/opportunities",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleVolunteer, repository.RoleNGO),
	)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)

	ngo := middleware.RequireRole(repository.RoleNGO)
	g.POST("", h.Create, ngo)
	g.PUT("/:id", h.Update, ngo)
	g.DELETE("/:id", h.Delete, ngo)
}

// RegisterMatches registers the derived matching views.  GET /v1/matches is
// the volunteer's view; GET /v1/matches/:opportunityId is the NGO's view of
// one posting.  The volunteer route enforces its role in the handler so the
// error message can say what the endpoint is for; the NGO route checks
// ownership of the posting.
func RegisterMatches(e *echo.Echo, h *handler.MatchHandler, jwtSecret string) {
	g := e.Group(
		"/v1/matches",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleVolunteer, repository.RoleNGO),
	)
	g.GET("", h.VolunteerMatches)
	g.GET("/:opportunityId", h.NGOMatches, middleware.RequireRole(repository.RoleNGO))
}
