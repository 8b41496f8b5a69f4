package router

import (
	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/handler"
	"github.com/wastezero/volunteer-hub/internal/middleware"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// RegisterMessages registers the messaging endpoints under /v1/messages.
// Both roles may message; whether two users can actually talk is decided by
// the match gate inside the service, not by role.
func RegisterMessages(e *echo.Echo, h *handler.MessageHandler, jwtSecret string) {
	g := e.Group(
		"/v1/messages",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleVolunteer, repository.RoleNGO),
	)
	g.POST("", h.Send)
	g.GET("/conversations", h.Conversations)
	g.GET("/:userId", h.History)
	g.DELETE("/:userId", h.DeleteConversation)
}

// RegisterRealtime registers the websocket endpoint.  Authentication happens
// after the upgrade, inside the handler, so a bad token is indistinguishable
// from a dropped connection.
func RegisterRealtime(e *echo.Echo, h *handler.WSHandler) {
	e.GET("/ws", h.Serve)
}
