package router

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/wastezero/volunteer-hub/internal/handler"
)

func registeredPaths(e *echo.Echo) map[string]bool {
	out := make(map[string]bool, len(e.Routes()))
	for _, r := range e.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

func TestMatchRoutePaths(t *testing.T) {
	e := echo.New()
	RegisterMatches(e, handler.NewMatchHandler(nil, nil), "secret")

	paths := registeredPaths(e)
	assert.True(t, paths["GET /v1/matches"], "volunteer match view lives at the group root")
	assert.True(t, paths["GET /v1/matches/:opportunityId"], "NGO match view is keyed by opportunity id")
}

func TestMessageRoutePaths(t *testing.T) {
	e := echo.New()
	RegisterMessages(e, handler.NewMessageHandler(nil, nil), "secret")

	paths := registeredPaths(e)
	assert.True(t, paths["POST /v1/messages"])
	assert.True(t, paths["GET /v1/messages/conversations"])
	assert.True(t, paths["GET /v1/messages/:userId"])
	assert.True(t, paths["DELETE /v1/messages/:userId"])
}
