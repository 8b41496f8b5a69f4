package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/match"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// MatchHandler exposes the derived matching views. Matches are never
// stored; each request recomputes them from the current users and
// opportunities so a profile or posting edit takes effect immediately.
type MatchHandler struct {
	Users         *repository.UserRepo
	Opportunities *repository.OpportunityRepo
}

func NewMatchHandler(u *repository.UserRepo, o *repository.OpportunityRepo) *MatchHandler {
	return &MatchHandler{Users: u, Opportunities: o}
}

// VolunteerMatches handles GET /v1/matches: the open opportunities
// matching the calling volunteer's skills and location.
func (h *MatchHandler) VolunteerMatches(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if role, _ := c.Get("role").(string); role != repository.RoleVolunteer {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "matches are for volunteers"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vol, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	open, err := h.Opportunities.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunities"})
	}

	matched := match.ForVolunteer(open, vol)
	data := toOpportunityResps(matched)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(data), "data": data})
}

// NGOMatches handles GET /v1/matches/:opportunityId: the volunteers
// matching one of the calling NGO's own postings.
func (h *MatchHandler) NGOMatches(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	oppID, err := strconv.ParseUint(c.Param("opportunityId"), 10, 64)
	if err != nil || oppID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid opportunity id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opp, err := h.Opportunities.GetByID(ctx, oppID)
	if err != nil {
		if err == repository.ErrOpportunityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunity"})
	}
	if opp.NGOID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized"})
	}

	vols, err := h.Users.ListVolunteers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch volunteers"})
	}

	matched := match.Volunteers(vols, opp)
	data := toUserResps(matched)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(data), "data": data})
}
