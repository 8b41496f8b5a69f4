package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/repository"
)

// OpportunityHandler serves opportunity CRUD. Creation, update and delete
// are restricted to NGOs, and only the owning NGO may touch a posting.
type OpportunityHandler struct {
	Opportunities *repository.OpportunityRepo
}

func NewOpportunityHandler(o *repository.OpportunityRepo) *OpportunityHandler {
	return &OpportunityHandler{Opportunities: o}
}

type opportunityReq struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	RequiredSkills *[]string `json:"requiredSkills"`
	Duration       *string   `json:"duration"` // RFC3339
	Location       *string   `json:"location"`
	Status         *string   `json:"status"`
}

// Create handles POST /v1/opportunities (NGO only).
func (h *OpportunityHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body opportunityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" ||
		body.Status == nil || *body.Status == "" ||
		body.Duration == nil || *body.Duration == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, status and duration are required"})
	}
	if !repository.ValidStatus(*body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Open, Closed or In-progress"})
	}
	duration, err := time.Parse(time.RFC3339, *body.Duration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration format"})
	}

	opp := repository.Opportunity{
		Title:    strings.TrimSpace(*body.Title),
		Duration: duration,
		Status:   *body.Status,
		NGOID:    uid,
	}
	if body.Description != nil {
		opp.Description = *body.Description
	}
	if body.RequiredSkills != nil {
		opp.RequiredSkills = *body.RequiredSkills
	}
	if body.Location != nil {
		opp.Location = *body.Location
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Opportunities.Create(ctx, &opp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create opportunity"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "opportunity created successfully",
		"opportunity": toOpportunityResp(opp),
	})
}

// List handles GET /v1/opportunities. NGOs see only their own postings;
// volunteers see everything. Optional query filters: location (substring),
// status, skills (comma-separated, any overlap).
func (h *OpportunityHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	f := repository.ListFilter{
		Location: c.QueryParam("location"),
		Status:   c.QueryParam("status"),
	}
	if role, _ := c.Get("role").(string); role == repository.RoleNGO {
		f.NGOID = uid
	}
	if s := c.QueryParam("skills"); s != "" {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				f.Skills = append(f.Skills, p)
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opps, err := h.Opportunities.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunities"})
	}
	data := toOpportunityResps(opps)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(data), "data": data})
}

// ListOpen handles the unauthenticated GET /v1/opportunities/open used
// for public browsing; responses are cached by the Redis middleware.
func (h *OpportunityHandler) ListOpen(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opps, err := h.Opportunities.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunities"})
	}
	data := toOpportunityResps(opps)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(data), "data": data})
}

// GetByID handles GET /v1/opportunities/:id.
func (h *OpportunityHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid opportunity id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opp, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrOpportunityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": toOpportunityResp(opp)})
}

// Update handles PUT /v1/opportunities/:id (owning NGO only). Absent
// fields keep their current values.
func (h *OpportunityHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid opportunity id"})
	}

	var body opportunityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opp, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrOpportunityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunity"})
	}
	if opp.NGOID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized"})
	}

	if body.Title != nil {
		if strings.TrimSpace(*body.Title) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		opp.Title = strings.TrimSpace(*body.Title)
	}
	if body.Description != nil {
		opp.Description = *body.Description
	}
	if body.RequiredSkills != nil {
		opp.RequiredSkills = *body.RequiredSkills
	}
	if body.Duration != nil {
		d, err := time.Parse(time.RFC3339, *body.Duration)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration format"})
		}
		opp.Duration = d
	}
	if body.Location != nil {
		opp.Location = *body.Location
	}
	if body.Status != nil {
		if !repository.ValidStatus(*body.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Open, Closed or In-progress"})
		}
		opp.Status = *body.Status
	}

	if err := h.Opportunities.Update(ctx, &opp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update opportunity"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "opportunity updated successfully",
		"opportunity": toOpportunityResp(opp),
	})
}

// Delete handles DELETE /v1/opportunities/:id (owning NGO only). This is
// a hard delete; matches derived from the posting disappear with it.
func (h *OpportunityHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid opportunity id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opp, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrOpportunityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "opportunity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch opportunity"})
	}
	if opp.NGOID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized"})
	}

	if err := h.Opportunities.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete opportunity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "opportunity deleted successfully"})
}
