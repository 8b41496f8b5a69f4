// Package handler contains the HTTP handlers. Handlers bind request DTOs,
// call repositories/services and translate sentinel errors into status
// codes; they never leak internal error details to clients.
package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/repository"
)

// getUserID extracts the authenticated user id placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// userResp is the public view of a user returned by the API. The password
// hash never leaves the repository layer responses.
type userResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResp(u repository.User) userResp {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return userResp{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Skills:    skills,
		Location:  u.Location,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ngoPart carries the owning NGO's public fields inside an opportunity.
type ngoPart struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type opportunityResp struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"requiredSkills"`
	Duration       time.Time `json:"duration"`
	Location       string    `json:"location"`
	Status         string    `json:"status"`
	NGOID          uint64    `json:"ngoId"`
	NGO            ngoPart   `json:"ngo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toOpportunityResp(o repository.Opportunity) opportunityResp {
	skills := o.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return opportunityResp{
		ID:             o.ID,
		Title:          o.Title,
		Description:    o.Description,
		RequiredSkills: skills,
		Duration:       o.Duration,
		Location:       o.Location,
		Status:         o.Status,
		NGOID:          o.NGOID,
		NGO:            ngoPart{Name: o.NGOName, Location: o.NGOLocation},
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOpportunityResps(opps []repository.Opportunity) []opportunityResp {
	out := make([]opportunityResp, 0, len(opps))
	for _, o := range opps {
		out = append(out, toOpportunityResp(o))
	}
	return out
}

func toUserResps(users []repository.User) []userResp {
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return out
}
