package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/config"
	"github.com/wastezero/volunteer-hub/internal/repository"
	"github.com/wastezero/volunteer-hub/internal/utils"
)

// ProfileHandler serves the authenticated user's own profile. Only name,
// skills, location and bio are mutable; email and role are fixed at
// registration.
type ProfileHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewProfileHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Tokens: t}
}

// Me handles GET /v1/users/me.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserResp(u)})
}

// UpdateMe handles PUT /v1/users/me. Absent fields keep their current
// values; an explicit empty value overwrites.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		Name     *string   `json:"name"`
		Skills   *[]string `json:"skills"`
		Location *string   `json:"location"`
		Bio      *string   `json:"bio"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch profile"})
	}

	name, skills, location, bio := cur.Name, cur.Skills, cur.Location, cur.Bio
	if body.Name != nil {
		name = *body.Name
	}
	if body.Skills != nil {
		skills = *body.Skills
	}
	if body.Location != nil {
		location = *body.Location
	}
	if body.Bio != nil {
		bio = *body.Bio
	}

	updated, err := h.Users.UpdateProfile(ctx, uid, name, skills, location, bio)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user":    toUserResp(updated),
	})
}

// ChangePassword handles PUT /v1/users/me/password. A successful
// change revokes all outstanding refresh tokens for the user.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.CurrentPassword == "" || body.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currentPassword and newPassword are required"})
	}
	if len(body.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch profile"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
	}

	if err := h.Users.UpdatePassword(ctx, uid, body.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change password"})
	}
	// Old sessions should not outlive the old password. The change
	// itself already succeeded, so a revocation failure is logged
	// rather than surfaced to the client.
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		log.Printf("profile: revoke refresh tokens for user %d: %v", uid, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}
