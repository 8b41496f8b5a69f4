package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastezero/volunteer-hub/internal/config"
	"github.com/wastezero/volunteer-hub/internal/repository"
	"github.com/wastezero/volunteer-hub/internal/utils"
)

func newChangePasswordContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/users/me/password", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	return c, rec
}

// A failed token revocation must not turn an already-applied password
// change into a client-facing error.
func TestChangePasswordSucceedsWhenRevokeFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	oldHash, err := utils.HashPassword("oldpassword", bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role",
			"skills", "location", "bio", "created_at", "updated_at",
		}).AddRow(int64(1), "Dana", "dana@example.org", oldHash, repository.RoleVolunteer,
			"[]", "Yerevan", "", now, now))
	mock.ExpectExec("UPDATE users SET password_hash=").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))

	h := NewProfileHandler(
		config.Config{BcryptCost: bcrypt.MinCost},
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
	)

	c, rec := newChangePasswordContext(t,
		`{"currentPassword":"oldpassword","newPassword":"newpassword"}`)
	require.NoError(t, h.ChangePassword(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "password updated successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordRejectsWrongCurrentPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	oldHash, err := utils.HashPassword("oldpassword", bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role",
			"skills", "location", "bio", "created_at", "updated_at",
		}).AddRow(int64(1), "Dana", "dana@example.org", oldHash, repository.RoleVolunteer,
			"[]", "Yerevan", "", now, now))

	h := NewProfileHandler(
		config.Config{BcryptCost: bcrypt.MinCost},
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
	)

	c, rec := newChangePasswordContext(t,
		`{"currentPassword":"guess","newPassword":"newpassword"}`)
	require.NoError(t, h.ChangePassword(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
