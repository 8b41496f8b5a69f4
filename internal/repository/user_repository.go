// Package repository contains the raw-SQL data access layer. Each entity
// gets its own repository struct over *sql.DB; queries carry the request
// context and sentinel errors let handlers pick HTTP statuses without
// string matching.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/wastezero/volunteer-hub/internal/utils"
)

// Role values stored in users.role. A user is exactly one of the two and
// the role never changes after registration.
const (
	RoleVolunteer = "VOLUNTEER"
	RoleNGO       = "NGO"
)

// User mirrors the 'users' table. Skills are stored as a JSON array in a
// TEXT column so the profile stays a single row.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Skills       []string
	Location     string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailExists signals a duplicate email on registration. Lookups that
// find nothing return sql.ErrNoRows as-is.
var ErrEmailExists = errors.New("email already exists")

const userCols = "id,name,email,password_hash,role,skills,location,bio,created_at,updated_at"

// Create inserts a user and returns its ID. The email is normalized to
// lower case before insert so uniqueness is case-insensitive.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, skills []string, location, bio string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	skillsJSON, err := marshalSkills(skills)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, skills, location, bio) VALUES (?,?,?,?,?,?,?)",
		name, email, hash, role, skillsJSON, location, bio)
	if err != nil {
		// MySQL error 1062: duplicate entry for the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UpdateProfile overwrites the mutable profile fields (name, skills,
// location, bio) and returns the fresh row. Role and email stay as they
// were at registration.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name string, skills []string, location, bio string) (User, error) {
	skillsJSON, err := marshalSkills(skills)
	if err != nil {
		return User{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, skills=?, location=?, bio=? WHERE id=?",
		name, skillsJSON, location, bio, id); err != nil {
		return User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// ListVolunteers returns every user with the VOLUNTEER role. Skill and
// location filtering against an opportunity happens in the match package,
// since skills live in a JSON column.
func (r *UserRepo) ListVolunteers(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? ORDER BY created_at DESC, id DESC", RoleVolunteer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func marshalSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var skillsJSON string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&skillsJSON, &u.Location, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &u.Skills); err != nil {
		u.Skills = nil
	}
	return u, nil
}

func scanUserRows(rows *sql.Rows) (User, error) {
	var u User
	var skillsJSON string
	err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&skillsJSON, &u.Location, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &u.Skills); err != nil {
		u.Skills = nil
	}
	return u, nil
}
