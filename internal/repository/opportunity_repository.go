// This file defines the Opportunity model and its repository. An Opportunity
// is an NGO-authored posting describing volunteer work: the skills it needs,
// where it happens and when. Only the owning NGO may modify or delete it.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Opportunity status values. Only Open opportunities participate in matching.
const (
	StatusOpen       = "Open"
	StatusClosed     = "Closed"
	StatusInProgress = "In-progress"
)

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusClosed || s == StatusInProgress
}

// Opportunity mirrors the 'opportunities' table. RequiredSkills are stored
// as a JSON array in a TEXT column. NGOName and NGOLocation are populated
// only by queries that join the owning user; they are not columns of the
// opportunities table itself.
type Opportunity struct {
	ID             uint64
	Title          string
	Description    string
	RequiredSkills []string
	Duration       time.Time
	Location       string
	Status         string
	NGOID          uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	NGOName     string
	NGOLocation string
}

// ErrOpportunityNotFound indicates the opportunity row does not exist.
var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepo struct{ DB *sql.DB }

func NewOpportunityRepo(db *sql.DB) *OpportunityRepo { return &OpportunityRepo{DB: db} }

const oppCols = "o.id,o.title,o.description,o.required_skills,o.duration,o.location,o.status,o.ngo_id,o.created_at,o.updated_at"

// Create inserts an opportunity and populates the generated ID and
// timestamps on the given struct.
func (r *OpportunityRepo) Create(ctx context.Context, o *Opportunity) error {
	skillsJSON, err := marshalSkills(o.RequiredSkills)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO opportunities (title, description, required_skills, duration, location, status, ngo_id) VALUES (?,?,?,?,?,?,?)",
		o.Title, o.Description, skillsJSON, o.Duration, o.Location, o.Status, o.NGOID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	fresh, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = fresh
	return nil
}

// GetByID fetches one opportunity together with the owner's public fields.
func (r *OpportunityRepo) GetByID(ctx context.Context, id uint64) (Opportunity, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+oppCols+", u.name, u.location FROM opportunities o JOIN users u ON u.id=o.ngo_id WHERE o.id=? LIMIT 1", id)
	o, err := scanOpportunityRow(row)
	if err == sql.ErrNoRows {
		return Opportunity{}, ErrOpportunityNotFound
	}
	return o, err
}

// ListFilter narrows the result of List. Zero values mean "no filter".
// Skills are matched in Go after the query because they live in a JSON
// column; any overlap with the filter set keeps the row.
type ListFilter struct {
	NGOID    uint64
	Location string
	Status   string
	Skills   []string
}

// List returns opportunities newest first, joined with the owner's name and
// location, optionally narrowed by f.
func (r *OpportunityRepo) List(ctx context.Context, f ListFilter) ([]Opportunity, error) {
	q := "SELECT " + oppCols + ", u.name, u.location FROM opportunities o JOIN users u ON u.id=o.ngo_id WHERE 1=1"
	args := []any{}
	if f.NGOID != 0 {
		q += " AND o.ngo_id=?"
		args = append(args, f.NGOID)
	}
	if f.Location != "" {
		q += " AND o.location LIKE ?"
		args = append(args, "%"+f.Location+"%")
	}
	if f.Status != "" {
		q += " AND o.status=?"
		args = append(args, f.Status)
	}
	q += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Opportunity
	for rows.Next() {
		o, err := scanOpportunityRows(rows)
		if err != nil {
			return nil, err
		}
		if len(f.Skills) > 0 && !anySkill(o.RequiredSkills, f.Skills) {
			continue
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOpen returns every Open opportunity newest first, with owner fields.
func (r *OpportunityRepo) ListOpen(ctx context.Context) ([]Opportunity, error) {
	return r.List(ctx, ListFilter{Status: StatusOpen})
}

// OpenByNGO returns the Open opportunities owned by one NGO. This is the
// query behind the match predicate and must never be cached.
func (r *OpportunityRepo) OpenByNGO(ctx context.Context, ngoID uint64) ([]Opportunity, error) {
	return r.List(ctx, ListFilter{NGOID: ngoID, Status: StatusOpen})
}

// Update overwrites the mutable fields of an opportunity. Ownership is
// checked by the caller via GetByID before calling Update.
func (r *OpportunityRepo) Update(ctx context.Context, o *Opportunity) error {
	skillsJSON, err := marshalSkills(o.RequiredSkills)
	if err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE opportunities SET title=?, description=?, required_skills=?, duration=?, location=?, status=? WHERE id=?",
		o.Title, o.Description, skillsJSON, o.Duration, o.Location, o.Status, o.ID); err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = fresh
	return nil
}

// Delete removes an opportunity row permanently.
func (r *OpportunityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM opportunities WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

// anySkill reports whether any element of want appears in have. Comparison
// is exact (case-sensitive), consistent with the match predicate.
func anySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func scanOpportunityRow(row *sql.Row) (Opportunity, error) {
	var o Opportunity
	var skillsJSON string
	err := row.Scan(&o.ID, &o.Title, &o.Description, &skillsJSON, &o.Duration,
		&o.Location, &o.Status, &o.NGOID, &o.CreatedAt, &o.UpdatedAt, &o.NGOName, &o.NGOLocation)
	if err != nil {
		return Opportunity{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &o.RequiredSkills); err != nil {
		o.RequiredSkills = nil
	}
	return o, nil
}

func scanOpportunityRows(rows *sql.Rows) (Opportunity, error) {
	var o Opportunity
	var skillsJSON string
	err := rows.Scan(&o.ID, &o.Title, &o.Description, &skillsJSON, &o.Duration,
		&o.Location, &o.Status, &o.NGOID, &o.CreatedAt, &o.UpdatedAt, &o.NGOName, &o.NGOLocation)
	if err != nil {
		return Opportunity{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &o.RequiredSkills); err != nil {
		o.RequiredSkills = nil
	}
	return o, nil
}
