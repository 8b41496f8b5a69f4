// Package match implements the volunteer/NGO matching rule. A match is a
// derived view, recomputed on every query from the current opportunity and
// profile data. Nothing here is cached or persisted, so the answer always
// reflects the data at call time (and may change between calls).
//
// The rule: a Volunteer V and an NGO N are matched iff N owns at least one
// Open opportunity whose required skills overlap V's skills and whose
// location equals V's location ignoring case. Skill comparison is exact
// (case-sensitive) while location comparison folds case; changing either
// side changes who may message whom.
package match

import (
	"context"
	"strings"

	"github.com/wastezero/volunteer-hub/internal/repository"
)

// OpportunitySource yields the Open opportunities owned by one NGO. The
// opportunity repository satisfies it; tests use in-memory fakes.
type OpportunitySource interface {
	OpenByNGO(ctx context.Context, ngoID uint64) ([]repository.Opportunity, error)
}

// IsMatched reports whether the two users are allowed to interact. The
// order of a and b does not matter. Same-role pairs are never matched.
func IsMatched(ctx context.Context, src OpportunitySource, a, b repository.User) (bool, error) {
	var volunteer, ngo repository.User
	switch {
	case a.Role == repository.RoleVolunteer && b.Role == repository.RoleNGO:
		volunteer, ngo = a, b
	case a.Role == repository.RoleNGO && b.Role == repository.RoleVolunteer:
		volunteer, ngo = b, a
	default:
		return false, nil
	}

	opps, err := src.OpenByNGO(ctx, ngo.ID)
	if err != nil {
		return false, err
	}
	for _, opp := range opps {
		if Satisfies(opp, volunteer) {
			return true, nil
		}
	}
	return false, nil
}

// Satisfies reports whether a single opportunity matches a volunteer's
// profile: at least one shared skill and an equal location ignoring case.
// Status is not checked here; callers pass Open opportunities.
func Satisfies(opp repository.Opportunity, volunteer repository.User) bool {
	return SkillOverlap(opp.RequiredSkills, volunteer.Skills) &&
		strings.EqualFold(opp.Location, volunteer.Location)
}

// SkillOverlap reports whether any required skill appears in the
// volunteer's skills. Comparison is exact string equality.
func SkillOverlap(required, skills []string) bool {
	for _, r := range required {
		for _, s := range skills {
			if r == s {
				return true
			}
		}
	}
	return false
}

// ForVolunteer filters a list of Open opportunities down to the ones that
// match the volunteer. Input order (newest first) is preserved.
func ForVolunteer(opps []repository.Opportunity, volunteer repository.User) []repository.Opportunity {
	out := make([]repository.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if Satisfies(opp, volunteer) {
			out = append(out, opp)
		}
	}
	return out
}

// Volunteers filters a list of volunteers down to the ones matching a
// single opportunity.
func Volunteers(vols []repository.User, opp repository.Opportunity) []repository.User {
	out := make([]repository.User, 0, len(vols))
	for _, v := range vols {
		if Satisfies(opp, v) {
			out = append(out, v)
		}
	}
	return out
}
