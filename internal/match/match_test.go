package match_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastezero/volunteer-hub/internal/match"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// fakeSource returns a canned set of open opportunities per NGO id.
type fakeSource struct {
	open map[uint64][]repository.Opportunity
	err  error
}

func (f *fakeSource) OpenByNGO(_ context.Context, ngoID uint64) ([]repository.Opportunity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.open[ngoID], nil
}

func volunteer(id uint64, location string, skills ...string) repository.User {
	return repository.User{ID: id, Role: repository.RoleVolunteer, Skills: skills, Location: location}
}

func ngo(id uint64) repository.User {
	return repository.User{ID: id, Role: repository.RoleNGO}
}

func open(ngoID uint64, location string, skills ...string) repository.Opportunity {
	return repository.Opportunity{NGOID: ngoID, Status: repository.StatusOpen, Location: location, RequiredSkills: skills}
}

func TestIsMatchedSkillAndLocationOverlap(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Sorting", "Driving")},
	}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "Sorting"), ngo(7))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsMatchedLocationIgnoresCase(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Sorting")},
	}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "delhi", "Sorting"), ngo(7))
	require.NoError(t, err)
	assert.True(t, ok, "location comparison folds case")
}

func TestIsMatchedSkillsAreCaseSensitive(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Sorting")},
	}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "sorting"), ngo(7))
	require.NoError(t, err)
	assert.False(t, ok, "skill comparison is exact")
}

func TestIsMatchedNoSharedSkill(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Driving")},
	}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "Sorting"), ngo(7))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsMatchedArgumentOrderIsIrrelevant(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Sorting")},
	}}
	v, n := volunteer(1, "Delhi", "Sorting"), ngo(7)

	forward, err := match.IsMatched(context.Background(), src, v, n)
	require.NoError(t, err)
	reverse, err := match.IsMatched(context.Background(), src, n, v)
	require.NoError(t, err)
	assert.Equal(t, forward, reverse)
	assert.True(t, forward)
}

func TestIsMatchedSameRolePairsNeverMatch(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{
		7: {open(7, "Delhi", "Sorting")},
	}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "Sorting"), volunteer(2, "Delhi", "Sorting"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = match.IsMatched(context.Background(), src, ngo(7), ngo(8))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsMatchedNGOWithNoOpenOpportunities(t *testing.T) {
	src := &fakeSource{open: map[uint64][]repository.Opportunity{}}

	ok, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "Sorting"), ngo(7))
	require.NoError(t, err)
	assert.False(t, ok, "only Open opportunities participate; none means no match")
}

func TestIsMatchedPropagatesSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}

	_, err := match.IsMatched(context.Background(), src, volunteer(1, "Delhi", "Sorting"), ngo(7))
	assert.Error(t, err)
}

func TestSatisfiesEmptySkillLists(t *testing.T) {
	opp := open(7, "Delhi")
	assert.False(t, match.Satisfies(opp, volunteer(1, "Delhi", "Sorting")), "no required skills means nothing to overlap")
	assert.False(t, match.Satisfies(open(7, "Delhi", "Sorting"), volunteer(1, "Delhi")), "volunteer without skills matches nothing")
}

func TestForVolunteerPreservesOrder(t *testing.T) {
	opps := []repository.Opportunity{
		{ID: 3, Location: "Delhi", RequiredSkills: []string{"Sorting"}},
		{ID: 2, Location: "Mumbai", RequiredSkills: []string{"Sorting"}},
		{ID: 1, Location: "delhi", RequiredSkills: []string{"Sorting", "Driving"}},
	}

	got := match.ForVolunteer(opps, volunteer(1, "Delhi", "Sorting"))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].ID)
	assert.Equal(t, uint64(1), got[1].ID)
}

func TestVolunteersFiltersByOpportunity(t *testing.T) {
	vols := []repository.User{
		volunteer(1, "Delhi", "Sorting"),
		volunteer(2, "Delhi", "Cooking"),
		volunteer(3, "DELHI", "Driving", "Sorting"),
		volunteer(4, "Mumbai", "Sorting"),
	}

	got := match.Volunteers(vols, open(7, "Delhi", "Sorting"))
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, uint64(3), got[1].ID)
}
