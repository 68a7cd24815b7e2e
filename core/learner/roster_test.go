package learner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/learner"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*learner.Service, learner.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewLearnerRepository(db)
	return learner.NewService(repo), repo
}

func TestService_ImportRoster(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()

	t.Run("single valid row", func(t *testing.T) {
		svc, repo := setup(t)
		in := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,1;2,5\n"

		res, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		assert.Equal(t, learner.RosterResult{Imported: 1, Skipped: 0}, res)

		l, err := repo.FindLearnerByIdentity(ctx, "Ada", "Lovelace", "AL12")
		assert.NoError(t, err)
		schoolIDs, err := repo.QueryLearnerSchoolIDs(ctx, l.ID)
		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2}, schoolIDs)
		courseIDs, err := repo.QueryLearnerCourseIDs(ctx, l.ID)
		assert.NoError(t, err)
		assert.Equal(t, []int{5}, courseIDs)
	})

	t.Run("invalid row skipped", func(t *testing.T) {
		svc, repo := setup(t)
		in := "first_name,last_name,code,school_ids,course_ids\n" +
			"Ada,Lovelace,AL12,1;2,5\n" +
			"Bob,Smith,AB1,1,2\n" // code too short

		res, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		assert.Equal(t, learner.RosterResult{Imported: 1, Skipped: 1}, res)

		_, err = repo.FindLearnerByIdentity(ctx, "Bob", "Smith", "AB1")
		assert.Equal(t, learner.ErrNotFound, err)
	})

	t.Run("non-integer id skipped", func(t *testing.T) {
		svc, _ := setup(t)
		in := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,one;2,5\n"

		res, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		assert.Equal(t, learner.RosterResult{Imported: 0, Skipped: 1}, res)
	})

	t.Run("reimport is idempotent", func(t *testing.T) {
		svc, repo := setup(t)
		in := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,1;2,5\n"

		_, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		res, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Imported)

		all, err := repo.QueryAllLearners(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("school set replaced wholesale", func(t *testing.T) {
		svc, repo := setup(t)
		first := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,1;2,5\n"
		second := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,3,\n"

		_, err := svc.ImportRoster(ctx, super, strings.NewReader(first))
		assert.NoError(t, err)
		_, err = svc.ImportRoster(ctx, super, strings.NewReader(second))
		assert.NoError(t, err)

		l, err := repo.FindLearnerByIdentity(ctx, "Ada", "Lovelace", "AL12")
		assert.NoError(t, err)
		schoolIDs, err := repo.QueryLearnerSchoolIDs(ctx, l.ID)
		assert.NoError(t, err)
		assert.Equal(t, []int{3}, schoolIDs)

		// enrollments are additive, not replaced
		courseIDs, err := repo.QueryLearnerCourseIDs(ctx, l.ID)
		assert.NoError(t, err)
		assert.Equal(t, []int{5}, courseIDs)
	})

	t.Run("empty school list clears schools", func(t *testing.T) {
		svc, repo := setup(t)
		first := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,1;2,\n"
		second := "first_name,last_name,code,school_ids,course_ids\nAda,Lovelace,AL12,,\n"

		_, err := svc.ImportRoster(ctx, super, strings.NewReader(first))
		assert.NoError(t, err)
		_, err = svc.ImportRoster(ctx, super, strings.NewReader(second))
		assert.NoError(t, err)

		l, err := repo.FindLearnerByIdentity(ctx, "Ada", "Lovelace", "AL12")
		assert.NoError(t, err)
		schoolIDs, err := repo.QueryLearnerSchoolIDs(ctx, l.ID)
		assert.NoError(t, err)
		assert.Empty(t, schoolIDs)
	})

	t.Run("bad header", func(t *testing.T) {
		svc, _ := setup(t)
		tests := []string{
			"",
			"first_name,last_name,code\nAda,Lovelace,AL12\n",
			"last_name,first_name,code,school_ids,course_ids\n",
		}
		for _, in := range tests {
			_, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
			assert.Equal(t, learner.ErrBadRosterHeader, err)
		}
	})

	t.Run("header match is case-insensitive", func(t *testing.T) {
		svc, _ := setup(t)
		in := "First_Name,Last_Name,Code,School_IDs,Course_IDs\nAda,Lovelace,AL12,,\n"

		res, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Imported)
	})

	t.Run("permission denied", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.ImportRoster(ctx, core.Actor{}, strings.NewReader(learner.RosterHeader+"\n"))
		assert.Equal(t, core.ErrPermissionDenied, err)
	})
}

func TestService_ExportRoster(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)

	ada := testutil.CreateLearner(t, repo, "Ada", "Lovelace", "AL12")
	bob := testutil.CreateLearner(t, repo, "Bob", "Adams", "BA34")
	testutil.AssignLearnerSchools(t, repo, ada.ID, 2, 1)
	testutil.EnrollLearner(t, repo, ada.ID, 5)
	testutil.EnrollLearner(t, repo, bob.ID, 7)
	testutil.EnrollLearner(t, repo, bob.ID, 3)

	var buf bytes.Buffer
	err := svc.ExportRoster(ctx, &buf, []learner.Learner{ada, bob})
	assert.NoError(t, err)

	want := "first_name,last_name,code,school_ids,course_ids\n" +
		"Bob,Adams,BA34,,3;7\n" + // ordered by (last_name, first_name)
		"Ada,Lovelace,AL12,1;2,5\n"
	assert.Equal(t, want, buf.String())
}

// Reconciling an export against an empty store reproduces the same
// (name, code, schools, courses) tuples.
func TestService_ExportRoster_roundTrip(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()
	svc, repo := setup(t)

	in := "first_name,last_name,code,school_ids,course_ids\n" +
		"Ada,Lovelace,AL12,1;2,5\n" +
		"Bob,Adams,BA34,1,3;7\n"
	_, err := svc.ImportRoster(ctx, super, strings.NewReader(in))
	assert.NoError(t, err)

	learners, err := repo.QueryAllLearners(ctx)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, svc.ExportRoster(ctx, &buf, learners))

	freshSvc, freshRepo := setup(t)
	res, err := freshSvc.ImportRoster(ctx, super, strings.NewReader(buf.String()))
	assert.NoError(t, err)
	assert.Equal(t, learner.RosterResult{Imported: 2, Skipped: 0}, res)

	ada, err := freshRepo.FindLearnerByIdentity(ctx, "Ada", "Lovelace", "AL12")
	assert.NoError(t, err)
	schoolIDs, err := freshRepo.QueryLearnerSchoolIDs(ctx, ada.ID)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, schoolIDs)
	courseIDs, err := freshRepo.QueryLearnerCourseIDs(ctx, ada.ID)
	assert.NoError(t, err)
	assert.Equal(t, []int{5}, courseIDs)
}
