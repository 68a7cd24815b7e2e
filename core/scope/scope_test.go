package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/scope"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

type env struct {
	db       *dummydb.DB
	resolver *scope.Resolver
}

func setup(t *testing.T) env {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return env{db: db, resolver: scope.NewResolver(dummydb.NewScopeRepository(db))}
}

func learnerIDs(learners []learner.Learner) []int {
	ids := make([]int, 0, len(learners))
	for _, l := range learners {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestResolver_Resolve_adminScope(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	schRepo := dummydb.NewSchoolRepository(e.db)
	admRepo := dummydb.NewAdminRepository(e.db)
	learnRepo := dummydb.NewLearnerRepository(e.db)
	crsRepo := dummydb.NewCourseRepository(e.db)

	d := testutil.CreateDistrict(t, schRepo, "District A")
	s1 := testutil.CreateSchool(t, schRepo, "School 1", d.ID)
	s2 := testutil.CreateSchool(t, schRepo, "School 2", d.ID)

	x := testutil.CreateAdmin(t, admRepo, "X", "x@test.cd", "", core.RoleAdmin)
	testutil.AssignAdminSchools(t, admRepo, x.ID, s1.ID)

	l := testutil.CreateLearner(t, learnRepo, "Learner", "L", "LL01")
	m := testutil.CreateLearner(t, learnRepo, "Learner", "M", "MM02")
	testutil.AssignLearnerSchools(t, learnRepo, l.ID, s1.ID)
	testutil.AssignLearnerSchools(t, learnRepo, m.ID, s2.ID)

	c := testutil.CreateCourse(t, crsRepo, "Course 1")
	assert.NoError(t, crsRepo.AssignCourseToAllSchools(ctx, c.ID))

	// X sees L (school 1) but not M (school 2 only)
	scp, err := e.resolver.Resolve(ctx, x.Actor())
	assert.NoError(t, err)
	assert.Equal(t, []int{l.ID}, learnerIDs(scp.Learners))
	assert.Len(t, scp.Schools, 1)
	assert.Len(t, scp.Courses, 1)

	// widening X to school 2 adds M and keeps L
	testutil.AssignAdminSchools(t, admRepo, x.ID, s1.ID, s2.ID)
	scp, err = e.resolver.Resolve(ctx, x.Actor())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int{l.ID, m.ID}, learnerIDs(scp.Learners))
	assert.Len(t, scp.Schools, 2)
}

func TestResolver_Resolve_superSeesAll(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	schRepo := dummydb.NewSchoolRepository(e.db)
	learnRepo := dummydb.NewLearnerRepository(e.db)

	d := testutil.CreateDistrict(t, schRepo, "District A")
	s1 := testutil.CreateSchool(t, schRepo, "School 1", d.ID)
	l := testutil.CreateLearner(t, learnRepo, "Learner", "L", "LL01")
	testutil.AssignLearnerSchools(t, learnRepo, l.ID, s1.ID)
	orphan := testutil.CreateLearner(t, learnRepo, "No", "School", "NS00")

	scp, err := e.resolver.Resolve(ctx, testutil.Super())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int{l.ID, orphan.ID}, learnerIDs(scp.Learners))
	assert.Len(t, scp.Schools, 1)
}

func TestResolver_Resolve_inactiveCoursesHidden(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	schRepo := dummydb.NewSchoolRepository(e.db)
	admRepo := dummydb.NewAdminRepository(e.db)
	crsRepo := dummydb.NewCourseRepository(e.db)

	d := testutil.CreateDistrict(t, schRepo, "District A")
	s1 := testutil.CreateSchool(t, schRepo, "School 1", d.ID)
	x := testutil.CreateAdmin(t, admRepo, "X", "x@test.cd", "", core.RoleAdmin)
	testutil.AssignAdminSchools(t, admRepo, x.ID, s1.ID)

	inactive, err := crsRepo.CreateCourse(ctx, course.Course{Title: "Dormant", Active: false})
	assert.NoError(t, err)
	assert.NoError(t, crsRepo.AssignCourseToAllSchools(ctx, inactive.ID))

	scp, err := e.resolver.Resolve(ctx, x.Actor())
	assert.NoError(t, err)
	assert.Empty(t, scp.Courses)
}

func TestResolver_Resolve_unknownRole(t *testing.T) {
	e := setup(t)
	_, err := e.resolver.Resolve(context.Background(), core.Actor{ID: 1})
	assert.Equal(t, core.ErrPermissionDenied, err)
}
