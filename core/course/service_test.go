package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/manifest"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (*course.Service, *dummydb.DB) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return course.NewService(dummydb.NewCourseRepository(db)), db
}

func strPtr(s string) *string { return &s }

func TestService_ImportPackage(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()

	m := manifest.Manifest{
		Organization: &manifest.Organization{
			Title: "Unit 1",
			Items: []manifest.Item{
				{Title: "Quiz A"},
				{Title: "Quiz B", IdentifierRef: strPtr("r1")},
			},
		},
		Resources: []manifest.Resource{{Identifier: "r1", Href: "b.html"}},
	}

	t.Run("persists course and assignments", func(t *testing.T) {
		svc, _ := setup(t)

		crs, assignments, err := svc.ImportPackage(ctx, super, m)
		assert.NoError(t, err)
		assert.Equal(t, "Unit 1", crs.Title)
		assert.True(t, crs.Active)
		assert.Len(t, assignments, 2)
		assert.Equal(t, "quiz-a", assignments[0].Slug)
		assert.Equal(t, "Complete the task: Quiz A\n\n(Imported href: n/a)", assignments[0].Prompt)
		assert.Equal(t, "Complete the task: Quiz B\n\n(Imported href: b.html)", assignments[1].Prompt)
		assert.Equal(t, crs.ID, assignments[0].CourseID)
	})

	t.Run("untitled organization falls back", func(t *testing.T) {
		svc, _ := setup(t)

		crs, _, err := svc.ImportPackage(ctx, super, manifest.Manifest{
			Organization: &manifest.Organization{Items: []manifest.Item{{Title: "A"}}},
		})
		assert.NoError(t, err)
		assert.Equal(t, "Imported Course", crs.Title)
	})

	t.Run("malformed manifest leaves no state behind", func(t *testing.T) {
		svc, db := setup(t)

		_, _, err := svc.ImportPackage(ctx, super, manifest.Manifest{})
		assert.Equal(t, manifest.ErrMalformedPackage, err)

		courses, err := dummydb.NewCourseRepository(db).QueryAllCourses(ctx)
		assert.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("super only", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.ImportPackage(ctx, core.Actor{ID: 1, Role: core.RoleAdmin}, m)
		assert.Equal(t, core.ErrPermissionDenied, err)
	})
}

func TestService_assignments(t *testing.T) {
	ctx := context.Background()
	super := testutil.Super()
	svc, db := setup(t)
	schRepo := dummydb.NewSchoolRepository(db)
	crsRepo := dummydb.NewCourseRepository(db)
	scopeRepo := dummydb.NewScopeRepository(db)

	d1 := testutil.CreateDistrict(t, schRepo, "District A")
	d2 := testutil.CreateDistrict(t, schRepo, "District B")
	s1 := testutil.CreateSchool(t, schRepo, "School 1", d1.ID)
	testutil.CreateSchool(t, schRepo, "School 2", d2.ID)

	crs, err := svc.Create(ctx, super, course.NewCourse{Title: "Course 1"})
	assert.NoError(t, err)

	t.Run("assign to districts covers their schools only", func(t *testing.T) {
		assert.NoError(t, svc.AssignToDistricts(ctx, super, crs.ID, []int{d1.ID}))

		admRepo := dummydb.NewAdminRepository(db)
		adm := testutil.CreateAdmin(t, admRepo, "X", "x@test.cd", "", core.RoleAdmin)
		testutil.AssignAdminSchools(t, admRepo, adm.ID, s1.ID)

		courses, err := scopeRepo.CoursesForAdmin(ctx, adm.ID)
		assert.NoError(t, err)
		assert.Len(t, courses, 1)
	})

	t.Run("assigning twice keeps set semantics", func(t *testing.T) {
		assert.NoError(t, svc.AssignToAllSchools(ctx, super, crs.ID))
		assert.NoError(t, svc.AssignToAllSchools(ctx, super, crs.ID))

		courses, err := crsRepo.QueryAllCourses(ctx)
		assert.NoError(t, err)
		assert.Len(t, courses, 1)
	})

	t.Run("assignment ops are super only", func(t *testing.T) {
		adm := core.Actor{ID: 9, Role: core.RoleAdmin}
		assert.Equal(t, core.ErrPermissionDenied, svc.AssignToAllSchools(ctx, adm, crs.ID))
		assert.Equal(t, core.ErrPermissionDenied, svc.AssignToDistricts(ctx, adm, crs.ID, []int{d1.ID}))
		assert.Equal(t, core.ErrPermissionDenied, svc.AssignToAllDistricts(ctx, adm, crs.ID))
	})
}
