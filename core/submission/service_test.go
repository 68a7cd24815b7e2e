package submission_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/submission"
	emailsvc "github.com/trezcool/darasa/services/email"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

type env struct {
	db  *dummydb.DB
	svc *submission.Service
}

func setup(t *testing.T) env {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	emailsvc.ClearSentMessages()
	svc := submission.NewService(dummydb.NewSubmissionRepository(db), emailsvc.NewConsoleNotifierMock())
	return env{db: db, svc: svc}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolled learner submits and admins are notified", func(t *testing.T) {
		e := setup(t)
		schRepo := dummydb.NewSchoolRepository(e.db)
		admRepo := dummydb.NewAdminRepository(e.db)
		learnRepo := dummydb.NewLearnerRepository(e.db)
		crsRepo := dummydb.NewCourseRepository(e.db)

		d := testutil.CreateDistrict(t, schRepo, "District A")
		s := testutil.CreateSchool(t, schRepo, "School 1", d.ID)
		adm := testutil.CreateAdmin(t, admRepo, "X", "x@test.cd", "", core.RoleAdmin)
		testutil.AssignAdminSchools(t, admRepo, adm.ID, s.ID)

		crs := testutil.ImportCourse(t, crsRepo, "Course 1", course.Assignment{Title: "Quiz A", Slug: "quiz-a", Prompt: "do it"})
		assignments, err := crsRepo.QueryAssignmentsByCourse(ctx, crs.ID)
		assert.NoError(t, err)
		assert.Len(t, assignments, 1)

		l := testutil.CreateLearner(t, learnRepo, "Ada", "Lovelace", "AL12")
		testutil.AssignLearnerSchools(t, learnRepo, l.ID, s.ID)
		testutil.EnrollLearner(t, learnRepo, l.ID, crs.ID)

		sub, err := e.svc.Create(ctx, l.ID, submission.NewSubmission{AssignmentID: assignments[0].ID, Text: "answer"})
		assert.NoError(t, err)
		assert.NotZero(t, sub.ID)
		assert.False(t, sub.CreatedAt.IsZero())

		assert.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "New submission: Quiz A", msg.Subject)
		assert.Len(t, msg.To, 1)
		assert.Equal(t, "x@test.cd", msg.To[0].Address)

		subs, err := e.svc.QueryForLearner(ctx, l.ID, assignments[0].ID)
		assert.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("not enrolled is refused and nothing is stored or sent", func(t *testing.T) {
		e := setup(t)
		learnRepo := dummydb.NewLearnerRepository(e.db)
		crsRepo := dummydb.NewCourseRepository(e.db)

		crs := testutil.ImportCourse(t, crsRepo, "Course 1", course.Assignment{Title: "Quiz A", Slug: "quiz-a"})
		assignments, err := crsRepo.QueryAssignmentsByCourse(ctx, crs.ID)
		assert.NoError(t, err)

		l := testutil.CreateLearner(t, learnRepo, "Ada", "Lovelace", "AL12")

		_, err = e.svc.Create(ctx, l.ID, submission.NewSubmission{AssignmentID: assignments[0].ID, Text: "answer"})
		assert.Equal(t, submission.ErrNotEnrolled, err)

		subs, err := e.svc.QueryForLearner(ctx, l.ID, assignments[0].ID)
		assert.NoError(t, err)
		assert.Empty(t, subs)
		assert.Empty(t, emailsvc.SentMessages)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		e := setup(t)
		_, err := e.svc.Create(ctx, 1, submission.NewSubmission{AssignmentID: 404, Text: "answer"})
		assert.Equal(t, submission.ErrNotFound, err)
	})
}

func TestService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	schRepo := dummydb.NewSchoolRepository(e.db)
	admRepo := dummydb.NewAdminRepository(e.db)
	learnRepo := dummydb.NewLearnerRepository(e.db)
	crsRepo := dummydb.NewCourseRepository(e.db)

	d := testutil.CreateDistrict(t, schRepo, "District A")
	s1 := testutil.CreateSchool(t, schRepo, "School 1", d.ID)
	s2 := testutil.CreateSchool(t, schRepo, "School 2", d.ID)
	adm := testutil.CreateAdmin(t, admRepo, "X", "x@test.cd", "", core.RoleAdmin)
	testutil.AssignAdminSchools(t, admRepo, adm.ID, s1.ID)

	crs := testutil.ImportCourse(t, crsRepo, "Course 1", course.Assignment{Title: "Quiz A", Slug: "quiz-a"})
	assignments, err := crsRepo.QueryAssignmentsByCourse(ctx, crs.ID)
	assert.NoError(t, err)
	aid := assignments[0].ID

	ada := testutil.CreateLearner(t, learnRepo, "Ada", "Lovelace", "AL12")
	bob := testutil.CreateLearner(t, learnRepo, "Bob", "Smith", "BS34")
	testutil.AssignLearnerSchools(t, learnRepo, ada.ID, s1.ID)
	testutil.AssignLearnerSchools(t, learnRepo, bob.ID, s2.ID)
	testutil.EnrollLearner(t, learnRepo, ada.ID, crs.ID)
	testutil.EnrollLearner(t, learnRepo, bob.ID, crs.ID)

	adaSub, err := e.svc.Create(ctx, ada.ID, submission.NewSubmission{AssignmentID: aid, Text: "a"})
	assert.NoError(t, err)
	_, err = e.svc.Create(ctx, bob.ID, submission.NewSubmission{AssignmentID: aid, Text: "b"})
	assert.NoError(t, err)

	t.Run("scoped admin sees own schools only", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, e.svc.ExportCSV(ctx, adm.Actor(), &buf))

		want := submission.ExportHeader + "\n" +
			fmt.Sprintf("Ada Lovelace,Quiz A,%d,%s\n", crs.ID, adaSub.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		assert.Equal(t, want, buf.String())
	})

	t.Run("super sees everything", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, e.svc.ExportCSV(ctx, testutil.Super(), &buf))

		lines := bytes.Count(buf.Bytes(), []byte("\n"))
		assert.Equal(t, 3, lines) // header + 2 rows
		assert.Contains(t, buf.String(), "Bob Smith,Quiz A")
	})

	t.Run("unknown role denied", func(t *testing.T) {
		var buf bytes.Buffer
		err := e.svc.ExportCSV(ctx, core.Actor{}, &buf)
		assert.Equal(t, core.ErrPermissionDenied, err)
		assert.Empty(t, buf.String())
	})
}
