package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/submission"
)

// scopeRepository bundles the derived visibility queries. Nothing here is
// materialized; every call walks the association tables.
type scopeRepository struct {
	db *sqlx.DB
}

var _ scope.Repository = (*scopeRepository)(nil) // interface compliance check

func NewScopeRepository(db *sqlx.DB) *scopeRepository {
	return &scopeRepository{db: db}
}

func (repo scopeRepository) SchoolsForAdmin(ctx context.Context, adminID int) ([]school.School, error) {
	var rows []schoolRow
	query := `
		SELECT s.id, s.name, s.district_id FROM schools s
		JOIN admin_schools ax ON ax.school_id = s.id
		LEFT JOIN districts d ON d.id = s.district_id
		WHERE ax.admin_id = $1
		ORDER BY d.name, s.name`
	if err := repo.db.SelectContext(ctx, &rows, query, adminID); err != nil {
		return nil, errors.Wrap(err, "querying schools for admin")
	}

	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, school.School(row))
	}
	return schools, nil
}

func (repo scopeRepository) CoursesForAdmin(ctx context.Context, adminID int) ([]course.Course, error) {
	var rows []courseRow
	query := `
		SELECT DISTINCT c.id, c.title, c.description, c.active FROM courses c
		JOIN school_courses sc ON sc.course_id = c.id
		JOIN admin_schools ax ON ax.school_id = sc.school_id
		WHERE ax.admin_id = $1 AND c.active
		ORDER BY c.title`
	if err := repo.db.SelectContext(ctx, &rows, query, adminID); err != nil {
		return nil, errors.Wrap(err, "querying courses for admin")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, course.Course(row))
	}
	return courses, nil
}

func (repo scopeRepository) LearnersForAdmin(ctx context.Context, adminID int) ([]learner.Learner, error) {
	var rows []learnerRow
	query := `
		SELECT DISTINCT l.id, l.first_name, l.last_name, l.code FROM learners l
		WHERE EXISTS (
			SELECT 1 FROM learner_schools ls
			JOIN admin_schools ax ON ax.school_id = ls.school_id
			WHERE ax.admin_id = $1 AND ls.learner_id = l.id
		)
		ORDER BY l.last_name, l.first_name`
	if err := repo.db.SelectContext(ctx, &rows, query, adminID); err != nil {
		return nil, errors.Wrap(err, "querying learners for admin")
	}

	learners := make([]learner.Learner, 0, len(rows))
	for _, row := range rows {
		learners = append(learners, learner.Learner(row))
	}
	return learners, nil
}

func (repo scopeRepository) SubmissionsForAdmin(ctx context.Context, adminID int) ([]submission.Submission, error) {
	query := `
		SELECT s.id, s.assignment_id, s.learner_id, s.text, s.file_path, s.created_at
		FROM submissions s
		WHERE EXISTS (
			SELECT 1 FROM learner_schools ls
			JOIN admin_schools ax ON ax.school_id = ls.school_id
			WHERE ls.learner_id = s.learner_id AND ax.admin_id = $1
		)
		ORDER BY s.created_at DESC`
	return repo.selectSubmissions(ctx, query, adminID)
}

func (repo scopeRepository) AllSchools(ctx context.Context) ([]school.School, error) {
	return NewSchoolRepository(repo.db).QueryAllSchools(ctx)
}

func (repo scopeRepository) AllCourses(ctx context.Context) ([]course.Course, error) {
	return NewCourseRepository(repo.db).QueryAllCourses(ctx)
}

func (repo scopeRepository) AllLearners(ctx context.Context) ([]learner.Learner, error) {
	return NewLearnerRepository(repo.db).QueryAllLearners(ctx)
}

func (repo scopeRepository) AllSubmissions(ctx context.Context) ([]submission.Submission, error) {
	query := `
		SELECT id, assignment_id, learner_id, text, file_path, created_at
		FROM submissions ORDER BY created_at DESC`
	return repo.selectSubmissions(ctx, query)
}

func (repo scopeRepository) selectSubmissions(ctx context.Context, query string, args ...interface{}) ([]submission.Submission, error) {
	var rows []struct {
		ID           int         `db:"id"`
		AssignmentID int         `db:"assignment_id"`
		LearnerID    int         `db:"learner_id"`
		Text         string      `db:"text"`
		FilePath     null.String `db:"file_path"`
		CreatedAt    time.Time   `db:"created_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, submission.Submission{
			ID:           row.ID,
			AssignmentID: row.AssignmentID,
			LearnerID:    row.LearnerID,
			Text:         row.Text,
			FilePath:     row.FilePath,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return subs, nil
}
