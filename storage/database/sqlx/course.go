package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID          int    `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Active      bool   `db:"active"`
}

type assignmentRow struct {
	ID       int    `db:"id"`
	CourseID int    `db:"course_id"`
	Title    string `db:"title"`
	Slug     string `db:"slug"`
	Prompt   string `db:"prompt"`
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	query := `INSERT INTO courses (title, description, active) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.GetContext(ctx, &c.ID, query, c.Title, c.Description, c.Active); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	query := `SELECT id, title, description, active FROM courses WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course by id")
	}
	return course.Course(row), nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	query := `SELECT id, title, description, active FROM courses ORDER BY id DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, course.Course(row))
	}
	return courses, nil
}

func (repo courseRepository) ImportCourse(ctx context.Context, c course.Course, assignments []course.Assignment) (course.Course, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO courses (title, description, active) VALUES ($1, $2, $3) RETURNING id`
	if err = tx.GetContext(ctx, &c.ID, query, c.Title, c.Description, c.Active); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting imported course")
	}
	for _, a := range assignments {
		query = `INSERT INTO assignments (course_id, title, slug, prompt) VALUES ($1, $2, $3, $4)`
		if _, err = tx.ExecContext(ctx, query, c.ID, a.Title, a.Slug, a.Prompt); err != nil {
			return course.Course{}, errors.Wrap(err, "inserting assignment")
		}
	}
	if err = tx.Commit(); err != nil {
		return course.Course{}, errors.Wrap(err, "committing course import")
	}
	return c, nil
}

func (repo courseRepository) GetAssignmentByID(ctx context.Context, id int) (course.Assignment, error) {
	var row assignmentRow
	query := `SELECT id, course_id, title, slug, prompt FROM assignments WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Assignment{}, course.ErrAssignmentNotFound
		}
		return course.Assignment{}, errors.Wrap(err, "getting assignment by id")
	}
	return course.Assignment(row), nil
}

func (repo courseRepository) QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]course.Assignment, error) {
	var rows []assignmentRow
	query := `SELECT id, course_id, title, slug, prompt FROM assignments WHERE course_id = $1 ORDER BY id ASC`
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	assignments := make([]course.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, course.Assignment(row))
	}
	return assignments, nil
}

func (repo courseRepository) AssignCourseToAllSchools(ctx context.Context, courseID int) error {
	query := `
		INSERT INTO school_courses (school_id, course_id)
		SELECT id, $1 FROM schools
		ON CONFLICT DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, query, courseID); err != nil {
		return errors.Wrap(err, "assigning course to all schools")
	}
	return nil
}

func (repo courseRepository) AssignCourseToDistricts(ctx context.Context, courseID int, districtIDs []int) error {
	if len(districtIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`
		INSERT INTO school_courses (school_id, course_id)
		SELECT id, ? FROM schools WHERE district_id IN (?)
		ON CONFLICT DO NOTHING`, courseID, districtIDs)
	if err != nil {
		return errors.Wrap(err, "building district assignment query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "assigning course to districts")
	}
	return nil
}

func (repo courseRepository) AssignCourseToAllDistricts(ctx context.Context, courseID int) error {
	// every school belongs to a district, so this covers all of them
	return repo.AssignCourseToAllSchools(ctx, courseID)
}
