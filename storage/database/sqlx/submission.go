package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

type submissionRow struct {
	ID           int         `db:"id"`
	AssignmentID int         `db:"assignment_id"`
	LearnerID    int         `db:"learner_id"`
	Text         string      `db:"text"`
	FilePath     null.String `db:"file_path"`
	CreatedAt    time.Time   `db:"created_at"`
}

type exportRow struct {
	LearnerName     string    `db:"learner_name"`
	AssignmentTitle string    `db:"assignment_title"`
	CourseID        int       `db:"course_id"`
	CreatedAt       time.Time `db:"created_at"`
}

func (repo submissionRepository) toSubmission(row submissionRow) submission.Submission {
	return submission.Submission{
		ID:           row.ID,
		AssignmentID: row.AssignmentID,
		LearnerID:    row.LearnerID,
		Text:         row.Text,
		FilePath:     row.FilePath,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

func (repo submissionRepository) toSubmissions(rows []submissionRow) []submission.Submission {
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, repo.toSubmission(row))
	}
	return subs
}

func (repo submissionRepository) toExportRows(rows []exportRow) []submission.ExportRow {
	out := make([]submission.ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, submission.ExportRow{
			LearnerName:     row.LearnerName,
			AssignmentTitle: row.AssignmentTitle,
			CourseID:        row.CourseID,
			CreatedAt:       row.CreatedAt.UTC(),
		})
	}
	return out
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	query := `
		INSERT INTO submissions (assignment_id, learner_id, text, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := repo.db.GetContext(ctx, &s.ID, query, s.AssignmentID, s.LearnerID, s.Text, s.FilePath, s.CreatedAt); err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return s, nil
}

func (repo submissionRepository) QuerySubmissionsForLearner(ctx context.Context, learnerID, assignmentID int) ([]submission.Submission, error) {
	var rows []submissionRow
	query := `
		SELECT id, assignment_id, learner_id, text, file_path, created_at FROM submissions
		WHERE learner_id = $1 AND assignment_id = $2
		ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, learnerID, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying learner submissions")
	}
	return repo.toSubmissions(rows), nil
}

func (repo submissionRepository) GetAssignmentInfo(ctx context.Context, assignmentID int) (submission.AssignmentInfo, error) {
	var info submission.AssignmentInfo
	query := `SELECT course_id, title FROM assignments WHERE id = $1`
	row := repo.db.QueryRowxContext(ctx, query, assignmentID)
	if err := row.Scan(&info.CourseID, &info.Title); err != nil {
		if err == sql.ErrNoRows {
			return submission.AssignmentInfo{}, submission.ErrNotFound
		}
		return submission.AssignmentInfo{}, errors.Wrap(err, "getting assignment info")
	}
	return info, nil
}

func (repo submissionRepository) IsEnrolled(ctx context.Context, learnerID, courseID int) (bool, error) {
	var enrolled bool
	query := `SELECT EXISTS (SELECT 1 FROM learner_courses WHERE learner_id = $1 AND course_id = $2)`
	if err := repo.db.GetContext(ctx, &enrolled, query, learnerID, courseID); err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return enrolled, nil
}

func (repo submissionRepository) AdminEmailsForLearnerSchools(ctx context.Context, learnerID int) ([]string, error) {
	var emails []string
	query := `
		SELECT DISTINCT a.email FROM admins a
		JOIN admin_schools ax ON ax.admin_id = a.id
		JOIN learner_schools ls ON ls.school_id = ax.school_id
		WHERE ls.learner_id = $1
		ORDER BY a.email`
	if err := repo.db.SelectContext(ctx, &emails, query, learnerID); err != nil {
		return nil, errors.Wrap(err, "querying admin emails for learner schools")
	}
	return emails, nil
}

func (repo submissionRepository) QueryExportRowsForAdmin(ctx context.Context, adminID int) ([]submission.ExportRow, error) {
	var rows []exportRow
	query := `
		SELECT l.first_name || ' ' || l.last_name AS learner_name,
		       a.title AS assignment_title,
		       a.course_id,
		       s.created_at
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		JOIN learners l ON l.id = s.learner_id
		WHERE EXISTS (
			SELECT 1 FROM learner_schools ls
			JOIN admin_schools ax ON ax.school_id = ls.school_id
			WHERE ls.learner_id = s.learner_id AND ax.admin_id = $1
		)
		ORDER BY s.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, adminID); err != nil {
		return nil, errors.Wrap(err, "querying submission export rows for admin")
	}
	return repo.toExportRows(rows), nil
}

func (repo submissionRepository) QueryExportRowsAll(ctx context.Context) ([]submission.ExportRow, error) {
	var rows []exportRow
	query := `
		SELECT l.first_name || ' ' || l.last_name AS learner_name,
		       a.title AS assignment_title,
		       a.course_id,
		       s.created_at
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		JOIN learners l ON l.id = s.learner_id
		ORDER BY s.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying submission export rows")
	}
	return repo.toExportRows(rows), nil
}
