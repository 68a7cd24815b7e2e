package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/learner"
)

type learnerRepository struct {
	db *sqlx.DB
}

var _ learner.Repository = (*learnerRepository)(nil) // interface compliance check

func NewLearnerRepository(db *sqlx.DB) *learnerRepository {
	return &learnerRepository{db: db}
}

type learnerRow struct {
	ID        int    `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Code      string `db:"code"`
}

func (repo learnerRepository) toLearner(row learnerRow) learner.Learner {
	return learner.Learner{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Code:      row.Code,
	}
}

// trapNoRowsErr maps psql "no rows" err to learner.ErrNotFound
func (repo learnerRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return learner.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo learnerRepository) UpsertLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	existing, err := repo.FindLearnerByIdentity(ctx, l.FirstName, l.LastName, l.Code)
	if err == nil {
		return existing, nil
	}
	if err != learner.ErrNotFound {
		return learner.Learner{}, err
	}

	query := `INSERT INTO learners (first_name, last_name, code) VALUES ($1, $2, $3) RETURNING id`
	if err = repo.db.GetContext(ctx, &l.ID, query, l.FirstName, l.LastName, l.Code); err != nil {
		return learner.Learner{}, errors.Wrap(err, "inserting learner")
	}
	return l, nil
}

func (repo learnerRepository) GetLearnerByID(ctx context.Context, id int) (learner.Learner, error) {
	var row learnerRow
	query := `SELECT id, first_name, last_name, code FROM learners WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return learner.Learner{}, repo.trapNoRowsErr(err, "getting learner by id")
	}
	return repo.toLearner(row), nil
}

func (repo learnerRepository) FindLearnerByIdentity(ctx context.Context, first, last, code string) (learner.Learner, error) {
	var row learnerRow
	query := `
		SELECT id, first_name, last_name, code FROM learners
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2) AND code = $3`
	if err := repo.db.GetContext(ctx, &row, query, first, last, code); err != nil {
		return learner.Learner{}, repo.trapNoRowsErr(err, "finding learner by identity")
	}
	return repo.toLearner(row), nil
}

func (repo learnerRepository) QueryAllLearners(ctx context.Context) ([]learner.Learner, error) {
	var rows []learnerRow
	query := `SELECT id, first_name, last_name, code FROM learners ORDER BY last_name, first_name`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying learners")
	}

	learners := make([]learner.Learner, 0, len(rows))
	for _, row := range rows {
		learners = append(learners, repo.toLearner(row))
	}
	return learners, nil
}

func (repo learnerRepository) ReplaceLearnerSchools(ctx context.Context, learnerID int, schoolIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM learner_schools WHERE learner_id = $1`, learnerID); err != nil {
		return errors.Wrap(err, "clearing learner schools")
	}
	for _, sid := range schoolIDs {
		query := `INSERT INTO learner_schools (learner_id, school_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err = tx.ExecContext(ctx, query, learnerID, sid); err != nil {
			return errors.Wrap(err, "assigning learner school")
		}
	}
	return errors.Wrap(tx.Commit(), "committing learner schools")
}

func (repo learnerRepository) EnrollCourse(ctx context.Context, learnerID, courseID int) error {
	query := `INSERT INTO learner_courses (learner_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, query, learnerID, courseID); err != nil {
		return errors.Wrap(err, "enrolling learner in course")
	}
	return nil
}

func (repo learnerRepository) QueryLearnerSchoolIDs(ctx context.Context, learnerID int) ([]int, error) {
	var ids []int
	query := `SELECT school_id FROM learner_schools WHERE learner_id = $1 ORDER BY school_id`
	if err := repo.db.SelectContext(ctx, &ids, query, learnerID); err != nil {
		return nil, errors.Wrap(err, "querying learner school ids")
	}
	return ids, nil
}

func (repo learnerRepository) QueryLearnerCourseIDs(ctx context.Context, learnerID int) ([]int, error) {
	var ids []int
	query := `SELECT course_id FROM learner_courses WHERE learner_id = $1 ORDER BY course_id`
	if err := repo.db.SelectContext(ctx, &ids, query, learnerID); err != nil {
		return nil, errors.Wrap(err, "querying learner course ids")
	}
	return ids, nil
}

func (repo learnerRepository) DeleteLearner(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM learners WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting learner")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return learner.ErrNotFound
	}
	return nil
}
