package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type districtRow struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	City  string `db:"city"`
	State string `db:"state"`
}

type schoolRow struct {
	ID         int    `db:"id"`
	Name       string `db:"name"`
	DistrictID int    `db:"district_id"`
}

func (repo schoolRepository) CreateDistrict(ctx context.Context, d school.District) (school.District, error) {
	query := `INSERT INTO districts (name, city, state) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.GetContext(ctx, &d.ID, query, d.Name, d.City, d.State); err != nil {
		return school.District{}, errors.Wrap(err, "inserting district")
	}
	return d, nil
}

func (repo schoolRepository) QueryAllDistricts(ctx context.Context) ([]school.District, error) {
	var rows []districtRow
	query := `SELECT id, name, city, state FROM districts ORDER BY name`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying districts")
	}

	districts := make([]school.District, 0, len(rows))
	for _, row := range rows {
		districts = append(districts, school.District(row))
	}
	return districts, nil
}

func (repo schoolRepository) CreateSchool(ctx context.Context, s school.School) (school.School, error) {
	query := `INSERT INTO schools (name, district_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.GetContext(ctx, &s.ID, query, s.Name, s.DistrictID); err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return s, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id int) (school.School, error) {
	var row schoolRow
	query := `SELECT id, name, district_id FROM schools WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school by id")
	}
	return school.School(row), nil
}

func (repo schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	query := `
		SELECT s.id, s.name, s.district_id FROM schools s
		LEFT JOIN districts d ON d.id = s.district_id
		ORDER BY d.name, s.name`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}

	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, school.School(row))
	}
	return schools, nil
}
