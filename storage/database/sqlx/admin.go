package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/admin"
)

type adminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *sqlx.DB) *adminRepository {
	return &adminRepository{db: db}
}

type adminRow struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	PasswordHash []byte `db:"password_hash"`
}

func (repo adminRepository) toAdmin(row adminRow) (admin.Admin, error) {
	role, err := core.ParseRole(row.Role)
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "reading admin role")
	}
	return admin.Admin{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         role,
		PasswordHash: row.PasswordHash,
	}, nil
}

// trapNoRowsErr maps psql "no rows" err to admin.ErrNotFound
func (repo adminRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return admin.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo adminRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedAdmins ...admin.Admin) error {
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1`
	args := []interface{}{email}
	if len(excludedAdmins) > 0 {
		ids := make([]string, 0, len(excludedAdmins))
		for i, adm := range excludedAdmins {
			args = append(args, adm.ID)
			ids = append(ids, "$"+strconv.Itoa(i+2))
		}
		query += ` AND id NOT IN (` + strings.Join(ids, ",") + `)`
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking admin email uniqueness")
	}
	if exists {
		return admin.ErrEmailExists
	}
	return nil
}

func (repo adminRepository) CreateAdmin(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	query := `INSERT INTO admins (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &adm.ID, query, adm.Name, adm.Email, adm.PasswordHash, adm.Role.String()); err != nil {
		return admin.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return adm, nil
}

func (repo adminRepository) GetAdminByID(ctx context.Context, id int) (admin.Admin, error) {
	var row adminRow
	query := `SELECT id, name, email, role, password_hash FROM admins WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return admin.Admin{}, repo.trapNoRowsErr(err, "getting admin by id")
	}
	return repo.toAdmin(row)
}

func (repo adminRepository) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	var row adminRow
	query := `SELECT id, name, email, role, password_hash FROM admins WHERE email = $1`
	if err := repo.db.GetContext(ctx, &row, query, email); err != nil {
		return admin.Admin{}, repo.trapNoRowsErr(err, "getting admin by email")
	}
	return repo.toAdmin(row)
}

func (repo adminRepository) QueryAllAdmins(ctx context.Context) ([]admin.Admin, error) {
	var rows []adminRow
	query := `SELECT id, name, email, role, password_hash FROM admins ORDER BY role DESC, name`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying admins")
	}

	admins := make([]admin.Admin, 0, len(rows))
	for _, row := range rows {
		adm, err := repo.toAdmin(row)
		if err != nil {
			return nil, err
		}
		admins = append(admins, adm)
	}
	return admins, nil
}

func (repo adminRepository) ReplaceAdminSchools(ctx context.Context, adminID int, schoolIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM admin_schools WHERE admin_id = $1`, adminID); err != nil {
		return errors.Wrap(err, "clearing admin schools")
	}
	for _, sid := range schoolIDs {
		query := `INSERT INTO admin_schools (admin_id, school_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err = tx.ExecContext(ctx, query, adminID, sid); err != nil {
			return errors.Wrap(err, "assigning admin school")
		}
	}
	return errors.Wrap(tx.Commit(), "committing admin schools")
}

func (repo adminRepository) QueryAdminSchoolIDs(ctx context.Context, adminID int) ([]int, error) {
	var ids []int
	query := `SELECT school_id FROM admin_schools WHERE admin_id = $1 ORDER BY school_id`
	if err := repo.db.SelectContext(ctx, &ids, query, adminID); err != nil {
		return nil, errors.Wrap(err, "querying admin school ids")
	}
	return ids, nil
}

func (repo adminRepository) DeleteAdmin(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting admin")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return admin.ErrNotFound
	}
	return nil
}
