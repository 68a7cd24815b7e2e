package admin

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("admin not found")
	ErrEmailExists = errors.New("an admin with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedAdmins ...Admin) error
		CreateAdmin(ctx context.Context, adm Admin) (Admin, error)
		GetAdminByID(ctx context.Context, id int) (Admin, error)
		GetAdminByEmail(ctx context.Context, email string) (Admin, error)
		QueryAllAdmins(ctx context.Context) ([]Admin, error)
		// ReplaceAdminSchools discards the admin's whole school set and
		// installs schoolIDs in its place, as one atomic step.
		ReplaceAdminSchools(ctx context.Context, adminID int, schoolIDs []int) error
		QueryAdminSchoolIDs(ctx context.Context, adminID int) ([]int, error)
		// DeleteAdmin removes the admin and cascades its school associations.
		DeleteAdmin(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string, exclAdmins ...Admin) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclAdmins...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create creates an Admin. Super only.
func (svc *Service) Create(ctx context.Context, actor core.Actor, na NewAdmin) (Admin, error) {
	if !actor.IsSuper() {
		return Admin{}, core.ErrPermissionDenied
	}
	if err := na.Validate(); err != nil {
		return Admin{}, err
	}
	if err := svc.checkUniqueness(ctx, na.Email); err != nil {
		return Admin{}, err
	}

	adm := Admin{
		Name:  na.Name,
		Email: na.Email,
		Role:  na.Role,
	}
	if err := adm.SetPassword(na.Password); err != nil {
		return Admin{}, err
	}
	return svc.repo.CreateAdmin(ctx, adm)
}

// Delete removes an Admin and its school associations. Super only.
func (svc *Service) Delete(ctx context.Context, actor core.Actor, id int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteAdmin(ctx, id)
}

// AssignSchools replaces the admin's school association set wholesale.
// Super only. The replacement is a single atomic step: concurrent readers
// observe either the old set or the new set in full.
func (svc *Service) AssignSchools(ctx context.Context, actor core.Actor, adminID int, schoolIDs []int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetAdminByID(ctx, adminID); err != nil {
		return err
	}
	return svc.repo.ReplaceAdminSchools(ctx, adminID, schoolIDs)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Admin, error) {
	return svc.repo.GetAdminByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Admin, error) {
	return svc.repo.GetAdminByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context, actor core.Actor) ([]Admin, error) {
	if !actor.IsSuper() {
		return nil, core.ErrPermissionDenied
	}
	return svc.repo.QueryAllAdmins(ctx)
}

func (svc *Service) SchoolIDs(ctx context.Context, adminID int) ([]int, error) {
	return svc.repo.QueryAdminSchoolIDs(ctx, adminID)
}

// Authenticate fetches the admin by email and checks the password with
// the configured equality predicate. The host login form is responsible
// for everything else.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Admin, error) {
	adm, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Admin{}, err
	}
	if err := adm.CheckPassword(pwd); err != nil {
		return Admin{}, ErrNotFound
	}
	return adm, nil
}
