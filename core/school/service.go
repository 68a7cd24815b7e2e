package school

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("school not found")

type (
	Repository interface {
		CreateDistrict(ctx context.Context, d District) (District, error)
		QueryAllDistricts(ctx context.Context) ([]District, error)
		CreateSchool(ctx context.Context, s School) (School, error)
		GetSchoolByID(ctx context.Context, id int) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateDistrict creates a District. Super only.
func (svc *Service) CreateDistrict(ctx context.Context, actor core.Actor, nd NewDistrict) (District, error) {
	if !actor.IsSuper() {
		return District{}, core.ErrPermissionDenied
	}
	if err := nd.Validate(); err != nil {
		return District{}, err
	}
	return svc.repo.CreateDistrict(ctx, District{Name: nd.Name, City: nd.City, State: nd.State})
}

// CreateSchool creates a School in a District. Super only.
func (svc *Service) CreateSchool(ctx context.Context, actor core.Actor, ns NewSchool) (School, error) {
	if !actor.IsSuper() {
		return School{}, core.ErrPermissionDenied
	}
	if err := ns.Validate(); err != nil {
		return School{}, err
	}
	return svc.repo.CreateSchool(ctx, School{Name: ns.Name, DistrictID: ns.DistrictID})
}

// QueryAllDistricts lists every District. Super only; scoped admins read
// schools through the scope resolver instead.
func (svc *Service) QueryAllDistricts(ctx context.Context, actor core.Actor) ([]District, error) {
	if !actor.IsSuper() {
		return nil, core.ErrPermissionDenied
	}
	return svc.repo.QueryAllDistricts(ctx)
}

func (svc *Service) QueryAllSchools(ctx context.Context, actor core.Actor) ([]School, error) {
	if !actor.IsSuper() {
		return nil, core.ErrPermissionDenied
	}
	return svc.repo.QueryAllSchools(ctx)
}
