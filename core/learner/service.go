package learner

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("learner not found")

type (
	Repository interface {
		// UpsertLearner creates the learner, or returns the existing row
		// matching its natural identity (first, last case-insensitive, code).
		UpsertLearner(ctx context.Context, l Learner) (Learner, error)
		GetLearnerByID(ctx context.Context, id int) (Learner, error)
		FindLearnerByIdentity(ctx context.Context, first, last, code string) (Learner, error)
		QueryAllLearners(ctx context.Context) ([]Learner, error)
		// ReplaceLearnerSchools discards the learner's whole school set and
		// installs schoolIDs in its place, as one atomic step.
		ReplaceLearnerSchools(ctx context.Context, learnerID int, schoolIDs []int) error
		// EnrollCourse adds a single course enrollment; re-adding an
		// existing pair is a no-op.
		EnrollCourse(ctx context.Context, learnerID, courseID int) error
		QueryLearnerSchoolIDs(ctx context.Context, learnerID int) ([]int, error)
		QueryLearnerCourseIDs(ctx context.Context, learnerID int) ([]int, error)
		// DeleteLearner removes the learner and cascades its school and
		// course associations and submissions.
		DeleteLearner(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enroll creates (or revives, by natural identity) a single Learner and
// replaces its school set. Admin or super.
func (svc *Service) Enroll(ctx context.Context, actor core.Actor, nl NewLearner, schoolIDs []int) (Learner, error) {
	switch actor.Role {
	case core.RoleAdmin, core.RoleSuper: // pass
	default:
		return Learner{}, core.ErrPermissionDenied
	}
	if err := nl.Validate(); err != nil {
		return Learner{}, err
	}

	l, err := svc.repo.UpsertLearner(ctx, Learner{FirstName: nl.FirstName, LastName: nl.LastName, Code: nl.Code})
	if err != nil {
		return Learner{}, err
	}
	if len(schoolIDs) > 0 {
		if err := svc.repo.ReplaceLearnerSchools(ctx, l.ID, schoolIDs); err != nil {
			return Learner{}, err
		}
	}
	return l, nil
}

// ReplaceSchools replaces the learner's school association set wholesale,
// as one atomic step.
func (svc *Service) ReplaceSchools(ctx context.Context, actor core.Actor, learnerID int, schoolIDs []int) error {
	switch actor.Role {
	case core.RoleAdmin, core.RoleSuper: // pass
	default:
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetLearnerByID(ctx, learnerID); err != nil {
		return err
	}
	return svc.repo.ReplaceLearnerSchools(ctx, learnerID, schoolIDs)
}

// EnrollInCourse adds a single course enrollment, leaving existing
// enrollments intact.
func (svc *Service) EnrollInCourse(ctx context.Context, actor core.Actor, learnerID, courseID int) error {
	switch actor.Role {
	case core.RoleAdmin, core.RoleSuper: // pass
	default:
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetLearnerByID(ctx, learnerID); err != nil {
		return err
	}
	return svc.repo.EnrollCourse(ctx, learnerID, courseID)
}

// Delete removes a Learner, cascading associations and submissions. Super only.
func (svc *Service) Delete(ctx context.Context, actor core.Actor, id int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteLearner(ctx, id)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Learner, error) {
	return svc.repo.GetLearnerByID(ctx, id)
}

// FindByIdentity fetches a learner by its natural identity; it backs the
// host's learner login form.
func (svc *Service) FindByIdentity(ctx context.Context, first, last, code string) (Learner, error) {
	return svc.repo.FindLearnerByIdentity(ctx, core.CleanString(first), core.CleanString(last), core.CleanString(code))
}
