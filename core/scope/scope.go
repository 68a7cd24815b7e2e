// Package scope computes the transitive set of schools, courses, learners
// and submissions an administrative actor may see. Visibility is always
// derived from the association sets at the moment of the call; it is never
// materialized anywhere it could drift.
package scope

import (
	"context"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/submission"
)

// Scope is the derived visibility of one actor:
// schools  = { s : AdminSchool(actor, s) }
// courses  = { c : ∃ s ∈ schools, SchoolCourse(s, c) }
// learners = { l : ∃ s ∈ schools, LearnerSchool(l, s) }
// submissions = { sub : sub.learner ∈ learners }
// A super actor sees all four sets globally.
type Scope struct {
	Schools     []school.School         `json:"schools"`
	Courses     []course.Course         `json:"courses"`
	Learners    []learner.Learner       `json:"learners"`
	Submissions []submission.Submission `json:"submissions"`
}

type (
	Repository interface {
		SchoolsForAdmin(ctx context.Context, adminID int) ([]school.School, error)
		CoursesForAdmin(ctx context.Context, adminID int) ([]course.Course, error)
		LearnersForAdmin(ctx context.Context, adminID int) ([]learner.Learner, error)
		SubmissionsForAdmin(ctx context.Context, adminID int) ([]submission.Submission, error)

		AllSchools(ctx context.Context) ([]school.School, error)
		AllCourses(ctx context.Context) ([]course.Course, error)
		AllLearners(ctx context.Context) ([]learner.Learner, error)
		AllSubmissions(ctx context.Context) ([]submission.Submission, error)
	}

	Resolver struct {
		repo Repository
	}
)

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve computes the actor's scope. Reads only; it reflects the
// association state at the moment of the call. Because association-set
// writers replace sets in a single transaction, Resolve observes either
// the pre- or post-state of a reassignment in full, never a partial one.
func (r *Resolver) Resolve(ctx context.Context, actor core.Actor) (Scope, error) {
	switch actor.Role {
	case core.RoleAdmin:
		return r.resolveAdmin(ctx, actor.ID)
	case core.RoleSuper:
		return r.resolveSuper(ctx)
	}
	return Scope{}, core.ErrPermissionDenied
}

func (r *Resolver) resolveAdmin(ctx context.Context, adminID int) (Scope, error) {
	var s Scope
	var err error
	if s.Schools, err = r.repo.SchoolsForAdmin(ctx, adminID); err != nil {
		return Scope{}, err
	}
	if s.Courses, err = r.repo.CoursesForAdmin(ctx, adminID); err != nil {
		return Scope{}, err
	}
	if s.Learners, err = r.repo.LearnersForAdmin(ctx, adminID); err != nil {
		return Scope{}, err
	}
	if s.Submissions, err = r.repo.SubmissionsForAdmin(ctx, adminID); err != nil {
		return Scope{}, err
	}
	return s, nil
}

func (r *Resolver) resolveSuper(ctx context.Context) (Scope, error) {
	var s Scope
	var err error
	if s.Schools, err = r.repo.AllSchools(ctx); err != nil {
		return Scope{}, err
	}
	if s.Courses, err = r.repo.AllCourses(ctx); err != nil {
		return Scope{}, err
	}
	if s.Learners, err = r.repo.AllLearners(ctx); err != nil {
		return Scope{}, err
	}
	if s.Submissions, err = r.repo.AllSubmissions(ctx); err != nil {
		return Scope{}, err
	}
	return s, nil
}
