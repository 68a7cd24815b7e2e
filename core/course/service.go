package course

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/manifest"
)

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

const (
	importedCourseTitle = "Imported Course"
	importedCourseDescr = "Imported from IMSCC upload"
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		// ImportCourse inserts the course and all its assignments as a
		// single atomic unit; a failure mid-sequence leaves no state behind.
		ImportCourse(ctx context.Context, c Course, assignments []Assignment) (Course, error)
		GetAssignmentByID(ctx context.Context, id int) (Assignment, error)
		QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]Assignment, error)
		// AssignCourseToSchools adds (school, course) pairs; pairs already
		// present are left untouched.
		AssignCourseToAllSchools(ctx context.Context, courseID int) error
		AssignCourseToDistricts(ctx context.Context, courseID int, districtIDs []int) error
		AssignCourseToAllDistricts(ctx context.Context, courseID int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a Course. Super only.
func (svc *Service) Create(ctx context.Context, actor core.Actor, nc NewCourse) (Course, error) {
	if !actor.IsSuper() {
		return Course{}, core.ErrPermissionDenied
	}
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	return svc.repo.CreateCourse(ctx, Course{Title: nc.Title, Description: nc.Description, Active: true})
}

// ImportPackage flattens a decoded package manifest and persists the
// resulting course and assignments as one atomic unit. Super only.
// A malformed tree fails the call before any course state is created.
func (svc *Service) ImportPackage(ctx context.Context, actor core.Actor, m manifest.Manifest) (Course, []Assignment, error) {
	if !actor.IsSuper() {
		return Course{}, nil, core.ErrPermissionDenied
	}

	records, err := manifest.Flatten(m)
	if err != nil {
		return Course{}, nil, err
	}

	title := core.CleanString(m.Organization.Title)
	if title == "" {
		title = importedCourseTitle
	}
	assignments := make([]Assignment, 0, len(records))
	for _, rec := range records {
		assignments = append(assignments, Assignment{
			Title:  rec.Title,
			Slug:   rec.Slug,
			Prompt: rec.Prompt,
		})
	}

	c, err := svc.repo.ImportCourse(ctx, Course{Title: title, Description: importedCourseDescr, Active: true}, assignments)
	if err != nil {
		return Course{}, nil, err
	}
	imported, err := svc.repo.QueryAssignmentsByCourse(ctx, c.ID)
	if err != nil {
		return Course{}, nil, err
	}
	return c, imported, nil
}

// AssignToAllSchools makes the course available to every school. Super only.
func (svc *Service) AssignToAllSchools(ctx context.Context, actor core.Actor, courseID int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return err
	}
	return svc.repo.AssignCourseToAllSchools(ctx, courseID)
}

// AssignToDistricts makes the course available to every school of the
// given districts. Super only.
func (svc *Service) AssignToDistricts(ctx context.Context, actor core.Actor, courseID int, districtIDs []int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return err
	}
	if len(districtIDs) == 0 {
		return nil
	}
	return svc.repo.AssignCourseToDistricts(ctx, courseID, districtIDs)
}

func (svc *Service) AssignToAllDistricts(ctx context.Context, actor core.Actor, courseID int) error {
	if !actor.IsSuper() {
		return core.ErrPermissionDenied
	}
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return err
	}
	return svc.repo.AssignCourseToAllDistricts(ctx, courseID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) GetAssignment(ctx context.Context, id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) QueryAssignments(ctx context.Context, courseID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByCourse(ctx, courseID)
}
