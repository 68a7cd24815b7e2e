package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = repo.db.nextPK("courses")
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.queryCourses(), nil
}

// queryCourses must be called with at least the read lock held.
func (db *DB) queryCourses() []course.Course {
	courses := make([]course.Course, 0, len(db.courses))
	for _, c := range db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
	return courses
}

func (repo *courseRepository) ImportCourse(ctx context.Context, c course.Course, assignments []course.Assignment) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = repo.db.nextPK("courses")
	repo.db.courses[c.ID] = &c
	for _, a := range assignments {
		a.ID = repo.db.nextPK("assignments")
		a.CourseID = c.ID
		entry := a
		repo.db.assignments[a.ID] = &entry
	}
	return c, nil
}

func (repo *courseRepository) GetAssignmentByID(ctx context.Context, id int) (course.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return course.Assignment{}, course.ErrAssignmentNotFound
}

func (repo *courseRepository) QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]course.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]course.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.CourseID == courseID {
			assignments = append(assignments, *a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (repo *courseRepository) AssignCourseToAllSchools(ctx context.Context, courseID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for sid := range repo.db.schools {
		repo.db.addSchoolCourse(sid, courseID)
	}
	return nil
}

func (repo *courseRepository) AssignCourseToDistricts(ctx context.Context, courseID int, districtIDs []int) error {
	if len(districtIDs) == 0 {
		return nil
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	wanted := make(idSet, len(districtIDs))
	for _, did := range districtIDs {
		wanted.add(did)
	}
	for sid, s := range repo.db.schools {
		if wanted.has(s.DistrictID) {
			repo.db.addSchoolCourse(sid, courseID)
		}
	}
	return nil
}

func (repo *courseRepository) AssignCourseToAllDistricts(ctx context.Context, courseID int) error {
	return repo.AssignCourseToAllSchools(ctx, courseID)
}

// addSchoolCourse must be called with the write lock held.
func (db *DB) addSchoolCourse(schoolID, courseID int) {
	set, ok := db.schoolCourses[schoolID]
	if !ok {
		set = make(idSet)
		db.schoolCourses[schoolID] = set
	}
	set.add(courseID)
}
