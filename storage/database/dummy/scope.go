package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/scope"
	"github.com/trezcool/darasa/core/submission"
)

type scopeRepository struct {
	db *DB
}

var _ scope.Repository = (*scopeRepository)(nil) // interface compliance check

func NewScopeRepository(db *DB) *scopeRepository {
	return &scopeRepository{db: db}
}

func (repo *scopeRepository) SchoolsForAdmin(ctx context.Context, adminID int) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	adminSchools := repo.db.adminSchools[adminID]
	schools := make([]school.School, 0, len(adminSchools))
	for _, s := range repo.db.querySchools() {
		if adminSchools.has(s.ID) {
			schools = append(schools, s)
		}
	}
	return schools, nil
}

func (repo *scopeRepository) CoursesForAdmin(ctx context.Context, adminID int) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	visible := make(idSet)
	for sid := range repo.db.adminSchools[adminID] {
		for cid := range repo.db.schoolCourses[sid] {
			visible.add(cid)
		}
	}

	courses := make([]course.Course, 0, len(visible))
	for cid := range visible {
		if c, ok := repo.db.courses[cid]; ok && c.Active {
			courses = append(courses, *c)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		return strings.ToLower(courses[i].Title) < strings.ToLower(courses[j].Title)
	})
	return courses, nil
}

func (repo *scopeRepository) LearnersForAdmin(ctx context.Context, adminID int) ([]learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	adminSchools := repo.db.adminSchools[adminID]
	learners := make([]learner.Learner, 0)
	for _, l := range repo.db.queryLearners() {
		if repo.db.learnerVisibleToSchools(l.ID, adminSchools) {
			learners = append(learners, l)
		}
	}
	return learners, nil
}

func (repo *scopeRepository) SubmissionsForAdmin(ctx context.Context, adminID int) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	adminSchools := repo.db.adminSchools[adminID]
	subs := make([]submission.Submission, 0)
	for _, s := range repo.db.submissions {
		if repo.db.learnerVisibleToSchools(s.LearnerID, adminSchools) {
			subs = append(subs, *s)
		}
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (repo *scopeRepository) AllSchools(ctx context.Context) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.querySchools(), nil
}

func (repo *scopeRepository) AllCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.queryCourses(), nil
}

func (repo *scopeRepository) AllLearners(ctx context.Context) ([]learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.queryLearners(), nil
}

func (repo *scopeRepository) AllSubmissions(ctx context.Context) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0, len(repo.db.submissions))
	for _, s := range repo.db.submissions {
		subs = append(subs, *s)
	}
	sortNewestFirst(subs)
	return subs, nil
}
