package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/darasa/core/learner"
)

type learnerRepository struct {
	db *DB
}

var _ learner.Repository = (*learnerRepository)(nil) // interface compliance check

func NewLearnerRepository(db *DB) *learnerRepository {
	return &learnerRepository{db: db}
}

// findByIdentity must be called with at least the read lock held.
func (repo *learnerRepository) findByIdentity(first, last, code string) (learner.Learner, bool) {
	for _, l := range repo.db.learners {
		if strings.EqualFold(l.FirstName, first) && strings.EqualFold(l.LastName, last) && l.Code == code {
			return *l, true
		}
	}
	return learner.Learner{}, false
}

func (repo *learnerRepository) UpsertLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.findByIdentity(l.FirstName, l.LastName, l.Code); ok {
		return existing, nil
	}
	l.ID = repo.db.nextPK("learners")
	repo.db.learners[l.ID] = &l
	return l, nil
}

func (repo *learnerRepository) GetLearnerByID(ctx context.Context, id int) (learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.learners[id]; ok {
		return *l, nil
	}
	return learner.Learner{}, learner.ErrNotFound
}

func (repo *learnerRepository) FindLearnerByIdentity(ctx context.Context, first, last, code string) (learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.findByIdentity(first, last, code); ok {
		return l, nil
	}
	return learner.Learner{}, learner.ErrNotFound
}

func (repo *learnerRepository) QueryAllLearners(ctx context.Context) ([]learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.queryLearners(), nil
}

// queryLearners must be called with at least the read lock held.
func (db *DB) queryLearners() []learner.Learner {
	learners := make([]learner.Learner, 0, len(db.learners))
	for _, l := range db.learners {
		learners = append(learners, *l)
	}
	sort.Slice(learners, func(i, j int) bool {
		li, lj := strings.ToLower(learners[i].LastName), strings.ToLower(learners[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(learners[i].FirstName) < strings.ToLower(learners[j].FirstName)
	})
	return learners
}

func (repo *learnerRepository) ReplaceLearnerSchools(ctx context.Context, learnerID int, schoolIDs []int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	set := make(idSet, len(schoolIDs))
	for _, sid := range schoolIDs {
		set.add(sid)
	}
	repo.db.learnerSchools[learnerID] = set
	return nil
}

func (repo *learnerRepository) EnrollCourse(ctx context.Context, learnerID, courseID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	set, ok := repo.db.learnerCourses[learnerID]
	if !ok {
		set = make(idSet)
		repo.db.learnerCourses[learnerID] = set
	}
	set.add(courseID)
	return nil
}

func (repo *learnerRepository) QueryLearnerSchoolIDs(ctx context.Context, learnerID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.learnerSchools[learnerID].sorted(), nil
}

func (repo *learnerRepository) QueryLearnerCourseIDs(ctx context.Context, learnerID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.learnerCourses[learnerID].sorted(), nil
}

func (repo *learnerRepository) DeleteLearner(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.learners[id]; !ok {
		return learner.ErrNotFound
	}
	delete(repo.db.learners, id)
	delete(repo.db.learnerSchools, id)
	delete(repo.db.learnerCourses, id)
	for sid, sub := range repo.db.submissions {
		if sub.LearnerID == id {
			delete(repo.db.submissions, sid)
		}
	}
	return nil
}
