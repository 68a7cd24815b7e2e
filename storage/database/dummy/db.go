package dummydb

import (
	"sort"
	"sync"

	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/learner"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/submission"
)

// idSet is an association end: set semantics, no duplicates.
type idSet map[int]struct{}

func (s idSet) add(id int)      { s[id] = struct{}{} }
func (s idSet) has(id int) bool { _, ok := s[id]; return ok }

// DB holds every table behind a single lock. Association sets are replaced
// wholesale under the write lock, so readers never observe a partial set.
type DB struct {
	sync.RWMutex

	districts   map[int]*school.District
	schools     map[int]*school.School
	admins      map[int]*admin.Admin
	learners    map[int]*learner.Learner
	courses     map[int]*course.Course
	assignments map[int]*course.Assignment
	submissions map[int]*submission.Submission

	adminSchools   map[int]idSet // adminID -> schoolIDs
	learnerSchools map[int]idSet // learnerID -> schoolIDs
	learnerCourses map[int]idSet // learnerID -> courseIDs
	schoolCourses  map[int]idSet // schoolID -> courseIDs

	pkCounts map[string]int
}

func Open() (*DB, error) {
	db := &DB{
		districts:      make(map[int]*school.District),
		schools:        make(map[int]*school.School),
		admins:         make(map[int]*admin.Admin),
		learners:       make(map[int]*learner.Learner),
		courses:        make(map[int]*course.Course),
		assignments:    make(map[int]*course.Assignment),
		submissions:    make(map[int]*submission.Submission),
		adminSchools:   make(map[int]idSet),
		learnerSchools: make(map[int]idSet),
		learnerCourses: make(map[int]idSet),
		schoolCourses:  make(map[int]idSet),
		pkCounts:       make(map[string]int),
	}
	return db, nil
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK(table string) int {
	db.pkCounts[table]++
	return db.pkCounts[table]
}

func (s idSet) sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
