package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = repo.db.nextPK("submissions")
	repo.db.submissions[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) QuerySubmissionsForLearner(ctx context.Context, learnerID, assignmentID int) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := make([]submission.Submission, 0)
	for _, s := range repo.db.submissions {
		if s.LearnerID == learnerID && s.AssignmentID == assignmentID {
			subs = append(subs, *s)
		}
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (repo *submissionRepository) GetAssignmentInfo(ctx context.Context, assignmentID int) (submission.AssignmentInfo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[assignmentID]; ok {
		return submission.AssignmentInfo{CourseID: a.CourseID, Title: a.Title}, nil
	}
	return submission.AssignmentInfo{}, submission.ErrNotFound
}

func (repo *submissionRepository) IsEnrolled(ctx context.Context, learnerID, courseID int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.learnerCourses[learnerID].has(courseID), nil
}

func (repo *submissionRepository) AdminEmailsForLearnerSchools(ctx context.Context, learnerID int) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	learnerSchools := repo.db.learnerSchools[learnerID]
	seen := make(map[string]struct{})
	emails := make([]string, 0)
	for adminID, adminSchools := range repo.db.adminSchools {
		adm, ok := repo.db.admins[adminID]
		if !ok {
			continue
		}
		for sid := range adminSchools {
			if learnerSchools.has(sid) {
				if _, dup := seen[adm.Email]; !dup {
					seen[adm.Email] = struct{}{}
					emails = append(emails, adm.Email)
				}
				break
			}
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func (repo *submissionRepository) QueryExportRowsForAdmin(ctx context.Context, adminID int) ([]submission.ExportRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	adminSchools := repo.db.adminSchools[adminID]
	rows := make([]submission.ExportRow, 0)
	for _, s := range repo.db.submissions {
		if repo.db.learnerVisibleToSchools(s.LearnerID, adminSchools) {
			rows = append(rows, repo.db.exportRow(s))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (repo *submissionRepository) QueryExportRowsAll(ctx context.Context) ([]submission.ExportRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]submission.ExportRow, 0, len(repo.db.submissions))
	for _, s := range repo.db.submissions {
		rows = append(rows, repo.db.exportRow(s))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

// learnerVisibleToSchools must be called with at least the read lock held.
func (db *DB) learnerVisibleToSchools(learnerID int, schools idSet) bool {
	for sid := range db.learnerSchools[learnerID] {
		if schools.has(sid) {
			return true
		}
	}
	return false
}

// exportRow must be called with at least the read lock held.
func (db *DB) exportRow(s *submission.Submission) submission.ExportRow {
	row := submission.ExportRow{CreatedAt: s.CreatedAt}
	if l, ok := db.learners[s.LearnerID]; ok {
		row.LearnerName = l.FullName()
	}
	if a, ok := db.assignments[s.AssignmentID]; ok {
		row.AssignmentTitle = a.Title
		row.CourseID = a.CourseID
	}
	return row
}

func sortNewestFirst(subs []submission.Submission) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
}
