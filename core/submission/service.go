package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("submission not found")
	ErrNotEnrolled = errors.New("learner not enrolled in this course")
)

// ExportHeader is the header of the submissions CSV export.
const ExportHeader = "learner_name,assignment_title,course_id,created_at"

const createdAtLayout = "2006-01-02 15:04:05"

type (
	Repository interface {
		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		QuerySubmissionsForLearner(ctx context.Context, learnerID, assignmentID int) ([]Submission, error)
		GetAssignmentInfo(ctx context.Context, assignmentID int) (AssignmentInfo, error)
		IsEnrolled(ctx context.Context, learnerID, courseID int) (bool, error)
		// AdminEmailsForLearnerSchools returns the distinct emails of admins
		// assigned to any of the learner's schools.
		AdminEmailsForLearnerSchools(ctx context.Context, learnerID int) ([]string, error)
		QueryExportRowsForAdmin(ctx context.Context, adminID int) ([]ExportRow, error)
		QueryExportRowsAll(ctx context.Context) ([]ExportRow, error)
	}

	Service struct {
		repo     Repository
		notifier core.Notifier
	}
)

func NewService(repo Repository, notifier core.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create records a learner's submission and notifies the admins of that
// learner's schools. The learner must be enrolled in the assignment's
// course. Notification is best-effort and never fails the call.
func (svc *Service) Create(ctx context.Context, learnerID int, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(); err != nil {
		return Submission{}, err
	}

	info, err := svc.repo.GetAssignmentInfo(ctx, ns.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	enrolled, err := svc.repo.IsEnrolled(ctx, learnerID, info.CourseID)
	if err != nil {
		return Submission{}, err
	}
	if !enrolled {
		return Submission{}, ErrNotEnrolled
	}

	sub, err := svc.repo.CreateSubmission(ctx, Submission{
		AssignmentID: ns.AssignmentID,
		LearnerID:    learnerID,
		Text:         ns.Text,
		FilePath:     ns.FilePath,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Submission{}, err
	}

	svc.notifyAdmins(ctx, sub, info)
	return sub, nil
}

func (svc *Service) notifyAdmins(ctx context.Context, sub Submission, info AssignmentInfo) {
	emails, err := svc.repo.AdminEmailsForLearnerSchools(ctx, sub.LearnerID)
	if err != nil || len(emails) == 0 {
		return
	}
	to := make([]mail.Address, 0, len(emails))
	for _, e := range emails {
		to = append(to, mail.Address{Address: e})
	}
	svc.notifier.Notify(to,
		fmt.Sprintf("New submission: %s", info.Title),
		fmt.Sprintf("Learner #%d submitted %q.", sub.LearnerID, info.Title),
	)
}

// QueryForLearner lists a learner's own submissions for an assignment,
// newest first.
func (svc *Service) QueryForLearner(ctx context.Context, learnerID, assignmentID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsForLearner(ctx, learnerID, assignmentID)
}

// ExportCSV writes the submissions visible to actor as CSV. A scoped
// admin gets submissions of learners in its schools; super gets all.
func (svc *Service) ExportCSV(ctx context.Context, actor core.Actor, w io.Writer) error {
	var rows []ExportRow
	var err error
	switch actor.Role {
	case core.RoleAdmin:
		rows, err = svc.repo.QueryExportRowsForAdmin(ctx, actor.ID)
	case core.RoleSuper:
		rows, err = svc.repo.QueryExportRowsAll(ctx)
	default:
		return core.ErrPermissionDenied
	}
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, ExportHeader+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		line := fmt.Sprintf("%s,%s,%d,%s\n",
			row.LearnerName, row.AssignmentTitle, row.CourseID, row.CreatedAt.UTC().Format(createdAtLayout))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
