package submission

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Submission is immutable once created: there is no update or delete path,
// only the cascade when its owning Learner is removed.
type Submission struct {
	ID           int         `json:"id"`
	AssignmentID int         `json:"assignment_id"`
	LearnerID    int         `json:"learner_id"`
	Text         string      `json:"text"`
	FilePath     null.String `json:"file_path"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
}

// NewSubmission contains information needed to create a Submission.
type NewSubmission struct {
	AssignmentID int         `json:"assignment_id" validate:"required"`
	Text         string      `json:"text"`
	FilePath     null.String `json:"file_path"`
}

func (ns *NewSubmission) Validate() error {
	ns.Text = core.CleanString(ns.Text)
	return core.Validate.Struct(ns)
}

// AssignmentInfo is the slice of an assignment a submission needs.
type AssignmentInfo struct {
	CourseID int
	Title    string
}

// ExportRow is one line of the submissions CSV export.
type ExportRow struct {
	LearnerName     string
	AssignmentTitle string
	CourseID        int
	CreatedAt       time.Time
}
