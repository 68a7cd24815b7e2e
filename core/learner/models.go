package learner

import (
	"strings"

	"github.com/trezcool/darasa/core"
)

// CodeLen is the exact length of a learner's access code.
const CodeLen = 4

// Learner is identified naturally by (FirstName, LastName case-insensitive, Code).
type Learner struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Code      string `json:"code"`
}

func (l Learner) FullName() string {
	return l.FirstName + " " + l.LastName
}

// SameIdentity reports whether other shares l's natural identity.
// Names compare case-insensitively; the code compares exactly.
func (l Learner) SameIdentity(other Learner) bool {
	return strings.EqualFold(l.FirstName, other.FirstName) &&
		strings.EqualFold(l.LastName, other.LastName) &&
		l.Code == other.Code
}

// NewLearner contains information needed to enroll a single Learner.
type NewLearner struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Code      string `json:"code" validate:"required,len=4"`
}

func (nl *NewLearner) Validate() error {
	nl.FirstName = core.CleanString(nl.FirstName)
	nl.LastName = core.CleanString(nl.LastName)
	nl.Code = core.CleanString(nl.Code)
	return core.Validate.Struct(nl)
}
