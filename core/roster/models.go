package roster

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

type Student struct {
	ID        string `json:"id" db:"id"`
	ClassID   string `json:"class_id" db:"class_id"`
	Name      string `json:"name" db:"name"`
	Gender    string `json:"gender" db:"gender"`
	NeedsHelp bool   `json:"needs_help" db:"needs_help"`
	// SeparationList is the raw, teacher-authored, comma-separated list of
	// student IDs this student must not be grouped with.
	SeparationList string `json:"separation_list" db:"separation_list"`
}

// NormalizedGender returns the gender used for comparisons (trimmed, lower-cased).
func (s Student) NormalizedGender() string {
	return core.CleanString(s.Gender, true /* lower */)
}

// SeparatedIDs parses SeparationList. Blank fragments are dropped;
// unknown IDs are kept and left for the caller to filter.
func (s Student) SeparatedIDs() []string {
	if strings.TrimSpace(s.SeparationList) == "" {
		return nil
	}
	parts := strings.Split(s.SeparationList, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := core.CleanString(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Constraint is an explicit "keep apart" record between two students of a class.
type Constraint struct {
	ID       string `json:"id" db:"id"`
	ClassID  string `json:"class_id" db:"class_id"`
	StudentA string `json:"student_a" db:"student_a"`
	StudentB string `json:"student_b" db:"student_b"`
}

type Assessment struct {
	ID       string  `json:"id" db:"id"`
	ClassID  string  `json:"class_id" db:"class_id"`
	Title    string  `json:"title" db:"title"`
	MaxScore float64 `json:"max_score" db:"max_score"`
}

// AssessmentEntry is one student's graded (or not yet graded) result on an Assessment.
type AssessmentEntry struct {
	ID           string       `json:"id" db:"id"`
	AssessmentID string       `json:"assessment_id" db:"assessment_id"`
	StudentID    string       `json:"student_id" db:"student_id"`
	Score        null.Float64 `json:"score" db:"score"`
}

// IDs returns the IDs of students, in order.
func IDs(students []Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}
