package roster

import (
	"context"

	"github.com/pkg/errors"
)

var ErrClassNotFound = errors.New("class not found")

// Repository gives read access to a class roster and its grading history.
type Repository interface {
	// QueryStudents returns the students of a class ordered by name.
	QueryStudents(ctx context.Context, classID string) ([]Student, error)
	QueryConstraints(ctx context.Context, classID string) ([]Constraint, error)
	QueryAssessments(ctx context.Context, classID string) ([]Assessment, error)
	// QueryAssessmentEntries returns every entry of every assessment of the class.
	QueryAssessmentEntries(ctx context.Context, classID string) ([]AssessmentEntry, error)
}

// Snapshot is everything the grouping engine reads about one class.
type Snapshot struct {
	ClassID     string
	Students    []Student
	Constraints []Constraint
	Assessments []Assessment
	Entries     []AssessmentEntry
}

// LoadSnapshot reads the roster, constraints and grading history of a class.
func LoadSnapshot(ctx context.Context, repo Repository, classID string) (Snapshot, error) {
	snap := Snapshot{ClassID: classID}
	var err error
	if snap.Students, err = repo.QueryStudents(ctx, classID); err != nil {
		return Snapshot{}, errors.Wrap(err, "querying students")
	}
	if snap.Constraints, err = repo.QueryConstraints(ctx, classID); err != nil {
		return Snapshot{}, errors.Wrap(err, "querying constraints")
	}
	if snap.Assessments, err = repo.QueryAssessments(ctx, classID); err != nil {
		return Snapshot{}, errors.Wrap(err, "querying assessments")
	}
	if snap.Entries, err = repo.QueryAssessmentEntries(ctx, classID); err != nil {
		return Snapshot{}, errors.Wrap(err, "querying assessment entries")
	}
	return snap, nil
}
