package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

type rosterRepository struct {
	exec core.DBExecutor
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(exec core.DBExecutor) *rosterRepository {
	return &rosterRepository{exec: exec}
}

func (repo rosterRepository) classExists(ctx context.Context, classID string) error {
	var found bool
	err := repo.exec.GetContext(ctx, &found, `SELECT true FROM classes WHERE id = $1`, classID)
	if err == sql.ErrNoRows {
		return roster.ErrClassNotFound
	}
	return errors.Wrap(err, "checking class")
}

func (repo rosterRepository) QueryStudents(ctx context.Context, classID string) ([]roster.Student, error) {
	students := make([]roster.Student, 0)
	const q = `
		SELECT id, class_id, name, gender, needs_help, separation_list
		FROM students
		WHERE class_id = $1
		ORDER BY name, id`
	if err := repo.exec.SelectContext(ctx, &students, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	if len(students) == 0 {
		if err := repo.classExists(ctx, classID); err != nil {
			return nil, err
		}
	}
	return students, nil
}

func (repo rosterRepository) QueryConstraints(ctx context.Context, classID string) ([]roster.Constraint, error) {
	constraints := make([]roster.Constraint, 0)
	const q = `
		SELECT id, class_id, student_a, student_b
		FROM constraints
		WHERE class_id = $1
		ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &constraints, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting constraints")
	}
	return constraints, nil
}

func (repo rosterRepository) QueryAssessments(ctx context.Context, classID string) ([]roster.Assessment, error) {
	assessments := make([]roster.Assessment, 0)
	const q = `
		SELECT id, class_id, title, max_score
		FROM assessments
		WHERE class_id = $1
		ORDER BY id`
	if err := repo.exec.SelectContext(ctx, &assessments, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting assessments")
	}
	return assessments, nil
}

func (repo rosterRepository) QueryAssessmentEntries(ctx context.Context, classID string) ([]roster.AssessmentEntry, error) {
	entries := make([]roster.AssessmentEntry, 0)
	const q = `
		SELECT e.id, e.assessment_id, e.student_id, e.score
		FROM assessment_entries e
		JOIN assessments a ON a.id = e.assessment_id
		WHERE a.class_id = $1
		ORDER BY e.assessment_id, e.student_id`
	if err := repo.exec.SelectContext(ctx, &entries, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting assessment entries")
	}
	return entries, nil
}
