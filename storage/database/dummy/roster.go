package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/roster"
)

type rosterRepository struct {
	db *rosterTables
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{db: db.roster}
}

func (repo *rosterRepository) QueryStudents(_ context.Context, classID string) ([]roster.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if !repo.db.classes[classID] {
		return nil, roster.ErrClassNotFound
	}
	students := append(make([]roster.Student, 0, len(repo.db.students[classID])), repo.db.students[classID]...)
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func (repo *rosterRepository) QueryConstraints(_ context.Context, classID string) ([]roster.Constraint, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append(make([]roster.Constraint, 0), repo.db.constraints[classID]...), nil
}

func (repo *rosterRepository) QueryAssessments(_ context.Context, classID string) ([]roster.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append(make([]roster.Assessment, 0), repo.db.assessments[classID]...), nil
}

func (repo *rosterRepository) QueryAssessmentEntries(_ context.Context, classID string) ([]roster.AssessmentEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append(make([]roster.AssessmentEntry, 0), repo.db.entries[classID]...), nil
}
