package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

type (
	// DB is an in-memory stand-in for the application database, used by tests and local runs.
	DB struct {
		roster *rosterTables
		group  *groupTable
	}

	rosterTables struct {
		sync.RWMutex
		classes     map[string]bool
		students    map[string][]roster.Student
		constraints map[string][]roster.Constraint
		assessments map[string][]roster.Assessment
		entries     map[string][]roster.AssessmentEntry // by class
	}

	groupTable struct {
		sync.RWMutex
		table map[string][]grouping.Group // by class, in insertion order
		failNext error
	}
)

func Open() (*DB, error) {
	db := &DB{
		roster: &rosterTables{
			classes:     make(map[string]bool),
			students:    make(map[string][]roster.Student),
			constraints: make(map[string][]roster.Constraint),
			assessments: make(map[string][]roster.Assessment),
			entries:     make(map[string][]roster.AssessmentEntry),
		},
		group: &groupTable{table: make(map[string][]grouping.Group)},
	}
	return db, nil
}

// Class is everything a test needs to seed one class.
type Class struct {
	ID          string
	Students    []roster.Student
	Constraints []roster.Constraint
	Assessments []roster.Assessment
	Entries     []roster.AssessmentEntry
}

// AddClass stores (or replaces) a class and its roster.
func (db *DB) AddClass(c Class) {
	t := db.roster
	t.Lock()
	defer t.Unlock()

	students := make([]roster.Student, 0, len(c.Students))
	for _, s := range c.Students {
		s.ClassID = c.ID
		students = append(students, s)
	}
	t.classes[c.ID] = true
	t.students[c.ID] = students
	t.constraints[c.ID] = append([]roster.Constraint(nil), c.Constraints...)
	t.assessments[c.ID] = append([]roster.Assessment(nil), c.Assessments...)
	t.entries[c.ID] = append([]roster.AssessmentEntry(nil), c.Entries...)
}

// FailNextWrite makes the next group write return err.
func (db *DB) FailNextWrite(err error) {
	db.group.Lock()
	db.group.failNext = err
	db.group.Unlock()
}
