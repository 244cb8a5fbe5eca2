package grouping

import (
	"github.com/trezcool/darasa/core/roster"
)

func makeStudents(ids ...string) []roster.Student {
	students := make([]roster.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, roster.Student{ID: id, Name: id})
	}
	return students
}

func noShuffle([]roster.Student) {}

func memberIDs(groups [][]roster.Student) [][]string {
	ids := make([][]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, roster.IDs(g))
	}
	return ids
}
