package grouping

import (
	"sort"

	"github.com/trezcool/darasa/core/roster"
)

// PairKey is an unordered pair of student IDs, stored sorted so that
// (a, b) and (b, a) are the same key.
type PairKey struct {
	A string
	B string
}

func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

func (k PairKey) String() string { return k.A + "|" + k.B }

// ConstraintSet holds every pair of students that must never share a group.
type ConstraintSet struct {
	pairs map[PairKey]struct{}
}

// BuildConstraintSet merges explicit constraint records with each student's
// free-text separation list. Self pairs and pairs referencing a student that
// is not on the roster are dropped without error.
func BuildConstraintSet(students []roster.Student, explicit []roster.Constraint) ConstraintSet {
	onRoster := make(map[string]bool, len(students))
	for _, s := range students {
		onRoster[s.ID] = true
	}

	cs := ConstraintSet{pairs: make(map[PairKey]struct{})}
	add := func(a, b string) {
		if a == b || !onRoster[a] || !onRoster[b] {
			return
		}
		cs.pairs[NewPairKey(a, b)] = struct{}{}
	}

	for _, c := range explicit {
		add(c.StudentA, c.StudentB)
	}
	for _, s := range students {
		for _, other := range s.SeparatedIDs() {
			add(s.ID, other)
		}
	}
	return cs
}

// Separated reports whether students a and b must be kept apart.
func (cs ConstraintSet) Separated(a, b string) bool {
	if cs.pairs == nil {
		return false
	}
	_, ok := cs.pairs[NewPairKey(a, b)]
	return ok
}

// SeparatedFromAny reports whether student id must be kept apart from any member of group.
func (cs ConstraintSet) SeparatedFromAny(id string, group []roster.Student) bool {
	for _, m := range group {
		if cs.Separated(id, m.ID) {
			return true
		}
	}
	return false
}

func (cs ConstraintSet) Len() int { return len(cs.pairs) }

// Pairs returns all pairs, sorted.
func (cs ConstraintSet) Pairs() []PairKey {
	pairs := make([]PairKey, 0, len(cs.pairs))
	for k := range cs.pairs {
		pairs = append(pairs, k)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
