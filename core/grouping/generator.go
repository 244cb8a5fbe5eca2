package grouping

import (
	"math/rand"
	"sort"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

// DefaultAttemptBudget bounds the placement operations (group starts + picks) of a run.
const DefaultAttemptBudget = 200

// Partition is the raw output of a generation run.
type Partition struct {
	Groups [][]roster.Student
	// Unplaced are the students left in the pool when the attempt budget ran out.
	Unplaced []roster.Student
	Attempts int
}

func (p Partition) Placed() int {
	var n int
	for _, g := range p.Groups {
		n += len(g)
	}
	return n
}

// attemptBudget is shared by group starts and candidate picks.
type attemptBudget struct {
	limit int
	used  int
}

// spend consumes one attempt; false when none is left.
func (b *attemptBudget) spend() bool {
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Generator partitions a class roster into groups.
// A Generator holds no per-run state and is safe for concurrent use.
type Generator struct {
	Budget   int
	Selector Selector
	// Shuffle orders the pool when no balancing option dictates an order.
	Shuffle func(students []roster.Student)
	// OnPick, when set, is called after each placement (debugging).
	OnPick func(group int, student roster.Student, strategy string)
}

func NewGenerator(budget int) *Generator {
	if budget <= 0 {
		budget = DefaultAttemptBudget
	}
	return &Generator{
		Budget:   budget,
		Selector: NewSelector(),
		Shuffle:  shuffle,
	}
}

// shuffle is a uniform Fisher-Yates shuffle with a per-call source.
func shuffle(students []roster.Student) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rnd.Shuffle(len(students), func(i, j int) { students[i], students[j] = students[j], students[i] })
}

// Generate splits students into groups of at most opts.GroupSize members.
//
// Groups are filled greedily with the Selector. A group is closed early when no
// remaining student can join it, so groups may be undersized (even singletons).
// When the attempt budget runs out, the remaining students are returned in
// Partition.Unplaced rather than forced into a group.
func (g *Generator) Generate(
	students []roster.Student,
	constraints ConstraintSet,
	opts Options,
	profiles Profiles,
) (Partition, error) {
	if err := opts.check(); err != nil {
		return Partition{}, err
	}
	if len(students) == 0 {
		return Partition{}, core.NewValidationError(ErrEmptyRoster)
	}
	if profiles == nil {
		profiles = Profiles{}
	}

	limit := g.Budget
	if limit <= 0 {
		limit = DefaultAttemptBudget
	}
	budget := &attemptBudget{limit: limit}

	pool := g.orderPool(students, opts, profiles)
	var groups [][]roster.Student
	for len(pool) > 0 && budget.spend() {
		var group []roster.Student
		group, pool = g.fill(len(groups), pool, budget, constraints, opts, profiles)
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return Partition{
		Groups:   groups,
		Unplaced: pool,
		Attempts: budget.used,
	}, nil
}

// fill builds one group out of pool and returns it with what is left of pool.
func (g *Generator) fill(
	index int,
	pool []roster.Student,
	budget *attemptBudget,
	constraints ConstraintSet,
	opts Options,
	profiles Profiles,
) (group, rest []roster.Student) {
	group = make([]roster.Student, 0, opts.GroupSize)
	for len(group) < opts.GroupSize && len(pool) > 0 && budget.spend() {
		picked, strategy, ok := g.Selector.Pick(group, pool, constraints, opts, profiles)
		if !ok {
			break
		}
		group = append(group, picked)
		pool = remove(pool, picked.ID)
		if g.OnPick != nil {
			g.OnPick(index, picked, strategy)
		}
	}
	return group, pool
}

func (g *Generator) orderPool(students []roster.Student, opts Options, profiles Profiles) []roster.Student {
	pool := make([]roster.Student, len(students))
	copy(pool, students)

	switch {
	case opts.BalanceAbility:
		sort.SliceStable(pool, func(i, j int) bool {
			pi, pj := profiles.Get(pool[i].ID), profiles.Get(pool[j].ID)
			if pi.Rank != pj.Rank {
				return pi.Rank < pj.Rank
			}
			return pi.sortAverage() < pj.sortAverage()
		})
	case opts.PairSupportPartners:
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].NeedsHelp && !pool[j].NeedsHelp
		})
	default:
		shuffleFn := g.Shuffle
		if shuffleFn == nil {
			shuffleFn = shuffle
		}
		shuffleFn(pool)
	}
	return pool
}

// remove drops the first student with id from pool, keeping the order of the rest.
func remove(pool []roster.Student, id string) []roster.Student {
	for i, s := range pool {
		if s.ID == id {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
