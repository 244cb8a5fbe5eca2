package grouping

import (
	"sort"

	"github.com/trezcool/darasa/core/roster"
)

// Selection is what a Strategy sees when choosing the next member of a group.
type Selection struct {
	Group []roster.Student
	// Candidates are the pool students that passed the separation filter, in pool order.
	Candidates []roster.Student
	Options    Options
	Profiles   Profiles
}

// Strategy is one rule for choosing the next member of a group.
// Select returns false when the rule does not apply or has no suitable candidate.
type Strategy interface {
	Name() string
	Select(sel *Selection) (roster.Student, bool)
}

// DefaultStrategies are tried in this order; the first one to pick a candidate wins.
func DefaultStrategies() []Strategy {
	return []Strategy{GenderBalance{}, SupportPairing{}, AbilityBalance{}, FillOrder{}}
}

// GenderBalance picks the first candidate whose gender is not yet in the group.
type GenderBalance struct{}

func (GenderBalance) Name() string { return "gender_balance" }

func (GenderBalance) Select(sel *Selection) (roster.Student, bool) {
	if !sel.Options.BalanceGender || len(sel.Group) == 0 {
		return roster.Student{}, false
	}
	used := make(map[string]bool, len(sel.Group))
	for _, m := range sel.Group {
		used[m.NormalizedGender()] = true
	}
	for _, c := range sel.Candidates {
		if !used[c.NormalizedGender()] {
			return c, true
		}
	}
	return roster.Student{}, false
}

// SupportPairing brings a support partner to a group with a student who needs help
// (and no partner yet), or a student who needs help to a group with an idle partner.
type SupportPairing struct{}

func (SupportPairing) Name() string { return "support_pairing" }

func (SupportPairing) Select(sel *Selection) (roster.Student, bool) {
	if !sel.Options.PairSupportPartners || len(sel.Group) == 0 {
		return roster.Student{}, false
	}

	var hasNeedsHelp, hasPartner bool
	for _, m := range sel.Group {
		hasNeedsHelp = hasNeedsHelp || m.NeedsHelp
		hasPartner = hasPartner || sel.Profiles.Get(m.ID).IsSupportPartner
	}

	switch {
	case hasNeedsHelp && !hasPartner:
		for _, c := range sel.Candidates {
			if !c.NeedsHelp && sel.Profiles.Get(c.ID).IsSupportPartner {
				return c, true
			}
		}
	case hasPartner && !hasNeedsHelp:
		for _, c := range sel.Candidates {
			if c.NeedsHelp {
				return c, true
			}
		}
	}
	return roster.Student{}, false
}

// AbilityBalance prefers candidates whose band is least represented in the group,
// then lower ranks, then lower averages (ungraded first).
type AbilityBalance struct{}

func (AbilityBalance) Name() string { return "ability_balance" }

func (AbilityBalance) Select(sel *Selection) (roster.Student, bool) {
	if !sel.Options.BalanceAbility || len(sel.Group) == 0 || len(sel.Candidates) == 0 {
		return roster.Student{}, false
	}

	bandCounts := make(map[Band]int, 4)
	for _, m := range sel.Group {
		bandCounts[sel.Profiles.Get(m.ID).Band]++
	}

	ranked := make([]roster.Student, len(sel.Candidates))
	copy(ranked, sel.Candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := sel.Profiles.Get(ranked[i].ID), sel.Profiles.Get(ranked[j].ID)
		if ci, cj := bandCounts[pi.Band], bandCounts[pj.Band]; ci != cj {
			return ci < cj
		}
		if pi.Rank != pj.Rank {
			return pi.Rank < pj.Rank
		}
		return pi.sortAverage() < pj.sortAverage()
	})
	return ranked[0], true
}

// FillOrder takes the first candidate in pool order.
type FillOrder struct{}

func (FillOrder) Name() string { return "fill_order" }

func (FillOrder) Select(sel *Selection) (roster.Student, bool) {
	if len(sel.Candidates) == 0 {
		return roster.Student{}, false
	}
	return sel.Candidates[0], true
}

// Selector picks the next student to add to a group under construction.
type Selector struct {
	Strategies []Strategy
}

func NewSelector() Selector {
	return Selector{Strategies: DefaultStrategies()}
}

// Pick returns the next student for group out of pool, and the name of the
// strategy that chose them. ok is false when no student of the pool can join the group.
func (s Selector) Pick(
	group, pool []roster.Student,
	constraints ConstraintSet,
	opts Options,
	profiles Profiles,
) (picked roster.Student, strategy string, ok bool) {
	candidates := pool
	if opts.RespectSeparations && len(group) > 0 {
		candidates = make([]roster.Student, 0, len(pool))
		for _, c := range pool {
			if !constraints.SeparatedFromAny(c.ID, group) {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return roster.Student{}, "", false
	}

	sel := &Selection{
		Group:      group,
		Candidates: candidates,
		Options:    opts,
		Profiles:   profiles,
	}
	strategies := s.Strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	for _, st := range strategies {
		if c, ok := st.Select(sel); ok {
			return c, st.Name(), true
		}
	}
	return roster.Student{}, "", false
}
