package grouping

import (
	"testing"

	"github.com/trezcool/darasa/core/roster"
)

func TestSelector_Pick(t *testing.T) {
	f1 := roster.Student{ID: "f1", Gender: "F"}
	f2 := roster.Student{ID: "f2", Gender: " f "}
	m1 := roster.Student{ID: "m1", Gender: "M"}
	helped := roster.Student{ID: "helped", NeedsHelp: true}
	helped2 := roster.Student{ID: "helped2", NeedsHelp: true}
	partner := roster.Student{ID: "partner"}
	plain := roster.Student{ID: "plain"}
	dev := roster.Student{ID: "dev"}
	prof := roster.Student{ID: "prof"}
	adv := roster.Student{ID: "adv"}
	adv2 := roster.Student{ID: "adv2"}

	profiles := Profiles{
		"partner": {StudentID: "partner", Band: BandAdvanced, Rank: 2, IsSupportPartner: true},
		"dev":     {StudentID: "dev", Band: BandDeveloping, Rank: 0},
		"prof":    {StudentID: "prof", Band: BandProficient, Rank: 1},
		"adv":     {StudentID: "adv", Band: BandAdvanced, Rank: 2},
		"adv2":    {StudentID: "adv2", Band: BandAdvanced, Rank: 2},
	}
	separated := BuildConstraintSet(
		[]roster.Student{f1, f2, m1, plain},
		[]roster.Constraint{{StudentA: "f1", StudentB: "m1"}},
	)

	tests := []struct {
		name         string
		group        []roster.Student
		pool         []roster.Student
		constraints  ConstraintSet
		opts         Options
		wantID       string
		wantStrategy string
		wantNone     bool
	}{
		{
			name:         "empty group takes first of pool",
			pool:         []roster.Student{f2, m1},
			opts:         Options{BalanceGender: true, BalanceAbility: true, PairSupportPartners: true},
			wantID:       "f2",
			wantStrategy: "fill_order",
		},
		{
			name:         "gender balance picks first unused gender",
			group:        []roster.Student{f1},
			pool:         []roster.Student{f2, m1},
			opts:         Options{BalanceGender: true},
			wantID:       "m1",
			wantStrategy: "gender_balance",
		},
		{
			name:         "gender balance falls through when every gender is used",
			group:        []roster.Student{f1},
			pool:         []roster.Student{f2},
			opts:         Options{BalanceGender: true},
			wantID:       "f2",
			wantStrategy: "fill_order",
		},
		{
			name:         "separated candidate filtered out",
			group:        []roster.Student{f1},
			pool:         []roster.Student{m1, plain},
			constraints:  separated,
			opts:         Options{BalanceGender: true, RespectSeparations: true},
			wantID:       "plain",
			wantStrategy: "gender_balance",
		},
		{
			name:        "every candidate separated",
			group:       []roster.Student{f1},
			pool:        []roster.Student{m1},
			constraints: separated,
			opts:        Options{RespectSeparations: true},
			wantNone:    true,
		},
		{
			name:         "separations ignored when not respected",
			group:        []roster.Student{f1},
			pool:         []roster.Student{m1},
			constraints:  separated,
			opts:         Options{},
			wantID:       "m1",
			wantStrategy: "fill_order",
		},
		{
			name:         "needs help gets a support partner",
			group:        []roster.Student{helped},
			pool:         []roster.Student{helped2, plain, partner},
			opts:         Options{PairSupportPartners: true},
			wantID:       "partner",
			wantStrategy: "support_pairing",
		},
		{
			name:         "support partner gets a student who needs help",
			group:        []roster.Student{partner},
			pool:         []roster.Student{plain, helped},
			opts:         Options{PairSupportPartners: true},
			wantID:       "helped",
			wantStrategy: "support_pairing",
		},
		{
			name:         "balanced pair falls through to fill order",
			group:        []roster.Student{partner, helped},
			pool:         []roster.Student{plain, helped2},
			opts:         Options{PairSupportPartners: true},
			wantID:       "plain",
			wantStrategy: "fill_order",
		},
		{
			name:         "gender balance wins over support pairing",
			group:        []roster.Student{{ID: "h", Gender: "F", NeedsHelp: true}},
			pool:         []roster.Student{{ID: "partner", Gender: "F"}, m1},
			opts:         Options{BalanceGender: true, PairSupportPartners: true},
			wantID:       "m1",
			wantStrategy: "gender_balance",
		},
		{
			name:         "ability balance prefers missing band",
			group:        []roster.Student{adv},
			pool:         []roster.Student{adv2, prof, dev},
			opts:         Options{BalanceAbility: true},
			wantID:       "dev",
			wantStrategy: "ability_balance",
		},
		{
			name:         "ability balance ranks ungraded with proficient",
			group:        []roster.Student{dev},
			pool:         []roster.Student{adv, plain, prof},
			opts:         Options{BalanceAbility: true},
			wantID:       "plain", // unknown band, rank 1, average -1
			wantStrategy: "ability_balance",
		},
		{
			name:     "empty pool",
			group:    []roster.Student{f1},
			opts:     Options{},
			wantNone: true,
		},
	}
	sel := NewSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, ok := sel.Pick(tt.group, tt.pool, tt.constraints, tt.opts, profiles)
			if tt.wantNone {
				if ok {
					t.Errorf("Pick() = %s, want none", got.ID)
				}
				return
			}
			if !ok {
				t.Fatalf("Pick() = none, want %s", tt.wantID)
			}
			if got.ID != tt.wantID || strategy != tt.wantStrategy {
				t.Errorf("Pick() = %s (%s), want %s (%s)", got.ID, strategy, tt.wantID, tt.wantStrategy)
			}
		})
	}
}

type pickNone struct{}

func (pickNone) Name() string                            { return "none" }
func (pickNone) Select(*Selection) (roster.Student, bool) { return roster.Student{}, false }

func TestSelector_CustomStrategies(t *testing.T) {
	sel := Selector{Strategies: []Strategy{pickNone{}}}
	if _, _, ok := sel.Pick(nil, makeStudents("a"), ConstraintSet{}, Options{}, nil); ok {
		t.Error("Pick() should yield none when no strategy picks")
	}

	sel = Selector{}
	got, strategy, ok := sel.Pick(nil, makeStudents("a"), ConstraintSet{}, Options{}, nil)
	if !ok || got.ID != "a" || strategy != "fill_order" {
		t.Errorf("zero Selector Pick() = %s (%s, %v), want a (fill_order)", got.ID, strategy, ok)
	}
}
