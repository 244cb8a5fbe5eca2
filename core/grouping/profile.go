package grouping

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/roster"
)

// Band is a student's performance band relative to their classmates.
type Band string

const (
	BandDeveloping Band = "developing"
	BandProficient Band = "proficient"
	BandAdvanced   Band = "advanced"
	BandUnknown    Band = "unknown"
)

// Rank orders bands: developing=0, proficient/unknown=1, advanced=2.
func (b Band) Rank() int {
	switch b {
	case BandDeveloping:
		return 0
	case BandAdvanced:
		return 2
	default:
		return 1
	}
}

const (
	lowerTertile = 0.33
	upperTertile = 0.66

	// supportPartnerMinAverage is the average percent from which a student
	// who does not need help can support one who does.
	supportPartnerMinAverage = 75
)

type AbilityProfile struct {
	StudentID        string       `json:"student_id"`
	Average          null.Float64 `json:"average_percent"` // invalid when ungraded
	Band             Band         `json:"band"`
	Rank             int          `json:"rank"`
	IsSupportPartner bool         `json:"is_support_partner"`
}

// sortAverage is the average used for ordering; ungraded students sort first.
func (p AbilityProfile) sortAverage() float64 {
	if p.Average.Valid {
		return p.Average.Float64
	}
	return -1
}

// Profiles maps student IDs to their AbilityProfile.
type Profiles map[string]AbilityProfile

// Get returns the profile of a student, defaulting to an unknown band.
func (p Profiles) Get(studentID string) AbilityProfile {
	if prof, ok := p[studentID]; ok {
		return prof
	}
	return AbilityProfile{StudentID: studentID, Band: BandUnknown, Rank: BandUnknown.Rank()}
}

// BuildAbilityProfiles derives each student's performance band from the
// graded assessment entries of their class. It is a pure function of its inputs.
func BuildAbilityProfiles(assessments []roster.Assessment, entries []roster.AssessmentEntry, students []roster.Student) Profiles {
	maxScores := make(map[string]float64, len(assessments))
	for _, a := range assessments {
		maxScores[a.ID] = a.MaxScore
	}

	onRoster := make(map[string]bool, len(students))
	for _, s := range students {
		onRoster[s.ID] = true
	}

	percents := make(map[string][]float64, len(students))
	for _, e := range entries {
		if !e.Score.Valid || !onRoster[e.StudentID] {
			continue
		}
		maxScore, ok := maxScores[e.AssessmentID]
		if !ok || maxScore == 0 {
			continue
		}
		pct := e.Score.Float64 / maxScore * 100
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			continue
		}
		percents[e.StudentID] = append(percents[e.StudentID], pct)
	}

	averages := make(map[string]float64, len(percents))
	sorted := make([]float64, 0, len(percents))
	for _, s := range students {
		pcts, ok := percents[s.ID]
		if !ok {
			continue
		}
		if _, seen := averages[s.ID]; seen {
			continue
		}
		avg, err := stats.Mean(pcts)
		if err != nil { // only on empty input
			continue
		}
		averages[s.ID] = avg
		sorted = append(sorted, avg)
	}
	sort.Float64s(sorted)

	var lower, upper float64
	hasThresholds := len(sorted) > 0
	if hasThresholds {
		n := float64(len(sorted) - 1)
		lower = sorted[int(math.Floor(n*lowerTertile))]
		upper = sorted[int(math.Floor(n*upperTertile))]
	}

	profiles := make(Profiles, len(students))
	for _, s := range students {
		prof := AbilityProfile{StudentID: s.ID}
		avg, graded := averages[s.ID]
		switch {
		case !graded:
			prof.Band = BandUnknown
		case !hasThresholds:
			prof.Band = BandProficient
		case avg <= lower:
			prof.Band = BandDeveloping
		case avg >= upper:
			prof.Band = BandAdvanced
		default:
			prof.Band = BandProficient
		}
		if graded {
			prof.Average = null.Float64From(avg)
		}
		prof.Rank = prof.Band.Rank()
		prof.IsSupportPartner = !s.NeedsHelp &&
			(prof.Band == BandAdvanced || (graded && avg >= supportPartnerMinAverage))
		profiles[s.ID] = prof
	}
	return profiles
}
