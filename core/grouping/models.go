package grouping

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/roster"
)

var (
	// errors
	ErrEmptyRoster       = errors.New("class has no students")
	ErrGroupSizeTooSmall = errors.New("group size must be at least 2")
	ErrGroupsNotFound    = errors.New("class has no groups")
)

type (
	Group struct {
		ID        string           `json:"id" db:"id"`
		ClassID   string           `json:"class_id" db:"class_id"`
		Name      string           `json:"name" db:"name"`
		Sequence  int              `json:"sequence" db:"sequence"`
		Members   []roster.Student `json:"members" db:"-"`
		CreatedAt time.Time        `json:"created_at" db:"created_at"`
	}

	Result struct {
		ClassID    string           `json:"class_id"`
		Groups     []Group          `json:"groups"`
		Unplaced   []roster.Student `json:"unplaced"`
		Attempts   int              `json:"attempts"`
		Placed     int              `json:"placed"`
		RosterSize int              `json:"roster_size"`
		Persisted  bool             `json:"persisted"`
	}
)

// GroupName is the display name of the seq-th group of a run.
func GroupName(prefix string, seq int) string {
	return fmt.Sprintf("%s %d", prefix, seq)
}

// Label turns a partition into named groups, numbered from 1 in generation order.
func (p Partition) Label(classID, prefix string, now time.Time) []Group {
	groups := make([]Group, 0, len(p.Groups))
	for i, members := range p.Groups {
		groups = append(groups, Group{
			ClassID:   classID,
			Name:      GroupName(prefix, i+1),
			Sequence:  i + 1,
			Members:   members,
			CreatedAt: now,
		})
	}
	return groups
}

func (p Partition) Result(classID, prefix string, now time.Time) Result {
	unplaced := p.Unplaced
	if unplaced == nil {
		unplaced = []roster.Student{}
	}
	placed := p.Placed()
	return Result{
		ClassID:    classID,
		Groups:     p.Label(classID, prefix, now),
		Unplaced:   unplaced,
		Attempts:   p.Attempts,
		Placed:     placed,
		RosterSize: placed + len(p.Unplaced),
	}
}

// Complete reports whether every student of the roster was placed.
func (r Result) Complete() bool {
	return r.Placed == r.RosterSize
}

// Undersized returns the groups with fewer than size members.
func (r Result) Undersized(size int) []Group {
	var groups []Group
	for _, g := range r.Groups {
		if len(g.Members) < size {
			groups = append(groups, g)
		}
	}
	return groups
}
