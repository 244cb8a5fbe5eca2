package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

type groupRepository struct {
	db *groupTable
}

var _ grouping.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) *groupRepository {
	return &groupRepository{db: db.group}
}

func (repo *groupRepository) takeFailure() error {
	err := repo.db.failNext
	repo.db.failNext = nil
	return err
}

func copyGroup(g grouping.Group) grouping.Group {
	g.Members = append(make([]roster.Student, 0, len(g.Members)), g.Members...)
	return g
}

func (repo *groupRepository) SaveGroups(_ context.Context, classID string, groups []grouping.Group, clearExisting bool) ([]grouping.Group, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.takeFailure(); err != nil {
		return nil, err
	}

	stored := repo.db.table[classID]
	if clearExisting {
		stored = nil
	}

	now := time.Now().UTC()
	saved := make([]grouping.Group, 0, len(groups))
	for _, g := range groups {
		g = copyGroup(g)
		g.ID = uuid.New().String()
		g.ClassID = classID
		if g.CreatedAt.IsZero() {
			g.CreatedAt = now
		}
		stored = append(stored, g)
		saved = append(saved, copyGroup(g))
	}
	repo.db.table[classID] = stored
	return saved, nil
}

func (repo *groupRepository) QueryGroups(_ context.Context, classID string) ([]grouping.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	groups := make([]grouping.Group, 0, len(repo.db.table[classID]))
	for _, g := range repo.db.table[classID] {
		groups = append(groups, copyGroup(g))
	}
	return groups, nil
}

func (repo *groupRepository) DeleteGroups(_ context.Context, classID string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.takeFailure(); err != nil {
		return 0, err
	}
	n := len(repo.db.table[classID])
	delete(repo.db.table, classID)
	return n, nil
}
