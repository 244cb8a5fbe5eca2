package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

var groupOrdering = []core.DBOrdering{
	{Field: "created_at", Ascending: true},
	{Field: "sequence", Ascending: true},
}

func orderBy(ords []core.DBOrdering) string {
	if len(ords) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ords))
	for _, o := range ords {
		parts = append(parts, o.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

type groupRepository struct {
	db core.DB
}

var _ grouping.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db core.DB) *groupRepository {
	return &groupRepository{db: db}
}

type memberRow struct {
	GroupID  string `db:"group_id"`
	Position int    `db:"position"`
	roster.Student
}

// SaveGroups runs the clear and the inserts in a single transaction.
func (repo groupRepository) SaveGroups(ctx context.Context, classID string, groups []grouping.Group, clearExisting bool) (saved []grouping.Group, err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if clearExisting {
		if _, err = deleteGroups(ctx, tx, classID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	saved = make([]grouping.Group, 0, len(groups))
	for _, g := range groups {
		g.ID = uuid.New().String()
		g.ClassID = classID
		if g.CreatedAt.IsZero() {
			g.CreatedAt = now
		}

		const insertGroup = `
			INSERT INTO groups (id, class_id, name, sequence, created_at)
			VALUES (:id, :class_id, :name, :sequence, :created_at)`
		if _, err = tx.NamedExecContext(ctx, insertGroup, g); err != nil {
			return nil, errors.Wrapf(err, "inserting group %q", g.Name)
		}

		for pos, m := range g.Members {
			const insertMember = `INSERT INTO group_members (group_id, student_id, position) VALUES ($1, $2, $3)`
			if _, err = tx.ExecContext(ctx, insertMember, g.ID, m.ID, pos); err != nil {
				return nil, errors.Wrapf(err, "inserting member %s of group %q", m.ID, g.Name)
			}
		}
		saved = append(saved, g)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing groups")
	}
	return saved, nil
}

func (repo groupRepository) QueryGroups(ctx context.Context, classID string) ([]grouping.Group, error) {
	groups := make([]grouping.Group, 0)
	q := `SELECT id, class_id, name, sequence, created_at FROM groups WHERE class_id = $1` + orderBy(groupOrdering)
	if err := repo.db.SelectContext(ctx, &groups, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting groups")
	}
	if len(groups) == 0 {
		return groups, nil
	}

	index := make(map[string]int, len(groups))
	ids := make([]string, 0, len(groups))
	for i, g := range groups {
		index[g.ID] = i
		ids = append(ids, g.ID)
		groups[i].Members = make([]roster.Student, 0)
	}

	q, args, err := sqlx.In(`
		SELECT gm.group_id, gm.position,
			s.id, s.class_id, s.name, s.gender, s.needs_help, s.separation_list
		FROM group_members gm
		JOIN students s ON s.id = gm.student_id
		WHERE gm.group_id IN (?)
		ORDER BY gm.group_id, gm.position`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building members query")
	}

	var rows []memberRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting group members")
	}
	for _, r := range rows {
		i := index[r.GroupID]
		groups[i].Members = append(groups[i].Members, r.Student)
	}
	return groups, nil
}

func (repo groupRepository) DeleteGroups(ctx context.Context, classID string) (int, error) {
	return deleteGroups(ctx, repo.db, classID)
}

// deleteGroups removes the groups of a class; memberships go with them (ON DELETE CASCADE).
func deleteGroups(ctx context.Context, exec core.DBExecutor, classID string) (int, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM groups WHERE class_id = $1`, classID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting groups")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted groups")
	}
	return int(n), nil
}
