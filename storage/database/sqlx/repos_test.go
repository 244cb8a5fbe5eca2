package sqlxrepos

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/storage/database"
	testutil "github.com/trezcool/darasa/tests"
)

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "", orderBy(nil))
	assert.Equal(t, " ORDER BY created_at ASC, sequence ASC", orderBy(groupOrdering))
	assert.Equal(t, " ORDER BY name DESC", orderBy([]core.DBOrdering{{Field: "name"}}))
}

// openTestDB connects to the database described by the TEST environment;
// set DARASA_DB_TESTS=1 to run against a live Postgres.
func openTestDB(t *testing.T) *sqlx.DB {
	if os.Getenv("DARASA_DB_TESTS") == "" {
		t.Skip("DARASA_DB_TESTS not set")
	}
	conf := testutil.NewConfig()
	require.NoError(t, database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedClass(t *testing.T, db *sqlx.DB) (string, []roster.Student) {
	ctx := context.Background()
	classID := uuid.New().String()
	_, err := db.ExecContext(ctx, `INSERT INTO classes (id, name) VALUES ($1, $2)`, classID, "Form 2B")
	require.NoError(t, err)

	students := make([]roster.Student, 0, 4)
	for _, s := range testutil.Students(4) {
		s.ID = classID[:8] + "-" + s.ID
		s.ClassID = classID
		_, err = db.NamedExecContext(ctx, `
			INSERT INTO students (id, class_id, name, gender, needs_help, separation_list)
			VALUES (:id, :class_id, :name, :gender, :needs_help, :separation_list)`, s)
		require.NoError(t, err)
		students = append(students, s)
	}
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM classes WHERE id = $1`, classID) })
	return classID, students
}

func TestRosterRepository(t *testing.T) {
	db := openTestDB(t)
	classID, students := seedClass(t, db)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	got, err := repo.QueryStudents(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, roster.IDs(students), roster.IDs(got))

	_, err = repo.QueryStudents(ctx, uuid.New().String())
	assert.Equal(t, roster.ErrClassNotFound, err)

	snap, err := roster.LoadSnapshot(ctx, repo, classID)
	require.NoError(t, err)
	assert.Empty(t, snap.Constraints)
	assert.Empty(t, snap.Entries)
}

func TestGroupRepository(t *testing.T) {
	db := openTestDB(t)
	classID, students := seedClass(t, db)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	run := []grouping.Group{
		{Name: "Group 1", Sequence: 1, Members: []roster.Student{students[2], students[0]}},
		{Name: "Group 2", Sequence: 2, Members: []roster.Student{students[1], students[3]}},
	}

	saved, err := repo.SaveGroups(ctx, classID, run, false)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	groups, err := repo.QueryGroups(ctx, classID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, saved[0].ID, groups[0].ID)
	assert.Equal(t, roster.IDs(run[0].Members), roster.IDs(groups[0].Members))

	_, err = repo.SaveGroups(ctx, classID, run[:1], true)
	require.NoError(t, err)
	groups, err = repo.QueryGroups(ctx, classID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	n, err := repo.DeleteGroups(ctx, classID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
