package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hookify.db")
	db, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://localhost/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database scheme")
}

func TestMigrateUp_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	ran, err := MigrateUp(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_snapshots.sql"}, ran)

	ran, err = MigrateUp(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, ran)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM snapshots"))
	assert.Equal(t, 0, count)
}

func TestMigrateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	statuses, err := MigrateStatus(ctx, db)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Applied)
	assert.NotEmpty(t, statuses[0].Checksum)

	_, err = MigrateUp(ctx, db)
	require.NoError(t, err)

	statuses, err = MigrateStatus(ctx, db)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Applied)
	assert.NotEmpty(t, statuses[0].AppliedAt)
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := MigrateUp(ctx, db)
	require.NoError(t, err)

	_, err = db.Exec("UPDATE migrations SET checksum = 'tampered'")
	require.NoError(t, err)

	_, err = MigrateUp(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestParseMigrationFiles_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_b.sql":  {Data: []byte("SELECT 2;")},
		"m/001_a.sql":  {Data: []byte("SELECT 1;")},
		"m/README.txt": {Data: []byte("ignored")},
	}

	got, err := parseMigrationFiles(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001_a.sql", got[0].ID)
	assert.Equal(t, "002_b.sql", got[1].ID)
}

func TestSplitStatements(t *testing.T) {
	script := `-- leading comment
CREATE TABLE a (x TEXT);

-- another
CREATE INDEX i ON a (x);
`
	assert.Equal(t, []string{
		"CREATE TABLE a (x TEXT)",
		"CREATE INDEX i ON a (x)",
	}, splitStatements(script))
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := MigrateUp(ctx, db)
	require.NoError(t, err)

	q, err := LoadQueries(db)
	require.NoError(t, err)

	_, err = q.Exec(ctx, "insert-snapshot", "s1", "/p/.claude", "", "abc", 0, "[]", "2026-01-01T00:00:00Z")
	require.NoError(t, err)

	var id string
	require.NoError(t, db.Get(&id, "SELECT snapshot_id FROM snapshots"))
	assert.Equal(t, "s1", id)

	var ids []string
	err = q.Select(ctx, "no-such-query", &ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query not found")
}
