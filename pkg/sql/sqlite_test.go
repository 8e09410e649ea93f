package lsql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestingInstance(t *testing.T) *Instance {
	cfg, err := NewTestingConfig(t)
	require.NoError(t, err)
	db, err := NewInstance(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSqliteInitialize(t *testing.T) {
	db := newTestingInstance(t)
	_, err := db.ExecContext(context.Background(), "create table t(i);")
	assert.Nil(t, err)
	assert.Nil(t, db.Ping(context.Background()))
	assert.Equal(t, EngineSqlite, db.GetDatabaseEngine())
}

func TestInsertReturningId(t *testing.T) {
	db := newTestingInstance(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)")
	require.NoError(t, err)

	first, err := db.InsertReturningId(ctx, "INSERT INTO items (name) VALUES (?)", "a")
	assert.NoError(t, err)
	second, err := db.InsertReturningId(ctx, "INSERT INTO items (name) VALUES (?)", "b")
	assert.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := newTestingInstance(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.Transaction(ctx, func(ctx context.Context, tx *Tx) error {
		if _, err := tx.InsertReturningId(ctx, "INSERT INTO items (name) VALUES (?)", "a"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	assert.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestTransactionCommits(t *testing.T) {
	db := newTestingInstance(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)")
	require.NoError(t, err)

	err = db.Transaction(ctx, func(ctx context.Context, tx *Tx) error {
		for _, name := range []string{"a", "b", "c"} {
			if _, err := tx.ExecContext(ctx, "INSERT INTO items (name) VALUES (?)", name); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)

	rows, err := db.QueryContext(ctx, "SELECT name FROM items WHERE name IN (?) ORDER BY name", []string{"a", "c"})
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestTransactionContextGuards(t *testing.T) {
	db := newTestingInstance(t)
	ctx := context.Background()

	err := db.Transaction(ctx, func(txCtx context.Context, tx *Tx) error {
		assert.ErrorIs(t, db.Transaction(txCtx, func(context.Context, *Tx) error { return nil }), ErrNestedTransaction)
		_, err := db.ExecContext(txCtx, "SELECT 1")
		assert.ErrorIs(t, err, ErrTransactionContext)
		_, err = tx.ExecContext(ctx, "SELECT 1")
		assert.ErrorIs(t, err, ErrNoTransactionContext)
		return nil
	})
	assert.NoError(t, err)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := newTestingInstance(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE parent (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent(id) ON DELETE CASCADE)")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO child (parent_id) VALUES (?)", 42)
	assert.Error(t, err)
}

func TestConfigAddresses(t *testing.T) {
	cfg := &Config{Engine: "SQLITE", Address: "/tmp/x.db"}
	driver, err := cfg.DriverName()
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", driver)
	assert.True(t, strings.HasPrefix(cfg.FullAddress(), "/tmp/x.db?"))
	assert.Contains(t, cfg.FullAddress(), "foreign_keys%281%29")

	cfg = &Config{Engine: EngineSqlite3}
	assert.True(t, strings.HasPrefix(cfg.FullAddress(), defaultSqliteAddress+"?"))
	assert.Contains(t, cfg.FullAddress(), "_foreign_keys=1")

	cfg = &Config{
		Engine:        EnginePostgres,
		Address:       "db:5432",
		DatabaseName:  "experiments",
		Options:       "sslmode=disable",
		ConfigSecrets: ConfigSecrets{Username: "lab", Password: "p@ss"},
	}
	driver, err = cfg.DriverName()
	assert.NoError(t, err)
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://lab:p%40ss@db:5432/experiments?sslmode=disable", cfg.FullAddress())

	cfg = &Config{Engine: "oracle"}
	_, err = cfg.DriverName()
	assert.ErrorIs(t, err, ErrDatabaseEngineNotSupported)
}
