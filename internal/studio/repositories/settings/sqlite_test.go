package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAppSettings, []byte(`{"theme":"dark"}`)))

	v, err := r.Get(ctx, KeyAppSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(v))

	// overwrite
	require.NoError(t, r.Set(ctx, KeyAppSettings, []byte(`{"theme":"light"}`)))
	v, err = r.Get(ctx, KeyAppSettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(v))
}

func TestGetMissingReturnsNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	v, err := r.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDeleteAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeySessionUser, []byte(`{"email":"a@b.c"}`)))
	require.NoError(t, r.Set(ctx, KeyActors, []byte(`[]`)))

	require.NoError(t, r.Delete(ctx, KeySessionUser))
	v, err := r.Get(ctx, KeySessionUser)
	require.NoError(t, err)
	assert.Nil(t, v)

	// deleting an absent key is fine
	require.NoError(t, r.Delete(ctx, KeySessionUser))

	require.NoError(t, r.Clear(ctx))
	v, err = r.Get(ctx, KeyActors)
	require.NoError(t, err)
	assert.Nil(t, v)
}
