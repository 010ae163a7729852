package files

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ecank/nebula/internal/studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE files (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  url TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  folder_id TEXT NOT NULL DEFAULT '',
  owner_id TEXT NOT NULL DEFAULT '',
  is_public INTEGER NOT NULL DEFAULT 0,
  metadata TEXT NOT NULL DEFAULT '{}'
);
`)
	require.NoError(t, err)

	return db
}

func TestPut_InsertAndReplace(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	f := &models.FileItem{
		ID:        "f1",
		Name:      "cat.png",
		Type:      models.FileTypeImage,
		URL:       "data:image/png;base64,AAAA",
		CreatedAt: 100,
		Metadata:  map[string]any{"prompt": "a cat"},
	}
	require.NoError(t, r.Put(ctx, f))

	// put again with the complete, updated entity
	f.URL = "https://cdn.example.com/nebula-assets/images/f1_cat.png"
	f.Metadata = f.WithRecordID(9)
	require.NoError(t, r.Put(ctx, f))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.URL, got[0].URL)
	assert.Equal(t, int64(9), got[0].RecordID())
	assert.Equal(t, "a cat", got[0].Metadata["prompt"])
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, f := range []models.FileItem{
		{ID: "old", Name: "a", Type: models.FileTypeImage, URL: "u", CreatedAt: 1},
		{ID: "new", Name: "b", Type: models.FileTypeVideo, URL: "u", CreatedAt: 2},
	} {
		require.NoError(t, r.Put(ctx, &f))
	}

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
}

func TestGetByFolder_UsesFolderIndex(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, f := range []models.FileItem{
		{ID: "root1", Name: "a", Type: models.FileTypeImage, URL: "u", CreatedAt: 1},
		{ID: "in1", Name: "b", Type: models.FileTypeImage, URL: "u", CreatedAt: 2, FolderID: "fold"},
	} {
		require.NoError(t, r.Put(ctx, &f))
	}

	inFolder, err := r.GetByFolder(ctx, "fold")
	require.NoError(t, err)
	require.Len(t, inFolder, 1)
	assert.Equal(t, "in1", inFolder[0].ID)

	root, err := r.GetByFolder(ctx, "")
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, "root1", root[0].ID)
}

func TestDeleteByIDs_IgnoresMissing(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &models.FileItem{
		ID: "keep", Name: "k", Type: models.FileTypeImage, URL: "u", CreatedAt: 1,
	}))
	require.NoError(t, r.Put(ctx, &models.FileItem{
		ID: "gone", Name: "g", Type: models.FileTypeImage, URL: "u", CreatedAt: 2,
	}))

	require.NoError(t, r.DeleteByIDs(ctx, []string{"gone", "never-existed"}))
	require.NoError(t, r.DeleteByIDs(ctx, nil))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
}
