package files

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecank/nebula/internal/dbx"
	"github.com/ecank/nebula/internal/studio/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, f *models.FileItem) error {
	meta, err := json.Marshal(f.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `INSERT INTO files (id, name, type, url, created_at, folder_id, owner_id, is_public, metadata)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				type = excluded.type,
				url = excluded.url,
				created_at = excluded.created_at,
				folder_id = excluded.folder_id,
				owner_id = excluded.owner_id,
				is_public = excluded.is_public,
				metadata = excluded.metadata
	`
	_, err = r.db.ExecContext(ctx, query,
		f.ID, f.Name, string(f.Type), f.URL, f.CreatedAt, f.FolderID, f.OwnerID, f.IsPublic, string(meta))
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.FileItem, error) {
	query := `select id, name, type, url, created_at, folder_id, owner_id, is_public, metadata
			from files order by created_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *SQLiteRepository) GetByFolder(ctx context.Context, folderID string) ([]models.FileItem, error) {
	query := `select id, name, type, url, created_at, folder_id, owner_id, is_public, metadata
			from files where folder_id=? order by created_at desc`
	rows, err := r.db.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files by folder: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *SQLiteRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	// Best effort: missing ids simply affect zero rows.
	_, err := r.db.ExecContext(ctx, `delete from files where id in (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFiles(rows rowScanner) ([]models.FileItem, error) {
	var result []models.FileItem
	for rows.Next() {
		var item models.FileItem
		var typ, meta string
		if err := rows.Scan(&item.ID, &item.Name, &typ, &item.URL,
			&item.CreatedAt, &item.FolderID, &item.OwnerID, &item.IsPublic, &meta); err != nil {
			return nil, err
		}
		item.Type = models.FileType(typ)
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &item.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for %s: %w", item.ID, err)
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
