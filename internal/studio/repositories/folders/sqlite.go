package folders

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecank/nebula/internal/dbx"
	"github.com/ecank/nebula/internal/studio/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, f *models.Folder) error {
	query := `INSERT INTO folders (id, name, parent_id)
			values (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				parent_id = excluded.parent_id
	`
	_, err := r.db.ExecContext(ctx, query, f.ID, f.Name, f.ParentID)
	if err != nil {
		return fmt.Errorf("failed to upsert folder: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `select id, name, parent_id from folders`)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	var result []models.Folder
	for rows.Next() {
		var item models.Folder
		if err := rows.Scan(&item.ID, &item.Name, &item.ParentID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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

	_, err := r.db.ExecContext(ctx, `delete from folders where id in (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}
	return nil
}
