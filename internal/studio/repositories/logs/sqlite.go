package logs

import (
	"context"
	"fmt"

	"github.com/ecank/nebula/internal/dbx"
	"github.com/ecank/nebula/internal/studio/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, e *models.LogEntry) error {
	query := `INSERT INTO logs (id, timestamp, tool, status, details, latency_ms)
			values (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Timestamp, string(e.Tool), string(e.Status), e.Details, e.LatencyMs)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.LogEntry, error) {
	query := `select id, timestamp, tool, status, details, latency_ms
			from logs order by timestamp desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select logs: %w", err)
	}
	defer rows.Close()

	var result []models.LogEntry
	for rows.Next() {
		var item models.LogEntry
		var tool, status string
		if err := rows.Scan(&item.ID, &item.Timestamp, &tool, &status, &item.Details, &item.LatencyMs); err != nil {
			return nil, err
		}
		item.Tool = models.ToolType(tool)
		item.Status = models.LogStatus(status)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
