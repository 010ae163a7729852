package logs

import (
	"context"

	"github.com/ecank/nebula/internal/studio/models"
)

// Repository persists the append-only audit log. Entries are never updated
// or synced remotely.
type Repository interface {
	// Add appends a new entry.
	Add(ctx context.Context, entry *models.LogEntry) error

	// GetAll returns all entries sorted by timestamp descending.
	GetAll(ctx context.Context) ([]models.LogEntry, error)
}
