package files

import (
	"context"

	"github.com/ecank/nebula/internal/studio/models"
)

// Repository describes persistence operations for media files.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// GetAll returns the whole collection, newest first.
	GetAll(ctx context.Context) ([]models.FileItem, error)

	// GetByFolder returns the files directly inside the given folder
	// ("" = library root), using the folder secondary index.
	GetByFolder(ctx context.Context, folderID string) ([]models.FileItem, error)

	// Put inserts or replaces a file by id. Callers supply the complete
	// entity; there are no partial-update semantics.
	Put(ctx context.Context, file *models.FileItem) error

	// DeleteByIDs removes files by id, best effort: ids that do not exist
	// are silently ignored.
	DeleteByIDs(ctx context.Context, ids []string) error
}
