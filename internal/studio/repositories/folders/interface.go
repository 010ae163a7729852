package folders

import (
	"context"

	"github.com/ecank/nebula/internal/studio/models"
)

// Repository describes persistence operations for library folders.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Folder, error)

	// Put inserts or replaces a folder by id.
	Put(ctx context.Context, folder *models.Folder) error

	// DeleteByIDs removes folders by id; missing ids are ignored.
	DeleteByIDs(ctx context.Context, ids []string) error
}
