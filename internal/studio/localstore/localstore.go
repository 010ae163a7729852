// Package localstore opens the on-device SQLite database backing the studio
// library and applies its schema migrations. The database holds four
// independent collections (files, folders, logs, settings); no atomicity is
// promised across them.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/migrations"
	"github.com/pressly/goose/v3"
)

// Open creates (if needed) and opens the local database at path, then runs
// any pending migrations. It is safe to call repeatedly. Failures to reach
// the underlying storage are reported as common.ErrStorageUnavailable.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return nil, fmt.Errorf("%w: mkdir %s: %v", common.ErrStorageUnavailable, dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the embedded goose migrations. Goose keeps its own
// version table, so re-running on an up-to-date database is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
