package library

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/models"
)

// PublishFile shares a file with the community. The file must already be
// backed by a remote record; the merged blob forces the canonical asset
// fields so a stale local copy cannot publish wrong attribution. The
// community feed is refreshed afterwards, best effort.
func (e *Engine) PublishFile(ctx context.Context, id string) error {
	if !e.recordsConfigured() {
		return common.ErrConfigMissing
	}

	e.mu.RLock()
	var target *models.FileItem
	for i := range e.files {
		if e.files[i].ID == id {
			f := e.files[i]
			target = &f
			break
		}
	}
	e.mu.RUnlock()

	if target == nil {
		return common.ErrNotFound
	}
	rowID := target.RecordID()
	if rowID == 0 {
		return common.ErrNoRemoteRecord
	}

	merged := target.CloneMetadata()
	merged["ownerId"] = target.OwnerID
	merged["url"] = target.URL
	merged["type"] = string(target.Type)
	merged["name"] = target.Name
	merged["fileId"] = target.ID
	merged["created"] = target.CreatedAt

	if err := e.records.Publish(ctx, rowID, merged); err != nil {
		return fmt.Errorf("failed to publish file: %w", err)
	}

	target.IsPublic = true
	target.Metadata = merged
	e.replaceFile(*target)
	if err := e.filesRepo.Put(ctx, target); err != nil {
		e.logger.Warn(ctx, "failed to persist published flag locally", "file", id, "error", err)
	}

	if err := e.SyncCommunity(ctx); err != nil {
		e.logger.Warn(ctx, "community refresh after publish failed", "error", err)
	}
	return nil
}

// AddLog appends an audit entry. Entries are immutable once written.
func (e *Engine) AddLog(ctx context.Context, entry models.LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = models.NowMillis()
	}

	e.mu.Lock()
	e.logs = append([]models.LogEntry{entry}, e.logs...)
	e.mu.Unlock()

	if err := e.logsRepo.Add(ctx, &entry); err != nil {
		return fmt.Errorf("failed to persist log entry: %w", err)
	}
	return nil
}
