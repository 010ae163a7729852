// Package library is the single authority over the in-memory library state:
// the user's files and folders, the audit log and the community feed. All
// mutations run under one mutex and update local storage and the remote
// stores in a fixed order, so readers always observe a consistent snapshot.
package library

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/models"
	"github.com/ecank/nebula/internal/studio/repositories/files"
	"github.com/ecank/nebula/internal/studio/repositories/folders"
	"github.com/ecank/nebula/internal/studio/repositories/logs"
)

// RecordStore is the slice of the record store adapter the engine uses.
type RecordStore interface {
	Configured() bool
	CreateRecord(ctx context.Context, file *models.FileItem, publicURL string) (int64, error)
	DeleteRecord(ctx context.Context, rowID int64) error
	SyncFiles(ctx context.Context, ownerEmail string) ([]models.FileItem, error)
	SyncCommunity(ctx context.Context) ([]models.FileItem, error)
	Publish(ctx context.Context, rowID int64, mergedMeta map[string]any) error
}

// ObjectStore is the slice of the object storage adapter the engine uses.
type ObjectStore interface {
	Configured() bool
	Upload(ctx context.Context, file *models.FileItem) (string, error)
	Delete(ctx context.Context, publicURL string) error
	FixPublicURL(raw string) string
}

// Engine owns the library collections. It is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	files     []models.FileItem
	folders   []models.Folder
	logs      []models.LogEntry
	community []models.FileItem
	owner     string

	filesRepo   files.Repository
	foldersRepo folders.Repository
	logsRepo    logs.Repository

	records RecordStore
	objects ObjectStore

	logger logging.Logger
}

func NewEngine(fr files.Repository, dr folders.Repository, lr logs.Repository, logger logging.Logger) *Engine {
	return &Engine{
		filesRepo:   fr,
		foldersRepo: dr,
		logsRepo:    lr,
		logger:      logger,
	}
}

// SetRemotes swaps the remote adapters. Called at startup and whenever the
// cloud connection settings change; nil disables the respective store.
func (e *Engine) SetRemotes(records RecordStore, objects ObjectStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = records
	e.objects = objects
}

// SetOwner sets the email stamped onto new files and used for remote sync.
func (e *Engine) SetOwner(owner string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.owner = owner
}

func (e *Engine) recordsConfigured() bool {
	return e.records != nil && e.records.Configured()
}

func (e *Engine) objectsConfigured() bool {
	return e.objects != nil && e.objects.Configured()
}

// Files returns a snapshot of the library.
func (e *Engine) Files() []models.FileItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.FileItem, len(e.files))
	copy(out, e.files)
	return out
}

// Folders returns a snapshot of the folder tree.
func (e *Engine) Folders() []models.Folder {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Folder, len(e.folders))
	copy(out, e.folders)
	return out
}

// Community returns a snapshot of the community feed.
func (e *Engine) Community() []models.FileItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.FileItem, len(e.community))
	copy(out, e.community)
	return out
}

// Logs returns a snapshot of the audit log, newest first.
func (e *Engine) Logs() []models.LogEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.LogEntry, len(e.logs))
	copy(out, e.logs)
	return out
}

// LoadLocal populates the collections from local storage. This is the cold
// start path: the library paints before any network round trip.
func (e *Engine) LoadLocal(ctx context.Context) error {
	fs, err := e.filesRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load files: %w", err)
	}
	ds, err := e.foldersRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load folders: %w", err)
	}
	ls, err := e.logsRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = fs
	e.folders = ds
	e.logs = ls
	return nil
}

// SyncRemote replaces the library with the merge of the remote collection
// and the local files that were never persisted remotely. Every remote file
// is written through to local storage; write-through failures are logged
// and tolerated. On a sync failure the previous collection stays intact.
func (e *Engine) SyncRemote(ctx context.Context) error {
	if !e.recordsConfigured() {
		return common.ErrConfigMissing
	}

	e.mu.RLock()
	owner := e.owner
	e.mu.RUnlock()

	remote, err := e.records.SyncFiles(ctx, owner)
	if err != nil {
		return fmt.Errorf("remote sync failed: %w", err)
	}

	remoteIDs := make(map[string]struct{}, len(remote))
	for i := range remote {
		remoteIDs[remote[i].ID] = struct{}{}
	}

	e.mu.Lock()
	merged := make([]models.FileItem, 0, len(remote)+len(e.files))
	merged = append(merged, remote...)
	for i := range e.files {
		f := e.files[i]
		if f.HasRemoteRecord() {
			continue
		}
		if _, dup := remoteIDs[f.ID]; dup {
			continue
		}
		merged = append(merged, f)
	}
	e.files = merged
	e.mu.Unlock()

	for i := range remote {
		if err := e.filesRepo.Put(ctx, &remote[i]); err != nil {
			e.logger.Warn(ctx, "failed to cache remote file locally", "file", remote[i].ID, "error", err)
		}
	}
	e.logger.Info(ctx, "remote sync finished", "files", len(remote))
	return nil
}

// SyncCommunity replaces the community feed wholesale.
func (e *Engine) SyncCommunity(ctx context.Context) error {
	if !e.recordsConfigured() {
		return common.ErrConfigMissing
	}
	feed, err := e.records.SyncCommunity(ctx)
	if err != nil {
		return fmt.Errorf("community sync failed: %w", err)
	}
	e.mu.Lock()
	e.community = feed
	e.mu.Unlock()
	return nil
}

// AddFile adds a new asset: it appears in memory immediately, then the
// payload is uploaded and, once the file carries a public URL, a remote
// record is created. Upload or record failures degrade to the local embedded
// form and are never retried automatically; an embedded payload is never
// pushed into a remote record.
func (e *Engine) AddFile(ctx context.Context, file models.FileItem) (models.FileItem, error) {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.CreatedAt == 0 {
		file.CreatedAt = models.NowMillis()
	}

	e.mu.Lock()
	if file.OwnerID == "" {
		file.OwnerID = e.owner
	}
	e.files = append([]models.FileItem{file}, e.files...)
	e.mu.Unlock()

	// Only assets reachable by a public URL get a remote record: either the
	// import already carried one, or the upload just produced one. A failed
	// or skipped upload keeps the file local.
	public := isPublicURL(file.URL)
	if e.objectsConfigured() {
		publicURL, err := e.objects.Upload(ctx, &file)
		if err != nil {
			e.logger.Warn(ctx, "upload failed, keeping embedded payload", "file", file.ID, "error", err)
		} else {
			file.URL = e.objects.FixPublicURL(publicURL)
			public = true
		}
	}

	if public && e.recordsConfigured() && !file.HasRemoteRecord() {
		rowID, err := e.records.CreateRecord(ctx, &file, file.URL)
		if err != nil {
			e.logger.Warn(ctx, "failed to create remote record", "file", file.ID, "error", err)
		} else {
			file.Metadata = file.WithRecordID(rowID)
		}
	}

	if err := e.filesRepo.Put(ctx, &file); err != nil {
		return file, fmt.Errorf("failed to persist file: %w", err)
	}

	e.replaceFile(file)
	return file, nil
}

func isPublicURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (e *Engine) replaceFile(file models.FileItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.files {
		if e.files[i].ID == file.ID {
			e.files[i] = file
			return
		}
	}
	e.files = append([]models.FileItem{file}, e.files...)
}

// DeleteFiles removes files locally first; the remote record and object
// cleanup afterwards is best effort and never rolled back.
func (e *Engine) DeleteFiles(ctx context.Context, ids []string) error {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	e.mu.Lock()
	var victims []models.FileItem
	kept := e.files[:0]
	for _, f := range e.files {
		if _, hit := idSet[f.ID]; hit {
			victims = append(victims, f)
		} else {
			kept = append(kept, f)
		}
	}
	e.files = kept
	e.mu.Unlock()

	if err := e.filesRepo.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete files locally: %w", err)
	}

	for i := range victims {
		f := &victims[i]
		if e.recordsConfigured() && f.HasRemoteRecord() {
			if err := e.records.DeleteRecord(ctx, f.RecordID()); err != nil {
				e.logger.Warn(ctx, "failed to delete remote record", "file", f.ID, "error", err)
			}
		}
		if e.objectsConfigured() {
			if err := e.objects.Delete(ctx, f.URL); err != nil {
				e.logger.Warn(ctx, "failed to delete stored object", "file", f.ID, "error", err)
			}
		}
	}
	return nil
}

// MoveFiles assigns files to a folder. Placement is a local concern and is
// never synced remotely.
func (e *Engine) MoveFiles(ctx context.Context, ids []string, folderID string) error {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	e.mu.Lock()
	var moved []models.FileItem
	for i := range e.files {
		if _, hit := idSet[e.files[i].ID]; hit {
			e.files[i].FolderID = folderID
			moved = append(moved, e.files[i])
		}
	}
	e.mu.Unlock()

	for i := range moved {
		if err := e.filesRepo.Put(ctx, &moved[i]); err != nil {
			return fmt.Errorf("failed to persist move of %s: %w", moved[i].ID, err)
		}
	}
	return nil
}

// Reset clears the in-memory collections on logout. Local storage and the
// remote stores are left untouched.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = nil
	e.folders = nil
	e.logs = nil
	e.community = nil
	e.owner = ""
}
