package library

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/models"
)

// AddFolder creates a folder under parentID ("" = root).
func (e *Engine) AddFolder(ctx context.Context, name, parentID string) (models.Folder, error) {
	folder := models.Folder{
		ID:       uuid.New().String(),
		Name:     name,
		ParentID: parentID,
	}
	if err := e.foldersRepo.Put(ctx, &folder); err != nil {
		return models.Folder{}, fmt.Errorf("failed to persist folder: %w", err)
	}

	e.mu.Lock()
	e.folders = append(e.folders, folder)
	e.mu.Unlock()
	return folder, nil
}

// MoveFolder reparents a folder. A move that would make the folder its own
// ancestor is rejected with ErrFolderCycle.
func (e *Engine) MoveFolder(ctx context.Context, id, newParentID string) error {
	e.mu.Lock()
	idx := -1
	parents := make(map[string]string, len(e.folders))
	for i := range e.folders {
		parents[e.folders[i].ID] = e.folders[i].ParentID
		if e.folders[i].ID == id {
			idx = i
		}
	}
	if idx == -1 {
		e.mu.Unlock()
		return common.ErrNotFound
	}
	if createsCycle(parents, id, newParentID) {
		e.mu.Unlock()
		return common.ErrFolderCycle
	}
	e.folders[idx].ParentID = newParentID
	moved := e.folders[idx]
	e.mu.Unlock()

	if err := e.foldersRepo.Put(ctx, &moved); err != nil {
		return fmt.Errorf("failed to persist folder move: %w", err)
	}
	return nil
}

// createsCycle walks up from newParentID; hitting id means the folder would
// become its own ancestor.
func createsCycle(parents map[string]string, id, newParentID string) bool {
	seen := map[string]struct{}{}
	for cur := newParentID; cur != ""; cur = parents[cur] {
		if cur == id {
			return true
		}
		if _, loop := seen[cur]; loop {
			return true
		}
		seen[cur] = struct{}{}
	}
	return false
}

// DeleteFolder removes a folder; its direct children are reparented and its
// files moved to the deleted folder's parent.
func (e *Engine) DeleteFolder(ctx context.Context, id string) error {
	e.mu.Lock()
	parentID := ""
	found := false
	kept := e.folders[:0]
	for _, d := range e.folders {
		if d.ID == id {
			parentID = d.ParentID
			found = true
		} else {
			kept = append(kept, d)
		}
	}
	if !found {
		e.mu.Unlock()
		return common.ErrNotFound
	}
	e.folders = kept

	var reparented []models.Folder
	for i := range e.folders {
		if e.folders[i].ParentID == id {
			e.folders[i].ParentID = parentID
			reparented = append(reparented, e.folders[i])
		}
	}
	var movedFiles []models.FileItem
	for i := range e.files {
		if e.files[i].FolderID == id {
			e.files[i].FolderID = parentID
			movedFiles = append(movedFiles, e.files[i])
		}
	}
	e.mu.Unlock()

	if err := e.foldersRepo.DeleteByIDs(ctx, []string{id}); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	for i := range reparented {
		if err := e.foldersRepo.Put(ctx, &reparented[i]); err != nil {
			return fmt.Errorf("failed to persist reparented folder: %w", err)
		}
	}
	for i := range movedFiles {
		if err := e.filesRepo.Put(ctx, &movedFiles[i]); err != nil {
			return fmt.Errorf("failed to persist moved file: %w", err)
		}
	}
	return nil
}
