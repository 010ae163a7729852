package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/models"
)

// truncate shortens long values (prompts, data URIs) for list output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// List prints the library files, one per line.
func (a *App) List(ctx context.Context) error {
	items := a.engine.Files()
	if len(items) == 0 {
		fmt.Println("Library is empty")
		return nil
	}
	for _, item := range items {
		marker := " "
		if item.IsPublic {
			marker = "*"
		}
		fmt.Printf("%s %s  [%s]  %-24s  %s\n",
			marker, item.ID, item.Type, item.Name, truncate(item.URL, 60))
	}
	return nil
}

// Folders prints the folder tree as a flat id/parent listing.
func (a *App) Folders(ctx context.Context) error {
	folders := a.engine.Folders()
	if len(folders) == 0 {
		fmt.Println("No folders")
		return nil
	}
	for _, f := range folders {
		parent := f.ParentID
		if parent == "" {
			parent = "(root)"
		}
		fmt.Printf("%s  %-24s  parent: %s\n", f.ID, f.Name, parent)
	}
	return nil
}

// MakeFolder creates a folder under an optional parent.
func (a *App) MakeFolder(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Folder name", os.Stdout)
	if err != nil {
		return err
	}
	parentID, err := getSimpleText(a.reader, "Parent folder id (empty for root)", os.Stdout)
	if err != nil {
		return err
	}

	folder, err := a.engine.AddFolder(ctx, name, parentID)
	if err != nil {
		log.Printf("Failed to create folder: %s", err.Error())
		return err
	}
	fmt.Printf("Created folder %s\n", folder.ID)
	return nil
}

// MoveFolder reparents a folder; moves creating a cycle are rejected.
func (a *App) MoveFolder(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Folder id", os.Stdout)
	if err != nil {
		return err
	}
	parentID, err := getSimpleText(a.reader, "New parent id (empty for root)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.engine.MoveFolder(ctx, id, parentID); err != nil {
		if errors.Is(err, common.ErrFolderCycle) {
			log.Println("Move rejected: a folder cannot be placed inside its own subtree")
		} else {
			log.Printf("Failed to move folder: %s", err.Error())
		}
		return err
	}
	fmt.Println("Moved")
	return nil
}

// RemoveFolder deletes a folder; children and files are reparented, never
// deleted.
func (a *App) RemoveFolder(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Folder id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.engine.DeleteFolder(ctx, id); err != nil {
		log.Printf("Failed to delete folder: %s", err.Error())
		return err
	}
	fmt.Println("Deleted (contents moved to parent)")
	return nil
}

// ImportFile adds an existing asset by URL or data URI to the library.
func (a *App) ImportFile(ctx context.Context) error {
	url, err := getSimpleText(a.reader, "Asset URL or data URI", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type (image/video/audio)", os.Stdout)
	if err != nil {
		return err
	}
	folderID, err := getSimpleText(a.reader, "Folder id (empty for root)", os.Stdout)
	if err != nil {
		return err
	}

	fileType := models.FileType(strings.ToLower(kind))
	switch fileType {
	case models.FileTypeImage, models.FileTypeVideo, models.FileTypeAudio:
	default:
		fileType = models.FileTypeImage
	}

	saved, err := a.engine.AddFile(ctx, models.FileItem{
		Name:     name,
		Type:     fileType,
		URL:      url,
		FolderID: folderID,
	})
	if err != nil {
		log.Printf("Failed to add file: %s", err.Error())
		return err
	}
	fmt.Printf("Added %s\n", saved.ID)
	return nil
}

// MoveFiles moves one or more files into a folder. File moves are a local
// arrangement and never touch the cloud.
func (a *App) MoveFiles(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "File ids (space separated)", os.Stdout)
	if err != nil {
		return err
	}
	folderID, err := getSimpleText(a.reader, "Target folder id (empty for root)", os.Stdout)
	if err != nil {
		return err
	}

	ids := strings.Fields(raw)
	if len(ids) == 0 {
		fmt.Println("Nothing to move")
		return nil
	}
	if err := a.engine.MoveFiles(ctx, ids, folderID); err != nil {
		log.Printf("Failed to move files: %s", err.Error())
		return err
	}
	fmt.Printf("Moved %d file(s)\n", len(ids))
	return nil
}

// RemoveFiles deletes files locally and best-effort from the cloud.
func (a *App) RemoveFiles(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "File ids (space separated)", os.Stdout)
	if err != nil {
		return err
	}
	ids := strings.Fields(raw)
	if len(ids) == 0 {
		fmt.Println("Nothing to delete")
		return nil
	}

	if err := a.engine.DeleteFiles(ctx, ids); err != nil {
		log.Printf("Failed to delete files: %s", err.Error())
		return err
	}
	fmt.Printf("Deleted %d file(s)\n", len(ids))
	return nil
}

// Publish shares a file to the community feed.
func (a *App) Publish(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.engine.PublishFile(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrConfigMissing):
			log.Println("Record store is not configured, run 'config' first")
		case errors.Is(err, common.ErrNoRemoteRecord):
			log.Println("File has no cloud record yet, run 'sync' first")
		default:
			log.Printf("Failed to publish: %s", err.Error())
		}
		return err
	}
	fmt.Println("Published")
	return nil
}

// Community refreshes and prints the public feed.
func (a *App) Community(ctx context.Context) error {
	if err := a.engine.SyncCommunity(ctx); err != nil {
		log.Printf("Failed to refresh community feed: %s", err.Error())
	}
	items := a.engine.Community()
	if len(items) == 0 {
		fmt.Println("Community feed is empty")
		return nil
	}
	for _, item := range items {
		owner := item.OwnerID
		if owner == "" {
			owner = "Anonymous"
		}
		fmt.Printf("%s  [%s]  %-24s  by %s\n", item.ID, item.Type, item.Name, owner)
	}
	return nil
}

// Sync pulls the remote library and merges it with local files.
func (a *App) Sync(ctx context.Context) error {
	started := time.Now()
	err := a.engine.SyncRemote(ctx)
	a.logOp(ctx, models.ToolCloudSync, started, "library sync", err)
	if err != nil {
		if errors.Is(err, common.ErrConfigMissing) {
			log.Println("Record store is not configured, run 'config' first")
		} else {
			log.Printf("Sync failed: %s", err.Error())
		}
		return err
	}
	fmt.Printf("Synced, %d file(s) in library\n", len(a.engine.Files()))
	return nil
}
