package record

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ecank/nebula/internal/studio/models"
)

func decodeBlob(notes string, out any) error {
	return json.Unmarshal([]byte(notes), out)
}

// CreateRecord persists one asset as a row. The Notes blob is the file's
// metadata bag overlaid with the canonical asset fields, so generation
// parameters survive the round trip. Returns the new row id.
func (c *Client) CreateRecord(ctx context.Context, file *models.FileItem, publicURL string) (int64, error) {
	blob := file.CloneMetadata()
	blob["type"] = string(file.Type)
	blob["url"] = publicURL
	blob["created"] = file.CreatedAt
	blob["fileId"] = file.ID
	blob["ownerId"] = file.OwnerID
	blob["isPublic"] = file.IsPublic
	blob["name"] = file.Name

	rowID, err := c.createRow(ctx, file.Name, blob)
	if err != nil {
		return 0, fmt.Errorf("failed to create asset record: %w", err)
	}
	return rowID, nil
}

// Publish flips a record public. mergedMeta is the caller-merged blob; the
// isPublic flag is forced here so a stale merge cannot publish as private.
func (c *Client) Publish(ctx context.Context, rowID int64, mergedMeta map[string]any) error {
	if mergedMeta == nil {
		mergedMeta = map[string]any{}
	}
	mergedMeta["isPublic"] = true
	return c.updateNotes(ctx, rowID, mergedMeta)
}

// SyncFiles returns the remote assets visible to ownerEmail. Profile rows
// and rows with unparsable blobs are skipped; rows without an owner are
// visible to everyone.
func (c *Client) SyncFiles(ctx context.Context, ownerEmail string) ([]models.FileItem, error) {
	rows, err := c.listRows(ctx, "")
	if err != nil {
		return nil, err
	}

	files := make([]models.FileItem, 0, len(rows))
	for i := range rows {
		blob := map[string]any{}
		if err := decodeBlob(rows[i].Notes, &blob); err != nil {
			c.logger.Debug(ctx, "skipping row with unparsable blob", "row", rows[i].ID)
			continue
		}
		if stringField(blob, "type") == blobTypeProfile {
			continue
		}
		owner := stringField(blob, "ownerId")
		if owner != "" && owner != ownerEmail {
			continue
		}
		files = append(files, c.rowToFile(&rows[i], blob))
	}
	return files, nil
}

// SyncCommunity returns every published asset regardless of owner. Assets
// without an owner are attributed to "Anonymous".
func (c *Client) SyncCommunity(ctx context.Context) ([]models.FileItem, error) {
	rows, err := c.listRows(ctx, "")
	if err != nil {
		return nil, err
	}

	files := make([]models.FileItem, 0, len(rows))
	for i := range rows {
		blob := map[string]any{}
		if err := decodeBlob(rows[i].Notes, &blob); err != nil {
			continue
		}
		if stringField(blob, "type") == blobTypeProfile {
			continue
		}
		if !isPublicTruthy(blob["isPublic"]) {
			continue
		}
		f := c.rowToFile(&rows[i], blob)
		if f.OwnerID == "" {
			f.OwnerID = "Anonymous"
		}
		files = append(files, f)
	}
	return files, nil
}

// rowToFile rebuilds a FileItem from a row blob. The whole blob is kept as
// the file's metadata, plus the backing row id.
func (c *Client) rowToFile(r *row, blob map[string]any) models.FileItem {
	meta := make(map[string]any, len(blob)+1)
	for k, v := range blob {
		meta[k] = v
	}
	meta[models.MetaRecordID] = r.ID

	id := stringField(blob, "fileId")
	if id == "" {
		id = fmt.Sprintf("rec_%d", r.ID)
	}
	name := stringField(blob, "name")
	if name == "" {
		name = r.Name
	}
	if name == "" {
		name = "Untitled"
	}

	return models.FileItem{
		ID:        id,
		Name:      name,
		Type:      fileType(stringField(blob, "type")),
		URL:       c.fix(stringField(blob, "url")),
		CreatedAt: int64Field(blob, "created"),
		FolderID:  stringField(blob, "folderId"),
		OwnerID:   stringField(blob, "ownerId"),
		IsPublic:  isPublicTruthy(blob["isPublic"]),
		Metadata:  meta,
	}
}

func fileType(s string) models.FileType {
	switch models.FileType(s) {
	case models.FileTypeVideo:
		return models.FileTypeVideo
	case models.FileTypeAudio:
		return models.FileTypeAudio
	default:
		return models.FileTypeImage
	}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// int64Field tolerates the encodings a JSON round trip can produce.
func int64Field(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// isPublicTruthy accepts the two encodings seen in stored blobs: the
// boolean true and the string "true".
func isPublicTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}
