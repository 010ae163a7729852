// Package models defines the data model shared by the studio: media files,
// folders, audit logs, settings, users and voice actors.
package models

import (
	"strconv"
	"time"
)

// FileType classifies a media asset.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
	FileTypeAudio FileType = "audio"
)

// MetaRecordID is the metadata key carrying the remote record row id once a
// file has been persisted to the record store.
const MetaRecordID = "recordId"

// FileItem is a user media asset. URL is either an embedded data URI or an
// absolute http(s) URL; once a file has been uploaded to object storage its
// URL is always the public-rewritten form.
//
// Metadata is an open key/value bag (generation prompt, model, aspect ratio,
// ...). It must be carried wholesale across every update: partial rewrites
// of the remote blob lose fields.
type FileItem struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      FileType       `json:"type"`
	URL       string         `json:"url"`
	CreatedAt int64          `json:"createdAt"` // epoch milliseconds
	FolderID  string         `json:"folderId"`  // "" = library root
	OwnerID   string         `json:"ownerId,omitempty"`
	IsPublic  bool           `json:"isPublic,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RecordID returns the remote record row id stored in Metadata, or 0 if the
// file has never been persisted remotely. JSON round-trips turn numbers into
// float64 and some callers store strings, so all encodings are accepted.
func (f *FileItem) RecordID() int64 {
	if f.Metadata == nil {
		return 0
	}
	switch v := f.Metadata[MetaRecordID].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
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

// HasRemoteRecord reports whether the file is backed by a remote record.
func (f *FileItem) HasRemoteRecord() bool {
	return f.RecordID() != 0
}

// WithRecordID returns a copy of the metadata bag with the record id set.
// The original map is not mutated.
func (f *FileItem) WithRecordID(id int64) map[string]any {
	merged := make(map[string]any, len(f.Metadata)+1)
	for k, v := range f.Metadata {
		merged[k] = v
	}
	merged[MetaRecordID] = id
	return merged
}

// CloneMetadata returns a shallow copy of the metadata bag (never nil).
func (f *FileItem) CloneMetadata() map[string]any {
	out := make(map[string]any, len(f.Metadata))
	for k, v := range f.Metadata {
		out[k] = v
	}
	return out
}

// NowMillis returns the current time in epoch milliseconds, the unit used
// for CreatedAt and log timestamps.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
