package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/filex"
	"github.com/ecank/nebula/internal/studio/models"
)

const exportDirName = "exports"

// SaveFile exports a library asset to the local exports directory. Embedded
// data URIs are decoded in place; remote URLs are downloaded first.
func (a *App) SaveFile(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "File id", os.Stdout)
	if err != nil {
		return err
	}
	item, ok := a.findFile(id)
	if !ok {
		log.Println("File not found")
		return nil
	}

	data, mediaType, err := a.assetBytes(ctx, item.URL)
	if err != nil {
		log.Printf("Failed to fetch asset: %s", err.Error())
		return err
	}

	dir, err := filex.EnsureSubDir(exportDirName)
	if err != nil {
		log.Printf("Failed to prepare export directory: %s", err.Error())
		return err
	}

	path, err := filex.WriteAsset(dir, item.Name+extensionFor(item.Type, mediaType), data)
	if err != nil {
		log.Printf("Failed to write asset: %s", err.Error())
		return err
	}

	fmt.Printf("Saved to %s\n", path)
	return nil
}

// assetBytes resolves a file URL to raw bytes and a media type.
func (a *App) assetBytes(ctx context.Context, url string) ([]byte, string, error) {
	if datauri.Is(url) {
		mediaType, data, err := datauri.Parse(url)
		if err != nil {
			return nil, "", err
		}
		return data, mediaType, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download asset: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read asset body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// extensionFor picks a file extension from the media type, falling back to a
// sensible default per asset kind.
func extensionFor(fileType models.FileType, mediaType string) string {
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	}
	switch fileType {
	case models.FileTypeVideo:
		return ".mp4"
	case models.FileTypeAudio:
		return ".wav"
	default:
		return ".png"
	}
}
