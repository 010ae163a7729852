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

// Concatenate joins several library videos into one clip, optionally with a
// replacement audio track. Only files already uploaded to public URLs can be
// processed.
func (a *App) Concatenate(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Video file ids in order (space separated)", os.Stdout)
	if err != nil {
		return err
	}
	var urls []string
	for _, id := range strings.Fields(raw) {
		item, ok := a.findFile(id)
		if !ok {
			log.Printf("File %s not found, skipping", id)
			continue
		}
		urls = append(urls, item.URL)
	}

	audioID, err := getSimpleText(a.reader, "Audio file id (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	audioURL := ""
	if audioID != "" {
		if item, ok := a.findFile(audioID); ok {
			audioURL = item.URL
		} else {
			log.Println("Audio file not found, ignoring")
		}
	}

	started := time.Now()
	url, err := a.mediaJobs().Concatenate(ctx, urls, audioURL)
	a.logOp(ctx, models.ToolMediaJob, started, fmt.Sprintf("concatenate %d clip(s)", len(urls)), err)
	if err != nil {
		a.reportToolkitError(err)
		return err
	}

	a.saveGenerated(ctx, "Concatenated video", models.FileTypeVideo, url, "")
	return nil
}

// LipSync synchronizes a video's mouth movement with an audio track. Both
// inputs must already be public URLs.
func (a *App) LipSync(ctx context.Context) error {
	videoID, err := getSimpleText(a.reader, "Video file id", os.Stdout)
	if err != nil {
		return err
	}
	audioID, err := getSimpleText(a.reader, "Audio file id", os.Stdout)
	if err != nil {
		return err
	}
	video, ok := a.findFile(videoID)
	if !ok {
		log.Println("Video not found")
		return nil
	}
	audio, ok := a.findFile(audioID)
	if !ok {
		log.Println("Audio not found")
		return nil
	}

	started := time.Now()
	url, err := a.mediaJobs().LipSync(ctx, video.URL, audio.URL)
	a.logOp(ctx, models.ToolMediaJob, started, "lip sync "+videoID, err)
	if err != nil {
		a.reportToolkitError(err)
		return err
	}

	a.saveGenerated(ctx, video.Name+" (lip sync)", models.FileTypeVideo, url, "")
	return nil
}

// TestToolkit checks connectivity to the configured media toolkit.
func (a *App) TestToolkit(ctx context.Context) error {
	started := time.Now()
	err := a.mediaJobs().TestConnection(ctx)
	a.logOp(ctx, models.ToolMediaJob, started, "toolkit connection test", err)
	if err != nil {
		a.reportToolkitError(err)
		return err
	}
	fmt.Println("Toolkit connection OK")
	return nil
}

func (a *App) reportToolkitError(err error) {
	if errors.Is(err, common.ErrConfigMissing) {
		log.Println("Media toolkit is not configured, run 'config' first")
		return
	}
	log.Printf("Toolkit job failed: %s", err.Error())
}
