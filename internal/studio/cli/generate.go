package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ecank/nebula/internal/studio/models"
	"github.com/ecank/nebula/internal/studio/provider"
)

// saveGenerated stores a generation result in the library, tagging it with
// the prompt that produced it.
func (a *App) saveGenerated(ctx context.Context, name string, fileType models.FileType, url, prompt string) {
	saved, err := a.engine.AddFile(ctx, models.FileItem{
		Name: name,
		Type: fileType,
		URL:  url,
		Metadata: map[string]any{
			"prompt": prompt,
		},
	})
	if err != nil {
		log.Printf("Generated, but failed to save to library: %s", err.Error())
		return
	}
	fmt.Printf("Saved as %s\n", saved.ID)
}

// GenerateImage prompts for a description and generates an image.
func (a *App) GenerateImage(ctx context.Context) error {
	prompt, err := GetMultiline(a.reader, "Describe the image", os.Stdout)
	if err != nil {
		return err
	}
	aspect, err := getSimpleText(a.reader, "Aspect ratio (e.g. 16:9, empty for default)", os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	url, err := a.generator().GenerateImage(ctx, prompt, provider.ImageOptions{AspectRatio: aspect})
	a.logOp(ctx, models.ToolImageGen, started, truncate(prompt, 120), err)
	if err != nil {
		log.Printf("Image generation failed: %s", err.Error())
		return err
	}

	a.saveGenerated(ctx, truncate(prompt, 40), models.FileTypeImage, url, prompt)
	return nil
}

// EditImage rewrites an existing library image according to an instruction.
func (a *App) EditImage(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Image file id", os.Stdout)
	if err != nil {
		return err
	}
	source, ok := a.findFile(id)
	if !ok {
		log.Println("File not found")
		return nil
	}
	prompt, err := GetMultiline(a.reader, "Describe the edit", os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	url, err := a.generator().EditImage(ctx, source.URL, prompt)
	a.logOp(ctx, models.ToolImageEdit, started, truncate(prompt, 120), err)
	if err != nil {
		log.Printf("Image edit failed: %s", err.Error())
		return err
	}

	a.saveGenerated(ctx, source.Name+" (edited)", models.FileTypeImage, url, prompt)
	return nil
}

// BlendImages combines several library images into one.
func (a *App) BlendImages(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Image file ids (space separated)", os.Stdout)
	if err != nil {
		return err
	}
	var sources []string
	for _, id := range strings.Fields(raw) {
		item, ok := a.findFile(id)
		if !ok {
			log.Printf("File %s not found, skipping", id)
			continue
		}
		sources = append(sources, item.URL)
	}
	if len(sources) < 2 {
		fmt.Println("Need at least two images to blend")
		return nil
	}
	prompt, err := GetMultiline(a.reader, "Describe the result", os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	url, err := a.generator().BlendImages(ctx, sources, prompt)
	a.logOp(ctx, models.ToolImageEdit, started, truncate(prompt, 120), err)
	if err != nil {
		log.Printf("Blend failed: %s", err.Error())
		return err
	}

	a.saveGenerated(ctx, truncate(prompt, 40), models.FileTypeImage, url, prompt)
	return nil
}

// GenerateVideo generates a clip from a prompt, optionally animating a
// starting frame or interpolating between two frames.
func (a *App) GenerateVideo(ctx context.Context) error {
	prompt, err := GetMultiline(a.reader, "Describe the video", os.Stdout)
	if err != nil {
		return err
	}
	req := provider.VideoRequest{Prompt: prompt}

	if id, err := getSimpleText(a.reader, "First frame image id (empty for none)", os.Stdout); err != nil {
		return err
	} else if id != "" {
		if item, ok := a.findFile(id); ok {
			req.FirstFrame = item.URL
		} else {
			log.Println("First frame not found, ignoring")
		}
	}
	if id, err := getSimpleText(a.reader, "Last frame image id (empty for none)", os.Stdout); err != nil {
		return err
	} else if id != "" {
		if item, ok := a.findFile(id); ok {
			req.LastFrame = item.URL
		} else {
			log.Println("Last frame not found, ignoring")
		}
	}

	fmt.Println("Generating video, this can take a few minutes...")
	started := time.Now()
	url, err := a.generator().GenerateVideo(ctx, req)
	a.logOp(ctx, models.ToolVideoGen, started, truncate(prompt, 120), err)
	if err != nil {
		log.Printf("Video generation failed: %s", err.Error())
		return err
	}

	a.saveGenerated(ctx, truncate(prompt, 40), models.FileTypeVideo, url, prompt)
	return nil
}

// GenerateSpeech synthesizes narration. The voice can be an actor id, an
// actor name or a raw provider voice id.
func (a *App) GenerateSpeech(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Text to speak", os.Stdout)
	if err != nil {
		return err
	}
	voice, err := getSimpleText(a.reader, "Voice or actor (empty for default)", os.Stdout)
	if err != nil {
		return err
	}
	voice = a.resolveVoice(ctx, voice)

	started := time.Now()
	url, err := a.generator().GenerateSpeech(ctx, text, voice)
	a.logOp(ctx, models.ToolSpeechGen, started, truncate(text, 120), err)
	if err != nil {
		log.Printf("Speech generation failed: %s", err.Error())
		return err
	}

	a.saveGenerated(ctx, truncate(text, 40), models.FileTypeAudio, url, text)
	return nil
}

// resolveVoice maps an actor id or name to its provider voice id; unknown
// values pass through unchanged.
func (a *App) resolveVoice(ctx context.Context, voice string) string {
	if voice == "" {
		return voice
	}
	actors, err := a.session.Actors(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load actors", "error", err)
		return voice
	}
	for _, actor := range actors {
		if actor.ID == voice || strings.EqualFold(actor.Name, voice) {
			return actor.VoiceID
		}
	}
	return voice
}

// Chat sends a message to the assistant, keeping per-session history. When
// the assistant decides to create an image it is saved to the library.
func (a *App) Chat(ctx context.Context) error {
	message, err := GetMultiline(a.reader, "Message", os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	reply, err := a.generator().Chat(ctx, a.chatHistory, message)
	a.logOp(ctx, models.ToolChat, started, truncate(message, 120), err)
	if err != nil {
		log.Printf("Chat failed: %s", err.Error())
		return err
	}

	a.chatHistory = append(a.chatHistory,
		provider.ChatMessage{Role: provider.RoleUser, Text: message},
		provider.ChatMessage{Role: provider.RoleModel, Text: reply.Text},
	)

	fmt.Println(reply.Text)
	if reply.GeneratedImage != "" {
		a.saveGenerated(ctx, truncate(reply.GeneratedPrompt, 40), models.FileTypeImage,
			reply.GeneratedImage, reply.GeneratedPrompt)
	}
	return nil
}

// Enhance rewrites a short prompt into a detailed one.
func (a *App) Enhance(ctx context.Context) error {
	prompt, err := GetMultiline(a.reader, "Prompt to enhance", os.Stdout)
	if err != nil {
		return err
	}

	started := time.Now()
	enhanced, err := a.generator().EnhancePrompt(ctx, prompt)
	a.logOp(ctx, models.ToolChat, started, truncate(prompt, 120), err)
	if err != nil {
		log.Printf("Enhance failed: %s", err.Error())
		return err
	}

	fmt.Println(enhanced)
	return nil
}

// findFile looks a file up by id in the in-memory library snapshot.
func (a *App) findFile(id string) (models.FileItem, bool) {
	for _, item := range a.engine.Files() {
		if item.ID == id {
			return item, true
		}
	}
	return models.FileItem{}, false
}
