// Package provider defines the narrow interfaces the studio uses to talk to
// generation and media-processing backends, keeping the HTTP clients
// swappable in tests.
package provider

import "context"

// ImageOptions tunes image generation.
type ImageOptions struct {
	// AspectRatio like "1:1" or "16:9"; empty means provider default.
	AspectRatio string
}

// VideoRequest describes a video generation job. FirstFrame and LastFrame
// are optional data URIs; which ones are present selects the generation
// mode (text-to-video, image-to-video, or interpolation between frames).
type VideoRequest struct {
	Prompt     string
	FirstFrame string
	LastFrame  string
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role ChatRole
	Text string
}

// ChatReply is the assistant's answer. When the model requested an image,
// GeneratedImage carries the follow-up result as a data URI and
// GeneratedPrompt the prompt it was produced from.
type ChatReply struct {
	Text            string
	GeneratedImage  string
	GeneratedPrompt string
}

// Generator is the generation backend. All media results are data URIs.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (string, error)
	EditImage(ctx context.Context, image, prompt string) (string, error)
	BlendImages(ctx context.Context, images []string, prompt string) (string, error)
	GenerateVideo(ctx context.Context, req VideoRequest) (string, error)
	GenerateSpeech(ctx context.Context, text, voice string) (string, error)
	Chat(ctx context.Context, history []ChatMessage, message string) (*ChatReply, error)
	EnhancePrompt(ctx context.Context, prompt string) (string, error)
}

// MediaJobs is the media-processing backend for jobs that operate on
// already-public URLs.
type MediaJobs interface {
	Concatenate(ctx context.Context, videoURLs []string, audioURL string) (string, error)
	LipSync(ctx context.Context, videoURL, audioURL string) (string, error)
	TestConnection(ctx context.Context) error
}
