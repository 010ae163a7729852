package genai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/wavx"
)

const defaultVoice = "Kore"

// GenerateSpeech synthesizes text with the given prebuilt voice. The API
// returns raw 24kHz mono 16-bit PCM; it is wrapped in a WAV container so
// the result plays anywhere.
func (c *Client) GenerateSpeech(ctx context.Context, text, voice string) (string, error) {
	if voice == "" {
		voice = defaultVoice
	}

	cfg := &generationConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       &speechConfig{},
	}
	cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice

	resp, err := c.generateContent(ctx, ttsModel, &generateRequest{
		Contents:         []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("speech generation failed: %w", err)
	}

	var pcmB64 string
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				pcmB64 = p.InlineData.Data
				break
			}
		}
	}
	if pcmB64 == "" {
		return "", fmt.Errorf("no audio data returned from API")
	}

	pcm, err := base64.StdEncoding.DecodeString(pcmB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio payload: %w", err)
	}
	wav, err := wavx.Wrap(pcm, wavx.DefaultFormat())
	if err != nil {
		return "", fmt.Errorf("failed to build WAV container: %w", err)
	}
	return datauri.Encode("audio/wav", wav), nil
}
