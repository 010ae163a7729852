package genai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ecank/nebula/internal/studio/provider"
)

// chatSystemInstruction embeds the image-generation intent protocol: the
// model signals a generation request with a bracketed command that is
// stripped from the visible reply.
const chatSystemInstruction = `You are Nebula AI Assistant.
If the user asks to generate an image (e.g., "draw a cat", "generate image of..."),
you MUST output a special command at the end of your response: [GENERATE: <prompt>].
Example: "Sure, here is a cat." [GENERATE: A fluffy cat]`

const enhanceSystemInstruction = `You are a professional prompt engineer for advanced AI image and video generation models.
Your task is to take a short, simple user description and rewrite it into a highly detailed, professional prompt.
Include details about lighting, camera angle, texture, artistic style, resolution (8k, 4k), and atmosphere.
Keep the output strictly to the prompt itself. Do not add conversational text.`

var generateIntentRe = regexp.MustCompile(`(?i)\[GENERATE:\s*(.*?)\]`)

// Chat sends one turn of a conversation. When the reply carries a
// generation command, the command is removed from the text and a follow-up
// image is generated; a failed follow-up degrades to a note in the reply
// rather than an error.
func (c *Client) Chat(ctx context.Context, history []provider.ChatMessage, message string) (*provider.ChatReply, error) {
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: string(m.Role), Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: string(provider.RoleUser), Parts: []part{{Text: message}}})

	resp, err := c.generateContent(ctx, chatModel, &generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: chatSystemInstruction}}},
	})
	if err != nil {
		return nil, fmt.Errorf("chat failed: %w", err)
	}

	reply := &provider.ChatReply{Text: extractText(resp)}

	m := generateIntentRe.FindStringSubmatch(reply.Text)
	if m == nil {
		return reply, nil
	}

	prompt := strings.TrimSpace(m[1])
	reply.Text = strings.TrimSpace(strings.Replace(reply.Text, m[0], "", 1))
	if reply.Text == "" {
		reply.Text = fmt.Sprintf("Creating image for: %q...", prompt)
	}

	img, err := c.GenerateImage(ctx, prompt, provider.ImageOptions{})
	if err != nil {
		reply.Text += fmt.Sprintf("\n\n(I tried to generate an image, but encountered an error: %v)", err)
		return reply, nil
	}
	reply.GeneratedImage = img
	reply.GeneratedPrompt = prompt
	return reply, nil
}

// EnhancePrompt rewrites a short prompt into a detailed one. On an empty
// model reply the original prompt is returned unchanged.
func (c *Client) EnhancePrompt(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generateContent(ctx, chatModel, &generateRequest{
		Contents:          []content{{Parts: []part{{Text: fmt.Sprintf("Rewrite this prompt: %q", prompt)}}}},
		SystemInstruction: &content{Parts: []part{{Text: enhanceSystemInstruction}}},
	})
	if err != nil {
		return "", fmt.Errorf("prompt enhancement failed: %w", err)
	}
	if out := strings.TrimSpace(extractText(resp)); out != "" {
		return out, nil
	}
	return prompt, nil
}
