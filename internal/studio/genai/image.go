package genai

import (
	"context"
	"fmt"

	"github.com/ecank/nebula/internal/studio/provider"
)

// GenerateImage renders prompt with the primary model and falls back to the
// flash model when the primary rejects the request.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts provider.ImageOptions) (string, error) {
	req := &generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if opts.AspectRatio != "" {
		req.GenerationConfig = &generationConfig{ImageConfig: &imageConfig{AspectRatio: opts.AspectRatio}}
	}
	return c.generateImageWithFallback(ctx, req)
}

// EditImage applies prompt to an existing image (data URI or remote URL).
func (c *Client) EditImage(ctx context.Context, image, prompt string) (string, error) {
	in, err := c.imageInput(ctx, image)
	if err != nil {
		return "", err
	}
	req := &generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: in},
			{Text: prompt},
		}}},
	}
	return c.generateImageWithFallback(ctx, req)
}

// BlendImages combines several input images into one new image.
func (c *Client) BlendImages(ctx context.Context, images []string, prompt string) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("at least one input image is required")
	}
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		in, err := c.imageInput(ctx, img)
		if err != nil {
			return "", err
		}
		parts = append(parts, part{InlineData: in})
	}
	parts = append(parts, part{
		Text: "Analyze the provided images and generate a new image that combines their visual elements. " + prompt,
	})
	req := &generateRequest{Contents: []content{{Parts: parts}}}
	return c.generateImageWithFallback(ctx, req)
}

func (c *Client) generateImageWithFallback(ctx context.Context, req *generateRequest) (string, error) {
	resp, err := c.generateContent(ctx, imageModelPrimary, req)
	if err == nil {
		if img, xerr := extractImage(resp); xerr == nil {
			return img, nil
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		c.logger.Warn(ctx, "primary image model failed, falling back", "error", err)
	}

	resp, err = c.generateContent(ctx, imageModelFallback, req)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	return extractImage(resp)
}
