package genai

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/provider"
)

const (
	// videoModelFast handles text-to-video and image-to-video; the
	// standard model is used when a last frame is present, where its
	// tighter control matters.
	videoModelFast     = "veo-3.1-fast-generate-preview"
	videoModelStandard = "veo-3.1-generate-preview"

	videoPollInterval = 5 * time.Second
)

type videoInstance struct {
	Prompt     string      `json:"prompt"`
	Image      *inlineData `json:"image,omitempty"`
	LastFrame  *inlineData `json:"lastFrame,omitempty"`
}

type videoParameters struct {
	NumberOfVideos int    `json:"numberOfVideos"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
}

type videoStartRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

// GenerateVideo starts a long-running generation job and polls it to
// completion every five seconds. The result is the provider-hosted URI of
// the generated video.
func (c *Client) GenerateVideo(ctx context.Context, req provider.VideoRequest) (string, error) {
	if !c.Configured() {
		return "", common.ErrConfigMissing
	}

	inst := videoInstance{Prompt: buildVideoPrompt(req)}
	model := videoModelFast

	if req.FirstFrame != "" {
		in, err := c.imageInput(ctx, req.FirstFrame)
		if err != nil {
			return "", fmt.Errorf("failed to prepare first frame: %w", err)
		}
		inst.Image = in
	}
	if req.LastFrame != "" {
		in, err := c.imageInput(ctx, req.LastFrame)
		if err != nil {
			return "", fmt.Errorf("failed to prepare last frame: %w", err)
		}
		inst.LastFrame = in
		model = videoModelStandard
	}

	start := &videoStartRequest{
		Instances:  []videoInstance{inst},
		Parameters: videoParameters{NumberOfVideos: 1, AspectRatio: "16:9"},
	}

	var op videoOperation
	u := fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning", c.baseURL, model)
	if err := c.postJSON(ctx, u, start, &op); err != nil {
		return "", fmt.Errorf("failed to start video generation: %w", err)
	}
	c.logger.Info(ctx, "video generation started", "model", model, "operation", op.Name)

	errPending := fmt.Errorf("video generation still running")
	err := retry.Do(ctx, retry.NewConstant(videoPollInterval), func(ctx context.Context) error {
		if op.Done {
			return nil
		}
		if err := c.getJSON(ctx, fmt.Sprintf("%s/v1beta/%s", c.baseURL, op.Name), &op); err != nil {
			return err
		}
		if !op.Done {
			return retry.RetryableError(errPending)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("video generation polling failed: %w", err)
	}

	if op.Error != nil {
		return "", fmt.Errorf("video generation failed: %s", op.Error.Message)
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return "", fmt.Errorf("video generation returned no result")
	}
	uri := op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
	if uri == "" {
		return "", fmt.Errorf("video generation returned no result")
	}
	return uri, nil
}

// buildVideoPrompt shapes the prompt for the three generation modes. With
// both frames present the model is steered hard towards converging on the
// end frame; motion continuing past it is the most common failure.
func buildVideoPrompt(req provider.VideoRequest) string {
	switch {
	case req.FirstFrame != "" && req.LastFrame != "":
		context := req.Prompt
		if context == "" {
			context = "Seamless transition"
		}
		return fmt.Sprintf(`VIDEO GENERATION TASK:
Start Image: Provided input A.
End Image: Provided input B.

Objective: Create a smooth, morphing transition that starts at A and ends EXACTLY at B.

CRITICAL INSTRUCTIONS:
1. The video MUST reach the End Image state by the final second.
2. Do NOT continue motion past the End Image.
3. The last frame of the video should match the provided End Image pixel-for-pixel if possible.
4. Motion must decay to zero at the end.

Context: %s.`, context)
	case req.FirstFrame != "":
		return fmt.Sprintf(`Animate this starting image based on the following description: %q.

Style: Cinematic, realistic motion, high resolution.
Keep the visual style consistent with the first frame.`, req.Prompt)
	default:
		return req.Prompt + ". Cinematic, high quality, 8k resolution."
	}
}
