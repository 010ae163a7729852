// Package genai implements the generation provider over a Gemini-style REST
// API. Image, speech and chat results are returned as data URIs or plain
// text; video generation is a long-running operation polled to completion.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/provider"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"

	// Primary and fallback image models: the pro preview produces better
	// results but rejects more requests, so failures retry on flash.
	imageModelPrimary  = "gemini-3-pro-image-preview"
	imageModelFallback = "gemini-2.5-flash-image"

	chatModel = "gemini-2.5-flash"
	ttsModel  = "gemini-2.5-flash-preview-tts"

	defaultTimeout = 2 * time.Minute
)

// Client is an HTTP implementation of provider.Generator.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  logging.Logger
}

var _ provider.Generator = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithBaseURL points the client at a different API host. Used in tests and
// for self-hosted gateways.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func NewClient(apiKey string, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Wire types for the generateContent endpoint.

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig struct {
		VoiceName string `json:"voiceName"`
	} `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig  `json:"imageConfig,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generateContent performs one model call.
func (c *Client) generateContent(ctx context.Context, model string, req *generateRequest) (*generateResponse, error) {
	if !c.Configured() {
		return nil, common.ErrConfigMissing
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	var out generateResponse
	if err := c.postJSON(ctx, u, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, u string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("x-goog-api-key", c.apiKey)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode generation response: %w", err)
	}
	return nil
}

// imageInput normalizes an image argument into inline data. Data URIs are
// decoded in place; remote URLs are fetched and re-encoded.
func (c *Client) imageInput(ctx context.Context, input string) (*inlineData, error) {
	if input == "" {
		return nil, fmt.Errorf("input image is empty")
	}
	if datauri.Is(input) {
		mt, data, err := datauri.Parse(input)
		if err != nil {
			return nil, err
		}
		return &inlineData{MimeType: mt, Data: base64.StdEncoding.EncodeToString(data)}, nil
	}

	if strings.HasPrefix(input, "//") {
		input = "https:" + input
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch input image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch input image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read input image: %w", err)
	}
	return &inlineData{
		MimeType: inferImageType(resp.Header.Get("Content-Type"), input),
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

func inferImageType(contentType, url string) string {
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch {
	case strings.HasSuffix(url, ".jpg"), strings.HasSuffix(url, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(url, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}

// extractImage pulls the first inline image from a response as a data URI.
func extractImage(resp *generateResponse) (string, error) {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return "", fmt.Errorf("failed to decode image payload: %w", err)
				}
				return datauri.Encode(p.InlineData.MimeType, data), nil
			}
		}
	}
	return "", fmt.Errorf("no image data returned from API")
}

// extractText joins the text parts of the first candidate.
func extractText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
