// Package toolkit implements the media job provider over an NCA-style
// toolkit API. Jobs operate on already-public URLs; results come back as a
// URL (rewritten to public form) or, for direct downloads, a data URI.
package toolkit

import (
	"bytes"
	"context"
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

const defaultTimeout = 5 * time.Minute

// URLFixer rewrites a toolkit result URL into its public form. A nil fixer
// leaves URLs untouched.
type URLFixer func(string) string

// Client is an HTTP implementation of provider.MediaJobs.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	fix     URLFixer
	logger  logging.Logger
}

var _ provider.MediaJobs = (*Client)(nil)

func NewClient(rawURL, apiKey string, fix URLFixer, logger logging.Logger) *Client {
	if fix == nil {
		fix = func(s string) string { return s }
	}
	return &Client{
		baseURL: sanitizeURL(rawURL),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		fix:     fix,
		logger:  logger,
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// sanitizeURL normalizes a user-entered toolkit URL: defaults the protocol
// to https, strips trailing slashes and a trailing /v1 (the client adds /v1
// itself on every endpoint).
func sanitizeURL(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}
	if !strings.HasPrefix(clean, "http") {
		clean = "https://" + clean
	}
	clean = strings.TrimRight(clean, "/")
	clean = strings.TrimSuffix(clean, "/v1")
	return clean
}

// TestConnection checks reachability and key validity against the toolkit's
// test endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.Configured() {
		return common.ErrConfigMissing
	}
	if c.apiKey == "" {
		return common.ErrConfigMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/toolkit/test", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("toolkit connection test failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("toolkit returned status %d: %w", resp.StatusCode, common.ErrUnavailable)
	}
	return nil
}

// Concatenate joins videos in order, optionally replacing the audio track.
// At least two public http(s) URLs are required; embedded data URIs must be
// uploaded first.
func (c *Client) Concatenate(ctx context.Context, videoURLs []string, audioURL string) (string, error) {
	valid := make([]string, 0, len(videoURLs))
	for _, u := range videoURLs {
		if strings.HasPrefix(u, "http") {
			valid = append(valid, u)
		}
	}
	if len(valid) < 2 {
		return "", fmt.Errorf("need at least 2 public http(s) video URLs")
	}

	urls := make([]map[string]string, len(valid))
	for i, u := range valid {
		urls[i] = map[string]string{"video_url": u}
	}
	payload := map[string]any{
		"video_urls": urls,
		"id":         fmt.Sprintf("concat_%d", time.Now().UnixMilli()),
	}
	if strings.HasPrefix(audioURL, "http") {
		payload["audio_url"] = audioURL
	}
	return c.sendJob(ctx, "/v1/video/concatenate", payload)
}

// LipSync animates the face in videoURL to match audioURL. Both inputs must
// already be public.
func (c *Client) LipSync(ctx context.Context, videoURL, audioURL string) (string, error) {
	if !strings.HasPrefix(videoURL, "http") || !strings.HasPrefix(audioURL, "http") {
		return "", fmt.Errorf("both video and audio must be uploaded to cloud storage first")
	}
	payload := map[string]any{
		"video_url": videoURL,
		"audio_url": audioURL,
		"id":        fmt.Sprintf("lipsync_%d", time.Now().UnixMilli()),
	}
	return c.sendJob(ctx, "/v1/video/lip-sync", payload)
}

// sendJob posts a job and normalizes the result. JSON envelopes carry the
// result URL under one of several field names depending on the job type;
// non-JSON bodies are direct downloads and come back as a data URI.
func (c *Client) sendJob(ctx context.Context, endpoint string, payload any) (string, error) {
	if !c.Configured() {
		return "", common.ErrConfigMissing
	}
	if c.apiKey == "" {
		return "", common.ErrConfigMissing
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode job payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	c.logger.Debug(ctx, "toolkit job submitted", "endpoint", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("toolkit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("toolkit returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read toolkit response: %w", err)
		}
		return c.fix(normalizeResult(raw)), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read toolkit download: %w", err)
	}
	return datauri.Encode(resp.Header.Get("Content-Type"), data), nil
}

// normalizeResult extracts the job result from a JSON envelope. The fields
// are tried in the order the toolkit documents them.
func normalizeResult(raw []byte) string {
	env := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return string(raw)
	}

	for _, key := range []string{"response", "url", "file_url"} {
		if v, ok := env[key]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s != "" {
				return s
			}
		}
	}
	if v, ok := env["result"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return string(v)
	}
	return string(raw)
}
