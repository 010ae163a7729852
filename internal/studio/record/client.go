// Package record implements the remote record store adapter: a thin HTTP
// client over a Baserow-style row API. Every asset and user profile is one
// row with a Name column and a Notes column holding an opaque JSON blob.
package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/models"
)

const (
	// listPageSize caps list requests; only the first page is fetched.
	listPageSize = 200

	defaultTimeout = 30 * time.Second
)

// URLFixer rewrites an asset URL into its publicly reachable form. The
// object storage adapter provides the real implementation; a nil fixer
// leaves URLs untouched.
type URLFixer func(string) string

// Client talks to the record store. It is safe for concurrent use.
type Client struct {
	cfg    models.CloudConfig
	http   *http.Client
	fix    URLFixer
	logger logging.Logger
}

func NewClient(cfg models.CloudConfig, fix URLFixer, logger logging.Logger) *Client {
	if fix == nil {
		fix = func(s string) string { return s }
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		fix:    fix,
		logger: logger,
	}
}

// Configured reports whether the record store triple (URL, token, table) is
// complete. All operations fail with ErrConfigMissing otherwise.
func (c *Client) Configured() bool {
	return c.cfg.RecordStoreValid()
}

// row is the wire shape of a record store row with user field names enabled.
type row struct {
	ID    int64  `json:"id"`
	Name  string `json:"Name"`
	Notes string `json:"Notes"`
}

type listResponse struct {
	Results []row `json:"results"`
}

func (c *Client) tableURL() string {
	base := strings.TrimRight(c.cfg.RecordStoreURL, "/")
	return fmt.Sprintf("%s/api/database/rows/table/%s/", base, c.cfg.RecordStoreTableID)
}

func (c *Client) rowURL(rowID int64) string {
	return fmt.Sprintf("%s%d/?user_field_names=true", c.tableURL(), rowID)
}

func (c *Client) listURL(search string) string {
	u := c.tableURL() + fmt.Sprintf("?user_field_names=true&size=%d", listPageSize)
	if search != "" {
		u += "&search=" + url.QueryEscape(search)
	}
	return u
}

// doJSON performs one request against the record store, mapping auth and
// table errors to their sentinels. out may be nil when the response body is
// irrelevant.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.cfg.RecordStoreToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record store request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrTokenRejected
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrTableNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("record store returned status %d: %w", resp.StatusCode, common.ErrUnavailable)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode record store response: %w", err)
	}
	return nil
}

func (c *Client) listRows(ctx context.Context, search string) ([]row, error) {
	if !c.Configured() {
		return nil, common.ErrConfigMissing
	}
	var lr listResponse
	if err := c.doJSON(ctx, http.MethodGet, c.listURL(search), nil, &lr); err != nil {
		return nil, err
	}
	return lr.Results, nil
}

func (c *Client) createRow(ctx context.Context, name string, notes any) (int64, error) {
	if !c.Configured() {
		return 0, common.ErrConfigMissing
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return 0, fmt.Errorf("failed to encode notes blob: %w", err)
	}
	var created row
	payload := map[string]string{"Name": name, "Notes": string(data)}
	u := c.tableURL() + "?user_field_names=true"
	if err := c.doJSON(ctx, http.MethodPost, u, payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) updateNotes(ctx context.Context, rowID int64, notes any) error {
	if !c.Configured() {
		return common.ErrConfigMissing
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes blob: %w", err)
	}
	payload := map[string]string{"Notes": string(data)}
	return c.doJSON(ctx, http.MethodPatch, c.rowURL(rowID), payload, nil)
}

func (c *Client) getRow(ctx context.Context, rowID int64) (*row, error) {
	if !c.Configured() {
		return nil, common.ErrConfigMissing
	}
	var r row
	if err := c.doJSON(ctx, http.MethodGet, c.rowURL(rowID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRecord removes the row backing an asset. Deleting a row that is
// already gone is treated as success.
func (c *Client) DeleteRecord(ctx context.Context, rowID int64) error {
	if !c.Configured() {
		return common.ErrConfigMissing
	}
	err := c.doJSON(ctx, http.MethodDelete, c.rowURL(rowID), nil, nil)
	if errors.Is(err, common.ErrTableNotFound) {
		return nil
	}
	return err
}
