// Package datauri encodes and decodes base64 data URIs, the embedded form
// used for media payloads before they are uploaded to object storage.
package datauri

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultMediaType = "application/octet-stream"

// Is reports whether s looks like a data URI.
func Is(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Parse splits a base64 data URI into its media type and payload. Only the
// base64 form is accepted; generated assets are always produced in that
// encoding.
func Parse(s string) (mediaType string, data []byte, err error) {
	if !Is(s) {
		return "", nil, fmt.Errorf("not a data URI")
	}
	head, payload, found := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URI: missing payload")
	}
	if !strings.HasSuffix(head, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URI encoding")
	}
	mediaType = strings.TrimSuffix(head, ";base64")
	if mediaType == "" {
		mediaType = defaultMediaType
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return mediaType, data, nil
}

// Encode is the inverse of Parse.
func Encode(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = defaultMediaType
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
