// Package objstore implements the S3-compatible object storage adapter.
// Assets arrive as data URIs, are uploaded under a deterministic key and
// addressed afterwards by their public path-style URL.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/models"
)

const (
	// keyPrefix namespaces all uploaded assets inside the bucket.
	keyPrefix = "nebula-assets"

	// defaultRegion matches the MinIO default; the region is meaningless
	// for path-style endpoints but the SDK requires one.
	defaultRegion = "us-east-1"
)

// s3API is the slice of the S3 client the adapter needs. Tests substitute
// an in-memory implementation.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client uploads and deletes assets and rewrites stored URLs into their
// publicly reachable form.
type Client struct {
	api        s3API
	bucket     string
	publicBase string
	logger     logging.Logger
}

// NewClient builds a client for the endpoint in cfg using path-style
// addressing and static credentials. Returns ErrConfigMissing when the
// object store parameters are incomplete.
func NewClient(ctx context.Context, cfg models.CloudConfig, logger logging.Logger) (*Client, error) {
	if !cfg.ObjectStoreValid() {
		return nil, common.ErrConfigMissing
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(defaultRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ObjectStoreAccessKey,
			cfg.ObjectStoreSecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.ObjectStoreEndpoint)
		o.UsePathStyle = true
	})

	return newClient(api, cfg, logger), nil
}

func newClient(api s3API, cfg models.CloudConfig, logger logging.Logger) *Client {
	return &Client{
		api:        api,
		bucket:     cfg.ObjectStoreBucket,
		publicBase: strings.TrimRight(cfg.ObjectStoreEndpoint, "/"),
		logger:     logger,
	}
}

// Configured reports whether the adapter has a usable endpoint.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// objectKey derives the deterministic storage key for a file.
func objectKey(file *models.FileItem) string {
	return fmt.Sprintf("%s/%ss/%s_%s", keyPrefix, file.Type, file.ID, file.Name)
}

// Upload stores the file's embedded payload and returns its public URL.
// Files that already carry an http(s) URL are returned unchanged without
// touching the store.
func (c *Client) Upload(ctx context.Context, file *models.FileItem) (string, error) {
	if strings.HasPrefix(file.URL, "http://") || strings.HasPrefix(file.URL, "https://") {
		return file.URL, nil
	}
	if !c.Configured() {
		return "", common.ErrConfigMissing
	}

	mediaType, data, err := datauri.Parse(file.URL)
	if err != nil {
		return "", fmt.Errorf("failed to decode embedded payload: %w", err)
	}

	key := objectKey(file)
	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	public := fmt.Sprintf("%s/%s/%s", c.publicBase, c.bucket, key)
	c.logger.Debug(ctx, "object uploaded", "key", key, "bytes", len(data))
	return public, nil
}

// Delete removes the object behind publicURL. URLs that do not point into
// the bucket (data URIs, external links) are ignored.
func (c *Client) Delete(ctx context.Context, publicURL string) error {
	if !c.Configured() {
		return common.ErrConfigMissing
	}
	key, ok := c.keyFromURL(publicURL)
	if !ok {
		return nil
	}
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// keyFromURL extracts the bucket-relative key from a path-style URL.
func (c *Client) keyFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	key, found := strings.CutPrefix(path, c.bucket+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}
