package objstore

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/models"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	if in.ContentType != nil {
		f.types[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func testClient(api s3API) *Client {
	return newClient(api, models.CloudConfig{
		ObjectStoreEndpoint: "https://cdn.example.com",
		ObjectStoreBucket:   "assets",
	}, logging.NewDefault())
}

func TestUpload(t *testing.T) {
	fake := newFakeS3()
	c := testClient(fake)

	file := &models.FileItem{
		ID:   "f1",
		Name: "sunset.png",
		Type: models.FileTypeImage,
		URL:  datauri.Encode("image/png", []byte("pngbytes")),
	}
	public, err := c.Upload(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/nebula-assets/images/f1_sunset.png", public)
	assert.Equal(t, []byte("pngbytes"), fake.objects["nebula-assets/images/f1_sunset.png"])
	assert.Equal(t, "image/png", fake.types["nebula-assets/images/f1_sunset.png"])
}

func TestUpload_HTTPShortCircuit(t *testing.T) {
	fake := newFakeS3()
	c := testClient(fake)

	file := &models.FileItem{ID: "f1", Name: "x", Type: models.FileTypeVideo, URL: "https://example.org/v.mp4"}
	public, err := c.Upload(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/v.mp4", public)
	assert.Empty(t, fake.objects)
}

func TestUpload_BadPayload(t *testing.T) {
	c := testClient(newFakeS3())
	file := &models.FileItem{ID: "f1", Name: "x", Type: models.FileTypeImage, URL: "garbage"}
	_, err := c.Upload(context.Background(), file)
	assert.Error(t, err)
}

func TestUpload_Unconfigured(t *testing.T) {
	var c *Client
	_, err := c.Upload(context.Background(), &models.FileItem{URL: "data:image/png;base64,aGk="})
	assert.ErrorIs(t, err, common.ErrConfigMissing)
}

func TestDelete(t *testing.T) {
	fake := newFakeS3()
	fake.objects["nebula-assets/images/f1_a.png"] = []byte("x")
	c := testClient(fake)
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "https://cdn.example.com/assets/nebula-assets/images/f1_a.png"))
	assert.Empty(t, fake.objects)

	// URLs outside the bucket are ignored
	require.NoError(t, c.Delete(ctx, "https://example.org/other.png"))
	require.NoError(t, c.Delete(ctx, "data:image/png;base64,aGk="))
	assert.Len(t, fake.deleted, 1)
}
