package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/datauri"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/provider"
)

// fakeAPI scripts responses per model name.
type fakeAPI struct {
	t *testing.T

	// status and reply per model; models absent from replies return 500
	replies map[string]generateResponse

	// captured requests per model
	requests map[string][]generateRequest

	videoOps []videoOperation
	opIdx    int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:        t,
		replies:  map[string]generateResponse{},
		requests: map[string][]generateRequest{},
	}
}

func textReply(text string) generateResponse {
	var r generateResponse
	r.Candidates = []struct {
		Content content `json:"content"`
	}{{Content: content{Parts: []part{{Text: text}}}}}
	return r
}

func imageReply(mime string, data []byte) generateResponse {
	var r generateResponse
	r.Candidates = []struct {
		Content content `json:"content"`
	}{{Content: content{Parts: []part{{InlineData: &inlineData{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}}}}}
	return r
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.t != nil {
			assert.Equal(f.t, "test-key", r.Header.Get("x-goog-api-key"))
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1beta/models/"), ":generateContent")
			var req generateRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.requests[model] = append(f.requests[model], req)

			reply, ok := f.replies[model]
			if !ok {
				http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(reply)

		case strings.HasSuffix(r.URL.Path, ":predictLongRunning"),
			strings.HasPrefix(r.URL.Path, "/v1beta/operations/"):
			require.Less(f.t, f.opIdx, len(f.videoOps), "unexpected extra poll")
			json.NewEncoder(w).Encode(f.videoOps[f.opIdx])
			f.opIdx++

		default:
			http.NotFound(w, r)
		}
	})
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient("test-key", logging.NewDefault(), WithBaseURL(srv.URL))
}

func TestGenerateImage_Primary(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[imageModelPrimary] = imageReply("image/png", []byte("png"))
	c := newTestClient(t, api)

	got, err := c.GenerateImage(context.Background(), "a cat", provider.ImageOptions{AspectRatio: "16:9"})
	require.NoError(t, err)
	assert.Equal(t, datauri.Encode("image/png", []byte("png")), got)

	req := api.requests[imageModelPrimary][0]
	require.NotNil(t, req.GenerationConfig)
	assert.Equal(t, "16:9", req.GenerationConfig.ImageConfig.AspectRatio)
}

func TestGenerateImage_FallsBackToFlash(t *testing.T) {
	api := newFakeAPI(t)
	// only the fallback model answers
	api.replies[imageModelFallback] = imageReply("image/png", []byte("flash"))
	c := newTestClient(t, api)

	got, err := c.GenerateImage(context.Background(), "a cat", provider.ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, datauri.Encode("image/png", []byte("flash")), got)
	assert.Len(t, api.requests[imageModelPrimary], 1)
	assert.Len(t, api.requests[imageModelFallback], 1)
}

func TestGenerateImage_BothModelsFail(t *testing.T) {
	c := newTestClient(t, newFakeAPI(t))
	_, err := c.GenerateImage(context.Background(), "a cat", provider.ImageOptions{})
	assert.ErrorContains(t, err, "image generation failed")
}

func TestEditImage_SendsInlineData(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[imageModelPrimary] = imageReply("image/png", []byte("edited"))
	c := newTestClient(t, api)

	src := datauri.Encode("image/jpeg", []byte("source"))
	_, err := c.EditImage(context.Background(), src, "make it blue")
	require.NoError(t, err)

	parts := api.requests[imageModelPrimary][0].Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MimeType)
	assert.Equal(t, "make it blue", parts[1].Text)
}

func TestUnconfigured(t *testing.T) {
	c := NewClient("", logging.NewDefault())
	_, err := c.GenerateImage(context.Background(), "x", provider.ImageOptions{})
	assert.ErrorIs(t, err, common.ErrConfigMissing)
}

func TestChat_PlainReply(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("Hello there.")
	c := newTestClient(t, api)

	reply, err := c.Chat(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", reply.Text)
	assert.Empty(t, reply.GeneratedImage)

	// history and system instruction are forwarded
	reply, err = c.Chat(context.Background(), []provider.ChatMessage{
		{Role: provider.RoleUser, Text: "earlier"},
		{Role: provider.RoleModel, Text: "answer"},
	}, "hi again")
	require.NoError(t, err)
	req := api.requests[chatModel][1]
	require.Len(t, req.Contents, 3)
	assert.Equal(t, "model", req.Contents[1].Role)
	require.NotNil(t, req.SystemInstruction)
	assert.Contains(t, req.SystemInstruction.Parts[0].Text, "[GENERATE:")
}

func TestChat_GenerationIntent(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("Sure, here is a cat. [generate: A fluffy cat]")
	api.replies[imageModelPrimary] = imageReply("image/png", []byte("cat"))
	c := newTestClient(t, api)

	reply, err := c.Chat(context.Background(), nil, "draw a cat")
	require.NoError(t, err)
	assert.Equal(t, "Sure, here is a cat.", reply.Text)
	assert.Equal(t, "A fluffy cat", reply.GeneratedPrompt)
	assert.Equal(t, datauri.Encode("image/png", []byte("cat")), reply.GeneratedImage)
}

func TestChat_IntentOnlyReplyGetsPlaceholderText(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("[GENERATE: a dog]")
	api.replies[imageModelPrimary] = imageReply("image/png", []byte("dog"))
	c := newTestClient(t, api)

	reply, err := c.Chat(context.Background(), nil, "draw a dog")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, `"a dog"`)
}

func TestChat_FailedFollowUpDegradesToNote(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("Okay. [GENERATE: a dog]")
	// no image models registered: both fail
	c := newTestClient(t, api)

	reply, err := c.Chat(context.Background(), nil, "draw a dog")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Okay.")
	assert.Contains(t, reply.Text, "encountered an error")
	assert.Empty(t, reply.GeneratedImage)
}

func TestEnhancePrompt(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("  A detailed cinematic prompt.  ")
	c := newTestClient(t, api)

	out, err := c.EnhancePrompt(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "A detailed cinematic prompt.", out)
}

func TestEnhancePrompt_EmptyReplyKeepsOriginal(t *testing.T) {
	api := newFakeAPI(t)
	api.replies[chatModel] = textReply("")
	c := newTestClient(t, api)

	out, err := c.EnhancePrompt(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "a cat", out)
}

func TestGenerateSpeech_WrapsPCMInWav(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	api := newFakeAPI(t)
	api.replies[ttsModel] = imageReply("audio/pcm", pcm)
	c := newTestClient(t, api)

	out, err := c.GenerateSpeech(context.Background(), "hello", "")
	require.NoError(t, err)

	mt, data, err := datauri.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", mt)
	require.Len(t, data, 44+len(pcm))
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, pcm, data[44:])

	cfg := api.requests[ttsModel][0].GenerationConfig
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"AUDIO"}, cfg.ResponseModalities)
	assert.Equal(t, "Kore", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGenerateVideo(t *testing.T) {
	api := newFakeAPI(t)
	done := videoOperation{Name: "operations/op1", Done: true}
	done.Response = &struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	}{}
	done.Response.GenerateVideoResponse.GeneratedSamples = make([]struct {
		Video struct {
			URI string `json:"uri"`
		} `json:"video"`
	}, 1)
	done.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI = "https://videos/v.mp4"

	// start response is already done: no poll sleeps in the test
	api.videoOps = []videoOperation{done}
	c := newTestClient(t, api)

	uri, err := c.GenerateVideo(context.Background(), provider.VideoRequest{Prompt: "waves"})
	require.NoError(t, err)
	assert.Equal(t, "https://videos/v.mp4", uri)
}

func TestGenerateVideo_OperationError(t *testing.T) {
	api := newFakeAPI(t)
	failed := videoOperation{Name: "operations/op1", Done: true}
	failed.Error = &struct {
		Message string `json:"message"`
	}{Message: "quota exceeded"}
	api.videoOps = []videoOperation{failed}
	c := newTestClient(t, api)

	_, err := c.GenerateVideo(context.Background(), provider.VideoRequest{Prompt: "waves"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestBuildVideoPrompt(t *testing.T) {
	p := buildVideoPrompt(provider.VideoRequest{Prompt: "waves"})
	assert.Equal(t, "waves. Cinematic, high quality, 8k resolution.", p)

	p = buildVideoPrompt(provider.VideoRequest{Prompt: "waves", FirstFrame: "data:x"})
	assert.Contains(t, p, "Animate this starting image")

	p = buildVideoPrompt(provider.VideoRequest{FirstFrame: "data:x", LastFrame: "data:y"})
	assert.Contains(t, p, "ends EXACTLY at B")
	assert.Contains(t, p, "Seamless transition")
}

func TestImageInput_RemoteURL(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		fmt.Fprint(w, "webpbytes")
	}))
	defer img.Close()

	c := NewClient("test-key", logging.NewDefault())
	in, err := c.imageInput(context.Background(), img.URL+"/pic")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", in.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("webpbytes")), in.Data)
}
