package caption_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/caption"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("sk-test")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func writeImage(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpenAiCaptioner_Describe(t *testing.T) {
	imageBytes := []byte("\x89PNG fake bytes")
	imagePath := writeImage(t, "photo.png", imageBytes)

	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  A cat on a sofa.  "}}]}`))
	})

	text, err := caption.NewOpenAiCaptioner(client, "").Describe(context.Background(), caption.Request{ImagePath: imagePath})
	require.NoError(t, err)
	assert.Equal(t, "A cat on a sofa.", text)

	assert.Equal(t, openai.GPT4o, received["model"])
	assert.EqualValues(t, caption.DefaultMaxTokens, received["max_tokens"])

	messages := received["messages"].([]any)
	require.Len(t, messages, 1)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, caption.DefaultInstruction, content[0].(map[string]any)["text"])

	imageUrl := content[1].(map[string]any)["image_url"].(map[string]any)["url"]
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(imageBytes), imageUrl)
}

func TestOpenAiCaptioner_Errors(t *testing.T) {
	t.Run("error payload", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
		})

		_, err := caption.NewOpenAiCaptioner(client, "").Describe(context.Background(), caption.Request{
			ImagePath: writeImage(t, "photo.jpg", []byte("jpeg")),
		})
		assert.ErrorIs(t, err, errs.ErrVendor)
		assert.ErrorContains(t, err, "Incorrect API key provided")
	})

	t.Run("no choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"1","choices":[]}`))
		})

		_, err := caption.NewOpenAiCaptioner(client, "").Describe(context.Background(), caption.Request{
			ImagePath: writeImage(t, "photo.png", []byte("png")),
		})
		assert.ErrorIs(t, err, errs.ErrVendor)
	})

	t.Run("unknown extension makes no request", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
		})

		_, err := caption.NewOpenAiCaptioner(client, "").Describe(context.Background(), caption.Request{
			ImagePath: writeImage(t, "notes.txt", []byte("text")),
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Zero(t, calls)
	})
}
