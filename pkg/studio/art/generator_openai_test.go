package art_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/art"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("sk-test")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func TestOpenAiGenerator_Generate(t *testing.T) {
	var received openai.ImageRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images/generations", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"created":1,"data":[{"url":"https://cdn.test/kittens.png","revised_prompt":"kittens, revised"}]}`))
	})

	generator := art.NewOpenAiGenerator(client, art.OpenAiGeneratorOptions{Quality: openai.CreateImageQualityHD})

	image, err := generator.Generate(context.Background(), "kittens")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/kittens.png", image.URL)
	assert.Equal(t, "kittens, revised", image.RevisedPrompt)

	assert.Equal(t, "kittens", received.Prompt)
	assert.Equal(t, openai.CreateImageModelDallE3, received.Model)
	assert.Equal(t, openai.CreateImageQualityHD, received.Quality)
	assert.Equal(t, openai.CreateImageSize1024x1024, received.Size)
	assert.Equal(t, 1, received.N)
}

func TestOpenAiGenerator_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		contains string
	}{
		{
			name:     "vendor error payload",
			status:   http.StatusBadRequest,
			body:     `{"error":{"message":"Your request was rejected","type":"invalid_request_error"}}`,
			wantErr:  errs.ErrVendor,
			contains: "Your request was rejected",
		},
		{
			name:     "no images",
			status:   http.StatusOK,
			body:     `{"created":1,"data":[]}`,
			wantErr:  errs.ErrVendor,
			contains: "expected 1 image, got 0",
		},
		{
			name:     "empty url",
			status:   http.StatusOK,
			body:     `{"created":1,"data":[{"url":""}]}`,
			wantErr:  errs.ErrVendor,
			contains: "image url is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := art.NewOpenAiGenerator(client, art.OpenAiGeneratorOptions{}).Generate(context.Background(), "kittens")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestOpenAiGenerator_EmptyPrompt(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := art.NewOpenAiGenerator(client, art.OpenAiGeneratorOptions{}).Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Zero(t, calls)
}

func TestStyledPrompt(t *testing.T) {
	assert.Equal(t, "Lake, in the style of Pop Art", art.StyledPrompt("Lake", "Pop Art"))
	assert.Equal(t, "Lake", art.StyledPrompt("Lake", ""))
}

func TestReadStyles(t *testing.T) {
	styles, err := art.ReadStyles(strings.NewReader("Pop Art\n\n# comment\n  Voxel Art  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pop Art", "Voxel Art"}, styles)
}

func TestDefaultStyles(t *testing.T) {
	assert.Len(t, art.DefaultStyles, 77)

	seen := make(map[string]bool)
	for _, style := range art.DefaultStyles {
		assert.False(t, seen[style], "duplicate style %q", style)
		seen[style] = true
	}
}
