package speech_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/speech"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("sk-test")
	config.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(config)
}

func TestOpenAiSynthesizer_Synthesize(t *testing.T) {
	var received openai.CreateSpeechRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 mp3 bytes"))
	})

	audio, err := speech.NewOpenAiSynthesizer(client, "", "").Synthesize(context.Background(), "A cat on a sofa.")
	require.NoError(t, err)
	defer audio.Close()

	data, err := io.ReadAll(audio)
	require.NoError(t, err)
	assert.Equal(t, "ID3 mp3 bytes", string(data))

	assert.Equal(t, openai.TTSModel1, received.Model)
	assert.Equal(t, openai.VoiceNova, received.Voice)
	assert.Equal(t, "A cat on a sofa.", received.Input)
}

func TestOpenAiSynthesizer_Errors(t *testing.T) {
	t.Run("vendor error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"input too long","type":"invalid_request_error"}}`))
		})

		_, err := speech.NewOpenAiSynthesizer(client, "", "").Synthesize(context.Background(), "hello")
		assert.ErrorIs(t, err, errs.ErrVendor)
		assert.ErrorContains(t, err, "input too long")
	})

	t.Run("empty text", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
		})

		_, err := speech.NewOpenAiSynthesizer(client, "", "").Synthesize(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Zero(t, calls)
	})
}
