package publish_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/yayois-studio/pkg/studio/publish"
)

type mockUploader struct {
	uploadUrl  func(ctx context.Context, url string) (string, error)
	uploadJson func(ctx context.Context, json interface{}) (string, error)
}

func (m *mockUploader) UploadUrl(ctx context.Context, url string) (string, error) {
	return m.uploadUrl(ctx, url)
}

func (m *mockUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	return m.uploadJson(ctx, json)
}

func TestPublisher_Publish(t *testing.T) {
	publisher := publish.NewPublisher(&mockUploader{
		uploadUrl: func(ctx context.Context, url string) (string, error) {
			require.Equal(t, "https://cdn.test/kittens.png", url)
			return "QmImage", nil
		},
		uploadJson: func(ctx context.Context, json interface{}) (string, error) {
			require.Equal(t, map[string]string{
				"name":           "Pop Art",
				"description":    "Kittens, in the style of Pop Art",
				"image":          "ipfs://QmImage",
				"revised_prompt": "Playful kittens",
			}, json)
			return "QmMetadata", nil
		},
	})

	hash, err := publisher.Publish(context.Background(), publish.Metadata{
		Name:          "Pop Art",
		Description:   "Kittens, in the style of Pop Art",
		ImageUrl:      "https://cdn.test/kittens.png",
		RevisedPrompt: "Playful kittens",
	})
	require.NoError(t, err)
	assert.Equal(t, "QmMetadata", hash)
}

func TestPublisher_Errors(t *testing.T) {
	t.Run("image upload fails", func(t *testing.T) {
		publisher := publish.NewPublisher(&mockUploader{
			uploadUrl: func(ctx context.Context, url string) (string, error) {
				return "", assert.AnError
			},
		})

		_, err := publisher.Publish(context.Background(), publish.Metadata{ImageUrl: "https://cdn.test/a.png"})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("metadata upload fails", func(t *testing.T) {
		publisher := publish.NewPublisher(&mockUploader{
			uploadUrl: func(ctx context.Context, url string) (string, error) {
				return "QmImage", nil
			},
			uploadJson: func(ctx context.Context, json interface{}) (string, error) {
				return "", assert.AnError
			},
		})

		_, err := publisher.Publish(context.Background(), publish.Metadata{ImageUrl: "https://cdn.test/a.png"})
		assert.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "metadata")
	})
}
