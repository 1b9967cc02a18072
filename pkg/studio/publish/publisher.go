package publish

import (
	"context"
	"fmt"

	"github.com/NethermindEth/yayois-studio/pkg/studio/filestorage"
)

// Publisher pins a generated image and a metadata document describing it.
type Publisher struct {
	uploader filestorage.Uploader
}

func NewPublisher(uploader filestorage.Uploader) *Publisher {
	return &Publisher{
		uploader: uploader,
	}
}

type Metadata struct {
	Name          string
	Description   string
	ImageUrl      string
	RevisedPrompt string
}

// Publish returns the content hash of the metadata document.
func (p *Publisher) Publish(ctx context.Context, metadata Metadata) (string, error) {
	imageIpfsHash, err := p.uploader.UploadUrl(ctx, metadata.ImageUrl)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to ipfs: %w", err)
	}

	document := map[string]string{
		"name":        metadata.Name,
		"description": metadata.Description,
		"image":       "ipfs://" + imageIpfsHash,
	}
	if metadata.RevisedPrompt != "" {
		document["revised_prompt"] = metadata.RevisedPrompt
	}

	metadataIpfsHash, err := p.uploader.UploadJson(ctx, document)
	if err != nil {
		return "", fmt.Errorf("failed to upload metadata to ipfs: %w", err)
	}

	return metadataIpfsHash, nil
}
