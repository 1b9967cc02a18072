package art

import "context"

// Image is what an image generation endpoint answers with: where the asset
// lives and the prompt the vendor actually rendered.
type Image struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}
