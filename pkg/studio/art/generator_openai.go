package art

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

type OpenAiGenerator struct {
	client  *openai.Client
	model   string
	quality string
	size    string
}

var _ ImageGenerator = (*OpenAiGenerator)(nil)

type OpenAiGeneratorOptions struct {
	Model   string
	Quality string
	Size    string
}

func NewOpenAiGenerator(client *openai.Client, opts OpenAiGeneratorOptions) *OpenAiGenerator {
	if opts.Model == "" {
		opts.Model = openai.CreateImageModelDallE3
	}
	if opts.Quality == "" {
		opts.Quality = openai.CreateImageQualityStandard
	}
	if opts.Size == "" {
		opts.Size = openai.CreateImageSize1024x1024
	}

	return &OpenAiGenerator{
		client:  client,
		model:   opts.Model,
		quality: opts.Quality,
		size:    opts.Size,
	}
}

func (g *OpenAiGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errs.Validation("prompt is empty")
	}

	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Quality:        g.quality,
		Size:           g.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	}

	resp, err := g.client.CreateImage(ctx, req)
	if err != nil {
		return nil, errs.FromOpenAi(err)
	}

	if len(resp.Data) != 1 {
		return nil, &errs.VendorError{
			Vendor:  errs.VendorOpenAi,
			Message: fmt.Sprintf("expected 1 image, got %d", len(resp.Data)),
		}
	}

	if resp.Data[0].URL == "" {
		return nil, &errs.VendorError{Vendor: errs.VendorOpenAi, Message: "image url is empty"}
	}

	return &Image{
		URL:           resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// StyledPrompt appends a style label to a base prompt.
func StyledPrompt(prompt, style string) string {
	if style == "" {
		return prompt
	}
	return fmt.Sprintf("%s, in the style of %s", prompt, style)
}
