package caption

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/imaging"
)

type OpenAiCaptioner struct {
	client *openai.Client
	model  string
}

var _ Captioner = (*OpenAiCaptioner)(nil)

func NewOpenAiCaptioner(client *openai.Client, model string) *OpenAiCaptioner {
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAiCaptioner{
		client: client,
		model:  model,
	}
}

func (c *OpenAiCaptioner) Describe(ctx context.Context, req Request) (string, error) {
	imageUrl, err := EncodeDataUrl(req.ImagePath)
	if err != nil {
		return "", err
	}

	if req.Instruction == "" {
		req.Instruction = DefaultInstruction
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Instruction,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageUrl},
					},
				},
			},
		},
	})
	if err != nil {
		return "", errs.FromOpenAi(err)
	}

	if len(resp.Choices) == 0 {
		return "", &errs.VendorError{Vendor: errs.VendorOpenAi, Message: "unexpected response: no choices"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// EncodeDataUrl reads a PNG or JPEG file into a base64 data URL. The extension
// is checked before the file is read.
func EncodeDataUrl(path string) (string, error) {
	mimeType, err := imaging.MimeTypeFor(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
