package caption

import "context"

const (
	DefaultInstruction = "Describe this image in about two sentences"
	DefaultMaxTokens   = 500
)

type Request struct {
	ImagePath   string
	Instruction string
	MaxTokens   int
}

type Captioner interface {
	Describe(ctx context.Context, req Request) (string, error)
}
