package speech

import (
	"context"
	"io"
)

// Synthesizer turns text into audio. The caller closes the returned stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}
