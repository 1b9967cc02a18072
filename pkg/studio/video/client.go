package video

import (
	"context"
	"io"
)

// JobID identifies a submitted image-to-video generation.
type JobID string

// Status is the outcome of one poll. Video is set only when Done is true; the
// caller closes it.
type Status struct {
	Done  bool
	Video io.ReadCloser
}

type Client interface {
	Submit(ctx context.Context, imagePath string) (JobID, error)
	Poll(ctx context.Context, id JobID) (*Status, error)
}
