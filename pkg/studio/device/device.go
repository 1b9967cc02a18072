package device

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Camera interface {
	// Capture grabs a single frame and writes it as an image to path.
	Capture(ctx context.Context, path string) error
}

type Player interface {
	// Play blocks until the audio file has been played.
	Play(ctx context.Context, path string) error
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func ExecRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	return nil
}
