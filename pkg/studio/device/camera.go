package device

import (
	"context"
	"runtime"
)

type FfmpegCamera struct {
	bin    string
	format string
	device string
	run    Runner
}

var _ Camera = (*FfmpegCamera)(nil)

type FfmpegCameraOptions struct {
	Bin    string
	Format string
	Device string
	Runner Runner
}

func NewFfmpegCamera(opts FfmpegCameraOptions) *FfmpegCamera {
	if opts.Bin == "" {
		opts.Bin = "ffmpeg"
	}
	if opts.Format == "" || opts.Device == "" {
		format, device := defaultInput()
		if opts.Format == "" {
			opts.Format = format
		}
		if opts.Device == "" {
			opts.Device = device
		}
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner
	}

	return &FfmpegCamera{
		bin:    opts.Bin,
		format: opts.Format,
		device: opts.Device,
		run:    opts.Runner,
	}
}

// Capture overwrites path, which is expected to be a placeholder reserved by the caller.
func (c *FfmpegCamera) Capture(ctx context.Context, path string) error {
	return c.run(ctx, c.bin,
		"-hide_banner",
		"-loglevel", "error",
		"-f", c.format,
		"-i", c.device,
		"-frames:v", "1",
		"-y",
		path,
	)
}

func defaultInput() (string, string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", "0"
	case "windows":
		return "dshow", "video=Integrated Camera"
	default:
		return "v4l2", "/dev/video0"
	}
}
