package studio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NethermindEth/yayois-studio/pkg/studio/artifact"
	"github.com/NethermindEth/yayois-studio/pkg/studio/batch"
	"github.com/NethermindEth/yayois-studio/pkg/studio/caption"
	"github.com/NethermindEth/yayois-studio/pkg/studio/device"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/progress"
)

const (
	folderInstruction = "Describe this image"
	folderMaxTokens   = 300

	descriptionSuffix = "_desc.txt"
)

type DescribeOptions struct {
	// ImagePath skips the camera when set.
	ImagePath string
	// Play narrates the description through the player.
	Play bool
}

type Narration struct {
	ImagePath   string `json:"image_path"`
	Description string `json:"description"`
	AudioPath   string `json:"audio_path"`
}

// Describe captures (or reads) an image, captions it, narrates the caption to
// an MP3 and optionally plays it. It returns nil without error when the user
// quits the capture prompt.
func (s *Studio) Describe(ctx context.Context, opts DescribeOptions) (*Narration, error) {
	if s.captioner == nil {
		return nil, missing("captioner")
	}
	if s.synthesizer == nil {
		return nil, missing("speech synthesizer")
	}
	if opts.Play && s.player == nil {
		return nil, missing("audio player")
	}

	imagePath := opts.ImagePath
	if imagePath == "" {
		captured, err := s.capture(ctx)
		if err != nil {
			return nil, err
		}
		if captured == "" {
			slog.Info("no image captured")
			return nil, nil
		}
		imagePath = captured
	}

	slog.Info("acquired image", "path", imagePath)

	fmt.Fprint(s.output, "Describing image")
	description, err := progress.Run(ctx, s.progress, ".", func(ctx context.Context) (string, error) {
		return s.captioner.Describe(ctx, caption.Request{ImagePath: imagePath})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe image: %w", err)
	}

	fmt.Fprintf(s.output, "--------------------\n%s\n--------------------\n", description)

	fmt.Fprint(s.output, "Generating narration")
	audioPath, err := progress.Run(ctx, s.progress, "*", func(ctx context.Context) (string, error) {
		audio, err := s.synthesizer.Synthesize(ctx, description)
		if err != nil {
			return "", err
		}
		defer audio.Close()

		return s.store.Write("narration", ".mp3", audio)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate narration: %w", err)
	}

	slog.Info("saved narration", "path", audioPath)

	if opts.Play {
		fmt.Fprintf(s.output, "Playing %s", audioPath)
		if err := progress.Do(ctx, s.progress, ">", func(ctx context.Context) error {
			return s.player.Play(ctx, audioPath)
		}); err != nil {
			return nil, fmt.Errorf("failed to play narration: %w", err)
		}
	}

	return &Narration{
		ImagePath:   imagePath,
		Description: description,
		AudioPath:   audioPath,
	}, nil
}

func (s *Studio) capture(ctx context.Context) (string, error) {
	if s.camera == nil {
		return "", missing("camera")
	}

	ok, err := device.AwaitCapture(ctx, s.input, s.output)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	path, err := s.store.Path("photo", ".png")
	if err != nil {
		return "", err
	}

	if err := s.camera.Capture(ctx, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to capture photo: %w", err)
	}

	return path, nil
}

// DescribeFolder captions every image in dir and writes each caption next to
// its image as <name>_desc.txt. Images that already have a description are
// reported with errs.ErrExists and left untouched.
func (s *Studio) DescribeFolder(ctx context.Context, dir string) (*batch.Report[string], error) {
	if s.captioner == nil {
		return nil, missing("captioner")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasSuffix(entry.Name(), descriptionSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	slog.Info("describing folder", "dir", dir, "files", len(paths))

	report := batch.Run(ctx, s.batchOptions, paths, func(ctx context.Context, index int, imagePath string) (string, error) {
		return s.describeFile(ctx, imagePath)
	})

	return report, nil
}

func (s *Studio) describeFile(ctx context.Context, imagePath string) (string, error) {
	descriptionPath := DescriptionPath(imagePath)
	if _, err := os.Stat(descriptionPath); err == nil {
		return "", fmt.Errorf("%w: %s", errs.ErrExists, descriptionPath)
	}

	description, err := s.captioner.Describe(ctx, caption.Request{
		ImagePath:   imagePath,
		Instruction: folderInstruction,
		MaxTokens:   folderMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe %s: %w", filepath.Base(imagePath), err)
	}

	if err := artifact.WriteFileExclusive(descriptionPath, []byte(description)); err != nil {
		return "", fmt.Errorf("failed to write description: %w", err)
	}

	slog.Info("wrote description", "path", descriptionPath)

	return descriptionPath, nil
}

// DescriptionPath is where the caption of imagePath is stored.
func DescriptionPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + descriptionSuffix
}
