package studio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NethermindEth/yayois-studio/pkg/studio/art"
	"github.com/NethermindEth/yayois-studio/pkg/studio/artifact"
	"github.com/NethermindEth/yayois-studio/pkg/studio/batch"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/publish"
	"github.com/NethermindEth/yayois-studio/pkg/studio/report"
)

const maxSpinDirLength = 48

type GenerateRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style,omitempty"`
	Publish bool   `json:"publish,omitempty"`
}

type Generation struct {
	Prompt        string    `json:"prompt"`
	Style         string    `json:"style,omitempty"`
	Image         art.Image `json:"image"`
	LocalPath     string    `json:"local_path"`
	LocalUrl      string    `json:"local_url"`
	PublishedHash string    `json:"published_hash,omitempty"`
	ReportPath    string    `json:"report_path,omitempty"`
}

// Generate renders one image for the prompt, optionally in a style, keeps a
// local copy of it and writes a review page next to it.
func (s *Studio) Generate(ctx context.Context, request GenerateRequest) (*Generation, error) {
	generation, err := s.generate(ctx, s.store, request)
	if err != nil {
		return nil, err
	}

	reportPath, err := writeReport(s.store, generation.Prompt, []report.Entry{reportEntry(generation)}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	generation.ReportPath = reportPath

	return generation, nil
}

func (s *Studio) generate(ctx context.Context, store *artifact.Store, request GenerateRequest) (*Generation, error) {
	if s.artGenerator == nil {
		return nil, missing("image generator")
	}

	prompt := strings.TrimSpace(request.Prompt)
	if prompt == "" {
		return nil, errs.Validation("prompt is empty")
	}

	fullPrompt := prompt
	prefix := "image"
	if request.Style != "" {
		fullPrompt = art.StyledPrompt(prompt, request.Style)
		prefix = artifact.Slug(request.Style)
	}

	slog.Debug("generating image", "prompt", fullPrompt)

	image, err := s.artGenerator.Generate(ctx, fullPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	localPath, err := s.downloader.DownloadTo(ctx, store, image.URL, prefix, "image")
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	localUrl, err := artifact.FileUrl(localPath)
	if err != nil {
		return nil, err
	}

	generation := &Generation{
		Prompt:    prompt,
		Style:     request.Style,
		Image:     *image,
		LocalPath: localPath,
		LocalUrl:  localUrl,
	}

	slog.Info("generated image", "style", request.Style, "path", localPath)

	if request.Publish {
		hash, err := s.publish(ctx, generation)
		if err != nil {
			// The local artifact is the result; publishing is best effort.
			slog.Error("failed to publish image", "error", err)
		} else {
			generation.PublishedHash = hash
		}
	}

	return generation, nil
}

func (s *Studio) publish(ctx context.Context, generation *Generation) (string, error) {
	if s.publisher == nil {
		return "", missing("publisher")
	}

	name := generation.Prompt
	if generation.Style != "" {
		name = fmt.Sprintf("%s (%s)", generation.Prompt, generation.Style)
	}

	return s.publisher.Publish(ctx, publish.Metadata{
		Name:          name,
		Description:   art.StyledPrompt(generation.Prompt, generation.Style),
		ImageUrl:      generation.Image.URL,
		RevisedPrompt: generation.Image.RevisedPrompt,
	})
}

type SpinRequest struct {
	Prompt  string   `json:"prompt"`
	Styles  []string `json:"styles,omitempty"`
	Publish bool     `json:"publish,omitempty"`
}

type Spin struct {
	Prompt     string                     `json:"prompt"`
	Dir        string                     `json:"dir"`
	ReportPath string                     `json:"report_path"`
	Report     *batch.Report[*Generation] `json:"-"`
}

// Spin renders the prompt once per style into its own folder and writes an
// HTML page comparing the results. A failing style does not stop the others.
func (s *Studio) Spin(ctx context.Context, request SpinRequest) (*Spin, error) {
	if s.artGenerator == nil {
		return nil, missing("image generator")
	}

	prompt := strings.TrimSpace(request.Prompt)
	if prompt == "" {
		return nil, errs.Validation("prompt is empty")
	}

	styles := request.Styles
	if len(styles) == 0 {
		styles = art.DefaultStyles
	}

	store := s.store.Sub(spinDirName(prompt))

	slog.Info("spinning prompt", "prompt", prompt, "styles", len(styles), "dir", store.Dir())

	results := batch.Run(ctx, s.batchOptions, styles, func(ctx context.Context, index int, style string) (*Generation, error) {
		return s.generate(ctx, store, GenerateRequest{
			Prompt:  prompt,
			Style:   style,
			Publish: request.Publish,
		})
	})

	reportPath, err := writeSpinReport(store, prompt, results)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("spin finished", "succeeded", len(results.Succeeded()), "failed", len(results.Failed()), "report", reportPath)

	return &Spin{
		Prompt:     prompt,
		Dir:        store.Dir(),
		ReportPath: reportPath,
		Report:     results,
	}, nil
}

func writeSpinReport(store *artifact.Store, prompt string, results *batch.Report[*Generation]) (string, error) {
	var entries []report.Entry
	var failures []report.Failure

	for _, result := range results.Results {
		if !result.Ok() {
			failures = append(failures, report.Failure{
				Label: result.Label,
				Error: result.Err.Error(),
			})
			continue
		}

		entries = append(entries, reportEntry(result.Value))
	}

	return writeReport(store, prompt, entries, failures)
}

func reportEntry(generation *Generation) report.Entry {
	return report.Entry{
		Label:          generation.Style,
		ImageUrl:       generation.LocalUrl,
		OriginalPrompt: generation.Prompt,
		RevisedPrompt:  generation.Image.RevisedPrompt,
	}
}

func writeReport(store *artifact.Store, title string, entries []report.Entry, failures []report.Failure) (string, error) {
	content := &report.Report{
		Title:    title,
		Entries:  entries,
		Failures: failures,
	}

	var page bytes.Buffer
	if err := content.Render(&page); err != nil {
		return "", err
	}

	return store.Write("report", ".html", &page)
}

func spinDirName(prompt string) string {
	name := artifact.Slug(prompt)
	if len(name) > maxSpinDirLength {
		name = strings.TrimRight(name[:maxSpinDirLength], "-")
	}
	if name == "" {
		name = "spin"
	}
	return name
}
