package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/NethermindEth/yayois-studio/pkg/studio"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/setup"
)

const defaultInterval = time.Second

func runDescribe(c *cli.Context, httpClient *http.Client) error {
	s, err := loadStudio(c, httpClient, setup.RequireOpenAi)
	if err != nil {
		return err
	}

	narration, err := s.Describe(c.Context, studio.DescribeOptions{
		ImagePath: c.String(flagImage),
		Play:      !c.Bool(flagNoPlay),
	})
	if err != nil {
		return err
	}
	if narration == nil {
		return nil
	}

	fmt.Fprintf(c.App.Writer, "Narration saved to %s\n", narration.AudioPath)
	return nil
}

func runDescribeFolder(c *cli.Context, httpClient *http.Client) error {
	dir, err := firstArg(c, "dir")
	if err != nil {
		return err
	}

	s, err := loadStudio(c, httpClient, setup.RequireOpenAi)
	if err != nil {
		return err
	}

	report, err := s.DescribeFolder(c.Context, dir)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range report.Results {
		switch {
		case result.Ok():
			fmt.Fprintf(c.App.Writer, "%s -> %s\n", result.Label, result.Value)
		case errors.Is(result.Err, errs.ErrExists):
			fmt.Fprintf(c.App.Writer, "%s skipped, description exists\n", result.Label)
		default:
			failed++
			fmt.Fprintf(c.App.Writer, "%s failed: %v\n", result.Label, result.Err)
		}
	}

	return batchFailed(failed, len(report.Results))
}

func runGenerate(c *cli.Context, httpClient *http.Client) error {
	prompt, err := firstArg(c, "prompt")
	if err != nil {
		return err
	}

	requirements := []setup.Requirement{setup.RequireOpenAi}
	if c.Bool(flagPublish) {
		requirements = append(requirements, setup.RequirePinata)
	}

	s, err := loadStudio(c, httpClient, requirements...)
	if err != nil {
		return err
	}

	generation, err := s.Generate(c.Context, studio.GenerateRequest{
		Prompt:  prompt,
		Style:   c.String(flagStyle),
		Publish: c.Bool(flagPublish),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Image saved to %s\n", generation.LocalPath)
	fmt.Fprintf(c.App.Writer, "Report saved to %s\n", generation.ReportPath)
	fmt.Fprintf(c.App.Writer, "Revised prompt: %s\n", generation.Image.RevisedPrompt)
	if generation.PublishedHash != "" {
		fmt.Fprintf(c.App.Writer, "Metadata pinned at ipfs://%s\n", generation.PublishedHash)
	}

	return nil
}

func runSpin(c *cli.Context, httpClient *http.Client) error {
	prompt, err := firstArg(c, "prompt")
	if err != nil {
		return err
	}

	labels, err := styles(c)
	if err != nil {
		return err
	}

	requirements := []setup.Requirement{setup.RequireOpenAi}
	if c.Bool(flagPublish) {
		requirements = append(requirements, setup.RequirePinata)
	}

	s, err := loadStudio(c, httpClient, requirements...)
	if err != nil {
		return err
	}

	spin, err := s.Spin(c.Context, studio.SpinRequest{
		Prompt:  prompt,
		Styles:  labels,
		Publish: c.Bool(flagPublish),
	})
	if err != nil {
		return err
	}

	for _, result := range spin.Report.Failed() {
		fmt.Fprintf(c.App.Writer, "%s failed: %v\n", result.Label, result.Err)
	}
	fmt.Fprintf(c.App.Writer, "Report saved to %s\n", spin.ReportPath)

	return batchFailed(len(spin.Report.Failed()), len(spin.Report.Results))
}

func runVideo(c *cli.Context, httpClient *http.Client) error {
	imagePath, err := firstArg(c, "image")
	if err != nil {
		return err
	}

	s, err := loadStudio(c, httpClient, setup.RequireStability)
	if err != nil {
		return err
	}

	result, err := s.Video(c.Context, imagePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Video saved to %s\n", result.VideoPath)
	return nil
}

func runServe(c *cli.Context, httpClient *http.Client) error {
	s, err := loadStudio(c, httpClient, setup.RequireOpenAi, setup.RequireStability)
	if err != nil {
		return err
	}

	if err := s.StartServer(c.Context); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-c.Context.Done()
	slog.Info("server stopped")

	if errors.Is(c.Context.Err(), context.Canceled) {
		return nil
	}
	return c.Context.Err()
}
