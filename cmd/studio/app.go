package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/NethermindEth/yayois-studio/pkg/studio"
	"github.com/NethermindEth/yayois-studio/pkg/studio/art"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/logging"
	"github.com/NethermindEth/yayois-studio/pkg/studio/setup"
)

const (
	flagConfig      = "config"
	flagOutputDir   = "output-dir"
	flagVerbose     = "verbose"
	flagImage       = "image"
	flagNoPlay      = "no-play"
	flagStyle       = "style"
	flagStylesFile  = "styles-file"
	flagConcurrency = "concurrency"
	flagInterval    = "interval"
	flagPublish     = "publish"
)

// newApp builds the CLI. httpClient carries every vendor request; nil means
// http.DefaultClient.
func newApp(httpClient *http.Client) *cli.App {
	return &cli.App{
		Name:  "studio",
		Usage: "caption, narrate, generate and animate images with hosted AI models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML config file; environment variables override it",
				EnvVars: []string{"STUDIO_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagOutputDir,
				Aliases: []string{"o"},
				Usage:   "directory for generated artifacts",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "caption a photo and read the caption aloud",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagImage, Usage: "use this image instead of the camera"},
					&cli.BoolFlag{Name: flagNoPlay, Usage: "save the narration without playing it"},
				},
				Action: func(c *cli.Context) error {
					return runDescribe(c, httpClient)
				},
			},
			{
				Name:      "describe-folder",
				Usage:     "write a description file next to every image in a folder",
				ArgsUsage: "<dir>",
				Action: func(c *cli.Context) error {
					return runDescribeFolder(c, httpClient)
				},
			},
			{
				Name:      "generate",
				Usage:     "generate one image from a prompt",
				ArgsUsage: "<prompt>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagStyle, Usage: "style label appended to the prompt"},
					&cli.BoolFlag{Name: flagPublish, Usage: "pin the image and its metadata to IPFS"},
				},
				Action: func(c *cli.Context) error {
					return runGenerate(c, httpClient)
				},
			},
			{
				Name:      "spin",
				Usage:     "generate the prompt in many styles and write a comparison page",
				ArgsUsage: "<prompt>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: flagStyle, Usage: "style label, repeatable; defaults to the built-in list"},
					&cli.StringFlag{Name: flagStylesFile, Usage: "file with one style label per line"},
					&cli.IntFlag{Name: flagConcurrency, Value: 1, Usage: "styles generated at once"},
					&cli.DurationFlag{Name: flagInterval, Value: defaultInterval, Usage: "minimum spacing between requests"},
					&cli.BoolFlag{Name: flagPublish, Usage: "pin every image and its metadata to IPFS"},
				},
				Action: func(c *cli.Context) error {
					return runSpin(c, httpClient)
				},
			},
			{
				Name:      "video",
				Usage:     "turn a square image into a short video clip",
				ArgsUsage: "<image>",
				Action: func(c *cli.Context) error {
					return runVideo(c, httpClient)
				},
			},
			{
				Name:  "serve",
				Usage: "serve the workflows over HTTP",
				Action: func(c *cli.Context) error {
					return runServe(c, httpClient)
				},
			},
		},
	}
}

// loadStudio resolves the configuration, fails on missing requirements before
// any client exists, and builds the studio.
func loadStudio(c *cli.Context, httpClient *http.Client, requirements ...setup.Requirement) (*studio.Studio, error) {
	config, err := setup.Setup(c.String(flagConfig), requirements...)
	if err != nil {
		return nil, err
	}

	if outputDir := c.String(flagOutputDir); outputDir != "" {
		config.OutputDir = outputDir
	}

	logging.Setup(logging.Options{
		Env:     config.Env,
		LogFile: config.LogFile,
		Verbose: c.Bool(flagVerbose),
		Output:  c.App.ErrWriter,
	})

	studioConfig, err := studio.NewStudioConfigFromSetup(config, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create studio config: %w", err)
	}

	studioConfig.Input = c.App.Reader
	studioConfig.Output = c.App.Writer
	if c.IsSet(flagConcurrency) {
		studioConfig.BatchOptions.Concurrency = c.Int(flagConcurrency)
	}
	if c.IsSet(flagInterval) {
		studioConfig.BatchOptions.Interval = c.Duration(flagInterval)
	}

	s, err := studio.NewStudio(studioConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create studio: %w", err)
	}

	return s, nil
}

func firstArg(c *cli.Context, name string) (string, error) {
	if c.NArg() < 1 {
		return "", errs.Validation("missing %s argument", name)
	}
	return c.Args().First(), nil
}

func styles(c *cli.Context) ([]string, error) {
	labels := c.StringSlice(flagStyle)

	if path := c.String(flagStylesFile); path != "" {
		fromFile, err := art.ReadStylesFile(path)
		if err != nil {
			return nil, err
		}
		labels = append(labels, fromFile...)
	}

	return labels, nil
}

func batchFailed(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d items failed", failed, total)
}
