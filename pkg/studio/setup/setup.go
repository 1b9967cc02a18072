package setup

import (
	"fmt"
	"log/slog"

	"github.com/NethermindEth/yayois-studio/pkg/studio/debug"
	"github.com/NethermindEth/yayois-studio/pkg/studio/logging"
)

// Setup loads the configuration from configPath (or the environment when empty)
// and checks that every requirement is met. It never touches the network.
func Setup(configPath string, requirements ...Requirement) (*Config, error) {
	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(requirements...); err != nil {
		return nil, err
	}

	if debug.IsDebugShowSetup() {
		config.Log(slog.Default())
	}

	return config, nil
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return NewConfigFromEnv()
	}

	config, err := NewConfigFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// Log writes the resolved configuration with secrets masked.
func (c *Config) Log(logger *slog.Logger) {
	logger.Info("setup output",
		logging.Secret("openaiApiKey", c.OpenAiApiKey),
		slog.String("openaiBaseUrl", c.OpenAiBaseUrl),
		slog.String("openaiImageModel", c.OpenAiImageModel),
		slog.String("openaiImageQuality", c.OpenAiImageQuality),
		slog.String("openaiImageSize", c.OpenAiImageSize),
		slog.String("openaiVisionModel", c.OpenAiVisionModel),
		slog.String("openaiSpeechModel", c.OpenAiSpeechModel),
		slog.String("openaiSpeechVoice", c.OpenAiSpeechVoice),
		logging.Secret("stabilityApiKey", c.StabilityApiKey),
		slog.String("stabilityBaseUrl", c.StabilityBaseUrl),
		logging.Secret("pinataJwtKey", c.PinataJwtKey),
		slog.String("outputDir", c.OutputDir),
		slog.String("apiAddr", c.ApiAddr),
		slog.String("env", c.Env),
	)
}
