package setup

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

type Config struct {
	OpenAiApiKey       string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAiBaseUrl      string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAiImageModel   string `yaml:"openai_image_model" env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-3"`
	OpenAiImageQuality string `yaml:"openai_image_quality" env:"OPENAI_IMAGE_QUALITY" env-default:"standard"`
	OpenAiImageSize    string `yaml:"openai_image_size" env:"OPENAI_IMAGE_SIZE" env-default:"1024x1024"`
	OpenAiVisionModel  string `yaml:"openai_vision_model" env:"OPENAI_VISION_MODEL" env-default:"gpt-4o"`
	OpenAiSpeechModel  string `yaml:"openai_speech_model" env:"OPENAI_SPEECH_MODEL" env-default:"tts-1"`
	OpenAiSpeechVoice  string `yaml:"openai_speech_voice" env:"OPENAI_SPEECH_VOICE" env-default:"nova"`

	StabilityApiKey  string `yaml:"stability_api_key" env:"STABILITY_API_KEY"`
	StabilityBaseUrl string `yaml:"stability_base_url" env:"STABILITY_BASE_URL" env-default:"https://api.stability.ai"`

	PinataJwtKey string `yaml:"pinata_jwt_key" env:"PINATA_JWT_KEY"`

	OutputDir string `yaml:"output_dir" env:"STUDIO_OUTPUT_DIR" env-default:"./output"`
	ApiAddr   string `yaml:"api_addr" env:"STUDIO_API_ADDR" env-default:":8080"`
	Env       string `yaml:"env" env:"STUDIO_ENV" env-default:"local"`
	LogFile   string `yaml:"log_file" env:"STUDIO_LOG_FILE"`
}

// Requirement names a group of settings a workflow cannot run without.
type Requirement int

const (
	RequireOpenAi Requirement = iota
	RequireStability
	RequirePinata
)

// NewConfigFromEnv reads the configuration from the process environment only.
func NewConfigFromEnv() (*Config, error) {
	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, errs.Config("failed to read env: %v", err)
	}

	return config, nil
}

// NewConfigFromFile reads a YAML file; environment variables override its values.
func NewConfigFromFile(path string) (*Config, error) {
	config := &Config{}
	if err := cleanenv.ReadConfig(path, config); err != nil {
		desc, _ := cleanenv.GetDescription(config, nil)
		return nil, errs.Config("failed to read %s: %v; %s", path, err, desc)
	}

	return config, nil
}

func (c *Config) Validate(requirements ...Requirement) error {
	for _, requirement := range requirements {
		switch requirement {
		case RequireOpenAi:
			if c.OpenAiApiKey == "" {
				return errs.Config("%s is required", EnvOpenAiApiKey)
			}
		case RequireStability:
			if c.StabilityApiKey == "" {
				return errs.Config("%s is required", EnvStabilityApiKey)
			}
		case RequirePinata:
			if c.PinataJwtKey == "" {
				return errs.Config("%s is required", EnvPinataJwtKey)
			}
		default:
			return fmt.Errorf("unknown requirement %d", requirement)
		}
	}

	if c.OutputDir == "" {
		return errs.Config("%s must not be empty", EnvOutputDir)
	}

	return nil
}
