package setup

const (
	EnvOpenAiApiKey       = "OPENAI_API_KEY"
	EnvOpenAiBaseUrl      = "OPENAI_BASE_URL"
	EnvOpenAiImageModel   = "OPENAI_IMAGE_MODEL"
	EnvOpenAiImageQuality = "OPENAI_IMAGE_QUALITY"
	EnvOpenAiImageSize    = "OPENAI_IMAGE_SIZE"
	EnvOpenAiVisionModel  = "OPENAI_VISION_MODEL"
	EnvOpenAiSpeechModel  = "OPENAI_SPEECH_MODEL"
	EnvOpenAiSpeechVoice  = "OPENAI_SPEECH_VOICE"
	EnvStabilityApiKey    = "STABILITY_API_KEY"
	EnvStabilityBaseUrl   = "STABILITY_BASE_URL"
	EnvPinataJwtKey       = "PINATA_JWT_KEY"
	EnvOutputDir          = "STUDIO_OUTPUT_DIR"
	EnvApiAddr            = "STUDIO_API_ADDR"
	EnvEnv                = "STUDIO_ENV"
	EnvLogFile            = "STUDIO_LOG_FILE"
)
