package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sashabaranov/go-openai"

	"github.com/NethermindEth/yayois-studio/pkg/studio/art"
	"github.com/NethermindEth/yayois-studio/pkg/studio/artifact"
	"github.com/NethermindEth/yayois-studio/pkg/studio/batch"
	"github.com/NethermindEth/yayois-studio/pkg/studio/caption"
	"github.com/NethermindEth/yayois-studio/pkg/studio/device"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
	"github.com/NethermindEth/yayois-studio/pkg/studio/filestorage"
	"github.com/NethermindEth/yayois-studio/pkg/studio/poll"
	"github.com/NethermindEth/yayois-studio/pkg/studio/progress"
	"github.com/NethermindEth/yayois-studio/pkg/studio/publish"
	"github.com/NethermindEth/yayois-studio/pkg/studio/setup"
	"github.com/NethermindEth/yayois-studio/pkg/studio/speech"
	"github.com/NethermindEth/yayois-studio/pkg/studio/video"
)

type Studio struct {
	artGenerator art.ImageGenerator
	captioner    caption.Captioner
	synthesizer  speech.Synthesizer
	videoClient  video.Client
	camera       device.Camera
	player       device.Player
	publisher    *publish.Publisher
	store        *artifact.Store
	downloader   *artifact.Downloader
	progress     *progress.Reporter

	apiRouter     *gin.Engine
	apiRouterOnce sync.Once

	input  io.Reader
	output io.Writer

	videoJobs  *expirable.LRU[string, VideoJob]
	jobCtx     context.Context
	cancelJobs context.CancelFunc

	pollPolicy   poll.Policy
	batchOptions batch.Options
	apiAddr      string
}

type StudioConfig struct {
	ArtGenerator art.ImageGenerator
	Captioner    caption.Captioner
	Synthesizer  speech.Synthesizer
	VideoClient  video.Client
	Camera       device.Camera
	Player       device.Player
	Uploader     filestorage.Uploader
	HttpClient   *http.Client

	// Input and Output carry the capture prompt and progress marks.
	Input            io.Reader
	Output           io.Writer
	ProgressInterval time.Duration

	OutputDir    string
	PollPolicy   poll.Policy
	BatchOptions batch.Options
	ApiAddr      string
}

const (
	videoJobCacheSize = 1000
	videoJobCacheTTL  = 1 * time.Hour

	defaultBatchInterval = 1 * time.Second
)

func NewStudio(config *StudioConfig) (*Studio, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}

	store, err := artifact.NewStore(artifact.StoreOptions{Dir: config.OutputDir})
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}

	pollPolicy := config.PollPolicy
	if pollPolicy == (poll.Policy{}) {
		pollPolicy = poll.DefaultPolicy()
	}
	if err := pollPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poll policy: %w", err)
	}

	input := config.Input
	if input == nil {
		input = os.Stdin
	}
	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	var publisher *publish.Publisher
	if config.Uploader != nil {
		publisher = publish.NewPublisher(config.Uploader)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())

	studio := &Studio{
		artGenerator: config.ArtGenerator,
		captioner:    config.Captioner,
		synthesizer:  config.Synthesizer,
		videoClient:  config.VideoClient,
		camera:       config.Camera,
		player:       config.Player,
		publisher:    publisher,
		store:        store,
		downloader:   artifact.NewDownloader(config.HttpClient, store),
		progress:     progress.NewReporter(output, config.ProgressInterval),

		input:  input,
		output: output,

		videoJobs:  expirable.NewLRU[string, VideoJob](videoJobCacheSize, nil, videoJobCacheTTL),
		jobCtx:     jobCtx,
		cancelJobs: cancelJobs,

		pollPolicy:   pollPolicy,
		batchOptions: config.BatchOptions,
		apiAddr:      config.ApiAddr,
	}

	return studio, nil
}

// NewStudioConfigFromSetup builds the vendor clients the configuration has
// credentials for. Workflows whose collaborator is missing fail with a
// configuration error.
func NewStudioConfigFromSetup(config *setup.Config, httpClient *http.Client) (*StudioConfig, error) {
	if config == nil {
		return nil, errors.New("setup config is nil")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	studioConfig := &StudioConfig{
		Camera:     device.NewFfmpegCamera(device.FfmpegCameraOptions{}),
		Player:     device.NewFfplayPlayer("", nil),
		HttpClient: httpClient,

		OutputDir: config.OutputDir,
		BatchOptions: batch.Options{
			Concurrency: 1,
			Interval:    defaultBatchInterval,
		},
		ApiAddr: config.ApiAddr,
	}

	if config.OpenAiApiKey != "" {
		openAiConfig := openai.DefaultConfig(config.OpenAiApiKey)
		if config.OpenAiBaseUrl != "" {
			openAiConfig.BaseURL = config.OpenAiBaseUrl
		}
		openAiConfig.HTTPClient = httpClient
		client := openai.NewClientWithConfig(openAiConfig)

		studioConfig.ArtGenerator = art.NewOpenAiGenerator(client, art.OpenAiGeneratorOptions{
			Model:   config.OpenAiImageModel,
			Quality: config.OpenAiImageQuality,
			Size:    config.OpenAiImageSize,
		})
		studioConfig.Captioner = caption.NewOpenAiCaptioner(client, config.OpenAiVisionModel)
		studioConfig.Synthesizer = speech.NewOpenAiSynthesizer(client, config.OpenAiSpeechModel, config.OpenAiSpeechVoice)
	}

	if config.StabilityApiKey != "" {
		studioConfig.VideoClient = video.NewStabilityClient(video.StabilityClientOptions{
			ApiKey:     config.StabilityApiKey,
			BaseUrl:    config.StabilityBaseUrl,
			HttpClient: httpClient,
		})
	}

	if config.PinataJwtKey != "" {
		studioConfig.Uploader = filestorage.NewPinataUploader(config.PinataJwtKey)
	}

	return studioConfig, nil
}

func (s *Studio) OutputDir() string {
	return s.store.Dir()
}

func (s *Studio) ApiAddr() string {
	return s.apiAddr
}

func missing(collaborator string) error {
	return errs.Config("%s is not configured", collaborator)
}
