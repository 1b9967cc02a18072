package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

const (
	VendorStability = "stability"

	DefaultBaseUrl = "https://api.stability.ai"

	submitPath = "/v2alpha/generation/image-to-video"
	resultPath = "/v2alpha/generation/image-to-video/result/"

	maxSeed = 4294967294
)

type StabilityClient struct {
	apiKey     string
	baseUrl    string
	httpClient *http.Client

	cfgScale       float64
	motionBucketId int
	seed           func() uint32
}

var _ Client = (*StabilityClient)(nil)

type StabilityClientOptions struct {
	ApiKey     string
	BaseUrl    string
	HttpClient *http.Client

	CfgScale       float64
	MotionBucketId int
	// Seed overrides the random seed source.
	Seed func() uint32
}

func NewStabilityClient(opts StabilityClientOptions) *StabilityClient {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.HttpClient == nil {
		opts.HttpClient = http.DefaultClient
	}
	if opts.CfgScale == 0 {
		opts.CfgScale = 4
	}
	if opts.MotionBucketId == 0 {
		opts.MotionBucketId = 200
	}
	if opts.Seed == nil {
		opts.Seed = RandomSeed
	}

	return &StabilityClient{
		apiKey:         opts.ApiKey,
		baseUrl:        strings.TrimRight(opts.BaseUrl, "/"),
		httpClient:     opts.HttpClient,
		cfgScale:       opts.CfgScale,
		motionBucketId: opts.MotionBucketId,
		seed:           opts.Seed,
	}
}

// RandomSeed returns a seed in [1, 4294967294].
func RandomSeed() uint32 {
	return uint32(rand.Int64N(maxSeed)) + 1
}

type submitResponse struct {
	ID string `json:"id"`
}

func (c *StabilityClient) Submit(ctx context.Context, imagePath string) (JobID, error) {
	body, contentType, err := c.submitBody(imagePath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+submitPath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform POST request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", vendorError(resp.StatusCode, respBody)
	}

	var submitted submitResponse
	if err := json.Unmarshal(respBody, &submitted); err != nil {
		return "", &errs.VendorError{Vendor: VendorStability, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response: %s", respBody)}
	}
	if submitted.ID == "" {
		return "", &errs.VendorError{Vendor: VendorStability, StatusCode: resp.StatusCode, Message: "response has no generation id"}
	}

	slog.Info("video generation submitted", "id", submitted.ID)

	return JobID(submitted.ID), nil
}

func (c *StabilityClient) submitBody(imagePath string) (io.Reader, string, error) {
	image, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer image.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", fmt.Errorf("failed to copy image: %w", err)
	}

	fields := map[string]string{
		"seed":             strconv.FormatUint(uint64(c.seed()), 10),
		"cfg_scale":        strconv.FormatFloat(c.cfgScale, 'f', -1, 64),
		"motion_bucket_id": strconv.Itoa(c.motionBucketId),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func (c *StabilityClient) Poll(ctx context.Context, id JobID) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+resultPath+string(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "video/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform GET request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		resp.Body.Close()
		slog.Debug("video generation in progress", "id", id)
		return &Status{Done: false}, nil
	case http.StatusOK:
		slog.Info("video generation complete", "id", id)
		return &Status{Done: true, Video: resp.Body}, nil
	default:
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, vendorError(resp.StatusCode, body)
	}
}

type errorResponse struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func vendorError(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case len(payload.Errors) > 0:
			message = strings.Join(payload.Errors, "; ")
		case payload.Message != "":
			message = payload.Message
		}
	}

	return &errs.VendorError{
		Vendor:     VendorStability,
		StatusCode: statusCode,
		Message:    message,
	}
}
