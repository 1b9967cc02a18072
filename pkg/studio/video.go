package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NethermindEth/yayois-studio/pkg/studio/imaging"
	"github.com/NethermindEth/yayois-studio/pkg/studio/poll"
	"github.com/NethermindEth/yayois-studio/pkg/studio/progress"
	"github.com/NethermindEth/yayois-studio/pkg/studio/video"
)

type VideoJobStatus string

const (
	VideoJobPending   VideoJobStatus = "pending"
	VideoJobCompleted VideoJobStatus = "completed"
	VideoJobFailed    VideoJobStatus = "failed"
)

type VideoJob struct {
	ID          string         `json:"id"`
	Status      VideoJobStatus `json:"status"`
	ResizedPath string         `json:"resized_path,omitempty"`
	VideoPath   string         `json:"video_path,omitempty"`
	Error       string         `json:"error,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Video struct {
	ResizedPath string      `json:"resized_path"`
	JobID       video.JobID `json:"job_id"`
	VideoPath   string      `json:"video_path"`
}

// Video resizes a square image to the size the video model expects, submits
// it and waits for the rendered clip.
func (s *Studio) Video(ctx context.Context, imagePath string) (*Video, error) {
	result, err := s.submitVideo(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "Waiting for video %s", result.JobID)
	videoPath, err := progress.Run(ctx, s.progress, ".", func(ctx context.Context) (string, error) {
		return s.awaitVideo(ctx, result.JobID)
	})
	if err != nil {
		return nil, err
	}

	result.VideoPath = videoPath

	return result, nil
}

func (s *Studio) submitVideo(ctx context.Context, imagePath string) (*Video, error) {
	if s.videoClient == nil {
		return nil, missing("video client")
	}

	src, err := imaging.DecodeFile(imagePath)
	if err != nil {
		return nil, err
	}

	resized, err := imaging.ResizeSquare(src, imaging.VideoSide)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePng(resized)
	if err != nil {
		return nil, err
	}

	resizedPath, err := s.store.Write("resized", ".png", encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to save resized image: %w", err)
	}

	slog.Info("resized image", "path", resizedPath)

	jobID, err := s.videoClient.Submit(ctx, resizedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to submit video job: %w", err)
	}

	slog.Info("submitted video job", "id", jobID)

	return &Video{
		ResizedPath: resizedPath,
		JobID:       jobID,
	}, nil
}

func (s *Studio) awaitVideo(ctx context.Context, jobID video.JobID) (string, error) {
	videoPath, err := poll.Until(ctx, s.pollPolicy, func(ctx context.Context, attempt int) (string, error) {
		status, err := s.videoClient.Poll(ctx, jobID)
		if err != nil {
			return "", err
		}
		if !status.Done {
			return "", poll.ErrPending
		}
		defer status.Video.Close()

		return s.store.Write("video", ".mp4", status.Video)
	})
	if err != nil {
		return "", fmt.Errorf("failed to await video job %s: %w", jobID, err)
	}

	slog.Info("saved video", "path", videoPath)

	return videoPath, nil
}

// StartVideoJob validates and submits the image synchronously, then polls in
// the background. Progress is visible through VideoJob.
func (s *Studio) StartVideoJob(ctx context.Context, imagePath string) (*VideoJob, error) {
	submitted, err := s.submitVideo(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	job := VideoJob{
		ID:          uuid.NewString(),
		Status:      VideoJobPending,
		ResizedPath: submitted.ResizedPath,
		UpdatedAt:   time.Now(),
	}
	s.videoJobs.Add(job.ID, job)

	go s.runVideoJob(job, submitted.JobID)

	return &job, nil
}

func (s *Studio) runVideoJob(job VideoJob, jobID video.JobID) {
	videoPath, err := s.awaitVideo(s.jobCtx, jobID)
	if err != nil {
		slog.Error("failed to complete video job", "id", job.ID, "error", err)
		job.Status = VideoJobFailed
		job.Error = err.Error()
	} else {
		job.Status = VideoJobCompleted
		job.VideoPath = videoPath
	}
	job.UpdatedAt = time.Now()

	s.videoJobs.Add(job.ID, job)
}

var ErrVideoJobNotFound = errors.New("video job not found")

func (s *Studio) VideoJob(id string) (*VideoJob, error) {
	job, ok := s.videoJobs.Get(id)
	if !ok {
		return nil, ErrVideoJobNotFound
	}
	return &job, nil
}
