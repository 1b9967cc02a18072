package studio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NethermindEth/yayois-studio/pkg/studio/art"
	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

type videoRequest struct {
	Image string `json:"image" binding:"required"`
}

type videoResponse struct {
	ID string `json:"id"`
}

type spinFailure struct {
	Style string `json:"style"`
	Error string `json:"error"`
}

type spinResponse struct {
	Prompt     string        `json:"prompt"`
	Dir        string        `json:"dir"`
	ReportPath string        `json:"report_path"`
	Images     []*Generation `json:"images"`
	Failures   []spinFailure `json:"failures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Studio) generateRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/styles", func(c *gin.Context) {
		c.JSON(http.StatusOK, art.DefaultStyles)
	})

	router.POST("/images", func(c *gin.Context) {
		var request GenerateRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		generation, err := s.Generate(c.Request.Context(), request)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, generation)
	})

	router.POST("/spins", func(c *gin.Context) {
		var request SpinRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		spin, err := s.Spin(c.Request.Context(), request)
		if err != nil {
			abortWithError(c, err)
			return
		}

		response := spinResponse{
			Prompt:     spin.Prompt,
			Dir:        spin.Dir,
			ReportPath: spin.ReportPath,
			Images:     []*Generation{},
			Failures:   []spinFailure{},
		}
		for _, result := range spin.Report.Results {
			if result.Ok() {
				response.Images = append(response.Images, result.Value)
			} else {
				response.Failures = append(response.Failures, spinFailure{Style: result.Label, Error: result.Err.Error()})
			}
		}

		c.JSON(http.StatusOK, response)
	})

	router.POST("/videos", func(c *gin.Context) {
		var request videoRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		imagePath, err := s.resolveArtifactPath(request.Image)
		if err != nil {
			abortWithError(c, err)
			return
		}

		job, err := s.StartVideoJob(c.Request.Context(), imagePath)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, videoResponse{ID: job.ID})
	})

	router.GET("/videos/:id", func(c *gin.Context) {
		job, err := s.VideoJob(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, job)
	})

	router.Static("/artifacts", s.OutputDir())

	return router
}

// resolveArtifactPath maps a client-supplied path to a file inside the output
// directory. Relative paths are taken from the output directory; anything that
// resolves outside it, symlinks included, is rejected.
func (s *Studio) resolveArtifactPath(name string) (string, error) {
	root, err := filepath.EvalSymlinks(s.OutputDir())
	if err != nil {
		root = s.OutputDir()
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.OutputDir(), path)
	}
	path = filepath.Clean(path)

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", errs.Validation("image %q is not readable", name)
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", errs.Validation("image %q is outside the output directory", name)
	}

	return resolved, nil
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrVendor):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetRouter builds the router on first use so CLI workflows never set up gin.
func (s *Studio) GetRouter() *gin.Engine {
	s.apiRouterOnce.Do(func() {
		s.apiRouter = s.generateRouter()
	})
	return s.apiRouter
}

// StartServer serves the API until ctx is done. Background video jobs are
// cancelled when ctx is done.
func (s *Studio) StartServer(ctx context.Context) error {
	slog.Info("starting server", "address", s.apiAddr, "output_dir", s.OutputDir())

	if s.apiAddr == "" {
		slog.Info("api address is empty, skipping server")
		return nil
	}

	server := &http.Server{
		Addr:    s.apiAddr,
		Handler: s.GetRouter(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.cancelJobs()
		if err := server.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	return nil
}
