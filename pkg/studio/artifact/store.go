package artifact

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/NethermindEth/yayois-studio/pkg/studio/debug"
)

const maxCreateAttempts = 5

// Store owns an output directory. Every file it creates gets a fresh random
// suffix and is opened with O_EXCL, so nothing that already exists is replaced.
type Store struct {
	dir string

	newSuffix func() string
}

type StoreOptions struct {
	Dir string
	// NewSuffix overrides the random suffix generator.
	NewSuffix func() string
}

func NewStore(opts StoreOptions) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("output dir is empty")
	}
	if opts.NewSuffix == nil {
		opts.NewSuffix = uuid.NewString
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}

	return &Store{
		dir:       dir,
		newSuffix: opts.NewSuffix,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Sub returns a store rooted at a child directory.
func (s *Store) Sub(name string) *Store {
	return &Store{
		dir:       filepath.Join(s.dir, Slug(name)),
		newSuffix: s.newSuffix,
	}
}

// Create opens a new file named <prefix>-<suffix><ext>.
func (s *Store) Create(prefix, ext string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		path := filepath.Join(s.dir, s.fileName(prefix, ext))

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			slog.Debug("artifact name taken, retrying", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact: %w", err)
		}

		return f, nil
	}

	return nil, fmt.Errorf("failed to find a free artifact name for %q after %d attempts", prefix, maxCreateAttempts)
}

// Path reserves a new file name and returns its path. The file is created empty.
func (s *Store) Path(prefix, ext string) (string, error) {
	f, err := s.Create(prefix, ext)
	if err != nil {
		return "", err
	}

	return f.Name(), f.Close()
}

// Write copies r into a new artifact. A partially written file is removed.
func (s *Store) Write(prefix, ext string, r io.Reader) (string, error) {
	f, err := s.Create(prefix, ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		discard(f.Name())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	if err := f.Close(); err != nil {
		discard(f.Name())
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	return f.Name(), nil
}

// WriteFileExclusive writes data to an exact path, failing if it exists.
func WriteFileExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		discard(path)
		return err
	}

	return f.Close()
}

func (s *Store) fileName(prefix, ext string) string {
	suffix := s.newSuffix()
	prefix = Slug(prefix)
	if prefix == "" {
		return suffix + ext
	}
	return prefix + "-" + suffix + ext
}

func discard(path string) {
	if debug.IsDebugKeepPartial() {
		slog.Warn("keeping partial artifact", "path", path)
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove partial artifact", "path", path, "error", err)
	}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases a label and collapses everything but letters and digits into dashes.
func Slug(label string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(label), "-"), "-")
}

// FileUrl turns a local path into an absolute file:// URL.
func FileUrl(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
