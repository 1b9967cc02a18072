package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/NethermindEth/yayois-studio/pkg/studio/errs"
)

const DefaultMaxDownloadSize = 64 << 20

var errPayloadTooLarge = errors.New("payload exceeds limit")

type Downloader struct {
	httpClient *http.Client
	store      *Store
	maxSize    int64
}

func NewDownloader(httpClient *http.Client, store *Store) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Downloader{
		httpClient: httpClient,
		store:      store,
		maxSize:    DefaultMaxDownloadSize,
	}
}

// WithMaxSize sets the largest payload accepted; bigger downloads fail.
func (d *Downloader) WithMaxSize(maxSize int64) *Downloader {
	d.maxSize = maxSize
	return d
}

// Download fetches url into a new artifact in the store. The file extension is
// taken from the sniffed content. When wantType is set (e.g. "image"), any
// other kind of content is rejected.
func (d *Downloader) Download(ctx context.Context, url, prefix, wantType string) (string, error) {
	return d.DownloadTo(ctx, d.store, url, prefix, wantType)
}

func (d *Downloader) DownloadTo(ctx context.Context, store *Store, url, prefix, wantType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create GET request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &errs.VendorError{
			Vendor:     req.URL.Host,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	body := &limitedReader{r: io.LimitReader(resp.Body, d.maxSize+1), remaining: d.maxSize}

	head := make([]byte, 3072)
	n, err := io.ReadFull(body, head)
	if errors.Is(err, errPayloadTooLarge) {
		return "", d.tooLarge(req.URL.Host, resp.StatusCode)
	}
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read download: %w", err)
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	if wantType != "" && !strings.HasPrefix(mime.String(), wantType+"/") {
		return "", &errs.VendorError{
			Vendor:     req.URL.Host,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("expected %s content, got %s", wantType, mime.String()),
		}
	}

	path, err := store.Write(prefix, mime.Extension(), io.MultiReader(bytes.NewReader(head), body))
	if errors.Is(err, errPayloadTooLarge) {
		return "", d.tooLarge(req.URL.Host, resp.StatusCode)
	}
	if err != nil {
		return "", err
	}

	slog.Debug("downloaded artifact", "url", url, "path", path, "mime", mime.String())

	return path, nil
}

func (d *Downloader) tooLarge(host string, statusCode int) error {
	return &errs.VendorError{
		Vendor:     host,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("%s of %d bytes", errPayloadTooLarge, d.maxSize),
	}
}

// limitedReader fails with errPayloadTooLarge once more than remaining bytes
// have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errPayloadTooLarge
	}
	return n, err
}
