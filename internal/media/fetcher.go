package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Fetcher downloads remote images so they can be staged like local files
type Fetcher struct {
	HTTPClient *http.Client
	// MaxBytes caps how much of a response body is read
	MaxBytes int64
}

// NewFetcher creates a fetcher that reads at most maxBytes+1 bytes per image, enough
// for the validator to notice an oversized file.
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Fetch downloads imageURL and describes it as a candidate upload
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (FileDescriptor, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return FileDescriptor{}, fmt.Errorf("invalid image URL: %q", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FileDescriptor{}, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to read image data: %w", err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "image"
	}

	fd := DetectFile(name, resp.Header.Get("Content-Type"), data)
	if resp.ContentLength > fd.SizeBytes {
		fd.SizeBytes = resp.ContentLength
	}

	slog.Info("Image downloaded", "url", imageURL, "type", fd.MimeType, "size", fd.SizeBytes)
	return fd, nil
}
