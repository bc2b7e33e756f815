package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ImageStore is the file backend used for project images
type ImageStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Delete(name string) error
}

// ImageService stores uploaded project images and cleans them up again.
// Only URLs whose path contains the mount marker belong to it.
type ImageService struct {
	store    ImageStore
	mount    string
	maxBytes int64
}

func NewImageService(store ImageStore, mount string, maxBytes int64) *ImageService {
	return &ImageService{
		store:    store,
		mount:    mount,
		maxBytes: maxBytes,
	}
}

// Upload validates and stores an image and returns its public URL,
// built from baseURL ("scheme://host") and the mount marker.
func (s *ImageService) Upload(r io.Reader, originalName, baseURL string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", validationError("no file received")
	}
	if int64(len(data)) > s.maxBytes {
		return "", validationError("file exceeds %d bytes", s.maxBytes)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return "", validationError("file is not a supported image")
	}

	name, err := s.store.Save(bytes.NewReader(data), originalName)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return strings.TrimRight(baseURL, "/") + s.mount + name, nil
}

// LocalName extracts the stored file name from a URL served by this handler.
func (s *ImageService) LocalName(rawURL string) (string, bool) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	idx := strings.LastIndex(path, s.mount)
	if idx < 0 {
		return "", false
	}
	name := path[idx+len(s.mount):]
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// Delete removes the file behind a local URL. Foreign URLs are ignored.
func (s *ImageService) Delete(rawURL string) error {
	name, ok := s.LocalName(rawURL)
	if !ok {
		return nil
	}
	return s.store.Delete(name)
}

// CleanupResult is the outcome of removing a project's images
type CleanupResult struct {
	Removed []string
	Skipped []string
	Failed  map[string]error
}

// OK reports whether every local image was removed
func (r CleanupResult) OK() bool {
	return len(r.Failed) == 0
}

// DeleteAll removes every local image in urls. It never stops early.
func (s *ImageService) DeleteAll(urls []string) CleanupResult {
	result := CleanupResult{Failed: map[string]error{}}
	for _, u := range urls {
		if _, ok := s.LocalName(u); !ok {
			result.Skipped = append(result.Skipped, u)
			continue
		}
		if err := s.Delete(u); err != nil {
			result.Failed[u] = err
			continue
		}
		result.Removed = append(result.Removed, u)
	}
	return result
}

// cleanupImages is the best-effort image removal shared by project delete
// and create-restore. Failures are reported, never returned.
func (s *ImageService) cleanupImages(ctx context.Context, projectID uint, urls []string) CleanupResult {
	result := s.DeleteAll(urls)
	for u, err := range result.Failed {
		reportSoftFailure(ctx, "image cleanup failed", err,
			slog.Uint64("project_id", uint64(projectID)),
			slog.String("url", u),
		)
	}
	return result
}
