package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single uploaded media file.
const MaxUploadBytes = 10 << 20

var (
	// ErrUnsupportedMedia is returned for uploads that are not images.
	ErrUnsupportedMedia = errors.New("storage: unsupported media type")
	ErrEmptyUpload      = errors.New("storage: empty upload")
)

// SVG is not accepted: uploads are served from the site origin and an SVG
// can carry script.

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// FileStore persists uploaded media on the local filesystem and builds the
// public URLs they are served under.
type FileStore struct {
	basePath string
	baseURL  string
	now      func() time.Time
}

// NewFileStore initializes a FileStore rooted at basePath whose files are
// served from baseURL.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if !filepath.IsAbs(basePath) {
		if abs, err := filepath.Abs(basePath); err == nil {
			basePath = abs
		}
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		now:      time.Now,
	}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Stored describes a saved upload.
type Stored struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	MIME string `json:"mime"`
	Size int    `json:"size"`
}

// SaveImage sniffs data, rejects anything that is not an image and stores
// it under uploads/YYYY/MM/<uuid><ext>.
func (s *FileStore) SaveImage(ctx context.Context, data []byte) (*Stored, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("storage: upload exceeds %d bytes", MaxUploadBytes)
	}
	mime, ext, ok := DetectImage(data)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mime)
	}
	key := path.Join("uploads", s.now().UTC().Format("2006/01"), uuid.NewString()+ext)
	key, err := s.Write(ctx, key, data)
	if err != nil {
		return nil, err
	}
	return &Stored{Key: key, URL: s.URL(key), MIME: mime, Size: len(data)}, nil
}

// DetectImage reports the sniffed MIME type and whether it is an accepted
// image format.
func DetectImage(data []byte) (mime, ext string, ok bool) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if e, found := allowedImageTypes[m.String()]; found {
			return m.String(), e, true
		}
	}
	return mt.String(), "", false
}

// URL returns the public URL of key.
func (s *FileStore) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Write persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
