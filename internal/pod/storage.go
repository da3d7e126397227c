// Package pod stores proof-of-delivery photos on disk, partitioned by
// year and month.
package pod

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/icedepot/icedepot/internal/shared"
)

// MaxUploadBytes caps a single POD photo.
const MaxUploadBytes = 5 << 20

// allowedTypes maps accepted MIME types to the stored file extension.
// The type is sniffed from content; the client header is never trusted.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Storage persists proof-of-delivery photos and serves them back.
type Storage interface {
	// Save stores the photo for an order and returns its storage path,
	// relative to the storage root.
	Save(ctx context.Context, orderID int64, content io.Reader) (string, error)
	// Open returns the photo at a previously returned storage path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileStorage is the filesystem Storage implementation. Paths look like
// pod/2025/03/20250307T221500_order12_9f86d081.jpg.
type FileStorage struct {
	root string
	now  func() time.Time
}

// NewFileStorage builds a FileStorage rooted at root.
func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root, now: time.Now}
}

func (s *FileStorage) Save(_ context.Context, orderID int64, content io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", shared.ErrValidation)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("%w: photo exceeds %d bytes", shared.ErrValidation, MaxUploadBytes)
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedTypes[detected.String()]
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %s, want JPEG, PNG, or WEBP", shared.ErrValidation, detected.String())
	}

	now := s.now().UTC()
	name := fmt.Sprintf("%s_order%d_%s%s",
		now.Format("20060102T150405"), orderID, uuid.NewString()[:8], ext)
	rel := filepath.Join("pod", now.Format("2006"), now.Format("01"), name)

	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create photo directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func (s *FileStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// resolve confines path to the storage root, rejecting traversal.
func (s *FileStorage) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("%w: invalid photo path", shared.ErrValidation)
	}
	return filepath.Join(s.root, cleaned), nil
}
