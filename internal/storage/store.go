package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/ctoapp/cto-backend/config"
)

// SavedFile describes a stored binary and where it is publicly reachable.
type SavedFile struct {
	URL      string
	Name     string
	Mimetype string
	Size     int64
}

// BinaryStore persists uploaded binaries (logos, photos, videos).
type BinaryStore interface {
	// Save writes the content under the given folder and returns the public
	// descriptor. The stored name is always regenerated, never the client's.
	Save(ctx context.Context, folder, filename, contentType string, content io.Reader, size int64) (*SavedFile, error)
}

// New selects the configured storage driver.
func New(cfg config.StorageConfig, publicURL string) (BinaryStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg), nil
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, publicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var (
	imageContentTypes = []string{"image/jpeg", "image/jpg", "image/png"}
	videoContentTypes = []string{"video/mp4", "video/webm"}
)

// ValidateImageType reports whether the content type is an accepted image.
func ValidateImageType(contentType string) error {
	return validateContentType(contentType, imageContentTypes)
}

// ValidateVideoType reports whether the content type is an accepted video.
func ValidateVideoType(contentType string) error {
	return validateContentType(contentType, videoContentTypes)
}

func validateContentType(contentType string, allowed []string) error {
	for _, a := range allowed {
		if contentType == a {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
