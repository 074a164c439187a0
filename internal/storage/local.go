package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctoapp/cto-backend/pkg/logger"
	"github.com/google/uuid"
)

// LocalStorage writes binaries to a directory served as static files.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *LocalStorage) Save(_ context.Context, folder, filename, contentType string, content io.Reader, size int64) (*SavedFile, error) {
	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating folder %s: %w", folder, err)
	}

	stored := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(dir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, content)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	logger.Debug("Stored file on local disk", map[string]interface{}{
		"path": path,
		"size": written,
	})

	return &SavedFile{
		URL:      fmt.Sprintf("%s/public/%s/%s", s.publicURL, folder, stored),
		Name:     filename,
		Mimetype: contentType,
		Size:     written,
	}, nil
}
