package service

import (
	"context"
	"io"

	"github.com/ctoapp/cto-backend/internal/app/model"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/storage"
)

// Upload is a file part received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
	Size        int64
}

// saveImage validates and stores an image upload, returning the attachment
// to persist on the owning row.
func saveImage(ctx context.Context, store storage.BinaryStore, folder string, up *Upload) (*model.Attachment, error) {
	if err := storage.ValidateImageType(up.ContentType); err != nil {
		return nil, apperrors.Validation("Only JPEG and PNG images are allowed")
	}
	return saveUpload(ctx, store, folder, up)
}

// saveVideo validates and stores a video upload.
func saveVideo(ctx context.Context, store storage.BinaryStore, folder string, up *Upload) (*model.Attachment, error) {
	if err := storage.ValidateVideoType(up.ContentType); err != nil {
		return nil, apperrors.Validation("Only MP4 and WebM videos are allowed")
	}
	return saveUpload(ctx, store, folder, up)
}

func saveUpload(ctx context.Context, store storage.BinaryStore, folder string, up *Upload) (*model.Attachment, error) {
	saved, err := store.Save(ctx, folder, up.Filename, up.ContentType, up.Content, up.Size)
	if err != nil {
		return nil, apperrors.Internal("failed to store file", err)
	}
	return &model.Attachment{
		URL:      saved.URL,
		Name:     saved.Name,
		Mimetype: saved.Mimetype,
		Size:     saved.Size,
	}, nil
}
