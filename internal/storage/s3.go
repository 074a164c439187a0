package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"github.com/google/uuid"
)

// S3Storage uploads binaries to an S3 bucket, optionally fronted by a CDN.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(cfg config.StorageConfig) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static credentials when provided, otherwise the default chain
	// (environment, shared credentials file, IAM role).
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.S3Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKeyID,
				cfg.S3SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.S3Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.S3Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		baseURL: cfg.S3BaseURL,
	}
}

func (s *S3Storage) Save(ctx context.Context, folder, filename, contentType string, content io.Reader, size int64) (*SavedFile, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		logger.Error("Failed to upload file to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return nil, fmt.Errorf("uploading to s3: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}

	return &SavedFile{
		URL:      fileURL,
		Name:     filename,
		Mimetype: contentType,
		Size:     size,
	}, nil
}
