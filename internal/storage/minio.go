// Package storage is the object-storage collaborator holding uploaded resumes
// and profile images. Objects get generated unique names, so concurrent
// uploads from different users never collide; replaced objects are orphaned
// rather than collected.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"jobboard/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	ErrTooLarge    = errors.New("file is too large")
	ErrInvalidType = errors.New("invalid file type")
)

// Upload size and type limits.
const (
	MaxResumeSize = 5 << 20 // 5MB, PDF only
	MaxImageSize  = 2 << 20
)

var (
	resumeTypes = map[string]bool{"application/pdf": true}
	imageTypes  = map[string]bool{"image/jpeg": true, "image/png": true, "image/gif": true}
)

// Store is the file-storage interface the services consume. FileStore is the
// MinIO implementation; tests substitute an in-memory fake.
type Store interface {
	StoreResume(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	StoreImage(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
}

type FileStore struct {
	client *minio.Client
	bucket string
}

func NewFileStore(cfg *config.Config) (*FileStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	// Create bucket if it doesn't exist
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &FileStore{client: client, bucket: cfg.MinioBucket}, nil
}

// StoreResume validates and uploads a resume PDF, returning the object name.
func (s *FileStore) StoreResume(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	return s.store(ctx, "resumes", reader, size, contentType, MaxResumeSize, resumeTypes)
}

// StoreImage validates and uploads a profile image, returning the object name.
func (s *FileStore) StoreImage(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	return s.store(ctx, "images", reader, size, contentType, MaxImageSize, imageTypes)
}

func (s *FileStore) store(ctx context.Context, prefix string, reader io.Reader, size int64, contentType string, maxSize int64, allowed map[string]bool) (string, error) {
	if size > maxSize {
		return "", ErrTooLarge
	}
	if !allowed[contentType] {
		return "", ErrInvalidType
	}

	objectName := fmt.Sprintf("%s/%s", prefix, uuid.New().String())
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return objectName, nil
}

// Remove deletes an object. Missing objects are not an error: job deletion
// retries would otherwise never converge.
func (s *FileStore) Remove(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
