// Package media stores candidate images in an S3-compatible object store.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ballotline/ballotline-api/internal/config"
	"github.com/ballotline/ballotline-api/internal/logger"
)

// allowed image extensions for candidate pictures
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Store wraps the MinIO client for candidate image storage
type Store struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// NewStore connects to the object store and ensures the bucket exists
func NewStore(cfg *config.Config) (*Store, error) {
	mlog := logger.Media()

	client, err := minio.New(cfg.Media.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.AccessKey, cfg.Media.SecretKey, ""),
		Secure: cfg.Media.UseSSL,
	})
	if err != nil {
		mlog.Error("Failed to create object store client", "error", err, "endpoint", cfg.Media.Endpoint)
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Media.Bucket)
	if err != nil {
		mlog.Error("Failed to check bucket", "error", err, "bucket", cfg.Media.Bucket)
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Media.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Media.Bucket, minio.MakeBucketOptions{}); err != nil {
			mlog.Error("Failed to create bucket", "error", err, "bucket", cfg.Media.Bucket)
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Media.Bucket, err)
		}
		mlog.Info("Created media bucket", "bucket", cfg.Media.Bucket)
	}

	mlog.Info("Connected to object store", "endpoint", cfg.Media.Endpoint, "bucket", cfg.Media.Bucket)
	return &Store{client: client, bucket: cfg.Media.Bucket, log: mlog}, nil
}

// PutCandidateImage uploads a candidate picture and returns its object key
func (s *Store) PutCandidateImage(ctx context.Context, candidateID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image extension: %s", ext)
	}

	key := fmt.Sprintf("candidates/%s/%s%s", candidateID, uuid.New(), ext)

	s.log.Debug("uploading candidate image", "candidate_id", candidateID, "key", key, "size", size)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload candidate image", "error", err, "key", key)
		return "", fmt.Errorf("failed to upload candidate image: %w", err)
	}

	s.log.Info("candidate image uploaded", "candidate_id", candidateID, "key", key)
	return key, nil
}

// PresignedURL returns a short-lived download URL for an object key
func (s *Store) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), nil
}

// Remove deletes an object by key
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}
