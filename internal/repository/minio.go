package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// BlobRepository — граница внешнего blob store. Сервис хранит только
// возвращённый path и отдаёт наружу presigned URL с ограниченным TTL.
type BlobRepository interface {
	Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error)
}

type MinIORepository struct {
	client  *minio.Client
	region  string
	buckets []string
	logger  zerolog.Logger

	ensureMu       sync.Mutex
	bucketsEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, region string, useSSL bool, buckets []string, connectTimeout time.Duration, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client:  client,
		region:  region,
		buckets: buckets,
		logger:  logger,
	}

	// Best-effort bootstrap: на старте не валим сервис, если MinIO ещё не готов.
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBuckets(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Strs("buckets", buckets).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return repo, nil
}

func (r *MinIORepository) ensureBuckets(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketsEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		if _, err := r.client.ListBuckets(ctx); err != nil {
			time.Sleep(backoff)
			continue
		}

		ok := true
		for _, bucket := range r.buckets {
			exists, err := r.client.BucketExists(ctx, bucket)
			if err != nil {
				ok = false
				break
			}
			if !exists {
				if err := r.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
					ok = false
					break
				}
				r.logger.Info().Str("bucket", bucket).Msg("Created new bucket")
			}
		}
		if !ok {
			time.Sleep(backoff)
			continue
		}

		r.bucketsEnsured = true
		return nil
	}
}

func (r *MinIORepository) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := r.ensureBuckets(ctx); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInfo, err := r.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	r.logger.Debug().
		Str("bucket", bucket).
		Str("object", objectName).
		Str("etag", uploadInfo.ETag).
		Int64("size", size).
		Msg("File uploaded to MinIO")

	return objectName, nil
}

func (r *MinIORepository) PresignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error) {
	if err := r.ensureBuckets(ctx); err != nil {
		return "", err
	}

	url, err := r.client.PresignedGetObject(ctx, bucket, path, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
