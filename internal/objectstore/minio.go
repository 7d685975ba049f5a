// Package objectstore archives uploaded original PDFs in S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"scanrag/internal/contextutil"
)

// Config holds the MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchive stores originals in a MinIO bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func newClient(cfg Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// NewMinioArchive connects to MinIO and creates the bucket if it does not exist.
func NewMinioArchive(ctx context.Context, cfg Config) (*MinioArchive, error) {
	logger := contextutil.LoggerFromContext(ctx)

	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		logger.InfoContext(ctx, "creating bucket", "bucket", cfg.Bucket)
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// Store uploads data and returns its object key.
func (a *MinioArchive) Store(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(a.now(), name, data)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "archived original", "bucket", a.bucket, "key", key, "size", len(data))
	return key, nil
}

// ObjectKey is <yyyy/mm/dd>/<first 12 hex of sha256>-<base name>.
func ObjectKey(t time.Time, name string, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s/%s-%s", t.UTC().Format("2006/01/02"), hex.EncodeToString(sum[:])[:12], path.Base(name))
}
