package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// MinioStorage keeps objects in an S3 compatible bucket.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage connects to endpoint. When baseURL is empty object URLs
// are built from the endpoint and bucket.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, baseURL string) (*MinioStorage, error) {
	if endpoint == "" || bucket == "" {
		return nil, errors.New("storage.endpoint and storage.bucket are required for minio")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio.New")
	}

	if baseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &MinioStorage{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// EnsureBucket creates the bucket if it's missing.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrapf(err, "BucketExists %s", s.bucket)
	}
	if exists {
		return nil
	}
	return errors.Wrapf(s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}), "MakeBucket %s", s.bucket)
}

func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return errors.Wrapf(err, "PutObject %s", key)
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "RemoveObject %s", key)
}

func (s *MinioStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

func (s *MinioStorage) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

func (s *MinioStorage) String() string {
	return fmt.Sprintf("minio:%s/%s", s.client.EndpointURL().Host, s.bucket)
}
