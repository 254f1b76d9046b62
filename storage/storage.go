package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Storage keeps uploaded media files.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL is the public address of the object stored under key.
	URL(key string) string
	// KeyFromURL reverses URL. Returns false for foreign URLs.
	KeyFromURL(url string) (string, bool)
	String() string
}

// NewKey returns a fresh object key like audio/<uuid>.mp3
func NewKey(prefix, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}

// FromConfig builds the backend selected by storage.backend
func FromConfig() (Storage, error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case "", "local":
		return NewLocalStorage(viper.GetString("storage.local-dir"), viper.GetString("storage.base-url"))
	case "minio":
		return NewMinioStorage(
			viper.GetString("storage.endpoint"),
			viper.GetString("storage.access-key"),
			viper.GetString("storage.secret-key"),
			viper.GetString("storage.bucket"),
			viper.GetBool("storage.use-ssl"),
			viper.GetString("storage.base-url"))
	default:
		return nil, errors.Errorf("Unknown storage backend: %s", backend)
	}
}

func keyFromURL(baseURL, url string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
