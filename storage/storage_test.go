package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	k := NewKey("audio", "Heart Sutra.MP3")
	assert.True(t, strings.HasPrefix(k, "audio/"))
	assert.True(t, strings.HasSuffix(k, ".mp3"))
	assert.Len(t, k, len("audio/")+36+len(".mp3"))
	assert.NotEqual(t, k, NewKey("audio", "Heart Sutra.MP3"))
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/")
	require.Nil(t, err)
	ctx := context.Background()

	key := "audio/abc.mp3"
	require.Nil(t, s.Put(ctx, key, strings.NewReader("ID3"), 3, "audio/mpeg"))

	b, err := os.ReadFile(filepath.Join(dir, "audio", "abc.mp3"))
	require.Nil(t, err)
	assert.Equal(t, "ID3", string(b))

	url := s.URL(key)
	assert.Equal(t, "/uploads/audio/abc.mp3", url)
	k, ok := s.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, key, k)

	require.Nil(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "audio", "abc.mp3"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.Nil(t, s.Delete(ctx, key))
}

func TestKeyFromURL(t *testing.T) {
	_, ok := keyFromURL("/uploads", "https://cdn.example.com/x.mp3")
	assert.False(t, ok)
	_, ok = keyFromURL("/uploads", "/uploads/../etc/passwd")
	assert.False(t, ok)
	_, ok = keyFromURL("/uploads", "/uploads/")
	assert.False(t, ok)
	k, ok := keyFromURL("http://minio:9000/media", "http://minio:9000/media/audio/a.mp3")
	assert.True(t, ok)
	assert.Equal(t, "audio/a.mp3", k)
}

func TestNewMinioStorageURL(t *testing.T) {
	s, err := NewMinioStorage("localhost:9000", "key", "secret", "media", false, "")
	require.Nil(t, err)
	assert.Equal(t, "http://localhost:9000/media/audio/a.mp3", s.URL("audio/a.mp3"))
	assert.Equal(t, "minio:localhost:9000/media", s.String())

	_, err = NewMinioStorage("", "key", "secret", "media", false, "")
	assert.NotNil(t, err)
}
