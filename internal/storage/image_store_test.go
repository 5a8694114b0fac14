package storage_test

import (
	"path/filepath"
	"strings"
	"testing"

	"liberty/internal/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
)

func newStore(t *testing.T) (*storage.ImageStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := storage.NewImageStore(fs, "assets/images")
	require.NoError(t, store.Ensure())
	return store, fs
}

func TestImageStore_UploadGeneratesUniqueNames(t *testing.T) {
	store, fs := newStore(t)
	img := storage.Image{Filename: "chair.JPG", ContentType: "image/jpeg", Data: jpegBytes}

	first, err := store.Upload(img)
	require.NoError(t, err)
	second, err := store.Upload(img)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, ".jpg"))

	data, err := afero.ReadFile(fs, filepath.Join("assets/images", first))
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, data)
}

func TestImageStore_UploadUsesDetectedExtension(t *testing.T) {
	store, _ := newStore(t)

	name, err := store.Upload(storage.Image{Filename: "blob", Data: pngBytes})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
}

func TestImageStore_UploadIgnoresClientExtension(t *testing.T) {
	store, _ := newStore(t)
	data := append(append([]byte{}, pngBytes...), []byte("<html><script>alert(1)</script></html>")...)

	name, err := store.Upload(storage.Image{Filename: "evil.html", ContentType: "image/png", Data: data})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
	assert.Equal(t, ".png", filepath.Ext(name))
}

func TestImageStore_DeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(t)

	name, err := store.Upload(storage.Image{Filename: "a.png", Data: pngBytes})
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))
	exists, err := store.Exists(name)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Delete(name))
	assert.NoError(t, store.Delete(""))
}

func TestImageStore_PathStaysInsideDirectory(t *testing.T) {
	store, _ := newStore(t)

	assert.Equal(t, filepath.Join("assets/images", "passwd"), store.Path("../../etc/passwd"))
	assert.Equal(t, filepath.Join("assets/images", "a.png"), store.Path("a.png"))
}

func TestCheckSize(t *testing.T) {
	assert.True(t, storage.CheckSize(storage.Image{Data: make([]byte, 2*1024*1024)}, 2))
	assert.False(t, storage.CheckSize(storage.Image{Data: make([]byte, 2*1024*1024+1)}, 2))
}

func TestCheckType(t *testing.T) {
	tests := []struct {
		name string
		img  storage.Image
		want bool
	}{
		{"png", storage.Image{ContentType: "image/png", Data: pngBytes}, true},
		{"jpeg without header", storage.Image{Data: jpegBytes}, true},
		{"text content", storage.Image{ContentType: "image/png", Data: []byte("hello world")}, false},
		{"declared pdf", storage.Image{ContentType: "application/pdf", Data: pngBytes}, false},
		{"malformed header", storage.Image{ContentType: ";;", Data: pngBytes}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.CheckType(tt.img, "image"))
		})
	}
}
