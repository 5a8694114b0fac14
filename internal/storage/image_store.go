package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Image is an uploaded image blob together with the metadata sent by the client.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the blob size in bytes.
func (img Image) Size() int64 {
	return int64(len(img.Data))
}

// ImageStore keeps product images in a single directory. Files are written
// under generated unique names so concurrent uploads never collide.
type ImageStore struct {
	fs  afero.Fs
	dir string
}

// NewImageStore creates an ImageStore writing to dir on fs.
func NewImageStore(fs afero.Fs, dir string) *ImageStore {
	return &ImageStore{fs: fs, dir: dir}
}

// Ensure creates the image directory if it does not exist.
func (s *ImageStore) Ensure() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory %s: %w", s.dir, err)
	}
	return nil
}

// Upload writes img into the directory and returns the generated file name.
func (s *ImageStore) Upload(img Image) (string, error) {
	name := uuid.NewString() + extension(img)
	if err := afero.WriteFile(s.fs, s.Path(name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return name, nil
}

// Delete removes the named file. A missing file is not an error.
func (s *ImageStore) Delete(name string) error {
	if !validName(name) {
		return nil
	}
	if err := s.fs.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named file is present.
func (s *ImageStore) Exists(name string) (bool, error) {
	return afero.Exists(s.fs, s.Path(name))
}

// Path returns the location of name inside the directory. Only the base name
// is used, so a stored value cannot point outside the directory.
func (s *ImageStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(filepath.Clean("/"+name)))
}

func validName(name string) bool {
	base := filepath.Base(filepath.Clean("/" + name))
	return base != "/" && base != "." && base != ".."
}

// extension is taken from the sniffed content. The client's file name is
// ignored so a stored file is always served with an image type.
func extension(img Image) string {
	return mimetype.Detect(img.Data).Extension()
}
