// Package upload stores event images on local disk under the upload directory.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"clubhouse/internal/domain/event"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 5 << 20

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = event.UploadPrefix

// sniffLen is how much of the file mimetype looks at.
const sniffLen = 3072

var (
	ErrTooLarge        = errors.New("image must be under 5 MB")
	ErrUnsupportedType = errors.New("image must be png, jpeg, gif or webp")
	ErrInvalidPath     = errors.New("not an uploaded image path")
)

// allowed maps detected MIME types to the extension stored on disk.
var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes uploads into Dir.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// SaveImage sniffs the content type of src, rejects anything that is not a
// supported image or is larger than MaxImageSize, and writes it under a fresh
// random name.
// PRE: src is positioned at the start of the file
// POST: Returns the public path, e.g. "/uploads/3f2c...jpg"
func (s *Store) SaveImage(src io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	ext, ok := allowed[mimetype.Detect(head).String()]
	if !ok {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	name := uuid.NewString() + ext
	full := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), src)
	written, err := io.Copy(f, io.LimitReader(body, MaxImageSize+1))
	closeErr := f.Close()
	if err == nil && written > MaxImageSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(full)
		return "", err
	}
	return PublicPrefix + name, nil
}

// LocalPath maps a public upload path back to its file on disk.
// PRE: publicPath starts with PublicPrefix
// POST: Returns ErrInvalidPath for anything that would leave Dir
func (s *Store) LocalPath(publicPath string) (string, error) {
	name, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Dir, name), nil
}

// Remove deletes an uploaded file. Missing files are not an error.
func (s *Store) Remove(publicPath string) error {
	p, err := s.LocalPath(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
