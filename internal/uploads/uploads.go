// Package uploads persists accepted image uploads under a single directory.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/validate"
)

// Saver writes uploads with randomly generated names so original filenames
// never reach the filesystem.
type Saver struct {
	dir string
}

// NewSaver creates the upload directory if needed.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Saver{dir: dir}, nil
}

// Dir returns the uploads root directory.
func (s *Saver) Dir() string { return s.dir }

// Save stores an accepted upload and returns its generated filename.
// Files whose extension is not on the allow-list are rejected with a
// validation error and nothing is written.
func (s *Saver) Save(r io.Reader, filename string) (string, error) {
	if !validate.AllowedImage(filename) {
		return "", fmt.Errorf("%w: images must be png, jpg, jpeg or gif", model.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a previously saved file. Missing files are not an error.
// Base guards against path traversal through stored values.
func (s *Saver) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
