package uploads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yumelog/yumelog/internal/model"
)

func TestSaveGeneratesRandomName(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}

	name, err := s.Save(strings.NewReader("pixels"), "My Dream.PNG")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(name, "My Dream") {
		t.Fatalf("original filename leaked into %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension not preserved lowercased: %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "pixels" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSaver(dir)
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}

	if _, err := s.Save(strings.NewReader("x"), "payload.exe"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected upload must not be written, found %d files", len(entries))
	}
}

func TestRemove(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}
	name, err := s.Save(strings.NewReader("x"), "a.gif")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// missing files are tolerated
	if err := s.Remove(name); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	// traversal attempts resolve inside the upload dir
	if err := s.Remove("../" + name); err != nil {
		t.Fatalf("Remove traversal: %v", err)
	}
}
