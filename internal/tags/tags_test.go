package tags

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileReader_MissingFile(t *testing.T) {
	r := NewFileReader()
	meta := r.Read(filepath.Join(t.TempDir(), "nope.mp3"))
	if meta != (Metadata{}) {
		t.Errorf("expected zero metadata for missing file, got %+v", meta)
	}
}

func TestFileReader_UntaggableFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "garbage.mp3")
	if err := os.WriteFile(path, []byte("not an audio file"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Corrupt or missing tags yield zero fields, never an error.
	r := NewFileReader()
	meta := r.Read(path)
	if meta != (Metadata{}) {
		t.Errorf("expected zero metadata for untaggable file, got %+v", meta)
	}
}
