package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Convert.Codec != "copy" {
		t.Errorf("expected default codec copy, got %q", cfg.Convert.Codec)
	}
}

func TestLoad_Valid(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[convert]
codec = "vorbis"
quality = 6
template = "<artist>/<album>/<track> <title>"
no_transcode_for = ["flac"]

[history]
disabled = true
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Convert.Codec != "vorbis" {
		t.Errorf("expected codec vorbis, got %q", cfg.Convert.Codec)
	}
	if cfg.Convert.Quality == nil || *cfg.Convert.Quality != 6 {
		t.Errorf("expected quality 6, got %v", cfg.Convert.Quality)
	}
	if !cfg.History.Disabled {
		t.Error("expected history disabled")
	}
}

func TestLoad_ValidationError(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[convert]
codec = "mp3"
quality = 2
bitrate = 192
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("expected exclusivity error, got %v", err)
	}
}

func TestValidate_UnknownCodecSuggests(t *testing.T) {
	cfg := Default()
	cfg.Convert.Codec = "vorbs"

	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if !strings.Contains(errs[0], `did you mean "vorbis"`) {
		t.Errorf("expected vorbis suggestion, got %q", errs[0])
	}
}

func TestSuggestCodec(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "opsu", want: "opus"},
		{input: "MP", want: "mp3"},
		{input: "zzzz", want: ""},
	}
	for _, tt := range tests {
		if got := SuggestCodec(tt.input); got != tt.want {
			t.Errorf("SuggestCodec(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
