// Package codec defines the target codecs the converter knows how to
// produce, their destination file extensions, and the ffmpeg arguments
// used to reach them.
package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Name identifies a target codec.
type Name string

const (
	// Copy means no transcoding: the source file is copied byte-for-byte.
	Copy   Name = "copy"
	MP3    Name = "mp3"
	Vorbis Name = "vorbis"
	Opus   Name = "opus"
	AAC    Name = "aac"
	FLAC   Name = "flac"
)

// entry describes one codec in the registry.
type entry struct {
	ext       string // destination extension, without dot
	ffEncoder string
}

var registry = map[Name]entry{
	Copy:   {ext: ""}, // extension comes from the source file
	MP3:    {ext: "mp3", ffEncoder: "libmp3lame"},
	Vorbis: {ext: "ogg", ffEncoder: "libvorbis"},
	Opus:   {ext: "opus", ffEncoder: "libopus"},
	AAC:    {ext: "m4a", ffEncoder: "aac"},
	FLAC:   {ext: "flac", ffEncoder: "flac"},
}

// Lookup returns the codec for name (case-insensitive).
func Lookup(name string) (Name, error) {
	n := Name(strings.ToLower(name))
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("unknown codec %q", name)
	}
	return n, nil
}

// Names returns all recognized codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// Extension returns the destination file extension (without dot) for a
// codec. For Copy it returns "" and the caller keeps the source extension.
func Extension(n Name) string {
	return registry[n].ext
}

// IsNative reports whether a source file extension (with or without dot,
// any case) is already in the codec's native container, meaning a
// transcode to that codec would be a no-op.
func IsNative(n Name, srcExt string) bool {
	if n == Copy {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(srcExt, "."))
	switch n {
	case Vorbis:
		return ext == "ogg" || ext == "oga"
	default:
		return ext == registry[n].ext
	}
}

// FFmpegArgs builds the ffmpeg argument list for transcoding src to dst
// with codec n. Exactly one of quality and bitrate may be set; nil for
// both uses the encoder's defaults.
func FFmpegArgs(n Name, src, dst string, quality, bitrate *int) []string {
	args := []string{"-y", "-i", src, "-vn", "-acodec", registry[n].ffEncoder}
	switch {
	case quality != nil:
		args = append(args, "-q:a", fmt.Sprintf("%d", *quality))
	case bitrate != nil:
		args = append(args, "-b:a", fmt.Sprintf("%dk", *bitrate))
	}
	return append(args, dst)
}
