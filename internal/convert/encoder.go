package convert

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/source"
)

// Encoder performs one synchronous transcode. Implementations are
// expected to be slow, opaque, and killable via context cancellation.
type Encoder interface {
	Encode(ctx context.Context, src, dst string, spec source.TranscodeSpec) error
}

// FFmpeg invokes the ffmpeg binary for transcoding.
type FFmpeg struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
}

// NewFFmpeg returns an Encoder using "ffmpeg" from PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg"}
}

// Encode runs ffmpeg synchronously with stdin and both output streams
// suppressed. Cancelling ctx kills the subprocess.
func (f *FFmpeg) Encode(ctx context.Context, src, dst string, spec source.TranscodeSpec) error {
	args := codec.FFmpegArgs(spec.Codec, src, dst, spec.Quality, spec.Bitrate)
	cmd := exec.CommandContext(ctx, f.Binary, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s -> %s: %w", src, dst, err)
	}
	return nil
}
