// Package source turns CLI inputs (files, directory trees, playlists)
// into the ordered sequence of audio files a run will convert.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/playlist"
)

// ErrInvalidInput indicates an input path that does not exist or cannot
// be read. Resolution aborts entirely: a batch run must not proceed
// against an incomplete source list.
var ErrInvalidInput = errors.New("invalid input")

// TranscodeSpec describes how a source should be converted.
type TranscodeSpec struct {
	Codec          codec.Name
	ForceTranscode bool
	Quality        *int
	Bitrate        *int
}

// CopySpec returns the spec for a plain byte-for-byte copy.
func CopySpec() TranscodeSpec {
	return TranscodeSpec{Codec: codec.Copy}
}

// Source is one input audio file to be processed.
type Source struct {
	// Filepath is the absolute path to the original file.
	Filepath string

	// Spec is the conversion to apply, possibly overridden to copy by a
	// no-transcode-for extension rule.
	Spec TranscodeSpec

	// PlaylistFile is the playlist that listed this source, or "" for
	// standalone files.
	PlaylistFile string

	// FileNumber and TotalFiles are the 1-based ordinal and count among
	// all sources in the run.
	FileNumber int
	TotalFiles int

	// PlaylistFileNumber and PlaylistTotalFiles are the 1-based ordinal
	// and count within the originating playlist; zero when PlaylistFile
	// is unset.
	PlaylistFileNumber int
	PlaylistTotalFiles int
}

// Ext returns the source file extension without the leading dot.
func (s *Source) Ext() string {
	return strings.TrimPrefix(filepath.Ext(s.Filepath), ".")
}

// audioExtensions is the case-insensitive set of extensions treated as
// audio files during directory scans.
var audioExtensions = map[string]bool{
	".mp3": true, ".ogg": true, ".oga": true, ".opus": true,
	".flac": true, ".m4a": true, ".aac": true, ".wav": true,
	".wma": true, ".aif": true, ".aiff": true,
}

// IsAudioFile reports whether path looks like an audio file by extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Resolve expands inputs into Sources in input-argument order: playlist
// members in playlist order, directory trees in lexical walk order,
// single files as given. After expansion every source is renumbered
// 1..N and the no-transcode-for override is applied.
func Resolve(inputs []string, spec TranscodeSpec, noTranscodeFor map[string]bool) ([]*Source, error) {
	var sources []*Source

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, input, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, input, err)
		}

		switch {
		case !info.IsDir() && playlist.IsPlaylist(abs):
			members, err := playlist.Parse(abs)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, input, err)
			}
			for i, member := range members {
				sources = append(sources, &Source{
					Filepath:           member,
					Spec:               spec,
					PlaylistFile:       abs,
					PlaylistFileNumber: i + 1,
					PlaylistTotalFiles: len(members),
				})
			}

		case info.IsDir():
			found, err := scanTree(abs)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, input, err)
			}
			for _, path := range found {
				sources = append(sources, &Source{Filepath: path, Spec: spec})
			}

		default:
			sources = append(sources, &Source{Filepath: abs, Spec: spec})
		}
	}

	for i, src := range sources {
		src.FileNumber = i + 1
		src.TotalFiles = len(sources)
		if noTranscodeFor[strings.ToLower(src.Ext())] {
			src.Spec = TranscodeSpec{Codec: codec.Copy}
		}
	}
	return sources, nil
}

// scanTree collects audio files beneath root in lexical order.
func scanTree(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsAudioFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
