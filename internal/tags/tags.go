// Package tags reads audio metadata for destination-path templating.
package tags

import (
	"os"

	"github.com/dhowden/tag"
)

// Metadata holds the tag fields the naming templates can reference.
// Zero values mean the field is absent.
type Metadata struct {
	Artist      string
	Album       string
	Title       string
	AlbumArtist string
	Track       int
	TrackTotal  int
	Disc        int
}

// Reader extracts metadata from an audio file.
type Reader interface {
	// Read returns the file's metadata. Missing or corrupt tags yield
	// zero fields, never an error: templates must stay expandable for
	// untagged files.
	Read(path string) Metadata
}

// FileReader reads tags directly from files on disk.
type FileReader struct{}

// NewFileReader returns a Reader backed by the tag parsing library.
func NewFileReader() *FileReader {
	return &FileReader{}
}

func (r *FileReader) Read(path string) Metadata {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}
	}

	track, trackTotal := m.Track()
	disc, _ := m.Disc()
	return Metadata{
		Artist:      m.Artist(),
		Album:       m.Album(),
		Title:       m.Title(),
		AlbumArtist: m.AlbumArtist(),
		Track:       track,
		TrackTotal:  trackTotal,
		Disc:        disc,
	}
}
