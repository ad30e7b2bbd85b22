// Package naming expands destination-path templates.
//
// A template is a flat string with <name> placeholders resolved against a
// fixed variable table built from a source's tags, path, and run
// position. Known variables with missing values expand to ""; unknown
// placeholders are left literally in place. Expansion never produces the
// file extension: the planner appends it based on the target codec.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/remaster/internal/source"
	"github.com/vmunix/remaster/internal/tags"
)

// DefaultTemplate names files after their original base name.
const DefaultTemplate = "<filename>"

// placeholderPattern matches <name> style placeholders.
var placeholderPattern = regexp.MustCompile(`<([a-zA-Z_]+)>`)

// Expand substitutes variables into a template string. It is pure: the
// same template and variables always yield the same output.
func Expand(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		val, ok := vars[name]
		if !ok {
			return match
		}
		return val
	})
}

// Variables builds the variable table for one source.
func Variables(src *source.Source, meta tags.Metadata) map[string]string {
	albumArtistOrArtist := meta.AlbumArtist
	if albumArtistOrArtist == "" {
		albumArtistOrArtist = meta.Artist
	}

	base := filepath.Base(src.Filepath)
	ext := src.Ext()

	vars := map[string]string{
		"artist":                meta.Artist,
		"album":                 meta.Album,
		"title":                 meta.Title,
		"albumartist":           meta.AlbumArtist,
		"albumartist_or_artist": albumArtistOrArtist,
		"track":                 numberOrEmpty(meta.Track),
		"tracktotal":            numberOrEmpty(meta.TrackTotal),
		"disc":                  numberOrEmpty(meta.Disc),
		"filename":              strings.TrimSuffix(base, filepath.Ext(base)),
		"filename_ext":          base,
		"dirname":               filepath.Base(filepath.Dir(src.Filepath)),
		"ext":                   ext,
		"filenumber":            padded(src.FileNumber, src.TotalFiles),
		"totalfiles":            strconv.Itoa(src.TotalFiles),
		"playlist_name":         "",
		"playlist_filenumber":   "",
		"playlist_totalfiles":   "",
	}

	if src.PlaylistFile != "" {
		plBase := filepath.Base(src.PlaylistFile)
		vars["playlist_name"] = strings.TrimSuffix(plBase, filepath.Ext(plBase))
		vars["playlist_filenumber"] = padded(src.PlaylistFileNumber, src.PlaylistTotalFiles)
		vars["playlist_totalfiles"] = strconv.Itoa(src.PlaylistTotalFiles)
	}
	return vars
}

func numberOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// padded zero-pads an ordinal to the digit width of its total, with a
// minimum width of two so small collections still sort lexically.
func padded(n, total int) string {
	width := len(strconv.Itoa(total))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%0*d", width, n)
}
