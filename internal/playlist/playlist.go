// Package playlist parses and writes playlist files.
//
// Two families are supported: M3U (plain member-per-line; the legacy .m3u
// variant defaults to Latin-1 text, .m3u8 is always UTF-8) and PLS (an
// INI-style format, always UTF-8).
package playlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Format identifies a playlist file format.
type Format string

const (
	FormatM3U  Format = "m3u"
	FormatM3U8 Format = "m3u8"
	FormatPLS  Format = "pls"
)

// ErrUnsupportedFormat indicates a path whose extension is not a known
// playlist format.
var ErrUnsupportedFormat = errors.New("unsupported playlist format")

// DetectFormat maps a file path to its playlist format by extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u":
		return FormatM3U, nil
	case ".m3u8":
		return FormatM3U8, nil
	case ".pls":
		return FormatPLS, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// IsPlaylist reports whether path has a recognized playlist extension.
func IsPlaylist(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}

// Extension returns the file extension (without dot) for a format.
func (f Format) Extension() string {
	return string(f)
}

// Parse reads a playlist and returns its member paths in order, resolved
// to absolute paths against the playlist's directory.
func Parse(path string) ([]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	text, err := decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("decode playlist %s: %w", path, err)
	}

	var members []string
	switch format {
	case FormatPLS:
		members = parsePLS(text)
	default:
		members = parseM3U(text)
	}

	dir := filepath.Dir(path)
	abs := make([]string, 0, len(members))
	for _, m := range members {
		if !filepath.IsAbs(m) {
			m = filepath.Join(dir, m)
		}
		abs = append(abs, filepath.Clean(m))
	}
	return abs, nil
}

// decode converts raw playlist bytes to UTF-8 text. Legacy .m3u files
// without valid UTF-8 content are assumed to be Latin-1.
func decode(raw []byte, format Format) (string, error) {
	if format == FormatM3U && !utf8.Valid(raw) {
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return string(raw), nil
}

func parseM3U(text string) []string {
	var members []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		members = append(members, line)
	}
	return members
}

var plsFileKey = regexp.MustCompile(`^File(\d+)=(.*)$`)

func parsePLS(text string) []string {
	type numbered struct {
		n    int
		path string
	}
	var entries []numbered
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		m := plsFileKey.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if p := strings.TrimSpace(m[2]); p != "" {
			entries = append(entries, numbered{n: n, path: p})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n < entries[j].n })
	members := make([]string, 0, len(entries))
	for _, e := range entries {
		members = append(members, e.path)
	}
	return members
}

// Write serializes members (normally paths relative to the playlist's
// directory) into path using the given format. Legacy .m3u output is
// Latin-1 encoded unless forceUTF8 is set; .m3u8 and .pls are UTF-8.
func Write(path string, members []string, format Format, forceUTF8 bool) error {
	var buf bytes.Buffer
	switch format {
	case FormatPLS:
		buf.WriteString("[playlist]\n")
		for i, m := range members {
			fmt.Fprintf(&buf, "File%d=%s\n", i+1, m)
		}
		fmt.Fprintf(&buf, "NumberOfEntries=%d\n", len(members))
		buf.WriteString("Version=2\n")
	case FormatM3U, FormatM3U8:
		for _, m := range members {
			buf.WriteString(m)
			buf.WriteByte('\n')
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	out := buf.Bytes()
	if format == FormatM3U && !forceUTF8 {
		enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		encoded, _, err := transform.Bytes(enc, out)
		if err != nil {
			return fmt.Errorf("encode playlist: %w", err)
		}
		out = encoded
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}
