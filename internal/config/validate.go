package config

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/remaster/internal/codec"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPlaylistFormats = map[string]bool{
	"m3u": true, "m3u8": true, "pls": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Convert.Codec != "" {
		if _, err := codec.Lookup(c.Convert.Codec); err != nil {
			msg := fmt.Sprintf("convert.codec: unknown codec %q", c.Convert.Codec)
			if suggestion := SuggestCodec(c.Convert.Codec); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			errs = append(errs, msg)
		}
	}

	if c.Convert.Quality != nil && c.Convert.Bitrate != nil {
		errs = append(errs, "convert: quality and bitrate are mutually exclusive")
	}
	if c.Convert.Quality != nil && *c.Convert.Quality < 0 {
		errs = append(errs, fmt.Sprintf("convert.quality: must be non-negative, got %d", *c.Convert.Quality))
	}
	if c.Convert.Bitrate != nil && *c.Convert.Bitrate <= 0 {
		errs = append(errs, fmt.Sprintf("convert.bitrate: must be positive, got %d", *c.Convert.Bitrate))
	}

	if !validPlaylistFormats[strings.ToLower(c.Convert.PlaylistFormat)] {
		errs = append(errs, fmt.Sprintf("convert.playlist_format: must be one of m3u, m3u8, pls; got %q", c.Convert.PlaylistFormat))
	}

	if c.Convert.Jobs < 0 {
		errs = append(errs, fmt.Sprintf("convert.jobs: must be non-negative, got %d", c.Convert.Jobs))
	}

	if !validLogLevels[c.Convert.LogLevel] {
		errs = append(errs, fmt.Sprintf("convert.log_level: must be one of debug, info, warn, error; got %q", c.Convert.LogLevel))
	}

	return errs
}

// suggestionThreshold is the minimum similarity for a codec suggestion.
const suggestionThreshold = 0.7

// SuggestCodec returns the known codec name closest to the given
// (unrecognized) name, or "" when nothing is close enough.
func SuggestCodec(name string) string {
	var best string
	var bestScore float32
	for _, candidate := range codec.Names() {
		score := edlib.JaroWinklerSimilarity(strings.ToLower(name), candidate)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore < suggestionThreshold {
		return ""
	}
	return best
}
