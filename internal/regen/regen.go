// Package regen rebuilds playlists at the destination after a run, so
// converted collections keep the playlists they were resolved from.
package regen

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmunix/remaster/internal/plan"
	"github.com/vmunix/remaster/internal/playlist"
)

// Options configure playlist regeneration.
type Options struct {
	DestRoot string
	// Overwrite allows replacing an existing destination playlist. This
	// is independent of the per-file overwrite policy: playlists are not
	// work units.
	Overwrite bool
	// Format overrides the destination playlist format; empty keeps each
	// playlist's original format.
	Format playlist.Format
	// ForceUTF8 writes legacy .m3u playlists as UTF-8.
	ForceUTF8 bool
}

// WritePlaylists groups units by their originating playlist and writes
// one destination playlist per group, members in original playlist order
// and relative to the playlist's directory. Problems with one playlist
// are logged and do not affect the others. Returns the number written.
func WritePlaylists(units []*plan.WorkUnit, opts Options, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}

	// Unit targets are absolute; the destination root may have been given
	// relative to the working directory.
	destRoot, err := filepath.Abs(opts.DestRoot)
	if err != nil {
		log.Warn("cannot resolve destination root, no playlists written", "dest", opts.DestRoot, "error", err)
		return 0
	}

	groups := make(map[string][]*plan.WorkUnit)
	var order []string
	for _, unit := range units {
		pl := unit.Source.PlaylistFile
		if pl == "" {
			continue
		}
		if _, seen := groups[pl]; !seen {
			order = append(order, pl)
		}
		groups[pl] = append(groups[pl], unit)
	}

	written := 0
	for _, pl := range order {
		members := groups[pl]
		sort.Slice(members, func(i, j int) bool {
			return members[i].Source.PlaylistFileNumber < members[j].Source.PlaylistFileNumber
		})

		format := opts.Format
		if format == "" {
			detected, err := playlist.DetectFormat(pl)
			if err != nil {
				log.Warn("skipping playlist with unsupported format", "playlist", pl, "error", err)
				continue
			}
			format = detected
		}

		base := filepath.Base(pl)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + "." + format.Extension()
		dest := filepath.Join(destRoot, name)

		if _, err := os.Stat(dest); err == nil && !opts.Overwrite {
			log.Warn("destination playlist exists, not overwriting", "playlist", dest)
			continue
		}

		destDir := filepath.Dir(dest)
		paths := make([]string, 0, len(members))
		for _, unit := range members {
			rel, err := filepath.Rel(destDir, unit.TargetPath)
			if err != nil {
				log.Warn("dropping playlist member without a relative path", "playlist", dest, "member", unit.TargetPath, "error", err)
				continue
			}
			paths = append(paths, rel)
		}

		if err := playlist.Write(dest, paths, format, opts.ForceUTF8); err != nil {
			log.Warn("writing playlist failed", "playlist", dest, "error", err)
			continue
		}
		log.Info("wrote playlist", "playlist", dest, "entries", len(paths))
		written++
	}
	return written
}
