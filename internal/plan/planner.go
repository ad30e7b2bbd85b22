// Package plan turns resolved sources into work units with precomputed
// destination paths and initial statuses.
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/naming"
	"github.com/vmunix/remaster/internal/source"
	"github.com/vmunix/remaster/internal/tags"
)

var (
	// ErrTargetCollision indicates two sources expanded to the same
	// destination path. Executing such a plan would silently overwrite
	// one conversion with another, so planning fails instead.
	ErrTargetCollision = errors.New("target path collision")

	// ErrUnsafePath indicates an expanded path that escapes the
	// destination root, e.g. via ".." in tag values.
	ErrUnsafePath = errors.New("target path escapes destination root")
)

// OverwriteMode governs whether an existing destination file blocks a
// work unit.
type OverwriteMode string

const (
	// OverwriteNever skips units whose destination already exists.
	OverwriteNever OverwriteMode = "never"
	// OverwriteAlways replaces existing destinations unconditionally.
	OverwriteAlways OverwriteMode = "always"
	// OverwriteIfOlder replaces a destination only when its mtime is
	// strictly older than the source's.
	OverwriteIfOlder OverwriteMode = "if-older"
)

// WorkUnit is one planned source-to-destination conversion. The planner
// creates it, the executor performs exactly one status transition, and
// the playlist regenerator reads the result.
type WorkUnit struct {
	Source     *source.Source
	TargetPath string
	Status     Status
}

// Options configure a Planner.
type Options struct {
	DestRoot         string
	Template         string
	PlaylistTemplate string // falls back to Template when empty
	Overwrite        OverwriteMode
}

// Planner computes work units. Beyond existence and mtime checks it
// performs no I/O, so a plan can be shown without executing it.
type Planner struct {
	tags tags.Reader
	opts Options
}

// New creates a Planner. An empty template defaults to naming.DefaultTemplate.
func New(tagReader tags.Reader, opts Options) *Planner {
	if opts.Template == "" {
		opts.Template = naming.DefaultTemplate
	}
	if opts.PlaylistTemplate == "" {
		opts.PlaylistTemplate = opts.Template
	}
	if opts.Overwrite == "" {
		opts.Overwrite = OverwriteNever
	}
	return &Planner{tags: tagReader, opts: opts}
}

// Plan maps every source to a work unit. It fails on duplicate or unsafe
// target paths; per-unit overwrite decisions are recorded as statuses,
// never as errors.
func (p *Planner) Plan(sources []*source.Source) ([]*WorkUnit, error) {
	root, err := filepath.Abs(p.opts.DestRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve destination root: %w", err)
	}

	units := make([]*WorkUnit, 0, len(sources))
	claimed := make(map[string]string, len(sources))

	for _, src := range sources {
		template := p.opts.Template
		if src.PlaylistFile != "" {
			template = p.opts.PlaylistTemplate
		}

		meta := p.tags.Read(src.Filepath)
		rel := naming.Expand(template, naming.Variables(src, meta))

		ext := codec.Extension(src.Spec.Codec)
		if src.Spec.Codec == codec.Copy {
			ext = src.Ext()
		}
		if ext != "" {
			rel += "." + ext
		}

		target := filepath.Join(root, rel)
		if err := ensureWithin(root, target); err != nil {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnsafePath, src.Filepath, target)
		}
		if prev, ok := claimed[target]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %s", ErrTargetCollision, prev, src.Filepath, target)
		}
		claimed[target] = src.Filepath

		units = append(units, &WorkUnit{
			Source:     src,
			TargetPath: target,
			Status:     initialStatus(src.Filepath, target, p.opts.Overwrite),
		})
	}
	return units, nil
}

// ensureWithin rejects targets outside root. Separators inside expanded
// tag values may create nested directories; ".." segments may not climb
// out of the destination tree.
func ensureWithin(root, target string) error {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(target, prefix) {
		return ErrUnsafePath
	}
	return nil
}

// initialStatus applies the overwrite policy against the current state
// of the destination. "Older" is strict: equal mtimes skip.
func initialStatus(srcPath, target string, mode OverwriteMode) Status {
	destInfo, err := os.Stat(target)
	if err != nil {
		return StatusReady
	}

	switch mode {
	case OverwriteAlways:
		return StatusReady
	case OverwriteIfOlder:
		srcInfo, err := os.Stat(srcPath)
		if err != nil {
			return StatusSkippedExists
		}
		if destInfo.ModTime().Before(srcInfo.ModTime()) {
			return StatusReady
		}
		return StatusSkippedExists
	default:
		return StatusSkippedExists
	}
}
