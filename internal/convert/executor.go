// Package convert executes planned work units across a bounded worker
// pool: byte copies for already-suitable sources, encoder invocations
// for the rest.
package convert

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/plan"
	"github.com/vmunix/remaster/internal/source"
)

// Summary aggregates final unit statuses for end-of-run reporting.
type Summary struct {
	Completed   int
	Skipped     int
	Failed      int
	Interrupted bool
}

// Executor dispatches ready work units across a fixed-size pool.
type Executor struct {
	encoder Encoder
	jobs    int
	log     *slog.Logger
}

// NewExecutor creates an Executor. jobs <= 0 uses the CPU count.
func NewExecutor(encoder Encoder, jobs int, log *slog.Logger) *Executor {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Executor{encoder: encoder, jobs: jobs, log: log}
}

// Execute runs every ready unit and returns once all dispatched units
// have reached a terminal status. Units in any other state pass through
// unchanged. When ctx is cancelled no further units are dispatched;
// in-flight units finish as aborted or completed on their own.
func (e *Executor) Execute(ctx context.Context, units []*plan.WorkUnit) Summary {
	g := new(errgroup.Group)
	g.SetLimit(e.jobs)

	for _, unit := range units {
		if unit.Status != plan.StatusReady {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			e.run(ctx, unit)
			return nil
		})
	}

	// Barrier: playlist regeneration must not start before every
	// dispatched unit is terminal.
	_ = g.Wait()

	return Summarize(units, ctx.Err() != nil)
}

// run processes one unit and performs its single status transition.
// Failures are recorded, logged, and never propagated: one bad unit must
// not take down the run.
func (e *Executor) run(ctx context.Context, unit *plan.WorkUnit) {
	src := unit.Source

	// Sibling workers may be creating the same directory; MkdirAll
	// treats "already exists" as success.
	if err := os.MkdirAll(filepath.Dir(unit.TargetPath), 0o755); err != nil {
		unit.Status = plan.StatusFailedIO
		e.log.Error("create destination directory failed", "target", unit.TargetPath, "error", err)
		return
	}

	if shouldCopy(src.Spec, src.Ext()) {
		if err := copyFile(ctx, src.Filepath, unit.TargetPath); err != nil {
			// The copy only returns a context error when cancellation
			// actually stopped it; anything else is a real I/O failure
			// even if an interrupt arrived in the meantime.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				unit.Status = plan.StatusFailedAborted
				e.log.Warn("copy aborted", "source", src.Filepath)
			} else {
				unit.Status = plan.StatusFailedIO
				e.log.Error("copy failed", "source", src.Filepath, "error", err)
			}
			return
		}
	} else {
		if err := e.encoder.Encode(ctx, src.Filepath, unit.TargetPath, src.Spec); err != nil {
			if ctx.Err() != nil {
				unit.Status = plan.StatusFailedAborted
				e.log.Warn("transcode aborted", "source", src.Filepath)
			} else {
				unit.Status = plan.StatusFailedEncoder
				e.log.Error("transcode failed", "source", src.Filepath, "error", err)
			}
			return
		}
	}

	unit.Status = plan.StatusCompleted
	e.log.Debug("unit completed", "source", src.Filepath, "target", unit.TargetPath)
}

// shouldCopy reports whether the unit needs only a byte copy: an explicit
// copy spec, or a source already in the target codec's native container
// without a forced transcode.
func shouldCopy(spec source.TranscodeSpec, srcExt string) bool {
	if spec.Codec == codec.Copy {
		return true
	}
	return codec.IsNative(spec.Codec, srcExt) && !spec.ForceTranscode
}

// Summarize counts terminal statuses.
func Summarize(units []*plan.WorkUnit, interrupted bool) Summary {
	s := Summary{Interrupted: interrupted}
	for _, unit := range units {
		switch {
		case unit.Status.IsCompleted():
			s.Completed++
		case unit.Status.IsSkipped():
			s.Skipped++
		case unit.Status.IsFailed():
			s.Failed++
		}
	}
	return s
}
