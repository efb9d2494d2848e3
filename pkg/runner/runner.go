// Package runner checks or fixes a batch of package initializer files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/initall/pkg/exports"
	"github.com/Sumatoshi-tech/initall/pkg/observability"
	"github.com/Sumatoshi-tech/initall/pkg/reconcile"
	"github.com/Sumatoshi-tech/initall/pkg/textdiff"
	"github.com/Sumatoshi-tech/initall/pkg/textutil"
)

const tracerName = "initall/runner"

var (
	// ErrIO marks a file that could not be read or written.
	ErrIO = errors.New("i/o error")
	// ErrBinary marks a file that does not look like source text.
	ErrBinary = errors.New("binary file")
)

// Mode selects between reporting and rewriting.
type Mode int

// Modes.
const (
	Check Mode = iota
	Fix
)

func (m Mode) String() string {
	if m == Fix {
		return "fix"
	}

	return "check"
}

// ResultCache remembers files known to be in sync.
type ResultCache interface {
	Fresh(path string, content []byte) bool
	Remember(path string, content []byte)
}

// Runner processes files concurrently. The zero value of every field except
// Extractor is usable.
type Runner struct {
	FS        FileSystem
	Extractor *exports.Extractor
	Logger    *slog.Logger
	Format    reconcile.FormatConfig
	Mode      Mode
	// Cache, when set, skips files unchanged since they were last in sync.
	Cache ResultCache
	// Workers bounds concurrent files; 0 means runtime.NumCPU().
	Workers int
}

// Run processes paths and returns one result per processed path in input
// order. Once ctx is cancelled no further files are started, and files that
// were waiting for a worker are left out of the report.
func (r *Runner) Run(ctx context.Context, paths []string) Report {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	results := make([]FileResult, len(paths))
	done := make([]bool, len(paths))

	var group errgroup.Group

	group.SetLimit(workers)

	for idx, path := range paths {
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			results[idx] = r.processFile(ctx, path)
			done[idx] = true

			return nil
		})
	}

	_ = group.Wait()

	report := Report{Files: make([]FileResult, 0, len(paths))}

	for idx, ok := range done {
		if ok {
			report.Files = append(report.Files, results[idx])
		}
	}

	r.logger().DebugContext(ctx, "batch complete",
		"mode", r.Mode.String(),
		"files", len(report.Files),
		"skipped", len(paths)-len(report.Files),
		"duration", time.Since(start))

	return report
}

func (r *Runner) processFile(ctx context.Context, path string) FileResult {
	ctx = observability.WithPath(ctx, path)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "initall.file",
		trace.WithAttributes(attribute.String("file.path", path), attribute.String("mode", r.Mode.String())))
	defer span.End()

	res := r.analyze(ctx, path)

	span.SetAttributes(attribute.String("status", res.Status.String()), attribute.Int("file.size", res.Size))

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Status.String())
	}

	return res
}

func (r *Runner) analyze(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	content, err := r.fs().ReadFile(path)
	if err != nil {
		res.Status = StatusIOError
		res.Err = fmt.Errorf("%w: %w", ErrIO, err)

		return res
	}

	res.Size = len(content)

	if textutil.IsBinary(content) {
		res.Status = StatusParseError
		res.Err = fmt.Errorf("%s: %w", path, ErrBinary)

		return res
	}

	if r.Cache != nil && r.Cache.Fresh(path, content) {
		res.Status = StatusInSync
		res.Cached = true

		return res
	}

	mod, err := r.Extractor.Extract(ctx, path, content)
	if err != nil {
		res.Status = StatusParseError
		res.Err = err

		return res
	}

	for _, star := range mod.StarImports {
		r.logger().DebugContext(ctx, "star import not expanded", "module", star)
	}

	res.Result = reconcile.Reconcile(mod, content, r.Format)

	switch res.Result.Verdict {
	case reconcile.InSync:
		res.Status = StatusInSync
		r.remember(path, content)
	case reconcile.Suppressed:
		res.Status = StatusSuppressed
	case reconcile.Malformed:
		res.Status = StatusMalformed
		res.Err = fmt.Errorf("%s: %w", path, res.Result.Err())
	case reconcile.OutOfSync:
		res.Diff = textdiff.Unified(filepath.ToSlash(path), content, res.Result.NewContent, textdiff.DefaultContext)
		r.apply(ctx, &res)
	}

	return res
}

func (r *Runner) apply(ctx context.Context, res *FileResult) {
	if r.Mode != Fix {
		res.Status = StatusWouldReformat

		return
	}

	err := r.fs().WriteFile(res.Path, res.Result.NewContent)
	if err != nil {
		res.Status = StatusIOError
		res.Err = fmt.Errorf("%w: %w", ErrIO, err)

		return
	}

	res.Written = true
	res.Status = StatusReformatted
	r.remember(res.Path, res.Result.NewContent)

	r.logger().DebugContext(ctx, "rewrote export list", "inserted", res.Result.Inserted)
}

func (r *Runner) remember(path string, content []byte) {
	if r.Cache != nil {
		r.Cache.Remember(path, content)
	}
}

func (r *Runner) fs() FileSystem {
	if r.FS == nil {
		return OSFileSystem{}
	}

	return r.FS
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}

	return r.Logger
}
