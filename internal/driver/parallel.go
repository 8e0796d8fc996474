package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rocheck/internal/diag"
	"rocheck/internal/project"
	"rocheck/internal/source"
	"rocheck/internal/trace"
)

// Run is the outcome of CheckPaths. Files keep the order of the expanded input.
type Run struct {
	FileSet *source.FileSet
	Files   []*FileResult
	Metrics Metrics
}

// Metrics counts what happened during a run.
type Metrics struct {
	Files       int
	Failed      int
	CacheHits   int
	Wraps       int
	Diagnostics int
}

// Diagnostics returns every diagnostic of the run, file by file, each file in
// report order.
func (r *Run) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Bag.Pointers()...)
	}
	return out
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *Run) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ExpandPaths turns arguments into a list of tree files. Directories are
// walked (sorted, filtered by include); plain files are kept even when they do
// not match. Missing paths are kept so that loading reports them.
func ExpandPaths(paths, include []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{}, len(paths))
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if project.MatchInclude(include, path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// CheckPaths checks every tree under paths. Documents and source texts are
// loaded sequentially into one FileSet; decoding and the pass run in parallel,
// each file owning its tree and bag.
func CheckPaths(ctx context.Context, paths []string, opts Options) (*Run, error) {
	files, err := ExpandPaths(paths, opts.Include)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "check")

	run := &Run{FileSet: source.NewFileSet(), Files: make([]*FileResult, len(files))}
	defer func() {
		span.WithExtra("files", strconv.Itoa(len(files))).
			WithExtra("cache_hits", strconv.Itoa(run.Metrics.CacheHits)).
			End("")
	}()
	if len(files) == 0 {
		return run, nil
	}

	inputs := make([]*input, len(files))
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		inputs[i] = prepare(run.FileSet, path, opts.Timer)
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var hits atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, in := range inputs {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := process(gctx, in, &opts)
			// индекс i уникален, мьютекс не нужен
			run.Files[i] = res
			if res != nil && res.Cached {
				hits.Add(1)
			}
			return err
		})
	}
	waitErr := g.Wait()

	for i, res := range run.Files {
		if res == nil {
			// не дошли из-за отмены
			run.Files[i] = &FileResult{Path: inputs[i].path, Source: inputs[i].file, Bag: inputs[i].bag}
			continue
		}
		run.Metrics.Wraps += res.Stats.Wraps
		run.Metrics.Diagnostics += res.Bag.Len()
		if res.Failed() {
			run.Metrics.Failed++
		}
	}
	run.Metrics.Files = len(files)
	run.Metrics.CacheHits = int(hits.Load())

	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return run, waitErr
	}
	return run, ctx.Err()
}
