package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"rocheck/internal/ast"
	"rocheck/internal/astio"
	"rocheck/internal/diag"
	"rocheck/internal/observ"
	"rocheck/internal/readonly"
	"rocheck/internal/source"
	"rocheck/internal/trace"
)

// Options configure a check run.
type Options struct {
	// Jobs limits parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// Include filters files found while expanding directories.
	Include []string
	// Write stores rewritten trees. Files without inserted wrappers are left alone.
	Write bool
	// OutDir receives rewritten trees; empty means in place.
	OutDir string
	// KeepTree keeps the builder and rewritten document in FileResult.
	KeepTree bool
	// SkipCheck stops after decoding (tree dumps before the pass).
	SkipCheck bool
	Cache     *DiskCache
	Progress  ProgressSink
	Timer     *observ.Timer
	Hints     ast.Hints
}

// FileResult is the outcome for one tree document. Bag is never nil.
type FileResult struct {
	Path    string
	Source  source.FileID
	Bag     *diag.Bag
	Builder *ast.Builder // nil on load/decode failure or cache hit
	ASTFile ast.FileID
	// Document is the rewritten tree when KeepTree or Write is set.
	Document *astio.Document
	Stats    readonly.Result
	Cached   bool
	Written  string
	Elapsed  time.Duration
}

// Failed reports whether the file never reached the pass.
func (r *FileResult) Failed() bool {
	for _, d := range r.Bag.Items() {
		if d.Code == diag.IOLoadError || d.Code == diag.IODecodeError {
			return true
		}
	}
	return false
}

// CheckFile checks one tree document, registering its source text in fs.
func CheckFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*FileResult, error) {
	in := prepare(fs, path, opts.Timer)
	return process(ctx, in, &opts)
}

// input is a loaded document waiting for a worker.
type input struct {
	path   string
	raw    []byte
	doc    *astio.Document
	file   source.FileID
	bag    *diag.Bag
	failed bool
}

// prepare reads the document and its source text. It touches fs, so callers
// run it sequentially.
func prepare(fs *source.FileSet, path string, timer *observ.Timer) *input {
	start := time.Now()
	defer func() { timer.Add("load", time.Since(start)) }()

	in := &input{path: path, bag: diag.NewBag(0)}
	doc, raw, err := astio.ReadFile(path)
	if err != nil {
		in.file = fs.AddVirtual(path, nil)
		in.failed = true
		sp := source.Span{File: in.file}
		if raw == nil {
			in.bag.Add(diag.NewError(diag.IOLoadError, sp, "failed to load tree: "+err.Error()))
		} else {
			in.bag.Add(diag.NewError(diag.IODecodeError, sp, "failed to parse tree: "+err.Error()))
		}
		return in
	}
	in.doc, in.raw = doc, raw
	in.file = loadSource(fs, path, doc.Source)
	return in
}

// loadSource registers the text the tree's spans point into. A tree without
// readable source text gets an empty virtual file so spans still resolve to a path.
func loadSource(fs *source.FileSet, treePath, srcPath string) source.FileID {
	if srcPath == "" {
		return fs.AddVirtual(treePath, nil)
	}
	if !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(filepath.Dir(treePath), srcPath)
	}
	if id, err := fs.Load(srcPath); err == nil {
		return id
	}
	return fs.AddVirtual(srcPath, nil)
}

func process(ctx context.Context, in *input, opts *Options) (*FileResult, error) {
	started := time.Now()
	res := &FileResult{Path: in.path, Source: in.file, Bag: in.bag}
	defer func() { res.Elapsed = time.Since(started) }()

	tracer := trace.FromContext(ctx)
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, in.path)
	defer func() {
		span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).
			WithExtra("cached", strconv.FormatBool(res.Cached)).
			End("")
	}()

	if in.failed {
		emit(opts.Progress, Event{File: in.path, Stage: StageLoad, Status: StatusError, Elapsed: time.Since(started)})
		return res, nil
	}

	if opts.Cache != nil && !opts.SkipCheck {
		if ok, err := fromCache(in, res, opts); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
		} else if ok {
			if err := writeTree(res, opts); err != nil {
				emit(opts.Progress, Event{File: in.path, Stage: StageWrite, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return res, err
			}
			emit(opts.Progress, Event{File: in.path, Stage: StageCheck, Status: StatusCached, Elapsed: time.Since(started)})
			return res, nil
		}
	}

	emit(opts.Progress, Event{File: in.path, Stage: StageDecode, Status: StatusWorking})
	var (
		builder *ast.Builder
		fileID  ast.FileID
	)
	err := opts.Timer.Measure("decode", func() error {
		var derr error
		builder, fileID, derr = astio.Decoder{File: in.file, Hints: opts.Hints}.Decode(in.doc)
		return derr
	})
	if err != nil {
		res.Bag.Add(decodeDiagnostic(in.file, err))
		emit(opts.Progress, Event{File: in.path, Stage: StageDecode, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res, nil
	}
	res.Builder, res.ASTFile = builder, fileID
	if opts.SkipCheck {
		if opts.KeepTree {
			if res.Document, err = astio.Encode(builder, fileID, in.doc.Source); err != nil {
				return res, fmt.Errorf("%s: encode: %w", in.path, err)
			}
		}
		emit(opts.Progress, Event{File: in.path, Stage: StageDecode, Status: StatusDone, Elapsed: time.Since(started)})
		return res, nil
	}

	emit(opts.Progress, Event{File: in.path, Stage: StageCheck, Status: StatusWorking})
	checkStart := time.Now()
	res.Stats = readonly.Check(ctx, builder, fileID, readonly.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	opts.Timer.Add("check", time.Since(checkStart))

	var tree []byte
	if opts.KeepTree || opts.Write || opts.Cache != nil {
		encStart := time.Now()
		doc, err := astio.Encode(builder, fileID, in.doc.Source)
		if err != nil {
			return res, fmt.Errorf("%s: encode: %w", in.path, err)
		}
		if opts.KeepTree || opts.Write {
			res.Document = doc
		}
		if opts.Cache != nil && res.Stats.Wraps > 0 {
			if tree, err = astio.Marshal(doc, astio.FormatMsgpack); err != nil {
				return res, fmt.Errorf("%s: encode: %w", in.path, err)
			}
		}
		opts.Timer.Add("encode", time.Since(encStart))
	}

	if err := writeTree(res, opts); err != nil {
		emit(opts.Progress, Event{File: in.path, Stage: StageWrite, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res, err
	}

	if opts.Cache != nil {
		payload := &DiskPayload{
			Path:        in.path,
			Diagnostics: toCached(res.Bag.Items()),
			Wraps:       res.Stats.Wraps,
			Scopes:      res.Stats.Scopes,
			Tree:        tree,
		}
		if err := opts.Cache.Put(CacheKey(in.raw), payload); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
		}
	}

	emit(opts.Progress, Event{File: in.path, Stage: StageCheck, Status: StatusDone, Elapsed: time.Since(started)})
	return res, nil
}

// fromCache fills res from a cache entry. Only successful checks are cached;
// an error means the entry could not be read and res is untouched.
func fromCache(in *input, res *FileResult, opts *Options) (bool, error) {
	var payload DiskPayload
	hit, err := opts.Cache.Get(CacheKey(in.raw), &payload)
	if err != nil || !hit {
		return false, err
	}
	var doc *astio.Document
	if opts.KeepTree || opts.Write {
		doc = in.doc
		if len(payload.Tree) > 0 {
			if doc, err = astio.Unmarshal(payload.Tree, astio.FormatMsgpack); err != nil {
				return false, err
			}
		}
	}
	fromCached(payload.Diagnostics, in.file, res.Bag)
	res.Stats = readonly.Result{Wraps: payload.Wraps, Scopes: payload.Scopes, Diagnostics: len(payload.Diagnostics)}
	res.Document = doc
	res.Cached = true
	return true, nil
}

// writeTree stores res.Document when the pass inserted wrappers.
func writeTree(res *FileResult, opts *Options) error {
	if !opts.Write || res.Document == nil || res.Stats.Wraps == 0 {
		return nil
	}
	start := time.Now()
	dst := res.Path
	if opts.OutDir != "" {
		dst = filepath.Join(opts.OutDir, filepath.Base(res.Path))
	}
	if err := astio.WriteFile(dst, res.Document); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	res.Written = dst
	opts.Timer.Add("write", time.Since(start))
	return nil
}

func decodeDiagnostic(file source.FileID, err error) diag.Diagnostic {
	sp := source.Span{File: file}
	var derr *astio.Error
	if errors.As(err, &derr) {
		sp.Start, sp.End = derr.Start, derr.End
	}
	return diag.NewError(diag.IODecodeError, sp, "malformed tree: "+err.Error())
}
