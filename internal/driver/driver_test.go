package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"rocheck/internal/astio"
	"rocheck/internal/diag"
	"rocheck/internal/observ"
	"rocheck/internal/source"
	"rocheck/internal/testkit"
)

// function f(readonly $p) { $x = $p; $x->prop = 1; }
const violationTree = `{
  "version": 1,
  "source": "violation.hack",
  "items": [
    {"kind": "fun", "start": 0, "end": 50, "name": "f",
     "params": [{"kind": "param", "start": 11, "end": 22, "name": "$p", "flags": ["readonly"]}],
     "body": {"kind": "block", "start": 24, "end": 50, "stmts": [
       {"kind": "expr", "start": 26, "end": 34,
        "expr": {"kind": "binary", "op": "=", "start": 26, "end": 33,
                 "left": {"kind": "lvar", "name": "$x", "start": 26, "end": 28},
                 "right": {"kind": "lvar", "name": "$p", "start": 31, "end": 33}}},
       {"kind": "expr", "start": 35, "end": 48,
        "expr": {"kind": "binary", "op": "=", "start": 35, "end": 47,
                 "left": {"kind": "obj_get", "name": "prop", "start": 35, "end": 43,
                          "target": {"kind": "lvar", "name": "$x", "start": 35, "end": 37}},
                 "right": {"kind": "lit", "lit": "int", "value": "1", "start": 46, "end": 47}}}
     ]}}
  ]
}`

// function f(readonly $p) { g($p); }
const wrapTree = `{
  "version": 1,
  "source": "wrap.hack",
  "items": [
    {"kind": "fun", "start": 0, "end": 34, "name": "f",
     "params": [{"kind": "param", "start": 11, "end": 22, "name": "$p", "flags": ["readonly"]}],
     "body": {"kind": "block", "start": 24, "end": 34, "stmts": [
       {"kind": "expr", "start": 26, "end": 32,
        "expr": {"kind": "call", "start": 26, "end": 31,
                 "target": {"kind": "id", "name": "g", "start": 26, "end": 27},
                 "args": [{"kind": "lvar", "name": "$p", "start": 28, "end": 30}]}}
     ]}}
  ]
}`

// function f() { return 1; }
const cleanTree = `{
  "version": 1,
  "items": [
    {"kind": "fun", "start": 0, "end": 26, "name": "f",
     "body": {"kind": "block", "start": 13, "end": 26, "stmts": [
       {"kind": "return", "start": 15, "end": 24,
        "expr": {"kind": "lit", "lit": "int", "value": "1", "start": 22, "end": 23}}
     ]}}
  ]
}`

const badKindTree = `{"version": 1, "items": [{"kind": "bogus", "start": 3, "end": 9}]}`

func putTree(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCheckFileClean(t *testing.T) {
	path := putTree(t, t.TempDir(), "clean.rotree.json", cleanTree)
	res, err := CheckFile(context.Background(), source.NewFileSet(), path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Bag.Len() != 0 || res.Failed() {
		t.Fatalf("expected no diagnostics, got %v", codes(res.Bag))
	}
	if res.Builder == nil || res.Stats.Scopes == 0 {
		t.Fatalf("pass did not run: %+v", res.Stats)
	}
}

func TestCheckFileReportsViolation(t *testing.T) {
	dir := t.TempDir()
	path := putTree(t, dir, "violation.rotree.json", violationTree)
	if err := os.WriteFile(filepath.Join(dir, "violation.hack"),
		[]byte("function f(readonly $p) { $x = $p; $x->prop = 1; }"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	res, err := CheckFile(context.Background(), fs, path, Options{})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	got := codes(res.Bag)
	if len(got) != 1 || got[0] != diag.SemaReadonlyAssignmentViolation {
		t.Fatalf("expected one SEM3002, got %v", got)
	}
	d := res.Bag.Items()[0]
	if d.Primary.Start != 35 || d.Primary.End != 47 {
		t.Fatalf("unexpected primary span %+v", d.Primary)
	}
	file := fs.Get(d.Primary.File)
	if file == nil || filepath.Base(file.Path) != "violation.hack" {
		t.Fatalf("diagnostic does not point into the source text: %+v", file)
	}
	if got := testkit.SpanText(file, d.Primary); got != "$x->prop = 1" {
		t.Fatalf("primary span covers %q", got)
	}
	if err := testkit.CheckSpanInvariants(res.Builder, res.ASTFile); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func TestCheckFileLoadAndDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		path  string
		code  diag.Code
		start uint32
		end   uint32
	}{
		{"missing", filepath.Join(dir, "missing.rotree.json"), diag.IOLoadError, 0, 0},
		{"syntax", putTree(t, dir, "broken.rotree.json", `{"version": 1, "items": [`), diag.IODecodeError, 0, 0},
		{"unknown kind", putTree(t, dir, "kind.rotree.json", badKindTree), diag.IODecodeError, 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CheckFile(context.Background(), source.NewFileSet(), tt.path, Options{})
			if err != nil {
				t.Fatalf("CheckFile: %v", err)
			}
			items := res.Bag.Items()
			if len(items) != 1 || items[0].Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code.ID(), codes(res.Bag))
			}
			if items[0].Primary.Start != tt.start || items[0].Primary.End != tt.end {
				t.Fatalf("unexpected span %+v", items[0].Primary)
			}
			if !res.Failed() || res.Builder != nil {
				t.Fatalf("file should be marked failed")
			}
		})
	}
}

func TestWriteToOutDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	wrap := putTree(t, dir, "wrap.rotree.json", wrapTree)
	clean := putTree(t, dir, "clean.rotree.json", cleanTree)

	run, err := CheckPaths(context.Background(), []string{wrap, clean}, Options{Write: true, OutDir: out})
	if err != nil {
		t.Fatalf("CheckPaths: %v", err)
	}
	if run.Files[0].Stats.Wraps != 1 {
		t.Fatalf("expected one wrapper, got %d", run.Files[0].Stats.Wraps)
	}
	if run.Files[0].Written != filepath.Join(out, "wrap.rotree.json") {
		t.Fatalf("unexpected destination %q", run.Files[0].Written)
	}
	if run.Files[1].Written != "" {
		t.Fatalf("unchanged tree must not be written")
	}
	if n, err := testkit.CheckWrapInvariants(run.Files[0].Builder); err != nil || n != 1 {
		t.Fatalf("wrap invariants: %d wrappers, %v", n, err)
	}

	doc, _, err := astio.ReadFile(run.Files[0].Written)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	arg := doc.Items[0].Body.Stmts[0].Expr.Args[0]
	if arg.Kind != "readonly" || !arg.HasFlag(astio.FlagSynthetic) || arg.Expr == nil || arg.Expr.Name != "$p" {
		t.Fatalf("argument not wrapped: %+v", arg)
	}

	// The original stays untouched when an out dir is given.
	orig, _, err := astio.ReadFile(wrap)
	if err != nil {
		t.Fatal(err)
	}
	if orig.Items[0].Body.Stmts[0].Expr.Args[0].Kind != "lvar" {
		t.Fatalf("input was rewritten")
	}
}

func TestCacheHitReproducesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCache("rocheck-test", filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	path := putTree(t, dir, "violation.rotree.json", violationTree)
	opts := Options{Cache: cache}

	first, err := CheckPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CheckPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached || !second.Files[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first.Files[0].Cached, second.Files[0].Cached)
	}
	if second.Metrics.CacheHits != 1 {
		t.Fatalf("expected one cache hit, got %d", second.Metrics.CacheHits)
	}
	a, b := first.Files[0].Bag.Items(), second.Files[0].Bag.Items()
	if len(a) != len(b) {
		t.Fatalf("diagnostic count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Message != b[i].Message ||
			a[i].Primary.Start != b[i].Primary.Start || a[i].Primary.End != b[i].Primary.End ||
			len(a[i].Notes) != len(b[i].Notes) {
			t.Fatalf("diagnostic %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	third, err := CheckPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Fatalf("dropped cache still hit")
	}
}

func TestCheckPathsKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"c.rotree.json", "a.rotree.json", "b.rotree.json", "skip.txt"}
	bodies := []string{violationTree, cleanTree, badKindTree, "ignored"}
	for i, n := range names {
		putTree(t, dir, n, bodies[i])
	}

	run, err := CheckPaths(context.Background(), []string{dir}, Options{
		Jobs:    3,
		Include: []string{"*.rotree.json"},
	})
	if err != nil {
		t.Fatalf("CheckPaths: %v", err)
	}
	want := []string{"a.rotree.json", "b.rotree.json", "c.rotree.json"}
	if len(run.Files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(run.Files))
	}
	for i, w := range want {
		if filepath.Base(run.Files[i].Path) != w {
			t.Fatalf("file %d = %s, want %s", i, run.Files[i].Path, w)
		}
	}
	if run.Metrics.Failed != 1 || run.Metrics.Diagnostics != 2 || !run.HasErrors() {
		t.Fatalf("unexpected metrics %+v", run.Metrics)
	}
	if got := run.Diagnostics(); len(got) != 2 || got[0].Code != diag.IODecodeError || got[1].Code != diag.SemaReadonlyAssignmentViolation {
		t.Fatalf("diagnostics out of order")
	}
}

func TestExpandPathsKeepsExplicitAndMissingFiles(t *testing.T) {
	dir := t.TempDir()
	explicit := putTree(t, dir, "tree.data", cleanTree)
	missing := filepath.Join(dir, "nope.rotree")
	got, err := ExpandPaths([]string{explicit, missing, explicit}, []string{"*.rotree"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != explicit || got[1] != missing {
		t.Fatalf("unexpected expansion %v", got)
	}
}

func TestProgressEventsAndTimer(t *testing.T) {
	dir := t.TempDir()
	path := putTree(t, dir, "violation.rotree.json", violationTree)

	var (
		mu     sync.Mutex
		events []Event
	)
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	timer := observ.NewTimer()
	run, err := CheckPaths(context.Background(), []string{path}, Options{Progress: sink, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || events[0].Status != StatusQueued {
		t.Fatalf("first event should be queued: %+v", events)
	}
	last := events[len(events)-1]
	if last.Stage != StageCheck || last.Status != StatusDone || last.File != path {
		t.Fatalf("unexpected last event %+v", last)
	}

	d, ok := run.TimingDiagnostic(timer)
	if !ok || d.Code != diag.ObsTimings || d.Severity != diag.SevInfo || len(d.Notes) != 1 {
		t.Fatalf("unexpected timing diagnostic %+v", d)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusDone})
	if e := <-ch; e.File != "x" || e.Status != StatusDone {
		t.Fatalf("unexpected event %+v", e)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel is ignored
}
