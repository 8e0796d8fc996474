package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStreamTracer_LevelGatesScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	pass := Begin(tr, ScopePass, "readonly", 0)
	file := Begin(tr, ScopeFile, "file:a.rotree", pass.ID())
	file.End("")
	pass.WithExtra("wraps", "2").End("")

	out := buf.String()
	if strings.Contains(out, "file:a.rotree") {
		t.Fatalf("file scope must be filtered at phase level:\n%s", out)
	}
	if strings.Count(out, "readonly") != 2 || !strings.Contains(out, "{wraps=2}") {
		t.Fatalf("expected begin/end of pass span with extras:\n%s", out)
	}
}

func TestStreamTracer_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeDriver, "cache", "hit", 0)

	var ev map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("invalid ndjson: %v\n%s", err, buf.String())
	}
	if ev["kind"] != "point" || ev["scope"] != "driver" || ev["detail"] != "hit" {
		t.Fatalf("unexpected event %v", ev)
	}
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestStreamTracer_WriteErrorSurfacesOnFlush(t *testing.T) {
	w := &failingWriter{}
	tr := NewStreamTracer(w, LevelDebug, FormatText)
	Point(tr, ScopeDriver, "a", "", 0)
	Point(tr, ScopeDriver, "b", "", 0)
	if w.writes != 1 {
		t.Fatalf("tracer must stop writing after a failure, got %d writes", w.writes)
	}
	if err := tr.Flush(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Flush() = %v, want the write error", err)
	}
}

func TestRingTracer_KeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeDecl, name, "", 0)
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("unexpected ring contents %+v", got)
	}
}

func TestRingTracer_DumpListsUnfinishedSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	ctx, run := StartSpan(ctx, ScopeDriver, "check")
	_, file := StartSpan(ctx, ScopeFile, "a.rotree.json")
	decl := file.Child(ScopeDecl, "function f")
	decl.End("")
	// file и run остались открытыми, как при панике внутри прохода

	open := Unfinished(ring.Snapshot())
	if len(open) != 2 || open[0].SpanID != run.ID() || open[1].SpanID != file.ID() {
		t.Fatalf("unexpected unfinished spans %+v", open)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	idx := strings.Index(out, "-- unfinished spans --")
	if idx < 0 {
		t.Fatalf("dump misses the unfinished section:\n%s", out)
	}
	tail := out[idx:]
	if !strings.Contains(tail, "a.rotree.json") || strings.Contains(tail, "function f") {
		t.Fatalf("dump tail must name open spans only:\n%s", out)
	}
}

func TestBothModeFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ring, ok := FindRing(tr)
	if !ok {
		t.Fatalf("FindRing must see the ring behind both mode")
	}
	Point(tr, ScopeFile, "cache", "miss", 0)
	if len(ring.Snapshot()) != 1 || !strings.Contains(buf.String(), "cache") {
		t.Fatalf("event must reach both tracers")
	}
	if tr.Level() != LevelDetail || !tr.Enabled() {
		t.Fatalf("unexpected level %v", tr.Level())
	}
}

func TestStartSpanNesting(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must be Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := StartSpan(ctx, ScopeDriver, "check")
	fileCtx, file := StartSpan(ctx, ScopeFile, "a.rotree.json")
	if file.ID() != 0 || CurrentSpan(fileCtx) != run {
		t.Fatalf("filtered span must leave the parent current")
	}
	_, pass := StartSpan(fileCtx, ScopePass, "readonly")
	pass.End("")
	run.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || !strings.Contains(lines[1], "  → readonly") {
		t.Fatalf("pass span must nest under the driver span:\n%s", buf.String())
	}
	if Enabled(tr, ScopeDecl) || !Enabled(tr, ScopePass) || Enabled(nil, ScopeDriver) {
		t.Fatalf("Enabled must follow the level")
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	if err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if !LevelDebug.ShouldEmit(ScopeDecl) || LevelDetail.ShouldEmit(ScopeDecl) {
		t.Fatalf("decl scope must be debug-only")
	}
	if !LevelError.ShouldEmit(ScopeDriver) || LevelError.ShouldEmit(ScopePass) {
		t.Fatalf("error level must keep driver events only")
	}
	if LevelOff.ShouldEmit(ScopeDriver) || Level(9).ShouldEmit(ScopeDriver) {
		t.Fatalf("off and unknown levels must emit nothing")
	}
	if got := Level(9).String(); got != "unknown" {
		t.Fatalf("Level(9).String() = %q", got)
	}
}
