package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAddAggregatesByName(t *testing.T) {
	tm := NewTimer()
	tm.Add("decode", 2*time.Millisecond)
	tm.Add("check", 1*time.Millisecond)
	tm.Add("decode", 3*time.Millisecond)

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "decode" || rep.Phases[1].Name != "check" {
		t.Fatalf("phase order not preserved: %+v", rep.Phases)
	}
	if rep.Phases[0].Count != 2 {
		t.Fatalf("decode count = %d, want 2", rep.Phases[0].Count)
	}
	if rep.Phases[0].DurationMS != 5 {
		t.Fatalf("decode duration = %v, want 5", rep.Phases[0].DurationMS)
	}
	if rep.TotalMS != 6 {
		t.Fatalf("total = %v, want 6", rep.TotalMS)
	}
}

func TestTimerMeasurePassesError(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("load", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure returned %v", err)
	}
	if rep := tm.Report(); len(rep.Phases) != 1 || rep.Phases[0].Count != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestTimerConcurrentAdd(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("check", time.Microsecond)
		}()
	}
	wg.Wait()
	if got := tm.Report().Phases[0].Count; got != 16 {
		t.Fatalf("count = %d, want 16", got)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("total-run")
	tm.End(idx, "3 files")
	tm.Add("check", time.Millisecond)
	tm.Add("check", time.Millisecond)

	out := tm.Summary()
	for _, want := range []string{"timings:", "total-run", "// 3 files", "check", "x2", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestNilTimerIsNoop(t *testing.T) {
	var tm *Timer
	tm.Add("x", time.Second)
	tm.End(tm.Begin("y"), "")
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer reported phases: %+v", rep)
	}
}
