package diag

import (
	"testing"

	"rocheck/internal/source"
)

func TestBag_UnboundedByDefault(t *testing.T) {
	bag := NewBag(0)
	for i := range 500 {
		if !bag.Add(NewError(SemaMutabilityMismatch, source.Span{Start: uint32(i)}, "m")) { //nolint:gosec
			t.Fatalf("unbounded bag refused diagnostic %d", i)
		}
	}
	if bag.Len() != 500 || bag.Cap() != 0 {
		t.Fatalf("expected 500 diagnostics and no cap, got %d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestBag_LimitAndMerge(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewError(SemaMutabilityMismatch, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(NewError(SemaMutabilityMismatch, source.Span{}, "b")) {
		t.Fatalf("second add must hit the limit")
	}
	other := NewBag(0)
	other.Add(New(SevWarning, SemaInfo, source.Span{}, "w"))
	bag.Merge(other)
	if bag.Len() != 2 {
		t.Fatalf("merge must grow the limit, got %d", bag.Len())
	}
	errs, warns, infos := bag.CountBySeverity()
	if errs != 1 || warns != 1 || infos != 0 {
		t.Fatalf("unexpected counts %d/%d/%d", errs, warns, infos)
	}
}

func TestReportBuilder_EmitsOnce(t *testing.T) {
	bag := NewBag(0)
	counter := &CountingReporter{Next: BagReporter{Bag: bag}}
	b := ReportError(counter, SemaMutabilityMismatch, source.Span{Start: 4, End: 9}, "mismatch").
		WithNote(source.Span{Start: 0, End: 2}, "first write")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || counter.Errors != 1 {
		t.Fatalf("expected exactly one emitted diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0].Notes; len(got) != 1 || got[0].Msg != "first write" {
		t.Fatalf("note lost: %+v", got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SemaMutabilityMismatch:          "SEM3001",
		SemaReadonlyAssignmentViolation: "SEM3002",
		SemaReturnMutabilityViolation:   "SEM3003",
		IOLoadError:                     "IO4001",
		IODecodeError:                   "IO4002",
		ObsTimings:                      "OBS5001",
	}
	for code, id := range cases {
		if code.ID() != id {
			t.Fatalf("code %d: want %s, got %s", code, id, code.ID())
		}
		back, ok := ParseCode(id)
		if !ok || back != code {
			t.Fatalf("ParseCode(%s) = %d, %v", id, back, ok)
		}
	}
}
