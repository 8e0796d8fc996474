package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last events in memory. It backs the crash dump:
// after a panic the tail of the run and the spans that never ended show
// which file and declaration the checker was in.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total int // events stored since creation
	level Level
}

// NewRingTracer keeps up to capacity events; non-positive means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%len(t.buf)] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := min(t.total, len(t.buf))
	out := make([]Event, 0, n)
	for i := t.total - n; i < t.total; i++ {
		out = append(out, t.buf[i%len(t.buf)])
	}
	return out
}

// Unfinished returns begin events in events without a matching end, outermost
// first. Spans whose begin already left the ring are not reported.
func Unfinished(events []Event) []Event {
	open := make(map[uint64]int)
	for i := range events {
		switch events[i].Kind {
		case KindSpanBegin:
			open[events[i].SpanID] = i
		case KindSpanEnd:
			delete(open, events[i].SpanID)
		}
	}
	out := make([]Event, 0, len(open))
	for i := range events {
		if idx, ok := open[events[i].SpanID]; ok && idx == i {
			out = append(out, events[i])
		}
	}
	return out
}

// Dump writes the stored events followed by the unfinished spans.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	open := Unfinished(events)
	if len(open) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "-- unfinished spans --"); err != nil {
		return err
	}
	for i := range open {
		if _, err := w.Write(FormatEvent(&open[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
