package trace

import "time"

// Kind is what an event records about its span.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span opened
	KindSpanEnd                   // span closed, Detail carries the outcome
	KindPoint                     // instant event attached to a span
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser, so a
// level admits a scope by comparing against its ceiling.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a whole CLI run
	ScopePass                    // one pass over one tree: decode, readonly, encode
	ScopeFile                    // handling of one input document
	ScopeDecl                    // one function or method inside the readonly pass
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file", ScopeDecl: "decl"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Depth    int               // nesting below the root span of the run
	Name     string            // e.g. "readonly", "file:a.rotree"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
