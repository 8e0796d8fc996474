package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer attached to ctx, Nop when there is none.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the innermost recorded span of ctx or nil.
func CurrentSpan(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// StartSpan begins a span below the current span of ctx and makes it current
// in the returned context. A filtered-out span leaves ctx as is, so deeper
// spans attach to the nearest recorded ancestor:
//
//	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, path)
//	defer span.End("")
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	var span *Span
	if parent := CurrentSpan(ctx); parent != nil {
		span = parent.Child(scope, name)
	} else {
		span = Begin(FromContext(ctx), scope, name, 0)
	}
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span), span
}
