// Package trace is the logging layer of rocheck: structured span and point
// events about what the driver and the readonly pass are doing.
//
// Enable it from the command line:
//
//	rocheck check --trace=- --trace-level=detail testdata/
//
// Tracers: Nop (disabled), StreamTracer (text or NDJSON to a file or
// stderr) and RingTracer (last N events, dumped with the spans still open
// when the tool panics); --trace-mode=both feeds both. Levels gate scopes:
//
//   - phase: driver and pass spans;
//   - detail: adds one span per input file;
//   - debug: adds one span per function or method checked.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, path)
//	defer span.End("")
//
// A span filtered out by the level does not become current, so nested spans
// attach to the nearest recorded ancestor.
package trace
