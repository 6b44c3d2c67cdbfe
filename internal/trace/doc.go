// Package trace records structured spans for the compile pipeline.
//
// A Tracer travels through the pipeline inside a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "lower")
//	defer span.End("")
//
// Verbosity is controlled by Level. LevelPhase emits driver and pass spans,
// LevelDetail adds one span per function, LevelDebug adds node-level points
// such as folded branches. LevelError keeps events in memory only; callers
// dump the ring when a build fails.
package trace
