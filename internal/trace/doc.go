// Package trace records spans for the scene pipeline: one driver span per
// command, one file span per document and one pass span per stage
// (parse, canonicalize, validate).
//
// Включается флагами CLI:
//
//	scenec diag --trace=- --trace-level=phase scenes/
//
// Levels: off, error (ring only, dumped on crash), phase (driver and pass
// spans), detail (plus file spans), debug (everything).
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "validate", parentID)
//	defer span.End("")
package trace
