// Package trace records where the front end spends its time and where it was
// when something went wrong.
//
// Every pipeline phase (lex, classify, parse, resolve, validate) opens a span at
// ScopePhase; the resolver opens one ScopeDecl span per module-scope
// declaration. The verbosity level decides which scopes reach the sink:
//
//	off     nothing
//	error   nothing while running; the ring is dumped after an internal error
//	phase   driver and phase spans
//	detail  plus per-declaration spans
//	debug   everything, including per-node points
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
package trace
