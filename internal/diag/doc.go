// Package diag defines the diagnostic model shared by every front-end phase.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error. Only errors make a compilation fail.
//   - Code – numeric identifier grouped by phase (LEX, SYN, RES, VAL, CFG, OBS, IO).
//   - Message – short human text, the exact wording is part of the test surface.
//   - Primary – the source.Span the message is about.
//   - Notes – secondary spans ("'x' previously declared here").
//   - Fixes – optional textual edits; data only.
//
// # Emitting diagnostics
//
// Phases see only the Reporter interface. ReportBuilder lets a producer chain
// WithNote calls before Emit:
//
//	diag.ReportError(r, diag.ResRedeclaration, sp, "redeclaration of 'x'").
//		WithNote(prev, "'x' previously declared here").
//		Emit()
//
// BagReporter stores into a Bag with a limit. DedupReporter drops repeats of
// the same code, span and message unless the severity rises. CountingReporter
// keeps per-severity totals for early exit decisions.
//
// Per-rule severity overrides (diagnostic directives) are applied by the resolver
// before a diagnostic reaches a Reporter; diag itself never rewrites severities.
package diag
