package driver

import (
	"context"
	"fmt"
	"runtime/debug"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/observ"
	"wgslfront/internal/parser"
	"wgslfront/internal/sem"
	"wgslfront/internal/sema"
	"wgslfront/internal/source"
	"wgslfront/internal/trace"
)

// Options configure one run of the full pipeline.
type Options struct {
	Extensions     builtin.Extensions
	RuleSeverity   map[builtin.DiagnosticRule]builtin.DiagnosticSeverity
	MaxErrors      uint
	MaxDiagnostics int
	// Timings appends an OBS6001 diagnostic with per-phase durations.
	Timings bool
	// NoDialectHints disables the SYN2026 note for GLSL/HLSL/Metal-looking files.
	NoDialectHints bool
}

// Result of checking one file. Builder and Module are nil when the result
// came from a cache.
type Result struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Builder *ast.Builder
	Module  *sem.Module
	Timing  *observ.Report
	Cached  bool
}

func (r *Result) OK() bool {
	return r.Bag == nil || !r.Bag.HasErrors()
}

// CheckFile loads path into fs and runs the pipeline on it. Only an
// unreadable file is an error; everything else is a diagnostic.
func CheckFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return CheckLoaded(ctx, fs.Get(fileID), opts), nil
}

// CheckLoaded parses, resolves and validates a file already in a FileSet.
// An internal compiler error aborts this file only and becomes IO7001.
func CheckLoaded(ctx context.Context, file *source.File, opts Options) (res *Result) {
	res = &Result{
		Path:   file.Path,
		FileID: file.ID,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "file:"+file.Path, trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
	timer := observ.NewTimer()

	defer func() {
		if r := recover(); r != nil {
			ice, ok := diag.AsICE(r)
			if !ok {
				panic(r)
			}
			trace.Point(tracer, trace.ScopeDriver, "ice", ice.Error(), span.ID())
			diag.ReportError(reporter, diag.IOInternal, source.Span{File: file.ID}, ice.Error()).
				WithNote(source.Span{File: file.ID}, "stack: "+firstFrames(debug.Stack(), 6)).
				Emit()
			res.Builder, res.Module = nil, nil
		}
		res.Bag.Sort()
		if opts.Timings {
			report := timer.Report()
			res.Timing = &report
			appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
		}
		span.End(fmt.Sprintf("diagnostics=%d suppressed=%d", res.Bag.Len(), reporter.Suppressed()))
	}()

	builder := ast.NewBuilder(ast.Hints{}, nil)
	res.Builder = builder

	idx := timer.Begin("parse")
	pres := parser.ParseFile(ctx, file, builder, parser.Options{
		MaxErrors: opts.MaxErrors,
		Reporter:  reporter,
	})
	timer.End(idx, fmt.Sprintf("tokens=%d", pres.Tokens))

	// парсер восстанавливается после ошибок, поэтому резолвер идёт всегда
	idx = timer.Begin("resolve+validate")
	sres := sema.Check(ctx, builder, sema.Options{
		Reporter:     reporter,
		Extensions:   opts.Extensions,
		RuleSeverity: opts.RuleSeverity,
	})
	timer.End(idx, fmt.Sprintf("errors=%d", sres.Errors))
	res.Module = sres.Module

	if !opts.NoDialectHints && res.Bag.HasErrors() {
		reportDialect(file, res.Bag, reporter)
	}
	return res
}

func firstFrames(stack []byte, n int) string {
	lines := 0
	for i, c := range stack {
		if c == '\n' {
			lines++
			if lines == 1+2*n {
				return string(stack[:i])
			}
		}
	}
	return string(stack)
}
