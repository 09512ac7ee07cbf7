package sema

import (
	"context"
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/trace"
	"wgslfront/internal/types"
	"wgslfront/internal/validator"
)

// Options configure a semantic pass over a parsed module.
type Options struct {
	Reporter diag.Reporter
	// Extensions are enabled in addition to the module's `enable` directives.
	Extensions builtin.Extensions
	// RuleSeverity overrides the default severity of filterable rules. Source
	// `diagnostic` directives and attributes take precedence.
	RuleSeverity map[builtin.DiagnosticRule]builtin.DiagnosticSeverity
	Types        *types.Interner
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Module *sem.Module
	// Errors counts error diagnostics of this pass, parse errors excluded.
	Errors int
}

// Check resolves and validates a parsed module. Resolution is organised per
// module-scope declaration: an error aborts the declaration it is found in,
// later declarations that do not depend on it still resolve.
func Check(ctx context.Context, builder *ast.Builder, opts Options) Result {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	counter := &diag.CountingReporter{Next: opts.Reporter}
	res := Result{Module: sem.NewModule(in, opts.Extensions)}
	if builder == nil {
		return res
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "resolve", trace.CurrentSpan(ctx).SpanID)

	tc := &typeChecker{
		builder:      builder,
		counter:      counter,
		reporter:     counter,
		types:        in,
		eval:         consteval.New(in),
		module:       res.Module,
		tracer:       tracer,
		spanID:       span.ID(),
		ruleSeverity: opts.RuleSeverity,
		globals:      make(map[string]*symbol),
		failed:       make(map[string]struct{}),
		letRoots:     make(map[*sem.Variable]*sem.Variable),
		skipConst:    make(map[ast.ExprID]struct{}),
		swizzled:     make(map[ast.ExprID]struct{}),
		used:         make(map[*sem.Variable]struct{}),
		overrideIDs:  make(map[uint16]*sem.Variable),
		aliasSites:   make(map[*sem.Expr]*sem.Function),
	}
	tc.validator = validator.New(builder, res.Module, counter)
	tc.run()

	res.Errors = counter.Errors
	span.End(fmt.Sprintf("errors=%d", res.Errors))
	return res
}

type symbolKind uint8

const (
	symVar symbolKind = iota + 1
	symFunc
	symType
)

// symbol is a resolved module-scope declaration.
type symbol struct {
	kind symbolKind
	decl ast.DeclID
	v    *sem.Variable
	fn   *sem.Function
	typ  types.TypeID
}

type typeChecker struct {
	builder   *ast.Builder
	counter   *diag.CountingReporter
	reporter  diag.Reporter
	types     *types.Interner
	eval      *consteval.Evaluator
	module    *sem.Module
	validator *validator.Validator

	tracer trace.Tracer
	spanID uint64

	ruleSeverity map[builtin.DiagnosticRule]builtin.DiagnosticSeverity
	filters      []ruleFilter

	// globals holds resolved module-scope declarations by name, declNames all
	// names declared at module scope whether resolved or not.
	globals   map[string]*symbol
	declNames map[string]ast.DeclID
	failed    map[string]struct{}

	scopes scopeStack
	fn     *fnContext

	// limit restricts the evaluation stage of the expression being resolved.
	limit     *stageLimit
	skipConst map[ast.ExprID]struct{}
	// swizzled marks single-component accesses of vectors; their address
	// cannot be taken.
	swizzled map[ast.ExprID]struct{}
	letRoots map[*sem.Variable]*sem.Variable
	// curGlobal is the module-scope variable whose initializer is resolved.
	curGlobal *sem.Variable
	used      map[*sem.Variable]struct{}
	// overrideIDs holds explicit and allocated @id values.
	overrideIDs map[uint16]*sem.Variable
	// aliasSites remembers which function an alias-tracked access happened in.
	aliasSites map[*sem.Expr]*sem.Function
}

func (tc *typeChecker) run() {
	tc.applyEnables()
	tc.pushModuleFilters()

	order, ok := tc.dependencyOrder()
	if !ok {
		return
	}

	for _, id := range order {
		tc.module.DeclOrder = append(tc.module.DeclOrder, id)
		tc.resolveGlobal(id)
	}

	tc.allocateOverrideIDs()
	tc.checkUnusedGlobals()
	tc.validator.Module()
}

// resolveGlobal resolves one module-scope declaration. Failures are recorded by
// name so dependants fail quietly instead of repeating the diagnostic.
func (tc *typeChecker) resolveGlobal(id ast.DeclID) {
	decl := tc.builder.Decls.Get(id)
	if decl == nil {
		diag.Panicf("resolve", "missing declaration %d", id)
	}
	name := tc.builder.Name(decl.Name.Name)
	span := trace.Begin(tc.tracer, trace.ScopeDecl, decl.Kind.String()+" "+name, tc.spanID)
	before := tc.counter.Errors

	var (
		sym *symbol
		ok  bool
	)
	switch decl.Kind {
	case ast.DeclVar, ast.DeclConst, ast.DeclOverride:
		var v *sem.Variable
		v, ok = tc.globalVariable(id, decl)
		sym = &symbol{kind: symVar, decl: id, v: v}
	case ast.DeclFunc:
		var f *sem.Function
		f, ok = tc.function(id, decl)
		sym = &symbol{kind: symFunc, decl: id, fn: f}
	case ast.DeclStruct:
		var t types.TypeID
		t, ok = tc.structDecl(id, decl)
		sym = &symbol{kind: symType, decl: id, typ: t}
	case ast.DeclAlias:
		var t types.TypeID
		t, ok = tc.aliasDecl(id, decl)
		sym = &symbol{kind: symType, decl: id, typ: t}
	case ast.DeclConstAssert:
		data, _ := tc.builder.Decls.ConstAssert(id)
		ok = tc.constAssert(data.Cond)
	case ast.DeclLet:
		// парсер уже отверг module-scope let
	default:
		diag.Panicf("resolve", "unhandled declaration kind %s", decl.Kind)
	}

	// любая ошибка внутри объявления делает его недействительным
	if tc.counter.Errors != before {
		ok = false
	}
	switch {
	case !ok:
		if name != "" {
			tc.failed[name] = struct{}{}
		}
	case sym != nil && decl.Kind != ast.DeclConstAssert:
		tc.globals[name] = sym
		switch sym.kind {
		case symVar:
			tc.module.AddGlobal(sym.v)
		case symFunc:
			tc.module.AddFunction(sym.fn)
		case symType:
			if decl.Kind == ast.DeclStruct {
				tc.module.Structs = append(tc.module.Structs, sym.typ)
			}
		}
	}
	span.End("")
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	if tc.reporter == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(tc.reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (tc *typeChecker) stmtSpan(id ast.StmtID) source.Span {
	if s := tc.builder.Stmts.Get(id); s != nil {
		return s.Span
	}
	return source.Span{}
}

func (tc *typeChecker) typeName(id types.TypeID) string {
	return tc.types.Name(id)
}
