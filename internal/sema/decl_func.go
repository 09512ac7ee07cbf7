package sema

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

type frameKind uint8

const (
	frameLoop frameKind = iota + 1
	frameSwitch
	frameContinuing
)

// fnContext is the state of the function body being resolved.
type fnContext struct {
	fn *sem.Function
	// frames: enclosing loop bodies, switch cases and continuing blocks,
	// innermost last.
	frames []frameKind
	depth  int
	// breakIf is the one break-if statement allowed at this point: the last
	// statement of the continuing block being resolved.
	breakIf ast.StmtID
}

func (c *fnContext) push(k frameKind) { c.frames = append(c.frames, k) }
func (c *fnContext) pop()             { c.frames = c.frames[:len(c.frames)-1] }

func (c *fnContext) innermost() frameKind {
	if len(c.frames) == 0 {
		return 0
	}
	return c.frames[len(c.frames)-1]
}

func (c *fnContext) inContinuing() bool {
	for _, f := range c.frames {
		if f == frameContinuing {
			return true
		}
	}
	return false
}

// function resolves a function declaration: attributes, parameters, return
// type, then the body in the parameters' scope.
func (tc *typeChecker) function(id ast.DeclID, decl *ast.Decl) (*sem.Function, bool) {
	tc.checkNFC(decl.Name)
	if !tc.checkAttrs(decl.Attrs, ast.AttrTargetFn) {
		return nil, false
	}
	if tc.pushAttrFilters(decl.Attrs) {
		defer tc.popFilters()
	}
	data, _ := tc.builder.Decls.Func(id)
	f := sem.NewFunction(id, tc.builder.Name(decl.Name.Name), declNameSpan(decl))
	f.Body = data.Body
	if !tc.functionAttributes(f, decl) {
		return nil, false
	}

	tc.fn = &fnContext{fn: f}
	defer func() { tc.fn = nil }()
	for _, d := range f.Workgroup {
		if d.Override != nil {
			f.AddDirectGlobal(d.Override)
		}
	}
	tc.scopes.push()
	defer tc.scopes.pop()

	for i, pid := range data.Params {
		if !tc.parameter(f, i, pid) {
			return nil, false
		}
	}

	f.ReturnType = tc.types.Builtins().Void
	if data.ReturnType.IsValid() {
		t, ok := tc.resolveType(data.ReturnType)
		if !ok {
			return nil, false
		}
		f.ReturnType = t
	}
	if !tc.checkAttrs(data.ReturnAttrs, ast.AttrTargetReturn) {
		return nil, false
	}
	rio, ok := tc.ioAttributes(data.ReturnAttrs, tc.returnSpan(data, f.Span))
	if !ok {
		return nil, false
	}
	if !f.IsEntryPoint() && hasIO(rio) {
		tc.report(diag.ResInvalidAttribute, rio.Span, "attribute is not valid for non-entry point function return types")
		return nil, false
	}
	f.ReturnIO = rio

	body, ok := tc.block(data.Body, false)
	if !ok {
		return nil, false
	}
	tc.module.SetStmtBehaviors(data.Body, body)
	f.Behaviors = body
	if f.Behaviors.Has(sem.BehaviorReturn) {
		f.Behaviors = f.Behaviors.Remove(sem.BehaviorReturn).Add(sem.BehaviorNext)
	}

	if !tc.validator.Function(f) {
		return nil, false
	}
	if f.IsEntryPoint() {
		for _, c := range f.TransitivelyCalled {
			c.AddAncestorEntryPoint(f)
		}
	}
	tc.checkUnusedLocals(f)
	return f, true
}

func hasIO(io sem.IOAttributes) bool {
	return io.HasAny() || io.Invariant || io.Interpolation != 0
}

func (tc *typeChecker) returnSpan(data *ast.DeclFuncData, fallback source.Span) source.Span {
	if data.ReturnType.IsValid() {
		return tc.exprSpan(data.ReturnType)
	}
	return fallback
}

// functionAttributes reads the stage, @must_use and @workgroup_size.
func (tc *typeChecker) functionAttributes(f *sem.Function, decl *ast.Decl) bool {
	for _, aid := range decl.Attrs {
		a := tc.builder.Attrs.Get(aid)
		if a == nil {
			continue
		}
		var stage sem.PipelineStage
		switch a.Kind {
		case ast.AttrVertex:
			stage = sem.StageVertex
		case ast.AttrFragment:
			stage = sem.StageFragment
		case ast.AttrCompute:
			stage = sem.StageCompute
		case ast.AttrMustUse:
			f.MustUse = true
			continue
		case ast.AttrWorkgroupSize:
			if !tc.workgroupSize(f, a) {
				return false
			}
			continue
		default:
			continue
		}
		if f.Stage != sem.StageNone {
			tc.report(diag.ResInvalidAttribute, a.Span, "a function can only have one pipeline stage attribute")
			return false
		}
		f.Stage = stage
	}
	if f.MustUse && f.IsEntryPoint() {
		span, _ := tc.findAttrSpan(decl.Attrs, ast.AttrMustUse)
		tc.report(diag.ResInvalidAttribute, span, "@must_use can not be applied to an entry point")
		return false
	}
	return true
}

func (tc *typeChecker) findAttrSpan(list []ast.AttrID, kind ast.AttrKind) (source.Span, bool) {
	_, a := tc.builder.Attrs.Find(list, kind)
	if a == nil {
		return source.Span{}, false
	}
	return a.Span, true
}

// workgroupSize resolves up to three const or override arguments of a common
// integer type. Missing dimensions are 1.
func (tc *typeChecker) workgroupSize(f *sem.Function, a *ast.Attr) bool {
	f.HasWorkgroupSize = true
	args := make([]*sem.Expr, len(a.Args))
	common := types.NoTypeID
	for i, arg := range a.Args {
		e, ok := tc.withStageLimit(sem.StageOverride, "workgroup_size argument", func() (*sem.Expr, bool) {
			return tc.valueExpr(arg)
		})
		if !ok {
			return false
		}
		if !tc.types.IsIntegerScalar(e.Type) {
			tc.report(diag.ResWorkgroupSize, e.Span, "workgroup_size argument must be either a literal, constant, or overridable of type abstract-integer, i32 or u32")
			return false
		}
		if !tc.types.IsAbstract(e.Type) {
			if common != types.NoTypeID && common != e.Type {
				tc.report(diag.ResWorkgroupSize, e.Span, "workgroup_size arguments must be of the same type, either i32 or u32")
				return false
			}
			common = e.Type
		}
		args[i] = e
	}
	if common == types.NoTypeID {
		common = tc.types.Builtins().I32
	}

	for i := range f.Workgroup {
		if i >= len(args) {
			one := uint32(1)
			f.Workgroup[i] = sem.WorkgroupDim{Value: &one, Span: a.Span}
			continue
		}
		e := args[i]
		if !tc.materializeTo(e, common) {
			return false
		}
		dim := sem.WorkgroupDim{Span: e.Span}
		switch {
		case e.Stage == sem.StageConstant && e.Value != nil:
			if e.Value.Int < 1 {
				tc.report(diag.ResWorkgroupSize, e.Span, "workgroup_size argument must be at least 1")
				return false
			}
			n := uint32(e.Value.Int)
			dim.Value = &n
		case e.Var != nil && e.Var.Kind == ast.DeclOverride:
			dim.Override = e.Var
		}
		f.Workgroup[i] = dim
	}
	return true
}

// parameter resolves one parameter and binds it in the function scope.
func (tc *typeChecker) parameter(f *sem.Function, index int, pid ast.ParamID) bool {
	p := tc.builder.Decls.Param(pid)
	tc.checkNFC(p.Name)
	if !tc.checkAttrs(p.Attrs, ast.AttrTargetParam) {
		return false
	}
	t, ok := tc.resolveType(p.Type)
	if !ok {
		return false
	}
	io, ok := tc.ioAttributes(p.Attrs, p.Span)
	if !ok {
		return false
	}
	if !f.IsEntryPoint() && hasIO(io) {
		tc.report(diag.ResInvalidAttribute, p.Span, "attribute is not valid for non-entry point function parameters")
		return false
	}
	v := &sem.Variable{
		Param:    pid,
		Name:     tc.builder.Name(p.Name.Name),
		Kind:     ast.DeclLet,
		IsParam:  true,
		Index:    index,
		Type:     t,
		Stage:    sem.StageRuntime,
		IO:       io,
		Span:     p.Name.Span,
		Function: f,
	}
	if !tc.validator.Parameter(v) {
		return false
	}
	tc.module.AddParam(v)
	f.Params = append(f.Params, v)
	return tc.declare(v)
}
