package sema

import (
	"fmt"
	"strings"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
)

// callExpr resolves f(args): a user function, a value constructor or
// conversion, or a builtin function.
func (tc *typeChecker) callExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Call(id)
	targetNode := tc.builder.Exprs.Get(d.Target)
	tdata, ok := tc.builder.Exprs.Ident(d.Target)
	if !ok {
		diag.Panicf("resolve", "call target %d is not an identifier", d.Target)
	}
	name := tc.builder.Name(tdata.Name)

	args := make([]*sem.Expr, len(d.Args))
	for i, a := range d.Args {
		arg, ok := tc.operand(a)
		if !ok {
			return nil, false
		}
		args[i] = arg
	}

	if v, ok := tc.scopes.lookup(name); ok {
		diag.ReportError(tc.reporter, diag.ResInvalidCall, targetNode.Span, fmt.Sprintf("cannot call %s '%s'", v.Kind, name)).
			WithNote(v.Span, fmt.Sprintf("%s '%s' declared here", v.Kind, name)).
			Emit()
		return nil, false
	}
	if sym, ok := tc.globals[name]; ok {
		switch sym.kind {
		case symFunc:
			if len(tdata.TemplateArgs) > 0 {
				tc.report(diag.ResMisplacedIdentifier, targetNode.Span, "function '%s' does not take template arguments", name)
				return nil, false
			}
			tc.markCallTarget(d.Target, &sem.Expr{Node: d.Target, Kind: sem.ExprFunction, Func: sym.fn, Span: targetNode.Span})
			return tc.userCall(id, e, sym.fn, d.Args, args)
		case symType:
			t, ok := tc.resolveType(d.Target)
			if !ok {
				return nil, false
			}
			return tc.construct(id, e, t, args)
		default:
			diag.ReportError(tc.reporter, diag.ResInvalidCall, targetNode.Span, fmt.Sprintf("cannot call %s '%s'", sym.v.Kind, name)).
				WithNote(sym.v.Span, fmt.Sprintf("%s '%s' declared here", sym.v.Kind, name)).
				Emit()
			return nil, false
		}
	}
	if _, ok := tc.failed[name]; ok {
		return nil, false
	}
	if _, ok := tc.declNames[name]; ok {
		diag.Panicf("resolve", "'%s' called before it was resolved", name)
	}
	if isBuiltinTypeName(name) {
		if len(tdata.TemplateArgs) == 0 && isInferredConstructor(name) {
			return tc.inferredConstruct(id, e, d.Target, name, args)
		}
		t, ok := tc.resolveType(d.Target)
		if !ok {
			return nil, false
		}
		return tc.construct(id, e, t, args)
	}
	if _, ok := intrinsics[name]; ok {
		if len(tdata.TemplateArgs) > 0 {
			tc.report(diag.ResMisplacedIdentifier, targetNode.Span, "builtin function '%s' does not take template arguments", name)
			return nil, false
		}
		tc.markCallTarget(d.Target, &sem.Expr{Node: d.Target, Kind: sem.ExprBuiltinFunction, Builtin: name, Span: targetNode.Span})
		return tc.builtinCall(id, e, name, d.Args, args)
	}
	tc.report(diag.ResUnresolvedIdentifier, targetNode.Span, "unresolved call target '%s'", name)
	return nil, false
}

func (tc *typeChecker) markCallTarget(id ast.ExprID, e *sem.Expr) {
	tc.module.MarkVisited(tc.builder.Exprs.Get(id).Node)
	tc.module.AddExpr(e)
}

func argTypeList(tc *typeChecker, args []*sem.Expr) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = tc.typeName(a.Type)
	}
	return strings.Join(names, ", ")
}

func (tc *typeChecker) userCall(id ast.ExprID, e *ast.Expr, fn *sem.Function, argIDs []ast.ExprID, args []*sem.Expr) (*sem.Expr, bool) {
	if fn.IsEntryPoint() {
		tc.report(diag.ResInvalidCall, e.Span, "entry point functions cannot be the target of a function call")
		return nil, false
	}
	if len(args) != len(fn.Params) {
		which := "few"
		if len(args) > len(fn.Params) {
			which = "many"
		}
		diag.ReportError(tc.reporter, diag.ResInvalidCall, e.Span,
			fmt.Sprintf("too %s arguments in call to '%s', expected %d, got %d", which, fn.Name, len(fn.Params), len(args))).
			WithNote(fn.Span, fmt.Sprintf("function '%s' declared here", fn.Name)).
			Emit()
		return nil, false
	}

	behaviors := sem.Behaviors(0)
	for i, arg := range args {
		p := fn.Params[i]
		if ok, incompatible := tc.convertTo(arg, p.Type); !ok {
			if incompatible {
				tc.report(diag.ResTypeMismatch, arg.Span, "type mismatch for argument %d in call to '%s', expected '%s', got '%s'",
					i+1, fn.Name, tc.typeName(p.Type), tc.typeName(arg.Type))
			}
			return nil, false
		}
		if tc.types.Kind(p.Type) == types.KindPointer && !tc.module.Extensions.Has(builtin.ExtFullPtrParameters) {
			if !tc.wholeVariablePointer(argIDs[i]) {
				tc.report(diag.ResInvalidCall, arg.Span, "arguments of pointer type must not point to a subset of the originating variable")
				return nil, false
			}
		}
		behaviors = behaviors.Union(arg.Behaviors)
	}

	ret := fn.ReturnType
	if ret == types.NoTypeID {
		ret = tc.types.Builtins().Void
	}
	out := &sem.Expr{
		Node:      id,
		Kind:      sem.ExprValue,
		Type:      ret,
		Stage:     sem.StageRuntime,
		Behaviors: behaviors.Union(fn.Behaviors),
		Func:      fn,
		Span:      e.Span,
	}
	if tc.fn != nil {
		if !tc.aliasAnalysis(fn, args) {
			return nil, false
		}
		tc.fn.fn.AddCall(fn, out)
	}
	return out, true
}

// wholeVariablePointer reports whether a pointer argument designates a whole
// variable: `&v`, a pointer parameter, or a let bound to such a pointer.
func (tc *typeChecker) wholeVariablePointer(id ast.ExprID) bool {
	e := tc.builder.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprUnary:
		d, _ := tc.builder.Exprs.Unary(id)
		if d.Op != ast.UnaryAddressOf {
			return false
		}
		return tc.builder.Exprs.Get(d.Operand).Kind == ast.ExprIdent
	case ast.ExprIdent:
		se, ok := tc.module.Expr(id)
		if !ok || se.Var == nil {
			return false
		}
		if se.Var.IsParam {
			return true
		}
		if se.Var.Init != nil {
			return tc.wholeVariablePointer(se.Var.Init.Node)
		}
	}
	return false
}

func isInferredConstructor(name string) bool {
	if name == "array" {
		return true
	}
	if _, suffix, ok := parseVecName(name); ok {
		return suffix == 0
	}
	if _, _, suffix, ok := parseMatName(name); ok {
		return suffix == 0
	}
	return false
}

// inferredConstruct handles vec3(...), mat2x2(...) and array(...), whose
// element type comes from the arguments.
func (tc *typeChecker) inferredConstruct(id ast.ExprID, e *ast.Expr, target ast.ExprID, name string, args []*sem.Expr) (*sem.Expr, bool) {
	b := tc.types.Builtins()
	targetSpan := tc.exprSpan(target)
	elems := make([]types.TypeID, len(args))
	for i, a := range args {
		elems[i] = tc.types.ElemOf(a.Type)
	}

	var t types.TypeID
	switch {
	case name == "array":
		if len(args) == 0 {
			tc.report(diag.ResInvalidConstructor, e.Span, "'array' requires at least one argument to infer the element type")
			return nil, false
		}
		argTypes := make([]types.TypeID, len(args))
		for i, a := range args {
			argTypes[i] = a.Type
		}
		elem, ok := tc.types.CommonType(argTypes...)
		if !ok {
			rb := diag.ReportError(tc.reporter, diag.ResInvalidConstructor, e.Span, "cannot infer common array element type from constructor arguments")
			seen := make(map[types.TypeID]struct{})
			for _, a := range args {
				if _, dup := seen[a.Type]; dup {
					continue
				}
				seen[a.Type] = struct{}{}
				rb.WithNote(a.Span, fmt.Sprintf("argument is of type '%s'", tc.typeName(a.Type)))
			}
			rb.Emit()
			return nil, false
		}
		t = tc.types.Array(elem, uint32(len(args)), 0)

	default:
		elem := b.AbstractInt
		if len(args) > 0 {
			c, ok := tc.types.CommonType(elems...)
			if !ok || !tc.types.IsScalar(c) {
				tc.report(diag.ResInvalidConstructor, e.Span, "no matching constructor for %s(%s)", name, argTypeList(tc, args))
				return nil, false
			}
			elem = c
		}
		if n, _, ok := parseVecName(name); ok {
			t = tc.types.Vector(elem, n)
			break
		}
		cols, rows, _, _ := parseMatName(name)
		if len(args) == 0 || tc.types.Kind(elem) == types.KindAbstractInt {
			elem = b.AbstractFloat
		}
		if !tc.types.IsFloatScalar(elem) {
			tc.report(diag.ResInvalidConstructor, e.Span, "no matching constructor for %s(%s)", name, argTypeList(tc, args))
			return nil, false
		}
		t = tc.types.Matrix(elem, cols, rows)
	}

	tc.markCallTarget(target, &sem.Expr{Node: target, Kind: sem.ExprType, Type: t, Span: targetSpan})
	return tc.construct(id, e, t, args)
}

// construct checks a value constructor or conversion T(args) and folds it
// when every argument is constant.
func (tc *typeChecker) construct(id ast.ExprID, e *ast.Expr, t types.TypeID, args []*sem.Expr) (*sem.Expr, bool) {
	stage := sem.StageConstant
	behaviors := sem.Behaviors(0)
	for _, a := range args {
		stage = sem.Latest(stage, a.Stage)
		behaviors = behaviors.Union(a.Behaviors)
	}
	if stage > sem.StageConstant {
		t = tc.types.Concrete(t)
	}
	if !tc.types.IsConstructible(t) {
		tc.report(diag.ResInvalidConstructor, e.Span, "type '%s' is not constructible", tc.typeName(t))
		return nil, false
	}
	if !tc.checkConstructorArgs(e, t, args) {
		return nil, false
	}

	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Type: t, Stage: stage, Behaviors: behaviors, Span: e.Span}
	if stage != sem.StageConstant || tc.skipped(id) {
		return out, true
	}
	vals := make([]consteval.Value, len(args))
	for i, a := range args {
		if a.Value == nil {
			return out, true
		}
		vals[i] = *a.Value
	}
	v, err := tc.eval.Construct(t, vals)
	if err != nil {
		tc.report(diag.ResConstEval, e.Span, "%s", err)
		return nil, false
	}
	out.Value = &v
	return out, true
}

func (tc *typeChecker) checkConstructorArgs(e *ast.Expr, t types.TypeID, args []*sem.Expr) bool {
	if len(args) == 0 {
		return true
	}
	tt := tc.types.MustLookup(t)
	noMatch := func() bool {
		tc.report(diag.ResInvalidConstructor, e.Span, "no matching constructor for %s(%s)", tc.typeName(t), argTypeList(tc, args))
		return false
	}
	// convertible: abstract arguments take the element type, concrete ones
	// must already have it.
	convertible := func(a *sem.Expr, to types.TypeID) bool {
		ok, _ := tc.convertTo(a, to)
		return ok
	}

	switch tt.Kind {
	case types.KindBool, types.KindAbstractInt, types.KindAbstractFloat, types.KindI32, types.KindU32, types.KindF32, types.KindF16:
		if len(args) != 1 || !tc.types.IsScalar(args[0].Type) {
			return noMatch()
		}
		return true

	case types.KindVector:
		if len(args) == 1 {
			a := args[0]
			at, _ := tc.types.Lookup(a.Type)
			switch {
			case tc.types.IsScalar(a.Type):
				return convertible(a, tt.Elem) || noMatch()
			case at.Kind == types.KindVector && at.Width == tt.Width:
				// конверсия между векторами одной ширины
				return true
			}
		}
		lanes := 0
		for _, a := range args {
			at, _ := tc.types.Lookup(a.Type)
			switch {
			case tc.types.IsScalar(a.Type):
				if !convertible(a, tt.Elem) {
					return noMatch()
				}
				lanes++
			case at.Kind == types.KindVector:
				if !convertible(a, tc.types.Vector(tt.Elem, at.Width)) {
					return noMatch()
				}
				lanes += int(at.Width)
			default:
				return noMatch()
			}
		}
		if lanes != int(tt.Width) {
			return noMatch()
		}
		return true

	case types.KindMatrix:
		col := tc.types.MustLookup(tt.Elem)
		if len(args) == 1 && tc.types.Kind(args[0].Type) == types.KindMatrix {
			at := tc.types.MustLookup(args[0].Type)
			if at.Columns == tt.Columns && tc.types.MustLookup(at.Elem).Width == col.Width {
				return true
			}
			return noMatch()
		}
		switch len(args) {
		case int(tt.Columns):
			for _, a := range args {
				if !convertible(a, tt.Elem) {
					return noMatch()
				}
			}
			return true
		case int(tt.Columns) * int(col.Width):
			for _, a := range args {
				if !tc.types.IsScalar(a.Type) || !convertible(a, col.Elem) {
					return noMatch()
				}
			}
			return true
		}
		return noMatch()

	case types.KindArray:
		if int(tt.Count) != len(args) {
			which := "few"
			if len(args) > int(tt.Count) {
				which = "many"
			}
			tc.report(diag.ResInvalidConstructor, e.Span, "array constructor has too %s elements: expected %d, found %d", which, tt.Count, len(args))
			return false
		}
		for _, a := range args {
			if !convertible(a, tt.Elem) {
				tc.report(diag.ResInvalidConstructor, a.Span, "'%s' cannot be used to construct an array of '%s'", tc.typeName(a.Type), tc.typeName(tt.Elem))
				return false
			}
		}
		return true

	case types.KindStruct:
		info, _ := tc.types.StructInfo(t)
		if len(args) != len(info.Members) {
			which := "few"
			if len(args) > len(info.Members) {
				which = "many"
			}
			tc.report(diag.ResInvalidConstructor, e.Span, "structure constructor has too %s inputs: expected %d, found %d", which, len(info.Members), len(args))
			return false
		}
		for i, a := range args {
			m := info.Members[i]
			if !convertible(a, m.Type) {
				tc.report(diag.ResInvalidConstructor, a.Span, "type in structure constructor does not match struct member type: expected '%s', found '%s'",
					tc.typeName(m.Type), tc.typeName(a.Type))
				return false
			}
		}
		return true
	}
	return noMatch()
}
