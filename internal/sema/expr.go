package sema

import (
	"fmt"
	"strings"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

const maxExprDepth = 512

// stageLimit is the latest evaluation stage the expression being resolved may
// have: const initializers, override initializers, array counts.
type stageLimit struct {
	stage sem.Stage
	what  string
}

func (tc *typeChecker) withStageLimit(stage sem.Stage, what string, fn func() (*sem.Expr, bool)) (*sem.Expr, bool) {
	prev := tc.limit
	tc.limit = &stageLimit{stage: stage, what: what}
	defer func() { tc.limit = prev }()
	return fn()
}

// expr resolves the expression tree rooted at root. Nodes are collected in
// right-to-left pre-order and resolved in reverse, so every operand is
// resolved before its parent and siblings left to right.
func (tc *typeChecker) expr(root ast.ExprID) (*sem.Expr, bool) {
	type frame struct {
		id    ast.ExprID
		depth int
	}
	var (
		order []ast.ExprID
		stack = []frame{{root, 0}}
		lhsOf = make(map[ast.ExprID]ast.ExprID)
	)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > maxExprDepth {
			tc.report(diag.ResExpressionDepth, tc.exprSpan(f.id), "reached max expression depth of %d", maxExprDepth)
			return nil, false
		}
		order = append(order, f.id)
		for _, c := range tc.operands(f.id, lhsOf) {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}

	var last *sem.Expr
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		e, ok := tc.exprNode(id)
		if !ok {
			return nil, false
		}
		if tc.limit != nil && e.Kind == sem.ExprValue && e.Stage > tc.limit.stage {
			tc.report(diag.ResConstEval, e.Span, "%s requires %s, but expression is %s",
				tc.limit.what, stageExpression(tc.limit.stage), stageExpression(e.Stage))
			return nil, false
		}
		if bin, ok := lhsOf[id]; ok {
			tc.shortCircuit(bin, e)
		}
		last = e
	}
	return last, true
}

func stageExpression(s sem.Stage) string {
	switch s {
	case sem.StageOverride:
		return "an override-expression"
	case sem.StageRuntime:
		return "a runtime-expression"
	}
	return "a const-expression"
}

// operands lists the children the walk resolves for id, left to right.
// Template arguments, bitcast target types and call targets are resolved by
// the node handlers themselves.
func (tc *typeChecker) operands(id ast.ExprID, lhsOf map[ast.ExprID]ast.ExprID) []ast.ExprID {
	e := tc.builder.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprUnary:
		d, _ := tc.builder.Exprs.Unary(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprBinary:
		d, _ := tc.builder.Exprs.Binary(id)
		if d.Op.IsLogical() {
			lhsOf[d.Left] = id
		}
		return []ast.ExprID{d.Left, d.Right}
	case ast.ExprCall:
		d, _ := tc.builder.Exprs.Call(id)
		return d.Args
	case ast.ExprIndex:
		d, _ := tc.builder.Exprs.Index(id)
		return []ast.ExprID{d.Target, d.Index}
	case ast.ExprMember:
		d, _ := tc.builder.Exprs.Member(id)
		return []ast.ExprID{d.Target}
	case ast.ExprBitcast:
		d, _ := tc.builder.Exprs.Bitcast(id)
		return []ast.ExprID{d.Value}
	}
	return nil
}

// shortCircuit marks the right operand of `false && x` and `true || x` as not
// evaluated, so nothing in it is folded.
func (tc *typeChecker) shortCircuit(bin ast.ExprID, lhs *sem.Expr) {
	if lhs.Value == nil || lhs.Stage != sem.StageConstant {
		return
	}
	d, _ := tc.builder.Exprs.Binary(bin)
	if (d.Op == ast.BinaryLogicalAnd && !lhs.Value.Bool) || (d.Op == ast.BinaryLogicalOr && lhs.Value.Bool) {
		tc.builder.WalkExpr(d.Right, func(id ast.ExprID, _ *ast.Expr) bool {
			tc.skipConst[id] = struct{}{}
			return true
		})
	}
}

func (tc *typeChecker) exprNode(id ast.ExprID) (*sem.Expr, bool) {
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		diag.Panicf("resolve", "expression %d does not exist", id)
	}
	var (
		out *sem.Expr
		ok  bool
	)
	switch e.Kind {
	case ast.ExprIdent:
		out, ok = tc.identExpr(id, e)
		if !ok || out.Kind == sem.ExprType {
			// типы уже зарегистрированы resolveType
			return out, ok
		}
	case ast.ExprLit:
		out, ok = tc.literalExpr(id, e)
	case ast.ExprUnary:
		out, ok = tc.unaryExpr(id, e)
	case ast.ExprBinary:
		out, ok = tc.binaryExpr(id, e)
	case ast.ExprCall:
		out, ok = tc.callExpr(id, e)
	case ast.ExprIndex:
		out, ok = tc.indexExpr(id, e)
	case ast.ExprMember:
		out, ok = tc.memberExpr(id, e)
	case ast.ExprBitcast:
		out, ok = tc.bitcastExpr(id, e)
	case ast.ExprPhony:
		tc.report(diag.ResInvalidAssignment, e.Span, "phony assignment must be used as the left side of an assignment")
		return nil, false
	default:
		diag.Panicf("resolve", "unhandled expression kind %s", e.Kind)
	}
	if !ok {
		return nil, false
	}
	if out.Kind == sem.ExprValue {
		if _, skip := tc.skipConst[id]; skip && out.Stage == sem.StageConstant {
			out.Stage = sem.StageNotEvaluated
			out.Value = nil
		}
	}
	tc.module.MarkVisited(e.Node)
	tc.module.AddExpr(out)
	return out, true
}

// valueExpr resolves id as an rvalue: it must produce a value, and a reference
// is loaded.
func (tc *typeChecker) valueExpr(id ast.ExprID) (*sem.Expr, bool) {
	e, ok := tc.expr(id)
	if !ok {
		return nil, false
	}
	return tc.rvalue(e)
}

// rvalue checks that e is a value and loads through a reference. The load is
// a copy of e that is not recorded in the module.
func (tc *typeChecker) rvalue(e *sem.Expr) (*sem.Expr, bool) {
	switch e.Kind {
	case sem.ExprValue:
	case sem.ExprType:
		tc.report(diag.ResMisplacedIdentifier, e.Span, "cannot use type '%s' as value", tc.typeName(e.Type))
		return nil, false
	case sem.ExprFunction:
		diag.ReportError(tc.reporter, diag.ResMisplacedIdentifier, e.Span, "missing '(' for function call").
			WithNote(e.Func.Span, fmt.Sprintf("function '%s' declared here", e.Func.Name)).
			Emit()
		return nil, false
	case sem.ExprBuiltinFunction:
		tc.report(diag.ResMisplacedIdentifier, e.Span, "missing '(' for builtin function call")
		return nil, false
	default:
		tc.report(diag.ResMisplacedIdentifier, e.Span, "cannot use %s '%s' as value", e.Kind, e.Enumerant)
		return nil, false
	}
	if e.Type == tc.types.Builtins().Void {
		tc.report(diag.ResInvalidCall, e.Span, "%s does not return a value", tc.describeCallee(e))
		return nil, false
	}
	if tc.types.Kind(e.Type) != types.KindReference {
		return e, true
	}
	tc.registerLoad(e)
	loaded := *e
	loaded.Type = tc.types.UnwrapRef(e.Type)
	loaded.Root = nil
	return &loaded, true
}

// operand returns the loaded value of an already resolved child.
func (tc *typeChecker) operand(id ast.ExprID) (*sem.Expr, bool) {
	e, ok := tc.module.Expr(id)
	if !ok {
		diag.Panicf("resolve", "operand %d resolved out of order", id)
	}
	return tc.rvalue(e)
}

func (tc *typeChecker) child(id ast.ExprID) *sem.Expr {
	e, ok := tc.module.Expr(id)
	if !ok {
		diag.Panicf("resolve", "operand %d resolved out of order", id)
	}
	return e
}

// identExpr resolves a name in expression position: locals, then module-scope
// declarations, then builtins.
func (tc *typeChecker) identExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	data, _ := tc.builder.Exprs.Ident(id)
	name := tc.builder.Name(data.Name)

	if v, ok := tc.scopes.lookup(name); ok {
		if len(data.TemplateArgs) > 0 {
			tc.report(diag.ResMisplacedIdentifier, e.Span, "%s '%s' does not take template arguments", v.Kind, name)
			return nil, false
		}
		return tc.varRef(id, v, e.Span), true
	}
	if sym, ok := tc.globals[name]; ok {
		switch sym.kind {
		case symVar:
			if len(data.TemplateArgs) > 0 {
				tc.report(diag.ResMisplacedIdentifier, e.Span, "%s '%s' does not take template arguments", sym.v.Kind, name)
				return nil, false
			}
			return tc.varRef(id, sym.v, e.Span), true
		case symFunc:
			if len(data.TemplateArgs) > 0 {
				tc.report(diag.ResMisplacedIdentifier, e.Span, "function '%s' does not take template arguments", name)
				return nil, false
			}
			return &sem.Expr{Node: id, Kind: sem.ExprFunction, Func: sym.fn, Span: e.Span}, true
		case symType:
			if _, ok := tc.resolveType(id); !ok {
				return nil, false
			}
			return tc.child(id), true
		}
	}
	if _, ok := tc.failed[name]; ok {
		return nil, false
	}
	if _, ok := tc.declNames[name]; ok {
		diag.Panicf("resolve", "'%s' used before it was resolved", name)
	}
	if isBuiltinTypeName(name) {
		if _, ok := tc.resolveType(id); !ok {
			return nil, false
		}
		return tc.child(id), true
	}
	if _, ok := intrinsics[name]; ok {
		if len(data.TemplateArgs) > 0 {
			tc.report(diag.ResMisplacedIdentifier, e.Span, "builtin function '%s' does not take template arguments", name)
			return nil, false
		}
		return &sem.Expr{Node: id, Kind: sem.ExprBuiltinFunction, Builtin: name, Span: e.Span}, true
	}
	tc.report(diag.ResUnresolvedIdentifier, e.Span, "unresolved identifier '%s'", name)
	return nil, false
}

// varRef is a use of a variable. `var` yields a reference, everything else a
// value.
func (tc *typeChecker) varRef(id ast.ExprID, v *sem.Variable, span source.Span) *sem.Expr {
	tc.used[v] = struct{}{}
	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Var: v, Span: span}
	switch v.Kind {
	case ast.DeclConst:
		out.Type, out.Stage, out.Value = v.Type, sem.StageConstant, v.Value
	case ast.DeclOverride:
		out.Type, out.Stage = v.Type, sem.StageOverride
	case ast.DeclVar:
		out.Type = tc.types.Reference(v.Space, v.Type, v.Access)
		out.Stage = sem.StageRuntime
		out.Root = v
	default:
		out.Type, out.Stage = v.Type, sem.StageRuntime
		if tc.types.Kind(v.Type) == types.KindPointer {
			if root, ok := tc.letRoots[v]; ok {
				out.Root = root
			} else {
				out.Root = v
			}
		}
	}
	if v.Global {
		if tc.fn != nil {
			tc.fn.fn.AddDirectGlobal(v)
		}
		if g := tc.curGlobal; g != nil && g != v {
			addReferenced(g, v)
		}
	}
	return out
}

func addReferenced(g, v *sem.Variable) {
	for _, r := range g.TransitivelyReferenced {
		if r == v {
			return
		}
	}
	g.TransitivelyReferenced = append(g.TransitivelyReferenced, v)
	for _, r := range v.TransitivelyReferenced {
		addReferenced(g, r)
	}
}

func (tc *typeChecker) literalExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	lit, _ := tc.builder.Exprs.Literal(id)
	var v consteval.Value
	switch lit.Kind {
	case ast.LitAbstractInt:
		v = tc.eval.AbstractInt(lit.Int)
	case ast.LitI32:
		v = tc.eval.I32(lit.Int)
	case ast.LitU32:
		v = tc.eval.U32(lit.Int)
	case ast.LitAbstractFloat:
		v = tc.eval.AbstractFloat(lit.Float)
	case ast.LitF32:
		v = tc.eval.F32(lit.Float)
	case ast.LitF16:
		if !tc.module.Extensions.Has(builtin.ExtF16) {
			tc.report(diag.ValExtensionRequired, e.Span, "f16 literal used without 'f16' extension enabled")
			return nil, false
		}
		conv, err := tc.eval.Convert(tc.eval.AbstractFloat(lit.Float), tc.types.Builtins().F16)
		if err != nil {
			tc.report(diag.ResNotRepresentable, e.Span, "%s", err)
			return nil, false
		}
		v = conv
	case ast.LitBool:
		v = tc.eval.Bool(lit.Bool)
	}
	return &sem.Expr{Node: id, Kind: sem.ExprValue, Type: v.Type, Stage: sem.StageConstant, Value: &v, Span: e.Span}, true
}

func (tc *typeChecker) unaryExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Unary(id)
	switch d.Op {
	case ast.UnaryAddressOf:
		return tc.addressOf(id, e, d.Operand)
	case ast.UnaryDeref:
		return tc.deref(id, e, d.Operand)
	}

	x, ok := tc.operand(d.Operand)
	if !ok {
		return nil, false
	}
	var valid bool
	switch d.Op {
	case ast.UnaryNegate:
		valid = tc.types.IsSignedIntegerScalarOrVector(x.Type) || tc.types.IsFloatScalarOrVector(x.Type)
	case ast.UnaryNot:
		valid = tc.types.IsBoolScalarOrVector(x.Type)
	case ast.UnaryComplement:
		valid = tc.types.IsIntegerScalarOrVector(x.Type)
	}
	if !valid {
		tc.report(diag.ResInvalidOperand, e.Span, "no matching overload for 'operator %s (%s)'", d.Op, tc.typeName(x.Type))
		return nil, false
	}
	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Type: x.Type, Stage: x.Stage, Behaviors: x.Behaviors, Span: e.Span}
	if x.Stage == sem.StageConstant && x.Value != nil && !tc.skipped(id) {
		v, err := tc.eval.Unary(d.Op, *x.Value)
		if err != nil {
			tc.report(diag.ResConstEval, e.Span, "%s", err)
			return nil, false
		}
		out.Value = &v
	}
	return out, true
}

func (tc *typeChecker) skipped(id ast.ExprID) bool {
	_, ok := tc.skipConst[id]
	return ok
}

func (tc *typeChecker) addressOf(id ast.ExprID, e *ast.Expr, operand ast.ExprID) (*sem.Expr, bool) {
	x := tc.child(operand)
	tt, ok := tc.types.Lookup(x.Type)
	if x.Kind != sem.ExprValue || !ok || tt.Kind != types.KindReference {
		tc.report(diag.ResInvalidOperand, e.Span, "cannot take the address of expression")
		return nil, false
	}
	if _, ok := tc.swizzled[operand]; ok {
		tc.report(diag.ResInvalidOperand, e.Span, "cannot take the address of a vector component")
		return nil, false
	}
	if tt.Space == builtin.AddressSpaceHandle {
		tc.report(diag.ResInvalidOperand, e.Span, "cannot take the address of expression in handle address space")
		return nil, false
	}
	return &sem.Expr{
		Node:      id,
		Kind:      sem.ExprValue,
		Type:      tc.types.ReferenceToPointer(x.Type),
		Stage:     sem.StageRuntime,
		Behaviors: x.Behaviors,
		Root:      x.Root,
		Span:      e.Span,
	}, true
}

func (tc *typeChecker) deref(id ast.ExprID, e *ast.Expr, operand ast.ExprID) (*sem.Expr, bool) {
	x, ok := tc.operand(operand)
	if !ok {
		return nil, false
	}
	if tc.types.Kind(x.Type) != types.KindPointer {
		tc.report(diag.ResInvalidOperand, e.Span, "cannot dereference expression of type '%s'", tc.typeName(x.Type))
		return nil, false
	}
	return &sem.Expr{
		Node:      id,
		Kind:      sem.ExprValue,
		Type:      tc.types.PointerToReference(x.Type),
		Stage:     sem.StageRuntime,
		Behaviors: x.Behaviors,
		Root:      tc.child(operand).Root,
		Span:      e.Span,
	}, true
}

func (tc *typeChecker) binaryExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Binary(id)
	l, ok := tc.operand(d.Left)
	if !ok {
		return nil, false
	}
	r, ok := tc.operand(d.Right)
	if !ok {
		return nil, false
	}
	mismatch := func() (*sem.Expr, bool) {
		tc.report(diag.ResInvalidOperand, e.Span, "no matching overload for 'operator %s (%s, %s)'",
			d.Op, tc.typeName(l.Type), tc.typeName(r.Type))
		return nil, false
	}

	stage := sem.Latest(l.Stage, r.Stage)
	var lt, rt, result types.TypeID
	if d.Op.IsShift() {
		if !tc.types.IsIntegerScalarOrVector(l.Type) {
			return mismatch()
		}
		u32 := tc.types.WithElement(l.Type, tc.types.Builtins().U32)
		if !tc.types.CanConvert(r.Type, u32) {
			return mismatch()
		}
		lt, rt = l.Type, u32
		if stage > sem.StageConstant {
			lt = tc.types.Concrete(lt)
			if !tc.materializeTo(l, lt) || !tc.materializeTo(r, rt) {
				return nil, false
			}
		}
		result = lt
	} else {
		lt, rt = l.Type, r.Type
		el, er := tc.types.ElemOf(lt), tc.types.ElemOf(rt)
		if el != er {
			c, ok := tc.types.CommonType(el, er)
			if !ok {
				return mismatch()
			}
			lt, rt = tc.types.WithElement(lt, c), tc.types.WithElement(rt, c)
		}
		if stage > sem.StageConstant {
			lt, rt = tc.types.Concrete(lt), tc.types.Concrete(rt)
			if !tc.materializeTo(l, lt) || !tc.materializeTo(r, rt) {
				return nil, false
			}
		}
		result = tc.types.BinaryResultType(d.Op, lt, rt)
		if result == types.NoTypeID {
			return mismatch()
		}
	}

	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Type: result, Stage: stage, Behaviors: l.Behaviors.Union(r.Behaviors), Span: e.Span}
	switch {
	case tc.skipped(id):
	case l.Stage == sem.StageConstant && r.Stage == sem.StageNotEvaluated:
		// short-circuit: значение левого операнда
		out.Value = l.Value
		out.Stage = sem.StageConstant
	case stage == sem.StageConstant && l.Value != nil && r.Value != nil:
		lv, err := tc.eval.Convert(*l.Value, lt)
		if err == nil {
			var rv consteval.Value
			if rv, err = tc.eval.Convert(*r.Value, rt); err == nil {
				var v consteval.Value
				if v, err = tc.eval.Binary(d.Op, result, lv, rv); err == nil {
					out.Value = &v
				}
			}
		}
		if err != nil {
			tc.report(diag.ResConstEval, e.Span, "%s", err)
			return nil, false
		}
	}
	return out, true
}

func (tc *typeChecker) bitcastExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Bitcast(id)
	to, ok := tc.resolveType(d.Type)
	if !ok {
		return nil, false
	}
	x, ok := tc.operand(d.Value)
	if !ok {
		return nil, false
	}
	from := x.Type
	if tc.types.IsAbstract(from) {
		if from, ok = tc.materialize(x, types.NoTypeID); !ok {
			return nil, false
		}
	}
	if !tc.bitcastable(from, to) {
		tc.report(diag.ResTypeMismatch, e.Span, "cannot bitcast from '%s' to '%s'", tc.typeName(from), tc.typeName(to))
		return nil, false
	}
	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Type: to, Stage: x.Stage, Behaviors: x.Behaviors, Span: e.Span}
	if x.Stage == sem.StageConstant && x.Value != nil && !tc.skipped(id) {
		v, err := tc.eval.Bitcast(*x.Value, to)
		if err != nil {
			tc.report(diag.ResConstEval, e.Span, "%s", err)
			return nil, false
		}
		out.Value = &v
	}
	return out, true
}

// bitcastable: 32-bit numeric scalars to scalars, vectors to vectors of the
// same width. Component types may differ.
func (tc *typeChecker) bitcastable(from, to types.TypeID) bool {
	is32 := func(t types.TypeID) bool {
		switch tc.types.Kind(tc.types.ElemOf(t)) {
		case types.KindI32, types.KindU32, types.KindF32:
			return tc.types.IsScalarOrVector(t)
		}
		return false
	}
	if !is32(from) || !is32(to) {
		return false
	}
	fromScalar, toScalar := tc.types.IsScalar(from), tc.types.IsScalar(to)
	if fromScalar || toScalar {
		return fromScalar == toScalar
	}
	return tc.types.MustLookup(from).Width == tc.types.MustLookup(to).Width
}

// describeCallee names the target of a call for diagnostics.
func (tc *typeChecker) describeCallee(e *sem.Expr) string {
	if e.Func != nil {
		return fmt.Sprintf("function '%s'", e.Func.Name)
	}
	if e.Builtin != "" {
		return fmt.Sprintf("builtin '%s'", e.Builtin)
	}
	return strings.ToLower(e.Kind.String())
}
