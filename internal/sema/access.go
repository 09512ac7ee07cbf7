package sema

import (
	"strings"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// indexExpr: a[i] on arrays, vectors and matrices, either through a reference
// (yielding a reference) or on a value.
func (tc *typeChecker) indexExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Index(id)
	target := tc.child(d.Target)
	if target.Kind != sem.ExprValue {
		_, ok := tc.rvalue(target)
		return nil, ok
	}
	idx, ok := tc.operand(d.Index)
	if !ok {
		return nil, false
	}
	if !tc.types.IsIntegerScalar(idx.Type) {
		tc.report(diag.ResInvalidIndex, idx.Span, "index must be of type 'i32' or 'u32', found: '%s'", tc.typeName(idx.Type))
		return nil, false
	}

	isRef := tc.types.Kind(target.Type) == types.KindReference
	storeType := tc.types.UnwrapRef(target.Type)
	st := tc.types.MustLookup(storeType)
	var (
		elem  types.TypeID
		count int64 = -1
	)
	switch st.Kind {
	case types.KindArray:
		elem = st.Elem
		if st.CountKind == types.CountConstant {
			count = int64(st.Count)
		}
	case types.KindVector:
		elem = st.Elem
		count = int64(st.Width)
	case types.KindMatrix:
		elem = st.Elem
		count = int64(st.Columns)
	default:
		tc.report(diag.ResInvalidIndex, e.Span, "cannot index type '%s'", tc.typeName(storeType))
		return nil, false
	}

	if idx.Stage == sem.StageConstant && idx.Value != nil {
		i := idx.Value.Int
		if i < 0 || (count >= 0 && i >= count) {
			if count >= 0 {
				tc.report(diag.ResInvalidIndex, idx.Span, "index %d out of bounds [0..%d]", i, count-1)
			} else {
				tc.report(diag.ResInvalidIndex, idx.Span, "index %d out of bounds", i)
			}
			return nil, false
		}
	}

	out := &sem.Expr{
		Node:      id,
		Kind:      sem.ExprValue,
		Stage:     sem.Latest(target.Stage, idx.Stage),
		Behaviors: target.Behaviors.Union(idx.Behaviors),
		Span:      e.Span,
	}
	if isRef {
		rt := tc.types.MustLookup(target.Type)
		out.Type = tc.types.Reference(rt.Space, elem, rt.Access)
		out.Root = target.Root
		if st.Kind == types.KindVector {
			tc.swizzled[id] = struct{}{}
		}
		return out, true
	}

	// значение с рантайм-индексом нужно материализовать целиком
	if idx.Stage > sem.StageConstant && tc.types.IsAbstract(storeType) {
		concrete, ok := tc.materialize(target, types.NoTypeID)
		if !ok {
			return nil, false
		}
		elem = tc.types.ElemOf(concrete)
		if tc.types.Kind(concrete) == types.KindMatrix {
			elem = tc.types.MustLookup(concrete).Elem
		}
	}
	out.Type = elem
	if out.Stage == sem.StageConstant && target.Value != nil && idx.Value != nil && !tc.skipped(id) {
		v, err := tc.eval.Index(*target.Value, idx.Value.Int)
		if err != nil {
			tc.report(diag.ResConstEval, e.Span, "%s", err)
			return nil, false
		}
		out.Value = &v
	}
	return out, true
}

var swizzleSets = [...]string{"xyzw", "rgba"}

// memberExpr: struct member access and vector swizzles.
func (tc *typeChecker) memberExpr(id ast.ExprID, e *ast.Expr) (*sem.Expr, bool) {
	d, _ := tc.builder.Exprs.Member(id)
	target := tc.child(d.Target)
	if target.Kind != sem.ExprValue {
		_, ok := tc.rvalue(target)
		return nil, ok
	}
	name := tc.builder.Name(d.Member.Name)
	isRef := tc.types.Kind(target.Type) == types.KindReference
	storeType := tc.types.UnwrapRef(target.Type)
	st := tc.types.MustLookup(storeType)

	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Stage: target.Stage, Behaviors: target.Behaviors, Span: e.Span}
	switch st.Kind {
	case types.KindStruct:
		m, ok := tc.types.Member(storeType, name)
		if !ok {
			tc.report(diag.ResInvalidMember, d.Member.Span, "struct member %s not found", name)
			return nil, false
		}
		if isRef {
			rt := tc.types.MustLookup(target.Type)
			out.Type = tc.types.Reference(rt.Space, m.Type, rt.Access)
			out.Root = target.Root
			return out, true
		}
		out.Type = m.Type
		if out.Stage == sem.StageConstant && target.Value != nil && !tc.skipped(id) {
			v := tc.eval.Member(*target.Value, m.Index)
			out.Value = &v
		}
		return out, true

	case types.KindVector:
		idx, ok := tc.swizzleIndices(name, st.Width, d.Member.Span)
		if !ok {
			return nil, false
		}
		if len(idx) == 1 {
			if isRef {
				rt := tc.types.MustLookup(target.Type)
				out.Type = tc.types.Reference(rt.Space, st.Elem, rt.Access)
				out.Root = target.Root
				tc.swizzled[id] = struct{}{}
				return out, true
			}
			out.Type = st.Elem
		} else {
			// многокомпонентный swizzle всегда значение
			if isRef {
				tc.registerLoad(target)
			}
			out.Type = tc.types.Vector(st.Elem, uint8(len(idx)))
		}
		if out.Stage == sem.StageConstant && target.Value != nil && !tc.skipped(id) {
			v := tc.eval.Swizzle(*target.Value, out.Type, idx)
			out.Value = &v
		}
		return out, true
	}
	tc.report(diag.ResInvalidMember, e.Span, "invalid member accessor expression. Expected vector or struct, got '%s'", tc.typeName(storeType))
	return nil, false
}

func (tc *typeChecker) swizzleIndices(name string, width uint8, span source.Span) ([]int, bool) {
	if len(name) < 1 || len(name) > 4 {
		tc.report(diag.ResInvalidSwizzle, span, "invalid vector swizzle size")
		return nil, false
	}
	set := -1
	idx := make([]int, len(name))
	for i := 0; i < len(name); i++ {
		found := false
		for s, chars := range swizzleSets {
			if p := strings.IndexByte(chars, name[i]); p >= 0 {
				if set >= 0 && set != s {
					tc.report(diag.ResInvalidSwizzle, span, "invalid mixing of vector swizzle characters rgba with xyzw")
					return nil, false
				}
				set = s
				idx[i] = p
				found = true
				break
			}
		}
		if !found {
			tc.report(diag.ResInvalidSwizzle, span, "invalid vector swizzle character")
			return nil, false
		}
		if idx[i] >= int(width) {
			tc.report(diag.ResInvalidSwizzle, span, "invalid vector swizzle member")
			return nil, false
		}
	}
	return idx, true
}
