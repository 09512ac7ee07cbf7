package sema

import (
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
)

// materialize gives an abstract expression a concrete type: target, or the
// default concrete type when target is NoTypeID. e is rewritten in place and
// its constant value converted. Concrete expressions are left alone, so a
// second call is a no-op.
func (tc *typeChecker) materialize(e *sem.Expr, target types.TypeID) (types.TypeID, bool) {
	if !tc.types.IsAbstract(e.Type) {
		return e.Type, true
	}
	if target == types.NoTypeID {
		target = tc.types.Concrete(e.Type)
	}
	if e.Value != nil {
		v, err := tc.eval.Convert(*e.Value, target)
		if err != nil {
			tc.report(diag.ResNotRepresentable, e.Span, "%s", err)
			return types.NoTypeID, false
		}
		e.Value = &v
	}
	e.Type = target
	return target, true
}

func (tc *typeChecker) materializeTo(e *sem.Expr, target types.TypeID) bool {
	if e.Type == target || !tc.types.IsAbstract(e.Type) {
		return true
	}
	_, ok := tc.materialize(e, target)
	return ok
}

// convertTo applies the automatic conversion of e to target used for
// initializers, assignments, arguments and return values. It reports nothing
// when the types are incompatible; callers word that error.
func (tc *typeChecker) convertTo(e *sem.Expr, target types.TypeID) (ok, incompatible bool) {
	if e.Type == target {
		return true, false
	}
	if !tc.types.IsAbstract(e.Type) || !tc.types.CanConvert(e.Type, target) {
		return false, true
	}
	if _, ok := tc.materialize(e, target); !ok {
		return false, false
	}
	return true, false
}
