package validator

import (
	"strconv"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// Condition checks the condition of an if, for, while or break-if.
func (v *Validator) Condition(what string, cond *sem.Expr) bool {
	if cond == nil {
		return true
	}
	t := v.types.UnwrapRef(cond.Type)
	if v.types.IsBool(t) {
		return true
	}
	return v.fail(diag.ValCondition, cond.Span, "%s condition must be bool, got %s", what, v.typeName(t))
}

// LoopExit requires a loop to have some way out. exitCond is set for every
// while and for every for with a condition, whatever its value.
func (v *Validator) LoopExit(kind ast.StmtKind, span source.Span, body sem.Behaviors, exitCond bool) bool {
	if exitCond || body.Has(sem.BehaviorBreak) || body.Has(sem.BehaviorReturn) {
		return true
	}
	switch kind {
	case ast.StmtFor:
		return v.fail(diag.ValLoopExit, span, "for-loop does not exit")
	case ast.StmtWhile:
		return v.fail(diag.ValLoopExit, span, "while does not exit")
	}
	return v.fail(diag.ValLoopExit, span, "loop does not exit")
}

// SwitchCase is one resolved case clause as the validator sees it.
type SwitchCase struct {
	Span      source.Span
	Selectors []ast.CaseSelector
	// Values holds the resolved selector expressions, nil for default.
	Values []*sem.Expr
}

// Switch checks the selector type and the case clauses.
func (v *Validator) Switch(selector *sem.Expr, cases []SwitchCase) bool {
	selType := v.types.UnwrapRef(selector.Type)
	if !v.types.IsIntegerScalar(selType) {
		return v.fail(diag.ValSwitch, selector.Span, "switch statement selector expression must be of a scalar integer type")
	}

	var (
		defaultSpan source.Span
		hasDefault  bool
		count       int
		seen        = make(map[int64]source.Span)
	)
	for _, c := range cases {
		count += len(c.Selectors)
		for i, sel := range c.Selectors {
			if sel.IsDefault() {
				if hasDefault {
					v.errorf(diag.ValSwitch, sel.Span, "switch statement must have exactly one default clause").
						WithNote(defaultSpan, "previous default case").
						Emit()
					return false
				}
				hasDefault, defaultSpan = true, sel.Span
				continue
			}
			val := c.Values[i]
			if val == nil {
				continue
			}
			if v.types.UnwrapRef(val.Type) != selType {
				return v.fail(diag.ValSwitch, sel.Span, "the case selector values must have the same type as the selector expression.")
			}
			if val.Value == nil {
				continue
			}
			key := val.Value.Int
			if prev, dup := seen[key]; dup {
				text := formatSelector(v.types, selType, key)
				v.errorf(diag.ValSwitch, sel.Span, "duplicate switch case '%s'", text).
					WithNote(prev, "previous case declared here").
					Emit()
				return false
			}
			seen[key] = sel.Span
		}
	}
	if count > maxSwitchCaseSelectors {
		return v.fail(diag.ValSwitch, selector.Span, "switch statement has %d case selectors, max is %d", count, maxSwitchCaseSelectors)
	}
	if !hasDefault {
		return v.fail(diag.ValSwitch, selector.Span, "switch statement must have a default clause")
	}
	return true
}

func formatSelector(in *types.Interner, t types.TypeID, n int64) string {
	s := strconv.FormatInt(n, 10)
	switch in.Kind(t) {
	case types.KindU32:
		return s + "u"
	case types.KindI32:
		return s + "i"
	}
	return s
}

// Return checks a return value against the function's return type.
func (v *Validator) Return(f *sem.Function, value *sem.Expr, span source.Span) bool {
	void := v.types.Builtins().Void
	got := void
	if value != nil {
		got = value.Type
	}
	if got != f.ReturnType {
		return v.fail(diag.ValReturnType, span,
			"return statement type must match its function return type, returned '%s', expected '%s'",
			v.typeName(got), v.typeName(f.ReturnType))
	}
	return true
}

// Assignment checks `lhs = rhs` and compound assignments once both sides are
// resolved. A nil lhs is the phony `_`.
func (v *Validator) Assignment(lhs, rhs *sem.Expr, span source.Span) bool {
	if lhs == nil {
		t := rhs.Type
		if v.types.IsConstructible(t) || v.types.IsHandle(t) || v.types.Kind(t) == types.KindPointer {
			return true
		}
		if rt, ok := v.types.Lookup(t); ok && rt.Kind == types.KindReference {
			return true
		}
		return v.fail(diag.ResInvalidAssignment, span,
			"cannot assign '%s' to '_'. '_' can only be assigned a constructible, pointer, texture or sampler type", v.typeName(t))
	}

	ref, ok := v.types.Lookup(lhs.Type)
	if !ok || ref.Kind != types.KindReference {
		b := v.errorf(diag.ResInvalidAssignment, lhs.Span, "cannot assign to %s", v.describeTarget(lhs))
		if lhs.Var != nil {
			switch {
			case lhs.Var.IsParam:
				b.WithNote(lhs.Var.Span, "parameters are immutable")
			case lhs.Var.Kind == ast.DeclLet:
				b.WithNote(lhs.Var.Span, "'let' variables are immutable")
			}
		}
		b.Emit()
		return false
	}
	store := ref.Elem
	if rhsT := v.types.UnwrapRef(rhs.Type); rhsT != store {
		return v.fail(diag.ResTypeMismatch, span, "cannot assign '%s' to '%s'", v.typeName(rhsT), v.typeName(store))
	}
	if !v.types.IsConstructible(store) {
		return v.fail(diag.ValConstructible, span, "storage type of assignment must be constructible")
	}
	if !ref.Access.CanWrite() {
		return v.fail(diag.ValAccessMode, span, "cannot store into a read-only type '%s'", v.typeName(lhs.Type))
	}
	return true
}

func (v *Validator) describeTarget(e *sem.Expr) string {
	if e.Var == nil {
		return "value of type '" + v.typeName(e.Type) + "'"
	}
	switch {
	case e.Var.IsParam:
		return "function parameter '" + e.Var.Name + "'"
	case e.Var.Kind == ast.DeclLet:
		return "'let' '" + e.Var.Name + "'"
	case e.Var.Kind == ast.DeclConst:
		return "'const' '" + e.Var.Name + "'"
	case e.Var.Kind == ast.DeclOverride:
		return "'override' '" + e.Var.Name + "'"
	}
	return "'" + e.Var.Name + "'"
}

// IncDec checks `lhs++` and `lhs--`.
func (v *Validator) IncDec(lhs *sem.Expr, span source.Span) bool {
	ref, ok := v.types.Lookup(lhs.Type)
	if !ok || ref.Kind != types.KindReference {
		switch {
		case lhs.Var != nil && lhs.Var.IsParam:
			return v.fail(diag.ResInvalidAssignment, lhs.Span, "cannot modify function parameter")
		case lhs.Var != nil && lhs.Var.Kind == ast.DeclLet:
			return v.fail(diag.ResInvalidAssignment, lhs.Span, "cannot modify 'let'")
		}
		return v.fail(diag.ResInvalidAssignment, lhs.Span, "cannot modify value of type '%s'", v.typeName(lhs.Type))
	}
	if !v.types.IsIntegerScalar(ref.Elem) {
		return v.fail(diag.ResInvalidOperand, span, "increment/decrement statement can only be applied to an integer scalar")
	}
	if !ref.Access.CanWrite() {
		return v.fail(diag.ValAccessMode, span, "cannot modify read-only type '%s'", v.typeName(lhs.Type))
	}
	return true
}
