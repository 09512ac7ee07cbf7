// Package validator checks language legality rules over resolved semantic
// data. It never drives resolution: the resolver calls it at fixed points and
// aborts the declaration being resolved when a rule fails.
package validator

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/layout"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// maxFunctionParameters bounds the parameter list of a function.
const maxFunctionParameters = 255

// maxSwitchCaseSelectors bounds the number of case clauses of a switch.
const maxSwitchCaseSelectors = 16383

type layoutKey struct {
	t     types.TypeID
	space builtin.AddressSpace
}

// Validator holds per-compilation caches only.
type Validator struct {
	builder  *ast.Builder
	module   *sem.Module
	types    *types.Interner
	layout   *layout.LayoutEngine
	reporter diag.Reporter

	// validLayouts: {store type, address space} pairs already checked.
	validLayouts map[layoutKey]struct{}
}

// New creates a validator over the module being resolved.
func New(b *ast.Builder, m *sem.Module, r diag.Reporter) *Validator {
	return &Validator{
		builder:      b,
		module:       m,
		types:        m.Types,
		layout:       m.Layout,
		reporter:     r,
		validLayouts: make(map[layoutKey]struct{}),
	}
}

func (v *Validator) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(v.reporter, code, span, fmt.Sprintf(format, args...))
}

func (v *Validator) fail(code diag.Code, span source.Span, format string, args ...any) bool {
	v.errorf(code, span, format, args...).Emit()
	return false
}

func (v *Validator) typeName(t types.TypeID) string {
	return v.types.Name(t)
}

func (v *Validator) enabled(ext builtin.Extension) bool {
	return v.module.Extensions.Has(ext)
}

// isPlain: scalars, vectors, matrices, atomics, arrays and structs.
func (v *Validator) isPlain(t types.TypeID) bool {
	switch v.types.Kind(t) {
	case types.KindBool, types.KindI32, types.KindU32, types.KindF32, types.KindF16,
		types.KindAbstractInt, types.KindAbstractFloat,
		types.KindVector, types.KindMatrix, types.KindAtomic, types.KindArray, types.KindStruct:
		return true
	}
	return false
}

// isFixedFootprint: the size is known at shader creation, no runtime array
// anywhere inside.
func (v *Validator) isFixedFootprint(t types.TypeID) bool {
	return !v.types.Contains(t, func(tt types.Type) bool {
		return tt.Kind == types.KindArray && tt.CountKind == types.CountRuntime
	})
}

func (v *Validator) isStorable(t types.TypeID) bool {
	return v.types.IsStorable(t) || v.types.IsHandle(t)
}

func isOverrideArray(tt types.Type) bool {
	return tt.Kind == types.KindArray &&
		(tt.CountKind == types.CountNamedOverride || tt.CountKind == types.CountUnnamedOverride)
}

func (v *Validator) arrayWithOverrideCount(t types.TypeID, span source.Span) bool {
	tt, ok := v.types.Lookup(v.types.UnwrapRef(t))
	if ok && isOverrideArray(tt) {
		return v.fail(diag.ValAddressSpace, span,
			"array with an 'override' element count can only be used as the store type of a 'var<workgroup>'")
	}
	return true
}

func (v *Validator) attrSpan(list []ast.AttrID, kind ast.AttrKind) (source.Span, bool) {
	_, a := v.builder.Attrs.Find(list, kind)
	if a == nil {
		return source.Span{}, false
	}
	return a.Span, true
}

func (v *Validator) exprSpan(id ast.ExprID) source.Span {
	if e := v.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}
