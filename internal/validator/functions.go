package validator

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// Function checks a function once its body is resolved. Parameters are
// checked as they are declared, see Parameter.
func (v *Validator) Function(f *sem.Function) bool {
	decl := v.builder.Decls.Get(f.Decl)
	if f.HasWorkgroupSize && f.Stage != sem.StageCompute {
		span, _ := v.attrSpan(decl.Attrs, ast.AttrWorkgroupSize)
		return v.fail(diag.ValFunctionAttribute, span, "@workgroup_size is only valid for compute stages")
	}
	if f.MustUse && f.ReturnType == v.types.Builtins().Void {
		span, _ := v.attrSpan(decl.Attrs, ast.AttrMustUse)
		return v.fail(diag.ValFunctionAttribute, span, "@must_use can only be applied to functions that return a value")
	}
	if len(f.Params) > maxFunctionParameters {
		return v.fail(diag.ValParameter, f.Span, "function declares %d parameters, maximum is %d", len(f.Params), maxFunctionParameters)
	}
	if f.ReturnType != v.types.Builtins().Void {
		if !v.types.IsConstructible(f.ReturnType) {
			return v.fail(diag.ValConstructible, f.Span, "function return type must be a constructible type")
		}
		if b, ok := v.module.StmtBehaviors(f.Body); ok && b.Has(sem.BehaviorNext) {
			return v.fail(diag.ValMissingReturn, v.blockEnd(f.Body, f.Span), "missing return at end of function")
		}
	}
	if f.IsEntryPoint() {
		return v.entryPoint(f)
	}
	return true
}

// blockEnd points at the closing brace of a block.
func (v *Validator) blockEnd(id ast.StmtID, fallback source.Span) source.Span {
	st := v.builder.Stmts.Get(id)
	if st == nil {
		return fallback
	}
	end := st.Span
	if end.End > end.Start {
		end.Start = end.End - 1
	}
	return end
}

// ioScope tracks the builtins and locations consumed by one direction of an
// entry point interface.
type ioScope struct {
	stage     sem.PipelineStage
	input     bool
	builtins  map[builtin.Value]struct{}
	locations map[uint32]struct{}
}

func (s *ioScope) direction() string {
	if s.input {
		return "input"
	}
	return "output"
}

func (v *Validator) entryPoint(f *sem.Function) bool {
	if f.Stage == sem.StageCompute && !f.HasWorkgroupSize {
		return v.fail(diag.ValFunctionAttribute, f.Span, "a compute shader must include 'workgroup_size' in its attributes")
	}

	in := &ioScope{stage: f.Stage, input: true, builtins: map[builtin.Value]struct{}{}, locations: map[uint32]struct{}{}}
	for _, p := range f.Params {
		if !v.entryPointIO(in, p.Type, p.IO, p.Span, " on parameter") {
			return false
		}
	}

	out := &ioScope{stage: f.Stage, builtins: map[builtin.Value]struct{}{}, locations: map[uint32]struct{}{}}
	if f.ReturnType != v.types.Builtins().Void {
		if !v.entryPointIO(out, f.ReturnType, f.ReturnIO, f.Span, " on return type") {
			return false
		}
	}
	if f.Stage == sem.StageVertex {
		if _, ok := out.builtins[builtin.ValuePosition]; !ok {
			return v.fail(diag.ValEntryPointIO, f.Span, "a vertex shader must include the 'position' builtin in its return type")
		}
	}

	// Resource bindings must be unique among everything the entry point reaches.
	seen := make(map[sem.BindingPoint]*sem.Variable)
	for _, g := range f.TransitiveGlobals {
		bp, ok := v.module.BindingOf(g)
		if !ok {
			continue
		}
		if prev, dup := seen[bp]; dup {
			v.errorf(diag.ValBindingCollision, g.Span,
				"entry point '%s' references multiple variables that use the same resource binding @group(%d), @binding(%d)",
				f.Name, bp.Group, bp.Binding).
				WithNote(prev.Span, "first resource binding usage declared here").
				Emit()
			return false
		}
		seen[bp] = g
	}
	return true
}

// entryPointIO checks a parameter or return value. Structs are flattened one
// level, their members carry the attributes.
func (v *Validator) entryPointIO(s *ioScope, t types.TypeID, io sem.IOAttributes, span source.Span, where string) bool {
	info, isStruct := v.types.StructInfo(t)
	if !isStruct {
		return v.ioLeaf(s, t, io, span, where)
	}
	if io.HasAny() {
		return v.fail(diag.ValEntryPointIO, io.Span, "entry point IO attributes must not be used on structure %s", s.direction())
	}
	memberIO := v.module.MemberIO[t]
	for i := range info.Members {
		m := &info.Members[i]
		if v.types.Kind(m.Type) == types.KindStruct {
			v.errorf(diag.ValEntryPointIO, m.Span, "nested structures cannot be used for entry point IO").
				WithNote(span, "while analyzing entry point '"+v.typeName(t)+"'").
				Emit()
			return false
		}
		var a sem.IOAttributes
		if i < len(memberIO) {
			a = memberIO[i]
		}
		if a.Span == (source.Span{}) {
			a.Span = m.Span
		}
		if !v.ioLeaf(s, m.Type, a, m.Span, "") {
			return false
		}
	}
	return true
}

func (v *Validator) ioLeaf(s *ioScope, t types.TypeID, a sem.IOAttributes, span source.Span, where string) bool {
	if !a.HasAny() {
		return v.fail(diag.ValEntryPointIO, span, "missing entry point IO attribute%s", where)
	}
	if a.Location != nil && a.Builtin != builtin.ValueUndefined {
		v.errorf(diag.ValEntryPointIO, a.Span, "multiple entry point IO attributes").
			WithNote(a.Span, fmt.Sprintf("previously consumed @builtin(%s)", a.Builtin)).
			Emit()
		return false
	}
	if a.Invariant && a.Builtin != builtin.ValuePosition {
		return v.fail(diag.ValInvariant, a.Span, "invariant attribute must only be applied to a position builtin")
	}

	if a.Builtin != builtin.ValueUndefined {
		if !v.builtinAttribute(a, t, s.stage, s.input) {
			return false
		}
		if _, dup := s.builtins[a.Builtin]; dup {
			return v.fail(diag.ValDuplicateIO, a.Span, "@builtin(%s) appears multiple times as pipeline %s", a.Builtin, s.direction())
		}
		s.builtins[a.Builtin] = struct{}{}
		if a.Interpolation != 0 {
			return v.fail(diag.ValInterpolation, a.Span, "interpolate attribute must only be used with @location")
		}
		return true
	}

	if s.stage == sem.StageCompute {
		what := "output"
		if s.input {
			what = "inputs"
		}
		return v.fail(diag.ValEntryPointIO, a.Span, "@location is not valid for compute shader %s", what)
	}
	if !v.locationType(t, a.Span) {
		return false
	}
	if _, dup := s.locations[*a.Location]; dup {
		return v.fail(diag.ValDuplicateIO, a.Span, "@location(%d) appears multiple times", *a.Location)
	}
	s.locations[*a.Location] = struct{}{}

	if v.types.IsIntegerScalarOrVector(t) && a.Interpolation != builtin.InterpolationFlat {
		switch {
		case s.stage == sem.StageVertex && !s.input:
			return v.fail(diag.ValInterpolation, a.Span, "integral user-defined vertex outputs must have a flat interpolation attribute")
		case s.stage == sem.StageFragment && s.input:
			return v.fail(diag.ValInterpolation, a.Span, "integral user-defined fragment inputs must have a flat interpolation attribute")
		}
	}
	return v.interpolation(a, t)
}
