package validator

import (
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// Structure checks a struct declaration after its members and layout are
// resolved.
func (v *Validator) Structure(t types.TypeID) bool {
	info, ok := v.types.StructInfo(t)
	if !ok {
		return true
	}
	if len(info.Members) == 0 {
		return v.fail(diag.ValConstructible, info.Span, "structures must have at least one member")
	}
	io := v.module.MemberIO[t]
	locations := make(map[uint32]source.Span)
	for i := range info.Members {
		m := &info.Members[i]
		if !v.isPlain(m.Type) {
			return v.fail(diag.ValStorable, m.Span, "%s cannot be used as the type of a structure member", v.typeName(m.Type))
		}
		if v.types.IsRuntimeArray(m.Type) {
			if i != len(info.Members)-1 {
				return v.fail(diag.ValConstructible, m.Span, "runtime arrays may only appear as the last member of a struct")
			}
		}
		if v.types.Kind(m.Type) == types.KindStruct && !v.isFixedFootprint(m.Type) {
			return v.fail(diag.ValConstructible, m.Span, "a struct that contains a runtime array cannot be nested inside another struct")
		}
		if i >= len(io) {
			continue
		}
		a := io[i]
		if a.Invariant && a.Builtin != builtin.ValuePosition {
			return v.fail(diag.ValInvariant, a.Span, "invariant attribute must only be applied to a position builtin")
		}
		if a.Location != nil {
			if !v.locationType(m.Type, a.Span) {
				return false
			}
			if prev, dup := locations[*a.Location]; dup {
				v.errorf(diag.ValDuplicateIO, a.Span, "@location(%d) appears multiple times", *a.Location).
					WithNote(prev, "previously consumed @location here").
					Emit()
				return false
			}
			locations[*a.Location] = a.Span
		}
		if !v.interpolation(a, m.Type) {
			return false
		}
	}
	return true
}

// locationType: user-defined IO is limited to numeric scalars and vectors.
func (v *Validator) locationType(t types.TypeID, span source.Span) bool {
	if v.types.IsNumericScalarOrVector(t) {
		return true
	}
	v.errorf(diag.ValEntryPointIO, span, "cannot apply @location to declaration of type '%s'", v.typeName(t)).
		WithNote(span, "@location must only be applied to declarations of numeric scalar or numeric vector type").
		Emit()
	return false
}

func (v *Validator) interpolation(a sem.IOAttributes, t types.TypeID) bool {
	if a.Interpolation == 0 {
		return true
	}
	if a.Location == nil {
		return v.fail(diag.ValInterpolation, a.Span, "interpolate attribute must only be used with @location")
	}
	if a.Interpolation == builtin.InterpolationFlat {
		if a.Sampling != 0 {
			return v.fail(diag.ValInterpolation, a.Span, "flat interpolation attribute must not have a sampling parameter")
		}
		return true
	}
	if v.types.IsIntegerScalarOrVector(t) {
		return v.fail(diag.ValInterpolation, a.Span, "interpolation type must be 'flat' for integral user-defined IO types")
	}
	return true
}

// builtinSig is where and with which type a @builtin value may appear.
type builtinSig struct {
	store  func(v *Validator) types.TypeID
	input  []sem.PipelineStage
	output []sem.PipelineStage
}

var builtinSigs map[builtin.Value]builtinSig

func init() {
	vec := func(kind func(types.Builtins) types.TypeID, n uint8) func(*Validator) types.TypeID {
		return func(v *Validator) types.TypeID { return v.types.Vector(kind(v.types.Builtins()), n) }
	}
	scalar := func(kind func(types.Builtins) types.TypeID) func(*Validator) types.TypeID {
		return func(v *Validator) types.TypeID { return kind(v.types.Builtins()) }
	}
	u32 := func(b types.Builtins) types.TypeID { return b.U32 }
	f32 := func(b types.Builtins) types.TypeID { return b.F32 }
	boolT := func(b types.Builtins) types.TypeID { return b.Bool }
	vs, fs, cs := sem.StageVertex, sem.StageFragment, sem.StageCompute

	builtinSigs = map[builtin.Value]builtinSig{
		builtin.ValuePosition:             {store: vec(f32, 4), input: []sem.PipelineStage{fs}, output: []sem.PipelineStage{vs}},
		builtin.ValueGlobalInvocationID:   {store: vec(u32, 3), input: []sem.PipelineStage{cs}},
		builtin.ValueLocalInvocationID:    {store: vec(u32, 3), input: []sem.PipelineStage{cs}},
		builtin.ValueNumWorkgroups:        {store: vec(u32, 3), input: []sem.PipelineStage{cs}},
		builtin.ValueWorkgroupID:          {store: vec(u32, 3), input: []sem.PipelineStage{cs}},
		builtin.ValueLocalInvocationIndex: {store: scalar(u32), input: []sem.PipelineStage{cs}},
		builtin.ValueFragDepth:            {store: scalar(f32), output: []sem.PipelineStage{fs}},
		builtin.ValueFrontFacing:          {store: scalar(boolT), input: []sem.PipelineStage{fs}},
		builtin.ValueVertexIndex:          {store: scalar(u32), input: []sem.PipelineStage{vs}},
		builtin.ValueInstanceIndex:        {store: scalar(u32), input: []sem.PipelineStage{vs}},
		builtin.ValueSampleIndex:          {store: scalar(u32), input: []sem.PipelineStage{fs}},
		builtin.ValueSampleMask:           {store: scalar(u32), input: []sem.PipelineStage{fs}, output: []sem.PipelineStage{fs}},
	}
}

// builtinAttribute checks the store type and stage of one @builtin use.
func (v *Validator) builtinAttribute(a sem.IOAttributes, t types.TypeID, stage sem.PipelineStage, isInput bool) bool {
	sig, ok := builtinSigs[a.Builtin]
	if !ok {
		return true
	}
	if want := sig.store(v); t != want {
		return v.fail(diag.ValBuiltinType, a.Span, "store type of @builtin(%s) must be '%s'", a.Builtin, v.typeName(want))
	}
	if stage == sem.StageNone {
		return true
	}
	stages, dir := sig.output, "output of"
	if isInput {
		stages, dir = sig.input, "input of"
	}
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return v.fail(diag.ValBuiltinStage, a.Span, "@builtin(%s) cannot be used in %s %s pipeline stage", a.Builtin, dir, stage)
}
