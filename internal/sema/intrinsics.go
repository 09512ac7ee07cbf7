package sema

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// intrinsic describes one builtin function. check validates the loaded
// arguments, converts them to the overload parameter types and returns the
// result type.
type intrinsic struct {
	check   func(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool)
	stages  []sem.PipelineStage
	mustUse bool
}

type builtinCallCtx struct {
	name   string
	span   source.Span
	argIDs []ast.ExprID
	args   []*sem.Expr
	// constant is set when every argument is a constant and the builtin can
	// be folded; abstract arguments then keep their abstract type.
	constant bool
}

var intrinsics map[string]intrinsic

func init() {
	float := types.FamilyFloat
	numeric := types.FamilyNumeric
	integral := types.FamilyIntegral
	signed := types.FamilySignedInt | types.FamilyFloat

	fragment := []sem.PipelineStage{sem.StageFragment}
	compute := []sem.PipelineStage{sem.StageCompute}

	intrinsics = map[string]intrinsic{
		"abs":              {check: elementwise(1, numeric), mustUse: true},
		"min":              {check: elementwise(2, numeric), mustUse: true},
		"max":              {check: elementwise(2, numeric), mustUse: true},
		"clamp":            {check: elementwise(3, numeric), mustUse: true},
		"sign":             {check: elementwise(1, signed), mustUse: true},
		"floor":            {check: elementwise(1, float), mustUse: true},
		"ceil":             {check: elementwise(1, float), mustUse: true},
		"round":            {check: elementwise(1, float), mustUse: true},
		"trunc":            {check: elementwise(1, float), mustUse: true},
		"sqrt":             {check: elementwise(1, float), mustUse: true},
		"sin":              {check: elementwise(1, float), mustUse: true},
		"cos":              {check: elementwise(1, float), mustUse: true},
		"exp":              {check: elementwise(1, float), mustUse: true},
		"log":              {check: elementwise(1, float), mustUse: true},
		"pow":              {check: elementwise(2, float), mustUse: true},
		"mix":              {check: elementwise(3, float), mustUse: true},
		"countOneBits":     {check: elementwise(1, integral), mustUse: true},
		"reverseBits":      {check: elementwise(1, integral), mustUse: true},
		"firstLeadingBit":  {check: elementwise(1, integral), mustUse: true},
		"dpdx":             {check: derivative, stages: fragment, mustUse: true},
		"dpdy":             {check: derivative, stages: fragment, mustUse: true},
		"fwidth":           {check: derivative, stages: fragment, mustUse: true},
		"select":           {check: selectCheck, mustUse: true},
		"all":              {check: allAnyCheck, mustUse: true},
		"any":              {check: allAnyCheck, mustUse: true},
		"dot":              {check: dotCheck, mustUse: true},
		"length":           {check: lengthCheck, mustUse: true},
		"normalize":        {check: normalizeCheck, mustUse: true},
		"cross":            {check: crossCheck, mustUse: true},
		"arrayLength":      {check: arrayLengthCheck, mustUse: true},
		"atomicLoad":       {check: atomicCheck(false, true), mustUse: true},
		"atomicStore":      {check: atomicCheck(true, false)},
		"atomicAdd":        {check: atomicCheck(true, true)},
		"textureSample":    {check: textureSampleCheck, stages: fragment, mustUse: true},
		"textureLoad":      {check: textureLoadCheck, mustUse: true},
		"workgroupBarrier": {check: barrierCheck, stages: compute},
		"storageBarrier":   {check: barrierCheck, stages: compute},
	}
}

func (tc *typeChecker) builtinCall(id ast.ExprID, e *ast.Expr, name string, argIDs []ast.ExprID, args []*sem.Expr) (*sem.Expr, bool) {
	in := intrinsics[name]
	stage := sem.StageConstant
	behaviors := sem.Behaviors(0)
	for _, a := range args {
		stage = sem.Latest(stage, a.Stage)
		behaviors = behaviors.Union(a.Behaviors)
	}
	foldable := consteval.HasBuiltin(name)
	if !foldable {
		stage = sem.StageRuntime
	}
	c := &builtinCallCtx{name: name, span: e.Span, argIDs: argIDs, args: args, constant: foldable && stage == sem.StageConstant}
	ret, ok := in.check(tc, c)
	if !ok {
		return nil, false
	}

	out := &sem.Expr{Node: id, Kind: sem.ExprValue, Type: ret, Stage: stage, Behaviors: behaviors, Builtin: name, Span: e.Span}
	if tc.fn != nil && len(in.stages) > 0 {
		tc.fn.fn.RestrictedBuiltins = append(tc.fn.fn.RestrictedBuiltins, sem.BuiltinCall{Name: name, Stages: in.stages, Span: e.Span})
	}
	if c.constant && !tc.skipped(id) {
		vals := make([]consteval.Value, len(args))
		for i, a := range args {
			if a.Value == nil {
				return out, true
			}
			vals[i] = *a.Value
		}
		v, err := tc.eval.Builtin(name, ret, vals)
		if err != nil {
			tc.report(diag.ResConstEval, e.Span, "%s", err)
			return nil, false
		}
		out.Value = &v
	}
	return out, true
}

func noOverload(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	tc.report(diag.ResInvalidCall, c.span, "no matching call to %s(%s)", c.name, argTypeList(tc, c.args))
	return types.NoTypeID, false
}

// unify converts every argument to their common type, materialized unless the
// call is folded.
func (tc *typeChecker) unify(c *builtinCallCtx, args []*sem.Expr, family types.FamilyMask) (types.TypeID, bool) {
	ts := make([]types.TypeID, len(args))
	for i, a := range args {
		ts[i] = a.Type
	}
	t, ok := tc.types.CommonType(ts...)
	if !ok {
		return types.NoTypeID, false
	}
	if family == types.FamilyFloat && tc.types.Kind(tc.types.ElemOf(t)) == types.KindAbstractInt {
		t = tc.types.WithElement(t, tc.types.Builtins().AbstractFloat)
	}
	if !c.constant {
		t = tc.types.Concrete(t)
	}
	if !tc.types.IsScalarOrVector(t) || tc.types.FamilyOf(tc.types.ElemOf(t))&family == 0 {
		return types.NoTypeID, false
	}
	for _, a := range args {
		if !tc.materializeTo(a, t) {
			return types.NoTypeID, false
		}
	}
	return t, true
}

func elementwise(n int, family types.FamilyMask) func(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	return func(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
		if len(c.args) != n {
			return noOverload(tc, c)
		}
		t, ok := tc.unify(c, c.args, family)
		if !ok {
			return noOverload(tc, c)
		}
		return t, true
	}
}

func derivative(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 1 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args, types.FamilyFloat)
	if !ok || tc.types.ElemOf(t) != tc.types.Builtins().F32 {
		return noOverload(tc, c)
	}
	return t, true
}

func selectCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 3 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args[:2], types.FamilyAny)
	if !ok {
		return noOverload(tc, c)
	}
	cond := c.args[2].Type
	b := tc.types.Builtins().Bool
	switch {
	case cond == b:
	case tc.types.Kind(cond) == types.KindVector && tc.types.Kind(t) == types.KindVector &&
		tc.types.ElemOf(cond) == b && tc.types.MustLookup(cond).Width == tc.types.MustLookup(t).Width:
	default:
		return noOverload(tc, c)
	}
	return t, true
}

func allAnyCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 1 || !tc.types.IsBoolScalarOrVector(c.args[0].Type) {
		return noOverload(tc, c)
	}
	return tc.types.Builtins().Bool, true
}

func dotCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 2 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args, types.FamilyNumeric)
	if !ok || tc.types.Kind(t) != types.KindVector {
		return noOverload(tc, c)
	}
	return tc.types.ElemOf(t), true
}

func lengthCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 1 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args, types.FamilyFloat)
	if !ok {
		return noOverload(tc, c)
	}
	return tc.types.ElemOf(t), true
}

func normalizeCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 1 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args, types.FamilyFloat)
	if !ok || tc.types.Kind(t) != types.KindVector {
		return noOverload(tc, c)
	}
	return t, true
}

func crossCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 2 {
		return noOverload(tc, c)
	}
	t, ok := tc.unify(c, c.args, types.FamilyFloat)
	if !ok || tc.types.Kind(t) != types.KindVector || tc.types.MustLookup(t).Width != 3 {
		return noOverload(tc, c)
	}
	return t, true
}

func arrayLengthCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 1 {
		return noOverload(tc, c)
	}
	pt, ok := tc.types.Lookup(c.args[0].Type)
	if !ok || pt.Kind != types.KindPointer || pt.Space != builtin.AddressSpaceStorage || !tc.types.IsRuntimeArray(pt.Elem) {
		return noOverload(tc, c)
	}
	return tc.types.Builtins().U32, true
}

func atomicCheck(takesValue, returns bool) func(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	return func(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
		want := 1
		if takesValue {
			want = 2
		}
		if len(c.args) != want {
			return noOverload(tc, c)
		}
		pt, ok := tc.types.Lookup(c.args[0].Type)
		if !ok || pt.Kind != types.KindPointer || tc.types.Kind(pt.Elem) != types.KindAtomic ||
			(pt.Space != builtin.AddressSpaceStorage && pt.Space != builtin.AddressSpaceWorkgroup) {
			return noOverload(tc, c)
		}
		elem := tc.types.ElemOf(pt.Elem)
		if takesValue {
			if ok, _ := tc.convertTo(c.args[1], elem); !ok {
				return noOverload(tc, c)
			}
			if !pt.Access.CanWrite() {
				tc.report(diag.ValAccessMode, c.span, "%s requires a pointer with read_write access", c.name)
				return types.NoTypeID, false
			}
		}
		if !returns {
			return tc.types.Builtins().Void, true
		}
		return elem, true
	}
}

// textureCoords is the coordinate type for a texture dimension.
func (tc *typeChecker) textureCoords(dim types.TextureDim, scalar types.TypeID) types.TypeID {
	switch dim {
	case types.Dim1D:
		return scalar
	case types.Dim2D, types.Dim2DArray:
		return tc.types.Vector(scalar, 2)
	}
	return tc.types.Vector(scalar, 3)
}

func isArrayed(dim types.TextureDim) bool {
	return dim == types.Dim2DArray || dim == types.DimCubeArray
}

func (tc *typeChecker) recordTextureUse(c *builtinCallCtx, tex, smp int) {
	if tc.fn == nil {
		return
	}
	root := func(i int) *sem.Variable {
		if i < 0 {
			return nil
		}
		if e, ok := tc.module.Expr(c.argIDs[i]); ok && e.Root != nil {
			return e.Root
		}
		return nil
	}
	if t := root(tex); t != nil {
		tc.fn.fn.AddTextureSampler(sem.TextureSamplerPair{Texture: t, Sampler: root(smp)})
	}
}

func textureSampleCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) < 3 || len(c.args) > 4 {
		return noOverload(tc, c)
	}
	tt, ok := tc.types.Lookup(c.args[0].Type)
	if !ok || tt.Kind != types.KindTexture || tc.types.Kind(c.args[1].Type) != types.KindSampler {
		return noOverload(tc, c)
	}
	b := tc.types.Builtins()
	var ret types.TypeID
	switch {
	case tt.Texture == types.TextureSampled && tt.Elem == b.F32:
		ret = tc.types.Vector(b.F32, 4)
	case tt.Texture == types.TextureDepth:
		ret = b.F32
	default:
		return noOverload(tc, c)
	}
	if ok, _ := tc.convertTo(c.args[2], tc.textureCoords(tt.Dim, b.F32)); !ok {
		return noOverload(tc, c)
	}
	if isArrayed(tt.Dim) != (len(c.args) == 4) {
		return noOverload(tc, c)
	}
	if len(c.args) == 4 && !tc.integerArg(c.args[3]) {
		return noOverload(tc, c)
	}
	tc.recordTextureUse(c, 0, 1)
	return ret, true
}

func textureLoadCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) < 2 {
		return noOverload(tc, c)
	}
	tt, ok := tc.types.Lookup(c.args[0].Type)
	if !ok || tt.Kind != types.KindTexture {
		return noOverload(tc, c)
	}
	b := tc.types.Builtins()
	coords := c.args[1]
	if !tc.types.IsIntegerScalarOrVector(coords.Type) {
		return noOverload(tc, c)
	}
	if !tc.materializeTo(coords, tc.types.Concrete(coords.Type)) {
		return types.NoTypeID, false
	}
	want := tc.textureCoords(tt.Dim, tc.types.ElemOf(coords.Type))
	if coords.Type != want {
		return noOverload(tc, c)
	}
	extra := 1
	if tt.Texture == types.TextureStorage {
		extra = 0
	}
	if isArrayed(tt.Dim) {
		extra++
	}
	if len(c.args) != 2+extra {
		return noOverload(tc, c)
	}
	for _, a := range c.args[2:] {
		if !tc.integerArg(a) {
			return noOverload(tc, c)
		}
	}
	tc.recordTextureUse(c, 0, -1)

	switch tt.Texture {
	case types.TextureDepth, types.TextureDepthMultisampled:
		return b.F32, true
	case types.TextureStorage:
		if !tt.Access.CanRead() {
			tc.report(diag.ValAccessMode, c.span, "textureLoad requires a storage texture with read access")
			return types.NoTypeID, false
		}
		return tc.types.Vector(storageTexelType(tc, tt.Format), 4), true
	}
	return tc.types.Vector(tt.Elem, 4), true
}

// storageTexelType is the channel type of a texel format.
func storageTexelType(tc *typeChecker, f builtin.TexelFormat) types.TypeID {
	b := tc.types.Builtins()
	name := f.String()
	switch {
	case len(name) > 4 && name[len(name)-4:] == "sint":
		return b.I32
	case len(name) > 4 && name[len(name)-4:] == "uint":
		return b.U32
	}
	return b.F32
}

func (tc *typeChecker) integerArg(a *sem.Expr) bool {
	if !tc.types.IsIntegerScalar(a.Type) {
		return false
	}
	return tc.materializeTo(a, tc.types.Concrete(a.Type))
}

func barrierCheck(tc *typeChecker, c *builtinCallCtx) (types.TypeID, bool) {
	if len(c.args) != 0 {
		return noOverload(tc, c)
	}
	return tc.types.Builtins().Void, true
}
