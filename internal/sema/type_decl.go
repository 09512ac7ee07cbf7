package sema

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/layout"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// maxNestDepth bounds the nesting of composite types.
const maxNestDepth = 255

type textureShape struct {
	kind types.TextureKind
	dim  types.TextureDim
}

var sampledTextures = map[string]textureShape{
	"texture_1d":                    {types.TextureSampled, types.Dim1D},
	"texture_2d":                    {types.TextureSampled, types.Dim2D},
	"texture_2d_array":              {types.TextureSampled, types.Dim2DArray},
	"texture_3d":                    {types.TextureSampled, types.Dim3D},
	"texture_cube":                  {types.TextureSampled, types.DimCube},
	"texture_cube_array":            {types.TextureSampled, types.DimCubeArray},
	"texture_multisampled_2d":       {types.TextureMultisampled, types.Dim2D},
	"texture_depth_2d":              {types.TextureDepth, types.Dim2D},
	"texture_depth_2d_array":        {types.TextureDepth, types.Dim2DArray},
	"texture_depth_cube":            {types.TextureDepth, types.DimCube},
	"texture_depth_cube_array":      {types.TextureDepth, types.DimCubeArray},
	"texture_depth_multisampled_2d": {types.TextureDepthMultisampled, types.Dim2D},
	"texture_storage_1d":            {types.TextureStorage, types.Dim1D},
	"texture_storage_2d":            {types.TextureStorage, types.Dim2D},
	"texture_storage_2d_array":      {types.TextureStorage, types.Dim2DArray},
	"texture_storage_3d":            {types.TextureStorage, types.Dim3D},
}

// shorthand aliases: vec3f, mat4x4h, ...
var vectorSuffix = map[byte]func(b types.Builtins) types.TypeID{
	'i': func(b types.Builtins) types.TypeID { return b.I32 },
	'u': func(b types.Builtins) types.TypeID { return b.U32 },
	'f': func(b types.Builtins) types.TypeID { return b.F32 },
	'h': func(b types.Builtins) types.TypeID { return b.F16 },
}

// isBuiltinTypeName reports names that resolve to a type when nothing user
// declared shadows them.
func isBuiltinTypeName(name string) bool {
	switch name {
	case "bool", "i32", "u32", "f32", "f16", "array", "atomic", "ptr", "sampler", "sampler_comparison":
		return true
	}
	if _, ok := sampledTextures[name]; ok {
		return true
	}
	_, _, ok := parseVecName(name)
	if ok {
		return true
	}
	_, _, _, ok = parseMatName(name)
	return ok
}

// parseVecName: vec2, vec3f, vec4h. suffix is 0 for the templated form.
func parseVecName(name string) (n uint8, suffix byte, ok bool) {
	if len(name) < 4 || !strings.HasPrefix(name, "vec") || name[3] < '2' || name[3] > '4' {
		return 0, 0, false
	}
	n = name[3] - '0'
	switch len(name) {
	case 4:
		return n, 0, true
	case 5:
		if _, ok := vectorSuffix[name[4]]; ok {
			return n, name[4], true
		}
	}
	return 0, 0, false
}

// parseMatName: mat2x3, mat4x4f, mat3x2h.
func parseMatName(name string) (cols, rows uint8, suffix byte, ok bool) {
	if len(name) < 6 || !strings.HasPrefix(name, "mat") || name[4] != 'x' {
		return 0, 0, 0, false
	}
	c, r := name[3], name[5]
	if c < '2' || c > '4' || r < '2' || r > '4' {
		return 0, 0, 0, false
	}
	switch len(name) {
	case 6:
		return c - '0', r - '0', 0, true
	case 7:
		if name[6] == 'f' || name[6] == 'h' {
			return c - '0', r - '0', name[6], true
		}
	}
	return 0, 0, 0, false
}

// resolveType resolves a type expression and records it as a type node.
func (tc *typeChecker) resolveType(id ast.ExprID) (types.TypeID, bool) {
	return tc.resolveTypeStride(id, 0)
}

// resolveTypeStride is resolveType with an explicit array stride applied to
// the outermost array.
func (tc *typeChecker) resolveTypeStride(id ast.ExprID, stride uint32) (types.TypeID, bool) {
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		diag.Panicf("resolve", "type expression %d does not exist", id)
	}
	if e.Kind != ast.ExprIdent {
		tc.report(diag.ResMisplacedIdentifier, e.Span, "expected a type, found %s expression", strings.ToLower(e.Kind.String()))
		return types.NoTypeID, false
	}
	data, _ := tc.builder.Exprs.Ident(id)
	name := tc.builder.Name(data.Name)

	t, ok := tc.typeFromName(id, name, data.TemplateArgs, stride)
	if !ok {
		return types.NoTypeID, false
	}
	tc.module.MarkVisited(e.Node)
	tc.module.AddExpr(&sem.Expr{Node: id, Kind: sem.ExprType, Type: t, Span: e.Span})
	return t, true
}

func (tc *typeChecker) typeFromName(id ast.ExprID, name string, args []ast.ExprID, stride uint32) (types.TypeID, bool) {
	span := tc.exprSpan(id)
	if v, ok := tc.scopes.lookup(name); ok {
		tc.report(diag.ResMisplacedIdentifier, span, "cannot use %s '%s' as type", v.Kind, name)
		return types.NoTypeID, false
	}
	if sym, ok := tc.globals[name]; ok {
		switch sym.kind {
		case symType:
			if len(args) > 0 {
				tc.report(diag.ResMisplacedIdentifier, span, "type '%s' does not take template arguments", name)
				return types.NoTypeID, false
			}
			return sym.typ, true
		case symVar:
			tc.report(diag.ResMisplacedIdentifier, span, "cannot use %s '%s' as type", sym.v.Kind, name)
		case symFunc:
			tc.report(diag.ResMisplacedIdentifier, span, "cannot use function '%s' as type", name)
		}
		return types.NoTypeID, false
	}
	if _, ok := tc.failed[name]; ok {
		return types.NoTypeID, false
	}
	if _, ok := tc.declNames[name]; ok {
		diag.Panicf("resolve", "'%s' used before it was resolved", name)
	}
	return tc.builtinType(id, name, args, stride)
}

func (tc *typeChecker) expectTemplateArgs(id ast.ExprID, name string, args []ast.ExprID, minN, maxN int) bool {
	if len(args) >= minN && len(args) <= maxN {
		return true
	}
	span := tc.exprSpan(id)
	switch {
	case maxN == 0:
		tc.report(diag.ResMisplacedIdentifier, span, "type '%s' does not take template arguments", name)
	case minN == maxN:
		tc.report(diag.ResMisplacedIdentifier, span, "'%s' requires %d template argument%s", name, minN, pluralS(minN))
	case len(args) < minN:
		tc.report(diag.ResMisplacedIdentifier, span, "'%s' requires at least %d template argument%s", name, minN, pluralS(minN))
	default:
		tc.report(diag.ResMisplacedIdentifier, span, "'%s' takes at most %d template arguments", name, maxN)
	}
	return false
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (tc *typeChecker) builtinType(id ast.ExprID, name string, args []ast.ExprID, stride uint32) (types.TypeID, bool) {
	b := tc.types.Builtins()
	span := tc.exprSpan(id)

	scalar := func(t types.TypeID) (types.TypeID, bool) {
		if !tc.expectTemplateArgs(id, name, args, 0, 0) {
			return types.NoTypeID, false
		}
		return t, true
	}
	switch name {
	case "bool":
		return scalar(b.Bool)
	case "i32":
		return scalar(b.I32)
	case "u32":
		return scalar(b.U32)
	case "f32":
		return scalar(b.F32)
	case "f16":
		if !tc.requireF16(span) {
			return types.NoTypeID, false
		}
		return scalar(b.F16)
	case "sampler":
		return scalar(b.Sampler)
	case "sampler_comparison":
		return scalar(b.SamplerComparison)
	case "array":
		return tc.arrayType(id, args, stride)
	case "atomic":
		if !tc.expectTemplateArgs(id, name, args, 1, 1) {
			return types.NoTypeID, false
		}
		elem, ok := tc.resolveType(args[0])
		if !ok {
			return types.NoTypeID, false
		}
		if elem != b.I32 && elem != b.U32 {
			tc.report(diag.ResTypeMismatch, tc.exprSpan(args[0]), "atomic only supports i32 or u32 types")
			return types.NoTypeID, false
		}
		return tc.types.Intern(types.MakeAtomic(elem)), true
	case "ptr":
		return tc.pointerType(id, args)
	}

	if n, suffix, ok := parseVecName(name); ok {
		if suffix != 0 {
			if suffix == 'h' && !tc.requireF16(span) {
				return types.NoTypeID, false
			}
			if !tc.expectTemplateArgs(id, name, args, 0, 0) {
				return types.NoTypeID, false
			}
			return tc.types.Vector(vectorSuffix[suffix](b), n), true
		}
		if !tc.expectTemplateArgs(id, name, args, 1, 1) {
			return types.NoTypeID, false
		}
		elem, ok := tc.resolveType(args[0])
		if !ok {
			return types.NoTypeID, false
		}
		if !tc.types.IsScalar(elem) {
			tc.report(diag.ResTypeMismatch, tc.exprSpan(args[0]), "vector element type must be a scalar type, found '%s'", tc.typeName(elem))
			return types.NoTypeID, false
		}
		return tc.types.Vector(elem, n), true
	}

	if cols, rows, suffix, ok := parseMatName(name); ok {
		if suffix != 0 {
			if suffix == 'h' && !tc.requireF16(span) {
				return types.NoTypeID, false
			}
			if !tc.expectTemplateArgs(id, name, args, 0, 0) {
				return types.NoTypeID, false
			}
			return tc.types.Matrix(vectorSuffix[suffix](b), cols, rows), true
		}
		if !tc.expectTemplateArgs(id, name, args, 1, 1) {
			return types.NoTypeID, false
		}
		elem, ok := tc.resolveType(args[0])
		if !ok {
			return types.NoTypeID, false
		}
		if elem != b.F32 && elem != b.F16 {
			tc.report(diag.ResTypeMismatch, tc.exprSpan(args[0]), "matrix element type must be 'f32' or 'f16'")
			return types.NoTypeID, false
		}
		return tc.types.Matrix(elem, cols, rows), true
	}

	if shape, ok := sampledTextures[name]; ok {
		return tc.textureType(id, name, shape, args)
	}

	tc.report(diag.ResUnresolvedIdentifier, span, "unresolved type '%s'", name)
	return types.NoTypeID, false
}

func (tc *typeChecker) requireF16(span source.Span) bool {
	if tc.module.Extensions.Has(builtin.ExtF16) {
		return true
	}
	tc.report(diag.ValExtensionRequired, span, "f16 type used without 'f16' extension enabled")
	return false
}

func (tc *typeChecker) textureType(id ast.ExprID, name string, shape textureShape, args []ast.ExprID) (types.TypeID, bool) {
	switch shape.kind {
	case types.TextureDepth, types.TextureDepthMultisampled:
		if !tc.expectTemplateArgs(id, name, args, 0, 0) {
			return types.NoTypeID, false
		}
		return tc.types.Intern(types.MakeDepthTexture(shape.kind, shape.dim)), true
	case types.TextureStorage:
		if !tc.expectTemplateArgs(id, name, args, 2, 2) {
			return types.NoTypeID, false
		}
		format, ok := enumArg(tc, args[0], "texel format", builtin.ParseTexelFormat, builtin.TexelFormatStrings())
		if !ok {
			return types.NoTypeID, false
		}
		access, ok := enumArg(tc, args[1], "access", builtin.ParseAccess, builtin.AccessStrings())
		if !ok {
			return types.NoTypeID, false
		}
		return tc.types.Intern(types.MakeStorageTexture(shape.dim, format, access)), true
	}
	if !tc.expectTemplateArgs(id, name, args, 1, 1) {
		return types.NoTypeID, false
	}
	sampled, ok := tc.resolveType(args[0])
	if !ok {
		return types.NoTypeID, false
	}
	b := tc.types.Builtins()
	if sampled != b.F32 && sampled != b.I32 && sampled != b.U32 {
		tc.report(diag.ResTypeMismatch, tc.exprSpan(args[0]), "texture_2d<type>: type must be f32, i32 or u32")
		return types.NoTypeID, false
	}
	return tc.types.Intern(types.MakeSampledTexture(shape.kind, shape.dim, sampled)), true
}

// enumArg reads a template argument that names an enumerant.
func enumArg[T ~uint8](tc *typeChecker, id ast.ExprID, what string, parse func(string) T, values []string) (T, bool) {
	e := tc.builder.Exprs.Get(id)
	data, ok := tc.builder.Exprs.Ident(id)
	if !ok || len(data.TemplateArgs) > 0 {
		tc.report(diag.ResMisplacedIdentifier, e.Span, "expected %s", what)
		return 0, false
	}
	name := tc.builder.Name(data.Name)
	v := parse(name)
	if v == 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "unresolved %s '%s'\n", what, name)
		diag.SuggestAlternatives(&sb, name, values)
		tc.report(diag.ResUnresolvedIdentifier, e.Span, "%s", sb.String())
		return 0, false
	}
	tc.module.MarkVisited(e.Node)
	tc.module.AddExpr(&sem.Expr{Node: id, Kind: sem.ExprEnumerant, Enumerant: name, Span: e.Span})
	return v, true
}

func (tc *typeChecker) pointerType(id ast.ExprID, args []ast.ExprID) (types.TypeID, bool) {
	if !tc.expectTemplateArgs(id, "ptr", args, 2, 3) {
		return types.NoTypeID, false
	}
	space, ok := enumArg(tc, args[0], "address space", builtin.ParseAddressSpace, builtin.AddressSpaceStrings())
	if !ok {
		return types.NoTypeID, false
	}
	store, ok := tc.resolveType(args[1])
	if !ok {
		return types.NoTypeID, false
	}
	access := space.DefaultAccess()
	if len(args) == 3 {
		if space != builtin.AddressSpaceStorage {
			tc.report(diag.ValAccessMode, tc.exprSpan(args[2]), "only pointers in <storage> address space may specify an access mode")
			return types.NoTypeID, false
		}
		access, ok = enumArg(tc, args[2], "access", builtin.ParseAccess, builtin.AccessStrings())
		if !ok {
			return types.NoTypeID, false
		}
	}
	if !tc.validator.AddressSpaceUse(space, tc.exprSpan(args[0])) {
		return types.NoTypeID, false
	}
	return tc.types.Pointer(space, store, access), true
}

func (tc *typeChecker) arrayType(id ast.ExprID, args []ast.ExprID, stride uint32) (types.TypeID, bool) {
	if !tc.expectTemplateArgs(id, "array", args, 1, 2) {
		return types.NoTypeID, false
	}
	elem, ok := tc.resolveType(args[0])
	if !ok {
		return types.NoTypeID, false
	}
	elemSpan := tc.exprSpan(args[0])
	switch {
	case tc.types.IsRuntimeArray(elem) || tc.types.Contains(elem, isRuntimeArrayType):
		tc.report(diag.ResTypeMismatch, elemSpan, "an array element type cannot contain a runtime-sized array")
		return types.NoTypeID, false
	case tc.types.IsHandle(elem) || tc.types.Kind(elem) == types.KindPointer:
		tc.report(diag.ResTypeMismatch, elemSpan, "'%s' cannot be used as an element type of an array", tc.typeName(elem))
		return types.NoTypeID, false
	}

	var desc types.Type
	if len(args) == 1 {
		desc = types.MakeRuntimeArray(elem, stride)
	} else {
		d, ok := tc.arrayCount(args[1], elem, stride)
		if !ok {
			return types.NoTypeID, false
		}
		desc = d
	}
	if stride != 0 {
		size, err := tc.module.Layout.SizeOf(elem)
		align, _ := tc.module.Layout.AlignOf(elem)
		if err == nil && (stride < size || stride%align != 0) {
			tc.report(diag.ResInvalidAttribute, tc.exprSpan(id),
				"arrays decorated with the stride attribute must have a stride that is at least the size of the element type, and be a multiple of the element type's alignment value")
			return types.NoTypeID, false
		}
	}

	t := tc.types.Intern(desc)
	if depth := tc.types.NestDepth(t); depth > maxNestDepth {
		tc.report(diag.ResNestingLimit, tc.exprSpan(id), "array has nesting depth of %d, maximum is %d", depth, maxNestDepth)
		return types.NoTypeID, false
	}
	if desc.CountKind == types.CountConstant {
		if _, err := tc.module.Layout.LayoutOf(t); err != nil {
			if le, ok := err.(*layout.LayoutError); ok && le.Kind == layout.LayoutErrOverflow {
				tc.report(diag.ResArrayCount, tc.exprSpan(id), "%s", le.Detail)
				return types.NoTypeID, false
			}
		}
	}
	return t, true
}

func isRuntimeArrayType(t types.Type) bool {
	return t.Kind == types.KindArray && t.CountKind == types.CountRuntime
}

// arrayCount evaluates the element count of array<T, N>.
func (tc *typeChecker) arrayCount(count ast.ExprID, elem types.TypeID, stride uint32) (types.Type, bool) {
	e, ok := tc.valueExpr(count)
	if !ok {
		return types.Type{}, false
	}
	span := tc.exprSpan(count)
	if !tc.types.IsIntegerScalar(e.Type) {
		tc.report(diag.ResArrayCount, span, "array count must evaluate to a constant integer expression or override variable")
		return types.Type{}, false
	}
	switch e.Stage {
	case sem.StageConstant:
		n := e.Value.Int
		if n < 1 {
			tc.report(diag.ResArrayCount, span, "array count (%d) must be greater than 0", n)
			return types.Type{}, false
		}
		c, err := safecast.Conv[uint32](n)
		if err != nil {
			tc.report(diag.ResArrayCount, span, "array count (%d) must be less than 4294967296", n)
			return types.Type{}, false
		}
		return types.MakeArray(elem, c, stride), true
	case sem.StageOverride:
		if e.Var != nil && e.Var.Kind == ast.DeclOverride {
			idx, err := safecast.Conv[uint32](e.Var.Index)
			if err != nil {
				panic(fmt.Errorf("override index overflow: %w", err))
			}
			return types.MakeOverrideArray(elem, types.CountNamedOverride, idx, stride), true
		}
		return types.MakeOverrideArray(elem, types.CountUnnamedOverride, uint32(count), stride), true
	}
	tc.report(diag.ResArrayCount, span, "array count must evaluate to a constant integer expression or override variable")
	return types.Type{}, false
}

func (tc *typeChecker) aliasDecl(id ast.DeclID, decl *ast.Decl) (types.TypeID, bool) {
	tc.checkNFC(decl.Name)
	data, _ := tc.builder.Decls.Alias(id)
	return tc.resolveType(data.Type)
}
