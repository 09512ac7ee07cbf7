package sema

import (
	"fmt"
	"math/bits"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/layout"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// structDecl resolves the member types, validates the members and then
// computes the layout from @align, @size and @offset.
func (tc *typeChecker) structDecl(id ast.DeclID, decl *ast.Decl) (types.TypeID, bool) {
	tc.checkNFC(decl.Name)
	if len(decl.Attrs) > 0 {
		a := tc.builder.Attrs.Get(decl.Attrs[0])
		tc.report(diag.ResInvalidAttribute, a.Span, "@%s is not valid for struct declarations", tc.attrName(a))
		return types.NoTypeID, false
	}
	data, _ := tc.builder.Decls.Struct(id)
	name := tc.builder.Name(decl.Name.Name)
	t := tc.types.RegisterStruct(name, declNameSpan(decl))

	info := types.StructInfo{Name: name, Span: declNameSpan(decl)}
	specs := make([]layout.MemberSpec, 0, len(data.Members))
	io := make([]sem.IOAttributes, 0, len(data.Members))
	seen := make(map[string]source.Span, len(data.Members))
	var depth uint32

	for i, mid := range data.Members {
		m := tc.builder.Decls.Member(mid)
		mname := tc.builder.Name(m.Name.Name)
		tc.checkNFC(m.Name)
		if prev, dup := seen[mname]; dup {
			diag.ReportError(tc.reporter, diag.ResRedeclaration, m.Name.Span, fmt.Sprintf("redefinition of '%s'", mname)).
				WithNote(prev, "previous definition is here").
				Emit()
			return types.NoTypeID, false
		}
		seen[mname] = m.Name.Span
		if !tc.checkAttrs(m.Attrs, ast.AttrTargetMember) {
			return types.NoTypeID, false
		}
		mt, ok := tc.resolveType(m.Type)
		if !ok {
			return types.NoTypeID, false
		}
		spec, ok := tc.memberLayoutAttrs(m, mt)
		if !ok {
			return types.NoTypeID, false
		}
		mio, ok := tc.ioAttributes(m.Attrs, m.Span)
		if !ok {
			return types.NoTypeID, false
		}
		specs = append(specs, spec)
		io = append(io, mio)
		info.Members = append(info.Members, types.StructMember{Name: mname, Type: mt, Span: m.Span, Index: i})
		depth = max(depth, tc.types.NestDepth(mt))
	}
	info.NestDepth = depth + 1
	if info.NestDepth > maxNestDepth {
		tc.report(diag.ResNestingLimit, declNameSpan(decl), "struct '%s' has nesting depth of %d, maximum is %d", name, info.NestDepth, maxNestDepth)
		return types.NoTypeID, false
	}

	tc.types.SetStructInfo(t, info)
	tc.module.MemberIO[t] = io
	if !tc.validator.Structure(t) {
		return types.NoTypeID, false
	}

	res, lerr := tc.module.Layout.StructLayout(t, specs)
	if lerr != nil {
		span := declNameSpan(decl)
		if lerr.Member >= 0 && lerr.Member < len(info.Members) {
			span = info.Members[lerr.Member].Span
		}
		tc.report(diag.ResInvalidAttribute, span, "%s", lerr.Detail)
		return types.NoTypeID, false
	}
	for i := range info.Members {
		info.Members[i].Offset = res.Offsets[i]
		info.Members[i].Align = res.Aligns[i]
		info.Members[i].Size = res.Sizes[i]
	}
	info.Align, info.Size, info.SizeNoPadding = res.Align, res.Size, res.SizeNoPadding
	tc.types.SetStructInfo(t, info)
	tc.module.Layout.Invalidate(t)
	return t, true
}

// memberLayoutAttrs reads @align, @size and @offset of one member.
func (tc *typeChecker) memberLayoutAttrs(m *ast.Member, mt types.TypeID) (layout.MemberSpec, bool) {
	spec := layout.MemberSpec{Type: mt}
	for _, aid := range m.Attrs {
		a := tc.builder.Attrs.Get(aid)
		if a == nil {
			continue
		}
		switch a.Kind {
		case ast.AttrAlign:
			n, ok := tc.constU32Arg(a)
			if !ok {
				return spec, false
			}
			if n == 0 || bits.OnesCount32(n) != 1 {
				tc.report(diag.ResInvalidAttribute, a.Span, "@align value must be a positive, power-of-two integer")
				return spec, false
			}
			spec.Align = n
		case ast.AttrSize:
			n, ok := tc.constU32Arg(a)
			if !ok {
				return spec, false
			}
			if n == 0 {
				tc.report(diag.ResInvalidAttribute, a.Span, "@size must be a positive integer")
				return spec, false
			}
			spec.Size = n
		case ast.AttrOffset:
			n, ok := tc.constU32Arg(a)
			if !ok {
				return spec, false
			}
			spec.Offset = &n
		}
	}
	if (spec.Align != 0 || spec.Size != 0 || spec.Offset != nil) && !tc.types.IsConstructible(mt) && !tc.types.IsRuntimeArray(mt) {
		tc.report(diag.ResInvalidAttribute, m.Span, "layout attributes cannot be applied to a member of type '%s'", tc.typeName(mt))
		return spec, false
	}
	return spec, true
}
