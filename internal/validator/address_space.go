package validator

import (
	"fmt"
	"strings"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// AddressSpaceUse gates address spaces behind their extension.
func (v *Validator) AddressSpaceUse(space builtin.AddressSpace, span source.Span) bool {
	if space == builtin.AddressSpacePushConstant && !v.enabled(builtin.ExtPushConstant) {
		return v.fail(diag.ValExtensionRequired, span,
			"use of variable address space 'push_constant' requires enabling extension 'chromium_experimental_push_constant'")
	}
	return true
}

// AddressSpaceLayout checks the memory layout rules of host-shareable address
// spaces: member offsets aligned to the required alignment, and for uniform
// buffers 16-byte aligned structs, arrays and array strides.
func (v *Validator) AddressSpaceLayout(store types.TypeID, space builtin.AddressSpace, span source.Span) bool {
	key := layoutKey{t: store, space: space}
	if _, ok := v.validLayouts[key]; ok {
		return true
	}
	v.validLayouts[key] = struct{}{}
	if !space.IsHostShareable() {
		return true
	}
	usage := fmt.Sprintf("'%s' used in address space '%s' here", v.typeName(store), space)

	if space == builtin.AddressSpacePushConstant && v.types.Kind(v.types.DeepestElement(store)) == types.KindF16 {
		return v.fail(diag.ValAddressSpaceLayout, span, "using f16 types in 'push_constant' address space is not implemented yet")
	}

	uniform := space == builtin.AddressSpaceUniform
	relaxed := v.enabled(builtin.ExtRelaxedUniformLayout)
	requiredAlign := func(t types.TypeID) uint32 {
		a, err := v.layout.RequiredAlign(t, uniform)
		if err != nil {
			return 1
		}
		return a
	}

	if info, ok := v.types.StructInfo(store); ok {
		for i := range info.Members {
			m := &info.Members[i]
			if !v.AddressSpaceLayout(m.Type, space, m.Span) {
				return false
			}
			align := requiredAlign(m.Type)
			if m.Offset%align != 0 && !relaxed {
				b := v.errorf(diag.ValAddressSpaceLayout, m.Span,
					"the offset of a struct member of type '%s' in address space '%s' must be a multiple of %d bytes, but '%s' is currently at offset %d. Consider setting @align(%d) on this member",
					v.typeName(m.Type), space, align, m.Name, m.Offset, align).
					WithNote(info.Span, "see layout of struct:\n"+v.describeLayout(store))
				if mi, ok := v.types.StructInfo(m.Type); ok {
					b.WithNote(mi.Span, "and layout of struct member:\n"+v.describeLayout(m.Type))
				}
				b.WithNote(span, usage).Emit()
				return false
			}
			if i > 0 && uniform && !relaxed {
				prev := &info.Members[i-1]
				if pi, ok := v.types.StructInfo(prev.Type); ok {
					if gap := m.Offset - prev.Offset; gap%16 != 0 {
						v.errorf(diag.ValAddressSpaceLayout, m.Span,
							"uniform storage requires that the number of bytes between the start of the previous member of type struct and the current member be a multiple of 16 bytes, but there are currently %d bytes between '%s' and '%s'. Consider setting @align(16) on this member",
							gap, prev.Name, m.Name).
							WithNote(info.Span, "see layout of struct:\n"+v.describeLayout(store)).
							WithNote(pi.Span, "and layout of previous member struct:\n"+v.describeLayout(prev.Type)).
							WithNote(span, usage).
							Emit()
						return false
					}
				}
			}
		}
	}

	tt := v.types.MustLookup(store)
	if tt.Kind == types.KindArray {
		if !v.AddressSpaceLayout(tt.Elem, space, span) {
			return false
		}
		if uniform && !relaxed {
			stride, err := v.layout.StrideOf(store)
			if err == nil && stride%16 != 0 {
				return v.fail(diag.ValAddressSpaceLayout, span,
					"uniform storage requires that array elements are aligned to 16 bytes, but array element of type '%s' has a stride of %d bytes. %s",
					v.typeName(tt.Elem), stride, v.strideHint(tt.Elem))
			}
		}
	}
	return true
}

const maxArrayElementCount = 65536

type memberNote struct {
	span source.Span
	msg  string
}

// ArraysInAddressSpace rejects runtime-sized arrays and arrays of 65536 or
// more elements anywhere in a store type outside the storage address space.
func (v *Validator) ArraysInAddressSpace(store types.TypeID, space builtin.AddressSpace, span source.Span) bool {
	if space == builtin.AddressSpaceStorage {
		return true
	}
	msg, notes := v.arrayUsage(store)
	if msg == "" {
		return true
	}
	b := v.errorf(diag.ValAddressSpace, span, "%s", msg)
	for _, n := range notes {
		b.WithNote(n.span, n.msg)
	}
	b.Emit()
	return false
}

// arrayUsage returns the first violation in t, innermost struct member first
// in notes.
func (v *Validator) arrayUsage(t types.TypeID) (string, []memberNote) {
	if info, ok := v.types.StructInfo(t); ok {
		for i := range info.Members {
			m := &info.Members[i]
			if msg, notes := v.arrayUsage(m.Type); msg != "" {
				return msg, append(notes, memberNote{span: m.Span, msg: fmt.Sprintf("while analyzing structure member %s.%s", info.Name, m.Name)})
			}
		}
		return "", nil
	}
	tt := v.types.MustLookup(t)
	if tt.Kind != types.KindArray {
		return "", nil
	}
	switch {
	case tt.CountKind == types.CountRuntime:
		return "runtime-sized arrays can only be used in the <storage> address space", nil
	case tt.CountKind == types.CountConstant && tt.Count >= maxArrayElementCount:
		return fmt.Sprintf("array count (%d) must be less than %d", tt.Count, maxArrayElementCount), nil
	}
	return v.arrayUsage(tt.Elem)
}

func (v *Validator) strideHint(elem types.TypeID) string {
	switch {
	case v.types.IsScalar(elem):
		return "Consider using a vector or struct as the element type instead."
	case v.types.Kind(elem) == types.KindVector:
		if size, err := v.layout.SizeOf(v.types.ElemOf(elem)); err == nil && size == 4 {
			return "Consider using a vec4 instead."
		}
	case v.types.Kind(elem) == types.KindStruct:
		return "Consider using the @size attribute on the last struct member."
	}
	return "Consider wrapping the element type in a struct and using the @size attribute."
}

// describeLayout renders a struct as a table of offsets, alignments and sizes.
func (v *Validator) describeLayout(t types.TypeID) string {
	info, ok := v.types.StructInfo(t)
	if !ok {
		return v.typeName(t)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "/*           align(%d) size(%d) */ struct %s {\n", info.Align, info.Size, info.Name)
	var next uint32
	for _, m := range info.Members {
		if m.Offset > next {
			fmt.Fprintf(&sb, "/* offset(%d) size(%d) */   // -- implicit field alignment padding --;\n", next, m.Offset-next)
		}
		fmt.Fprintf(&sb, "/* offset(%d) align(%d) size(%d) */   %s : %s;\n", m.Offset, m.Align, m.Size, m.Name, v.typeName(m.Type))
		next = m.Offset + m.Size
	}
	if info.Size > next {
		fmt.Fprintf(&sb, "/* size(%d) */   // -- implicit struct size padding --;\n", info.Size-next)
	}
	sb.WriteString("/*                               */ };")
	return sb.String()
}

// TypeAccessAddressSpace checks a store type against the address space and
// access mode it is used with: layout, extension gating, storage access modes
// and where atomics may live.
func (v *Validator) TypeAccessAddressSpace(store types.TypeID, access builtin.Access, space builtin.AddressSpace, span source.Span) bool {
	if !v.ArraysInAddressSpace(store, space, span) {
		return false
	}
	if !v.AddressSpaceLayout(store, space, span) {
		return false
	}
	if !v.AddressSpaceUse(space, span) {
		return false
	}
	if space == builtin.AddressSpaceStorage && access == builtin.AccessWrite {
		return v.fail(diag.ValAccessMode, span, "access mode 'write' is not valid for the 'storage' address space")
	}
	if space.IsHostShareable() && !v.types.IsHostShareable(store) {
		return v.fail(diag.ValHostShareable, span, "Type '%s' cannot be used in address space '%s' as it is non-host-shareable", v.typeName(store), space)
	}

	if !v.types.ContainsAtomic(store) {
		return true
	}
	var msg string
	switch {
	case space != builtin.AddressSpaceStorage && space != builtin.AddressSpaceWorkgroup:
		msg = "atomic variables must have <storage> or <workgroup> address space"
	case space == builtin.AddressSpaceStorage && access != builtin.AccessReadWrite:
		msg = "atomic variables in <storage> address space must have read_write access mode"
	default:
		return true
	}
	b := v.errorf(diag.ValAddressSpace, span, "%s", msg)
	if v.types.Kind(store) != types.KindAtomic {
		if info, ok := v.types.StructInfo(store); ok {
			b.WithNote(info.Span, fmt.Sprintf("atomic sub-type of '%s' is declared here", v.typeName(store)))
		}
	}
	b.Emit()
	return false
}
