package layout

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"wgslfront/internal/types"
)

func (e *LayoutEngine) computeLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Align: 1}, &LayoutError{Kind: LayoutErrNoLayout, Type: id}
	}

	switch tt.Kind {
	case types.KindBool, types.KindI32, types.KindU32, types.KindF32:
		return scalarLayout(4), nil
	case types.KindF16:
		return scalarLayout(2), nil

	case types.KindAtomic:
		return e.layoutOf(tt.Elem, state)

	case types.KindVector:
		el, err := e.layoutOf(tt.Elem, state)
		if err != nil {
			return el, err
		}
		// vec3 is aligned like vec4
		n := uint32(tt.Width)
		alignN := n
		if n == 3 {
			alignN = 4
		}
		return TypeLayout{Size: n * el.Size, Align: alignN * el.Size}, nil

	case types.KindMatrix:
		col, err := e.layoutOf(tt.Elem, state)
		if err != nil {
			return col, err
		}
		stride := roundUp(col.Size, col.Align)
		return TypeLayout{Size: uint32(tt.Columns) * stride, Align: col.Align, Stride: stride}, nil

	case types.KindArray:
		return e.arrayLayout(id, tt, state)

	case types.KindStruct:
		return e.structLayout(id, state)
	}
	return TypeLayout{Align: 1}, &LayoutError{Kind: LayoutErrNoLayout, Type: id}
}

func scalarLayout(size uint32) TypeLayout {
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align uint32) uint32 {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

// RoundUp rounds n up to a multiple of align.
func RoundUp(n, align uint32) uint32 { return roundUp(n, align) }

// mulChecked / addChecked считают в uint64, чтобы поймать выход за 32 бита.
func mulChecked(a, b uint32) (uint32, bool) {
	v := uint64(a) * uint64(b)
	if v > math.MaxUint32 {
		return 0, false
	}
	out, err := safecast.Conv[uint32](v)
	return out, err == nil
}

func addChecked(a, b uint32) (uint32, bool) {
	v := uint64(a) + uint64(b)
	if v > math.MaxUint32 {
		return 0, false
	}
	out, err := safecast.Conv[uint32](v)
	return out, err == nil
}

// arrayLayout: stride = explicit @stride or roundUp(align, size);
// size = count * stride. Runtime and override-sized arrays report one stride
// as their size.
func (e *LayoutEngine) arrayLayout(id types.TypeID, tt types.Type, state *layoutState) (TypeLayout, *LayoutError) {
	el, err := e.layoutOf(tt.Elem, state)
	if err != nil {
		return el, err
	}
	stride := tt.Stride
	if stride == 0 {
		stride = roundUp(el.Size, el.Align)
	}
	if tt.CountKind != types.CountConstant {
		return TypeLayout{Size: stride, Align: el.Align, Stride: stride}, nil
	}
	size, ok := mulChecked(tt.Count, stride)
	if !ok {
		return TypeLayout{Align: 1}, &LayoutError{
			Kind:   LayoutErrOverflow,
			Type:   id,
			Detail: fmt.Sprintf("array byte size (0x%x) must not exceed 0xffffffff bytes", uint64(tt.Count)*uint64(stride)),
		}
	}
	return TypeLayout{Size: size, Align: el.Align, Stride: stride}, nil
}

func (e *LayoutEngine) structLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	info, ok := e.Types.StructInfo(id)
	if !ok {
		return TypeLayout{Align: 1}, &LayoutError{Kind: LayoutErrNoLayout, Type: id}
	}
	// member types must be laid out too, a struct may not contain itself
	for _, m := range info.Members {
		if _, err := e.layoutOf(m.Type, state); err != nil {
			return TypeLayout{Align: 1}, err
		}
	}
	offsets := make([]uint32, len(info.Members))
	for i, m := range info.Members {
		offsets[i] = m.Offset
	}
	align := info.Align
	if align == 0 {
		align = 1
	}
	return TypeLayout{Size: info.Size, Align: align, MemberOffsets: offsets}, nil
}

// MemberSpec is a struct member as declared: its type plus the optional
// @align and @size values (0 when absent) and @offset.
type MemberSpec struct {
	Type   types.TypeID
	Align  uint32
	Size   uint32
	Offset *uint32
}

// StructResult is the computed layout of a struct declaration.
type StructResult struct {
	Offsets       []uint32
	Aligns        []uint32
	Sizes         []uint32
	Align         uint32
	Size          uint32
	SizeNoPadding uint32
}

// StructLayout lays out members in order. A member is placed at its @offset
// if given, otherwise at the next multiple of its alignment. The struct
// alignment is the largest member alignment and its size is the end of the
// last member rounded up to it.
func (e *LayoutEngine) StructLayout(structT types.TypeID, members []MemberSpec) (StructResult, *LayoutError) {
	res := StructResult{
		Offsets: make([]uint32, len(members)),
		Aligns:  make([]uint32, len(members)),
		Sizes:   make([]uint32, len(members)),
		Align:   1,
	}
	var offset uint32
	for i, m := range members {
		ml, err := e.layoutOf(m.Type, newLayoutState())
		if err != nil {
			return res, err
		}
		align, size := ml.Align, ml.Size
		if m.Align != 0 {
			align = m.Align
		}
		if m.Size != 0 {
			if m.Size < ml.Size {
				return res, &LayoutError{
					Kind:   LayoutErrBadAttribute,
					Type:   structT,
					Member: i,
					Detail: fmt.Sprintf("@size must be at least as big as the type's size (%d)", ml.Size),
				}
			}
			size = m.Size
		}
		switch {
		case m.Offset != nil:
			if *m.Offset < offset {
				return res, &LayoutError{
					Kind:   LayoutErrBadAttribute,
					Type:   structT,
					Member: i,
					Detail: "offsets must be in ascending order",
				}
			}
			offset = *m.Offset
		default:
			offset = roundUp(offset, align)
		}
		res.Offsets[i] = offset
		res.Aligns[i] = align
		res.Sizes[i] = size
		res.Align = max(res.Align, align)

		end, ok := addChecked(offset, size)
		if !ok {
			return res, &LayoutError{
				Kind:   LayoutErrOverflow,
				Type:   structT,
				Member: i,
				Detail: "struct member offset exceeds 0xffffffff bytes",
			}
		}
		offset = end
	}
	res.SizeNoPadding = offset
	res.Size = roundUp(offset, res.Align)
	return res, nil
}

// RequiredAlign is the alignment a type needs when placed in the given
// address space: uniform buffers round array and struct alignment up to 16
// unless relaxed layout rules apply.
func (e *LayoutEngine) RequiredAlign(t types.TypeID, uniform bool) (uint32, error) {
	l, err := e.LayoutOf(t)
	if err != nil {
		return 0, err
	}
	if !uniform {
		return l.Align, nil
	}
	switch e.Types.Kind(t) {
	case types.KindArray, types.KindStruct:
		return roundUp(l.Align, 16), nil
	}
	return l.Align, nil
}
