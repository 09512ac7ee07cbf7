package consteval

import (
	"strconv"
	"strings"

	"wgslfront/internal/types"
)

// Value is a constant of any constructible type. Scalars use exactly one of
// Int, Float or Bool depending on the type; u32 values are stored
// non-negative in Int. Composites keep one Value per lane, column, element or
// member in Elems.
type Value struct {
	Type  types.TypeID
	Int   int64
	Float float64
	Bool  bool
	Elems []Value
}

// Composite reports whether v has sub-values.
func (v Value) Composite() bool { return v.Elems != nil }

// Equal compares two values structurally, types included.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type || len(v.Elems) != len(o.Elems) {
		return false
	}
	if v.Composite() {
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	}
	return v.Int == o.Int && v.Bool == o.Bool && (v.Float == o.Float || (v.Float != v.Float && o.Float != o.Float))
}

// AnyZero reports whether any scalar leaf of v is zero or false.
func (v Value) AnyZero() bool {
	if v.Composite() {
		for _, e := range v.Elems {
			if e.AnyZero() {
				return true
			}
		}
		return false
	}
	return v.Int == 0 && v.Float == 0 && !v.Bool
}

// Format renders v the way it would be written in source: `3`, `1.5f`,
// `vec2<i32>(1i, 2i)`.
func Format(in *types.Interner, v Value) string {
	var sb strings.Builder
	writeValue(&sb, in, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, in *types.Interner, v Value) {
	if v.Composite() {
		sb.WriteString(in.Name(v.Type))
		sb.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, in, e)
		}
		sb.WriteByte(')')
		return
	}
	switch in.Kind(v.Type) {
	case types.KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case types.KindAbstractInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case types.KindI32:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
		sb.WriteByte('i')
	case types.KindU32:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
		sb.WriteByte('u')
	case types.KindAbstractFloat:
		sb.WriteString(formatFloat(v.Float))
	case types.KindF32:
		sb.WriteString(formatFloat(v.Float))
		sb.WriteByte('f')
	case types.KindF16:
		sb.WriteString(formatFloat(v.Float))
		sb.WriteByte('h')
	default:
		sb.WriteString("<?>")
	}
}

// scalarText is the bare number used inside error messages.
func scalarText(in *types.Interner, v Value) string {
	switch in.Kind(v.Type) {
	case types.KindAbstractFloat, types.KindF32, types.KindF16:
		return formatFloat(v.Float)
	case types.KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return strconv.FormatInt(v.Int, 10)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
