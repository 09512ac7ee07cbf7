package consteval

import (
	"math"
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/types"
)

func newEval() (*Evaluator, types.Builtins) {
	in := types.NewInterner()
	return New(in), in.Builtins()
}

func TestMaterializationIsIdempotent(t *testing.T) {
	e, b := newEval()

	v, err := e.Convert(e.AbstractInt(42), b.I32)
	if err != nil {
		t.Fatal(err)
	}
	again, err := e.Convert(v, b.I32)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(v) || again.Int != 42 {
		t.Fatalf("re-materialization changed the value: %+v -> %+v", v, again)
	}

	f := e.F32(1.5)
	same, _ := e.Convert(f, b.F32)
	if !same.Equal(f) {
		t.Fatal("converting a concrete value to its own type must be a no-op")
	}
}

func TestConvertRepresentability(t *testing.T) {
	e, b := newEval()
	tests := []struct {
		name string
		v    Value
		to   types.TypeID
		err  string
	}{
		{"i32 overflow", e.AbstractInt(3000000000), b.I32, "value 3000000000 cannot be represented as 'i32'"},
		{"negative u32", e.AbstractInt(-1), b.U32, "value -1 cannot be represented as 'u32'"},
		{"f32 overflow", e.AbstractFloat(1e39), b.F32, "value 1e+39 cannot be represented as 'f32'"},
		{"f16 overflow", e.AbstractFloat(65536), b.F16, "value 65536.0 cannot be represented as 'f16'"},
		{"u32 max", e.AbstractInt(4294967295), b.U32, ""},
		{"int to float", e.AbstractInt(3), b.F32, ""},
	}
	for _, tt := range tests {
		_, err := e.Convert(tt.v, tt.to)
		switch {
		case tt.err == "" && err != nil:
			t.Errorf("%s: unexpected error %v", tt.name, err)
		case tt.err != "" && (err == nil || err.Error() != tt.err):
			t.Errorf("%s: got %v, want %q", tt.name, err, tt.err)
		}
	}
}

func TestValueConvert(t *testing.T) {
	e, b := newEval()
	v, _ := e.ValueConvert(e.F32(-3.7), b.I32)
	if v.Int != -3 {
		t.Errorf("i32(-3.7f) = %d", v.Int)
	}
	v, _ = e.ValueConvert(e.F32(1e10), b.I32)
	if v.Int != math.MaxInt32 {
		t.Errorf("i32(1e10f) should saturate, got %d", v.Int)
	}
	v, _ = e.ValueConvert(e.I32(-1), b.U32)
	if v.Int != math.MaxUint32 {
		t.Errorf("u32(-1i) = %d", v.Int)
	}
	v, _ = e.ValueConvert(e.U32(7), b.Bool)
	if !v.Bool {
		t.Error("bool(7u) should be true")
	}
}

func TestF16Rounding(t *testing.T) {
	e, b := newEval()
	v, err := e.Convert(e.AbstractFloat(0.1), b.F16)
	if err != nil {
		t.Fatal(err)
	}
	if v.Float != 0.0999755859375 {
		t.Fatalf("0.1 as f16 = %v", v.Float)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	e, b := newEval()
	v, err := e.Binary(ast.BinaryAdd, b.I32, e.I32(math.MaxInt32), e.I32(1))
	if err != nil || v.Int != math.MinInt32 {
		t.Errorf("i32 add must wrap, got %v %v", v.Int, err)
	}
	_, err = e.Binary(ast.BinaryAdd, b.AbstractInt, e.AbstractInt(math.MaxInt64), e.AbstractInt(1))
	if err == nil || err.Error() != "'9223372036854775807 + 1' cannot be represented as 'abstract-int'" {
		t.Errorf("abstract add overflow: %v", err)
	}
	_, err = e.Binary(ast.BinaryDiv, b.I32, e.I32(1), e.I32(0))
	if err == nil || err.Error() != "'1 / 0' cannot be represented as 'i32'" {
		t.Errorf("division by zero: %v", err)
	}
	_, err = e.Binary(ast.BinaryMod, b.I32, e.I32(math.MinInt32), e.I32(-1))
	if err == nil {
		t.Error("i32 min % -1 must fail")
	}
}

func TestShifts(t *testing.T) {
	e, b := newEval()
	_, err := e.Binary(ast.BinaryShiftLeft, b.I32, e.I32(1), e.U32(32))
	if err == nil || err.Error() != "shift left value must be less than the bit width of the lhs, which is 32" {
		t.Errorf("got %v", err)
	}
	_, err = e.Binary(ast.BinaryShiftLeft, b.I32, e.I32(1), e.U32(31))
	if err == nil || err.Error() != "shift left operation results in sign change" {
		t.Errorf("got %v", err)
	}
	v, err := e.Binary(ast.BinaryShiftLeft, b.I32, e.I32(-1), e.U32(31))
	if err != nil || v.Int != math.MinInt32 {
		t.Errorf("-1 << 31 = %d, %v", v.Int, err)
	}
	v, _ = e.Binary(ast.BinaryShiftRight, b.I32, e.I32(-8), e.U32(1))
	if v.Int != -4 {
		t.Errorf("-8 >> 1 = %d", v.Int)
	}
	_, err = e.Binary(ast.BinaryShiftLeft, b.U32, e.U32(0x80000000), e.U32(1))
	if err == nil {
		t.Error("u32 shift losing bits must fail")
	}
}

func TestVectorAndMatrix(t *testing.T) {
	e, b := newEval()
	in := e.Types
	v2 := in.Vector(b.F32, 2)
	m2 := in.Matrix(b.F32, 2, 2)

	vec, err := e.Construct(v2, []Value{e.F32(1), e.F32(2)})
	if err != nil {
		t.Fatal(err)
	}
	// column-major: columns (1, 3) and (2, 4) give rows (1, 2) and (3, 4)
	mat, err := e.Construct(m2, []Value{e.F32(1), e.F32(3), e.F32(2), e.F32(4)})
	if err != nil {
		t.Fatal(err)
	}
	prod, err := e.Binary(ast.BinaryMul, v2, mat, vec)
	if err != nil {
		t.Fatal(err)
	}
	if prod.Elems[0].Float != 5 || prod.Elems[1].Float != 11 {
		t.Fatalf("M * v = %s", Format(in, prod))
	}

	scaled, err := e.Binary(ast.BinaryMul, v2, vec, e.F32(3))
	if err != nil || scaled.Elems[1].Float != 6 {
		t.Fatalf("v * 3 = %s (%v)", Format(in, scaled), err)
	}

	cmp, _ := e.Binary(ast.BinaryLess, in.Vector(b.Bool, 2), vec, e.Splat(v2, e.F32(1.5)))
	if !cmp.Elems[0].Bool || cmp.Elems[1].Bool {
		t.Fatalf("v < 1.5 = %s", Format(in, cmp))
	}
}

func TestConstructFlattensVectors(t *testing.T) {
	e, b := newEval()
	in := e.Types
	v2, _ := e.Construct(in.Vector(b.I32, 2), []Value{e.I32(1), e.I32(2)})
	v4, err := e.Construct(in.Vector(b.I32, 4), []Value{v2, e.I32(3), e.I32(4)})
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(in, v4); got != "vec4<i32>(1i, 2i, 3i, 4i)" {
		t.Fatalf("got %s", got)
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	e, b := newEval()
	v := e.Zero(e.Types.Vector(b.F32, 4))
	if _, err := e.Index(v, 4); err == nil || err.Error() != "index 4 out of bounds [0..3]" {
		t.Fatalf("got %v", err)
	}
	if _, err := e.Index(v, -1); err == nil {
		t.Fatal("negative index must fail")
	}
}

func TestBuiltins(t *testing.T) {
	e, b := newEval()
	in := e.Types
	tests := []struct {
		name string
		ret  types.TypeID
		args []Value
		want Value
	}{
		{"clamp", b.I32, []Value{e.I32(12), e.I32(0), e.I32(10)}, e.I32(10)},
		{"abs", b.F32, []Value{e.F32(-2)}, e.F32(2)},
		{"sign", b.I32, []Value{e.I32(-9)}, e.I32(-1)},
		{"countOneBits", b.U32, []Value{e.U32(0xff)}, e.U32(8)},
		{"firstLeadingBit", b.I32, []Value{e.I32(-1)}, e.I32(-1)},
		{"firstLeadingBit", b.U32, []Value{e.U32(0x10)}, e.U32(4)},
		{"select", b.F32, []Value{e.F32(1), e.F32(2), e.Bool(true)}, e.F32(2)},
		{"round", b.F32, []Value{e.F32(2.5)}, e.F32(2)},
	}
	for _, tt := range tests {
		got, err := e.Builtin(tt.name, tt.ret, tt.args)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%s = %s, want %s", tt.name, Format(in, got), Format(in, tt.want))
		}
	}

	v3 := in.Vector(b.F32, 3)
	a, _ := e.Construct(v3, []Value{e.F32(1), e.F32(2), e.F32(2)})
	l, _ := e.Builtin("length", b.F32, []Value{a})
	if l.Float != 3 {
		t.Errorf("length = %v", l.Float)
	}
	if _, err := e.Builtin("sqrt", b.F32, []Value{e.F32(-1)}); err == nil {
		t.Error("sqrt(-1) must fail")
	}
	if HasBuiltin("textureSample") {
		t.Error("textureSample is runtime only")
	}
}

func TestBitcast(t *testing.T) {
	e, b := newEval()
	v, err := e.Bitcast(e.F32(1), b.U32)
	if err != nil || v.Int != 0x3f800000 {
		t.Fatalf("bitcast<u32>(1f) = %x, %v", v.Int, err)
	}
}
