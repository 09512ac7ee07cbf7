package types

import (
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Bool == NoTypeID || b.F16 == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if got := in.Name(b.AbstractInt); got != "abstract-int" {
		t.Fatalf("name = %q", got)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	f32 := in.Builtins().F32
	if in.Vector(f32, 3) != in.Vector(f32, 3) {
		t.Fatal("vectors should be deduplicated")
	}
	if in.Array(f32, 4, 0) == in.Array(f32, 4, 16) {
		t.Fatal("explicit stride is part of array identity")
	}
}

func TestStructsAreNominal(t *testing.T) {
	in := NewInterner()
	a := in.RegisterStruct("A", ast.Ident{}.Span)
	b := in.RegisterStruct("A", ast.Ident{}.Span)
	if a == b {
		t.Fatal("two struct declarations must not share an id")
	}
}

func TestAccessModeAffectsIdentity(t *testing.T) {
	in := NewInterner()
	u := in.Builtins().U32
	r := in.Pointer(builtin.AddressSpaceStorage, u, builtin.AccessRead)
	rw := in.Pointer(builtin.AddressSpaceStorage, u, builtin.AccessReadWrite)
	if r == rw {
		t.Fatal("access mode must be part of pointer identity")
	}
	if got := in.Name(rw); got != "ptr<storage, u32, read_write>" {
		t.Fatalf("name = %q", got)
	}
	if in.ReferenceToPointer(in.PointerToReference(r)) != r {
		t.Fatal("ptr -> ref -> ptr must round-trip")
	}
}

func TestTypeNames(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := []struct {
		id   TypeID
		want string
	}{
		{in.Vector(b.F32, 4), "vec4<f32>"},
		{in.Matrix(b.F16, 2, 3), "mat2x3<f16>"},
		{in.Array(b.I32, 8, 0), "array<i32, 8>"},
		{in.Intern(MakeRuntimeArray(b.U32, 0)), "array<u32>"},
		{in.Intern(MakeAtomic(b.U32)), "atomic<u32>"},
		{in.Intern(MakeSampledTexture(TextureSampled, Dim2DArray, b.F32)), "texture_2d_array<f32>"},
		{in.Intern(MakeDepthTexture(TextureDepth, DimCube)), "texture_depth_cube"},
		{in.Intern(MakeStorageTexture(Dim2D, builtin.ParseTexelFormat("rgba8unorm"), builtin.AccessWrite)), "texture_storage_2d<rgba8unorm, write>"},
	}
	for _, tt := range tests {
		if got := in.Name(tt.id); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestConversionRank(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := []struct {
		from, to TypeID
		want     int
	}{
		{b.AbstractFloat, b.F32, 1},
		{b.AbstractInt, b.I32, 3},
		{b.AbstractInt, b.AbstractFloat, 5},
		{b.AbstractInt, b.F16, 7},
		{b.I32, b.U32, NoConversion},
		{b.F32, b.AbstractFloat, NoConversion},
		{in.Vector(b.AbstractInt, 2), in.Vector(b.U32, 2), 4},
		{in.Vector(b.AbstractInt, 2), in.Vector(b.U32, 3), NoConversion},
	}
	for _, tt := range tests {
		if got := in.ConversionRank(tt.from, tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %d, want %d", in.Name(tt.from), in.Name(tt.to), got, tt.want)
		}
	}
}

func TestCommonType(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if got, _ := in.CommonType(b.AbstractInt, b.AbstractFloat); got != b.AbstractFloat {
		t.Errorf("ai, af -> %s", in.Name(got))
	}
	if got, _ := in.CommonType(b.AbstractInt, b.U32, b.AbstractInt); got != b.U32 {
		t.Errorf("ai, u32 -> %s", in.Name(got))
	}
	if _, ok := in.CommonType(b.I32, b.U32); ok {
		t.Error("i32 and u32 have no common type")
	}
}

func TestConcreteIsIdempotent(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	v := in.Vector(b.AbstractFloat, 3)
	c := in.Concrete(v)
	if c != in.Vector(b.F32, 3) {
		t.Fatalf("got %s", in.Name(c))
	}
	if in.Concrete(c) != c {
		t.Fatal("materializing a concrete type must be a no-op")
	}
}

func TestBinaryResultType(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	v3 := in.Vector(b.F32, 3)
	m3 := in.Matrix(b.F32, 3, 3)
	m24 := in.Matrix(b.F32, 2, 4)
	tests := []struct {
		op       ast.BinaryOp
		lhs, rhs TypeID
		want     TypeID
	}{
		{ast.BinaryAdd, b.I32, b.I32, b.I32},
		{ast.BinaryMul, v3, b.F32, v3},
		{ast.BinaryMul, b.F32, v3, v3},
		{ast.BinaryLess, v3, v3, in.Vector(b.Bool, 3)},
		{ast.BinaryMul, m3, v3, v3},
		{ast.BinaryMul, m24, in.Vector(b.F32, 2), in.Vector(b.F32, 4)},
		{ast.BinaryMul, in.Vector(b.F32, 4), m24, in.Vector(b.F32, 2)},
		{ast.BinaryAnd, b.Bool, b.Bool, b.Bool},
		{ast.BinaryXor, b.Bool, b.Bool, NoTypeID},
		{ast.BinaryLogicalAnd, in.Vector(b.Bool, 2), in.Vector(b.Bool, 2), NoTypeID},
		{ast.BinaryAdd, in.Vector(b.I32, 2), in.Vector(b.I32, 3), NoTypeID},
		{ast.BinaryDiv, m3, m3, NoTypeID},
	}
	for _, tt := range tests {
		if got := in.BinaryResultType(tt.op, tt.lhs, tt.rhs); got != tt.want {
			t.Errorf("%s %s %s = %s, want %s", in.Name(tt.lhs), tt.op, in.Name(tt.rhs), in.Name(got), in.Name(tt.want))
		}
	}
}

func TestPredicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := in.RegisterStruct("S", ast.Ident{}.Span)
	in.SetStructInfo(s, StructInfo{Name: "S", Members: []StructMember{{Name: "a", Type: in.Intern(MakeAtomic(b.U32))}}, NestDepth: 2})

	if in.IsConstructible(s) {
		t.Error("struct with atomic is not constructible")
	}
	if !in.IsHostShareable(s) || in.IsHostShareable(b.Bool) {
		t.Error("host-shareable mismatch")
	}
	if !in.ContainsAtomic(in.Array(s, 2, 0)) {
		t.Error("array of S contains an atomic")
	}
	if got := in.NestDepth(in.Array(s, 2, 0)); got != 3 {
		t.Errorf("nest depth = %d", got)
	}
	if in.IsConstructible(in.Intern(MakeRuntimeArray(b.F32, 0))) {
		t.Error("runtime arrays are not constructible")
	}
}
