package layout_test

import (
	"errors"
	"testing"

	"wgslfront/internal/layout"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

func TestScalarAndVectorLayout(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	le := layout.New(in)
	tests := []struct {
		name        string
		id          types.TypeID
		size, align uint32
	}{
		{"f32", b.F32, 4, 4},
		{"f16", b.F16, 2, 2},
		{"vec2<f32>", in.Vector(b.F32, 2), 8, 8},
		{"vec3<f32>", in.Vector(b.F32, 3), 12, 16},
		{"vec4<f16>", in.Vector(b.F16, 4), 8, 8},
		{"vec3<f16>", in.Vector(b.F16, 3), 6, 8},
		{"mat2x3<f32>", in.Matrix(b.F32, 2, 3), 32, 16},
		{"mat4x2<f32>", in.Matrix(b.F32, 4, 2), 32, 8},
		{"array<vec3<f32>, 4>", in.Array(in.Vector(b.F32, 3), 4, 0), 64, 16},
		{"@stride(32) array<f32, 2>", in.Array(b.F32, 2, 32), 64, 4},
	}
	for _, tt := range tests {
		l, err := le.LayoutOf(tt.id)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if l.Size != tt.size || l.Align != tt.align {
			t.Errorf("%s: size/align = %d/%d, want %d/%d", tt.name, l.Size, l.Align, tt.size, tt.align)
		}
	}
}

func TestStructLayoutHonorsAttributes(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	le := layout.New(in)
	s := in.RegisterStruct("S", source.Span{})

	res, err := le.StructLayout(s, []layout.MemberSpec{
		{Type: b.F32},
		{Type: in.Vector(b.F32, 3)},
		{Type: b.F32, Align: 32},
		{Type: b.U32, Size: 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 16, 32, 36}
	for i, off := range res.Offsets {
		if off != want[i] {
			t.Fatalf("offsets = %v, want %v", res.Offsets, want)
		}
	}
	if res.Align != 32 || res.SizeNoPadding != 48 || res.Size != 64 {
		t.Fatalf("align/size = %d/%d (%d)", res.Align, res.Size, res.SizeNoPadding)
	}
}

func TestStructLayoutRejectsSmallSize(t *testing.T) {
	in := types.NewInterner()
	le := layout.New(in)
	s := in.RegisterStruct("S", source.Span{})
	_, err := le.StructLayout(s, []layout.MemberSpec{{Type: in.Vector(in.Builtins().F32, 4), Size: 8}})
	if err == nil || err.Kind != layout.LayoutErrBadAttribute {
		t.Fatalf("expected bad attribute error, got %v", err)
	}
}

func TestArrayOverflow(t *testing.T) {
	in := types.NewInterner()
	le := layout.New(in)
	big := in.Array(in.Vector(in.Builtins().F32, 4), 1<<30, 0)
	_, err := le.LayoutOf(big)
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != layout.LayoutErrOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestNoLayoutForHandles(t *testing.T) {
	in := types.NewInterner()
	le := layout.New(in)
	if _, err := le.LayoutOf(in.Builtins().Sampler); err == nil {
		t.Fatal("samplers have no layout")
	}
}

func TestUniformAlignment(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	le := layout.New(in)
	arr := in.Array(b.F32, 4, 0)
	if a, _ := le.RequiredAlign(arr, true); a != 16 {
		t.Fatalf("uniform array align = %d", a)
	}
	if a, _ := le.RequiredAlign(arr, false); a != 4 {
		t.Fatalf("storage array align = %d", a)
	}
}
