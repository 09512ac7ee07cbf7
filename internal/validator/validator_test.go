package validator_test

import (
	"context"
	"strings"
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/parser"
	"wgslfront/internal/sema"
	"wgslfront/internal/source"
)

func checkSource(t *testing.T, input string, ext builtin.Extensions) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.wgsl", []byte(input)))
	builder := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	parser.ParseFile(context.Background(), file, builder, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		t.Fatalf("parse failed: %v", bag.Messages())
	}
	sema.Check(context.Background(), builder, sema.Options{Reporter: reporter, Extensions: ext})
	return bag
}

func TestValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"vertex position", `
@vertex fn main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
  return vec4<f32>(f32(i), 0.0, 0.0, 1.0);
}`},
		{"fragment io struct", `
struct In {
  @location(0) color: vec4<f32>,
  @location(1) @interpolate(flat) id: u32,
}
@fragment fn main(input: In) -> @location(0) vec4<f32> {
  if (input.id == 0u) { discard; }
  return input.color;
}`},
		{"compute with resources", `
@group(0) @binding(0) var<storage, read_write> data: array<u32>;
var<workgroup> scratch: array<u32, 64>;
@compute @workgroup_size(64) fn main(@builtin(local_invocation_index) i: u32) {
  scratch[i] = data[i];
  workgroupBarrier();
  data[i] = scratch[63u - i];
}`},
		{"override workgroup size", `
override size: u32 = 8u;
@compute @workgroup_size(size, 1) fn main() {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := checkSource(t, tt.src, 0)
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %v", bag.Messages())
			}
		})
	}
}

func TestRejectedPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"vertex without position", `
@vertex fn main() -> @location(0) vec4<f32> { return vec4<f32>(); }`,
			"a vertex shader must include the 'position' builtin in its return type"},
		{"compute without workgroup size", `
@compute fn main() {}`,
			"a compute shader must include 'workgroup_size' in its attributes"},
		{"workgroup size on fragment", `
@fragment @workgroup_size(1) fn main() {}`,
			"@workgroup_size is only valid for compute stages"},
		{"missing io attribute", `
@fragment fn main(x: f32) {}`,
			"missing entry point IO attribute on parameter"},
		{"duplicate location", `
struct Out {
  @location(0) a: vec4<f32>,
  @location(0) b: vec4<f32>,
}
@fragment fn main() -> Out { return Out(); }`,
			"@location(0) appears multiple times"},
		{"integral output needs flat", `
struct Out {
  @builtin(position) pos: vec4<f32>,
  @location(0) id: u32,
}
@vertex fn main() -> Out { return Out(); }`,
			"integral user-defined vertex outputs must have a flat interpolation attribute"},
		{"binding collision", `
@group(0) @binding(0) var<uniform> a: vec4<f32>;
@group(0) @binding(0) var<uniform> b: vec4<f32>;
@fragment fn main() -> @location(0) vec4<f32> { return a + b; }`,
			"references multiple variables that use the same resource binding @group(0), @binding(0)"},
		{"workgroup memory in fragment", `
var<workgroup> w: f32;
@fragment fn main() -> @location(0) vec4<f32> { return vec4<f32>(w); }`,
			"workgroup memory cannot be used by fragment pipeline stage"},
		{"discard in compute", `
fn helper() { discard; }
@compute @workgroup_size(1) fn main() { helper(); }`,
			"discard statement cannot be used in compute pipeline stage"},
		{"resource without binding", `
var<uniform> u: vec4<f32>;`,
			"resource variables require @group and @binding attributes"},
		{"function space at module scope", `
var<function> x: i32;`,
			"module-scope"},
		{"runtime array not last", `
struct S {
  a: array<u32>,
  b: u32,
}`,
			"runtime arrays may only appear as the last member of a struct"},
		{"storage pointer parameter", `
fn f(p: ptr<storage, u32>) {}`,
			"function parameter of pointer type cannot be in 'storage' address space"},
		{"switch without default", `
fn f(x: i32) { switch x { case 1: {} } }`,
			"switch statement must have a default clause"},
		{"non-bool condition", `
fn f() { if (1) {} }`,
			"if statement condition must be bool, got abstract-int"},
		{"assign to let", `
fn f() { let x = 1; x = 2; }`,
			"cannot assign to"},
		{"return type mismatch", `
fn f() -> i32 { return 1.5; }`,
			"return statement type must match its function return type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := checkSource(t, tt.src, 0)
			if !bag.HasErrors() {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			for _, m := range bag.Messages() {
				if strings.Contains(m, tt.want) {
					return
				}
			}
			t.Fatalf("expected an error containing %q, got %v", tt.want, bag.Messages())
		})
	}
}

func TestArraysOutsideStorage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // пусто: программа корректна
	}{
		{"private runtime array", `var<private> a: array<f32>;`,
			"runtime-sized arrays can only be used in the <storage> address space"},
		{"workgroup runtime array", `var<workgroup> a: array<f32>;`,
			"runtime-sized arrays can only be used in the <storage> address space"},
		{"runtime array in struct", "struct S { n: u32, m: array<i32> }\nvar<private> v: S;",
			"runtime-sized arrays can only be used in the <storage> address space"},
		{"private count limit", `var<private> a: array<f32, 70000>;`,
			"array count (70000) must be less than 65536"},
		{"nested count limit", `var<workgroup> a: array<array<u32, 65536>, 1>;`,
			"array count (65536) must be less than 65536"},
		{"function count limit", `fn f() { var a: array<i32, 65536>; }`,
			"array count (65536) must be less than 65536"},
		{"storage runtime array", `@group(0) @binding(0) var<storage> a: array<f32>;`, ""},
		{"storage large array", `@group(0) @binding(0) var<storage> a: array<f32, 70000>;`, ""},
		{"private below limit", `var<private> a: array<f32, 65535>;`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := checkSource(t, tt.src, 0)
			var errs []diag.Diagnostic
			for _, d := range bag.Items() {
				if d.Severity == diag.SevError {
					errs = append(errs, d)
				}
			}
			if tt.want == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", bag.Messages())
				}
				return
			}
			if len(errs) == 0 || !strings.Contains(errs[0].Message, tt.want) {
				t.Fatalf("want %q, got %v", tt.want, bag.Messages())
			}
		})
	}
}

func TestRuntimeArrayMemberNote(t *testing.T) {
	bag := checkSource(t, "struct S { m: array<i32> }\nvar<private> v: S;", 0)
	for _, d := range bag.Items() {
		if strings.Contains(d.Message, "runtime-sized arrays") {
			if len(d.Notes) != 1 || d.Notes[0].Msg != "while analyzing structure member S.m" {
				t.Fatalf("unexpected notes: %+v", d.Notes)
			}
			return
		}
	}
	t.Fatalf("no runtime-sized array error: %v", bag.Messages())
}

func TestFullPointerParametersExtension(t *testing.T) {
	const src = `
@group(0) @binding(0) var<storage, read_write> buf: u32;
fn f(p: ptr<storage, u32, read_write>) { *p = 1u; }
@compute @workgroup_size(1) fn main() { f(&buf); }`

	if bag := checkSource(t, src, 0); !bag.HasErrors() {
		t.Fatal("storage pointer parameters need the extension")
	}
	ext := builtin.Extensions(0).With(builtin.ExtFullPtrParameters)
	if bag := checkSource(t, src, ext); bag.HasErrors() {
		t.Fatalf("unexpected errors with the extension: %v", bag.Messages())
	}
}

func TestPushConstantLimit(t *testing.T) {
	const src = `
enable chromium_experimental_push_constant;
var<push_constant> a: u32;
var<push_constant> b: u32;
@compute @workgroup_size(1) fn main() { _ = a + b; }`
	bag := checkSource(t, src, 0)
	found := false
	for _, m := range bag.Messages() {
		if strings.Contains(m, "uses two different 'push_constant' variables") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected push_constant error, got %v", bag.Messages())
	}
}
