package sema

import (
	"context"
	"strings"
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/parser"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
	"wgslfront/internal/testkit"
)

type checked struct {
	builder  *ast.Builder
	parseBag *diag.Bag
	semaBag  *diag.Bag
	result   Result
}

func runSemaOnSnippet(t *testing.T, input string) checked {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wgsl", []byte(input))
	file := fs.Get(fileID)

	builder := ast.NewBuilder(ast.Hints{}, nil)
	parseBag := diag.NewBag(100)
	parser.ParseFile(context.Background(), file, builder, parser.Options{
		MaxErrors: 100,
		Reporter:  diag.BagReporter{Bag: parseBag},
	})

	semaBag := diag.NewBag(100)
	res := Check(context.Background(), builder, Options{Reporter: diag.BagReporter{Bag: semaBag}})
	return checked{builder: builder, parseBag: parseBag, semaBag: semaBag, result: res}
}

func (c checked) requireClean(t *testing.T) {
	t.Helper()
	if c.parseBag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", c.parseBag.Messages())
	}
	if c.semaBag.Len() != 0 {
		t.Fatalf("unexpected semantic diagnostics: %v", c.semaBag.Messages())
	}
}

func (c checked) requireError(t *testing.T, want string) {
	t.Helper()
	for _, d := range c.semaBag.Items() {
		if d.Severity == diag.SevError && strings.Contains(d.Message, want) {
			return
		}
	}
	t.Fatalf("expected error containing %q, got %v", want, c.semaBag.Messages())
}

func (c checked) function(t *testing.T, name string) *sem.Function {
	t.Helper()
	f, ok := c.result.Module.Function(name)
	if !ok {
		t.Fatalf("function %q was not resolved", name)
	}
	return f
}

func returnValue(t *testing.T, b *ast.Builder, fn *sem.Function) ast.ExprID {
	t.Helper()
	data, _ := b.Decls.Func(fn.Decl)
	block, _ := b.Stmts.Block(data.Body)
	for _, id := range block.Stmts {
		if ret, ok := b.Stmts.Return(id); ok {
			return ret.Value
		}
	}
	t.Fatalf("no return statement in %s", fn.Name)
	return ast.NoExprID
}

func TestConstFlowsIntoTypedReturn(t *testing.T) {
	c := runSemaOnSnippet(t, `
const PI = 3.0;
fn get() -> f32 { return PI; }
`)
	c.requireClean(t)

	m := c.result.Module
	pi, ok := m.Global("PI")
	if !ok {
		t.Fatal("PI not resolved")
	}
	if pi.Stage != sem.StageConstant || pi.Value == nil || pi.Value.Float != 3.0 {
		t.Fatalf("unexpected const value: stage=%s value=%v", pi.Stage, pi.Value)
	}
	get := c.function(t, "get")
	ret := returnValue(t, c.builder, get)
	if got := m.TypeOf(ret); got != m.Types.Builtins().F32 {
		t.Fatalf("use of PI should materialize to f32, got %s", m.Types.Name(got))
	}
	if v, ok := m.ValueOf(ret); !ok || v.Float != 3.0 {
		t.Fatalf("materialized value lost: %v %v", v, ok)
	}
	if get.Behaviors != sem.Of(sem.BehaviorNext) {
		t.Fatalf("{Return} should reduce to {Next}, got %v", get.Behaviors)
	}
	if err := testkit.CheckResolved(c.builder, m); err != nil {
		t.Fatal(err)
	}
}

func TestMissingReturn(t *testing.T) {
	for _, src := range []string{
		"const PI = 3.0;\nfn get() -> f32 { }\n",
		"fn get() -> f32 {\n  if (true) { return 1.0; }\n}\n",
	} {
		c := runSemaOnSnippet(t, src)
		if c.parseBag.Len() != 0 {
			t.Fatalf("unexpected parse diagnostics: %v", c.parseBag.Messages())
		}
		c.requireError(t, "missing return at end of function")
	}
}

func TestLetMaterializesAbstractValues(t *testing.T) {
	c := runSemaOnSnippet(t, `
fn f() {
  let a = 1;
  let b = 2.0;
  var v = vec3(1, 2, 3);
}
`)
	c.requireClean(t)
	in := c.result.Module.Types
	f := c.function(t, "f")
	if len(f.Locals) != 3 {
		t.Fatalf("want 3 locals, got %d", len(f.Locals))
	}
	if f.Locals[0].Type != in.Builtins().I32 {
		t.Errorf("a: got %s, want i32", in.Name(f.Locals[0].Type))
	}
	if f.Locals[1].Type != in.Builtins().F32 {
		t.Errorf("b: got %s, want f32", in.Name(f.Locals[1].Type))
	}
	if got := in.Name(f.Locals[2].Type); got != "vec3<i32>" {
		t.Errorf("v: got %s, want vec3<i32>", got)
	}
}

func TestAliasedPointerArguments(t *testing.T) {
	const callee = `
fn store2(p: ptr<function, i32>, q: ptr<function, i32>) {
  *p = 1;
  *q = 2;
}
`
	t.Run("distinct", func(t *testing.T) {
		c := runSemaOnSnippet(t, callee+`
fn caller() {
  var a: i32;
  var b: i32;
  store2(&a, &b);
}
`)
		c.requireClean(t)
	})
	t.Run("same root", func(t *testing.T) {
		c := runSemaOnSnippet(t, callee+`
fn caller() {
  var a: i32;
  store2(&a, &a);
}
`)
		c.requireError(t, "invalid aliased pointer argument")
	})
}

func TestOverrideIDAllocation(t *testing.T) {
	c := runSemaOnSnippet(t, `
@id(1) override a: i32;
override b: i32;
override c: f32;
@id(0) override d: u32;
`)
	c.requireClean(t)
	m := c.result.Module
	want := map[string]uint16{"a": 1, "b": 2, "c": 3, "d": 0}
	for name, id := range want {
		v, ok := m.Global(name)
		if !ok {
			t.Fatalf("%s not resolved", name)
		}
		if !v.HasOverrideID || v.OverrideID != id {
			t.Errorf("%s: got id %d, want %d", name, v.OverrideID, id)
		}
	}
}

func TestOverrideIDDeclarationOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]uint16
	}{
		{"forward use", "override b: i32 = c;\noverride c: i32 = 1;\noverride d: i32;\n", map[string]uint16{"b": 0, "c": 1, "d": 2}},
		{"reversed", "override d: i32;\noverride c: i32 = 1;\noverride b: i32 = c;\n", map[string]uint16{"d": 0, "c": 1, "b": 2}},
		{"explicit first", "override b: i32 = c;\noverride c: i32 = 1;\n@id(0) override d: i32;\n", map[string]uint16{"b": 1, "c": 2, "d": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := runSemaOnSnippet(t, tt.src)
			c.requireClean(t)
			m := c.result.Module
			for name, id := range tt.want {
				v, ok := m.Global(name)
				if !ok {
					t.Fatalf("%s not resolved", name)
				}
				if !v.HasOverrideID || v.OverrideID != id {
					t.Errorf("%s: got id %d, want %d", name, v.OverrideID, id)
				}
			}
			var order []string
			for _, v := range m.Overrides() {
				order = append(order, v.Name)
			}
			if got := strings.Join(order, ","); got != declOrder(tt.src) {
				t.Errorf("Overrides() order = %s, want %s", got, declOrder(tt.src))
			}
		})
	}
}

// declOrder returns the override names of src in source order.
func declOrder(src string) string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		_, rest, ok := strings.Cut(line, "override ")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, ":")
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func TestDuplicateOverrideID(t *testing.T) {
	c := runSemaOnSnippet(t, `
@id(7) override a: i32;
@id(7) override b: i32;
`)
	if !c.semaBag.HasErrors() {
		t.Fatal("expected duplicate @id to be rejected")
	}
}

func TestParseErrorsDoNotStopResolution(t *testing.T) {
	c := runSemaOnSnippet(t, `
const a = ;
const b: i32 = 1u;
`)
	if !c.parseBag.HasErrors() {
		t.Fatal("expected a parse error")
	}
	c.requireError(t, "cannot initialize const of type 'i32' with value of type 'u32'")
}

func TestCyclicDependency(t *testing.T) {
	c := runSemaOnSnippet(t, `
const a = b;
const b = a;
`)
	c.requireError(t, "cyclic dependency found")
}

func TestForwardReference(t *testing.T) {
	c := runSemaOnSnippet(t, `
fn f() -> i32 { return N + g(); }
fn g() -> i32 { return 2; }
const N = 1;
`)
	c.requireClean(t)
	m := c.result.Module
	order := make([]string, 0, len(m.DeclOrder))
	for _, id := range m.DeclOrder {
		order = append(order, c.builder.Name(c.builder.Decls.Get(id).Name.Name))
	}
	if got := strings.Join(order, " "); got != "g N f" && got != "N g f" {
		t.Fatalf("resolution order %q does not put dependencies first", got)
	}
}

func TestRedeclaration(t *testing.T) {
	c := runSemaOnSnippet(t, `
const x = 1;
const x = 2;
`)
	c.requireError(t, "redeclaration of 'x'")
}

func TestUnreachableCode(t *testing.T) {
	t.Run("warns", func(t *testing.T) {
		c := runSemaOnSnippet(t, `
fn f() {
  return;
  let x = 1;
}
`)
		if c.semaBag.HasErrors() {
			t.Fatalf("unexpected errors: %v", c.semaBag.Messages())
		}
		items := c.semaBag.Items()
		if len(items) != 1 || items[0].Severity != diag.SevWarning || items[0].Message != "code is unreachable" {
			t.Fatalf("want one unreachable warning, got %v", c.semaBag.Messages())
		}
	})
	t.Run("filtered", func(t *testing.T) {
		c := runSemaOnSnippet(t, `
@diagnostic(off, chromium.unreachable_code)
fn f() {
  return;
  let x = 1;
}
`)
		c.requireClean(t)
	})
}

func TestLoopBehaviors(t *testing.T) {
	t.Run("return exits", func(t *testing.T) {
		c := runSemaOnSnippet(t, `
fn f() -> i32 {
  loop { return 1; }
}
`)
		c.requireClean(t)
		f := c.function(t, "f")
		if f.Behaviors.Has(sem.BehaviorReturn) || !f.Behaviors.Has(sem.BehaviorNext) {
			t.Fatalf("function behaviors = %s", f.Behaviors)
		}
	})
	t.Run("no exit", func(t *testing.T) {
		c := runSemaOnSnippet(t, `fn f() { loop { } }`)
		c.requireError(t, "loop does not exit")
	})
	t.Run("break-if", func(t *testing.T) {
		c := runSemaOnSnippet(t, `
fn f() {
  var i = 0;
  loop {
    i++;
    continuing { break if i > 3; }
  }
}
`)
		c.requireClean(t)
	})
}

func TestConditionalLoopsAlwaysExit(t *testing.T) {
	clean := []struct {
		name string
		src  string
	}{
		{"while true", `fn f() { while true { } }`},
		{"for with true condition", `fn f() { for (; true; ) { } }`},
		{"while with condition", `fn f(n: i32) { var i = 0; while i < n { i++; } }`},
	}
	for _, tt := range clean {
		t.Run(tt.name, func(t *testing.T) {
			runSemaOnSnippet(t, tt.src).requireClean(t)
		})
	}

	errs := []struct {
		name string
		src  string
		want string
	}{
		{"for without condition", `fn f() { for (;;) { } }`, "for-loop does not exit"},
		{"while true still falls through", `fn f() -> i32 { while true { return 1; } }`, "missing return at end of function"},
		{"for true still falls through", `fn f() -> i32 { for (; true; ) { return 1; } }`, "missing return at end of function"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			runSemaOnSnippet(t, tt.src).requireError(t, tt.want)
		})
	}
}

func TestBitcast(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // пусто: без ошибок
	}{
		{"u32 to f32", `fn f(x: u32) -> f32 { return bitcast<f32>(x); }`, ""},
		{"f32 to i32", `fn f(x: f32) -> i32 { return bitcast<i32>(x); }`, ""},
		{"identity", `fn f(x: i32) -> i32 { return bitcast<i32>(x); }`, ""},
		{"vec2 u32 to f32", `fn f(x: vec2<u32>) -> vec2<f32> { return bitcast<vec2<f32>>(x); }`, ""},
		{"const folded", `const k = bitcast<u32>(1.0f); const_assert k == 1065353216u;`, ""},
		{"width mismatch", `fn f(x: vec2<u32>) -> vec3<f32> { return bitcast<vec3<f32>>(x); }`, "cannot bitcast from 'vec2<u32>' to 'vec3<f32>'"},
		{"scalar to vector", `fn f(x: u32) -> vec2<f32> { return bitcast<vec2<f32>>(x); }`, "cannot bitcast from 'u32' to 'vec2<f32>'"},
		{"bool", `fn f(x: bool) -> u32 { return bitcast<u32>(x); }`, "cannot bitcast from 'bool' to 'u32'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := runSemaOnSnippet(t, tt.src)
			if tt.want == "" {
				c.requireClean(t)
				return
			}
			c.requireError(t, tt.want)
		})
	}
}

func TestControlFlowPlacement(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"break outside loop", `fn f() { break; }`, "break statement must be in a loop or switch case"},
		{"continue outside loop", `fn f() { continue; }`, "continue statement must be in a loop"},
		{"return in continuing", `fn f() { loop { continuing { return; } } }`, "continuing blocks must not contain a return statement"},
		{"break in continuing", `fn f() { loop { continuing { break; } } }`, "`break` must not be used to exit from a continuing block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSemaOnSnippet(t, tt.src).requireError(t, tt.want)
		})
	}
}

func TestSwitchDuplicateCase(t *testing.T) {
	c := runSemaOnSnippet(t, `
fn f(x: i32) {
  switch x {
    case 1, 1: {}
    default: {}
  }
}
`)
	c.requireError(t, "duplicate switch case '1i'")
}

func TestMustUseResultIgnored(t *testing.T) {
	c := runSemaOnSnippet(t, `
@must_use fn g() -> i32 { return 1; }
fn f() { g(); }
`)
	c.requireError(t, "ignoring return value of function 'g' annotated with @must_use")
}

func TestPhonyAssignment(t *testing.T) {
	c := runSemaOnSnippet(t, `
@must_use fn g() -> i32 { return 1; }
fn f() { _ = g(); }
`)
	c.requireClean(t)
	if err := testkit.CheckResolved(c.builder, c.result.Module); err != nil {
		t.Fatal(err)
	}
}
