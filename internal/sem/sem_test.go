package sem

import (
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

func TestBehaviorsString(t *testing.T) {
	cases := []struct {
		in   Behaviors
		want string
	}{
		{0, "{}"},
		{Next, "{Next}"},
		{Of(BehaviorReturn, BehaviorNext), "{Next, Return}"},
		{Of(BehaviorBreak, BehaviorContinue), "{Break, Continue}"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%08b: got %q, want %q", uint8(tc.in), got, tc.want)
		}
	}
	b := Of(BehaviorReturn).Add(BehaviorNext).Remove(BehaviorReturn)
	if b != Next {
		t.Fatalf("expected {Next}, got %s", b)
	}
}

func TestLatestStage(t *testing.T) {
	if got := Latest(); got != StageConstant {
		t.Fatalf("empty: got %s", got)
	}
	if got := Latest(StageConstant, StageRuntime, StageOverride); got != StageRuntime {
		t.Fatalf("got %s", got)
	}
	if got := Latest(StageNotEvaluated, StageConstant); got != StageConstant {
		t.Fatalf("got %s", got)
	}
}

func TestCallPropagatesReachability(t *testing.T) {
	g1 := &Variable{Name: "g1"}
	g2 := &Variable{Name: "g2"}
	tex := &Variable{Name: "t"}
	smp := &Variable{Name: "s"}
	g1.TransitivelyReferenced = []*Variable{g2}

	leaf := NewFunction(1, "leaf", source.Span{})
	leaf.AddDirectGlobal(g1)
	leaf.AddTextureSampler(TextureSamplerPair{Texture: tex, Sampler: smp})

	mid := NewFunction(2, "mid", source.Span{})
	mid.AddCall(leaf, &Expr{})
	main := NewFunction(3, "main", source.Span{})
	main.AddCall(mid, &Expr{})
	main.AddCall(mid, &Expr{})

	if !main.Calls(leaf) || !main.Calls(mid) {
		t.Fatalf("main must reach leaf and mid")
	}
	if len(main.DirectCalls) != 1 || len(main.CallSites) != 2 {
		t.Fatalf("direct calls %d, sites %d", len(main.DirectCalls), len(main.CallSites))
	}
	if !main.References(g1) || !main.References(g2) {
		t.Fatalf("globals not propagated")
	}
	if len(main.DirectGlobals) != 0 {
		t.Fatalf("main names no globals directly")
	}
	if len(main.TextureSamplers) != 1 {
		t.Fatalf("pairs: %v", main.TextureSamplers)
	}
}

func TestModuleQueries(t *testing.T) {
	in := types.NewInterner()
	m := NewModule(in, builtin.Extensions(0))
	v := &Variable{Decl: 7, Name: "buf", Binding: &BindingPoint{Group: 1, Binding: 2}}
	m.AddGlobal(v)
	f := NewFunction(9, "main", source.Span{})
	f.Stage = StageCompute
	f.AddDirectGlobal(v)
	m.AddFunction(f)
	m.AddExpr(&Expr{Node: 3, Kind: ExprValue, Type: in.Builtins().F32, Stage: StageRuntime})

	if got, ok := m.Global("buf"); !ok || got != v {
		t.Fatalf("Global lookup failed")
	}
	if bp, ok := m.BindingOf(v); !ok || bp != (BindingPoint{Group: 1, Binding: 2}) {
		t.Fatalf("BindingOf = %+v", bp)
	}
	if len(m.EntryPoints) != 1 {
		t.Fatalf("entry points: %d", len(m.EntryPoints))
	}
	if got := m.TypeOf(3); got != in.Builtins().F32 {
		t.Fatalf("TypeOf = %d", got)
	}
	if _, ok := m.ValueOf(3); ok {
		t.Fatalf("runtime expression must have no value")
	}
	if refs := m.TransitivelyReferencedGlobals(f); len(refs) != 1 || refs[0] != v {
		t.Fatalf("refs = %v", refs)
	}
}

func TestMarkVisitedTwicePanics(t *testing.T) {
	m := NewModule(types.NewInterner(), 0)
	m.MarkVisited(ast.NodeID(5))
	defer func() {
		r := recover()
		if _, ok := diag.AsICE(r); !ok {
			t.Fatalf("expected ICE, got %v", r)
		}
	}()
	m.MarkVisited(ast.NodeID(5))
}
