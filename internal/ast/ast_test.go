package ast

import (
	"testing"

	"wgslfront/internal/source"
)

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("Allocate = %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range must be nil")
	}
}

func TestNodeIDsAreGlobal(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewIdent(source.Span{}, b.Intern("x"), nil)
	ret := b.Stmts.NewReturn(source.Span{}, x)
	at := b.Attrs.New(AttrCompute, source.Span{}, Ident{Name: b.Intern("compute")}, nil)
	nodes := []NodeID{b.Exprs.Get(x).Node, b.Stmts.Get(ret).Node, b.Attrs.Get(at).Node}
	seen := map[NodeID]bool{}
	for _, n := range nodes {
		if !n.IsValid() || seen[n] {
			t.Fatalf("duplicate or invalid node id %d", n)
		}
		seen[n] = true
	}
	if b.NodeCount() != 3 {
		t.Errorf("NodeCount = %d", b.NodeCount())
	}
}

func TestWalkExprPreOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	sp := source.Span{}
	// (a + f32(b)) * c
	a := b.Exprs.NewIdent(sp, b.Intern("a"), nil)
	bb := b.Exprs.NewIdent(sp, b.Intern("b"), nil)
	f := b.Exprs.NewIdent(sp, b.Intern("f32"), nil)
	call := b.Exprs.NewCall(sp, f, []ExprID{bb})
	add := b.Exprs.NewBinary(sp, BinaryAdd, a, call)
	c := b.Exprs.NewIdent(sp, b.Intern("c"), nil)
	mul := b.Exprs.NewBinary(sp, BinaryMul, add, c)

	var order []ExprID
	b.WalkExpr(mul, func(id ExprID, _ *Expr) bool {
		order = append(order, id)
		return true
	})
	want := []ExprID{mul, add, a, call, f, bb, c}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	// пропуск поддерева
	count := 0
	b.WalkExpr(mul, func(id ExprID, _ *Expr) bool {
		count++
		return id != add
	})
	if count != 3 {
		t.Errorf("skipped walk visited %d nodes", count)
	}
}

func TestAttrCatalog(t *testing.T) {
	spec, ok := LookupAttr("workgroup_size")
	if !ok || spec.MinArgs != 1 || spec.MaxArgs != 3 || !spec.Allows(AttrTargetFn) {
		t.Fatalf("workgroup_size spec = %+v", spec)
	}
	if spec, _ := LookupAttr("location"); spec.Allows(AttrTargetFn) {
		t.Errorf("@location must not be allowed on functions")
	}
	if _, ok := LookupAttr("Location"); ok {
		t.Errorf("lookup must be case-sensitive")
	}
	specs := AttrSpecs()
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name >= specs[i].Name {
			t.Fatalf("specs not sorted: %s >= %s", specs[i-1].Name, specs[i].Name)
		}
	}
	if s, ok := AttrSpecByKind(AttrInvariant); !ok || s.Name != "invariant" {
		t.Errorf("reverse lookup failed")
	}
}
