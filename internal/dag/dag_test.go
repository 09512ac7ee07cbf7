package dag

import (
	"strings"
	"testing"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

func idsToNames(idx DeclIndex, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[id]
	}
	return out
}

func uses(names ...string) []UseMeta {
	out := make([]UseMeta, len(names))
	for i, n := range names {
		out[i] = UseMeta{Name: n}
	}
	return out
}

func TestForwardReferencesAreSorted(t *testing.T) {
	metas := []DeclMeta{
		{Name: "main", Kind: "function", Uses: uses("helper", "f32")},
		{Name: "helper", Kind: "function", Uses: uses("K")},
		{Name: "K", Kind: "const"},
		{Name: "other", Kind: "const"},
	}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas, nil)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatal("expected acyclic graph")
	}
	got := strings.Join(idsToNames(idx, topo.Order), " ")
	if got != "K other helper main" {
		t.Fatalf("order = %q", got)
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("batches = %v", topo.Batches)
	}
}

func TestCycleIsReported(t *testing.T) {
	metas := []DeclMeta{
		{Name: "a", Kind: "const", Span: source.Span{File: 1, Start: 0, End: 1}, Uses: []UseMeta{{Name: "b", Span: source.Span{File: 1, Start: 10, End: 11}}}},
		{Name: "b", Kind: "const", Span: source.Span{File: 1, Start: 20, End: 21}, Uses: []UseMeta{{Name: "a", Span: source.Span{File: 1, Start: 30, End: 31}}}},
	}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas, nil)
	if !ToposortKahn(g).Cyclic {
		t.Fatal("expected cycle")
	}
	cycle := g.FindCycle()
	if got := strings.Join(idsToNames(idx, cycle), " "); got != "a b a" {
		t.Fatalf("cycle = %q", got)
	}

	bag := diag.NewBag(10)
	ReportCycle(idx, metas, g, cycle, &diag.BagReporter{Bag: bag})
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ResCyclicDependency || d.Message != "cyclic dependency found: 'a' -> 'b' -> 'a'" {
		t.Fatalf("got %v %q", d.Code, d.Message)
	}
	if len(d.Notes) != 2 {
		t.Fatalf("notes = %d", len(d.Notes))
	}
}

func TestSelfRecursionIsCycle(t *testing.T) {
	metas := []DeclMeta{{Name: "f", Kind: "function", Uses: uses("f")}}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas, nil)
	if got := g.FindCycle(); len(got) != 2 {
		t.Fatalf("cycle = %v", got)
	}
}

func TestRedeclaration(t *testing.T) {
	metas := []DeclMeta{
		{Name: "x", Kind: "var"},
		{Name: "x", Kind: "const"},
		{Kind: "const_assert", Uses: uses("x")},
	}
	bag := diag.NewBag(10)
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas, &diag.BagReporter{Bag: bag})
	if bag.Len() != 1 || bag.Items()[0].Message != "redeclaration of 'x'" {
		t.Fatalf("diagnostics = %v", bag.Messages())
	}
	if g.Present[1] {
		t.Fatal("second declaration must not participate")
	}
	topo := ToposortKahn(g)
	if len(topo.Order) != 2 || topo.Order[1] != 2 {
		t.Fatalf("order = %v", topo.Order)
	}
}
