package dag

import (
	"fmt"
	"slices"
	"strings"

	"wgslfront/internal/diag"
)

// Graph: Edges[from] = []to, from uses to. Self-edges are kept, a function
// calling itself is a cycle.
type Graph struct {
	Edges   [][]NodeID
	Indeg   []int  // число ещё не отсортированных зависимостей
	Present []bool // false для повторных объявлений
	// UseSpan[from][i] is where Edges[from][i] is first referenced.
	UseSpan [][]UseMeta
}

func BuildGraph(idx DeclIndex, metas []DeclMeta, reporter diag.Reporter) Graph {
	n := len(metas)
	g := Graph{
		Edges:   make([][]NodeID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
		UseSpan: make([][]UseMeta, n),
	}

	for i, meta := range metas {
		if meta.Name == "" {
			g.Present[i] = true
			continue
		}
		first := idx.NameToID[meta.Name]
		if int(first) != i {
			if reporter != nil {
				diag.ReportError(reporter, diag.ResRedeclaration, meta.Span,
					fmt.Sprintf("redeclaration of '%s'", meta.Name)).
					WithNote(metas[first].Span, fmt.Sprintf("'%s' previously declared here", meta.Name)).
					Emit()
			}
			continue
		}
		g.Present[i] = true
	}

	for from, meta := range metas {
		if !g.Present[from] || len(meta.Uses) == 0 {
			continue
		}
		seen := make(map[NodeID]struct{}, len(meta.Uses))
		for _, use := range meta.Uses {
			to, ok := idx.NameToID[use.Name]
			if !ok {
				// builtin or unresolved, the resolver decides
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			g.UseSpan[from] = append(g.UseSpan[from], use)
			g.Indeg[from]++
		}
	}
	return g
}

// FindCycle returns the first cycle reachable when walking declarations in
// order, as a path whose last element repeats the first. Nil when acyclic.
func (g Graph) FindCycle() []NodeID {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(g.Edges))
	var stack []NodeID
	var found []NodeID

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, to := range g.Edges[id] {
			switch color[to] {
			case grey:
				start := slices.Index(stack, to)
				found = append(append([]NodeID(nil), stack[start:]...), to)
				return true
			case white:
				if visit(to) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for i := range g.Edges {
		if color[i] == white && g.Present[i] {
			if visit(NodeID(i)) {
				return found
			}
		}
	}
	return nil
}

// ReportCycle emits "cyclic dependency found: 'a' -> 'b' -> 'a'" with one
// note per edge.
func ReportCycle(idx DeclIndex, metas []DeclMeta, g Graph, cycle []NodeID, reporter diag.Reporter) {
	if len(cycle) < 2 || reporter == nil {
		return
	}
	names := make([]string, 0, len(cycle))
	for _, id := range cycle {
		names = append(names, "'"+idx.IDToName[id]+"'")
	}
	b := diag.ReportError(reporter, diag.ResCyclicDependency, metas[cycle[0]].Span,
		"cyclic dependency found: "+strings.Join(names, " -> "))
	for i := 0; i+1 < len(cycle); i++ {
		from, to := cycle[i], cycle[i+1]
		for j, e := range g.Edges[from] {
			if e != to {
				continue
			}
			b = b.WithNote(g.UseSpan[from][j].Span, fmt.Sprintf("%s '%s' references %s '%s' here",
				metas[from].Kind, idx.IDToName[from], metas[to].Kind, idx.IDToName[to]))
			break
		}
	}
	b.Emit()
}
