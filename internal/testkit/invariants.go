package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"wgslfront/internal/ast"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every declaration span is non-empty and within the file content
// 2) declarations appear in source order and do not overlap
func CheckSpanInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, id := range b.Module.Decls {
		d := b.Decls.Get(id)
		if d == nil {
			return fmt.Errorf("nil declaration for id=%d", id)
		}
		sp := d.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty declaration span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("declaration span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("declaration span end beyond content: %d > %d", sp.End, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("declaration span %v overlaps previous %v", sp, prev)
		}
		prev = sp
	}
	return nil
}

// CheckResolved verifies that every value expression of the resolved
// declarations got a semantic node. Template arguments of identifiers are
// not descended into.
func CheckResolved(b *ast.Builder, m *sem.Module) error {
	if b == nil || m == nil {
		return fmt.Errorf("nil builder or module")
	}
	var missing []ast.ExprID
	check := func(root ast.ExprID) {
		b.WalkExpr(root, func(id ast.ExprID, e *ast.Expr) bool {
			if !m.Visited(e.Node) {
				missing = append(missing, id)
			}
			return e.Kind != ast.ExprIdent
		})
	}

	for _, id := range b.Module.Decls {
		d := b.Decls.Get(id)
		switch {
		case d.Kind.IsVariable():
			if _, ok := m.Variable(id); !ok {
				continue
			}
			data, _ := b.Decls.Var(id)
			check(data.Init)
		case d.Kind == ast.DeclFunc:
			if _, ok := m.FunctionOf(id); !ok {
				continue
			}
			data, _ := b.Decls.Func(id)
			b.WalkStmt(data.Body, func(sid ast.StmtID, st *ast.Stmt) bool {
				for _, e := range b.StmtExprs(sid) {
					check(e)
				}
				return true
			})
		}
	}
	if len(missing) > 0 {
		e := b.Exprs.Get(missing[0])
		return fmt.Errorf("%d expression(s) not resolved, first: %s at %v", len(missing), e.Kind, e.Span)
	}
	return nil
}
