package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

type parsed struct {
	fs      *source.FileSet
	file    *source.File
	builder *ast.Builder
	bag     *diag.Bag
	result  Result
}

func parseSource(t *testing.T, input string) parsed {
	return parseSourceWithOptions(t, input, Options{})
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) parsed {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wgsl", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(context.Background(), file, builder, opts)
	return parsed{fs: fs, file: file, builder: builder, bag: bag, result: res}
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// firstError renders the first diagnostic as "line:col message".
func (p parsed) firstError() string {
	items := p.bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	start, _ := p.fs.Resolve(items[0].Primary)
	return fmt.Sprintf("%d:%d %s", start.Line, start.Col, items[0].Message)
}

func (p parsed) decl(t *testing.T, name string) (ast.DeclID, *ast.Decl) {
	t.Helper()
	for _, id := range p.builder.Module.Decls {
		d := p.builder.Decls.Get(id)
		if p.builder.Name(d.Name.Name) == name {
			return id, d
		}
	}
	t.Fatalf("declaration %q not found", name)
	return ast.NoDeclID, nil
}

// funcBody returns the top-level statements of function name.
func (p parsed) funcBody(t *testing.T, name string) []ast.StmtID {
	t.Helper()
	id, _ := p.decl(t, name)
	fn, ok := p.builder.Decls.Func(id)
	if !ok {
		t.Fatalf("%q is not a function", name)
	}
	block, ok := p.builder.Stmts.Block(fn.Body)
	if !ok {
		t.Fatalf("%q has no body", name)
	}
	return block.Stmts
}

// render prints an expression fully parenthesized: "(a + (b * c))".
func render(b *ast.Builder, id ast.ExprID) string {
	e := b.Exprs.Get(id)
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		name := b.Name(data.Name)
		if len(data.TemplateArgs) == 0 {
			return name
		}
		args := make([]string, len(data.TemplateArgs))
		for i, a := range data.TemplateArgs {
			args[i] = render(b, a)
		}
		return name + "<" + strings.Join(args, ", ") + ">"
	case ast.ExprLit:
		lit, _ := b.Exprs.Literal(id)
		switch lit.Kind {
		case ast.LitBool:
			return fmt.Sprint(lit.Bool)
		case ast.LitAbstractFloat, ast.LitF32, ast.LitF16:
			return fmt.Sprint(lit.Float)
		}
		return fmt.Sprint(lit.Int)
	case ast.ExprUnary:
		u, _ := b.Exprs.Unary(id)
		return "(" + u.Op.String() + render(b, u.Operand) + ")"
	case ast.ExprBinary:
		bin, _ := b.Exprs.Binary(id)
		return "(" + render(b, bin.Left) + " " + bin.Op.String() + " " + render(b, bin.Right) + ")"
	case ast.ExprCall:
		call, _ := b.Exprs.Call(id)
		args := make([]string, len(call.Args))
		for i, a := range call.Args {
			args[i] = render(b, a)
		}
		return render(b, call.Target) + "(" + strings.Join(args, ", ") + ")"
	case ast.ExprIndex:
		idx, _ := b.Exprs.Index(id)
		return render(b, idx.Target) + "[" + render(b, idx.Index) + "]"
	case ast.ExprMember:
		m, _ := b.Exprs.Member(id)
		return render(b, m.Target) + "." + b.Name(m.Member.Name)
	case ast.ExprBitcast:
		bc, _ := b.Exprs.Bitcast(id)
		return "bitcast<" + render(b, bc.Type) + ">(" + render(b, bc.Value) + ")"
	case ast.ExprPhony:
		return "_"
	}
	return "?"
}

// parseExpr parses `const x = <src>;` and renders the initializer.
func parseExpr(t *testing.T, src string) (string, parsed) {
	t.Helper()
	p := parseSource(t, "const x = "+src+";")
	if p.bag.HasErrors() {
		return "", p
	}
	id, _ := p.decl(t, "x")
	v, _ := p.builder.Decls.Var(id)
	return render(p.builder, v.Init), p
}
