package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"wgslfront/internal/ast"
	"wgslfront/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(children ...*treeNode) *treeNode {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

func leaf(format string, args ...any) *treeNode {
	return &treeNode{label: fmt.Sprintf(format, args...)}
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return span.String()
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// buildModuleTreeNode is the root of the dump: directives first, then every
// declaration in source order.
func buildModuleTreeNode(b *ast.Builder, fs *source.FileSet) *treeNode {
	header := "Module"
	if fs != nil {
		if f := fs.Get(b.Module.File); f != nil {
			header = formatPath(fs, f, PathModeAuto)
		}
	}
	root := &treeNode{label: header}
	for _, en := range b.Module.Enables {
		root.add(leaf("Enable %s (span: %s)", joinIdents(b, en.Extensions), formatSpan(en.Span, fs)))
	}
	for _, rq := range b.Module.Requires {
		root.add(leaf("Requires %s (span: %s)", joinIdents(b, rq.Features), formatSpan(rq.Span, fs)))
	}
	for _, dd := range b.Module.Diagnostics {
		root.add(leaf("Diagnostic %s (span: %s)", formatControl(b, dd.Control), formatSpan(dd.Span, fs)))
	}
	for idx, id := range b.Module.Decls {
		root.add(buildDeclTreeNode(b, id, fs, idx))
	}
	return root
}

func buildDeclTreeNode(b *ast.Builder, id ast.DeclID, fs *source.FileSet, idx int) *treeNode {
	decl := b.Decls.Get(id)
	if decl == nil {
		return leaf("Decl[%d]: <nil>", idx)
	}
	label := fmt.Sprintf("Decl[%d]: %s", idx, decl.Kind)
	if decl.Name.IsValid() {
		label += " " + b.Name(decl.Name.Name)
	}
	node := leaf("%s (span: %s)", label, formatSpan(decl.Span, fs))
	node.add(attrsNode(b, decl.Attrs))

	switch decl.Kind {
	case ast.DeclVar, ast.DeclLet, ast.DeclConst, ast.DeclOverride:
		data, _ := b.Decls.Var(id)
		if data.AddressSpace.IsValid() {
			space := formatExprInline(b, data.AddressSpace)
			if data.Access.IsValid() {
				space += ", " + formatExprInline(b, data.Access)
			}
			node.add(leaf("AddressSpace: %s", space))
		}
		if data.Type.IsValid() {
			node.add(leaf("Type: %s", formatExprInline(b, data.Type)))
		}
		if data.Init.IsValid() {
			node.add(&treeNode{label: "Init", children: []*treeNode{buildExprTreeNode(b, data.Init)}})
		}
	case ast.DeclFunc:
		data, _ := b.Decls.Func(id)
		params := leaf("Params")
		for _, pid := range data.Params {
			p := b.Decls.Param(pid)
			if p == nil {
				continue
			}
			params.add(leaf("%s: %s", b.Name(p.Name.Name), formatExprInline(b, p.Type)).add(attrsNode(b, p.Attrs)))
		}
		node.add(params)
		if data.ReturnType.IsValid() {
			node.add(leaf("Return: %s", formatExprInline(b, data.ReturnType)).add(attrsNode(b, data.ReturnAttrs)))
		}
		if data.Body.IsValid() {
			node.add(buildStmtTreeNode(b, data.Body))
		} else {
			node.add(leaf("Body: <none>"))
		}
	case ast.DeclStruct:
		data, _ := b.Decls.Struct(id)
		members := leaf("Members")
		for _, mid := range data.Members {
			m := b.Decls.Member(mid)
			if m == nil {
				continue
			}
			members.add(leaf("%s: %s", b.Name(m.Name.Name), formatExprInline(b, m.Type)).add(attrsNode(b, m.Attrs)))
		}
		node.add(members)
	case ast.DeclAlias:
		data, _ := b.Decls.Alias(id)
		node.add(leaf("Type: %s", formatExprInline(b, data.Type)))
	case ast.DeclConstAssert:
		data, _ := b.Decls.ConstAssert(id)
		node.add(&treeNode{label: "Cond", children: []*treeNode{buildExprTreeNode(b, data.Cond)}})
	}
	return node
}

func buildStmtTreeNode(b *ast.Builder, id ast.StmtID) *treeNode {
	st := b.Stmts.Get(id)
	if st == nil {
		return leaf("<nil stmt>")
	}
	node := leaf("%s", capitalize(st.Kind.String()))
	node.add(attrsNode(b, st.Attrs))

	switch st.Kind {
	case ast.StmtIf:
		data, _ := b.Stmts.If(id)
		node.add(leaf("Cond: %s", formatExprInline(b, data.Cond)), buildStmtTreeNode(b, data.Body))
		if data.Else.IsValid() {
			node.add(&treeNode{label: "Else", children: []*treeNode{buildStmtTreeNode(b, data.Else)}})
		}
		return node
	case ast.StmtSwitch:
		data, _ := b.Stmts.Switch(id)
		node.add(leaf("Selector: %s", formatExprInline(b, data.Cond)))
		node.add(attrsNode(b, data.BodyAttrs))
	case ast.StmtCase:
		data, _ := b.Stmts.Case(id)
		sels := make([]string, 0, len(data.Selectors))
		for _, sel := range data.Selectors {
			if sel.IsDefault() {
				sels = append(sels, "default")
			} else {
				sels = append(sels, formatExprInline(b, sel.Expr))
			}
		}
		node.label = "Case " + strings.Join(sels, ", ")
	case ast.StmtFor:
		data, _ := b.Stmts.For(id)
		if data.Init.IsValid() {
			node.add(&treeNode{label: "Init", children: []*treeNode{buildStmtTreeNode(b, data.Init)}})
		}
		if data.Cond.IsValid() {
			node.add(leaf("Cond: %s", formatExprInline(b, data.Cond)))
		}
		if data.Cont.IsValid() {
			node.add(&treeNode{label: "Update", children: []*treeNode{buildStmtTreeNode(b, data.Cont)}})
		}
		node.add(buildStmtTreeNode(b, data.Body))
		return node
	case ast.StmtLoop:
		data, _ := b.Stmts.Loop(id)
		node.add(buildStmtTreeNode(b, data.Body))
		if data.Continuing.IsValid() {
			node.add(&treeNode{label: "Continuing", children: []*treeNode{buildStmtTreeNode(b, data.Continuing)}})
		}
		return node
	case ast.StmtDecl:
		data, _ := b.Stmts.Decl(id)
		return buildDeclTreeNode(b, data.Decl, nil, 0)
	case ast.StmtAssign:
		data, _ := b.Stmts.Assign(id)
		op := "="
		if data.Op != 0 {
			op = data.Op.String() + "="
		}
		node.label = fmt.Sprintf("Assign %s %s %s", formatExprInline(b, data.LHS), op, formatExprInline(b, data.RHS))
		return node
	case ast.StmtIncDec:
		data, _ := b.Stmts.IncDec(id)
		op := "--"
		if data.Increment {
			op = "++"
		}
		node.label = fmt.Sprintf("%s%s", formatExprInline(b, data.LHS), op)
		return node
	}

	// оставшиеся: выражения одной строкой, вложенные операторы детьми
	for _, e := range b.StmtExprs(id) {
		node.add(leaf("%s", formatExprInline(b, e)))
	}
	for _, child := range b.StmtChildren(id) {
		node.add(buildStmtTreeNode(b, child))
	}
	return node
}

// buildExprTreeNode expands binary and call expressions, leaves everything else inline.
func buildExprTreeNode(b *ast.Builder, id ast.ExprID) *treeNode {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return leaf("<nil expr>")
	}
	switch expr.Kind {
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return leaf("Binary %s", data.Op).add(buildExprTreeNode(b, data.Left), buildExprTreeNode(b, data.Right))
	case ast.ExprCall:
		data, _ := b.Exprs.Call(id)
		node := leaf("Call %s", formatExprInline(b, data.Target))
		for _, arg := range data.Args {
			node.add(buildExprTreeNode(b, arg))
		}
		return node
	}
	return leaf("%s %s", expr.Kind, formatExprInline(b, id))
}

func formatExprInline(b *ast.Builder, id ast.ExprID) string {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return "<nil>"
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		name := b.Name(data.Name)
		if len(data.TemplateArgs) == 0 {
			return name
		}
		return name + "<" + joinExprs(b, data.TemplateArgs) + ">"
	case ast.ExprLit:
		data, _ := b.Exprs.Literal(id)
		return formatLiteral(data)
	case ast.ExprUnary:
		data, _ := b.Exprs.Unary(id)
		return data.Op.String() + formatExprInline(b, data.Operand)
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return "(" + formatExprInline(b, data.Left) + " " + data.Op.String() + " " + formatExprInline(b, data.Right) + ")"
	case ast.ExprCall:
		data, _ := b.Exprs.Call(id)
		return formatExprInline(b, data.Target) + "(" + joinExprs(b, data.Args) + ")"
	case ast.ExprIndex:
		data, _ := b.Exprs.Index(id)
		return formatExprInline(b, data.Target) + "[" + formatExprInline(b, data.Index) + "]"
	case ast.ExprMember:
		data, _ := b.Exprs.Member(id)
		return formatExprInline(b, data.Target) + "." + b.Name(data.Member.Name)
	case ast.ExprBitcast:
		data, _ := b.Exprs.Bitcast(id)
		return "bitcast<" + formatExprInline(b, data.Type) + ">(" + formatExprInline(b, data.Value) + ")"
	case ast.ExprPhony:
		return "_"
	}
	return "<invalid>"
}

func formatLiteral(lit *ast.ExprLitData) string {
	switch lit.Kind {
	case ast.LitBool:
		return strconv.FormatBool(lit.Bool)
	case ast.LitAbstractInt:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LitI32:
		return strconv.FormatInt(lit.Int, 10) + "i"
	case ast.LitU32:
		return strconv.FormatInt(lit.Int, 10) + "u"
	case ast.LitF32:
		return strconv.FormatFloat(lit.Float, 'g', -1, 32) + "f"
	case ast.LitF16:
		return strconv.FormatFloat(lit.Float, 'g', -1, 32) + "h"
	}
	s := strconv.FormatFloat(lit.Float, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func joinExprs(b *ast.Builder, ids []ast.ExprID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, formatExprInline(b, id))
	}
	return strings.Join(parts, ", ")
}

func joinIdents(b *ast.Builder, ids []ast.Ident) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, b.Name(id.Name))
	}
	return strings.Join(parts, ", ")
}

func formatControl(b *ast.Builder, c ast.DiagnosticControl) string {
	rule := b.Name(c.Rule.Name)
	if c.Category.IsValid() {
		rule = b.Name(c.Category.Name) + "." + rule
	}
	return "(" + b.Name(c.Severity.Name) + ", " + rule + ")"
}

func formatAttrInline(b *ast.Builder, attr *ast.Attr) string {
	if attr.Diagnostic != nil {
		return "@diagnostic" + formatControl(b, *attr.Diagnostic)
	}
	s := "@" + b.Name(attr.Name.Name)
	if len(attr.Args) > 0 {
		s += "(" + joinExprs(b, attr.Args) + ")"
	}
	return s
}

func attrsNode(b *ast.Builder, attrs []ast.AttrID) *treeNode {
	if len(attrs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(attrs))
	for _, id := range attrs {
		if at := b.Attrs.Get(id); at != nil {
			parts = append(parts, formatAttrInline(b, at))
		}
	}
	return leaf("Attributes: %s", strings.Join(parts, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatASTPretty prints the module as an indented tree.
func FormatASTPretty(w io.Writer, b *ast.Builder, fs *source.FileSet) error {
	var sb strings.Builder
	root := buildModuleTreeNode(b, fs)
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeIndented(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeIndented(sb *strings.Builder, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + n.label + "\n")
		writeIndented(sb, n.children, prefix+next)
	}
}

// FormatASTTree prints one declaration as a top-down ASCII tree, for small snippets.
func FormatASTTree(w io.Writer, b *ast.Builder, fs *source.FileSet) error {
	for idx, id := range b.Module.Decls {
		block := renderTree(buildDeclTreeNode(b, id, fs, idx))
		for _, line := range block.lines {
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// ASTNodeJSON is the JSON shape of one tree node.
type ASTNodeJSON struct {
	Label    string         `json:"label"`
	Children []*ASTNodeJSON `json:"children,omitempty"`
}

func toJSONNode(n *treeNode) *ASTNodeJSON {
	out := &ASTNodeJSON{Label: n.label}
	for _, c := range n.children {
		out.Children = append(out.Children, toJSONNode(c))
	}
	return out
}

// FormatASTJSON writes the same tree as FormatASTPretty in JSON form.
func FormatASTJSON(w io.Writer, b *ast.Builder, fs *source.FileSet) error {
	declCount, err := safecast.Conv[uint32](len(b.Module.Decls))
	if err != nil {
		return err
	}
	out := struct {
		Decls uint32       `json:"decls"`
		Nodes int          `json:"nodes"`
		Root  *ASTNodeJSON `json:"root"`
	}{declCount, b.NodeCount(), toJSONNode(buildModuleTreeNode(b, fs))}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
// root is the column of the node's vertical connector within lines.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := len(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := strings.Repeat(" ", shift) + label
	rootLine += strings.Repeat(" ", width-len(rootLine))

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(line)
			sb.WriteString(strings.Repeat(" ", block.width-len(line)))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		if len(rowStr) < width {
			rowStr += strings.Repeat(" ", width-len(rowStr))
		}
		lines = append(lines, rowStr)
	}

	return treeBlock{lines: lines, width: width, root: rootPos}
}
