package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/fix"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

// global_decl
//
//	: ';'
//	| attribute* global_variable_decl ';'
//	| attribute* global_constant_decl ';'
//	| type_alias_decl ';'
//	| const_assert_statement ';'
//	| struct_decl
//	| attribute* function_decl
func (p *Parser) globalDecl() outcome {
	if p.accept(token.Semicolon) || p.at(token.EOF) {
		return matched
	}

	attrs, res := p.attributeList()
	failed := res == errored
	if !p.continueParsing() {
		return errored
	}

	res = p.sync(token.Semicolon, func() outcome {
		if id, r := p.globalVariableDecl(&attrs); r != noMatch {
			if r == errored || !p.expect("variable declaration", token.Semicolon) {
				return errored
			}
			p.b.PushDecl(id)
			return matched
		}

		if id, r := p.globalConstantDecl(&attrs); r != noMatch {
			if r == errored {
				return errored
			}
			p.b.PushDecl(id)
			use := "'" + p.b.Decls.Get(id).Kind.String() + "' declaration"
			if !p.expect(use, token.Semicolon) {
				return errored
			}
			return matched
		}

		if id, r := p.typeAliasDecl(); r != noMatch {
			if r == errored || !p.expect("type alias", token.Semicolon) {
				return errored
			}
			p.b.PushDecl(id)
			return matched
		}

		if id, r := p.constAssertDecl(); r != noMatch {
			if r == errored {
				return errored
			}
			p.b.PushDecl(id)
			if !p.expect("const assertion declaration", token.Semicolon) {
				return errored
			}
			return matched
		}
		return noMatch
	})
	switch res {
	case errored:
		failed = true
	case matched:
		return outcomeOf(p.expectAttributesConsumed(attrs))
	}

	if id, r := p.structDecl(); r != noMatch {
		if r == errored {
			failed = true
		} else {
			p.b.PushDecl(id)
			return outcomeOf(p.expectAttributesConsumed(attrs))
		}
	}

	if id, r := p.functionDecl(&attrs); r != noMatch {
		if id.IsValid() {
			p.b.PushDecl(id)
		}
		if r == errored {
			return errored
		}
		return matched
	}

	if failed {
		return errored
	}

	// ничего не подошло, подбираем сообщение получше
	if len(attrs) > 0 {
		t := p.next()
		return p.errorAt(diag.SynExpectedDeclaration, t.Span, "expected declaration after attributes")
	}

	t := p.peek(0)
	stmt := p.withoutDiag(func() outcome {
		_, r := p.statement()
		return r
	})
	if stmt == matched {
		// возможно, просто потерян заголовок функции
		p.syncTo(token.RBrace, true)
		return p.errorAt(diag.SynStatementOutsideFunction, t.Span, "statement found outside of function body")
	}
	if stmt != errored {
		p.next()
	}
	if p.handleError() {
		return errored
	}
	return noMatch
}

// global_variable_decl: attribute* variable_decl ('=' expression)?
func (p *Parser) globalVariableDecl(attrs *[]ast.AttrID) (ast.DeclID, outcome) {
	vd, res := p.variableDecl()
	if res != matched {
		return ast.NoDeclID, res
	}

	init := ast.NoExprID
	if p.accept(token.Equal) {
		e, r := p.expression()
		if r == errored {
			return ast.NoDeclID, errored
		}
		if r == noMatch {
			return ast.NoDeclID, p.errorAt(diag.SynMissingInitializer, p.peek(0).Span, "missing initializer for 'var' declaration")
		}
		init = e
	}

	id := p.b.Decls.NewVariable(ast.DeclVar, p.spanFrom(vd.start), vd.name, ast.DeclVarData{
		Type:         vd.typ,
		Init:         init,
		AddressSpace: vd.space,
		Access:       vd.access,
	}, *attrs)
	*attrs = nil
	return id, matched
}

// global_constant_decl
//
//	: 'const' optionally_typed_ident '=' expression
//	| attribute* 'override' optionally_typed_ident ('=' expression)?
func (p *Parser) globalConstantDecl(attrs *[]ast.AttrID) (ast.DeclID, outcome) {
	kw := p.peek(0)
	var (
		kind ast.DeclKind
		use  string
	)
	switch kw.Kind {
	case token.KwConst:
		kind, use = ast.DeclConst, "'const' declaration"
	case token.KwOverride:
		kind, use = ast.DeclOverride, "'override' declaration"
	case token.KwLet:
		p.next()
		return ast.NoDeclID, p.errorWithFix(diag.SynModuleScopeLet, kw.Span, "module-scope 'let' is invalid, use 'const'",
			fix.ReplaceSpan("replace 'let' with 'const'", kw.Span, "const", "let"))
	default:
		return ast.NoDeclID, noMatch
	}
	p.next()

	ti, ok := p.expectOptionallyTypedIdent(use)
	if !ok {
		return ast.NoDeclID, errored
	}

	hasInit := false
	if kind == ast.DeclOverride {
		hasInit = p.accept(token.Equal)
	} else {
		if !p.expect(use, token.Equal) {
			return ast.NoDeclID, errored
		}
		hasInit = true
	}

	init := ast.NoExprID
	if hasInit {
		e, r := p.expression()
		if r == errored {
			return ast.NoDeclID, errored
		}
		if r == noMatch {
			return ast.NoDeclID, p.errorAt(diag.SynMissingInitializer, p.peek(0).Span, "missing initializer for "+use)
		}
		init = e
	}

	id := p.b.Decls.NewVariable(kind, p.spanFrom(kw.Span), ti.name, ast.DeclVarData{Type: ti.typ, Init: init}, *attrs)
	*attrs = nil
	return id, matched
}

type varDecl struct {
	start  source.Span
	name   ast.Ident
	typ    ast.ExprID
	space  ast.ExprID
	access ast.ExprID
}

// variable_decl: 'var' variable_qualifier? optionally_typed_ident
func (p *Parser) variableDecl() (varDecl, outcome) {
	kw, ok := p.match(token.KwVar)
	if !ok {
		return varDecl{}, noMatch
	}
	vd := varDecl{start: kw.Span}

	if p.at(token.TemplateArgsLeft) || p.at(token.LessThan) {
		// на LessThan expect даст "missing closing '>'"
		const use = "variable declaration"
		res := p.expectTemplateArgBlock(use, func() outcome {
			space, ok := p.expectExpression("'var' address space")
			if !ok {
				return errored
			}
			vd.space = space
			if p.accept(token.Comma) {
				access, ok := p.expectExpression("'var' access mode")
				if !ok {
					return errored
				}
				vd.access = access
			}
			return matched
		})
		if res == errored {
			return varDecl{}, errored
		}
	}

	ti, ok := p.expectOptionallyTypedIdent("variable declaration")
	if !ok {
		return varDecl{}, errored
	}
	vd.name, vd.typ = ti.name, ti.typ
	return vd, matched
}

type typedIdent struct {
	name ast.Ident
	typ  ast.ExprID
}

// ident (':' type_specifier)?; the type is required unless allowInferred.
func (p *Parser) expectIdentWithOptionalType(use string, allowInferred bool) (typedIdent, bool) {
	name, ok := p.expectIdent(use, "")
	if !ok {
		return typedIdent{}, false
	}
	if allowInferred && !p.at(token.Colon) {
		return typedIdent{name: name}, true
	}
	if !p.expect(use, token.Colon) {
		return typedIdent{}, false
	}

	t := p.peek(0)
	typ, res := p.typeSpecifier()
	switch res {
	case errored:
		return typedIdent{}, false
	case noMatch:
		p.errorFor(diag.SynInvalidType, t.Span, "invalid type", use)
		return typedIdent{}, false
	}
	return typedIdent{name: name, typ: typ}, true
}

func (p *Parser) expectOptionallyTypedIdent(use string) (typedIdent, bool) {
	return p.expectIdentWithOptionalType(use, true)
}

func (p *Parser) expectIdentWithType(use string) (typedIdent, bool) {
	return p.expectIdentWithOptionalType(use, false)
}

// type_alias_decl: 'alias' ident '=' type_specifier
func (p *Parser) typeAliasDecl() (ast.DeclID, outcome) {
	kw, ok := p.match(token.KwAlias)
	if !ok {
		return ast.NoDeclID, noMatch
	}
	const use = "type alias"

	name, ok := p.expectIdent(use, "")
	if !ok {
		return ast.NoDeclID, errored
	}
	if !p.expect(use, token.Equal) {
		return ast.NoDeclID, errored
	}

	typ, res := p.typeSpecifier()
	switch res {
	case errored:
		return ast.NoDeclID, errored
	case noMatch:
		return ast.NoDeclID, p.errorAt(diag.SynInvalidType, p.peek(0).Span, "invalid type alias")
	}
	return p.b.Decls.NewAlias(p.spanFrom(kw.Span), name, typ), matched
}

// struct_decl: 'struct' ident '{' (struct_member ',')* struct_member ','? '}'
func (p *Parser) structDecl() (ast.DeclID, outcome) {
	kw, ok := p.match(token.KwStruct)
	if !ok {
		return ast.NoDeclID, noMatch
	}

	name, ok := p.expectIdent("struct declaration", "")
	if !ok {
		return ast.NoDeclID, errored
	}

	var members []ast.MemberID
	res := p.expectBraceBlock("struct declaration", func() outcome {
		failed := false
		for p.continueParsing() {
			t := p.peek(0)
			if t.Kind != token.Ident && t.Kind != token.Attr {
				break
			}
			if m, ok := p.expectStructMember(); ok {
				members = append(members, m)
			} else {
				failed = true
				if !p.syncTo(token.Comma, false) {
					return errored
				}
			}
			if !p.accept(token.Comma) {
				break
			}
		}
		return outcomeOf(!failed)
	})
	if res == errored {
		return ast.NoDeclID, errored
	}
	return p.b.Decls.NewStruct(p.spanFrom(kw.Span), name, members, nil), matched
}

// struct_member: attribute* ident ':' type_specifier
func (p *Parser) expectStructMember() (ast.MemberID, bool) {
	start := p.peek(0).Span
	attrs, res := p.attributeList()
	if res == errored {
		return ast.NoMemberID, false
	}
	ti, ok := p.expectIdentWithType("struct member")
	if !ok {
		return ast.NoMemberID, false
	}
	return p.b.Decls.NewMember(p.spanFrom(start), ti.name, ti.typ, attrs), true
}

// const_assert_statement: 'const_assert' expression
func (p *Parser) constAssert() (source.Span, ast.ExprID, outcome) {
	kw, ok := p.match(token.KwConstAssert)
	if !ok {
		return source.Span{}, ast.NoExprID, noMatch
	}
	cond, res := p.expression()
	switch res {
	case errored:
		return source.Span{}, ast.NoExprID, errored
	case noMatch:
		return source.Span{}, ast.NoExprID, p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse condition expression")
	}
	return p.spanFrom(kw.Span), cond, matched
}

func (p *Parser) constAssertDecl() (ast.DeclID, outcome) {
	sp, cond, res := p.constAssert()
	if res != matched {
		return ast.NoDeclID, res
	}
	return p.b.Decls.NewConstAssert(sp, cond), matched
}

type funcHeader struct {
	start       source.Span
	name        ast.Ident
	params      []ast.ParamID
	returnType  ast.ExprID
	returnAttrs []ast.AttrID
}

// function_decl: function_header compound_statement
func (p *Parser) functionDecl(attrs *[]ast.AttrID) (ast.DeclID, outcome) {
	hdr, res := p.functionHeader()
	if res == errored {
		// заголовок сломан, но если дошли до '{', тело всё равно разбираем ради диагностик
		if p.syncTo(token.LBrace, false) {
			p.expectCompoundStatement("function body")
		}
		return ast.NoDeclID, errored
	}
	if res == noMatch {
		return ast.NoDeclID, noMatch
	}

	body, ok := p.expectCompoundStatement("function body")
	if !body.IsValid() {
		return ast.NoDeclID, errored
	}

	id := p.b.Decls.NewFunc(p.spanFrom(hdr.start), hdr.name, ast.DeclFuncData{
		Params:      hdr.params,
		ReturnType:  hdr.returnType,
		ReturnAttrs: hdr.returnAttrs,
		Body:        body,
	}, *attrs)
	*attrs = nil
	// тело с ошибками всё равно попадает в модуль, остальные операторы живы
	return id, outcomeOf(ok)
}

// function_header: 'fn' ident '(' param_list ')' ('->' attribute* type_specifier)?
func (p *Parser) functionHeader() (funcHeader, outcome) {
	kw, ok := p.match(token.KwFn)
	if !ok {
		return funcHeader{}, noMatch
	}
	const use = "function declaration"
	hdr := funcHeader{start: kw.Span, returnType: ast.NoExprID}
	failed := false

	name, ok := p.expectIdent(use, "")
	if !ok {
		failed = true
		if !p.syncTo(token.LParen, false) {
			return funcHeader{}, errored
		}
	}
	hdr.name = name

	res := p.expectParenBlock(use, func() outcome {
		params, ok := p.expectParamList()
		hdr.params = params
		return outcomeOf(ok)
	})
	if res == errored {
		failed = true
		if !p.synced {
			return funcHeader{}, errored
		}
	}

	if p.accept(token.Arrow) {
		attrs, r := p.attributeList()
		if r == errored {
			return funcHeader{}, errored
		}
		hdr.returnAttrs = attrs

		typ, r := p.typeSpecifier()
		switch r {
		case errored:
			failed = true
		case noMatch:
			return funcHeader{}, p.errorAt(diag.SynMissingReturnType, p.peek(0).Span, "unable to determine function return type")
		default:
			hdr.returnType = typ
		}
	}

	if failed {
		return funcHeader{}, errored
	}
	return hdr, matched
}

// param_list: (param ',')* param ','?
func (p *Parser) expectParamList() ([]ast.ParamID, bool) {
	var params []ast.ParamID
	for p.continueParsing() {
		t := p.peek(0)
		if t.Kind != token.Ident && t.Kind != token.Attr {
			break
		}
		param, ok := p.expectParam()
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if !p.accept(token.Comma) {
			break
		}
	}
	return params, true
}

// param: attribute* ident ':' type_specifier
func (p *Parser) expectParam() (ast.ParamID, bool) {
	start := p.peek(0).Span
	attrs, _ := p.attributeList()
	ti, ok := p.expectIdentWithType("parameter")
	if !ok {
		return ast.NoParamID, false
	}
	return p.b.Decls.NewParam(p.spanFrom(start), ti.name, ti.typ, attrs), true
}
