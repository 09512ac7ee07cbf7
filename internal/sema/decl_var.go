package sema

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
)

const maxOverrideID = 65535

// variable resolves what every var, let, const and override shares: the
// declared type, the initializer and for `var` the address space and access.
func (tc *typeChecker) variable(id ast.DeclID, decl *ast.Decl, global bool) (*sem.Variable, bool) {
	data, _ := tc.builder.Decls.Var(id)
	tc.checkNFC(decl.Name)
	v := &sem.Variable{
		Decl: id,
		Name: tc.builder.Name(decl.Name.Name),
		Kind: decl.Kind,
		Span: declNameSpan(decl),
	}

	switch decl.Kind {
	case ast.DeclConst, ast.DeclLet:
		if !data.Init.IsValid() {
			tc.report(diag.ResMissingTypeOrInit, v.Span, "'%s' declaration must have an initializer", decl.Kind)
			return nil, false
		}
	default:
		if !data.Type.IsValid() && !data.Init.IsValid() {
			tc.report(diag.ResMissingTypeOrInit, v.Span, "'%s' declaration requires a type or initializer", decl.Kind)
			return nil, false
		}
	}

	declared := types.NoTypeID
	if data.Type.IsValid() {
		t, ok := tc.resolveType(data.Type)
		if !ok {
			return nil, false
		}
		declared = t
	}

	var init *sem.Expr
	if data.Init.IsValid() {
		resolve := func() (*sem.Expr, bool) { return tc.valueExpr(data.Init) }
		var ok bool
		if decl.Kind == ast.DeclConst {
			init, ok = tc.withStageLimit(sem.StageConstant, "'const' initializer", resolve)
		} else {
			// var и override проверяет валидатор, с более точным текстом
			init, ok = resolve()
		}
		if !ok {
			return nil, false
		}
		v.Init = init
	}

	switch {
	case declared != types.NoTypeID && init != nil:
		if ok, incompatible := tc.convertTo(init, declared); !ok {
			if incompatible {
				tc.report(diag.ResTypeMismatch, init.Span, "cannot initialize %s of type '%s' with value of type '%s'",
					decl.Kind, tc.typeName(declared), tc.typeName(init.Type))
			}
			return nil, false
		}
		v.Type = declared
	case declared != types.NoTypeID:
		v.Type = declared
	case decl.Kind == ast.DeclConst:
		v.Type = init.Type
	default:
		t, ok := tc.materialize(init, types.NoTypeID)
		if !ok {
			return nil, false
		}
		v.Type = t
	}

	switch decl.Kind {
	case ast.DeclConst:
		v.Stage, v.Value = sem.StageConstant, init.Value
	case ast.DeclOverride:
		v.Stage = sem.StageOverride
	default:
		v.Stage = sem.StageRuntime
	}

	if decl.Kind == ast.DeclVar {
		if !tc.addressSpaceAndAccess(v, data, global) {
			return nil, false
		}
	}
	if init != nil && init.Root != nil && decl.Kind == ast.DeclLet && tc.types.Kind(v.Type) == types.KindPointer {
		tc.letRoots[v] = init.Root
	}
	return v, true
}

func (tc *typeChecker) addressSpaceAndAccess(v *sem.Variable, data *ast.DeclVarData, global bool) bool {
	space := builtin.AddressSpaceFunction
	if global {
		space = builtin.AddressSpaceUndefined
	}
	switch {
	case data.AddressSpace.IsValid():
		s, ok := enumArg(tc, data.AddressSpace, "address space", builtin.ParseAddressSpace, builtin.AddressSpaceStrings())
		if !ok {
			return false
		}
		space = s
	case global && tc.types.IsHandle(v.Type):
		space = builtin.AddressSpaceHandle
	}
	access := space.DefaultAccess()
	if data.Access.IsValid() {
		a, ok := enumArg(tc, data.Access, "access", builtin.ParseAccess, builtin.AccessStrings())
		if !ok {
			return false
		}
		access = a
	}
	v.Space, v.Access = space, access
	return true
}

// globalVariable resolves a module-scope var, const or override.
func (tc *typeChecker) globalVariable(id ast.DeclID, decl *ast.Decl) (*sem.Variable, bool) {
	switch decl.Kind {
	case ast.DeclVar:
		if !tc.checkAttrs(decl.Attrs, ast.AttrTargetVar) {
			return nil, false
		}
	case ast.DeclOverride:
		if !tc.checkAttrs(decl.Attrs, ast.AttrTargetOverride) {
			return nil, false
		}
	default:
		if len(decl.Attrs) > 0 {
			a := tc.builder.Attrs.Get(decl.Attrs[0])
			tc.report(diag.ResInvalidAttribute, a.Span, "@%s is not valid for '%s' declaration", tc.attrName(a), decl.Kind)
			return nil, false
		}
	}

	prev := tc.curGlobal
	tc.curGlobal = &sem.Variable{}
	v, ok := tc.variable(id, decl, true)
	collected := tc.curGlobal
	tc.curGlobal = prev
	if !ok {
		return nil, false
	}
	v.TransitivelyReferenced = collected.TransitivelyReferenced

	if !tc.globalAttributes(v, decl) {
		return nil, false
	}
	if !tc.validator.GlobalVariable(v, tc.overrideIDs) {
		return nil, false
	}
	if v.HasOverrideID {
		tc.overrideIDs[v.OverrideID] = v
	}
	return v, true
}

// globalAttributes reads @group, @binding and @id.
func (tc *typeChecker) globalAttributes(v *sem.Variable, decl *ast.Decl) bool {
	var group, binding *uint32
	for _, aid := range decl.Attrs {
		a := tc.builder.Attrs.Get(aid)
		if a == nil {
			continue
		}
		switch a.Kind {
		case ast.AttrGroup, ast.AttrBinding:
			n, ok := tc.constU32Arg(a)
			if !ok {
				return false
			}
			if a.Kind == ast.AttrGroup {
				group = &n
			} else {
				binding = &n
			}
		case ast.AttrIdent:
			n, ok := tc.constU32Arg(a)
			if !ok {
				return false
			}
			if n > maxOverrideID {
				tc.report(diag.ResInvalidAttribute, a.Span, "@id value must be between 0 and %d", maxOverrideID)
				return false
			}
			v.OverrideID, v.HasOverrideID = uint16(n), true
		}
	}
	if group != nil && binding != nil {
		v.Binding = &sem.BindingPoint{Group: *group, Binding: *binding}
	}
	return true
}

// localVariable resolves a function-scope declaration statement and binds the
// name after its initializer, so `let x = x;` sees the outer x.
func (tc *typeChecker) localVariable(id ast.DeclID) bool {
	decl := tc.builder.Decls.Get(id)
	if len(decl.Attrs) > 0 {
		a := tc.builder.Attrs.Get(decl.Attrs[0])
		tc.report(diag.ResInvalidAttribute, a.Span, "@%s is not valid for function-scope '%s'", tc.attrName(a), decl.Kind)
		return false
	}
	if decl.Kind == ast.DeclOverride {
		tc.report(diag.ResInvalidStage, decl.Span, "'override' declarations must be at module scope")
		return false
	}
	v, ok := tc.variable(id, decl, false)
	if !ok {
		return false
	}
	v.Function = tc.fn.fn
	if !tc.validator.LocalVariable(v) {
		return false
	}
	tc.module.AddLocal(v)
	tc.fn.fn.Locals = append(tc.fn.fn.Locals, v)
	return tc.declare(v)
}

// constAssert evaluates a const_assert condition.
func (tc *typeChecker) constAssert(cond ast.ExprID) bool {
	e, ok := tc.withStageLimit(sem.StageConstant, "const assertion", func() (*sem.Expr, bool) {
		return tc.valueExpr(cond)
	})
	if !ok {
		return false
	}
	if !tc.types.IsBool(e.Type) {
		tc.report(diag.ResTypeMismatch, e.Span, "const assertion condition must be a bool, got '%s'", tc.typeName(e.Type))
		return false
	}
	if e.Value == nil || !e.Value.Bool {
		tc.report(diag.ResConstAssertFailed, e.Span, "const assertion failed")
		return false
	}
	return true
}
