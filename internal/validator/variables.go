package validator

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
)

// GlobalVariable checks a module-scope var, override or const once it is
// resolved. overrideIDs maps the @id values seen so far.
func (v *Validator) GlobalVariable(g *sem.Variable, overrideIDs map[uint16]*sem.Variable) bool {
	decl := v.builder.Decls.Get(g.Decl)
	if g.Space != builtin.AddressSpaceWorkgroup && !v.arrayWithOverrideCount(g.Type, g.Span) {
		return false
	}
	switch g.Kind {
	case ast.DeclVar:
		data, _ := v.builder.Decls.Var(g.Decl)
		if g.Init != nil && g.Init.Stage > sem.StageOverride {
			return v.fail(diag.ResInvalidStage, g.Init.Span, "module-scope 'var' initializer must be a constant or override-expression")
		}
		if !data.AddressSpace.IsValid() && !v.types.IsHandle(g.Type) {
			return v.fail(diag.ValAddressSpace, g.Span,
				"module-scope 'var' declarations that are not of texture or sampler types must provide an address space")
		}
		if !v.variable(g) {
			return false
		}
	case ast.DeclOverride:
		if !v.override(g, overrideIDs) {
			return false
		}
	}

	if g.Space == builtin.AddressSpaceFunction {
		return v.fail(diag.ValAddressSpace, g.Span, "module-scope 'var' must not use address space 'function'")
	}
	switch g.Space {
	case builtin.AddressSpaceUniform, builtin.AddressSpaceStorage, builtin.AddressSpaceHandle:
		if g.Binding == nil {
			return v.fail(diag.ValResourceBinding, g.Span, "resource variables require @group and @binding attributes")
		}
	default:
		if v.builder.Attrs.Has(decl.Attrs, ast.AttrBinding) || v.builder.Attrs.Has(decl.Attrs, ast.AttrGroup) {
			return v.fail(diag.ValResourceBinding, g.Span, "non-resource variables must not have @group or @binding attributes")
		}
	}
	return true
}

// variable holds the rules shared by module-scope and function-scope `var`.
func (v *Validator) variable(x *sem.Variable) bool {
	data, _ := v.builder.Decls.Var(x.Decl)
	store := x.Type
	if !v.isStorable(store) {
		return v.fail(diag.ValStorable, x.Span, "%s cannot be used as the type of a var", v.typeName(store))
	}
	if v.types.IsHandle(store) && data.AddressSpace.IsValid() {
		return v.fail(diag.ValAddressSpace, x.Span, "variables of type '%s' must not specify an address space", v.typeName(store))
	}
	if data.Access.IsValid() && x.Space != builtin.AddressSpaceStorage {
		return v.fail(diag.ValAccessMode, x.Span, "only variables in <storage> address space may specify an access mode")
	}
	if data.Init.IsValid() && x.Space != builtin.AddressSpacePrivate && x.Space != builtin.AddressSpaceFunction {
		return v.fail(diag.ValAddressSpace, x.Span,
			"var of address space '%s' cannot have an initializer. var initializers are only supported for the address spaces 'private' and 'function'", x.Space)
	}
	return v.TypeAccessAddressSpace(store, x.Access, x.Space, x.Span)
}

func (v *Validator) override(o *sem.Variable, ids map[uint16]*sem.Variable) bool {
	if o.Init != nil && o.Init.Stage > sem.StageOverride {
		return v.fail(diag.ResInvalidStage, o.Init.Span, "'override' initializer must be an override-expression")
	}
	if o.HasOverrideID {
		if prev, ok := ids[o.OverrideID]; ok && prev != o {
			span, _ := v.attrSpan(v.builder.Decls.Get(o.Decl).Attrs, ast.AttrIdent)
			prevSpan, _ := v.attrSpan(v.builder.Decls.Get(prev.Decl).Attrs, ast.AttrIdent)
			v.errorf(diag.ValOverrideID, span, "@id values must be unique").
				WithNote(prevSpan, fmt.Sprintf("a override with an ID of %d was previously declared here:", o.OverrideID)).
				Emit()
			return false
		}
	}
	if !v.types.IsScalar(o.Type) {
		return v.fail(diag.ValStorable, o.Span, "%s cannot be used as the type of a 'override'", v.typeName(o.Type))
	}
	return true
}

// LocalVariable checks a function-scope var, let or const.
func (v *Validator) LocalVariable(l *sem.Variable) bool {
	if !v.arrayWithOverrideCount(l.Type, l.Span) {
		return false
	}
	switch l.Kind {
	case ast.DeclVar:
		if l.Space != builtin.AddressSpaceFunction {
			return v.fail(diag.ValAddressSpace, l.Span, "function-scope 'var' declaration must use 'function' address space")
		}
		if !v.types.IsConstructible(l.Type) {
			return v.fail(diag.ValConstructible, l.Span, "function-scope 'var' must have a constructible type")
		}
		return v.variable(l)
	case ast.DeclLet:
		if !v.types.IsConstructible(l.Type) && v.types.Kind(l.Type) != types.KindPointer {
			return v.fail(diag.ValConstructible, l.Span, "%s cannot be used as the type of a 'let'", v.typeName(l.Type))
		}
	}
	return true
}

// Parameter checks the type of a function parameter.
func (v *Validator) Parameter(p *sem.Variable) bool {
	if pt, ok := v.types.Lookup(p.Type); ok && pt.Kind == types.KindPointer {
		allowed := false
		switch pt.Space {
		case builtin.AddressSpaceFunction, builtin.AddressSpacePrivate:
			allowed = true
		case builtin.AddressSpaceStorage, builtin.AddressSpaceUniform, builtin.AddressSpaceWorkgroup:
			allowed = v.enabled(builtin.ExtFullPtrParameters)
		}
		if !allowed {
			return v.fail(diag.ValParameter, p.Span, "function parameter of pointer type cannot be in '%s' address space", pt.Space)
		}
		return true
	}
	if v.isPlain(p.Type) {
		if !v.types.IsConstructible(p.Type) {
			return v.fail(diag.ValConstructible, p.Span, "type of function parameter must be constructible")
		}
		return true
	}
	if !v.types.IsHandle(p.Type) {
		return v.fail(diag.ValParameter, p.Span, "type of function parameter cannot be %s", v.typeName(p.Type))
	}
	return true
}
