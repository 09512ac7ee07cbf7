package sema

import (
	"fmt"

	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
)

// Alias analysis is conservative and per root variable: two pointer arguments
// alias when they share a root, whatever part of it they point at.

// registerLoad records a read of the memory designated by e.
func (tc *typeChecker) registerLoad(e *sem.Expr) {
	if tc.fn == nil || e.Root == nil {
		return
	}
	info := &tc.fn.fn.Alias
	root := e.Root
	switch {
	case root.Global:
		if _, ok := info.ModuleScopeReads[root]; !ok {
			info.ModuleScopeReads[root] = e
			tc.aliasSites[e] = tc.fn.fn
		}
	case root.IsParam:
		info.ParameterReads[root] = struct{}{}
	}
}

// registerStore records a write through e: assignment, increment and the
// left side of a compound assignment.
func (tc *typeChecker) registerStore(e *sem.Expr) {
	if tc.fn == nil || e.Root == nil {
		return
	}
	info := &tc.fn.fn.Alias
	root := e.Root
	switch {
	case root.Global:
		if _, ok := info.ModuleScopeWrites[root]; !ok {
			info.ModuleScopeWrites[root] = e
			tc.aliasSites[e] = tc.fn.fn
		}
	case root.IsParam:
		info.ParameterWrites[root] = struct{}{}
	}
}

type aliasKind uint8

const (
	aliasArgument aliasKind = iota
	aliasModuleScope
)

// aliasAnalysis checks the pointer arguments of a call to a user function
// against each other and against the module-scope variables the callee
// touches, then propagates the callee's accesses to the caller.
func (tc *typeChecker) aliasAnalysis(callee *sem.Function, args []*sem.Expr) bool {
	if tc.fn == nil {
		return true
	}
	caller := &tc.fn.fn.Alias
	target := &callee.Alias

	fail := func(arg, other *sem.Expr, kind aliasKind, access string) bool {
		b := diag.ReportError(tc.reporter, diag.ResAliasedPointer, arg.Span, "invalid aliased pointer argument")
		switch kind {
		case aliasArgument:
			b.WithNote(other.Span, "aliases with another argument passed here")
		case aliasModuleScope:
			name := ""
			if f := tc.aliasSites[other]; f != nil {
				name = f.Name
			}
			b.WithNote(other.Span, fmt.Sprintf("aliases with module-scope variable %s in '%s'", access, name))
		}
		b.Emit()
		return false
	}

	argReads := make(map[*sem.Variable]*sem.Expr)
	argWrites := make(map[*sem.Variable]*sem.Expr)
	for i, arg := range args {
		if i >= len(callee.Params) || arg.Root == nil || tc.types.Kind(arg.Type) != types.KindPointer {
			continue
		}
		root := arg.Root
		param := callee.Params[i]
		if _, writes := target.ParameterWrites[param]; writes {
			if other, ok := argWrites[root]; ok {
				return fail(arg, other, aliasArgument, "write")
			}
			if other, ok := argReads[root]; ok {
				return fail(arg, other, aliasArgument, "read")
			}
			if other, ok := target.ModuleScopeReads[root]; ok {
				return fail(arg, other, aliasModuleScope, "read")
			}
			if other, ok := target.ModuleScopeWrites[root]; ok {
				return fail(arg, other, aliasModuleScope, "write")
			}
			argWrites[root] = arg
			switch {
			case root.Global:
				if _, ok := caller.ModuleScopeWrites[root]; !ok {
					caller.ModuleScopeWrites[root] = arg
					tc.aliasSites[arg] = tc.fn.fn
				}
			case root.IsParam:
				caller.ParameterWrites[root] = struct{}{}
			}
		} else if _, reads := target.ParameterReads[param]; reads {
			if other, ok := argWrites[root]; ok {
				return fail(arg, other, aliasArgument, "write")
			}
			if other, ok := target.ModuleScopeWrites[root]; ok {
				return fail(arg, other, aliasModuleScope, "write")
			}
			argReads[root] = arg
			switch {
			case root.Global:
				if _, ok := caller.ModuleScopeReads[root]; !ok {
					caller.ModuleScopeReads[root] = arg
					tc.aliasSites[arg] = tc.fn.fn
				}
			case root.IsParam:
				caller.ParameterReads[root] = struct{}{}
			}
		}
	}

	for v, e := range target.ModuleScopeReads {
		if _, ok := caller.ModuleScopeReads[v]; !ok {
			caller.ModuleScopeReads[v] = e
		}
	}
	for v, e := range target.ModuleScopeWrites {
		if _, ok := caller.ModuleScopeWrites[v]; !ok {
			caller.ModuleScopeWrites[v] = e
		}
	}
	return true
}
