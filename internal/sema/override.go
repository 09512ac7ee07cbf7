package sema

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
)

// allocateOverrideIDs gives every override without @id the lowest id not yet
// claimed, in declaration order. Explicit ids are claimed first, so adding or
// removing an explicit @id never reorders the others.
func (tc *typeChecker) allocateOverrideIDs() {
	next := uint32(0)
	// module.Globals идут в порядке зависимостей, ids раздаются по исходному
	for _, id := range tc.builder.Module.Decls {
		g, ok := tc.module.Variable(id)
		if !ok || g.Kind != ast.DeclOverride || g.HasOverrideID {
			continue
		}
		for next <= maxOverrideID {
			if _, taken := tc.overrideIDs[uint16(next)]; !taken {
				break
			}
			next++
		}
		if next > maxOverrideID {
			tc.report(diag.ResInvalidAttribute, g.Span, "too many 'override' declarations, no free @id left for '%s'", g.Name)
			return
		}
		g.OverrideID, g.HasOverrideID = uint16(next), true
		tc.overrideIDs[g.OverrideID] = g
		next++
	}
}

// checkUnusedGlobals reports module-scope constants and private variables
// nothing refers to. Resources and overrides are part of the pipeline
// interface and never unused.
func (tc *typeChecker) checkUnusedGlobals() {
	for _, g := range tc.module.Globals {
		switch {
		case g.Kind == ast.DeclConst:
		case g.Kind == ast.DeclVar && (g.Space == builtin.AddressSpacePrivate || g.Space == builtin.AddressSpaceWorkgroup):
		default:
			continue
		}
		tc.reportUnused(g)
	}
}

// checkUnusedLocals runs while the function's diagnostic filters are still
// active.
func (tc *typeChecker) checkUnusedLocals(f *sem.Function) {
	for _, p := range f.Params {
		if f.IsEntryPoint() && hasIO(p.IO) {
			continue
		}
		tc.reportUnused(p)
	}
	for _, l := range f.Locals {
		tc.reportUnused(l)
	}
}

func (tc *typeChecker) reportUnused(v *sem.Variable) {
	if _, ok := tc.used[v]; ok {
		return
	}
	what := v.Kind.String()
	if v.IsParam {
		what = "parameter"
	}
	tc.reportRule(builtin.RuleUnusedValue, diag.ResUnusedValue, v.Span, fmt.Sprintf("%s '%s' is never used", what, v.Name))
}
