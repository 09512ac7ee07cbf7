package sema

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/source"
)

// checkAttrs rejects attributes written on the wrong kind of declaration and
// repeated attributes. @diagnostic may repeat; its rules are checked when the
// filter is pushed.
func (tc *typeChecker) checkAttrs(list []ast.AttrID, target ast.AttrTargetMask) bool {
	ok := true
	seen := make(map[ast.AttrKind]source.Span, len(list))
	for _, id := range list {
		a := tc.builder.Attrs.Get(id)
		if a == nil {
			continue
		}
		spec, _ := ast.AttrSpecByKind(a.Kind)
		if !spec.Allows(target) {
			tc.report(diag.ResInvalidAttribute, a.Span, "@%s is not valid for %s", spec.Name, target)
			ok = false
			continue
		}
		if a.Kind == ast.AttrDiagnostic {
			continue
		}
		if prev, dup := seen[a.Kind]; dup {
			diag.ReportError(tc.reporter, diag.ResInvalidAttribute, a.Span, fmt.Sprintf("duplicate %s attribute", spec.Name)).
				WithNote(prev, "first attribute declared here").
				Emit()
			ok = false
			continue
		}
		seen[a.Kind] = a.Span
	}
	return ok
}

func (tc *typeChecker) attrName(a *ast.Attr) string {
	if a.Name.IsValid() {
		return tc.builder.Name(a.Name.Name)
	}
	spec, _ := ast.AttrSpecByKind(a.Kind)
	return spec.Name
}

// constU32Arg evaluates the single argument of @align, @location and friends.
// The value must be a non-negative integer known at shader-creation time.
func (tc *typeChecker) constU32Arg(a *ast.Attr) (uint32, bool) {
	arg := a.Args[0]
	e, ok := tc.valueExpr(arg)
	if !ok {
		return 0, false
	}
	name := tc.attrName(a)
	span := tc.exprSpan(arg)
	if !tc.types.IsIntegerScalar(e.Type) {
		tc.report(diag.ResInvalidAttribute, span, "@%s must be an i32 or u32 value", name)
		return 0, false
	}
	if e.Stage != sem.StageConstant || e.Value == nil {
		tc.report(diag.ResInvalidAttribute, span, "@%s requires a const-expression, but expression is %s-expression", name, stageWord(e.Stage))
		return 0, false
	}
	n := e.Value.Int
	if n < 0 {
		tc.report(diag.ResInvalidAttribute, span, "@%s value must be non-negative", name)
		return 0, false
	}
	if n > int64(^uint32(0)) {
		tc.report(diag.ResInvalidAttribute, span, "@%s value must be less than 4294967296", name)
		return 0, false
	}
	return uint32(n), true
}

func stageWord(s sem.Stage) string {
	switch s {
	case sem.StageOverride:
		return "an override"
	case sem.StageRuntime:
		return "a runtime"
	}
	return "a " + s.String()
}

// ioAttributes collects @location, @builtin, @interpolate and @invariant.
// Whether they make sense for the owner is up to the validator.
func (tc *typeChecker) ioAttributes(list []ast.AttrID, owner source.Span) (sem.IOAttributes, bool) {
	io := sem.IOAttributes{Span: owner}
	ok := true
	for _, id := range list {
		a := tc.builder.Attrs.Get(id)
		if a == nil {
			continue
		}
		switch a.Kind {
		case ast.AttrLocation:
			loc, good := tc.constU32Arg(a)
			if !good {
				ok = false
				continue
			}
			io.Location = &loc
		case ast.AttrBuiltin:
			v, good := enumArg(tc, a.Args[0], "builtin value", builtin.ParseValue, builtin.ValueStrings())
			if !good {
				ok = false
				continue
			}
			io.Builtin = v
		case ast.AttrInterpolate:
			t, good := enumArg(tc, a.Args[0], "interpolation type", builtin.ParseInterpolationType, builtin.InterpolationTypeStrings())
			if !good {
				ok = false
				continue
			}
			io.Interpolation = t
			if len(a.Args) > 1 {
				s, good := enumArg(tc, a.Args[1], "interpolation sampling", builtin.ParseInterpolationSampling, builtin.InterpolationSamplingStrings())
				if !good {
					ok = false
					continue
				}
				io.Sampling = s
			}
		case ast.AttrInvariant:
			io.Invariant = true
		}
	}
	return io, ok
}
