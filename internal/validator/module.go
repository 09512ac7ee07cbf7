package validator

import (
	"fmt"
	"slices"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
)

// Module runs the checks that need the whole call graph: what each entry
// point's stage allows in everything it reaches.
func (v *Validator) Module() bool {
	ok := true
	for _, ep := range v.module.EntryPoints {
		if !v.pipelineStage(ep) {
			ok = false
		}
		if !v.pushConstants(ep) {
			ok = false
		}
	}
	return ok
}

func (v *Validator) pipelineStage(ep *sem.Function) bool {
	if ep.Stage != sem.StageCompute {
		for _, g := range ep.TransitiveGlobals {
			if g.Space == builtin.AddressSpaceWorkgroup {
				v.errorf(diag.ValAddressSpace, g.Span, "workgroup memory cannot be used by %s pipeline stage", ep.Stage).
					WithNote(ep.Span, fmt.Sprintf("called by entry point '%s'", ep.Name)).
					Emit()
				return false
			}
		}
	}
	for _, call := range ep.RestrictedBuiltins {
		if slices.Contains(call.Stages, ep.Stage) {
			continue
		}
		v.errorf(diag.ValBuiltinStage, call.Span, "built-in cannot be used by %s pipeline stage", ep.Stage).
			WithNote(ep.Span, fmt.Sprintf("called by entry point '%s'", ep.Name)).
			Emit()
		return false
	}
	if ep.DiscardsFragment && ep.Stage != sem.StageFragment {
		v.errorf(diag.ValBuiltinStage, ep.DiscardSpan, "discard statement cannot be used in %s pipeline stage", ep.Stage).
			WithNote(ep.Span, fmt.Sprintf("called by entry point '%s'", ep.Name)).
			Emit()
		return false
	}
	return true
}

func (v *Validator) pushConstants(ep *sem.Function) bool {
	var first *sem.Variable
	for _, g := range ep.TransitiveGlobals {
		if g.Space != builtin.AddressSpacePushConstant {
			continue
		}
		if first == nil {
			first = g
			continue
		}
		v.errorf(diag.ValAddressSpace, ep.Span, "entry point '%s' uses two different 'push_constant' variables.", ep.Name).
			WithNote(first.Span, "first 'push_constant' variable declaration is here").
			WithNote(g.Span, "second 'push_constant' variable declaration is here").
			Emit()
		return false
	}
	return true
}
