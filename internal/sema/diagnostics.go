package sema

import (
	"fmt"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
)

// ruleFilter is one level of diagnostic control: module directives, a
// function's attributes or a statement's attributes.
type ruleFilter map[builtin.DiagnosticRule]builtin.DiagnosticSeverity

func (tc *typeChecker) applyEnables() {
	ext := tc.module.Extensions
	for _, en := range tc.builder.Module.Enables {
		for _, name := range en.Extensions {
			ext = ext.With(builtin.ParseExtension(tc.builder.Name(name.Name)))
		}
	}
	tc.module.Extensions = ext
}

func (tc *typeChecker) pushModuleFilters() {
	f := make(ruleFilter)
	for _, d := range tc.builder.Module.Diagnostics {
		tc.addControl(f, d.Control)
	}
	tc.filters = append(tc.filters, f)
}

// pushAttrFilters pushes the @diagnostic attributes of a function or statement.
// It returns false when there were none and nothing was pushed.
func (tc *typeChecker) pushAttrFilters(attrs []ast.AttrID) bool {
	var f ruleFilter
	for _, id := range attrs {
		a := tc.builder.Attrs.Get(id)
		if a == nil || a.Kind != ast.AttrDiagnostic || a.Diagnostic == nil {
			continue
		}
		if f == nil {
			f = make(ruleFilter)
		}
		tc.addControl(f, *a.Diagnostic)
	}
	if f == nil {
		return false
	}
	tc.filters = append(tc.filters, f)
	return true
}

func (tc *typeChecker) popFilters() {
	tc.filters = tc.filters[:len(tc.filters)-1]
}

func (tc *typeChecker) addControl(f ruleFilter, ctrl ast.DiagnosticControl) {
	category := ""
	if ctrl.Category.IsValid() {
		category = tc.builder.Name(ctrl.Category.Name)
	}
	name := tc.builder.Name(ctrl.Rule.Name)
	sev := builtin.ParseDiagnosticSeverity(tc.builder.Name(ctrl.Severity.Name))
	rule := builtin.ParseDiagnosticRule(category, name)
	if rule == 0 {
		// правила чужих категорий молча игнорируются
		if category == "" || category == "chromium" {
			full := name
			if category != "" {
				full = category + "." + name
			}
			diag.ReportWarning(tc.reporter, diag.ResUnknownDiagnosticRule, ctrl.Rule.Span,
				fmt.Sprintf("unrecognized diagnostic rule '%s'", full)).Emit()
		}
		return
	}
	if prev, ok := f[rule]; ok && prev != sev {
		tc.report(diag.ResConflictingDiagnostic, ctrl.Span, "conflicting diagnostic directive")
		return
	}
	f[rule] = sev
}

// severityOf resolves the effective severity of rule at the current position.
func (tc *typeChecker) severityOf(rule builtin.DiagnosticRule) builtin.DiagnosticSeverity {
	for i := len(tc.filters) - 1; i >= 0; i-- {
		if sev, ok := tc.filters[i][rule]; ok {
			return sev
		}
	}
	if sev, ok := tc.ruleSeverity[rule]; ok {
		return sev
	}
	return rule.DefaultSeverity()
}

// reportRule emits a filterable diagnostic with its effective severity.
func (tc *typeChecker) reportRule(rule builtin.DiagnosticRule, code diag.Code, span source.Span, msg string) {
	var b *diag.ReportBuilder
	switch tc.severityOf(rule) {
	case builtin.SeverityError:
		b = diag.ReportError(tc.reporter, code, span, msg)
	case builtin.SeverityWarning:
		b = diag.ReportWarning(tc.reporter, code, span, msg)
	case builtin.SeverityInfo:
		b = diag.ReportInfo(tc.reporter, code, span, msg)
	default:
		return
	}
	b.Emit()
}

func (tc *typeChecker) checkNFC(name ast.Ident) {
	if !name.IsValid() {
		return
	}
	s := tc.builder.Name(name.Name)
	if !lexer.IsNFC(s) {
		tc.reportRule(builtin.RuleIdentifierNotNFC, diag.ResIdentifierNotNFC, name.Span,
			fmt.Sprintf("identifier '%s' is not in normalization form C", s))
	}
}
