package sema

import (
	"fmt"

	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
)

// scopeStack holds function-scope names. Module scope is tc.globals.
type scopeStack struct {
	frames []map[string]*sem.Variable
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, make(map[string]*sem.Variable))
}

func (s *scopeStack) pop() {
	if len(s.frames) == 0 {
		diag.Panicf("resolve", "scope stack underflow")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) depth() int { return len(s.frames) }

func (s *scopeStack) lookup(name string) (*sem.Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// declare binds v in the innermost scope. A name already bound in the same
// scope is a redeclaration.
func (tc *typeChecker) declare(v *sem.Variable) bool {
	s := &tc.scopes
	if len(s.frames) == 0 {
		diag.Panicf("resolve", "declare '%s' outside of a scope", v.Name)
	}
	top := s.frames[len(s.frames)-1]
	if prev, ok := top[v.Name]; ok {
		diag.ReportError(tc.reporter, diag.ResRedeclaration, v.Span, fmt.Sprintf("redeclaration of '%s'", v.Name)).
			WithNote(prev.Span, fmt.Sprintf("'%s' previously declared here", v.Name)).
			Emit()
		return false
	}
	top[v.Name] = v
	return true
}

// withScope runs body inside a fresh block scope.
func (tc *typeChecker) withScope(body func() bool) bool {
	tc.scopes.push()
	defer tc.scopes.pop()
	return body()
}
