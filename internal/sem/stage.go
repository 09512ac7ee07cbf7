package sem

import "wgslfront/internal/diag"

// Stage is the earliest time an expression can be evaluated.
type Stage uint8

const (
	StageInvalid Stage = iota
	// StageNotEvaluated marks a subtree that is never evaluated, the right
	// operand of a short-circuited `&&` or `||`.
	StageNotEvaluated
	StageConstant
	StageOverride
	StageRuntime
)

func (s Stage) String() string {
	switch s {
	case StageNotEvaluated:
		return "not-evaluated"
	case StageConstant:
		return "const"
	case StageOverride:
		return "override"
	case StageRuntime:
		return "runtime"
	}
	return "invalid"
}

// Latest combines the stages of sub-expressions.
func Latest(stages ...Stage) Stage {
	out := StageConstant
	for _, s := range stages {
		if s > out {
			out = s
		}
	}
	return out
}

// ICE is raised (as a panic) on broken resolver invariants.
type ICE = diag.ICE
