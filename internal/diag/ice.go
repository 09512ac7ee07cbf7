package diag

import "fmt"

// ICE is an internal compiler error: a broken invariant of the front end
// itself, never of the input. Phases panic with *ICE; the driver recovers it
// and turns it into an IOInternal diagnostic for that compilation only.
type ICE struct {
	Phase string
	Msg   string
}

func (e *ICE) Error() string {
	return fmt.Sprintf("internal compiler error (%s): %s", e.Phase, e.Msg)
}

// Panicf panics with an *ICE.
func Panicf(phase, format string, args ...any) {
	panic(&ICE{Phase: phase, Msg: fmt.Sprintf(format, args...)})
}

// AsICE extracts an *ICE from a recovered panic value.
func AsICE(r any) (*ICE, bool) {
	ice, ok := r.(*ICE)
	return ice, ok
}
