package sem

import "strings"

// Behavior is one way control can leave a statement.
type Behavior uint8

const (
	BehaviorNext Behavior = 1 << iota
	BehaviorReturn
	BehaviorBreak
	BehaviorContinue
)

// Behaviors is a set of Behavior.
type Behaviors uint8

// Next is the behavior of straight-line code.
const Next = Behaviors(BehaviorNext)

func Of(bs ...Behavior) Behaviors {
	var s Behaviors
	for _, b := range bs {
		s |= Behaviors(b)
	}
	return s
}

func (s Behaviors) Has(b Behavior) bool           { return s&Behaviors(b) != 0 }
func (s Behaviors) Add(b Behavior) Behaviors      { return s | Behaviors(b) }
func (s Behaviors) Remove(b Behavior) Behaviors   { return s &^ Behaviors(b) }
func (s Behaviors) Union(o Behaviors) Behaviors   { return s | o }
func (s Behaviors) Without(o Behaviors) Behaviors { return s &^ o }
func (s Behaviors) Empty() bool                   { return s == 0 }

func (s Behaviors) String() string {
	names := make([]string, 0, 4)
	for _, b := range []struct {
		b    Behavior
		name string
	}{{BehaviorNext, "Next"}, {BehaviorReturn, "Return"}, {BehaviorBreak, "Break"}, {BehaviorContinue, "Continue"}} {
		if s.Has(b.b) {
			names = append(names, b.name)
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
