package layout

import (
	"fmt"
	"strings"

	"wgslfront/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrRecursive indicates a struct that contains itself.
	LayoutErrRecursive LayoutErrorKind = iota + 1
	// LayoutErrOverflow: size or offset does not fit in 32 bits.
	LayoutErrOverflow
	// LayoutErrNoLayout: pointers, textures and samplers have no memory layout.
	LayoutErrNoLayout
	// LayoutErrBadAttribute: @align/@size/@offset/@stride violates the
	// natural layout of the member type.
	LayoutErrBadAttribute
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind   LayoutErrorKind
	Type   types.TypeID
	Cycle  []types.TypeID // LayoutErrRecursive
	Member int            // LayoutErrBadAttribute, index of the member
	Detail string
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrRecursive:
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("recursive type has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case LayoutErrOverflow:
		return fmt.Sprintf("type#%d: %s", e.Type, e.Detail)
	case LayoutErrNoLayout:
		return fmt.Sprintf("type#%d has no memory layout", e.Type)
	case LayoutErrBadAttribute:
		return e.Detail
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
