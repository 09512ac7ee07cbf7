package layout

import (
	"wgslfront/internal/types"
)

// TypeLayout is the memory layout of a type as seen by host-shareable
// address spaces.
type TypeLayout struct {
	Size  uint32
	Align uint32

	// Arrays only: distance between consecutive elements.
	Stride uint32

	// Structs only:
	MemberOffsets []uint32
}

// LayoutEngine computes memory layout for types.
type LayoutEngine struct {
	Types *types.Interner

	cache *cache
}

// New creates a new LayoutEngine over the given interner.
func New(typesIn *types.Interner) *LayoutEngine {
	return &LayoutEngine{
		Types: typesIn,
		cache: newCache(),
	}
}

type layoutState struct {
	stack []types.TypeID
	index map[types.TypeID]int
}

func newLayoutState() *layoutState {
	return &layoutState{
		index: make(map[types.TypeID]int, 16),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil {
		return TypeLayout{Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = newCache()
	}
	l, err := e.layoutOf(t, newLayoutState())
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *LayoutEngine) layoutOf(t types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	if cached, ok := e.cache.get(t); ok {
		return cached.Layout, cached.Err
	}

	if idx, ok := state.index[t]; ok {
		cycle := append([]types.TypeID(nil), state.stack[idx:]...)
		cycle = append(cycle, t)
		err := &LayoutError{Kind: LayoutErrRecursive, Type: t, Cycle: cycle}
		e.cache.put(t, &cacheEntry{Layout: TypeLayout{Align: 1}, Err: err})
		return TypeLayout{Align: 1}, err
	}

	state.index[t] = len(state.stack)
	state.stack = append(state.stack, t)
	l, err := e.computeLayout(t, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, t)

	e.cache.put(t, &cacheEntry{Layout: l, Err: err})
	return l, err
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (uint32, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (uint32, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// StrideOf returns the element stride of an array type.
func (e *LayoutEngine) StrideOf(t types.TypeID) (uint32, error) {
	l, err := e.LayoutOf(t)
	return l.Stride, err
}

// MemberOffset returns the byte offset of a struct member.
func (e *LayoutEngine) MemberOffset(structT types.TypeID, idx int) (uint32, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(l.MemberOffsets) {
		return 0, nil
	}
	return l.MemberOffsets[idx], nil
}

// Invalidate drops a cached layout. Struct layouts are cached by id, so a
// struct whose members are filled in after a first query must be
// invalidated.
func (e *LayoutEngine) Invalidate(t types.TypeID) {
	e.cache.put(t, nil)
}
