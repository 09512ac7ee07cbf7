package types

import (
	"fmt"

	"fortio.org/safecast"

	"wgslfront/internal/source"
)

// StructMember is one member of a struct with its final layout.
type StructMember struct {
	Name   string
	Type   TypeID
	Span   source.Span
	Index  int
	Offset uint32
	Align  uint32
	Size   uint32
}

// StructInfo is the nominal part of a struct type.
type StructInfo struct {
	Name    string
	Span    source.Span
	Members []StructMember
	Align   uint32
	Size    uint32
	// SizeNoPadding is the end of the last member, before rounding to Align.
	SizeNoPadding uint32
	// NestDepth: 1 + max nest depth of member types.
	NestDepth uint32
}

// RegisterStruct allocates a new struct type. Members and layout are filled
// later through SetStructInfo once the member types are resolved.
func (in *Interner) RegisterStruct(name string, span source.Span) TypeID {
	idx, err := safecast.Conv[uint32](len(in.structs))
	if err != nil {
		panic(fmt.Errorf("struct count overflow: %w", err))
	}
	in.structs = append(in.structs, StructInfo{Name: name, Span: span})
	return in.internRaw(Type{Kind: KindStruct, Payload: idx})
}

// StructInfo returns the struct metadata for id, or nil for non-structs.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	if int(tt.Payload) >= len(in.structs) || tt.Payload == 0 {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// SetStructInfo replaces the members and layout of a registered struct.
func (in *Interner) SetStructInfo(id TypeID, info StructInfo) {
	cur, ok := in.StructInfo(id)
	if !ok {
		panic("types: SetStructInfo on non-struct")
	}
	*cur = info
}

// Member finds a struct member by name.
func (in *Interner) Member(id TypeID, name string) (*StructMember, bool) {
	info, ok := in.StructInfo(id)
	if !ok {
		return nil, false
	}
	for i := range info.Members {
		if info.Members[i].Name == name {
			return &info.Members[i], true
		}
	}
	return nil, false
}
