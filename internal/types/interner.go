package types

import (
	"fmt"

	"fortio.org/safecast"

	"wgslfront/internal/builtin"
)

// Builtins stores TypeIDs for the predeclared scalar types.
type Builtins struct {
	Invalid           TypeID
	Void              TypeID
	Bool              TypeID
	AbstractInt       TypeID
	AbstractFloat     TypeID
	I32               TypeID
	U32               TypeID
	F32               TypeID
	F16               TypeID
	Sampler           TypeID
	SamplerComparison TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Structs are nominal: two declarations with the same members are different types.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	structs  []StructInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 64),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.AbstractInt = in.Intern(Type{Kind: KindAbstractInt})
	in.builtins.AbstractFloat = in.Intern(Type{Kind: KindAbstractFloat})
	in.builtins.I32 = in.Intern(Type{Kind: KindI32})
	in.builtins.U32 = in.Intern(Type{Kind: KindU32})
	in.builtins.F32 = in.Intern(Type{Kind: KindF32})
	in.builtins.F16 = in.Intern(Type{Kind: KindF16})
	in.builtins.Sampler = in.Intern(Type{Kind: KindSampler})
	in.builtins.SamplerComparison = in.Intern(Type{Kind: KindSamplerComparison})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind is a shortcut that yields KindInvalid for unknown ids.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len is the number of interned types, including the invalid sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

// Shortcuts for composite construction.

func (in *Interner) Vector(elem TypeID, n uint8) TypeID {
	return in.Intern(MakeVector(elem, n))
}

func (in *Interner) Matrix(elem TypeID, cols, rows uint8) TypeID {
	return in.Intern(MakeMatrix(in.Vector(elem, rows), cols, rows))
}

func (in *Interner) Array(elem TypeID, count, stride uint32) TypeID {
	return in.Intern(MakeArray(elem, count, stride))
}

func (in *Interner) Pointer(space builtin.AddressSpace, store TypeID, access builtin.Access) TypeID {
	return in.Intern(MakePointer(space, store, access))
}

func (in *Interner) Reference(space builtin.AddressSpace, store TypeID, access builtin.Access) TypeID {
	return in.Intern(MakeReference(space, store, access))
}

// PointerToReference maps ptr<S, T, A> to ref<S, T, A> and back.
func (in *Interner) PointerToReference(id TypeID) TypeID {
	tt := in.MustLookup(id)
	tt.Kind = KindReference
	return in.Intern(tt)
}

func (in *Interner) ReferenceToPointer(id TypeID) TypeID {
	tt := in.MustLookup(id)
	tt.Kind = KindPointer
	return in.Intern(tt)
}
