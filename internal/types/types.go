package types

import (
	"fmt"

	"wgslfront/internal/builtin"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindAbstractInt
	KindAbstractFloat
	KindI32
	KindU32
	KindF32
	KindF16
	KindVector
	KindMatrix
	KindArray
	KindStruct
	KindAtomic
	KindPointer
	KindReference
	KindSampler
	KindSamplerComparison
	KindTexture // sampled, multisampled, depth and storage textures
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindVoid:              "void",
	KindBool:              "bool",
	KindAbstractInt:       "abstract-int",
	KindAbstractFloat:     "abstract-float",
	KindI32:               "i32",
	KindU32:               "u32",
	KindF32:               "f32",
	KindF16:               "f16",
	KindVector:            "vector",
	KindMatrix:            "matrix",
	KindArray:             "array",
	KindStruct:            "struct",
	KindAtomic:            "atomic",
	KindPointer:           "ptr",
	KindReference:         "ref",
	KindSampler:           "sampler",
	KindSamplerComparison: "sampler_comparison",
	KindTexture:           "texture",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ArrayCount says how the element count of an array is known.
type ArrayCount uint8

const (
	CountConstant        ArrayCount = iota // Count holds the value
	CountNamedOverride                     // Count holds the override variable index
	CountUnnamedOverride                   // Count holds the node of the count expression
	CountRuntime                           // runtime-sized, storage only
)

// TextureKind distinguishes texture families.
type TextureKind uint8

const (
	TextureSampled TextureKind = iota + 1
	TextureMultisampled
	TextureDepth
	TextureDepthMultisampled
	TextureStorage
)

// TextureDim is the dimensionality of a texture.
type TextureDim uint8

const (
	Dim1D TextureDim = iota + 1
	Dim2D
	Dim2DArray
	Dim3D
	DimCube
	DimCubeArray
)

var dimSuffix = [...]string{Dim1D: "1d", Dim2D: "2d", Dim2DArray: "2d_array", Dim3D: "3d", DimCube: "cube", DimCubeArray: "cube_array"}

func (d TextureDim) String() string {
	if int(d) < len(dimSuffix) && d != 0 {
		return dimSuffix[d]
	}
	return "?"
}

// Type is a compact descriptor for any supported type. Which fields matter
// depends on Kind:
//
//	vector     Elem, Width
//	matrix     Elem (column vector), Columns, Width (rows)
//	array      Elem, Count, CountKind, Stride
//	struct     Payload (index into the struct table)
//	atomic     Elem
//	ptr / ref  Elem (store type), Space, Access
//	texture    Texture, Dim, Elem (sampled type), Format, Access
type Type struct {
	Kind      Kind
	Elem      TypeID
	Width     uint8
	Columns   uint8
	Count     uint32
	CountKind ArrayCount
	Stride    uint32 // arrays: explicit @stride or 0 for implicit
	Space     builtin.AddressSpace
	Access    builtin.Access
	Texture   TextureKind
	Dim       TextureDim
	Format    builtin.TexelFormat
	Payload   uint32
}

// Descriptor helpers ---------------------------------------------------------

// MakeVector describes vecN<elem>.
func MakeVector(elem TypeID, n uint8) Type {
	return Type{Kind: KindVector, Elem: elem, Width: n}
}

// MakeMatrix describes matCxR; column is the vecR type.
func MakeMatrix(column TypeID, cols, rows uint8) Type {
	return Type{Kind: KindMatrix, Elem: column, Columns: cols, Width: rows}
}

// MakeArray describes a fixed-size array<elem, count>.
func MakeArray(elem TypeID, count, stride uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count, CountKind: CountConstant, Stride: stride}
}

// MakeRuntimeArray describes array<elem>.
func MakeRuntimeArray(elem TypeID, stride uint32) Type {
	return Type{Kind: KindArray, Elem: elem, CountKind: CountRuntime, Stride: stride}
}

// MakeOverrideArray describes an array whose count is an override expression.
// ref is the override variable (named) or the count expression node (unnamed).
func MakeOverrideArray(elem TypeID, kind ArrayCount, ref, stride uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: ref, CountKind: kind, Stride: stride}
}

func MakePointer(space builtin.AddressSpace, store TypeID, access builtin.Access) Type {
	return Type{Kind: KindPointer, Elem: store, Space: space, Access: access}
}

// MakeReference describes the type of an lvalue. References never appear in
// source, only as the type of expressions.
func MakeReference(space builtin.AddressSpace, store TypeID, access builtin.Access) Type {
	return Type{Kind: KindReference, Elem: store, Space: space, Access: access}
}

func MakeAtomic(elem TypeID) Type {
	return Type{Kind: KindAtomic, Elem: elem}
}

func MakeSampledTexture(kind TextureKind, dim TextureDim, sampled TypeID) Type {
	return Type{Kind: KindTexture, Texture: kind, Dim: dim, Elem: sampled}
}

func MakeDepthTexture(kind TextureKind, dim TextureDim) Type {
	return Type{Kind: KindTexture, Texture: kind, Dim: dim}
}

func MakeStorageTexture(dim TextureDim, format builtin.TexelFormat, access builtin.Access) Type {
	return Type{Kind: KindTexture, Texture: TextureStorage, Dim: dim, Format: format, Access: access}
}
