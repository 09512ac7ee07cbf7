package types

// Predicates over interned types. All of them accept NoTypeID and answer false.

func (in *Interner) IsScalar(id TypeID) bool {
	switch in.Kind(id) {
	case KindBool, KindAbstractInt, KindAbstractFloat, KindI32, KindU32, KindF32, KindF16:
		return true
	}
	return false
}

func (in *Interner) IsNumericScalar(id TypeID) bool {
	return in.IsScalar(id) && in.Kind(id) != KindBool
}

func (in *Interner) IsIntegerScalar(id TypeID) bool {
	switch in.Kind(id) {
	case KindAbstractInt, KindI32, KindU32:
		return true
	}
	return false
}

func (in *Interner) IsSignedIntegerScalar(id TypeID) bool {
	k := in.Kind(id)
	return k == KindAbstractInt || k == KindI32
}

func (in *Interner) IsFloatScalar(id TypeID) bool {
	switch in.Kind(id) {
	case KindAbstractFloat, KindF32, KindF16:
		return true
	}
	return false
}

func (in *Interner) IsBool(id TypeID) bool { return in.Kind(id) == KindBool }

// scalarOrVector applies pred to id or to the element of a vector id.
func (in *Interner) scalarOrVector(id TypeID, pred func(TypeID) bool) bool {
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindVector {
		return pred(tt.Elem)
	}
	return pred(id)
}

func (in *Interner) IsIntegerScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsIntegerScalar)
}

func (in *Interner) IsSignedIntegerScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsSignedIntegerScalar)
}

func (in *Interner) IsFloatScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsFloatScalar)
}

func (in *Interner) IsNumericScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsNumericScalar)
}

func (in *Interner) IsBoolScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsBool)
}

func (in *Interner) IsScalarOrVector(id TypeID) bool {
	return in.scalarOrVector(id, in.IsScalar)
}

// IsAbstract reports abstract scalars and composites of them.
func (in *Interner) IsAbstract(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindAbstractInt, KindAbstractFloat:
		return true
	case KindVector, KindMatrix, KindArray:
		return in.IsAbstract(tt.Elem)
	}
	return false
}

func (in *Interner) IsHandle(id TypeID) bool {
	switch in.Kind(id) {
	case KindSampler, KindSamplerComparison, KindTexture:
		return true
	}
	return false
}

func (in *Interner) IsRuntimeArray(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindArray && tt.CountKind == CountRuntime
}

// ElemOf returns the element type of vectors, matrices (the scalar), arrays
// and atomics; the type itself for scalars.
func (in *Interner) ElemOf(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch tt.Kind {
	case KindVector, KindArray, KindAtomic:
		return tt.Elem
	case KindMatrix:
		return in.MustLookup(tt.Elem).Elem
	}
	return id
}

// DeepestElement unwraps arrays, matrices and vectors down to a scalar.
func (in *Interner) DeepestElement(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok {
			return NoTypeID
		}
		switch tt.Kind {
		case KindVector, KindArray, KindAtomic:
			id = tt.Elem
		case KindMatrix:
			id = in.MustLookup(tt.Elem).Elem
		default:
			return id
		}
	}
}

// UnwrapRef strips a reference: ref<S, T, A> -> T.
func (in *Interner) UnwrapRef(id TypeID) TypeID {
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindReference {
		return tt.Elem
	}
	return id
}

// IsConstructible: the type can be built with a value constructor and
// returned from functions.
func (in *Interner) IsConstructible(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindAbstractInt, KindAbstractFloat, KindI32, KindU32, KindF32, KindF16,
		KindVector, KindMatrix:
		return true
	case KindArray:
		return tt.CountKind == CountConstant && in.IsConstructible(tt.Elem)
	case KindStruct:
		info, _ := in.StructInfo(id)
		for _, m := range info.Members {
			if !in.IsConstructible(m.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// IsStorable: the type can be the store type of a variable.
func (in *Interner) IsStorable(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindI32, KindU32, KindF32, KindF16, KindVector, KindMatrix, KindAtomic:
		return true
	case KindArray:
		return in.IsStorable(tt.Elem)
	case KindStruct:
		info, _ := in.StructInfo(id)
		for _, m := range info.Members {
			if !in.IsStorable(m.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// IsHostShareable: the type may live in uniform, storage and push_constant memory.
func (in *Interner) IsHostShareable(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindI32, KindU32, KindF32, KindF16:
		return true
	case KindVector, KindMatrix, KindArray, KindAtomic:
		return in.IsHostShareable(in.ElemOf(id))
	case KindStruct:
		info, _ := in.StructInfo(id)
		for _, m := range info.Members {
			if !in.IsHostShareable(m.Type) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether pred holds for id or any type nested in it.
func (in *Interner) Contains(id TypeID, pred func(Type) bool) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	if pred(tt) {
		return true
	}
	switch tt.Kind {
	case KindVector, KindMatrix, KindArray, KindAtomic:
		return in.Contains(tt.Elem, pred)
	case KindStruct:
		info, _ := in.StructInfo(id)
		for _, m := range info.Members {
			if in.Contains(m.Type, pred) {
				return true
			}
		}
	}
	return false
}

func (in *Interner) ContainsF16(id TypeID) bool {
	return in.Contains(id, func(t Type) bool { return t.Kind == KindF16 })
}

func (in *Interner) ContainsAtomic(id TypeID) bool {
	return in.Contains(id, func(t Type) bool { return t.Kind == KindAtomic })
}

// NestDepth is the composite nesting depth: scalars 0, vectors 1, matrices 2,
// arrays and structs one more than their deepest element.
func (in *Interner) NestDepth(id TypeID) uint32 {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindVector:
		return 1
	case KindMatrix:
		return 2
	case KindArray, KindAtomic:
		return 1 + in.NestDepth(tt.Elem)
	case KindStruct:
		info, _ := in.StructInfo(id)
		return info.NestDepth
	}
	return 0
}
