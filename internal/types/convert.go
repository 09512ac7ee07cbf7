package types

// NoConversion is returned by ConversionRank when from cannot become to.
const NoConversion = -1

// ConversionRank orders automatic conversions of abstract types. Lower is
// preferred; 0 means identical types.
//
//	abstract-float -> f32 (1), f16 (2)
//	abstract-int   -> i32 (3), u32 (4), abstract-float (5), f32 (6), f16 (7)
//
// Composites convert element-wise when their shapes agree.
func (in *Interner) ConversionRank(from, to TypeID) int {
	if from == to {
		return 0
	}
	ft, fok := in.Lookup(from)
	tt, tok := in.Lookup(to)
	if !fok || !tok {
		return NoConversion
	}
	switch ft.Kind {
	case KindAbstractFloat:
		switch tt.Kind {
		case KindF32:
			return 1
		case KindF16:
			return 2
		}
	case KindAbstractInt:
		switch tt.Kind {
		case KindI32:
			return 3
		case KindU32:
			return 4
		case KindAbstractFloat:
			return 5
		case KindF32:
			return 6
		case KindF16:
			return 7
		}
	case KindVector:
		if tt.Kind == KindVector && ft.Width == tt.Width {
			return in.ConversionRank(ft.Elem, tt.Elem)
		}
	case KindMatrix:
		if tt.Kind == KindMatrix && ft.Columns == tt.Columns && ft.Width == tt.Width {
			return in.ConversionRank(ft.Elem, tt.Elem)
		}
	case KindArray:
		if tt.Kind == KindArray && ft.CountKind == CountConstant && tt.CountKind == CountConstant && ft.Count == tt.Count {
			return in.ConversionRank(ft.Elem, tt.Elem)
		}
	}
	return NoConversion
}

// CanConvert reports whether from converts to to automatically.
func (in *Interner) CanConvert(from, to TypeID) bool {
	return in.ConversionRank(from, to) != NoConversion
}

// CommonType returns the type every input converts to with the lowest total
// rank. Only the inputs themselves are candidates, as in the language rules.
func (in *Interner) CommonType(ids ...TypeID) (TypeID, bool) {
	best, bestRank := NoTypeID, -1
	for _, cand := range ids {
		total := 0
		for _, id := range ids {
			r := in.ConversionRank(id, cand)
			if r == NoConversion {
				total = -1
				break
			}
			total += r
		}
		if total >= 0 && (bestRank < 0 || total < bestRank) {
			best, bestRank = cand, total
		}
	}
	return best, best != NoTypeID
}

// Concrete materializes abstract types: abstract-int -> i32, abstract-float -> f32,
// element-wise for composites. Concrete types are returned unchanged.
func (in *Interner) Concrete(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindAbstractInt:
		return in.builtins.I32
	case KindAbstractFloat:
		return in.builtins.F32
	case KindVector, KindMatrix, KindArray:
		if !in.IsAbstract(id) {
			return id
		}
		tt.Elem = in.Concrete(tt.Elem)
		return in.Intern(tt)
	}
	return id
}

// WithElement rebuilds a scalar, vector, matrix or array type with a new
// deepest element type.
func (in *Interner) WithElement(id, elem TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindVector, KindMatrix, KindArray:
		tt.Elem = in.WithElement(tt.Elem, elem)
		return in.Intern(tt)
	}
	if in.IsScalar(id) {
		return elem
	}
	return id
}
