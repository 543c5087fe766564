package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// CommonType resolves the common type of ts by folding the binary rule
// from the left. Zero types, or any failing step, yield NoResult.
func (o *Oracle) CommonType(ts ...*types.Type) types.Result {
	switch len(ts) {
	case 0:
		return types.NoResult
	case 1:
		return o.commonPair(ts[0], ts[0])
	}
	r := o.commonPair(ts[0], ts[1])
	for _, t := range ts[2:] {
		if !r.Ok() {
			return types.NoResult
		}
		r = o.commonPair(r.Type(), t)
	}
	return r
}

// HasCommonType reports whether CommonType(ts...) exists.
func (o *Oracle) HasCommonType(ts ...*types.Type) bool {
	return o.CommonType(ts...).Ok()
}

func (o *Oracle) commonPair(a, b *types.Type) types.Result {
	if t, ok := o.u.CommonTypeSpecialization(a, b); ok {
		return types.Some(t)
	}
	da, db := types.Decay(a), types.Decay(b)
	if t, ok := o.u.CommonTypeSpecialization(da, db); ok {
		return types.Some(t)
	}
	if types.Identical(da, db) {
		return types.Some(da)
	}
	if da.Kind == types.KindVoid || db.Kind == types.KindVoid {
		return types.NoResult
	}

	_, arithA := o.arithmeticKind(da)
	_, arithB := o.arithmeticKind(db)
	if arithA && arithB {
		return o.UsualArithmetic(da, db)
	}
	if r := o.CompositePointer(da, db); r.Ok() {
		return r
	}
	if da.Kind.IsClassLike() || db.Kind.IsClassLike() {
		return o.commonByConversion(da, db)
	}
	return types.NoResult
}

// CompositePointer merges two pointer-like operands the way the
// conditional operator does.
func (o *Oracle) CompositePointer(a, b *types.Type) types.Result {
	switch {
	case a.Kind == types.KindNullptr && isPointerLike(b):
		return types.Some(b)
	case b.Kind == types.KindNullptr && isPointerLike(a):
		return types.Some(a)
	case a.Kind != types.KindPointer || b.Kind != types.KindPointer:
		return types.NoResult
	}
	pa, pb := a.Elem, b.Elem
	merge := func(t *types.Type) *types.Type {
		if types.IsConst(pa) || types.IsConst(pb) {
			t = types.AddConst(t)
		}
		if types.IsVolatile(pa) || types.IsVolatile(pb) {
			t = types.AddVolatile(t)
		}
		return types.PointerTo(t)
	}
	switch {
	case types.SameUnqualified(pa, pb):
		return types.Some(merge(types.RemoveCV(pa)))
	case pa.Kind == types.KindVoid && pb.Kind != types.KindFunction,
		pb.Kind == types.KindVoid && pa.Kind != types.KindFunction:
		return types.Some(merge(types.Void()))
	case pa.Kind == types.KindClass && pb.Kind == types.KindClass:
		switch {
		case pa.Decl.IsBaseOf(pb.Decl):
			return types.Some(merge(types.RemoveCV(pa)))
		case pb.Decl.IsBaseOf(pa.Decl):
			return types.Some(merge(types.RemoveCV(pb)))
		}
	}
	return types.NoResult
}

func isPointerLike(t *types.Type) bool {
	return t.Kind == types.KindPointer || t.Kind == types.KindMemberObjectPointer ||
		t.Kind == types.KindMemberFunctionPointer
}

// commonByConversion picks the operand type the other converts to. When
// both or neither convert there is no common type.
func (o *Oracle) commonByConversion(a, b *types.Type) types.Result {
	ab := o.implicitRank(types.Declval(a), b, modeImplicit).Viable()
	ba := o.implicitRank(types.Declval(b), a, modeImplicit).Viable()
	switch {
	case ab && !ba:
		return types.Some(b)
	case ba && !ab:
		return types.Some(a)
	}
	return types.NoResult
}
