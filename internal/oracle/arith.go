package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// promotionTargets is the order in which wide character kinds look for a
// promoted type.
var promotionTargets = []types.Kind{
	types.KindInt, types.KindUInt, types.KindLong, types.KindULong,
	types.KindLongLong, types.KindULongLong,
}

// represents reports whether every value of src fits in target.
func (o *Oracle) represents(target, src types.Kind) bool {
	ts, ss := o.m.SizeOf(target), o.m.SizeOf(src)
	tsigned, ssigned := o.m.IsSigned(target), o.m.IsSigned(src)
	switch {
	case tsigned == ssigned:
		return ts >= ss
	case tsigned:
		return ts > ss
	}
	return false
}

// IntegralPromotion returns the kind an integral kind promotes to. Kinds
// of int rank or higher promote to themselves.
func (o *Oracle) IntegralPromotion(k types.Kind) types.Kind {
	switch k {
	case types.KindBool, types.KindChar, types.KindSChar, types.KindUChar,
		types.KindShort, types.KindUShort:
		if o.represents(types.KindInt, k) {
			return types.KindInt
		}
		return types.KindUInt
	case types.KindWChar, types.KindChar16, types.KindChar32:
		for _, c := range promotionTargets {
			if o.represents(c, k) {
				return c
			}
		}
		return types.KindULongLong
	}
	return k
}

// arithmeticKind returns the kind t takes part in arithmetic as: the
// kind itself for arithmetic types, the promoted underlying kind for
// unscoped enums.
func (o *Oracle) arithmeticKind(t *types.Type) (types.Kind, bool) {
	switch {
	case t.Kind.IsArithmetic():
		return t.Kind, true
	case o.unscopedEnum(t):
		return o.IntegralPromotion(t.Decl.Underlying.Kind), true
	}
	return types.KindVoid, false
}

func (o *Oracle) unscopedEnum(t *types.Type) bool {
	return t.Kind == types.KindEnum && t.Decl != nil && !t.Decl.Scoped && t.Decl.Underlying != nil
}

// Promoted returns the type an arithmetic or unscoped enum operand has
// after integral promotion, or NoResult for other types.
func (o *Oracle) Promoted(t *types.Type) types.Result {
	k, ok := o.arithmeticKind(types.RemoveCV(t))
	if !ok {
		return types.NoResult
	}
	if k.IsIntegral() {
		k = o.IntegralPromotion(k)
	}
	return types.Some(types.Basic(k))
}

var floatingOrder = map[types.Kind]int{
	types.KindFloat:      1,
	types.KindDouble:     2,
	types.KindLongDouble: 3,
}

// UsualArithmetic applies the usual arithmetic conversions to the operand
// types of a binary arithmetic operator.
func (o *Oracle) UsualArithmetic(a, b *types.Type) types.Result {
	ka, ok := o.arithmeticKind(types.RemoveCV(a))
	if !ok {
		return types.NoResult
	}
	kb, ok := o.arithmeticKind(types.RemoveCV(b))
	if !ok {
		return types.NoResult
	}
	return types.Some(types.Basic(o.usualKinds(ka, kb)))
}

func (o *Oracle) usualKinds(a, b types.Kind) types.Kind {
	if a.IsFloating() || b.IsFloating() {
		if floatingOrder[a] >= floatingOrder[b] {
			return a
		}
		return b
	}
	a, b = o.IntegralPromotion(a), o.IntegralPromotion(b)
	if a == b {
		return a
	}
	sa, sb := o.m.IsSigned(a), o.m.IsSigned(b)
	if sa == sb {
		if types.IntegerRank(a) >= types.IntegerRank(b) {
			return a
		}
		return b
	}
	u, s := a, b
	if sa {
		u, s = b, a
	}
	switch {
	case types.IntegerRank(u) >= types.IntegerRank(s):
		return u
	case o.represents(s, u):
		return s
	}
	return types.UnsignedOf(s)
}
