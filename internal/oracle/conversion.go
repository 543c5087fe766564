package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Rank grades an implicit conversion sequence; lower is better.
type Rank int

const (
	RankIdentity Rank = iota
	RankQualified
	RankPromotion
	RankConversion
	RankBoolean
	RankUserDefined
	RankEllipsis
	RankNone
)

var rankNames = [...]string{
	RankIdentity:    "identity",
	RankQualified:   "qualification",
	RankPromotion:   "promotion",
	RankConversion:  "conversion",
	RankBoolean:     "boolean conversion",
	RankUserDefined: "user-defined",
	RankEllipsis:    "ellipsis",
	RankNone:        "none",
}

func (r Rank) String() string {
	if r >= 0 && int(r) < len(rankNames) {
		return rankNames[r]
	}
	return "unknown"
}

// Viable reports whether the conversion exists.
func (r Rank) Viable() bool { return r < RankNone }

// convMode limits which conversions a sequence may use.
type convMode uint8

const (
	// modeStandard forbids user-defined conversions; used for the inner
	// steps of a user-defined conversion.
	modeStandard convMode = iota
	modeImplicit
	// modeDirect also admits explicit constructors and conversion
	// functions.
	modeDirect
)

// Expressions are encoded by their decltype: an lvalue reference is an
// lvalue, an rvalue reference an xvalue and anything else a prvalue.

// ExprOf returns the expression type produced by a call whose declared
// result is r. Non-class prvalues lose their cv-qualifiers.
func ExprOf(r *types.Type) *types.Type {
	if r.IsReference() || r.Kind.IsClassLike() || r.Kind == types.KindArray {
		return r
	}
	return types.RemoveCV(r)
}

// ImplicitRank grades the implicit conversion of expression e to a
// parameter of type to.
func (o *Oracle) ImplicitRank(e, to *types.Type) Rank {
	return o.implicitRank(e, to, modeImplicit)
}

func (o *Oracle) implicitRank(e, to *types.Type, mode convMode) Rank {
	if e == nil || to == nil || e.Kind == types.KindVoid {
		return RankNone
	}
	if to.IsReference() {
		return o.bindRank(e, to, mode)
	}
	return o.copyInitRank(e, to, mode)
}

// related grades a reference-compatible pair: same type or base/derived.
func (o *Oracle) related(r, s *types.Type) Rank {
	if types.SameUnqualified(r, s) {
		return RankIdentity
	}
	if r.Kind == types.KindClass && s.Kind == types.KindClass && r.Decl.IsBaseOf(s.Decl) {
		return RankConversion
	}
	return RankNone
}

// cvCovers reports whether r is at least as qualified as s.
func cvCovers(r, s *types.Type) bool {
	return (!types.IsConst(s) || types.IsConst(r)) && (!types.IsVolatile(s) || types.IsVolatile(r))
}

func sameCV(r, s *types.Type) bool {
	return types.IsConst(r) == types.IsConst(s) && types.IsVolatile(r) == types.IsVolatile(s)
}

// bindsTemporaries reports whether a reference of kind ref binds
// rvalues: rvalue references and lvalue references to const non-volatile
// types.
func bindsTemporaries(ref *types.Type) bool {
	if ref.Kind == types.KindRValueRef {
		return true
	}
	r := ref.Elem
	return types.IsConst(r) && !types.IsVolatile(r)
}

func (o *Oracle) bindRank(e, ref *types.Type, mode convMode) Rank {
	r := ref.Elem
	s := e.Referent()
	lvalueRef := ref.Kind == types.KindLValueRef

	if r.Kind == types.KindFunction {
		if s.Kind == types.KindFunction && types.Identical(r, s) {
			return RankIdentity
		}
		return RankNone
	}

	if rel := o.related(r, s); rel.Viable() {
		if !cvCovers(r, s) {
			return RankNone
		}
		switch {
		case lvalueRef && !e.IsLValue() && !bindsTemporaries(ref):
			return RankNone
		case !lvalueRef && e.IsLValue():
			return RankNone
		}
		if rel == RankIdentity && !sameCV(r, s) {
			return RankQualified
		}
		return rel
	}

	// A class source may bind through a conversion function returning a
	// reference.
	if mode != modeStandard && s.Kind.IsClassLike() {
		for _, c := range s.Decl.AllConversions() {
			if c.Explicit && mode != modeDirect {
				continue
			}
			to := c.To
			if !to.IsReference() || (lvalueRef != to.IsLValue()) {
				continue
			}
			if o.related(r, to.Elem).Viable() && cvCovers(r, to.Elem) {
				return RankUserDefined
			}
		}
	}

	if !bindsTemporaries(ref) {
		return RankNone
	}
	return o.copyInitRank(e, types.RemoveCV(r), mode)
}

// lvalueTransform applies array-to-pointer and function-to-pointer
// conversion and drops top-level cv-qualifiers of the source object.
func lvalueTransform(s *types.Type) *types.Type {
	switch s.Kind {
	case types.KindArray:
		return types.PointerTo(s.Elem)
	case types.KindFunction:
		return types.PointerTo(s)
	}
	return types.RemoveCV(s)
}

func (o *Oracle) copyInitRank(e, to *types.Type, mode convMode) Rank {
	d := types.RemoveCV(to)
	switch d.Kind {
	case types.KindVoid, types.KindArray, types.KindFunction:
		return RankNone
	}
	src := e.Referent()

	if d.Kind.IsClassLike() {
		if src.Kind.IsClassLike() && d.Decl.IsBaseOf(src.Decl) && d.Kind == src.Kind {
			if !o.copySliceable(d.Decl, e) {
				return RankNone
			}
			if d.Decl == src.Decl {
				return RankIdentity
			}
			return RankConversion
		}
		if mode == modeStandard {
			return RankNone
		}
		return o.userConversion(e, d, mode)
	}

	if src.Kind.IsClassLike() {
		if mode == modeStandard {
			return RankNone
		}
		return o.userConversion(e, d, mode)
	}
	return o.standardRank(lvalueTransform(src), d)
}

// copySliceable reports whether an object of class d can be copy- or
// move-initialized from e, whose type is d or derived from d.
func (o *Oracle) copySliceable(d *types.Decl, e *types.Type) bool {
	if d.Flags.Has(types.FlagAbstract) {
		return false
	}
	src := e.Referent()
	if e.IsLValue() || types.IsConst(src) {
		return d.Specials.Has(types.SpecialCopyCtor)
	}
	return d.Specials.Has(types.SpecialMoveCtor) || d.Specials.Has(types.SpecialCopyCtor)
}

// standardRank grades a standard conversion between two cv-unqualified
// non-class, non-reference types.
func (o *Oracle) standardRank(s, d *types.Type) Rank {
	s, d = types.RemoveCV(s), types.RemoveCV(d)
	if types.Identical(s, d) {
		return RankIdentity
	}
	switch {
	case d.Kind == types.KindBool:
		switch {
		case s.Kind.IsArithmetic() || o.unscopedEnum(s):
			return RankConversion
		case s.Kind == types.KindPointer || s.Kind == types.KindMemberObjectPointer ||
			s.Kind == types.KindMemberFunctionPointer:
			return RankBoolean
		}
		return RankNone

	case d.Kind.IsArithmetic():
		sk, ok := o.arithmeticKind(s)
		if !ok {
			return RankNone
		}
		if s.Kind.IsIntegral() && o.IntegralPromotion(s.Kind) == d.Kind && s.Kind != d.Kind {
			return RankPromotion
		}
		if o.unscopedEnum(s) && sk == d.Kind {
			return RankPromotion
		}
		if s.Kind == types.KindFloat && d.Kind == types.KindDouble {
			return RankPromotion
		}
		return RankConversion

	case d.Kind == types.KindPointer:
		switch s.Kind {
		case types.KindNullptr:
			return RankConversion
		case types.KindPointer:
			return o.pointerRank(s.Elem, d.Elem)
		}
		return RankNone

	case d.Kind == types.KindMemberObjectPointer || d.Kind == types.KindMemberFunctionPointer:
		if s.Kind == types.KindNullptr {
			return RankConversion
		}
	}
	return RankNone
}

func (o *Oracle) pointerRank(se, de *types.Type) Rank {
	if !cvCovers(de, se) {
		return RankNone
	}
	switch {
	case types.SameUnqualified(se, de):
		return RankQualified
	case de.Kind == types.KindVoid && se.Kind != types.KindFunction:
		return RankConversion
	case se.Kind == types.KindClass && de.Kind == types.KindClass && de.Decl.IsBaseOf(se.Decl):
		return RankConversion
	}
	return RankNone
}

// userConversion grades the conversion of e to the non-reference type d
// through exactly one converting constructor of d or conversion function
// of e's class. Ambiguous user conversions are not viable.
func (o *Oracle) userConversion(e, d *types.Type, mode convMode) Rank {
	r, _ := o.userSequence(e, d, mode)
	return r
}

// userSequence is userConversion that also reports the grade of the
// standard conversion around the selected user-defined step, which
// breaks ties between otherwise equal user-defined sequences.
func (o *Oracle) userSequence(e, d *types.Type, mode convMode) (Rank, Rank) {
	best, count := RankNone, 0
	consider := func(r Rank) {
		if !r.Viable() {
			return
		}
		switch {
		case r < best:
			best, count = r, 1
		case r == best:
			count++
		}
	}

	if d.Kind.IsClassLike() && !d.Decl.Flags.Has(types.FlagAbstract) {
		for _, c := range d.Decl.Ctors {
			if len(c.Params) != 1 || (c.Explicit && mode != modeDirect) {
				continue
			}
			consider(o.implicitRank(e, c.Params[0], modeStandard))
		}
	}
	if src := e.Referent(); src.Kind.IsClassLike() {
		for _, c := range src.Decl.AllConversions() {
			if c.Explicit && mode != modeDirect {
				continue
			}
			consider(o.implicitRank(ExprOf(c.To), d, modeStandard))
		}
	}
	if count != 1 {
		return RankNone, RankNone
	}
	return RankUserDefined, best
}

// secondRank returns the tie-break grade of a user-defined conversion of
// e to a parameter of type to.
func (o *Oracle) secondRank(e, to *types.Type) Rank {
	if to.IsReference() {
		to = types.RemoveCV(to.Elem)
	}
	if to.Kind == types.KindFunction || to.Kind == types.KindVoid {
		return RankIdentity
	}
	_, second := o.userSequence(e, types.RemoveCV(to), modeImplicit)
	if !second.Viable() {
		// Bound directly through a conversion function returning a
		// reference.
		return RankIdentity
	}
	return second
}

// Convertible reports whether an expression std::declval<From>() can be
// implicitly converted to To.
func (o *Oracle) Convertible(from, to *types.Type) bool {
	switch {
	case to.Kind == types.KindVoid:
		return from.Kind == types.KindVoid
	case from.Kind == types.KindVoid:
		return false
	case to.Kind == types.KindArray, to.Kind == types.KindFunction:
		return false
	}
	return o.implicitRank(types.Declval(from), to, modeImplicit).Viable()
}

// ConvertibleExpr reports whether expression e converts implicitly to to.
func (o *Oracle) ConvertibleExpr(e, to *types.Type) bool {
	return o.implicitRank(e, to, modeImplicit).Viable()
}

// ContextuallyBool reports whether expression e can be used as the
// condition of an if statement. Explicit conversion functions count.
func (o *Oracle) ContextuallyBool(e *types.Type) bool {
	return o.implicitRank(e, types.Basic(types.KindBool), modeDirect).Viable()
}

// ConvertibleToBool reports whether a value of type t converts to bool
// implicitly.
func (o *Oracle) ConvertibleToBool(t *types.Type) bool {
	return o.Convertible(t, types.Basic(types.KindBool))
}
