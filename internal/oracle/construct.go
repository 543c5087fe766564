package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// ctorCandidates lists the constructors of d: the available special
// members followed by the declared constructors.
func ctorCandidates(d *types.Decl) []Candidate {
	self := types.Named(d)
	var out []Candidate
	if d.Specials.Has(types.SpecialDefaultCtor) {
		out = append(out, Candidate{Name: d.Name, Result: self, Nothrow: d.Nothrow.Has(types.SpecialDefaultCtor)})
	}
	if d.Specials.Has(types.SpecialCopyCtor) {
		out = append(out, Candidate{
			Name:    d.Name,
			Params:  []*types.Type{types.LValueRefTo(types.AddConst(self))},
			Result:  self,
			Nothrow: d.Nothrow.Has(types.SpecialCopyCtor),
		})
	}
	if d.Specials.Has(types.SpecialMoveCtor) {
		out = append(out, Candidate{
			Name:    d.Name,
			Params:  []*types.Type{types.RValueRefTo(self)},
			Result:  self,
			Nothrow: d.Nothrow.Has(types.SpecialMoveCtor),
		})
	}
	for _, c := range d.Ctors {
		out = append(out, Candidate{
			Name:     d.Name,
			Params:   c.Params,
			Result:   self,
			Nothrow:  c.Noexcept,
			Explicit: c.Explicit,
		})
	}
	return out
}

// construction reports whether "T obj(args...)" is well-formed and, if
// so, whether it cannot throw.
func (o *Oracle) construction(t *types.Type, args []*types.Type) (ok, nothrow bool) {
	exprs := make([]*types.Type, len(args))
	for i, a := range args {
		if a.Kind == types.KindVoid {
			return false, false
		}
		exprs[i] = types.Declval(a)
	}
	return o.constructFrom(t, exprs)
}

// constructFrom is construction over expression types.
func (o *Oracle) constructFrom(t *types.Type, exprs []*types.Type) (ok, nothrow bool) {
	switch {
	case t.Kind == types.KindVoid, t.Kind == types.KindFunction:
		return false, false

	case t.IsReference():
		if len(exprs) != 1 {
			return false, false
		}
		ok := o.implicitRank(exprs[0], t, modeDirect).Viable()
		return ok, ok

	case t.Kind == types.KindArray:
		if t.Len < 0 || len(exprs) != 0 {
			return false, false
		}
		return o.constructFrom(t.Elem, nil)

	case t.Kind.IsClassLike():
		d := t.Decl
		if d.Flags.Has(types.FlagAbstract) || !d.Specials.Has(types.SpecialDestructor) {
			return false, false
		}
		c, ok := o.resolve(ctorCandidates(d), exprs, modeDirect)
		if !ok {
			return false, false
		}
		return true, c.Nothrow && d.Nothrow.Has(types.SpecialDestructor)
	}

	// Scalars: value-initialization or direct-initialization from one
	// argument.
	switch len(exprs) {
	case 0:
		return true, true
	case 1:
		ok := o.implicitRank(exprs[0], types.RemoveCV(t), modeDirect).Viable()
		return ok, ok
	}
	return false, false
}

// Constructible reports whether T can be constructed from arguments of
// the given types.
func (o *Oracle) Constructible(t *types.Type, args ...*types.Type) bool {
	ok, _ := o.construction(t, args)
	return ok
}

// NothrowConstructible is Constructible with a non-throwing selected
// constructor.
func (o *Oracle) NothrowConstructible(t *types.Type, args ...*types.Type) bool {
	ok, nothrow := o.construction(t, args)
	return ok && nothrow
}

func (o *Oracle) DefaultConstructible(t *types.Type) bool { return o.Constructible(t) }

// CopyConstructible is Constructible(T, const T&).
func (o *Oracle) CopyConstructible(t *types.Type) bool {
	if !o.Referenceable(t) {
		return false
	}
	return o.Constructible(t, types.LValueRefTo(types.AddConst(t)))
}

// MoveConstructible is Constructible(T, T&&).
func (o *Oracle) MoveConstructible(t *types.Type) bool {
	if !o.Referenceable(t) {
		return false
	}
	return o.Constructible(t, types.RValueRefTo(t))
}

func (o *Oracle) NothrowDefaultConstructible(t *types.Type) bool {
	return o.NothrowConstructible(t)
}

func (o *Oracle) NothrowCopyConstructible(t *types.Type) bool {
	return o.Referenceable(t) && o.NothrowConstructible(t, types.LValueRefTo(types.AddConst(t)))
}

func (o *Oracle) NothrowMoveConstructible(t *types.Type) bool {
	return o.Referenceable(t) && o.NothrowConstructible(t, types.RValueRefTo(t))
}

// assignCandidates lists the assignment operators of class d.
func assignCandidates(d *types.Decl) []Candidate {
	self := types.Named(d)
	ret := types.LValueRefTo(self)
	obj := &ObjectParam{Class: d}
	var out []Candidate
	for _, m := range d.LookupMethods("operator=") {
		out = append(out, MethodCandidate(d, m))
	}
	if d.Specials.Has(types.SpecialCopyAssign) {
		out = append(out, Candidate{
			Name:    "operator=",
			Object:  obj,
			Params:  []*types.Type{types.LValueRefTo(types.AddConst(self))},
			Result:  ret,
			Nothrow: d.Nothrow.Has(types.SpecialCopyAssign),
		})
	}
	if d.Specials.Has(types.SpecialMoveAssign) {
		out = append(out, Candidate{
			Name:    "operator=",
			Object:  obj,
			Params:  []*types.Type{types.RValueRefTo(self)},
			Result:  ret,
			Nothrow: d.Nothrow.Has(types.SpecialMoveAssign),
		})
	}
	return out
}

// assignment resolves "lhs = rhs" for two expressions.
func (o *Oracle) assignment(lhs, rhs *types.Type) (types.Result, bool) {
	l := lhs.Referent()
	if rhs.Kind == types.KindVoid {
		return types.NoResult, false
	}
	if l.Kind.IsClassLike() {
		c, ok := o.Resolve(assignCandidates(l.Decl), []*types.Type{lhs, rhs})
		if !ok {
			return types.NoResult, false
		}
		return types.Some(c.ResultExpr()), c.Nothrow
	}
	if !lhs.IsLValue() || types.IsConst(l) || l.Kind == types.KindArray ||
		l.Kind == types.KindFunction || l.Kind == types.KindVoid {
		return types.NoResult, false
	}
	if !o.implicitRank(rhs, types.RemoveCV(l), modeImplicit).Viable() {
		return types.NoResult, false
	}
	return types.Some(lhs), true
}

// AssignResult returns the type of the expression "lhs = rhs" where lhs
// and rhs are expression types.
func (o *Oracle) AssignResult(lhs, rhs *types.Type) types.Result {
	r, _ := o.assignment(lhs, rhs)
	return r
}

// Assignable reports whether declval<T>() = declval<U>() is well-formed.
func (o *Oracle) Assignable(t, u *types.Type) bool {
	if t.Kind == types.KindVoid {
		return false
	}
	return o.AssignResult(types.Declval(t), types.Declval(u)).Ok()
}

func (o *Oracle) NothrowAssignable(t, u *types.Type) bool {
	if t.Kind == types.KindVoid {
		return false
	}
	r, nothrow := o.assignment(types.Declval(t), types.Declval(u))
	return r.Ok() && nothrow
}

// CopyAssignable is Assignable(T&, const T&).
func (o *Oracle) CopyAssignable(t *types.Type) bool {
	if !o.Referenceable(t) {
		return false
	}
	return o.Assignable(types.LValueRefTo(t), types.LValueRefTo(types.AddConst(t)))
}

// MoveAssignable is Assignable(T&, T&&).
func (o *Oracle) MoveAssignable(t *types.Type) bool {
	if !o.Referenceable(t) {
		return false
	}
	return o.Assignable(types.LValueRefTo(t), types.RValueRefTo(t))
}

func (o *Oracle) NothrowCopyAssignable(t *types.Type) bool {
	return o.Referenceable(t) && o.NothrowAssignable(types.LValueRefTo(t), types.LValueRefTo(types.AddConst(t)))
}

func (o *Oracle) NothrowMoveAssignable(t *types.Type) bool {
	return o.Referenceable(t) && o.NothrowAssignable(types.LValueRefTo(t), types.RValueRefTo(t))
}

// Destructible reports whether an object of type T can be destroyed.
// References are always destructible; void, functions and arrays of
// unknown bound never are.
func (o *Oracle) Destructible(t *types.Type) bool {
	switch {
	case t.IsReference():
		return true
	case t.Kind == types.KindVoid, t.Kind == types.KindFunction:
		return false
	case t.Kind == types.KindArray:
		return t.Len >= 0 && o.Destructible(t.Elem)
	case t.Kind.IsClassLike():
		return t.Decl.Specials.Has(types.SpecialDestructor)
	}
	return true
}

func (o *Oracle) NothrowDestructible(t *types.Type) bool {
	switch {
	case !o.Destructible(t):
		return false
	case t.Kind == types.KindArray:
		return o.NothrowDestructible(t.Elem)
	case t.Kind.IsClassLike():
		return t.Decl.Nothrow.Has(types.SpecialDestructor)
	}
	return true
}

// StaticCastable reports whether static_cast<T>(declval<U>()) is
// well-formed.
func (o *Oracle) StaticCastable(t, u *types.Type) bool {
	if u.Kind == types.KindVoid {
		return t.Kind == types.KindVoid
	}
	return o.StaticCastExpr(t, types.Declval(u))
}

// StaticCastExpr reports whether static_cast<T>(e) is well-formed for
// the expression type e.
func (o *Oracle) StaticCastExpr(t, e *types.Type) bool {
	if t.Kind == types.KindVoid {
		return true
	}
	if e.Kind == types.KindVoid {
		return false
	}
	s := e.Referent()

	if t.IsReference() {
		r := t.Elem
		if o.implicitRank(e, t, modeDirect).Viable() {
			return true
		}
		// Downcasts from base to derived and lvalue to xvalue.
		if r.Kind == types.KindClass && s.Kind == types.KindClass && cvCovers(r, s) &&
			(s.Decl.IsBaseOf(r.Decl) || r.Decl.IsBaseOf(s.Decl)) {
			return t.Kind == types.KindRValueRef || e.IsLValue()
		}
		if t.Kind == types.KindRValueRef && types.SameUnqualified(r, s) && cvCovers(r, s) {
			return true
		}
		return false
	}

	if ok, _ := o.constructFrom(t, []*types.Type{e}); ok {
		return true
	}
	d, src := types.RemoveCV(t), lvalueTransform(s)
	switch {
	case d.Kind.IsIntegral() || d.Kind.IsFloating():
		return src.Kind == types.KindEnum || src.Kind.IsArithmetic()
	case d.Kind == types.KindEnum:
		return src.Kind.IsArithmetic() || src.Kind == types.KindEnum
	case d.Kind == types.KindPointer && src.Kind == types.KindPointer:
		de, se := d.Elem, src.Elem
		if !cvCovers(de, se) {
			return false
		}
		if se.Kind == types.KindVoid && de.Kind != types.KindFunction {
			return true
		}
		return de.Kind == types.KindClass && se.Kind == types.KindClass && se.Decl.IsBaseOf(de.Decl)
	}
	return false
}
