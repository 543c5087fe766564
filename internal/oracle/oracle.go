// Package oracle answers the atomic static facts about a type: its
// category, qualifiers, construction and assignment properties, and the
// relations between two types (same, base-of, convertible, common type).
// Every query is total: an inapplicable question yields false or
// types.NoResult, never an error.
package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Oracle answers facts against one Universe.
type Oracle struct {
	u *types.Universe
	m types.DataModel
}

// New creates a new oracle for u.
func New(u *types.Universe) *Oracle {
	return &Oracle{u: u, m: u.Model}
}

// Universe returns the universe the oracle reads.
func (o *Oracle) Universe() *types.Universe { return o.u }

// Model returns the platform data model.
func (o *Oracle) Model() types.DataModel { return o.m }

// ====== Primary categories ======

func (o *Oracle) Void(t *types.Type) bool          { return t.Kind == types.KindVoid }
func (o *Oracle) Nullptr(t *types.Type) bool       { return t.Kind == types.KindNullptr }
func (o *Oracle) Integral(t *types.Type) bool      { return t.Kind.IsIntegral() }
func (o *Oracle) FloatingPoint(t *types.Type) bool { return t.Kind.IsFloating() }
func (o *Oracle) Array(t *types.Type) bool         { return t.Kind == types.KindArray }
func (o *Oracle) Pointer(t *types.Type) bool       { return t.Kind == types.KindPointer }
func (o *Oracle) LvalueReference(t *types.Type) bool {
	return t.Kind == types.KindLValueRef
}
func (o *Oracle) RvalueReference(t *types.Type) bool {
	return t.Kind == types.KindRValueRef
}
func (o *Oracle) MemberObjectPointer(t *types.Type) bool {
	return t.Kind == types.KindMemberObjectPointer
}
func (o *Oracle) MemberFunctionPointer(t *types.Type) bool {
	return t.Kind == types.KindMemberFunctionPointer
}
func (o *Oracle) Enum(t *types.Type) bool         { return t.Kind == types.KindEnum }
func (o *Oracle) Union(t *types.Type) bool        { return t.Kind == types.KindUnion }
func (o *Oracle) Class(t *types.Type) bool        { return t.Kind == types.KindClass }
func (o *Oracle) FunctionType(t *types.Type) bool { return t.Kind == types.KindFunction }

// ====== Composite categories ======

func (o *Oracle) Reference(t *types.Type) bool  { return t.Kind.IsReference() }
func (o *Oracle) Arithmetic(t *types.Type) bool { return t.Kind.IsArithmetic() }

// Fundamental reports void, nullptr_t and the arithmetic types.
func (o *Oracle) Fundamental(t *types.Type) bool { return t.Kind.IsFundamental() }

// Object reports every type that is not a function, reference or void.
func (o *Oracle) Object(t *types.Type) bool {
	return !o.FunctionType(t) && !o.Reference(t) && !o.Void(t)
}

// Scalar reports arithmetic, enum, pointer, member pointer and nullptr_t.
func (o *Oracle) Scalar(t *types.Type) bool {
	return o.Arithmetic(t) || o.Enum(t) || o.Pointer(t) || o.MemberPointer(t) || o.Nullptr(t)
}

func (o *Oracle) Compound(t *types.Type) bool { return !o.Fundamental(t) }

func (o *Oracle) MemberPointer(t *types.Type) bool {
	return o.MemberObjectPointer(t) || o.MemberFunctionPointer(t)
}

// ====== Properties ======

func (o *Oracle) Const(t *types.Type) bool    { return types.IsConst(t) }
func (o *Oracle) Volatile(t *types.Type) bool { return types.IsVolatile(t) }

// Trivial reports scalars, arrays of trivial types and classes flagged
// trivial.
func (o *Oracle) Trivial(t *types.Type) bool {
	return o.layoutFlag(t, types.FlagTrivial)
}

// StandardLayout reports scalars, arrays of standard-layout types and
// classes flagged standard layout.
func (o *Oracle) StandardLayout(t *types.Type) bool {
	return o.layoutFlag(t, types.FlagStandardLayout)
}

func (o *Oracle) layoutFlag(t *types.Type, f types.ClassFlags) bool {
	t = types.RemoveAllExtents(t)
	switch {
	case o.Scalar(t):
		return true
	case t.Kind.IsDeclared():
		return t.Decl.Flags.Has(f)
	}
	return false
}

// Pod is trivial and standard layout.
func (o *Oracle) Pod(t *types.Type) bool { return o.Trivial(t) && o.StandardLayout(t) }

// LiteralType reports scalars, references, arrays of literal types and
// trivial classes.
func (o *Oracle) LiteralType(t *types.Type) bool {
	if o.Reference(t) || o.Void(t) {
		return true
	}
	return o.Trivial(t)
}

func (o *Oracle) Empty(t *types.Type) bool {
	return t.Kind.IsClassLike() && t.Decl.Flags.Has(types.FlagEmpty)
}

func (o *Oracle) Polymorphic(t *types.Type) bool {
	return t.Kind.IsClassLike() && t.Decl.Polymorphic()
}

func (o *Oracle) Abstract(t *types.Type) bool {
	return t.Kind.IsClassLike() && t.Decl.Flags.Has(types.FlagAbstract)
}

func (o *Oracle) HasVirtualDestructor(t *types.Type) bool {
	return t.Kind.IsClassLike() && t.Decl.VirtualDestructor()
}

// Signed reports arithmetic types for which T(-1) < T(0).
func (o *Oracle) Signed(t *types.Type) bool {
	return o.Arithmetic(t) && o.m.IsSigned(t.Kind)
}

// Unsigned reports integral types for which T(0) < T(-1).
func (o *Oracle) Unsigned(t *types.Type) bool {
	return o.Arithmetic(t) && o.m.IsUnsigned(t.Kind)
}

// ====== Relations ======

// Same reports whether t and u are the identical type.
func (o *Oracle) Same(t, u *types.Type) bool { return types.Identical(t, u) }

// BaseOf reports whether base is a base class of derived or the same class,
// ignoring cv-qualifiers.
func (o *Oracle) BaseOf(base, derived *types.Type) bool {
	if !base.Kind.IsClassLike() || !derived.Kind.IsClassLike() {
		return false
	}
	if base.Kind == types.KindUnion || derived.Kind == types.KindUnion {
		return base.Decl == derived.Decl && base.Kind == types.KindUnion
	}
	return base.Decl.IsBaseOf(derived.Decl)
}

// Derived is BaseOf with the arguments swapped.
func (o *Oracle) Derived(derived, base *types.Type) bool { return o.BaseOf(base, derived) }

// ====== Type property queries ======

// Rank returns the number of array dimensions of t.
func (o *Oracle) Rank(t *types.Type) int {
	n := 0
	for t.Kind == types.KindArray {
		n++
		t = t.Elem
	}
	return n
}

// Extent returns the bound of dimension n of t, or 0 when t has fewer
// dimensions or the bound is unknown.
func (o *Oracle) Extent(t *types.Type, n int) int {
	for i := 0; t.Kind == types.KindArray; i++ {
		if i == n {
			if t.Len < 0 {
				return 0
			}
			return t.Len
		}
		t = t.Elem
	}
	return 0
}

// Alignment returns alignof(t) under the universe's data model. Class
// types report 1 when empty and 0 otherwise, since the model carries no
// data members.
func (o *Oracle) Alignment(t *types.Type) int {
	t = types.RemoveAllExtents(types.RemoveReference(t))
	switch t.Kind {
	case types.KindVoid, types.KindFunction:
		return 0
	case types.KindPointer, types.KindMemberObjectPointer, types.KindMemberFunctionPointer, types.KindNullptr:
		return o.u.Model.PointerSize
	case types.KindEnum:
		return o.Alignment(t.Decl.Underlying)
	case types.KindClass, types.KindUnion:
		if t.Decl.Flags.Has(types.FlagEmpty) {
			return 1
		}
		return 0
	}
	size := o.u.Model.SizeOf(t.Kind)
	// long double is stored padded but aligned to at most the pointer size
	// on 32-bit models.
	if size > o.u.Model.PointerSize && t.Kind == types.KindLongDouble && o.u.Model.PointerSize < 8 {
		return o.u.Model.PointerSize
	}
	return size
}

// Referenceable reports whether T& can be formed.
func (o *Oracle) Referenceable(t *types.Type) bool {
	if o.Void(t) {
		return false
	}
	if o.FunctionType(t) && (t.Sig.Const || t.Sig.RefQual != types.RefNone) {
		return false
	}
	return true
}
