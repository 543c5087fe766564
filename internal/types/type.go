package types

// RefQualifier is the reference qualifier of a member function.
type RefQualifier int

const (
	RefNone RefQualifier = iota
	RefLValue
	RefRValue
)

// String returns the declarator spelling of the qualifier.
func (r RefQualifier) String() string {
	switch r {
	case RefLValue:
		return "&"
	case RefRValue:
		return "&&"
	}
	return ""
}

// Type represents a type in the model. Values are immutable once built;
// every transformation returns a fresh Type.
type Type struct {
	Kind     Kind
	Const    bool
	Volatile bool
	Elem     *Type      // pointee, referent, array element or member object type
	Len      int        // array bound, -1 when unknown
	Decl     *Decl      // declaration of class, union and enum types; owner class of member pointers
	Sig      *Signature // function types and member function pointers
}

// Signature describes the parameters and result of a function type.
type Signature struct {
	Params   []*Type
	Result   *Type
	Variadic bool

	// Qualifiers of the implicit object parameter; only meaningful for
	// member function pointers.
	Const   bool
	RefQual RefQualifier
}

// Basic returns the unqualified fundamental type of kind k.
func Basic(k Kind) *Type { return &Type{Kind: k} }

// Void returns the void type.
func Void() *Type { return Basic(KindVoid) }

// PointerTo returns a pointer to elem.
func PointerTo(elem *Type) *Type { return &Type{Kind: KindPointer, Elem: elem} }

// LValueRefTo returns an lvalue reference to elem, collapsing references:
// T& & and T&& & both become T&.
func LValueRefTo(elem *Type) *Type {
	if elem.Kind.IsReference() {
		return LValueRefTo(elem.Elem)
	}
	return &Type{Kind: KindLValueRef, Elem: elem}
}

// RValueRefTo returns an rvalue reference to elem, collapsing references:
// T& && stays T&, T&& && becomes T&&.
func RValueRefTo(elem *Type) *Type {
	switch elem.Kind {
	case KindLValueRef:
		return elem
	case KindRValueRef:
		return RValueRefTo(elem.Elem)
	}
	return &Type{Kind: KindRValueRef, Elem: elem}
}

// ArrayOf returns an array of n elements; n < 0 means an unknown bound.
func ArrayOf(elem *Type, n int) *Type {
	if n < 0 {
		n = -1
	}
	return &Type{Kind: KindArray, Elem: elem, Len: n}
}

// FuncOf returns the function type result(params...).
func FuncOf(result *Type, params ...*Type) *Type {
	return &Type{Kind: KindFunction, Sig: &Signature{Params: params, Result: result}}
}

// MemberObjectPointerTo returns the type "member of owner of type elem".
func MemberObjectPointerTo(owner *Decl, elem *Type) *Type {
	return &Type{Kind: KindMemberObjectPointer, Decl: owner, Elem: elem}
}

// MemberFunctionPointerTo returns a pointer to a member function of owner.
func MemberFunctionPointerTo(owner *Decl, sig *Signature) *Type {
	return &Type{Kind: KindMemberFunctionPointer, Decl: owner, Sig: sig}
}

// Named returns the unqualified type declared by d.
func Named(d *Decl) *Type {
	k := KindClass
	switch d.Kind {
	case DeclUnion:
		k = KindUnion
	case DeclEnum:
		k = KindEnum
	}
	return &Type{Kind: k, Decl: d}
}

// clone returns a shallow copy of t.
func (t *Type) clone() *Type {
	c := *t
	return &c
}

// IsVoid reports whether t is (possibly cv-qualified) void.
func (t *Type) IsVoid() bool { return t != nil && t.Kind == KindVoid }

// IsReference reports whether t is an lvalue or rvalue reference.
func (t *Type) IsReference() bool { return t != nil && t.Kind.IsReference() }

// IsLValue reports whether an expression whose decltype is t is an lvalue.
func (t *Type) IsLValue() bool { return t != nil && t.Kind == KindLValueRef }

// Referent strips one level of reference; non-reference types are returned
// unchanged.
func (t *Type) Referent() *Type {
	if t.IsReference() {
		return t.Elem
	}
	return t
}

// IsClassLike reports whether t (after references) is a class or union.
func (t *Type) IsClassLike() bool {
	return t != nil && t.Referent().Kind.IsClassLike()
}

// ClassDecl returns the declaration of a class or union type, looking
// through references, or nil.
func (t *Type) ClassDecl() *Decl {
	if t == nil {
		return nil
	}
	r := t.Referent()
	if r.Kind.IsClassLike() {
		return r.Decl
	}
	return nil
}

// Identical reports whether a and b denote the same type, qualifiers
// included. Declared types are identical when they share a declaration.
func Identical(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if !a.Kind.IsReference() && a.Kind != KindFunction && a.Kind != KindArray {
		if a.Const != b.Const || a.Volatile != b.Volatile {
			return false
		}
	}
	switch a.Kind {
	case KindPointer, KindLValueRef, KindRValueRef:
		return Identical(a.Elem, b.Elem)
	case KindArray:
		return a.Len == b.Len && Identical(a.Elem, b.Elem)
	case KindFunction:
		return identicalSignatures(a.Sig, b.Sig)
	case KindMemberObjectPointer:
		return a.Decl == b.Decl && Identical(a.Elem, b.Elem)
	case KindMemberFunctionPointer:
		return a.Decl == b.Decl && identicalSignatures(a.Sig, b.Sig)
	case KindClass, KindUnion, KindEnum:
		return a.Decl == b.Decl
	}
	return true
}

func identicalSignatures(a, b *Signature) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic ||
		a.Const != b.Const || a.RefQual != b.RefQual {
		return false
	}
	if !Identical(a.Result, b.Result) {
		return false
	}
	for i := range a.Params {
		if !Identical(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

// SameUnqualified reports whether a and b are identical once top-level
// cv-qualifiers are removed from both.
func SameUnqualified(a, b *Type) bool {
	return Identical(RemoveCV(a), RemoveCV(b))
}
