package types

// RemoveConst drops a top-level const qualifier.
func RemoveConst(t *Type) *Type {
	switch {
	case t.Kind == KindArray:
		c := t.clone()
		c.Elem = RemoveConst(t.Elem)
		return c
	case !t.Const:
		return t
	}
	c := t.clone()
	c.Const = false
	return c
}

// RemoveVolatile drops a top-level volatile qualifier.
func RemoveVolatile(t *Type) *Type {
	switch {
	case t.Kind == KindArray:
		c := t.clone()
		c.Elem = RemoveVolatile(t.Elem)
		return c
	case !t.Volatile:
		return t
	}
	c := t.clone()
	c.Volatile = false
	return c
}

// RemoveCV drops both top-level qualifiers.
func RemoveCV(t *Type) *Type { return RemoveVolatile(RemoveConst(t)) }

// AddConst const-qualifies t. References and functions are unaffected;
// arrays qualify their elements.
func AddConst(t *Type) *Type {
	switch t.Kind {
	case KindLValueRef, KindRValueRef, KindFunction:
		return t
	case KindArray:
		c := t.clone()
		c.Elem = AddConst(t.Elem)
		return c
	}
	if t.Const {
		return t
	}
	c := t.clone()
	c.Const = true
	return c
}

// AddVolatile volatile-qualifies t with the same rules as AddConst.
func AddVolatile(t *Type) *Type {
	switch t.Kind {
	case KindLValueRef, KindRValueRef, KindFunction:
		return t
	case KindArray:
		c := t.clone()
		c.Elem = AddVolatile(t.Elem)
		return c
	}
	if t.Volatile {
		return t
	}
	c := t.clone()
	c.Volatile = true
	return c
}

// AddCV adds both qualifiers.
func AddCV(t *Type) *Type { return AddVolatile(AddConst(t)) }

// IsConst reports whether t is const-qualified at the top level, looking
// into array elements the way qualifiers propagate.
func IsConst(t *Type) bool {
	if t.Kind == KindArray {
		return IsConst(t.Elem)
	}
	return t.Const && !t.Kind.IsReference() && t.Kind != KindFunction
}

// IsVolatile is IsConst for volatile.
func IsVolatile(t *Type) bool {
	if t.Kind == KindArray {
		return IsVolatile(t.Elem)
	}
	return t.Volatile && !t.Kind.IsReference() && t.Kind != KindFunction
}

// RemoveReference strips a reference, if any.
func RemoveReference(t *Type) *Type { return t.Referent() }

// AddLValueReference returns T&. void has no reference form and is
// returned unchanged.
func AddLValueReference(t *Type) *Type {
	if t.Kind == KindVoid {
		return t
	}
	return LValueRefTo(t)
}

// AddRValueReference returns T&& with reference collapsing; void is
// returned unchanged.
func AddRValueReference(t *Type) *Type {
	if t.Kind == KindVoid {
		return t
	}
	return RValueRefTo(t)
}

// RequireLValueReference is AddLValueReference that reports void as
// NoResult instead of passing it through.
func RequireLValueReference(t *Type) Result {
	if t == nil || t.Kind == KindVoid {
		return NoResult
	}
	return Some(LValueRefTo(t))
}

// RequireRValueReference is the rvalue counterpart of
// RequireLValueReference.
func RequireRValueReference(t *Type) Result {
	if t == nil || t.Kind == KindVoid {
		return NoResult
	}
	return Some(RValueRefTo(t))
}

// Declval returns the decltype of std::declval<T>(): an xvalue for object
// types, an lvalue for lvalue references.
func Declval(t *Type) *Type { return AddRValueReference(t) }

// Lvalue returns the decltype of a named variable of type t used as an
// expression.
func Lvalue(t *Type) *Type { return AddLValueReference(t) }

// Decay applies the by-value parameter adjustments: references and
// cv-qualifiers are dropped, arrays become element pointers and functions
// become function pointers.
func Decay(t *Type) *Type {
	u := RemoveReference(t)
	switch u.Kind {
	case KindArray:
		return PointerTo(u.Elem)
	case KindFunction:
		return PointerTo(u)
	}
	return RemoveCV(u)
}

// RemoveExtent drops the outermost array dimension.
func RemoveExtent(t *Type) *Type {
	if t.Kind == KindArray {
		return t.Elem
	}
	return t
}

// RemoveAllExtents drops every array dimension.
func RemoveAllExtents(t *Type) *Type {
	for t.Kind == KindArray {
		t = t.Elem
	}
	return t
}

// Underlying returns the underlying integer type of an enum.
func Underlying(t *Type) Result {
	if t.Kind != KindEnum || t.Decl == nil {
		return NoResult
	}
	return Some(t.Decl.Underlying)
}

// withQualifiers copies the cv-qualifiers of from onto t.
func withQualifiers(t, from *Type) *Type {
	if from.Const {
		t = AddConst(t)
	}
	if from.Volatile {
		t = AddVolatile(t)
	}
	return t
}

// MakeSigned returns the signed counterpart of an integral or enum type,
// cv-qualifiers preserved. bool and non-integral types yield NoResult.
func (m DataModel) MakeSigned(t *Type) Result {
	k, ok := m.rebased(t, signedIntegers, SignedOf)
	if !ok {
		return NoResult
	}
	return Some(withQualifiers(Basic(k), t))
}

// MakeUnsigned returns the unsigned counterpart of an integral or enum
// type, cv-qualifiers preserved.
func (m DataModel) MakeUnsigned(t *Type) Result {
	k, ok := m.rebased(t, unsignedIntegers, UnsignedOf)
	if !ok {
		return NoResult
	}
	return Some(withQualifiers(Basic(k), t))
}

// rebased maps t onto chain. Standard integer kinds map by partner; char
// kinds and enums map to the smallest chain member of the same size.
func (m DataModel) rebased(t *Type, chain []Kind, partner func(Kind) Kind) (Kind, bool) {
	k := t.Kind
	size := 0
	switch {
	case k == KindBool:
		return KindVoid, false
	case k == KindEnum:
		if t.Decl == nil || t.Decl.Underlying == nil {
			return KindVoid, false
		}
		size = m.SizeOfType(t.Decl.Underlying)
	case k == KindChar, k == KindWChar, k == KindChar16, k == KindChar32:
		size = m.SizeOf(k)
	case k.IsIntegral():
		p := partner(k)
		for _, c := range chain {
			if c == p {
				return p, true
			}
		}
		return k, true
	default:
		return KindVoid, false
	}
	return m.smallestOfSize(chain, size)
}
