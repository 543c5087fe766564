package types

// DeclKind distinguishes the declarations a Universe can hold.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclUnion
	DeclEnum
)

// String returns the keyword for the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclUnion:
		return "union"
	case DeclEnum:
		return "enum"
	}
	return "class"
}

// Specials is a set of special member functions.
type Specials uint8

const (
	SpecialDefaultCtor Specials = 1 << iota
	SpecialCopyCtor
	SpecialMoveCtor
	SpecialCopyAssign
	SpecialMoveAssign
	SpecialDestructor

	AllSpecials = SpecialDefaultCtor | SpecialCopyCtor | SpecialMoveCtor |
		SpecialCopyAssign | SpecialMoveAssign | SpecialDestructor
)

// Has reports whether every member of m is in s.
func (s Specials) Has(m Specials) bool { return s&m == m }

// ClassFlags records layout and polymorphism properties of a class.
type ClassFlags uint8

const (
	FlagTrivial ClassFlags = 1 << iota
	FlagStandardLayout
	FlagEmpty
	FlagPolymorphic
	FlagAbstract
	FlagVirtualDestructor
)

// Has reports whether every flag of m is in f.
func (f ClassFlags) Has(m ClassFlags) bool { return f&m == m }

// Method is a member function. Overloaded operators are methods whose
// name is the operator spelling, e.g. "operator==" or "operator++".
type Method struct {
	Name     string
	Params   []*Type
	Result   *Type
	Const    bool
	RefQual  RefQualifier
	Static   bool
	Noexcept bool
}

// Ctor is a constructor other than the special members tracked in Specials.
type Ctor struct {
	Params   []*Type
	Explicit bool
	Noexcept bool
}

// Conversion is a conversion function "operator To()".
type Conversion struct {
	To       *Type
	Explicit bool
}

// Function is a free function; scope functions of a Decl are the ones
// found by type-scoped lookup.
type Function struct {
	Name   string
	Params []*Type
	Result *Type
}

// Decl is a class, union or enum declaration.
type Decl struct {
	Name  string
	Kind  DeclKind
	Bases []*Decl

	// Nested holds declared member types keyed by name, e.g. "value_type".
	Nested map[string]*Type

	Methods     []*Method
	Ctors       []*Ctor
	Conversions []*Conversion
	Scope       []*Function

	Specials Specials
	Nothrow  Specials
	Flags    ClassFlags

	// Enum only.
	Underlying *Type
	Scoped     bool
}

// NewClass returns a class declaration with every special member available
// and non-throwing.
func NewClass(name string) *Decl {
	return &Decl{
		Name:     name,
		Kind:     DeclClass,
		Nested:   make(map[string]*Type),
		Specials: AllSpecials,
		Nothrow:  AllSpecials,
	}
}

// NewUnion returns a union declaration with every special member available.
func NewUnion(name string) *Decl {
	d := NewClass(name)
	d.Kind = DeclUnion
	return d
}

// NewEnum returns an enum declaration. A nil underlying type means int.
func NewEnum(name string, underlying *Type, scoped bool) *Decl {
	if underlying == nil {
		underlying = Basic(KindInt)
	}
	return &Decl{
		Name:       name,
		Kind:       DeclEnum,
		Nested:     make(map[string]*Type),
		Specials:   AllSpecials,
		Nothrow:    AllSpecials,
		Flags:      FlagTrivial | FlagStandardLayout,
		Underlying: underlying,
		Scoped:     scoped,
	}
}

// Type returns the unqualified type named by the declaration.
func (d *Decl) Type() *Type { return Named(d) }

// AddMethod appends a member function and returns d for chaining.
func (d *Decl) AddMethod(m *Method) *Decl {
	d.Methods = append(d.Methods, m)
	return d
}

// AddScope appends a scope function and returns d for chaining.
func (d *Decl) AddScope(f *Function) *Decl {
	d.Scope = append(d.Scope, f)
	return d
}

// SetNested declares a member type.
func (d *Decl) SetNested(name string, t *Type) *Decl {
	if d.Nested == nil {
		d.Nested = make(map[string]*Type)
	}
	d.Nested[name] = t
	return d
}

// LookupNested finds a member type by name, searching bases depth-first
// in declaration order.
func (d *Decl) LookupNested(name string) (*Type, bool) {
	return d.lookupNested(name, make(map[*Decl]bool))
}

func (d *Decl) lookupNested(name string, seen map[*Decl]bool) (*Type, bool) {
	if d == nil || seen[d] {
		return nil, false
	}
	seen[d] = true
	if t, ok := d.Nested[name]; ok {
		return t, true
	}
	for _, b := range d.Bases {
		if t, ok := b.lookupNested(name, seen); ok {
			return t, true
		}
	}
	return nil, false
}

// LookupMethods returns the member functions named name. A declaration in
// a derived class hides every base declaration of the same name.
func (d *Decl) LookupMethods(name string) []*Method {
	return d.lookupMethods(name, make(map[*Decl]bool))
}

func (d *Decl) lookupMethods(name string, seen map[*Decl]bool) []*Method {
	if d == nil || seen[d] {
		return nil
	}
	seen[d] = true
	var out []*Method
	for _, m := range d.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, b := range d.Bases {
		if found := b.lookupMethods(name, seen); len(found) > 0 {
			return found
		}
	}
	return nil
}

// LookupScope returns the scope functions named name declared by d or any
// of its bases.
func (d *Decl) LookupScope(name string) []*Function {
	var out []*Function
	d.walk(func(x *Decl) {
		for _, f := range x.Scope {
			if f.Name == name {
				out = append(out, f)
			}
		}
	})
	return out
}

// AllConversions returns the conversion functions of d and its bases.
func (d *Decl) AllConversions() []*Conversion {
	var out []*Conversion
	d.walk(func(x *Decl) { out = append(out, x.Conversions...) })
	return out
}

// IsBaseOf reports whether d is base or equal to derived.
func (d *Decl) IsBaseOf(derived *Decl) bool {
	if d == nil || derived == nil {
		return false
	}
	found := false
	derived.walk(func(x *Decl) {
		if x == d {
			found = true
		}
	})
	return found
}

// walk visits d and its transitive bases once each, d first.
func (d *Decl) walk(visit func(*Decl)) {
	seen := make(map[*Decl]bool)
	var rec func(*Decl)
	rec = func(x *Decl) {
		if x == nil || seen[x] {
			return
		}
		seen[x] = true
		visit(x)
		for _, b := range x.Bases {
			rec(b)
		}
	}
	rec(d)
}

// Polymorphic reports whether d or one of its bases is polymorphic.
func (d *Decl) Polymorphic() bool {
	found := false
	d.walk(func(x *Decl) {
		if x.Flags.Has(FlagPolymorphic) || x.Flags.Has(FlagVirtualDestructor) || x.Flags.Has(FlagAbstract) {
			found = true
		}
	})
	return found
}

// VirtualDestructor reports whether d's destructor is virtual, directly
// or through a base.
func (d *Decl) VirtualDestructor() bool {
	found := false
	d.walk(func(x *Decl) {
		if x.Flags.Has(FlagVirtualDestructor) {
			found = true
		}
	})
	return found
}
