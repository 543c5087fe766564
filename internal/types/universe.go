package types

import (
	"fmt"
	"sort"
)

// Names of the declarations every Universe is seeded with.
const (
	OStreamName = "ostream"
	IStreamName = "istream"

	InputIteratorTag         = "input_iterator_tag"
	OutputIteratorTag        = "output_iterator_tag"
	ForwardIteratorTag       = "forward_iterator_tag"
	BidirectionalIteratorTag = "bidirectional_iterator_tag"
	RandomAccessIteratorTag  = "random_access_iterator_tag"
)

// Universe is the registry of declarations a set of queries runs against.
// It is built once and then only read, so concurrent queries need no
// locking.
type Universe struct {
	Model DataModel

	decls     map[string]*Decl
	order     []string
	aliases   map[string]*Type
	functions []*Function
	common    []commonSpec
	diffs     []diffOverride
}

type commonSpec struct {
	a, b, result *Type
}

type diffOverride struct {
	t, diff *Type
}

// NewUniverse returns a Universe for model seeded with the prelude: the
// canonical stream classes, the iterator tags and the standard aliases.
func NewUniverse(model DataModel) *Universe {
	u := &Universe{
		Model:   model,
		decls:   make(map[string]*Decl),
		aliases: make(map[string]*Type),
	}
	u.seedPrelude()
	return u
}

// Declare registers d. Names are unique across declarations and aliases.
func (u *Universe) Declare(d *Decl) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("declaration without a name")
	}
	if _, dup := u.decls[d.Name]; dup {
		return fmt.Errorf("%s already declared", d.Name)
	}
	if _, dup := u.aliases[d.Name]; dup {
		return fmt.Errorf("%s already declared as an alias", d.Name)
	}
	u.decls[d.Name] = d
	u.order = append(u.order, d.Name)
	return nil
}

// MustDeclare is Declare for setup code that cannot fail.
func (u *Universe) MustDeclare(d *Decl) *Decl {
	if err := u.Declare(d); err != nil {
		panic(err)
	}
	return d
}

// Alias registers a typedef name.
func (u *Universe) Alias(name string, t *Type) error {
	if _, dup := u.decls[name]; dup {
		return fmt.Errorf("%s already declared", name)
	}
	u.aliases[name] = t
	return nil
}

// Decl looks up a declaration by name.
func (u *Universe) Decl(name string) (*Decl, bool) {
	d, ok := u.decls[name]
	return d, ok
}

// Decls returns all declarations in declaration order.
func (u *Universe) Decls() []*Decl {
	out := make([]*Decl, 0, len(u.order))
	for _, n := range u.order {
		out = append(out, u.decls[n])
	}
	return out
}

// LookupType resolves a declaration or alias name to a type.
func (u *Universe) LookupType(name string) (*Type, bool) {
	if d, ok := u.decls[name]; ok {
		return Named(d), true
	}
	if t, ok := u.aliases[name]; ok {
		return t, true
	}
	return nil, false
}

// AliasNames lists the registered aliases, sorted.
func (u *Universe) AliasNames() []string {
	names := make([]string, 0, len(u.aliases))
	for n := range u.aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddFunction registers a free function in the global scope.
func (u *Universe) AddFunction(f *Function) {
	u.functions = append(u.functions, f)
}

// Functions returns the global free functions named name.
func (u *Universe) Functions(name string) []*Function {
	var out []*Function
	for _, f := range u.functions {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// SpecializeCommonType records common_type<a, b> = result. The
// specialization applies to (b, a) as well.
func (u *Universe) SpecializeCommonType(a, b, result *Type) {
	u.common = append(u.common, commonSpec{a: a, b: b, result: result})
}

// CommonTypeSpecialization returns a user specialization for (a, b).
func (u *Universe) CommonTypeSpecialization(a, b *Type) (*Type, bool) {
	for _, s := range u.common {
		if (Identical(s.a, a) && Identical(s.b, b)) || (Identical(s.a, b) && Identical(s.b, a)) {
			return s.result, true
		}
	}
	return nil, false
}

// OverrideDifferenceType pins the difference type of t, bypassing both
// the declared member type and deduction.
func (u *Universe) OverrideDifferenceType(t, diff *Type) {
	u.diffs = append(u.diffs, diffOverride{t: t, diff: diff})
}

// DifferenceOverride returns the pinned difference type of t.
func (u *Universe) DifferenceOverride(t *Type) (*Type, bool) {
	for _, o := range u.diffs {
		if Identical(o.t, t) {
			return o.diff, true
		}
	}
	return nil, false
}

// PtrDiff returns the ptrdiff_t type of the data model.
func (u *Universe) PtrDiff() *Type { return Basic(u.Model.PtrDiff) }

// SizeT returns the size_t type of the data model.
func (u *Universe) SizeT() *Type { return Basic(u.Model.SizeT()) }

// OStream returns the canonical output stream class.
func (u *Universe) OStream() *Type { return Named(u.decls[OStreamName]) }

// IStream returns the canonical input stream class.
func (u *Universe) IStream() *Type { return Named(u.decls[IStreamName]) }

// Tag returns the iterator tag class of the given name.
func (u *Universe) Tag(name string) *Type {
	d, ok := u.decls[name]
	if !ok {
		return nil
	}
	return Named(d)
}
