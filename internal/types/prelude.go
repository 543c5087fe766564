package types

import "fmt"

// streamArithmetic lists the kinds the canonical streams accept through
// member operators.
var streamArithmetic = []Kind{
	KindBool, KindShort, KindUShort, KindInt, KindUInt, KindLong, KindULong,
	KindLongLong, KindULongLong, KindFloat, KindDouble, KindLongDouble,
}

// streamCharacters are handled by free operators, not members.
var streamCharacters = []Kind{KindChar, KindSChar, KindUChar}

func (u *Universe) seedPrelude() {
	u.seedAliases()
	u.seedStreams()
	u.seedIteratorTags()
}

func (u *Universe) seedAliases() {
	u.aliases["size_t"] = u.SizeT()
	u.aliases["ptrdiff_t"] = u.PtrDiff()
	u.aliases["intptr_t"] = u.PtrDiff()
	u.aliases["uintptr_t"] = u.SizeT()
	for _, bits := range []int{8, 16, 32, 64} {
		if k, ok := u.exactWidth(signedIntegers, bits/8); ok {
			u.aliases[fmt.Sprintf("int%d_t", bits)] = Basic(k)
		}
		if k, ok := u.exactWidth(unsignedIntegers, bits/8); ok {
			u.aliases[fmt.Sprintf("uint%d_t", bits)] = Basic(k)
		}
	}
}

// exactWidth returns the lowest-ranked kind of chain that is exactly size
// bytes wide.
func (u *Universe) exactWidth(chain []Kind, size int) (Kind, bool) {
	for _, k := range chain {
		if u.Model.SizeOf(k) == size {
			return k, true
		}
	}
	return KindVoid, false
}

func (u *Universe) seedStreams() {
	out := NewClass(OStreamName)
	in := NewClass(IStreamName)
	for _, d := range []*Decl{out, in} {
		d.Specials = SpecialDestructor
		d.Nothrow = SpecialDestructor
		d.Flags = FlagPolymorphic | FlagVirtualDestructor
	}
	outRef := LValueRefTo(Named(out))
	inRef := LValueRefTo(Named(in))

	for _, k := range streamArithmetic {
		out.AddMethod(&Method{Name: "operator<<", Params: []*Type{Basic(k)}, Result: outRef})
		in.AddMethod(&Method{Name: "operator>>", Params: []*Type{LValueRefTo(Basic(k))}, Result: inRef})
	}
	out.AddMethod(&Method{Name: "operator<<", Params: []*Type{PointerTo(AddConst(Void()))}, Result: outRef})
	in.AddMethod(&Method{Name: "operator>>", Params: []*Type{LValueRefTo(PointerTo(Void()))}, Result: inRef})

	for _, k := range streamCharacters {
		u.AddFunction(&Function{Name: "operator<<", Params: []*Type{outRef, Basic(k)}, Result: outRef})
		u.AddFunction(&Function{Name: "operator<<", Params: []*Type{outRef, PointerTo(AddConst(Basic(k)))}, Result: outRef})
		u.AddFunction(&Function{Name: "operator>>", Params: []*Type{inRef, LValueRefTo(Basic(k))}, Result: inRef})
	}

	u.MustDeclare(out)
	u.MustDeclare(in)
}

func (u *Universe) seedIteratorTags() {
	tag := func(name string, bases ...*Decl) *Decl {
		d := NewClass(name)
		d.Bases = bases
		d.Flags = FlagTrivial | FlagStandardLayout | FlagEmpty
		return u.MustDeclare(d)
	}
	input := tag(InputIteratorTag)
	tag(OutputIteratorTag)
	forward := tag(ForwardIteratorTag, input)
	bidi := tag(BidirectionalIteratorTag, forward)
	tag(RandomAccessIteratorTag, bidi)
}
