package deduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

func newDeducer(t *testing.T, model types.DataModel) (*Deducer, *types.Universe) {
	t.Helper()
	u := types.NewUniverse(model)
	intT := types.Basic(types.KindInt)
	double := types.Basic(types.KindDouble)

	iter := types.NewClass("Iter")
	iter.AddMethod(&types.Method{Name: "operator++", Result: types.LValueRefTo(types.Named(iter))}).
		AddMethod(&types.Method{Name: "operator*", Result: types.LValueRefTo(types.AddConst(double)), Const: true})
	u.MustDeclare(iter)

	declared := types.NewClass("Declared")
	declared.SetNested("value_type", types.Basic(types.KindChar)).
		SetNested("difference_type", intT)
	declared.AddMethod(&types.Method{Name: "operator++", Result: types.LValueRefTo(types.Named(declared))}).
		AddMethod(&types.Method{Name: "operator*", Result: types.LValueRefTo(double), Const: true})
	u.MustDeclare(declared)

	seq := types.NewClass("Seq")
	seq.AddMethod(&types.Method{Name: "size", Result: types.Basic(types.KindULong), Const: true})
	u.MustDeclare(seq)

	refs := types.NewClass("Refs")
	refs.SetNested("reference", types.LValueRefTo(intT)).
		SetNested("const_reference", types.LValueRefTo(types.AddConst(intT))).
		SetNested("pointer", types.PointerTo(intT)).
		SetNested("const_pointer", types.PointerTo(types.AddConst(intT)))
	u.MustDeclare(refs)

	constOnly := types.NewClass("ConstOnly")
	constOnly.SetNested("const_reference", types.LValueRefTo(types.AddConst(double)))
	u.MustDeclare(constOnly)

	proxy := types.NewClass("Proxy")
	proxy.AddMethod(&types.Method{Name: "operator*", Result: intT, Const: true})
	u.MustDeclare(proxy)

	u.MustDeclare(types.NewClass("Opaque"))

	return New(probe.New(oracle.New(u))), u
}

type deduceCase struct {
	name string
	src  string
	want string // empty means no result
	from string
}

func runDeduce(t *testing.T, d *Deducer, u *types.Universe, slot assoc.Slot, tests []deduceCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, from := d.Explain(slot, typeexpr.MustParse(u, tt.src))
			if tt.want == "" {
				assert.False(t, got.Ok(), "got %s via %s", got, from)
				return
			}
			require.True(t, got.Ok())
			assert.True(t, got.Is(typeexpr.MustParse(u, tt.want)), "got %s", got)
			if tt.from != "" {
				assert.Equal(t, tt.from, from)
			}
		})
	}
}

func TestDifferenceType(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	runDeduce(t, d, u, assoc.DifferenceType, []deduceCase{
		{"int32 widens to 64 bits", "int32_t", "long", "integral"},
		{"unsigned widens signed", "unsigned short", "int", "integral"},
		{"long saturates", "long", "long", "integral"},
		{"reference looks through", "const int&", "long", "integral"},
		{"pointer", "int*", "ptrdiff_t", "pointer"},
		{"array", "int[4]", "ptrdiff_t", "pointer"},
		{"floating", "double", "double", "floating"},
		{"bool has none", "bool", "", ""},
		{"incrementable class", "Iter", "ptrdiff_t", "pre_increment"},
		{"declared wins", "Declared", "int", SourceAssociated},
		{"class without increment", "Seq", "", ""},
		{"void", "void", "", ""},
	})
}

func TestDifferenceTypeAcrossModels(t *testing.T) {
	for _, tt := range []struct {
		model types.DataModel
		want  types.Kind
	}{
		{types.LP64, types.KindLong},
		{types.LLP64, types.KindLongLong},
		{types.ILP32, types.KindLongLong},
	} {
		d, u := newDeducer(t, tt.model)
		got := d.DifferenceType(typeexpr.MustParse(u, "int32_t"))
		require.True(t, got.Ok(), tt.model.Name)
		assert.Equal(t, tt.want, got.Type().Kind, tt.model.Name)
		assert.Equal(t, 8, tt.model.SizeOf(got.Type().Kind), tt.model.Name)
	}
}

func TestDifferenceOverride(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	iter := typeexpr.MustParse(u, "Iter")
	u.OverrideDifferenceType(iter, types.Basic(types.KindShort))

	got, from := d.Explain(assoc.DifferenceType, typeexpr.MustParse(u, "const Iter&"))
	require.True(t, got.Ok())
	assert.Equal(t, types.KindShort, got.Type().Kind)
	assert.Equal(t, SourceOverride, from)

	size := d.SizeType(iter)
	require.True(t, size.Ok())
	assert.Equal(t, types.KindUShort, size.Type().Kind)
}

func TestValueType(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	runDeduce(t, d, u, assoc.ValueType, []deduceCase{
		{"pointer", "int*", "int", "dereference"},
		{"pointer to const", "const int*", "int", "dereference"},
		{"array", "long[3]", "long", "dereference"},
		{"class dereference", "Iter", "double", "dereference"},
		{"declared wins", "Declared", "char", SourceAssociated},
		{"prvalue dereference", "Proxy", "int", "dereference"},
		{"not dereferenceable", "int", "", ""},
		{"void pointer", "void*", "", ""},
	})
}

func TestSizeType(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	runDeduce(t, d, u, assoc.SizeType, []deduceCase{
		{"member size", "Seq", "unsigned long", "member_size"},
		{"pointer", "int*", "unsigned long", "unsigned_difference"},
		{"integral", "int", "unsigned long", "unsigned_difference"},
		{"floating has none", "double", "", ""},
		{"declared difference", "Declared", "unsigned int", "unsigned_difference"},
	})
}

func TestReference(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	runDeduce(t, d, u, assoc.Reference, []deduceCase{
		{"pointer", "int*", "int&", "dereference"},
		{"pointer to const", "const int*", "const int&", "dereference"},
		{"mutable picks reference", "Refs", "int&", SourceAssociated},
		{"const picks const reference", "const Refs&", "const int&", SourceAssociated},
		{"only const reference", "ConstOnly", "const double&", SourceAssociated},
		{"prvalue dereference", "Proxy", "int", "dereference"},
		{"none", "Opaque", "", ""},
	})
}

func TestPointer(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	runDeduce(t, d, u, assoc.Pointer, []deduceCase{
		{"pointer", "int*", "int*", "address_of_dereference"},
		{"class", "Iter", "const double*", "address_of_dereference"},
		{"mutable picks pointer", "Refs", "int*", SourceAssociated},
		{"const picks const pointer", "const Refs", "const int*", SourceAssociated},
		{"prvalue dereference has none", "Proxy", "", ""},
	})
}

func TestExtend(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	opaque, _ := u.Decl("Opaque")
	d.Extend(assoc.ValueType, Rule{Name: "opaque_char", Apply: func(_ *Deducer, t *types.Type) types.Result {
		if t.ClassDecl() == opaque {
			return types.Some(types.Basic(types.KindChar))
		}
		return types.NoResult
	}})

	runDeduce(t, d, u, assoc.ValueType, []deduceCase{
		{"user rule", "Opaque&", "char", "opaque_char"},
		{"builtin still applies", "int*", "int", "dereference"},
		{"declaration beats user rule", "Declared", "char", SourceAssociated},
	})

	chain := d.Chain(assoc.ValueType)
	require.Len(t, chain, 2)
	assert.Equal(t, "opaque_char", chain[0].Name)
	assert.Len(t, Builtin(assoc.ValueType), 1)
	assert.True(t, d.Deducible(assoc.SizeType))
	assert.False(t, d.Deducible(assoc.KeyType))
}

func TestDeclaredOnlySlots(t *testing.T) {
	d, u := newDeducer(t, types.LP64)
	assert.False(t, d.Type(assoc.KeyType, typeexpr.MustParse(u, "Seq")).Ok())
}
