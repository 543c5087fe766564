package concepts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/deduce"
	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

type fixture struct {
	u *types.Universe
	c *Checker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := types.NewUniverse(types.LP64)
	boolT := types.Basic(types.KindBool)
	intT := types.Basic(types.KindInt)

	fwd := types.NewClass("FwdIter")
	fwdT := types.Named(fwd)
	fwdRef := types.LValueRefTo(types.AddConst(fwdT))
	fwd.SetNested("value_type", intT).
		SetNested("iterator_category", u.Tag(types.ForwardIteratorTag))
	fwd.AddMethod(&types.Method{Name: "operator++", Result: types.LValueRefTo(fwdT)}).
		AddMethod(&types.Method{Name: "operator++", Params: []*types.Type{intT}, Result: fwdT}).
		AddMethod(&types.Method{Name: "operator*", Result: types.LValueRefTo(intT), Const: true}).
		AddMethod(&types.Method{Name: "operator==", Params: []*types.Type{fwdRef}, Result: boolT, Const: true}).
		AddMethod(&types.Method{Name: "operator!=", Params: []*types.Type{fwdRef}, Result: boolT, Const: true})
	u.MustDeclare(fwd)

	list := types.NewClass("List")
	list.AddMethod(&types.Method{Name: "begin", Result: fwdT}).
		AddMethod(&types.Method{Name: "end", Result: fwdT})
	u.MustDeclare(list)

	scoped := types.NewClass("ScopedList")
	scopedRef := types.LValueRefTo(types.Named(scoped))
	scoped.AddScope(&types.Function{Name: "begin", Params: []*types.Type{scopedRef}, Result: fwdT}).
		AddScope(&types.Function{Name: "end", Params: []*types.Type{scopedRef}, Result: fwdT})
	u.MustDeclare(scoped)

	skewed := types.NewClass("Skewed")
	skewed.AddMethod(&types.Method{Name: "begin", Result: fwdT}).
		AddMethod(&types.Method{Name: "end", Result: types.PointerTo(intT)})
	u.MustDeclare(skewed)

	eq := types.NewClass("EqOnly")
	eqRef := types.LValueRefTo(types.AddConst(types.Named(eq)))
	eq.AddScope(&types.Function{Name: "operator==", Params: []*types.Type{eqRef, eqRef}, Result: boolT}).
		AddScope(&types.Function{Name: "operator!=", Params: []*types.Type{eqRef, eqRef}, Result: boolT})
	u.MustDeclare(eq)

	u.MustDeclare(types.NewClass("Plain"))

	pos := types.NewClass("IsPositive")
	pos.AddMethod(&types.Method{Name: "operator()", Params: []*types.Type{intT}, Result: boolT, Const: true})
	u.MustDeclare(pos)

	plain, _ := u.Decl("Plain")
	mix := types.NewClass("Mixer")
	mix.AddMethod(&types.Method{Name: "operator()", Params: []*types.Type{intT}, Result: types.Named(plain), Const: true})
	u.MustDeclare(mix)

	pinned := types.NewClass("Pinned")
	pinned.Specials = types.SpecialDefaultCtor | types.SpecialDestructor
	u.MustDeclare(pinned)

	o := oracle.New(u)
	return &fixture{u: u, c: New(deduce.New(probe.New(o)))}
}

func (f *fixture) ty(t *testing.T, src string) *types.Type {
	t.Helper()
	return typeexpr.MustParse(f.u, src)
}

func (f *fixture) tys(t *testing.T, srcs ...string) []*types.Type {
	t.Helper()
	out := make([]*types.Type, len(srcs))
	for i, s := range srcs {
		out[i] = f.ty(t, s)
	}
	return out
}

type conceptCase struct {
	concept string
	args    []string
	want    bool
}

func runConcepts(t *testing.T, f *fixture, tests []conceptCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.concept+"/"+joinArgs(tt.args), func(t *testing.T) {
			got, err := f.c.Check(tt.concept, f.tys(t, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func joinArgs(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += a
	}
	return s
}

func TestComparison(t *testing.T) {
	f := newFixture(t)
	runConcepts(t, f, []conceptCase{
		{"equality_comparable", []string{"int"}, true},
		{"equality_comparable", []string{"int", "long"}, true},
		{"equality_comparable", []string{"int", "double"}, true},
		{"equality_comparable", []string{"int*", "const int*"}, true},
		{"equality_comparable", []string{"EqOnly"}, true},
		{"equality_comparable", []string{"Plain"}, false},
		{"equality_comparable", []string{"int", "Plain"}, false},
		{"equality_comparable", []string{"void"}, false},
		{"weakly_ordered", []string{"int"}, true},
		{"weakly_ordered", []string{"int", "double"}, true},
		{"weakly_ordered", []string{"EqOnly"}, false},
		{"weakly_ordered", []string{"int", "Plain"}, false},
		{"totally_ordered", []string{"double"}, true},
		{"totally_ordered", []string{"EqOnly"}, false},
	})
}

func TestSingleTypeAgreesWithPair(t *testing.T) {
	f := newFixture(t)
	for _, src := range []string{"int", "double", "int*", "bool", "EqOnly", "Plain", "FwdIter", "void"} {
		ty := f.ty(t, src)
		for _, name := range []string{"equality_comparable", "weakly_ordered"} {
			one, err := f.c.Check(name, ty)
			require.NoError(t, err)
			two, err := f.c.Check(name, ty, ty)
			require.NoError(t, err)
			assert.Equal(t, two, one, "%s(%s)", name, src)
		}
	}
}

func TestNoCommonTypeIsNeverComparable(t *testing.T) {
	f := newFixture(t)
	pairs := [][2]string{{"int", "Plain"}, {"EqOnly", "int"}, {"FwdIter", "List"}, {"int*", "double"}}
	for _, p := range pairs {
		a, b := f.ty(t, p[0]), f.ty(t, p[1])
		require.False(t, f.c.Common(a, b), "%s/%s", p[0], p[1])
		assert.False(t, f.c.EqualityComparable(a, b), "%s/%s", p[0], p[1])
		assert.False(t, f.c.WeaklyOrdered(a, b), "%s/%s", p[0], p[1])
	}
}

func TestComparisonIsSymmetric(t *testing.T) {
	f := newFixture(t)
	srcs := []string{"int", "long", "double", "int*", "const int*", "EqOnly", "Plain", "bool"}
	for _, a := range srcs {
		for _, b := range srcs {
			ta, tb := f.ty(t, a), f.ty(t, b)
			assert.Equal(t, f.c.EqualityComparable(ta, tb), f.c.EqualityComparable(tb, ta), "%s/%s", a, b)
			assert.Equal(t, f.c.WeaklyOrdered(ta, tb), f.c.WeaklyOrdered(tb, ta), "%s/%s", a, b)
		}
	}
}

func TestRegularity(t *testing.T) {
	f := newFixture(t)
	runConcepts(t, f, []conceptCase{
		{"movable", []string{"int"}, true},
		{"movable", []string{"Pinned"}, false},
		{"copyable", []string{"Plain"}, true},
		{"copyable", []string{"Pinned"}, false},
		{"semiregular", []string{"Plain"}, true},
		{"regular", []string{"Plain"}, false},
		{"regular", []string{"EqOnly"}, true},
		{"regular", []string{"int*"}, true},
		{"ordered", []string{"EqOnly"}, false},
		{"ordered", []string{"int"}, true},
		{"movable", []string{"void"}, false},
	})
}

func TestEqualityOnlyType(t *testing.T) {
	f := newFixture(t)
	eq := f.ty(t, "EqOnly")
	assert.True(t, f.c.EqualityComparable(eq, eq))
	assert.True(t, f.c.Regular(eq))
	assert.False(t, f.c.WeaklyOrdered(eq, eq))
	assert.False(t, f.c.Ordered(eq))
}

func TestCallables(t *testing.T) {
	f := newFixture(t)
	boolFn := types.PointerTo(types.FuncOf(types.Basic(types.KindBool), types.Basic(types.KindInt)))
	intT := f.ty(t, "int")

	assert.True(t, f.c.Predicate(f.ty(t, "IsPositive"), intT))
	assert.False(t, f.c.Predicate(f.ty(t, "Mixer"), intT))
	assert.True(t, f.c.HasCall(f.ty(t, "Mixer"), intT))
	assert.True(t, f.c.Predicate(boolFn, intT))
	assert.False(t, f.c.Predicate(boolFn, f.ty(t, "Plain")))
	assert.False(t, f.c.Predicate(f.ty(t, "IsPositive")))

	assert.True(t, f.c.Boolean(f.ty(t, "int*")))
	assert.False(t, f.c.Boolean(f.ty(t, "Plain")))
}

func TestStreams(t *testing.T) {
	f := newFixture(t)
	runConcepts(t, f, []conceptCase{
		{"streamable", []string{"int"}, true},
		{"streamable", []string{"double"}, true},
		{"streamable", []string{"Plain"}, false},
		{"output_streamable", []string{"const char*"}, true},
		{"input_streamable", []string{"const int"}, false},
		{"output_streamable", []string{"int", "ostream"}, true},
		{"streamable", []string{"int", "ostream"}, false},
	})
}

func TestIteratorCategory(t *testing.T) {
	f := newFixture(t)
	for _, src := range []string{"int*", "const char*", "int*&", "int*&&"} {
		cat := f.c.IteratorCategory(f.ty(t, src))
		require.True(t, cat.Ok(), src)
		assert.True(t, cat.Is(f.u.Tag(types.RandomAccessIteratorTag)), src)
	}
	assert.True(t, f.c.IteratorCategory(f.ty(t, "FwdIter&&")).Is(f.u.Tag(types.ForwardIteratorTag)))
	assert.False(t, f.c.HasIteratorCategory(f.ty(t, "Plain")))
	assert.False(t, f.c.HasIteratorCategory(f.ty(t, "int")))

	input := f.u.Tag(types.InputIteratorTag)
	assert.True(t, f.c.IteratorKind(f.ty(t, "FwdIter"), input))
	assert.False(t, f.c.IteratorKind(f.ty(t, "FwdIter"), f.u.Tag(types.BidirectionalIteratorTag)))
}

func TestIterators(t *testing.T) {
	f := newFixture(t)
	runConcepts(t, f, []conceptCase{
		{"readable", []string{"const int*"}, true},
		{"readable", []string{"FwdIter"}, true},
		{"readable", []string{"int"}, false},
		{"readable", []string{"void*"}, false},
		{"writable", []string{"int*", "int"}, true},
		{"writable", []string{"const int*", "int"}, false},
		{"incrementable", []string{"int"}, true},
		{"incrementable", []string{"FwdIter"}, true},
		{"incrementable", []string{"bool"}, false},
		{"decrementable", []string{"FwdIter"}, false},
		{"input_iterator", []string{"FwdIter"}, true},
		{"forward_iterator", []string{"FwdIter"}, true},
		{"forward_iterator", []string{"int"}, false},
		{"bidirectional_iterator", []string{"FwdIter"}, false},
		{"random_access_iterator", []string{"FwdIter"}, false},
		{"output_iterator", []string{"int*", "int"}, true},
		{"output_iterator", []string{"const int*", "int"}, false},
		{"iterator", []string{"FwdIter"}, true},
		{"iterator", []string{"int"}, false},
	})
}

func TestRawPointerIsRandomAccess(t *testing.T) {
	f := newFixture(t)
	for _, src := range []string{"int*", "const double*", "FwdIter*"} {
		p := f.ty(t, src)
		assert.True(t, f.c.RandomAccessIterator(p), src)

		diff := f.c.Deducer().DifferenceType(p)
		require.True(t, diff.Ok(), src)
		assert.True(t, diff.Is(f.u.PtrDiff()), src)

		cat := f.c.IteratorCategory(p)
		assert.True(t, cat.Is(f.u.Tag(types.RandomAccessIteratorTag)), src)
		assert.False(t, assoc.Has(assoc.IteratorCategory, p), src)
	}
	assert.False(t, f.c.RandomAccessIterator(f.ty(t, "void*")))
}

func TestRefinementIsMonotonic(t *testing.T) {
	f := newFixture(t)
	for _, src := range []string{"int*", "const char*", "long**", "FwdIter", "int", "Plain", "void*"} {
		i := f.ty(t, src)
		if f.c.RandomAccessIterator(i) {
			assert.True(t, f.c.BidirectionalIterator(i), src)
		}
		if f.c.BidirectionalIterator(i) {
			assert.True(t, f.c.ForwardIterator(i), src)
		}
		if f.c.ForwardIterator(i) {
			assert.True(t, f.c.InputIterator(i), src)
			assert.True(t, f.c.Iterator(i), src)
		}
	}
}

func TestRanges(t *testing.T) {
	f := newFixture(t)
	runConcepts(t, f, []conceptCase{
		{"range", []string{"List"}, true},
		{"range", []string{"ScopedList"}, true},
		{"range", []string{"int[4]"}, true},
		{"range", []string{"int[]"}, false},
		{"range", []string{"Skewed"}, false},
		{"range", []string{"Plain"}, false},
		{"has_begin", []string{"Skewed"}, true},
		{"has_end", []string{"int"}, false},
	})

	it := f.c.IteratorOf(f.ty(t, "List"))
	require.True(t, it.Ok())
	assert.True(t, it.Is(f.ty(t, "FwdIter")))
	assert.True(t, f.c.BeginResult(f.ty(t, "long[2]")).Is(f.ty(t, "long*")))
}

func TestLookupStrategies(t *testing.T) {
	f := newFixture(t)
	list, scoped := f.ty(t, "List"), f.ty(t, "ScopedList")

	canonical := f.c.WithLookups(CanonicalLookup)
	assert.True(t, canonical.Range(list))
	assert.False(t, canonical.Range(scoped))

	adl := f.c.WithLookups(ScopedLookup)
	assert.False(t, adl.Range(list))
	assert.True(t, adl.Range(scoped))

	strategies := f.c.Lookups()
	names := []string{}
	for _, l := range strategies {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"canonical", "scoped"}, names)

	d, ok := Lookup("range")
	require.True(t, ok)
	assert.True(t, d.Eval(canonical, []*types.Type{list}))
}

func TestIdempotence(t *testing.T) {
	f := newFixture(t)
	args := f.tys(t, "int*")
	for _, name := range Names() {
		d, _ := Lookup(name)
		if !d.Accepts(1) {
			continue
		}
		first, err := f.c.Check(name, args...)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := f.c.Check(name, args...)
			require.NoError(t, err)
			assert.Equal(t, first, again, name)
		}
	}
}

func TestRegistry(t *testing.T) {
	f := newFixture(t)
	d, ok := Lookup("Random-Access_Iterator")
	require.True(t, ok)
	assert.Equal(t, "random_access_iterator", d.Name)
	assert.Equal(t, "1", d.Arity())

	d, _ = Lookup("equality_comparable")
	assert.Equal(t, "1-2", d.Arity())
	d, _ = Lookup("predicate")
	assert.Equal(t, "1+", d.Arity())
	assert.Len(t, Names(), 30)

	_, err := f.c.Check("sortable", f.ty(t, "int"))
	assert.True(t, errors.HasCode(err, errors.CodeUnknownConcept))

	_, err = f.c.Check("readable")
	assert.True(t, errors.HasCode(err, errors.CodeArity))

	_, err = f.c.Check("writable", f.ty(t, "int*"))
	assert.True(t, errors.HasCode(err, errors.CodeArity))
}
