package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

type fixture struct {
	u *types.Universe
	p *Prober
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := types.NewUniverse(types.LP64)
	boolT := types.Basic(types.KindBool)
	intT := types.Basic(types.KindInt)

	u.MustDeclare(types.NewClass("Base"))
	derived := types.NewClass("Derived")
	base, _ := u.Decl("Base")
	derived.Bases = []*types.Decl{base}
	u.MustDeclare(derived)

	num := types.NewClass("Num")
	numT := types.Named(num)
	cref := types.LValueRefTo(types.AddConst(numT))
	num.AddMethod(&types.Method{Name: "operator+", Params: []*types.Type{cref}, Result: numT, Const: true}).
		AddMethod(&types.Method{Name: "operator==", Params: []*types.Type{cref}, Result: boolT, Const: true}).
		AddMethod(&types.Method{Name: "operator!=", Params: []*types.Type{cref}, Result: boolT, Const: true}).
		AddMethod(&types.Method{Name: "operator<", Params: []*types.Type{cref}, Result: boolT, Const: true}).
		AddMethod(&types.Method{Name: "operator+=", Params: []*types.Type{cref}, Result: types.LValueRefTo(numT)}).
		AddMethod(&types.Method{Name: "operator++", Result: types.LValueRefTo(numT)}).
		AddMethod(&types.Method{Name: "operator++", Params: []*types.Type{intT}, Result: numT})
	u.MustDeclare(num)

	eq := types.NewClass("EqOnly")
	eqRef := types.LValueRefTo(types.AddConst(types.Named(eq)))
	eq.AddScope(&types.Function{Name: "operator==", Params: []*types.Type{eqRef, eqRef}, Result: boolT}).
		AddScope(&types.Function{Name: "operator!=", Params: []*types.Type{eqRef, eqRef}, Result: boolT})
	u.MustDeclare(eq)

	amb := types.NewClass("Amb")
	ambRef := types.LValueRefTo(types.AddConst(types.Named(amb)))
	amb.AddScope(&types.Function{Name: "operator-", Params: []*types.Type{ambRef, types.Basic(types.KindLong)}, Result: intT}).
		AddScope(&types.Function{Name: "operator-", Params: []*types.Type{ambRef, types.Basic(types.KindUInt)}, Result: intT})
	u.MustDeclare(amb)

	toInt := types.NewClass("ToInt")
	toInt.Conversions = []*types.Conversion{{To: intT}}
	u.MustDeclare(toInt)

	flag := types.NewClass("Flag")
	flag.Conversions = []*types.Conversion{{To: boolT, Explicit: true}}
	u.MustDeclare(flag)

	fn := types.NewClass("Fn")
	fn.AddMethod(&types.Method{Name: "operator()", Params: []*types.Type{intT}, Result: types.Basic(types.KindDouble), Const: true})
	u.MustDeclare(fn)

	vec := types.NewClass("Vec")
	vec.AddMethod(&types.Method{Name: "operator[]", Params: []*types.Type{types.Basic(types.KindLong)}, Result: types.LValueRefTo(intT)}).
		AddMethod(&types.Method{Name: "size", Result: types.Basic(types.KindULong), Const: true})
	u.MustDeclare(vec)

	u.MustDeclare(types.NewClass("Holder"))
	u.MustDeclare(types.NewEnum("Color", nil, false))
	u.MustDeclare(types.NewEnum("Mode", types.Basic(types.KindUChar), true))

	return &fixture{u: u, p: New(oracle.New(u))}
}

func (f *fixture) ty(t *testing.T, src string) *types.Type {
	t.Helper()
	ty, err := typeexpr.Parse(f.u, src)
	require.NoError(t, err, src)
	return ty
}

func (f *fixture) tys(t *testing.T, srcs ...string) []*types.Type {
	t.Helper()
	out, err := typeexpr.ParseList(f.u, srcs)
	require.NoError(t, err)
	return out
}

type probeCase struct {
	name     string
	op       Op
	operands []string
	want     string // empty means no result
}

func (f *fixture) run(t *testing.T, tests []probeCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.p.Probe(tt.op, f.tys(t, tt.operands...)...)
			if tt.want == "" {
				assert.False(t, got.Ok(), "got %s", got)
				return
			}
			require.True(t, got.Ok())
			assert.True(t, got.Is(f.ty(t, tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestBuiltinArithmetic(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"int plus int", OpPlus, []string{"int"}, "int"},
		{"short promotes", OpPlus, []string{"short"}, "int"},
		{"mixed floating", OpPlus, []string{"int", "double"}, "double"},
		{"pointer plus int", OpPlus, []string{"int*", "int"}, "int*"},
		{"int plus pointer", OpPlus, []string{"long", "const char*"}, "const char*"},
		{"pointer plus pointer", OpPlus, []string{"int*", "int*"}, ""},
		{"pointer difference", OpMinus, []string{"int*", "const int*"}, "long"},
		{"void pointer arithmetic", OpPlus, []string{"void*", "int"}, ""},
		{"modulo needs integers", OpModulo, []string{"double", "int"}, ""},
		{"bitwise and", OpBitAnd, []string{"unsigned int", "int"}, "unsigned int"},
		{"shift keeps left type", OpLeftShift, []string{"long", "int"}, "long"},
		{"shift by double", OpLeftShift, []string{"int", "double"}, ""},
		{"unscoped enum is arithmetic", OpPlus, []string{"Color", "int"}, "int"},
		{"scoped enum is not", OpPlus, []string{"Mode", "int"}, ""},
		{"void operand", OpPlus, []string{"void", "int"}, ""},
	})
}

func TestBuiltinUnary(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"subscript pointer", OpSubscript, []string{"int*", "int"}, "int&"},
		{"subscript array", OpSubscript, []string{"double[3]", "int"}, "double&"},
		{"subscript reversed", OpSubscript, []string{"int", "const int*"}, "const int&"},
		{"dereference", OpDereference, []string{"int*"}, "int&"},
		{"dereference void pointer", OpDereference, []string{"void*"}, ""},
		{"dereference int", OpDereference, []string{"int"}, ""},
		{"address of", OpAddressOf, []string{"const int"}, "const int*"},
		{"address of class", OpAddressOf, []string{"Base"}, "Base*"},
		{"pre increment", OpPreIncrement, []string{"int"}, "int&"},
		{"post increment", OpPostIncrement, []string{"int"}, "int"},
		{"post decrement pointer", OpPostDecrement, []string{"double*"}, "double*"},
		{"increment const", OpPreIncrement, []string{"const int"}, ""},
		{"increment bool", OpPreIncrement, []string{"bool"}, ""},
		{"increment void pointer", OpPreIncrement, []string{"void*"}, ""},
		{"increment array", OpPreIncrement, []string{"int[2]"}, ""},
		{"complement promotes", OpComplement, []string{"char"}, "int"},
		{"complement double", OpComplement, []string{"double"}, ""},
		{"not pointer", OpNot, []string{"int*"}, "bool"},
		{"unary minus", OpUnaryMinus, []string{"unsigned char"}, "int"},
		{"unary minus pointer", OpUnaryMinus, []string{"int*"}, ""},
		{"unary plus pointer", OpUnaryPlus, []string{"int*"}, "int*"},
		{"logical and", OpAnd, []string{"int*", "double"}, "bool"},
	})
}

func TestBuiltinComparison(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"less int", OpLess, []string{"int", "long"}, "bool"},
		{"less pointers", OpLess, []string{"int*", "const int*"}, "bool"},
		{"less nullptr", OpLess, []string{"int*", "nullptr_t"}, ""},
		{"equal nullptr", OpEqual, []string{"int*", "nullptr_t"}, "bool"},
		{"equal base pointers", OpEqual, []string{"Base*", "Derived*"}, "bool"},
		{"equal unrelated pointers", OpEqual, []string{"int*", "double*"}, ""},
		{"scoped enum equality", OpEqual, []string{"Mode"}, "bool"},
		{"scoped enum against int", OpLess, []string{"Mode", "int"}, ""},
		{"class without operators", OpEqual, []string{"Base"}, ""},
	})
}

func TestBuiltinAssignment(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"assign converts", OpAssign, []string{"int", "double"}, "int&"},
		{"assign to const", OpAssign, []string{"const int", "int"}, ""},
		{"assign slices", OpAssign, []string{"Base", "Derived"}, "Base&"},
		{"assign base to derived", OpAssign, []string{"Derived", "Base"}, ""},
		{"plus assign", OpPlusAssign, []string{"int", "double"}, "int&"},
		{"pointer plus assign", OpPlusAssign, []string{"int*", "int"}, "int*&"},
		{"modulo assign double", OpModuloAssign, []string{"double", "int"}, ""},
		{"plus assign const", OpPlusAssign, []string{"const int", "int"}, ""},
		{"enum multiply assign", OpMultiplyAssign, []string{"Color", "int"}, ""},
		{"shift assign", OpLeftShiftAssign, []string{"unsigned long", "Color"}, "unsigned long&"},
	})
}

func TestOverloadedOperators(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"member plus", OpPlus, []string{"Num"}, "Num"},
		{"member equal", OpEqual, []string{"Num"}, "bool"},
		{"member less on const", OpLess, []string{"const Num"}, "bool"},
		{"member compound", OpPlusAssign, []string{"Num"}, "Num&"},
		{"prefix member", OpPreIncrement, []string{"Num"}, "Num&"},
		{"postfix member", OpPostIncrement, []string{"Num"}, "Num"},
		{"no decrement", OpPreDecrement, []string{"Num"}, ""},
		{"no greater", OpGreater, []string{"Num"}, ""},
		{"scope function", OpEqual, []string{"EqOnly"}, "bool"},
		{"scope function not ordered", OpLess, []string{"EqOnly"}, ""},
		{"ambiguous overloads", OpMinus, []string{"Amb", "int"}, ""},
		{"exact overload is not ambiguous", OpMinus, []string{"Amb", "long"}, "int"},
		{"member subscript", OpSubscript, []string{"Vec", "int"}, "int&"},
		{"const member subscript", OpSubscript, []string{"const Vec", "int"}, ""},
	})
}

func TestConversionFallback(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"converted plus", OpPlus, []string{"ToInt", "int"}, "int"},
		{"converted both sides", OpLess, []string{"ToInt"}, "bool"},
		{"converted assign", OpAssign, []string{"long", "ToInt"}, "long&"},
		{"explicit bool for not", OpNot, []string{"Flag"}, "bool"},
		{"explicit bool for and", OpAnd, []string{"Flag", "bool"}, "bool"},
		{"explicit bool not arithmetic", OpPlus, []string{"Flag", "int"}, ""},
		{"converted prvalue not incrementable", OpPreIncrement, []string{"ToInt"}, ""},
	})
}

func TestStreams(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"output int", OpOutputStream, []string{"ostream", "int"}, "ostream&"},
		{"output char", OpOutputStream, []string{"ostream", "char"}, "ostream&"},
		{"output string", OpOutputStream, []string{"ostream", "const char*"}, "ostream&"},
		{"output pointer", OpOutputStream, []string{"ostream", "Base*"}, "ostream&"},
		{"output converted", OpOutputStream, []string{"ostream", "ToInt"}, "ostream&"},
		{"output class", OpOutputStream, []string{"ostream", "Base"}, ""},
		{"input int", OpInputStream, []string{"istream", "int"}, "istream&"},
		{"input const", OpInputStream, []string{"istream", "const int"}, ""},
		{"input void", OpInputStream, []string{"istream", "void"}, ""},
		{"shift on ints", OpOutputStream, []string{"int", "int"}, "int"},
	})
}

func TestInvoke(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"function", OpCall, []string{"int(double)", "int"}, "int"},
		{"function pointer", OpCall, []string{"int(*)(double)", "float"}, "int"},
		{"function reference", OpCall, []string{"long(&)()"}, "long"},
		{"wrong arity", OpCall, []string{"int(double)"}, ""},
		{"call operator", OpCall, []string{"Fn", "short"}, "double"},
		{"call operator on const", OpCall, []string{"const Fn&", "int"}, "double"},
		{"call operator arity", OpCall, []string{"Fn"}, ""},
		{"void callable", OpCall, []string{"void", "int"}, ""},
		{"void argument", OpCall, []string{"int(double)", "void"}, ""},
		{"non callable", OpCall, []string{"int", "int"}, ""},
		{"member object on rvalue", OpCall, []string{"int Holder::*", "Holder"}, "int&&"},
		{"member object on lvalue", OpCall, []string{"int Holder::*", "Holder&"}, "int&"},
		{"member object through pointer", OpCall, []string{"int Holder::*", "const Holder*"}, "const int&"},
		{"member function", OpCall, []string{"int (Holder::*)(double) const", "Holder&", "int"}, "int"},
		{"member function through pointer", OpCall, []string{"int (Holder::*)(double)", "Holder*", "int"}, "int"},
		{"member function wrong class", OpCall, []string{"int (Holder::*)(double)", "Base&", "int"}, ""},
		{"non-const member on const", OpCall, []string{"int (Holder::*)(double)", "const Holder&", "int"}, ""},
	})
}

func TestResultOf(t *testing.T) {
	f := newFixture(t)
	got := f.p.ResultOf(f.ty(t, "Fn(int)"))
	require.True(t, got.Ok())
	assert.Equal(t, types.KindDouble, got.Type().Kind)
	assert.False(t, f.p.ResultOf(f.ty(t, "void(int)")).Ok())
	assert.False(t, f.p.ResultOf(f.ty(t, "int")).Ok())
}

func TestStaticCast(t *testing.T) {
	f := newFixture(t)
	f.run(t, []probeCase{
		{"arithmetic", OpStaticCast, []string{"int", "double"}, "double"},
		{"to scoped enum", OpStaticCast, []string{"double", "Mode"}, "Mode"},
		{"downcast reference", OpStaticCast, []string{"Base", "Derived&"}, "Derived&"},
		{"void pointer to object pointer", OpStaticCast, []string{"void*", "int*"}, "int*"},
		{"pointer to integer", OpStaticCast, []string{"int*", "long"}, ""},
		{"to void", OpStaticCast, []string{"int", "void"}, "void"},
		{"from void", OpStaticCast, []string{"void", "int"}, ""},
		{"explicit conversion", OpStaticCast, []string{"Flag", "bool"}, "bool"},
	})
}

func TestMemberCall(t *testing.T) {
	f := newFixture(t)
	size := f.p.MemberCall(types.Lvalue(f.ty(t, "const Vec")), "size")
	require.True(t, size.Ok())
	assert.Equal(t, types.KindULong, size.Type().Kind)
	assert.False(t, f.p.MemberCall(types.Lvalue(f.ty(t, "Vec")), "missing").Ok())
	assert.False(t, f.p.MemberCall(types.Lvalue(f.ty(t, "Vec")), "size", f.ty(t, "int")).Ok())
	assert.False(t, f.p.MemberCall(types.Lvalue(f.ty(t, "int")), "size").Ok())
}

func TestProbeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	operands := f.tys(t, "Num", "Num")
	first := f.p.Probe(OpPlus, operands...)
	for i := 0; i < 3; i++ {
		assert.True(t, first.Equal(f.p.Probe(OpPlus, operands...)))
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Op
	}{
		{"plus_assign", OpPlusAssign},
		{"static_cast", OpStaticCast},
		{"==", OpEqual},
		{"<<", OpLeftShift},
		{"&", OpBitAnd},
		{"*", OpMultiply},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
	for _, name := range []string{"spaceship", "", "()"} {
		_, ok := Lookup(name)
		assert.False(t, ok, "%q", name)
	}

	assert.Len(t, Names(), len(ops))
	for _, name := range Names() {
		op, ok := Lookup(name)
		require.True(t, ok)
		assert.Equal(t, name, op.String())
	}
	assert.Equal(t, "operator+=", OpPlusAssign.OperatorName())
	assert.Equal(t, Binary, OpEqual.Arity())
}
