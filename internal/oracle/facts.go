package oracle

import (
	"sort"
	"strings"

	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Fact is a boolean oracle query addressable by name.
type Fact struct {
	Name     string
	MinArgs  int
	MaxArgs  int // -1 for no bound
	Evaluate func(o *Oracle, args []*types.Type) bool
}

// Accepts reports whether n arguments fit the fact.
func (f Fact) Accepts(n int) bool {
	return n >= f.MinArgs && (f.MaxArgs < 0 || n <= f.MaxArgs)
}

func unaryFact(name string, fn func(o *Oracle, t *types.Type) bool) Fact {
	return Fact{Name: name, MinArgs: 1, MaxArgs: 1, Evaluate: func(o *Oracle, a []*types.Type) bool {
		return fn(o, a[0])
	}}
}

func binaryFact(name string, fn func(o *Oracle, t, u *types.Type) bool) Fact {
	return Fact{Name: name, MinArgs: 2, MaxArgs: 2, Evaluate: func(o *Oracle, a []*types.Type) bool {
		return fn(o, a[0], a[1])
	}}
}

func variadicFact(name string, fn func(o *Oracle, t *types.Type, args ...*types.Type) bool) Fact {
	return Fact{Name: name, MinArgs: 1, MaxArgs: -1, Evaluate: func(o *Oracle, a []*types.Type) bool {
		return fn(o, a[0], a[1:]...)
	}}
}

var facts = func() map[string]Fact {
	list := []Fact{
		unaryFact("void", (*Oracle).Void),
		unaryFact("null_pointer", (*Oracle).Nullptr),
		unaryFact("integral", (*Oracle).Integral),
		unaryFact("floating_point", (*Oracle).FloatingPoint),
		unaryFact("array", (*Oracle).Array),
		unaryFact("pointer", (*Oracle).Pointer),
		unaryFact("lvalue_reference", (*Oracle).LvalueReference),
		unaryFact("rvalue_reference", (*Oracle).RvalueReference),
		unaryFact("member_object_pointer", (*Oracle).MemberObjectPointer),
		unaryFact("member_function_pointer", (*Oracle).MemberFunctionPointer),
		unaryFact("enum", (*Oracle).Enum),
		unaryFact("union", (*Oracle).Union),
		unaryFact("class", (*Oracle).Class),
		unaryFact("function", (*Oracle).FunctionType),
		unaryFact("reference", (*Oracle).Reference),
		unaryFact("arithmetic", (*Oracle).Arithmetic),
		unaryFact("fundamental", (*Oracle).Fundamental),
		unaryFact("object", (*Oracle).Object),
		unaryFact("scalar", (*Oracle).Scalar),
		unaryFact("compound", (*Oracle).Compound),
		unaryFact("member_pointer", (*Oracle).MemberPointer),
		unaryFact("const", (*Oracle).Const),
		unaryFact("volatile", (*Oracle).Volatile),
		unaryFact("trivial", (*Oracle).Trivial),
		unaryFact("standard_layout", (*Oracle).StandardLayout),
		unaryFact("pod", (*Oracle).Pod),
		unaryFact("literal_type", (*Oracle).LiteralType),
		unaryFact("empty", (*Oracle).Empty),
		unaryFact("polymorphic", (*Oracle).Polymorphic),
		unaryFact("abstract", (*Oracle).Abstract),
		unaryFact("has_virtual_destructor", (*Oracle).HasVirtualDestructor),
		unaryFact("signed", (*Oracle).Signed),
		unaryFact("unsigned", (*Oracle).Unsigned),
		unaryFact("referenceable", (*Oracle).Referenceable),
		variadicFact("constructible", (*Oracle).Constructible),
		variadicFact("nothrow_constructible", (*Oracle).NothrowConstructible),
		unaryFact("default_constructible", (*Oracle).DefaultConstructible),
		unaryFact("copy_constructible", (*Oracle).CopyConstructible),
		unaryFact("move_constructible", (*Oracle).MoveConstructible),
		unaryFact("nothrow_default_constructible", (*Oracle).NothrowDefaultConstructible),
		unaryFact("nothrow_copy_constructible", (*Oracle).NothrowCopyConstructible),
		unaryFact("nothrow_move_constructible", (*Oracle).NothrowMoveConstructible),
		binaryFact("assignable", (*Oracle).Assignable),
		binaryFact("nothrow_assignable", (*Oracle).NothrowAssignable),
		unaryFact("copy_assignable", (*Oracle).CopyAssignable),
		unaryFact("move_assignable", (*Oracle).MoveAssignable),
		unaryFact("nothrow_copy_assignable", (*Oracle).NothrowCopyAssignable),
		unaryFact("nothrow_move_assignable", (*Oracle).NothrowMoveAssignable),
		unaryFact("destructible", (*Oracle).Destructible),
		unaryFact("nothrow_destructible", (*Oracle).NothrowDestructible),
		binaryFact("same", (*Oracle).Same),
		binaryFact("base_of", (*Oracle).BaseOf),
		binaryFact("derived", (*Oracle).Derived),
		binaryFact("convertible", (*Oracle).Convertible),
		binaryFact("static_castable", (*Oracle).StaticCastable),
		{Name: "has_common_type", MinArgs: 1, MaxArgs: -1, Evaluate: func(o *Oracle, a []*types.Type) bool {
			return o.HasCommonType(a...)
		}},
	}
	m := make(map[string]Fact, len(list))
	for _, f := range list {
		m[f.Name] = f
	}
	return m
}()

// LookupFact finds a fact by name, ignoring case and an "is_" prefix.
func LookupFact(name string) (Fact, bool) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if f, ok := facts[n]; ok {
		return f, true
	}
	f, ok := facts[strings.TrimPrefix(n, "is_")]
	return f, ok
}

// FactNames returns every fact name, sorted.
func FactNames() []string {
	out := make([]string, 0, len(facts))
	for n := range facts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
