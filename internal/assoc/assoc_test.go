package assoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

func newUniverse(t *testing.T) *types.Universe {
	t.Helper()
	u := types.NewUniverse(types.LP64)
	intT := types.Basic(types.KindInt)
	sizeT := types.Basic(types.KindULong)
	constRef := types.LValueRefTo(types.AddConst(intT))

	seq := types.NewClass("Seq")
	seq.SetNested("value_type", intT).
		SetNested("size_type", sizeT).
		SetNested("iterator", types.PointerTo(intT)).
		SetNested("const_iterator", types.PointerTo(types.AddConst(intT)))
	seq.AddMethod(&types.Method{Name: "size", Result: sizeT, Const: true}).
		AddMethod(&types.Method{Name: "empty", Result: types.Basic(types.KindBool), Const: true}).
		AddMethod(&types.Method{Name: "reserve", Params: []*types.Type{sizeT}, Result: types.Void()}).
		AddMethod(&types.Method{Name: "clear", Result: types.Void()}).
		AddMethod(&types.Method{Name: "front", Result: constRef, Const: true}).
		AddMethod(&types.Method{Name: "front", Result: types.LValueRefTo(intT)}).
		AddMethod(&types.Method{Name: "at", Params: []*types.Type{sizeT}, Result: constRef, Const: true})
	u.MustDeclare(seq)

	child := types.NewClass("SeqChild")
	child.Bases = []*types.Decl{seq}
	u.MustDeclare(child)

	bag := types.NewClass("Bag")
	bag.AddMethod(&types.Method{Name: "size", Result: sizeT})
	u.MustDeclare(bag)
	return u
}

func TestAssociated(t *testing.T) {
	u := newUniverse(t)
	tests := []struct {
		slot Slot
		src  string
		want string
	}{
		{ValueType, "Seq", "int"},
		{ValueType, "const Seq&", "int"},
		{SizeType, "Seq&&", "unsigned long"},
		{ConstIterator, "Seq", "const int*"},
		{Iterator, "SeqChild", "int*"},
		{MappedType, "Seq", ""},
		{ValueType, "int", ""},
		{ValueType, "Seq*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.slot.String()+" of "+tt.src, func(t *testing.T) {
			got := Associated(tt.slot, typeexpr.MustParse(u, tt.src))
			if tt.want == "" {
				assert.False(t, got.Ok())
				return
			}
			assert.True(t, got.Is(typeexpr.MustParse(u, tt.want)), "got %s", got)
		})
	}
}

func TestSlotNames(t *testing.T) {
	for _, s := range Slots() {
		got, ok := LookupSlot(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	assert.Len(t, Slots(), 20)
	_, ok := LookupSlot("value")
	assert.False(t, ok)
}

func TestContainerMembers(t *testing.T) {
	u := newUniverse(t)
	c := NewContainers(probe.New(oracle.New(u)))
	seq := typeexpr.MustParse(u, "Seq")

	tests := []struct {
		m    Member
		src  string
		want string
	}{
		{Size, "Seq", "unsigned long"},
		{Size, "SeqChild&", "unsigned long"},
		{Empty, "Seq", "bool"},
		{Reserve, "Seq", "void"},
		{Clear, "Seq", "void"},
		{Front, "Seq", "const int&"},
		{At, "Seq", "const int&"},
		{Capacity, "Seq", ""},
		{ShrinkToFit, "Seq", ""},
		{Size, "Bag", ""},
		{Size, "int", ""},
	}
	for _, tt := range tests {
		t.Run(tt.m.String()+" of "+tt.src, func(t *testing.T) {
			got := c.Probe(tt.m, typeexpr.MustParse(u, tt.src))
			if tt.want == "" {
				assert.False(t, got.Ok(), "got %s", got)
				return
			}
			assert.True(t, got.Is(typeexpr.MustParse(u, tt.want)), "got %s", got)
		})
	}
	assert.True(t, c.Has(Reserve, seq))
	assert.False(t, c.Has(Resize, seq))
}

func TestMemberNames(t *testing.T) {
	for _, m := range Members() {
		got, ok := LookupMember(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
}
