// Package assoc extracts the associated types a type declares about
// itself (value_type, size_type, iterator, ...) and probes the member
// operations containers expose.
package assoc

import (
	"fmt"

	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Slot names an associated type.
type Slot int

const (
	ValueType Slot = iota
	AllocatorType
	SizeType
	DifferenceType
	Iterator
	ConstIterator
	ReverseIterator
	ConstReverseIterator
	Reference
	ConstReference
	Pointer
	ConstPointer
	KeyType
	MappedType
	KeyCompare
	Hasher
	KeyEqual
	LocalIterator
	ConstLocalIterator
	IteratorCategory
)

var slotNames = [...]string{
	ValueType:            "value_type",
	AllocatorType:        "allocator_type",
	SizeType:             "size_type",
	DifferenceType:       "difference_type",
	Iterator:             "iterator",
	ConstIterator:        "const_iterator",
	ReverseIterator:      "reverse_iterator",
	ConstReverseIterator: "const_reverse_iterator",
	Reference:            "reference",
	ConstReference:       "const_reference",
	Pointer:              "pointer",
	ConstPointer:         "const_pointer",
	KeyType:              "key_type",
	MappedType:           "mapped_type",
	KeyCompare:           "key_compare",
	Hasher:               "hasher",
	KeyEqual:             "key_equal",
	LocalIterator:        "local_iterator",
	ConstLocalIterator:   "const_local_iterator",
	IteratorCategory:     "iterator_category",
}

// String returns the nested type name of the slot.
func (s Slot) String() string {
	if s >= 0 && int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// Slots returns every slot in declaration order.
func Slots() []Slot {
	out := make([]Slot, len(slotNames))
	for i := range slotNames {
		out[i] = Slot(i)
	}
	return out
}

// LookupSlot resolves a nested type name.
func LookupSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// Associated returns the type T declares for slot, looking through
// references and cv-qualifiers of T and into its bases.
func Associated(slot Slot, t *types.Type) types.Result {
	d := types.RemoveReference(t).ClassDecl()
	if d == nil || slot < 0 || int(slot) >= len(slotNames) {
		return types.NoResult
	}
	nested, ok := d.LookupNested(slot.String())
	if !ok {
		return types.NoResult
	}
	return types.Some(nested)
}

// Has reports whether T declares slot.
func Has(slot Slot, t *types.Type) bool { return Associated(slot, t).Ok() }

// Member names a container member operation.
type Member int

const (
	Size Member = iota
	Empty
	MaxSize
	Capacity
	Reserve
	Resize
	ShrinkToFit
	Clear
	Front
	Back
	At
)

type memberInfo struct {
	name string
	// mutating members are called on a modifiable object.
	mutating bool
	// indexed members take one int argument.
	indexed bool
}

var members = [...]memberInfo{
	Size:        {name: "size"},
	Empty:       {name: "empty"},
	MaxSize:     {name: "max_size"},
	Capacity:    {name: "capacity"},
	Reserve:     {name: "reserve", mutating: true, indexed: true},
	Resize:      {name: "resize", mutating: true, indexed: true},
	ShrinkToFit: {name: "shrink_to_fit", mutating: true},
	Clear:       {name: "clear", mutating: true},
	Front:       {name: "front"},
	Back:        {name: "back"},
	At:          {name: "at", indexed: true},
}

func (m Member) String() string {
	if m >= 0 && int(m) < len(members) {
		return members[m].name
	}
	return fmt.Sprintf("Member(%d)", int(m))
}

// LookupMember resolves a member operation by name.
func LookupMember(name string) (Member, bool) {
	for i, info := range members {
		if info.name == name {
			return Member(i), true
		}
	}
	return 0, false
}

// Members returns every member operation in declaration order.
func Members() []Member {
	out := make([]Member, len(members))
	for i := range members {
		out[i] = Member(i)
	}
	return out
}

// Containers probes container member operations.
type Containers struct {
	p *probe.Prober
}

// NewContainers returns a member prober backed by p.
func NewContainers(p *probe.Prober) *Containers {
	return &Containers{p: p}
}

// Probe returns the type of x.m(...) where x is an lvalue of T. Observers
// see a const object; mutators a modifiable one. Indexed members receive
// an int prvalue.
func (c *Containers) Probe(m Member, t *types.Type) types.Result {
	if m < 0 || int(m) >= len(members) {
		return types.NoResult
	}
	info := members[m]
	obj := types.RemoveReference(t)
	if obj.ClassDecl() == nil {
		return types.NoResult
	}
	if !info.mutating {
		obj = types.AddConst(obj)
	}
	var args []*types.Type
	if info.indexed {
		args = append(args, types.Declval(types.Basic(types.KindInt)))
	}
	return c.p.MemberCall(types.Lvalue(obj), info.name, args...)
}

// Has reports whether x.m(...) is well-formed for T.
func (c *Containers) Has(m Member, t *types.Type) bool {
	return c.Probe(m, t).Ok()
}
