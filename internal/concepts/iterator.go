package concepts

import (
	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// IteratorCategory returns the category tag of I: the declared
// iterator_category, or random_access_iterator_tag for pointers.
// References are looked through.
func (c *Checker) IteratorCategory(i *types.Type) types.Result {
	r := types.RemoveReference(i)
	if r.Kind == types.KindPointer {
		return types.Some(c.u.Tag(types.RandomAccessIteratorTag))
	}
	return assoc.Associated(assoc.IteratorCategory, r)
}

func (c *Checker) HasIteratorCategory(i *types.Type) bool {
	return c.IteratorCategory(i).Ok()
}

// IteratorKind reports whether I's category is tag or derives from it.
func (c *Checker) IteratorKind(i, tag *types.Type) bool {
	cat, ok := c.IteratorCategory(i).Get()
	return ok && tag != nil && c.o.Derived(cat, tag)
}

func (c *Checker) kind(i *types.Type, tag string) bool {
	return c.IteratorKind(i, c.u.Tag(tag))
}

// Readable reports whether *i converts to a const lvalue of I's value
// type.
func (c *Checker) Readable(i *types.Type) bool {
	v, ok := c.d.ValueType(i).Get()
	if !ok {
		return false
	}
	deref, ok := c.p.Probe(probe.OpDereference, i).Get()
	if !ok {
		return false
	}
	ref, ok := types.RequireLValueReference(types.AddConst(v)).Get()
	return ok && c.o.Convertible(deref, ref)
}

// Writable reports whether *i = t is well-formed for a value t of type T.
func (c *Checker) Writable(i, t *types.Type) bool {
	deref, ok := c.p.Probe(probe.OpDereference, i).Get()
	return ok && c.o.Assignable(deref, t)
}

// Incrementable reports whether I is regular, has a signed difference
// type, and ++i yields I& while i++ yields I.
func (c *Checker) Incrementable(i *types.Type) bool {
	if !c.Regular(i) {
		return false
	}
	diff, ok := c.d.DifferenceType(i).Get()
	if !ok || !c.o.Signed(diff) {
		return false
	}
	return c.p.Probe(probe.OpPreIncrement, i).Is(types.Lvalue(i)) &&
		c.p.Probe(probe.OpPostIncrement, i).Is(i)
}

// Decrementable is Incrementable plus the decrement counterparts.
func (c *Checker) Decrementable(i *types.Type) bool {
	return c.Incrementable(i) &&
		c.p.Probe(probe.OpPreDecrement, i).Is(types.Lvalue(i)) &&
		c.p.Probe(probe.OpPostDecrement, i).Is(i)
}

func (c *Checker) InputIterator(i *types.Type) bool {
	return c.Readable(i) && c.Incrementable(i) && c.kind(i, types.InputIteratorTag)
}

// OutputIterator reports whether values of type T can be written through
// I. The increment results are unconstrained; the category must be
// output or forward and stronger.
func (c *Checker) OutputIterator(i, t *types.Type) bool {
	return c.Writable(i, t) &&
		c.p.Has(probe.OpPreIncrement, i) &&
		c.p.Has(probe.OpPostIncrement, i) &&
		(c.kind(i, types.OutputIteratorTag) || c.kind(i, types.ForwardIteratorTag))
}

func (c *Checker) ForwardIterator(i *types.Type) bool {
	return c.Readable(i) && c.Incrementable(i) && c.kind(i, types.ForwardIteratorTag)
}

func (c *Checker) BidirectionalIterator(i *types.Type) bool {
	return c.Readable(i) && c.Decrementable(i) && c.kind(i, types.BidirectionalIteratorTag)
}

// RandomAccessIterator adds subscripting and arithmetic with the
// difference type N: i[n] yields I's reference, i += n and i -= n yield
// I&, i + n, n + i and i - n yield I, and i - j yields N. n - i is not
// required.
func (c *Checker) RandomAccessIterator(i *types.Type) bool {
	if !c.Readable(i) || !c.Decrementable(i) {
		return false
	}
	n, ok := c.d.DifferenceType(i).Get()
	if !ok {
		return false
	}
	ref, ok := c.d.Reference(i).Get()
	if !ok {
		return false
	}
	lvalue := types.Lvalue(i)
	return c.p.Probe(probe.OpSubscript, i, n).Is(ref) &&
		c.p.Probe(probe.OpPlusAssign, i, n).Is(lvalue) &&
		c.p.Probe(probe.OpMinusAssign, i, n).Is(lvalue) &&
		c.p.Probe(probe.OpPlus, i, n).Is(i) &&
		c.p.Probe(probe.OpPlus, n, i).Is(i) &&
		c.p.Probe(probe.OpMinus, i, n).Is(i) &&
		c.p.Probe(probe.OpMinus, i, i).Is(n) &&
		c.kind(i, types.RandomAccessIteratorTag)
}

// Iterator is the minimal iterator: incrementable, dereferenceable and
// categorized.
func (c *Checker) Iterator(i *types.Type) bool {
	return c.Incrementable(i) && c.p.Has(probe.OpDereference, i) && c.HasIteratorCategory(i)
}
