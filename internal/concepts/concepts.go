// Package concepts composes the oracle, the expression probes and the
// associated types into named structural predicates: comparison and
// ordering, the regularity chain, callables, streams, iterators and
// ranges. Every predicate is a pure function of its argument types and
// stops at the first failing requirement.
package concepts

import (
	"github.com/orizon-lang/conceptcheck/internal/deduce"
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Checker evaluates concepts against one universe.
type Checker struct {
	u *types.Universe
	o *oracle.Oracle
	p *probe.Prober
	d *deduce.Deducer

	lookups []Strategy
}

// New returns a Checker over d and the layers beneath it. Begin and end
// are resolved with CanonicalLookup, then ScopedLookup.
func New(d *deduce.Deducer) *Checker {
	p := d.Prober()
	return &Checker{
		u:       p.Oracle().Universe(),
		o:       p.Oracle(),
		p:       p,
		d:       d,
		lookups: []Strategy{CanonicalLookup, ScopedLookup},
	}
}

// Oracle returns the fact oracle.
func (c *Checker) Oracle() *oracle.Oracle { return c.o }

// Prober returns the expression prober.
func (c *Checker) Prober() *probe.Prober { return c.p }

// Deducer returns the associated-type deducer.
func (c *Checker) Deducer() *deduce.Deducer { return c.d }

// boolResult reports whether r is a type convertible to bool.
func (c *Checker) boolResult(r types.Result) bool {
	t, ok := r.Get()
	return ok && c.Boolean(t)
}

// Boolean reports whether T converts to bool.
func (c *Checker) Boolean(t *types.Type) bool { return c.o.ConvertibleToBool(t) }

// Common reports whether the types have a common type.
func (c *Checker) Common(ts ...*types.Type) bool { return c.o.HasCommonType(ts...) }

// ====== Comparison ======

// EqualityComparable reports whether t == u and t != u are boolean. For
// distinct types both operand orders must work, each side must be
// equality comparable on its own, and so must their common type.
func (c *Checker) EqualityComparable(t, u *types.Type) bool {
	if types.Identical(t, u) {
		return c.boolResult(c.p.Probe(probe.OpEqual, t, t)) &&
			c.boolResult(c.p.Probe(probe.OpNotEqual, t, t))
	}
	common, ok := c.o.CommonType(t, u).Get()
	return ok &&
		c.EqualityComparable(t, t) &&
		c.EqualityComparable(u, u) &&
		c.EqualityComparable(common, common) &&
		c.symmetric(t, u, probe.OpEqual, probe.OpNotEqual)
}

// WeaklyOrdered is EqualityComparable over <, >, <= and >=.
func (c *Checker) WeaklyOrdered(t, u *types.Type) bool {
	ordering := []probe.Op{probe.OpLess, probe.OpGreater, probe.OpLessEqual, probe.OpGreaterEqual}
	if types.Identical(t, u) {
		for _, op := range ordering {
			if !c.boolResult(c.p.Probe(op, t, t)) {
				return false
			}
		}
		return true
	}
	common, ok := c.o.CommonType(t, u).Get()
	return ok &&
		c.WeaklyOrdered(t, t) &&
		c.WeaklyOrdered(u, u) &&
		c.WeaklyOrdered(common, common) &&
		c.symmetric(t, u, ordering...)
}

// symmetric reports whether every op yields a boolean for (t, u) and for
// (u, t).
func (c *Checker) symmetric(t, u *types.Type, ops ...probe.Op) bool {
	for _, op := range ops {
		if !c.boolResult(c.p.Probe(op, t, u)) || !c.boolResult(c.p.Probe(op, u, t)) {
			return false
		}
	}
	return true
}

// TotallyOrdered is WeaklyOrdered and EqualityComparable.
func (c *Checker) TotallyOrdered(t *types.Type) bool {
	return c.WeaklyOrdered(t, t) && c.EqualityComparable(t, t)
}

// ====== Regularity ======

func (c *Checker) Movable(t *types.Type) bool {
	return c.o.Destructible(t) && c.o.MoveConstructible(t) && c.o.MoveAssignable(t)
}

func (c *Checker) Copyable(t *types.Type) bool {
	return c.Movable(t) && c.o.CopyConstructible(t) && c.o.CopyAssignable(t)
}

func (c *Checker) Semiregular(t *types.Type) bool {
	return c.Copyable(t) && c.o.Destructible(t)
}

func (c *Checker) Regular(t *types.Type) bool {
	return c.Semiregular(t) && c.EqualityComparable(t, t)
}

func (c *Checker) Ordered(t *types.Type) bool {
	return c.Regular(t) && c.TotallyOrdered(t)
}

// ====== Callables ======

// HasCall reports whether an F can be invoked with args.
func (c *Checker) HasCall(f *types.Type, args ...*types.Type) bool {
	return c.p.HasCall(f, args...)
}

// Predicate reports whether F is copy constructible and callable with
// args, yielding something convertible to bool.
func (c *Checker) Predicate(f *types.Type, args ...*types.Type) bool {
	return c.o.CopyConstructible(f) && c.boolResult(c.p.Invoke(f, args...))
}

// ====== Streams ======

// OutputStreamable reports whether s << t is well-formed. A nil stream
// means the canonical output stream.
func (c *Checker) OutputStreamable(t, stream *types.Type) bool {
	if stream == nil {
		stream = c.u.OStream()
	}
	return c.p.Output(stream, t).Ok()
}

// InputStreamable reports whether s >> t is well-formed. A nil stream
// means the canonical input stream.
func (c *Checker) InputStreamable(t, stream *types.Type) bool {
	if stream == nil {
		stream = c.u.IStream()
	}
	return c.p.Input(stream, t).Ok()
}

// Streamable reports both directions. A nil stream means the canonical
// stream of each direction; an explicit stream must support both.
func (c *Checker) Streamable(t, stream *types.Type) bool {
	return c.InputStreamable(t, stream) && c.OutputStreamable(t, stream)
}
