// Package deduce synthesizes associated types a type does not declare.
// Each deducible slot has an ordered Chain of rules; the first rule that
// yields a type wins. A declared associated type always takes precedence
// over the chain.
package deduce

import (
	"sync"

	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/types"
	"github.com/orizon-lang/conceptcheck/internal/widen"
)

// Rule is one deduction strategy.
type Rule struct {
	Name  string
	Apply func(d *Deducer, t *types.Type) types.Result
}

// Chain is an ordered list of rules.
type Chain []Rule

// Eval runs the rules in order and returns the first result together with
// the name of the rule that produced it.
func (c Chain) Eval(d *Deducer, t *types.Type) (types.Result, string) {
	for _, r := range c {
		if res := r.Apply(d, t); res.Ok() {
			return res, r.Name
		}
	}
	return types.NoResult, ""
}

// Sources reported by Explain besides rule names.
const (
	SourceOverride   = "override"
	SourceAssociated = "associated"
)

// Deducer resolves the public associated types: Value_type, Size_type,
// Difference_type, Reference and Pointer, plus the declared-only slots.
type Deducer struct {
	u *types.Universe
	p *probe.Prober
	c *assoc.Containers

	mu     sync.RWMutex
	chains map[assoc.Slot]Chain
}

// New returns a Deducer seeded with the builtin rules.
func New(p *probe.Prober) *Deducer {
	return &Deducer{
		u:      p.Oracle().Universe(),
		p:      p,
		c:      assoc.NewContainers(p),
		chains: builtinChains(),
	}
}

// Prober returns the expression prober the rules use.
func (d *Deducer) Prober() *probe.Prober { return d.p }

// Containers returns the container member prober the rules use.
func (d *Deducer) Containers() *assoc.Containers { return d.c }

// Extend registers rules for slot ahead of the builtin ones, in the order
// given.
func (d *Deducer) Extend(slot assoc.Slot, rules ...Rule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chains[slot] = append(append(Chain(nil), rules...), d.chains[slot]...)
}

// Chain returns a copy of the rules consulted for slot.
func (d *Deducer) Chain(slot assoc.Slot) Chain {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append(Chain(nil), d.chains[slot]...)
}

// Deducible reports whether slot has a deduction chain.
func (d *Deducer) Deducible(slot assoc.Slot) bool {
	return len(d.Chain(slot)) > 0
}

// Type returns the public associated type of t for slot: the declared
// one if any, otherwise the deduced one.
func (d *Deducer) Type(slot assoc.Slot, t *types.Type) types.Result {
	r, _ := d.Explain(slot, t)
	return r
}

// Explain is Type that also names where the answer came from: an
// override, the declaration, or the deduction rule that fired.
func (d *Deducer) Explain(slot assoc.Slot, t *types.Type) (types.Result, string) {
	if t == nil {
		return types.NoResult, ""
	}
	switch slot {
	case assoc.DifferenceType:
		if diff, ok := d.u.DifferenceOverride(types.RemoveCV(types.RemoveReference(t))); ok {
			return types.Some(diff), SourceOverride
		}
	case assoc.Reference:
		if r, ok := d.constSensitive(t, assoc.Reference, assoc.ConstReference); ok {
			return r, SourceAssociated
		}
		return d.Chain(slot).Eval(d, t)
	case assoc.Pointer:
		if r, ok := d.constSensitive(t, assoc.Pointer, assoc.ConstPointer); ok {
			return r, SourceAssociated
		}
		return d.Chain(slot).Eval(d, t)
	}
	if r := assoc.Associated(slot, t); r.Ok() {
		return r, SourceAssociated
	}
	return d.Chain(slot).Eval(d, t)
}

// constSensitive picks between a declared mutable and const associated
// type: with both present the constness of t decides, otherwise the one
// present is used.
func (d *Deducer) constSensitive(t *types.Type, mutable, constant assoc.Slot) (types.Result, bool) {
	m, c := assoc.Associated(mutable, t), assoc.Associated(constant, t)
	switch {
	case m.Ok() && c.Ok():
		if types.IsConst(types.RemoveReference(t)) {
			return c, true
		}
		return m, true
	case m.Ok():
		return m, true
	case c.Ok():
		return c, true
	}
	return types.NoResult, false
}

// ValueType returns Value_type(t).
func (d *Deducer) ValueType(t *types.Type) types.Result { return d.Type(assoc.ValueType, t) }

// SizeType returns Size_type(t).
func (d *Deducer) SizeType(t *types.Type) types.Result { return d.Type(assoc.SizeType, t) }

// DifferenceType returns Difference_type(t).
func (d *Deducer) DifferenceType(t *types.Type) types.Result {
	return d.Type(assoc.DifferenceType, t)
}

// Reference returns Reference(t).
func (d *Deducer) Reference(t *types.Type) types.Result { return d.Type(assoc.Reference, t) }

// Pointer returns Pointer(t).
func (d *Deducer) Pointer(t *types.Type) types.Result { return d.Type(assoc.Pointer, t) }

func builtinChains() map[assoc.Slot]Chain {
	return map[assoc.Slot]Chain{
		assoc.ValueType:      {derefValue},
		assoc.SizeType:       {memberSize, unsignedDifference},
		assoc.DifferenceType: {pointerDifference, integralDifference, floatingDifference, incrementableDifference},
		assoc.Reference:      {derefReference},
		assoc.Pointer:        {derefAddress},
	}
}

// Builtin rules.
var (
	derefValue = Rule{Name: "dereference", Apply: func(d *Deducer, t *types.Type) types.Result {
		return d.p.Probe(probe.OpDereference, types.RemoveCV(types.RemoveReference(t))).
			Map(func(r *types.Type) *types.Type { return types.RemoveCV(types.RemoveReference(r)) })
	}}

	memberSize = Rule{Name: "member_size", Apply: func(d *Deducer, t *types.Type) types.Result {
		return d.c.Probe(assoc.Size, t)
	}}

	unsignedDifference = Rule{Name: "unsigned_difference", Apply: func(d *Deducer, t *types.Type) types.Result {
		return d.DifferenceType(t).Then(d.u.Model.MakeUnsigned)
	}}

	pointerDifference = Rule{Name: "pointer", Apply: func(d *Deducer, t *types.Type) types.Result {
		if types.Decay(t).Kind != types.KindPointer {
			return types.NoResult
		}
		return types.Some(d.u.PtrDiff())
	}}

	integralDifference = Rule{Name: "integral", Apply: func(d *Deducer, t *types.Type) types.Result {
		v := types.Decay(t)
		if !v.Kind.IsIntegral() {
			return types.NoResult
		}
		return d.u.Model.MakeSigned(v).Then(func(s *types.Type) types.Result {
			return widen.OneSizeUp(d.u.Model, s)
		})
	}}

	floatingDifference = Rule{Name: "floating", Apply: func(d *Deducer, t *types.Type) types.Result {
		if v := types.Decay(t); v.Kind.IsFloating() {
			return types.Some(v)
		}
		return types.NoResult
	}}

	incrementableDifference = Rule{Name: "pre_increment", Apply: func(d *Deducer, t *types.Type) types.Result {
		v := types.Decay(t)
		if v.Kind != types.KindClass || !d.p.Has(probe.OpPreIncrement, v) {
			return types.NoResult
		}
		return types.Some(d.u.PtrDiff())
	}}

	derefReference = Rule{Name: "dereference", Apply: func(d *Deducer, t *types.Type) types.Result {
		return d.p.Probe(probe.OpDereference, t)
	}}

	derefAddress = Rule{Name: "address_of_dereference", Apply: func(d *Deducer, t *types.Type) types.Result {
		r, ok := d.p.Probe(probe.OpDereference, t).Get()
		if !ok || !r.IsReference() {
			return types.NoResult
		}
		return d.p.Apply(probe.OpAddressOf, r)
	}}
)

// Builtin returns the builtin chain of slot.
func Builtin(slot assoc.Slot) Chain {
	return append(Chain(nil), builtinChains()[slot]...)
}
