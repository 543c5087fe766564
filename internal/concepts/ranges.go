package concepts

import (
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Strategy is one named way of resolving begin(x) and end(x) on an
// lvalue x of type T.
type Strategy struct {
	Name    string
	Resolve func(c *Checker, fn string, t *types.Type) types.Result
}

// CanonicalLookup resolves like std::begin: arrays of known bound yield
// an element pointer, classes use their member function, and otherwise a
// global free function is called.
var CanonicalLookup = Strategy{Name: "canonical", Resolve: func(c *Checker, fn string, t *types.Type) types.Result {
	x, ok := types.RequireLValueReference(t).Get()
	if !ok {
		return types.NoResult
	}
	if r := x.Referent(); r.Kind == types.KindArray {
		if r.Len < 0 {
			return types.NoResult
		}
		return types.Some(types.PointerTo(r.Elem))
	}
	if x.ClassDecl() != nil {
		if res := c.p.MemberCall(x, fn); res.Ok() {
			return res
		}
	}
	return c.callFree(c.u.Functions(fn), x)
}}

// ScopedLookup resolves through the functions declared in the scope of
// T's class, the way argument-dependent lookup would.
var ScopedLookup = Strategy{Name: "scoped", Resolve: func(c *Checker, fn string, t *types.Type) types.Result {
	x, ok := types.RequireLValueReference(t).Get()
	if !ok {
		return types.NoResult
	}
	d := x.ClassDecl()
	if d == nil {
		return types.NoResult
	}
	return c.callFree(d.LookupScope(fn), x)
}}

func (c *Checker) callFree(fs []*types.Function, x *types.Type) types.Result {
	if len(fs) == 0 {
		return types.NoResult
	}
	cands := make([]oracle.Candidate, len(fs))
	for i, f := range fs {
		cands[i] = oracle.FunctionCandidate(f)
	}
	picked, ok := c.o.Resolve(cands, []*types.Type{x})
	if !ok {
		return types.NoResult
	}
	return types.Some(picked.ResultExpr())
}

// Lookups returns the strategies begin and end are resolved with, in
// order.
func (c *Checker) Lookups() []Strategy { return append([]Strategy(nil), c.lookups...) }

func (c *Checker) lookup(fn string, t *types.Type) types.Result {
	for _, l := range c.lookups {
		if r := l.Resolve(c, fn, t); r.Ok() {
			return r
		}
	}
	return types.NoResult
}

// BeginResult returns the type of begin(x).
func (c *Checker) BeginResult(t *types.Type) types.Result { return c.lookup("begin", t) }

// EndResult returns the type of end(x).
func (c *Checker) EndResult(t *types.Type) types.Result { return c.lookup("end", t) }

func (c *Checker) HasBegin(t *types.Type) bool { return c.BeginResult(t).Ok() }
func (c *Checker) HasEnd(t *types.Type) bool   { return c.EndResult(t).Ok() }

// IteratorOf is the iterator type of a range.
func (c *Checker) IteratorOf(t *types.Type) types.Result { return c.BeginResult(t) }

// Range reports whether begin and end agree on an Iterator type.
func (c *Checker) Range(t *types.Type) bool {
	b, ok := c.BeginResult(t).Get()
	if !ok {
		return false
	}
	e, ok := c.EndResult(t).Get()
	return ok && types.Identical(b, e) && c.Iterator(b)
}

// WithLookups returns a copy of c that resolves begin and end with ls, in
// order.
func (c *Checker) WithLookups(ls ...Strategy) *Checker {
	cp := *c
	cp.lookups = append([]Strategy(nil), ls...)
	return &cp
}
