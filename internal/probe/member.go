package probe

import (
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// StaticCast returns the type of static_cast<U>(t) where t is a named
// variable of type T.
func (p *Prober) StaticCast(t, u *types.Type) types.Result {
	e, ok := types.RequireLValueReference(t).Get()
	if !ok {
		if u.Kind == types.KindVoid {
			return types.Some(u)
		}
		return types.NoResult
	}
	return p.Apply(OpStaticCast, e, u)
}

// Output returns the type of s << t for an lvalue stream of type S and
// a const lvalue of type T.
func (p *Prober) Output(s, t *types.Type) types.Result {
	se, ok := types.RequireLValueReference(s).Get()
	if !ok || t.Kind == types.KindVoid {
		return types.NoResult
	}
	te := types.LValueRefTo(types.AddConst(types.RemoveReference(t)))
	return p.operator(OpOutputStream, []*types.Type{se, te})
}

// Input returns the type of s >> t for lvalues of types S and T.
func (p *Prober) Input(s, t *types.Type) types.Result {
	se, ok := types.RequireLValueReference(s).Get()
	if !ok {
		return types.NoResult
	}
	te, ok := types.RequireLValueReference(t).Get()
	if !ok {
		return types.NoResult
	}
	return p.operator(OpInputStream, []*types.Type{se, te})
}

// MemberCall returns the type of obj.name(args...) where obj and args are
// expression types. Only member functions are considered.
func (p *Prober) MemberCall(obj *types.Type, name string, args ...*types.Type) types.Result {
	d := obj.ClassDecl()
	if d == nil {
		return types.NoResult
	}
	var cands []oracle.Candidate
	for _, m := range d.LookupMethods(name) {
		cands = append(cands, oracle.MethodCandidate(d, m))
	}
	if len(cands) == 0 {
		return types.NoResult
	}
	c, ok := p.o.Resolve(cands, append([]*types.Type{obj}, args...))
	if !ok {
		return types.NoResult
	}
	return types.Some(c.ResultExpr())
}
