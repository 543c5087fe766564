package probe

import (
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Invoke returns the type of invoking an F with arguments of the given
// types, each forwarded with its declval value category. The forms are a
// plain call, (t.*f)(args...) and ((*t).*f)(args...) for member function
// pointers, and t.*f or (*t).*f for member object pointers. A void F has
// no result.
func (p *Prober) Invoke(f *types.Type, args ...*types.Type) types.Result {
	if f == nil || f.Kind == types.KindVoid {
		return types.NoResult
	}
	exprs := make([]*types.Type, len(args))
	for i, a := range args {
		if a == nil || a.Kind == types.KindVoid {
			return types.NoResult
		}
		exprs[i] = types.Declval(a)
	}
	return p.call(types.Declval(f), exprs)
}

// ResultOf takes a call signature F(Args...) written as a function type
// and returns Invoke(F, Args...).
func (p *Prober) ResultOf(sig *types.Type) types.Result {
	if sig == nil || sig.Kind != types.KindFunction || sig.Sig.Result == nil {
		return types.NoResult
	}
	return p.Invoke(sig.Sig.Result, sig.Sig.Params...)
}

// HasCall reports whether Invoke(f, args...) is well-formed.
func (p *Prober) HasCall(f *types.Type, args ...*types.Type) bool {
	return p.Invoke(f, args...).Ok()
}

func (p *Prober) call(fe *types.Type, args []*types.Type) types.Result {
	s := fe.Referent()
	switch s.Kind {
	case types.KindFunction:
		return p.callSignature(s.Sig, args)
	case types.KindPointer:
		if s.Elem.Kind == types.KindFunction {
			return p.callSignature(s.Elem.Sig, args)
		}
		return types.NoResult
	case types.KindMemberFunctionPointer:
		return p.callMember(s, args)
	case types.KindMemberObjectPointer:
		return p.accessMember(s, args)
	case types.KindClass, types.KindUnion:
		return p.callObject(fe, args)
	}
	return types.NoResult
}

func signatureCandidate(sig *types.Signature) oracle.Candidate {
	return oracle.Candidate{Params: sig.Params, Result: sig.Result, Variadic: sig.Variadic}
}

func (p *Prober) callSignature(sig *types.Signature, args []*types.Type) types.Result {
	c, ok := p.o.Resolve([]oracle.Candidate{signatureCandidate(sig)}, args)
	if !ok {
		return types.NoResult
	}
	return types.Some(c.ResultExpr())
}

// callObject resolves a call on a class object: its operator() overloads
// plus one surrogate per conversion to a function pointer or reference.
func (p *Prober) callObject(fe *types.Type, args []*types.Type) types.Result {
	d := fe.ClassDecl()
	var cands []oracle.Candidate
	for _, m := range d.LookupMethods("operator()") {
		cands = append(cands, oracle.MethodCandidate(d, m))
	}
	for _, c := range d.AllConversions() {
		if c.Explicit {
			continue
		}
		target := c.To.Referent()
		if target.Kind == types.KindPointer {
			target = target.Elem
		}
		if target.Kind != types.KindFunction {
			continue
		}
		sur := signatureCandidate(target.Sig)
		sur.Name = "surrogate"
		sur.Object = &oracle.ObjectParam{Class: d, Const: true}
		cands = append(cands, sur)
	}
	all := append([]*types.Type{fe}, args...)
	c, ok := p.o.Resolve(cands, all)
	if !ok {
		return types.NoResult
	}
	return types.Some(c.ResultExpr())
}

// objectOf returns the object expression a pointer to member of owner
// applies to: t itself when it is an owner (or derived) object, *t when
// t is a pointer to one.
func objectOf(owner *types.Decl, t *types.Type) (*types.Type, bool) {
	if d := t.ClassDecl(); d != nil {
		return t, owner.IsBaseOf(d)
	}
	v := types.Decay(t)
	if v.Kind == types.KindPointer && v.Elem.Kind.IsClassLike() {
		return types.LValueRefTo(v.Elem), owner.IsBaseOf(v.Elem.Decl)
	}
	return nil, false
}

func (p *Prober) callMember(mfp *types.Type, args []*types.Type) types.Result {
	if len(args) == 0 {
		return types.NoResult
	}
	obj, ok := objectOf(mfp.Decl, args[0])
	if !ok {
		return types.NoResult
	}
	c := signatureCandidate(mfp.Sig)
	c.Object = &oracle.ObjectParam{Class: mfp.Decl, Const: mfp.Sig.Const, RefQual: mfp.Sig.RefQual}
	picked, ok := p.o.Resolve([]oracle.Candidate{c}, append([]*types.Type{obj}, args[1:]...))
	if !ok {
		return types.NoResult
	}
	return types.Some(picked.ResultExpr())
}

// accessMember is t.*m: an lvalue for lvalue objects, an xvalue
// otherwise, carrying the object's cv-qualifiers.
func (p *Prober) accessMember(mop *types.Type, args []*types.Type) types.Result {
	if len(args) != 1 {
		return types.NoResult
	}
	obj, ok := objectOf(mop.Decl, args[0])
	if !ok {
		return types.NoResult
	}
	m := mop.Elem
	if m.IsReference() {
		return types.Some(types.LValueRefTo(m.Referent()))
	}
	src := obj.Referent()
	if types.IsConst(src) {
		m = types.AddConst(m)
	}
	if types.IsVolatile(src) {
		m = types.AddVolatile(m)
	}
	if obj.IsLValue() {
		return types.Some(types.LValueRefTo(m))
	}
	return types.Some(types.RValueRefTo(m))
}
