package oracle

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// ObjectParam is the implicit object parameter of a member candidate.
type ObjectParam struct {
	Class   *types.Decl
	Const   bool
	RefQual types.RefQualifier
	Static  bool
}

// Candidate is one function considered by overload resolution. For member
// candidates the first argument is the object expression.
type Candidate struct {
	Name     string
	Object   *ObjectParam
	Params   []*types.Type
	Result   *types.Type
	Variadic bool
	Nothrow  bool
	Explicit bool
	Builtin  bool
}

// MethodCandidate builds the candidate for member m of class owner.
func MethodCandidate(owner *types.Decl, m *types.Method) Candidate {
	return Candidate{
		Name: m.Name,
		Object: &ObjectParam{
			Class:   owner,
			Const:   m.Const,
			RefQual: m.RefQual,
			Static:  m.Static,
		},
		Params:  m.Params,
		Result:  m.Result,
		Nothrow: m.Noexcept,
	}
}

// FunctionCandidate builds the candidate for free function f.
func FunctionCandidate(f *types.Function) Candidate {
	return Candidate{Name: f.Name, Params: f.Params, Result: f.Result}
}

// ResultExpr returns the expression type of a call to c.
func (c Candidate) ResultExpr() *types.Type {
	if c.Result == nil {
		return types.Void()
	}
	return ExprOf(c.Result)
}

// objectRank grades binding the object expression e to p.
func (o *Oracle) objectRank(e *types.Type, p *ObjectParam) Rank {
	if p.Static {
		return RankIdentity
	}
	s := e.Referent()
	if !s.Kind.IsClassLike() {
		return RankNone
	}
	base := o.related(types.Named(p.Class), s)
	if !base.Viable() {
		return RankNone
	}
	if types.IsConst(s) && !p.Const {
		return RankNone
	}
	switch p.RefQual {
	case types.RefLValue:
		if !e.IsLValue() && !p.Const {
			return RankNone
		}
	case types.RefRValue:
		if e.IsLValue() {
			return RankNone
		}
	}
	if base == RankIdentity && p.Const && !types.IsConst(s) {
		return RankQualified
	}
	return base
}

// score is the grade of one argument. ref is the reference kind of the
// parameter; rvalue reference binding wins ties against lvalue reference
// binding.
type score struct {
	rank   Rank
	second Rank
	ref    types.Kind
}

// ranks grades every argument against c. The second result is false when
// c is not viable.
func (o *Oracle) ranks(c Candidate, args []*types.Type) ([]score, bool) {
	var out []score
	if c.Object != nil {
		if len(args) == 0 {
			return nil, false
		}
		r := o.objectRank(args[0], c.Object)
		if !r.Viable() {
			return nil, false
		}
		out = append(out, score{rank: r})
		args = args[1:]
	}
	if len(args) < len(c.Params) || (len(args) > len(c.Params) && !c.Variadic) {
		return nil, false
	}
	for i, a := range args {
		if i >= len(c.Params) {
			if a.Kind == types.KindVoid {
				return nil, false
			}
			out = append(out, score{rank: RankEllipsis})
			continue
		}
		p := c.Params[i]
		r := o.implicitRank(a, p, modeImplicit)
		if !r.Viable() {
			return nil, false
		}
		s := score{rank: r}
		if r == RankUserDefined {
			s.second = o.secondRank(a, p)
		}
		if p.IsReference() {
			s.ref = p.Kind
		}
		out = append(out, s)
	}
	return out, true
}

func (s score) better(o score) bool {
	if s.rank != o.rank {
		return s.rank < o.rank
	}
	if s.rank == RankUserDefined && s.second != o.second {
		return s.second < o.second
	}
	return s.ref == types.KindRValueRef && o.ref == types.KindLValueRef
}

// better reports whether a is at least as good as b for every argument
// and strictly better for one.
func better(a, b []score) bool {
	strict := false
	for i := range a {
		if i >= len(b) {
			break
		}
		if b[i].better(a[i]) {
			return false
		}
		if a[i].better(b[i]) {
			strict = true
		}
	}
	return strict
}

// Viable returns the candidates that can be called with args.
func (o *Oracle) Viable(cands []Candidate, args []*types.Type) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Explicit {
			continue
		}
		if _, ok := o.ranks(c, args); ok {
			out = append(out, c)
		}
	}
	return out
}

// Resolve picks the unique best viable candidate for args. Ambiguity and
// the absence of a viable candidate both report false.
func (o *Oracle) Resolve(cands []Candidate, args []*types.Type) (Candidate, bool) {
	return o.resolve(cands, args, modeImplicit)
}

func (o *Oracle) resolve(cands []Candidate, args []*types.Type, mode convMode) (Candidate, bool) {
	type viable struct {
		c      Candidate
		scores []score
	}
	var vs []viable
	for _, c := range cands {
		if c.Explicit && mode != modeDirect {
			continue
		}
		if r, ok := o.ranks(c, args); ok {
			vs = append(vs, viable{c, r})
		}
	}
	if len(vs) == 0 {
		return Candidate{}, false
	}
	for i, v := range vs {
		best := true
		for j, w := range vs {
			if i != j && !better(v.scores, w.scores) {
				best = false
				break
			}
		}
		if best {
			return v.c, true
		}
	}
	return Candidate{}, false
}
