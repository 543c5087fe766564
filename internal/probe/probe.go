package probe

import (
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Prober evaluates expression probes against one oracle.
type Prober struct {
	o *oracle.Oracle
	u *types.Universe
}

// New returns a Prober reading o.
func New(o *oracle.Oracle) *Prober {
	return &Prober{o: o, u: o.Universe()}
}

// Oracle returns the oracle the prober reads.
func (p *Prober) Oracle() *oracle.Oracle { return p.o }

// Probe tests op on operands of the given types and returns the type of
// the expression. Operator operands are named variables, so they are
// lvalues of the queried types. A binary operator given one type uses it
// for both sides.
//
// OpStaticCast takes (T, U) and tests static_cast<U>(t). OpCall takes
// (F, Args...) and tests invoking an F with forwarded arguments.
// OpOutputStream and OpInputStream take (S, T) and test s << t and s >> t.
func (p *Prober) Probe(op Op, operands ...*types.Type) types.Result {
	info, ok := ops[op]
	if !ok || len(operands) == 0 {
		return types.NoResult
	}
	switch op {
	case OpCall:
		return p.Invoke(operands[0], operands[1:]...)
	case OpStaticCast:
		if len(operands) != 2 {
			return types.NoResult
		}
		return p.StaticCast(operands[0], operands[1])
	case OpOutputStream:
		if len(operands) != 2 {
			return types.NoResult
		}
		return p.Output(operands[0], operands[1])
	case OpInputStream:
		if len(operands) != 2 {
			return types.NoResult
		}
		return p.Input(operands[0], operands[1])
	}

	switch info.arity {
	case Unary:
		if len(operands) != 1 {
			return types.NoResult
		}
	case Binary:
		switch len(operands) {
		case 1:
			operands = []*types.Type{operands[0], operands[0]}
		case 2:
		default:
			return types.NoResult
		}
	}
	exprs := make([]*types.Type, len(operands))
	for i, t := range operands {
		e, ok := types.RequireLValueReference(t).Get()
		if !ok {
			return types.NoResult
		}
		exprs[i] = e
	}
	return p.Apply(op, exprs...)
}

// Has reports whether Probe(op, operands...) yields a type.
func (p *Prober) Has(op Op, operands ...*types.Type) bool {
	return p.Probe(op, operands...).Ok()
}

// Apply evaluates op over expression types: an lvalue reference is an
// lvalue operand, an rvalue reference an xvalue and any other type a
// prvalue.
func (p *Prober) Apply(op Op, exprs ...*types.Type) types.Result {
	info, ok := ops[op]
	if !ok {
		return types.NoResult
	}
	if op == OpStaticCast {
		// Apply(OpStaticCast, e, target): the target is a type, not an
		// expression.
		if len(exprs) != 2 || exprs[0].Kind == types.KindVoid || !p.o.StaticCastExpr(exprs[1], exprs[0]) {
			return types.NoResult
		}
		return types.Some(oracle.ExprOf(exprs[1]))
	}
	for _, e := range exprs {
		if e == nil || e.Kind == types.KindVoid {
			return types.NoResult
		}
	}
	switch info.arity {
	case Unary:
		if len(exprs) != 1 {
			return types.NoResult
		}
	case Binary:
		if len(exprs) != 2 {
			return types.NoResult
		}
	}

	switch op {
	case OpCall:
		if len(exprs) == 0 {
			return types.NoResult
		}
		return p.call(exprs[0], exprs[1:])
	case OpAssign:
		return p.assign(exprs[0], exprs[1])
	}
	return p.operator(op, exprs)
}

// assign resolves "a = b". Class left operands use their assignment
// operators, everything else the builtin rule.
func (p *Prober) assign(a, b *types.Type) types.Result {
	if r := p.o.AssignResult(a, b); r.Ok() {
		return r
	}
	if b.Referent().Kind.IsClassLike() && !a.Referent().Kind.IsClassLike() {
		for _, alt := range conversionTargets(b) {
			if r := p.o.AssignResult(a, alt); r.Ok() {
				return r
			}
		}
	}
	return types.NoResult
}

// operator resolves an overloadable operator expression: user overloads
// first, then the builtin rules on the operands as written, then the
// builtin rules after converting class operands through their conversion
// functions.
func (p *Prober) operator(op Op, exprs []*types.Type) types.Result {
	if r, decided := p.overloaded(op, exprs); decided {
		return r
	}
	if r := p.builtin(op, exprs); r.Ok() {
		return r
	}
	return p.convertedBuiltin(op, exprs)
}

// overloaded resolves op among the user-declared operator functions. The
// second result is false when no user candidate is viable, in which case
// the builtin operators apply.
func (p *Prober) overloaded(op Op, exprs []*types.Type) (types.Result, bool) {
	if !hasUserOperand(exprs) {
		return types.NoResult, false
	}
	cands := p.candidates(op, exprs)
	if len(cands) == 0 {
		return types.NoResult, false
	}
	args := exprs
	if ops[op].postfix {
		args = append(append([]*types.Type(nil), exprs...), types.Basic(types.KindInt))
	}
	if len(p.o.Viable(cands, args)) == 0 {
		return types.NoResult, false
	}
	c, ok := p.o.Resolve(cands, args)
	if !ok {
		return types.NoResult, true
	}
	return types.Some(c.ResultExpr()), true
}

func hasUserOperand(exprs []*types.Type) bool {
	for _, e := range exprs {
		if e.Referent().Kind.IsDeclared() {
			return true
		}
	}
	return false
}

// memberOnly operators cannot be overloaded by free functions.
func memberOnly(op Op) bool {
	return op == OpSubscript || op == OpAssign || op == OpCall
}

// candidates gathers the operator functions for op: members of the left
// class, scope functions of each class or enum operand and the global
// free functions, each declaration once.
func (p *Prober) candidates(op Op, exprs []*types.Type) []oracle.Candidate {
	name := op.OperatorName()
	var out []oracle.Candidate
	if d := exprs[0].Referent().ClassDecl(); d != nil {
		for _, m := range d.LookupMethods(name) {
			out = append(out, oracle.MethodCandidate(d, m))
		}
	}
	if memberOnly(op) {
		return out
	}
	seen := make(map[*types.Function]bool)
	add := func(fs []*types.Function) {
		for _, f := range fs {
			if !seen[f] {
				seen[f] = true
				out = append(out, oracle.FunctionCandidate(f))
			}
		}
	}
	for _, e := range exprs {
		if s := e.Referent(); s.Kind.IsDeclared() && s.Decl != nil {
			add(s.Decl.LookupScope(name))
		}
	}
	add(p.u.Functions(name))
	return out
}

// conversionTargets lists the expressions a class operand converts to
// through its non-explicit conversion functions.
func conversionTargets(e *types.Type) []*types.Type {
	d := e.Referent().ClassDecl()
	if d == nil {
		return nil
	}
	var out []*types.Type
	for _, c := range d.AllConversions() {
		if !c.Explicit {
			out = append(out, oracle.ExprOf(c.To))
		}
	}
	return out
}

// convertedBuiltin retries the builtin rules with class operands replaced
// by each of their conversion targets; the first well-formed combination
// wins.
func (p *Prober) convertedBuiltin(op Op, exprs []*types.Type) types.Result {
	options := make([][]*types.Type, len(exprs))
	converted := false
	for i, e := range exprs {
		options[i] = []*types.Type{e}
		if alts := conversionTargets(e); len(alts) > 0 {
			options[i] = append(options[i], alts...)
			converted = true
		}
	}
	if !converted {
		return types.NoResult
	}
	var result types.Result
	var walk func(i int, picked []*types.Type, changed bool) bool
	walk = func(i int, picked []*types.Type, changed bool) bool {
		if i == len(options) {
			if !changed {
				return false
			}
			result = p.builtin(op, picked)
			return result.Ok()
		}
		for j, alt := range options[i] {
			if walk(i+1, append(picked, alt), changed || j > 0) {
				return true
			}
		}
		return false
	}
	walk(0, make([]*types.Type, 0, len(exprs)), false)
	return result
}
