// Package query is the name-addressed surface over the concept engine:
// expression probes, associated and deduced types, concepts and oracle
// facts. Names that do not exist are caller errors; a probe that does not
// apply is a sentinel result, never an error.
package query

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/orizon-lang/conceptcheck/internal/assoc"
	"github.com/orizon-lang/conceptcheck/internal/concepts"
	"github.com/orizon-lang/conceptcheck/internal/deduce"
	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/oracle"
	"github.com/orizon-lang/conceptcheck/internal/probe"
	"github.com/orizon-lang/conceptcheck/internal/typeexpr"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Engine wires every layer over one universe.
type Engine struct {
	u      *types.Universe
	o      *oracle.Oracle
	p      *probe.Prober
	d      *deduce.Deducer
	c      *concepts.Checker
	logger *zap.Logger
}

// New builds an engine over u. A nil logger discards output.
func New(u *types.Universe, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := oracle.New(u)
	p := probe.New(o)
	d := deduce.New(p)
	return &Engine{u: u, o: o, p: p, d: d, c: concepts.New(d), logger: logger}
}

func (e *Engine) Universe() *types.Universe  { return e.u }
func (e *Engine) Oracle() *oracle.Oracle     { return e.o }
func (e *Engine) Prober() *probe.Prober      { return e.p }
func (e *Engine) Deducer() *deduce.Deducer   { return e.d }
func (e *Engine) Checker() *concepts.Checker { return e.c }
func (e *Engine) Logger() *zap.Logger        { return e.logger }

// Parse reads a type expression against the engine's universe.
func (e *Engine) Parse(src string) (*types.Type, error) {
	t, err := typeexpr.Parse(e.u, src)
	if err != nil {
		return nil, errors.TypeSyntax(src, err)
	}
	return t, nil
}

// ParseAll parses every source in order and stops at the first failure.
func (e *Engine) ParseAll(srcs []string) ([]*types.Type, error) {
	out := make([]*types.Type, len(srcs))
	for i, s := range srcs {
		t, err := e.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func opArity(op probe.Op) (min, max int) {
	switch {
	case op == probe.OpCall:
		return 1, -1
	case op == probe.OpStaticCast, op == probe.OpOutputStream, op == probe.OpInputStream:
		return 2, 2
	case op.Arity() == probe.Unary:
		return 1, 1
	}
	return 1, 2
}

func arityText(min, max int) string {
	switch {
	case max < 0:
		return strconv.Itoa(min) + "+"
	case min == max:
		return strconv.Itoa(min)
	}
	return strconv.Itoa(min) + "-" + strconv.Itoa(max)
}

// Probe evaluates an operation by name, e.g. "plus", "++" or "call".
func (e *Engine) Probe(name string, args ...*types.Type) (types.Result, error) {
	op, ok := probe.Lookup(name)
	if !ok {
		return types.NoResult, errors.UnknownOperation(name)
	}
	if min, max := opArity(op); len(args) < min || (max >= 0 && len(args) > max) {
		return types.NoResult, errors.Arity(op.String(), arityText(min, max), len(args))
	}
	r := e.p.Probe(op, args...)
	e.logger.Debug("probe",
		zap.Stringer("op", op),
		zap.Stringers("args", args),
		zap.Stringer("result", r))
	return r, nil
}

// HasOperation reports whether the operation applies.
func (e *Engine) HasOperation(name string, args ...*types.Type) (bool, error) {
	r, err := e.Probe(name, args...)
	return r.Ok(), err
}

// AssociatedType returns the declared associated type of t for slot.
func (e *Engine) AssociatedType(slot string, t *types.Type) (types.Result, error) {
	s, ok := assoc.LookupSlot(slot)
	if !ok {
		return types.NoResult, errors.UnknownSlot(slot)
	}
	r := assoc.Associated(s, t)
	e.logger.Debug("associated type", zap.Stringer("slot", s), zap.Stringer("type", t), zap.Stringer("result", r))
	return r, nil
}

// DeducedType returns the declared associated type of t for slot, or the
// deduced one when none is declared, together with the rule that answered.
func (e *Engine) DeducedType(slot string, t *types.Type) (types.Result, string, error) {
	s, ok := assoc.LookupSlot(slot)
	if !ok {
		return types.NoResult, "", errors.UnknownSlot(slot)
	}
	r, from := e.d.Explain(s, t)
	e.logger.Debug("deduced type",
		zap.Stringer("slot", s),
		zap.Stringer("type", t),
		zap.Stringer("result", r),
		zap.String("source", from))
	return r, from, nil
}

// Member probes a container member function such as size or front.
func (e *Engine) Member(name string, t *types.Type) (types.Result, error) {
	m, ok := assoc.LookupMember(name)
	if !ok {
		return types.NoResult, errors.UnknownOperation(name)
	}
	return e.d.Containers().Probe(m, t), nil
}

// Concept evaluates a named concept.
func (e *Engine) Concept(name string, args ...*types.Type) (bool, error) {
	ok, err := e.c.Check(name, args...)
	if err != nil {
		return false, err
	}
	e.logger.Debug("concept", zap.String("concept", name), zap.Stringers("args", args), zap.Bool("satisfied", ok))
	return ok, nil
}

// Fact evaluates a named oracle fact such as "integral" or "convertible".
func (e *Engine) Fact(name string, args ...*types.Type) (bool, error) {
	f, ok := oracle.LookupFact(name)
	if !ok {
		return false, errors.UnknownFact(name)
	}
	if !f.Accepts(len(args)) {
		return false, errors.Arity(f.Name, arityText(f.MinArgs, f.MaxArgs), len(args))
	}
	return f.Evaluate(e.o, args), nil
}

// Require returns a StructuralMismatch error when args do not satisfy the
// named concept.
func (e *Engine) Require(name string, args ...*types.Type) error {
	ok, err := e.Concept(name, args...)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.String()
	}
	return errors.StructuralMismatch(name, names)
}
