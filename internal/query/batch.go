package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Kind selects the engine entry point a Query goes to.
type Kind string

const (
	KindProbe      Kind = "probe"
	KindHas        Kind = "has"
	KindAssociated Kind = "associated"
	KindDeduced    Kind = "deduced"
	KindMember     Kind = "member"
	KindConcept    Kind = "concept"
	KindFact       Kind = "fact"
)

// Kinds lists every query kind.
func Kinds() []Kind {
	return []Kind{KindProbe, KindHas, KindAssociated, KindDeduced, KindMember, KindConcept, KindFact}
}

// None is the rendered sentinel.
const None = "none"

// Query is one name-addressed question with type-expression arguments.
type Query struct {
	Kind Kind     `yaml:"kind" json:"kind"`
	Name string   `yaml:"name" json:"name"`
	Args []string `yaml:"args" json:"args"`
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s(%s)", q.Kind, q.Name, strings.Join(q.Args, ", "))
}

// Answer is the rendered outcome of a Query: a type, None, or a boolean.
type Answer struct {
	Query  Query  `json:"query"`
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
	Err    error  `json:"-"`
}

func render(r types.Result) string {
	if t, ok := r.Get(); ok {
		return t.String()
	}
	return None
}

// Eval answers a single query. Caller errors land in Answer.Err.
func (e *Engine) Eval(q Query) Answer {
	a := Answer{Query: q}
	args, err := e.ParseAll(q.Args)
	if err != nil {
		a.Err = err
		return a
	}
	one := func() (*types.Type, error) {
		if len(args) != 1 {
			return nil, errors.Arity(q.Name, "1", len(args))
		}
		return args[0], nil
	}

	switch q.Kind {
	case KindProbe:
		var r types.Result
		r, a.Err = e.Probe(q.Name, args...)
		a.Value = render(r)
	case KindHas:
		var ok bool
		ok, a.Err = e.HasOperation(q.Name, args...)
		a.Value = strconv.FormatBool(ok)
	case KindAssociated, KindDeduced, KindMember:
		t, err := one()
		if err != nil {
			a.Err = err
			break
		}
		var r types.Result
		switch q.Kind {
		case KindAssociated:
			r, a.Err = e.AssociatedType(q.Name, t)
		case KindDeduced:
			r, a.Source, a.Err = e.DeducedType(q.Name, t)
		default:
			r, a.Err = e.Member(q.Name, t)
		}
		a.Value = render(r)
	case KindConcept:
		var ok bool
		ok, a.Err = e.Concept(q.Name, args...)
		a.Value = strconv.FormatBool(ok)
	case KindFact:
		var ok bool
		ok, a.Err = e.Fact(q.Name, args...)
		a.Value = strconv.FormatBool(ok)
	default:
		a.Err = errors.NewStandardError(errors.CategoryQuery, errors.CodeUnknownOperation,
			fmt.Sprintf("unknown query kind %q", q.Kind), map[string]interface{}{"kind": string(q.Kind)})
	}
	if a.Err != nil {
		a.Value = ""
		a.Source = ""
	}
	return a
}

// Batch answers qs concurrently with at most workers goroutines (no limit
// when workers <= 0). Answers keep the order of qs. Per-query failures are
// reported in the answers; the returned error is only the context's.
func (e *Engine) Batch(ctx context.Context, qs []Query, workers int) ([]Answer, error) {
	out := make([]Answer, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, q := range qs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Eval(q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.logger.Debug("batch evaluated", zap.Int("queries", len(qs)), zap.Int("workers", workers))
	return out, nil
}
