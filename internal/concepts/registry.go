package concepts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/conceptcheck/internal/errors"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// Variadic marks a Definition without an upper argument bound.
const Variadic = -1

// Definition is a concept addressable by name.
type Definition struct {
	Name    string
	MinArgs int
	MaxArgs int // Variadic for no bound
	Doc     string
	Eval    func(c *Checker, args []*types.Type) bool
}

// Accepts reports whether n arguments fit the definition.
func (d Definition) Accepts(n int) bool {
	return n >= d.MinArgs && (d.MaxArgs == Variadic || n <= d.MaxArgs)
}

// Arity renders the accepted argument counts, e.g. "1", "1-2" or "1+".
func (d Definition) Arity() string {
	switch {
	case d.MaxArgs == Variadic:
		return fmt.Sprintf("%d+", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		return fmt.Sprintf("%d", d.MinArgs)
	}
	return fmt.Sprintf("%d-%d", d.MinArgs, d.MaxArgs)
}

func unary(name, doc string, f func(c *Checker, t *types.Type) bool) Definition {
	return Definition{Name: name, MinArgs: 1, MaxArgs: 1, Doc: doc, Eval: func(c *Checker, a []*types.Type) bool {
		return f(c, a[0])
	}}
}

func binary(name, doc string, f func(c *Checker, t, u *types.Type) bool) Definition {
	return Definition{Name: name, MinArgs: 2, MaxArgs: 2, Doc: doc, Eval: func(c *Checker, a []*types.Type) bool {
		return f(c, a[0], a[1])
	}}
}

// pair evaluates f(T, T) when U is omitted.
func pair(name, doc string, f func(c *Checker, t, u *types.Type) bool) Definition {
	return Definition{Name: name, MinArgs: 1, MaxArgs: 2, Doc: doc, Eval: func(c *Checker, a []*types.Type) bool {
		if len(a) == 1 {
			return f(c, a[0], a[0])
		}
		return f(c, a[0], a[1])
	}}
}

// stream evaluates f(T, nil) when the stream is omitted.
func stream(name, doc string, f func(c *Checker, t, s *types.Type) bool) Definition {
	return Definition{Name: name, MinArgs: 1, MaxArgs: 2, Doc: doc, Eval: func(c *Checker, a []*types.Type) bool {
		if len(a) == 1 {
			return f(c, a[0], nil)
		}
		return f(c, a[0], a[1])
	}}
}

func callable(name, doc string, f func(c *Checker, fn *types.Type, args ...*types.Type) bool) Definition {
	return Definition{Name: name, MinArgs: 1, MaxArgs: Variadic, Doc: doc, Eval: func(c *Checker, a []*types.Type) bool {
		return f(c, a[0], a[1:]...)
	}}
}

var registry = func() map[string]Definition {
	defs := []Definition{
		pair("equality_comparable", "T == U and T != U are boolean", (*Checker).EqualityComparable),
		pair("weakly_ordered", "T < U, >, <= and >= are boolean", (*Checker).WeaklyOrdered),
		unary("totally_ordered", "weakly ordered and equality comparable", (*Checker).TotallyOrdered),
		unary("movable", "destructible, move constructible and move assignable", (*Checker).Movable),
		unary("copyable", "movable, copy constructible and copy assignable", (*Checker).Copyable),
		unary("semiregular", "copyable and destructible", (*Checker).Semiregular),
		unary("regular", "semiregular and equality comparable", (*Checker).Regular),
		unary("ordered", "regular and totally ordered", (*Checker).Ordered),
		callable("predicate", "copy constructible, callable with Args, boolean result", (*Checker).Predicate),
		callable("has_call", "callable with Args", (*Checker).HasCall),
		unary("boolean", "converts to bool", (*Checker).Boolean),
		{Name: "common", MinArgs: 1, MaxArgs: Variadic, Doc: "the types share a common type",
			Eval: func(c *Checker, a []*types.Type) bool { return c.Common(a...) }},
		stream("streamable", "input and output streamable", (*Checker).Streamable),
		stream("input_streamable", "s >> t is well-formed", (*Checker).InputStreamable),
		stream("output_streamable", "s << t is well-formed", (*Checker).OutputStreamable),
		unary("has_iterator_category", "an iterator category is declared or synthesized", (*Checker).HasIteratorCategory),
		unary("readable", "*i converts to const Value_type&", (*Checker).Readable),
		binary("writable", "*i = t is well-formed", (*Checker).Writable),
		unary("incrementable", "regular, signed difference type, ++i is I& and i++ is I", (*Checker).Incrementable),
		unary("decrementable", "incrementable, --i is I& and i-- is I", (*Checker).Decrementable),
		binary("iterator_kind", "the iterator category is or derives from Tag", (*Checker).IteratorKind),
		unary("input_iterator", "readable incrementable input iterator", (*Checker).InputIterator),
		binary("output_iterator", "writable incrementable output iterator", (*Checker).OutputIterator),
		unary("forward_iterator", "readable incrementable forward iterator", (*Checker).ForwardIterator),
		unary("bidirectional_iterator", "readable decrementable bidirectional iterator", (*Checker).BidirectionalIterator),
		unary("random_access_iterator", "bidirectional iterator with difference arithmetic", (*Checker).RandomAccessIterator),
		unary("has_begin", "begin(t) resolves", (*Checker).HasBegin),
		unary("has_end", "end(t) resolves", (*Checker).HasEnd),
		unary("iterator", "incrementable, dereferenceable and categorized", (*Checker).Iterator),
		unary("range", "begin and end agree on an iterator type", (*Checker).Range),
	}
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}()

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Lookup finds a concept by name. Case and the choice between '-' and '_'
// do not matter.
func Lookup(name string) (Definition, bool) {
	d, ok := registry[normalize(name)]
	return d, ok
}

// Names returns every concept name, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Check evaluates the named concept. It reports an error for unknown names
// and unacceptable argument counts; a false result is not an error.
func (c *Checker) Check(name string, args ...*types.Type) (bool, error) {
	d, ok := Lookup(name)
	if !ok {
		return false, errors.UnknownConcept(name)
	}
	if !d.Accepts(len(args)) {
		return false, errors.Arity(d.Name, d.Arity(), len(args))
	}
	for i, a := range args {
		if a == nil {
			return false, errors.NewStandardError(errors.CategoryConcept, errors.CodeArity,
				fmt.Sprintf("concept %s: argument %d is missing", d.Name, i), nil)
		}
	}
	return d.Eval(c, args), nil
}
