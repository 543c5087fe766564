package types

// Result is the outcome of a structural probe: either a concrete type or
// NoResult. The zero value is NoResult and no concrete type compares equal
// to it.
type Result struct {
	t *Type
}

// NoResult is the sentinel returned when the probed expression or
// declaration is ill-formed or absent.
var NoResult = Result{}

// Some wraps a concrete type. A nil type yields NoResult.
func Some(t *Type) Result {
	return Result{t: t}
}

// Ok reports whether the probe produced a type.
func (r Result) Ok() bool { return r.t != nil }

// Type returns the produced type, or nil for NoResult.
func (r Result) Type() *Type { return r.t }

// Get returns the produced type and whether there was one.
func (r Result) Get() (*Type, bool) { return r.t, r.t != nil }

// Then applies f to the produced type; NoResult short-circuits.
func (r Result) Then(f func(*Type) Result) Result {
	if r.t == nil {
		return NoResult
	}
	return f(r.t)
}

// Map is Then for total functions.
func (r Result) Map(f func(*Type) *Type) Result {
	if r.t == nil {
		return NoResult
	}
	return Some(f(r.t))
}

// Or returns r when it holds a type and the result of next otherwise.
func (r Result) Or(next func() Result) Result {
	if r.t != nil {
		return r
	}
	return next()
}

// Is reports whether r holds a type identical to t.
func (r Result) Is(t *Type) bool {
	return r.t != nil && t != nil && Identical(r.t, t)
}

// Equal reports whether two results are the same outcome.
func (r Result) Equal(o Result) bool {
	if r.t == nil || o.t == nil {
		return r.t == o.t
	}
	return Identical(r.t, o.t)
}

// String prints the type or the sentinel marker.
func (r Result) String() string {
	if r.t == nil {
		return "<no result>"
	}
	return r.t.String()
}
