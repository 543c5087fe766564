// Package widen maps an integral type to the next larger standard integer
// representation of the same signedness.
package widen

import (
	"github.com/orizon-lang/conceptcheck/internal/types"
)

// OneSizeUp returns the first type of the short, int, long, long long
// chain of t's signedness that is strictly wider than t. When no wider
// type exists t is returned unchanged. Non-integral types yield NoResult.
func OneSizeUp(m types.DataModel, t *types.Type) types.Result {
	if !t.Kind.IsIntegral() {
		return types.NoResult
	}
	chain := types.UnsignedChain()
	if m.IsSigned(t.Kind) {
		chain = types.SignedChain()
	}
	size := m.SizeOf(t.Kind)
	// The char rung is never a target: nothing is narrower than it.
	for _, k := range chain[1:] {
		if m.SizeOf(k) > size {
			return types.Some(types.Basic(k))
		}
	}
	return types.Some(t)
}

// Chain lists the kinds OneSizeUp walks for the given signedness, with
// their sizes under m.
func Chain(m types.DataModel, signed bool) []Step {
	chain := types.UnsignedChain()
	if signed {
		chain = types.SignedChain()
	}
	steps := make([]Step, 0, len(chain)-1)
	for _, k := range chain[1:] {
		steps = append(steps, Step{Kind: k, Size: m.SizeOf(k)})
	}
	return steps
}

// Step is one rung of the widening chain.
type Step struct {
	Kind types.Kind
	Size int
}
