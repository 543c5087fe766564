package widen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/types"
)

func TestOneSizeUp(t *testing.T) {
	tests := []struct {
		name  string
		model types.DataModel
		in    types.Kind
		want  types.Kind
	}{
		{"lp64 int", types.LP64, types.KindInt, types.KindLong},
		{"llp64 int skips long", types.LLP64, types.KindInt, types.KindLongLong},
		{"ilp32 int", types.ILP32, types.KindInt, types.KindLongLong},
		{"signed char", types.LP64, types.KindSChar, types.KindShort},
		{"plain char is signed", types.LP64, types.KindChar, types.KindShort},
		{"short", types.LP64, types.KindShort, types.KindInt},
		{"unsigned int", types.LP64, types.KindUInt, types.KindULong},
		{"bool is unsigned", types.LP64, types.KindBool, types.KindUShort},
		{"char32 is unsigned", types.LLP64, types.KindChar32, types.KindULongLong},
		{"lp64 long saturates", types.LP64, types.KindLong, types.KindLong},
		{"long long saturates", types.LP64, types.KindLongLong, types.KindLongLong},
		{"unsigned long long saturates", types.LLP64, types.KindULongLong, types.KindULongLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OneSizeUp(tt.model, types.Basic(tt.in))
			require.True(t, got.Ok())
			assert.Equal(t, tt.want, got.Type().Kind)
		})
	}
}

func TestOneSizeUpNonIntegral(t *testing.T) {
	for _, ty := range []*types.Type{
		types.Basic(types.KindDouble),
		types.PointerTo(types.Basic(types.KindInt)),
		types.Named(types.NewClass("Foo")),
		types.Named(types.NewEnum("E", nil, false)),
	} {
		assert.False(t, OneSizeUp(types.LP64, ty).Ok(), ty.String())
	}
}

func TestOneSizeUpMonotone(t *testing.T) {
	for _, m := range []types.DataModel{types.LP64, types.LLP64, types.ILP32} {
		for _, k := range append(types.SignedChain(), types.UnsignedChain()...) {
			got := OneSizeUp(m, types.Basic(k)).Type()
			assert.GreaterOrEqual(t, m.SizeOf(got.Kind), m.SizeOf(k), "%s %s", m.Name, k)
			assert.Equal(t, m.IsSigned(k), m.IsSigned(got.Kind), "%s %s", m.Name, k)
		}
	}
}

func TestChain(t *testing.T) {
	steps := Chain(types.LLP64, true)
	require.Len(t, steps, 4)
	assert.Equal(t, Step{Kind: types.KindLong, Size: 4}, steps[2])
}
