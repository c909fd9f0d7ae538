package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"_0", true},
		{"__rust_utos", true},
		{"INT64_MAX", true},
		{"a1b2", true},
		{"", false},
		{"1a", false},
		{"int", false},
		{"_Bool", false},
		{"a-b", false},
		{"a b", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsIdentifier(tc.name))
		})
	}
}

func TestReservedWordsIsACopy(t *testing.T) {
	words := ReservedWords()
	require.Contains(t, words, "return")
	words[0] = "changed"
	require.True(t, IsReserved("auto"))
	require.False(t, IsReserved("changed"))
}

func TestLookupPrim(t *testing.T) {
	for p := Void; p <= Double; p++ {
		got, ok := LookupPrim(p.String())
		require.True(t, ok, "lookup %s", p)
		require.Equal(t, p, got)
	}
	_, ok := LookupPrim("uint128_t")
	require.False(t, ok)
}

func TestPrimInfo(t *testing.T) {
	assert.Equal(t, 64, Int64.Bits())
	assert.True(t, Int64.IsSigned())
	assert.False(t, Uint8.IsSigned())
	assert.True(t, Bool.IsInteger())
	assert.False(t, Double.IsInteger())
	assert.False(t, Void.IsInteger())
	assert.Equal(t, "stdint.h", Uint32.Header())
	assert.Equal(t, "", Int.Header())
	assert.Equal(t, "INT64_MAX", Int64.MaxMacro())
	assert.Equal(t, "UINT8_MAX", Uint8.MaxMacro())
	assert.Equal(t, "", Double.MaxMacro())
	assert.Equal(t, "prim(99)", Prim(99).String())
}
