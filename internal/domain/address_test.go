package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	full := "0x" + strings.Repeat("0", 63) + "a"

	tests := []struct {
		in   string
		want string
	}{
		{"0xA", full},
		{"0xa", full},
		{"  0x" + strings.Repeat("0", 63) + "A ", full},
		{"a", full},
		{"alice", "alice"},
		{"", ""},
		{"0x" + strings.Repeat("f", 65), "0x" + strings.Repeat("f", 65)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAddress(tt.in), "NormalizeAddress(%q)", tt.in)
	}
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xB", "0x000000000000000000000000000000000000000000000000000000000000000b"))
	assert.False(t, SameAddress("0xB", "0xC"))
	assert.False(t, SameAddress("", ""))
}

func TestIsAddress(t *testing.T) {
	assert.True(t, IsAddress("0x1"))
	assert.True(t, IsAddress("0x"+strings.Repeat("ab", 32)))
	assert.False(t, IsAddress("0x"))
	assert.False(t, IsAddress("1234"))
	assert.False(t, IsAddress("0xzz"))
	assert.False(t, IsAddress("0x"+strings.Repeat("a", 65)))
}

func TestU64_Unmarshal(t *testing.T) {
	var v struct {
		A U64 `json:"a"`
		B U64 `json:"b"`
		C U64 `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"18446744073709551615","b":7,"c":null}`), &v))
	assert.Equal(t, U64(18446744073709551615), v.A)
	assert.Equal(t, U64(7), v.B)
	assert.Equal(t, U64(0), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"-1"}`), &v))
}
