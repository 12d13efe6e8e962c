package hexword

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1", 1},
		{"a", 10},
		{"FF", 255},
		{"deadbeef", 0xdeadbeef},
		{"0x10", 16},
		{"0X10", 16},
		{"+7f", 127},
		{"-1", -1},
		{"-0x80", -128},
		{"dead_beef", 0xdeadbeef},
		{"0x_ff", 255},
		{"0b1", 0xb1},
		{"00000001", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.want).String(), v.String())
		})
	}
}

func TestParse_Unbounded(t *testing.T) {
	v, err := Parse("100000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 81, v.BitLen())
}

func TestParse_Syntax(t *testing.T) {
	for _, in := range []string{"", "xyz", "0x", "-", "+", "_ff", "ff_", "f__f", "0x__f", "1 2", "0x-1", "--1", "g", "0xg"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestToWord(t *testing.T) {
	w, err := ToWord(big.NewInt(0xffffffff))
	require.NoError(t, err)
	assert.Equal(t, Word(0xffffffff), w)

	_, err = ToWord(new(big.Int).Lsh(big.NewInt(1), 32))
	assert.ErrorIs(t, err, ErrRange)

	_, err = ToWord(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrRange)
	assert.Contains(t, err.Error(), "-0x1")
}

func TestParseWord(t *testing.T) {
	_, err := ParseWord("100000000")
	assert.ErrorIs(t, err, ErrRange)

	_, err = ParseWord("zz")
	assert.ErrorIs(t, err, ErrSyntax)

	w, err := ParseWord("0x400000")
	require.NoError(t, err)
	assert.Equal(t, Word(0x00400000), w)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, [Size]byte{0, 0, 0, 0}, Encode(0))
	assert.Equal(t, [Size]byte{0xff, 0xff, 0xff, 0xff}, Encode(0xffffffff))
	assert.Equal(t, [Size]byte{0xef, 0xbe, 0xad, 0xde}, Encode(0xdeadbeef))
}

func TestDecodeInvertsEncode(t *testing.T) {
	for _, w := range []Word{0, 1, 0x7f, 0x100, 0x00400000, 0x7fffffff, 0x80000000, 0xdeadbeef, 0xffffffff} {
		b := Encode(w)
		assert.Equal(t, w, Decode(b[:]), "word %s", w)
	}
}

func TestWordString(t *testing.T) {
	assert.Equal(t, "0000000a", Word(10).String())
	assert.Equal(t, "deadbeef", Word(0xdeadbeef).String())
}
