// Package hexword parses base-16 integer literals and encodes them as
// fixed-width 4-byte little-endian words.
package hexword

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Size is the width of an encoded word in bytes.
const Size = 4

// Word is a single 32-bit value as stored in a .x program image.
type Word uint32

var (
	// ErrSyntax is returned when a string is not a base-16 integer literal.
	ErrSyntax = errors.New("invalid base-16 literal")

	// ErrRange is returned when a value does not fit in an unsigned 32-bit word.
	ErrRange = errors.New("value does not fit in an unsigned 4-byte word")
)

var maxWord = new(big.Int).SetUint64(1<<32 - 1)

// Parse parses s as a base-16 integer literal.
//
// The accepted grammar is an optional sign, an optional "0x" or "0X" prefix,
// and one or more hex digits. Single underscores may separate digits or
// follow the prefix. The magnitude is unbounded; use ToWord to range-check.
// Callers are expected to strip surrounding whitespace first.
func Parse(s string) (*big.Int, error) {
	body := s
	neg := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	prefixed := false
	if len(body) >= 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		body = body[2:]
		prefixed = true
	}

	digits, ok := stripSeparators(body, prefixed)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// stripSeparators validates the digit run and removes underscores from it.
// A leading underscore is only allowed right after a radix prefix.
func stripSeparators(s string, leadingOK bool) (string, bool) {
	if s == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(s))
	prevSep := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if prevSep || (i == 0 && !leadingOK) {
				return "", false
			}
			prevSep = true
			continue
		}
		if !isHexDigit(c) {
			return "", false
		}
		prevSep = false
		b.WriteByte(c)
	}
	if prevSep || b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// ToWord narrows v to a Word. Negative values and values above 0xffffffff
// yield ErrRange; there is no truncation.
func ToWord(v *big.Int) (Word, error) {
	if v.Sign() < 0 || v.Cmp(maxWord) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrRange, FormatBig(v))
	}
	return Word(v.Uint64()), nil
}

// ParseWord is Parse followed by ToWord.
func ParseWord(s string) (Word, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return ToWord(v)
}

// Encode returns the little-endian encoding of w.
func Encode(w Word) [Size]byte {
	var b [Size]byte
	Put(b[:], w)
	return b
}

// Put writes w into the first Size bytes of b. It panics if b is too short.
func Put(b []byte, w Word) {
	binary.LittleEndian.PutUint32(b, uint32(w))
}

// Decode reads a little-endian word from the first Size bytes of b.
func Decode(b []byte) Word {
	return Word(binary.LittleEndian.Uint32(b))
}

// String formats w as eight lowercase hex digits.
func (w Word) String() string {
	return fmt.Sprintf("%08x", uint32(w))
}

// FormatBig renders an arbitrary integer as a signed 0x literal.
func FormatBig(v *big.Int) string {
	if v.Sign() < 0 {
		return "-0x" + new(big.Int).Abs(v).Text(16)
	}
	return "0x" + v.Text(16)
}
