package convert

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/lys-lab/txt2bin/internal/hexword"
)

var (
	// ErrBlankLine marks an input line that is empty after stripping whitespace.
	ErrBlankLine = errors.New("blank line")

	// ErrAlreadyRun is returned when a Converter is reused.
	ErrAlreadyRun = errors.New("converter has already run")

	// ErrSameFile is returned when the output path names the input file.
	ErrSameFile = errors.New("output would overwrite the input")
)

// ParseError reports an input line that is not a base-16 integer literal.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Text is the raw line content without its terminator.
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q as a base-16 integer: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports a parsed value that does not fit in a 4-byte
// unsigned word.
type EncodingError struct {
	Line  int
	Text  string
	Value *big.Int
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("line %d: value %s (%q) does not fit in a %d-byte unsigned word", e.Line, hexword.FormatBig(e.Value), e.Text, hexword.Size)
}

func (e *EncodingError) Unwrap() error { return e.Err }
