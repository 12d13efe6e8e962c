// Package convert turns a text file of base-16 literals, one per line, into a
// stream of 4-byte little-endian words.
//
// Output is written incrementally: when a line fails, every word produced
// for the preceding lines has already been flushed to the writer.
package convert

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lys-lab/txt2bin/internal/hexword"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// State is the lifecycle of a single conversion run.
type State int

const (
	NotStarted State = iota
	Processing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Processing:
		return "processing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options controls how input lines are interpreted.
type Options struct {
	// SkipBlank ignores lines that are empty after stripping whitespace.
	// When false such lines fail with a ParseError wrapping ErrBlankLine.
	SkipBlank bool

	// Logger receives per-line debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes a run.
type Result struct {
	// Lines is the number of input lines consumed, including skipped ones.
	Lines int
	// Words is the number of 4-byte records written.
	Words int
}

// Bytes returns the number of bytes written to the output.
func (r Result) Bytes() int {
	return r.Words * hexword.Size
}

// Converter performs one conversion. It is not reusable.
type Converter struct {
	opts   Options
	log    *slog.Logger
	state  State
	result Result
}

// New returns a Converter in the NotStarted state.
func New(opts Options) *Converter {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Converter{opts: opts, log: l}
}

// State reports the current lifecycle state.
func (c *Converter) State() State { return c.state }

// Result reports progress so far. After a failure it counts the words that
// were written before the failing line.
func (c *Converter) Result() Result { return c.result }

// Run reads lines from r and writes one word per line to w.
//
// Parameters:
//   - r: The text input, read lazily line by line.
//   - w: The binary output. Writes are buffered and flushed before Run returns.
//
// Returns:
//   - Result: Counts of consumed lines and written words.
//   - error: A *ParseError, an *EncodingError, or a wrapped I/O error.
func (c *Converter) Run(r io.Reader, w io.Writer) (res Result, err error) {
	if c.state != NotStarted {
		return c.result, ErrAlreadyRun
	}
	c.state = Processing

	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("failed to write output: %w", ferr)
		}
		if err != nil {
			c.state = Failed
		} else {
			c.state = Done
		}
		res = c.result
	}()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	sc.Split(scanLines)

	var buf [hexword.Size]byte
	for sc.Scan() {
		c.result.Lines++
		lineNo := c.result.Lines
		raw := sc.Text()
		text := strings.TrimSpace(raw)

		if text == "" {
			if c.opts.SkipBlank {
				c.log.Debug("skipping blank line", "line", lineNo)
				continue
			}
			return c.result, &ParseError{Line: lineNo, Text: raw, Err: ErrBlankLine}
		}

		v, perr := hexword.Parse(text)
		if perr != nil {
			return c.result, &ParseError{Line: lineNo, Text: raw, Err: perr}
		}
		word, werr := hexword.ToWord(v)
		if werr != nil {
			return c.result, &EncodingError{Line: lineNo, Text: raw, Value: v, Err: werr}
		}

		hexword.Put(buf[:], word)
		if _, err := bw.Write(buf[:]); err != nil {
			return c.result, fmt.Errorf("failed to write output: %w", err)
		}
		c.result.Words++
		c.log.Debug("word", "line", lineNo, "value", word.String())
	}
	if err := sc.Err(); err != nil {
		return c.result, fmt.Errorf("failed to read input at line %d: %w", c.result.Lines+1, err)
	}
	return c.result, nil
}

// scanLines is bufio.ScanLines extended to old Mac line endings: a line ends
// at "\n", "\r\n" or a lone "\r". The terminator is not returned.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Convert runs a fresh Converter over r and w.
func Convert(r io.Reader, w io.Writer, opts Options) (Result, error) {
	return New(opts).Run(r, w)
}

// ConvertFile converts the text file at inPath into the binary file at
// outPath. The output is created or truncated. Both files are closed on
// every return path; a partially written output is left in place.
// Naming the input as the output, under any path, fails with ErrSameFile
// before anything is truncated.
func ConvertFile(inPath, outPath string, opts Options) (res Result, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	inInfo, err := in.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat input: %w", err)
	}
	if outInfo, err := os.Stat(outPath); err == nil && os.SameFile(inInfo, outInfo) {
		return Result{}, fmt.Errorf("%w: %s and %s", ErrSameFile, inPath, outPath)
	}

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	return Convert(in, out, opts)
}
