// Package dump renders a .x word stream back into text.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/lys-lab/txt2bin/internal/hexword"
	"github.com/marcinbor85/gohex"
)

// Format selects the textual rendering.
type Format string

const (
	// FormatHex writes one %08x literal per line. The output is valid
	// converter input and converts back to the same bytes.
	FormatHex Format = "hex"

	// FormatWords writes an "address: content" memory dump starting at Base.
	FormatWords Format = "words"

	// FormatIntelHex writes Intel HEX records starting at Base.
	FormatIntelHex Format = "ihex"
)

// DefaultBase is the start of the text segment where program words are loaded.
const DefaultBase uint32 = 0x00400000

// ihexLineLength is the number of data bytes per Intel HEX record.
const ihexLineLength = 16

var (
	// ErrTruncated is returned when the stream ends in the middle of a word.
	ErrTruncated = errors.New("trailing bytes do not form a whole word")

	// ErrAddressOverflow is returned when the image runs past 0xffffffff.
	ErrAddressOverflow = errors.New("image does not fit in the 32-bit address space")

	// ErrSameFile is returned when the dump target names the input file.
	ErrSameFile = errors.New("output would overwrite the input")
)

// Formats lists the supported formats.
var Formats = []Format{FormatHex, FormatWords, FormatIntelHex}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown dump format: %s (allowed: %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options configures Dump.
type Options struct {
	Format Format

	// Base is the address of the first word. Ignored by FormatHex.
	Base uint32
}

// Dump reads little-endian words from r and writes them to w in the
// requested format. It returns the number of words read.
func Dump(r io.Reader, w io.Writer, opts Options) (int, error) {
	switch opts.Format {
	case FormatHex:
		bw := bufio.NewWriter(w)
		n, err := eachWord(r, func(_ int, word hexword.Word) error {
			_, err := fmt.Fprintf(bw, "%s\n", word)
			return err
		})
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		return n, err
	case FormatWords:
		words, err := readPlaced(r, opts.Base)
		if err != nil {
			return len(words), err
		}
		return len(words), writeWords(w, words, opts.Base)
	case FormatIntelHex:
		words, err := readPlaced(r, opts.Base)
		if err != nil {
			return len(words), err
		}
		return len(words), writeIntelHex(w, words, opts.Base)
	default:
		_, err := ParseFormat(string(opts.Format))
		return 0, err
	}
}

// DumpFile opens the .x file at path and dumps it to w.
func DumpFile(path string, w io.Writer, opts Options) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return Dump(f, w, opts)
}

// DumpToFile dumps the .x file at inPath into a file at outPath, which is
// created or truncated. outPath must not name the input.
func DumpToFile(inPath, outPath string, opts Options) (n int, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	inInfo, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat input: %w", err)
	}
	if outInfo, err := os.Stat(outPath); err == nil && os.SameFile(inInfo, outInfo) {
		return 0, fmt.Errorf("%w: %s and %s", ErrSameFile, inPath, outPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	return Dump(in, out, opts)
}

// eachWord calls fn for every whole word in r, in order.
func eachWord(r io.Reader, fn func(i int, w hexword.Word) error) (int, error) {
	br := bufio.NewReader(r)
	var buf [hexword.Size]byte
	n := 0
	for {
		k, err := io.ReadFull(br, buf[:])
		switch {
		case err == io.EOF:
			return n, nil
		case err == io.ErrUnexpectedEOF:
			return n, fmt.Errorf("%w: %d byte(s) at offset %d", ErrTruncated, k, n*hexword.Size)
		case err != nil:
			return n, fmt.Errorf("failed to read input: %w", err)
		}
		if err := fn(n, hexword.Decode(buf[:])); err != nil {
			return n, err
		}
		n++
	}
}

func readWords(r io.Reader) ([]hexword.Word, error) {
	var words []hexword.Word
	_, err := eachWord(r, func(_ int, w hexword.Word) error {
		words = append(words, w)
		return nil
	})
	return words, err
}

// readPlaced reads all words and checks that the last one is addressable
// when the first is loaded at base.
func readPlaced(r io.Reader, base uint32) ([]hexword.Word, error) {
	words, err := readWords(r)
	if err != nil {
		return words, err
	}
	if len(words) > 0 {
		last := uint64(base) + uint64(len(words))*hexword.Size - 1
		if last > math.MaxUint32 {
			return words, fmt.Errorf("%w: %d words at 0x%08x end at 0x%x", ErrAddressOverflow, len(words), base, last)
		}
	}
	return words, nil
}

// writeWords mirrors the simulator's memory dump layout.
func writeWords(w io.Writer, words []hexword.Word, base uint32) error {
	stop := base
	if len(words) > 0 {
		stop = base + uint32(len(words)-1)*hexword.Size
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "@ Memory content [0x%08x..0x%08x] :\n", base, stop)
	fmt.Fprintln(bw, "-------------------------------------")
	fmt.Fprintln(bw, "address : content")
	for i, word := range words {
		fmt.Fprintf(bw, "%08x: %s\n", base+uint32(i)*hexword.Size, word)
	}
	fmt.Fprintln(bw, "-------------------------------------")
	return bw.Flush()
}

func writeIntelHex(w io.Writer, words []hexword.Word, base uint32) error {
	mem := gohex.NewMemory()
	mem.SetStartAddress(base)

	if len(words) > 0 {
		data := make([]byte, len(words)*hexword.Size)
		for i, word := range words {
			hexword.Put(data[i*hexword.Size:], word)
		}
		if err := mem.AddBinary(base, data); err != nil {
			return fmt.Errorf("failed to build intel hex image: %w", err)
		}
	}

	return mem.DumpIntelHex(w, ihexLineLength)
}
