package nbase

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// DefaultCharset is the alphabet used when none is given: digits, then upper
// case, then lower case letters. It covers bases up to 62.
const DefaultCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// reserved lists characters no symbol may contain, with the reason shown to
// the user.
var reserved = []struct {
	char   string
	reason string
}{
	{"-", "it reads as a negative sign"},
	{".", "it reads as a decimal point"},
	{",", "it separates digits in raw output"},
	{" ", "it is whitespace"},
}

// Charset is an immutable ordered alphabet of unique symbols. A symbol is one
// user-perceived character (a grapheme cluster), so multi-codepoint symbols
// such as emoji are supported. The symbol at index d is the digit d.
//
// Charsets are shared by pointer and safe for concurrent use.
type Charset struct {
	source  string
	symbols []string
	index   map[string]int
}

// Len returns the number of symbols.
func (c *Charset) Len() int { return len(c.symbols) }

// Symbol returns the symbol for digit d. It panics if d is out of range.
func (c *Charset) Symbol(d int) string { return c.symbols[d] }

// Value returns the digit a symbol stands for.
func (c *Charset) Value(sym string) (int, bool) {
	d, ok := c.index[sym]
	return d, ok
}

// Symbols returns a copy of the alphabet.
func (c *Charset) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// String returns the alphabet as one NFC-normalized string.
func (c *Charset) String() string { return c.source }

// Supports reports whether the charset has enough symbols for base.
func (c *Charset) Supports(base int) bool { return base >= 2 && len(c.symbols) >= base }

// sameCharset reports whether a and b are the same alphabet. Pointer identity
// is the common case; equal sources cover charsets built before a registry
// eviction.
func sameCharset(a, b *Charset) bool {
	if a == b {
		return true
	}
	return a != nil && b != nil && a.source == b.source
}

// splitGraphemes splits s into grapheme clusters.
func splitGraphemes(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// newCharset validates symbols and builds a Charset. The input is NFC
// normalized first so that composed and decomposed spellings of the same
// character agree.
func newCharset(symbols string) (*Charset, error) {
	const op = "charset"
	src := norm.NFC.String(symbols)
	syms := splitGraphemes(src)
	index := make(map[string]int, len(syms))
	for i, s := range syms {
		if strings.IndexFunc(s, unicode.IsControl) >= 0 {
			return nil, symbolError(op, ErrInvalidCharset, s, i, "charset must exclude control characters (symbol %d is %q)", i, s)
		}
		for _, r := range reserved {
			if strings.Contains(s, r.char) {
				return nil, symbolError(op, ErrInvalidCharset, s, i, "charset must exclude %q: %s", r.char, r.reason)
			}
		}
		if prev, dup := index[s]; dup {
			return nil, symbolError(op, ErrInvalidCharset, s, i, "charset must exclude duplicate symbols (%q at %d and %d)", s, prev, i)
		}
		index[s] = i
	}
	if len(syms) < 2 {
		return nil, newError(op, ErrInvalidCharset, "charset must have at least 2 symbols, got %d", len(syms))
	}
	return &Charset{source: src, symbols: syms, index: index}, nil
}
