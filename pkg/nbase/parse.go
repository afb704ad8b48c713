package nbase

import (
	"strings"

	"github.com/agbru/nbase/internal/digits"
	"golang.org/x/text/unicode/norm"
)

// Parse reads an integer written in r. Surrounding whitespace is ignored and
// one leading '-' makes the value negative. Leading zero symbols are
// accepted; "-0" is zero.
func (r Repr) Parse(s string) (*Integer, error) {
	const op = "parse"
	r = r.norm()
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" {
		return nil, newError(op, ErrInvalidArgument, "input has no digits")
	}
	if r.charset == nil {
		return nil, newError(op, ErrInvalidArgument,
			"base %d exceeds the length of the default charset (%d); pass a charset or build the value from digits",
			r.base, r.f.defaultCharset.Len())
	}

	syms := splitGraphemes(norm.NFC.String(s))
	mag := make(digits.Vector, len(syms))
	for i, sym := range syms {
		d, ok := r.charset.Value(sym)
		if !ok || uint32(d) >= r.base {
			return nil, symbolError(op, ErrUnknownSymbol, sym, i, "symbol %q at position %d is not a digit in base %d", sym, i, r.base)
		}
		mag[len(syms)-1-i] = uint32(d)
	}
	return r.build(digits.Purge(mag), neg), nil
}
