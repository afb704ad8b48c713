package nbase

import (
	"strconv"
	"strings"
)

// String formats x with the factory default charset when it is long enough
// for the base, and in the raw comma form otherwise.
func (x *Integer) String() string {
	rep := x.repr()
	if c := rep.f.defaultCharset; c.Supports(int(rep.base)) {
		return x.render(c)
	}
	return x.RawText()
}

// Text formats x with the given charset, which must be valid and long enough
// for the base.
func (x *Integer) Text(charset string) (string, error) {
	rep := x.repr()
	c, err := rep.f.registry.ForBase(charset, int(rep.base))
	if err != nil {
		return "", err
	}
	return x.render(c), nil
}

// OwnText formats x with its own charset, or in raw form when it has none.
func (x *Integer) OwnText() string {
	if c := x.Charset(); c != nil {
		return x.render(c)
	}
	return x.RawText()
}

// RawText formats x as comma separated decimal digit values, most significant
// first, e.g. "-1,2,3".
func (x *Integer) RawText() string {
	mag := x.magnitude()
	var sb strings.Builder
	if x.neg {
		sb.WriteByte('-')
	}
	for i := len(mag) - 1; i >= 0; i-- {
		sb.WriteString(strconv.FormatUint(uint64(mag[i]), 10))
		if i > 0 {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

func (x *Integer) render(c *Charset) string {
	mag := x.magnitude()
	var sb strings.Builder
	if x.neg {
		sb.WriteByte('-')
	}
	for i := len(mag) - 1; i >= 0; i-- {
		sb.WriteString(c.Symbol(int(mag[i])))
	}
	return sb.String()
}
