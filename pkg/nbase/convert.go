package nbase

import (
	"math"
	"math/big"

	"fortio.org/safecast"
	"github.com/agbru/nbase/internal/digits"
)

// ConvertTo returns x in newBase. The result keeps the charset of x when it
// is long enough, falls back to the factory default charset when that is long
// enough, and is raw otherwise.
func (x *Integer) ConvertTo(newBase int) (*Integer, error) {
	rep := x.repr()
	f := rep.f
	if err := f.checkBase("convert", newBase); err != nil {
		return nil, err
	}
	to := Repr{f: f, base: uint32(newBase)}
	switch {
	case rep.charset != nil && rep.charset.Supports(newBase):
		to.charset = rep.charset
	case f.defaultCharset.Supports(newBase):
		to.charset = f.defaultCharset
	}
	return x.Rebase(to)
}

// Rebase returns x in the representation r.
func (x *Integer) Rebase(r Repr) (*Integer, error) {
	r = r.norm()
	if err := r.f.checkBase("convert", int(r.base)); err != nil {
		return nil, err
	}
	if r.charset != nil && !r.charset.Supports(int(r.base)) {
		return nil, newError("convert", ErrInvalidCharset, "charset length must be >= base, but %d < %d", r.charset.Len(), r.base)
	}
	return r.build(digits.Convert(x.magnitude(), x.base(), r.base), x.neg), nil
}

// Int64 returns x as an int64, or ErrOverflow if it does not fit.
func (x *Integer) Int64() (int64, error) {
	u, ok := digits.ToUint64(x.magnitude(), x.base())
	if !ok {
		return 0, newError("int64", ErrOverflow, "value does not fit in int64")
	}
	if x.neg {
		if u == math.MaxInt64+1 {
			return math.MinInt64, nil
		}
		n, err := safecast.Conv[int64](u)
		if err != nil {
			return 0, newError("int64", ErrOverflow, "value does not fit in int64")
		}
		return -n, nil
	}
	n, err := safecast.Conv[int64](u)
	if err != nil {
		return 0, newError("int64", ErrOverflow, "value does not fit in int64")
	}
	return n, nil
}

// Uint64 returns x as a uint64, or ErrOverflow if it is negative or too large.
func (x *Integer) Uint64() (uint64, error) {
	u, ok := digits.ToUint64(x.magnitude(), x.base())
	if !ok || x.neg {
		return 0, newError("uint64", ErrOverflow, "value does not fit in uint64")
	}
	return u, nil
}

// BigInt returns x as a *big.Int.
func (x *Integer) BigInt() *big.Int {
	v := digits.Convert(x.magnitude(), x.base(), 256)
	be := make([]byte, len(v))
	for i, d := range v {
		be[len(v)-1-i] = byte(d)
	}
	z := new(big.Int).SetBytes(be)
	if x.neg {
		z.Neg(z)
	}
	return z
}
