// Package nbase provides arbitrary-precision signed integers in any base from
// 2 up to a configurable maximum, written with user-chosen alphabets.
//
// Integers are created through a Factory, or more precisely through one of
// its representations (Repr), which pins the base and the charset:
//
//	f, _ := nbase.NewFactory()
//	hex, _ := f.Repr(16, "")
//	x, _ := hex.Parse("FF")
//	y, _ := x.Mul(nbase.Int(2)) // "1FE"
//
// Operations whose name ends in Assign mutate the receiver; every other
// operation returns a new Integer and leaves its operands untouched. Binary
// operations accept either a native Int or an *Integer of the same
// representation. Division truncates toward zero: the quotient's sign is the
// XOR of the operand signs and the remainder takes the sign of the dividend.
// Zero is never negative.
//
// An Integer is not safe for concurrent mutation; concurrent reads are fine.
package nbase

import (
	"github.com/agbru/nbase/internal/digits"
)

// Integer is an arbitrary-precision signed integer bound to a representation.
// The zero value is 0 in base 10 with the default charset of Default().
type Integer struct {
	r   Repr
	mag digits.Vector
	neg bool
}

// Snapshot is a serializable form of an Integer. Digits are least significant
// first. Charset is empty for the raw representation.
type Snapshot struct {
	Base     int      `msgpack:"base" json:"base"`
	Charset  string   `msgpack:"charset,omitempty" json:"charset,omitempty"`
	Negative bool     `msgpack:"negative,omitempty" json:"negative,omitempty"`
	Digits   []uint32 `msgpack:"digits" json:"digits"`
}

func (x *Integer) repr() Repr {
	return x.r.norm()
}

func (x *Integer) magnitude() digits.Vector {
	if len(x.mag) == 0 {
		return digits.Zero()
	}
	return x.mag
}

func (x *Integer) base() uint32 { return x.repr().base }

// set replaces the value of x, keeping its representation.
func (x *Integer) set(mag digits.Vector, neg bool) *Integer {
	x.r = x.repr()
	x.mag = mag
	x.neg = neg && !digits.IsZero(mag)
	return x
}

// Repr returns the representation of x.
func (x *Integer) Repr() Repr { return x.repr() }

// Base returns the base of x.
func (x *Integer) Base() int { return int(x.base()) }

// Charset returns the charset of x, or nil for the raw representation.
func (x *Integer) Charset() *Charset { return x.repr().charset }

// Clone returns a deep copy of x.
func (x *Integer) Clone() *Integer {
	return &Integer{r: x.repr(), mag: digits.Clone(x.magnitude()), neg: x.neg}
}

// Sign returns -1, 0 or +1.
func (x *Integer) Sign() int {
	switch {
	case digits.IsZero(x.magnitude()):
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether x is 0.
func (x *Integer) IsZero() bool { return digits.IsZero(x.magnitude()) }

// IsOdd reports whether x is odd.
func (x *Integer) IsOdd() bool { return digits.IsOdd(x.magnitude(), x.base()) }

// IsEven reports whether x is even.
func (x *Integer) IsEven() bool { return !x.IsOdd() }

// Digits returns the digits of |x|, most significant first.
func (x *Integer) Digits() []int {
	mag := x.magnitude()
	out := make([]int, len(mag))
	for i, d := range mag {
		out[len(mag)-1-i] = int(d)
	}
	return out
}

// Snapshot returns a serializable copy of x.
func (x *Integer) Snapshot() Snapshot {
	s := Snapshot{
		Base:     x.Base(),
		Negative: x.neg,
		Digits:   digits.Clone(x.magnitude()),
	}
	if c := x.Charset(); c != nil {
		s.Charset = c.String()
	}
	return s
}
