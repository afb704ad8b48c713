// Package digits implements unsigned arithmetic on little-endian digit
// vectors in an arbitrary base.
//
// A Vector holds one digit per element, least significant first. Every
// function in this package that produces a Vector returns it purged: no
// high-order zero digits, with zero represented canonically as [0]. Inputs
// are assumed to be well formed (each digit in [0, base), purged) and the
// package does not revalidate them. Violated preconditions, such as a
// subtraction that would go negative or a division by zero, are programming
// errors and panic.
//
// Bases are limited to MaxSupportedBase so that the product of two digits
// plus two carries always fits in a uint64.
package digits

import "math/bits"

// MaxSupportedBase is the largest base the primitives can work in.
const MaxSupportedBase = 1 << 30

// Vector is a little-endian sequence of digits.
type Vector []uint32

// Zero returns the canonical zero vector.
func Zero() Vector { return Vector{0} }

// One returns the vector for 1.
func One() Vector { return Vector{1} }

// Clone returns a copy of v that shares no memory with it.
func Clone(v Vector) Vector {
	if len(v) == 0 {
		return Zero()
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Purge trims high-order zero digits. An all-zero or empty vector becomes [0].
// The result aliases v.
func Purge(v Vector) Vector {
	n := len(v)
	for n > 1 && v[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Zero()
	}
	return v[:n]
}

// IsZero reports whether v is zero.
func IsZero(v Vector) bool {
	return len(v) == 0 || (len(v) == 1 && v[0] == 0)
}

// Compare returns -1, 0 or +1 depending on whether a is less than, equal to
// or greater than b. Both vectors must be purged.
func Compare(a, b Vector) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add returns a + b.
func Add(a, b Vector, base uint32) Vector {
	if len(a) < len(b) {
		a, b = b, a
	}
	B := uint64(base)
	out := make(Vector, len(a)+1)
	var carry uint64
	for i := range a {
		s := uint64(a[i]) + carry
		if i < len(b) {
			s += uint64(b[i])
		}
		if s >= B {
			out[i] = uint32(s - B)
			carry = 1
		} else {
			out[i] = uint32(s)
			carry = 0
		}
	}
	out[len(a)] = uint32(carry)
	return Purge(out)
}

// AddSmall returns a + d for a single digit d < base.
func AddSmall(a Vector, d, base uint32) Vector {
	return Add(a, Vector{d}, base)
}

// Sub returns a - b. It panics if a < b.
func Sub(a, b Vector, base uint32) Vector {
	if Compare(a, b) < 0 {
		panic("digits: subtraction underflow")
	}
	B := uint64(base)
	out := make(Vector, len(a))
	var borrow uint64
	for i := range a {
		x := uint64(a[i])
		y := borrow
		if i < len(b) {
			y += uint64(b[i])
		}
		if x >= y {
			out[i] = uint32(x - y)
			borrow = 0
		} else {
			out[i] = uint32(x + B - y)
			borrow = 1
		}
	}
	return Purge(out)
}

// MulSmall returns a * d for a single digit d < base.
func MulSmall(a Vector, d, base uint32) Vector {
	if d == 0 || IsZero(a) {
		return Zero()
	}
	B := uint64(base)
	out := make(Vector, len(a)+1)
	var carry uint64
	for i, x := range a {
		t := uint64(x)*uint64(d) + carry
		out[i] = uint32(t % B)
		carry = t / B
	}
	out[len(a)] = uint32(carry)
	return Purge(out)
}

// FromUint64 returns the digits of n in the given base.
func FromUint64(n uint64, base uint32) Vector {
	if n == 0 {
		return Zero()
	}
	B := uint64(base)
	out := make(Vector, 0, 64/bits.Len32(base)+1)
	for n > 0 {
		out = append(out, uint32(n%B))
		n /= B
	}
	return out
}

// ToUint64 returns the value of v. The boolean is false when the value does
// not fit in a uint64.
func ToUint64(v Vector, base uint32) (uint64, bool) {
	B := uint64(base)
	var acc uint64
	for i := len(v) - 1; i >= 0; i-- {
		hi, lo := bits.Mul64(acc, B)
		if hi != 0 {
			return 0, false
		}
		sum, carry := bits.Add64(lo, uint64(v[i]), 0)
		if carry != 0 {
			return 0, false
		}
		acc = sum
	}
	return acc, true
}

// IsOdd reports whether the value of v is odd. In an even base only the
// lowest digit matters; in an odd base every power of the base is odd, so the
// parity is that of the digit sum.
func IsOdd(v Vector, base uint32) bool {
	if base%2 == 0 {
		return v[0]&1 == 1
	}
	var p uint32
	for _, d := range v {
		p ^= d & 1
	}
	return p == 1
}

// Convert rebases v from base from to base to by repeated division by to.
func Convert(v Vector, from, to uint32) Vector {
	if from == to {
		return Clone(v)
	}
	if IsZero(v) {
		return Zero()
	}
	divisor := FromUint64(uint64(to), from)
	out := make(Vector, 0, len(v))
	cur := v
	for !IsZero(cur) {
		var d uint32
		if len(divisor) == 1 {
			cur, d = DivModSmall(cur, to, from)
		} else {
			var r Vector
			cur, r = DivMod(cur, divisor, from)
			n, _ := ToUint64(r, from)
			d = uint32(n)
		}
		out = append(out, d)
	}
	return Purge(out)
}
