package digits

// DivModSmall divides a by the single value d and returns the quotient and
// the remainder. d must be non-zero; it may equal or exceed base as long as
// d*base fits in a uint64. It panics if d is zero.
func DivModSmall(a Vector, d, base uint32) (Vector, uint32) {
	if d == 0 {
		panic("digits: division by zero")
	}
	B, D := uint64(base), uint64(d)
	q := make(Vector, len(a))
	var r uint64
	for i := len(a) - 1; i >= 0; i-- {
		cur := r*B + uint64(a[i])
		q[i] = uint32(cur / D)
		r = cur % D
	}
	return Purge(q), uint32(r)
}

// DivMod returns the quotient and remainder of a / b such that
// a = b*q + r with 0 <= r < b. It panics if b is zero.
//
// Single-digit divisors take a one-pass path. Longer divisors use schoolbook
// long division, each quotient digit found by binary search over [1, base-1].
func DivMod(a, b Vector, base uint32) (q, r Vector) {
	if IsZero(b) {
		panic("digits: division by zero")
	}
	if Compare(a, b) < 0 {
		return Zero(), Clone(a)
	}
	if len(b) == 1 {
		q, d := DivModSmall(a, b[0], base)
		return q, Vector{d}
	}

	q = make(Vector, len(a))
	rem := Zero()
	for i := len(a) - 1; i >= 0; i-- {
		rem = shiftIn(rem, a[i])
		if Compare(rem, b) < 0 {
			continue
		}
		// rem < b*base here, so the digit is in [1, base-1].
		lo, hi := uint32(1), base-1
		for lo < hi {
			mid := lo + (hi-lo+1)/2
			if Compare(MulSmall(b, mid, base), rem) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		q[i] = lo
		rem = Sub(rem, MulSmall(b, lo, base), base)
	}
	return Purge(q), rem
}

// shiftIn returns rem*base + d.
func shiftIn(rem Vector, d uint32) Vector {
	if IsZero(rem) {
		return Vector{d}
	}
	out := make(Vector, len(rem)+1)
	out[0] = d
	copy(out[1:], rem)
	return out
}
