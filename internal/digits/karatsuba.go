package digits

import "sync/atomic"

// DefaultKaratsubaThreshold is the operand length, in digits, from which Mul
// switches from schoolbook to Karatsuba multiplication.
const DefaultKaratsubaThreshold = 48

// minKaratsubaCutoff keeps the recursion from splitting vectors so short that
// the half-sums no longer shrink.
const minKaratsubaCutoff = 4

var karatsubaThreshold atomic.Int64

func init() {
	karatsubaThreshold.Store(DefaultKaratsubaThreshold)
}

// KaratsubaThreshold returns the current Karatsuba cutoff.
func KaratsubaThreshold() int {
	return int(karatsubaThreshold.Load())
}

// SetKaratsubaThreshold sets the Karatsuba cutoff. Values below the minimum
// supported cutoff are raised to it. It is safe to call concurrently with
// Mul.
func SetKaratsubaThreshold(n int) {
	if n < minKaratsubaCutoff {
		n = minKaratsubaCutoff
	}
	karatsubaThreshold.Store(int64(n))
}

// Mul returns a * b, picking schoolbook or Karatsuba by operand length.
func Mul(a, b Vector, base uint32) Vector {
	t := KaratsubaThreshold()
	if len(a) >= t && len(b) >= t {
		return karatsuba(a, b, base, t)
	}
	return MulSchoolbook(a, b, base)
}

// MulSchoolbook returns a * b using the quadratic row-by-row method. It is
// the reference the other multiplication paths are checked against.
func MulSchoolbook(a, b Vector, base uint32) Vector {
	if IsZero(a) || IsZero(b) {
		return Zero()
	}
	B := uint64(base)
	out := make(Vector, len(a)+len(b))
	for i, x := range a {
		if x == 0 {
			continue
		}
		var carry uint64
		for j, y := range b {
			// (base-1)^2 + 2*(base-1) < base^2 <= 2^60
			t := uint64(x)*uint64(y) + uint64(out[i+j]) + carry
			out[i+j] = uint32(t % B)
			carry = t / B
		}
		for k := i + len(b); carry > 0; k++ {
			t := uint64(out[k]) + carry
			out[k] = uint32(t % B)
			carry = t / B
		}
	}
	return Purge(out)
}

// MulKaratsuba returns a * b using Karatsuba recursion all the way down to the
// minimum cutoff, regardless of the configured threshold.
func MulKaratsuba(a, b Vector, base uint32) Vector {
	return karatsuba(a, b, base, minKaratsubaCutoff)
}

// MulWithCutoff returns a * b using Karatsuba for operands of at least cutoff
// digits, without touching the process-wide threshold.
func MulWithCutoff(a, b Vector, base uint32, cutoff int) Vector {
	return karatsuba(a, b, base, max(cutoff, minKaratsubaCutoff))
}

func karatsuba(a, b Vector, base uint32, cutoff int) Vector {
	if len(a) < cutoff || len(b) < cutoff {
		return MulSchoolbook(a, b, base)
	}
	m := max(len(a), len(b)) / 2
	a0, a1 := split(a, m)
	b0, b1 := split(b, m)

	z0 := karatsuba(a0, b0, base, cutoff)
	z2 := karatsuba(a1, b1, base, cutoff)
	z1 := karatsuba(Add(a0, a1, base), Add(b0, b1, base), base, cutoff)
	z1 = Sub(Sub(z1, z0, base), z2, base)

	return Add(Add(shift(z2, 2*m), shift(z1, m), base), z0, base)
}

// split returns the low m digits and the remaining high digits of v.
func split(v Vector, m int) (lo, hi Vector) {
	if len(v) <= m {
		return v, Zero()
	}
	return Purge(v[:m]), v[m:]
}

// shift returns v * base^k.
func shift(v Vector, k int) Vector {
	if IsZero(v) {
		return Zero()
	}
	out := make(Vector, len(v)+k)
	copy(out[k:], v)
	return out
}
