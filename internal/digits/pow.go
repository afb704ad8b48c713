package digits

// PowUint returns a raised to the power n by square-and-multiply.
// PowUint(a, 0) is 1 for every a, including zero.
func PowUint(a Vector, n uint64, base uint32) Vector {
	if n == 0 {
		return One()
	}
	if IsZero(a) {
		return Zero()
	}
	result := One()
	sq := a
	for {
		if n&1 == 1 {
			result = Mul(result, sq, base)
		}
		n >>= 1
		if n == 0 {
			return result
		}
		sq = Mul(sq, sq, base)
	}
}

// Pow returns a raised to the power e, where a is in base and the exponent e
// is a digit vector in expBase. The exponent is consumed by halving, so it
// may be arbitrarily large.
func Pow(a, e Vector, base, expBase uint32) Vector {
	if IsZero(e) {
		return One()
	}
	if IsZero(a) {
		return Zero()
	}
	half, bit := DivModSmall(e, 2, expBase)
	h := Pow(a, half, base, expBase)
	sq := Mul(h, h, base)
	if bit == 1 {
		return Mul(sq, a, base)
	}
	return sq
}
