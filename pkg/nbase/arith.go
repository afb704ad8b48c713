package nbase

import (
	"github.com/agbru/nbase/internal/digits"
)

// addSigned adds two signed magnitudes.
func addSigned(a digits.Vector, an bool, b digits.Vector, bn bool, base uint32) (digits.Vector, bool) {
	if an == bn {
		return digits.Add(a, b, base), an
	}
	switch digits.Compare(a, b) {
	case 1:
		return digits.Sub(a, b, base), an
	case -1:
		return digits.Sub(b, a, base), bn
	default:
		return digits.Zero(), false
	}
}

// AddAssign sets x to x + y and returns x.
func (x *Integer) AddAssign(y Operand) (*Integer, error) {
	v, err := x.resolve("add", y)
	if err != nil {
		return nil, err
	}
	return x.set(addSigned(x.magnitude(), x.neg, v.magnitude(), v.neg, x.base())), nil
}

// Add returns x + y.
func (x *Integer) Add(y Operand) (*Integer, error) {
	return x.Clone().AddAssign(y)
}

// SubAssign sets x to x - y and returns x.
func (x *Integer) SubAssign(y Operand) (*Integer, error) {
	v, err := x.resolve("sub", y)
	if err != nil {
		return nil, err
	}
	return x.set(addSigned(x.magnitude(), x.neg, v.magnitude(), !v.neg, x.base())), nil
}

// Sub returns x - y.
func (x *Integer) Sub(y Operand) (*Integer, error) {
	return x.Clone().SubAssign(y)
}

// Inc adds one to x in place and returns x.
func (x *Integer) Inc() *Integer {
	return x.set(addSigned(x.magnitude(), x.neg, digits.One(), false, x.base()))
}

// Dec subtracts one from x in place and returns x.
func (x *Integer) Dec() *Integer {
	return x.set(addSigned(x.magnitude(), x.neg, digits.One(), true, x.base()))
}

// MulAssign sets x to x * y and returns x.
func (x *Integer) MulAssign(y Operand) (*Integer, error) {
	v, err := x.resolve("mul", y)
	if err != nil {
		return nil, err
	}
	return x.set(digits.Mul(x.magnitude(), v.magnitude(), x.base()), x.neg != v.neg), nil
}

// Mul returns x * y.
func (x *Integer) Mul(y Operand) (*Integer, error) {
	return x.Clone().MulAssign(y)
}

// DivMod returns the truncated quotient and the remainder of x / y, so that
// x = y*q + r with |r| < |y| and r carrying the sign of x.
func (x *Integer) DivMod(y Operand) (q, r *Integer, err error) {
	v, err := x.resolve("divmod", y)
	if err != nil {
		return nil, nil, err
	}
	if v.IsZero() {
		return nil, nil, newError("divmod", ErrDivisionByZero, "divisor is zero")
	}
	qm, rm := digits.DivMod(x.magnitude(), v.magnitude(), x.base())
	rep := x.repr()
	return rep.build(qm, x.neg != v.neg), rep.build(rm, x.neg), nil
}

// Div returns the quotient of x / y truncated toward zero.
func (x *Integer) Div(y Operand) (*Integer, error) {
	q, _, err := x.DivMod(y)
	return q, err
}

// Mod returns the remainder of x / y; it has the sign of x.
func (x *Integer) Mod(y Operand) (*Integer, error) {
	_, r, err := x.DivMod(y)
	return r, err
}

// DivAssign sets x to x / y and returns x.
func (x *Integer) DivAssign(y Operand) (*Integer, error) {
	q, _, err := x.DivMod(y)
	if err != nil {
		return nil, err
	}
	return x.set(q.mag, q.neg), nil
}

// ModAssign sets x to x mod y and returns x.
func (x *Integer) ModAssign(y Operand) (*Integer, error) {
	_, r, err := x.DivMod(y)
	if err != nil {
		return nil, err
	}
	return x.set(r.mag, r.neg), nil
}

// PowAssign sets x to x**e and returns x. The exponent must not be negative.
// 0**0 is 1.
func (x *Integer) PowAssign(e Operand) (*Integer, error) {
	const op = "pow"
	base := x.base()
	if n, ok := e.(Int); ok {
		if n < 0 {
			return nil, newError(op, ErrNegativeExponent, "exponent %d is negative", n)
		}
		return x.set(digits.PowUint(x.magnitude(), uint64(n), base), x.neg && n%2 == 1), nil
	}
	v, err := x.resolve(op, e)
	if err != nil {
		return nil, err
	}
	if v.neg {
		return nil, newError(op, ErrNegativeExponent, "exponent is negative")
	}
	odd := v.IsOdd()
	return x.set(digits.Pow(x.magnitude(), v.magnitude(), base, base), x.neg && odd), nil
}

// Pow returns x**e.
func (x *Integer) Pow(e Operand) (*Integer, error) {
	return x.Clone().PowAssign(e)
}

// NegAssign flips the sign of x and returns x.
func (x *Integer) NegAssign() *Integer {
	return x.set(x.magnitude(), !x.neg)
}

// Neg returns -x.
func (x *Integer) Neg() *Integer { return x.Clone().NegAssign() }

// AbsAssign clears the sign of x and returns x.
func (x *Integer) AbsAssign() *Integer {
	return x.set(x.magnitude(), false)
}

// Abs returns |x|.
func (x *Integer) Abs() *Integer { return x.Clone().AbsAssign() }

// SetSign sets the sign of x in place. s must be -1, 0 or +1, and must agree
// with x being zero: -1 and +1 only apply to non-zero values (+1 is accepted
// on zero as a no-op), 0 only to zero.
func (x *Integer) SetSign(s int) error {
	const op = "set sign"
	zero := x.IsZero()
	switch {
	case s == 1:
		x.set(x.magnitude(), false)
	case s == -1 && !zero:
		x.set(x.magnitude(), true)
	case s == -1:
		return newError(op, ErrInvalidArgument, "zero cannot be negative")
	case s == 0 && zero:
	case s == 0:
		return newError(op, ErrInvalidArgument, "sign 0 requires a zero value")
	default:
		return newError(op, ErrInvalidArgument, "sign must be -1, 0 or 1, got %d", s)
	}
	return nil
}
