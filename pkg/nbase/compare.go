package nbase

import "github.com/agbru/nbase/internal/digits"

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to or
// greater than y.
func (x *Integer) Cmp(y Operand) (int, error) {
	v, err := x.resolve("cmp", y)
	if err != nil {
		return 0, err
	}
	return cmpSigned(x, v), nil
}

// CmpAbs compares |x| and |y|.
func (x *Integer) CmpAbs(y Operand) (int, error) {
	v, err := x.resolve("cmp", y)
	if err != nil {
		return 0, err
	}
	return digits.Compare(x.magnitude(), v.magnitude()), nil
}

func cmpSigned(x, y *Integer) int {
	switch xs, ys := x.Sign(), y.Sign(); {
	case xs < ys:
		return -1
	case xs > ys:
		return 1
	case xs < 0:
		return -digits.Compare(x.magnitude(), y.magnitude())
	default:
		return digits.Compare(x.magnitude(), y.magnitude())
	}
}

// lift adapts a predicate on a comparison result to the (int, error) pair
// returned by Cmp and CmpAbs.
func lift(pred func(int) bool) func(int, error) (bool, error) {
	return func(c int, err error) (bool, error) {
		if err != nil {
			return false, err
		}
		return pred(c), nil
	}
}

func eq(c int) bool  { return c == 0 }
func ne(c int) bool  { return c != 0 }
func gt(c int) bool  { return c > 0 }
func gte(c int) bool { return c >= 0 }
func lt(c int) bool  { return c < 0 }
func lte(c int) bool { return c <= 0 }

// Eq reports x == y.
func (x *Integer) Eq(y Operand) (bool, error) { return lift(eq)(x.Cmp(y)) }

// Ne reports x != y.
func (x *Integer) Ne(y Operand) (bool, error) { return lift(ne)(x.Cmp(y)) }

// Gt reports x > y.
func (x *Integer) Gt(y Operand) (bool, error) { return lift(gt)(x.Cmp(y)) }

// Gte reports x >= y.
func (x *Integer) Gte(y Operand) (bool, error) { return lift(gte)(x.Cmp(y)) }

// Lt reports x < y.
func (x *Integer) Lt(y Operand) (bool, error) { return lift(lt)(x.Cmp(y)) }

// Lte reports x <= y.
func (x *Integer) Lte(y Operand) (bool, error) { return lift(lte)(x.Cmp(y)) }

// EqAbs reports |x| == |y|.
func (x *Integer) EqAbs(y Operand) (bool, error) { return lift(eq)(x.CmpAbs(y)) }

// NeAbs reports |x| != |y|.
func (x *Integer) NeAbs(y Operand) (bool, error) { return lift(ne)(x.CmpAbs(y)) }

// GtAbs reports |x| > |y|.
func (x *Integer) GtAbs(y Operand) (bool, error) { return lift(gt)(x.CmpAbs(y)) }

// GteAbs reports |x| >= |y|.
func (x *Integer) GteAbs(y Operand) (bool, error) { return lift(gte)(x.CmpAbs(y)) }

// LtAbs reports |x| < |y|.
func (x *Integer) LtAbs(y Operand) (bool, error) { return lift(lt)(x.CmpAbs(y)) }

// LteAbs reports |x| <= |y|.
func (x *Integer) LteAbs(y Operand) (bool, error) { return lift(lte)(x.CmpAbs(y)) }
