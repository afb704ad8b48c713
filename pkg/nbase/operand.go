package nbase

// Operand is the right-hand side of a binary operation: either an Int or an
// *Integer.
type Operand interface {
	operand()
}

// Int is a native operand. It is converted into the representation of the
// receiver before use.
type Int int64

func (Int) operand()      {}
func (*Integer) operand() {}

// resolve turns o into an Integer of the same representation as x.
func (x *Integer) resolve(op string, o Operand) (*Integer, error) {
	switch v := o.(type) {
	case Int:
		return x.repr().FromInt64(int64(v)), nil
	case *Integer:
		if v == nil {
			return nil, newError(op, ErrInvalidArgument, "operand is nil")
		}
		if !x.repr().Equal(v.repr()) {
			return nil, newError(op, ErrMismatchedRepresentation,
				"operands differ in base or charset (base %d vs %d)", x.Base(), v.Base())
		}
		return v, nil
	default:
		return nil, newError(op, ErrInvalidArgument, "operand is nil")
	}
}
