package value

import "bytes"

// TypeError reports an operation applied to an incompatible or
// ineligible Value kind.
type TypeError struct{ Message string }

func (e *TypeError) Error() string { return e.Message }

// IndexError reports an out-of-range or non-integer index.
type IndexError struct{ Message string }

func (e *IndexError) Error() string { return e.Message }

// ArithmeticError reports a division or modulo by zero.
type ArithmeticError struct{ Message string }

func (e *ArithmeticError) Error() string { return e.Message }

// resultKind implements spec §4.1's promotion rule: if either operand
// is floating-point the result is Double; otherwise the result is
// signed if either operand is signed, unsigned otherwise.
func resultKind(a, b *Value) Kind {
	if a.IsFloatingPoint() || b.IsFloatingPoint() {
		return Double
	}
	if a.IsSigned() || b.IsSigned() {
		return S64
	}
	return U64
}

func requireScalar(op string, a, b *Value) error {
	if !a.IsScalar() || !b.IsScalar() {
		return &TypeError{Message: "💥 " + op + " requires scalar operands, got " + a.TypeName() + " and " + b.TypeName()}
	}
	return nil
}

func requireInteger(op string, a, b *Value) error {
	if err := requireScalar(op, a, b); err != nil {
		return err
	}
	if a.IsFloatingPoint() || b.IsFloatingPoint() {
		return &TypeError{Message: "💥 " + op + " requires integer operands, got " + a.TypeName() + " and " + b.TypeName()}
	}
	return nil
}

// Add implements "+": numeric addition only, per spec §4.1 (string
// concatenation is not part of the value algebra).
func Add(a, b *Value) (*Value, error) {
	if err := requireScalar("+", a, b); err != nil {
		return nil, err
	}
	return arith(a, b, func(x, y float64) float64 { return x + y },
		func(x, y int64) int64 { return x + y },
		func(x, y uint64) uint64 { return x + y })
}

func Sub(a, b *Value) (*Value, error) {
	if err := requireScalar("-", a, b); err != nil {
		return nil, err
	}
	return arith(a, b, func(x, y float64) float64 { return x - y },
		func(x, y int64) int64 { return x - y },
		func(x, y uint64) uint64 { return x - y })
}

func Mul(a, b *Value) (*Value, error) {
	if err := requireScalar("*", a, b); err != nil {
		return nil, err
	}
	return arith(a, b, func(x, y float64) float64 { return x * y },
		func(x, y int64) int64 { return x * y },
		func(x, y uint64) uint64 { return x * y })
}

func Div(a, b *Value) (*Value, error) {
	if err := requireScalar("/", a, b); err != nil {
		return nil, err
	}
	if !a.IsFloatingPoint() && !b.IsFloatingPoint() && b.Uint64() == 0 && b.Int64() == 0 {
		return nil, &ArithmeticError{Message: "💥 division by zero"}
	}
	return arith(a, b, func(x, y float64) float64 { return x / y },
		func(x, y int64) int64 { return x / y },
		func(x, y uint64) uint64 { return x / y })
}

func Mod(a, b *Value) (*Value, error) {
	if err := requireInteger("%", a, b); err != nil {
		return nil, err
	}
	if b.Uint64() == 0 && b.Int64() == 0 {
		return nil, &ArithmeticError{Message: "💥 modulo by zero"}
	}
	return arith(a, b, nil,
		func(x, y int64) int64 { return x % y },
		func(x, y uint64) uint64 { return x % y })
}

func BitAnd(a, b *Value) (*Value, error) { return bitwise("&", a, b, func(x, y uint64) uint64 { return x & y }) }
func BitOr(a, b *Value) (*Value, error)  { return bitwise("|", a, b, func(x, y uint64) uint64 { return x | y }) }
func BitXor(a, b *Value) (*Value, error) { return bitwise("^", a, b, func(x, y uint64) uint64 { return x ^ y }) }

func Shl(a, b *Value) (*Value, error) { return shift("<<", a, b, func(x uint64, n uint) uint64 { return x << n }) }
func Shr(a, b *Value) (*Value, error) { return shift(">>", a, b, func(x uint64, n uint) uint64 { return x >> n }) }

func bitwise(op string, a, b *Value, f func(uint64, uint64) uint64) (*Value, error) {
	if err := requireInteger(op, a, b); err != nil {
		return nil, err
	}
	kind := resultKind(a, b)
	return NewUint(kind, f(a.Uint64(), b.Uint64())), nil
}

func shift(op string, a, b *Value, f func(uint64, uint) uint64) (*Value, error) {
	if err := requireInteger(op, a, b); err != nil {
		return nil, err
	}
	kind := resultKind(a, b)
	return NewUint(kind, f(a.Uint64(), uint(b.Uint64()&63))), nil
}

func arith(a, b *Value, ffn func(float64, float64) float64, ifn func(int64, int64) int64, ufn func(uint64, uint64) uint64) (*Value, error) {
	kind := resultKind(a, b)
	switch kind {
	case Double:
		if ffn == nil {
			return nil, &TypeError{Message: "💥 operator requires integer operands"}
		}
		return NewFloat(Double, ffn(a.Float64(), b.Float64())), nil
	case S64:
		return NewInt(S64, ifn(a.Int64(), b.Int64())), nil
	default:
		return NewUint(U64, ufn(a.Uint64(), b.Uint64())), nil
	}
}

// Negate implements unary "-": promotes an unsigned operand to signed
// per spec §4.1.
func Negate(a *Value) (*Value, error) {
	if !a.IsScalar() {
		return nil, &TypeError{Message: "💥 unary - requires a scalar operand, got " + a.TypeName()}
	}
	if a.IsFloatingPoint() {
		return NewFloat(Double, -a.Float64()), nil
	}
	return NewInt(S64, -a.Int64()), nil
}

// BitwiseNot implements unary "~", masked to the operand's bit width.
func BitwiseNot(a *Value) (*Value, error) {
	if !a.IsInteger() {
		return nil, &TypeError{Message: "💥 unary ~ requires an integer operand, got " + a.TypeName()}
	}
	width := a.BitWidth()
	mask := uint64(1)<<uint(width) - 1
	if width >= 64 {
		mask = ^uint64(0)
	}
	return NewUint(resultKind(a, a), ^a.Uint64()&mask), nil
}

// LogicalNot implements unary "!".
func LogicalNot(a *Value) *Value { return NewBool(!a.IsTruthy()) }

// Compare orders two scalar or string operands for "< <= > >=", per
// spec §4.1: lexicographic byte comparison for strings, signed compare
// if either operand is signed, unsigned otherwise.
func Compare(a, b *Value) (int, error) {
	if a.IsString() && b.IsString() {
		return bytes.Compare(nulTerminate(a.StringBuf), nulTerminate(b.StringBuf)), nil
	}
	if err := requireScalar("comparison", a, b); err != nil {
		return 0, err
	}
	if a.IsFloatingPoint() || b.IsFloatingPoint() {
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.IsSigned() || b.IsSigned() {
		x, y := a.Int64(), b.Int64()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	}
	x, y := a.Uint64(), b.Uint64()
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal implements "==" / "!=". Scalars and strings compare by value;
// compounds compare by identity (same underlying Value).
func Equal(a, b *Value) bool {
	switch {
	case a.IsString() && b.IsString():
		return bytes.Equal(nulTerminate(a.StringBuf), nulTerminate(b.StringBuf))
	case a.IsScalar() && b.IsScalar():
		if a.IsFloatingPoint() || b.IsFloatingPoint() {
			return a.Float64() == b.Float64()
		}
		if a.IsSigned() || b.IsSigned() {
			return a.Int64() == b.Int64()
		}
		return a.Uint64() == b.Uint64()
	default:
		return a == b
	}
}

// IndexAt implements spec §4.1 indexing: a String yields a byte
// Reference (mutable in place), an Array yields the shared child
// Value, anything else is an IndexError.
func (v *Value) IndexAt(i int64) (*Value, error) {
	switch v.Kind {
	case String:
		if i < 0 || i >= int64(len(v.StringBuf)) {
			return nil, &IndexError{Message: "💥 string index out of range"}
		}
		ref := newBase(U8)
		ref.Flags = FlagReference
		ref.Ref = &Reference{Target: v, ByteOffset: int(i)}
		return ref, nil
	case Array:
		if i < 0 || i >= int64(len(v.Members)) {
			return nil, &IndexError{Message: "💥 array index out of range"}
		}
		return v.Members[i], nil
	default:
		return nil, &IndexError{Message: "💥 cannot index a " + v.TypeName()}
	}
}

// SizeOf computes the storage size in bytes of v, per spec §4.5.
func (v *Value) SizeOf() uint64 {
	switch v.Kind {
	case String:
		return uint64(len(v.StringBuf))
	case Enum:
		underlying := v.EnumUnderlying
		if underlying == Null {
			underlying = S32
		}
		return uint64(bitWidthOf(underlying)) / 8
	case Array:
		var total uint64
		for _, m := range v.Members {
			total += m.SizeOf()
		}
		return total
	case Union:
		var max uint64
		for _, m := range v.Members {
			if m.IsLocal() || m.IsConst() {
				continue
			}
			if s := m.SizeOf(); s > max {
				max = s
			}
		}
		return max
	case Struct:
		return structSizeOf(v.Members)
	default:
		return uint64(v.BitWidth()) / 8
	}
}

// structSizeOf implements the bitfield-run packing rule decided on in
// DESIGN.md: consecutive bitfield members of the same Kind accumulate
// bits and flush to the next whole byte when the Kind changes, a
// non-bitfield member follows, or the member list ends.
func structSizeOf(members []*Value) uint64 {
	var total uint64
	var pendingBits int64
	var runKind Kind
	flush := func() {
		if pendingBits > 0 {
			total += uint64((pendingBits + 7) / 8)
			pendingBits = 0
		}
	}
	for _, m := range members {
		if m.IsLocal() || m.IsConst() {
			continue
		}
		if m.Bits > 0 {
			if pendingBits > 0 && m.Kind != runKind {
				flush()
			}
			runKind = m.Kind
			pendingBits += m.Bits
			continue
		}
		flush()
		total += m.SizeOf()
	}
	flush()
	return total
}
