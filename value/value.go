// Package value implements the tagged runtime value that is the
// currency of the template interpreter (spec §3): scalars at every
// bit width, strings, and compound (array/struct/union/enum) values,
// with arithmetic, comparison, indexing and member access.
//
// Values are arena-free: a compound Value owns its children through
// plain Go pointers (*Value), which Go's garbage collector reclaims
// once nothing references them, the way the design notes describe
// "arena ownership ... children stored by index rather than by
// pointer" without requiring an explicit arena — Go pointers already
// give O(1), cycle-safe teardown for the acyclic trees a template
// produces.
package value

import (
	"fmt"
	"math"

	"bintpl/colors"
)

// Kind is the type tag of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	U8
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	Float
	Double
	String
	Array
	Struct
	Union
	Enum
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	case S8:
		return "int8"
	case S16:
		return "int16"
	case S32:
		return "int32"
	case S64:
		return "int64"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case Union:
		return "union"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// Flags is a bitset of per-value modifiers. The bit assignment
// matches the original VMValueFlags enum (None=0, Const=1, Local=2,
// Reference=4) so that any ported template semantics carry over
// unchanged.
type Flags int

const (
	FlagNone      Flags = 0
	FlagConst     Flags = 1
	FlagLocal     Flags = 2
	FlagReference Flags = 4
)

// Reference points into another Value's storage: either a single byte
// of its StringBuf (the result of indexing a String), or, when Target
// is not a String, the whole Target scalar. By-reference function
// parameters do not use it; they bind the argument Value itself.
// Writes through a Reference mutate the target in place.
type Reference struct {
	Target     *Value
	ByteOffset int // valid when Target.Kind == String
}

// Value is the tagged runtime representation described in spec §3.
// Exactly one storage discipline is active for a given Kind: scalars
// use raw, String uses StringBuf, compounds use Members,
// references use Ref.
type Value struct {
	Kind    Kind
	Flags   Flags
	TypeDef string // name of the originating struct/union/enum/typedef, "" if none
	ID      string

	Bits   int64 // explicit bitfield width, or -1 if byte-aligned
	Offset uint64

	FGColor uint32
	BGColor uint32

	raw uint64 // integer/float bit pattern for scalar storage

	StringBuf []byte
	Members   []*Value
	Ref       *Reference

	EnumUnderlying Kind   // meaningful only when Kind == Enum
	EnumLabel      string // resolved display label, set by the interpreter
}

// newBase returns the zero Value shared by every constructor below: no
// storage set yet, but already carrying the "unset" color sentinel
// rather than Go's zero value, which collides with a legitimate black.
func newBase(kind Kind) *Value {
	return &Value{Kind: kind, Bits: -1, FGColor: colors.None, BGColor: colors.None}
}

// NewNull returns an unallocated Null value.
func NewNull() *Value {
	return newBase(Null)
}

// NewScalar allocates a zero-valued scalar of the given kind.
func NewScalar(kind Kind) *Value {
	return newBase(kind)
}

// NewBool returns a Bool value holding b.
func NewBool(b bool) *Value {
	v := newBase(Bool)
	if b {
		v.raw = 1
	}
	return v
}

// NewInt returns a signed scalar of the given kind holding i.
func NewInt(kind Kind, i int64) *Value {
	v := newBase(kind)
	v.raw = uint64(i)
	return v
}

// NewUint returns an unsigned scalar of the given kind holding u.
func NewUint(kind Kind, u uint64) *Value {
	v := newBase(kind)
	v.raw = u
	return v
}

// NewFloat returns a Float or Double scalar holding f.
func NewFloat(kind Kind, f float64) *Value {
	v := newBase(kind)
	v.raw = math.Float64bits(f)
	return v
}

// NewString allocates a String value from the given bytes.
func NewString(s []byte) *Value {
	buf := make([]byte, len(s))
	copy(buf, s)
	v := newBase(String)
	v.StringBuf = buf
	return v
}

// NewArray allocates an Array value of the given element capacity;
// callers populate Members.
func NewArray(capacity int) *Value {
	v := newBase(Array)
	v.Members = make([]*Value, 0, capacity)
	return v
}

// NewCompound allocates an empty Struct, Union, or Enum value; callers
// populate Members.
func NewCompound(kind Kind) *Value {
	return newBase(kind)
}

// --- predicates ---

func (v *Value) IsSigned() bool {
	switch v.Kind {
	case S8, S16, S32, S64:
		return true
	default:
		return false
	}
}

func (v *Value) IsInteger() bool {
	switch v.Kind {
	case Bool, U8, U16, U32, U64, S8, S16, S32, S64:
		return true
	default:
		return false
	}
}

func (v *Value) IsFloatingPoint() bool {
	return v.Kind == Float || v.Kind == Double
}

func (v *Value) IsScalar() bool {
	return v.IsInteger() || v.IsFloatingPoint()
}

func (v *Value) IsString() bool { return v.Kind == String }

func (v *Value) IsCompound() bool {
	switch v.Kind {
	case Array, Struct, Union, Enum:
		return true
	default:
		return false
	}
}

func (v *Value) IsNull() bool { return v.Kind == Null }

func (v *Value) IsConst() bool     { return v.Flags&FlagConst != 0 }
func (v *Value) IsLocal() bool     { return v.Flags&FlagLocal != 0 }
func (v *Value) IsReference() bool { return v.Flags&FlagReference != 0 }

// IsTemplate reports whether this value is read from the file (i.e.
// neither Const nor Local).
func (v *Value) IsTemplate() bool { return v.Flags&(FlagConst|FlagLocal) == 0 }

// --- scalar access, resolving through Reference when set ---

// Uint64 returns the value's raw bit pattern interpreted as an
// unsigned integer, following a Reference if one is set.
func (v *Value) Uint64() uint64 {
	if v.Flags&FlagReference != 0 && v.Ref != nil {
		if v.Ref.Target.Kind == String {
			if v.Ref.ByteOffset >= 0 && v.Ref.ByteOffset < len(v.Ref.Target.StringBuf) {
				return uint64(v.Ref.Target.StringBuf[v.Ref.ByteOffset])
			}
			return 0
		}
		return v.Ref.Target.Uint64()
	}
	return v.raw
}

// Int64 returns the value's raw bit pattern interpreted as a signed
// integer of the value's declared width.
func (v *Value) Int64() int64 {
	u := v.Uint64()
	switch v.Kind {
	case S8:
		return int64(int8(u))
	case S16:
		return int64(int16(u))
	case S32:
		return int64(int32(u))
	default:
		return int64(u)
	}
}

// Float64 returns the value interpreted as a double-precision float,
// converting from integer storage when the value is not itself a
// floating-point kind.
func (v *Value) Float64() float64 {
	if v.IsFloatingPoint() {
		if v.Flags&FlagReference != 0 && v.Ref != nil {
			return v.Ref.Target.Float64()
		}
		return math.Float64frombits(v.raw)
	}
	if v.IsSigned() {
		return float64(v.Int64())
	}
	return float64(v.Uint64())
}

// IsTruthy is the interpreter's notion of "truthiness" for control
// flow: false/0/0.0/"" are false, everything else (including a
// non-null compound) is true.
func (v *Value) IsTruthy() bool {
	switch {
	case v.IsNull():
		return false
	case v.IsFloatingPoint():
		return v.Float64() != 0
	case v.IsInteger():
		return v.Uint64() != 0
	case v.IsString():
		return len(v.StringBuf) > 0
	default:
		return true
	}
}

// SetUint64 overwrites the value's storage in place, writing through
// a Reference if one is set. This is the mechanism behind assignment
// and "index on String returns a byte Reference; mutation writes
// through" (spec §4.1).
func (v *Value) SetUint64(u uint64) {
	if v.Flags&FlagReference != 0 && v.Ref != nil {
		if v.Ref.Target.Kind == String && v.Ref.ByteOffset >= 0 && v.Ref.ByteOffset < len(v.Ref.Target.StringBuf) {
			v.Ref.Target.StringBuf[v.Ref.ByteOffset] = byte(u)
			return
		}
		v.Ref.Target.SetUint64(u)
		return
	}
	v.raw = u
}

func (v *Value) SetInt64(i int64)     { v.SetUint64(uint64(i)) }
func (v *Value) SetFloat64(f float64) { v.raw = math.Float64bits(f) }

// Assign overwrites v's storage from src, following the compatibility
// rule of spec §4.1: incompatible kinds are a TypeError, left to the
// caller to check via Compatible before calling Assign.
func (v *Value) Assign(src *Value) {
	switch {
	case v.IsFloatingPoint():
		v.SetFloat64(src.Float64())
	case v.IsString():
		buf := make([]byte, len(src.StringBuf))
		copy(buf, src.StringBuf)
		v.StringBuf = buf
	case v.IsCompound():
		v.Members = src.Members
	default:
		v.SetUint64(src.Uint64())
	}
}

// TypeName returns the user-facing type name: the typedef/compound
// name when present, otherwise the scalar Kind's name.
func (v *Value) TypeName() string {
	if v.TypeDef != "" {
		return v.TypeDef
	}
	return v.Kind.String()
}

// Compatible implements spec §4.1's compatibility check used before
// binary operations and assignments: both scalar, or both compound
// with identical typedef name, or identical type tags.
func Compatible(a, b *Value) bool {
	if a.IsScalar() && b.IsScalar() {
		return true
	}
	if a.IsCompound() && b.IsCompound() {
		if a.TypeDef != "" || b.TypeDef != "" {
			return a.TypeDef == b.TypeDef
		}
		return a.Kind == b.Kind
	}
	return a.Kind == b.Kind
}

// Length is the logical length described in spec §3: member count for
// compounds, byte length for String, 0 for scalars.
func (v *Value) Length() int {
	switch {
	case v.IsString():
		return len(v.StringBuf)
	case v.IsCompound():
		return len(v.Members)
	default:
		return 0
	}
}

// Member finds the first child Value whose ID matches name, per
// spec §4.1 "Member access on compound Values finds the first child
// Value whose id matches."
func (v *Value) Member(name string) (*Value, bool) {
	for _, m := range v.Members {
		if m.ID == name {
			return m, true
		}
	}
	return nil, false
}

// BitWidth returns the storage width in bits for a scalar Kind, or
// for a bitfield member its explicit Bits width.
func (v *Value) BitWidth() int64 {
	if v.Bits >= 0 {
		return v.Bits
	}
	return bitWidthOf(v.Kind)
}

func bitWidthOf(k Kind) int64 {
	switch k {
	case Bool, U8, S8:
		return 8
	case U16, S16:
		return 16
	case U32, S32, Float:
		return 32
	case U64, S64, Double:
		return 64
	default:
		return 0
	}
}

// String implements fmt.Stringer for debugging and Printf("%v", ...).
func (v *Value) String() string {
	switch {
	case v.IsNull():
		return "null"
	case v.Kind == Bool:
		return fmt.Sprintf("%v", v.Uint64() != 0)
	case v.Kind == Enum:
		if v.EnumLabel != "" {
			return v.EnumLabel
		}
		return fmt.Sprintf("%d", v.Int64())
	case v.IsFloatingPoint():
		return fmt.Sprintf("%g", v.Float64())
	case v.IsSigned():
		return fmt.Sprintf("%d", v.Int64())
	case v.IsInteger():
		return fmt.Sprintf("%d", v.Uint64())
	case v.IsString():
		return string(nulTerminate(v.StringBuf))
	default:
		return fmt.Sprintf("<%s>", v.TypeName())
	}
}

// nulTerminate implements the contract that an embedded NUL in a
// String's byte buffer terminates display formatting, per spec §3:
// "the byte buffer is not NUL-terminated by contract, but host
// formatting treats embedded NULs as terminators."
func nulTerminate(buf []byte) []byte {
	for i, b := range buf {
		if b == 0 {
			return buf[:i]
		}
	}
	return buf
}
