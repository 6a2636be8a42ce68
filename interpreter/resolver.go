package interpreter

import (
	"math"

	"bintpl/ast"
	"bintpl/token"
	"bintpl/value"
)

var builtinKinds = map[token.TokenType]value.Kind{
	token.TYPE_BOOL:   value.Bool,
	token.TYPE_CHAR:   value.S8,
	token.TYPE_UCHAR:  value.U8,
	token.TYPE_INT:    value.S32,
	token.TYPE_UINT:   value.U32,
	token.TYPE_INT16:  value.S16,
	token.TYPE_UINT16: value.U16,
	token.TYPE_INT32:  value.S32,
	token.TYPE_UINT32: value.U32,
	token.TYPE_INT64:  value.S64,
	token.TYPE_UINT64: value.U64,
	token.TYPE_FLOAT:  value.Float,
	token.TYPE_DOUBLE: value.Double,
	token.TYPE_STRING: value.String,
}

// instantiateType allocates a Value of the type t describes. When
// shouldRead is true it also consumes bytes from the reader (the
// template-variable-declaration path of spec §4.4); when false it
// zero-initializes without touching the reader (local/const
// declarations, and any compound built while the interpreter's noIO
// flag is set).
func (i *Interpreter) instantiateType(t ast.TypeNode, shouldRead bool) (*value.Value, error) {
	if t.IsArray {
		n, err := i.evalArraySize(t.ArraySize)
		if err != nil {
			return nil, err
		}
		elemType := t
		elemType.IsArray = false
		arr := value.NewArray(n)
		for k := 0; k < n; k++ {
			elem, err := i.instantiateType(elemType, shouldRead)
			if err != nil {
				return nil, err
			}
			arr.Members = append(arr.Members, elem)
		}
		return arr, nil
	}

	if kind, ok := builtinKinds[t.Name.TokenType]; ok {
		if kind == value.String {
			v := value.NewString(nil)
			if shouldRead {
				if err := i.readNulTerminatedString(v); err != nil {
					return nil, err
				}
			}
			return v, nil
		}
		v := value.NewScalar(kind)
		if shouldRead {
			if err := i.readScalar(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}

	decl, ok := i.scope().LookupType(t.Name.Lexeme)
	if !ok {
		return nil, &DeclarationError{Line: t.Name.Line, Column: t.Name.Column, Message: "unknown type " + t.Name.Lexeme}
	}
	switch {
	case decl.typedef != nil:
		return i.instantiateType(decl.typedef.target, shouldRead)
	case decl.structDecl != nil:
		return i.buildCompound(decl.structDecl.isUnion, t.Name.Lexeme, decl.structDecl.members, shouldRead)
	case decl.enumDecl != nil:
		return i.buildEnum(t.Name.Lexeme, decl.enumDecl, shouldRead)
	default:
		return nil, &InternalError{Message: "type declaration for " + t.Name.Lexeme + " has no payload"}
	}
}

func (i *Interpreter) evalArraySize(expr ast.Expression) (int, error) {
	v := i.evaluate(expr)
	if i.State == StateError {
		return 0, i.Err
	}
	if v == nil || !v.IsInteger() {
		return 0, &IndexErr{Message: "array size must be a non-negative integer"}
	}
	n := v.Int64()
	if n < 0 {
		return 0, &IndexErr{Message: "array size must be non-negative"}
	}
	return int(n), nil
}

// readScalar reads a byte-aligned scalar value from the reader,
// applying the reader's current endianness.
func (i *Interpreter) readScalar(v *value.Value) error {
	width := int(v.BitWidth() / 8)
	u, err := i.Reader.ReadUint(width)
	if err != nil {
		return err
	}
	switch v.Kind {
	case value.Float:
		v.SetFloat64(float64(math.Float32frombits(uint32(u))))
	case value.Double:
		v.SetFloat64(math.Float64frombits(u))
	default:
		v.SetUint64(u)
	}
	return nil
}

// readNulTerminatedString reads bytes (including the terminating NUL,
// if one is found before EOF) into v.StringBuf.
func (i *Interpreter) readNulTerminatedString(v *value.Value) error {
	var buf []byte
	for {
		u, err := i.Reader.ReadUint(1)
		if err != nil {
			return err
		}
		if i.Reader.AtEof() {
			break
		}
		buf = append(buf, byte(u))
		if u == 0 {
			break
		}
		if i.Reader.AtEof() {
			break
		}
	}
	v.StringBuf = buf
	return nil
}

// buildCompound constructs a Struct or Union Value by interpreting its
// member statements, per spec §4.4.
func (i *Interpreter) buildCompound(isUnion bool, typeName string, members []ast.Stmt, shouldRead bool) (*value.Value, error) {
	kind := value.Struct
	if isUnion {
		kind = value.Union
	}
	compound := value.NewCompound(kind)
	compound.TypeDef = typeName

	savedNoIO := i.noIO
	i.noIO = !shouldRead

	i.Decls.Push(compound)
	i.pushScope()

	var unionStart uint64
	if isUnion && shouldRead {
		unionStart = i.Reader.Offset()
	}

	for _, m := range members {
		if isUnion && shouldRead {
			i.Reader.Seek(unionStart)
		}
		m.Accept(i)
		if i.State == StateError {
			break
		}
	}

	i.popScope()
	i.Decls.Pop()
	i.noIO = savedNoIO

	if i.State == StateError {
		return nil, i.Err
	}

	if isUnion && shouldRead {
		i.Reader.Seek(unionStart + compound.SizeOf())
	}
	return compound, nil
}

// buildEnum constructs an Enum Value, resolving its display label from
// the values precomputed when the enum type was declared.
func (i *Interpreter) buildEnum(typeName string, tmpl *enumTemplate, shouldRead bool) (*value.Value, error) {
	underlying, ok := builtinKinds[tmpl.underlying.Name.TokenType]
	if !ok {
		underlying = value.S32
	}
	v := value.NewScalar(value.Enum)
	v.TypeDef = typeName
	v.EnumUnderlying = underlying
	if shouldRead {
		width := int(value.NewScalar(underlying).BitWidth() / 8)
		u, err := i.Reader.ReadUint(width)
		if err != nil {
			return nil, err
		}
		v.SetUint64(u)
	}
	for idx, val := range tmpl.resolvedValues {
		if val == v.Int64() {
			v.EnumLabel = tmpl.members[idx].Name.Lexeme
			break
		}
	}
	return v, nil
}
