package interpreter

import (
	"bintpl/ast"
	"bintpl/token"
	"bintpl/value"
)

// VisitVarDeclStmt implements spec §4.4's template and local/const
// variable declaration rules.
func (i *Interpreter) VisitVarDeclStmt(s ast.VarDeclStmt) any {
	shouldRead := s.Flags == ast.DeclNone && !i.noIO

	var v *value.Value
	var offset uint64
	var err error

	if s.Bits != nil {
		bits := i.evaluate(s.Bits)
		if i.State != StateNone {
			return nil
		}
		if !bits.IsInteger() || bits.Int64() <= 0 {
			return i.fail(&TypeErr{Line: s.Name.Line, Column: s.Name.Column, Message: "bitfield width must be a positive integer"})
		}
		kind, ok := builtinKinds[s.Type.Name.TokenType]
		if !ok || kind == value.String || kind == value.Float || kind == value.Double {
			return i.fail(&TypeErr{Line: s.Name.Line, Column: s.Name.Column, Message: "bitfields require an integer scalar type"})
		}
		v = value.NewScalar(kind)
		v.Bits = bits.Int64()
		offset = i.Reader.Offset()
		if shouldRead {
			u, rerr := i.Reader.ReadBits(v.Bits)
			if rerr != nil {
				return i.fail(rerr)
			}
			v.SetUint64(u)
		}
	} else {
		offset = i.Reader.Offset()
		v, err = i.instantiateType(s.Type, shouldRead)
		if err != nil {
			return i.fail(err)
		}
	}
	v.Offset = offset

	switch s.Flags {
	case ast.DeclLocal:
		v.Flags |= value.FlagLocal
	case ast.DeclConst:
		v.Flags |= value.FlagConst
	}

	if s.Initializer != nil {
		init := i.evaluate(s.Initializer)
		if i.State != StateNone {
			return nil
		}
		v.Assign(init)
	}

	i.declareVariable(s.Name.Lexeme, v)
	return nil
}

func (i *Interpreter) VisitStructDecl(s ast.StructDecl) any {
	return i.declareCompound(false, s.TypeName, s.Members, s.VarName, s.IsArray, s.ArraySize)
}

func (i *Interpreter) VisitUnionDecl(s ast.UnionDecl) any {
	return i.declareCompound(true, s.TypeName, s.Members, s.VarName, s.IsArray, s.ArraySize)
}

// declareCompound implements the shared shape of struct/union
// declarations: registering the named type (if any) and, when a
// variable name is also present, instantiating it (spec §4.4).
func (i *Interpreter) declareCompound(isUnion bool, typeName token.Token, members []ast.Stmt, varName token.Token, isArray bool, arraySize ast.Expression) any {
	if typeName.Lexeme != "" {
		i.scope().DeclareType(typeName.Lexeme, typeDecl{structDecl: &structTemplate{isUnion: isUnion, members: members}})
	}
	if varName.Lexeme == "" {
		return nil
	}

	shouldRead := !i.noIO
	offset := i.Reader.Offset()
	var v *value.Value
	if isArray {
		n, err := i.evalArraySize(arraySize)
		if err != nil {
			return i.fail(err)
		}
		arr := value.NewArray(n)
		for k := 0; k < n; k++ {
			elem, err := i.buildCompound(isUnion, typeName.Lexeme, members, shouldRead)
			if err != nil {
				return i.fail(err)
			}
			arr.Members = append(arr.Members, elem)
		}
		v = arr
	} else {
		elem, err := i.buildCompound(isUnion, typeName.Lexeme, members, shouldRead)
		if err != nil {
			return i.fail(err)
		}
		v = elem
	}
	v.Offset = offset
	i.declareVariable(varName.Lexeme, v)
	return nil
}

// VisitEnumDecl implements spec §4.4's enum rule: explicit-or-
// incrementing member values, each exposed as a const in the current
// scope, plus registration of the enum type itself.
func (i *Interpreter) VisitEnumDecl(s ast.EnumDecl) any {
	underlying, ok := builtinKinds[s.UnderlyingType.Name.TokenType]
	if !ok {
		underlying = value.S32
	}

	values := make([]int64, len(s.Members))
	var prev int64
	for idx, m := range s.Members {
		var val int64
		switch {
		case m.Value != nil:
			resolved := i.evaluate(m.Value)
			if i.State != StateNone {
				return nil
			}
			val = resolved.Int64()
		case idx == 0:
			val = 0
		default:
			val = prev + 1
		}
		values[idx] = val
		prev = val

		constVal := value.NewScalar(value.Enum)
		constVal.TypeDef = s.TypeName.Lexeme
		constVal.EnumUnderlying = underlying
		constVal.EnumLabel = m.Name.Lexeme
		constVal.SetInt64(val)
		constVal.Flags |= value.FlagConst
		if !i.scope().Declare(m.Name.Lexeme, constVal) {
			return i.fail(&DeclarationError{Line: m.Name.Line, Column: m.Name.Column, Message: "redeclaration of " + m.Name.Lexeme})
		}
	}

	i.scope().DeclareType(s.TypeName.Lexeme, typeDecl{enumDecl: &enumTemplate{underlying: s.UnderlyingType, members: s.Members, resolvedValues: values}})

	if s.VarName.Lexeme != "" {
		offset := i.Reader.Offset()
		v, err := i.buildEnum(s.TypeName.Lexeme, &enumTemplate{underlying: s.UnderlyingType, members: s.Members, resolvedValues: values}, !i.noIO)
		if err != nil {
			return i.fail(err)
		}
		v.Offset = offset
		i.declareVariable(s.VarName.Lexeme, v)
	}
	return nil
}

// VisitTypedefDecl implements spec §4.4's typedef rule: declares the
// alias; if it names a compound, the compound becomes directly
// resolvable under the alias too (not just through one level of
// indirection).
func (i *Interpreter) VisitTypedefDecl(s ast.TypedefDecl) any {
	i.scope().DeclareType(s.Alias.Lexeme, typeDecl{typedef: &typedefTarget{target: s.Target}})
	if decl, ok := i.scope().LookupType(s.Target.Name.Lexeme); ok {
		if decl.structDecl != nil || decl.enumDecl != nil {
			i.scope().DeclareType(s.Alias.Lexeme, decl)
		}
	}
	return nil
}
