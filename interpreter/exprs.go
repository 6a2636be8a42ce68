package interpreter

import (
	"bintpl/ast"
	"bintpl/token"
	"bintpl/value"
)

func (i *Interpreter) VisitLiteral(e ast.Literal) any {
	switch v := e.Value.(type) {
	case int64:
		return value.NewInt(value.S64, v)
	case float64:
		return value.NewFloat(value.Double, v)
	case string:
		return value.NewString([]byte(v))
	case bool:
		return value.NewBool(v)
	default:
		return value.NewNull()
	}
}

func (i *Interpreter) VisitGrouping(e ast.Grouping) any {
	return i.evaluate(e.Expression)
}

func (i *Interpreter) VisitVariable(e ast.Variable) any {
	if v, ok := i.Decls.Lookup(e.Name.Lexeme); ok {
		return v
	}
	if v, ok := i.scope().Lookup(e.Name.Lexeme); ok {
		return v
	}
	return i.fail(&DeclarationError{Line: e.Name.Line, Column: e.Name.Column, Message: "undefined variable " + e.Name.Lexeme})
}

func (i *Interpreter) VisitIndex(e ast.Index) any {
	obj := i.evaluate(e.Object)
	if i.State != StateNone {
		return nil
	}
	idx := i.evaluate(e.Index)
	if i.State != StateNone {
		return nil
	}
	if !idx.IsInteger() {
		return i.fail(&IndexErr{Message: "index must be an integer"})
	}
	v, err := obj.IndexAt(idx.Int64())
	if err != nil {
		return i.fail(err)
	}
	return v
}

func (i *Interpreter) VisitMember(e ast.Member) any {
	obj := i.evaluate(e.Object)
	if i.State != StateNone {
		return nil
	}
	m, ok := obj.Member(e.Name.Lexeme)
	if !ok {
		return i.fail(&DeclarationError{Line: e.Name.Line, Column: e.Name.Column, Message: "no member " + e.Name.Lexeme})
	}
	return m
}

func (i *Interpreter) VisitAssign(e ast.Assign) any {
	lv, err := i.resolveLValue(e.Target)
	if err != nil {
		return i.fail(err)
	}
	rhs := i.evaluate(e.Value)
	if i.State != StateNone {
		return nil
	}

	if e.Operator.TokenType == token.ASSIGN {
		lv.Assign(rhs)
		return lv
	}

	op, ok := compoundOps[e.Operator.TokenType]
	if !ok {
		return i.fail(&InternalError{Message: "unknown compound assignment operator " + string(e.Operator.TokenType)})
	}
	result, err := op(lv, rhs)
	if err != nil {
		return i.fail(err)
	}
	lv.Assign(result)
	return lv
}

var compoundOps = map[token.TokenType]func(a, b *value.Value) (*value.Value, error){
	token.PLUS_EQ:    value.Add,
	token.MINUS_EQ:   value.Sub,
	token.STAR_EQ:    value.Mul,
	token.SLASH_EQ:   value.Div,
	token.PERCENT_EQ: value.Mod,
	token.AMP_EQ:     value.BitAnd,
	token.PIPE_EQ:    value.BitOr,
	token.CARET_EQ:   value.BitXor,
	token.SHL_EQ:     value.Shl,
	token.SHR_EQ:     value.Shr,
}

func (i *Interpreter) VisitLogical(e ast.Logical) any {
	left := i.evaluate(e.Left)
	if i.State != StateNone {
		return nil
	}
	if e.Operator.TokenType == token.AND_AND && !left.IsTruthy() {
		return value.NewBool(false)
	}
	if e.Operator.TokenType == token.OR_OR && left.IsTruthy() {
		return value.NewBool(true)
	}
	right := i.evaluate(e.Right)
	if i.State != StateNone {
		return nil
	}
	return value.NewBool(right.IsTruthy())
}

var binaryOps = map[token.TokenType]func(a, b *value.Value) (*value.Value, error){
	token.PLUS:    value.Add,
	token.MINUS:   value.Sub,
	token.STAR:    value.Mul,
	token.SLASH:   value.Div,
	token.PERCENT: value.Mod,
	token.AMP:     value.BitAnd,
	token.PIPE:    value.BitOr,
	token.CARET:   value.BitXor,
	token.SHL:     value.Shl,
	token.SHR:     value.Shr,
}

func (i *Interpreter) VisitBinary(e ast.Binary) any {
	left := i.evaluate(e.Left)
	if i.State != StateNone {
		return nil
	}
	right := i.evaluate(e.Right)
	if i.State != StateNone {
		return nil
	}

	if op, ok := binaryOps[e.Operator.TokenType]; ok {
		result, err := op(left, right)
		if err != nil {
			return i.fail(err)
		}
		return result
	}

	switch e.Operator.TokenType {
	case token.EQUAL_EQUAL:
		return value.NewBool(value.Equal(left, right))
	case token.NOT_EQUAL:
		return value.NewBool(!value.Equal(left, right))
	case token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL:
		c, err := value.Compare(left, right)
		if err != nil {
			return i.fail(err)
		}
		switch e.Operator.TokenType {
		case token.LESS:
			return value.NewBool(c < 0)
		case token.LESS_EQUAL:
			return value.NewBool(c <= 0)
		case token.LARGER:
			return value.NewBool(c > 0)
		default:
			return value.NewBool(c >= 0)
		}
	default:
		return i.fail(&InternalError{Message: "unsupported binary operator " + string(e.Operator.TokenType)})
	}
}

func (i *Interpreter) VisitUnary(e ast.Unary) any {
	if e.Operator.TokenType == token.INC || e.Operator.TokenType == token.DEC {
		lv, err := i.resolveLValue(e.Right)
		if err != nil {
			return i.fail(err)
		}
		step(lv, e.Operator.TokenType == token.INC)
		return lv
	}

	right := i.evaluate(e.Right)
	if i.State != StateNone {
		return nil
	}
	switch e.Operator.TokenType {
	case token.MINUS:
		v, err := value.Negate(right)
		if err != nil {
			return i.fail(err)
		}
		return v
	case token.TILDE:
		v, err := value.BitwiseNot(right)
		if err != nil {
			return i.fail(err)
		}
		return v
	case token.BANG:
		return value.LogicalNot(right)
	default:
		return i.fail(&InternalError{Message: "unsupported unary operator " + string(e.Operator.TokenType)})
	}
}

func (i *Interpreter) VisitPostfix(e ast.Postfix) any {
	lv, err := i.resolveLValue(e.Operand)
	if err != nil {
		return i.fail(err)
	}
	before := snapshot(lv)
	step(lv, e.Operator.TokenType == token.INC)
	return before
}

// step increments or decrements an lvalue's numeric storage in place,
// preserving its Kind.
func step(lv *value.Value, increment bool) {
	delta := -1.0
	if increment {
		delta = 1.0
	}
	if lv.IsFloatingPoint() {
		lv.SetFloat64(lv.Float64() + delta)
		return
	}
	lv.SetInt64(lv.Int64() + int64(delta))
}

func snapshot(v *value.Value) *value.Value {
	if v.IsFloatingPoint() {
		return value.NewFloat(v.Kind, v.Float64())
	}
	if v.IsSigned() {
		return value.NewInt(v.Kind, v.Int64())
	}
	return value.NewUint(v.Kind, v.Uint64())
}

func (i *Interpreter) VisitCall(e ast.Call) any {
	if host, ok := i.hostFuncs[e.Callee.Lexeme]; ok {
		result := host(i, e)
		if i.State != StateNone {
			return nil
		}
		if result == nil {
			return value.NewNull()
		}
		return result
	}
	fn, ok := i.functions[e.Callee.Lexeme]
	if !ok {
		return i.fail(&ArgumentError{Line: e.Callee.Line, Column: e.Callee.Column, Message: "unknown function " + e.Callee.Lexeme})
	}
	return i.callUserFunction(fn, e)
}

func (i *Interpreter) VisitCast(e ast.Cast) any {
	src := i.evaluate(e.Expression)
	if i.State != StateNone {
		return nil
	}
	target, err := i.instantiateType(e.Type, false)
	if err != nil {
		return i.fail(err)
	}
	if target.IsCompound() && src.IsCompound() && target.TypeName() != src.TypeName() {
		return i.fail(&TypeErr{Line: e.Type.Name.Line, Column: e.Type.Name.Column,
			Message: "cannot cast " + src.TypeName() + " to " + target.TypeName()})
	}
	target.Assign(src)
	return target
}

func (i *Interpreter) VisitSizeof(e ast.Sizeof) any {
	var size uint64
	if e.Type != nil {
		v, err := i.instantiateType(*e.Type, false)
		if err != nil {
			return i.fail(err)
		}
		size = v.SizeOf()
	} else {
		v := i.evaluate(e.Expression)
		if i.State == StateError {
			// sizeof(Name) is ambiguous at parse time between a variable
			// reference and a bare type name; retry as a type before
			// giving up.
			if name, ok := e.Expression.(ast.Variable); ok {
				i.State = StateNone
				i.Err = nil
				tv, terr := i.instantiateType(ast.TypeNode{Name: name.Name}, false)
				if terr != nil {
					return i.fail(terr)
				}
				return value.NewUint(value.U64, tv.SizeOf())
			}
			return nil
		}
		size = v.SizeOf()
	}
	return value.NewUint(value.U64, size)
}
