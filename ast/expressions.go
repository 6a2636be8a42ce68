package ast

import "bintpl/token"

// Binary is a two-operand expression: arithmetic, bitwise, shift, or
// comparison, dispatched on Operator.TokenType.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(e) }

// Unary is a prefix operator: "!", "~", "-", "++", "--".
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (e Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(e) }

// Postfix is a postfix "++" or "--" applied to an lvalue.
type Postfix struct {
	Operand  Expression
	Operator token.Token
}

func (e Postfix) Accept(v ExpressionVisitor) any { return v.VisitPostfix(e) }

// Literal is a constant value already resolved by the lexer: an
// int64, float64, string, bool, or nil.
type Literal struct {
	Value any
}

func (e Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(e) }

// Grouping is a parenthesized sub-expression, kept only to preserve
// source structure for printers; it has no semantic effect once
// parsed (precedence is already resolved).
type Grouping struct {
	Expression Expression
}

func (e Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(e) }

// Variable refers to a previously declared name: a template variable,
// local/const, enum constant, or function parameter.
type Variable struct {
	Name token.Token
}

func (e Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(e) }

// Assign is a simple or compound ("+=", "&=", ...) assignment to an
// lvalue expression (a Variable, Index, or Member).
type Assign struct {
	Target   Expression
	Operator token.Token
	Value    Expression
}

func (e Assign) Accept(v ExpressionVisitor) any { return v.VisitAssign(e) }

// Logical is "&&" or "||" with short-circuit evaluation.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e Logical) Accept(v ExpressionVisitor) any { return v.VisitLogical(e) }

// Index is "object[expr]": array element access or single-byte string
// indexing.
type Index struct {
	Object Expression
	Index  Expression
}

func (e Index) Accept(v ExpressionVisitor) any { return v.VisitIndex(e) }

// Member is "object.name": compound member access.
type Member struct {
	Object Expression
	Name   token.Token
}

func (e Member) Accept(v ExpressionVisitor) any { return v.VisitMember(e) }

// Call is a function call by name: a host function or a user-defined
// NFunction, disambiguated at evaluation time per spec.md §4.4.
type Call struct {
	Callee    token.Token
	Arguments []Expression
}

func (e Call) Accept(v ExpressionVisitor) any { return v.VisitCall(e) }

// Cast is "(Type)expr".
type Cast struct {
	Type       TypeNode
	Expression Expression
}

func (e Cast) Accept(v ExpressionVisitor) any { return v.VisitCast(e) }

// Sizeof is "sizeof(Type)" or "sizeof(expr)"; exactly one of Type's
// Name token and Expression is populated.
type Sizeof struct {
	Type       *TypeNode
	Expression Expression
}

func (e Sizeof) Accept(v ExpressionVisitor) any { return v.VisitSizeof(e) }
