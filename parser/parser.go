// Package parser implements a recursive descent parser over the
// template language's token stream, producing the ast package's
// statement and expression nodes.
//
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// The grammar is C-like: declarations (struct/union/enum/typedef/
// function/local/const/template-variable) at statement level, and a
// precedence-climbing expression grammar extended with bitwise and
// shift operators, casts and sizeof.
package parser

import (
	"fmt"

	"bintpl/ast"
	"bintpl/token"
)

var equalityTokenTypes = []token.TokenType{token.EQUAL_EQUAL, token.NOT_EQUAL}
var comparisonTokenTypes = []token.TokenType{token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL}
var shiftTokenTypes = []token.TokenType{token.SHL, token.SHR}
var termTokenTypes = []token.TokenType{token.PLUS, token.MINUS}
var factorTokenTypes = []token.TokenType{token.STAR, token.SLASH, token.PERCENT}
var assignTokenTypes = []token.TokenType{
	token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
	token.PERCENT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ, token.SHL_EQ, token.SHR_EQ,
}

// primaryStartTokens is used to disambiguate "(Type)expr" casts from
// parenthesized groupings: a cast's closing ')' must be followed by
// something that can begin an expression.
var primaryStartTokens = map[token.TokenType]bool{
	token.IDENTIFIER: true, token.INT: true, token.FLOAT: true, token.STRING: true,
	token.TRUE: true, token.FALSE: true, token.NULL: true, token.LPA: true,
	token.BANG: true, token.TILDE: true, token.MINUS: true, token.INC: true, token.DEC: true,
	token.SIZEOF: true,
}

// Parser is a recursive descent parser over a fixed token slice.
//
// NOTE: the parser's position is always one unit ahead of the
// current token.
type Parser struct {
	tokens   []token.Token
	position int
}

// New constructs a Parser over tokens, as produced by the lexer.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the entire token stream into a slice of statements,
// stopping at the first syntax error.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}
	for !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// --- token stream primitives ---

func (p *Parser) peek() token.Token { return p.tokens[p.position] }

func (p *Parser) peekNext() token.Token {
	if p.position+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.position+1]
}

func (p *Parser) previous() token.Token { return p.tokens[p.position-1] }

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool { return p.peek().TokenType == token.EOF }

func (p *Parser) checkType(t token.TokenType) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().TokenType == t
}

func (p *Parser) isMatch(types []token.TokenType) bool {
	for _, t := range types {
		if p.checkType(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType, message string) (token.Token, error) {
	if p.checkType(t) {
		return p.advance(), nil
	}
	cur := p.peek()
	return token.Token{}, CreateSyntaxError(cur.Line, cur.Column, fmt.Sprintf("%s (got %q)", message, cur.Lexeme))
}

// isTypeStart reports whether the parser is positioned at a token
// that begins a type reference: a builtin scalar keyword, or a user
// identifier immediately followed by another identifier (the
// "TypeName varName" declaration shape).
func (p *Parser) isTypeStart() bool {
	cur := p.peek()
	if token.BuiltinTypeNames[cur.TokenType] {
		return true
	}
	return cur.TokenType == token.IDENTIFIER && p.peekNext().TokenType == token.IDENTIFIER
}

// --- statement-level grammar ---

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.checkType(token.STRUCT):
		p.advance()
		return p.structOrUnionDecl(false)
	case p.checkType(token.UNION):
		p.advance()
		return p.structOrUnionDecl(true)
	case p.checkType(token.ENUM):
		p.advance()
		return p.enumDecl()
	case p.checkType(token.TYPEDEF):
		p.advance()
		return p.typedefDecl()
	case p.checkType(token.FUNC):
		p.advance()
		return p.funcDecl()
	case p.checkType(token.LOCAL):
		p.advance()
		return p.varDecl(ast.DeclLocal)
	case p.checkType(token.CONST):
		p.advance()
		return p.varDecl(ast.DeclConst)
	default:
		return p.statement()
	}
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.checkType(token.IF):
		p.advance()
		return p.ifStmt()
	case p.checkType(token.WHILE):
		p.advance()
		return p.whileStmt()
	case p.checkType(token.DO):
		p.advance()
		return p.doWhileStmt()
	case p.checkType(token.FOR):
		p.advance()
		return p.forStmt()
	case p.checkType(token.SWITCH):
		p.advance()
		return p.switchStmt()
	case p.checkType(token.BREAK):
		p.advance()
		if _, err := p.consume(token.SEMICOLON, "expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return ast.BreakStmt{}, nil
	case p.checkType(token.CONTINUE):
		p.advance()
		if _, err := p.consume(token.SEMICOLON, "expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return ast.ContinueStmt{}, nil
	case p.checkType(token.RETURN):
		p.advance()
		return p.returnStmt()
	case p.checkType(token.LCUR):
		p.advance()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: stmts}, nil
	case p.isTypeStart():
		return p.varDecl(ast.DeclNone)
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for !p.checkType(token.RCUR) && !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RCUR, "expected '}' to close block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	thenStmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.isMatch([]token.TokenType{token.ELSE}) {
		elseStmt, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfStmt{Condition: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) doWhileStmt() (ast.Stmt, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.WHILE, "expected 'while' after 'do' body"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after do-while"); err != nil {
		return nil, err
	}
	return ast.DoWhileStmt{Body: body, Condition: cond}, nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}
	var init ast.Stmt
	var err error
	if !p.checkType(token.SEMICOLON) {
		init, err = p.forInit()
		if err != nil {
			return nil, err
		}
	} else {
		p.advance()
	}
	var cond ast.Expression
	if !p.checkType(token.SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}
	var post ast.Expression
	if !p.checkType(token.RPA) {
		post, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after for clauses"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Condition: cond, Post: post, Body: body}, nil
}

// forInit parses a for-loop initializer clause (a typed variable
// declaration or an expression statement) and consumes its trailing
// semicolon.
func (p *Parser) forInit() (ast.Stmt, error) {
	if p.isTypeStart() {
		return p.varDecl(ast.DeclNone)
	}
	return p.expressionStatement()
}

func (p *Parser) switchStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'switch'"); err != nil {
		return nil, err
	}
	discriminant, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after switch expression"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' to open switch body"); err != nil {
		return nil, err
	}
	cases := []ast.CaseClause{}
	for !p.checkType(token.RCUR) && !p.isFinished() {
		var clause ast.CaseClause
		if p.isMatch([]token.TokenType{token.DEFAULT}) {
			clause.IsDefault = true
			if _, err := p.consume(token.COLON, "expected ':' after 'default'"); err != nil {
				return nil, err
			}
		} else {
			if _, err := p.consume(token.CASE, "expected 'case' or 'default'"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			clause.Value = val
			if _, err := p.consume(token.COLON, "expected ':' after case value"); err != nil {
				return nil, err
			}
		}
		for !p.checkType(token.CASE) && !p.checkType(token.DEFAULT) && !p.checkType(token.RCUR) && !p.isFinished() {
			stmt, err := p.declaration()
			if err != nil {
				return nil, err
			}
			clause.Statements = append(clause.Statements, stmt)
		}
		cases = append(cases, clause)
	}
	if _, err := p.consume(token.RCUR, "expected '}' to close switch"); err != nil {
		return nil, err
	}
	return ast.SwitchStmt{Discriminant: discriminant, Cases: cases}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	var value ast.Expression
	if !p.checkType(token.SEMICOLON) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after return statement"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value}, nil
}

// varDecl parses a bitfield, scalar, string, or array template
// variable declaration, or (when flags is non-zero) a local/const
// declaration, sharing the "Type Name [:bits | [size]] [= expr] ;"
// shape.
func (p *Parser) varDecl(flags ast.DeclFlags) (ast.Stmt, error) {
	typ, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENTIFIER, "expected a variable name")
	if err != nil {
		return nil, err
	}

	var bits ast.Expression
	if p.isMatch([]token.TokenType{token.COLON}) {
		bits, err = p.expression()
		if err != nil {
			return nil, err
		}
	} else if p.isMatch([]token.TokenType{token.LBRACK}) {
		size, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBRACK, "expected ']' after array size"); err != nil {
			return nil, err
		}
		typ.IsArray = true
		typ.ArraySize = size
	}

	var initializer ast.Expression
	if p.isMatch([]token.TokenType{token.ASSIGN}) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after declaration"); err != nil {
		return nil, err
	}
	return ast.VarDeclStmt{Type: typ, Name: name, Flags: flags, Bits: bits, Initializer: initializer}, nil
}

// typeRef parses a bare type reference (builtin keyword or user
// identifier) without any array suffix.
func (p *Parser) typeRef() (ast.TypeNode, error) {
	if token.BuiltinTypeNames[p.peek().TokenType] || p.checkType(token.IDENTIFIER) {
		return ast.TypeNode{Name: p.advance()}, nil
	}
	cur := p.peek()
	return ast.TypeNode{}, CreateSyntaxError(cur.Line, cur.Column, "expected a type name")
}

func (p *Parser) structOrUnionDecl(isUnion bool) (ast.Stmt, error) {
	var typeName token.Token
	if p.checkType(token.IDENTIFIER) {
		typeName = p.advance()
	}
	if _, err := p.consume(token.LCUR, "expected '{' after struct/union name"); err != nil {
		return nil, err
	}
	members, err := p.block()
	if err != nil {
		return nil, err
	}

	var varName token.Token
	isArray := false
	var arraySize ast.Expression
	if p.checkType(token.IDENTIFIER) {
		varName = p.advance()
		if p.isMatch([]token.TokenType{token.LBRACK}) {
			isArray = true
			arraySize, err = p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACK, "expected ']' after array size"); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after declaration"); err != nil {
		return nil, err
	}

	if isUnion {
		return ast.UnionDecl{TypeName: typeName, Members: members, VarName: varName, IsArray: isArray, ArraySize: arraySize}, nil
	}
	return ast.StructDecl{TypeName: typeName, Members: members, VarName: varName, IsArray: isArray, ArraySize: arraySize}, nil
}

func (p *Parser) enumDecl() (ast.Stmt, error) {
	underlying := ast.TypeNode{Name: token.CreateToken(token.TYPE_INT, "int", p.peek().Line, p.peek().Column)}
	if p.isMatch([]token.TokenType{token.LESS}) {
		var err error
		underlying, err = p.typeRef()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.LARGER, "expected '>' after enum underlying type"); err != nil {
			return nil, err
		}
	}

	var typeName token.Token
	if p.checkType(token.IDENTIFIER) {
		typeName = p.advance()
	}

	if _, err := p.consume(token.LCUR, "expected '{' to open enum body"); err != nil {
		return nil, err
	}
	members := []ast.EnumMember{}
	for !p.checkType(token.RCUR) && !p.isFinished() {
		name, err := p.consume(token.IDENTIFIER, "expected an enum member name")
		if err != nil {
			return nil, err
		}
		var val ast.Expression
		if p.isMatch([]token.TokenType{token.ASSIGN}) {
			val, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		members = append(members, ast.EnumMember{Name: name, Value: val})
		if !p.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := p.consume(token.RCUR, "expected '}' to close enum body"); err != nil {
		return nil, err
	}

	var varName token.Token
	if p.checkType(token.IDENTIFIER) {
		varName = p.advance()
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after enum declaration"); err != nil {
		return nil, err
	}
	return ast.EnumDecl{TypeName: typeName, UnderlyingType: underlying, Members: members, VarName: varName}, nil
}

func (p *Parser) typedefDecl() (ast.Stmt, error) {
	target, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	if p.isMatch([]token.TokenType{token.LBRACK}) {
		size, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBRACK, "expected ']' after array size"); err != nil {
			return nil, err
		}
		target.IsArray = true
		target.ArraySize = size
	}
	alias, err := p.consume(token.IDENTIFIER, "expected an alias name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after typedef"); err != nil {
		return nil, err
	}
	return ast.TypedefDecl{Target: target, Alias: alias}, nil
}

func (p *Parser) funcDecl() (ast.Stmt, error) {
	retType, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENTIFIER, "expected a function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}
	params := []ast.Param{}
	if !p.checkType(token.RPA) {
		for {
			byRef := p.isMatch([]token.TokenType{token.AMP})
			pType, err := p.typeRef()
			if err != nil {
				return nil, err
			}
			pName, err := p.consume(token.IDENTIFIER, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: pName, Type: pType, ByRef: byRef})
			if !p.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after parameter list"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' to open function body"); err != nil {
		return nil, err
	}
	stmts, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.FuncDecl{Name: name, Params: params, ReturnType: retType, Body: ast.BlockStmt{Statements: stmts}}, nil
}

// --- expression-level grammar ---
//
// assignment -> or -> and -> bitOr -> bitXor -> bitAnd -> equality ->
// comparison -> shift -> term -> factor -> unary -> postfix -> primary

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.isMatch(assignTokenTypes) {
		op := p.previous()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch left.(type) {
		case ast.Variable, ast.Index, ast.Member:
			return ast.Assign{Target: left, Operator: op, Value: right}, nil
		default:
			return nil, CreateSyntaxError(op.Line, op.Column, "invalid assignment target")
		}
	}
	return left, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.OR_OR}) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.bitOr()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.AND_AND}) {
		op := p.previous()
		right, err := p.bitOr()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) bitOr() (ast.Expression, error) {
	expr, err := p.bitXor()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.PIPE}) {
		op := p.previous()
		right, err := p.bitXor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) bitXor() (ast.Expression, error) {
	expr, err := p.bitAnd()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.CARET}) {
		op := p.previous()
		right, err := p.bitAnd()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) bitAnd() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.AMP}) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.isMatch(equalityTokenTypes) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	expr, err := p.shift()
	if err != nil {
		return nil, err
	}
	for p.isMatch(comparisonTokenTypes) {
		op := p.previous()
		right, err := p.shift()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) shift() (ast.Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isMatch(shiftTokenTypes) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.isMatch(termTokenTypes) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isMatch(factorTokenTypes) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

var unaryTokenTypes = []token.TokenType{token.BANG, token.TILDE, token.MINUS, token.INC, token.DEC}

func (p *Parser) unary() (ast.Expression, error) {
	if cast, ok, err := p.tryCast(); ok || err != nil {
		return cast, err
	}
	if p.checkType(token.SIZEOF) {
		return p.sizeofExpr()
	}
	if p.isMatch(unaryTokenTypes) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return p.postfix()
}

// tryCast attempts to parse "(Type)expr" starting at the current
// position, backtracking (returning ok == false) if what follows
// '(' does not look like a type, or what follows the matching ')'
// cannot begin an expression.
func (p *Parser) tryCast() (ast.Expression, bool, error) {
	if !p.checkType(token.LPA) {
		return nil, false, nil
	}
	start := p.position
	p.advance() // consume '('

	looksLikeType := token.BuiltinTypeNames[p.peek().TokenType] ||
		(p.checkType(token.IDENTIFIER) && p.peekNext().TokenType == token.RPA)
	if !looksLikeType {
		p.position = start
		return nil, false, nil
	}

	typ, err := p.typeRef()
	if err != nil {
		p.position = start
		return nil, false, nil
	}
	if p.isMatch([]token.TokenType{token.LBRACK}) {
		size, serr := p.expression()
		if serr != nil {
			p.position = start
			return nil, false, nil
		}
		if !p.checkType(token.RBRACK) {
			p.position = start
			return nil, false, nil
		}
		p.advance()
		typ.IsArray = true
		typ.ArraySize = size
	}
	if !p.checkType(token.RPA) {
		p.position = start
		return nil, false, nil
	}
	p.advance()
	if !primaryStartTokens[p.peek().TokenType] {
		p.position = start
		return nil, false, nil
	}
	inner, err := p.unary()
	if err != nil {
		return nil, true, err
	}
	return ast.Cast{Type: typ, Expression: inner}, true, nil
}

func (p *Parser) sizeofExpr() (ast.Expression, error) {
	p.advance() // consume 'sizeof'
	if _, err := p.consume(token.LPA, "expected '(' after 'sizeof'"); err != nil {
		return nil, err
	}
	if token.BuiltinTypeNames[p.peek().TokenType] {
		typ, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		if p.isMatch([]token.TokenType{token.LBRACK}) {
			size, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACK, "expected ']' after array size"); err != nil {
				return nil, err
			}
			typ.IsArray = true
			typ.ArraySize = size
		}
		if _, err := p.consume(token.RPA, "expected ')' after sizeof type"); err != nil {
			return nil, err
		}
		return ast.Sizeof{Type: &typ}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after sizeof expression"); err != nil {
		return nil, err
	}
	return ast.Sizeof{Expression: expr}, nil
}

func (p *Parser) postfix() (ast.Expression, error) {
	expr, err := p.call()
	if err != nil {
		return nil, err
	}
	for p.isMatch([]token.TokenType{token.INC, token.DEC}) {
		expr = ast.Postfix{Operand: expr, Operator: p.previous()}
	}
	return expr, nil
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isMatch([]token.TokenType{token.LPA}):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.isMatch([]token.TokenType{token.LBRACK}):
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACK, "expected ']' after index"); err != nil {
				return nil, err
			}
			expr = ast.Index{Object: expr, Index: idx}
		case p.isMatch([]token.TokenType{token.DOT}):
			name, err := p.consume(token.IDENTIFIER, "expected a member name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Member{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	v, ok := callee.(ast.Variable)
	if !ok {
		cur := p.previous()
		return nil, CreateSyntaxError(cur.Line, cur.Column, "only a plain name can be called")
	}
	args := []ast.Expression{}
	if !p.checkType(token.RPA) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: v.Name, Arguments: args}, nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.isMatch([]token.TokenType{token.FALSE}):
		return ast.Literal{Value: false}, nil
	case p.isMatch([]token.TokenType{token.TRUE}):
		return ast.Literal{Value: true}, nil
	case p.isMatch([]token.TokenType{token.NULL}):
		return ast.Literal{Value: nil}, nil
	case p.isMatch([]token.TokenType{token.INT, token.FLOAT, token.STRING}):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.isMatch([]token.TokenType{token.IDENTIFIER}):
		return ast.Variable{Name: p.previous()}, nil
	case p.isMatch([]token.TokenType{token.LPA}):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	default:
		cur := p.peek()
		return nil, CreateSyntaxError(cur.Line, cur.Column, "unrecognised expression")
	}
}
