package ast

import "bintpl/token"

// DeclFlags marks a variable declaration as a template read (None), or
// as Local/Const (no file I/O; value comes from Initializer).
type DeclFlags int

const (
	DeclNone DeclFlags = iota
	DeclLocal
	DeclConst
)

// ExpressionStmt evaluates an expression and discards the result,
// e.g. a bare function call statement or a standalone assignment.
type ExpressionStmt struct {
	Expression Expression
}

func (s ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpressionStmt(s) }

// BlockStmt is a "{ ... }" sequence of statements executed in a new
// lexical scope.
type BlockStmt struct {
	Statements []Stmt
}

func (s BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlockStmt(s) }

// VarDeclStmt declares one variable: a template variable that reads
// from the binary source (Flags == DeclNone), or a local/const that
// is only ever assigned from Initializer.
type VarDeclStmt struct {
	Type        TypeNode
	Name        token.Token
	Flags       DeclFlags
	Bits        Expression // non-nil for a bitfield member ("name:3")
	Initializer Expression
}

func (s VarDeclStmt) Accept(v StmtVisitor) any { return v.VisitVarDeclStmt(s) }

// StructDecl declares a struct type and, when VarName is set,
// a variable of that type at the declaration site (the common
// "struct S { ... } s;" template form folds the member list and the
// variable declaration into one node; Members is the body, VarName
// names the instance).
type StructDecl struct {
	TypeName  token.Token
	Members   []Stmt
	VarName   token.Token // zero value when this is a bare type declaration
	IsArray   bool
	ArraySize Expression
}

func (s StructDecl) Accept(v StmtVisitor) any { return v.VisitStructDecl(s) }

// UnionDecl is the union counterpart of StructDecl: every member reads
// from the same starting file offset.
type UnionDecl struct {
	TypeName  token.Token
	Members   []Stmt
	VarName   token.Token
	IsArray   bool
	ArraySize Expression
}

func (s UnionDecl) Accept(v StmtVisitor) any { return v.VisitUnionDecl(s) }

// EnumDecl declares an enum type over an underlying scalar type and,
// optionally, a variable of that type (as with StructDecl/UnionDecl).
type EnumDecl struct {
	TypeName       token.Token
	UnderlyingType TypeNode
	Members        []EnumMember
	VarName        token.Token
}

func (s EnumDecl) Accept(v StmtVisitor) any { return v.VisitEnumDecl(s) }

// TypedefDecl declares Alias as another name for Target.
type TypedefDecl struct {
	Target TypeNode
	Alias  token.Token
}

func (s TypedefDecl) Accept(v StmtVisitor) any { return v.VisitTypedefDecl(s) }

// FuncDecl declares a user function.
type FuncDecl struct {
	Name       token.Token
	Params     []Param
	ReturnType TypeNode
	Body       BlockStmt
}

func (s FuncDecl) Accept(v StmtVisitor) any { return v.VisitFuncDecl(s) }

// IfStmt is "if (cond) then [else else]".
type IfStmt struct {
	Condition Expression
	Then      Stmt
	Else      Stmt
}

func (s IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(s) }

// WhileStmt is "while (cond) body".
type WhileStmt struct {
	Condition Expression
	Body      Stmt
}

func (s WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhileStmt(s) }

// DoWhileStmt is "do body while (cond);".
type DoWhileStmt struct {
	Body      Stmt
	Condition Expression
}

func (s DoWhileStmt) Accept(v StmtVisitor) any { return v.VisitDoWhileStmt(s) }

// ForStmt is "for (init; cond; post) body"; Init may be a VarDeclStmt
// or an ExpressionStmt, Post an Expression evaluated for effect.
type ForStmt struct {
	Init      Stmt
	Condition Expression
	Post      Expression
	Body      Stmt
}

func (s ForStmt) Accept(v StmtVisitor) any { return v.VisitForStmt(s) }

// SwitchStmt is a C-style switch with fallthrough between cases.
type SwitchStmt struct {
	Discriminant Expression
	Cases        []CaseClause
}

func (s SwitchStmt) Accept(v StmtVisitor) any { return v.VisitSwitchStmt(s) }

// BreakStmt exits the nearest enclosing loop or switch.
type BreakStmt struct{}

func (s BreakStmt) Accept(v StmtVisitor) any { return v.VisitBreakStmt(s) }

// ContinueStmt skips to the next iteration of the nearest enclosing loop.
type ContinueStmt struct{}

func (s ContinueStmt) Accept(v StmtVisitor) any { return v.VisitContinueStmt(s) }

// ReturnStmt exits the current function, optionally with a value.
type ReturnStmt struct {
	Value Expression
}

func (s ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(s) }
