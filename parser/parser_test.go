package parser

import (
	"testing"

	"bintpl/ast"
	"bintpl/lexer"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestParseScalarDeclaration(t *testing.T) {
	stmts := parse(t, "uint32 magic;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	decl, ok := stmts[0].(ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", stmts[0])
	}
	if decl.Name.Lexeme != "magic" {
		t.Errorf("name = %q, want magic", decl.Name.Lexeme)
	}
	if decl.Type.IsArray {
		t.Errorf("expected non-array type")
	}
}

func TestParseArrayDeclaration(t *testing.T) {
	stmts := parse(t, "uint8 data[16];")
	decl := stmts[0].(ast.VarDeclStmt)
	if !decl.Type.IsArray {
		t.Fatalf("expected array declaration")
	}
	lit, ok := decl.Type.ArraySize.(ast.Literal)
	if !ok || lit.Value.(int64) != 16 {
		t.Errorf("array size = %v, want literal 16", decl.Type.ArraySize)
	}
}

func TestParseBitfieldDeclaration(t *testing.T) {
	stmts := parse(t, "struct F { uint a:3; uint b:5; uint c:8; };")
	s := stmts[0].(ast.StructDecl)
	if len(s.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(s.Members))
	}
	a := s.Members[0].(ast.VarDeclStmt)
	if a.Bits == nil {
		t.Fatalf("expected bitfield expression on member a")
	}
}

func TestParseStructWithInstance(t *testing.T) {
	stmts := parse(t, "struct Header { uint32 magic; uint16 version; } hdr;")
	s := stmts[0].(ast.StructDecl)
	if s.TypeName.Lexeme != "Header" {
		t.Errorf("typeName = %q, want Header", s.TypeName.Lexeme)
	}
	if s.VarName.Lexeme != "hdr" {
		t.Errorf("varName = %q, want hdr", s.VarName.Lexeme)
	}
	if len(s.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(s.Members))
	}
}

func TestParseStructInstanceArray(t *testing.T) {
	stmts := parse(t, "struct Entry { uint32 id; } entries[4];")
	s := stmts[0].(ast.StructDecl)
	if !s.IsArray {
		t.Fatalf("expected array instance")
	}
}

func TestParseUnion(t *testing.T) {
	stmts := parse(t, "union U { uint32 asInt; float asFloat; } u;")
	u := stmts[0].(ast.UnionDecl)
	if len(u.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(u.Members))
	}
}

func TestParseEnumWithExplicitValues(t *testing.T) {
	stmts := parse(t, "enum <uint32> Kind { A, B = 5, C } k;")
	e := stmts[0].(ast.EnumDecl)
	if e.UnderlyingType.Name.Lexeme != "uint32" {
		t.Errorf("underlying = %q, want uint32", e.UnderlyingType.Name.Lexeme)
	}
	if len(e.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(e.Members))
	}
	if e.Members[1].Value == nil {
		t.Errorf("expected explicit value for B")
	}
	if e.VarName.Lexeme != "k" {
		t.Errorf("varName = %q, want k", e.VarName.Lexeme)
	}
}

func TestParseTypedef(t *testing.T) {
	stmts := parse(t, "typedef uint32 DWORD;")
	td := stmts[0].(ast.TypedefDecl)
	if td.Alias.Lexeme != "DWORD" {
		t.Errorf("alias = %q, want DWORD", td.Alias.Lexeme)
	}
}

func TestParseLocalAndConst(t *testing.T) {
	stmts := parse(t, "local int total = 0; const int limit = 10;")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	local := stmts[0].(ast.VarDeclStmt)
	if local.Flags != ast.DeclLocal {
		t.Errorf("flags = %v, want DeclLocal", local.Flags)
	}
	constDecl := stmts[1].(ast.VarDeclStmt)
	if constDecl.Flags != ast.DeclConst {
		t.Errorf("flags = %v, want DeclConst", constDecl.Flags)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := parse(t, "fn int Add(int a, int b) { return a + b; }")
	fn := stmts[0].(ast.FuncDecl)
	if fn.Name.Lexeme != "Add" {
		t.Errorf("name = %q, want Add", fn.Name.Lexeme)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
}

func TestParseByRefParam(t *testing.T) {
	stmts := parse(t, "fn void Fill(&int out) { out = 1; }")
	fn := stmts[0].(ast.FuncDecl)
	if !fn.Params[0].ByRef {
		t.Errorf("expected by-reference parameter")
	}
}

func TestParseIfElse(t *testing.T) {
	stmts := parse(t, "if (1 == 1) { x = 1; } else { x = 2; }")
	ifStmt := stmts[0].(ast.IfStmt)
	if ifStmt.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseWhileAndDoWhile(t *testing.T) {
	stmts := parse(t, "while (x < 10) { x = x + 1; } do { x = x - 1; } while (x > 0);")
	if _, ok := stmts[0].(ast.WhileStmt); !ok {
		t.Errorf("expected WhileStmt, got %T", stmts[0])
	}
	if _, ok := stmts[1].(ast.DoWhileStmt); !ok {
		t.Errorf("expected DoWhileStmt, got %T", stmts[1])
	}
}

func TestParseForLoop(t *testing.T) {
	stmts := parse(t, "for (int i = 0; i < 10; i++) { x = x + i; }")
	f := stmts[0].(ast.ForStmt)
	if f.Init == nil || f.Condition == nil || f.Post == nil {
		t.Fatalf("expected all three for-clauses populated")
	}
}

func TestParseSwitchWithFallthrough(t *testing.T) {
	stmts := parse(t, "switch (x) { case 1: y = 1; break; case 2: case 3: y = 2; break; default: y = 0; }")
	sw := stmts[0].(ast.SwitchStmt)
	if len(sw.Cases) != 4 {
		t.Fatalf("expected 4 case clauses, got %d", len(sw.Cases))
	}
	if len(sw.Cases[1].Statements) != 0 {
		t.Errorf("expected case 2 to fall through with no statements of its own")
	}
	if !sw.Cases[3].IsDefault {
		t.Errorf("expected last clause to be default")
	}
}

func TestParseBreakContinue(t *testing.T) {
	stmts := parse(t, "while (1) { break; continue; }")
	body := stmts[0].(ast.WhileStmt).Body.(ast.BlockStmt)
	if _, ok := body.Statements[0].(ast.BreakStmt); !ok {
		t.Errorf("expected BreakStmt")
	}
	if _, ok := body.Statements[1].(ast.ContinueStmt); !ok {
		t.Errorf("expected ContinueStmt")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	stmts := parse(t, "x = 1 + 2 * 3;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	bin := assign.Value.(ast.Binary)
	if bin.Operator.Lexeme != "+" {
		t.Fatalf("expected top-level '+' operator, got %q", bin.Operator.Lexeme)
	}
	if _, ok := bin.Right.(ast.Binary); !ok {
		t.Errorf("expected right operand to be the nested multiplication")
	}
}

func TestParseBitwiseAndShiftPrecedence(t *testing.T) {
	stmts := parse(t, "x = 1 | 2 & 3 << 4;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	or := assign.Value.(ast.Binary)
	if or.Operator.Lexeme != "|" {
		t.Fatalf("expected top-level '|', got %q", or.Operator.Lexeme)
	}
	and := or.Right.(ast.Binary)
	if and.Operator.Lexeme != "&" {
		t.Fatalf("expected '&' nested under '|', got %q", and.Operator.Lexeme)
	}
	if shiftExpr, ok := and.Right.(ast.Binary); !ok || shiftExpr.Operator.Lexeme != "<<" {
		t.Errorf("expected '<<' nested under '&'")
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	stmts := parse(t, "x += 1;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	if assign.Operator.Lexeme != "+=" {
		t.Errorf("operator = %q, want +=", assign.Operator.Lexeme)
	}
}

func TestParseIndexAndMemberChain(t *testing.T) {
	stmts := parse(t, "y = items[0].name;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	member := assign.Value.(ast.Member)
	if member.Name.Lexeme != "name" {
		t.Errorf("member = %q, want name", member.Name.Lexeme)
	}
	if _, ok := member.Object.(ast.Index); !ok {
		t.Errorf("expected member's object to be an index expression")
	}
}

func TestParseFunctionCall(t *testing.T) {
	stmts := parse(t, "Printf(\"%d\", x);")
	call := stmts[0].(ast.ExpressionStmt).Expression.(ast.Call)
	if call.Callee.Lexeme != "Printf" {
		t.Errorf("callee = %q, want Printf", call.Callee.Lexeme)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestParseBuiltinCast(t *testing.T) {
	stmts := parse(t, "y = (uint32)x;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	cast, ok := assign.Value.(ast.Cast)
	if !ok {
		t.Fatalf("expected Cast, got %T", assign.Value)
	}
	if cast.Type.Name.Lexeme != "uint32" {
		t.Errorf("cast target = %q, want uint32", cast.Type.Name.Lexeme)
	}
}

func TestParseUserTypeCast(t *testing.T) {
	stmts := parse(t, "y = (Header)x;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	if _, ok := assign.Value.(ast.Cast); !ok {
		t.Fatalf("expected Cast, got %T", assign.Value)
	}
}

func TestParseGroupingIsNotMistakenForCast(t *testing.T) {
	stmts := parse(t, "y = (a + b) * 2;")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	bin, ok := assign.Value.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary, got %T", assign.Value)
	}
	if _, ok := bin.Left.(ast.Grouping); !ok {
		t.Errorf("expected left operand to be a parenthesized grouping")
	}
}

func TestParseSizeofType(t *testing.T) {
	stmts := parse(t, "y = sizeof(uint32);")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	sz := assign.Value.(ast.Sizeof)
	if sz.Type == nil || sz.Type.Name.Lexeme != "uint32" {
		t.Fatalf("expected sizeof(uint32) to parse as a type reference")
	}
}

func TestParseSizeofExpression(t *testing.T) {
	stmts := parse(t, "y = sizeof(x);")
	assign := stmts[0].(ast.ExpressionStmt).Expression.(ast.Assign)
	sz := assign.Value.(ast.Sizeof)
	if sz.Type != nil {
		t.Fatalf("expected sizeof(x) to parse as an expression, not a type")
	}
	if _, ok := sz.Expression.(ast.Variable); !ok {
		t.Errorf("expected sizeof expression operand to be a Variable")
	}
}

func TestParsePrefixAndPostfixIncrement(t *testing.T) {
	stmts := parse(t, "x++; ++x;")
	post := stmts[0].(ast.ExpressionStmt).Expression.(ast.Postfix)
	if post.Operator.TokenType != "++" {
		t.Errorf("expected postfix ++")
	}
	pre := stmts[1].(ast.ExpressionStmt).Expression.(ast.Unary)
	if pre.Operator.TokenType != "++" {
		t.Errorf("expected prefix ++")
	}
}

func TestParseMissingSemicolonIsSyntaxError(t *testing.T) {
	toks, err := lexer.New("uint32 magic").Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, perr := New(toks).Parse()
	if perr == nil {
		t.Fatalf("expected a syntax error for a missing ';'")
	}
	if _, ok := perr.(SyntaxError); !ok {
		t.Fatalf("expected SyntaxError, got %T", perr)
	}
}

func TestPrintASTJSONProducesOutput(t *testing.T) {
	stmts := parse(t, "uint32 magic;")
	out, err := PrintASTJSON(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatalf("expected non-empty JSON output")
	}
}
