package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"bintpl/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements both AST visitor interfaces and builds a
// JSON-friendly representation of the tree using maps and slices.
type astPrinter struct{}

func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

func nilOrAcceptStmt(stmt ast.Stmt, p ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(p)
}

func acceptAllStmts(stmts []ast.Stmt, p ast.StmtVisitor) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Accept(p))
	}
	return out
}

// --- expressions ---

func (p astPrinter) VisitBinary(e ast.Binary) any {
	return map[string]any{"type": "Binary", "operator": e.Operator.Lexeme, "left": e.Left.Accept(p), "right": e.Right.Accept(p)}
}

func (p astPrinter) VisitUnary(e ast.Unary) any {
	return map[string]any{"type": "Unary", "operator": e.Operator.Lexeme, "right": e.Right.Accept(p)}
}

func (p astPrinter) VisitPostfix(e ast.Postfix) any {
	return map[string]any{"type": "Postfix", "operator": e.Operator.Lexeme, "operand": e.Operand.Accept(p)}
}

func (p astPrinter) VisitLiteral(e ast.Literal) any {
	return map[string]any{"type": "Literal", "value": e.Value}
}

func (p astPrinter) VisitGrouping(e ast.Grouping) any {
	return map[string]any{"type": "Grouping", "expression": e.Expression.Accept(p)}
}

func (p astPrinter) VisitVariable(e ast.Variable) any {
	return map[string]any{"type": "Variable", "name": e.Name.Lexeme}
}

func (p astPrinter) VisitAssign(e ast.Assign) any {
	return map[string]any{"type": "Assign", "operator": e.Operator.Lexeme, "target": e.Target.Accept(p), "value": e.Value.Accept(p)}
}

func (p astPrinter) VisitLogical(e ast.Logical) any {
	return map[string]any{"type": "Logical", "operator": e.Operator.Lexeme, "left": e.Left.Accept(p), "right": e.Right.Accept(p)}
}

func (p astPrinter) VisitIndex(e ast.Index) any {
	return map[string]any{"type": "Index", "object": e.Object.Accept(p), "index": e.Index.Accept(p)}
}

func (p astPrinter) VisitMember(e ast.Member) any {
	return map[string]any{"type": "Member", "object": e.Object.Accept(p), "name": e.Name.Lexeme}
}

func (p astPrinter) VisitCall(e ast.Call) any {
	args := make([]any, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		args = append(args, a.Accept(p))
	}
	return map[string]any{"type": "Call", "callee": e.Callee.Lexeme, "arguments": args}
}

func (p astPrinter) VisitCast(e ast.Cast) any {
	return map[string]any{"type": "Cast", "target": typeNodeJSON(e.Type), "expression": e.Expression.Accept(p)}
}

func (p astPrinter) VisitSizeof(e ast.Sizeof) any {
	m := map[string]any{"type": "Sizeof"}
	if e.Type != nil {
		m["of"] = typeNodeJSON(*e.Type)
	} else {
		m["of"] = e.Expression.Accept(p)
	}
	return m
}

func typeNodeJSON(t ast.TypeNode) map[string]any {
	m := map[string]any{"name": t.Name.Lexeme, "isArray": t.IsArray}
	return m
}

// --- statements ---

func (p astPrinter) VisitExpressionStmt(s ast.ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": s.Expression.Accept(p)}
}

func (p astPrinter) VisitBlockStmt(s ast.BlockStmt) any {
	return map[string]any{"type": "BlockStmt", "statements": acceptAllStmts(s.Statements, p)}
}

func (p astPrinter) VisitVarDeclStmt(s ast.VarDeclStmt) any {
	m := map[string]any{
		"type":        "VarDeclStmt",
		"declType":    typeNodeJSON(s.Type),
		"name":        s.Name.Lexeme,
		"flags":       int(s.Flags),
		"bits":        nilOrAccept(s.Bits, p),
		"initializer": nilOrAccept(s.Initializer, p),
	}
	return m
}

func (p astPrinter) VisitStructDecl(s ast.StructDecl) any {
	return map[string]any{
		"type":      "StructDecl",
		"typeName":  s.TypeName.Lexeme,
		"members":   acceptAllStmts(s.Members, p),
		"varName":   s.VarName.Lexeme,
		"isArray":   s.IsArray,
		"arraySize": nilOrAccept(s.ArraySize, p),
	}
}

func (p astPrinter) VisitUnionDecl(s ast.UnionDecl) any {
	return map[string]any{
		"type":      "UnionDecl",
		"typeName":  s.TypeName.Lexeme,
		"members":   acceptAllStmts(s.Members, p),
		"varName":   s.VarName.Lexeme,
		"isArray":   s.IsArray,
		"arraySize": nilOrAccept(s.ArraySize, p),
	}
}

func (p astPrinter) VisitEnumDecl(s ast.EnumDecl) any {
	members := make([]any, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, map[string]any{"name": m.Name.Lexeme, "value": nilOrAccept(m.Value, p)})
	}
	return map[string]any{
		"type":       "EnumDecl",
		"typeName":   s.TypeName.Lexeme,
		"underlying": typeNodeJSON(s.UnderlyingType),
		"members":    members,
		"varName":    s.VarName.Lexeme,
	}
}

func (p astPrinter) VisitTypedefDecl(s ast.TypedefDecl) any {
	return map[string]any{"type": "TypedefDecl", "target": typeNodeJSON(s.Target), "alias": s.Alias.Lexeme}
}

func (p astPrinter) VisitFuncDecl(s ast.FuncDecl) any {
	params := make([]any, 0, len(s.Params))
	for _, prm := range s.Params {
		params = append(params, map[string]any{"name": prm.Name.Lexeme, "type": typeNodeJSON(prm.Type), "byRef": prm.ByRef})
	}
	return map[string]any{
		"type":       "FuncDecl",
		"name":       s.Name.Lexeme,
		"returnType": typeNodeJSON(s.ReturnType),
		"params":     params,
		"body":       s.Body.Accept(p),
	}
}

func (p astPrinter) VisitIfStmt(s ast.IfStmt) any {
	return map[string]any{
		"type":      "IfStmt",
		"condition": s.Condition.Accept(p),
		"then":      s.Then.Accept(p),
		"else":      nilOrAcceptStmt(s.Else, p),
	}
}

func (p astPrinter) VisitWhileStmt(s ast.WhileStmt) any {
	return map[string]any{"type": "WhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p astPrinter) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	return map[string]any{"type": "DoWhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p astPrinter) VisitForStmt(s ast.ForStmt) any {
	return map[string]any{
		"type":      "ForStmt",
		"init":      nilOrAcceptStmt(s.Init, p),
		"condition": nilOrAccept(s.Condition, p),
		"post":      nilOrAccept(s.Post, p),
		"body":      s.Body.Accept(p),
	}
}

func (p astPrinter) VisitSwitchStmt(s ast.SwitchStmt) any {
	cases := make([]any, 0, len(s.Cases))
	for _, c := range s.Cases {
		cases = append(cases, map[string]any{
			"value":      nilOrAccept(c.Value, p),
			"isDefault":  c.IsDefault,
			"statements": acceptAllStmts(c.Statements, p),
		})
	}
	return map[string]any{"type": "SwitchStmt", "discriminant": s.Discriminant.Accept(p), "cases": cases}
}

func (p astPrinter) VisitBreakStmt(ast.BreakStmt) any       { return map[string]any{"type": "BreakStmt"} }
func (p astPrinter) VisitContinueStmt(ast.ContinueStmt) any { return map[string]any{"type": "ContinueStmt"} }

func (p astPrinter) VisitReturnStmt(s ast.ReturnStmt) any {
	return map[string]any{"type": "ReturnStmt", "value": nilOrAccept(s.Value, p)}
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := acceptAllStmts(statements, printer)
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	data, err := json.MarshalIndent(acceptAllStmts(statements, astPrinter{}), "", "  ")
	if err != nil {
		return err
	}
	s := string(data)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer f.Close()
	if _, err := f.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}

// Print prints the AST as prettified JSON to standard output.
func (p *Parser) Print(statements []ast.Stmt) {
	if _, err := PrintASTJSON(statements); err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided statements to a .json file.
func (p *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteASTJSONToFile(statements, path)
}
