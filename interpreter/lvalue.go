package interpreter

import (
	"bintpl/ast"
	"bintpl/value"
)

// resolveLValue evaluates expr as an assignable location, returning
// the live *value.Value backing it (a Variable's binding, an Index
// result, or a Member lookup) rather than a copy.
func (i *Interpreter) resolveLValue(expr ast.Expression) (*value.Value, error) {
	switch e := expr.(type) {
	case ast.Variable:
		if v, ok := i.Decls.Lookup(e.Name.Lexeme); ok {
			return v, nil
		}
		if v, ok := i.scope().Lookup(e.Name.Lexeme); ok {
			return v, nil
		}
		return nil, &DeclarationError{Line: e.Name.Line, Column: e.Name.Column, Message: "undefined variable " + e.Name.Lexeme}
	case ast.Index:
		obj := i.evaluate(e.Object)
		if i.State != StateNone {
			return nil, i.Err
		}
		idx := i.evaluate(e.Index)
		if i.State != StateNone {
			return nil, i.Err
		}
		if !idx.IsInteger() {
			return nil, &IndexErr{Message: "index must be an integer"}
		}
		return obj.IndexAt(idx.Int64())
	case ast.Member:
		obj := i.evaluate(e.Object)
		if i.State != StateNone {
			return nil, i.Err
		}
		m, ok := obj.Member(e.Name.Lexeme)
		if !ok {
			return nil, &DeclarationError{Line: e.Name.Line, Column: e.Name.Column, Message: "no member " + e.Name.Lexeme}
		}
		return m, nil
	case ast.Grouping:
		return i.resolveLValue(e.Expression)
	default:
		return nil, &TypeErr{Message: "expression is not assignable"}
	}
}
