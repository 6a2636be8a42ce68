package parser

import "fmt"

// SyntaxError is returned by the parser when the token stream does not
// match the template grammar.
type SyntaxError struct {
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(line int32, column int, message string) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 Syntax error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
