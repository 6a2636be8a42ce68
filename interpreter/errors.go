package interpreter

import "fmt"

// DeclarationError reports an unknown identifier, a duplicate
// declaration, or shadowing within a scope (spec §7).
type DeclarationError struct {
	Line    int32
	Column  int
	Message string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("💥 declaration error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// TypeErr reports incompatible operands, a bad cast, or a wrong
// host-function argument kind.
type TypeErr struct {
	Line    int32
	Column  int
	Message string
}

func (e *TypeErr) Error() string {
	return fmt.Sprintf("💥 type error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ArgumentError reports an arity mismatch at a function or host call.
type ArgumentError struct {
	Line    int32
	Column  int
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("💥 argument error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// IndexErr reports a negative or non-integer array/string index, or a
// negative or non-integer array size.
type IndexErr struct {
	Line    int32
	Column  int
	Message string
}

func (e *IndexErr) Error() string {
	return fmt.Sprintf("💥 index error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// InternalError reports an unreachable AST node kind or other
// programming-error condition in the interpreter itself.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "💥 internal error: " + e.Message
}
