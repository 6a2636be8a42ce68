package interpreter

import "bintpl/ast"

// structTemplate is the stored shape of a struct or union declaration,
// looked up by type name when a later variable is declared with that
// type (e.g. "struct Header h;" followed elsewhere by "Header h2;").
type structTemplate struct {
	isUnion bool
	members []ast.Stmt
}

// enumTemplate is the stored shape of an enum declaration. resolvedValues
// is precomputed when the enum is declared, so instantiating a variable
// of this type never has to re-evaluate a member's value expression.
type enumTemplate struct {
	underlying     ast.TypeNode
	members        []ast.EnumMember
	resolvedValues []int64
}

// typedefTarget is the stored shape of a typedef declaration.
type typedefTarget struct {
	target ast.TypeNode
}
