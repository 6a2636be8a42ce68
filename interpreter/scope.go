package interpreter

import "bintpl/value"

// typeDecl is whatever the interpreter needs later to resolve an
// identifier used as a type: the underlying scalar TypeNode for a
// typedef, or a compound template to instantiate for struct/union/
// enum names.
type typeDecl struct {
	structDecl *structTemplate
	enumDecl   *enumTemplate
	typedef    *typedefTarget
}

// Scope binds variable names to Values and type names to their
// declarations, per spec §4.3. The interpreter keeps one global Scope
// plus a stack of nested ones; lookup walks innermost to outermost.
type Scope struct {
	variables    map[string]*value.Value
	declarations map[string]typeDecl
	parent       *Scope
}

// NewScope creates a Scope nested under parent (nil for the global
// scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{
		variables:    make(map[string]*value.Value),
		declarations: make(map[string]typeDecl),
		parent:       parent,
	}
}

// Declare binds name to v in this scope only. Returns false if name is
// already bound in this exact scope (redeclaration, spec §8 property
// 6), the caller is expected to turn that into a DeclarationError.
func (s *Scope) Declare(name string, v *value.Value) bool {
	if _, exists := s.variables[name]; exists {
		return false
	}
	s.variables[name] = v
	return true
}

// Lookup walks from this scope outward to the global scope.
func (s *Scope) Lookup(name string) (*value.Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// DeclareType binds a type name (struct/union/enum/typedef) in this
// scope.
func (s *Scope) DeclareType(name string, d typeDecl) {
	s.declarations[name] = d
}

// LookupType walks from this scope outward looking for a type name.
func (s *Scope) LookupType(name string) (typeDecl, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if d, ok := sc.declarations[name]; ok {
			return d, true
		}
	}
	return typeDecl{}, false
}
