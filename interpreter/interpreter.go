// Package interpreter implements the tree-walking evaluator: it walks
// an ast.Stmt list, allocating Values for template variables, driving
// a reader.BinaryReader, and maintaining the scope and declaration
// stacks spec §4.3/§4.4 describe.
//
// Where the teacher interpreter reports failures by panicking with a
// RuntimeError and recovering at the call boundary, this one threads
// an explicit State through every visitor method: a failing operation
// calls fail(err), which records the error and sets State to
// StateError, and every compound evaluation checks State after each
// sub-step and stops early instead of relying on a deferred recover.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"bintpl/ast"
	"bintpl/lexer"
	"bintpl/parser"
	"bintpl/reader"
	"bintpl/value"
)

// State is the interpreter's control-flow state machine (spec §4.8).
type State int

const (
	StateNone State = iota
	StateError
	StateBreak
	StateContinue
	StateReturn
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateError:
		return "Error"
	case StateBreak:
		return "Break"
	case StateContinue:
		return "Continue"
	case StateReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// HostFunc is the calling convention for a built-in function (spec
// §4.6): it inspects the call node's arguments, evaluates them itself
// (so it controls evaluation order and can resolve an argument without
// evaluating it, as SetBackColor/SetForeColor do for a color name), and
// returns a Value or drives the interpreter into StateError.
type HostFunc func(i *Interpreter, call ast.Call) *value.Value

// Interpreter is the single evaluator instance described by spec §5:
// it owns the AST it is given, the Scope stack, the DeclarationStack,
// the allocation list, and the BinaryReader.
type Interpreter struct {
	Reader *reader.BinaryReader
	Output io.Writer

	Global *Scope
	scopes []*Scope
	Decls  DeclarationStack

	Allocations []*value.Value

	State State
	Err   error

	ReturnValue *value.Value

	// lastDeclared is the most recently declared variable (template,
	// local or const),
	// the target of SetForeColor/SetBackColor (spec §4.6): in 010-
	// style templates those calls color the field that was just read,
	// not an arbitrary file offset.
	lastDeclared *value.Value

	functions map[string]ast.FuncDecl
	hostFuncs map[string]HostFunc

	// noIO is true while building a compound Value that must not touch
	// the reader: local/const declarations, and any nested compound
	// built while instantiating one (spec §4.4's local/const rule).
	noIO bool
}

// New constructs an Interpreter reading from src, writing Printf/
// Warning output to out.
func New(src reader.Source, out io.Writer) (*Interpreter, error) {
	r, err := reader.New(src)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	i := &Interpreter{
		Reader:    r,
		Output:    out,
		Global:    NewScope(nil),
		functions: make(map[string]ast.FuncDecl),
	}
	i.hostFuncs = defaultHostFuncs()
	return i, nil
}

// Evaluate parses source and runs it to completion or to the first
// error (spec §6).
func (i *Interpreter) Evaluate(source string) error {
	toks, err := lexer.New(source).Scan()
	if err != nil {
		i.State = StateError
		i.Err = err
		return err
	}
	stmts, err := parser.New(toks).Parse()
	if err != nil {
		i.State = StateError
		i.Err = err
		return err
	}
	i.executeStatements(stmts)
	if i.State == StateError {
		return i.Err
	}
	return nil
}

func (i *Interpreter) scope() *Scope {
	if len(i.scopes) > 0 {
		return i.scopes[len(i.scopes)-1]
	}
	return i.Global
}

func (i *Interpreter) pushScope() { i.scopes = append(i.scopes, NewScope(i.scope())) }

func (i *Interpreter) popScope() {
	if len(i.scopes) > 0 {
		i.scopes = i.scopes[:len(i.scopes)-1]
	}
}

// fail records err, transitions to StateError, and returns nil so
// call sites can `return i.fail(err)` from a visitor method.
func (i *Interpreter) fail(err error) any {
	i.Err = err
	i.State = StateError
	return nil
}

func (i *Interpreter) executeStatements(stmts []ast.Stmt) {
	for _, s := range stmts {
		s.Accept(i)
		if i.State != StateNone {
			return
		}
	}
}

// evaluate evaluates an expression, short-circuiting if the
// interpreter is already in a non-None state.
func (i *Interpreter) evaluate(e ast.Expression) *value.Value {
	if i.State != StateNone {
		return nil
	}
	result := e.Accept(i)
	v, _ := result.(*value.Value)
	return v
}

// declareVariable binds name in the current scope and, per spec
// §4.4, either appends v to the in-progress compound (if one is being
// built) or, for a template variable (neither local nor const),
// pushes it onto the top-level allocation list.
func (i *Interpreter) declareVariable(name string, v *value.Value) {
	v.ID = name
	if !i.scope().Declare(name, v) {
		i.fail(&DeclarationError{Message: "redeclaration of " + name})
		return
	}
	if compound := i.Decls.Current(); compound != nil {
		compound.Members = append(compound.Members, v)
	} else if v.IsTemplate() {
		i.Allocations = append(i.Allocations, v)
	}
	i.lastDeclared = v
}

// --- control-flow statements ---

func (i *Interpreter) VisitBlockStmt(s ast.BlockStmt) any {
	i.pushScope()
	i.executeStatements(s.Statements)
	i.popScope()
	return nil
}

func (i *Interpreter) VisitExpressionStmt(s ast.ExpressionStmt) any {
	i.evaluate(s.Expression)
	return nil
}

func (i *Interpreter) VisitIfStmt(s ast.IfStmt) any {
	cond := i.evaluate(s.Condition)
	if i.State != StateNone {
		return nil
	}
	if cond.IsTruthy() {
		s.Then.Accept(i)
	} else if s.Else != nil {
		s.Else.Accept(i)
	}
	return nil
}

func (i *Interpreter) VisitWhileStmt(s ast.WhileStmt) any {
	for {
		cond := i.evaluate(s.Condition)
		if i.State != StateNone {
			return nil
		}
		if !cond.IsTruthy() {
			return nil
		}
		s.Body.Accept(i)
		if !i.consumeLoopSignal() {
			return nil
		}
	}
}

func (i *Interpreter) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	for {
		s.Body.Accept(i)
		if !i.consumeLoopSignal() {
			return nil
		}
		cond := i.evaluate(s.Condition)
		if i.State != StateNone {
			return nil
		}
		if !cond.IsTruthy() {
			return nil
		}
	}
}

func (i *Interpreter) VisitForStmt(s ast.ForStmt) any {
	i.pushScope()
	defer i.popScope()
	if s.Init != nil {
		s.Init.Accept(i)
		if i.State != StateNone {
			return nil
		}
	}
	for {
		if s.Condition != nil {
			cond := i.evaluate(s.Condition)
			if i.State != StateNone {
				return nil
			}
			if !cond.IsTruthy() {
				return nil
			}
		}
		s.Body.Accept(i)
		if !i.consumeLoopSignal() {
			return nil
		}
		if s.Post != nil {
			i.evaluate(s.Post)
			if i.State != StateNone {
				return nil
			}
		}
	}
}

// consumeLoopSignal implements the Break/Continue consumption rule of
// spec §4.8: Break stops the loop, Continue moves to the next
// iteration, Error/Return propagate unconsumed.
func (i *Interpreter) consumeLoopSignal() bool {
	switch i.State {
	case StateBreak:
		i.State = StateNone
		return false
	case StateContinue:
		i.State = StateNone
		return true
	case StateNone:
		return true
	default: // Error, Return
		return false
	}
}

func (i *Interpreter) VisitSwitchStmt(s ast.SwitchStmt) any {
	discriminant := i.evaluate(s.Discriminant)
	if i.State != StateNone {
		return nil
	}
	start := -1
	defaultIdx := -1
	for idx, c := range s.Cases {
		if c.IsDefault {
			defaultIdx = idx
			continue
		}
		cv := i.evaluate(c.Value)
		if i.State != StateNone {
			return nil
		}
		if value.Equal(discriminant, cv) {
			start = idx
			break
		}
	}
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return nil
	}
	i.pushScope()
	for idx := start; idx < len(s.Cases); idx++ {
		i.executeStatements(s.Cases[idx].Statements)
		if i.State == StateBreak {
			i.State = StateNone
			break
		}
		if i.State != StateNone {
			break
		}
	}
	i.popScope()
	return nil
}

func (i *Interpreter) VisitBreakStmt(ast.BreakStmt) any       { i.State = StateBreak; return nil }
func (i *Interpreter) VisitContinueStmt(ast.ContinueStmt) any { i.State = StateContinue; return nil }

func (i *Interpreter) VisitReturnStmt(s ast.ReturnStmt) any {
	if s.Value != nil {
		i.ReturnValue = i.evaluate(s.Value)
		if i.State != StateNone {
			return nil
		}
	} else {
		i.ReturnValue = nil
	}
	i.State = StateReturn
	return nil
}

func (i *Interpreter) VisitFuncDecl(s ast.FuncDecl) any {
	i.functions[s.Name.Lexeme] = s
	return nil
}

// callUserFunction implements spec §4.4's function-call rule for a
// resolved NFunction: arity check, by-value/by-reference argument
// binding, a fresh scope, and state reset after return.
func (i *Interpreter) callUserFunction(fn ast.FuncDecl, call ast.Call) *value.Value {
	if len(call.Arguments) != len(fn.Params) {
		i.fail(&ArgumentError{Line: call.Callee.Line, Column: call.Callee.Column,
			Message: fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name.Lexeme, len(fn.Params), len(call.Arguments))})
		return nil
	}
	args := make([]*value.Value, len(call.Arguments))
	for idx, a := range call.Arguments {
		av := i.evaluate(a)
		if i.State != StateNone {
			return nil
		}
		args[idx] = av
	}

	i.pushScope()
	for idx, p := range fn.Params {
		var bound *value.Value
		if p.ByRef {
			bound = args[idx]
		} else {
			target, err := i.instantiateType(p.Type, false)
			if err != nil {
				i.popScope()
				i.fail(err)
				return nil
			}
			target.Assign(args[idx])
			bound = target
		}
		i.scope().Declare(p.Name.Lexeme, bound)
	}

	i.executeStatements(fn.Body.Statements)
	i.popScope()

	var result *value.Value
	if i.State == StateReturn {
		result = i.ReturnValue
		i.ReturnValue = nil
		i.State = StateNone
	} else if i.State != StateError {
		i.State = StateNone
	}
	return result
}
