package runtime

import (
	"blang/internal/ast"
	"blang/internal/token"
	"fmt"
	"io"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone   ExecSignal = iota
	SigReturn            // unwind to the nearest call boundary
)

// ExecResult carries a control flow signal and, for SigReturn, the value.
type ExecResult struct {
	Signal ExecSignal
	Value  Value
}

var resultNone = ExecResult{Signal: SigNone}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it. All state (scope stack and
// function table) belongs to one Interpreter; separate instances share
// nothing.
type Interpreter struct {
	env       *Environment
	functions map[string]*ast.FuncDecl
	out       printer
}

// NewInterpreter creates an interpreter with an empty global scope and no
// functions. print_out writes to output.
func NewInterpreter(output io.Writer) *Interpreter {
	return &Interpreter{
		env:       NewEnvironment(),
		functions: make(map[string]*ast.FuncDecl),
		out:       printer{w: output},
	}
}

// Run executes the statements of file in order and stops at the first
// error. A return reaching the top level ends the program without error.
func (i *Interpreter) Run(file *ast.File) error {
	for _, stmt := range file.Body {
		result, err := i.execStmt(stmt)
		if err != nil {
			return err
		}
		if result.Signal == SigReturn {
			return nil
		}
	}
	return nil
}

// Env returns the scope stack (useful for the REPL and tests).
func (i *Interpreter) Env() *Environment {
	return i.env
}

// Depth returns the current scope-stack depth; 1 means only the global scope.
func (i *Interpreter) Depth() int {
	return i.env.Depth()
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) (ExecResult, error) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		return i.execDecl(s)

	case *ast.ReassignStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return resultNone, err
		}
		i.env.Set(s.Name, val)
		return resultNone, nil

	case *ast.PrintStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return resultNone, err
		}
		return resultNone, i.out.println(val)

	case *ast.BlockStmt:
		return i.execBlock(s)

	case *ast.IfStmt:
		return i.execIf(s)

	case *ast.WhileStmt:
		return i.execWhile(s)

	case *ast.ForStmt:
		return i.execFor(s)

	case *ast.FuncDecl:
		i.functions[s.Name] = s
		return resultNone, nil

	case *ast.ReturnStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return resultNone, err
		}
		return ExecResult{Signal: SigReturn, Value: val}, nil

	case *ast.CallStmt:
		_, err := i.callFunction(s.Call)
		return resultNone, err

	default:
		panic(fmt.Sprintf("runtime: unhandled statement type %T", stmt))
	}
}

// execDecl checks the declared type against the value and binds the name in
// the current scope, shadowing or overwriting without complaint.
func (i *Interpreter) execDecl(s *ast.DeclStmt) (ExecResult, error) {
	val, err := i.evalExpr(s.Value)
	if err != nil {
		return resultNone, err
	}

	ok := true
	switch s.Type {
	case token.KW_INT:
		_, ok = val.(IntVal)
	case token.KW_STRING:
		_, ok = val.(StringVal)
	}
	if !ok {
		return resultNone, runtimeErr(ErrTypeMismatch, s.GetSpan(),
			"type mismatch for '%s': declared %s, got %s", s.Name, s.Type, val.TypeName())
	}

	i.env.Define(s.Name, val)
	return resultNone, nil
}

// execBlock runs statements in the current scope; blocks do not push one.
func (i *Interpreter) execBlock(block *ast.BlockStmt) (ExecResult, error) {
	for _, stmt := range block.Stmts {
		result, err := i.execStmt(stmt)
		if err != nil {
			return resultNone, err
		}
		if result.Signal != SigNone {
			return result, nil // propagate signal
		}
	}
	return resultNone, nil
}

func (i *Interpreter) execIf(s *ast.IfStmt) (ExecResult, error) {
	cond, err := i.evalExpr(s.Condition)
	if err != nil {
		return resultNone, err
	}
	if IsTruthy(cond) {
		return i.execStmt(s.Then)
	}
	if s.Else != nil {
		return i.execStmt(s.Else)
	}
	return resultNone, nil
}

func (i *Interpreter) execWhile(s *ast.WhileStmt) (ExecResult, error) {
	for {
		cond, err := i.evalExpr(s.Condition)
		if err != nil {
			return resultNone, err
		}
		if !IsTruthy(cond) {
			return resultNone, nil
		}

		result, err := i.execStmt(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.Signal == SigReturn {
			return result, nil
		}
	}
}

// execFor runs init, condition, body and update in a scope of their own.
// The scope is popped on every exit path, including a return unwinding out
// of the body.
func (i *Interpreter) execFor(s *ast.ForStmt) (ExecResult, error) {
	i.env.Push(nil)
	defer i.env.Pop()

	if result, err := i.execStmt(s.Init); err != nil || result.Signal == SigReturn {
		return result, err
	}

	for {
		cond, err := i.evalExpr(s.Condition)
		if err != nil {
			return resultNone, err
		}
		if !IsTruthy(cond) {
			return resultNone, nil
		}

		result, err := i.execStmt(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.Signal == SigReturn {
			return result, nil
		}

		if _, err := i.execStmt(s.Update); err != nil {
			return resultNone, err
		}
	}
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return IntVal(e.Value), nil
	case *ast.StringLiteral:
		return StringVal(e.Value), nil
	case *ast.IdentExpr:
		val, ok := i.env.Get(e.Name)
		if !ok {
			return nil, runtimeErr(ErrUndefinedVariable, e.GetSpan(), "undefined variable '%s'", e.Name)
		}
		return val, nil
	case *ast.BinaryExpr:
		return i.evalBinary(e)
	case *ast.CallExpr:
		return i.callFunction(e)
	default:
		panic(fmt.Sprintf("runtime: unhandled expression type %T", expr))
	}
}

// evalBinary evaluates both operands, left first, then applies the operator.
func (i *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.PLUS_PLUS:
		return StringVal(left.String() + right.String()), nil
	case token.EQ:
		return BoolVal(valuesEqual(left, right)), nil
	}

	l, lok := left.(IntVal)
	r, rok := right.(IntVal)
	if !lok || !rok {
		if e.Op == token.PLUS {
			return nil, runtimeErr(ErrAdditionType, e.GetSpan(),
				"cannot apply '+' to %s and %s: use ++ to add strings, + is only for math",
				left.TypeName(), right.TypeName())
		}
		return nil, runtimeErr(ErrOperandType, e.GetSpan(),
			"cannot apply '%s' to %s and %s", e.Op, left.TypeName(), right.TypeName())
	}

	switch e.Op {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.LT:
		return BoolVal(l < r), nil
	case token.GT:
		return BoolVal(l > r), nil
	default:
		panic(fmt.Sprintf("runtime: unknown binary operator %s", e.Op))
	}
}

// callFunction invokes a user function. Arguments are evaluated in the
// caller's scope before the callee's scope is pushed; the callee's scope is
// popped however the body exits. A body that finishes without return
// yields Integer 0.
func (i *Interpreter) callFunction(e *ast.CallExpr) (Value, error) {
	fn, ok := i.functions[e.Name]
	if !ok {
		return nil, runtimeErr(ErrUndefinedFunction, e.GetSpan(), "unknown function '%s'", e.Name)
	}
	if len(e.Args) != len(fn.Params) {
		return nil, runtimeErr(ErrArityMismatch, e.GetSpan(),
			"function '%s' expects %d arguments, got %d", e.Name, len(fn.Params), len(e.Args))
	}

	scope := make(Scope, len(fn.Params))
	for idx, argExpr := range e.Args {
		val, err := i.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		scope[fn.Params[idx]] = val
	}

	i.env.Push(scope)
	defer i.env.Pop()

	result, err := i.execBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return IntVal(0), nil
}
