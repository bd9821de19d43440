// Package ast defines the abstract syntax tree for BLang.
//
// The node set is closed: the parser produces only the types declared here
// and the interpreter switches over them exhaustively. Nodes are not mutated
// after parsing.
package ast

import (
	"blang/internal/span"
	"blang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File
// ============================================================

// File is the parsed program: an ordered list of statements.
type File struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// IdentExpr is a variable reference.
type IdentExpr struct {
	ExprBase
	Name string
}

// IntLiteral is an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// StringLiteral is a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// BinaryExpr is a binary operation. Op is one of PLUS, PLUS_PLUS, MINUS,
// LT, GT, EQ.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// CallExpr is a call to a named function: f(a, b).
type CallExpr struct {
	ExprBase
	Name string
	Args []Expr
}

// ============================================================
// Statements
// ============================================================

// DeclStmt declares a typed variable: int x = expr;
// Type is KW_INT or KW_STRING and is checked against the value at run time.
type DeclStmt struct {
	StmtBase
	Type  token.Kind
	Name  string
	Value Expr
}

// ReassignStmt assigns to a bare name: x = expr;
type ReassignStmt struct {
	StmtBase
	Name  string
	Value Expr
}

// PrintStmt is print_out(expr);
type PrintStmt struct {
	StmtBase
	Value Expr
}

// BlockStmt is { stmts }. It does not introduce a scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt is if (cond) then [else otherwise].
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

// WhileStmt is while (cond) body.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Stmt
}

// ForStmt is for (init cond; name = expr) body.
type ForStmt struct {
	StmtBase
	Init      Stmt
	Condition Expr
	Update    *ReassignStmt
	Body      Stmt
}

// FuncDecl is func name(type a, type b) { body }. Parameter types are
// discarded by the parser.
type FuncDecl struct {
	StmtBase
	Name   string
	Params []string
	Body   *BlockStmt
}

// ReturnStmt is return expr;
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// CallStmt is a call used as a statement: f(a);
type CallStmt struct {
	StmtBase
	Call *CallExpr
}
