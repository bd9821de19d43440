// Package parser implements the syntax analysis for BLang.
//
// Statements are parsed by recursive descent with dispatch on the current
// token kind. Expressions have no precedence levels: a term is followed by
// any number of (operator, term) pairs, folded left to right, so
// `a + b < c` is `(a + b) < c` and `a < b + c` is `(a < b) + c`.
package parser

import (
	"blang/internal/ast"
	"blang/internal/diag"
	"blang/internal/span"
	"blang/internal/token"
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is the category of every error returned by the parser.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the first token the parser could not accept.
type SyntaxError struct {
	Diag     diag.Diagnostic
	Expected token.Kind // meaningful only when Diag.Code is diag.CodeExpectedToken
	Found    token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError at %s: %s", e.Diag.Span.Start, e.Diag.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseFile parses the whole token stream. Parsing stops at the first
// error; no partial program is returned in that case.
func (p *Parser) ParseFile() (*ast.File, error) {
	file := &ast.File{}
	start := p.peek().Span

	for !p.isAtEnd() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		file.Body = append(file.Body, stmt)
	}

	file.Span = span.Cover(start, p.peek().Span)
	return file, nil
}

// ---- navigation helpers ----

// peekAt returns the token offset positions past the current one. Reads past
// the end yield the final (EOF) token.
func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) isAtEnd() bool {
	return p.check(token.EOF)
}

// expect consumes a token of the given kind or fails with E2001.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	tok := p.peek()
	return tok, &SyntaxError{
		Diag:     diag.Errorf(diag.CodeExpectedToken, tok.Span, "expected '%s', got '%s'", kind, tok.Kind),
		Expected: kind,
		Found:    tok,
	}
}

func (p *Parser) fail(code string, tok token.Token, format string, args ...interface{}) error {
	return &SyntaxError{
		Diag:  diag.Errorf(code, tok.Span, format, args...),
		Found: tok,
	}
}

// prevEnd returns the end position of the last consumed token.
func (p *Parser) prevEnd() span.Position {
	if p.pos == 0 {
		return p.peek().Span.Start
	}
	return p.tokens[p.pos-1].Span.End
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if p.peekKind().IsTypeKeyword() {
		return p.parseDecl()
	}

	switch p.peekKind() {
	case token.IDENT:
		if p.peekAt(1).Kind == token.LPAREN {
			return p.parseCallStmt()
		}
		return p.parseReassign()
	case token.KW_PRINT:
		return p.parsePrint()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_FUNC:
		return p.parseFuncDecl()
	case token.KW_RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock()
	default:
		tok := p.peek()
		return nil, p.fail(diag.CodeUnexpectedToken, tok, "unexpected token '%s'", tok.Kind)
	}
}

// parseDecl parses: (int | string) IDENT = expr ;
func (p *Parser) parseDecl() (*ast.DeclStmt, error) {
	typeTok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.DeclStmt{
		StmtBase: makeStmtBase(p.makeSpan(typeTok.Span.Start)),
		Type:     typeTok.Kind,
		Name:     name.Lexeme,
		Value:    value,
	}, nil
}

// parseReassign parses: IDENT = expr ;
func (p *Parser) parseReassign() (*ast.ReassignStmt, error) {
	stmt, err := p.parseReassignClause()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	stmt.Span = p.makeSpan(stmt.Span.Start)
	return stmt, nil
}

// parseReassignClause parses IDENT = expr without a terminator. It is shared
// by reassignment statements and the for-loop increment.
func (p *Parser) parseReassignClause() (*ast.ReassignStmt, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReassignStmt{
		StmtBase: makeStmtBase(p.makeSpan(name.Span.Start)),
		Name:     name.Lexeme,
		Value:    value,
	}, nil
}

// parseCallStmt parses: IDENT ( args ) ;
func (p *Parser) parseCallStmt() (*ast.CallStmt, error) {
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.CallStmt{
		StmtBase: makeStmtBase(p.makeSpan(call.Span.Start)),
		Call:     call,
	}, nil
}

// parsePrint parses: print_out ( expr ) ;
func (p *Parser) parsePrint() (*ast.PrintStmt, error) {
	start := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{
		StmtBase: makeStmtBase(p.makeSpan(start.Span.Start)),
		Value:    value,
	}, nil
}

// parseCondition parses: ( expr )
func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf parses: if ( expr ) stmt [ else stmt ]
func (p *Parser) parseIf() (*ast.IfStmt, error) {
	start := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if p.check(token.KW_ELSE) {
		p.advance()
		if stmt.Else, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	stmt.StmtBase = makeStmtBase(p.makeSpan(start.Span.Start))
	return stmt, nil
}

// parseWhile parses: while ( expr ) stmt
func (p *Parser) parseWhile() (*ast.WhileStmt, error) {
	start := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{
		StmtBase:  makeStmtBase(p.makeSpan(start.Span.Start)),
		Condition: cond,
		Body:      body,
	}, nil
}

// parseFor parses: for ( stmt expr ; IDENT = expr ) stmt
//
// The initializer is a complete statement and so carries its own ';'.
func (p *Parser) parseFor() (*ast.ForStmt, error) {
	start := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	init, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	update, err := p.parseReassignClause()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{
		StmtBase:  makeStmtBase(p.makeSpan(start.Span.Start)),
		Init:      init,
		Condition: cond,
		Update:    update,
		Body:      body,
	}, nil
}

// parseFuncDecl parses: func IDENT ( [type IDENT {, type IDENT}] ) block
//
// The type token of each parameter may be any token and is discarded.
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	start := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []string
	if !p.check(token.RPAREN) {
		for {
			if p.isAtEnd() {
				_, err := p.expect(token.RPAREN)
				return nil, err
			}
			p.advance() // parameter type
			param, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.check(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		StmtBase: makeStmtBase(p.makeSpan(start.Span.Start)),
		Name:     name.Lexeme,
		Params:   params,
		Body:     body,
	}, nil
}

// parseReturn parses: return expr ;
func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	start := p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{
		StmtBase: makeStmtBase(p.makeSpan(start.Span.Start)),
		Value:    value,
	}, nil
}

// parseBlock parses: { stmts }
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	start, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	block.StmtBase = makeStmtBase(p.makeSpan(start.Span.Start))
	return block, nil
}

// ============================================================
// Expression parsing
// ============================================================

// parseExpr parses: term { op term }, folding to the left.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peekKind().IsBinaryOp() {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			ExprBase: makeExprBase(span.Cover(left.GetSpan(), right.GetSpan())),
			Op:       op.Kind,
			Left:     left,
			Right:    right,
		}
	}
	return left, nil
}

// parseTerm parses a number, a string, a call, or a variable reference.
func (p *Parser) parseTerm() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.INT:
		p.advance()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.fail(diag.CodeIntOutOfRange, tok, "integer literal %s out of range", tok.Lexeme)
		}
		return &ast.IntLiteral{ExprBase: makeExprBase(tok.Span), Value: value}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{ExprBase: makeExprBase(tok.Span), Value: tok.Lexeme}, nil
	case token.IDENT:
		if p.peekAt(1).Kind == token.LPAREN {
			return p.parseCall()
		}
		p.advance()
		return &ast.IdentExpr{ExprBase: makeExprBase(tok.Span), Name: tok.Lexeme}, nil
	default:
		d := diag.Errorf(diag.CodeUnexpectedTerm, tok.Span, "unexpected term '%s'", tok.Kind)
		if tok.Kind == token.LPAREN {
			d = d.WithHint("parenthesized expressions are not supported")
		}
		return nil, &SyntaxError{Diag: d, Found: tok}
	}
}

// parseCall parses: IDENT ( [expr {, expr}] )
func (p *Parser) parseCall() (*ast.CallExpr, error) {
	name := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.check(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	return &ast.CallExpr{
		ExprBase: makeExprBase(p.makeSpan(name.Span.Start)),
		Name:     name.Lexeme,
		Args:     args,
	}, nil
}

// ============================================================
// Node construction helpers
// ============================================================

func makeStmtBase(s span.Span) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: s}}
}

func makeExprBase(s span.Span) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: s}}
}
