// Package token defines the token kinds produced by the lexer.
package token

import (
	"blang/internal/span"
	"fmt"
)

// Kind represents the type of a token.
type Kind int

const (
	EOF Kind = iota

	// Literals
	IDENT  // identifiers: x, my_var
	INT    // integer literals: 123
	STRING // string literals: "hello"

	// Operators
	ASSIGN    // =
	PLUS      // +
	PLUS_PLUS // ++
	MINUS     // -
	LT        // <
	GT        // >
	EQ        // ==

	// Delimiters
	SEMICOLON // ;
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	// Keywords
	KW_INT
	KW_STRING
	KW_PRINT
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_FOR
	KW_FUNC
	KW_RETURN
)

var kindNames = map[Kind]string{
	EOF: "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",

	ASSIGN:    "=",
	PLUS:      "+",
	PLUS_PLUS: "++",
	MINUS:     "-",
	LT:        "<",
	GT:        ">",
	EQ:        "==",

	SEMICOLON: ";",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",

	KW_INT:    "int",
	KW_STRING: "string",
	KW_PRINT:  "print_out",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_WHILE:  "while",
	KW_FOR:    "for",
	KW_FUNC:   "func",
	KW_RETURN: "return",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTypeKeyword reports whether k names a declarable type (int or string).
func (k Kind) IsTypeKeyword() bool {
	return k == KW_INT || k == KW_STRING
}

// IsBinaryOp reports whether k may join two terms in an expression.
func (k Kind) IsBinaryOp() bool {
	switch k {
	case PLUS, PLUS_PLUS, MINUS, LT, GT, EQ:
		return true
	}
	return false
}

var keywords = map[string]Kind{
	"int":       KW_INT,
	"string":    KW_STRING,
	"print_out": KW_PRINT,
	"if":        KW_IF,
	"else":      KW_ELSE,
	"while":     KW_WHILE,
	"for":       KW_FOR,
	"func":      KW_FUNC,
	"return":    KW_RETURN,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
