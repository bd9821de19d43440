// Package lexer implements the lexical analysis (tokenization) for BLang.
package lexer

import (
	"blang/internal/diag"
	"blang/internal/span"
	"blang/internal/token"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens. It never fails:
// characters that start no token are skipped and reported as warnings.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens, terminated by a
// single EOF token, together with any warnings.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// Tokenize is a shorthand for New(source, "").Tokenize without the warnings.
func Tokenize(source string) []token.Token {
	tokens, _ := New(source, "").Tokenize()
	return tokens
}

// ---- internal helpers ----

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current rune without advancing, or 0 at end of input.
func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch < utf8.RuneSelf {
		return rune(ch)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

// advance consumes the current rune and returns it.
func (l *Lexer) advance() rune {
	r, size := rune(l.source[l.pos]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRuneInString(l.source[l.pos:])
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) makeToken(kind token.Kind, lexeme string, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) warn(code string, s span.Span, format string, args ...interface{}) {
	l.diags = append(l.diags, diag.Warningf(code, s, format, args...))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return l.makeToken(token.EOF, "", l.curPos())
		}

		start := l.curPos()
		ch := l.peek()

		switch {
		case isIdentStart(ch):
			return l.readIdentifier(start)
		case isDigit(ch):
			return l.readNumber(start)
		case ch == '"':
			return l.readString(start)
		}

		if tok, ok := l.readOperator(start); ok {
			return tok
		}
	}
}

// readString reads a double-quoted string verbatim; there are no escapes.
// An unterminated string runs to end of input.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // opening "
	textStart := l.pos
	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	text := l.source[textStart:l.pos]
	if l.atEnd() {
		l.warn(diag.CodeUnterminatedString, l.makeSpan(start), "unterminated string literal")
	} else {
		l.advance() // closing "
	}
	return l.makeToken(token.STRING, text, start)
}

// readNumber reads a run of decimal digits. There is no sign and no
// fractional part; range checking is left to the parser.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(token.INT, l.source[numStart:l.pos], start)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := l.source[identStart:l.pos]
	return l.makeToken(token.LookupIdent(lexeme), lexeme, start)
}

// readOperator reads an operator or delimiter. Any other character is
// consumed, reported as a warning, and ok is false.
func (l *Lexer) readOperator(start span.Position) (token.Token, bool) {
	ch := l.advance()

	switch ch {
	case '(':
		return l.makeToken(token.LPAREN, "(", start), true
	case ')':
		return l.makeToken(token.RPAREN, ")", start), true
	case '{':
		return l.makeToken(token.LBRACE, "{", start), true
	case '}':
		return l.makeToken(token.RBRACE, "}", start), true
	case ';':
		return l.makeToken(token.SEMICOLON, ";", start), true
	case ',':
		return l.makeToken(token.COMMA, ",", start), true
	case '<':
		return l.makeToken(token.LT, "<", start), true
	case '>':
		return l.makeToken(token.GT, ">", start), true
	case '-':
		return l.makeToken(token.MINUS, "-", start), true
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.EQ, "==", start), true
		}
		return l.makeToken(token.ASSIGN, "=", start), true
	case '+':
		if l.peek() == '+' {
			l.advance()
			return l.makeToken(token.PLUS_PLUS, "++", start), true
		}
		return l.makeToken(token.PLUS, "+", start), true
	default:
		l.warn(diag.CodeSkippedChar, l.makeSpan(start), "unexpected character %q skipped", ch)
		return token.Token{}, false
	}
}

// ---- character classification ----

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	return ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
