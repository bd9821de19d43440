package main

import (
	"blang/internal/config"
	"blang/internal/diag"
	"blang/internal/lexer"
	"blang/internal/parser"
	"blang/internal/runtime"
	"blang/internal/token"
	"encoding/json"
	"fmt"
	"io"
)

// ---- ANSI colors ----

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// reporter writes program output, diagnostics and crash reports, applying
// the color and warning settings from the config.
type reporter struct {
	stdout   io.Writer
	stderr   io.Writer
	color    bool
	warnings bool
}

func newReporter(stdout, stderr io.Writer, cfg *config.Config) *reporter {
	return &reporter{
		stdout:   stdout,
		stderr:   stderr,
		color:    cfg.Color,
		warnings: cfg.Warnings,
	}
}

// paint wraps text in the given colors when colors are enabled.
func (r *reporter) paint(text string, colors ...string) string {
	if !r.color || len(colors) == 0 {
		return text
	}
	prefix := ""
	for _, c := range colors {
		prefix += c
	}
	return prefix + text + colorReset
}

func (r *reporter) errorf(format string, args ...interface{}) {
	fmt.Fprintln(r.stderr, r.paint("error: "+fmt.Sprintf(format, args...), colorRed))
}

// diagnostics prints lexer warnings (when enabled) and any error diagnostics.
func (r *reporter) diagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		if d.Severity == diag.Warning {
			if r.warnings {
				fmt.Fprintln(r.stderr, r.paint(d.String(), colorYellow))
			}
			continue
		}
		fmt.Fprintln(r.stderr, r.paint(d.String(), colorRed))
	}
}

// crash reports an error that stopped a program.
func (r *reporter) crash(err error) {
	fmt.Fprintln(r.stderr, r.paint("CRASH: "+err.Error(), colorRed))
}

// execute lexes, parses and runs source on interp. Lexer warnings are
// reported first; a syntax or runtime error is reported as a crash and
// returned.
func (r *reporter) execute(interp *runtime.Interpreter, source, filename string) error {
	tokens, diags := lexer.New(source, filename).Tokenize()
	r.diagnostics(diags)

	file, err := parser.New(tokens).ParseFile()
	if err == nil {
		err = interp.Run(file)
	}
	if err != nil {
		r.crash(err)
		return err
	}
	return nil
}

// ---- JSON output ----

func (r *reporter) json(v interface{}) {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		r.errorf("JSON encoding failed: %v", err)
	}
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Span.Start.Line,
			"column":   d.Span.Start.Column,
			"offset":   d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

// ---- token output ----

func (r *reporter) tokensText(tokens []token.Token, diags []diag.Diagnostic) {
	for _, tok := range tokens {
		fmt.Fprintf(r.stdout, "%-12s %-20s %d:%d\n", tok.Kind, tok.Lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
	r.diagnostics(diags)
}

func (r *reporter) tokensJSON(tokens []token.Token, diags []diag.Diagnostic) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		})
	}

	r.json(map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	})
}

// withWriters returns a copy of r that writes to the given streams.
func (r *reporter) withWriters(stdout, stderr io.Writer) *reporter {
	c := *r
	c.stdout = stdout
	c.stderr = stderr
	return &c
}
