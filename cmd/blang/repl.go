package main

import (
	"blang/internal/config"
	"blang/internal/lexer"
	"blang/internal/runtime"
	"blang/internal/token"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// inputBuffer accumulates REPL lines until the braces balance.
type inputBuffer struct {
	text  strings.Builder
	depth int
}

// add appends line. It returns the accumulated source and true once every
// opened brace has been closed. Braces inside string literals do not count.
func (b *inputBuffer) add(line string) (string, bool) {
	for _, tok := range lexer.Tokenize(line) {
		switch tok.Kind {
		case token.LBRACE:
			b.depth++
		case token.RBRACE:
			b.depth--
		}
	}
	b.text.WriteString(line)
	b.text.WriteString("\n")
	if b.depth > 0 {
		return "", false
	}
	source := b.text.String()
	b.reset()
	return source, true
}

func (b *inputBuffer) pending() bool {
	return b.depth > 0
}

func (b *inputBuffer) reset() {
	b.text.Reset()
	b.depth = 0
}

// ---- repl command ----

// cmdRepl evaluates input on one interpreter, so variables and functions
// persist between entries.
func cmdRepl(cfg *config.Config, rep *reporter) int {
	mainPrompt := rep.paint(cfg.Prompt+"> ", colorGreen)
	contPrompt := rep.paint("...   ", colorGray)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            mainPrompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		rep.errorf("readline init failed: %v", err)
		return 1
	}
	defer rl.Close()

	out := rep.withWriters(rl.Stdout(), rl.Stderr())
	fmt.Fprintf(out.stdout, "%s %s\n\n",
		out.paint("BLang REPL", colorBold, colorCyan),
		out.paint("(type 'exit' or Ctrl+D to quit)", colorGray))

	interp := runtime.NewInterpreter(out.stdout)
	var input inputBuffer

	for {
		if input.pending() {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(mainPrompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if input.pending() {
					input.reset()
					continue
				}
				fmt.Fprintf(out.stdout, "\n%s\n", out.paint("(use 'exit' or Ctrl+D to quit)", colorGray))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out.stdout)
			}
			break
		}

		if !input.pending() && strings.TrimSpace(line) == "exit" {
			break
		}

		source, complete := input.add(line)
		if !complete || strings.TrimSpace(source) == "" {
			continue
		}

		// Errors are already reported; the session continues.
		_ = out.execute(interp, source, "<repl>")
	}
	return 0
}
