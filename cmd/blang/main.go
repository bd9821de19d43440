// Command blang is the CLI entry point for the BLang toolchain.
//
// Usage:
//
//	blang                          Start the command shell
//	blang <file>                   Run a source file
//	blang run    <file>            Run a source file
//	blang tokens <file> [--json]   Print tokens
//	blang parse  <file>            Print AST as JSON
//	blang repl                     Start interactive REPL
//	blang shell                    Start the command shell
//
// Every form accepts --config <path> to pick the settings file.
package main

import (
	"blang/internal/ast"
	"blang/internal/config"
	"blang/internal/diag"
	"blang/internal/lexer"
	"blang/internal/parser"
	"blang/internal/runtime"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	configPath, args, err := extractConfigFlag(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	cfg, err := config.Resolve(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	rep := newReporter(stdout, stderr, cfg)

	if len(args) == 0 {
		return cmdShell(cfg, rep)
	}

	command := args[0]
	switch command {
	case "tokens":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdTokens(rep, args[1], hasFlag(args[2:], "--json"))
	case "parse":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdParse(rep, args[1])
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		return cmdRun(rep, args[1])
	case "repl":
		return cmdRepl(cfg, rep)
	case "shell":
		return cmdShell(cfg, rep)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		// blang <file> runs the file directly.
		if info, err := os.Stat(command); err == nil && !info.IsDir() {
			return cmdRun(rep, command)
		}
		fmt.Fprintf(stderr, "error: unknown command '%s'\n", command)
		usage(stderr)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blang [--config <path>] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  blang                          Start the command shell")
	fmt.Fprintln(w, "  blang <file>                   Run a source file")
	fmt.Fprintln(w, "  blang run    <file>            Run a source file")
	fmt.Fprintln(w, "  blang tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(w, "  blang parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(w, "  blang repl                     Start interactive REPL")
	fmt.Fprintln(w, "  blang shell                    Start the command shell")
}

// extractConfigFlag removes --config <path> (or --config=<path>) from args.
func extractConfigFlag(args []string) (string, []string, error) {
	var path string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return "", nil, errors.New("--config requires a path")
			}
			path = args[i+1]
			i++
		case len(arg) > len("--config=") && arg[:len("--config=")] == "--config=":
			path = arg[len("--config="):]
		default:
			rest = append(rest, arg)
		}
	}
	return path, rest, nil
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

func readFile(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	return string(source), nil
}

// ---- tokens command ----

func cmdTokens(rep *reporter, filename string, jsonMode bool) int {
	source, err := readFile(filename)
	if err != nil {
		rep.errorf("%v", err)
		return 1
	}

	tokens, diags := lexer.New(source, filename).Tokenize()
	if jsonMode {
		rep.tokensJSON(tokens, diags)
	} else {
		rep.tokensText(tokens, diags)
	}

	if diag.HasErrors(diags) {
		return 1
	}
	return 0
}

// ---- parse command ----

func cmdParse(rep *reporter, filename string) int {
	source, err := readFile(filename)
	if err != nil {
		rep.errorf("%v", err)
		return 1
	}

	tokens, diags := lexer.New(source, filename).Tokenize()
	file, err := parser.New(tokens).ParseFile()

	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		diags = append(diags, syntaxErr.Diag)
	}

	output := map[string]interface{}{
		"ast":         nil,
		"diagnostics": diagsToSlice(diags),
	}
	if file != nil {
		output["ast"] = ast.NodeToMap(file)
	}
	rep.json(output)

	if err != nil {
		return 1
	}
	return 0
}

// ---- run command ----

func cmdRun(rep *reporter, filename string) int {
	source, err := readFile(filename)
	if err != nil {
		rep.errorf("%v", err)
		return 1
	}

	interp := runtime.NewInterpreter(rep.stdout)
	if err := rep.execute(interp, source, filename); err != nil {
		return 1
	}
	return 0
}
