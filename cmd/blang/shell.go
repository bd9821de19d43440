package main

import (
	"blang/internal/config"
	"blang/internal/runtime"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

const shellBanner = "BLang CLI"

// shell implements the directory-aware command shell. Each run gets a fresh
// interpreter.
type shell struct {
	cfg *config.Config
	rep *reporter
}

func (s *shell) prompt() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}
	return s.rep.paint(fmt.Sprintf("%s [%s] > ", s.cfg.Prompt, cwd), colorGreen)
}

// handle executes one command line and reports whether the shell should
// keep reading.
func (s *shell) handle(input string) bool {
	input = strings.TrimSpace(input)
	out := s.rep.stdout
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.ReplaceAll(strings.TrimSpace(arg), `"`, "")

	switch command {
	case "":
	case "exit", "quit":
		return false
	case "clear", "cls":
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprintln(out, s.rep.paint(shellBanner, colorCyan))
	case "help":
		fmt.Fprintln(out, "Available Commands:")
		fmt.Fprintf(out, "  run <file%s> : Executes a file\n", s.cfg.Extension)
		fmt.Fprintln(out, "  cd <folder>   : Change directory")
		fmt.Fprintln(out, "  dir, ls       : List source files in current folder")
		fmt.Fprintln(out, "  cls, clear    : Clears screen")
		fmt.Fprintln(out, "  exit, quit    : Closes BLang")
	case "cd":
		if arg == "" {
			s.printCwd()
			break
		}
		if err := os.Chdir(arg); err != nil {
			fmt.Fprintln(s.rep.stderr, s.rep.paint("Error: "+err.Error(), colorRed))
		}
	case "dir", "ls":
		s.list()
	case "run":
		if arg == "" {
			fmt.Fprintln(s.rep.stderr, s.rep.paint("Error: run needs a file", colorRed))
			break
		}
		s.run(arg)
	default:
		fmt.Fprintln(out, s.rep.paint(fmt.Sprintf("Unknown command: '%s'. Type 'help'.", input), colorYellow))
	}
	return true
}

func (s *shell) printCwd() {
	if cwd, err := os.Getwd(); err == nil {
		fmt.Fprintln(s.rep.stdout, cwd)
	}
}

// list prints the files in the current directory carrying the configured
// extension.
func (s *shell) list() {
	entries, err := os.ReadDir(".")
	if err != nil {
		fmt.Fprintln(s.rep.stderr, s.rep.paint("Error: "+err.Error(), colorRed))
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == s.cfg.Extension {
			names = append(names, e.Name())
		}
	}
	fmt.Fprintf(s.rep.stdout, "Found %d BLang files:\n", len(names))
	for _, name := range names {
		fmt.Fprintf(s.rep.stdout, "  - %s\n", name)
	}
}

func (s *shell) run(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		fmt.Fprintln(s.rep.stderr, s.rep.paint(fmt.Sprintf("Error: File '%s' not found in current directory.", path), colorRed))
		return
	}
	source, err := readFile(path)
	if err != nil {
		s.rep.errorf("%v", err)
		return
	}
	fmt.Fprintln(s.rep.stdout)
	interp := runtime.NewInterpreter(s.rep.stdout)
	if err := s.rep.execute(interp, source, path); err == nil {
		fmt.Fprintln(s.rep.stdout)
	}
}

// ---- shell command ----

func cmdShell(cfg *config.Config, rep *reporter) int {
	rl, err := readline.NewEx(&readline.Config{
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

	sh := &shell{cfg: cfg, rep: rep.withWriters(rl.Stdout(), rl.Stderr())}
	fmt.Fprintln(sh.rep.stdout, sh.rep.paint("========================================", colorCyan))
	fmt.Fprintln(sh.rep.stdout, sh.rep.paint("   "+shellBanner, colorBold, colorCyan))
	fmt.Fprintln(sh.rep.stdout, sh.rep.paint("========================================", colorCyan))
	fmt.Fprintln(sh.rep.stdout, "Type 'help' for commands.")

	for {
		rl.SetPrompt(sh.prompt())
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.rep.stdout)
			}
			break
		}
		if !sh.handle(line) {
			break
		}
	}
	return 0
}
