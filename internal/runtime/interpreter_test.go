package runtime

import (
	"blang/internal/lexer"
	"blang/internal/parser"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// runSource parses and executes source code on a fresh interpreter,
// returning captured output, the interpreter, and any error.
func runSource(source string) (string, *Interpreter, error) {
	tokens := lexer.Tokenize(source)
	file, err := parser.New(tokens).ParseFile()
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	err = interp.Run(file)
	return buf.String(), interp, err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, interp, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if out != expected {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
	if interp.Depth() != 1 {
		t.Errorf("expected only the global scope after run, got depth %d", interp.Depth())
	}
}

func expectError(t *testing.T, source string, kind error, contains string) string {
	t.Helper()
	out, _, err := runSource(source)
	if err == nil {
		t.Fatalf("expected %v error containing %q, got nil", kind, contains)
	}
	if !errors.Is(err, kind) {
		t.Errorf("expected error kind %v, got: %v", kind, err)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got: %v", contains, err)
	}
	return out
}

// ---- end-to-end scenarios ----

func TestScenarioPrintVariable(t *testing.T) {
	expectOutput(t, `int x = 5; print_out(x);`, "5\n")
}

func TestScenarioAddVariables(t *testing.T) {
	expectOutput(t, `int x = 5; int y = 3; print_out(x + y);`, "8\n")
}

func TestScenarioConcatenate(t *testing.T) {
	expectOutput(t, `string s = "hi"; print_out(s ++ 1);`, "hi1\n")
}

func TestScenarioAdditionTypeError(t *testing.T) {
	out := expectError(t, `int x = 5; print_out(x + "a");`, ErrAdditionType, "use ++ to add strings")
	if out != "" {
		t.Errorf("expected no output before the error, got %q", out)
	}
}

func TestScenarioFunctionCall(t *testing.T) {
	expectOutput(t, `func add(int a, int b) { return a + b; } print_out(add(2,3));`, "5\n")
}

func TestScenarioForLoop(t *testing.T) {
	expectOutput(t, `for (int i = 0; i < 3; i = i + 1) { print_out(i); }`, "0\n1\n2\n")
}

// ---- operators ----

func TestIntegerAddAndConcatProperty(t *testing.T) {
	pairs := [][2]int64{{0, 0}, {1, 2}, {7, 35}, {123456, 654321}, {9223372036854775806, 1}}
	for _, p := range pairs {
		src := fmt.Sprintf("print_out(%d + %d); print_out(%d ++ %d);", p[0], p[1], p[0], p[1])
		want := fmt.Sprintf("%d\n%d%d\n", p[0]+p[1], p[0], p[1])
		expectOutput(t, src, want)
	}
}

func TestConcatMixedKinds(t *testing.T) {
	expectOutput(t, `print_out("a" ++ "b" ++ 3);`, "ab3\n")
	expectOutput(t, `print_out(1 < 2 ++ "!");`, "true!\n")
}

func TestSubtraction(t *testing.T) {
	expectOutput(t, `print_out(10 - 3 - 2);`, "5\n")
	expectOutput(t, `print_out(3 - 10);`, "-7\n")
}

func TestFlatLeftToRight(t *testing.T) {
	// 1 + 2 < 4 is (1 + 2) < 4
	expectOutput(t, `print_out(1 + 2 < 4);`, "true\n")
	// 10 - 2 - 3 is (10 - 2) - 3
	expectOutput(t, `print_out(10 - 2 - 3);`, "5\n")
}

func TestComparisons(t *testing.T) {
	expectOutput(t, `print_out(1 < 2); print_out(2 < 1); print_out(3 > 2);`, "true\nfalse\ntrue\n")
	expectOutput(t, `print_out(2 == 2); print_out("a" == "a"); print_out("a" == "b");`, "true\ntrue\nfalse\n")
}

func TestEqualityAcrossKindsIsFalse(t *testing.T) {
	expectOutput(t, `print_out(1 == "1"); print_out(1 < 2 == 1); print_out("" == 0);`, "false\nfalse\nfalse\n")
}

func TestBooleanEquality(t *testing.T) {
	expectOutput(t, `x = 1 < 2; y = 3 > 2; print_out(x == y);`, "true\n")
	expectOutput(t, `x = 1 < 2; y = 3 < 2; print_out(x == y);`, "false\n")
}

func TestAdditionRequiresIntegers(t *testing.T) {
	expectError(t, `print_out("a" + "b");`, ErrAdditionType, "AdditionTypeError")
	expectError(t, `print_out(1 + "b");`, ErrAdditionType, "int and string")
	expectError(t, `print_out(1 < 2 + 1);`, ErrAdditionType, "bool and int")
}

func TestOperandTypeErrors(t *testing.T) {
	expectError(t, `print_out("a" - 1);`, ErrOperandType, "cannot apply '-'")
	expectError(t, `print_out("a" < "b");`, ErrOperandType, "cannot apply '<'")
	expectError(t, `print_out(1 > "b");`, ErrOperandType, "cannot apply '>'")
}

// ---- declarations and scope ----

func TestTypeMismatch(t *testing.T) {
	expectError(t, `int x = "text";`, ErrTypeMismatch, "'x'")
	expectError(t, `string s = 5;`, ErrTypeMismatch, "'s'")
	expectError(t, `int b = 1 < 2;`, ErrTypeMismatch, "got bool")
}

func TestRedeclarationOverwrites(t *testing.T) {
	expectOutput(t, `int x = 1; int x = 2; print_out(x);`, "2\n")
	expectOutput(t, `int x = 1; string x = "s"; print_out(x);`, "s\n")
}

func TestReassignDeclaresWhenMissing(t *testing.T) {
	expectOutput(t, `y = 5; print_out(y);`, "5\n")
	expectOutput(t, `y = "free"; print_out(y);`, "free\n")
}

func TestReassignIsUntyped(t *testing.T) {
	expectOutput(t, `int x = 1; x = "now a string"; print_out(x);`, "now a string\n")
}

func TestUndefinedVariable(t *testing.T) {
	expectError(t, `print_out(y);`, ErrUndefinedVariable, "undefined variable 'y'")
}

func TestFunctionSeesGlobals(t *testing.T) {
	expectOutput(t, `
int g = 10;
func f() { return g + 1; }
print_out(f());
`, "11\n")
}

func TestFunctionUpdatesGlobal(t *testing.T) {
	expectOutput(t, `
int c = 0;
func inc() { c = c + 1; return c; }
inc();
inc();
print_out(c);
`, "2\n")
}

func TestFunctionLocalsDoNotLeak(t *testing.T) {
	expectError(t, `
func f() { y = 5; return y; }
print_out(f());
print_out(y);
`, ErrUndefinedVariable, "'y'")
}

func TestFunctionCannotSeeCallerLocals(t *testing.T) {
	expectError(t, `
func show() { print_out(i); return 0; }
for (int i = 0; i < 1; i = i + 1) { show(); }
`, ErrUndefinedVariable, "'i'")
}

func TestNestedForCannotSeeOuterLoopVariable(t *testing.T) {
	// Only the current and the global scope are visible.
	expectError(t, `
for (int i = 0; i < 1; i = i + 1) {
  for (int j = 0; j < 1; j = j + 1) { print_out(i); }
}
`, ErrUndefinedVariable, "'i'")
}

func TestLoopInsideFunctionCannotSeeParameters(t *testing.T) {
	expectError(t, `
func f(int limit) {
  for (int i = 0; i < 3; i = i + 1) {
    if (i > limit) { return i; }
  }
  return 0;
}
print_out(f(1));
`, ErrUndefinedVariable, "'limit'")

	expectOutput(t, `
int bound = 0;
func f(int limit) {
  bound = limit;
  for (int i = 0; i < 3; i = i + 1) {
    if (i > bound) { return i; }
  }
  return 0;
}
print_out(f(1));
`, "2\n")
}

func TestForVariableDoesNotOutliveLoop(t *testing.T) {
	expectError(t, `
for (int i = 0; i < 2; i = i + 1) { }
print_out(i);
`, ErrUndefinedVariable, "'i'")
}

func TestForBodyUpdatesGlobal(t *testing.T) {
	expectOutput(t, `
int sum = 0;
for (int i = 0; i < 5; i = i + 1) { sum = sum + i; }
print_out(sum);
`, "10\n")
}

func TestBlocksDoNotPushScope(t *testing.T) {
	expectOutput(t, `{ int inner = 3; } print_out(inner);`, "3\n")
	expectOutput(t, `if (1) { int a = 4; } print_out(a);`, "4\n")
}

// ---- control flow ----

func TestTruthiness(t *testing.T) {
	expectOutput(t, `if (0) print_out("t"); else print_out("f");`, "f\n")
	expectOutput(t, `if (0 - 1) print_out("t");`, "t\n")
	expectOutput(t, `if ("") print_out("empty string is truthy");`, "empty string is truthy\n")
	expectOutput(t, `if (1 > 2) print_out("t"); else print_out("f");`, "f\n")
}

func TestWhileLoop(t *testing.T) {
	expectOutput(t, `
int i = 3;
while (i > 0) {
  print_out(i);
  i = i - 1;
}
`, "3\n2\n1\n")
}

func TestWhileSingleStatementBody(t *testing.T) {
	expectOutput(t, `int i = 0; while (i < 3) i = i + 1; print_out(i);`, "3\n")
}

func TestTopLevelReturnEndsProgram(t *testing.T) {
	expectOutput(t, `print_out(1); return 5; print_out(2);`, "1\n")
	expectOutput(t, `int i = 0; while (1) { if (i == 2) { return 0; } print_out(i); i = i + 1; }`, "0\n1\n")
}

// ---- functions ----

func TestFunctionDefaultResultIsZero(t *testing.T) {
	expectOutput(t, `func f() { int a = 1; } print_out(f());`, "0\n")
}

func TestArityMismatch(t *testing.T) {
	expectError(t, `func f(int a) { return a; } f(1, 2);`, ErrArityMismatch, "'f'")
	expectError(t, `func f(int a, int b) { } print_out(f());`, ErrArityMismatch, "expects 2 arguments, got 0")
}

func TestArityCheckedBeforeArguments(t *testing.T) {
	// The undefined argument is never evaluated.
	expectError(t, `func f() { } f(missing);`, ErrArityMismatch, "'f'")
}

func TestUndefinedFunction(t *testing.T) {
	expectError(t, `nope(1);`, ErrUndefinedFunction, "'nope'")
	expectError(t, `print_out(nope());`, ErrUndefinedFunction, "'nope'")
}

func TestArgumentsEvaluatedInCallerScope(t *testing.T) {
	expectOutput(t, `
int x = 1;
func f(int x) { return x + 1; }
print_out(f(x + 10));
print_out(x);
`, "12\n1\n")
}

func TestParameterTypesAreIgnored(t *testing.T) {
	expectOutput(t, `func f(int a) { return a; } print_out(f("text"));`, "text\n")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
func fib(int n) {
  if (n < 2) { return n; }
  return fib(n - 1) + fib(n - 2);
}
print_out(fib(15));
`, "610\n")
}

func TestFunctionRedefinitionReplaces(t *testing.T) {
	expectOutput(t, `
func f() { return 1; }
print_out(f());
func f() { return 2; }
print_out(f());
`, "1\n2\n")
}

func TestFunctionDefinedWhenExecuted(t *testing.T) {
	expectError(t, `print_out(later()); func later() { return 1; }`, ErrUndefinedFunction, "'later'")
}

func TestReturnFromForUnwindsScope(t *testing.T) {
	out, interp, err := runSource(`
func find() {
  for (int i = 0; i < 10; i = i + 1) {
    if (i == 3) { return i; }
  }
  return 99;
}
int r = find();
int after = 7;
print_out(r);
print_out(after);
`)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if out != "3\n7\n" {
		t.Errorf("unexpected output %q", out)
	}
	if interp.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", interp.Depth())
	}
	if _, ok := interp.Env().Global()["after"]; !ok {
		t.Error("expected 'after' to be declared in the global scope")
	}
}

func TestReturnFromNestedLoopsInsideFunction(t *testing.T) {
	// n is global: the function scope is not visible from inside the for.
	expectOutput(t, `
int n = 0;
func g() {
  while (1) {
    for (int i = 0; i < 5; i = i + 1) {
      n = n + 1;
      if (n == 7) { return n; }
    }
  }
}
print_out(g());
`, "7\n")
}

func TestErrorInsideFunctionAborts(t *testing.T) {
	out := expectError(t, `
func f() { print_out("in f"); return 1 + "x"; }
f();
print_out("unreachable");
`, ErrAdditionType, "AdditionTypeError")
	if out != "in f\n" {
		t.Errorf("expected output up to the error, got %q", out)
	}
}

// ---- isolation and reporting ----

func TestInterpretersAreIsolated(t *testing.T) {
	if _, _, err := runSource(`int shared = 1; func f() { return 1; }`); err != nil {
		t.Fatal(err)
	}
	expectError(t, `print_out(shared);`, ErrUndefinedVariable, "'shared'")
	expectError(t, `f();`, ErrUndefinedFunction, "'f'")
}

func TestErrorReport(t *testing.T) {
	_, _, err := runSource("int x = 1;\n  print_out(x + \"a\");")
	var rtErr *Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if rtErr.Category() != "AdditionTypeError" {
		t.Errorf("expected AdditionTypeError, got %s", rtErr.Category())
	}
	if rtErr.Span.Start.Line != 2 || rtErr.Span.Start.Column != 13 {
		t.Errorf("expected position 2:13, got %s", rtErr.Span.Start)
	}
	if !strings.HasPrefix(err.Error(), "AdditionTypeError at 2:13: ") {
		t.Errorf("unexpected report %q", err.Error())
	}
}

func TestPrintWriteFailure(t *testing.T) {
	tokens := lexer.Tokenize(`print_out(1);`)
	file, err := parser.New(tokens).ParseFile()
	if err != nil {
		t.Fatal(err)
	}
	err = NewInterpreter(failingWriter{}).Run(file)
	if err == nil || !strings.Contains(err.Error(), "print_out") {
		t.Errorf("expected print_out write error, got %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }
