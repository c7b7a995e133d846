package interpreter

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/lexer"
	"github.com/sdcook/lox/internal/parser"
	"github.com/sdcook/lox/internal/resolver"
	"github.com/sdcook/lox/internal/runtime"
)

// run scans, parses, resolves and interprets a whole program, capturing
// whatever it writes to stdout via `print`.
func run(t *testing.T, src string) (stdout string, err error) {
	t.Helper()

	toks, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)

	stmts, parseErrs := parser.New(toks).Program()
	require.Empty(t, parseErrs)

	table, resolveErrs := resolver.New().Resolve(stmts)
	require.Empty(t, resolveErrs)

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	interp := New(table)
	runErr := interp.Interpret(stmts)
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String(), runErr
}

func TestInterpretArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpretBlockScopingShadows(t *testing.T) {
	out, err := run(t, `var a = "glob"; { var a = "local"; print a; } print a;`)
	require.NoError(t, err)
	assert.Equal(t, "local\nglob\n", out)
}

func TestInterpretClosureCapturesByFrame(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun inc() {
				i = i + 1;
				return i;
			}
			return inc;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretRuntimeTypeErrorStopsExecution(t *testing.T) {
	out, err := run(t, `print "a" - 1;`)
	require.Error(t, err)
	assert.Equal(t, "", out)
}

func TestInterpretShortCircuitLogicalOperators(t *testing.T) {
	out, err := run(t, `print nil or "ok"; print false and 1/0;`)
	require.NoError(t, err)
	assert.Equal(t, "ok\nfalse\n", out)
}

func TestInterpretDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
}

func TestInterpretTwoIndependentClosuresDontShareState(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun inc() { i = i + 1; return i; }
			return inc;
		}
		var a = makeCounter();
		var b = makeCounter();
		print a();
		print a();
		print b();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestInterpretNumberStringifyStripsTrailingZero(t *testing.T) {
	out, err := run(t, `print 6.0; print 6.5;`)
	require.NoError(t, err)
	assert.Equal(t, "6\n6.5\n", out)
}

func TestInterpretWhileLoop(t *testing.T) {
	out, err := run(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretForLoopDesugaring(t *testing.T) {
	out, err := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretFunctionWithoutReturnYieldsNil(t *testing.T) {
	out, err := run(t, `fun f() { print "called"; } print f();`)
	require.NoError(t, err)
	assert.Equal(t, "called\nnil\n", out)
}

func TestInterpretCallArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1")
}

func TestInterpretNotCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestInterpretClockBuiltinReturnsNumber(t *testing.T) {
	toks, _ := lexer.New("clock()").Scan()
	expr, errs := parser.New(toks).Expression()
	require.Empty(t, errs)

	table, resolveErrs := resolver.New().Resolve([]ast.Stmt{&ast.ExpressionStmt{Expr: expr}})
	require.Empty(t, resolveErrs)

	interp := New(table)
	v, err := interp.InterpretExpr(expr)
	require.NoError(t, err)
	_, ok := v.(runtime.NumberValue)
	assert.True(t, ok)
}

func TestInterpretHadRuntimeErrorIsSticky(t *testing.T) {
	toks, _ := lexer.New(`print 1 + "x";`).Scan()
	stmts, perrs := parser.New(toks).Program()
	require.Empty(t, perrs)
	table, rerrs := resolver.New().Resolve(stmts)
	require.Empty(t, rerrs)

	interp := New(table)
	require.Error(t, interp.Interpret(stmts))
	assert.True(t, interp.HadRuntimeError)
}
