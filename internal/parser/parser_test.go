package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/lexer"
	"github.com/sdcook/lox/internal/printer"
)

func scan(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, errs := lexer.New(src).Scan()
	require.Empty(t, errs)
	stmts, perrs := New(toks).Program()
	require.Empty(t, perrs)
	return stmts
}

func TestParsePrecedence(t *testing.T) {
	toks, _ := lexer.New("1 + 2 * 3;").Scan()
	stmts, errs := New(toks).Program()
	require.Empty(t, errs)
	require.Len(t, stmts, 1)

	es := stmts[0].(*ast.ExpressionStmt)
	assert.Equal(t, "(+ 1.0 (* 2.0 3.0))", printer.Print(es.Expr))
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts := scan(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)

	_, isVar := block.Stmts[0].(*ast.VarStmt)
	assert.True(t, isVar)

	while, ok := block.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)

	whileBody, ok := while.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, whileBody.Stmts, 2)
	_, isPrint := whileBody.Stmts[0].(*ast.PrintStmt)
	assert.True(t, isPrint)
	_, isIncrement := whileBody.Stmts[1].(*ast.ExpressionStmt)
	assert.True(t, isIncrement)
}

func TestParseForMissingConditionDesugarsToTrue(t *testing.T) {
	stmts := scan(t, "for (;;) print 1;")
	block := stmts[0].(*ast.BlockStmt)
	while, ok := block.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	lit, ok := while.Cond.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "true", lit.Tok.Lexeme)
}

func TestParseAssignmentRewritesVariableExpr(t *testing.T) {
	stmts := scan(t, "a = 1;")
	es := stmts[0].(*ast.ExpressionStmt)
	assign, ok := es.Expr.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "a", assign.Name.Lexeme)
}

func TestParseInvalidAssignmentTargetIsReportedNotFatal(t *testing.T) {
	toks, _ := lexer.New("1 = 2; print 3;").Scan()
	stmts, errs := New(toks).Program()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Invalid assignment target")
	// Parsing continued: both statements are present.
	require.Len(t, stmts, 2)
}

func TestParseTooManyArgumentsIsReportedNotFatal(t *testing.T) {
	args := "1"
	for i := 0; i < 255; i++ {
		args += ", 1"
	}
	toks, _ := lexer.New("f(" + args + ");").Scan()
	stmts, errs := New(toks).Program()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't have more than 255 arguments")
	require.Len(t, stmts, 1)
}

func TestParseSynchronizeRecoversAfterError(t *testing.T) {
	toks, _ := lexer.New("var = 1; var b = 2;").Scan()
	stmts, errs := New(toks).Program()
	require.NotEmpty(t, errs)
	// The second, well-formed declaration still parses.
	found := false
	for _, s := range stmts {
		if vd, ok := s.(*ast.VarStmt); ok && vd.Name.Lexeme == "b" {
			found = true
		}
	}
	assert.True(t, found, "parser should have resynchronized and parsed 'var b = 2;'")
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := scan(t, "fun add(a, b) { return a + b; }")
	fd, ok := stmts[0].(*ast.FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fd.Name.Lexeme)
	require.Len(t, fd.Params, 2)
	require.Len(t, fd.Body, 1)
}

func TestParseExpressionSubcommandMode(t *testing.T) {
	toks, _ := lexer.New("1 + 2").Scan()
	expr, errs := New(toks).Expression()
	require.Empty(t, errs)
	assert.Equal(t, "(+ 1.0 2.0)", printer.Print(expr))
}
