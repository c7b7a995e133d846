package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/interpreter"
	"github.com/sdcook/lox/internal/lexer"
	"github.com/sdcook/lox/internal/parser"
	"github.com/sdcook/lox/internal/resolver"
)

var (
	promptColor = color.New(color.FgCyan)
	errColor    = color.New(color.FgRed)
	valueColor  = color.New(color.FgYellow)
)

// runRepl is a line-buffered read-eval-print loop over the same four
// pipeline stages `run` uses, grounded in go-mix's repl.Start: readline
// for history and line editing, colorized output, one persistent
// interpreter across the whole session so a `var` or `fun` from an
// earlier line stays visible to later ones.
func runRepl() {
	rl, err := readline.New("lox> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	promptColor.Println("lox repl — Ctrl+D to exit")

	interp := interpreter.New(nil)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF && err != readline.ErrInterrupt {
				fmt.Fprintln(os.Stderr, err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		evalLine(interp, line)
	}
}

func evalLine(interp *interpreter.Interpreter, line string) {
	toks, lexErrs := lexer.New(line).Scan()
	for _, d := range lexErrs {
		errColor.Fprintln(os.Stderr, d.Error())
	}
	if len(lexErrs) > 0 {
		return
	}

	stmts, parseErrs := parser.New(toks).Program()
	if len(parseErrs) == 0 {
		table, resolveErrs := resolver.New().Resolve(stmts)
		for _, d := range resolveErrs {
			errColor.Fprintln(os.Stderr, d.Error())
		}
		if len(resolveErrs) > 0 {
			return
		}
		interp.Merge(table)

		if v, ok := soleExpression(stmts); ok {
			val, err := interp.InterpretExpr(v)
			if err != nil {
				printRuntimeError(err)
				return
			}
			valueColor.Println(val.String())
			return
		}

		if err := interp.Interpret(stmts); err != nil {
			printRuntimeError(err)
		}
		return
	}

	for _, d := range parseErrs {
		errColor.Fprintln(os.Stderr, d.Error())
	}
}

// soleExpression lets the REPL echo a bare expression's value the way an
// interactive session expects (`lox> 1 + 2;` prints `3`), without needing
// the user to type `print`. The line is parsed as a program, so the
// trailing ';' is still required.
func soleExpression(stmts []ast.Stmt) (ast.Expr, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	es, ok := stmts[0].(*ast.ExpressionStmt)
	if !ok {
		return nil, false
	}
	return es.Expr, true
}
