// Command lox is the thin front end over the four pipeline stages in
// internal/{lexer,parser,resolver,interpreter}: scan, parse, resolve,
// interpret. Ported from the teacher's codecrafters/cmd/main.go, which
// switched on os.Args[1] and called os.Exit directly from deep inside
// the pipeline; here the pipeline packages only return errors, and this
// file is the one place that decides an exit code.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sdcook/lox/internal/diag"
	"github.com/sdcook/lox/internal/interpreter"
	"github.com/sdcook/lox/internal/lexer"
	"github.com/sdcook/lox/internal/parser"
	"github.com/sdcook/lox/internal/printer"
	"github.com/sdcook/lox/internal/resolver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "repl" {
		runRepl()
		return
	}

	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
	filename := os.Args[2]

	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch command {
	case "tokenize":
		os.Exit(tokenize(string(src)))
	case "parse":
		os.Exit(parseCmd(string(src)))
	case "evaluate":
		os.Exit(evaluateCmd(string(src)))
	case "run":
		os.Exit(runCmd(string(src)))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lox [tokenize | parse | evaluate | run] <filename>")
	fmt.Fprintln(os.Stderr, "   or: lox repl")
}

func printDiagnostics(ds []*diag.Diagnostic) {
	for _, d := range ds {
		color.New(color.FgRed).Fprintln(os.Stderr, d.Error())
	}
}

// tokenize prints every scanner diagnostic before the token list, then
// every token it managed to produce regardless — matching the Rust
// original's scanner.errors()-then-scanner.tokens() order (SPEC_FULL §4).
func tokenize(src string) int {
	toks, errs := lexer.New(src).Scan()
	printDiagnostics(errs)
	for _, t := range toks {
		fmt.Println(t.String())
	}
	if len(errs) > 0 {
		return 65
	}
	return 0
}

// parseCmd parses a single expression, not a program — spec.md §6, same
// special-casing as evaluateCmd below.
func parseCmd(src string) int {
	toks, lexErrs := lexer.New(src).Scan()
	printDiagnostics(lexErrs)
	if len(lexErrs) > 0 {
		return 65
	}

	expr, parseErrs := parser.New(toks).Expression()
	printDiagnostics(parseErrs)
	if len(parseErrs) > 0 {
		return 65
	}

	fmt.Println(printer.Print(expr))
	return 0
}

// evaluateCmd parses exactly one expression (not a program) and prints
// its value — the teacher's "evaluate is a special case" comment in
// main.go, preserved verbatim in behavior.
func evaluateCmd(src string) int {
	toks, lexErrs := lexer.New(src).Scan()
	printDiagnostics(lexErrs)
	if len(lexErrs) > 0 {
		return 65
	}

	expr, parseErrs := parser.New(toks).Expression()
	printDiagnostics(parseErrs)
	if len(parseErrs) > 0 {
		return 65
	}

	interp := interpreter.New(resolver.Table{})
	v, err := interp.InterpretExpr(expr)
	if err != nil {
		printRuntimeError(err)
		return 70
	}
	fmt.Println(v.String())
	return 0
}

func runCmd(src string) int {
	toks, lexErrs := lexer.New(src).Scan()
	printDiagnostics(lexErrs)
	if len(lexErrs) > 0 {
		return 65
	}

	stmts, parseErrs := parser.New(toks).Program()
	printDiagnostics(parseErrs)
	if len(parseErrs) > 0 {
		return 65
	}

	table, resolveErrs := resolver.New().Resolve(stmts)
	printDiagnostics(resolveErrs)
	if len(resolveErrs) > 0 {
		return 65
	}

	interp := interpreter.New(table)
	if err := interp.Interpret(stmts); err != nil {
		printRuntimeError(err)
		return 70
	}
	return 0
}

func printRuntimeError(err error) {
	var re *diag.RuntimeError
	if errors.As(err, &re) {
		color.New(color.FgRed).Fprintln(os.Stderr, re.Error())
		return
	}
	color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
}
