// Package printer renders an Expr as a fully-parenthesized S-expression,
// the way the `parse` subcommand and the parser's tests use to compare
// ASTs. It is pure and side-effect-free: it never touches a
// resolution table, an environment, or anything that could fail.
package printer

import (
	"strconv"
	"strings"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/token"
)

// Print renders a single expression.
func Print(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		return parenthesize(n.Op.Lexeme, n.Left, n.Right)
	case *ast.LogicalExpr:
		return parenthesize(n.Op.Lexeme, n.Left, n.Right)
	case *ast.UnaryExpr:
		return parenthesize(n.Op.Lexeme, n.Right)
	case *ast.GroupingExpr:
		return parenthesize("group", n.Inner)
	case *ast.LiteralExpr:
		return literalText(n.Tok)
	case *ast.VariableExpr:
		return n.Name.Lexeme
	case *ast.AssignExpr:
		return n.Name.Lexeme + " = " + Print(n.Value)
	case *ast.CallExpr:
		var sb strings.Builder
		sb.WriteString(Print(n.Callee))
		sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Print(a))
		}
		sb.WriteByte(')')
		return sb.String()
	default:
		return "<unknown expr>"
	}
}

func parenthesize(name string, exprs ...ast.Expr) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		sb.WriteString(Print(e))
	}
	sb.WriteByte(')')
	return sb.String()
}

// literalText mirrors stringify but, per spec §4.5, numbers always carry
// their decimal point (123.0, never 123) — unlike the runtime's print
// output, which strips a bare ".0".
func literalText(tok token.Token) string {
	switch tok.Type {
	case token.TRUE:
		return "true"
	case token.FALSE:
		return "false"
	case token.NIL:
		return "nil"
	case token.STRING:
		if s, ok := tok.Literal.(string); ok {
			return s
		}
		return tok.Lexeme
	case token.NUMBER:
		if n, ok := tok.Literal.(float64); ok {
			return token.FormatNumber(n)
		}
		n, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return token.FormatNumber(n)
	default:
		return tok.Lexeme
	}
}
