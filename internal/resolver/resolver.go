// Package resolver implements the static pre-pass from spec.md §4.2: for
// every variable-reference expression, compute how many enclosing scopes
// to cross to reach its binding, and store that distance in a Table keyed
// by the expression node's own identity. Ported from the teacher's
// codecrafters/cmd/resolver.go with class/this/super support dropped —
// spec.md's fragment stops before class support — and os.Exit calls
// replaced with accumulated diagnostics, matching the "report and keep
// going" behavior §4.2 asks for.
package resolver

import (
	"github.com/hashicorp/go-multierror"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/diag"
)

// Table maps a variable-use expression to the number of enclosing scopes
// to skip before reaching its defining scope. Keying by ast.Expr — an
// interface holding a pointer — means two unrelated uses of the same
// identifier text never collide; see SPEC_FULL.md's "resolution table
// keying" decision.
type Table map[ast.Expr]int

func (t Table) Lookup(e ast.Expr) (int, bool) {
	d, ok := t[e]
	return d, ok
}

type functionType int

const (
	noFunction functionType = iota
	inFunction
)

type Resolver struct {
	table       Table
	scopes      []map[string]bool
	currentFunc functionType
	errs        *multierror.Error
}

func New() *Resolver {
	return &Resolver{table: make(Table)}
}

// Resolve walks every statement and returns the completed Table plus any
// static diagnostics. A non-empty error list means the caller must not
// proceed to interpretation (spec §7: static errors exit 65 before
// execution).
func (r *Resolver) Resolve(stmts []ast.Stmt) (Table, []*diag.Diagnostic) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
	return r.table, r.diagnostics()
}

func (r *Resolver) diagnostics() []*diag.Diagnostic {
	if r.errs == nil {
		return nil
	}
	out := make([]*diag.Diagnostic, len(r.errs.Errors))
	for i, e := range r.errs.Errors {
		out[i] = e.(*diag.Diagnostic)
	}
	return out
}

func (r *Resolver) report(d *diag.Diagnostic) {
	r.errs = multierror.Append(r.errs, d)
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(map[string]bool)) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare marks `name` as present in the innermost scope but not yet
// initialized. Redeclaring an already-declared local is an error; at
// global scope (empty stack) this is a no-op, so top-level redeclaration
// stays legal.
func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.report(diag.New(line, "Already a variable named '%s' in this scope.", name))
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.table[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: leave unresolved, meaning "global".
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt) {
	enclosing := r.currentFunc
	r.currentFunc = inFunction
	defer func() { r.currentFunc = enclosing }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	for _, s := range fn.Body {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		for _, inner := range n.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()
	case *ast.VarStmt:
		r.declare(n.Name.Lexeme, n.Name.Line)
		if n.Init != nil {
			r.resolveExpr(n.Init)
		}
		r.define(n.Name.Lexeme)
	case *ast.FunctionStmt:
		// Declared+defined before resolving the body, so the function can
		// recurse into its own name.
		r.declare(n.Name.Lexeme, n.Name.Line)
		r.define(n.Name.Lexeme)
		r.resolveFunction(n)
	case *ast.ExpressionStmt:
		r.resolveExpr(n.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(n.Expr)
	case *ast.IfStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)
	case *ast.ReturnStmt:
		if r.currentFunc == noFunction {
			r.report(diag.New(n.Keyword.Line, "Can't return from top-level code."))
		}
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
	default:
		panic("resolver: unhandled Stmt type")
	}
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.report(diag.New(n.Name.Line, "Can't read local variable in its own initializer."))
			}
		}
		r.resolveLocal(n, n.Name.Lexeme)
	case *ast.AssignExpr:
		r.resolveExpr(n.Value)
		r.resolveLocal(n, n.Name.Lexeme)
	case *ast.BinaryExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(n.Right)
	case *ast.GroupingExpr:
		r.resolveExpr(n.Inner)
	case *ast.CallExpr:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}
	case *ast.LiteralExpr:
		// nothing to resolve
	default:
		panic("resolver: unhandled Expr type")
	}
}
