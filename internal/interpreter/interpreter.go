// Package interpreter implements the tree-walking evaluator from
// spec.md §4.4. It is the one package that ties ast, resolver and
// runtime together: it evaluates expressions against runtime.Value,
// threads runtime.Environment for scoping, and consults a
// resolver.Table to decide whether a variable reference should be read
// through the resolved distance or fall through to globals (spec §4.3).
//
// Ported from the teacher's codecrafters/cmd/evaluate.go, callable.go and
// run.go, which the teacher split across three files with two competing,
// inconsistent signatures (one keyed on *Interpreter, one on bare
// *Environment) left over from earlier chapters. We keep the teacher's
// per-operator dispatch and error messages but consolidate onto a single,
// consistent *Interpreter receiver, and replace os.Exit-on-error with
// returned errors so a caller can decide the process exit code.
package interpreter

import (
	"fmt"
	"time"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/diag"
	"github.com/sdcook/lox/internal/resolver"
	"github.com/sdcook/lox/internal/runtime"
)

// Interpreter evaluates a resolved program against a global environment.
// HadRuntimeError is sticky (spec §3 invariant): once a run sets it, it is
// never cleared by this Interpreter again.
type Interpreter struct {
	Globals         *runtime.Environment
	env             *runtime.Environment
	locals          resolver.Table
	HadRuntimeError bool
}

// New wires up globals (including the `clock` built-in) and points the
// current environment at them.
func New(locals resolver.Table) *Interpreter {
	globals := runtime.NewEnvironment(nil)
	globals.Define("clock", &runtime.BuiltIn{
		Name: "clock",
		Ar:   0,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})
	return &Interpreter{Globals: globals, env: globals, locals: locals}
}

// Interpret runs a program's statements in order. On the first runtime
// error it stops, marks HadRuntimeError, and returns that error — spec
// §4.4: "print one diagnostic ... and stop".
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.execStmt(s); err != nil {
			in.HadRuntimeError = true
			return err
		}
	}
	return nil
}

// Merge folds a resolver.Table produced by resolving a later chunk of
// source into this Interpreter's own table — used by the REPL, which
// resolves and interprets one line at a time but must keep remembering
// every earlier line's resolved distances.
func (in *Interpreter) Merge(t resolver.Table) {
	if in.locals == nil {
		in.locals = make(resolver.Table)
	}
	for e, dist := range t {
		in.locals[e] = dist
	}
}

// InterpretExpr evaluates a single expression — used by the `evaluate`
// subcommand, which only ever parses one expression, never a program.
func (in *Interpreter) InterpretExpr(e ast.Expr) (runtime.Value, error) {
	v, err := in.evalExpr(e)
	if err != nil {
		in.HadRuntimeError = true
		return nil, err
	}
	return v, nil
}

// returnSignal carries a `return` statement's value up through the error
// channel — spec's design note: the signal propagates exactly like an
// error until the nearest enclosing call unwinds it, but it is never
// reported as one.
type returnSignal struct{ value runtime.Value }

func (returnSignal) Error() string { return "return" }

// ExecuteBlock implements runtime.Interp: it is the seam a Function.Call
// uses to run its body in a fresh environment. Unlike execBlock (used
// for a lexical `{ ... }` statement), ExecuteBlock is the function-call
// boundary: it is the one place a returnSignal is caught and converted
// into an ordinary (value, nil) result instead of continuing to
// propagate.
func (in *Interpreter) ExecuteBlock(body []ast.Stmt, env *runtime.Environment) (runtime.Value, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range body {
		if err := in.execStmt(s); err != nil {
			if rs, ok := err.(returnSignal); ok {
				return rs.value, nil
			}
			return nil, err
		}
	}
	return runtime.Nil, nil
}

func (in *Interpreter) execStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExpressionStmt:
		_, err := in.evalExpr(n.Expr)
		return err

	case *ast.PrintStmt:
		v, err := in.evalExpr(n.Expr)
		if err != nil {
			return err
		}
		fmt.Println(v.String())
		return nil

	case *ast.VarStmt:
		var v runtime.Value = runtime.Nil
		if n.Init != nil {
			var err error
			v, err = in.evalExpr(n.Init)
			if err != nil {
				return err
			}
		}
		in.env.Define(n.Name.Lexeme, v)
		return nil

	case *ast.BlockStmt:
		return in.execBlock(n.Stmts, runtime.NewEnvironment(in.env))

	case *ast.IfStmt:
		cond, err := in.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if runtime.IsTruthy(cond) {
			return in.execStmt(n.Then)
		} else if n.Else != nil {
			return in.execStmt(n.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(n.Cond)
			if err != nil {
				return err
			}
			if !runtime.IsTruthy(cond) {
				return nil
			}
			if err := in.execStmt(n.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStmt:
		fn := &runtime.Function{Decl: n, Closure: in.env}
		in.env.Define(n.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		v := runtime.Value(runtime.Nil)
		if n.Value != nil {
			var err error
			v, err = in.evalExpr(n.Value)
			if err != nil {
				return err
			}
		}
		return returnSignal{v}

	default:
		panic("interpreter: unhandled Stmt type")
	}
}

// execBlock runs a lexical block's statements in a child environment,
// restoring the previous environment on every exit path — including an
// error or a propagating returnSignal (spec §5: "block entry/exit
// restores the prior current_env pointer on every exit path").
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *runtime.Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		if err := in.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}
