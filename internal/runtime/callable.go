package runtime

import "github.com/sdcook/lox/internal/ast"

// Interp is the narrow slice of the interpreter a Callable needs: enough
// to run a function body in a freshly bound environment and get back
// either its returned value or a propagated runtime error. Defining this
// here — rather than importing the interpreter package — is what keeps
// runtime and interpreter from forming an import cycle: the interpreter
// satisfies Interp structurally, with no import in this direction at all.
type Interp interface {
	ExecuteBlock(body []ast.Stmt, env *Environment) (Value, error)
}

// Callable is implemented by both built-ins and user-defined functions.
type Callable interface {
	Value
	Arity() int
	Call(in Interp, args []Value) (Value, error)
}

// Function is a user-defined function value: the declaration plus the
// environment that was current when the `fun` statement ran. That
// closure is what lets two calls to the same outer function produce two
// independent counters.
type Function struct {
	Decl    *ast.FunctionStmt
	Closure *Environment
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) Call(in Interp, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	return in.ExecuteBlock(f.Decl.Body, env)
}

func (f *Function) String() string { return "<fn " + f.Decl.Name.Lexeme + ">" }

// BuiltIn wraps a native Go function as a Callable with a fixed arity.
type BuiltIn struct {
	Name string
	Ar   int
	Fn   func(args []Value) (Value, error)
}

func (b *BuiltIn) Arity() int { return b.Ar }

func (b *BuiltIn) Call(_ Interp, args []Value) (Value, error) { return b.Fn(args) }

func (b *BuiltIn) String() string { return "<native fn " + b.Name + ">" }
