package interpreter

import (
	"strconv"

	"github.com/sdcook/lox/internal/ast"
	"github.com/sdcook/lox/internal/diag"
	"github.com/sdcook/lox/internal/runtime"
	"github.com/sdcook/lox/internal/token"
)

func (in *Interpreter) evalExpr(e ast.Expr) (runtime.Value, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return literalValue(n.Tok), nil

	case *ast.GroupingExpr:
		return in.evalExpr(n.Inner)

	case *ast.UnaryExpr:
		return in.evalUnary(n)

	case *ast.BinaryExpr:
		return in.evalBinary(n)

	case *ast.LogicalExpr:
		return in.evalLogical(n)

	case *ast.VariableExpr:
		return in.lookupVariable(n.Name, n)

	case *ast.AssignExpr:
		v, err := in.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		if err := in.assignVariable(n.Name, n, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.CallExpr:
		return in.evalCall(n)

	default:
		panic("interpreter: unhandled Expr type")
	}
}

// literalValue derives the runtime Value a LiteralExpr denotes from the
// token it was parsed from.
func literalValue(tok token.Token) runtime.Value {
	switch tok.Type {
	case token.TRUE:
		return runtime.BoolValue(true)
	case token.FALSE:
		return runtime.BoolValue(false)
	case token.NIL:
		return runtime.Nil
	case token.STRING:
		s, _ := tok.Literal.(string)
		return runtime.StringValue(s)
	case token.NUMBER:
		if n, ok := tok.Literal.(float64); ok {
			return runtime.NumberValue(n)
		}
		n, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return runtime.NumberValue(n)
	default:
		panic("interpreter: literal token is not a literal kind")
	}
}

// lookupVariable implements the resolution-aware lookup from spec §4.3:
// a resolved use reads at its recorded distance against the *current*
// environment; an unresolved one falls through to globals.
func (in *Interpreter) lookupVariable(name token.Token, use ast.Expr) (runtime.Value, error) {
	if dist, ok := in.locals.Lookup(use); ok {
		v, err := in.env.GetAt(dist, name.Lexeme)
		if err != nil {
			return nil, diag.Runtime(name.Line, "%s", err.Error())
		}
		return v, nil
	}
	v, err := in.Globals.Get(name.Lexeme)
	if err != nil {
		return nil, diag.Runtime(name.Line, "%s", err.Error())
	}
	return v, nil
}

func (in *Interpreter) assignVariable(name token.Token, use ast.Expr, v runtime.Value) error {
	if dist, ok := in.locals.Lookup(use); ok {
		if err := in.env.AssignAt(dist, name.Lexeme, v); err != nil {
			return diag.Runtime(name.Line, "%s", err.Error())
		}
		return nil
	}
	if err := in.Globals.Assign(name.Lexeme, v); err != nil {
		return diag.Runtime(name.Line, "%s", err.Error())
	}
	return nil
}

func (in *Interpreter) evalUnary(n *ast.UnaryExpr) (runtime.Value, error) {
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op.Type {
	case token.BANG:
		return runtime.BoolValue(!runtime.IsTruthy(right)), nil
	case token.MINUS:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, diag.Runtime(n.Op.Line, "Operand must be a number.")
		}
		return -num, nil
	default:
		panic("interpreter: unreachable unary operator")
	}
}

func (in *Interpreter) evalLogical(n *ast.LogicalExpr) (runtime.Value, error) {
	left, err := in.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	switch n.Op.Type {
	case token.OR:
		if runtime.IsTruthy(left) {
			return left, nil
		}
	case token.AND:
		if !runtime.IsTruthy(left) {
			return left, nil
		}
	default:
		panic("interpreter: unreachable logical operator")
	}
	return in.evalExpr(n.Right)
}

func (in *Interpreter) evalBinary(n *ast.BinaryExpr) (runtime.Value, error) {
	left, err := in.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Type {
	case token.PLUS:
		ln, lok := left.(runtime.NumberValue)
		rn, rok := right.(runtime.NumberValue)
		if lok && rok {
			return ln + rn, nil
		}
		ls, lok := left.(runtime.StringValue)
		rs, rok := right.(runtime.StringValue)
		if lok && rok {
			return ls + rs, nil
		}
		return nil, diag.Runtime(n.Op.Line, "Operands must be two numbers or two strings.")

	case token.MINUS:
		l, r, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil

	case token.STAR:
		l, r, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil

	case token.SLASH:
		l, r, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, diag.Runtime(n.Op.Line, "Division by zero.")
		}
		return l / r, nil

	case token.GREATER:
		return compare(n.Op, left, right, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
	case token.GREATER_EQUAL:
		return compare(n.Op, left, right, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })
	case token.LESS:
		return compare(n.Op, left, right, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
	case token.LESS_EQUAL:
		return compare(n.Op, left, right, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })

	case token.EQUAL_EQUAL:
		return runtime.BoolValue(runtime.ValuesEqual(left, right)), nil
	case token.BANG_EQUAL:
		return runtime.BoolValue(!runtime.ValuesEqual(left, right)), nil

	default:
		panic("interpreter: unreachable binary operator")
	}
}

func numberOperands(op token.Token, left, right runtime.Value) (runtime.NumberValue, runtime.NumberValue, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, diag.Runtime(op.Line, "Operands must be numbers.")
	}
	return l, r, nil
}

// compare supports both numeric and (permissively, per spec §9's open
// question) lexicographic string comparison for the four ordering
// operators.
func compare(op token.Token, left, right runtime.Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) (runtime.Value, error) {
	if ln, ok := left.(runtime.NumberValue); ok {
		if rn, ok := right.(runtime.NumberValue); ok {
			return runtime.BoolValue(numCmp(float64(ln), float64(rn))), nil
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return runtime.BoolValue(strCmp(string(ls), string(rs))), nil
		}
	}
	return nil, diag.Runtime(op.Line, "Operands must be numbers or strings.")
}

func (in *Interpreter) evalCall(n *ast.CallExpr) (runtime.Value, error) {
	callee, err := in.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	callable, ok := callee.(runtime.Callable)
	if !ok {
		return nil, diag.Runtime(n.Paren.Line, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, diag.Runtime(n.Paren.Line, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}
	return callable.Call(in, args)
}
