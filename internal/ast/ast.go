// Package ast defines the two sum types produced by the parser: Expr and
// Stmt. Nodes are pure data — evaluation, resolution and printing all live
// in their own packages and dispatch on these types with type switches,
// since Go doesn't let a foreign package attach methods to them.
package ast

import "github.com/sdcook/lox/internal/token"

// Expr is implemented by every expression node. The marker method keeps
// arbitrary types from satisfying the interface by accident, and — just as
// importantly — every concrete implementation is a pointer type, so two
// Expr values are `==` only when they are literally the same node. The
// resolver's side table relies on that identity, not on any field value.
type Expr interface {
	exprNode()
}

type Stmt interface {
	stmtNode()
}

type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

type LogicalExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

type UnaryExpr struct {
	Op    token.Token
	Right Expr
}

type GroupingExpr struct {
	Inner Expr
}

// LiteralExpr carries the token it was parsed from; TRUE/FALSE/NIL/NUMBER/
// STRING all derive their runtime value from Tok.Type and Tok.Literal.
type LiteralExpr struct {
	Tok token.Token
}

type VariableExpr struct {
	Name token.Token
}

type AssignExpr struct {
	Name  token.Token
	Value Expr
}

type CallExpr struct {
	Callee Expr
	Paren  token.Token // closing ')' — used for diagnostics
	Args   []Expr
}

func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*UnaryExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}
func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}

type ExpressionStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

type VarStmt struct {
	Name Token
	Init Expr
}

// Token alias avoids a stutter (ast.VarStmt{Name: ast.Token{...}}) while
// keeping token.Token as the single source of truth.
type Token = token.Token

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil when bare `return;`
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
