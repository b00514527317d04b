package ast

import "github.com/kievzenit/aotscript/internal/lexer"

// AstNode is the common part of every tree node. The node sets are closed:
// only this package can add Expr or Stmt implementations.
type AstNode interface {
	FirstToken() *lexer.Token
}

type Stmt interface {
	AstNode
	stmtNode()
}

type Expr interface {
	AstNode
	exprNode()
}
