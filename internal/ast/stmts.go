package ast

import "github.com/kievzenit/aotscript/internal/lexer"

type PrintStmt struct {
	StartToken *lexer.Token

	Expr Expr
}

type AssignStmt struct {
	StartToken *lexer.Token

	Name string
	Expr Expr
}

// BlockStmt is what a whole submission parses into.
type BlockStmt struct {
	StartToken *lexer.Token

	Stmts []Stmt
}

func (s *PrintStmt) FirstToken() *lexer.Token  { return s.StartToken }
func (s *AssignStmt) FirstToken() *lexer.Token { return s.StartToken }
func (s *BlockStmt) FirstToken() *lexer.Token  { return s.StartToken }

func (*PrintStmt) stmtNode()  {}
func (*AssignStmt) stmtNode() {}
func (*BlockStmt) stmtNode()  {}
