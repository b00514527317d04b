package ast

import (
	"fmt"

	"github.com/kievzenit/aotscript/internal/lexer"
)

type BinaryOperator string

const (
	Add BinaryOperator = "+"
	Sub BinaryOperator = "-"
	Mul BinaryOperator = "*"
	Div BinaryOperator = "/"
)

// OperatorFor maps an operator token kind to its BinaryOperator.
func OperatorFor(kind lexer.TokenKind) (BinaryOperator, bool) {
	switch kind {
	case lexer.PLUS:
		return Add, true
	case lexer.MINUS:
		return Sub, true
	case lexer.ASTERISK:
		return Mul, true
	case lexer.SLASH:
		return Div, true
	}

	return "", false
}

type NumberExpr struct {
	StartToken *lexer.Token

	Value int64
}

type VariableExpr struct {
	StartToken *lexer.Token

	Name string
}

type BinaryExpr struct {
	StartToken *lexer.Token

	Left  Expr
	Op    BinaryOperator
	Right Expr
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(e.Left), e.Op, exprString(e.Right))
}

func exprString(expr Expr) string {
	switch expr := expr.(type) {
	case *NumberExpr:
		return fmt.Sprint(expr.Value)
	case *VariableExpr:
		return expr.Name
	case *BinaryExpr:
		return expr.String()
	}

	panic(fmt.Sprintf("exprString(): unknown expression %T", expr))
}

func (e *NumberExpr) FirstToken() *lexer.Token   { return e.StartToken }
func (e *VariableExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *BinaryExpr) FirstToken() *lexer.Token   { return e.StartToken }

func (*NumberExpr) exprNode()   {}
func (*VariableExpr) exprNode() {}
func (*BinaryExpr) exprNode()   {}
